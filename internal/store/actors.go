package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"concierge-backend/internal/model"
)

// ActorStore persists actors.
type ActorStore interface {
	FindActor(ctx context.Context, id int64) (model.Actor, error)
	FindActorBySubject(ctx context.Context, subject string) (model.Actor, error)
	FindActorByEmail(ctx context.Context, email string) (model.Actor, error)
	ListActors(ctx context.Context) ([]model.Actor, error)
	ListActorsByStatus(ctx context.Context, status model.ActorStatus) ([]model.Actor, error)
	// ListActorsByHotel returns actors assigned to hotelID with the given
	// status and one of roles.
	ListActorsByHotel(ctx context.Context, hotelID int64, status model.ActorStatus, roles []model.Role) ([]model.Actor, error)
	SaveActor(ctx context.Context, a *model.Actor) error
	DeleteActor(ctx context.Context, id int64) error
}

func (s *gormStore) actors(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("RequestedGroup").
		Preload("RequestedHotel").
		Preload("AssignedGroup").
		Preload("AssignedHotel")
}

func (s *gormStore) FindActor(ctx context.Context, id int64) (model.Actor, error) {
	var a model.Actor
	err := s.actors(ctx).First(&a, id).Error
	return a, translate(err)
}

func (s *gormStore) FindActorBySubject(ctx context.Context, subject string) (model.Actor, error) {
	var a model.Actor
	err := s.actors(ctx).Where("subject = ?", subject).First(&a).Error
	return a, translate(err)
}

func (s *gormStore) FindActorByEmail(ctx context.Context, email string) (model.Actor, error) {
	var a model.Actor
	err := s.actors(ctx).Where("LOWER(email) = LOWER(?)", email).First(&a).Error
	return a, translate(err)
}

func (s *gormStore) ListActors(ctx context.Context) ([]model.Actor, error) {
	var actors []model.Actor
	err := s.actors(ctx).Order("id").Find(&actors).Error
	return actors, translate(err)
}

func (s *gormStore) ListActorsByStatus(ctx context.Context, status model.ActorStatus) ([]model.Actor, error) {
	var actors []model.Actor
	err := s.actors(ctx).Where("status = ?", status).Order("id").Find(&actors).Error
	return actors, translate(err)
}

func (s *gormStore) ListActorsByHotel(ctx context.Context, hotelID int64, status model.ActorStatus, roles []model.Role) ([]model.Actor, error) {
	var actors []model.Actor
	if len(roles) == 0 {
		return actors, nil
	}
	err := s.db.WithContext(ctx).
		Where("assigned_hotel_id = ? AND status = ? AND role IN ?", hotelID, status, roles).
		Order("id").
		Find(&actors).Error
	return actors, translate(err)
}

func (s *gormStore) SaveActor(ctx context.Context, a *model.Actor) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Save(a).Error)
}

// DeleteActor removes the actor and its device tokens, and unassigns it from
// any request it was handling.
func (s *gormStore) DeleteActor(ctx context.Context, id int64) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Request{}).Where("assignee_id = ?", id).
			Update("assignee_id", nil).Error; err != nil {
			return fmt.Errorf("failed to unassign requests of actor %d: %w", id, err)
		}
		if err := tx.Where("actor_id = ?", id).Delete(&model.DeviceToken{}).Error; err != nil {
			return fmt.Errorf("failed to delete device tokens of actor %d: %w", id, err)
		}
		res := tx.Delete(&model.Actor{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}))
}

package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"concierge-backend/internal/model"
)

// GuestSessionStore persists anonymous guest sessions.
type GuestSessionStore interface {
	FindSessionByToken(ctx context.Context, token string) (model.GuestSession, error)
	SessionTokenExists(ctx context.Context, token string) (bool, error)
	SaveSession(ctx context.Context, gs *model.GuestSession) error
}

// RequestStore persists guest-service requests.
type RequestStore interface {
	FindRequest(ctx context.Context, id int64) (model.Request, error)
	ListRequests(ctx context.Context) ([]model.Request, error)
	// ListRequestsBySession returns the session's requests, newest first.
	ListRequestsBySession(ctx context.Context, sessionID int64) ([]model.Request, error)
	SaveRequest(ctx context.Context, r *model.Request) error
	DeleteRequest(ctx context.Context, id int64) error
}

func (s *gormStore) FindSessionByToken(ctx context.Context, token string) (model.GuestSession, error) {
	var gs model.GuestSession
	err := s.db.WithContext(ctx).Preload("Room").Where("session_token = ?", token).First(&gs).Error
	return gs, translate(err)
}

func (s *gormStore) SessionTokenExists(ctx context.Context, token string) (bool, error) {
	ok, err := exists(s.db.WithContext(ctx), &model.GuestSession{}, "session_token = ?", token)
	return ok, translate(err)
}

func (s *gormStore) SaveSession(ctx context.Context, gs *model.GuestSession) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Save(gs).Error)
}

func (s *gormStore) requests(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Hotel").
		Preload("Room").
		Preload("Assignee")
}

func (s *gormStore) FindRequest(ctx context.Context, id int64) (model.Request, error) {
	var r model.Request
	err := s.requests(ctx).First(&r, id).Error
	return r, translate(err)
}

func (s *gormStore) ListRequests(ctx context.Context) ([]model.Request, error) {
	var reqs []model.Request
	err := s.requests(ctx).Order("created_at DESC").Order("id DESC").Find(&reqs).Error
	return reqs, translate(err)
}

func (s *gormStore) ListRequestsBySession(ctx context.Context, sessionID int64) ([]model.Request, error) {
	var reqs []model.Request
	err := s.requests(ctx).
		Where("guest_session_id = ?", sessionID).
		Order("created_at DESC").Order("id DESC").
		Find(&reqs).Error
	return reqs, translate(err)
}

func (s *gormStore) SaveRequest(ctx context.Context, r *model.Request) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Save(r).Error)
}

func (s *gormStore) DeleteRequest(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.Request{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

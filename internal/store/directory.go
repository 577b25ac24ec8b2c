package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"concierge-backend/internal/model"
)

// GroupStore persists hotel groups.
type GroupStore interface {
	FindGroup(ctx context.Context, id int64) (model.HotelGroup, error)
	FindGroupByCode(ctx context.Context, code string) (model.HotelGroup, error)
	ListGroups(ctx context.Context) ([]model.HotelGroup, error)
	GroupCodeExists(ctx context.Context, code string) (bool, error)
	SaveGroup(ctx context.Context, g *model.HotelGroup) error
	DeleteGroup(ctx context.Context, id int64) error
}

// HotelStore persists hotels.
type HotelStore interface {
	FindHotel(ctx context.Context, id int64) (model.Hotel, error)
	FindHotelByCode(ctx context.Context, code string) (model.Hotel, error)
	ListHotels(ctx context.Context) ([]model.Hotel, error)
	HotelCodeExists(ctx context.Context, code string) (bool, error)
	SaveHotel(ctx context.Context, h *model.Hotel) error
	DeleteHotel(ctx context.Context, id int64) error
}

// RoomStore persists rooms.
type RoomStore interface {
	FindRoom(ctx context.Context, id int64) (model.Room, error)
	FindRoomByGuestToken(ctx context.Context, token string) (model.Room, error)
	ListRooms(ctx context.Context) ([]model.Room, error)
	RoomTokenExists(ctx context.Context, token string) (bool, error)
	SaveRoom(ctx context.Context, r *model.Room) error
	DeleteRoom(ctx context.Context, id int64) error
}

func (s *gormStore) FindGroup(ctx context.Context, id int64) (model.HotelGroup, error) {
	var g model.HotelGroup
	err := s.db.WithContext(ctx).Preload("Hotels").First(&g, id).Error
	return g, translate(err)
}

func (s *gormStore) FindGroupByCode(ctx context.Context, code string) (model.HotelGroup, error) {
	var g model.HotelGroup
	err := s.db.WithContext(ctx).Where("LOWER(code) = LOWER(?)", code).First(&g).Error
	return g, translate(err)
}

func (s *gormStore) ListGroups(ctx context.Context) ([]model.HotelGroup, error) {
	var groups []model.HotelGroup
	err := s.db.WithContext(ctx).Preload("Hotels").Order("id").Find(&groups).Error
	return groups, translate(err)
}

func (s *gormStore) GroupCodeExists(ctx context.Context, code string) (bool, error) {
	ok, err := exists(s.db.WithContext(ctx), &model.HotelGroup{}, "LOWER(code) = LOWER(?)", code)
	return ok, translate(err)
}

func (s *gormStore) SaveGroup(ctx context.Context, g *model.HotelGroup) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Save(g).Error)
}

// DeleteGroup removes the group together with every hotel it owns.
func (s *gormStore) DeleteGroup(ctx context.Context, id int64) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var hotelIDs []int64
		if err := tx.Model(&model.Hotel{}).Where("hotel_group_id = ?", id).Pluck("id", &hotelIDs).Error; err != nil {
			return fmt.Errorf("failed to list hotels of group %d: %w", id, err)
		}
		if err := deleteHotels(tx, hotelIDs); err != nil {
			return err
		}
		if err := tx.Model(&model.Actor{}).Where("requested_group_id = ?", id).
			Update("requested_group_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Actor{}).Where("assigned_group_id = ?", id).
			Update("assigned_group_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.HotelGroup{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete group %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}))
}

func (s *gormStore) FindHotel(ctx context.Context, id int64) (model.Hotel, error) {
	var h model.Hotel
	err := s.db.WithContext(ctx).Preload("HotelGroup").First(&h, id).Error
	return h, translate(err)
}

func (s *gormStore) FindHotelByCode(ctx context.Context, code string) (model.Hotel, error) {
	var h model.Hotel
	err := s.db.WithContext(ctx).Preload("HotelGroup").Where("LOWER(code) = LOWER(?)", code).First(&h).Error
	return h, translate(err)
}

func (s *gormStore) ListHotels(ctx context.Context) ([]model.Hotel, error) {
	var hotels []model.Hotel
	err := s.db.WithContext(ctx).Preload("HotelGroup").Order("id").Find(&hotels).Error
	return hotels, translate(err)
}

func (s *gormStore) HotelCodeExists(ctx context.Context, code string) (bool, error) {
	ok, err := exists(s.db.WithContext(ctx), &model.Hotel{}, "LOWER(code) = LOWER(?)", code)
	return ok, translate(err)
}

func (s *gormStore) SaveHotel(ctx context.Context, h *model.Hotel) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Save(h).Error)
}

func (s *gormStore) DeleteHotel(ctx context.Context, id int64) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Hotel{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return deleteHotels(tx, []int64{id})
	}))
}

// deleteHotels removes hotels and everything hanging off them: requests,
// guest sessions and rooms. Actor references to the hotels are cleared.
func deleteHotels(tx *gorm.DB, hotelIDs []int64) error {
	if len(hotelIDs) == 0 {
		return nil
	}
	roomIDs := tx.Model(&model.Room{}).Select("id").Where("hotel_id IN ?", hotelIDs)

	if err := tx.Where("hotel_id IN ?", hotelIDs).Delete(&model.Request{}).Error; err != nil {
		return fmt.Errorf("failed to delete requests: %w", err)
	}
	if err := tx.Where("room_id IN (?)", roomIDs).Delete(&model.GuestSession{}).Error; err != nil {
		return fmt.Errorf("failed to delete guest sessions: %w", err)
	}
	if err := tx.Where("hotel_id IN ?", hotelIDs).Delete(&model.Room{}).Error; err != nil {
		return fmt.Errorf("failed to delete rooms: %w", err)
	}
	if err := tx.Model(&model.Actor{}).Where("requested_hotel_id IN ?", hotelIDs).
		Update("requested_hotel_id", nil).Error; err != nil {
		return err
	}
	if err := tx.Model(&model.Actor{}).Where("assigned_hotel_id IN ?", hotelIDs).
		Update("assigned_hotel_id", nil).Error; err != nil {
		return err
	}
	if err := tx.Where("id IN ?", hotelIDs).Delete(&model.Hotel{}).Error; err != nil {
		return fmt.Errorf("failed to delete hotels: %w", err)
	}
	return nil
}

func (s *gormStore) FindRoom(ctx context.Context, id int64) (model.Room, error) {
	var r model.Room
	err := s.db.WithContext(ctx).Preload("Hotel.HotelGroup").First(&r, id).Error
	return r, translate(err)
}

func (s *gormStore) FindRoomByGuestToken(ctx context.Context, token string) (model.Room, error) {
	var r model.Room
	err := s.db.WithContext(ctx).Preload("Hotel.HotelGroup").
		Where("guest_access_token = ?", token).First(&r).Error
	return r, translate(err)
}

func (s *gormStore) ListRooms(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	err := s.db.WithContext(ctx).Preload("Hotel.HotelGroup").Order("id").Find(&rooms).Error
	return rooms, translate(err)
}

func (s *gormStore) RoomTokenExists(ctx context.Context, token string) (bool, error) {
	ok, err := exists(s.db.WithContext(ctx), &model.Room{}, "guest_access_token = ?", token)
	return ok, translate(err)
}

func (s *gormStore) SaveRoom(ctx context.Context, r *model.Room) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Save(r).Error)
}

func (s *gormStore) DeleteRoom(ctx context.Context, id int64) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", id).Delete(&model.Request{}).Error; err != nil {
			return fmt.Errorf("failed to delete requests of room %d: %w", id, err)
		}
		if err := tx.Where("room_id = ?", id).Delete(&model.GuestSession{}).Error; err != nil {
			return fmt.Errorf("failed to delete guest sessions of room %d: %w", id, err)
		}
		res := tx.Delete(&model.Room{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}))
}

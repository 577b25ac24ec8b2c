package store

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"concierge-backend/internal/model"
)

// DeviceTokenStore persists push destinations of actors.
type DeviceTokenStore interface {
	FindDeviceToken(ctx context.Context, token string) (model.DeviceToken, error)
	ListDeviceTokens(ctx context.Context) ([]model.DeviceToken, error)
	ListActiveDeviceTokens(ctx context.Context, actorIDs []int64) ([]model.DeviceToken, error)
	SaveDeviceToken(ctx context.Context, dt *model.DeviceToken) error
	// DeactivateDeviceToken marks the token inactive. Unknown tokens are ignored.
	DeactivateDeviceToken(ctx context.Context, token string, now time.Time) error
}

func (s *gormStore) FindDeviceToken(ctx context.Context, token string) (model.DeviceToken, error) {
	var dt model.DeviceToken
	err := s.db.WithContext(ctx).Preload("Actor").Where("token = ?", token).First(&dt).Error
	return dt, translate(err)
}

func (s *gormStore) ListDeviceTokens(ctx context.Context) ([]model.DeviceToken, error) {
	var tokens []model.DeviceToken
	err := s.db.WithContext(ctx).Preload("Actor").Order("id").Find(&tokens).Error
	return tokens, translate(err)
}

func (s *gormStore) ListActiveDeviceTokens(ctx context.Context, actorIDs []int64) ([]model.DeviceToken, error) {
	var tokens []model.DeviceToken
	if len(actorIDs) == 0 {
		return tokens, nil
	}
	err := s.db.WithContext(ctx).
		Preload("Actor").
		Where("actor_id IN ? AND active = ?", actorIDs, true).
		Order("id").
		Find(&tokens).Error
	return tokens, translate(err)
}

func (s *gormStore) SaveDeviceToken(ctx context.Context, dt *model.DeviceToken) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Save(dt).Error)
}

func (s *gormStore) DeactivateDeviceToken(ctx context.Context, token string, now time.Time) error {
	err := s.db.WithContext(ctx).
		Model(&model.DeviceToken{}).
		Where("token = ?", token).
		Updates(map[string]any{"active": false, "last_seen_at": now}).Error
	return translate(err)
}

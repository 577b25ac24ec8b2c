// Package devices keeps the registry of push destinations owned by actors.
package devices

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"concierge-backend/internal/access"
	"concierge-backend/internal/apperr"
	"concierge-backend/internal/model"
	"concierge-backend/internal/parse"
	"concierge-backend/internal/store"
)

type Store interface {
	store.ActorStore
	store.DeviceTokenStore
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(s Store) *Service {
	return &Service{store: s, now: time.Now}
}

// Register upserts token for the actor. A token already known under another
// actor is moved to the caller and reactivated.
func (s *Service) Register(ctx context.Context, actor *model.Actor, token, platform string) (model.DeviceToken, error) {
	token = strings.TrimSpace(token)
	platform = parse.Platform(platform)
	if token == "" || platform == "" {
		return model.DeviceToken{}, apperr.Validationf("token and platform are required")
	}

	dt, err := s.store.FindDeviceToken(ctx, token)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return model.DeviceToken{}, fmt.Errorf("failed to load device token: %w", err)
	}
	now := s.now()
	dt.Token = token
	dt.ActorID = actor.ID
	dt.Platform = platform
	dt.Active = true
	dt.LastSeenAt = now

	if err := s.store.SaveDeviceToken(ctx, &dt); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return model.DeviceToken{}, apperr.Conflictf("device token was registered concurrently")
		}
		return model.DeviceToken{}, fmt.Errorf("failed to save device token: %w", err)
	}
	return s.store.FindDeviceToken(ctx, token)
}

// Unregister deactivates token. Unknown tokens are ignored.
func (s *Service) Unregister(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return apperr.Validationf("token is required")
	}
	if err := s.store.DeactivateDeviceToken(ctx, token, s.now()); err != nil {
		return fmt.Errorf("failed to deactivate device token: %w", err)
	}
	return nil
}

// ListForActor returns the active tokens of the actor with the given id.
func (s *Service) ListForActor(ctx context.Context, actor *model.Actor, ownerID int64) ([]model.DeviceToken, error) {
	owner, err := s.store.FindActor(ctx, ownerID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFoundf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user %d: %w", ownerID, err)
	}
	if !access.CanReadActor(actor, &owner) {
		return nil, apperr.NotFoundf("user not found")
	}

	tokens, err := s.store.ListActiveDeviceTokens(ctx, []int64{owner.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list device tokens: %w", err)
	}
	return tokens, nil
}

func (s *Service) ListAll(ctx context.Context, actor *model.Actor) ([]model.DeviceToken, error) {
	if access.TierOf(actor.Role) != access.TierSuperAdmin {
		return nil, apperr.Forbiddenf("superadmin access required")
	}
	tokens, err := s.store.ListDeviceTokens(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list device tokens: %w", err)
	}
	return tokens, nil
}

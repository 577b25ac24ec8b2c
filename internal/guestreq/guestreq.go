// Package guestreq manages service requests: anonymous submission from a
// room's guest link and staff-side creation and handling.
package guestreq

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"concierge-backend/internal/access"
	"concierge-backend/internal/apperr"
	"concierge-backend/internal/model"
	"concierge-backend/internal/parse"
	"concierge-backend/internal/store"
	"concierge-backend/internal/tokens"
)

// Store is the storage the request lifecycle needs.
type Store interface {
	store.HotelStore
	store.RoomStore
	store.ActorStore
	store.GuestSessionStore
	store.RequestStore
}

// Notifier is told about every newly persisted request. It must not block
// on delivery failures and never reports them.
type Notifier interface {
	NotifyNewRequest(ctx context.Context, req model.Request)
}

// Service implements the request lifecycle.
type Service struct {
	store    Store
	notifier Notifier
	now      func() time.Time
}

// NewService creates a request service.
func NewService(s Store, n Notifier) *Service {
	return &Service{store: s, notifier: n, now: time.Now}
}

// RoomContext is the public view of a room reached through its guest link.
type RoomContext struct {
	Room         model.Room
	RequestTypes []model.RequestType
}

// SessionBootstrap is returned when a guest opens or resumes a session.
type SessionBootstrap struct {
	SessionToken string
	Context      RoomContext
	Requests     []model.Request
}

// GuestRequestInput is an anonymous submission.
type GuestRequestInput struct {
	SessionToken string
	Type         model.RequestType
	Message      *string
}

// WriteInput is a staff-side create or update.
type WriteInput struct {
	HotelID     *int64
	RoomID      *int64
	AssigneeID  *int64
	Type        model.RequestType
	Message     *string
	Status      model.RequestStatus
	CreatedAt   *time.Time
	AcceptedAt  *time.Time
	CompletedAt *time.Time
	Rating      *int
	Comments    *string
}

// RoomContext resolves a guest-access token.
func (s *Service) RoomContext(ctx context.Context, roomToken string) (RoomContext, error) {
	room, err := s.findRoomByToken(ctx, roomToken)
	if err != nil {
		return RoomContext{}, err
	}
	return RoomContext{Room: room, RequestTypes: model.KnownRequestTypes()}, nil
}

func (s *Service) findRoomByToken(ctx context.Context, roomToken string) (model.Room, error) {
	roomToken = strings.TrimSpace(roomToken)
	if roomToken == "" {
		return model.Room{}, apperr.NotFoundf("room not found")
	}
	room, err := s.store.FindRoomByGuestToken(ctx, roomToken)
	if errors.Is(err, store.ErrNotFound) {
		return model.Room{}, apperr.NotFoundf("room not found")
	}
	if err != nil {
		return model.Room{}, fmt.Errorf("failed to load room: %w", err)
	}
	return room, nil
}

// StartSession resumes the guest's session when it is bound to this room,
// otherwise mints a new one.
func (s *Service) StartSession(ctx context.Context, roomToken, sessionToken string) (SessionBootstrap, error) {
	room, err := s.findRoomByToken(ctx, roomToken)
	if err != nil {
		return SessionBootstrap{}, err
	}

	session, err := s.resumeOrCreateSession(ctx, room, strings.TrimSpace(sessionToken))
	if err != nil {
		return SessionBootstrap{}, err
	}

	requests, err := s.store.ListRequestsBySession(ctx, session.ID)
	if err != nil {
		return SessionBootstrap{}, fmt.Errorf("failed to list session requests: %w", err)
	}

	return SessionBootstrap{
		SessionToken: session.SessionToken,
		Context:      RoomContext{Room: room, RequestTypes: model.KnownRequestTypes()},
		Requests:     requests,
	}, nil
}

func (s *Service) resumeOrCreateSession(ctx context.Context, room model.Room, sessionToken string) (model.GuestSession, error) {
	now := s.now()
	if sessionToken != "" {
		existing, err := s.store.FindSessionByToken(ctx, sessionToken)
		switch {
		case err == nil && existing.RoomID == room.ID:
			existing.LastSeenAt = now
			if err := s.store.SaveSession(ctx, &existing); err != nil {
				return model.GuestSession{}, fmt.Errorf("failed to refresh guest session: %w", err)
			}
			return existing, nil
		case err != nil && !errors.Is(err, store.ErrNotFound):
			return model.GuestSession{}, fmt.Errorf("failed to load guest session: %w", err)
		}
	}

	for attempt := 1; ; attempt++ {
		token, err := tokens.Mint(ctx, s.store.SessionTokenExists)
		if err != nil {
			return model.GuestSession{}, err
		}
		session := model.GuestSession{
			SessionToken: token,
			RoomID:       room.ID,
			CreatedAt:    now,
			LastSeenAt:   now,
		}
		err = s.store.SaveSession(ctx, &session)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, store.ErrDuplicate) || attempt >= tokens.MaxAttempts {
			return model.GuestSession{}, fmt.Errorf("failed to create guest session: %w", err)
		}
		log.Printf("Guest session token collided on insert, retrying (attempt %d)", attempt)
	}
}

// CreateGuestRequest records an anonymous request for the room behind
// roomToken. The session must belong to that same room.
func (s *Service) CreateGuestRequest(ctx context.Context, roomToken string, in GuestRequestInput) (model.Request, error) {
	if in.Type == "" || parse.Blank(in.SessionToken) {
		return model.Request{}, apperr.Validationf("type and sessionToken are required")
	}

	room, err := s.findRoomByToken(ctx, roomToken)
	if err != nil {
		return model.Request{}, err
	}

	session, err := s.store.FindSessionByToken(ctx, strings.TrimSpace(in.SessionToken))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return model.Request{}, fmt.Errorf("failed to load guest session: %w", err)
	}
	if err != nil || session.RoomID != room.ID {
		return model.Request{}, apperr.Validationf("session is not valid for this room")
	}

	now := s.now()
	session.LastSeenAt = now
	if err := s.store.SaveSession(ctx, &session); err != nil {
		return model.Request{}, fmt.Errorf("failed to refresh guest session: %w", err)
	}

	req := model.Request{
		HotelID:        room.HotelID,
		RoomID:         room.ID,
		Type:           in.Type,
		Message:        parse.OptionalText(in.Message),
		Status:         model.RequestStatusNew,
		CreatedAt:      &now,
		GuestSessionID: &session.ID,
	}
	return s.persistNew(ctx, &req)
}

// Create records a request on behalf of staff.
func (s *Service) Create(ctx context.Context, actor *model.Actor, in WriteInput) (model.Request, error) {
	hotel, err := s.resolveHotel(ctx, in.HotelID)
	if err != nil {
		return model.Request{}, err
	}
	room, err := s.resolveRoom(ctx, in.RoomID)
	if err != nil {
		return model.Request{}, err
	}
	if !access.CanManageHotel(actor, hotel) {
		return model.Request{}, hotelNotFound(hotel.ID)
	}
	if room.HotelID != hotel.ID {
		return model.Request{}, apperr.Validationf("room %d does not belong to hotel %d", room.ID, hotel.ID)
	}

	assigneeID, err := s.resolveAssignee(ctx, in.AssigneeID)
	if err != nil {
		return model.Request{}, err
	}

	req := model.Request{HotelID: hotel.ID, RoomID: room.ID, AssigneeID: assigneeID}
	applyWrite(&req, in)
	if req.Status == "" {
		req.Status = model.RequestStatusNew
	}
	if req.CreatedAt == nil {
		now := s.now()
		req.CreatedAt = &now
	}
	return s.persistNew(ctx, &req)
}

func (s *Service) persistNew(ctx context.Context, req *model.Request) (model.Request, error) {
	if err := s.store.SaveRequest(ctx, req); err != nil {
		return model.Request{}, fmt.Errorf("failed to save request: %w", err)
	}
	saved, err := s.store.FindRequest(ctx, req.ID)
	if err != nil {
		return model.Request{}, fmt.Errorf("failed to reload request %d: %w", req.ID, err)
	}
	if s.notifier != nil {
		s.notifier.NotifyNewRequest(ctx, saved)
	}
	return saved, nil
}

// Update overwrites a request the caller can manage. Status, timestamps,
// rating and comments are taken from the input as given.
func (s *Service) Update(ctx context.Context, actor *model.Actor, id int64, in WriteInput) (model.Request, error) {
	req, err := s.Get(ctx, actor, id)
	if err != nil {
		return model.Request{}, err
	}

	hotel := req.Hotel
	if in.HotelID != nil {
		if hotel, err = s.resolveHotel(ctx, in.HotelID); err != nil {
			return model.Request{}, err
		}
		if !access.CanManageHotel(actor, hotel) {
			return model.Request{}, hotelNotFound(hotel.ID)
		}
	}
	room := req.Room
	if in.RoomID != nil {
		if room, err = s.resolveRoom(ctx, in.RoomID); err != nil {
			return model.Request{}, err
		}
	}
	if room.HotelID != hotel.ID {
		return model.Request{}, apperr.Validationf("room %d does not belong to hotel %d", room.ID, hotel.ID)
	}

	assigneeID, err := s.resolveAssignee(ctx, in.AssigneeID)
	if err != nil {
		return model.Request{}, err
	}

	req.HotelID = hotel.ID
	req.RoomID = room.ID
	req.AssigneeID = assigneeID
	applyWrite(&req, in)

	if err := s.store.SaveRequest(ctx, &req); err != nil {
		return model.Request{}, fmt.Errorf("failed to save request: %w", err)
	}
	return s.store.FindRequest(ctx, req.ID)
}

func applyWrite(req *model.Request, in WriteInput) {
	req.Type = in.Type
	req.Message = in.Message
	req.Status = in.Status
	req.CreatedAt = in.CreatedAt
	req.AcceptedAt = in.AcceptedAt
	req.CompletedAt = in.CompletedAt
	req.Rating = in.Rating
	req.Comments = in.Comments
}

// Delete removes a request the caller can manage.
func (s *Service) Delete(ctx context.Context, actor *model.Actor, id int64) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	if err := s.store.DeleteRequest(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFoundf("request not found")
		}
		return fmt.Errorf("failed to delete request %d: %w", id, err)
	}
	return nil
}

// Get returns a request the caller can manage. Others are reported missing.
func (s *Service) Get(ctx context.Context, actor *model.Actor, id int64) (model.Request, error) {
	req, err := s.store.FindRequest(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return model.Request{}, apperr.NotFoundf("request not found")
	}
	if err != nil {
		return model.Request{}, fmt.Errorf("failed to load request %d: %w", id, err)
	}
	if !access.CanManageRequest(actor, req) {
		return model.Request{}, apperr.NotFoundf("request not found")
	}
	return req, nil
}

// List returns every request the caller can see, newest first.
func (s *Service) List(ctx context.Context, actor *model.Actor) ([]model.Request, error) {
	all, err := s.store.ListRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return access.FilterRequests(actor, all), nil
}

func (s *Service) resolveHotel(ctx context.Context, id *int64) (model.Hotel, error) {
	if id == nil {
		return model.Hotel{}, apperr.Validationf("hotelId is required")
	}
	hotel, err := s.store.FindHotel(ctx, *id)
	if errors.Is(err, store.ErrNotFound) {
		return model.Hotel{}, hotelNotFound(*id)
	}
	if err != nil {
		return model.Hotel{}, fmt.Errorf("failed to load hotel %d: %w", *id, err)
	}
	return hotel, nil
}

// hotelNotFound is returned both for unknown hotels and for hotels the
// caller cannot manage.
func hotelNotFound(id int64) error {
	return apperr.Validationf("hotel %d not found", id)
}

func (s *Service) resolveRoom(ctx context.Context, id *int64) (model.Room, error) {
	if id == nil {
		return model.Room{}, apperr.Validationf("roomId is required")
	}
	room, err := s.store.FindRoom(ctx, *id)
	if errors.Is(err, store.ErrNotFound) {
		return model.Room{}, apperr.Validationf("room %d not found", *id)
	}
	if err != nil {
		return model.Room{}, fmt.Errorf("failed to load room %d: %w", *id, err)
	}
	return room, nil
}

// resolveAssignee keeps id only when it names an active hotel-level or
// admin actor. Anything else is dropped without error.
func (s *Service) resolveAssignee(ctx context.Context, id *int64) (*int64, error) {
	if id == nil {
		return nil, nil
	}
	a, err := s.store.FindActor(ctx, *id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load assignee %d: %w", *id, err)
	}
	if !a.Active || !assignable(a.Role) {
		return nil, nil
	}
	return &a.ID, nil
}

func assignable(role model.Role) bool {
	switch role {
	case model.RoleHotelAdmin, model.RoleAdmin, model.RoleStaff:
		return true
	case model.RoleSuperAdmin, model.RoleHotelGroupAdmin, model.RoleNone:
		return false
	}
	return false
}

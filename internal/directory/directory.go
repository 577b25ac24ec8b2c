// Package directory manages the tenancy tree: hotel groups, their hotels
// and the rooms of each hotel.
package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"concierge-backend/internal/access"
	"concierge-backend/internal/apperr"
	"concierge-backend/internal/model"
	"concierge-backend/internal/parse"
	"concierge-backend/internal/store"
	"concierge-backend/internal/tokens"
)

const maxCodeSuffix = 9999

// Store is the storage the directory needs.
type Store interface {
	store.GroupStore
	store.HotelStore
	store.RoomStore
}

// Service implements directory management.
type Service struct {
	store Store
}

// NewService creates a directory service.
func NewService(s Store) *Service {
	return &Service{store: s}
}

type GroupInput struct {
	Name string
	Code string
}

type HotelInput struct {
	GroupID *int64
	Name    string
	Code    string
	City    string
	Country string
}

type RoomInput struct {
	HotelID *int64
	Number  string
	Floor   *int
}

// generateCode returns code normalized, or when blank the first free
// "<slug>-NNN" derived from name.
func generateCode(ctx context.Context, code, name, fallback string, taken func(context.Context, string) (bool, error)) (string, error) {
	if code = parse.Code(code); code != "" {
		return code, nil
	}
	base := parse.Slug(name)
	if base == "" {
		base = fallback
	}
	for i := 1; i <= maxCodeSuffix; i++ {
		candidate := parse.CodeCandidate(base, i)
		exists, err := taken(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check code %q: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", apperr.Conflictf("no free code left for %q", base)
}

func requireSuperAdmin(actor *model.Actor) error {
	if actor == nil || access.TierOf(actor.Role) != access.TierSuperAdmin {
		return apperr.Forbiddenf("superadmin access required")
	}
	return nil
}

func saveFailed(err error, what string) error {
	if errors.Is(err, store.ErrDuplicate) {
		return apperr.Conflictf("%s already exists", what)
	}
	return fmt.Errorf("failed to save %s: %w", what, err)
}

// ListGroups returns the groups visible to the actor.
func (s *Service) ListGroups(ctx context.Context, actor *model.Actor) ([]model.HotelGroup, error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list hotel groups: %w", err)
	}
	return access.FilterGroups(actor, groups), nil
}

func (s *Service) GetGroup(ctx context.Context, actor *model.Actor, id int64) (model.HotelGroup, error) {
	g, err := s.store.FindGroup(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return model.HotelGroup{}, apperr.NotFoundf("hotel group not found")
	}
	if err != nil {
		return model.HotelGroup{}, fmt.Errorf("failed to load hotel group %d: %w", id, err)
	}
	if !access.CanManageGroup(actor, g) {
		return model.HotelGroup{}, apperr.NotFoundf("hotel group not found")
	}
	return g, nil
}

func (s *Service) CreateGroup(ctx context.Context, actor *model.Actor, in GroupInput) (model.HotelGroup, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return model.HotelGroup{}, err
	}
	if parse.Blank(in.Name) {
		return model.HotelGroup{}, apperr.Validationf("name is required")
	}
	code, err := generateCode(ctx, in.Code, in.Name, "group", s.store.GroupCodeExists)
	if err != nil {
		return model.HotelGroup{}, err
	}
	g := model.HotelGroup{Name: strings.TrimSpace(in.Name), Code: code}
	if err := s.store.SaveGroup(ctx, &g); err != nil {
		return model.HotelGroup{}, saveFailed(err, "hotel group")
	}
	return s.store.FindGroup(ctx, g.ID)
}

func (s *Service) UpdateGroup(ctx context.Context, actor *model.Actor, id int64, in GroupInput) (model.HotelGroup, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return model.HotelGroup{}, err
	}
	g, err := s.GetGroup(ctx, actor, id)
	if err != nil {
		return model.HotelGroup{}, err
	}
	if parse.Blank(in.Name) {
		return model.HotelGroup{}, apperr.Validationf("name is required")
	}
	code, err := generateCode(ctx, in.Code, in.Name, "group", s.store.GroupCodeExists)
	if err != nil {
		return model.HotelGroup{}, err
	}
	g.Name = strings.TrimSpace(in.Name)
	g.Code = code
	if err := s.store.SaveGroup(ctx, &g); err != nil {
		return model.HotelGroup{}, saveFailed(err, "hotel group")
	}
	return s.store.FindGroup(ctx, g.ID)
}

// DeleteGroup removes the group and, with it, all of its hotels.
func (s *Service) DeleteGroup(ctx context.Context, actor *model.Actor, id int64) error {
	if err := requireSuperAdmin(actor); err != nil {
		return err
	}
	if err := s.store.DeleteGroup(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFoundf("hotel group not found")
		}
		return fmt.Errorf("failed to delete hotel group %d: %w", id, err)
	}
	return nil
}

// ListHotels returns the hotels visible to the actor.
func (s *Service) ListHotels(ctx context.Context, actor *model.Actor) ([]model.Hotel, error) {
	hotels, err := s.store.ListHotels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list hotels: %w", err)
	}
	return access.FilterHotels(actor, hotels), nil
}

func (s *Service) GetHotel(ctx context.Context, actor *model.Actor, id int64) (model.Hotel, error) {
	h, err := s.store.FindHotel(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return model.Hotel{}, apperr.NotFoundf("hotel not found")
	}
	if err != nil {
		return model.Hotel{}, fmt.Errorf("failed to load hotel %d: %w", id, err)
	}
	if !access.CanManageHotel(actor, h) {
		return model.Hotel{}, apperr.NotFoundf("hotel not found")
	}
	return h, nil
}

// resolveGroup loads the group a hotel should belong to. ok is false when
// the id is absent or unknown.
func (s *Service) resolveGroup(ctx context.Context, id *int64) (model.HotelGroup, bool, error) {
	if id == nil {
		return model.HotelGroup{}, false, nil
	}
	g, err := s.store.FindGroup(ctx, *id)
	if errors.Is(err, store.ErrNotFound) {
		return model.HotelGroup{}, false, nil
	}
	if err != nil {
		return model.HotelGroup{}, false, fmt.Errorf("failed to load hotel group %d: %w", *id, err)
	}
	return g, true, nil
}

func (s *Service) CreateHotel(ctx context.Context, actor *model.Actor, in HotelInput) (model.Hotel, error) {
	group, ok, err := s.resolveGroup(ctx, in.GroupID)
	if err != nil {
		return model.Hotel{}, err
	}
	// A group outside the caller's scope reads as missing.
	if !ok || !access.CanManageGroup(actor, group) {
		return model.Hotel{}, apperr.Validationf("hotel group not found")
	}
	if parse.Blank(in.Name) {
		return model.Hotel{}, apperr.Validationf("name is required")
	}
	code, err := generateCode(ctx, in.Code, in.Name, "hotel", s.store.HotelCodeExists)
	if err != nil {
		return model.Hotel{}, err
	}

	h := model.Hotel{
		HotelGroupID: group.ID,
		Name:         strings.TrimSpace(in.Name),
		Code:         code,
		City:         strings.TrimSpace(in.City),
		Country:      strings.TrimSpace(in.Country),
	}
	if err := s.store.SaveHotel(ctx, &h); err != nil {
		return model.Hotel{}, saveFailed(err, "hotel")
	}
	return s.store.FindHotel(ctx, h.ID)
}

// UpdateHotel overwrites the hotel's fields. It moves to another group only
// when that group resolves and the actor manages it.
func (s *Service) UpdateHotel(ctx context.Context, actor *model.Actor, id int64, in HotelInput) (model.Hotel, error) {
	h, err := s.GetHotel(ctx, actor, id)
	if err != nil {
		return model.Hotel{}, err
	}
	if parse.Blank(in.Name) {
		return model.Hotel{}, apperr.Validationf("name is required")
	}
	code, err := generateCode(ctx, in.Code, in.Name, "hotel", s.store.HotelCodeExists)
	if err != nil {
		return model.Hotel{}, err
	}

	h.Name = strings.TrimSpace(in.Name)
	h.Code = code
	h.City = strings.TrimSpace(in.City)
	h.Country = strings.TrimSpace(in.Country)

	group, ok, err := s.resolveGroup(ctx, in.GroupID)
	if err != nil {
		return model.Hotel{}, err
	}
	if ok && access.CanManageGroup(actor, group) {
		h.HotelGroupID = group.ID
	}

	if err := s.store.SaveHotel(ctx, &h); err != nil {
		return model.Hotel{}, saveFailed(err, "hotel")
	}
	return s.store.FindHotel(ctx, h.ID)
}

func (s *Service) DeleteHotel(ctx context.Context, actor *model.Actor, id int64) error {
	if _, err := s.GetHotel(ctx, actor, id); err != nil {
		return err
	}
	if err := s.store.DeleteHotel(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFoundf("hotel not found")
		}
		return fmt.Errorf("failed to delete hotel %d: %w", id, err)
	}
	return nil
}

// ListRooms returns the rooms visible to the actor.
func (s *Service) ListRooms(ctx context.Context, actor *model.Actor) ([]model.Room, error) {
	rooms, err := s.store.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return access.FilterRooms(actor, rooms), nil
}

func (s *Service) GetRoom(ctx context.Context, actor *model.Actor, id int64) (model.Room, error) {
	r, err := s.store.FindRoom(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return model.Room{}, apperr.NotFoundf("room not found")
	}
	if err != nil {
		return model.Room{}, fmt.Errorf("failed to load room %d: %w", id, err)
	}
	if !access.CanManageRoom(actor, r) {
		return model.Room{}, apperr.NotFoundf("room not found")
	}
	return r, nil
}

func (s *Service) resolveHotel(ctx context.Context, id *int64) (model.Hotel, bool, error) {
	if id == nil {
		return model.Hotel{}, false, nil
	}
	h, err := s.store.FindHotel(ctx, *id)
	if errors.Is(err, store.ErrNotFound) {
		return model.Hotel{}, false, nil
	}
	if err != nil {
		return model.Hotel{}, false, fmt.Errorf("failed to load hotel %d: %w", *id, err)
	}
	return h, true, nil
}

func (s *Service) CreateRoom(ctx context.Context, actor *model.Actor, in RoomInput) (model.Room, error) {
	hotel, ok, err := s.resolveHotel(ctx, in.HotelID)
	if err != nil {
		return model.Room{}, err
	}
	if !ok || !access.CanManageHotel(actor, hotel) {
		return model.Room{}, apperr.Validationf("hotel not found")
	}
	if parse.Blank(in.Number) {
		return model.Room{}, apperr.Validationf("number is required")
	}

	r := model.Room{HotelID: hotel.ID, Number: strings.TrimSpace(in.Number), Floor: in.Floor}
	if err := s.saveRoom(ctx, &r); err != nil {
		return model.Room{}, err
	}
	return s.store.FindRoom(ctx, r.ID)
}

// UpdateRoom overwrites number and floor. It moves to another hotel only
// when that hotel resolves and the actor manages it.
func (s *Service) UpdateRoom(ctx context.Context, actor *model.Actor, id int64, in RoomInput) (model.Room, error) {
	r, err := s.GetRoom(ctx, actor, id)
	if err != nil {
		return model.Room{}, err
	}
	if parse.Blank(in.Number) {
		return model.Room{}, apperr.Validationf("number is required")
	}
	r.Number = strings.TrimSpace(in.Number)
	r.Floor = in.Floor

	hotel, ok, err := s.resolveHotel(ctx, in.HotelID)
	if err != nil {
		return model.Room{}, err
	}
	if ok && access.CanManageHotel(actor, hotel) {
		r.HotelID = hotel.ID
	}

	if err := s.saveRoom(ctx, &r); err != nil {
		return model.Room{}, err
	}
	return s.store.FindRoom(ctx, r.ID)
}

// saveRoom gives the room a guest-access token if it has none and saves
// it, minting a new token when the insert loses a race on the token.
func (s *Service) saveRoom(ctx context.Context, r *model.Room) error {
	keepToken := strings.TrimSpace(r.GuestAccessToken) != ""
	for attempt := 1; ; attempt++ {
		if !keepToken {
			token, err := tokens.Mint(ctx, s.store.RoomTokenExists)
			if err != nil {
				return err
			}
			r.GuestAccessToken = token
		}

		err := s.store.SaveRoom(ctx, r)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrDuplicate) {
			return saveFailed(err, "room")
		}
		if keepToken || attempt >= tokens.MaxAttempts {
			return apperr.Conflictf("room %s already exists in this hotel", r.Number)
		}
		collided, checkErr := s.store.RoomTokenExists(ctx, r.GuestAccessToken)
		if checkErr != nil {
			return fmt.Errorf("failed to check room token: %w", checkErr)
		}
		if !collided {
			return apperr.Conflictf("room %s already exists in this hotel", r.Number)
		}
	}
}

func (s *Service) DeleteRoom(ctx context.Context, actor *model.Actor, id int64) error {
	if _, err := s.GetRoom(ctx, actor, id); err != nil {
		return err
	}
	if err := s.store.DeleteRoom(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFoundf("room not found")
		}
		return fmt.Errorf("failed to delete room %d: %w", id, err)
	}
	return nil
}

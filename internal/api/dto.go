package api

import (
	"time"

	"concierge-backend/internal/guestreq"
	"concierge-backend/internal/model"
)

// GroupSummary is a hotel group without its hotels.
type GroupSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type HotelSummary struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Code    string `json:"code"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type RoomSummary struct {
	ID     int64  `json:"id"`
	Number string `json:"number"`
	Floor  *int   `json:"floor"`
}

// HotelGroupResponse represents the API response for a hotel group.
type HotelGroupResponse struct {
	ID     int64          `json:"id"`
	Name   string         `json:"name"`
	Code   string         `json:"code"`
	Hotels []HotelSummary `json:"hotels"`
}

// HotelResponse represents the API response for a hotel.
type HotelResponse struct {
	HotelSummary
	HotelGroup GroupSummary `json:"hotelGroup"`
}

// RoomResponse represents the API response for a room.
type RoomResponse struct {
	RoomSummary
	GuestAccessToken string       `json:"guestAccessToken"`
	Hotel            HotelSummary `json:"hotel"`
	HotelGroup       GroupSummary `json:"hotelGroup"`
}

// ActorResponse represents the API response for an actor.
type ActorResponse struct {
	ID             int64                `json:"id"`
	Subject        string               `json:"subject"`
	Email          string               `json:"email"`
	Name           string               `json:"name"`
	Phone          *string              `json:"phone"`
	Status         model.ActorStatus    `json:"status"`
	Role           *model.Role          `json:"role"`
	StaffCategory  *model.StaffCategory `json:"staffCategory"`
	Active         bool                 `json:"active"`
	RequestedGroup *GroupSummary        `json:"requestedHotelGroup"`
	RequestedHotel *HotelSummary        `json:"requestedHotel"`
	AssignedGroup  *GroupSummary        `json:"assignedHotelGroup"`
	AssignedHotel  *HotelSummary        `json:"assignedHotel"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}

type AssigneeSummary struct {
	ID            int64                `json:"id"`
	Name          string               `json:"name"`
	Email         string               `json:"email"`
	Role          model.Role           `json:"role"`
	StaffCategory *model.StaffCategory `json:"staffCategory"`
}

// RequestResponse represents the API response for a request as staff see it.
type RequestResponse struct {
	ID          int64               `json:"id"`
	Hotel       HotelSummary        `json:"hotel"`
	Room        RoomSummary         `json:"room"`
	Type        model.RequestType   `json:"type"`
	Message     *string             `json:"message"`
	Status      model.RequestStatus `json:"status"`
	CreatedAt   *time.Time          `json:"createdAt"`
	AcceptedAt  *time.Time          `json:"acceptedAt"`
	CompletedAt *time.Time          `json:"completedAt"`
	Assignee    *AssigneeSummary    `json:"assignee"`
	Rating      *int                `json:"rating"`
	Comments    *string             `json:"comments"`
}

// GuestRequestResponse is a request as its guest sees it.
type GuestRequestResponse struct {
	ID          int64               `json:"id"`
	Type        model.RequestType   `json:"type"`
	Message     *string             `json:"message"`
	Status      model.RequestStatus `json:"status"`
	CreatedAt   *time.Time          `json:"createdAt"`
	AcceptedAt  *time.Time          `json:"acceptedAt"`
	CompletedAt *time.Time          `json:"completedAt"`
	Rating      *int                `json:"rating"`
	Comments    *string             `json:"comments"`
}

// GuestContextResponse is the public page behind a room's QR code.
type GuestContextResponse struct {
	GuestAccessToken      string              `json:"guestAccessToken"`
	HotelGroup            GroupSummary        `json:"hotelGroup"`
	Hotel                 HotelSummary        `json:"hotel"`
	Room                  RoomSummary         `json:"room"`
	AvailableRequestTypes []model.RequestType `json:"availableRequestTypes"`
}

type GuestSessionResponse struct {
	SessionToken string                 `json:"sessionToken"`
	Context      GuestContextResponse   `json:"context"`
	Requests     []GuestRequestResponse `json:"requests"`
}

// DeviceTokenResponse never echoes the token itself.
type DeviceTokenResponse struct {
	ID         int64     `json:"id"`
	ActorID    int64     `json:"actorId"`
	ActorEmail string    `json:"actorEmail"`
	Platform   string    `json:"platform"`
	Active     bool      `json:"active"`
	LastSeenAt time.Time `json:"lastSeenAt"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func groupSummary(g model.HotelGroup) GroupSummary {
	return GroupSummary{ID: g.ID, Name: g.Name, Code: g.Code}
}

func hotelSummary(h model.Hotel) HotelSummary {
	return HotelSummary{ID: h.ID, Name: h.Name, Code: h.Code, City: h.City, Country: h.Country}
}

func roomSummary(r model.Room) RoomSummary {
	return RoomSummary{ID: r.ID, Number: r.Number, Floor: r.Floor}
}

func newGroupResponse(g model.HotelGroup) HotelGroupResponse {
	hotels := make([]HotelSummary, 0, len(g.Hotels))
	for _, h := range g.Hotels {
		hotels = append(hotels, hotelSummary(h))
	}
	return HotelGroupResponse{ID: g.ID, Name: g.Name, Code: g.Code, Hotels: hotels}
}

func newHotelResponse(h model.Hotel) HotelResponse {
	return HotelResponse{HotelSummary: hotelSummary(h), HotelGroup: groupSummary(h.HotelGroup)}
}

func newRoomResponse(r model.Room) RoomResponse {
	return RoomResponse{
		RoomSummary:      roomSummary(r),
		GuestAccessToken: r.GuestAccessToken,
		Hotel:            hotelSummary(r.Hotel),
		HotelGroup:       groupSummary(r.Hotel.HotelGroup),
	}
}

func optionalGroup(g *model.HotelGroup) *GroupSummary {
	if g == nil {
		return nil
	}
	s := groupSummary(*g)
	return &s
}

func optionalHotel(h *model.Hotel) *HotelSummary {
	if h == nil {
		return nil
	}
	s := hotelSummary(*h)
	return &s
}

func newActorResponse(a model.Actor) ActorResponse {
	resp := ActorResponse{
		ID:             a.ID,
		Subject:        a.Subject,
		Email:          a.Email,
		Name:           a.Name,
		Phone:          a.Phone,
		Status:         a.Status,
		StaffCategory:  a.StaffCategory,
		Active:         a.Active,
		RequestedGroup: optionalGroup(a.RequestedGroup),
		RequestedHotel: optionalHotel(a.RequestedHotel),
		AssignedGroup:  optionalGroup(a.AssignedGroup),
		AssignedHotel:  optionalHotel(a.AssignedHotel),
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
	if a.Role != model.RoleNone {
		role := a.Role
		resp.Role = &role
	}
	return resp
}

func newRequestResponse(r model.Request) RequestResponse {
	resp := RequestResponse{
		ID:          r.ID,
		Hotel:       hotelSummary(r.Hotel),
		Room:        roomSummary(r.Room),
		Type:        r.Type,
		Message:     r.Message,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		AcceptedAt:  r.AcceptedAt,
		CompletedAt: r.CompletedAt,
		Rating:      r.Rating,
		Comments:    r.Comments,
	}
	if a := r.Assignee; a != nil {
		resp.Assignee = &AssigneeSummary{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role, StaffCategory: a.StaffCategory}
	}
	return resp
}

func newGuestRequestResponse(r model.Request) GuestRequestResponse {
	return GuestRequestResponse{
		ID:          r.ID,
		Type:        r.Type,
		Message:     r.Message,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		AcceptedAt:  r.AcceptedAt,
		CompletedAt: r.CompletedAt,
		Rating:      r.Rating,
		Comments:    r.Comments,
	}
}

func newGuestContextResponse(rc guestreq.RoomContext) GuestContextResponse {
	return GuestContextResponse{
		GuestAccessToken:      rc.Room.GuestAccessToken,
		HotelGroup:            groupSummary(rc.Room.Hotel.HotelGroup),
		Hotel:                 hotelSummary(rc.Room.Hotel),
		Room:                  roomSummary(rc.Room),
		AvailableRequestTypes: rc.RequestTypes,
	}
}

func newDeviceTokenResponse(dt model.DeviceToken) DeviceTokenResponse {
	return DeviceTokenResponse{
		ID:         dt.ID,
		ActorID:    dt.ActorID,
		ActorEmail: dt.Actor.Email,
		Platform:   dt.Platform,
		Active:     dt.Active,
		LastSeenAt: dt.LastSeenAt,
		CreatedAt:  dt.CreatedAt,
		UpdatedAt:  dt.UpdatedAt,
	}
}

// mapSlice converts every element of items with fn.
func mapSlice[T, R any](items []T, fn func(T) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}

package model

import "strings"

// Role is the stored access label of an Actor. HOTEL_GROUP_ADMIN and ADMIN
// are two historical labels for the same tier.
type Role string

const (
	RoleNone            Role = ""
	RoleSuperAdmin      Role = "SUPERADMIN"
	RoleHotelGroupAdmin Role = "HOTEL_GROUP_ADMIN"
	RoleAdmin           Role = "ADMIN"
	RoleHotelAdmin      Role = "HOTEL_ADMIN"
	RoleStaff           Role = "STAFF"
)

// ParseRole accepts any stored label; RoleNone is not a valid input.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleSuperAdmin, RoleHotelGroupAdmin, RoleAdmin, RoleHotelAdmin, RoleStaff:
		return r, true
	case RoleNone:
		return RoleNone, false
	}
	return RoleNone, false
}

// ActorStatus is the onboarding lifecycle state of an Actor.
type ActorStatus string

const (
	StatusPendingApproval ActorStatus = "PENDING_APPROVAL"
	StatusActive          ActorStatus = "ACTIVE"
	StatusRejected        ActorStatus = "REJECTED"
	StatusDisabled        ActorStatus = "DISABLED"
)

func ParseActorStatus(s string) (ActorStatus, bool) {
	switch st := ActorStatus(s); st {
	case StatusPendingApproval, StatusActive, StatusRejected, StatusDisabled:
		return st, true
	}
	return "", false
}

// StaffCategory is only meaningful for actors with RoleStaff.
type StaffCategory string

const (
	StaffReceptionist StaffCategory = "RECEPTIONIST"
	StaffHousekeeping StaffCategory = "HOUSEKEEPING"
	StaffMaintenance  StaffCategory = "MAINTENANCE"
	StaffRoomService  StaffCategory = "ROOM_SERVICE"
	StaffConcierge    StaffCategory = "CONCIERGE"
	StaffManager      StaffCategory = "MANAGER"
)

func ParseStaffCategory(s string) (StaffCategory, bool) {
	switch c := StaffCategory(s); c {
	case StaffReceptionist, StaffHousekeeping, StaffMaintenance, StaffRoomService, StaffConcierge, StaffManager:
		return c, true
	}
	return "", false
}

// RequestType is open: unknown values are stored as given.
type RequestType string

const (
	RequestRoomService  RequestType = "ROOM_SERVICE"
	RequestHousekeeping RequestType = "HOUSEKEEPING"
	RequestTowels       RequestType = "TOWELS"
	RequestAmenities    RequestType = "AMENITIES"
	RequestMaintenance  RequestType = "MAINTENANCE"
	RequestLateCheckout RequestType = "LATE_CHECKOUT"
	RequestWakeUpCall   RequestType = "WAKE_UP_CALL"
	RequestTaxi         RequestType = "TAXI"
	RequestOther        RequestType = "OTHER"
)

// ParseRequestType trims and upper-cases s. Unknown types are kept.
func ParseRequestType(s string) RequestType {
	return RequestType(strings.ToUpper(strings.TrimSpace(s)))
}

// KnownRequestTypes is the list advertised to guests.
func KnownRequestTypes() []RequestType {
	return []RequestType{
		RequestRoomService,
		RequestHousekeeping,
		RequestTowels,
		RequestAmenities,
		RequestMaintenance,
		RequestLateCheckout,
		RequestWakeUpCall,
		RequestTaxi,
		RequestOther,
	}
}

// RequestStatus is the progress of a Request. Transitions are not guarded.
type RequestStatus string

const (
	RequestStatusNew        RequestStatus = "NEW"
	RequestStatusAccepted   RequestStatus = "ACCEPTED"
	RequestStatusInProgress RequestStatus = "IN_PROGRESS"
	RequestStatusCompleted  RequestStatus = "COMPLETED"
	RequestStatusCancelled  RequestStatus = "CANCELLED"
)

func ParseRequestStatus(s string) (RequestStatus, bool) {
	switch st := RequestStatus(s); st {
	case RequestStatusNew, RequestStatusAccepted, RequestStatusInProgress, RequestStatusCompleted, RequestStatusCancelled:
		return st, true
	}
	return "", false
}

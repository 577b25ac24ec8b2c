// Package access decides what an actor may see and change. Every function is
// pure: callers load the entities and pass them in.
//
// Scope containment always compares group or hotel ids. A missing assignment
// on either side never matches.
package access

import (
	"slices"

	"concierge-backend/internal/model"
)

// Tier is an actor's position in the authorization hierarchy.
type Tier int

const (
	TierNone Tier = iota
	TierSuperAdmin
	TierGroupAdmin
	TierHotelAdmin
	TierStaff
)

func (t Tier) String() string {
	switch t {
	case TierNone:
		return "none"
	case TierSuperAdmin:
		return "superadmin"
	case TierGroupAdmin:
		return "group-admin"
	case TierHotelAdmin:
		return "hotel-admin"
	case TierStaff:
		return "staff"
	}
	return "unknown"
}

// TierOf maps a stored role label to its tier.
func TierOf(role model.Role) Tier {
	switch role {
	case model.RoleSuperAdmin:
		return TierSuperAdmin
	case model.RoleHotelGroupAdmin, model.RoleAdmin:
		return TierGroupAdmin
	case model.RoleHotelAdmin:
		return TierHotelAdmin
	case model.RoleStaff:
		return TierStaff
	case model.RoleNone:
		return TierNone
	}
	return TierNone
}

func tierOf(actor *model.Actor) Tier {
	if actor == nil {
		return TierNone
	}
	return TierOf(actor.Role)
}

// Assignment is a resolved scope for a role: a group, a hotel, or neither.
type Assignment struct {
	Group *model.HotelGroup
	Hotel *model.Hotel
}

func sameID(a *int64, b int64) bool {
	return a != nil && *a == b
}

func sameRef(a, b *int64) bool {
	return a != nil && b != nil && *a == *b
}

// inScope reports whether a hotel, identified by its id and its group id,
// is inside the actor's scope.
func inScope(actor *model.Actor, hotelID, groupID int64) bool {
	switch tierOf(actor) {
	case TierSuperAdmin:
		return true
	case TierGroupAdmin:
		return sameID(actor.AssignedGroupID, groupID)
	case TierHotelAdmin, TierStaff:
		return sameID(actor.AssignedHotelID, hotelID)
	case TierNone:
		return false
	}
	return false
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// FilterGroups returns the groups the actor may see. Hotel-level actors see none.
func FilterGroups(actor *model.Actor, groups []model.HotelGroup) []model.HotelGroup {
	if tierOf(actor) == TierSuperAdmin {
		return slices.Clone(groups)
	}
	return filter(groups, func(g model.HotelGroup) bool { return CanManageGroup(actor, g) })
}

func FilterHotels(actor *model.Actor, hotels []model.Hotel) []model.Hotel {
	if tierOf(actor) == TierSuperAdmin {
		return slices.Clone(hotels)
	}
	return filter(hotels, func(h model.Hotel) bool { return CanManageHotel(actor, h) })
}

// FilterRooms expects each room's Hotel to be loaded.
func FilterRooms(actor *model.Actor, rooms []model.Room) []model.Room {
	if tierOf(actor) == TierSuperAdmin {
		return slices.Clone(rooms)
	}
	return filter(rooms, func(r model.Room) bool { return CanManageRoom(actor, r) })
}

// FilterRequests expects each request's Hotel to be loaded.
func FilterRequests(actor *model.Actor, requests []model.Request) []model.Request {
	if tierOf(actor) == TierSuperAdmin {
		return slices.Clone(requests)
	}
	return filter(requests, func(r model.Request) bool { return CanManageRequest(actor, r) })
}

func CanManageGroup(actor *model.Actor, group model.HotelGroup) bool {
	switch tierOf(actor) {
	case TierSuperAdmin:
		return true
	case TierGroupAdmin:
		return sameID(actor.AssignedGroupID, group.ID)
	case TierHotelAdmin, TierStaff, TierNone:
		return false
	}
	return false
}

func CanManageHotel(actor *model.Actor, hotel model.Hotel) bool {
	return inScope(actor, hotel.ID, hotel.HotelGroupID)
}

func CanManageRoom(actor *model.Actor, room model.Room) bool {
	return inScope(actor, room.HotelID, room.Hotel.HotelGroupID)
}

func CanManageRequest(actor *model.Actor, req model.Request) bool {
	return inScope(actor, req.HotelID, req.Hotel.HotelGroupID)
}

// CanReadActor reports whether actor may see target.
func CanReadActor(actor, target *model.Actor) bool {
	if actor == nil || target == nil {
		return false
	}
	if actor.ID == target.ID {
		return true
	}
	switch tierOf(actor) {
	case TierSuperAdmin:
		return true
	case TierGroupAdmin:
		return sameRef(actor.AssignedGroupID, target.AssignedGroupID)
	case TierHotelAdmin, TierStaff:
		return sameRef(actor.AssignedHotelID, target.AssignedHotelID)
	case TierNone:
		return false
	}
	return false
}

// CanManagePendingActor compares the actor's assignment against what the
// target requested at registration.
func CanManagePendingActor(actor, target *model.Actor) bool {
	if target == nil {
		return false
	}
	switch tierOf(actor) {
	case TierSuperAdmin:
		return true
	case TierGroupAdmin:
		return sameRef(actor.AssignedGroupID, target.RequestedGroupID)
	case TierHotelAdmin:
		return sameRef(actor.AssignedHotelID, target.RequestedHotelID)
	case TierStaff, TierNone:
		return false
	}
	return false
}

// CanAssignRole reports whether actor may hand out role. Admins can only
// assign tiers strictly below their own.
func CanAssignRole(actor *model.Actor, role model.Role) bool {
	switch tierOf(actor) {
	case TierSuperAdmin:
		return true
	case TierGroupAdmin:
		return role == model.RoleHotelAdmin || role == model.RoleStaff
	case TierHotelAdmin:
		return role == model.RoleStaff
	case TierStaff, TierNone:
		return false
	}
	return false
}

// CanManageAssignment reports whether the resolved assignment for role lies
// within the actor's own scope.
func CanManageAssignment(actor *model.Actor, role model.Role, asg Assignment) bool {
	switch tierOf(actor) {
	case TierSuperAdmin:
		return true
	case TierGroupAdmin:
		return (role == model.RoleHotelAdmin || role == model.RoleStaff) &&
			asg.Hotel != nil &&
			sameID(actor.AssignedGroupID, asg.Hotel.HotelGroupID)
	case TierHotelAdmin:
		return role == model.RoleStaff &&
			asg.Hotel != nil &&
			sameID(actor.AssignedHotelID, asg.Hotel.ID)
	case TierStaff, TierNone:
		return false
	}
	return false
}

// CanApprove gates the approval of a pending target into role with the
// given resolved assignment.
func CanApprove(actor, target *model.Actor, role model.Role, asg Assignment) bool {
	if !CanManagePendingActor(actor, target) {
		return false
	}
	return CanManageAssignment(actor, role, asg)
}

// Package onboarding runs the actor lifecycle: self-registration, approval
// or rejection by an administrator, and later profile and role management.
package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"concierge-backend/internal/access"
	"concierge-backend/internal/apperr"
	"concierge-backend/internal/model"
	"concierge-backend/internal/parse"
	"concierge-backend/internal/store"
)

// Store is the storage the workflow needs.
type Store interface {
	store.GroupStore
	store.HotelStore
	store.ActorStore
}

// Service implements the onboarding workflow.
type Service struct {
	store Store
}

// NewService creates a new onboarding service.
func NewService(s Store) *Service {
	return &Service{store: s}
}

// RegisterInput is a self-registration. Exactly one of GroupCode and
// HotelCode must be set.
type RegisterInput struct {
	Subject   string
	Email     string
	Name      string
	Phone     *string
	GroupCode string
	HotelCode string
}

// BootstrapInput describes the initial super administrator.
type BootstrapInput struct {
	Subject string
	Email   string
	Name    string
	Phone   *string
}

// ApproveInput grants a role to a pending actor. GroupID is used by group
// admin roles, HotelID by hotel admin and staff roles.
type ApproveInput struct {
	Role          model.Role
	StaffCategory *model.StaffCategory
	Active        *bool
	GroupID       *int64
	HotelID       *int64
}

// UpdateInput changes an existing actor. Nil fields keep their value.
type UpdateInput struct {
	Name          *string
	Phone         *string
	Role          *model.Role
	StaffCategory *model.StaffCategory
	Active        *bool
	Status        *model.ActorStatus
	GroupID       *int64
	HotelID       *int64
}

// Register creates or refreshes the caller's own actor record. subject is
// the authenticated identity; a subject in the input must match it.
func (s *Service) Register(ctx context.Context, subject string, in RegisterInput) (model.Actor, error) {
	subject = strings.TrimSpace(subject)
	bodySubject := strings.TrimSpace(in.Subject)
	if bodySubject == "" {
		bodySubject = subject
	}
	if subject == "" || bodySubject != subject {
		return model.Actor{}, apperr.Validationf("identity does not match the authenticated caller")
	}
	if parse.Blank(in.Email) || parse.Blank(in.Name) {
		return model.Actor{}, apperr.Validationf("email and name are required")
	}
	groupCode, hotelCode := parse.Code(in.GroupCode), parse.Code(in.HotelCode)
	if (groupCode == "") == (hotelCode == "") {
		return model.Actor{}, apperr.Validationf("exactly one of hotelGroupCode and hotelCode is required")
	}

	var requestedGroupID, requestedHotelID *int64
	if groupCode != "" {
		group, err := s.store.FindGroupByCode(ctx, groupCode)
		if err != nil {
			return model.Actor{}, lookupFailed(err, "hotel group code %q", groupCode)
		}
		requestedGroupID = &group.ID
	} else {
		hotel, err := s.store.FindHotelByCode(ctx, hotelCode)
		if err != nil {
			return model.Actor{}, lookupFailed(err, "hotel code %q", hotelCode)
		}
		requestedHotelID = &hotel.ID
		groupID := hotel.HotelGroupID
		requestedGroupID = &groupID
	}

	email := parse.Email(in.Email)
	actor, isNew, err := s.resolveIdentity(ctx, subject, email)
	if err != nil {
		return model.Actor{}, err
	}

	actor.Subject = subject
	actor.Email = email
	actor.Name = strings.TrimSpace(in.Name)
	actor.Phone = parse.OptionalText(in.Phone)
	actor.RequestedGroupID = requestedGroupID
	actor.RequestedHotelID = requestedHotelID
	if actor.Status == model.StatusPendingApproval {
		actor.ClearAssignment()
	}
	if isNew {
		actor.Status = model.StatusPendingApproval
		actor.Role = model.RoleNone
		actor.StaffCategory = nil
		actor.Active = true
		actor.ClearAssignment()
	}

	return s.save(ctx, &actor)
}

// BootstrapSuperAdmin upserts an active super administrator with no scope.
func (s *Service) BootstrapSuperAdmin(ctx context.Context, in BootstrapInput) (model.Actor, error) {
	subject := strings.TrimSpace(in.Subject)
	if subject == "" || parse.Blank(in.Email) || parse.Blank(in.Name) {
		return model.Actor{}, apperr.Validationf("subject, email and name are required")
	}

	email := parse.Email(in.Email)
	actor, _, err := s.resolveIdentity(ctx, subject, email)
	if err != nil {
		return model.Actor{}, err
	}

	actor.Subject = subject
	actor.Email = email
	actor.Name = strings.TrimSpace(in.Name)
	actor.Phone = parse.OptionalText(in.Phone)
	actor.RequestedGroupID = nil
	actor.RequestedHotelID = nil
	actor.ClearAssignment()
	actor.Status = model.StatusActive
	actor.Role = model.RoleSuperAdmin
	actor.StaffCategory = nil
	actor.Active = true

	saved, err := s.save(ctx, &actor)
	if err == nil {
		log.Printf("Bootstrapped superadmin %s (actor %d)", saved.Email, saved.ID)
	}
	return saved, err
}

// resolveIdentity finds the record matching subject or email. Both matching
// different records is a conflict.
func (s *Service) resolveIdentity(ctx context.Context, subject, email string) (model.Actor, bool, error) {
	bySubject, errSubject := s.store.FindActorBySubject(ctx, subject)
	if errSubject != nil && !errors.Is(errSubject, store.ErrNotFound) {
		return model.Actor{}, false, fmt.Errorf("failed to look up actor by subject: %w", errSubject)
	}
	byEmail, errEmail := s.store.FindActorByEmail(ctx, email)
	if errEmail != nil && !errors.Is(errEmail, store.ErrNotFound) {
		return model.Actor{}, false, fmt.Errorf("failed to look up actor by email: %w", errEmail)
	}

	switch {
	case errSubject == nil && errEmail == nil:
		if bySubject.ID != byEmail.ID {
			return model.Actor{}, false, apperr.Conflictf("identity and email belong to different accounts")
		}
		return bySubject, false, nil
	case errSubject == nil:
		return bySubject, false, nil
	case errEmail == nil:
		return byEmail, false, nil
	default:
		return model.Actor{}, true, nil
	}
}

// Approve activates a target with the requested role and assignment.
func (s *Service) Approve(ctx context.Context, actor *model.Actor, targetID int64, in ApproveInput) (model.Actor, error) {
	if !validApprovalShape(in) {
		return model.Actor{}, apperr.Validationf("role and assignment do not match")
	}

	target, err := s.store.FindActor(ctx, targetID)
	if err != nil {
		return model.Actor{}, lookupHidden(err, "actor")
	}

	asg, err := s.resolveApproval(ctx, in)
	if err != nil {
		return model.Actor{}, err
	}

	if !access.CanApprove(actor, &target, in.Role, asg) {
		return model.Actor{}, apperr.Forbiddenf("not allowed to approve this actor with role %s", in.Role)
	}

	target.Status = model.StatusActive
	target.Role = in.Role
	target.StaffCategory = nil
	if in.Role == model.RoleStaff {
		target.StaffCategory = in.StaffCategory
	}
	target.Active = in.Active == nil || *in.Active
	applyAssignment(&target, asg)

	return s.save(ctx, &target)
}

func validApprovalShape(in ApproveInput) bool {
	switch in.Role {
	case model.RoleSuperAdmin:
		return in.GroupID == nil && in.HotelID == nil
	case model.RoleHotelGroupAdmin, model.RoleAdmin:
		return in.GroupID != nil && in.HotelID == nil
	case model.RoleHotelAdmin:
		return in.HotelID != nil
	case model.RoleStaff:
		return in.HotelID != nil && in.StaffCategory != nil
	case model.RoleNone:
		return false
	}
	return false
}

func (s *Service) resolveApproval(ctx context.Context, in ApproveInput) (access.Assignment, error) {
	switch in.Role {
	case model.RoleHotelGroupAdmin, model.RoleAdmin:
		group, err := s.store.FindGroup(ctx, *in.GroupID)
		if err != nil {
			return access.Assignment{}, lookupFailed(err, "hotel group %d", *in.GroupID)
		}
		return access.Assignment{Group: &group}, nil
	case model.RoleHotelAdmin, model.RoleStaff:
		hotel, err := s.store.FindHotel(ctx, *in.HotelID)
		if err != nil {
			return access.Assignment{}, lookupFailed(err, "hotel %d", *in.HotelID)
		}
		group := hotel.HotelGroup
		return access.Assignment{Group: &group, Hotel: &hotel}, nil
	case model.RoleSuperAdmin, model.RoleNone:
		return access.Assignment{}, nil
	}
	return access.Assignment{}, nil
}

// Reject closes a pending registration.
func (s *Service) Reject(ctx context.Context, actor *model.Actor, targetID int64) (model.Actor, error) {
	target, err := s.store.FindActor(ctx, targetID)
	if err != nil {
		return model.Actor{}, lookupHidden(err, "actor")
	}
	return s.reject(ctx, actor, &target)
}

func (s *Service) reject(ctx context.Context, actor, target *model.Actor) (model.Actor, error) {
	if target.Status != model.StatusPendingApproval {
		return model.Actor{}, apperr.Validationf("actor is not pending approval")
	}
	if !access.CanManagePendingActor(actor, target) {
		return model.Actor{}, apperr.Forbiddenf("not allowed to reject this actor")
	}
	target.Status = model.StatusRejected
	target.Active = false
	return s.save(ctx, target)
}

// Update changes a target's profile, role and scope. Setting REJECTED on a
// pending target takes the reject path instead.
func (s *Service) Update(ctx context.Context, actor *model.Actor, targetID int64, in UpdateInput) (model.Actor, error) {
	target, err := s.store.FindActor(ctx, targetID)
	if err != nil {
		return model.Actor{}, lookupHidden(err, "actor")
	}

	if target.Status == model.StatusPendingApproval && in.Status != nil && *in.Status == model.StatusRejected {
		return s.reject(ctx, actor, &target)
	}

	if !access.CanReadActor(actor, &target) {
		return model.Actor{}, apperr.NotFoundf("actor not found")
	}

	if in.Name != nil && !parse.Blank(*in.Name) {
		target.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		target.Phone = parse.OptionalText(in.Phone)
	}

	nextRole := target.Role
	if in.Role != nil {
		nextRole = *in.Role
	}
	if nextRole == model.RoleNone {
		return model.Actor{}, apperr.Validationf("role is required")
	}
	if !access.CanAssignRole(actor, nextRole) {
		return model.Actor{}, apperr.Forbiddenf("not allowed to assign role %s", nextRole)
	}

	asg, err := s.resolveUpdate(ctx, nextRole, in, &target)
	if err != nil {
		return model.Actor{}, err
	}
	category := in.StaffCategory
	if category == nil {
		category = target.StaffCategory
	}
	if !validManagedAssignment(nextRole, asg, category != nil) {
		return model.Actor{}, apperr.Validationf("role and assignment do not match")
	}
	if !access.CanManageAssignment(actor, nextRole, asg) {
		return model.Actor{}, apperr.Forbiddenf("assignment is outside your scope")
	}

	target.Role = nextRole
	applyAssignment(&target, asg)
	target.StaffCategory = nil
	if nextRole == model.RoleStaff {
		target.StaffCategory = category
	}
	if in.Active != nil {
		target.Active = *in.Active
	}

	if in.Status == nil || *in.Status == model.StatusPendingApproval {
		target.Status = model.StatusDisabled
		if target.Active {
			target.Status = model.StatusActive
		}
	} else {
		target.Status = *in.Status
	}

	return s.save(ctx, &target)
}

// resolveUpdate loads the assignment for role, falling back to the target's
// current scope for ids the input leaves out. Unresolvable ids yield an
// empty assignment, which then fails validation.
func (s *Service) resolveUpdate(ctx context.Context, role model.Role, in UpdateInput, target *model.Actor) (access.Assignment, error) {
	switch role {
	case model.RoleHotelGroupAdmin, model.RoleAdmin:
		groupID := in.GroupID
		if groupID == nil {
			groupID = target.AssignedGroupID
		}
		if groupID == nil {
			return access.Assignment{}, nil
		}
		group, err := s.store.FindGroup(ctx, *groupID)
		if errors.Is(err, store.ErrNotFound) {
			return access.Assignment{}, nil
		}
		if err != nil {
			return access.Assignment{}, fmt.Errorf("failed to load hotel group %d: %w", *groupID, err)
		}
		return access.Assignment{Group: &group}, nil
	case model.RoleHotelAdmin, model.RoleStaff:
		hotelID := in.HotelID
		if hotelID == nil {
			hotelID = target.AssignedHotelID
		}
		if hotelID == nil {
			return access.Assignment{}, nil
		}
		hotel, err := s.store.FindHotel(ctx, *hotelID)
		if errors.Is(err, store.ErrNotFound) {
			return access.Assignment{}, nil
		}
		if err != nil {
			return access.Assignment{}, fmt.Errorf("failed to load hotel %d: %w", *hotelID, err)
		}
		group := hotel.HotelGroup
		return access.Assignment{Group: &group, Hotel: &hotel}, nil
	case model.RoleSuperAdmin, model.RoleNone:
		return access.Assignment{}, nil
	}
	return access.Assignment{}, nil
}

func validManagedAssignment(role model.Role, asg access.Assignment, hasCategory bool) bool {
	switch role {
	case model.RoleSuperAdmin:
		return asg.Group == nil && asg.Hotel == nil
	case model.RoleHotelGroupAdmin, model.RoleAdmin:
		return asg.Group != nil && asg.Hotel == nil
	case model.RoleHotelAdmin:
		return asg.Hotel != nil
	case model.RoleStaff:
		return asg.Hotel != nil && hasCategory
	case model.RoleNone:
		return false
	}
	return false
}

func applyAssignment(a *model.Actor, asg access.Assignment) {
	a.ClearAssignment()
	if asg.Hotel != nil {
		hotelID, groupID := asg.Hotel.ID, asg.Hotel.HotelGroupID
		a.AssignedHotelID = &hotelID
		a.AssignedGroupID = &groupID
		return
	}
	if asg.Group != nil {
		groupID := asg.Group.ID
		a.AssignedGroupID = &groupID
	}
}

// Delete removes a target the caller can read.
func (s *Service) Delete(ctx context.Context, actor *model.Actor, targetID int64) error {
	if _, err := s.Get(ctx, actor, targetID); err != nil {
		return err
	}
	if err := s.store.DeleteActor(ctx, targetID); err != nil {
		return lookupHidden(err, "actor")
	}
	return nil
}

// Get returns a target the caller can read.
func (s *Service) Get(ctx context.Context, actor *model.Actor, id int64) (model.Actor, error) {
	target, err := s.store.FindActor(ctx, id)
	if err != nil {
		return model.Actor{}, lookupHidden(err, "actor")
	}
	if !access.CanReadActor(actor, &target) {
		return model.Actor{}, apperr.NotFoundf("actor not found")
	}
	return target, nil
}

// GetBySubject returns a target, found by identity key, the caller can read.
func (s *Service) GetBySubject(ctx context.Context, actor *model.Actor, subject string) (model.Actor, error) {
	target, err := s.store.FindActorBySubject(ctx, subject)
	if err != nil {
		return model.Actor{}, lookupHidden(err, "actor")
	}
	if !access.CanReadActor(actor, &target) {
		return model.Actor{}, apperr.NotFoundf("actor not found")
	}
	return target, nil
}

// List returns every actor the caller can read.
func (s *Service) List(ctx context.Context, actor *model.Actor) ([]model.Actor, error) {
	all, err := s.store.ListActors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list actors: %w", err)
	}
	out := make([]model.Actor, 0, len(all))
	for i := range all {
		if access.CanReadActor(actor, &all[i]) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

// ListPending returns pending registrations the caller may decide on.
func (s *Service) ListPending(ctx context.Context, actor *model.Actor) ([]model.Actor, error) {
	pending, err := s.store.ListActorsByStatus(ctx, model.StatusPendingApproval)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending actors: %w", err)
	}
	out := make([]model.Actor, 0, len(pending))
	for i := range pending {
		if access.CanManagePendingActor(actor, &pending[i]) {
			out = append(out, pending[i])
		}
	}
	return out, nil
}

// save persists a and reloads it with its associations.
func (s *Service) save(ctx context.Context, a *model.Actor) (model.Actor, error) {
	if err := s.store.SaveActor(ctx, a); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return model.Actor{}, apperr.Conflictf("an account with this identity or email already exists")
		}
		return model.Actor{}, fmt.Errorf("failed to save actor: %w", err)
	}
	saved, err := s.store.FindActor(ctx, a.ID)
	if err != nil {
		return model.Actor{}, fmt.Errorf("failed to reload actor %d: %w", a.ID, err)
	}
	return saved, nil
}

// lookupFailed reports a missing write-path reference as a validation error.
func lookupFailed(err error, format string, args ...any) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.Validationf(format+" not found", args...)
	}
	return fmt.Errorf("failed to load "+format+": %w", append(args, err)...)
}

// lookupHidden reports a missing target as not found.
func lookupHidden(err error, what string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFoundf("%s not found", what)
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}

package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"concierge-backend/internal/apperr"
	"concierge-backend/internal/auth"
	"concierge-backend/internal/model"
	"concierge-backend/internal/onboarding"
)

// GetMe handles GET /api/me.
func (h *Handler) GetMe(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newActorResponse(*actor))
}

type registerRequest struct {
	Subject        string  `json:"subject"`
	Email          string  `json:"email"`
	Name           string  `json:"name"`
	Phone          *string `json:"phone"`
	HotelGroupCode string  `json:"hotelGroupCode"`
	HotelCode      string  `json:"hotelCode"`
}

// RegisterActor handles POST /api/actors/register. The caller needs a valid
// token but no actor record yet.
func (h *Handler) RegisterActor(c *gin.Context) {
	id, ok := auth.IdentityFrom(c)
	if !ok {
		respondError(c, apperr.ErrUnauthenticated)
		return
	}
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		req.Email = id.Email
	}

	actor, err := h.actors.Register(c.Request.Context(), id.Subject, onboarding.RegisterInput{
		Subject:   req.Subject,
		Email:     req.Email,
		Name:      req.Name,
		Phone:     req.Phone,
		GroupCode: req.HotelGroupCode,
		HotelCode: req.HotelCode,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newActorResponse(actor))
}

// ListActors handles GET /api/actors.
func (h *Handler) ListActors(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	actors, err := h.actors.List(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(actors, newActorResponse))
}

// ListPendingActors handles GET /api/actors/pending.
func (h *Handler) ListPendingActors(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	actors, err := h.actors.ListPending(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(actors, newActorResponse))
}

func (h *Handler) GetActor(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	target, err := h.actors.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newActorResponse(target))
}

func (h *Handler) GetActorBySubject(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	target, err := h.actors.GetBySubject(c.Request.Context(), actor, c.Param("subject"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newActorResponse(target))
}

func parseRole(s string) (model.Role, error) {
	role, ok := model.ParseRole(strings.ToUpper(strings.TrimSpace(s)))
	if !ok {
		return model.RoleNone, apperr.Validationf("unknown role %q", s)
	}
	return role, nil
}

func parseStaffCategory(s *string) (*model.StaffCategory, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	cat, ok := model.ParseStaffCategory(strings.ToUpper(strings.TrimSpace(*s)))
	if !ok {
		return nil, apperr.Validationf("unknown staff category %q", *s)
	}
	return &cat, nil
}

type approveRequest struct {
	Role            string  `json:"role" binding:"required"`
	StaffCategory   *string `json:"staffCategory"`
	Active          *bool   `json:"active"`
	AssignedGroupID *int64  `json:"assignedGroupId"`
	AssignedHotelID *int64  `json:"assignedHotelId"`
}

// ApproveActor handles PUT /api/actors/:id/approve.
func (h *Handler) ApproveActor(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req approveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	role, err := parseRole(req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	category, err := parseStaffCategory(req.StaffCategory)
	if err != nil {
		respondError(c, err)
		return
	}

	approved, err := h.actors.Approve(c.Request.Context(), actor, id, onboarding.ApproveInput{
		Role:          role,
		StaffCategory: category,
		Active:        req.Active,
		GroupID:       req.AssignedGroupID,
		HotelID:       req.AssignedHotelID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newActorResponse(approved))
}

// RejectActor handles POST /api/actors/:id/reject.
func (h *Handler) RejectActor(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	rejected, err := h.actors.Reject(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newActorResponse(rejected))
}

type updateActorRequest struct {
	Name            *string `json:"name"`
	Phone           *string `json:"phone"`
	Role            *string `json:"role"`
	StaffCategory   *string `json:"staffCategory"`
	Active          *bool   `json:"active"`
	Status          *string `json:"status"`
	AssignedGroupID *int64  `json:"assignedGroupId"`
	AssignedHotelID *int64  `json:"assignedHotelId"`
}

func (r updateActorRequest) toInput() (onboarding.UpdateInput, error) {
	in := onboarding.UpdateInput{
		Name:    r.Name,
		Phone:   r.Phone,
		Active:  r.Active,
		GroupID: r.AssignedGroupID,
		HotelID: r.AssignedHotelID,
	}
	if r.Role != nil {
		role, err := parseRole(*r.Role)
		if err != nil {
			return in, err
		}
		in.Role = &role
	}
	category, err := parseStaffCategory(r.StaffCategory)
	if err != nil {
		return in, err
	}
	in.StaffCategory = category
	if r.Status != nil {
		status, ok := model.ParseActorStatus(strings.ToUpper(strings.TrimSpace(*r.Status)))
		if !ok {
			return in, apperr.Validationf("unknown status %q", *r.Status)
		}
		in.Status = &status
	}
	return in, nil
}

// UpdateActor handles PUT /api/actors/:id.
func (h *Handler) UpdateActor(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req updateActorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.actors.Update(c.Request.Context(), actor, id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newActorResponse(updated))
}

// DeleteActor handles DELETE /api/actors/:id.
func (h *Handler) DeleteActor(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.actors.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"concierge-backend/internal/guestreq"
	"concierge-backend/internal/model"
)

// GetGuestContext handles GET /api/guest/:token.
func (h *Handler) GetGuestContext(c *gin.Context) {
	rc, err := h.requests.RoomContext(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newGuestContextResponse(rc))
}

type guestSessionRequest struct {
	SessionToken string `json:"sessionToken"`
}

// StartGuestSession handles POST /api/guest/:token/session. The body is
// optional.
func (h *Handler) StartGuestSession(c *gin.Context) {
	var req guestSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}

	boot, err := h.requests.StartSession(c.Request.Context(), c.Param("token"), req.SessionToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, GuestSessionResponse{
		SessionToken: boot.SessionToken,
		Context:      newGuestContextResponse(boot.Context),
		Requests:     mapSlice(boot.Requests, newGuestRequestResponse),
	})
}

type guestRequestCreate struct {
	SessionToken string  `json:"sessionToken"`
	Type         string  `json:"type"`
	Message      *string `json:"message"`
}

// CreateGuestRequest handles POST /api/guest/:token/requests.
func (h *Handler) CreateGuestRequest(c *gin.Context) {
	var req guestRequestCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	created, err := h.requests.CreateGuestRequest(c.Request.Context(), c.Param("token"), guestreq.GuestRequestInput{
		SessionToken: req.SessionToken,
		Type:         model.ParseRequestType(req.Type),
		Message:      req.Message,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newGuestRequestResponse(created))
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type registerDeviceRequest struct {
	Token    string `json:"token" binding:"required"`
	Platform string `json:"platform" binding:"required"`
}

// RegisterDeviceToken handles POST /api/device-tokens/register.
func (h *Handler) RegisterDeviceToken(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req registerDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	dt, err := h.devices.Register(c.Request.Context(), actor, req.Token, req.Platform)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDeviceTokenResponse(dt))
}

type unregisterDeviceRequest struct {
	Token string `json:"token" binding:"required"`
}

// UnregisterDeviceToken handles POST /api/device-tokens/unregister.
func (h *Handler) UnregisterDeviceToken(c *gin.Context) {
	var req unregisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.devices.Unregister(c.Request.Context(), req.Token); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListDeviceTokens handles GET /api/device-tokens.
func (h *Handler) ListDeviceTokens(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	tokens, err := h.devices.ListAll(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(tokens, newDeviceTokenResponse))
}

// ListActorDeviceTokens handles GET /api/device-tokens/actor/:id.
func (h *Handler) ListActorDeviceTokens(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	tokens, err := h.devices.ListForActor(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(tokens, newDeviceTokenResponse))
}

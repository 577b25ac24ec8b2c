package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetNotificationHealth reports whether a push provider is configured.
func (h *Handler) GetNotificationHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"enabled": h.dispatcher.Enabled()})
}

// GetVAPIDPublicKey returns the VAPID public key browsers subscribe with.
func (h *Handler) GetVAPIDPublicKey(c *gin.Context) {
	if h.vapidPublicKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "vapid keys are not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"publicKey": h.vapidPublicKey})
}

type testNotificationRequest struct {
	Token string `json:"token" binding:"required"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// SendTestNotification handles POST /api/notifications/test. Delivery
// failures are only logged.
func (h *Handler) SendTestNotification(c *gin.Context) {
	var req testNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.dispatcher.SendTest(c.Request.Context(), req.Token, req.Title, req.Body); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

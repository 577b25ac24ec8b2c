package api

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"concierge-backend/internal/apperr"
	"concierge-backend/internal/auth"
	"concierge-backend/internal/devices"
	"concierge-backend/internal/directory"
	"concierge-backend/internal/guestreq"
	"concierge-backend/internal/model"
	"concierge-backend/internal/mw"
	"concierge-backend/internal/notification"
	"concierge-backend/internal/onboarding"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	actors         *onboarding.Service
	directory      *directory.Service
	requests       *guestreq.Service
	devices        *devices.Service
	dispatcher     *notification.Dispatcher
	guestCache     *mw.ResponseCache
	vapidPublicKey string
}

// Services are the workflows the API exposes.
type Services struct {
	Actors         *onboarding.Service
	Directory      *directory.Service
	Requests       *guestreq.Service
	Devices        *devices.Service
	Dispatcher     *notification.Dispatcher
	GuestCache     *mw.ResponseCache
	VAPIDPublicKey string
}

// NewHandler creates a new API handler.
func NewHandler(s Services) *Handler {
	if s.GuestCache == nil {
		s.GuestCache = mw.NewResponseCache(time.Minute)
	}
	return &Handler{
		actors:         s.Actors,
		directory:      s.Directory,
		requests:       s.Requests,
		devices:        s.Devices,
		dispatcher:     s.Dispatcher,
		guestCache:     s.GuestCache,
		vapidPublicKey: s.VAPIDPublicKey,
	}
}

// statusOf maps an error kind to its HTTP status.
func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.Validation:
		return http.StatusBadRequest
	case apperr.Forbidden, apperr.NoProfile:
		return http.StatusForbidden
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Conflict:
		return http.StatusConflict
	case apperr.Unauthenticated:
		return http.StatusUnauthorized
	case apperr.Internal:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal {
		log.Printf("Error handling %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(statusOf(kind), gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// currentActor returns the caller resolved by auth.RequireActor.
func currentActor(c *gin.Context) (*model.Actor, bool) {
	a, ok := auth.ActorFrom(c)
	if !ok {
		respondError(c, apperr.ErrUnauthenticated)
	}
	return a, ok
}

func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// purgeGuestPages drops cached guest pages after a directory write.
func (h *Handler) purgeGuestPages() {
	h.guestCache.Purge()
}

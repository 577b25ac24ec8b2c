package api

import (
	"github.com/gin-gonic/gin"

	"concierge-backend/config"
	"concierge-backend/internal/auth"
	"concierge-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, verifier auth.Verifier, actors auth.ActorFinder, cfg config.ServerConfig) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(cfg.RateLimitPerSec, cfg.RateLimitBurst)
	authenticated := auth.Authenticate(verifier)
	withProfile := auth.RequireActor(actors)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/notifications/health", h.GetNotificationHealth)
		api.GET("/notifications/vapid-public-key", h.GetVAPIDPublicKey)

		// Public guest pages, reached through the room's QR code.
		guest := api.Group("/guest/:token")
		guest.GET("", h.guestCache.Middleware(), h.GetGuestContext)
		guest.POST("/session", h.StartGuestSession)
		guest.POST("/requests", h.CreateGuestRequest)

		// A valid token is enough; the actor record may not exist yet.
		api.POST("/actors/register", authenticated, h.RegisterActor)
		api.POST("/notifications/test", authenticated, h.SendTestNotification)

		staff := api.Group("", authenticated, withProfile)
		staff.GET("/me", h.GetMe)

		staff.GET("/actors", h.ListActors)
		staff.GET("/actors/pending", h.ListPendingActors)
		staff.GET("/actors/subject/:subject", h.GetActorBySubject)
		staff.GET("/actors/:id", h.GetActor)
		staff.PUT("/actors/:id", h.UpdateActor)
		staff.PUT("/actors/:id/approve", h.ApproveActor)
		staff.POST("/actors/:id/reject", h.RejectActor)
		staff.DELETE("/actors/:id", h.DeleteActor)

		staff.GET("/hotel-groups", h.ListHotelGroups)
		staff.POST("/hotel-groups", h.CreateHotelGroup)
		staff.GET("/hotel-groups/:id", h.GetHotelGroup)
		staff.PUT("/hotel-groups/:id", h.UpdateHotelGroup)
		staff.DELETE("/hotel-groups/:id", h.DeleteHotelGroup)

		staff.GET("/hotels", h.ListHotels)
		staff.POST("/hotels", h.CreateHotel)
		staff.GET("/hotels/:id", h.GetHotel)
		staff.PUT("/hotels/:id", h.UpdateHotel)
		staff.DELETE("/hotels/:id", h.DeleteHotel)

		staff.GET("/rooms", h.ListRooms)
		staff.POST("/rooms", h.CreateRoom)
		staff.GET("/rooms/:id", h.GetRoom)
		staff.PUT("/rooms/:id", h.UpdateRoom)
		staff.DELETE("/rooms/:id", h.DeleteRoom)

		staff.GET("/requests", h.ListRequests)
		staff.POST("/requests", h.CreateRequest)
		staff.GET("/requests/:id", h.GetRequest)
		staff.PUT("/requests/:id", h.UpdateRequest)
		staff.DELETE("/requests/:id", h.DeleteRequest)

		staff.GET("/device-tokens", h.ListDeviceTokens)
		staff.GET("/device-tokens/actor/:id", h.ListActorDeviceTokens)
		staff.POST("/device-tokens/register", h.RegisterDeviceToken)
		staff.POST("/device-tokens/unregister", h.UnregisterDeviceToken)
	}

	return r
}

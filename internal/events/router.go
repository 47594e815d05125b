package events

import (
	"gatepass/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupEventRoutes(rg *gin.RouterGroup, controller Controller) {
	// Public routes - anyone can browse active events
	publicEvents := rg.Group("/events")
	{
		publicEvents.GET("", controller.ListEvents)     // GET /api/v1/events
		publicEvents.GET("/:slug", controller.GetEvent) // GET /api/v1/events/:slug
	}

	// Organizer routes - event management
	staffEvents := rg.Group("/staff/events")
	staffEvents.Use(middleware.JWTAuth(), middleware.RequireRoles("ORGANIZER", "ADMIN"))
	{
		staffEvents.POST("", controller.CreateEvent)                // POST /api/v1/staff/events
		staffEvents.PUT("/:eventId", controller.UpdateEvent)        // PUT /api/v1/staff/events/:eventId
		staffEvents.DELETE("/:eventId", controller.DeactivateEvent) // DELETE /api/v1/staff/events/:eventId
	}
}

package seats

import (
	"gatepass/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupSeatRoutes(rg *gin.RouterGroup, controller Controller) {
	// Public seat browsing
	rg.GET("/events/:slug/seat-groups", controller.ListGroupsByEvent)  // GET /api/v1/events/:slug/seat-groups
	rg.GET("/seat-groups/:groupId/seats", controller.ListSeatsByGroup) // GET /api/v1/seat-groups/:groupId/seats

	// Organizer inventory management
	staffSeats := rg.Group("/staff/seat-groups")
	staffSeats.Use(middleware.JWTAuth(), middleware.RequireRoles("ORGANIZER", "ADMIN"))
	{
		staffSeats.POST("", controller.CreateSeatGroup) // POST /api/v1/staff/seat-groups
	}
}

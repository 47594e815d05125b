package checkin

import (
	"github.com/gin-gonic/gin"

	"gatepass/internal/shared/middleware"
)

func SetupCheckInRoutes(rg *gin.RouterGroup, controller Controller) {
	// Gate scanners authenticate as staff
	gate := rg.Group("/checkin")
	gate.Use(middleware.JWTAuth(), middleware.RequireRoles("ORGANIZER", "ADMIN"))
	{
		gate.POST("", controller.CheckIn) // POST /api/v1/checkin
	}
}

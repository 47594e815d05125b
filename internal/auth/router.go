package auth

import (
	"github.com/gin-gonic/gin"

	"gatepass/internal/shared/middleware"
)

func SetupAuthRoutes(rg *gin.RouterGroup, controller Controller) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/login", controller.Login)          // POST /api/v1/auth/login
		authGroup.POST("/refresh", controller.RefreshToken) // POST /api/v1/auth/refresh
	}

	adminAuth := rg.Group("/staff/accounts")
	adminAuth.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminAuth.POST("", controller.CreateStaff) // POST /api/v1/staff/accounts
	}
}

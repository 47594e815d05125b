package registrations

import (
	"github.com/gin-gonic/gin"
)

func SetupRegistrationRoutes(rg *gin.RouterGroup, controller Controller) {
	rg.POST("/events/:slug/register", controller.Register)      // POST /api/v1/events/:slug/register
	rg.GET("/my/registrations", controller.ListMyRegistrations) // GET /api/v1/my/registrations?identity_key=
}

package tickets

import (
	"github.com/gin-gonic/gin"
)

func SetupTicketRoutes(rg *gin.RouterGroup, controller Controller) {
	// Attendee-facing listing, keyed by the external identity
	rg.GET("/my/tickets", controller.ListMyTickets) // GET /api/v1/my/tickets?identity_key=
}

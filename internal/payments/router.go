package payments

import (
	"github.com/gin-gonic/gin"

	"gatepass/internal/shared/middleware"
)

func SetupPaymentRoutes(rg *gin.RouterGroup, controller Controller) {
	// Confirmation stands in for a provider webhook until a gateway is wired.
	staffPayments := rg.Group("/payments")
	staffPayments.Use(middleware.JWTAuth(), middleware.RequireRoles("ORGANIZER", "ADMIN"))
	{
		staffPayments.POST("", controller.CreatePayment)                     // POST /api/v1/payments
		staffPayments.POST("/:paymentId/confirm", controller.ConfirmPayment) // POST /api/v1/payments/:paymentId/confirm
	}
}

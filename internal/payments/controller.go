package payments

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gatepass/internal/registrations"
	"gatepass/internal/shared/utils/response"
)

type Controller interface {
	CreatePayment(c *gin.Context)
	ConfirmPayment(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	payment, err := ctrl.service.CreatePending(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, registrations.ErrRegistrationNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Registration not found", nil, nil)
		case errors.Is(err, ErrRegistrationNotPayable):
			response.RespondJSON(c, "error", http.StatusBadRequest, "Registration has nothing to pay for", nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Payment created successfully", payment, nil)
}

func (ctrl *controller) ConfirmPayment(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("paymentId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid payment ID", nil, err.Error())
		return
	}

	payment, err := ctrl.service.MarkPaid(c.Request.Context(), paymentID)
	if err != nil {
		switch {
		case errors.Is(err, ErrPaymentNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Payment not found", nil, nil)
		case errors.Is(err, ErrSeatHoldLost):
			response.RespondJSON(c, "error", http.StatusConflict, "Seat hold expired before confirmation", nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Payment confirmed successfully", payment, nil)
}

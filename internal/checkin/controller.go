package checkin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gatepass/internal/shared/utils/response"
	"gatepass/internal/tickets"
)

type Controller interface {
	CheckIn(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CheckIn(c *gin.Context) {
	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "token is required", nil, err.Error())
		return
	}

	result, err := ctrl.service.CheckIn(c.Request.Context(), req)
	if err != nil {
		var alreadyUsed *AlreadyUsedError
		switch {
		case errors.Is(err, tickets.ErrTicketNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Ticket not found", nil, nil)
		case errors.As(err, &alreadyUsed):
			response.RespondJSON(c, "error", http.StatusBadRequest, "Ticket already used", nil, map[string]interface{}{
				"used_at": alreadyUsed.UsedAt,
			})
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Checked in successfully", result, nil)
}

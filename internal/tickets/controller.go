package tickets

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gatepass/internal/shared/utils/response"
)

type Controller interface {
	ListMyTickets(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) ListMyTickets(c *gin.Context) {
	identityKey := c.Query("identity_key")
	if identityKey == "" {
		response.RespondJSON(c, "error", http.StatusBadRequest, "identity_key is required", nil, nil)
		return
	}

	owned, err := ctrl.service.ListMyTickets(c.Request.Context(), identityKey)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Tickets retrieved successfully", owned, nil)
}

package registrations

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gatepass/internal/events"
	"gatepass/internal/seats"
	"gatepass/internal/shared/utils/response"
)

type Controller interface {
	Register(c *gin.Context)
	ListMyRegistrations(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) Register(c *gin.Context) {
	slug := c.Param("slug")

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result, err := ctrl.service.Register(c.Request.Context(), slug, req)
	if err != nil {
		switch {
		case errors.Is(err, events.ErrEventNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Event not found", nil, nil)
		case errors.Is(err, seats.ErrSeatNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Seat not found", nil, nil)
		case errors.Is(err, seats.ErrSeatUnavailable):
			response.RespondJSON(c, "error", http.StatusConflict, "Seat is no longer available", nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		}
		return
	}

	if result.Created {
		response.RespondJSON(c, "success", http.StatusCreated, "Registration created successfully", result, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Registration already exists", result, nil)
}

func (ctrl *controller) ListMyRegistrations(c *gin.Context) {
	identityKey := c.Query("identity_key")
	if identityKey == "" {
		response.RespondJSON(c, "error", http.StatusBadRequest, "identity_key is required", nil, nil)
		return
	}

	owned, err := ctrl.service.ListMyRegistrations(c.Request.Context(), identityKey)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Registrations retrieved successfully", owned, nil)
}

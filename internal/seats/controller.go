package seats

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gatepass/internal/events"
	"gatepass/internal/shared/utils/response"
)

type Controller interface {
	CreateSeatGroup(c *gin.Context)
	ListGroupsByEvent(c *gin.Context)
	ListSeatsByGroup(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateSeatGroup(c *gin.Context) {
	var req CreateSeatGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	group, err := ctrl.service.CreateSeatGroup(c.Request.Context(), req)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Seat group created successfully", group, nil)
}

func (ctrl *controller) ListGroupsByEvent(c *gin.Context) {
	slug := c.Param("slug")

	groups, err := ctrl.service.ListGroupsByEventSlug(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, events.ErrEventNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Event not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat groups retrieved successfully", groups, nil)
}

func (ctrl *controller) ListSeatsByGroup(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("groupId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid seat group ID", nil, err.Error())
		return
	}

	seatRows, err := ctrl.service.ListSeatsByGroup(c.Request.Context(), groupID)
	if err != nil {
		if errors.Is(err, ErrGroupNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Seat group not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seats retrieved successfully", seatRows, nil)
}

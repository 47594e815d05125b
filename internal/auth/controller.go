package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"gatepass/internal/shared/utils/response"
	"gatepass/pkg/logger"
)

type Controller interface {
	Login(c *gin.Context)
	RefreshToken(c *gin.Context)
	CreateStaff(c *gin.Context)
}

type controller struct {
	service   Service
	validator *validator.Validate
	log       *logger.Logger
}

func NewController(service Service, log *logger.Logger) Controller {
	return &controller{
		service:   service,
		validator: validator.New(),
		log:       log,
	}
}

func (ctrl *controller) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	result, err := ctrl.service.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			ctrl.log.LogAuthFailure(c.Request.Context(), "bad credentials", c.ClientIP())
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Invalid credentials", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Logged in successfully", result, nil)
}

func (ctrl *controller) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	pair, err := ctrl.service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		ctrl.log.LogAuthFailure(c.Request.Context(), "refresh rejected", c.ClientIP())
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Invalid refresh token", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Token refreshed successfully", pair, nil)
}

func (ctrl *controller) CreateStaff(c *gin.Context) {
	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	staff, err := ctrl.service.CreateStaff(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrStaffAlreadyExists) {
			response.RespondJSON(c, "error", http.StatusConflict, "Username already taken", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Staff account created successfully", staff, nil)
}

package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"carpool-backend-go/internal/core"
	"carpool-backend-go/internal/middleware"
	"carpool-backend-go/internal/models"
)

// UserHandler handles API endpoints related to user profiles and vehicles.
type UserHandler struct {
	userService core.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(us core.UserService, logger *zap.Logger) *UserHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserHandler{userService: us, logger: logger}
}

func (h *UserHandler) mapUserErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: core.ErrUserNotFound.Error()})
	case errors.Is(err, core.ErrVehicleNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: core.ErrVehicleNotFound.Error()})
	case errors.Is(err, core.ErrNotVehicleOwner):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: core.ErrNotVehicleOwner.Error()})
	default:
		h.logger.Error("user handler internal error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
	}
}

// InitializeProfile handles POST /users/initialize. Called after client-side
// Firebase login to ensure the backend profile exists; creates it from the
// token claims on first contact.
func (h *UserHandler) InitializeProfile(c *gin.Context) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	user, created, err := h.userService.GetOrCreate(
		c.Request.Context(),
		userID.(string),
		c.GetString(middleware.ContextUserName),
		c.GetString(middleware.ContextAuthProvider),
		c.GetString(middleware.ContextUserEmail),
	)
	if err != nil {
		h.mapUserErrorToStatus(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, toUserResponse(user))
}

// GetCurrentProfile handles GET /users/me
func (h *UserHandler) GetCurrentProfile(c *gin.Context) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID.(string))
	if err != nil {
		h.mapUserErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// GetUser handles GET /users/:userId
func (h *UserHandler) GetUser(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "User ID is required"})
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.mapUserErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// SetVehicle handles PUT /users/:userId/vehicles
func (h *UserHandler) SetVehicle(c *gin.Context) {
	callerID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	userID := c.Param("userId")

	var req models.SetVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	vehicle, err := h.userService.SetVehicle(c.Request.Context(), callerID.(string), userID, req)
	if err != nil {
		h.mapUserErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, toVehicleResponse(vehicle))
}

// DeleteVehicle handles DELETE /users/:userId/vehicles/:carId
func (h *UserHandler) DeleteVehicle(c *gin.Context) {
	callerID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	userID := c.Param("userId")
	carID := c.Param("carId")

	if err := h.userService.DeleteVehicle(c.Request.Context(), callerID.(string), userID, carID); err != nil {
		h.mapUserErrorToStatus(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

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

// RideHandler handles API endpoints related to rides, pickup points, and
// computed routes.
type RideHandler struct {
	rideService core.RideService
	logger      *zap.Logger
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(rs core.RideService, logger *zap.Logger) *RideHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RideHandler{rideService: rs, logger: logger}
}

func (h *RideHandler) mapRideErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrRideNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: core.ErrRideNotFound.Error()})
	case errors.Is(err, core.ErrInvalidReference):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: core.ErrInvalidReference.Error(), Details: err.Error()})
	case errors.Is(err, core.ErrRouteUnavailable):
		// The mutation itself succeeded; only the recompute was abandoned.
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: core.ErrRouteUnavailable.Error()})
	default:
		h.logger.Error("ride handler internal error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
	}
}

// CreateRide handles POST /rides
func (h *RideHandler) CreateRide(c *gin.Context) {
	var req models.CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	ride, err := h.rideService.CreateRide(c.Request.Context(), req)
	if err != nil {
		h.mapRideErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRideResponse(ride))
}

// GetRide handles GET /rides/:rideId
func (h *RideHandler) GetRide(c *gin.Context) {
	rideID := c.Param("rideId")
	if rideID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Ride ID is required"})
		return
	}

	ride, err := h.rideService.GetRide(c.Request.Context(), rideID)
	if err != nil {
		h.mapRideErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, toRideResponse(ride))
}

// AddPickup handles POST /rides/:rideId/pickups
func (h *RideHandler) AddPickup(c *gin.Context) {
	rideID := c.Param("rideId")

	var req models.AddPickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	pickupID, err := h.rideService.AddPickup(c.Request.Context(), rideID, models.PickupPoint{
		Location: req.Location,
		Geocode:  req.Geocode,
	})
	if err != nil {
		h.mapRideErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"pickupId": pickupID})
}

// AssignDriver handles PUT /rides/:rideId/driver
func (h *RideHandler) AssignDriver(c *gin.Context) {
	rideID := c.Param("rideId")

	var req models.AssignDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	handle, err := h.rideService.AssignDriver(c.Request.Context(), rideID, req.DriverID, req.CarID)
	if err != nil {
		h.mapRideErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, RecomputeStatusResponse{RecomputeStarted: handle != nil})
}

// ClearDriver handles DELETE /rides/:rideId/driver
func (h *RideHandler) ClearDriver(c *gin.Context) {
	rideID := c.Param("rideId")

	if err := h.rideService.ClearDriver(c.Request.Context(), rideID); err != nil {
		h.mapRideErrorToStatus(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SelectStart handles PUT /rides/:rideId/start
func (h *RideHandler) SelectStart(c *gin.Context) {
	rideID := c.Param("rideId")

	var req models.SelectStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	handle, err := h.rideService.SelectStart(c.Request.Context(), rideID, req.PickupID)
	if err != nil {
		h.mapRideErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, RecomputeStatusResponse{RecomputeStarted: handle != nil})
}

// JoinPickup handles PUT /rides/:rideId/pickups/:pickupId/members
func (h *RideHandler) JoinPickup(c *gin.Context) {
	rideID := c.Param("rideId")
	pickupID := c.Param("pickupId")

	var req models.JoinPickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	handle, err := h.rideService.JoinPickup(c.Request.Context(), rideID, pickupID, req.UserID, *req.IsPassenger)
	if err != nil {
		h.mapRideErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, RecomputeStatusResponse{RecomputeStarted: handle != nil})
}

// LeaveAllPickups handles DELETE /rides/:rideId/members/:userId
func (h *RideHandler) LeaveAllPickups(c *gin.Context) {
	rideID := c.Param("rideId")
	userID := c.Param("userId")

	if err := h.rideService.LeaveAllPickups(c.Request.Context(), rideID, userID); err != nil {
		h.mapRideErrorToStatus(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetPassenger handles PUT /rides/:rideId/passengers
func (h *RideHandler) SetPassenger(c *gin.Context) {
	rideID := c.Param("rideId")

	var req models.SetPassengerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	if err := h.rideService.SetPassenger(c.Request.Context(), req.UserID, rideID, *req.IsPassenger); err != nil {
		h.mapRideErrorToStatus(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetPassengers handles GET /rides/:rideId/passengers
func (h *RideHandler) GetPassengers(c *gin.Context) {
	rideID := c.Param("rideId")

	registry, err := h.rideService.Passengers(c.Request.Context(), rideID)
	if err != nil {
		h.mapRideErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, registry)
}

// CompleteRide handles POST /rides/:rideId/complete
func (h *RideHandler) CompleteRide(c *gin.Context) {
	rideID := c.Param("rideId")

	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	if err := h.rideService.CompleteRide(c.Request.Context(), rideID); err != nil {
		h.mapRideErrorToStatus(c, err)
		return
	}
	h.logger.Info("ride marked complete", zap.String("rideId", rideID), zap.String("by", userID.(string)))
	c.Status(http.StatusNoContent)
}

// GetRoute handles GET /rides/:rideId/route
func (h *RideHandler) GetRoute(c *gin.Context) {
	rideID := c.Param("rideId")

	route, err := h.rideService.GetRoute(c.Request.Context(), rideID)
	if err != nil {
		h.mapRideErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, toRouteResponse(route))
}

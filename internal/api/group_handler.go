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

// GroupHandler handles API endpoints related to groups.
type GroupHandler struct {
	groupService core.GroupService
	logger       *zap.Logger
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(gs core.GroupService, logger *zap.Logger) *GroupHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GroupHandler{groupService: gs, logger: logger}
}

// mapGroupErrorToStatus maps errors from core.GroupService to HTTP status
// codes and ErrorResponse.
func (h *GroupHandler) mapGroupErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrGroupNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: core.ErrGroupNotFound.Error()})
	case errors.Is(err, core.ErrOwnerRemoval):
		c.JSON(http.StatusConflict, ErrorResponse{Error: core.ErrOwnerRemoval.Error()})
	default:
		h.logger.Error("group handler internal error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
	}
}

// CreateGroup handles POST /groups
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var req models.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	group, err := h.groupService.CreateGroup(c.Request.Context(), userID.(string), req)
	if err != nil {
		h.mapGroupErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, toGroupResponse(group))
}

// GetGroup handles GET /groups/:groupId
func (h *GroupHandler) GetGroup(c *gin.Context) {
	groupID := c.Param("groupId")
	if groupID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Group ID is required"})
		return
	}

	group, err := h.groupService.GetGroup(c.Request.Context(), groupID)
	if err != nil {
		h.mapGroupErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, toGroupResponse(group))
}

// SetMember handles PUT /groups/:groupId/members
func (h *GroupHandler) SetMember(c *gin.Context) {
	groupID := c.Param("groupId")

	var req models.SetMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	if err := h.groupService.SetGroupMember(c.Request.Context(), groupID, req.UserID, *req.IsMember); err != nil {
		h.mapGroupErrorToStatus(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetRide handles PUT /groups/:groupId/rides
func (h *GroupHandler) SetRide(c *gin.Context) {
	groupID := c.Param("groupId")

	var req models.SetGroupRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	if err := h.groupService.SetGroupRide(c.Request.Context(), groupID, req.RideID, *req.IsChild); err != nil {
		h.mapGroupErrorToStatus(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetBanner handles PUT /groups/:groupId/banner
func (h *GroupHandler) SetBanner(c *gin.Context) {
	groupID := c.Param("groupId")

	var req struct {
		Banner string `json:"banner"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	if err := h.groupService.SetGroupBanner(c.Request.Context(), groupID, req.Banner); err != nil {
		h.mapGroupErrorToStatus(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetProfilePic handles PUT /groups/:groupId/profile-pic
func (h *GroupHandler) SetProfilePic(c *gin.Context) {
	groupID := c.Param("groupId")

	var req struct {
		ProfilePic string `json:"profilePic"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	if err := h.groupService.SetGroupProfilePic(c.Request.Context(), groupID, req.ProfilePic); err != nil {
		h.mapGroupErrorToStatus(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

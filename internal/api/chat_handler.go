package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"carpool-backend-go/internal/core"
	"carpool-backend-go/internal/middleware"
	"carpool-backend-go/internal/models"
)

// ChatHandler handles the group and ride chat endpoints.
type ChatHandler struct {
	chatService core.ChatService
	logger      *zap.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(cs core.ChatService, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{chatService: cs, logger: logger}
}

func (h *ChatHandler) internalError(c *gin.Context, err error) {
	h.logger.Error("chat handler internal error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
}

// SendGroupMessage handles POST /groups/:groupId/chat
func (h *ChatHandler) SendGroupMessage(c *gin.Context) {
	senderID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	groupID := c.Param("groupId")

	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	msg, err := h.chatService.SendGroupMessage(c.Request.Context(), groupID, senderID.(string), req.Contents)
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// GetGroupMessages handles GET /groups/:groupId/chat
func (h *ChatHandler) GetGroupMessages(c *gin.Context) {
	groupID := c.Param("groupId")

	msgs, err := h.chatService.GroupMessages(c.Request.Context(), groupID)
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// SendRideMessage handles POST /rides/:rideId/chat
func (h *ChatHandler) SendRideMessage(c *gin.Context) {
	senderID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	rideID := c.Param("rideId")

	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	msg, err := h.chatService.SendRideMessage(c.Request.Context(), rideID, senderID.(string), req.Contents)
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// GetRideMessages handles GET /rides/:rideId/chat
func (h *ChatHandler) GetRideMessages(c *gin.Context) {
	rideID := c.Param("rideId")

	msgs, err := h.chatService.RideMessages(c.Request.Context(), rideID)
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

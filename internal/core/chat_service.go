package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"carpool-backend-go/internal/db"
	"carpool-backend-go/internal/models"
)

// chatService implements the ChatService interface.
type chatService struct {
	chats  db.ChatRepository
	logger *zap.Logger

	// now is swappable in tests for deterministic timestamps.
	now func() time.Time
}

// NewChatService creates a new ChatService instance.
func NewChatService(chats db.ChatRepository, logger *zap.Logger) ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &chatService{chats: chats, logger: logger, now: time.Now}
}

// SendGroupMessage appends a message to the group chat. The timestamp is
// assigned here, not taken from the caller.
func (s *chatService) SendGroupMessage(ctx context.Context, groupID, senderID, contents string) (*models.Message, error) {
	msg := models.Message{
		SenderID:  senderID,
		Contents:  contents,
		Timestamp: s.now().UnixMilli(),
	}
	if _, err := s.chats.AppendGroupMessage(ctx, groupID, msg); err != nil {
		return nil, fmt.Errorf("failed to send message to group '%s': %w", groupID, err)
	}
	return &msg, nil
}

// SendRideMessage appends a message to the ride chat.
func (s *chatService) SendRideMessage(ctx context.Context, rideID, senderID, contents string) (*models.Message, error) {
	msg := models.Message{
		SenderID:  senderID,
		Contents:  contents,
		Timestamp: s.now().UnixMilli(),
	}
	if _, err := s.chats.AppendRideMessage(ctx, rideID, msg); err != nil {
		return nil, fmt.Errorf("failed to send message to ride '%s': %w", rideID, err)
	}
	return &msg, nil
}

// GroupMessages returns the group chat in key order; an empty chat is an
// empty slice.
func (s *chatService) GroupMessages(ctx context.Context, groupID string) ([]models.Message, error) {
	msgs, err := s.chats.GroupMessages(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to read chat of group '%s': %w", groupID, err)
	}
	return msgs, nil
}

// RideMessages returns the ride chat in key order.
func (s *chatService) RideMessages(ctx context.Context, rideID string) ([]models.Message, error) {
	msgs, err := s.chats.RideMessages(ctx, rideID)
	if err != nil {
		return nil, fmt.Errorf("failed to read chat of ride '%s': %w", rideID, err)
	}
	return msgs, nil
}

// WatchGroupChat streams the group chat; each event is the full ordered list.
func (s *chatService) WatchGroupChat(ctx context.Context, groupID string) (<-chan []models.Message, func(), error) {
	return s.chats.WatchGroupChat(ctx, groupID)
}

// WatchRideChat streams the ride chat.
func (s *chatService) WatchRideChat(ctx context.Context, rideID string) (<-chan []models.Message, func(), error) {
	return s.chats.WatchRideChat(ctx, rideID)
}

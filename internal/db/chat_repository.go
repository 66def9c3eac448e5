package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"carpool-backend-go/internal/models"
	"carpool-backend-go/internal/store"
)

// chatRepository implements ChatRepository on the reactive store. Chats live
// at chats/groups/{groupId} and chats/rides/{rideId} as collections of
// messages keyed by generated push keys; sorting the keys reproduces
// insertion order.
type chatRepository struct {
	store store.Store
}

// NewChatRepository creates a ChatRepository backed by the given store.
func NewChatRepository(s store.Store) ChatRepository {
	return &chatRepository{store: s}
}

func groupChatPath(groupID string) string {
	return store.Join(store.GroupChatsPath, groupID)
}

func rideChatPath(rideID string) string {
	return store.Join(store.RideChatsPath, rideID)
}

// AppendGroupMessage appends a message to a group chat and returns its key.
func (r *chatRepository) AppendGroupMessage(ctx context.Context, groupID string, msg models.Message) (string, error) {
	return r.append(ctx, groupChatPath(groupID), msg)
}

// AppendRideMessage appends a message to a ride chat and returns its key.
func (r *chatRepository) AppendRideMessage(ctx context.Context, rideID string, msg models.Message) (string, error) {
	return r.append(ctx, rideChatPath(rideID), msg)
}

func (r *chatRepository) append(ctx context.Context, path string, msg models.Message) (string, error) {
	key, err := r.store.Push(ctx, path, msg)
	if err != nil {
		return "", fmt.Errorf("failed to append message at '%s': %w", path, err)
	}
	return key, nil
}

// GroupMessages returns a group chat's messages in insertion order. An empty
// chat is an empty slice, not an error: chats come into being with their
// first message.
func (r *chatRepository) GroupMessages(ctx context.Context, groupID string) ([]models.Message, error) {
	return r.list(ctx, groupChatPath(groupID))
}

// RideMessages returns a ride chat's messages in insertion order.
func (r *chatRepository) RideMessages(ctx context.Context, rideID string) ([]models.Message, error) {
	return r.list(ctx, rideChatPath(rideID))
}

func (r *chatRepository) list(ctx context.Context, path string) ([]models.Message, error) {
	var byKey map[string]models.Message
	if err := r.store.Get(ctx, path, &byKey); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []models.Message{}, nil
		}
		return nil, fmt.Errorf("failed to list messages at '%s': %w", path, err)
	}
	return orderedMessages(byKey), nil
}

// WatchGroupChat streams the ordered message list on every chat change.
func (r *chatRepository) WatchGroupChat(ctx context.Context, groupID string) (<-chan []models.Message, func(), error) {
	return r.watch(ctx, groupChatPath(groupID))
}

// WatchRideChat streams the ordered message list on every chat change.
func (r *chatRepository) WatchRideChat(ctx context.Context, rideID string) (<-chan []models.Message, func(), error) {
	return r.watch(ctx, rideChatPath(rideID))
}

func (r *chatRepository) watch(ctx context.Context, path string) (<-chan []models.Message, func(), error) {
	sub, err := r.store.Watch(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	out := make(chan []models.Message, 1)
	go func() {
		defer close(out)
		for ev := range sub.Events() {
			msgs := []models.Message{}
			if ev.Exists {
				var byKey map[string]models.Message
				if err := json.Unmarshal(ev.Value, &byKey); err != nil {
					continue
				}
				msgs = orderedMessages(byKey)
			}
			select {
			case <-out:
			default:
			}
			out <- msgs
		}
	}()
	return out, sub.Close, nil
}

func orderedMessages(byKey map[string]models.Message) []models.Message {
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]models.Message, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, byKey[k])
	}
	return msgs
}

package db

import (
	"context"
	"errors"
	"fmt"

	"carpool-backend-go/internal/models"
	"carpool-backend-go/internal/store"
)

// groupRepository implements GroupRepository on the reactive store.
type groupRepository struct {
	store store.Store
}

// NewGroupRepository creates a GroupRepository backed by the given store.
func NewGroupRepository(s store.Store) GroupRepository {
	return &groupRepository{store: s}
}

func groupPath(groupID string) string {
	return store.Join(store.GroupsPath, groupID)
}

// GetByID retrieves a group. The ID is re-attached from the path key; it is
// not stored inside the record.
func (r *groupRepository) GetByID(ctx context.Context, groupID string) (*models.Group, error) {
	if groupID == "" {
		return nil, errors.New("groupID cannot be empty for GetByID operation")
	}
	var group models.Group
	if err := r.store.Get(ctx, groupPath(groupID), &group); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("group with ID '%s' not found: %w", groupID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get group with ID '%s': %w", groupID, err)
	}
	group.ID = groupID
	return &group, nil
}

// Create stores a new group under a generated push key.
func (r *groupRepository) Create(ctx context.Context, group *models.Group) (string, error) {
	if group == nil {
		return "", errors.New("group cannot be nil for Create operation")
	}
	key, err := r.store.Push(ctx, store.GroupsPath, group)
	if err != nil {
		return "", fmt.Errorf("failed to create group: %w", err)
	}
	group.ID = key
	return key, nil
}

// Set writes the full group record at groups/{id}.
func (r *groupRepository) Set(ctx context.Context, group *models.Group) error {
	if group == nil || group.ID == "" {
		return errors.New("group ID cannot be empty for Set operation")
	}
	if err := r.store.Set(ctx, groupPath(group.ID), group); err != nil {
		return fmt.Errorf("failed to set group with ID '%s': %w", group.ID, err)
	}
	return nil
}

// SetMember writes or clears a single membership leaf. Present+true means
// member; the leaf is removed entirely on leave, never stored as false.
func (r *groupRepository) SetMember(ctx context.Context, groupID, userID string, isMember bool) error {
	path := store.Join(groupPath(groupID), "members", userID)
	if isMember {
		return r.store.Set(ctx, path, true)
	}
	return r.store.Delete(ctx, path)
}

// SetRide adds or removes a ride id in the group's ride-list set.
func (r *groupRepository) SetRide(ctx context.Context, groupID, rideID string, isChild bool) error {
	path := store.Join(groupPath(groupID), "rides", rideID)
	if isChild {
		return r.store.Set(ctx, path, true)
	}
	return r.store.Delete(ctx, path)
}

// SetBanner writes the group's banner; empty clears it.
func (r *groupRepository) SetBanner(ctx context.Context, groupID, banner string) error {
	path := store.Join(groupPath(groupID), "banner")
	if banner == "" {
		return r.store.Delete(ctx, path)
	}
	return r.store.Set(ctx, path, banner)
}

// SetProfilePic writes the group's profile picture; empty clears it.
func (r *groupRepository) SetProfilePic(ctx context.Context, groupID, profilePic string) error {
	path := store.Join(groupPath(groupID), "profilePic")
	if profilePic == "" {
		return r.store.Delete(ctx, path)
	}
	return r.store.Set(ctx, path, profilePic)
}

// Watch streams group snapshots.
func (r *groupRepository) Watch(ctx context.Context, groupID string) (<-chan *models.Group, func(), error) {
	return watchEntity(ctx, r.store, groupPath(groupID), func(g *models.Group) {
		g.ID = groupID
	})
}

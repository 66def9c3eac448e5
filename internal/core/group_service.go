package core

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"carpool-backend-go/internal/db"
	"carpool-backend-go/internal/models"
)

// Custom errors for the GroupService
var (
	ErrGroupNotFound = errors.New("group not found")

	// ErrOwnerRemoval is returned on an attempt to remove the group owner
	// from their own group. Owners leave by deleting the group, not by
	// dropping out of the member set.
	ErrOwnerRemoval = errors.New("cannot remove the group owner")
)

// groupService implements the GroupService interface.
type groupService struct {
	groups db.GroupRepository
	logger *zap.Logger
}

// NewGroupService creates a new GroupService instance.
func NewGroupService(groups db.GroupRepository, logger *zap.Logger) GroupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &groupService{groups: groups, logger: logger}
}

// CreateGroup stores a new group with the creator as owner and sole member.
func (s *groupService) CreateGroup(ctx context.Context, ownerID string, req models.CreateGroupRequest) (*models.Group, error) {
	group := &models.Group{
		Name:        req.Name,
		Description: req.Description,
		IsPrivate:   req.IsPrivate,
		MaxSize:     req.MaxSize,
		Owner:       ownerID,
		Members:     map[string]bool{ownerID: true},
	}
	if _, err := s.groups.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	s.logger.Info("group created", zap.String("groupId", group.ID), zap.String("owner", ownerID))
	return group, nil
}

// GetGroup retrieves a group by ID.
func (s *groupService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: group '%s'", ErrGroupNotFound, groupID)
		}
		return nil, fmt.Errorf("failed to get group '%s': %w", groupID, err)
	}
	return group, nil
}

// SetGroupMember writes a single membership leaf. Removal never cascades to
// rides: a user dropped from the group keeps any ride roles they hold.
func (s *groupService) SetGroupMember(ctx context.Context, groupID, userID string, isMember bool) error {
	group, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if !isMember && group.Owner == userID {
		return fmt.Errorf("%w: group '%s'", ErrOwnerRemoval, groupID)
	}
	if err := s.groups.SetMember(ctx, groupID, userID, isMember); err != nil {
		return fmt.Errorf("failed to set member '%s' of group '%s': %w", userID, groupID, err)
	}
	return nil
}

// SetGroupRide attaches or detaches a ride id on the group's ride list. The
// ride record itself is untouched either way.
func (s *groupService) SetGroupRide(ctx context.Context, groupID, rideID string, isChild bool) error {
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return err
	}
	if err := s.groups.SetRide(ctx, groupID, rideID, isChild); err != nil {
		return fmt.Errorf("failed to set ride '%s' on group '%s': %w", rideID, groupID, err)
	}
	return nil
}

// SetGroupBanner replaces the group's banner image reference.
func (s *groupService) SetGroupBanner(ctx context.Context, groupID, banner string) error {
	if err := s.groups.SetBanner(ctx, groupID, banner); err != nil {
		return fmt.Errorf("failed to set banner of group '%s': %w", groupID, err)
	}
	return nil
}

// SetGroupProfilePic replaces the group's profile picture reference.
func (s *groupService) SetGroupProfilePic(ctx context.Context, groupID, profilePic string) error {
	if err := s.groups.SetProfilePic(ctx, groupID, profilePic); err != nil {
		return fmt.Errorf("failed to set profile pic of group '%s': %w", groupID, err)
	}
	return nil
}

// WatchGroup streams group snapshots.
func (s *groupService) WatchGroup(ctx context.Context, groupID string) (<-chan *models.Group, func(), error) {
	return s.groups.Watch(ctx, groupID)
}

package core

import (
	"context"

	"carpool-backend-go/internal/models"
)

// RideService is the ride coordination engine. It owns every cross-entity
// invariant around driver assignment, pickup membership, start resolution,
// route recomputation, and completion.
//
// A ride conceptually moves through four states: Unassigned (no driver),
// Assigned (driver set, start unresolved), Routed (start resolved, route
// stored), and Complete. The states are never stored as an enum; they fall
// out of which fields are present. Methods below are the named transitions.
type RideService interface {
	CreateRide(ctx context.Context, req models.CreateRideRequest) (*models.Ride, error)
	GetRide(ctx context.Context, rideID string) (*models.Ride, error)
	AddPickup(ctx context.Context, rideID string, pickup models.PickupPoint) (string, error)

	// AssignDriver sets the ride's driver and carId (two independent writes).
	// If the driver already belongs to a pickup point, that point becomes the
	// ride's start and a route recompute is launched; the returned handle is
	// nil when no start was selected.
	AssignDriver(ctx context.Context, rideID, driverID, carID string) (*RecomputeHandle, error)

	// ClearDriver empties driver and carId. The former driver's pickup
	// membership is deliberately left in place.
	ClearDriver(ctx context.Context, rideID string) error

	// SelectStart fixes the ride's start at pickupID and launches an
	// asynchronous route recompute. The handle lets callers wait for the
	// recompute or ignore it; either way the new route becomes observable
	// through subscriptions, never through this call's return.
	SelectStart(ctx context.Context, rideID, pickupID string) (*RecomputeHandle, error)

	// JoinPickup adds or removes a user at a pickup point. Adding also marks
	// the user in the ride's passenger registry, and if the user is the
	// current driver the point becomes the ride's start (handle non-nil).
	// Removing triggers neither.
	JoinPickup(ctx context.Context, rideID, pickupID, userID string, isPassenger bool) (*RecomputeHandle, error)

	// LeaveAllPickups removes the user from every pickup point of the ride
	// and from the passenger registry. Used when a user leaves a ride.
	LeaveAllPickups(ctx context.Context, rideID, userID string) error

	// SetPassenger toggles the passenger registry entry. Demoting the current
	// driver (isPassenger=false while they hold the driver seat) also clears
	// the driver.
	SetPassenger(ctx context.Context, userID, rideID string, isPassenger bool) error

	// CompleteRide marks the ride complete. Completion is terminal for
	// engine-triggered route recomputation; field writes stay possible.
	CompleteRide(ctx context.Context, rideID string) error

	GetRoute(ctx context.Context, rideID string) (*models.Route, error)
	Passengers(ctx context.Context, rideID string) (map[string]bool, error)

	WatchRide(ctx context.Context, rideID string) (<-chan *models.Ride, func(), error)
	WatchRoute(ctx context.Context, rideID string) (<-chan *models.Route, func(), error)
}

// GroupService is the group/ride membership manager.
type GroupService interface {
	CreateGroup(ctx context.Context, ownerID string, req models.CreateGroupRequest) (*models.Group, error)
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// SetGroupMember adds or removes a group member. Removal never cascades
	// to rides: a user dropped from a group keeps any ride roles they hold.
	SetGroupMember(ctx context.Context, groupID, userID string, isMember bool) error

	// SetGroupRide attaches or detaches a ride id on the group's ride list.
	// Purely list membership; the ride itself is untouched.
	SetGroupRide(ctx context.Context, groupID, rideID string, isChild bool) error

	SetGroupBanner(ctx context.Context, groupID, banner string) error
	SetGroupProfilePic(ctx context.Context, groupID, profilePic string) error

	WatchGroup(ctx context.Context, groupID string) (<-chan *models.Group, func(), error)
}

// UserService manages user profiles and vehicle ownership.
type UserService interface {
	// GetOrCreate retrieves a user by ID, creating the profile on first
	// authenticated contact. The bool reports whether a create happened.
	GetOrCreate(ctx context.Context, userID, name, authProvider, email string) (*models.User, bool, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)

	// SetVehicle creates or replaces one of the caller's vehicles. Only the
	// owner may touch their vehicle list.
	SetVehicle(ctx context.Context, callerID, userID string, req models.SetVehicleRequest) (*models.Vehicle, error)
	DeleteVehicle(ctx context.Context, callerID, userID, carID string) error
	GetVehicle(ctx context.Context, userID, carID string) (*models.Vehicle, error)
}

// ChatService appends to and reads the per-group and per-ride chats.
type ChatService interface {
	SendGroupMessage(ctx context.Context, groupID, senderID, contents string) (*models.Message, error)
	SendRideMessage(ctx context.Context, rideID, senderID, contents string) (*models.Message, error)
	GroupMessages(ctx context.Context, groupID string) ([]models.Message, error)
	RideMessages(ctx context.Context, rideID string) ([]models.Message, error)
	WatchGroupChat(ctx context.Context, groupID string) (<-chan []models.Message, func(), error)
	WatchRideChat(ctx context.Context, rideID string) (<-chan []models.Message, func(), error)
}

package db

import (
	"context"

	"carpool-backend-go/internal/models"
)

// GroupRepository defines the interface for group data storage operations.
// Membership and ride-list mutations are single-leaf writes so concurrent
// editors never clobber each other's entries.
type GroupRepository interface {
	// Create stores a new group under a generated key and returns the key.
	Create(ctx context.Context, group *models.Group) (string, error)
	GetByID(ctx context.Context, groupID string) (*models.Group, error)
	Set(ctx context.Context, group *models.Group) error
	SetMember(ctx context.Context, groupID, userID string, isMember bool) error
	SetRide(ctx context.Context, groupID, rideID string, isChild bool) error
	SetBanner(ctx context.Context, groupID, banner string) error
	SetProfilePic(ctx context.Context, groupID, profilePic string) error
	// Watch streams group snapshots; nil means the group is absent. The
	// returned stop function must be called on every exit path.
	Watch(ctx context.Context, groupID string) (<-chan *models.Group, func(), error)
}

// UserRepository defines the interface for user data storage operations.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	Set(ctx context.Context, user *models.User) error
	GetVehicle(ctx context.Context, userID, carID string) (*models.Vehicle, error)
	SetVehicle(ctx context.Context, userID string, vehicle models.Vehicle) error
	DeleteVehicle(ctx context.Context, userID, carID string) error
	Watch(ctx context.Context, userID string) (<-chan *models.User, func(), error)
}

// RideRepository defines the interface for ride data storage operations,
// including the ride's pickup points and its passenger registry. Field
// setters are independent path writes; the store gives no cross-field
// atomicity and the coordination engine is responsible for sequencing them.
type RideRepository interface {
	// Create stores a new ride under a generated key and returns the key.
	Create(ctx context.Context, ride *models.Ride) (string, error)
	GetByID(ctx context.Context, rideID string) (*models.Ride, error)

	// SetDriver and SetCarID write one field each; an empty value clears it.
	SetDriver(ctx context.Context, rideID, driverID string) error
	SetCarID(ctx context.Context, rideID, carID string) error
	SetStart(ctx context.Context, rideID, pickupID string) error
	SetComplete(ctx context.Context, rideID string, isComplete bool) error

	AddPickup(ctx context.Context, rideID string, pickup models.PickupPoint) (string, error)
	GetPickup(ctx context.Context, rideID, pickupID string) (*models.PickupPoint, error)
	SetPickupMember(ctx context.Context, rideID, pickupID, userID string, isMember bool) error

	SetPassenger(ctx context.Context, rideID, userID string, isPassenger bool) error
	Passengers(ctx context.Context, rideID string) (map[string]bool, error)

	Watch(ctx context.Context, rideID string) (<-chan *models.Ride, func(), error)
}

// RouteRepository defines the interface for computed route storage. Routes
// are keyed 1:1 by ride id and only ever replaced wholesale.
type RouteRepository interface {
	GetByRideID(ctx context.Context, rideID string) (*models.Route, error)
	Set(ctx context.Context, rideID string, route models.Route) error
	Watch(ctx context.Context, rideID string) (<-chan *models.Route, func(), error)
}

// ChatRepository defines the interface for the append-only group and ride
// chats. Messages are ordered by their generated keys; there is no update or
// delete.
type ChatRepository interface {
	AppendGroupMessage(ctx context.Context, groupID string, msg models.Message) (string, error)
	AppendRideMessage(ctx context.Context, rideID string, msg models.Message) (string, error)
	GroupMessages(ctx context.Context, groupID string) ([]models.Message, error)
	RideMessages(ctx context.Context, rideID string) ([]models.Message, error)
	WatchGroupChat(ctx context.Context, groupID string) (<-chan []models.Message, func(), error)
	WatchRideChat(ctx context.Context, rideID string) (<-chan []models.Message, func(), error)
}

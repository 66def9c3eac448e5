package db

import (
	"context"
	"errors"
	"fmt"

	"carpool-backend-go/internal/models"
	"carpool-backend-go/internal/store"
)

// rideRepository implements RideRepository on the reactive store.
type rideRepository struct {
	store store.Store
}

// NewRideRepository creates a RideRepository backed by the given store.
func NewRideRepository(s store.Store) RideRepository {
	return &rideRepository{store: s}
}

func ridePath(rideID string) string {
	return store.Join(store.RidesPath, rideID)
}

func pickupPath(rideID, pickupID string) string {
	return store.Join(store.RidesPath, rideID, "pickupPoints", pickupID)
}

// Create stores a new ride under a generated key. Rides arriving with an ID
// already set are rejected; keys belong to the store.
func (r *rideRepository) Create(ctx context.Context, ride *models.Ride) (string, error) {
	if ride == nil {
		return "", errors.New("ride cannot be nil for Create operation")
	}
	if ride.ID != "" {
		return "", fmt.Errorf("unexpected ID '%s' in ride for Create operation", ride.ID)
	}
	key, err := r.store.Push(ctx, store.RidesPath, ride)
	if err != nil {
		return "", fmt.Errorf("failed to create ride: %w", err)
	}
	ride.ID = key
	return key, nil
}

// GetByID retrieves a full ride, pickup points included. Keys are re-attached
// onto the ride and each pickup point.
func (r *rideRepository) GetByID(ctx context.Context, rideID string) (*models.Ride, error) {
	if rideID == "" {
		return nil, errors.New("rideID cannot be empty for GetByID operation")
	}
	var ride models.Ride
	if err := r.store.Get(ctx, ridePath(rideID), &ride); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("ride with ID '%s' not found: %w", rideID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get ride with ID '%s': %w", rideID, err)
	}
	ride.ID = rideID
	for pickupID, p := range ride.PickupPoints {
		p.ID = pickupID
		ride.PickupPoints[pickupID] = p
	}
	return &ride, nil
}

// SetDriver writes the ride's driver field; an empty driverID clears it. This
// is one path write, deliberately independent of SetCarID.
func (r *rideRepository) SetDriver(ctx context.Context, rideID, driverID string) error {
	path := store.Join(ridePath(rideID), "driver")
	if driverID == "" {
		return r.store.Delete(ctx, path)
	}
	return r.store.Set(ctx, path, driverID)
}

// SetCarID writes the ride's carId field; an empty carID clears it.
func (r *rideRepository) SetCarID(ctx context.Context, rideID, carID string) error {
	path := store.Join(ridePath(rideID), "carId")
	if carID == "" {
		return r.store.Delete(ctx, path)
	}
	return r.store.Set(ctx, path, carID)
}

// SetStart writes the ride's start pickup key.
func (r *rideRepository) SetStart(ctx context.Context, rideID, pickupID string) error {
	return r.store.Set(ctx, store.Join(ridePath(rideID), "start"), pickupID)
}

// SetComplete writes the ride's completion flag.
func (r *rideRepository) SetComplete(ctx context.Context, rideID string, isComplete bool) error {
	return r.store.Set(ctx, store.Join(ridePath(rideID), "isComplete"), isComplete)
}

// AddPickup appends a pickup point under the ride with a generated key.
func (r *rideRepository) AddPickup(ctx context.Context, rideID string, pickup models.PickupPoint) (string, error) {
	if rideID == "" {
		return "", errors.New("rideID cannot be empty for AddPickup operation")
	}
	key, err := r.store.Push(ctx, store.Join(ridePath(rideID), "pickupPoints"), pickup)
	if err != nil {
		return "", fmt.Errorf("failed to add pickup to ride '%s': %w", rideID, err)
	}
	return key, nil
}

// GetPickup reads one pickup point of a ride.
func (r *rideRepository) GetPickup(ctx context.Context, rideID, pickupID string) (*models.PickupPoint, error) {
	if rideID == "" || pickupID == "" {
		return nil, errors.New("rideID and pickupID are required for GetPickup operation")
	}
	var pickup models.PickupPoint
	if err := r.store.Get(ctx, pickupPath(rideID, pickupID), &pickup); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("pickup '%s' of ride '%s' not found: %w", pickupID, rideID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get pickup '%s' of ride '%s': %w", pickupID, rideID, err)
	}
	pickup.ID = pickupID
	return &pickup, nil
}

// SetPickupMember writes or clears a single membership leaf under a pickup
// point. Removal deletes the leaf so the member set stays a true set.
func (r *rideRepository) SetPickupMember(ctx context.Context, rideID, pickupID, userID string, isMember bool) error {
	path := store.Join(pickupPath(rideID, pickupID), "members", userID)
	if isMember {
		return r.store.Set(ctx, path, true)
	}
	return r.store.Delete(ctx, path)
}

// SetPassenger writes or clears a user's entry in the ride's parallel
// passenger registry at passengers/{rideId}/{userId}.
func (r *rideRepository) SetPassenger(ctx context.Context, rideID, userID string, isPassenger bool) error {
	path := store.Join(store.PassengersPath, rideID, userID)
	if isPassenger {
		return r.store.Set(ctx, path, true)
	}
	return r.store.Delete(ctx, path)
}

// Passengers reads the ride's passenger registry. An absent registry is
// ErrNotFound, like any other empty path; callers decide whether that means
// "no passengers yet".
func (r *rideRepository) Passengers(ctx context.Context, rideID string) (map[string]bool, error) {
	if rideID == "" {
		return nil, errors.New("rideID cannot be empty for Passengers operation")
	}
	var registry map[string]bool
	if err := r.store.Get(ctx, store.Join(store.PassengersPath, rideID), &registry); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("passenger registry of ride '%s' not found: %w", rideID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get passenger registry of ride '%s': %w", rideID, err)
	}
	return registry, nil
}

// Watch streams ride snapshots.
func (r *rideRepository) Watch(ctx context.Context, rideID string) (<-chan *models.Ride, func(), error) {
	return watchEntity(ctx, r.store, ridePath(rideID), func(ride *models.Ride) {
		ride.ID = rideID
		for pickupID, p := range ride.PickupPoints {
			p.ID = pickupID
			ride.PickupPoints[pickupID] = p
		}
	})
}

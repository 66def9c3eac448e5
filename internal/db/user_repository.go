package db

import (
	"context"
	"errors"
	"fmt"

	"carpool-backend-go/internal/models"
	"carpool-backend-go/internal/store"
)

// userRepository implements UserRepository on the reactive store.
type userRepository struct {
	store store.Store
}

// NewUserRepository creates a UserRepository backed by the given store.
func NewUserRepository(s store.Store) UserRepository {
	return &userRepository{store: s}
}

func userPath(userID string) string {
	return store.Join(store.UsersPath, userID)
}

func vehiclePath(userID, carID string) string {
	return store.Join(store.UsersPath, userID, "vehicles", carID)
}

// GetByID retrieves a user by their Firebase Auth UID.
func (r *userRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for GetByID operation")
	}
	var user models.User
	if err := r.store.Get(ctx, userPath(userID), &user); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("user with ID '%s' not found: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user with ID '%s': %w", userID, err)
	}
	user.UID = userID
	for carID, v := range user.Vehicles {
		v.CarID = carID
		user.Vehicles[carID] = v
	}
	return &user, nil
}

// Set writes the full user record at users/{uid}.
func (r *userRepository) Set(ctx context.Context, user *models.User) error {
	if user == nil || user.UID == "" {
		return errors.New("user UID cannot be empty for Set operation")
	}
	if err := r.store.Set(ctx, userPath(user.UID), user); err != nil {
		return fmt.Errorf("failed to set user with ID '%s': %w", user.UID, err)
	}
	return nil
}

// GetVehicle reads a single vehicle owned by userID.
func (r *userRepository) GetVehicle(ctx context.Context, userID, carID string) (*models.Vehicle, error) {
	if userID == "" || carID == "" {
		return nil, errors.New("userID and carID are required for GetVehicle operation")
	}
	var vehicle models.Vehicle
	if err := r.store.Get(ctx, vehiclePath(userID, carID), &vehicle); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("vehicle '%s' of user '%s' not found: %w", carID, userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get vehicle '%s' of user '%s': %w", carID, userID, err)
	}
	vehicle.CarID = carID
	return &vehicle, nil
}

// SetVehicle writes one vehicle under users/{uid}/vehicles/{carId}. The key
// comes from vehicle.CarID and is not duplicated inside the record.
func (r *userRepository) SetVehicle(ctx context.Context, userID string, vehicle models.Vehicle) error {
	if userID == "" || vehicle.CarID == "" {
		return errors.New("userID and vehicle.CarID are required for SetVehicle operation")
	}
	if err := r.store.Set(ctx, vehiclePath(userID, vehicle.CarID), vehicle); err != nil {
		return fmt.Errorf("failed to set vehicle '%s' of user '%s': %w", vehicle.CarID, userID, err)
	}
	return nil
}

// DeleteVehicle removes one vehicle.
func (r *userRepository) DeleteVehicle(ctx context.Context, userID, carID string) error {
	if userID == "" || carID == "" {
		return errors.New("userID and carID are required for DeleteVehicle operation")
	}
	if err := r.store.Delete(ctx, vehiclePath(userID, carID)); err != nil {
		return fmt.Errorf("failed to delete vehicle '%s' of user '%s': %w", carID, userID, err)
	}
	return nil
}

// Watch streams user snapshots.
func (r *userRepository) Watch(ctx context.Context, userID string) (<-chan *models.User, func(), error) {
	return watchEntity(ctx, r.store, userPath(userID), func(u *models.User) {
		u.UID = userID
		for carID, v := range u.Vehicles {
			v.CarID = carID
			u.Vehicles[carID] = v
		}
	})
}

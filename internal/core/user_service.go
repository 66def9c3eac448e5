package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"carpool-backend-go/internal/db"
	"carpool-backend-go/internal/models"
)

// Custom errors for the UserService
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrVehicleNotFound = errors.New("vehicle not found")

	// ErrNotVehicleOwner is returned when a caller tries to change a vehicle
	// list that is not their own.
	ErrNotVehicleOwner = errors.New("caller does not own this vehicle list")
)

// userService implements the UserService interface.
type userService struct {
	users  db.UserRepository
	logger *zap.Logger
}

// NewUserService creates a new UserService instance.
func NewUserService(users db.UserRepository, logger *zap.Logger) UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &userService{users: users, logger: logger}
}

// GetOrCreate returns the profile for userID, creating it on first
// authenticated contact. The bool reports whether a create happened.
func (s *userService) GetOrCreate(ctx context.Context, userID, name, authProvider, email string) (*models.User, bool, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to get user '%s': %w", userID, err)
	}

	user = &models.User{
		UID:          userID,
		Name:         name,
		AuthProvider: authProvider,
		Email:        email,
	}
	if err := s.users.Set(ctx, user); err != nil {
		return nil, false, fmt.Errorf("failed to create user '%s': %w", userID, err)
	}
	s.logger.Info("user profile created", zap.String("uid", userID), zap.String("authProvider", authProvider))
	return user, true, nil
}

// GetByID retrieves a user by their UID.
func (s *userService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: user '%s'", ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get user '%s': %w", userID, err)
	}
	return user, nil
}

// SetVehicle creates or replaces one of userID's vehicles. Only the owner may
// touch their vehicle list.
func (s *userService) SetVehicle(ctx context.Context, callerID, userID string, req models.SetVehicleRequest) (*models.Vehicle, error) {
	if callerID != userID {
		return nil, fmt.Errorf("%w: caller '%s', owner '%s'", ErrNotVehicleOwner, callerID, userID)
	}
	carID := req.CarID
	if carID == "" {
		carID = uuid.NewString()
	}
	vehicle := models.Vehicle{
		CarID:       carID,
		Type:        req.Type,
		FuelUsage:   req.FuelUsage,
		NumSeats:    req.NumSeats,
		DisplayName: req.DisplayName,
	}
	if err := s.users.SetVehicle(ctx, userID, vehicle); err != nil {
		return nil, fmt.Errorf("failed to set vehicle '%s' of user '%s': %w", carID, userID, err)
	}
	s.logger.Info("vehicle stored", zap.String("uid", userID), zap.String("carId", carID))
	return &vehicle, nil
}

// DeleteVehicle removes one of userID's vehicles. Rides that reference the
// carId are left as-is; their next route recompute tolerates the dangling
// reference with a zero fuel estimate.
func (s *userService) DeleteVehicle(ctx context.Context, callerID, userID, carID string) error {
	if callerID != userID {
		return fmt.Errorf("%w: caller '%s', owner '%s'", ErrNotVehicleOwner, callerID, userID)
	}
	if err := s.users.DeleteVehicle(ctx, userID, carID); err != nil {
		return fmt.Errorf("failed to delete vehicle '%s' of user '%s': %w", carID, userID, err)
	}
	return nil
}

// GetVehicle reads a single vehicle of userID.
func (s *userService) GetVehicle(ctx context.Context, userID, carID string) (*models.Vehicle, error) {
	vehicle, err := s.users.GetVehicle(ctx, userID, carID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: vehicle '%s' of user '%s'", ErrVehicleNotFound, carID, userID)
		}
		return nil, fmt.Errorf("failed to get vehicle '%s' of user '%s': %w", carID, userID, err)
	}
	return vehicle, nil
}

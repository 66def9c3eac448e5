package db

import (
	"context"
	"errors"
	"fmt"

	"carpool-backend-go/internal/models"
	"carpool-backend-go/internal/store"
)

// routeRepository implements RouteRepository on the reactive store.
type routeRepository struct {
	store store.Store
}

// NewRouteRepository creates a RouteRepository backed by the given store.
func NewRouteRepository(s store.Store) RouteRepository {
	return &routeRepository{store: s}
}

func routePath(rideID string) string {
	return store.Join(store.RoutesPath, rideID)
}

// GetByRideID retrieves the computed route for a ride.
func (r *routeRepository) GetByRideID(ctx context.Context, rideID string) (*models.Route, error) {
	if rideID == "" {
		return nil, errors.New("rideID cannot be empty for GetByRideID operation")
	}
	var route models.Route
	if err := r.store.Get(ctx, routePath(rideID), &route); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("route for ride '%s' not found: %w", rideID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get route for ride '%s': %w", rideID, err)
	}
	return &route, nil
}

// Set replaces the route for a ride wholesale. Routes are derived data and
// never merged.
func (r *routeRepository) Set(ctx context.Context, rideID string, route models.Route) error {
	if rideID == "" {
		return errors.New("rideID cannot be empty for Set operation")
	}
	if err := r.store.Set(ctx, routePath(rideID), route); err != nil {
		return fmt.Errorf("failed to set route for ride '%s': %w", rideID, err)
	}
	return nil
}

// Watch streams route snapshots; nil means no route has been computed yet.
func (r *routeRepository) Watch(ctx context.Context, rideID string) (<-chan *models.Route, func(), error) {
	return watchEntity[models.Route](ctx, r.store, routePath(rideID), nil)
}

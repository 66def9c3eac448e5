package routing

import (
	"context"
	"errors"

	"carpool-backend-go/internal/models"
)

// ErrRouteUnavailable is returned when the route provider fails or reports
// that no path exists. Callers abandon the recompute and keep whatever route
// was stored before; there is no automatic retry.
var ErrRouteUnavailable = errors.New("route unavailable")

// Plan is the provider's answer for an ordered waypoint sequence. Distance is
// meters, Duration is seconds, Shape is the route geometry in travel order.
type Plan struct {
	DistanceMeters  float64
	DurationSeconds float64
	Shape           []models.Coord
}

// Planner computes a route through an ordered sequence of at least two
// waypoints. Implementations must not mutate the waypoint slice.
type Planner interface {
	Optimize(ctx context.Context, waypoints []models.Coord) (Plan, error)
}

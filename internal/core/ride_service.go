package core

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"carpool-backend-go/internal/db"
	"carpool-backend-go/internal/models"
	"carpool-backend-go/internal/observability"
	"carpool-backend-go/internal/routing"
)

// Custom errors for the RideService
var (
	ErrRideNotFound = errors.New("ride not found")

	// ErrInvalidReference is returned when an operation names a pickup point,
	// vehicle, or driver that its parent does not contain. The check is
	// best-effort: the store is non-transactional, so a reference can still
	// go stale between the check and the write.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrRouteUnavailable mirrors routing.ErrRouteUnavailable at the service
	// boundary: the recompute was abandoned and the previous route, if any,
	// is still stored.
	ErrRouteUnavailable = routing.ErrRouteUnavailable
)

// rideService implements the RideService interface.
type rideService struct {
	rides   db.RideRepository
	routes  db.RouteRepository
	users   db.UserRepository
	planner routing.Planner
	logger  *zap.Logger
}

// NewRideService creates a new RideService instance.
func NewRideService(
	rides db.RideRepository,
	routes db.RouteRepository,
	users db.UserRepository,
	planner routing.Planner,
	logger *zap.Logger,
) RideService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &rideService{
		rides:   rides,
		routes:  routes,
		users:   users,
		planner: planner,
		logger:  logger,
	}
}

// CreateRide stores a new ride and its initial pickup points. The ride record
// and each pickup are separate writes; a subscriber may briefly observe the
// ride before all pickups have landed.
func (s *rideService) CreateRide(ctx context.Context, req models.CreateRideRequest) (*models.Ride, error) {
	ride := &models.Ride{
		Name:      req.Name,
		End:       req.End,
		StartDate: req.StartDate,
	}
	rideID, err := s.rides.Create(ctx, ride)
	if err != nil {
		return nil, fmt.Errorf("failed to create ride: %w", err)
	}
	for _, pickup := range req.PickupPoints {
		pickup.ID = ""
		if _, err := s.rides.AddPickup(ctx, rideID, pickup); err != nil {
			return nil, fmt.Errorf("failed to add initial pickup to ride '%s': %w", rideID, err)
		}
	}
	created, err := s.rides.GetByID(ctx, rideID)
	if err != nil {
		return nil, fmt.Errorf("failed to read back created ride '%s': %w", rideID, err)
	}
	s.logger.Info("ride created", zap.String("rideId", rideID), zap.Int("pickups", len(created.PickupPoints)))
	return created, nil
}

// GetRide retrieves a ride by ID.
func (s *rideService) GetRide(ctx context.Context, rideID string) (*models.Ride, error) {
	ride, err := s.rides.GetByID(ctx, rideID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: ride '%s'", ErrRideNotFound, rideID)
		}
		return nil, fmt.Errorf("failed to get ride '%s': %w", rideID, err)
	}
	return ride, nil
}

// AddPickup appends a pickup point to the ride and returns its generated key.
func (s *rideService) AddPickup(ctx context.Context, rideID string, pickup models.PickupPoint) (string, error) {
	if _, err := s.GetRide(ctx, rideID); err != nil {
		return "", err
	}
	pickup.ID = ""
	key, err := s.rides.AddPickup(ctx, rideID, pickup)
	if err != nil {
		return "", fmt.Errorf("failed to add pickup to ride '%s': %w", rideID, err)
	}
	return key, nil
}

// AssignDriver sets the ride's driver and carId, then resolves the start
// point if the new driver already belongs to one of the ride's pickup points.
//
// The two field writes are independent; another subscriber can observe the
// new driver with the old carId for a moment. That window is inherent to the
// store and documented at the repository layer.
func (s *rideService) AssignDriver(ctx context.Context, rideID, driverID, carID string) (*RecomputeHandle, error) {
	if driverID == "" {
		return nil, fmt.Errorf("%w: driver id is empty", ErrInvalidReference)
	}
	if carID != "" {
		// Best-effort ownership guard. The vehicle can still be deleted
		// between this read and the write below; the next recompute re-reads
		// and tolerates a dangling carId.
		if _, err := s.users.GetVehicle(ctx, driverID, carID); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return nil, fmt.Errorf("%w: car '%s' is not owned by driver '%s'", ErrInvalidReference, carID, driverID)
			}
			return nil, fmt.Errorf("failed to verify vehicle '%s' of driver '%s': %w", carID, driverID, err)
		}
	}

	if err := s.rides.SetDriver(ctx, rideID, driverID); err != nil {
		return nil, fmt.Errorf("failed to set driver on ride '%s': %w", rideID, err)
	}
	if err := s.rides.SetCarID(ctx, rideID, carID); err != nil {
		return nil, fmt.Errorf("failed to set carId on ride '%s': %w", rideID, err)
	}
	observability.DriverAssignmentsTotal.Inc()
	s.logger.Info("driver assigned", zap.String("rideId", rideID), zap.String("driverId", driverID), zap.String("carId", carID))

	ride, err := s.GetRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	for _, pickupID := range sortedPickupKeys(ride.PickupPoints) {
		if ride.PickupPoints[pickupID].HasMember(driverID) {
			// The driver already boards somewhere: that point is the start.
			if err := s.rides.SetStart(ctx, rideID, pickupID); err != nil {
				return nil, fmt.Errorf("failed to set start on ride '%s': %w", rideID, err)
			}
			return s.launchRecompute(ctx, rideID), nil
		}
	}
	return nil, nil
}

// ClearDriver empties driver and carId.
func (s *rideService) ClearDriver(ctx context.Context, rideID string) error {
	if err := s.rides.SetDriver(ctx, rideID, ""); err != nil {
		return fmt.Errorf("failed to clear driver on ride '%s': %w", rideID, err)
	}
	if err := s.rides.SetCarID(ctx, rideID, ""); err != nil {
		return fmt.Errorf("failed to clear carId on ride '%s': %w", rideID, err)
	}
	s.logger.Info("driver cleared", zap.String("rideId", rideID))
	return nil
}

// SelectStart fixes the ride's start and launches the route recompute.
func (s *rideService) SelectStart(ctx context.Context, rideID, pickupID string) (*RecomputeHandle, error) {
	ride, err := s.GetRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if _, ok := ride.PickupPoints[pickupID]; !ok {
		return nil, fmt.Errorf("%w: ride '%s' has no pickup point '%s'", ErrInvalidReference, rideID, pickupID)
	}
	if err := s.rides.SetStart(ctx, rideID, pickupID); err != nil {
		return nil, fmt.Errorf("failed to set start on ride '%s': %w", rideID, err)
	}
	return s.launchRecompute(ctx, rideID), nil
}

// JoinPickup adds or removes a user at a pickup point.
func (s *rideService) JoinPickup(ctx context.Context, rideID, pickupID, userID string, isPassenger bool) (*RecomputeHandle, error) {
	if !isPassenger {
		// Leaving one point is not leaving the ride; the passenger registry
		// and the route are left alone.
		if err := s.rides.SetPickupMember(ctx, rideID, pickupID, userID, false); err != nil {
			return nil, fmt.Errorf("failed to remove '%s' from pickup '%s' of ride '%s': %w", userID, pickupID, rideID, err)
		}
		return nil, nil
	}

	ride, err := s.GetRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if _, ok := ride.PickupPoints[pickupID]; !ok {
		return nil, fmt.Errorf("%w: ride '%s' has no pickup point '%s'", ErrInvalidReference, rideID, pickupID)
	}
	if err := s.rides.SetPickupMember(ctx, rideID, pickupID, userID, true); err != nil {
		return nil, fmt.Errorf("failed to add '%s' to pickup '%s' of ride '%s': %w", userID, pickupID, rideID, err)
	}
	// Pickup membership is the authoritative passenger signal; the registry
	// is kept in step here so both reads agree.
	if err := s.rides.SetPassenger(ctx, rideID, userID, true); err != nil {
		return nil, fmt.Errorf("failed to register passenger '%s' on ride '%s': %w", userID, rideID, err)
	}

	if ride.Driver == userID {
		// The driver boarding a point fixes the ride's start there.
		if err := s.rides.SetStart(ctx, rideID, pickupID); err != nil {
			return nil, fmt.Errorf("failed to set start on ride '%s': %w", rideID, err)
		}
		return s.launchRecompute(ctx, rideID), nil
	}
	return nil, nil
}

// LeaveAllPickups removes the user from every pickup point they appear in and
// drops their passenger registry entry.
func (s *rideService) LeaveAllPickups(ctx context.Context, rideID, userID string) error {
	ride, err := s.GetRide(ctx, rideID)
	if err != nil {
		return err
	}
	for _, pickupID := range sortedPickupKeys(ride.PickupPoints) {
		if !ride.PickupPoints[pickupID].HasMember(userID) {
			continue
		}
		if err := s.rides.SetPickupMember(ctx, rideID, pickupID, userID, false); err != nil {
			return fmt.Errorf("failed to remove '%s' from pickup '%s' of ride '%s': %w", userID, pickupID, rideID, err)
		}
	}
	if err := s.rides.SetPassenger(ctx, rideID, userID, false); err != nil {
		return fmt.Errorf("failed to deregister passenger '%s' on ride '%s': %w", userID, rideID, err)
	}
	return nil
}

// SetPassenger toggles the registry entry; demoting the current driver also
// clears the driver seat.
func (s *rideService) SetPassenger(ctx context.Context, userID, rideID string, isPassenger bool) error {
	if err := s.rides.SetPassenger(ctx, rideID, userID, isPassenger); err != nil {
		return fmt.Errorf("failed to set passenger '%s' on ride '%s': %w", userID, rideID, err)
	}
	if isPassenger {
		return nil
	}
	ride, err := s.GetRide(ctx, rideID)
	if err != nil {
		return err
	}
	if ride.Driver == userID {
		return s.ClearDriver(ctx, rideID)
	}
	return nil
}

// CompleteRide marks the ride complete.
func (s *rideService) CompleteRide(ctx context.Context, rideID string) error {
	if err := s.rides.SetComplete(ctx, rideID, true); err != nil {
		return fmt.Errorf("failed to complete ride '%s': %w", rideID, err)
	}
	s.logger.Info("ride completed", zap.String("rideId", rideID))
	return nil
}

// GetRoute returns the stored route for a ride, if one has been computed.
func (s *rideService) GetRoute(ctx context.Context, rideID string) (*models.Route, error) {
	route, err := s.routes.GetByRideID(ctx, rideID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: no route for ride '%s'", ErrRideNotFound, rideID)
		}
		return nil, fmt.Errorf("failed to get route for ride '%s': %w", rideID, err)
	}
	return route, nil
}

// Passengers returns the ride's passenger registry; an absent registry is an
// empty set, not an error.
func (s *rideService) Passengers(ctx context.Context, rideID string) (map[string]bool, error) {
	registry, err := s.rides.Passengers(ctx, rideID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return map[string]bool{}, nil
		}
		return nil, fmt.Errorf("failed to get passengers of ride '%s': %w", rideID, err)
	}
	return registry, nil
}

// WatchRide streams ride snapshots.
func (s *rideService) WatchRide(ctx context.Context, rideID string) (<-chan *models.Ride, func(), error) {
	return s.rides.Watch(ctx, rideID)
}

// WatchRoute streams route snapshots.
func (s *rideService) WatchRoute(ctx context.Context, rideID string) (<-chan *models.Route, func(), error) {
	return s.routes.Watch(ctx, rideID)
}

// launchRecompute starts the asynchronous route recomputation for a ride and
// returns its handle. The task re-reads the ride so it always plans against
// the freshest state, not the snapshot the caller acted on. Two overlapping
// recomputes race at the store with last-write-wins; a slow earlier response
// can overwrite a faster later one, which is the store's documented behavior,
// not something the engine papers over.
func (s *rideService) launchRecompute(ctx context.Context, rideID string) *RecomputeHandle {
	handle := newRecomputeHandle()
	// The task outlives the request that triggered it.
	taskCtx := context.WithoutCancel(ctx)
	go func() {
		handle.complete(s.recomputeRoute(taskCtx, rideID))
	}()
	return handle
}

func (s *rideService) recomputeRoute(ctx context.Context, rideID string) error {
	observability.RouteRecomputesTotal.Inc()

	ride, err := s.GetRide(ctx, rideID)
	if err != nil {
		return err
	}
	if ride.IsComplete {
		// Completion ends engine-triggered routing. Advisory only: nothing
		// stops a caller from still editing ride fields.
		s.logger.Info("skipping route recompute for completed ride", zap.String("rideId", rideID))
		return nil
	}
	start, ok := ride.PickupPoints[ride.Start]
	if !ok {
		return fmt.Errorf("%w: ride '%s' start '%s' is not a pickup point", ErrInvalidReference, rideID, ride.Start)
	}

	// Waypoints: start point, every other pickup in key order, then the end.
	waypoints := make([]models.Coord, 0, len(ride.PickupPoints)+1)
	waypoints = append(waypoints, start.Location)
	for _, pickupID := range sortedPickupKeys(ride.PickupPoints) {
		if pickupID == ride.Start {
			continue
		}
		waypoints = append(waypoints, ride.PickupPoints[pickupID].Location)
	}
	waypoints = append(waypoints, ride.End)

	plan, err := s.planner.Optimize(ctx, waypoints)
	if err != nil {
		// Abandon the recompute; the previously stored route stays visible.
		observability.RouteRecomputeFailures.Inc()
		s.logger.Warn("route recompute failed, keeping previous route",
			zap.String("rideId", rideID), zap.Int("waypoints", len(waypoints)), zap.Error(err))
		return fmt.Errorf("recompute for ride '%s': %w", rideID, err)
	}

	route := models.Route{
		Distance: plan.DistanceMeters,
		FuelUsed: s.fuelEstimate(ctx, ride, plan.DistanceMeters),
		Shape:    plan.Shape,
	}
	if err := s.routes.Set(ctx, rideID, route); err != nil {
		return fmt.Errorf("failed to store route for ride '%s': %w", rideID, err)
	}
	s.logger.Info("route recomputed",
		zap.String("rideId", rideID),
		zap.Float64("distanceMeters", route.Distance),
		zap.Float64("fuelLiters", route.FuelUsed))
	return nil
}

// fuelEstimate derives liters used from the assigned vehicle's consumption.
// A ride without a resolvable vehicle gets 0; the carId may legitimately
// dangle after a concurrent vehicle deletion.
func (s *rideService) fuelEstimate(ctx context.Context, ride *models.Ride, distanceMeters float64) float64 {
	if ride.Driver == "" || ride.CarID == "" {
		return 0
	}
	vehicle, err := s.users.GetVehicle(ctx, ride.Driver, ride.CarID)
	if err != nil {
		s.logger.Warn("cannot resolve vehicle for fuel estimate",
			zap.String("rideId", ride.ID), zap.String("driverId", ride.Driver),
			zap.String("carId", ride.CarID), zap.Error(err))
		return 0
	}
	// FuelUsage is liters per 100 km.
	return vehicle.FuelUsage * distanceMeters / 100000.0
}

// sortedPickupKeys returns the pickup keys in ascending order. Push keys sort
// chronologically, so this is insertion order and stays deterministic within
// a process run.
func sortedPickupKeys(pickups map[string]models.PickupPoint) []string {
	keys := make([]string, 0, len(pickups))
	for k := range pickups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

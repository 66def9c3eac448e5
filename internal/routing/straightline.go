package routing

import (
	"context"
	"fmt"
	"math"

	"carpool-backend-go/internal/models"
)

// StraightLinePlanner estimates routes as great-circle legs between
// consecutive waypoints. It exists for local development and tests where no
// OSRM server is available; production wiring uses OSRMClient.
type StraightLinePlanner struct {
	// SpeedMps is the assumed travel speed for duration estimates.
	// Defaults to 10 m/s when unset.
	SpeedMps float64
}

var _ Planner = (*StraightLinePlanner)(nil)

// Optimize returns the polyline through the waypoints themselves.
func (p *StraightLinePlanner) Optimize(ctx context.Context, waypoints []models.Coord) (Plan, error) {
	if len(waypoints) < 2 {
		return Plan{}, fmt.Errorf("optimize requires at least 2 waypoints, got %d", len(waypoints))
	}
	speed := p.SpeedMps
	if speed <= 0 {
		speed = 10
	}
	var distance float64
	for i := 1; i < len(waypoints); i++ {
		distance += Haversine(waypoints[i-1].Lat, waypoints[i-1].Lng, waypoints[i].Lat, waypoints[i].Lng)
	}
	shape := make([]models.Coord, len(waypoints))
	copy(shape, waypoints)
	return Plan{
		DistanceMeters:  distance,
		DurationSeconds: distance / speed,
		Shape:           shape,
	}, nil
}

// Haversine distance in meters.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	const R = 6371000.0
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}

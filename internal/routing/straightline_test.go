package routing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carpool-backend-go/internal/models"
)

func TestHaversine_KnownDistance(t *testing.T) {
	// Berlin to Munich, roughly 504 km great-circle.
	d := Haversine(52.52, 13.405, 48.137, 11.575)
	assert.InDelta(t, 504000, d, 5000)
}

func TestHaversine_ZeroForSamePoint(t *testing.T) {
	assert.Zero(t, Haversine(48.1, 11.5, 48.1, 11.5))
}

func TestStraightLinePlanner_SumsLegs(t *testing.T) {
	p := &StraightLinePlanner{SpeedMps: 20}
	waypoints := []models.Coord{
		{Lat: 52.52, Lng: 13.405},
		{Lat: 52.53, Lng: 13.41},
		{Lat: 52.54, Lng: 13.42},
	}

	plan, err := p.Optimize(context.Background(), waypoints)
	require.NoError(t, err)

	want := Haversine(52.52, 13.405, 52.53, 13.41) + Haversine(52.53, 13.41, 52.54, 13.42)
	assert.InDelta(t, want, plan.DistanceMeters, 1e-6)
	assert.InDelta(t, want/20, plan.DurationSeconds, 1e-6)
	assert.Equal(t, waypoints, plan.Shape)
}

func TestStraightLinePlanner_DoesNotAliasInput(t *testing.T) {
	p := &StraightLinePlanner{}
	waypoints := []models.Coord{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}}

	plan, err := p.Optimize(context.Background(), waypoints)
	require.NoError(t, err)

	plan.Shape[0].Lat = 99
	assert.Equal(t, 1.0, waypoints[0].Lat)
}

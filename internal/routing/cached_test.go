package routing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carpool-backend-go/internal/cache"
	"carpool-backend-go/internal/models"
)

type mapCache struct {
	mu      sync.Mutex
	entries map[string]string
	getErr  error
	setErr  error
}

var _ cache.Cache = (*mapCache)(nil)

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]string)}
}

func (c *mapCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return "", c.getErr
	}
	return c.entries[key], nil
}

func (c *mapCache) Set(ctx context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[key] = value
	return nil
}

type countingPlanner struct {
	inner Planner
	calls int
}

func (p *countingPlanner) Optimize(ctx context.Context, waypoints []models.Coord) (Plan, error) {
	p.calls++
	return p.inner.Optimize(ctx, waypoints)
}

func TestCachedPlanner_SecondCallIsAHit(t *testing.T) {
	ctx := context.Background()
	counting := &countingPlanner{inner: &StraightLinePlanner{}}
	planner := NewCachedPlanner(counting, newMapCache(), time.Minute, nil)

	waypoints := []models.Coord{{Lat: 52.5, Lng: 13.4}, {Lat: 52.6, Lng: 13.5}}

	first, err := planner.Optimize(ctx, waypoints)
	require.NoError(t, err)
	second, err := planner.Optimize(ctx, waypoints)
	require.NoError(t, err)

	assert.Equal(t, 1, counting.calls, "second call must be served from the cache")
	assert.Equal(t, first, second)
}

func TestCachedPlanner_DifferentWaypointsMiss(t *testing.T) {
	ctx := context.Background()
	counting := &countingPlanner{inner: &StraightLinePlanner{}}
	planner := NewCachedPlanner(counting, newMapCache(), time.Minute, nil)

	_, err := planner.Optimize(ctx, []models.Coord{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}})
	require.NoError(t, err)
	_, err = planner.Optimize(ctx, []models.Coord{{Lat: 2, Lng: 2}, {Lat: 1, Lng: 1}})
	require.NoError(t, err)

	assert.Equal(t, 2, counting.calls, "waypoint order is part of the key")
}

func TestCachedPlanner_CacheFailureFallsThrough(t *testing.T) {
	ctx := context.Background()
	counting := &countingPlanner{inner: &StraightLinePlanner{}}
	c := newMapCache()
	c.getErr = errors.New("redis down")
	c.setErr = errors.New("redis down")
	planner := NewCachedPlanner(counting, c, time.Minute, nil)

	plan, err := planner.Optimize(ctx, []models.Coord{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}})
	require.NoError(t, err)
	assert.Positive(t, plan.DistanceMeters)
	assert.Equal(t, 1, counting.calls)
}

func TestCachedPlanner_CorruptEntryRecomputes(t *testing.T) {
	ctx := context.Background()
	counting := &countingPlanner{inner: &StraightLinePlanner{}}
	c := newMapCache()
	planner := NewCachedPlanner(counting, c, time.Minute, nil)

	waypoints := []models.Coord{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}}
	c.entries[planCacheKey(waypoints)] = "{not json"

	_, err := planner.Optimize(ctx, waypoints)
	require.NoError(t, err)
	assert.Equal(t, 1, counting.calls)
}

func TestCachedPlanner_ProviderErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	c := newMapCache()
	planner := NewCachedPlanner(&failingPlanner{}, c, time.Minute, nil)

	_, err := planner.Optimize(ctx, []models.Coord{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRouteUnavailable)
	assert.Empty(t, c.entries)
}

type failingPlanner struct{}

func (failingPlanner) Optimize(context.Context, []models.Coord) (Plan, error) {
	return Plan{}, ErrRouteUnavailable
}

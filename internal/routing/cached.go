package routing

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"carpool-backend-go/internal/cache"
	"carpool-backend-go/internal/models"
)

// CachedPlanner memoizes another planner's answers. Waypoint lists repeat
// whenever a ride's membership churns without its geometry changing, and the
// provider call is by far the slowest step of a recompute. Cache failures are
// logged and otherwise ignored; the inner planner is always the fallback.
type CachedPlanner struct {
	inner  Planner
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedPlanner wraps inner with a cache. A zero ttl disables expiry on
// the cache's side.
func NewCachedPlanner(inner Planner, c cache.Cache, ttl time.Duration, logger *zap.Logger) *CachedPlanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedPlanner{inner: inner, cache: c, ttl: ttl, logger: logger}
}

var _ Planner = (*CachedPlanner)(nil)

// Optimize implements Planner.
func (p *CachedPlanner) Optimize(ctx context.Context, waypoints []models.Coord) (Plan, error) {
	key := planCacheKey(waypoints)

	if cached, err := p.cache.Get(ctx, key); err != nil {
		p.logger.Warn("route cache get failed", zap.Error(err))
	} else if cached != "" {
		var plan Plan
		if err := json.Unmarshal([]byte(cached), &plan); err == nil {
			return plan, nil
		}
		p.logger.Warn("route cache entry corrupt, recomputing", zap.String("key", key))
	}

	plan, err := p.inner.Optimize(ctx, waypoints)
	if err != nil {
		return Plan{}, err
	}

	if encoded, err := json.Marshal(plan); err == nil {
		if err := p.cache.Set(ctx, key, string(encoded), p.ttl); err != nil {
			p.logger.Warn("route cache set failed", zap.Error(err))
		}
	}
	return plan, nil
}

func planCacheKey(waypoints []models.Coord) string {
	var b strings.Builder
	for _, w := range waypoints {
		fmt.Fprintf(&b, "%.6f,%.6f;", w.Lat, w.Lng)
	}
	sum := sha1.Sum([]byte(b.String()))
	return "route:" + hex.EncodeToString(sum[:])
}

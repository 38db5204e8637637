// README: Redis read-through cache for routing-oracle results.
package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"shuttle/internal/types"
)

const (
	distKeyPrefix  = "routing:dist:%s:%s"
	routeKeyPrefix = "routing:route:"
	// Road distances are stable; a day keeps the cache warm across the
	// booking peaks without growing unbounded.
	distKeyTTL = 24 * time.Hour
	// Route metrics drift with traffic, so they expire quickly. The TTL
	// only has to cover the admission loop, which re-plans the same base
	// route on every version-conflict retry.
	routeKeyTTL = 10 * time.Minute
)

// Commands is the slice of the redis client the cache needs; tests plug in
// an in-memory fake built on redis.NewStringResult / redis.NewStatusResult.
type Commands interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedOracle wraps an Oracle, caching full route metrics and
// point-to-point distances in Redis. Cache trouble must never fail a
// lookup; any miss, error, or corrupt entry falls through to the inner
// oracle and the entry is rewritten.
type CachedOracle struct {
	inner Oracle
	redis Commands
}

func NewCachedOracle(inner Oracle, redis Commands) *CachedOracle {
	return &CachedOracle{inner: inner, redis: redis}
}

func (c *CachedOracle) Route(ctx context.Context, points []types.Point) (RouteMetrics, error) {
	key := routeKey(points)
	if val, err := c.redis.Get(ctx, key).Result(); err == nil {
		var m RouteMetrics
		if uerr := json.Unmarshal([]byte(val), &m); uerr == nil {
			return m, nil
		}
	}

	m, err := c.inner.Route(ctx, points)
	if err != nil {
		return RouteMetrics{}, err
	}
	if encoded, merr := json.Marshal(m); merr == nil {
		_ = c.redis.Set(ctx, key, string(encoded), routeKeyTTL).Err()
	}
	return m, nil
}

func (c *CachedOracle) Distance(ctx context.Context, origin, dest types.Point) (int64, error) {
	key := distKey(origin, dest)
	if val, err := c.redis.Get(ctx, key).Result(); err == nil {
		if meters, perr := strconv.ParseInt(val, 10, 64); perr == nil {
			return meters, nil
		}
	}

	meters, err := c.inner.Distance(ctx, origin, dest)
	if err != nil {
		return 0, err
	}
	_ = c.redis.Set(ctx, key, strconv.FormatInt(meters, 10), distKeyTTL).Err()
	return meters, nil
}

// routeKey identifies an ordered point sequence. Order matters: the legs
// of a route are direction-sensitive.
func routeKey(points []types.Point) string {
	keys := make([]string, len(points))
	for i, p := range points {
		keys[i] = pointKey(p)
	}
	return routeKeyPrefix + strings.Join(keys, "|")
}

func distKey(origin, dest types.Point) string {
	return fmt.Sprintf(distKeyPrefix, pointKey(origin), pointKey(dest))
}

// pointKey rounds to 5 decimals (~1m) so nearby lookups share entries.
func pointKey(p types.Point) string {
	return strconv.FormatFloat(p.Lat, 'f', 5, 64) + "," + strconv.FormatFloat(p.Lng, 'f', 5, 64)
}

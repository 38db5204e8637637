// README: Routing-oracle port; the stop planner depends only on this interface.
package routing

import (
	"context"
	"errors"
	"time"

	"shuttle/internal/types"
)

// ErrUnavailable is returned when the oracle cannot produce a route
// (network failure, timeout, or no route between the points).
var ErrUnavailable = errors.New("routing oracle unavailable")

// Leg is the segment between two consecutive route points.
type Leg struct {
	DistanceMeters int64
	Duration       time.Duration
}

// RouteMetrics describes a route visiting the given points in order.
type RouteMetrics struct {
	DistanceMeters int64
	Duration       time.Duration
	// Legs has one entry per consecutive point pair, in route order.
	Legs []Leg
}

// Oracle computes route and point-to-point metrics. Implementations must
// respect ctx cancellation and deadlines.
type Oracle interface {
	// Route returns metrics for visiting points in the given order.
	// At least two points are required.
	Route(ctx context.Context, points []types.Point) (RouteMetrics, error)
	// Distance returns the driving distance in meters between two points.
	Distance(ctx context.Context, origin, dest types.Point) (int64, error)
}

// CumulativeDistance returns the route distance in meters from the first
// point up to (and including) the leg ending at point index idx.
func (m RouteMetrics) CumulativeDistance(idx int) int64 {
	var total int64
	for i := 0; i < idx && i < len(m.Legs); i++ {
		total += m.Legs[i].DistanceMeters
	}
	return total
}

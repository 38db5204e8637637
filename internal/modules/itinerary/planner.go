// README: Stop planner; searches every pickup/drop-off insertion pair for the cheapest feasible one.
package itinerary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shuttle/internal/routing"
	"shuttle/internal/types"
)

var ErrNoFeasibleInsertion = errors.New("no feasible stop insertion")

// InsertionRequest asks to add one trip's pickup and drop-off to a route.
type InsertionRequest struct {
	TripID   types.ID
	TripCode string
	Pickup   types.Point
	Dropoff  types.Point
	Seats    int
}

// InsertionPlan is the accepted insertion: the full renumbered stop list
// and the incremental cost versus the unmodified route.
type InsertionPlan struct {
	Stops               []Stop
	PickupIndex         int
	DropoffIndex        int
	AddedDistanceMeters int64
	AddedDuration       time.Duration
	RouteDistanceMeters int64
	RouteDuration       time.Duration
	// DirectDistanceMeters is the unpooled pickup-to-drop-off distance, so
	// riders can compare the shared route against going direct.
	DirectDistanceMeters int64
}

type Planner struct {
	oracle routing.Oracle
	// maxDetourPercent caps the growth of any existing trip's remaining
	// distance, in percent of the original remaining distance.
	maxDetourPercent int
}

func NewPlanner(oracle routing.Oracle, maxDetourPercent int) *Planner {
	return &Planner{oracle: oracle, maxDetourPercent: maxDetourPercent}
}

// PlanInsertion tries every pickup position and every later drop-off
// position, rejecting pairs that overload a segment or stretch an existing
// trip past the detour cap, and returns the pair with the least added
// distance (ties: least added duration, then earliest pickup index).
//
// One oracle route call per candidate pair, O(n²) for n pending stops;
// shared runs carry single-digit stop counts so this stays cheap. The
// planner never mutates its input; callers own the write.
func (p *Planner) PlanInsertion(ctx context.Context, stops []Stop, req InsertionRequest, vehicleCapacity int) (*InsertionPlan, error) {
	if req.Seats <= 0 {
		req.Seats = 1
	}
	if req.Seats > vehicleCapacity {
		return nil, fmt.Errorf("%w: party of %d exceeds capacity %d", ErrNoFeasibleInsertion, req.Seats, vehicleCapacity)
	}

	active := ActiveStops(stops)
	split := firstPendingIndex(active)
	passed, pending := active[:split], active[split:]
	baseLoad := onboardLoad(passed)

	baseMetrics, err := p.routeMetrics(ctx, pending)
	if err != nil {
		return nil, err
	}

	pickup := Stop{PointType: StartPoint, TripID: req.TripID, TripCode: req.TripCode, Point: req.Pickup, Seats: req.Seats}
	dropoff := Stop{PointType: EndPoint, TripID: req.TripID, TripCode: req.TripCode, Point: req.Dropoff, Seats: req.Seats}

	type candidate struct {
		pending       []Stop
		pickupIdx     int
		dropoffIdx    int
		addedDistance int64
		addedDuration time.Duration
		metrics       routing.RouteMetrics
	}
	var best *candidate

	n := len(pending)
	for i := 0; i <= n; i++ {
		for j := i; j <= n; j++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			cand := buildCandidate(pending, pickup, dropoff, i, j)
			if !fitsCapacity(cand, baseLoad, vehicleCapacity) {
				continue
			}

			metrics, err := p.routeMetrics(ctx, cand)
			if err != nil {
				return nil, err
			}
			if !p.withinDetour(pending, cand, baseMetrics, metrics) {
				continue
			}

			c := candidate{
				pending:       cand,
				pickupIdx:     i,
				dropoffIdx:    j + 1, // drop-off sits one past the pickup's shift
				addedDistance: metrics.DistanceMeters - baseMetrics.DistanceMeters,
				addedDuration: metrics.Duration - baseMetrics.Duration,
				metrics:       metrics,
			}
			if best == nil || less(c.addedDistance, c.addedDuration, c.pickupIdx, best.addedDistance, best.addedDuration, best.pickupIdx) {
				best = &c
			}
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: trip %s", ErrNoFeasibleInsertion, req.TripID)
	}

	full := make([]Stop, 0, len(passed)+len(best.pending))
	full = append(full, passed...)
	full = append(full, best.pending...)
	Renumber(full)

	direct, err := p.oracle.Distance(ctx, req.Pickup, req.Dropoff)
	if err != nil {
		return nil, err
	}

	return &InsertionPlan{
		Stops:                full,
		PickupIndex:          split + best.pickupIdx,
		DropoffIndex:         split + best.dropoffIdx,
		AddedDistanceMeters:  best.addedDistance,
		AddedDuration:        best.addedDuration,
		RouteDistanceMeters:  best.metrics.DistanceMeters,
		RouteDuration:        best.metrics.Duration,
		DirectDistanceMeters: direct,
	}, nil
}

// buildCandidate inserts pickup before pending[i] and dropoff before
// pending[j] (j == i puts the drop-off directly after the pickup).
func buildCandidate(pending []Stop, pickup, dropoff Stop, i, j int) []Stop {
	out := make([]Stop, 0, len(pending)+2)
	out = append(out, pending[:i]...)
	out = append(out, pickup)
	out = append(out, pending[i:j]...)
	out = append(out, dropoff)
	out = append(out, pending[j:]...)
	return out
}

// fitsCapacity simulates occupancy over every segment of the candidate.
func fitsCapacity(cand []Stop, baseLoad, capacity int) bool {
	load := baseLoad
	for _, st := range cand {
		switch st.PointType {
		case StartPoint:
			load += st.Seats
		case EndPoint:
			load -= st.Seats
		}
		if load > capacity {
			return false
		}
	}
	return true
}

// withinDetour checks every existing trip's remaining distance: the
// distance from the vehicle's position to the trip's drop-off may not grow
// beyond maxDetourPercent of its original value.
func (p *Planner) withinDetour(pending, cand []Stop, base, candMetrics routing.RouteMetrics) bool {
	candPos := make(map[types.ID]int, len(cand))
	for idx, st := range cand {
		if st.PointType == EndPoint {
			candPos[st.TripID] = idx
		}
	}
	for idx, st := range pending {
		if st.PointType != EndPoint {
			continue
		}
		cidx, ok := candPos[st.TripID]
		if !ok {
			continue
		}
		before := base.CumulativeDistance(idx)
		after := candMetrics.CumulativeDistance(cidx)
		// Integer form of after > before * (1 + pct/100).
		if after*100 > before*int64(100+p.maxDetourPercent) {
			return false
		}
	}
	return true
}

// routeMetrics handles the degenerate short routes the oracle rejects.
func (p *Planner) routeMetrics(ctx context.Context, stops []Stop) (routing.RouteMetrics, error) {
	if len(stops) < 2 {
		return routing.RouteMetrics{}, nil
	}
	points := make([]types.Point, len(stops))
	for i, st := range stops {
		points[i] = st.Point
	}
	return p.oracle.Route(ctx, points)
}

func less(dist int64, dur time.Duration, idx int, bDist int64, bDur time.Duration, bIdx int) bool {
	if dist != bDist {
		return dist < bDist
	}
	if dur != bDur {
		return dur < bDur
	}
	return idx < bIdx
}

// README: Shared-itinerary aggregate; ordered stop sequence with versioning.
package itinerary

import (
	"time"

	"shuttle/internal/types"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusPlanned    Status = "PLANNED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type PointType string

const (
	StartPoint PointType = "START_POINT"
	EndPoint   PointType = "END_POINT"
)

// Stop is one pickup or drop-off on the route. Every admitted trip owns
// exactly one START_POINT and one END_POINT stop unless cancelled.
type Stop struct {
	Order     int         `json:"order"`
	PointType PointType   `json:"point_type"`
	TripID    types.ID    `json:"trip_id"`
	TripCode  string      `json:"trip_code"`
	Point     types.Point `json:"point"`
	Seats     int         `json:"seats"`
	IsPass    bool        `json:"is_pass"`
	IsCancel  bool        `json:"is_cancel"`
}

// Itinerary is the multi-stop route one vehicle serves for its schedule.
// Version guards concurrent admissions: every stop mutation is written
// conditioned on the version read.
type Itinerary struct {
	ID                     types.ID
	DriverID               types.ID
	VehicleID              types.ID
	ScheduleID             types.ID
	Stops                  []Stop
	Status                 Status
	Version                int
	DistanceEstimateMeters int64
	DurationActual         time.Duration
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// ActiveStops returns the stops still on the route (cancelled ones
// removed), in order.
func ActiveStops(stops []Stop) []Stop {
	out := make([]Stop, 0, len(stops))
	for _, st := range stops {
		if !st.IsCancel {
			out = append(out, st)
		}
	}
	return out
}

// Renumber rewrites Order densely as 0..len-1 in place. Every insertion or
// removal must renumber before persisting.
func Renumber(stops []Stop) {
	for i := range stops {
		stops[i].Order = i
	}
}

// firstPendingIndex returns the index of the first stop the vehicle has not
// yet passed. Insertions may only happen at or after this index.
func firstPendingIndex(stops []Stop) int {
	for i, st := range stops {
		if !st.IsPass {
			return i
		}
	}
	return len(stops)
}

// onboardLoad sums the seats of trips already picked up but not yet
// dropped off among the passed stops.
func onboardLoad(passed []Stop) int {
	load := 0
	for _, st := range passed {
		switch st.PointType {
		case StartPoint:
			load += st.Seats
		case EndPoint:
			load -= st.Seats
		}
	}
	return load
}

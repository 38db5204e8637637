// README: Trip aggregate, service types, and status state machine.
package trip

import (
	"time"

	"shuttle/internal/types"
)

type Status string

const (
	StatusNone       Status = "NONE"
	StatusBooking    Status = "BOOKING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusPickup     Status = "PICKUP"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
	StatusDroppedOff Status = "DROPPED_OFF"
)

// ServiceType selects the booking flow a trip belongs to.
type ServiceType string

const (
	ServiceHourly      ServiceType = "HOURLY"
	ServiceDestination ServiceType = "DESTINATION"
	ServiceScenicRoute ServiceType = "SCENIC_ROUTE"
	ServiceShared      ServiceType = "SHARED"
)

func (t ServiceType) Valid() bool {
	switch t {
	case ServiceHourly, ServiceDestination, ServiceScenicRoute, ServiceShared:
		return true
	}
	return false
}

// Trip is one customer journey assigned into a driver schedule's window.
type Trip struct {
	ID                types.ID
	Code              string
	CustomerID        types.ID
	DriverID          types.ID
	VehicleID         types.ID
	ScheduleID        types.ID
	Status            Status
	StatusVersion     int
	ServiceType       ServiceType
	StartTime         time.Time
	EstimatedDuration time.Duration
	Seats             int
	Amount            types.Money
	Pickup            types.Point
	Dropoff           types.Point
	CreatedAt         time.Time
	CancelledAt       *time.Time
	CancelReason      *string
}

// EndTime is the trip's estimated end.
func (t *Trip) EndTime() time.Time {
	return t.StartTime.Add(t.EstimatedDuration)
}

// Event records one status transition for the trip's history.
type Event struct {
	ID         int64
	TripID     types.ID
	FromStatus Status
	ToStatus   Status
	ActorType  string
	ActorID    *types.ID
	CreatedAt  time.Time
}

// AllowedTransitions represents the trip state flow as code.
var AllowedTransitions = map[Status][]Status{
	StatusBooking:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusPickup, StatusCancelled},
	StatusPickup:     {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusDroppedOff, StatusCompleted},
	StatusDroppedOff: {StatusCompleted},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

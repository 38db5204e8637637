// README: Booking aggregate; one payment covering one or more trips.
package booking

import (
	"time"

	"shuttle/internal/types"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

// StatusChange is one entry of the booking's status history.
type StatusChange struct {
	Status    Status    `json:"status"`
	ChangedAt time.Time `json:"changed_at"`
}

type Booking struct {
	ID            types.ID
	Code          string
	CustomerID    types.ID
	TripIDs       []types.ID
	TotalAmount   types.Money
	PaymentMethod string
	Status        Status
	StatusHistory []StatusChange
	CreatedAt     time.Time
}

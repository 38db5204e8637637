// README: Driver-schedule model and status definitions.
package schedule

import (
	"time"

	"shuttle/internal/types"
)

type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusIsPaused   Status = "IS_PAUSED"
	StatusCompleted  Status = "COMPLETED"
	StatusDroppedOff Status = "DROPPED_OFF"
	StatusCanceled   Status = "CANCELED"
)

// DriverSchedule assigns a driver and vehicle to one shift on one date.
// Schedules are created in bulk at planning time and never deleted; a later
// planning run supersedes them by status.
type DriverSchedule struct {
	ID        types.ID
	DriverID  types.ID
	VehicleID types.ID
	Date      time.Time // date only; time part is ignored
	Shift     Shift
	Status    Status
	CreatedAt time.Time
}

// Active reports whether the schedule still offers availability.
func (s *DriverSchedule) Active() bool {
	return s.Status != StatusCanceled && s.Status != StatusCompleted
}

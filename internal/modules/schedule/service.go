// README: Driver-schedule service; bulk day planning and status transitions.
package schedule

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"shuttle/internal/types"
)

var (
	ErrBadRequest   = errors.New("bad schedule request")
	ErrShiftOverlap = errors.New("driver already scheduled for an overlapping shift")
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// PlanEntry is one driver/vehicle/shift assignment in a planning batch.
type PlanEntry struct {
	DriverID  types.ID
	VehicleID types.ID
	Shift     Shift
}

// PlanDay creates the schedules for one date. The batch is validated as a
// whole before any insert: no entry may give a driver two overlapping
// shifts, either within the batch or against already stored schedules.
func (s *Service) PlanDay(ctx context.Context, date time.Time, entries []PlanEntry) (int, error) {
	if len(entries) == 0 {
		return 0, fmt.Errorf("%w: empty planning batch", ErrBadRequest)
	}
	byDriver := make(map[types.ID][]Shift)
	for _, e := range entries {
		if e.DriverID == "" || e.VehicleID == "" {
			return 0, fmt.Errorf("%w: entry missing driver or vehicle", ErrBadRequest)
		}
		if !e.Shift.Valid() {
			return 0, fmt.Errorf("%w: unknown shift %q", ErrBadRequest, e.Shift)
		}
		for _, assigned := range byDriver[e.DriverID] {
			if assigned == e.Shift || ShiftsOverlap(assigned, e.Shift) {
				return 0, fmt.Errorf("%w: driver %s shifts %s and %s", ErrShiftOverlap, e.DriverID, assigned, e.Shift)
			}
		}
		byDriver[e.DriverID] = append(byDriver[e.DriverID], e.Shift)
	}

	for driverID, shifts := range byDriver {
		existing, err := s.store.FindByDriverAndDate(ctx, driverID, date)
		if err != nil {
			return 0, err
		}
		for _, es := range existing {
			if !es.Active() {
				continue
			}
			for _, sh := range shifts {
				if es.Shift == sh || ShiftsOverlap(es.Shift, sh) {
					return 0, fmt.Errorf("%w: driver %s shift %s conflicts with stored shift %s", ErrShiftOverlap, driverID, sh, es.Shift)
				}
			}
		}
	}

	now := time.Now()
	schedules := make([]*DriverSchedule, len(entries))
	for i, e := range entries {
		schedules[i] = &DriverSchedule{
			ID:        newID(),
			DriverID:  e.DriverID,
			VehicleID: e.VehicleID,
			Date:      date,
			Shift:     e.Shift,
			Status:    StatusNotStarted,
			CreatedAt: now,
		}
	}
	return s.store.CreateMany(ctx, schedules)
}

// UpdateStatus moves a schedule to the given lifecycle status. Trip
// pickup/start/complete handlers call this as the trip progresses.
func (s *Service) UpdateStatus(ctx context.Context, id types.ID, status Status) error {
	switch status {
	case StatusNotStarted, StatusInProgress, StatusIsPaused, StatusCompleted, StatusDroppedOff, StatusCanceled:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrBadRequest, status)
	}
	return s.store.UpdateStatus(ctx, id, status)
}

func (s *Service) FindByDateAndShifts(ctx context.Context, date time.Time, shifts []Shift) ([]*DriverSchedule, error) {
	return s.store.FindByDateAndShifts(ctx, date, shifts, nil)
}

// RunExpiryTicker completes stale NOT_STARTED schedules once an hour so a
// new planning run supersedes the old one cleanly.
func (s *Service) RunExpiryTicker(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.store.ExpirePast(ctx, time.Now())
			if err != nil {
				log.Printf("schedule expiry: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("schedule expiry: completed %d stale schedules", n)
			}
		}
	}
}

func newID() types.ID {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return types.ID(hex.EncodeToString(b[:]))
}

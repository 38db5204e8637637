// README: Trip service; lifecycle transitions, schedule hand-off, and refunds.
package trip

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"shuttle/internal/modules/schedule"
	"shuttle/internal/types"
)

var (
	ErrInvalidState = errors.New("invalid trip state transition")
	ErrNotFound     = errors.New("trip not found")
	ErrConflict     = errors.New("trip state conflict")
	ErrBadRequest   = errors.New("bad trip request")
)

// ScheduleUpdater moves the owning driver schedule as the trip progresses.
type ScheduleUpdater interface {
	UpdateStatus(ctx context.Context, id types.ID, status schedule.Status) error
}

type Service struct {
	store     *Store
	schedules ScheduleUpdater
}

func NewService(store *Store, schedules ScheduleUpdater) *Service {
	return &Service{store: store, schedules: schedules}
}

type CreateCommand struct {
	CustomerID        types.ID
	DriverID          types.ID
	VehicleID         types.ID
	ScheduleID        types.ID
	ServiceType       ServiceType
	StartTime         time.Time
	EstimatedDuration time.Duration
	Seats             int
	Amount            types.Money
	Pickup            types.Point
	Dropoff           types.Point
}

type TransitionCommand struct {
	TripID    types.ID
	To        Status
	ActorType string
	ActorID   *types.ID
}

type CancelCommand struct {
	TripID    types.ID
	ActorType string
	Reason    string
}

// Refund is the data returned to the payment flow on cancellation.
type Refund struct {
	TripID  types.ID
	Percent int
	Amount  types.Money
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Trip, error) {
	if cmd.CustomerID == "" || cmd.DriverID == "" || cmd.VehicleID == "" || cmd.ScheduleID == "" {
		return nil, fmt.Errorf("%w: missing identifiers", ErrBadRequest)
	}
	if !cmd.ServiceType.Valid() {
		return nil, fmt.Errorf("%w: unknown service type %q", ErrBadRequest, cmd.ServiceType)
	}
	if cmd.EstimatedDuration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrBadRequest)
	}
	if cmd.Seats <= 0 {
		cmd.Seats = 1
	}

	now := time.Now()
	t := &Trip{
		ID:                newID(),
		Code:              newTripCode(),
		CustomerID:        cmd.CustomerID,
		DriverID:          cmd.DriverID,
		VehicleID:         cmd.VehicleID,
		ScheduleID:        cmd.ScheduleID,
		Status:            StatusBooking,
		StatusVersion:     0,
		ServiceType:       cmd.ServiceType,
		StartTime:         cmd.StartTime,
		EstimatedDuration: cmd.EstimatedDuration,
		Seats:             cmd.Seats,
		Amount:            cmd.Amount,
		Pickup:            cmd.Pickup,
		Dropoff:           cmd.Dropoff,
		CreatedAt:         now,
	}
	if err := s.store.Create(ctx, t); err != nil {
		return nil, err
	}
	_ = s.store.AppendEvent(ctx, &Event{
		TripID:     t.ID,
		FromStatus: StatusNone,
		ToStatus:   StatusBooking,
		ActorType:  "customer",
		ActorID:    &cmd.CustomerID,
		CreatedAt:  now,
	})
	return t, nil
}

// Transition applies one lifecycle step with the optimistic version check
// and mirrors the step onto the owning driver schedule.
func (s *Service) Transition(ctx context.Context, cmd TransitionCommand) error {
	t, err := s.store.Get(ctx, cmd.TripID)
	if err != nil {
		return err
	}
	if !CanTransition(t.Status, cmd.To) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidState, t.Status, cmd.To)
	}
	ok, err := s.store.UpdateStatus(ctx, t.ID, t.Status, cmd.To, t.StatusVersion, nil)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	_ = s.store.AppendEvent(ctx, &Event{
		TripID:     t.ID,
		FromStatus: t.Status,
		ToStatus:   cmd.To,
		ActorType:  cmd.ActorType,
		ActorID:    cmd.ActorID,
		CreatedAt:  time.Now(),
	})
	s.mirrorSchedule(ctx, t.ScheduleID, cmd.To)
	return nil
}

// Cancel cancels the trip and computes the refund from the lookup table.
func (s *Service) Cancel(ctx context.Context, cmd CancelCommand) (*Refund, error) {
	t, err := s.store.Get(ctx, cmd.TripID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(t.Status, StatusCancelled) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidState, t.Status, StatusCancelled)
	}
	reason := cmd.Reason
	ok, err := s.store.UpdateStatus(ctx, t.ID, t.Status, StatusCancelled, t.StatusVersion, &reason)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}
	_ = s.store.AppendEvent(ctx, &Event{
		TripID:     t.ID,
		FromStatus: t.Status,
		ToStatus:   StatusCancelled,
		ActorType:  cmd.ActorType,
		ActorID:    nil,
		CreatedAt:  time.Now(),
	})

	percent := RefundPercent(t.ServiceType, t.Status, time.Until(t.StartTime))
	return &Refund{
		TripID:  t.ID,
		Percent: percent,
		Amount:  types.Money{Amount: t.Amount.Amount * int64(percent) / 100, Currency: t.Amount.Currency},
	}, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Trip, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) FindActiveByDriverAndDate(ctx context.Context, driverID types.ID, date time.Time) ([]*Trip, error) {
	return s.store.FindActiveByDriverAndDate(ctx, driverID, date)
}

// mirrorSchedule maps trip steps onto the driver-schedule lifecycle.
// Best effort: a failed mirror is not a failed transition.
func (s *Service) mirrorSchedule(ctx context.Context, scheduleID types.ID, to Status) {
	if s.schedules == nil || scheduleID == "" {
		return
	}
	var st schedule.Status
	switch to {
	case StatusPickup, StatusInProgress:
		st = schedule.StatusInProgress
	case StatusDroppedOff:
		st = schedule.StatusDroppedOff
	case StatusCompleted:
		// Driver takes the mandated break before the next trip.
		st = schedule.StatusIsPaused
	default:
		return
	}
	_ = s.schedules.UpdateStatus(ctx, scheduleID, st)
}

func newID() types.ID {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return types.ID(hex.EncodeToString(b[:]))
}

// newTripCode is the short code shown to customers and drivers.
func newTripCode() string {
	return "TR-" + uuid.NewString()[:8]
}

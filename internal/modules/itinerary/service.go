// README: Admission service; plans insertions against a snapshot and commits with a version-checked write.
package itinerary

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"shuttle/internal/types"
)

var (
	ErrConflict    = errors.New("itinerary version conflict")
	ErrTerminal    = errors.New("itinerary already completed or cancelled")
	ErrUnavailable = errors.New("itinerary service unavailable")
)

// VersionedStore is what the admission loop needs from storage; the pgx
// Store implements it, tests use an in-memory fake.
type VersionedStore interface {
	Create(ctx context.Context, it *Itinerary) error
	Get(ctx context.Context, id types.ID) (*Itinerary, error)
	ReplaceStops(ctx context.Context, id types.ID, stops []Stop, distanceEstimateMeters int64, version int) (bool, error)
}

// CapacitySource resolves a vehicle's seat capacity.
type CapacitySource interface {
	SeatCapacity(ctx context.Context, id types.ID) (int, error)
}

type Service struct {
	store      VersionedStore
	planner    *Planner
	capacities CapacitySource
	// retries bounds whole-planning retries after a version conflict.
	retries int
}

func NewService(store VersionedStore, planner *Planner, capacities CapacitySource, retries int) *Service {
	if retries < 1 {
		retries = 1
	}
	return &Service{store: store, planner: planner, capacities: capacities, retries: retries}
}

type AdmitCommand struct {
	ItineraryID types.ID
	Insertion   InsertionRequest
}

// AdmissionResult reports where the new stops landed and the incremental
// route cost the admission added.
type AdmissionResult struct {
	ItineraryID          types.ID      `json:"itinerary_id"`
	Version              int           `json:"version"`
	PickupIndex          int           `json:"pickup_index"`
	DropoffIndex         int           `json:"dropoff_index"`
	AddedDistanceMeters  int64         `json:"added_distance_m"`
	AddedDuration        time.Duration `json:"added_duration"`
	DirectDistanceMeters int64         `json:"direct_distance_m"`
	Stops                []Stop        `json:"stops"`
}

// Admit inserts one trip's pickup/drop-off pair into the itinerary.
//
// Each attempt reads the itinerary, plans against that immutable snapshot
// (no lock is held across oracle calls), and commits with a write
// conditioned on the version read. A lost race replans from a fresh read,
// up to the retry bound; nothing is committed on any failed attempt.
func (s *Service) Admit(ctx context.Context, cmd AdmitCommand) (*AdmissionResult, error) {
	for attempt := 0; attempt < s.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		it, err := s.store.Get(ctx, cmd.ItineraryID)
		if err != nil {
			return nil, err
		}
		if it.Status.Terminal() {
			return nil, fmt.Errorf("%w: itinerary %s is %s", ErrTerminal, it.ID, it.Status)
		}

		capacity, err := s.capacities.SeatCapacity(ctx, it.VehicleID)
		if err != nil {
			return nil, fmt.Errorf("%w: vehicle %s: %v", ErrUnavailable, it.VehicleID, err)
		}

		plan, err := s.planner.PlanInsertion(ctx, it.Stops, cmd.Insertion, capacity)
		if err != nil {
			return nil, err
		}

		ok, err := s.store.ReplaceStops(ctx, it.ID, plan.Stops, plan.RouteDistanceMeters, it.Version)
		if err != nil {
			return nil, err
		}
		if !ok {
			// Another admission won the version race; replan.
			continue
		}
		return &AdmissionResult{
			ItineraryID:          it.ID,
			Version:              it.Version + 1,
			PickupIndex:          plan.PickupIndex,
			DropoffIndex:         plan.DropoffIndex,
			AddedDistanceMeters:  plan.AddedDistanceMeters,
			AddedDuration:        plan.AddedDuration,
			DirectDistanceMeters: plan.DirectDistanceMeters,
			Stops:                plan.Stops,
		}, nil
	}
	return nil, fmt.Errorf("%w: %v after %d attempts", ErrUnavailable, ErrConflict, s.retries)
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Itinerary, error) {
	return s.store.Get(ctx, id)
}

// Open creates an empty itinerary owned by a driver/vehicle/schedule tuple.
func (s *Service) Open(ctx context.Context, driverID, vehicleID, scheduleID types.ID) (*Itinerary, error) {
	now := time.Now()
	it := &Itinerary{
		ID:         newID(),
		DriverID:   driverID,
		VehicleID:  vehicleID,
		ScheduleID: scheduleID,
		Stops:      []Stop{},
		Status:     StatusPending,
		Version:    0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Create(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func newID() types.ID {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return types.ID(hex.EncodeToString(b[:]))
}

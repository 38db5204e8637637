// README: Booking rollback tests; the store is only reached once every trip lands.
package booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"shuttle/internal/modules/trip"
	"shuttle/internal/types"
)

type stubTripCreator struct {
	failAfter int
	created   int
	cancelled []types.ID
}

func (s *stubTripCreator) Create(_ context.Context, cmd trip.CreateCommand) (*trip.Trip, error) {
	if s.created >= s.failAfter {
		return nil, trip.ErrBadRequest
	}
	s.created++
	return &trip.Trip{
		ID:     types.ID(fmt.Sprintf("t%d", s.created)),
		Amount: types.Money{Amount: 1000, Currency: "USD"},
	}, nil
}

func (s *stubTripCreator) Cancel(_ context.Context, cmd trip.CancelCommand) (*trip.Refund, error) {
	s.cancelled = append(s.cancelled, cmd.TripID)
	return &trip.Refund{TripID: cmd.TripID, Percent: 100}, nil
}

func tripCommand() trip.CreateCommand {
	return trip.CreateCommand{
		DriverID:          "d1",
		VehicleID:         "v1",
		ScheduleID:        "s1",
		ServiceType:       trip.ServiceHourly,
		StartTime:         time.Now().Add(24 * time.Hour),
		EstimatedDuration: time.Hour,
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(nil, &stubTripCreator{failAfter: 10})

	if _, err := svc.Create(context.Background(), CreateCommand{CustomerID: "c1"}); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("no trips: expected ErrBadRequest, got %v", err)
	}
	if _, err := svc.Create(context.Background(), CreateCommand{Trips: []trip.CreateCommand{tripCommand()}}); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("no customer: expected ErrBadRequest, got %v", err)
	}
}

func TestIsCode(t *testing.T) {
	if !IsCode(newBookingCode()) {
		t.Fatal("generated codes must carry the code prefix")
	}
	for _, ref := range []string{"", "b1", "4f2a9c00d1e2b3a4", "bk-lowercase"} {
		if IsCode(ref) {
			t.Fatalf("%q must resolve as an id, not a code", ref)
		}
	}
}

func TestCreate_RollsBackEarlierTripsOnFailure(t *testing.T) {
	trips := &stubTripCreator{failAfter: 2}
	svc := NewService(nil, trips)

	_, err := svc.Create(context.Background(), CreateCommand{
		CustomerID: "c1",
		Trips:      []trip.CreateCommand{tripCommand(), tripCommand(), tripCommand()},
	})
	if err == nil {
		t.Fatal("expected the third trip creation to fail the booking")
	}
	if len(trips.cancelled) != 2 {
		t.Fatalf("expected both landed trips to be rolled back, cancelled %v", trips.cancelled)
	}
}

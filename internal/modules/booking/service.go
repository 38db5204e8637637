// README: Booking service; groups trip creations under one payment aggregate.
package booking

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"shuttle/internal/modules/trip"
	"shuttle/internal/types"
)

var ErrBadRequest = errors.New("bad booking request")

// TripCreator is the slice of the trip service a booking needs.
type TripCreator interface {
	Create(ctx context.Context, cmd trip.CreateCommand) (*trip.Trip, error)
	Cancel(ctx context.Context, cmd trip.CancelCommand) (*trip.Refund, error)
}

type Service struct {
	store *Store
	trips TripCreator
}

func NewService(store *Store, trips TripCreator) *Service {
	return &Service{store: store, trips: trips}
}

type CreateCommand struct {
	CustomerID    types.ID
	PaymentMethod string
	Trips         []trip.CreateCommand
}

// Create books every trip in the command and writes the aggregate. If a
// later trip fails, the earlier ones are cancelled so no half-booked
// aggregate survives.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Booking, error) {
	if cmd.CustomerID == "" || len(cmd.Trips) == 0 {
		return nil, fmt.Errorf("%w: missing customer or trips", ErrBadRequest)
	}

	var created []*trip.Trip
	var total int64
	currency := ""
	for i := range cmd.Trips {
		cmd.Trips[i].CustomerID = cmd.CustomerID
		t, err := s.trips.Create(ctx, cmd.Trips[i])
		if err != nil {
			for _, prev := range created {
				_, _ = s.trips.Cancel(ctx, trip.CancelCommand{
					TripID:    prev.ID,
					ActorType: "system",
					Reason:    "booking_rollback",
				})
			}
			return nil, err
		}
		created = append(created, t)
		total += t.Amount.Amount
		if currency == "" {
			currency = t.Amount.Currency
		}
	}

	now := time.Now()
	b := &Booking{
		ID:            newID(),
		Code:          newBookingCode(),
		CustomerID:    cmd.CustomerID,
		TotalAmount:   types.Money{Amount: total, Currency: currency},
		PaymentMethod: cmd.PaymentMethod,
		Status:        StatusPending,
		StatusHistory: []StatusChange{{Status: StatusPending, ChangedAt: now}},
		CreatedAt:     now,
	}
	for _, t := range created {
		b.TripIDs = append(b.TripIDs, t.ID)
	}
	if err := s.store.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Get resolves a booking by id, or by the customer-facing code when the
// reference carries the code prefix. The prefix keeps the two lookups on
// their own indexes.
func (s *Service) Get(ctx context.Context, ref types.ID) (*Booking, error) {
	if IsCode(string(ref)) {
		return s.store.GetByCode(ctx, string(ref))
	}
	return s.store.Get(ctx, ref)
}

// Confirm moves the booking to CONFIRMED after payment settles.
func (s *Service) Confirm(ctx context.Context, ref types.ID) error {
	b, err := s.Get(ctx, ref)
	if err != nil {
		return err
	}
	if b.Status != StatusPending {
		return fmt.Errorf("%w: booking is %s", ErrBadRequest, b.Status)
	}
	history := append(b.StatusHistory, StatusChange{Status: StatusConfirmed, ChangedAt: time.Now()})
	return s.store.UpdateStatus(ctx, b.ID, StatusConfirmed, history)
}

func newID() types.ID {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return types.ID(hex.EncodeToString(b[:]))
}

const codePrefix = "BK-"

// IsCode reports whether ref is a customer-facing booking code rather than
// an internal id; generated ids are bare hex and never carry the prefix.
func IsCode(ref string) bool {
	return strings.HasPrefix(ref, codePrefix)
}

// newBookingCode is the short reference customers quote to support.
func newBookingCode() string {
	return codePrefix + uuid.NewString()[:8]
}

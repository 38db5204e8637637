// README: Booking store backed by PostgreSQL.
package booking

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shuttle/internal/types"
)

var ErrNotFound = errors.New("booking not found")

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, b *Booking) error {
	history, err := json.Marshal(b.StatusHistory)
	if err != nil {
		return err
	}
	tripIDs := make([]string, len(b.TripIDs))
	for i, id := range b.TripIDs {
		tripIDs[i] = string(id)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO bookings (
			id, code, customer_id, trip_ids, total_amount, currency,
			payment_method, status, status_history, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		string(b.ID),
		b.Code,
		string(b.CustomerID),
		tripIDs,
		b.TotalAmount.Amount,
		b.TotalAmount.Currency,
		b.PaymentMethod,
		string(b.Status),
		history,
		b.CreatedAt,
	)
	return err
}

const selectBooking = `
	SELECT id, code, customer_id, trip_ids, total_amount, currency,
	       payment_method, status, status_history, created_at
	FROM bookings`

func (s *Store) Get(ctx context.Context, id types.ID) (*Booking, error) {
	return scanBooking(s.db.QueryRow(ctx, selectBooking+` WHERE id = $1`, string(id)))
}

// GetByCode resolves the customer-facing code; ids and codes are separate
// namespaces and each lookup stays on its own index.
func (s *Store) GetByCode(ctx context.Context, code string) (*Booking, error) {
	return scanBooking(s.db.QueryRow(ctx, selectBooking+` WHERE code = $1`, code))
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	var id, code, customerID, paymentMethod, status string
	var tripIDs []string
	var history []byte
	err := row.Scan(&id, &code, &customerID, &tripIDs, &b.TotalAmount.Amount, &b.TotalAmount.Currency,
		&paymentMethod, &status, &history, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(history, &b.StatusHistory); err != nil {
		return nil, err
	}
	b.ID = types.ID(id)
	b.Code = code
	b.CustomerID = types.ID(customerID)
	b.PaymentMethod = paymentMethod
	b.Status = Status(status)
	b.TripIDs = make([]types.ID, len(tripIDs))
	for i, id := range tripIDs {
		b.TripIDs[i] = types.ID(id)
	}
	return &b, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id types.ID, status Status, history []StatusChange) error {
	encoded, err := json.Marshal(history)
	if err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE bookings SET status = $1, status_history = $2 WHERE id = $3`,
		string(status),
		encoded,
		string(id),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// README: Vehicle and category store backed by PostgreSQL.
package vehicle

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shuttle/internal/types"
)

var ErrNotFound = errors.New("vehicle not found")

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) FindByIDs(ctx context.Context, ids []types.ID) ([]*Vehicle, error) {
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = string(id)
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, category_id, plate, seat_count
		FROM vehicles
		WHERE id = ANY($1)`,
		strs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVehicles(rows)
}

func (s *Store) FindByCategory(ctx context.Context, categoryID types.ID) ([]*Vehicle, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, category_id, plate, seat_count
		FROM vehicles
		WHERE category_id = $1
		ORDER BY id`,
		string(categoryID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVehicles(rows)
}

func (s *Store) FindCategoriesByIDs(ctx context.Context, ids []types.ID) (map[types.ID]*Category, error) {
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = string(id)
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, name, seat_count, hourly_rate, currency
		FROM vehicle_categories
		WHERE id = ANY($1)`,
		strs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[types.ID]*Category)
	for rows.Next() {
		var c Category
		var id, name string
		if err := rows.Scan(&id, &name, &c.SeatCount, &c.HourlyRate.Amount, &c.HourlyRate.Currency); err != nil {
			return nil, err
		}
		c.ID = types.ID(id)
		c.Name = name
		out[c.ID] = &c
	}
	return out, rows.Err()
}

// SeatCapacity returns the seat count of one vehicle; the itinerary
// admission flow checks insertions against it.
func (s *Store) SeatCapacity(ctx context.Context, id types.ID) (int, error) {
	row := s.db.QueryRow(ctx, `SELECT seat_count FROM vehicles WHERE id = $1`, string(id))
	var seats int
	if err := row.Scan(&seats); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return seats, nil
}

func scanVehicles(rows pgx.Rows) ([]*Vehicle, error) {
	var out []*Vehicle
	for rows.Next() {
		var v Vehicle
		var id, categoryID, plate string
		if err := rows.Scan(&id, &categoryID, &plate, &v.SeatCount); err != nil {
			return nil, err
		}
		v.ID = types.ID(id)
		v.CategoryID = types.ID(categoryID)
		v.Plate = plate
		out = append(out, &v)
	}
	return out, rows.Err()
}

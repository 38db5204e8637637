// README: Scenic-route store; fixed routes with known distance and duration.
package availability

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shuttle/internal/types"
)

var ErrRouteNotFound = errors.New("scenic route not found")

// ScenicRoute is a pre-planned sightseeing run with a fixed length.
type ScenicRoute struct {
	ID             types.ID
	Name           string
	DistanceMeters int64
	Duration       time.Duration
}

type RouteStore struct {
	db *pgxpool.Pool
}

func NewRouteStore(db *pgxpool.Pool) *RouteStore {
	return &RouteStore{db: db}
}

func (s *RouteStore) Get(ctx context.Context, id types.ID) (*ScenicRoute, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, distance_m, duration_min
		FROM scenic_routes
		WHERE id = $1`, string(id),
	)
	var r ScenicRoute
	var rid, name string
	var durationMin int
	err := row.Scan(&rid, &name, &r.DistanceMeters, &durationMin)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRouteNotFound
	}
	if err != nil {
		return nil, err
	}
	r.ID = types.ID(rid)
	r.Name = name
	r.Duration = time.Duration(durationMin) * time.Minute
	return &r, nil
}

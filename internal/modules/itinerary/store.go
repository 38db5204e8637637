// README: Itinerary store backed by PostgreSQL; stops as JSONB, version-guarded writes.
package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shuttle/internal/types"
)

var ErrNotFound = errors.New("itinerary not found")

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, it *Itinerary) error {
	stops, err := json.Marshal(it.Stops)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO shared_itineraries (
			id, driver_id, vehicle_id, schedule_id, stops, status, version,
			distance_estimate_m, duration_actual_min, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		string(it.ID),
		string(it.DriverID),
		string(it.VehicleID),
		string(it.ScheduleID),
		stops,
		string(it.Status),
		it.Version,
		it.DistanceEstimateMeters,
		int(it.DurationActual/time.Minute),
		it.CreatedAt,
		it.UpdatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Itinerary, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, driver_id, vehicle_id, schedule_id, stops, status, version,
		       distance_estimate_m, duration_actual_min, created_at, updated_at
		FROM shared_itineraries
		WHERE id = $1`, string(id),
	)
	return scanItinerary(row)
}

// FindActiveByVehicleAndSchedule returns the non-terminal itinerary owned
// by a vehicle/schedule pair, if any. At most one exists at a time.
func (s *Store) FindActiveByVehicleAndSchedule(ctx context.Context, vehicleID, scheduleID types.ID) (*Itinerary, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, driver_id, vehicle_id, schedule_id, stops, status, version,
		       distance_estimate_m, duration_actual_min, created_at, updated_at
		FROM shared_itineraries
		WHERE vehicle_id = $1 AND schedule_id = $2
		  AND status NOT IN ('COMPLETED', 'CANCELLED')
		ORDER BY created_at DESC
		LIMIT 1`,
		string(vehicleID),
		string(scheduleID),
	)
	return scanItinerary(row)
}

// ReplaceStops writes a new stop sequence conditioned on the version read.
// Returns false on a version conflict; the caller retries from a fresh
// read. A PENDING itinerary becomes PLANNED on its first admission.
func (s *Store) ReplaceStops(ctx context.Context, id types.ID, stops []Stop, distanceEstimateMeters int64, version int) (bool, error) {
	encoded, err := json.Marshal(stops)
	if err != nil {
		return false, err
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE shared_itineraries
		SET stops = $1,
		    distance_estimate_m = $2,
		    version = version + 1,
		    status = CASE WHEN status = 'PENDING' THEN 'PLANNED' ELSE status END,
		    updated_at = NOW()
		WHERE id = $3 AND version = $4`,
		encoded,
		distanceEstimateMeters,
		string(id),
		version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id types.ID, status Status) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE shared_itineraries
		SET status = $1, updated_at = NOW()
		WHERE id = $2`,
		string(status),
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

func scanItinerary(row pgx.Row) (*Itinerary, error) {
	var it Itinerary
	var id, driverID, vehicleID, scheduleID, status string
	var stops []byte
	var durationMin int
	err := row.Scan(
		&id, &driverID, &vehicleID, &scheduleID, &stops, &status, &it.Version,
		&it.DistanceEstimateMeters, &durationMin, &it.CreatedAt, &it.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(stops, &it.Stops); err != nil {
		return nil, err
	}
	it.ID = types.ID(id)
	it.DriverID = types.ID(driverID)
	it.VehicleID = types.ID(vehicleID)
	it.ScheduleID = types.ID(scheduleID)
	it.Status = Status(status)
	it.DurationActual = time.Duration(durationMin) * time.Minute
	return &it, nil
}

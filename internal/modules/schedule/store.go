// README: Driver-schedule store backed by PostgreSQL.
package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shuttle/internal/types"
)

var ErrNotFound = errors.New("driver schedule not found")

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// CreateMany inserts a planning batch. Rows violating the
// (driver_id, date, shift) uniqueness are skipped, not errored: re-running
// a planning job must be idempotent. Returns the number of rows inserted.
func (s *Store) CreateMany(ctx context.Context, schedules []*DriverSchedule) (int, error) {
	batch := &pgx.Batch{}
	for _, ds := range schedules {
		batch.Queue(`
			INSERT INTO driver_schedules (id, driver_id, vehicle_id, date, shift, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (driver_id, date, shift) DO NOTHING`,
			string(ds.ID),
			string(ds.DriverID),
			string(ds.VehicleID),
			ds.Date,
			string(ds.Shift),
			string(ds.Status),
			ds.CreatedAt,
		)
	}
	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range schedules {
		tag, err := results.Exec()
		if err != nil {
			return inserted, err
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// FindByDateAndShifts returns schedules for the date whose shift is in
// shifts, ordered by creation for stable downstream filtering. A nil
// status returns all non-canceled schedules.
func (s *Store) FindByDateAndShifts(ctx context.Context, date time.Time, shifts []Shift, status *Status) ([]*DriverSchedule, error) {
	shiftStrs := make([]string, len(shifts))
	for i, sh := range shifts {
		shiftStrs[i] = string(sh)
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, driver_id, vehicle_id, date, shift, status, created_at
		FROM driver_schedules
		WHERE date = $1
		  AND shift = ANY($2)
		  AND ($3::text IS NULL AND status <> 'CANCELED' OR status = $3)
		ORDER BY created_at, id`,
		dateOnly(date),
		shiftStrs,
		statusArg(status),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSchedules(rows)
}

// FindByDriverAndDate returns the driver's schedules for the date,
// including canceled ones; planning needs the full picture.
func (s *Store) FindByDriverAndDate(ctx context.Context, driverID types.ID, date time.Time) ([]*DriverSchedule, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, driver_id, vehicle_id, date, shift, status, created_at
		FROM driver_schedules
		WHERE driver_id = $1 AND date = $2
		ORDER BY created_at, id`,
		string(driverID),
		dateOnly(date),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSchedules(rows)
}

func (s *Store) UpdateStatus(ctx context.Context, id types.ID, status Status) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE driver_schedules SET status = $1 WHERE id = $2`,
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

// ExpirePast completes every NOT_STARTED schedule dated before the cutoff.
// Schedules are never deleted, only superseded.
func (s *Store) ExpirePast(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE driver_schedules SET status = 'COMPLETED'
		WHERE date < $1 AND status = 'NOT_STARTED'`,
		dateOnly(cutoff),
	)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func scanSchedules(rows pgx.Rows) ([]*DriverSchedule, error) {
	var out []*DriverSchedule
	for rows.Next() {
		var ds DriverSchedule
		var id, driverID, vehicleID, shift, status string
		if err := rows.Scan(&id, &driverID, &vehicleID, &ds.Date, &shift, &status, &ds.CreatedAt); err != nil {
			return nil, err
		}
		ds.ID = types.ID(id)
		ds.DriverID = types.ID(driverID)
		ds.VehicleID = types.ID(vehicleID)
		ds.Shift = Shift(shift)
		ds.Status = Status(status)
		out = append(out, &ds)
	}
	return out, rows.Err()
}

func statusArg(status *Status) *string {
	if status == nil {
		return nil
	}
	v := string(*status)
	return &v
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

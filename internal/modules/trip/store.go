// README: Trip store backed by PostgreSQL with version-conditioned updates.
package trip

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shuttle/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, t *Trip) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO trips (
			id, code, customer_id, driver_id, vehicle_id, schedule_id,
			status, status_version, service_type, start_time, estimated_duration_min,
			seats, amount, currency,
			pickup_lat, pickup_lng, dropoff_lat, dropoff_lng, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12, $13, $14,
			$15, $16, $17, $18, $19
		)`,
		string(t.ID), t.Code,
		string(t.CustomerID), string(t.DriverID), string(t.VehicleID), string(t.ScheduleID),
		string(t.Status), t.StatusVersion, string(t.ServiceType),
		t.StartTime, int(t.EstimatedDuration/time.Minute),
		t.Seats, t.Amount.Amount, t.Amount.Currency,
		t.Pickup.Lat, t.Pickup.Lng, t.Dropoff.Lat, t.Dropoff.Lng,
		t.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Trip, error) {
	rows, err := s.db.Query(ctx, selectTrips+` WHERE id = $1`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	trips, err := scanTrips(rows)
	if err != nil {
		return nil, err
	}
	if len(trips) == 0 {
		return nil, ErrNotFound
	}
	return trips[0], nil
}

// FindActiveByDriverAndDate returns the driver's non-cancelled trips whose
// start falls on the given date, in start-time order. Conflict filtering
// depends on this ordering being stable.
func (s *Store) FindActiveByDriverAndDate(ctx context.Context, driverID types.ID, date time.Time) ([]*Trip, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	rows, err := s.db.Query(ctx, selectTrips+`
		WHERE driver_id = $1
		  AND status <> 'CANCELLED'
		  AND start_time >= $2 AND start_time < $3
		ORDER BY start_time, id`,
		string(driverID),
		dayStart,
		dayStart.AddDate(0, 0, 1),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTrips(rows)
}

// UpdateStatus performs the version-conditioned transition; returns false
// when another writer got there first.
func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int, reason *string) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE trips
		SET status = $1,
		    status_version = status_version + 1,
		    cancelled_at = CASE WHEN $1 = 'CANCELLED' THEN NOW() ELSE cancelled_at END,
		    cancellation_reason = COALESCE($2, cancellation_reason)
		WHERE id = $3 AND status = $4 AND status_version = $5`,
		string(to),
		reason,
		string(id),
		string(from),
		version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) AppendEvent(ctx context.Context, e *Event) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO trip_state_events (
			trip_id, from_status, to_status, actor_type, actor_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)`,
		string(e.TripID),
		string(e.FromStatus),
		string(e.ToStatus),
		e.ActorType,
		idArg(e.ActorID),
		e.CreatedAt,
	)
	return err
}

const selectTrips = `
	SELECT id, code, customer_id, driver_id, vehicle_id, schedule_id,
	       status, status_version, service_type, start_time, estimated_duration_min,
	       seats, amount, currency,
	       pickup_lat, pickup_lng, dropoff_lat, dropoff_lng,
	       created_at, cancelled_at, cancellation_reason
	FROM trips`

func scanTrips(rows pgx.Rows) ([]*Trip, error) {
	var out []*Trip
	for rows.Next() {
		var t Trip
		var id, code, customerID, driverID, vehicleID, scheduleID, status, serviceType string
		var durationMin int
		var cancelledAt sql.NullTime
		var cancelReason sql.NullString
		err := rows.Scan(
			&id, &code, &customerID, &driverID, &vehicleID, &scheduleID,
			&status, &t.StatusVersion, &serviceType, &t.StartTime, &durationMin,
			&t.Seats, &t.Amount.Amount, &t.Amount.Currency,
			&t.Pickup.Lat, &t.Pickup.Lng, &t.Dropoff.Lat, &t.Dropoff.Lng,
			&t.CreatedAt, &cancelledAt, &cancelReason,
		)
		if err != nil {
			return nil, err
		}
		t.ID = types.ID(id)
		t.Code = code
		t.CustomerID = types.ID(customerID)
		t.DriverID = types.ID(driverID)
		t.VehicleID = types.ID(vehicleID)
		t.ScheduleID = types.ID(scheduleID)
		t.Status = Status(status)
		t.ServiceType = ServiceType(serviceType)
		t.EstimatedDuration = time.Duration(durationMin) * time.Minute
		if cancelledAt.Valid {
			v := cancelledAt.Time
			t.CancelledAt = &v
		}
		if cancelReason.Valid {
			t.CancelReason = &cancelReason.String
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

func idArg(v *types.ID) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/openride/openride/internal/pkg/models"
	"github.com/openride/openride/services/rides"
)

// PostgresRideRepo persists rides in PostgreSQL. The acceptance race and
// concurrent status advances are resolved by conditional UPDATEs that
// include the expected current status in the WHERE clause.
type PostgresRideRepo struct {
	db *sqlx.DB
}

// NewPostgresRideRepo creates a postgres-backed ride repository.
func NewPostgresRideRepo(db *sqlx.DB) *PostgresRideRepo {
	return &PostgresRideRepo{db: db}
}

const rideColumns = `
	id, rider_id, driver_id,
	pickup_latitude, pickup_longitude, pickup_address,
	dropoff_latitude, dropoff_longitude, dropoff_address,
	vehicle_type, fare, distance, duration,
	status, payment_method, payment_status, cancel_reason,
	created_at, updated_at, completed_at`

// InsertRide persists a freshly created ride.
func (r *PostgresRideRepo) InsertRide(ctx context.Context, ride *models.Ride) error {
	query := `
		INSERT INTO rides (
			id, rider_id,
			pickup_latitude, pickup_longitude, pickup_address,
			dropoff_latitude, dropoff_longitude, dropoff_address,
			vehicle_type, fare, distance, duration,
			status, payment_method, payment_status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		ride.ID,
		ride.RiderID,
		ride.Pickup.Latitude,
		ride.Pickup.Longitude,
		ride.Pickup.Address,
		ride.Dropoff.Latitude,
		ride.Dropoff.Longitude,
		ride.Dropoff.Address,
		ride.VehicleType,
		ride.Fare,
		ride.DistanceMeters,
		ride.DurationMinutes,
		ride.Status,
		ride.PaymentMethod,
		ride.PaymentStatus,
		ride.CreatedAt,
		ride.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ride: %w", err)
	}
	return nil
}

// GetRideByID returns a ride or rides.ErrRideNotFound.
func (r *PostgresRideRepo) GetRideByID(ctx context.Context, rideID string) (*models.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`
	return r.scanRide(r.db.QueryRowContext(ctx, query, rideID))
}

// AcceptRide claims a requested ride for driverID in a single conditional
// write. Zero rows affected means the ride either moved past requested
// (ErrRideUnavailable) or does not exist (ErrRideNotFound).
func (r *PostgresRideRepo) AcceptRide(ctx context.Context, rideID, driverID string) (*models.Ride, error) {
	query := `
		UPDATE rides
		SET driver_id = $1, status = $2, updated_at = $3
		WHERE id = $4 AND status = $5
		RETURNING ` + rideColumns

	ride, err := r.scanRide(r.db.QueryRowContext(
		ctx, query, driverID, models.RideStatusAccepted, time.Now(), rideID, models.RideStatusRequested,
	))
	if err == nil {
		return ride, nil
	}
	if !errors.Is(err, rides.ErrRideNotFound) {
		return nil, err
	}

	// Distinguish a lost race from a missing ride.
	if _, lookupErr := r.GetRideByID(ctx, rideID); lookupErr != nil {
		return nil, lookupErr
	}
	return nil, rides.ErrRideUnavailable
}

// UpdateStatusIfCurrent moves a ride from current to next in one
// conditional write.
func (r *PostgresRideRepo) UpdateStatusIfCurrent(ctx context.Context, rideID string, current, next models.RideStatus, reason string) (*models.Ride, error) {
	var row *sql.Row
	switch next {
	case models.RideStatusCompleted:
		query := `
			UPDATE rides
			SET status = $1, updated_at = $2, completed_at = $2
			WHERE id = $3 AND status = $4
			RETURNING ` + rideColumns
		row = r.db.QueryRowContext(ctx, query, next, time.Now(), rideID, current)
	case models.RideStatusCancelled:
		query := `
			UPDATE rides
			SET status = $1, updated_at = $2, cancel_reason = $3
			WHERE id = $4 AND status = $5
			RETURNING ` + rideColumns
		row = r.db.QueryRowContext(ctx, query, next, time.Now(), reason, rideID, current)
	default:
		query := `
			UPDATE rides
			SET status = $1, updated_at = $2
			WHERE id = $3 AND status = $4
			RETURNING ` + rideColumns
		row = r.db.QueryRowContext(ctx, query, next, time.Now(), rideID, current)
	}

	ride, err := r.scanRide(row)
	if err == nil {
		return ride, nil
	}
	if !errors.Is(err, rides.ErrRideNotFound) {
		return nil, err
	}
	if _, lookupErr := r.GetRideByID(ctx, rideID); lookupErr != nil {
		return nil, lookupErr
	}
	return nil, rides.ErrRideUnavailable
}

// GetActiveRidesByParticipant returns the rides with a live ride room that
// userID takes part in.
func (r *PostgresRideRepo) GetActiveRidesByParticipant(ctx context.Context, userID string) ([]*models.Ride, error) {
	query := `
		SELECT ` + rideColumns + `
		FROM rides
		WHERE (rider_id = $1 OR driver_id = $1)
		AND status IN ($2, $3, $4)
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID,
		models.RideStatusAccepted, models.RideStatusArrived, models.RideStatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("failed to query active rides: %w", err)
	}
	defer rows.Close()

	var out []*models.Ride
	for rows.Next() {
		ride, err := r.scanRide(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ride)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *PostgresRideRepo) scanRide(row rowScanner) (*models.Ride, error) {
	ride := &models.Ride{}
	var driverID, cancelReason sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&ride.ID,
		&ride.RiderID,
		&driverID,
		&ride.Pickup.Latitude,
		&ride.Pickup.Longitude,
		&ride.Pickup.Address,
		&ride.Dropoff.Latitude,
		&ride.Dropoff.Longitude,
		&ride.Dropoff.Address,
		&ride.VehicleType,
		&ride.Fare,
		&ride.DistanceMeters,
		&ride.DurationMinutes,
		&ride.Status,
		&ride.PaymentMethod,
		&ride.PaymentStatus,
		&cancelReason,
		&ride.CreatedAt,
		&ride.UpdatedAt,
		&completedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, rides.ErrRideNotFound
		}
		return nil, fmt.Errorf("failed to scan ride: %w", err)
	}

	if driverID.Valid {
		ride.DriverID = driverID.String
	}
	if cancelReason.Valid {
		ride.CancelReason = cancelReason.String
	}
	if completedAt.Valid {
		ride.CompletedAt = &completedAt.Time
	}
	return ride, nil
}

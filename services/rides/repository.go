package rides

import (
	"context"

	"github.com/openride/openride/internal/pkg/models"
)

// RideRepo is the persistence contract of the ride store.
//
// AcceptRide and UpdateStatusIfCurrent must be implemented as single
// conditional writes; they are what makes the acceptance race safe.
type RideRepo interface {
	// InsertRide persists a freshly created ride.
	InsertRide(ctx context.Context, ride *models.Ride) error

	// GetRideByID returns a ride or ErrRideNotFound.
	GetRideByID(ctx context.Context, rideID string) (*models.Ride, error)

	// AcceptRide assigns driverID and moves the ride to accepted, only if
	// the ride is still in the requested state. Returns ErrRideUnavailable
	// when another driver already won, ErrRideNotFound when the ride does
	// not exist.
	AcceptRide(ctx context.Context, rideID, driverID string) (*models.Ride, error)

	// UpdateStatusIfCurrent moves a ride from an expected current status to
	// a new one in one conditional write. reason is recorded on
	// cancellation; completed_at is set on completion. Returns
	// ErrRideUnavailable when the ride was not in the expected status.
	UpdateStatusIfCurrent(ctx context.Context, rideID string, current, next models.RideStatus, reason string) (*models.Ride, error)

	// GetActiveRidesByParticipant returns the rides with a live ride room
	// (accepted, arrived or in_progress) that userID takes part in.
	GetActiveRidesByParticipant(ctx context.Context, userID string) ([]*models.Ride, error)
}

package rides

import (
	"context"

	"github.com/openride/openride/internal/pkg/models"
)

// RideUC is the ride-lifecycle contract consumed by the realtime gateway.
type RideUC interface {
	// CreateRide computes distance, fare and duration, assigns an id and
	// persists a new ride in the requested state.
	CreateRide(ctx context.Context, riderID string, pickup, dropoff models.Location, vehicleType string) (*models.Ride, error)

	// AcceptRide atomically claims a requested ride for a driver. At most
	// one concurrent caller succeeds; the rest get ErrRideUnavailable.
	AcceptRide(ctx context.Context, rideID, driverID string) (*models.Ride, error)

	// TransitionStatus advances a ride along the accepted -> arrived ->
	// in_progress -> completed path on behalf of a participant.
	TransitionStatus(ctx context.Context, rideID, actorID string, newStatus models.RideStatus) (*models.Ride, error)

	// CancelRide cancels a ride that has not progressed past accepted.
	CancelRide(ctx context.Context, rideID, actorID, reason string) (*models.Ride, error)

	// GetRide returns a ride by id.
	GetRide(ctx context.Context, rideID string) (*models.Ride, error)

	// GetActiveRides returns the active rides a user participates in.
	GetActiveRides(ctx context.Context, userID string) ([]*models.Ride, error)
}

package rides

import (
	"context"

	"github.com/openride/openride/internal/pkg/models"
)

// RideGW publishes ride lifecycle events to the event stream for
// downstream consumers (billing, analytics). Publishing is best-effort
// and must never fail a ride operation.
type RideGW interface {
	PublishRideRequested(ctx context.Context, ride *models.Ride) error
	PublishRideAccepted(ctx context.Context, ride *models.Ride) error
	PublishRideStatusChanged(ctx context.Context, ride *models.Ride) error
	PublishRideCancelled(ctx context.Context, ride *models.Ride) error
}

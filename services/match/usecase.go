package match

import (
	"context"

	"github.com/openride/openride/internal/pkg/models"
)

// MatchUC bridges new ride requests and candidate drivers.
type MatchUC interface {
	// Dispatch finds online drivers near the ride's pickup point, offers
	// them the ride and returns the set of notified driver ids. An empty
	// set is not an error; the ride simply stays requested.
	Dispatch(ctx context.Context, ride *models.Ride) ([]string, error)

	// ReleaseCandidates tells every candidate other than winnerID that
	// the ride is taken, then forgets the candidate set.
	ReleaseCandidates(ctx context.Context, rideID, winnerID string) error
}

// Notifier delivers dispatch events to a driver's personal room. The
// realtime gateway provides the implementation.
type Notifier interface {
	OfferRide(driverID string, offer models.RideOfferEvent)
	RideTaken(driverID, rideID string)
}

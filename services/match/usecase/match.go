package usecase

import (
	"context"

	"github.com/openride/openride/internal/pkg/logger"
	"github.com/openride/openride/internal/pkg/models"
	"github.com/openride/openride/services/drivers"
	"github.com/openride/openride/services/match"
)

// matchUC implements match.MatchUC. It has no state of its own beyond the
// candidate sets; proximity comes from the driver directory and delivery
// goes through the notifier.
//
// There is deliberately no dispatch timeout or re-matching here: a ride
// with no takers stays requested until a driver accepts or the rider
// cancels, mirroring the upstream contract.
type matchUC struct {
	driverUC      drivers.DriverUC
	candidateRepo match.CandidateRepo
	notifier      match.Notifier
	radiusMeters  float64
}

// NewMatchUC creates the matching use case. radiusMeters <= 0 falls back
// to the 5km default.
func NewMatchUC(driverUC drivers.DriverUC, candidateRepo match.CandidateRepo, notifier match.Notifier, radiusMeters float64) match.MatchUC {
	if radiusMeters <= 0 {
		radiusMeters = 5000
	}
	return &matchUC{
		driverUC:      driverUC,
		candidateRepo: candidateRepo,
		notifier:      notifier,
		radiusMeters:  radiusMeters,
	}
}

// Dispatch offers the ride to every online driver near the pickup point.
func (uc *matchUC) Dispatch(ctx context.Context, ride *models.Ride) ([]string, error) {
	nearby, err := uc.driverUC.FindNearby(ctx, ride.Pickup.Coordinate(), uc.radiusMeters)
	if err != nil {
		return nil, err
	}
	if len(nearby) == 0 {
		logger.Info("no candidate drivers for ride",
			logger.String("ride_id", ride.ID))
		return nil, nil
	}

	offer := models.RideOfferEvent{
		RideID:      ride.ID,
		Pickup:      ride.Pickup,
		Dropoff:     ride.Dropoff,
		VehicleType: ride.VehicleType,
		Fare:        ride.Fare,
		Distance:    ride.DistanceMeters,
		RiderID:     ride.RiderID,
	}

	notified := make([]string, 0, len(nearby))
	for _, candidate := range nearby {
		uc.notifier.OfferRide(candidate.DriverID, offer)
		notified = append(notified, candidate.DriverID)
	}

	if err := uc.candidateRepo.AddCandidates(ctx, ride.ID, notified); err != nil {
		// The offers are already out; losing the candidate set only
		// degrades the ride-taken notification.
		logger.Warn("failed to record ride candidates",
			logger.String("ride_id", ride.ID),
			logger.Err(err))
	}

	logger.Info("ride dispatched",
		logger.String("ride_id", ride.ID),
		logger.Int("candidates", len(notified)))
	return notified, nil
}

// ReleaseCandidates notifies every losing candidate that the ride is
// taken. Delivery is targeted at the previously notified set only.
func (uc *matchUC) ReleaseCandidates(ctx context.Context, rideID, winnerID string) error {
	candidates, err := uc.candidateRepo.GetCandidates(ctx, rideID)
	if err != nil {
		return err
	}
	for _, driverID := range candidates {
		if driverID == winnerID {
			continue
		}
		uc.notifier.RideTaken(driverID, rideID)
	}
	return uc.candidateRepo.ClearCandidates(ctx, rideID)
}

package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/openride/openride/internal/pkg/fare"
	"github.com/openride/openride/internal/pkg/geo"
	"github.com/openride/openride/internal/pkg/logger"
	"github.com/openride/openride/internal/pkg/models"
	"github.com/openride/openride/services/rides"
)

// rideUC implements rides.RideUC. It is the sole owner of ride state; all
// mutations funnel through the repository's conditional writes.
type rideUC struct {
	ridesRepo rides.RideRepo
	ridesGW   rides.RideGW
}

// NewRideUC creates the ride use case.
func NewRideUC(ridesRepo rides.RideRepo, ridesGW rides.RideGW) rides.RideUC {
	return &rideUC{
		ridesRepo: ridesRepo,
		ridesGW:   ridesGW,
	}
}

// CreateRide computes distance, fare and duration and persists a new ride
// in the requested state.
func (uc *rideUC) CreateRide(ctx context.Context, riderID string, pickup, dropoff models.Location, vehicleType string) (*models.Ride, error) {
	distance := geo.DistanceMeters(pickup.Coordinate(), dropoff.Coordinate())

	ride := models.NewRide(riderID, pickup, dropoff, vehicleType)
	ride.ID = uuid.New().String()
	ride.DistanceMeters = distance
	ride.Fare = fare.Estimate(vehicleType, distance)
	ride.DurationMinutes = fare.EstimateDuration(distance)

	if err := uc.ridesRepo.InsertRide(ctx, ride); err != nil {
		return nil, err
	}

	logger.Info("ride created",
		logger.String("ride_id", ride.ID),
		logger.String("rider_id", riderID),
		logger.String("vehicle_type", vehicleType),
		logger.Int64("fare", ride.Fare),
		logger.Float64("distance_meters", distance))

	uc.publish(ctx, uc.ridesGW.PublishRideRequested, ride)
	return ride, nil
}

// AcceptRide atomically claims a requested ride for a driver.
func (uc *rideUC) AcceptRide(ctx context.Context, rideID, driverID string) (*models.Ride, error) {
	ride, err := uc.ridesRepo.AcceptRide(ctx, rideID, driverID)
	if err != nil {
		return nil, err
	}

	logger.Info("ride accepted",
		logger.String("ride_id", rideID),
		logger.String("driver_id", driverID))

	uc.publish(ctx, uc.ridesGW.PublishRideAccepted, ride)
	return ride, nil
}

// TransitionStatus advances a ride along the forward path of the state
// machine on behalf of a participant. Cancellation goes through CancelRide.
func (uc *rideUC) TransitionStatus(ctx context.Context, rideID, actorID string, newStatus models.RideStatus) (*models.Ride, error) {
	ride, err := uc.ridesRepo.GetRideByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if !ride.IsParticipant(actorID) {
		return nil, rides.ErrNotParticipant
	}
	if newStatus == models.RideStatusCancelled || !models.CanTransition(ride.Status, newStatus) {
		return nil, &rides.InvalidTransitionError{From: ride.Status, To: newStatus}
	}

	updated, err := uc.ridesRepo.UpdateStatusIfCurrent(ctx, rideID, ride.Status, newStatus, "")
	if err == rides.ErrRideUnavailable {
		// The ride moved underneath us; report the transition against its
		// actual current state.
		current, lookupErr := uc.ridesRepo.GetRideByID(ctx, rideID)
		if lookupErr != nil {
			return nil, lookupErr
		}
		return nil, &rides.InvalidTransitionError{From: current.Status, To: newStatus}
	}
	if err != nil {
		return nil, err
	}

	logger.Info("ride status changed",
		logger.String("ride_id", rideID),
		logger.String("actor_id", actorID),
		logger.String("status", string(newStatus)))

	uc.publish(ctx, uc.ridesGW.PublishRideStatusChanged, updated)
	return updated, nil
}

// CancelRide cancels a ride that has not progressed past accepted.
func (uc *rideUC) CancelRide(ctx context.Context, rideID, actorID, reason string) (*models.Ride, error) {
	ride, err := uc.ridesRepo.GetRideByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if !ride.IsParticipant(actorID) {
		return nil, rides.ErrNotParticipant
	}
	if ride.Status != models.RideStatusRequested && ride.Status != models.RideStatusAccepted {
		return nil, &rides.InvalidTransitionError{From: ride.Status, To: models.RideStatusCancelled}
	}

	updated, err := uc.ridesRepo.UpdateStatusIfCurrent(ctx, rideID, ride.Status, models.RideStatusCancelled, reason)
	if err == rides.ErrRideUnavailable {
		current, lookupErr := uc.ridesRepo.GetRideByID(ctx, rideID)
		if lookupErr != nil {
			return nil, lookupErr
		}
		return nil, &rides.InvalidTransitionError{From: current.Status, To: models.RideStatusCancelled}
	}
	if err != nil {
		return nil, err
	}

	logger.Info("ride cancelled",
		logger.String("ride_id", rideID),
		logger.String("actor_id", actorID),
		logger.String("reason", reason))

	uc.publish(ctx, uc.ridesGW.PublishRideCancelled, updated)
	return updated, nil
}

// GetRide returns a ride by id.
func (uc *rideUC) GetRide(ctx context.Context, rideID string) (*models.Ride, error) {
	return uc.ridesRepo.GetRideByID(ctx, rideID)
}

// GetActiveRides returns the active rides userID participates in.
func (uc *rideUC) GetActiveRides(ctx context.Context, userID string) ([]*models.Ride, error) {
	return uc.ridesRepo.GetActiveRidesByParticipant(ctx, userID)
}

func (uc *rideUC) publish(ctx context.Context, fn func(context.Context, *models.Ride) error, ride *models.Ride) {
	if err := fn(ctx, ride); err != nil {
		logger.Warn("failed to publish ride event",
			logger.String("ride_id", ride.ID),
			logger.Err(err))
	}
}

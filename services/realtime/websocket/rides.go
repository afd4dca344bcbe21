package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/openride/openride/internal/pkg/constants"
	"github.com/openride/openride/internal/pkg/logger"
	"github.com/openride/openride/internal/pkg/models"
)

// handleRideRequest creates the ride and dispatches it to nearby drivers.
func (g *Gateway) handleRideRequest(client *models.WebSocketClient, data json.RawMessage) error {
	var req models.RideRequestPayload
	if err := json.Unmarshal(data, &req); err != nil {
		return g.manager.SendErrorMessage(client, constants.ErrorInvalidFormat, "Invalid ride request format")
	}
	if !models.ValidVehicleType(req.VehicleType) {
		return g.manager.SendErrorMessage(client, constants.ErrorValidationFailed, "Unknown vehicle type")
	}
	if !req.Pickup.Coordinate().Valid() || !req.Dropoff.Coordinate().Valid() {
		return g.manager.SendErrorMessage(client, constants.ErrorValidationFailed, "Invalid pickup or dropoff coordinate")
	}

	ctx := context.Background()
	ride, err := g.rideUC.CreateRide(ctx, client.UserID, req.Pickup, req.Dropoff, req.VehicleType)
	if err != nil {
		return g.sendDomainError(client, err)
	}

	// The rider joins the ride room right away so later status and
	// location events reach it.
	g.manager.JoinRoom(constants.RideRoom(ride.ID), client.UserID)

	if err := g.manager.SendMessage(client, constants.EventRideCreated, models.RideCreatedEvent{RideID: ride.ID}); err != nil {
		logger.Warn("failed to ack ride creation",
			logger.String("ride_id", ride.ID),
			logger.Err(err))
	}

	// Offers go out to each candidate's personal room via the notifier.
	if _, err := g.matchUC.Dispatch(ctx, ride); err != nil {
		logger.Error("ride dispatch failed",
			logger.String("ride_id", ride.ID),
			logger.Err(err))
	}
	return nil
}

// handleAcceptRide resolves the acceptance race. Exactly one driver wins;
// the rest are told the ride is unavailable.
func (g *Gateway) handleAcceptRide(client *models.WebSocketClient, data json.RawMessage) error {
	var req models.AcceptRidePayload
	if err := json.Unmarshal(data, &req); err != nil {
		return g.manager.SendErrorMessage(client, constants.ErrorInvalidFormat, "Invalid accept ride format")
	}
	if req.RideID == "" {
		return g.manager.SendErrorMessage(client, constants.ErrorValidationFailed, "rideId is required")
	}

	ctx := context.Background()
	ride, err := g.rideUC.AcceptRide(ctx, req.RideID, client.UserID)
	if err != nil {
		return g.sendDomainError(client, err)
	}

	room := constants.RideRoom(ride.ID)
	g.manager.JoinRoom(room, client.UserID)
	g.manager.BroadcastToRoom(room, constants.EventDriverAssigned, models.DriverAssignedEvent{
		DriverID: client.UserID,
		RideID:   ride.ID,
		Status:   ride.Status,
	}, "")

	// Tell the losing candidates their offer is void.
	if err := g.matchUC.ReleaseCandidates(ctx, ride.ID, client.UserID); err != nil {
		logger.Warn("failed to release losing candidates",
			logger.String("ride_id", ride.ID),
			logger.Err(err))
	}
	return nil
}

// handleRideStatusUpdate advances a ride through arrived, in_progress and
// completed.
func (g *Gateway) handleRideStatusUpdate(client *models.WebSocketClient, data json.RawMessage) error {
	var req models.RideStatusPayload
	if err := json.Unmarshal(data, &req); err != nil {
		return g.manager.SendErrorMessage(client, constants.ErrorInvalidFormat, "Invalid ride status format")
	}
	if req.RideID == "" {
		return g.manager.SendErrorMessage(client, constants.ErrorValidationFailed, "rideId is required")
	}

	newStatus := models.RideStatus(req.Status)
	switch newStatus {
	case models.RideStatusArrived, models.RideStatusInProgress, models.RideStatusCompleted:
	default:
		return g.manager.SendErrorMessage(client, constants.ErrorValidationFailed, "Unknown ride status")
	}

	ride, err := g.rideUC.TransitionStatus(context.Background(), req.RideID, client.UserID, newStatus)
	if err != nil {
		return g.sendDomainError(client, err)
	}

	room := constants.RideRoom(ride.ID)
	g.manager.BroadcastToRoom(room, constants.EventRideStatusChange, models.RideStatusChangeEvent{
		RideID:    ride.ID,
		Status:    ride.Status,
		Timestamp: ride.UpdatedAt,
	}, "")

	if ride.Status.Terminal() {
		g.manager.CloseRoom(room)
	}
	return nil
}

// handleCancelRide cancels a requested or accepted ride on behalf of
// either participant.
func (g *Gateway) handleCancelRide(client *models.WebSocketClient, data json.RawMessage) error {
	var req models.CancelRidePayload
	if err := json.Unmarshal(data, &req); err != nil {
		return g.manager.SendErrorMessage(client, constants.ErrorInvalidFormat, "Invalid cancel ride format")
	}
	if req.RideID == "" {
		return g.manager.SendErrorMessage(client, constants.ErrorValidationFailed, "rideId is required")
	}

	ctx := context.Background()
	ride, err := g.rideUC.CancelRide(ctx, req.RideID, client.UserID, req.Reason)
	if err != nil {
		return g.sendDomainError(client, err)
	}

	room := constants.RideRoom(ride.ID)
	g.manager.BroadcastToRoom(room, constants.EventRideCancelled, models.RideCancelledEvent{
		RideID:    ride.ID,
		Status:    ride.Status,
		Reason:    ride.CancelReason,
		Timestamp: time.Now(),
	}, "")
	g.manager.CloseRoom(room)

	// Outstanding offers are void once the ride is cancelled.
	if err := g.matchUC.ReleaseCandidates(ctx, ride.ID, ""); err != nil {
		logger.Warn("failed to release candidates after cancel",
			logger.String("ride_id", ride.ID),
			logger.Err(err))
	}
	return nil
}

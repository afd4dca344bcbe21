package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/openride/openride/internal/pkg/constants"
	"github.com/openride/openride/internal/pkg/logger"
	"github.com/openride/openride/internal/pkg/models"
)

// handleLocationUpdate refreshes a driver's directory entry and fans the
// ping out to every ride room the sender currently participates in.
func (g *Gateway) handleLocationUpdate(client *models.WebSocketClient, data json.RawMessage) error {
	var req models.LocationUpdatePayload
	if err := json.Unmarshal(data, &req); err != nil {
		return g.manager.SendErrorMessage(client, constants.ErrorInvalidFormat, "Invalid location format")
	}
	if !req.Location.Valid() {
		return g.manager.SendErrorMessage(client, constants.ErrorValidationFailed, "Invalid coordinate")
	}

	ctx := context.Background()
	if client.Role == models.RoleDriver {
		if err := g.driverUC.UpdateLocation(ctx, client.UserID, req.Location); err != nil {
			logger.Error("failed to update driver location",
				logger.String("driver_id", client.UserID),
				logger.Err(err))
			return g.manager.SendErrorMessage(client, constants.ErrorInternalError, "Failed to update location")
		}
	}

	active, err := g.rideUC.GetActiveRides(ctx, client.UserID)
	if err != nil {
		logger.Error("failed to look up active rides for location ping",
			logger.String("user_id", client.UserID),
			logger.Err(err))
		return nil
	}

	event := models.LocationUpdateEvent{
		UserID:    client.UserID,
		Location:  req.Location,
		Timestamp: time.Now(),
	}
	for _, ride := range active {
		g.manager.BroadcastToRoom(constants.RideRoom(ride.ID), constants.EventLocationUpdate, event, client.UserID)
	}
	return nil
}

package websocket

import (
	"context"
	"encoding/json"

	"github.com/openride/openride/internal/pkg/constants"
	"github.com/openride/openride/internal/pkg/logger"
	"github.com/openride/openride/internal/pkg/models"
)

// handleDriverStatusChange toggles a driver's availability and broadcasts
// the change.
func (g *Gateway) handleDriverStatusChange(client *models.WebSocketClient, data json.RawMessage) error {
	var req models.DriverStatusPayload
	if err := json.Unmarshal(data, &req); err != nil {
		return g.manager.SendErrorMessage(client, constants.ErrorInvalidFormat, "Invalid driver status format")
	}

	ctx := context.Background()
	if req.IsOnline {
		if req.Location == nil || !req.Location.Valid() {
			return g.manager.SendErrorMessage(client, constants.ErrorValidationFailed, "A valid location is required to go online")
		}
		if err := g.driverUC.SetOnline(ctx, client.UserID, *req.Location); err != nil {
			logger.Error("failed to set driver online",
				logger.String("driver_id", client.UserID),
				logger.Err(err))
			return g.manager.SendErrorMessage(client, constants.ErrorInternalError, "Failed to update driver status")
		}
	} else {
		if err := g.driverUC.SetOffline(ctx, client.UserID); err != nil {
			logger.Error("failed to set driver offline",
				logger.String("driver_id", client.UserID),
				logger.Err(err))
			return g.manager.SendErrorMessage(client, constants.ErrorInternalError, "Failed to update driver status")
		}
	}

	g.manager.BroadcastAll(constants.EventDriverStatusUpdate, models.DriverStatusEvent{
		DriverID: client.UserID,
		IsOnline: req.IsOnline,
		Location: req.Location,
	}, client.UserID)
	return nil
}

package websocket

import (
	"encoding/json"
	"time"

	"github.com/openride/openride/internal/pkg/constants"
	"github.com/openride/openride/internal/pkg/models"
)

// handleChatMessage relays an in-ride message to the other participants.
// Messages are not persisted; the sender must be in the ride room.
func (g *Gateway) handleChatMessage(client *models.WebSocketClient, data json.RawMessage) error {
	var req models.ChatMessagePayload
	if err := json.Unmarshal(data, &req); err != nil {
		return g.manager.SendErrorMessage(client, constants.ErrorInvalidFormat, "Invalid chat message format")
	}
	if req.RideID == "" || req.Message == "" {
		return g.manager.SendErrorMessage(client, constants.ErrorValidationFailed, "rideId and message are required")
	}

	room := constants.RideRoom(req.RideID)
	if !g.manager.InRoom(room, client.UserID) {
		return g.manager.SendErrorMessage(client, constants.ErrorUnauthorized, "Not a participant of this ride")
	}

	g.manager.BroadcastToRoom(room, constants.EventMessageReceived, models.ChatMessageEvent{
		RideID:    req.RideID,
		Message:   req.Message,
		SenderID:  client.UserID,
		Timestamp: time.Now(),
	}, client.UserID)
	return nil
}

package websocket

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/openride/openride/internal/pkg/constants"
	"github.com/openride/openride/internal/pkg/logger"
	"github.com/openride/openride/internal/pkg/models"
	pkgws "github.com/openride/openride/internal/pkg/websocket"
	"github.com/openride/openride/services/drivers"
	"github.com/openride/openride/services/match"
	"github.com/openride/openride/services/rides"
)

// Gateway routes realtime events between connected clients and the ride
// store, driver directory and matching components. A failure handling one
// connection's event never touches any other session.
type Gateway struct {
	manager  *pkgws.Manager
	rideUC   rides.RideUC
	driverUC drivers.DriverUC
	matchUC  match.MatchUC
}

// NewGateway creates the realtime gateway.
func NewGateway(manager *pkgws.Manager, rideUC rides.RideUC, driverUC drivers.DriverUC, matchUC match.MatchUC) *Gateway {
	return &Gateway{
		manager:  manager,
		rideUC:   rideUC,
		driverUC: driverUC,
		matchUC:  matchUC,
	}
}

// HandleWebSocket is the echo route handler for new connections.
func (g *Gateway) HandleWebSocket(c echo.Context) error {
	return g.manager.HandleConnection(c, g.handleClientConnection)
}

// handleClientConnection owns one connection from registration to cleanup.
func (g *Gateway) handleClientConnection(client *models.WebSocketClient, ws *websocket.Conn) error {
	client.Conn = ws
	g.manager.AddClient(client)

	logger.Info("client connected",
		logger.String("user_id", client.UserID),
		logger.String("role", client.Role))

	// Rejoin the rooms of any ride that was active before a reconnect.
	if active, err := g.rideUC.GetActiveRides(context.Background(), client.UserID); err == nil {
		for _, ride := range active {
			g.manager.JoinRoom(constants.RideRoom(ride.ID), client.UserID)
		}
	}

	defer g.cleanupConnection(client)

	return g.messageLoop(client)
}

// cleanupConnection runs on every disconnect, normal or abnormal. A driver
// is always marked offline so stale drivers never remain matchable.
func (g *Gateway) cleanupConnection(client *models.WebSocketClient) {
	g.manager.RemoveClient(client.UserID)

	if client.Role == models.RoleDriver {
		if err := g.driverUC.SetOffline(context.Background(), client.UserID); err != nil {
			logger.Error("failed to mark driver offline on disconnect",
				logger.String("driver_id", client.UserID),
				logger.Err(err))
		}
		g.manager.BroadcastAll(constants.EventDriverStatusUpdate, models.DriverStatusEvent{
			DriverID: client.UserID,
			IsOnline: false,
		}, client.UserID)
	}

	logger.Info("client disconnected",
		logger.String("user_id", client.UserID),
		logger.String("role", client.Role))
}

// messageLoop reads inbound events until the connection drops. Events from
// one connection are processed in the order received.
func (g *Gateway) messageLoop(client *models.WebSocketClient) error {
	for {
		_, msg, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket read error",
					logger.String("user_id", client.UserID),
					logger.Err(err))
			}
			return err
		}

		if err := g.handleMessage(client, msg); err != nil {
			logger.Error("error handling websocket event",
				logger.String("user_id", client.UserID),
				logger.Err(err))
		}
	}
}

// handleMessage dispatches one inbound event, gating by role.
func (g *Gateway) handleMessage(client *models.WebSocketClient, msg []byte) error {
	var wsMsg models.WSMessage
	if err := json.Unmarshal(msg, &wsMsg); err != nil {
		return g.manager.SendErrorMessage(client, constants.ErrorInvalidFormat, "Invalid message format")
	}

	switch wsMsg.Event {
	case constants.EventRequestRide:
		if client.Role != models.RoleRider {
			return g.manager.SendErrorMessage(client, constants.ErrorUnauthorized, "Only riders can request rides")
		}
		return g.handleRideRequest(client, wsMsg.Data)
	case constants.EventAcceptRide:
		if client.Role != models.RoleDriver {
			return g.manager.SendErrorMessage(client, constants.ErrorUnauthorized, "Only drivers can accept rides")
		}
		return g.handleAcceptRide(client, wsMsg.Data)
	case constants.EventUpdateRideStatus:
		if client.Role != models.RoleDriver {
			return g.manager.SendErrorMessage(client, constants.ErrorUnauthorized, "Only drivers can update ride status")
		}
		return g.handleRideStatusUpdate(client, wsMsg.Data)
	case constants.EventDriverStatusChange:
		if client.Role != models.RoleDriver {
			return g.manager.SendErrorMessage(client, constants.ErrorUnauthorized, "Only drivers can change driver status")
		}
		return g.handleDriverStatusChange(client, wsMsg.Data)
	case constants.EventUpdateLocation:
		return g.handleLocationUpdate(client, wsMsg.Data)
	case constants.EventCancelRide:
		return g.handleCancelRide(client, wsMsg.Data)
	case constants.EventSendMessage:
		return g.handleChatMessage(client, wsMsg.Data)
	default:
		return g.manager.SendErrorMessage(client, constants.ErrorInvalidFormat, "Unknown event type")
	}
}

// sendDomainError maps ride store errors onto wire error codes, always to
// the originating connection only.
func (g *Gateway) sendDomainError(client *models.WebSocketClient, err error) error {
	switch {
	case errors.Is(err, rides.ErrRideNotFound):
		return g.manager.SendErrorMessage(client, constants.ErrorNotFound, "Ride not found")
	case errors.Is(err, rides.ErrRideUnavailable):
		return g.manager.SendErrorMessage(client, constants.ErrorRideUnavailable, "Ride not available")
	case errors.Is(err, rides.ErrNotParticipant):
		return g.manager.SendErrorMessage(client, constants.ErrorUnauthorized, "Not a participant of this ride")
	case rides.IsInvalidTransition(err):
		return g.manager.SendErrorMessage(client, constants.ErrorInvalidStatus, err.Error())
	default:
		return g.manager.SendErrorMessage(client, constants.ErrorInternalError, "Operation failed")
	}
}

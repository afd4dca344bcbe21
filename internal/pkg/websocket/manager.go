package websocket

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/openride/openride/internal/pkg/constants"
	"github.com/openride/openride/internal/pkg/jwt"
	"github.com/openride/openride/internal/pkg/logger"
	"github.com/openride/openride/internal/pkg/models"
)

// Manager owns the connected-client table and room membership for the
// realtime channel. Identity is established once at handshake time and is
// immutable for the life of the connection.
type Manager struct {
	mu       sync.RWMutex
	clients  map[string]*models.WebSocketClient
	rooms    map[string]map[string]*models.WebSocketClient
	cfg      models.JWTConfig
	upgrader websocket.Upgrader
}

// NewManager creates a websocket manager.
func NewManager(jwtConfig models.JWTConfig) *Manager {
	return &Manager{
		clients: make(map[string]*models.WebSocketClient),
		rooms:   make(map[string]map[string]*models.WebSocketClient),
		cfg:     jwtConfig,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleConnection authenticates the handshake, upgrades the connection and
// hands it to the gateway's per-connection handler.
func (m *Manager) HandleConnection(c echo.Context, handleClient func(*models.WebSocketClient, *websocket.Conn) error) error {
	client, err := m.authenticateClient(c)
	if err != nil {
		return err
	}

	ws, err := m.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	return handleClient(client, ws)
}

// authenticateClient verifies the bearer token and fails closed when the
// user id or role claim is missing.
func (m *Manager) authenticateClient(c echo.Context) (*models.WebSocketClient, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is required")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format")
	}

	claims, err := jwt.ValidateToken(parts[1], m.cfg.Secret)
	if err != nil {
		logger.Warn("token validation failed", logger.Err(err))
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	if claims.UserID == "" || claims.Role == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Authentication failed")
	}

	return &models.WebSocketClient{
		UserID: claims.UserID,
		Role:   claims.Role,
	}, nil
}

// AddClient registers a client and joins it to its personal room.
func (m *Manager) AddClient(client *models.WebSocketClient) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[client.UserID] = client
	m.joinRoomLocked(client.UserID, client)
}

// RemoveClient drops a client and leaves every room it was in.
func (m *Manager) RemoveClient(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.clients, userID)
	for room, members := range m.rooms {
		delete(members, userID)
		if len(members) == 0 {
			delete(m.rooms, room)
		}
	}
}

// GetClient returns a connected client by user id.
func (m *Manager) GetClient(userID string) (*models.WebSocketClient, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	client, exists := m.clients[userID]
	return client, exists
}

// JoinRoom adds a connected user to a room. Unknown users are ignored.
func (m *Manager) JoinRoom(room, userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	client, exists := m.clients[userID]
	if !exists {
		return
	}
	m.joinRoomLocked(room, client)
}

func (m *Manager) joinRoomLocked(room string, client *models.WebSocketClient) {
	members, exists := m.rooms[room]
	if !exists {
		members = make(map[string]*models.WebSocketClient)
		m.rooms[room] = members
	}
	members[client.UserID] = client
}

// LeaveRoom removes a user from a room.
func (m *Manager) LeaveRoom(room, userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	members, exists := m.rooms[room]
	if !exists {
		return
	}
	delete(members, userID)
	if len(members) == 0 {
		delete(m.rooms, room)
	}
}

// CloseRoom drops a room and all its memberships. Used when a ride
// reaches a terminal state.
func (m *Manager) CloseRoom(room string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, room)
}

// InRoom reports whether a user is currently a member of a room.
func (m *Manager) InRoom(room, userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.rooms[room][userID]
	return ok
}

// RoomMembers returns the user ids currently in a room.
func (m *Manager) RoomMembers(room string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	members := m.rooms[room]
	out := make([]string, 0, len(members))
	for id := range members {
		out = append(out, id)
	}
	return out
}

// SendMessage sends an event to a single client.
func (m *Manager) SendMessage(client *models.WebSocketClient, event string, data interface{}) error {
	if client == nil {
		return nil
	}

	rawData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("error marshaling message data: %w", err)
	}

	return client.WriteJSON(models.WSMessage{
		Event: event,
		Data:  rawData,
	})
}

// SendErrorMessage sends an "error" event to a single client. Errors never
// propagate beyond the originating connection.
func (m *Manager) SendErrorMessage(client *models.WebSocketClient, code, message string) error {
	return m.SendMessage(client, constants.EventError, models.WSErrorMessage{
		Code:    code,
		Message: message,
	})
}

// NotifyClient sends an event to a user's personal connection, if present.
func (m *Manager) NotifyClient(userID, event string, data interface{}) {
	m.mu.RLock()
	client, exists := m.clients[userID]
	m.mu.RUnlock()

	if !exists {
		return
	}

	if err := m.SendMessage(client, event, data); err != nil {
		logger.Warn("error sending message to client",
			logger.String("user_id", userID),
			logger.String("event", event),
			logger.Err(err))
	}
}

// BroadcastToRoom sends an event to every member of a room except
// excludeUserID (pass "" to include everyone).
func (m *Manager) BroadcastToRoom(room, event string, data interface{}, excludeUserID string) {
	m.mu.RLock()
	members := make([]*models.WebSocketClient, 0, len(m.rooms[room]))
	for id, client := range m.rooms[room] {
		if id == excludeUserID {
			continue
		}
		members = append(members, client)
	}
	m.mu.RUnlock()

	for _, client := range members {
		if err := m.SendMessage(client, event, data); err != nil {
			logger.Warn("error broadcasting to room member",
				logger.String("room", room),
				logger.String("user_id", client.UserID),
				logger.Err(err))
		}
	}
}

// BroadcastAll sends an event to every connected client except
// excludeUserID.
func (m *Manager) BroadcastAll(event string, data interface{}, excludeUserID string) {
	m.mu.RLock()
	clients := make([]*models.WebSocketClient, 0, len(m.clients))
	for id, client := range m.clients {
		if id == excludeUserID {
			continue
		}
		clients = append(clients, client)
	}
	m.mu.RUnlock()

	for _, client := range clients {
		if err := m.SendMessage(client, event, data); err != nil {
			logger.Warn("error broadcasting to client",
				logger.String("user_id", client.UserID),
				logger.Err(err))
		}
	}
}

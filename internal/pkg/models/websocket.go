package models

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WSMessage is the envelope for every message on the realtime channel.
type WSMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// WSErrorMessage is the payload of an "error" event.
type WSErrorMessage struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// WebSocketClient is one authenticated realtime connection.
type WebSocketClient struct {
	UserID string
	Role   string
	Conn   *websocket.Conn

	writeMu sync.Mutex
}

// WriteJSON writes a message to the connection, serializing concurrent
// writers. A nil connection is a no-op so handlers can be unit tested
// without a live socket.
func (c *WebSocketClient) WriteJSON(v interface{}) error {
	if c.Conn == nil {
		return nil
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteJSON(v)
}

// Roles established at handshake time.
const (
	RoleRider  = "rider"
	RoleDriver = "driver"
)

// Inbound payloads.

// RideRequestPayload is sent by a rider to request a trip.
type RideRequestPayload struct {
	Pickup      Location `json:"pickup"`
	Dropoff     Location `json:"dropoff"`
	VehicleType string   `json:"vehicleType"`
}

// AcceptRidePayload is sent by a driver to claim a requested ride.
type AcceptRidePayload struct {
	RideID string `json:"rideId"`
}

// LocationUpdatePayload is a location ping from either role.
type LocationUpdatePayload struct {
	Location Coordinate `json:"location"`
}

// RideStatusPayload advances a ride through its state machine.
type RideStatusPayload struct {
	RideID string `json:"rideId"`
	Status string `json:"status"`
}

// CancelRidePayload cancels a requested or accepted ride.
type CancelRidePayload struct {
	RideID string `json:"rideId"`
	Reason string `json:"reason"`
}

// ChatMessagePayload is an in-ride chat message. Not persisted.
type ChatMessagePayload struct {
	RideID  string `json:"rideId"`
	Message string `json:"message"`
}

// DriverStatusPayload toggles a driver online or offline.
type DriverStatusPayload struct {
	IsOnline bool        `json:"isOnline"`
	Location *Coordinate `json:"location,omitempty"`
}

// Outbound payloads.

// RideCreatedEvent acknowledges a ride request to the rider.
type RideCreatedEvent struct {
	RideID string `json:"rideId"`
}

// RideOfferEvent is the offer delivered to each candidate driver.
type RideOfferEvent struct {
	RideID      string   `json:"rideId"`
	Pickup      Location `json:"pickup"`
	Dropoff     Location `json:"dropoff"`
	VehicleType string   `json:"vehicleType"`
	Fare        int64    `json:"fare"`
	Distance    float64  `json:"distance"`
	RiderID     string   `json:"riderId"`
}

// DriverAssignedEvent announces the winning driver to the ride room.
type DriverAssignedEvent struct {
	DriverID string     `json:"driverId"`
	RideID   string     `json:"rideId"`
	Status   RideStatus `json:"status"`
}

// RideTakenEvent tells a losing candidate the offer is void.
type RideTakenEvent struct {
	RideID string `json:"rideId"`
}

// LocationUpdateEvent fans a participant's location out to its ride rooms.
type LocationUpdateEvent struct {
	UserID    string     `json:"userId"`
	Location  Coordinate `json:"location"`
	Timestamp time.Time  `json:"timestamp"`
}

// RideStatusChangeEvent announces a status transition to the ride room.
type RideStatusChangeEvent struct {
	RideID    string     `json:"rideId"`
	Status    RideStatus `json:"status"`
	Timestamp time.Time  `json:"timestamp"`
}

// RideCancelledEvent announces a cancellation to the ride room.
type RideCancelledEvent struct {
	RideID    string     `json:"rideId"`
	Status    RideStatus `json:"status"`
	Reason    string     `json:"reason,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// ChatMessageEvent delivers a chat message to the other ride participants.
type ChatMessageEvent struct {
	RideID    string    `json:"rideId"`
	Message   string    `json:"message"`
	SenderID  string    `json:"senderId"`
	Timestamp time.Time `json:"timestamp"`
}

// DriverStatusEvent broadcasts a driver's availability change.
type DriverStatusEvent struct {
	DriverID string      `json:"driverId"`
	IsOnline bool        `json:"isOnline"`
	Location *Coordinate `json:"location,omitempty"`
}

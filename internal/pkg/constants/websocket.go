package constants

// Inbound websocket event types.
const (
	EventRequestRide        = "request_ride"
	EventAcceptRide         = "accept_ride"
	EventUpdateLocation     = "update_location"
	EventUpdateRideStatus   = "update_ride_status"
	EventCancelRide         = "cancel_ride"
	EventSendMessage        = "send_message"
	EventDriverStatusChange = "driver_status_change"
)

// Outbound websocket event types.
const (
	EventError              = "error"
	EventRideCreated        = "ride_created"
	EventRideRequest        = "ride_request"
	EventDriverAssigned     = "driver_assigned"
	EventRideTaken          = "ride_taken"
	EventLocationUpdate     = "location_update"
	EventRideStatusChange   = "ride_status_change"
	EventRideCancelled      = "ride_cancelled"
	EventMessageReceived    = "message_received"
	EventDriverStatusUpdate = "driver_status_update"
)

// Websocket error codes.
const (
	ErrorInvalidFormat    = "invalid_format"
	ErrorValidationFailed = "validation_failed"
	ErrorUnauthorized     = "unauthorized"
	ErrorRideUnavailable  = "ride_unavailable"
	ErrorInvalidStatus    = "invalid_status"
	ErrorNotFound         = "not_found"
	ErrorInternalError    = "internal_error"
)

// RideRoomPrefix namespaces per-ride rooms; a user's personal room is
// simply their user id.
const RideRoomPrefix = "ride_"

// RideRoom returns the room name for a ride id.
func RideRoom(rideID string) string { return RideRoomPrefix + rideID }

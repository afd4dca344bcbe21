package constants

// NSQ topics for the ride lifecycle event stream.
const (
	TopicRideRequested = "ride.requested"
	TopicRideAccepted  = "ride.accepted"
	TopicRideStatus    = "ride.status"
	TopicRideCancelled = "ride.cancelled"
	TopicDriverStatus  = "driver.status"
)

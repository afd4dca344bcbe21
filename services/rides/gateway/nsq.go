package gateway

import (
	"context"

	"github.com/openride/openride/internal/pkg/constants"
	"github.com/openride/openride/internal/pkg/models"
	"github.com/openride/openride/internal/pkg/nsq"
	"github.com/openride/openride/services/rides"
)

// rideGW publishes ride lifecycle events to NSQ. With a nil producer every
// publish is a no-op, which is how the service runs without a broker.
type rideGW struct {
	producer *nsq.Producer
}

// NewRideGW creates the ride event gateway.
func NewRideGW(producer *nsq.Producer) rides.RideGW {
	return &rideGW{producer: producer}
}

func (g *rideGW) publish(topic string, ride *models.Ride) error {
	if g.producer == nil {
		return nil
	}
	return g.producer.Publish(topic, ride)
}

// PublishRideRequested emits a ride.requested event.
func (g *rideGW) PublishRideRequested(ctx context.Context, ride *models.Ride) error {
	return g.publish(constants.TopicRideRequested, ride)
}

// PublishRideAccepted emits a ride.accepted event.
func (g *rideGW) PublishRideAccepted(ctx context.Context, ride *models.Ride) error {
	return g.publish(constants.TopicRideAccepted, ride)
}

// PublishRideStatusChanged emits a ride.status event.
func (g *rideGW) PublishRideStatusChanged(ctx context.Context, ride *models.Ride) error {
	return g.publish(constants.TopicRideStatus, ride)
}

// PublishRideCancelled emits a ride.cancelled event.
func (g *rideGW) PublishRideCancelled(ctx context.Context, ride *models.Ride) error {
	return g.publish(constants.TopicRideCancelled, ride)
}

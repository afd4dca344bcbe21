package gateway

import (
	"context"

	"github.com/openride/openride/internal/pkg/constants"
	"github.com/openride/openride/internal/pkg/models"
	"github.com/openride/openride/internal/pkg/nsq"
	"github.com/openride/openride/services/drivers"
)

// driverGW publishes driver availability events to NSQ. With a nil
// producer every publish is a no-op.
type driverGW struct {
	producer *nsq.Producer
}

// NewDriverGW creates the driver event gateway.
func NewDriverGW(producer *nsq.Producer) drivers.DriverGW {
	return &driverGW{producer: producer}
}

// PublishDriverStatus emits a driver.status event.
func (g *driverGW) PublishDriverStatus(ctx context.Context, presence *models.DriverPresence) error {
	if g.producer == nil {
		return nil
	}
	return g.producer.Publish(constants.TopicDriverStatus, presence)
}

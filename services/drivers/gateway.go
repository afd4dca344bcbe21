package drivers

import (
	"context"

	"github.com/openride/openride/internal/pkg/models"
)

// DriverGW emits driver availability changes to the lifecycle event stream.
type DriverGW interface {
	PublishDriverStatus(ctx context.Context, presence *models.DriverPresence) error
}

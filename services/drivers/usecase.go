package drivers

import (
	"context"

	"github.com/openride/openride/internal/pkg/models"
)

// DriverUC is the driver directory contract consumed by the gateway and
// the matching component.
type DriverUC interface {
	SetOnline(ctx context.Context, driverID string, location models.Coordinate) error
	SetOffline(ctx context.Context, driverID string) error
	UpdateLocation(ctx context.Context, driverID string, location models.Coordinate) error
	FindNearby(ctx context.Context, origin models.Coordinate, radiusMeters float64) ([]models.NearbyDriver, error)
}

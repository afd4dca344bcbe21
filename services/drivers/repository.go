package drivers

import (
	"context"

	"github.com/openride/openride/internal/pkg/models"
)

// PresenceRepo stores driver connectivity and last known location.
// Offline drivers must never appear in proximity results.
type PresenceRepo interface {
	// SetOnline marks a driver online at a location. Idempotent.
	SetOnline(ctx context.Context, driverID string, location models.Coordinate) error

	// SetOffline marks a driver offline. Idempotent; unknown drivers are
	// a no-op.
	SetOffline(ctx context.Context, driverID string) error

	// UpdateLocation refreshes an online driver's location. A no-op when
	// the driver is offline.
	UpdateLocation(ctx context.Context, driverID string, location models.Coordinate) error

	// GetPresence returns a driver's presence record, or nil when the
	// driver has never been seen.
	GetPresence(ctx context.Context, driverID string) (*models.DriverPresence, error)

	// FindNearby returns online drivers within radiusMeters of origin,
	// ascending by distance, at most limit entries.
	FindNearby(ctx context.Context, origin models.Coordinate, radiusMeters float64, limit int) ([]models.NearbyDriver, error)
}

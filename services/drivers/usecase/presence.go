package usecase

import (
	"context"
	"fmt"

	"github.com/openride/openride/internal/pkg/logger"
	"github.com/openride/openride/internal/pkg/models"
	"github.com/openride/openride/services/drivers"
)

// maxNearbyDrivers caps proximity results to bound dispatch fan-out.
const maxNearbyDrivers = 20

// driverUC implements drivers.DriverUC over a presence repository.
type driverUC struct {
	presenceRepo drivers.PresenceRepo
	driverGW     drivers.DriverGW
}

// NewDriverUC creates the driver directory use case.
func NewDriverUC(presenceRepo drivers.PresenceRepo, driverGW drivers.DriverGW) drivers.DriverUC {
	return &driverUC{
		presenceRepo: presenceRepo,
		driverGW:     driverGW,
	}
}

// SetOnline marks a driver online at a location.
func (uc *driverUC) SetOnline(ctx context.Context, driverID string, location models.Coordinate) error {
	if !location.Valid() {
		return fmt.Errorf("invalid coordinate for driver %s", driverID)
	}
	if err := uc.presenceRepo.SetOnline(ctx, driverID, location); err != nil {
		return err
	}
	logger.Info("driver online",
		logger.String("driver_id", driverID),
		logger.Float64("latitude", location.Latitude),
		logger.Float64("longitude", location.Longitude))

	uc.publishStatus(ctx, driverID)
	return nil
}

// SetOffline marks a driver offline so it can no longer be matched.
func (uc *driverUC) SetOffline(ctx context.Context, driverID string) error {
	if err := uc.presenceRepo.SetOffline(ctx, driverID); err != nil {
		return err
	}
	logger.Info("driver offline", logger.String("driver_id", driverID))

	uc.publishStatus(ctx, driverID)
	return nil
}

// UpdateLocation refreshes an online driver's last known location.
func (uc *driverUC) UpdateLocation(ctx context.Context, driverID string, location models.Coordinate) error {
	if !location.Valid() {
		return fmt.Errorf("invalid coordinate for driver %s", driverID)
	}
	return uc.presenceRepo.UpdateLocation(ctx, driverID, location)
}

// FindNearby returns up to 20 online drivers within radiusMeters of
// origin, ascending by distance.
func (uc *driverUC) FindNearby(ctx context.Context, origin models.Coordinate, radiusMeters float64) ([]models.NearbyDriver, error) {
	return uc.presenceRepo.FindNearby(ctx, origin, radiusMeters, maxNearbyDrivers)
}

func (uc *driverUC) publishStatus(ctx context.Context, driverID string) {
	presence, err := uc.presenceRepo.GetPresence(ctx, driverID)
	if err != nil || presence == nil {
		return
	}
	if err := uc.driverGW.PublishDriverStatus(ctx, presence); err != nil {
		logger.Warn("failed to publish driver status",
			logger.String("driver_id", driverID),
			logger.Err(err))
	}
}

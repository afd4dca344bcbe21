package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/openride/openride/internal/pkg/constants"
	"github.com/openride/openride/internal/pkg/database"
	"github.com/openride/openride/internal/pkg/geo"
	"github.com/openride/openride/internal/pkg/models"
)

// geohashPrecision gives ~150m buckets, enough for presence diagnostics.
const geohashPrecision = 7

// RedisPresenceRepo keeps driver presence in Redis: a GEO set for
// proximity queries, a plain set for online membership and a per-driver
// hash with the last known location.
type RedisPresenceRepo struct {
	redis *database.RedisClient
}

// NewRedisPresenceRepo creates a redis-backed presence repository.
func NewRedisPresenceRepo(redisClient *database.RedisClient) *RedisPresenceRepo {
	return &RedisPresenceRepo{redis: redisClient}
}

// SetOnline marks a driver online at a location.
func (r *RedisPresenceRepo) SetOnline(ctx context.Context, driverID string, location models.Coordinate) error {
	if err := r.redis.SAdd(ctx, constants.KeyOnlineDrivers, driverID); err != nil {
		return fmt.Errorf("failed to add driver to online set: %w", err)
	}
	return r.writeLocation(ctx, driverID, location)
}

// SetOffline marks a driver offline and removes it from the GEO set so it
// can never match a proximity query.
func (r *RedisPresenceRepo) SetOffline(ctx context.Context, driverID string) error {
	if err := r.redis.SRem(ctx, constants.KeyOnlineDrivers, driverID); err != nil {
		return fmt.Errorf("failed to remove driver from online set: %w", err)
	}
	if err := r.redis.ZRem(ctx, constants.KeyDriverGeo, driverID); err != nil {
		return fmt.Errorf("failed to remove driver from geo set: %w", err)
	}
	return nil
}

// UpdateLocation refreshes an online driver's location; stale locations of
// offline drivers are never written.
func (r *RedisPresenceRepo) UpdateLocation(ctx context.Context, driverID string, location models.Coordinate) error {
	online, err := r.redis.SIsMember(ctx, constants.KeyOnlineDrivers, driverID)
	if err != nil {
		return fmt.Errorf("failed to check online membership: %w", err)
	}
	if !online {
		return nil
	}
	return r.writeLocation(ctx, driverID, location)
}

func (r *RedisPresenceRepo) writeLocation(ctx context.Context, driverID string, location models.Coordinate) error {
	if err := r.redis.GeoAdd(ctx, constants.KeyDriverGeo, location.Longitude, location.Latitude, driverID); err != nil {
		return fmt.Errorf("failed to geoadd driver location: %w", err)
	}

	presenceKey := fmt.Sprintf(constants.KeyDriverPresence, driverID)
	err := r.redis.HSet(ctx, presenceKey, map[string]interface{}{
		constants.FieldLatitude:  location.Latitude,
		constants.FieldLongitude: location.Longitude,
		constants.FieldGeohash:   geo.Encode(location, geohashPrecision),
		constants.FieldTimestamp: time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to write presence hash: %w", err)
	}
	return nil
}

// GetPresence returns a driver's presence record.
func (r *RedisPresenceRepo) GetPresence(ctx context.Context, driverID string) (*models.DriverPresence, error) {
	presenceKey := fmt.Sprintf(constants.KeyDriverPresence, driverID)
	fields, err := r.redis.HGetAll(ctx, presenceKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read presence hash: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	online, err := r.redis.SIsMember(ctx, constants.KeyOnlineDrivers, driverID)
	if err != nil {
		return nil, fmt.Errorf("failed to check online membership: %w", err)
	}

	presence := &models.DriverPresence{
		DriverID: driverID,
		IsOnline: online,
		Geohash:  fields[constants.FieldGeohash],
	}
	if v, ok := fields[constants.FieldLatitude]; ok {
		presence.Location.Latitude, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := fields[constants.FieldLongitude]; ok {
		presence.Location.Longitude, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := fields[constants.FieldTimestamp]; ok {
		presence.UpdatedAt, _ = time.Parse(time.RFC3339, v)
	}
	return presence, nil
}

// FindNearby returns online drivers within radiusMeters of origin,
// nearest first. Membership in the GEO set implies the driver is online,
// because SetOffline removes it, but the online set is consulted anyway in
// case the two writes raced.
func (r *RedisPresenceRepo) FindNearby(ctx context.Context, origin models.Coordinate, radiusMeters float64, limit int) ([]models.NearbyDriver, error) {
	locations, err := r.redis.GeoRadius(ctx, constants.KeyDriverGeo, origin.Longitude, origin.Latitude, radiusMeters, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to run geo radius query: %w", err)
	}

	out := make([]models.NearbyDriver, 0, len(locations))
	for _, loc := range locations {
		online, err := r.redis.SIsMember(ctx, constants.KeyOnlineDrivers, loc.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to check online membership: %w", err)
		}
		if !online {
			continue
		}
		out = append(out, models.NearbyDriver{
			DriverID:       loc.Name,
			DistanceMeters: loc.Dist,
		})
	}
	return out, nil
}

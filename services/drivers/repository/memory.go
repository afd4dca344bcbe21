package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/openride/openride/internal/pkg/geo"
	"github.com/openride/openride/internal/pkg/models"
)

// MemoryPresenceRepo keeps driver presence in a process-local map and
// answers proximity queries with a haversine scan. Used when Redis is not
// configured and by the unit tests.
type MemoryPresenceRepo struct {
	mu      sync.RWMutex
	drivers map[string]*models.DriverPresence
}

// NewMemoryPresenceRepo creates an empty in-memory presence repository.
func NewMemoryPresenceRepo() *MemoryPresenceRepo {
	return &MemoryPresenceRepo{drivers: make(map[string]*models.DriverPresence)}
}

// SetOnline marks a driver online at a location.
func (r *MemoryPresenceRepo) SetOnline(ctx context.Context, driverID string, location models.Coordinate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drivers[driverID] = &models.DriverPresence{
		DriverID:  driverID,
		IsOnline:  true,
		Location:  location,
		Geohash:   geo.Encode(location, geohashPrecision),
		UpdatedAt: time.Now(),
	}
	return nil
}

// SetOffline marks a driver offline.
func (r *MemoryPresenceRepo) SetOffline(ctx context.Context, driverID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.drivers[driverID]; ok {
		d.IsOnline = false
		d.UpdatedAt = time.Now()
	}
	return nil
}

// UpdateLocation refreshes an online driver's location; a no-op when the
// driver is offline or unknown.
func (r *MemoryPresenceRepo) UpdateLocation(ctx context.Context, driverID string, location models.Coordinate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drivers[driverID]
	if !ok || !d.IsOnline {
		return nil
	}
	d.Location = location
	d.Geohash = geo.Encode(location, geohashPrecision)
	d.UpdatedAt = time.Now()
	return nil
}

// GetPresence returns a copy of the driver's presence record.
func (r *MemoryPresenceRepo) GetPresence(ctx context.Context, driverID string) (*models.DriverPresence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.drivers[driverID]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

// FindNearby scans online drivers, applies the radius cutoff and returns
// the closest limit entries ascending by distance.
func (r *MemoryPresenceRepo) FindNearby(ctx context.Context, origin models.Coordinate, radiusMeters float64, limit int) ([]models.NearbyDriver, error) {
	r.mu.RLock()
	candidates := make([]models.NearbyDriver, 0, len(r.drivers))
	for id, d := range r.drivers {
		if !d.IsOnline {
			continue
		}
		dist := geo.DistanceMeters(origin, d.Location)
		if dist > radiusMeters {
			continue
		}
		candidates = append(candidates, models.NearbyDriver{DriverID: id, DistanceMeters: dist})
	}
	r.mu.RUnlock()

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].DistanceMeters < candidates[j].DistanceMeters
	})
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

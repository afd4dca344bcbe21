package repository

import (
	"context"
	"sync"
	"time"

	"github.com/openride/openride/internal/pkg/models"
	"github.com/openride/openride/services/rides"
)

// MemoryRideRepo keeps rides in process memory. It is used when no
// database is configured and by the unit tests. Conditional updates are
// serialized by a mutex, giving the same at-most-once acceptance guarantee
// as the SQL implementation's conditional writes.
type MemoryRideRepo struct {
	mu    sync.RWMutex
	rides map[string]*models.Ride
}

// NewMemoryRideRepo creates an empty in-memory ride repository.
func NewMemoryRideRepo() *MemoryRideRepo {
	return &MemoryRideRepo{rides: make(map[string]*models.Ride)}
}

// InsertRide persists a freshly created ride.
func (r *MemoryRideRepo) InsertRide(ctx context.Context, ride *models.Ride) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *ride
	r.rides[ride.ID] = &cp
	return nil
}

// GetRideByID returns a copy of the ride or rides.ErrRideNotFound.
func (r *MemoryRideRepo) GetRideByID(ctx context.Context, rideID string) (*models.Ride, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ride, ok := r.rides[rideID]
	if !ok {
		return nil, rides.ErrRideNotFound
	}
	cp := *ride
	return &cp, nil
}

// AcceptRide claims a requested ride for driverID. The status check and
// the write happen under one lock.
func (r *MemoryRideRepo) AcceptRide(ctx context.Context, rideID, driverID string) (*models.Ride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ride, ok := r.rides[rideID]
	if !ok {
		return nil, rides.ErrRideNotFound
	}
	if ride.Status != models.RideStatusRequested {
		return nil, rides.ErrRideUnavailable
	}

	ride.DriverID = driverID
	ride.Status = models.RideStatusAccepted
	ride.UpdatedAt = time.Now()

	cp := *ride
	return &cp, nil
}

// UpdateStatusIfCurrent moves a ride from current to next under the lock.
func (r *MemoryRideRepo) UpdateStatusIfCurrent(ctx context.Context, rideID string, current, next models.RideStatus, reason string) (*models.Ride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ride, ok := r.rides[rideID]
	if !ok {
		return nil, rides.ErrRideNotFound
	}
	if ride.Status != current {
		return nil, rides.ErrRideUnavailable
	}

	now := time.Now()
	ride.Status = next
	ride.UpdatedAt = now
	switch next {
	case models.RideStatusCompleted:
		ride.CompletedAt = &now
	case models.RideStatusCancelled:
		ride.CancelReason = reason
	}

	cp := *ride
	return &cp, nil
}

// GetActiveRidesByParticipant returns the active rides userID takes part in.
func (r *MemoryRideRepo) GetActiveRidesByParticipant(ctx context.Context, userID string) ([]*models.Ride, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.Ride
	for _, ride := range r.rides {
		if ride.Active() && ride.IsParticipant(userID) {
			cp := *ride
			out = append(out, &cp)
		}
	}
	return out, nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/openride/openride/internal/pkg/constants"
	"github.com/openride/openride/internal/pkg/database"
)

// candidateTTL bounds how long a candidate set can linger when a ride is
// never accepted or cancelled.
const candidateTTL = 30 * time.Minute

// RedisCandidateRepo stores the notified-driver set per ride in Redis.
type RedisCandidateRepo struct {
	redis *database.RedisClient
}

// NewRedisCandidateRepo creates a redis-backed candidate repository.
func NewRedisCandidateRepo(redisClient *database.RedisClient) *RedisCandidateRepo {
	return &RedisCandidateRepo{redis: redisClient}
}

// AddCandidates records the drivers offered a ride.
func (r *RedisCandidateRepo) AddCandidates(ctx context.Context, rideID string, driverIDs []string) error {
	if len(driverIDs) == 0 {
		return nil
	}
	key := fmt.Sprintf(constants.KeyRideCandidates, rideID)
	members := make([]interface{}, len(driverIDs))
	for i, id := range driverIDs {
		members[i] = id
	}
	if err := r.redis.SAdd(ctx, key, members...); err != nil {
		return fmt.Errorf("failed to record ride candidates: %w", err)
	}
	return r.redis.Expire(ctx, key, candidateTTL)
}

// GetCandidates returns the drivers offered a ride.
func (r *RedisCandidateRepo) GetCandidates(ctx context.Context, rideID string) ([]string, error) {
	return r.redis.SMembers(ctx, fmt.Sprintf(constants.KeyRideCandidates, rideID))
}

// ClearCandidates forgets a ride's candidate set.
func (r *RedisCandidateRepo) ClearCandidates(ctx context.Context, rideID string) error {
	return r.redis.Delete(ctx, fmt.Sprintf(constants.KeyRideCandidates, rideID))
}

package repository

import (
	"context"
	"sync"
)

// MemoryCandidateRepo keeps candidate sets in process memory.
type MemoryCandidateRepo struct {
	mu         sync.Mutex
	candidates map[string][]string
}

// NewMemoryCandidateRepo creates an empty in-memory candidate repository.
func NewMemoryCandidateRepo() *MemoryCandidateRepo {
	return &MemoryCandidateRepo{candidates: make(map[string][]string)}
}

// AddCandidates records the drivers offered a ride.
func (r *MemoryCandidateRepo) AddCandidates(ctx context.Context, rideID string, driverIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.candidates[rideID] = append(r.candidates[rideID], driverIDs...)
	return nil
}

// GetCandidates returns the drivers offered a ride.
func (r *MemoryCandidateRepo) GetCandidates(ctx context.Context, rideID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.candidates[rideID]))
	copy(out, r.candidates[rideID])
	return out, nil
}

// ClearCandidates forgets a ride's candidate set.
func (r *MemoryCandidateRepo) ClearCandidates(ctx context.Context, rideID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.candidates, rideID)
	return nil
}

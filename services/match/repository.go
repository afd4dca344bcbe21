package match

import "context"

// CandidateRepo remembers which drivers were offered a ride, so losing
// candidates can be told to stop showing the request once it is taken.
type CandidateRepo interface {
	AddCandidates(ctx context.Context, rideID string, driverIDs []string) error
	GetCandidates(ctx context.Context, rideID string) ([]string, error)
	ClearCandidates(ctx context.Context, rideID string) error
}

package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openride/openride/internal/pkg/models"
	"github.com/openride/openride/services/rides"
	"github.com/openride/openride/services/rides/gateway"
	"github.com/openride/openride/services/rides/repository"
)

var (
	testPickup  = models.Location{Latitude: -6.175392, Longitude: 106.827153, Address: "Monas"}
	testDropoff = models.Location{Latitude: -6.194755, Longitude: 106.822744, Address: "Bundaran HI"}
)

func newTestRideUC() rides.RideUC {
	return NewRideUC(repository.NewMemoryRideRepo(), gateway.NewRideGW(nil))
}

func createTestRide(t *testing.T, uc rides.RideUC) *models.Ride {
	t.Helper()
	ride, err := uc.CreateRide(context.Background(), "rider-1", testPickup, testDropoff, models.VehicleTypeSedan)
	require.NoError(t, err)
	return ride
}

func TestCreateRide(t *testing.T) {
	uc := newTestRideUC()

	ride := createTestRide(t, uc)

	assert.NotEmpty(t, ride.ID)
	assert.Equal(t, "rider-1", ride.RiderID)
	assert.Equal(t, models.RideStatusRequested, ride.Status)
	assert.InDelta(t, 2200, ride.DistanceMeters, 200)
	assert.Greater(t, ride.Fare, int64(0))
	assert.Greater(t, ride.DurationMinutes, 0)

	stored, err := uc.GetRide(context.Background(), ride.ID)
	require.NoError(t, err)
	assert.Equal(t, ride.Fare, stored.Fare)
}

func TestCreateRide_FareIsDeterministic(t *testing.T) {
	uc := newTestRideUC()

	first := createTestRide(t, uc)
	second := createTestRide(t, uc)

	assert.Equal(t, first.Fare, second.Fare)
	assert.Equal(t, first.DistanceMeters, second.DistanceMeters)
	assert.Equal(t, first.DurationMinutes, second.DurationMinutes)
}

func TestAcceptRide(t *testing.T) {
	uc := newTestRideUC()
	ride := createTestRide(t, uc)

	accepted, err := uc.AcceptRide(context.Background(), ride.ID, "driver-1")
	require.NoError(t, err)
	assert.Equal(t, models.RideStatusAccepted, accepted.Status)
	assert.Equal(t, "driver-1", accepted.DriverID)
}

func TestAcceptRide_LoserGetsUnavailable(t *testing.T) {
	uc := newTestRideUC()
	ride := createTestRide(t, uc)

	_, err := uc.AcceptRide(context.Background(), ride.ID, "driver-1")
	require.NoError(t, err)

	_, err = uc.AcceptRide(context.Background(), ride.ID, "driver-2")
	assert.ErrorIs(t, err, rides.ErrRideUnavailable)

	// The assignment is untouched by the losing attempt.
	got, err := uc.GetRide(context.Background(), ride.ID)
	require.NoError(t, err)
	assert.Equal(t, "driver-1", got.DriverID)
}

func TestAcceptRide_ConcurrentSingleWinner(t *testing.T) {
	uc := newTestRideUC()
	ride := createTestRide(t, uc)

	const attempts = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	var winners, losers int

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := uc.AcceptRide(context.Background(), ride.ID, fmt.Sprintf("driver-%d", n))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				winners++
			} else if err == rides.ErrRideUnavailable {
				losers++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	assert.Equal(t, attempts-1, losers)
}

func TestTransitionStatus_ForwardPath(t *testing.T) {
	uc := newTestRideUC()
	ride := createTestRide(t, uc)
	ctx := context.Background()

	_, err := uc.AcceptRide(ctx, ride.ID, "driver-1")
	require.NoError(t, err)

	for _, status := range []models.RideStatus{
		models.RideStatusArrived,
		models.RideStatusInProgress,
		models.RideStatusCompleted,
	} {
		updated, err := uc.TransitionStatus(ctx, ride.ID, "driver-1", status)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}

	final, err := uc.GetRide(ctx, ride.ID)
	require.NoError(t, err)
	require.NotNil(t, final.CompletedAt)
}

func TestTransitionStatus_IllegalEdges(t *testing.T) {
	uc := newTestRideUC()
	ctx := context.Background()

	// Skipping arrived: accepted -> in_progress is not an edge.
	ride := createTestRide(t, uc)
	_, err := uc.AcceptRide(ctx, ride.ID, "driver-1")
	require.NoError(t, err)

	_, err = uc.TransitionStatus(ctx, ride.ID, "driver-1", models.RideStatusInProgress)
	require.Error(t, err)
	assert.True(t, rides.IsInvalidTransition(err))
	assert.Contains(t, err.Error(), "accepted")
	assert.Contains(t, err.Error(), "in_progress")

	// A completed ride accepts nothing further.
	_, err = uc.TransitionStatus(ctx, ride.ID, "driver-1", models.RideStatusArrived)
	require.NoError(t, err)
	_, err = uc.TransitionStatus(ctx, ride.ID, "driver-1", models.RideStatusInProgress)
	require.NoError(t, err)
	_, err = uc.TransitionStatus(ctx, ride.ID, "driver-1", models.RideStatusCompleted)
	require.NoError(t, err)

	_, err = uc.TransitionStatus(ctx, ride.ID, "driver-1", models.RideStatusArrived)
	assert.True(t, rides.IsInvalidTransition(err))
}

func TestTransitionStatus_CancelledMustUseCancelRide(t *testing.T) {
	uc := newTestRideUC()
	ride := createTestRide(t, uc)

	_, err := uc.TransitionStatus(context.Background(), ride.ID, "rider-1", models.RideStatusCancelled)
	assert.True(t, rides.IsInvalidTransition(err))
}

func TestTransitionStatus_NonParticipantRejected(t *testing.T) {
	uc := newTestRideUC()
	ride := createTestRide(t, uc)
	ctx := context.Background()

	_, err := uc.AcceptRide(ctx, ride.ID, "driver-1")
	require.NoError(t, err)

	_, err = uc.TransitionStatus(ctx, ride.ID, "stranger", models.RideStatusArrived)
	assert.ErrorIs(t, err, rides.ErrNotParticipant)
}

func TestTransitionStatus_UnknownRide(t *testing.T) {
	uc := newTestRideUC()

	_, err := uc.TransitionStatus(context.Background(), "missing", "rider-1", models.RideStatusArrived)
	assert.ErrorIs(t, err, rides.ErrRideNotFound)
}

func TestCancelRide(t *testing.T) {
	uc := newTestRideUC()
	ctx := context.Background()

	// Rider cancels a requested ride.
	ride := createTestRide(t, uc)
	cancelled, err := uc.CancelRide(ctx, ride.ID, "rider-1", "changed plans")
	require.NoError(t, err)
	assert.Equal(t, models.RideStatusCancelled, cancelled.Status)
	assert.Equal(t, "changed plans", cancelled.CancelReason)

	// Driver cancels an accepted ride.
	ride = createTestRide(t, uc)
	_, err = uc.AcceptRide(ctx, ride.ID, "driver-1")
	require.NoError(t, err)
	cancelled, err = uc.CancelRide(ctx, ride.ID, "driver-1", "vehicle breakdown")
	require.NoError(t, err)
	assert.Equal(t, models.RideStatusCancelled, cancelled.Status)
}

func TestCancelRide_AfterCancelNothingMoves(t *testing.T) {
	uc := newTestRideUC()
	ctx := context.Background()

	ride := createTestRide(t, uc)
	_, err := uc.CancelRide(ctx, ride.ID, "rider-1", "changed plans")
	require.NoError(t, err)

	// A late arrival update against the cancelled ride names both states.
	_, err = uc.TransitionStatus(ctx, ride.ID, "rider-1", models.RideStatusArrived)
	require.Error(t, err)
	assert.True(t, rides.IsInvalidTransition(err))
	assert.Contains(t, err.Error(), "cancelled")
	assert.Contains(t, err.Error(), "arrived")
}

func TestCancelRide_TooLate(t *testing.T) {
	uc := newTestRideUC()
	ctx := context.Background()

	ride := createTestRide(t, uc)
	_, err := uc.AcceptRide(ctx, ride.ID, "driver-1")
	require.NoError(t, err)
	_, err = uc.TransitionStatus(ctx, ride.ID, "driver-1", models.RideStatusArrived)
	require.NoError(t, err)

	_, err = uc.CancelRide(ctx, ride.ID, "rider-1", "changed plans")
	assert.True(t, rides.IsInvalidTransition(err))
}

func TestCancelRide_NonParticipantRejected(t *testing.T) {
	uc := newTestRideUC()
	ride := createTestRide(t, uc)

	_, err := uc.CancelRide(context.Background(), ride.ID, "stranger", "nope")
	assert.ErrorIs(t, err, rides.ErrNotParticipant)
}

func TestGetActiveRides(t *testing.T) {
	uc := newTestRideUC()
	ctx := context.Background()

	requested := createTestRide(t, uc)
	accepted := createTestRide(t, uc)
	_, err := uc.AcceptRide(ctx, accepted.ID, "driver-1")
	require.NoError(t, err)

	active, err := uc.GetActiveRides(ctx, "rider-1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, accepted.ID, active[0].ID)
	assert.NotEqual(t, requested.ID, active[0].ID)
}

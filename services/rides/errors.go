package rides

import (
	"errors"
	"fmt"

	"github.com/openride/openride/internal/pkg/models"
)

var (
	// ErrRideNotFound is returned when no ride matches the given id.
	ErrRideNotFound = errors.New("ride not found")

	// ErrRideUnavailable is returned to a driver who lost the acceptance
	// race: the ride is no longer in the requested state.
	ErrRideUnavailable = errors.New("ride not available")

	// ErrNotParticipant is returned when the acting user is neither the
	// rider nor the assigned driver of the ride.
	ErrNotParticipant = errors.New("user is not a participant of this ride")
)

// InvalidTransitionError reports an illegal state-machine edge. It names
// both the current and the requested state.
type InvalidTransitionError struct {
	From models.RideStatus
	To   models.RideStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid ride transition from %q to %q", e.From, e.To)
}

// IsInvalidTransition reports whether err is an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var ite *InvalidTransitionError
	return errors.As(err, &ite)
}

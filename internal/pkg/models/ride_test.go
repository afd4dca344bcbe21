package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	all := []RideStatus{
		RideStatusRequested,
		RideStatusAccepted,
		RideStatusArrived,
		RideStatusInProgress,
		RideStatusCompleted,
		RideStatusCancelled,
	}

	legal := map[RideStatus][]RideStatus{
		RideStatusRequested:  {RideStatusAccepted, RideStatusCancelled},
		RideStatusAccepted:   {RideStatusArrived, RideStatusCancelled},
		RideStatusArrived:    {RideStatusInProgress},
		RideStatusInProgress: {RideStatusCompleted},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, next := range legal[from] {
				if next == to {
					want = true
				}
			}
			assert.Equal(t, want, CanTransition(from, to), "transition %s -> %s", from, to)
		}
	}
}

func TestCanTransition_TerminalStatesHaveNoEdges(t *testing.T) {
	for _, from := range []RideStatus{RideStatusCompleted, RideStatusCancelled} {
		for _, to := range []RideStatus{RideStatusRequested, RideStatusAccepted, RideStatusArrived, RideStatusInProgress, RideStatusCompleted, RideStatusCancelled} {
			assert.False(t, CanTransition(from, to), "terminal %s must not transition to %s", from, to)
		}
	}
}

func TestRideStatusTerminal(t *testing.T) {
	assert.True(t, RideStatusCompleted.Terminal())
	assert.True(t, RideStatusCancelled.Terminal())
	assert.False(t, RideStatusRequested.Terminal())
	assert.False(t, RideStatusAccepted.Terminal())
	assert.False(t, RideStatusArrived.Terminal())
	assert.False(t, RideStatusInProgress.Terminal())
}

func TestValidVehicleType(t *testing.T) {
	for _, vt := range []string{VehicleTypeBike, VehicleTypeAuto, VehicleTypeSedan, VehicleTypeSUV, VehicleTypePremium} {
		assert.True(t, ValidVehicleType(vt), vt)
	}
	assert.False(t, ValidVehicleType("helicopter"))
	assert.False(t, ValidVehicleType(""))
	assert.False(t, ValidVehicleType("Sedan"))
}

func TestNewRideDefaults(t *testing.T) {
	pickup := Location{Latitude: -6.17, Longitude: 106.82, Address: "Monas"}
	dropoff := Location{Latitude: -6.19, Longitude: 106.82}

	ride := NewRide("rider-1", pickup, dropoff, VehicleTypeAuto)

	assert.Equal(t, "rider-1", ride.RiderID)
	assert.Empty(t, ride.DriverID)
	assert.Equal(t, RideStatusRequested, ride.Status)
	assert.Equal(t, "cash", ride.PaymentMethod)
	assert.Equal(t, PaymentStatusPending, ride.PaymentStatus)
	assert.Equal(t, pickup, ride.Pickup)
	assert.Equal(t, dropoff, ride.Dropoff)
	assert.False(t, ride.CreatedAt.IsZero())
	assert.Nil(t, ride.CompletedAt)
}

func TestRideIsParticipant(t *testing.T) {
	ride := &Ride{RiderID: "rider-1", DriverID: "driver-1"}

	assert.True(t, ride.IsParticipant("rider-1"))
	assert.True(t, ride.IsParticipant("driver-1"))
	assert.False(t, ride.IsParticipant("stranger"))
	assert.False(t, ride.IsParticipant(""))

	// An unassigned ride must not treat the empty driver id as a match.
	unassigned := &Ride{RiderID: "rider-1"}
	assert.False(t, unassigned.IsParticipant(""))
}

func TestRideActive(t *testing.T) {
	for status, want := range map[RideStatus]bool{
		RideStatusRequested:  false,
		RideStatusAccepted:   true,
		RideStatusArrived:    true,
		RideStatusInProgress: true,
		RideStatusCompleted:  false,
		RideStatusCancelled:  false,
	} {
		ride := &Ride{Status: status}
		assert.Equal(t, want, ride.Active(), string(status))
	}
}

func TestCoordinateValid(t *testing.T) {
	assert.True(t, Coordinate{Latitude: 0, Longitude: 0}.Valid())
	assert.True(t, Coordinate{Latitude: -90, Longitude: 180}.Valid())
	assert.False(t, Coordinate{Latitude: 90.1, Longitude: 0}.Valid())
	assert.False(t, Coordinate{Latitude: 0, Longitude: -180.5}.Valid())
}

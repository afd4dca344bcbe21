package models

import "time"

// RideStatus is the lifecycle state of a ride.
type RideStatus string

const (
	RideStatusRequested  RideStatus = "requested"
	RideStatusAccepted   RideStatus = "accepted"
	RideStatusArrived    RideStatus = "arrived"
	RideStatusInProgress RideStatus = "in_progress"
	RideStatusCompleted  RideStatus = "completed"
	RideStatusCancelled  RideStatus = "cancelled"
)

// Terminal reports whether no further transitions are possible.
func (s RideStatus) Terminal() bool {
	return s == RideStatusCompleted || s == RideStatusCancelled
}

// rideTransitions is the full edge list of the ride state machine.
// Cancellation edges are handled separately because they carry a reason.
var rideTransitions = map[RideStatus][]RideStatus{
	RideStatusRequested:  {RideStatusAccepted, RideStatusCancelled},
	RideStatusAccepted:   {RideStatusArrived, RideStatusCancelled},
	RideStatusArrived:    {RideStatusInProgress},
	RideStatusInProgress: {RideStatusCompleted},
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to RideStatus) bool {
	for _, next := range rideTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Vehicle types accepted on ride requests.
const (
	VehicleTypeBike    = "bike"
	VehicleTypeAuto    = "auto"
	VehicleTypeSedan   = "sedan"
	VehicleTypeSUV     = "suv"
	VehicleTypePremium = "premium"
)

// ValidVehicleType reports whether t is one of the fixed vehicle classes.
func ValidVehicleType(t string) bool {
	switch t {
	case VehicleTypeBike, VehicleTypeAuto, VehicleTypeSedan, VehicleTypeSUV, VehicleTypePremium:
		return true
	}
	return false
}

// PaymentStatus of a ride. Settlement itself happens outside this service.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Ride is one trip record from request to terminal state.
//
// Fare, pickup, dropoff and vehicle type are immutable after creation;
// DriverID is set exactly when the status is at or past accepted.
type Ride struct {
	ID              string        `json:"id" db:"id"`
	RiderID         string        `json:"rider_id" db:"rider_id"`
	DriverID        string        `json:"driver_id,omitempty" db:"driver_id"`
	Pickup          Location      `json:"pickup"`
	Dropoff         Location      `json:"dropoff"`
	VehicleType     string        `json:"vehicle_type" db:"vehicle_type"`
	Fare            int64         `json:"fare" db:"fare"`
	DistanceMeters  float64       `json:"distance_meters" db:"distance"`
	DurationMinutes int           `json:"duration_minutes" db:"duration"`
	Status          RideStatus    `json:"status" db:"status"`
	PaymentMethod   string        `json:"payment_method" db:"payment_method"`
	PaymentStatus   PaymentStatus `json:"payment_status" db:"payment_status"`
	CancelReason    string        `json:"cancel_reason,omitempty" db:"cancel_reason"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty" db:"completed_at"`
}

// NewRide builds a ride in the requested state with payment defaults.
// The caller fills in id, fare, distance and duration.
func NewRide(riderID string, pickup, dropoff Location, vehicleType string) *Ride {
	now := time.Now()
	return &Ride{
		RiderID:       riderID,
		Pickup:        pickup,
		Dropoff:       dropoff,
		VehicleType:   vehicleType,
		Status:        RideStatusRequested,
		PaymentMethod: "cash",
		PaymentStatus: PaymentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsParticipant reports whether userID is the rider or the assigned driver.
func (r *Ride) IsParticipant(userID string) bool {
	return userID != "" && (r.RiderID == userID || r.DriverID == userID)
}

// Active reports whether the ride has a live ride room (accepted through
// in_progress).
func (r *Ride) Active() bool {
	switch r.Status {
	case RideStatusAccepted, RideStatusArrived, RideStatusInProgress:
		return true
	}
	return false
}

// Package fare holds the deterministic fare and duration estimators.
// Both functions are pure; vehicle type validation happens at the gateway.
package fare

import (
	"math"

	"github.com/openride/openride/internal/pkg/models"
)

type rate struct {
	base  float64
	perKm float64
}

// Currency-agnostic rate card, keyed by vehicle class.
var rates = map[string]rate{
	models.VehicleTypeBike:    {base: 15, perKm: 8},
	models.VehicleTypeAuto:    {base: 25, perKm: 12},
	models.VehicleTypeSedan:   {base: 40, perKm: 15},
	models.VehicleTypeSUV:     {base: 60, perKm: 20},
	models.VehicleTypePremium: {base: 80, perKm: 25},
}

// averageSpeedMetersPerMinute assumes 40 km/h.
const averageSpeedMetersPerMinute = 40000.0 / 60.0

// Estimate returns the fare for a vehicle class over a distance in meters.
// An unknown class falls back to sedan rates.
func Estimate(vehicleType string, distanceMeters float64) int64 {
	r, ok := rates[vehicleType]
	if !ok {
		r = rates[models.VehicleTypeSedan]
	}
	return int64(math.Round(r.base + r.perKm*(distanceMeters/1000)))
}

// EstimateDuration returns the trip duration estimate in whole minutes.
func EstimateDuration(distanceMeters float64) int {
	return int(math.Ceil(distanceMeters / averageSpeedMetersPerMinute))
}

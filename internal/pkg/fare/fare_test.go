package fare

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openride/openride/internal/pkg/models"
)

func TestEstimate_RateCard(t *testing.T) {
	tests := []struct {
		name           string
		vehicleType    string
		distanceMeters float64
		want           int64
	}{
		{"bike base fare only", models.VehicleTypeBike, 0, 15},
		{"bike 10km", models.VehicleTypeBike, 10000, 95},
		{"auto 10km", models.VehicleTypeAuto, 10000, 145},
		{"sedan 10km", models.VehicleTypeSedan, 10000, 190},
		{"suv 10km", models.VehicleTypeSUV, 10000, 260},
		{"premium 10km", models.VehicleTypePremium, 10000, 330},
		{"sedan rounds to nearest", models.VehicleTypeSedan, 2500, 78}, // 40 + 37.5
		{"unknown type falls back to sedan", "rickshaw", 10000, 190},
		{"empty type falls back to sedan", "", 10000, 190},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Estimate(tt.vehicleType, tt.distanceMeters))
		})
	}
}

func TestEstimate_Deterministic(t *testing.T) {
	first := Estimate(models.VehicleTypeSedan, 12345.678)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Estimate(models.VehicleTypeSedan, 12345.678))
	}
}

func TestEstimateDuration(t *testing.T) {
	// 40 km/h means 10km takes exactly 15 minutes.
	assert.Equal(t, 15, EstimateDuration(10000))
	assert.Equal(t, 30, EstimateDuration(20000))

	// Fractions round up to whole minutes.
	assert.Equal(t, 16, EstimateDuration(10001))
	assert.Equal(t, 1, EstimateDuration(1))
	assert.Equal(t, 0, EstimateDuration(0))
}

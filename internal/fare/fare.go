// Package fare computes the itemized price of a ride from distance and
// vehicle type. Calculation is pure; rates are fixed lookup tables.
package fare

import "math"

// Breakdown is the itemized fare returned to clients and stored on a booking.
type Breakdown struct {
	BaseFare     float64 `json:"baseFare"`
	DistanceFare float64 `json:"distanceFare"`
	PlatformFee  float64 `json:"platformFee"`
	Subtotal     float64 `json:"subtotal"`
	Total        float64 `json:"total"`
}

type rate struct {
	base  float64
	perKm float64
}

var rates = map[string]rate{
	"bike":      {base: 50, perKm: 8},
	"auto":      {base: 80, perKm: 10},
	"hatchback": {base: 120, perKm: 12},
	"sedan":     {base: 150, perKm: 15},
	"suv":       {base: 200, perKm: 18},
}

// defaultRate applies when the vehicle type is not in the table. Unknown
// types never error.
var defaultRate = rate{base: 100, perKm: 15}

const (
	platformFeeRate   = 0.10
	defaultDistanceKm = 5
)

// Calculate returns the fare breakdown for a ride of distanceKm in the given
// vehicle type. A zero or negative distance falls back to 5 km. The platform
// fee is 10% of the subtotal, rounded half away from zero.
func Calculate(distanceKm float64, vehicleType string) Breakdown {
	if distanceKm <= 0 {
		distanceKm = defaultDistanceKm
	}
	r, ok := rates[vehicleType]
	if !ok {
		r = defaultRate
	}

	distanceFare := distanceKm * r.perKm
	subtotal := r.base + distanceFare
	platformFee := math.Round(subtotal * platformFeeRate)

	return Breakdown{
		BaseFare:     r.base,
		DistanceFare: distanceFare,
		PlatformFee:  platformFee,
		Subtotal:     subtotal,
		Total:        subtotal + platformFee,
	}
}

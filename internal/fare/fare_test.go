package fare

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculateSedan(t *testing.T) {
	got := Calculate(5, "sedan")

	require.Equal(t, 150.0, got.BaseFare)
	require.Equal(t, 75.0, got.DistanceFare)
	require.Equal(t, 225.0, got.Subtotal)
	require.Equal(t, 23.0, got.PlatformFee, "10 percent of 225 rounds half up to 23")
	require.Equal(t, 248.0, got.Total)
}

func TestCalculateZeroDistanceUsesDefault(t *testing.T) {
	// Zero distance is treated as absent and replaced with 5 km.
	got := Calculate(0, "bike")

	require.Equal(t, 50.0, got.BaseFare)
	require.Equal(t, 40.0, got.DistanceFare)
	require.Equal(t, Calculate(5, "bike"), got)
}

func TestCalculateUnknownVehicleType(t *testing.T) {
	for _, typ := range []string{"", "rickshaw", "SEDAN", "limo"} {
		got := Calculate(10, typ)

		require.Equal(t, 100.0, got.BaseFare, "type %q", typ)
		require.Equal(t, 150.0, got.DistanceFare, "type %q", typ)
		require.Equal(t, 25.0, got.PlatformFee, "type %q", typ)
		require.Equal(t, 275.0, got.Total, "type %q", typ)
	}
}

func TestCalculateTotals(t *testing.T) {
	tests := []struct {
		distance float64
		vehicle  string
		total    float64
	}{
		{5, "bike", 99},
		{10, "auto", 198},
		{2, "hatchback", 158},
		{3, "suv", 279},
	}
	for _, tc := range tests {
		got := Calculate(tc.distance, tc.vehicle)
		require.Equal(t, tc.total, got.Total, "%s over %.1f km", tc.vehicle, tc.distance)
		require.Equal(t, got.Subtotal, got.BaseFare+got.DistanceFare)
		require.Equal(t, got.Total, got.Subtotal+got.PlatformFee)
	}
}

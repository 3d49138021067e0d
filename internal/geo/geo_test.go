package geo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saan-system/services/optimization/internal/geo"
)

func TestHaversineZeroDistance(t *testing.T) {
	p := geo.Point{Lat: 48.8566, Lon: 2.3522}
	assert.InDelta(t, 0.0, geo.Haversine(p, p), 1e-9)
}

func TestHaversineKnownDistance(t *testing.T) {
	paris := geo.Point{Lat: 48.8566, Lon: 2.3522}
	london := geo.Point{Lat: 51.5074, Lon: -0.1278}

	d := geo.Haversine(paris, london)
	assert.InDelta(t, 343.0, d, 10.0)
}

func TestParseHHMM(t *testing.T) {
	m, err := geo.ParseHHMM("08:30")
	require.NoError(t, err)
	assert.Equal(t, 8*60+30, m)
}

func TestParseHHMMInvalid(t *testing.T) {
	cases := []string{"", "8:3", "25:00", "08:60", "abc", "08-30"}
	for _, c := range cases {
		_, err := geo.ParseHHMM(c)
		assert.ErrorIs(t, err, geo.ErrInvalidTime, "input %q should fail", c)
	}
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "08:30", geo.FormatMinutes(8*60+30))
	assert.Equal(t, "00:00", geo.FormatMinutes(0))
	assert.Equal(t, "23:59", geo.FormatMinutes(23*60+59))
}

func TestInWindow(t *testing.T) {
	start := geo.MustParseHHMM("09:00")
	end := geo.MustParseHHMM("12:00")

	assert.True(t, geo.InWindow(start, start, end))
	assert.True(t, geo.InWindow(end, start, end))
	assert.False(t, geo.InWindow(start-1, start, end))
	assert.False(t, geo.InWindow(end+1, start, end))
}

func TestTravelMinutes(t *testing.T) {
	assert.Equal(t, 20, geo.TravelMinutes(10, 30))
	assert.Equal(t, 0, geo.TravelMinutes(10, 0))
	assert.Equal(t, 0, geo.TravelMinutes(10, -5))
}

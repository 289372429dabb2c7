package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(stops []Stop) []string {
	out := make([]string, len(stops))
	for i, s := range stops {
		out[i] = s.Name
	}
	return out
}

func TestExpandStops_OneWay(t *testing.T) {
	stops := ExpandStops([]Stop{{Name: "A"}, {Name: "B"}, {Name: "C"}}, false)

	assert.Equal(t, []string{"A", "B", "C"}, names(stops))
}

func TestExpandStops_RoundTrip(t *testing.T) {
	stops := ExpandStops([]Stop{{Name: "A"}, {Name: "B"}, {Name: "C"}}, true)

	// The turnaround stop C appears once.
	assert.Equal(t, []string{"A", "B", "C", "B", "A"}, names(stops))
}

func TestExpandStops_RoundTripSingleStop(t *testing.T) {
	stops := ExpandStops([]Stop{{Name: "A"}}, true)

	assert.Equal(t, []string{"A"}, names(stops))
}

func TestExpandStops_Empty(t *testing.T) {
	assert.Empty(t, ExpandStops(nil, true))
}

func TestExpandStops_ResetsPassed(t *testing.T) {
	stops := ExpandStops([]Stop{{Name: "A", Passed: true}, {Name: "B", Passed: true}}, true)

	require.Len(t, stops, 3)
	for _, s := range stops {
		assert.False(t, s.Passed)
	}
}

func TestExpandStops_ReturnLegKeepsSchedule(t *testing.T) {
	stops := ExpandStops([]Stop{
		{Name: "A", Date: "2026-09-05", Time: "08:00", Lat: 1, Lon: 2},
		{Name: "B", Date: "2026-09-05", Time: "12:00", Lat: 3, Lon: 4},
	}, true)

	require.Len(t, stops, 3)
	assert.Equal(t, stops[0].Lat, stops[2].Lat)
	assert.Equal(t, stops[0].Lon, stops[2].Lon)
	assert.Equal(t, stops[0].Date, stops[2].Date)
}

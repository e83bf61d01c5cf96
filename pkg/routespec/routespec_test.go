package routespec

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/agencyfeed/pkg/appdata"
)

func TestParseRouteID(t *testing.T) {
	tests := []struct {
		code     string
		expected uint64
		hasError bool
	}{
		{code: "1", expected: 1},
		{code: "190", expected: 190},
		{code: "999", expected: 999},
		{code: "5A", expected: 1005},
		{code: "14a", expected: 1014},
		{code: "86B", expected: 2086},
		{code: "80E", expected: 5080},
		{code: "81N", expected: 14081},
		{code: "81S", expected: 19081},
		{code: "80W", expected: 23080},
		{code: " 12 ", expected: 12},
		{code: "1000", hasError: true},
		{code: "1000A", hasError: true},
		{code: "5Z", hasError: true},
		{code: "A", hasError: true},
		{code: "", hasError: true},
	}

	for _, test := range tests {
		t.Run(test.code, func(t *testing.T) {
			routeID, err := ParseRouteID(test.code)

			if test.hasError {
				var configurationError *ConfigurationError
				assert.True(t, errors.As(err, &configurationError))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, test.expected, routeID)
		})
	}
}

func TestFormatRouteID(t *testing.T) {
	for _, code := range []string{"1", "5A", "86B", "80E", "81N", "81S", "80W"} {
		routeID, err := ParseRouteID(code)
		require.NoError(t, err)
		assert.Equal(t, code, FormatRouteID(routeID))
	}
}

func TestMatchPositions(t *testing.T) {
	positions, matched := MatchPositions([]string{"1212", "1293"}, []string{"1212", "1213", "1054", "1293", "1665"})
	assert.True(t, matched)
	assert.Equal(t, []int{0, 3}, positions)

	positions, matched = MatchPositions([]string{"668", "694", "668"}, []string{"668", "694", "668", "823"})
	assert.True(t, matched)
	assert.Equal(t, []int{0, 1, 2}, positions)

	_, matched = MatchPositions([]string{"1293", "1212"}, []string{"1212", "1293"})
	assert.False(t, matched)

	assert.True(t, IsSubsequence(nil, []string{"1"}))
	assert.False(t, IsSubsequence([]string{"1"}, nil))
}

func direction(value appdata.Direction, stops ...string) DirectionSpec {
	spec := DirectionSpec{Direction: value}
	for _, stop := range stops {
		spec.Stops = append(spec.Stops, StopRef{ID: stop})
	}

	return spec
}

func TestNewTable(t *testing.T) {
	tests := []struct {
		name  string
		specs []RouteSpec
	}{
		{
			name: "duplicate route",
			specs: []RouteSpec{
				{Route: "14A", DirectionA: direction(appdata.DirectionEast, "1"), DirectionB: direction(appdata.DirectionWest, "2")},
				{Route: "14a", DirectionA: direction(appdata.DirectionEast, "1"), DirectionB: direction(appdata.DirectionWest, "2")},
			},
		},
		{
			name: "both directions empty",
			specs: []RouteSpec{
				{Route: "71", DirectionA: direction(appdata.DirectionNorth), DirectionB: direction(appdata.DirectionSouth)},
			},
		},
		{
			name: "same direction twice",
			specs: []RouteSpec{
				{Route: "3", DirectionA: direction(appdata.DirectionNorth, "1"), DirectionB: direction(appdata.DirectionNorth, "2")},
			},
		},
		{
			name: "unknown suffix",
			specs: []RouteSpec{
				{Route: "3X", DirectionA: direction(appdata.DirectionNorth, "1"), DirectionB: direction(appdata.DirectionSouth, "2")},
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewTable("test", test.specs)

			var configurationError *ConfigurationError
			assert.True(t, errors.As(err, &configurationError))
		})
	}
}

func TestTableIsolatedFromInput(t *testing.T) {
	specs := []RouteSpec{
		{Route: "3", DirectionA: direction(appdata.DirectionNorth, "1", "2"), DirectionB: direction(appdata.DirectionSouth, "2", "1")},
	}

	table, err := NewTable("test", specs)
	require.NoError(t, err)

	specs[0].DirectionA.Stops[0].ID = "changed"

	spec, exists := table.Lookup(3)
	require.True(t, exists)
	assert.Equal(t, []string{"1", "2"}, spec.DirectionA.StopIDs())
	assert.Equal(t, uint64(3), spec.RouteID)
	assert.Equal(t, "test", table.Release())
}

func TestLoadRelease(t *testing.T) {
	table, err := LoadRelease("../../data", "v1")
	require.NoError(t, err)

	assert.Equal(t, 39, table.Len())

	routeIDs := table.RouteIDs()
	assert.Equal(t, uint64(1), routeIDs[0])
	assert.Equal(t, uint64(19081), routeIDs[len(routeIDs)-1])

	spec, exists := table.Lookup(1)
	require.True(t, exists)
	assert.Equal(t, appdata.DirectionNorth, spec.DirectionA.Direction)
	assert.Equal(t, []string{"1212", "1213", "1054", "1293", "1665"}, spec.DirectionA.StopIDs())
	assert.Equal(t, appdata.DirectionSouth, spec.DirectionB.Direction)

	seniors, exists := table.Lookup(91)
	require.True(t, exists)
	assert.Equal(t, 5, len(seniors.DirectionA.Stops))
	assert.Equal(t, 2, seniors.DirectionA.PreferredCount())

	loyola, exists := table.Lookup(14081)
	require.True(t, exists)
	assert.True(t, loyola.DirectionB.IsEmpty())

	_, exists = table.Lookup(54)
	assert.False(t, exists)
}

func TestLoadReleaseWithoutRoutespecs(t *testing.T) {
	table, err := LoadRelease("../../data", "v2")
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())

	_, err = LoadRelease("../../data", "v9")
	var configurationError *ConfigurationError
	assert.True(t, errors.As(err, &configurationError))
}

func TestDecodeRelease(t *testing.T) {
	table, err := DecodeRelease(strings.NewReader(`Route: "91"
DirectionA:
  Direction: EAST
  Label: WalMart
  Stops: ["586", {ID: "877", Ambiguous: true}, "185"]
DirectionB:
  Direction: WEST
  Stops: ["185", {ID: "877", Ambiguous: true}, "586"]
---
Route: "81S"
DirectionA:
  Direction: NORTH
  Stops: []
DirectionB:
  Direction: 4
  Stops: ["1", "2"]
`), "test")
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	spec, _ := table.Lookup(91)
	assert.Equal(t, "WalMart", spec.DirectionA.Label)
	assert.Equal(t, []StopRef{{ID: "586"}, {ID: "877", Ambiguous: true}, {ID: "185"}}, spec.DirectionA.Stops)
	assert.Equal(t, 2, spec.DirectionB.PreferredCount())

	spec, _ = table.Lookup(19081)
	assert.Equal(t, appdata.DirectionSouth, spec.DirectionB.Direction)
}

func TestDecodeReleaseInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "missing route", yaml: "DirectionA:\n  Direction: EAST\n  Stops: [\"1\"]\n"},
		{name: "stop without id", yaml: "Route: \"1\"\nDirectionA:\n  Direction: EAST\n  Stops: [{Ambiguous: true}]\n"},
		{name: "stop as list", yaml: "Route: \"1\"\nDirectionA:\n  Direction: EAST\n  Stops: [[\"1\"]]\n"},
		{name: "unknown direction", yaml: "Route: \"1\"\nDirectionA:\n  Direction: UP\n  Stops: [\"1\"]\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := DecodeRelease(strings.NewReader(test.yaml), "test")

			var configurationError *ConfigurationError
			assert.True(t, errors.As(err, &configurationError))
		})
	}
}

package fixture

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// haversine is only used to check the grid against an independent distance formula.
func haversine(a, b Location) float64 {
	const r = 6371008.8
	rad := math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * rad
	dLon := (b.Longitude - a.Longitude) * rad
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Latitude*rad)*math.Cos(b.Latitude*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * r * math.Asin(math.Sqrt(h))
}

func TestGridCellSpacing(t *testing.T) {
	g := NewGrid(DefaultOrigin, DefaultGridSize)

	a := g.Cell(0, 1)
	assert.InDelta(t, DefaultOrigin.Latitude, a.Latitude, 1e-12)
	assert.InDelta(t, DefaultOrigin.Longitude, a.Longitude, 1e-12)

	// two columns apart is one grid unit
	b := g.Cell(2, 1)
	assert.InDelta(t, 100, haversine(a, b), 0.5)

	c := g.Cell(0, 2)
	assert.Less(t, c.Latitude, a.Latitude)
	assert.InDelta(t, 100, haversine(a, c), 0.5)
}

func TestParseNodeMap(t *testing.T) {
	g := NewGrid(DefaultOrigin, DefaultGridSize)
	cells := g.ParseNodeMap("\na b\n  1")
	require.Len(t, cells, 3)
	assert.Equal(t, 'a', cells[0].Name)
	assert.Equal(t, 'b', cells[1].Name)
	assert.Equal(t, '1', cells[2].Name)
	assert.Equal(t, g.Cell(2, 1), cells[1].Location)
	assert.Equal(t, g.Cell(2, 2), cells[2].Location)
}

func TestLocationFormatting(t *testing.T) {
	assert.Equal(t, "1.0,2.5", Location{Latitude: 2.5, Longitude: 1}.Coordinate())
	assert.True(t, Location{Latitude: 1, Longitude: 1}.ApproxEqual(Location{Latitude: 1.000001, Longitude: 0.999999}, 1e-5))
	assert.False(t, Location{Latitude: 1, Longitude: 1}.ApproxEqual(Location{Latitude: 1.0001, Longitude: 1}, 1e-5))
}

func TestParseName(t *testing.T) {
	n, err := ParseName(" a ")
	require.NoError(t, err)
	assert.Equal(t, 'a', n)
	assert.Equal(t, NodeName, ClassOf(n))
	assert.Equal(t, LocationName, ClassOf('7'))

	_, err = ParseName("ab")
	assert.Error(t, err)
	_, err = ParseName("A")
	assert.Error(t, err)
}

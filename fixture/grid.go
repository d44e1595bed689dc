package fixture

import (
	"math"
	"strings"
)

const (
	// DefaultGridSize is the distance in meters between two adjacent cells of a node map.
	DefaultGridSize = 100.0

	earthRadiusKM = 6378.137
	flattening    = 1 / 298.257223563
	eccentricity2 = flattening * (2 - flattening)
)

// DefaultOrigin is the location of the top-left cell of a node map.
var DefaultOrigin = Location{Latitude: 1, Longitude: 1}

// Grid converts node-map cells into coordinates. Offsets use a local flat-earth approximation
// around the origin's latitude, which is accurate to well under a centimeter at test scale.
type Grid struct {
	Origin   Location
	GridSize float64
	kx, ky   float64
}

func NewGrid(origin Location, gridSize float64) Grid {
	m := math.Pi / 180 * earthRadiusKM * 1000
	coslat := math.Cos(origin.Latitude * math.Pi / 180)
	w2 := 1 / (1 - eccentricity2*(1-coslat*coslat))
	w := math.Sqrt(w2)
	return Grid{
		Origin:   origin,
		GridSize: gridSize,
		kx:       m * w * coslat,
		ky:       m * w * w2 * (1 - eccentricity2),
	}
}

// Offset moves a location by dx meters east and dy meters north.
func (g Grid) Offset(from Location, dx, dy float64) Location {
	return Location{
		Latitude:  from.Latitude + dy/g.ky,
		Longitude: from.Longitude + dx/g.kx,
	}
}

// Cell returns the location of a node-map cell. Columns are half a grid unit wide since node
// maps are usually drawn with a space between letters; rows grow southward.
func (g Grid) Cell(column, row int) Location {
	return g.Offset(g.Origin, float64(column)*0.5*g.GridSize, -(float64(row)-1)*g.GridSize)
}

// NamedCell is one non-blank character of a node map.
type NamedCell struct {
	Name     rune
	Location Location
}

// ParseNodeMap lays out the characters of an ASCII node map on the grid.
func (g Grid) ParseNodeMap(nodeMap string) []NamedCell {
	var cells []NamedCell
	for row, line := range strings.Split(nodeMap, "\n") {
		for column, ch := range []rune(line) {
			if ch == ' ' || ch == '\t' || ch == '\r' {
				continue
			}
			cells = append(cells, NamedCell{Name: ch, Location: g.Cell(column, row)})
		}
	}
	return cells
}

package fixture

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Location is a WGS84 coordinate. Locations are compared approximately, never exactly.
type Location struct {
	Latitude  float64
	Longitude float64
}

func (l Location) String() string {
	return fmt.Sprintf("(%s,%s)", formatDegrees(l.Longitude), formatDegrees(l.Latitude))
}

// Coordinate formats the location the way the server expects it in a URL path: "lon,lat".
func (l Location) Coordinate() string {
	return formatDegrees(l.Longitude) + "," + formatDegrees(l.Latitude)
}

// ApproxEqual returns true if both components differ by no more than epsilon degrees.
func (l Location) ApproxEqual(other Location, epsilon float64) bool {
	return math.Abs(l.Latitude-other.Latitude) <= epsilon &&
		math.Abs(l.Longitude-other.Longitude) <= epsilon
}

// formatDegrees always includes a decimal point, since the server rejects "1" where it
// expects a floating-point coordinate.
func formatDegrees(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// NameClass tells which table a single-character point name belongs to.
type NameClass int

const (
	InvalidName NameClass = iota
	// LocationName is a digit: a free-floating coordinate that is not part of the map.
	LocationName
	// NodeName is a lowercase letter: a node that is written into the map fixture.
	NodeName
)

// ClassOf returns the class of a point name.
func ClassOf(name rune) NameClass {
	switch {
	case name >= '0' && name <= '9':
		return LocationName
	case name >= 'a' && name <= 'z':
		return NodeName
	default:
		return InvalidName
	}
}

// ParseName converts a table cell into a single-character point name.
func ParseName(s string) (rune, error) {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) != 1 {
		return 0, fmt.Errorf("invalid node name %q, must be a single character", s)
	}
	if ClassOf(r[0]) == InvalidName {
		return 0, fmt.Errorf("invalid node name %q, must be one of [0-9a-z]", s)
	}
	return r[0], nil
}

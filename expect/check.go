package expect

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/Project-OSRM/osrm-contract-tests/servicedef"
)

// ErrUnsupportedGeometry is returned when a geometry expectation meets a GeoJSON geometry, which
// can't be compared as a string.
var ErrUnsupportedGeometry = errors.New("unsupported geometry comparison")

// Check verifies one expectation column of a route scenario against the server's answer. A nil
// result means that no route was found; only empty expectations match it.
func Check(kind Kind, expected string, result *servicedef.RouteResult) error {
	err := check(kind, expected, result)
	var m *Mismatch
	if errors.As(err, &m) && m.Field == "" {
		m.Field = kind.String()
	}
	return err
}

func check(kind Kind, expected string, result *servicedef.RouteResult) error {
	switch kind {
	case KindDataVersion:
		var dv ldvalue.OptionalString
		if result != nil {
			dv = result.DataVersion
		}
		return CheckDataVersion(expected, dv)
	case KindWaypointsCount:
		n := 0
		if result != nil {
			n = len(result.Waypoints)
		}
		return checkCount(expected, n)
	}

	var route *servicedef.Route
	if result != nil && len(result.Routes) > 0 {
		route = &result.Routes[0]
	}
	if route == nil {
		if strings.TrimSpace(expected) == "" {
			return nil
		}
		return &Mismatch{Expected: quote(expected), Actual: "no route", Comparison: "a route was expected"}
	}

	switch kind {
	case KindRoute:
		return compareText(expected, joinSteps(route, func(s servicedef.Step) string { return s.Name }))
	case KindTurns:
		return compareText(expected, joinSteps(route, turn))
	case KindModes:
		return compareText(expected, joinSteps(route, func(s servicedef.Step) string { return s.Mode }))
	case KindSummary:
		var summaries []string
		for _, leg := range route.Legs {
			summaries = append(summaries, leg.Summary)
		}
		return compareText(expected, strings.Join(summaries, ","))
	case KindPronunciations:
		return compareText(expected, joinSteps(route, func(s servicedef.Step) string { return s.Pronunciation.OrElse("") }))
	case KindRef:
		return compareText(expected, joinSteps(route, func(s servicedef.Step) string { return s.Ref.OrElse("") }))
	case KindGeometry:
		if !route.Geometry.IsEncoded() {
			return &Mismatch{Expected: quote(expected), Actual: "GeoJSON geometry", Comparison: ErrUnsupportedGeometry.Error()}
		}
		return compareText(expected, route.Geometry.Encoded)
	case KindSpeed:
		speed := 0.0
		if route.Duration > 0 {
			speed = route.Distance / route.Duration * 3.6
		}
		return compareNumbers(kind, expected, []float64{speed}, false)
	case KindTime:
		return compareNumbers(kind, expected, []float64{route.Duration}, false)
	case KindDistance:
		return compareNumbers(kind, expected, []float64{route.Distance}, false)
	case KindWeight:
		return compareNumbers(kind, expected, []float64{route.Weight}, false)
	case KindTimes:
		return compareNumbers(kind, expected, stepValues(route, func(s servicedef.Step) float64 { return s.Duration }), true)
	case KindDistances:
		return compareNumbers(kind, expected, stepValues(route, func(s servicedef.Step) float64 { return s.Distance }), true)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
}

// CheckDataVersion requires an exact match. An empty expectation means that the server must not
// report a data version.
func CheckDataVersion(expected string, actual ldvalue.OptionalString) error {
	if expected == "" && !actual.IsDefined() {
		return nil
	}
	if actual.IsDefined() && actual.StringValue() == expected {
		return nil
	}
	got := "no data version"
	if actual.IsDefined() {
		got = quote(actual.StringValue())
	}
	want := quote(expected)
	if expected == "" {
		want = "no data version"
	}
	return &Mismatch{Field: KindDataVersion.String(), Expected: want, Actual: got, Comparison: "exact match"}
}

func checkCount(expected string, actual int) error {
	want := 0
	if s := strings.TrimSpace(expected); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid count %q: %w", expected, err)
		}
		want = n
	}
	if want == actual {
		return nil
	}
	return &Mismatch{Expected: strconv.Itoa(want), Actual: strconv.Itoa(actual), Comparison: "exact match"}
}

func compareText(expected, actual string) error {
	if expected == actual {
		return nil
	}
	return &Mismatch{Expected: quote(expected), Actual: quote(actual), Comparison: "exact match"}
}

func compareNumbers(kind Kind, expected string, actual []float64, vector bool) error {
	e, err := Parse(expected)
	if err != nil {
		return err
	}
	if err := e.CheckUnit(kind.unit()); err != nil {
		return err
	}
	if e.Empty() {
		if vector && len(actual) == 0 {
			return nil
		}
		return &Mismatch{Expected: "no value", Actual: formatValues(actual, kind.unit()), Comparison: "no value was expected"}
	}
	tolerance := e.ToleranceOf(kind.toleranceKind())
	if vector {
		err = CompareVector(e.Values, actual, tolerance)
	} else if len(e.Values) != 1 {
		err = fmt.Errorf("expected a single value for %s, got %q", kind, expected)
	} else {
		err = CompareScalar(e.Values[0], actual[0], tolerance)
	}
	var m *Mismatch
	if errors.As(err, &m) {
		m.Expected = quote(expected)
		m.Actual = formatValues(actual, kind.unit())
	}
	return err
}

func turn(s servicedef.Step) string {
	t := s.Maneuver.Type
	switch {
	case t == "depart" || t == "arrive":
		return t
	case (t == "roundabout" || t == "rotary") && s.Maneuver.Exit.IsDefined():
		return fmt.Sprintf("%s-exit-%d", t, s.Maneuver.Exit.IntValue())
	case s.Maneuver.Modifier.IsDefined():
		return t + " " + s.Maneuver.Modifier.StringValue()
	default:
		return t
	}
}

func joinSteps(route *servicedef.Route, field func(servicedef.Step) string) string {
	var parts []string
	for _, leg := range route.Legs {
		for _, s := range leg.Steps {
			parts = append(parts, field(s))
		}
	}
	return strings.Join(parts, ",")
}

// stepValues collects a numeric field of every step, leaving out steps where it is zero.
func stepValues(route *servicedef.Route, field func(servicedef.Step) float64) []float64 {
	var values []float64
	for _, leg := range route.Legs {
		for _, s := range leg.Steps {
			if v := field(s); v != 0 {
				values = append(values, v)
			}
		}
	}
	return values
}

func formatValues(values []float64, unit string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, formatNumber(math.Round(v*1000)/1000)+unit)
	}
	return quote(strings.Join(parts, ", "))
}

func quote(s string) string {
	return strconv.Quote(s)
}

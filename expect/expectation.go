package expect

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const toleranceMarker = "+-"

var valuePattern = regexp.MustCompile(`^([-+]?(?:\d+\.?\d*|\.\d+))\s*([a-zA-Z/%]*)$`)

// Expectation is a parsed expectation string: "<value>[<unit>][, <value>[<unit>]...][ +- <tolerance>]".
// An empty string parses to an Expectation with no values, meaning that no value is expected.
type Expectation struct {
	Values []float64
	// Units holds the unit written after each value, or "" where there was none.
	Units []string
	// Tolerance is only meaningful if HasTolerance is true.
	Tolerance    float64
	HasTolerance bool
	// TolerancePercent is set when the tolerance was written with a trailing "%".
	TolerancePercent bool
	Raw              string
}

func Parse(s string) (Expectation, error) {
	e := Expectation{Raw: s}
	s = strings.TrimSpace(s)
	if s == "" {
		return e, nil
	}
	valuesPart := s
	if i := strings.Index(s, toleranceMarker); i >= 0 {
		valuesPart = s[:i]
		tolPart := strings.TrimSpace(s[i+len(toleranceMarker):])
		tol, percent, err := parseTolerance(tolPart)
		if err != nil {
			return Expectation{}, fmt.Errorf("invalid tolerance in %q: %w", s, err)
		}
		e.Tolerance, e.HasTolerance, e.TolerancePercent = tol, true, percent
	}
	for _, token := range strings.Split(valuesPart, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			return Expectation{}, fmt.Errorf("empty value in %q", s)
		}
		m := valuePattern.FindStringSubmatch(token)
		if m == nil {
			return Expectation{}, fmt.Errorf("invalid value %q in %q", token, s)
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return Expectation{}, fmt.Errorf("invalid value %q in %q: %w", token, s, err)
		}
		e.Values = append(e.Values, v)
		e.Units = append(e.Units, m[2])
	}
	return e, nil
}

func parseTolerance(s string) (float64, bool, error) {
	s = strings.TrimSpace(s)
	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	if s == "" {
		return 0, false, fmt.Errorf("missing value after %q", toleranceMarker)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	if v < 0 {
		return 0, false, fmt.Errorf("tolerance must not be negative")
	}
	return v, percent, nil
}

// Empty returns true if the expectation is that there is no value.
func (e Expectation) Empty() bool {
	return len(e.Values) == 0
}

// CheckUnit returns an error if any value was written with a unit other than the given one.
func (e Expectation) CheckUnit(unit string) error {
	for i, u := range e.Units {
		if u != "" && u != unit {
			return fmt.Errorf("expected values in %s, but %q has unit %q", unit, e.Raw, e.Units[i])
		}
	}
	return nil
}

// ToleranceOf returns the tolerance of the expectation. An explicit tolerance written with "%" is
// a percentage; any other explicit tolerance has the given kind. Without one, the default window
// is DefaultTolerancePercent percent.
func (e Expectation) ToleranceOf(kind ToleranceKind) Tolerance {
	if !e.HasTolerance {
		return DefaultTolerance()
	}
	if e.TolerancePercent {
		kind = Percent
	}
	return Tolerance{Kind: kind, Amount: e.Tolerance}
}

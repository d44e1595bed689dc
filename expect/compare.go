package expect

import (
	"fmt"
	"strings"
)

// Mismatch is an assertion failure. Its message always shows the expected and actual values and
// how they were compared, so that a failure can be understood without running it again.
type Mismatch struct {
	Field      string
	Expected   string
	Actual     string
	Comparison string
}

func (m *Mismatch) Error() string {
	field := ""
	if m.Field != "" {
		field = m.Field + ": "
	}
	return fmt.Sprintf("%sexpected %s, got %s (%s)", field, m.Expected, m.Actual, m.Comparison)
}

// CompareScalar checks one value against its tolerance window.
func CompareScalar(expected, actual float64, tolerance Tolerance) error {
	if tolerance.Contains(expected, actual) {
		return nil
	}
	return &Mismatch{
		Expected:   formatNumber(expected),
		Actual:     formatNumber(actual),
		Comparison: fmt.Sprintf("tolerance %s, window %s", tolerance, formatWindow(tolerance, expected)),
	}
}

// CompareVector checks values element by element. Vectors of different lengths never match,
// whatever their elements are.
func CompareVector(expected, actual []float64, tolerance Tolerance) error {
	if len(expected) != len(actual) {
		return &Mismatch{
			Expected:   formatVector(expected),
			Actual:     formatVector(actual),
			Comparison: fmt.Sprintf("expected %d values, got %d", len(expected), len(actual)),
		}
	}
	for i := range expected {
		if !tolerance.Contains(expected[i], actual[i]) {
			return &Mismatch{
				Expected: formatVector(expected),
				Actual:   formatVector(actual),
				Comparison: fmt.Sprintf("value %d is outside window %s, tolerance %s",
					i+1, formatWindow(tolerance, expected[i]), tolerance),
			}
		}
	}
	return nil
}

func formatVector(values []float64) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, formatNumber(v))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

package expect

import (
	"fmt"
	"math"
	"strconv"
)

// DefaultTolerancePercent is applied when an expectation has no explicit tolerance. It is
// loose on purpose, and existing scenarios depend on it.
const DefaultTolerancePercent = 5

// epsilon absorbs floating-point error at the edges of a window, so that 1.05 is inside
// 1 +- 5%.
const epsilon = 1e-9

type ToleranceKind int

const (
	// Offset windows are [expected - amount, expected + amount].
	Offset ToleranceKind = iota
	// Percent windows are [expected * (1 - amount/100), expected * (1 + amount/100)].
	Percent
)

type Tolerance struct {
	Kind   ToleranceKind
	Amount float64
}

func DefaultTolerance() Tolerance {
	return Tolerance{Kind: Percent, Amount: DefaultTolerancePercent}
}

// Window returns the range of values that match expected. A percentage is always taken of the
// expected value, never of the actual one.
func (t Tolerance) Window(expected float64) (lo, hi float64) {
	if t.Kind == Percent {
		a := expected * (1 - t.Amount/100)
		b := expected * (1 + t.Amount/100)
		return math.Min(a, b), math.Max(a, b)
	}
	return expected - t.Amount, expected + t.Amount
}

func (t Tolerance) Contains(expected, actual float64) bool {
	lo, hi := t.Window(expected)
	slack := epsilon * math.Max(1, math.Abs(expected))
	return actual >= lo-slack && actual <= hi+slack
}

func (t Tolerance) String() string {
	if t.Kind == Percent {
		return "+- " + formatNumber(t.Amount) + "%"
	}
	return "+- " + formatNumber(t.Amount)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatWindow(t Tolerance, expected float64) string {
	lo, hi := t.Window(expected)
	return fmt.Sprintf("[%s, %s]", formatNumber(lo), formatNumber(hi))
}

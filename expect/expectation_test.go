package expect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, p := range []struct {
		in        string
		values    []float64
		units     []string
		tolerance float64
		hasTol    bool
		percent   bool
	}{
		{"1.04", []float64{1.04}, []string{""}, 0, false, false},
		{"36s", []float64{36}, []string{"s"}, 0, false, false},
		{"50 km/h +- 5", []float64{50}, []string{"km/h"}, 5, true, false},
		{"100m, 200m +-1", []float64{100, 200}, []string{"m", "m"}, 1, true, false},
		{"100m,200m+-0.5", []float64{100, 200}, []string{"m", "m"}, 0.5, true, false},
		{"20 +- 10%", []float64{20}, []string{""}, 10, true, true},
		{"200s +- 2.5 %", []float64{200}, []string{"s"}, 2.5, true, true},
	} {
		t.Run(p.in, func(t *testing.T) {
			e, err := Parse(p.in)
			require.NoError(t, err)
			assert.Equal(t, p.values, e.Values)
			assert.Equal(t, p.units, e.Units)
			assert.Equal(t, p.hasTol, e.HasTolerance)
			assert.Equal(t, p.tolerance, e.Tolerance)
			assert.Equal(t, p.percent, e.TolerancePercent)
			assert.False(t, e.Empty())
		})
	}
}

func TestParseEmpty(t *testing.T) {
	e, err := Parse("  ")
	require.NoError(t, err)
	assert.True(t, e.Empty())
}

func TestParseErrors(t *testing.T) {
	for _, s := range []string{"abc", "10m,", "10m +-", "10m +- x", "10m +- -1", "10 20"} {
		t.Run(s, func(t *testing.T) {
			_, err := Parse(s)
			assert.Error(t, err)
		})
	}
}

func TestCheckUnit(t *testing.T) {
	e, err := Parse("100m, 200 +- 1")
	require.NoError(t, err)
	assert.NoError(t, e.CheckUnit("m"))
	assert.Error(t, e.CheckUnit("s"))
}

func TestToleranceOf(t *testing.T) {
	withTolerance, _ := Parse("10 +- 2")
	without, _ := Parse("10")
	assert.Equal(t, Tolerance{Kind: Offset, Amount: 2}, withTolerance.ToleranceOf(Offset))
	assert.Equal(t, Tolerance{Kind: Percent, Amount: 2}, withTolerance.ToleranceOf(Percent))
	assert.Equal(t, DefaultTolerance(), without.ToleranceOf(Offset))

	percent, _ := Parse("10 +- 2%")
	assert.Equal(t, Tolerance{Kind: Percent, Amount: 2}, percent.ToleranceOf(Offset))
}

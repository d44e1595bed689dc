package framework

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testID(path ...string) TestID {
	return TestID{Path: path}
}

func TestScenarioFilters(t *testing.T) {
	var filters ScenarioFilters
	assert.True(t, filters.AsFilter(testID("features/car/names.feature", "Car - names")))

	require.NoError(t, filters.Run.Set("car/"))
	require.NoError(t, filters.Skip.Set("Bearings"))
	assert.True(t, filters.AsFilter(testID("features/car/names.feature/Car - names")))
	assert.False(t, filters.AsFilter(testID("features/foot/names.feature/Foot - names")))
	assert.False(t, filters.AsFilter(testID("features/car/bearing.feature/Bearings")))
	assert.Equal(t, `"car/"`, filters.Run.String())
}

func TestPatternsRejectInvalidRegex(t *testing.T) {
	var p Patterns
	err := p.Set("(")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid scenario pattern "("`)
	assert.Empty(t, p)
}

func TestPrintFilterDescription(t *testing.T) {
	var buf bytes.Buffer
	PrintFilterDescription(&buf, ScenarioFilters{})
	assert.Empty(t, buf.String())

	var filters ScenarioFilters
	require.NoError(t, filters.Run.Set("car/"))
	require.NoError(t, filters.Run.Set("foot/"))
	require.NoError(t, filters.Skip.Set("Bearings"))
	PrintFilterDescription(&buf, filters)
	assert.Equal(t, `Some scenarios will be skipped:
  run only scenarios matching "car/" or "foot/"
  skip scenarios matching "Bearings"

`, buf.String())
}

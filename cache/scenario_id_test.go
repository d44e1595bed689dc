package cache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScenarioID(t *testing.T) {
	for _, p := range []struct {
		line     int
		name     string
		expected string
	}{
		{7, "Testbot - Nearest", "7_testbot_nearest"},
		{12, "Car: Route (with ferry) = 'slow'", "12_car_route_with_ferry_slow"},
		{3, "Snap to #1 / #2, then *stop*", "3_snap_to_1_2_then_stop"},
		{40, "v1.. route\tid", "40_v1._route_id"},
	} {
		t.Run(p.name, func(t *testing.T) {
			assert.Equal(t, p.expected, ScenarioID(p.line, p.name))
		})
	}
}

func TestScenarioIDTruncatesSlug(t *testing.T) {
	id := ScenarioID(1, strings.Repeat("x", 100))
	assert.Equal(t, "1_"+strings.Repeat("x", 64), id)
}

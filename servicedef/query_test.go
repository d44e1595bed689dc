package servicedef

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Project-OSRM/osrm-contract-tests/fixture"
)

func TestParamsKeepInsertionOrder(t *testing.T) {
	p := NewParams("steps", "true", "alternatives", "false")
	p.Set("annotations", "true")
	p.Set("steps", "false")
	assert.Equal(t, "steps=false&alternatives=false&annotations=true", p.Encode())

	p.Delete("alternatives")
	p.Delete("missing")
	assert.Equal(t, "steps=false&annotations=true", p.Encode())
}

func TestParamsMerge(t *testing.T) {
	defaults := DefaultRouteParams()
	merged := defaults.Merge(NewParams("alternatives", "true", "overview", "full"))

	assert.Equal(t, "steps=true&alternatives=true&overview=full", merged.Encode())
	assert.Equal(t, "steps=true&alternatives=false", defaults.Encode(), "Merge must not modify its receiver")
}

func TestParamsEncodeKeepsListSeparators(t *testing.T) {
	p := NewParams("bearings", "90,10;180,10", "name", "a b&c")
	assert.Equal(t, "bearings=90,10;180,10&name=a+b%26c", p.Encode())
}

func TestNearestPath(t *testing.T) {
	loc := fixture.Location{Latitude: 1, Longitude: 1.5}
	assert.Equal(t, "/nearest/v1/car/1.5,1.0", NearestPath("car", loc, false, Params{}))
	assert.Equal(t, "/nearest/v1/car/1.5,1.0.flatbuffers", NearestPath("car", loc, true, Params{}))
	assert.Equal(t, "/nearest/v1/my%20bike/1.5,1.0?number=2", NearestPath("my bike", loc, false, NewParams("number", "2")))
}

func TestRoutePath(t *testing.T) {
	waypoints := []fixture.Location{{Latitude: 1, Longitude: 1}, {Latitude: 1.001, Longitude: 1.002}}
	assert.Equal(t,
		"/route/v1/car/1.0,1.0;1.002,1.001?steps=true&alternatives=false",
		RoutePath("car", waypoints, false, DefaultRouteParams()))
}

func TestFormatBearings(t *testing.T) {
	assert.Equal(t, "90,10;180,20;", FormatBearings([]string{"90", "180,20", ""}))
}

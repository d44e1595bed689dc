package servicedef

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeometryVariants(t *testing.T) {
	var encoded Geometry
	require.NoError(t, json.Unmarshal([]byte(`"_ibE_seK"`), &encoded))
	assert.True(t, encoded.IsEncoded())
	assert.Equal(t, "_ibE_seK", encoded.Encoded)

	var line Geometry
	require.NoError(t, json.Unmarshal([]byte(`{"type":"LineString","coordinates":[[1,2],[3,4]]}`), &line))
	assert.False(t, line.IsEncoded())
	assert.Equal(t, GeoJSONGeometry([]Coordinate{{1, 2}, {3, 4}}), line)

	data, err := json.Marshal(line)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"LineString","coordinates":[[1,2],[3,4]]}`, string(data))
}

func TestCoordinateRejectsWrongArity(t *testing.T) {
	var c Coordinate
	assert.Error(t, json.Unmarshal([]byte(`[1,2,3]`), &c))
	var p NodePair
	assert.Error(t, json.Unmarshal([]byte(`[1]`), &p))
}

func TestOptionalFieldsStayUndefined(t *testing.T) {
	var step Step
	require.NoError(t, json.Unmarshal([]byte(`{"name":"ab","maneuver":{"type":"depart","location":[1,1]}}`), &step))
	assert.False(t, step.Pronunciation.IsDefined())
	assert.False(t, step.Ref.IsDefined())
	assert.False(t, step.Maneuver.Modifier.IsDefined())
	assert.False(t, step.Maneuver.Exit.IsDefined())
	assert.Equal(t, Coordinate{Longitude: 1, Latitude: 1}, step.Maneuver.Location)
}

func TestErrorResultString(t *testing.T) {
	assert.Equal(t, "NoRoute: Impossible route between points", ErrorResult{Code: "NoRoute", Message: "Impossible route between points"}.String())
	assert.Equal(t, "NoRoute", ErrorResult{Code: "NoRoute"}.String())
}

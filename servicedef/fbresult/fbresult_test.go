package fbresult

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *FBResultT {
	return &FBResultT{
		DataVersion: "2024-01-01",
		Waypoints: []*WaypointT{
			{
				Hint:     "hint-a",
				Distance: 1.5,
				Location: &PositionT{Longitude: 1.25, Latitude: 1},
				Nodes:    &Uint64PairT{First: 1, Second: 2},
			},
			{Hint: "hint-b", Name: "ab", Location: &PositionT{Longitude: 1.5, Latitude: 1}},
		},
	}
}

func TestEncodeAndRead(t *testing.T) {
	buf := Encode(sampleResult())
	require.NoError(t, Verify(buf))

	r := GetRootAsFBResult(buf, 0)
	assert.False(t, r.Error())
	assert.Nil(t, r.Code(nil))
	assert.Equal(t, "2024-01-01", string(r.DataVersion()))
	require.Equal(t, 2, r.WaypointsLength())

	var w Waypoint
	require.True(t, r.Waypoints(&w, 0))
	assert.Equal(t, "hint-a", string(w.Hint()))
	assert.Equal(t, float32(1.5), w.Distance())
	assert.Nil(t, w.Name())
	loc := w.Location(nil)
	require.NotNil(t, loc)
	assert.Equal(t, float32(1.25), loc.Longitude())
	assert.Equal(t, float32(1), loc.Latitude())
	nodes := w.Nodes(nil)
	require.NotNil(t, nodes)
	assert.Equal(t, uint64(1), nodes.First())
	assert.Equal(t, uint64(2), nodes.Second())

	require.True(t, r.Waypoints(&w, 1))
	assert.Equal(t, "ab", string(w.Name()))
	assert.Nil(t, w.Nodes(nil))
}

func TestEncodeError(t *testing.T) {
	buf := Encode(&FBResultT{Error: true, Code: &ErrorT{Code: "NoSegment", Message: "Could not find a matching segment"}})
	require.NoError(t, Verify(buf))

	r := GetRootAsFBResult(buf, 0)
	assert.True(t, r.Error())
	code := r.Code(nil)
	require.NotNil(t, code)
	assert.Equal(t, "NoSegment", string(code.Code()))
	assert.Equal(t, "Could not find a matching segment", string(code.Message()))
	assert.Nil(t, r.DataVersion())
	assert.Zero(t, r.WaypointsLength())
}

func TestVerifyRejectsTruncatedBuffers(t *testing.T) {
	buf := Encode(sampleResult())
	for n := 0; n < len(buf); n++ {
		if err := Verify(buf[:n]); err == nil {
			r := GetRootAsFBResult(buf[:n], 0)
			assert.NotPanics(t, func() { r.WaypointsLength() }, "prefix of %d bytes", n)
		}
	}
	assert.ErrorIs(t, Verify(nil), ErrInvalidBuffer)
	assert.ErrorIs(t, Verify([]byte("{\"code\":\"Ok\"}")), ErrInvalidBuffer)
}

func TestVerifyRejectsBadOffsets(t *testing.T) {
	buf := Encode(sampleResult())
	corrupt := append([]byte(nil), buf...)
	corrupt[0], corrupt[1], corrupt[2], corrupt[3] = 0xff, 0xff, 0xff, 0x7f
	assert.ErrorIs(t, Verify(corrupt), ErrInvalidBuffer)
}

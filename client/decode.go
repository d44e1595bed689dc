package client

import (
	"encoding/json"
	"fmt"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/Project-OSRM/osrm-contract-tests/servicedef"
	"github.com/Project-OSRM/osrm-contract-tests/servicedef/fbresult"
)

const (
	formatJSON        = "JSON"
	formatFlatbuffers = "flatbuffers"
)

func DecodeNearestJSON(data []byte) (servicedef.NearestResult, error) {
	var result servicedef.NearestResult
	if err := json.Unmarshal(data, &result); err != nil {
		return servicedef.NearestResult{}, &DecodeError{Format: formatJSON, Payload: data, Err: err}
	}
	return result, nil
}

func DecodeRouteJSON(data []byte) (servicedef.RouteResult, error) {
	var result servicedef.RouteResult
	if err := json.Unmarshal(data, &result); err != nil {
		return servicedef.RouteResult{}, &DecodeError{Format: formatJSON, Payload: data, Err: err}
	}
	return result, nil
}

func DecodeErrorJSON(data []byte) (servicedef.ErrorResult, error) {
	var result servicedef.ErrorResult
	if err := json.Unmarshal(data, &result); err != nil {
		return servicedef.ErrorResult{}, &DecodeError{Format: formatJSON, Payload: data, Err: err}
	}
	return result, nil
}

// DecodeNearestFlatbuffers decodes a binary nearest response into the same structure as
// DecodeNearestJSON. Waypoint fields that the binary format leaves out decode to zero values.
func DecodeNearestFlatbuffers(data []byte) (result servicedef.NearestResult, err error) {
	root, err := flatbuffersRoot(data)
	if err != nil {
		return servicedef.NearestResult{}, err
	}
	defer recoverDecodeError(data, &result, &err)

	result.Code = servicedef.CodeOK
	if root.Error() {
		if code := root.Code(nil); code != nil {
			result.Code = string(code.Code())
		}
	}
	if v := root.DataVersion(); v != nil {
		result.DataVersion = ldvalue.NewOptionalString(string(v))
	}
	n := root.WaypointsLength()
	if n > 0 {
		result.Waypoints = make([]servicedef.Waypoint, 0, n)
	}
	var w fbresult.Waypoint
	for i := 0; i < n; i++ {
		root.Waypoints(&w, i)
		result.Waypoints = append(result.Waypoints, waypointFromFlatbuffers(&w))
	}
	return result, nil
}

func waypointFromFlatbuffers(w *fbresult.Waypoint) servicedef.Waypoint {
	ret := servicedef.Waypoint{
		Hint:     string(w.Hint()),
		Distance: float64(w.Distance()),
		Name:     string(w.Name()),
	}
	if loc := w.Location(nil); loc != nil {
		ret.Location = servicedef.Coordinate{
			Longitude: float64(loc.Longitude()),
			Latitude:  float64(loc.Latitude()),
		}
	}
	if nodes := w.Nodes(nil); nodes != nil {
		ret.Nodes = &servicedef.NodePair{First: nodes.First(), Second: nodes.Second()}
	}
	return ret
}

// DecodeRouteFlatbuffers always fails with ErrRouteFlatbuffersUnsupported.
func DecodeRouteFlatbuffers(data []byte) (servicedef.RouteResult, error) {
	return servicedef.RouteResult{}, &DecodeError{Format: formatFlatbuffers, Payload: data, Err: ErrRouteFlatbuffersUnsupported}
}

// DecodeErrorFlatbuffers reads the error code and message of a failed binary response.
func DecodeErrorFlatbuffers(data []byte) (result servicedef.ErrorResult, err error) {
	root, err := flatbuffersRoot(data)
	if err != nil {
		return servicedef.ErrorResult{}, err
	}
	defer recoverDecodeError(data, &result, &err)

	if code := root.Code(nil); code != nil {
		result.Code = string(code.Code())
		result.Message = string(code.Message())
	}
	return result, nil
}

func flatbuffersRoot(data []byte) (*fbresult.FBResult, error) {
	if err := fbresult.Verify(data); err != nil {
		return nil, &DecodeError{Format: formatFlatbuffers, Payload: data, Err: err}
	}
	return fbresult.GetRootAsFBResult(data, 0), nil
}

// recoverDecodeError turns a panic in the flatbuffers accessors into a *DecodeError and discards
// the partly decoded result.
func recoverDecodeError[T any](data []byte, result *T, err *error) {
	if r := recover(); r != nil {
		var zero T
		*result = zero
		*err = &DecodeError{Format: formatFlatbuffers, Payload: data, Err: fmt.Errorf("%v", r)}
	}
}

package servicedef

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Project-OSRM/osrm-contract-tests/fixture"
)

const (
	ServiceNearest = "nearest"
	ServiceRoute   = "route"

	APIVersion = "v1"

	// FlatbuffersSuffix is appended to the coordinates to request a binary response.
	FlatbuffersSuffix = ".flatbuffers"
)

// Params is an ordered set of query options. Setting an existing key keeps its position, so the
// resulting URL is stable.
type Params struct {
	keys   []string
	values map[string]string
}

func NewParams(pairs ...string) Params {
	var p Params
	for i := 0; i+1 < len(pairs); i += 2 {
		p.Set(pairs[i], pairs[i+1])
	}
	return p
}

func (p *Params) Set(key, value string) {
	if p.values == nil {
		p.values = make(map[string]string)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

func (p Params) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

func (p *Params) Delete(key string) {
	if _, ok := p.values[key]; !ok {
		return
	}
	delete(p.values, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i:i], p.keys[i+1:]...)
			break
		}
	}
}

// Merge returns a copy of p with every option of other added to it, replacing existing values.
func (p Params) Merge(other Params) Params {
	ret := p.Clone()
	for _, k := range other.keys {
		ret.Set(k, other.values[k])
	}
	return ret
}

func (p Params) Clone() Params {
	var ret Params
	for _, k := range p.keys {
		ret.Set(k, p.values[k])
	}
	return ret
}

// Keys returns the option names in order.
func (p Params) Keys() []string {
	return append([]string(nil), p.keys...)
}

func (p Params) Len() int {
	return len(p.keys)
}

// Encode formats the options as a query string. List separators are left unescaped since the
// server splits option values on them.
func (p Params) Encode() string {
	parts := make([]string, 0, len(p.keys))
	for _, k := range p.keys {
		parts = append(parts, escapeQuery(k)+"="+escapeQuery(p.values[k]))
	}
	return strings.Join(parts, "&")
}

var listSeparators = strings.NewReplacer("%2C", ",", "%3B", ";", "%3A", ":")

func escapeQuery(s string) string {
	return listSeparators.Replace(url.QueryEscape(s))
}

// Coordinates formats locations as the coordinate list of a query path: "lon,lat;lon,lat".
func Coordinates(locations ...fixture.Location) string {
	parts := make([]string, 0, len(locations))
	for _, l := range locations {
		parts = append(parts, l.Coordinate())
	}
	return strings.Join(parts, ";")
}

// QueryPath builds the path and query of a request: /{service}/v1/{profile}/{coordinates}.
func QueryPath(service, profile, coordinates string, flatbuffers bool, params Params) string {
	path := fmt.Sprintf("/%s/%s/%s/%s", service, APIVersion, url.PathEscape(profile), coordinates)
	if flatbuffers {
		path += FlatbuffersSuffix
	}
	if params.Len() > 0 {
		path += "?" + params.Encode()
	}
	return path
}

func NearestPath(profile string, location fixture.Location, flatbuffers bool, params Params) string {
	return QueryPath(ServiceNearest, profile, Coordinates(location), flatbuffers, params)
}

func RoutePath(profile string, waypoints []fixture.Location, flatbuffers bool, params Params) string {
	return QueryPath(ServiceRoute, profile, Coordinates(waypoints...), flatbuffers, params)
}

// DefaultRouteParams are the options of every route query unless the scenario overrides them.
func DefaultRouteParams() Params {
	return NewParams("steps", "true", "alternatives", "false")
}

// FormatBearings turns a list of "bearing[,range]" values into the bearings option, filling in a
// range of 10 degrees where it is missing.
func FormatBearings(bearings []string) string {
	parts := make([]string, 0, len(bearings))
	for _, b := range bearings {
		b = strings.TrimSpace(b)
		if b != "" && !strings.Contains(b, ",") {
			b += ",10"
		}
		parts = append(parts, b)
	}
	return strings.Join(parts, ";")
}

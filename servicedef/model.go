package servicedef

import (
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// CodeOK is the response code of a successful query.
const CodeOK = "Ok"

// NearestResult is the answer to a nearest query.
type NearestResult struct {
	Code        string                 `json:"code"`
	Waypoints   []Waypoint             `json:"waypoints"`
	DataVersion ldvalue.OptionalString `json:"data_version"`
}

// Waypoint is a query coordinate snapped to the road network.
type Waypoint struct {
	Hint string `json:"hint"`
	// Nodes is the pair of OSM node ids of the snapped segment, if the server reported it.
	Nodes    *NodePair  `json:"nodes,omitempty"`
	Distance float64    `json:"distance"`
	Name     string     `json:"name"`
	Location Coordinate `json:"location"`
}

// RouteResult is the answer to a route query.
type RouteResult struct {
	Code        string                 `json:"code"`
	Routes      []Route                `json:"routes"`
	Waypoints   []Waypoint             `json:"waypoints"`
	DataVersion ldvalue.OptionalString `json:"data_version"`
}

type Route struct {
	Geometry   Geometry `json:"geometry"`
	Weight     float64  `json:"weight"`
	Duration   float64  `json:"duration"`
	Distance   float64  `json:"distance"`
	WeightName string   `json:"weight_name"`
	Legs       []Leg    `json:"legs"`
}

// Leg is the part of a route between two consecutive waypoints.
type Leg struct {
	Summary  string  `json:"summary"`
	Weight   float64 `json:"weight"`
	Duration float64 `json:"duration"`
	Distance float64 `json:"distance"`
	Steps    []Step  `json:"steps"`
}

type Step struct {
	Geometry      Geometry               `json:"geometry"`
	Mode          string                 `json:"mode"`
	Maneuver      Maneuver               `json:"maneuver"`
	Name          string                 `json:"name"`
	Pronunciation ldvalue.OptionalString `json:"pronunciation"`
	Ref           ldvalue.OptionalString `json:"ref"`
	DrivingSide   string                 `json:"driving_side"`
	Weight        float64                `json:"weight"`
	Duration      float64                `json:"duration"`
	Distance      float64                `json:"distance"`
	Intersections []Intersection         `json:"intersections"`
}

type Maneuver struct {
	BearingBefore float64                `json:"bearing_before"`
	BearingAfter  float64                `json:"bearing_after"`
	Location      Coordinate             `json:"location"`
	Modifier      ldvalue.OptionalString `json:"modifier"`
	Type          string                 `json:"type"`
	Exit          ldvalue.OptionalInt    `json:"exit"`
}

type Intersection struct {
	Location Coordinate          `json:"location"`
	Bearings []int               `json:"bearings"`
	Entry    []bool              `json:"entry"`
	In       ldvalue.OptionalInt `json:"in"`
	Out      ldvalue.OptionalInt `json:"out"`
	Classes  []string            `json:"classes"`
}

// ErrorResult is the body of a failed query.
type ErrorResult struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e ErrorResult) String() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

package expect

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedKind is returned for an expectation column that is not an assertion kind. Such
// a column is an error in the scenario, so it fails the scenario instead of being ignored.
var ErrUnsupportedKind = errors.New("unsupported assertion kind")

// Kind is a field of a route result that a scenario can make assertions about.
type Kind int

const (
	KindRoute Kind = iota
	KindTurns
	KindModes
	KindSpeed
	KindTime
	KindTimes
	KindDistance
	KindDistances
	KindWeight
	KindSummary
	KindPronunciations
	KindRef
	KindDataVersion
	KindWaypointsCount
	KindGeometry
	numKinds
)

var kindNames = [numKinds]string{
	KindRoute:          "route",
	KindTurns:          "turns",
	KindModes:          "modes",
	KindSpeed:          "speed",
	KindTime:           "time",
	KindTimes:          "times",
	KindDistance:       "distance",
	KindDistances:      "distances",
	KindWeight:         "weight",
	KindSummary:        "summary",
	KindPronunciations: "pronunciations",
	KindRef:            "ref",
	KindDataVersion:    "data_version",
	KindWaypointsCount: "waypoints_count",
	KindGeometry:       "geometry",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, numKinds)
	for k, name := range kindNames {
		m[name] = Kind(k)
	}
	return m
}()

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind returns the kind named by an expectation column.
func ParseKind(column string) (Kind, error) {
	if k, ok := kindsByName[column]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("%w: %q (columns are %s)", ErrUnsupportedKind, column, kindList())
}

func kindList() string {
	names := make([]string, 0, numKinds)
	for _, k := range AllKinds() {
		names = append(names, k.String())
	}
	return strings.Join(names, ", ")
}

// AllKinds returns every assertion kind, in declaration order.
func AllKinds() []Kind {
	ret := make([]Kind, 0, numKinds)
	for k := Kind(0); k < numKinds; k++ {
		ret = append(ret, k)
	}
	return ret
}

// unit is the unit that numeric expectations of the kind are written in.
func (k Kind) unit() string {
	switch k {
	case KindSpeed:
		return "km/h"
	case KindTime, KindTimes, KindWeight:
		return "s"
	case KindDistance, KindDistances:
		return "m"
	default:
		return ""
	}
}

// toleranceKind is the kind of an explicit tolerance given for the kind.
func (k Kind) toleranceKind() ToleranceKind {
	if k == KindSpeed {
		return Percent
	}
	return Offset
}

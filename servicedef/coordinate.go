package servicedef

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Project-OSRM/osrm-contract-tests/fixture"
)

// Coordinate is a location on the wire, where it is always written as [longitude, latitude].
type Coordinate struct {
	Longitude float64
	Latitude  float64
}

func CoordinateOf(l fixture.Location) Coordinate {
	return Coordinate{Longitude: l.Longitude, Latitude: l.Latitude}
}

func (c Coordinate) Location() fixture.Location {
	return fixture.Location{Latitude: c.Latitude, Longitude: c.Longitude}
}

func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Longitude, c.Latitude})
}

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("coordinate must have 2 elements, got %d", len(pair))
	}
	c.Longitude, c.Latitude = pair[0], pair[1]
	return nil
}

// NodePair is the pair of node ids that a waypoint was snapped between.
type NodePair struct {
	First  uint64
	Second uint64
}

func (p NodePair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]uint64{p.First, p.Second})
}

func (p *NodePair) UnmarshalJSON(data []byte) error {
	var ids []uint64
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	if len(ids) != 2 {
		return errors.New("node pair must have 2 elements")
	}
	p.First, p.Second = ids[0], ids[1]
	return nil
}

package servicedef

import (
	"bytes"
	"encoding/json"
)

// Geometry is either an encoded polyline or a GeoJSON line, depending on the geometries
// parameter of the query.
type Geometry struct {
	Encoded     string
	Type        string
	Coordinates []Coordinate
	isGeoJSON   bool
}

func EncodedGeometry(polyline string) Geometry {
	return Geometry{Encoded: polyline}
}

func GeoJSONGeometry(coordinates []Coordinate) Geometry {
	return Geometry{Type: "LineString", Coordinates: coordinates, isGeoJSON: true}
}

// IsEncoded returns true if the geometry is an encoded polyline.
func (g Geometry) IsEncoded() bool {
	return !g.isGeoJSON
}

type geoJSONLine struct {
	Type        string       `json:"type"`
	Coordinates []Coordinate `json:"coordinates"`
}

func (g Geometry) MarshalJSON() ([]byte, error) {
	if g.isGeoJSON {
		return json.Marshal(geoJSONLine{Type: g.Type, Coordinates: g.Coordinates})
	}
	return json.Marshal(g.Encoded)
}

func (g *Geometry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var line geoJSONLine
		if err := json.Unmarshal(data, &line); err != nil {
			return err
		}
		*g = Geometry{Type: line.Type, Coordinates: line.Coordinates, isGeoJSON: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*g = Geometry{Encoded: s}
	return nil
}

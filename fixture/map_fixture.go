package fixture

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"
)

const (
	osmUser      = "osrm"
	osmUID       = 1
	osmTimestamp = "2000-01-01T00:00:00Z"

	nilTagValue = "(nil)"
)

// Node is a map node with a name tag.
type Node struct {
	ID       uint64
	Location Location
	Tags     map[string]string
}

// Way is an ordered list of nodes with tags.
type Way struct {
	ID    uint64
	Nodes []uint64
	Tags  map[string]string
}

// MapFixture accumulates the named nodes, free-floating locations and ways of one scenario.
// It is created empty, filled in by scenario steps, and serialized once.
type MapFixture struct {
	nodes     []*Node
	ways      []*Way
	nodeNames map[rune]*Node
	locations map[rune]Location
	lastID    uint64
}

func NewMapFixture() *MapFixture {
	return &MapFixture{
		nodeNames: make(map[rune]*Node),
		locations: make(map[rune]Location),
	}
}

// MakeID returns the next object id. Ids start at 1 and are shared by nodes and ways.
func (m *MapFixture) MakeID() uint64 {
	m.lastID++
	return m.lastID
}

// AddNode adds a named node that will be written into the map.
func (m *MapFixture) AddNode(name rune, loc Location) error {
	if ClassOf(name) != NodeName {
		return fmt.Errorf("invalid node name %q, must be one of [a-z]", name)
	}
	if _, ok := m.nodeNames[name]; ok {
		return fmt.Errorf("duplicate node: %c", name)
	}
	n := &Node{
		ID:       m.MakeID(),
		Location: loc,
		Tags:     map[string]string{"name": string(name)},
	}
	m.nodes = append(m.nodes, n)
	m.nodeNames[name] = n
	return nil
}

// AddLocation adds a named location that is only used as a query coordinate.
func (m *MapFixture) AddLocation(name rune, loc Location) error {
	if ClassOf(name) != LocationName {
		return fmt.Errorf("invalid location name %q, must be one of [0-9]", name)
	}
	if _, ok := m.locations[name]; ok {
		return fmt.Errorf("duplicate location: %c", name)
	}
	m.locations[name] = loc
	return nil
}

// AddWay adds a way through the named nodes, in order. The way's name tag defaults to the
// sequence of node names, and its highway tag to "primary"; either can be overridden by tags,
// and a tag value of "(nil)" removes the tag.
func (m *MapFixture) AddWay(nodeNames string, tags map[string]string) (*Way, error) {
	names := []rune(nodeNames)
	if len(names) < 2 {
		return nil, fmt.Errorf("way %q must reference at least two nodes", nodeNames)
	}
	w := &Way{
		ID:   m.MakeID(),
		Tags: map[string]string{"highway": "primary", "name": nodeNames},
	}
	for _, name := range names {
		n, ok := m.nodeNames[name]
		if !ok {
			return nil, fmt.Errorf("referenced unknown node %c in way %s", name, nodeNames)
		}
		w.Nodes = append(w.Nodes, n.ID)
	}
	for k, v := range tags {
		if v == nilTagValue {
			delete(w.Tags, k)
		} else {
			w.Tags[k] = v
		}
	}
	m.ways = append(m.ways, w)
	return w, nil
}

// Node returns the named node.
func (m *MapFixture) Node(name rune) (*Node, bool) {
	n, ok := m.nodeNames[name]
	return n, ok
}

// Location returns the named free-floating location.
func (m *MapFixture) Location(name rune) (Location, bool) {
	l, ok := m.locations[name]
	return l, ok
}

type osmTag struct {
	K string `xml:"k,attr"`
	V string `xml:"v,attr"`
}

type osmNodeRef struct {
	Ref uint64 `xml:"ref,attr"`
}

type osmNode struct {
	ID        uint64   `xml:"id,attr"`
	Version   int      `xml:"version,attr"`
	UID       int      `xml:"uid,attr"`
	User      string   `xml:"user,attr"`
	Timestamp string   `xml:"timestamp,attr"`
	Lon       string   `xml:"lon,attr"`
	Lat       string   `xml:"lat,attr"`
	Tags      []osmTag `xml:"tag"`
}

type osmWay struct {
	ID        uint64       `xml:"id,attr"`
	Version   int          `xml:"version,attr"`
	UID       int          `xml:"uid,attr"`
	User      string       `xml:"user,attr"`
	Timestamp string       `xml:"timestamp,attr"`
	Nodes     []osmNodeRef `xml:"nd"`
	Tags      []osmTag     `xml:"tag"`
}

type osmDocument struct {
	XMLName   xml.Name  `xml:"osm"`
	Version   string    `xml:"version,attr"`
	Generator string    `xml:"generator,attr"`
	Nodes     []osmNode `xml:"node"`
	Ways      []osmWay  `xml:"way"`
}

// XML serializes the fixture as an OSM XML document. The output depends only on the fixture's
// content, so writing the same scenario twice produces identical bytes.
func (m *MapFixture) XML() ([]byte, error) {
	doc := osmDocument{Version: "0.6", Generator: "osrm-contract-tests"}
	for _, n := range m.nodes {
		doc.Nodes = append(doc.Nodes, osmNode{
			ID:        n.ID,
			Version:   1,
			UID:       osmUID,
			User:      osmUser,
			Timestamp: osmTimestamp,
			Lon:       strconv.FormatFloat(n.Location.Longitude, 'f', -1, 64),
			Lat:       strconv.FormatFloat(n.Location.Latitude, 'f', -1, 64),
			Tags:      sortedTags(n.Tags),
		})
	}
	for _, w := range m.ways {
		ow := osmWay{
			ID:        w.ID,
			Version:   1,
			UID:       osmUID,
			User:      osmUser,
			Timestamp: osmTimestamp,
			Tags:      sortedTags(w.Tags),
		}
		for _, ref := range w.Nodes {
			ow.Nodes = append(ow.Nodes, osmNodeRef{Ref: ref})
		}
		doc.Ways = append(doc.Ways, ow)
	}
	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(data, '\n')...), nil
}

func sortedTags(tags map[string]string) []osmTag {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ret := make([]osmTag, 0, len(keys))
	for _, k := range keys {
		ret = append(ret, osmTag{K: k, V: tags[k]})
	}
	return ret
}

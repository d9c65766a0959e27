package osmsplit

import (
	"github.com/paulmach/osm"
)

// Way is an ordered path feature over graph nodes. The only allowed duplicate
// in the node list is the first node repeated at the last position, which
// marks the way as closed.
//
// Way is an immutable value owned by the graph. Every change produces a new
// value with the same identity and a bumped content version.
type Way struct {
	ID      osm.WayID
	Nodes   []osm.NodeID
	Tags    osm.Tags
	version int
}

// NewWay creates a way. Provided tags and nodes are copied.
func NewWay(id osm.WayID, tags osm.Tags, nodes []osm.NodeID) *Way {
	return &Way{
		ID:    id,
		Nodes: copyNodeIDs(nodes),
		Tags:  copyTags(tags),
	}
}

// Version returns content version of the way
func (way *Way) Version() int {
	return way.version
}

// UpdateNodes returns a copy of the way traversing the given nodes
func (way *Way) UpdateNodes(nodes []osm.NodeID) *Way {
	return &Way{
		ID:      way.ID,
		Nodes:   copyNodeIDs(nodes),
		Tags:    way.Tags,
		version: way.version + 1,
	}
}

// UpdateTags returns a copy of the way carrying the given tags
func (way *Way) UpdateTags(tags osm.Tags) *Way {
	return &Way{
		ID:      way.ID,
		Nodes:   way.Nodes,
		Tags:    copyTags(tags),
		version: way.version + 1,
	}
}

// First returns the first node of the way (0 for an empty way)
func (way *Way) First() osm.NodeID {
	if len(way.Nodes) == 0 {
		return 0
	}
	return way.Nodes[0]
}

// Last returns the last node of the way (0 for an empty way)
func (way *Way) Last() osm.NodeID {
	if len(way.Nodes) == 0 {
		return 0
	}
	return way.Nodes[len(way.Nodes)-1]
}

// Contains reports whether the way references the node
func (way *Way) Contains(nodeID osm.NodeID) bool {
	for _, id := range way.Nodes {
		if id == nodeID {
			return true
		}
	}
	return false
}

// IsClosed reports whether the way forms a ring (first node equals last node)
func (way *Way) IsClosed() bool {
	return len(way.Nodes) >= 1 && way.Nodes[0] == way.Nodes[len(way.Nodes)-1]
}

// IsArea reports whether the way outlines an area. The `area` tag wins when
// present, otherwise any area-implying tag key makes a closed way an area.
func (way *Way) IsArea() bool {
	if !way.IsClosed() {
		return false
	}
	switch way.Tags.Find("area") {
	case "yes":
		return true
	case "no":
		return false
	}
	for _, tag := range way.Tags {
		if _, ok := areaKeys[tag.Key]; ok {
			return true
		}
	}
	return false
}

// IsRoundabout reports whether the way is a closed circular junction
func (way *Way) IsRoundabout() bool {
	if !way.IsClosed() {
		return false
	}
	_, ok := junctionTypes[way.Tags.Find("junction")]
	return ok
}

// GeometryType tells how a way is drawn
type GeometryType uint16

const (
	// GEOMETRY_LINE is an open or closed path drawn as a line
	GEOMETRY_LINE = GeometryType(iota + 1)
	// GEOMETRY_AREA is a closed path outlining an area
	GEOMETRY_AREA
)

func (iotaIdx GeometryType) String() string {
	return [...]string{"line", "area"}[iotaIdx-1]
}

// GeometryType returns the way's drawn geometry kind
func (way *Way) GeometryType() GeometryType {
	if way.IsArea() {
		return GEOMETRY_AREA
	}
	return GEOMETRY_LINE
}

// HasInterestingTags reports whether the way carries any tag describing the
// feature itself, not just editing metadata
func (way *Way) HasInterestingTags() bool {
	return countInterestingTags(way.Tags) > 0
}

// Geometry returns locations of the way's nodes resolvable in the graph.
// Nodes without known location are skipped.
func (way *Way) Geometry(g *Graph) []GeoPoint {
	points := make([]GeoPoint, 0, len(way.Nodes))
	for _, nodeID := range way.Nodes {
		node, ok := g.nodes[nodeID]
		if !ok || node.Point == nil {
			continue
		}
		points = append(points, *node.Point)
	}
	return points
}

// copyNodeIDs returns an independent copy of given node list
func copyNodeIDs(nodes []osm.NodeID) []osm.NodeID {
	if nodes == nil {
		return nil
	}
	copied := make([]osm.NodeID, len(nodes))
	copy(copied, nodes)
	return copied
}

// concatNodeIDs glues two node list pieces into a fresh list
func concatNodeIDs(head, tail []osm.NodeID) []osm.NodeID {
	joined := make([]osm.NodeID, 0, len(head)+len(tail))
	joined = append(joined, head...)
	joined = append(joined, tail...)
	return joined
}

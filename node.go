package osmsplit

import (
	"github.com/paulmach/osm"
)

// Node is a point feature of the graph. Point is nil when the node is
// referenced but its location has not been loaded.
//
// Node is an immutable value owned by the graph. Callers must not modify
// exported fields.
type Node struct {
	ID      osm.NodeID
	Point   *GeoPoint
	Tags    osm.Tags
	version int
}

// NewNode creates a node. Provided tags are copied.
func NewNode(id osm.NodeID, point *GeoPoint, tags osm.Tags) *Node {
	return &Node{
		ID:    id,
		Point: point,
		Tags:  copyTags(tags),
	}
}

// Version returns content version of the node
func (node *Node) Version() int {
	return node.version
}

package osmsplit

import (
	"github.com/paulmach/osm"
)

// DisabledReason tells why a planned split cannot run. An empty value means
// the split is allowed.
type DisabledReason string

const (
	// NOT_ELIGIBLE: a split node has no splittable parent way, or the
	// requested way restriction does not match the candidates
	NOT_ELIGIBLE = DisabledReason("not_eligible")
	// PARENT_INCOMPLETE: a relation referencing a candidate way has members
	// around the split that are not loaded, so it cannot be repaired safely
	PARENT_INCOMPLETE = DisabledReason("parent_incomplete")
	// SIMPLE_ROUNDABOUT: a candidate way is a closed roundabout, which is
	// edited with dedicated tooling instead of being split
	SIMPLE_ROUNDABOUT = DisabledReason("simple_roundabout")
)

// waySplittableAt reports whether the way can be cut at the given node:
// anywhere on a closed way, interior occurrences only on an open one.
func waySplittableAt(way *Way, nodeID osm.NodeID) bool {
	if way.IsClosed() {
		// Two fragments need at least two ring positions
		return len(way.Nodes) >= 3
	}
	for i := 1; i < len(way.Nodes)-1; i++ {
		if way.Nodes[i] == nodeID {
			return true
		}
	}
	return false
}

// WaysForNode returns the ways the action would split at the given node.
// Without an explicit way restriction, line ways are preferred: areas are
// split only when no line runs through the node.
func (action *SplitAction) WaysForNode(g *Graph, nodeID osm.NodeID) []*Way {
	splittable := []*Way{}
	for _, parent := range g.ParentWays(nodeID) {
		if len(action.limitWays) > 0 && !containsWayID(action.limitWays, parent.ID) {
			continue
		}
		if !waySplittableAt(parent, nodeID) {
			continue
		}
		splittable = append(splittable, parent)
	}
	if len(action.limitWays) == 0 {
		hasLine := false
		for _, way := range splittable {
			if way.GeometryType() == GEOMETRY_LINE {
				hasLine = true
				break
			}
		}
		if hasLine {
			lines := make([]*Way, 0, len(splittable))
			for _, way := range splittable {
				if way.GeometryType() == GEOMETRY_LINE {
					lines = append(lines, way)
				}
			}
			return lines
		}
	}
	return splittable
}

// Ways returns the distinct ways the action would split across all of its
// nodes, in first-encounter order
func (action *SplitAction) Ways(g *Graph) []*Way {
	seen := make(map[osm.WayID]struct{})
	ways := []*Way{}
	for _, nodeID := range action.nodeIDs {
		for _, way := range action.WaysForNode(g, nodeID) {
			if _, ok := seen[way.ID]; ok {
				continue
			}
			seen[way.ID] = struct{}{}
			ways = append(ways, way)
		}
	}
	return ways
}

// Disabled checks every planned split against the graph and returns the first
// reason that forbids it, or the empty reason when all splits may proceed.
func (action *SplitAction) Disabled(g *Graph) DisabledReason {
	for _, nodeID := range action.nodeIDs {
		candidates := action.WaysForNode(g, nodeID)
		if len(candidates) == 0 || (len(action.limitWays) > 0 && len(action.limitWays) != len(candidates)) {
			return NOT_ELIGIBLE
		}
		for _, way := range candidates {
			for _, relation := range g.ParentRelations(WayRef(way.ID)) {
				if relation.HasFromViaTo() {
					// Repairing a restriction needs every via resolvable
					for _, via := range relation.MembersByRole("via") {
						if !g.HasEntity(memberRef(via.Member)) {
							return PARENT_INCOMPLETE
						}
					}
					continue
				}
				// Reinsertion probes the members around the way, so those
				// must be resolvable
				for i, member := range relation.Members {
					if member.Type != osm.TypeWay || member.Ref != int64(way.ID) {
						continue
					}
					if i > 0 && !g.HasEntity(memberRef(relation.Members[i-1])) {
						return PARENT_INCOMPLETE
					}
					if i < len(relation.Members)-1 && !g.HasEntity(memberRef(relation.Members[i+1])) {
						return PARENT_INCOMPLETE
					}
				}
			}
			if way.IsRoundabout() {
				return SIMPLE_ROUNDABOUT
			}
		}
	}
	return ""
}

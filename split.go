package osmsplit

import (
	"fmt"
	"math"
	"strconv"

	"github.com/paulmach/osm"
	"github.com/pkg/errors"
)

// indexOfNode returns the position of the first occurrence of nodeID at or
// after index from, or -1
func indexOfNode(nodes []osm.NodeID, nodeID osm.NodeID, from int) int {
	for i := from; i < len(nodes); i++ {
		if nodes[i] == nodeID {
			return i
		}
	}
	return -1
}

// nodesIntersect reports whether the two node lists share at least one node
func nodesIntersect(first, second []osm.NodeID) bool {
	seen := make(map[osm.NodeID]struct{}, len(first))
	for _, nodeID := range first {
		seen[nodeID] = struct{}{}
	}
	for _, nodeID := range second {
		if _, ok := seen[nodeID]; ok {
			return true
		}
	}
	return false
}

// oldMultipolygonOuterMember recognizes the legacy multipolygon tagging
// scheme: the way carries the feature tags and is the only outer member of a
// bare type=multipolygon relation. Returns that relation, or nil when the way
// is not such an outer member.
func oldMultipolygonOuterMember(g *Graph, way *Way) *Relation {
	if countInterestingTags(way.Tags) == 0 {
		return nil
	}
	parents := g.ParentRelations(WayRef(way.ID))
	if len(parents) != 1 {
		return nil
	}
	parent := parents[0]
	if !parent.IsMultipolygon() || countInterestingTags(parent.Tags) > 1 {
		return nil
	}
	for _, member := range parent.Members {
		matches := member.Type == osm.TypeWay && member.Ref == int64(way.ID)
		if matches && member.Role != "" && member.Role != "outer" {
			// The way is not an outer member
			return nil
		}
		if !matches && (member.Role == "" || member.Role == "outer") {
			// Some other outer member exists, not a simple multipolygon
			return nil
		}
	}
	return parent
}

// splitWay cuts one way in two at the given node and repairs every relation
// referencing it. The original identifier stays on one fragment (which one is
// decided by keepHistoryOn), newWayID goes to the other.
//
// Closed ways are cut twice: a partner node is inferred so the ring falls
// apart into two open paths sharing both cut nodes. Open ways are cut at the
// first interior occurrence of the node, both fragments sharing it.
//
// Turn restrictions keep exactly one of the fragments as their from/to member
// (whichever still adjoins the via), and gain the new fragment as an extra
// via member when the via itself was split. Any other relation keeps both
// fragments, the new one inserted next to the original in walk order. Areas
// end up as two outer members of a multipolygon relation carrying the tags,
// either a fresh one or the legacy relation the way already belonged to.
func splitWay(g *Graph, nodeID osm.NodeID, wayID, newWayID osm.WayID, keepHistoryOn KeepHistoryMode) (*Graph, error) {
	wayA, err := g.Way(wayID)
	if err != nil {
		return nil, errors.Wrap(err, "Can't find way to split")
	}
	wayB := NewWay(newWayID, wayA.Tags, nil)
	isArea := wayA.IsArea()
	outerParent := oldMultipolygonOuterMember(g, wayA)

	var nodesA, nodesB []osm.NodeID
	if wayA.IsClosed() {
		ring := wayA.Nodes[:len(wayA.Nodes)-1]
		idxA := indexOfNode(ring, nodeID, 0)
		if idxA < 0 {
			return nil, fmt.Errorf("Way %d does not contain node %d", wayID, nodeID)
		}
		idxB := areaSplitPartner(g, ring, idxA)
		if idxB < idxA {
			nodesA = concatNodeIDs(ring[idxA:], ring[:idxB+1])
			nodesB = copyNodeIDs(ring[idxB : idxA+1])
		} else {
			nodesA = copyNodeIDs(ring[idxA : idxB+1])
			nodesB = concatNodeIDs(ring[idxB:], ring[:idxA+1])
		}
	} else {
		idx := indexOfNode(wayA.Nodes, nodeID, 1)
		if idx < 0 {
			return nil, fmt.Errorf("Way %d does not contain node %d", wayID, nodeID)
		}
		nodesA = copyNodeIDs(wayA.Nodes[:idx+1])
		nodesB = copyNodeIDs(wayA.Nodes[idx:])
	}

	lengthA := nodesPathLength(g, nodesA)
	lengthB := nodesPathLength(g, nodesB)

	if keepHistoryOn == KEEP_HISTORY_ON_LONGEST && lengthB > lengthA {
		// Keep the history on the longer fragment, regardless of node count
		wayA = wayA.UpdateNodes(nodesB)
		wayB = wayB.UpdateNodes(nodesA)
		lengthA, lengthB = lengthB, lengthA
	} else {
		wayA = wayA.UpdateNodes(nodesA)
		wayB = wayB.UpdateNodes(nodesB)
	}

	if stepCountText := wayA.Tags.Find("step_count"); stepCountText != "" {
		// Divide the step count proportionally between the two fragments
		stepCount, convErr := strconv.Atoi(stepCountText)
		if convErr == nil && stepCount > 0 && lengthA+lengthB > 0 {
			countA := int(math.Round(float64(stepCount) * lengthA / (lengthA + lengthB)))
			wayA = wayA.UpdateTags(setTag(wayA.Tags, "step_count", strconv.Itoa(countA)))
			wayB = wayB.UpdateTags(setTag(wayB.Tags, "step_count", strconv.Itoa(stepCount-countA)))
		}
	}

	g = g.ReplaceWay(wayA)
	g = g.ReplaceWay(wayB)

	for _, relation := range g.ParentRelations(WayRef(wayA.ID)) {
		if relation.HasFromViaTo() {
			from, hasFrom := relation.MemberByRole("from")
			vias := relation.MembersByRole("via")
			to, hasTo := relation.MemberByRole("to")

			isFrom := hasFrom && from.Member.Type == osm.TypeWay && from.Member.Ref == int64(wayA.ID)
			isTo := hasTo && to.Member.Type == osm.TypeWay && to.Member.Ref == int64(wayA.ID)

			if isFrom || isTo {
				// Splitting the from/to way: exactly one fragment stays in
				// the restriction, the one still adjoining the via
				keepB := false
				if len(vias) == 1 && vias[0].Member.Type == osm.TypeNode {
					keepB = wayB.Contains(osm.NodeID(vias[0].Member.Ref))
				} else {
					for _, via := range vias {
						if via.Member.Type != osm.TypeWay {
							continue
						}
						viaWay, ok := g.ways[osm.WayID(via.Member.Ref)]
						if ok && nodesIntersect(wayB.Nodes, viaWay.Nodes) {
							keepB = true
							break
						}
					}
				}
				if keepB {
					g = g.ReplaceRelation(relation.ReplaceWayMember(wayA.ID, wayB.ID))
				}
				continue
			}

			// Splitting a via way: both fragments become via members
			for _, via := range vias {
				if via.Member.Type == osm.TypeWay && via.Member.Ref == int64(wayA.ID) {
					g = g.ReplaceRelation(relation.InsertMember(via.Index+1, osm.Member{
						Type: osm.TypeWay,
						Ref:  int64(wayB.ID),
						Role: "via",
					}))
					break
				}
			}
			continue
		}

		// Routes, multipolygons and the rest keep both fragments
		g, err = insertFragmentMembers(g, relation.ID, wayA, wayB)
		if err != nil {
			return nil, err
		}
	}

	var multipolygon *Relation
	if outerParent != nil {
		// The way's tags move onto the legacy multipolygon relation it
		// belongs to. The relation is re-read since the loop above has
		// already added the new fragment to it.
		current, relErr := g.Relation(outerParent.ID)
		if relErr != nil {
			return nil, relErr
		}
		multipolygon = current.MergeTags(wayA.Tags)
	} else if isArea {
		multipolygon = NewRelation(g.NextRelationID(), setTag(wayA.Tags, "type", "multipolygon"), osm.Members{
			{Type: osm.TypeWay, Ref: int64(wayA.ID), Role: "outer"},
			{Type: osm.TypeWay, Ref: int64(wayB.ID), Role: "outer"},
		})
	}
	if multipolygon != nil {
		g = g.ReplaceRelation(multipolygon)
		wayA = wayA.UpdateTags(nil)
		wayB = wayB.UpdateTags(nil)
		g = g.ReplaceWay(wayA)
		g = g.ReplaceWay(wayB)
	}

	return g, nil
}

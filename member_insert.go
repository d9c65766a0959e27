package osmsplit

import (
	"sort"

	"github.com/paulmach/osm"
)

// waysConnect reports whether two ways share an endpoint. A roundabout
// connects through any of its nodes, not just the endpoints, since traffic
// enters and leaves a ring anywhere along it.
func waysConnect(way1, way2 *Way) bool {
	if way1 == nil || way2 == nil {
		return false
	}
	if len(way1.Nodes) < 2 || len(way2.Nodes) < 2 {
		return false
	}
	if way1.IsRoundabout() {
		return way1.Contains(way2.First()) || way1.Contains(way2.Last())
	}
	if way2.IsRoundabout() {
		return way2.Contains(way1.First()) || way2.Contains(way1.Last())
	}
	return way1.First() == way2.First() ||
		way1.First() == way2.Last() ||
		way1.Last() == way2.First() ||
		way1.Last() == way2.Last()
}

// adjacentWay resolves the relation member at the given index to a way, or
// nil when the index is out of range, the member is not a way, or the way is
// not present in the graph
func adjacentWay(g *Graph, relation *Relation, idx int) *Way {
	if idx < 0 || idx >= len(relation.Members) {
		return nil
	}
	member := relation.Members[idx]
	if member.Type != osm.TypeWay {
		return nil
	}
	return g.ways[osm.WayID(member.Ref)]
}

// fragmentInsertPos decides where the second fragment of a split way goes
// relative to the member slot i still occupied by the first fragment. The
// checks run in order and the first that discriminates wins:
//
//  1. only one fragment connects to the preceding member, or only one
//     connects to the following member;
//  2. both fragments connect on both sides (parallel alternatives), so probe
//     the members two slots away;
//  3. nothing discriminates, so fall back to the fragments' own orientation.
func fragmentInsertPos(g *Graph, relation *Relation, i int, wayA, wayB *Way) int {
	prev := adjacentWay(g, relation, i-1)
	next := adjacentWay(g, relation, i+1)

	prevConnectsA := waysConnect(prev, wayA)
	prevConnectsB := waysConnect(prev, wayB)
	nextConnectsA := waysConnect(next, wayA)
	nextConnectsB := waysConnect(next, wayB)

	if prevConnectsA && !prevConnectsB {
		return i + 1
	}
	if prevConnectsB && !prevConnectsA {
		return i
	}
	if nextConnectsA && !nextConnectsB {
		return i
	}
	if nextConnectsB && !nextConnectsA {
		return i + 1
	}

	if prevConnectsA && prevConnectsB && nextConnectsA && nextConnectsB {
		prev2 := adjacentWay(g, relation, i-2)
		next2 := adjacentWay(g, relation, i+2)
		if waysConnect(prev2, wayA) && !waysConnect(prev2, wayB) {
			return i + 1
		}
		if waysConnect(prev2, wayB) && !waysConnect(prev2, wayA) {
			return i
		}
		if waysConnect(next2, wayB) && !waysConnect(next2, wayA) {
			return i + 1
		}
		if waysConnect(next2, wayA) && !waysConnect(next2, wayB) {
			return i
		}
	}

	if wayA.Last() == wayB.First() {
		return i + 1
	}
	return i
}

// insertFragmentMembers adds wayB next to every member slot of wayA in the
// given relation, carrying over the slot's role. Insertions are applied from
// the highest position down so earlier ones do not shift the later ones.
func insertFragmentMembers(g *Graph, relationID osm.RelationID, wayA, wayB *Way) (*Graph, error) {
	relation, err := g.Relation(relationID)
	if err != nil {
		return nil, err
	}

	type insertion struct {
		at   int
		role string
	}
	insertions := []insertion{}
	for i, member := range relation.Members {
		if member.Type != osm.TypeWay || member.Ref != int64(wayA.ID) {
			continue
		}
		insertions = append(insertions, insertion{
			at:   fragmentInsertPos(g, relation, i, wayA, wayB),
			role: member.Role,
		})
	}
	if len(insertions) == 0 {
		return g, nil
	}

	sort.Slice(insertions, func(i, j int) bool { return insertions[i].at > insertions[j].at })
	for _, ins := range insertions {
		relation = relation.InsertMember(ins.at, osm.Member{
			Type: osm.TypeWay,
			Ref:  int64(wayB.ID),
			Role: ins.role,
		})
	}
	return g.ReplaceRelation(relation), nil
}

package osmsplit

import (
	"fmt"
	"sort"

	"github.com/paulmach/osm"
)

// EntityRef addresses an entity of any kind: nodes, ways and relations live in
// separate identifier spaces, so a bare numeric identifier is ambiguous.
type EntityRef struct {
	Type osm.Type
	Ref  int64
}

// NodeRef addresses a node
func NodeRef(id osm.NodeID) EntityRef {
	return EntityRef{Type: osm.TypeNode, Ref: int64(id)}
}

// WayRef addresses a way
func WayRef(id osm.WayID) EntityRef {
	return EntityRef{Type: osm.TypeWay, Ref: int64(id)}
}

// RelationRef addresses a relation
func RelationRef(id osm.RelationID) EntityRef {
	return EntityRef{Type: osm.TypeRelation, Ref: int64(id)}
}

// memberRef addresses the entity a relation member points at
func memberRef(member osm.Member) EntityRef {
	return EntityRef{Type: member.Type, Ref: member.Ref}
}

// Graph is a persistent versioned store of editor entities. Replace
// operations return a new graph value and leave the receiver untouched, so
// holders of older snapshots keep reading consistent data.
//
// Parent indexes answer "which ways reference this node" and "which relations
// reference this entity" in entity insertion order.
type Graph struct {
	nodes     map[osm.NodeID]*Node
	ways      map[osm.WayID]*Way
	relations map[osm.RelationID]*Relation

	parentWays      map[osm.NodeID][]osm.WayID
	parentRelations map[EntityRef][]osm.RelationID
}

// NewGraph creates a graph holding the given entities. Parent indexes follow
// the order of the provided slices.
func NewGraph(nodes []*Node, ways []*Way, relations []*Relation) *Graph {
	g := &Graph{
		nodes:           make(map[osm.NodeID]*Node, len(nodes)),
		ways:            make(map[osm.WayID]*Way, len(ways)),
		relations:       make(map[osm.RelationID]*Relation, len(relations)),
		parentWays:      make(map[osm.NodeID][]osm.WayID),
		parentRelations: make(map[EntityRef][]osm.RelationID),
	}
	for _, node := range nodes {
		g.nodes[node.ID] = node
	}
	for _, way := range ways {
		g.ways[way.ID] = way
		g.indexWayParents(nil, way)
	}
	for _, relation := range relations {
		g.relations[relation.ID] = relation
		g.indexRelationParents(nil, relation)
	}
	return g
}

// Node returns the node or fails when it is not present
func (g *Graph) Node(id osm.NodeID) (*Node, error) {
	node, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("Node %d does not exist in the graph", id)
	}
	return node, nil
}

// Way returns the way or fails when it is not present
func (g *Graph) Way(id osm.WayID) (*Way, error) {
	way, ok := g.ways[id]
	if !ok {
		return nil, fmt.Errorf("Way %d does not exist in the graph", id)
	}
	return way, nil
}

// Relation returns the relation or fails when it is not present
func (g *Graph) Relation(id osm.RelationID) (*Relation, error) {
	relation, ok := g.relations[id]
	if !ok {
		return nil, fmt.Errorf("Relation %d does not exist in the graph", id)
	}
	return relation, nil
}

// HasEntity probes whether the referenced entity is present
func (g *Graph) HasEntity(ref EntityRef) bool {
	switch ref.Type {
	case osm.TypeNode:
		_, ok := g.nodes[osm.NodeID(ref.Ref)]
		return ok
	case osm.TypeWay:
		_, ok := g.ways[osm.WayID(ref.Ref)]
		return ok
	case osm.TypeRelation:
		_, ok := g.relations[osm.RelationID(ref.Ref)]
		return ok
	}
	return false
}

// ParentWays returns ways referencing the node, in insertion order
func (g *Graph) ParentWays(nodeID osm.NodeID) []*Way {
	ids := g.parentWays[nodeID]
	ways := make([]*Way, 0, len(ids))
	for _, id := range ids {
		if way, ok := g.ways[id]; ok {
			ways = append(ways, way)
		}
	}
	return ways
}

// ParentRelations returns relations referencing the entity, in insertion order
func (g *Graph) ParentRelations(ref EntityRef) []*Relation {
	ids := g.parentRelations[ref]
	relations := make([]*Relation, 0, len(ids))
	for _, id := range ids {
		if relation, ok := g.relations[id]; ok {
			relations = append(relations, relation)
		}
	}
	return relations
}

// Nodes returns every node sorted by identifier
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.nodes))
	for _, node := range g.nodes {
		nodes = append(nodes, node)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes
}

// Ways returns every way sorted by identifier
func (g *Graph) Ways() []*Way {
	ways := make([]*Way, 0, len(g.ways))
	for _, way := range g.ways {
		ways = append(ways, way)
	}
	sort.Slice(ways, func(i, j int) bool { return ways[i].ID < ways[j].ID })
	return ways
}

// Relations returns every relation sorted by identifier
func (g *Graph) Relations() []*Relation {
	relations := make([]*Relation, 0, len(g.relations))
	for _, relation := range g.relations {
		relations = append(relations, relation)
	}
	sort.Slice(relations, func(i, j int) bool { return relations[i].ID < relations[j].ID })
	return relations
}

// NextWayID returns a fresh negative identifier for a way created by the
// editor. Entities loaded from upstream keep their positive identifiers.
func (g *Graph) NextWayID() osm.WayID {
	next := osm.WayID(0)
	for id := range g.ways {
		if id < next {
			next = id
		}
	}
	return next - 1
}

// NextRelationID returns a fresh negative identifier for a relation created by
// the editor
func (g *Graph) NextRelationID() osm.RelationID {
	next := osm.RelationID(0)
	for id := range g.relations {
		if id < next {
			next = id
		}
	}
	return next - 1
}

// ReplaceNode returns a new graph with the node inserted or updated
func (g *Graph) ReplaceNode(node *Node) *Graph {
	updated := g.clone()
	updated.nodes[node.ID] = node
	return updated
}

// ReplaceWay returns a new graph with the way inserted or updated. Parent
// indexes are adjusted for nodes entering or leaving the way's node list.
func (g *Graph) ReplaceWay(way *Way) *Graph {
	updated := g.clone()
	old := g.ways[way.ID]
	updated.ways[way.ID] = way
	updated.indexWayParents(old, way)
	return updated
}

// ReplaceRelation returns a new graph with the relation inserted or updated.
// Parent indexes are adjusted for entities entering or leaving the member
// list.
func (g *Graph) ReplaceRelation(relation *Relation) *Graph {
	updated := g.clone()
	old := g.relations[relation.ID]
	updated.relations[relation.ID] = relation
	updated.indexRelationParents(old, relation)
	return updated
}

// clone shallow-copies the graph. Entities and index slices are shared with
// the receiver and are never modified in place afterwards.
func (g *Graph) clone() *Graph {
	updated := &Graph{
		nodes:           make(map[osm.NodeID]*Node, len(g.nodes)+1),
		ways:            make(map[osm.WayID]*Way, len(g.ways)+1),
		relations:       make(map[osm.RelationID]*Relation, len(g.relations)+1),
		parentWays:      make(map[osm.NodeID][]osm.WayID, len(g.parentWays)),
		parentRelations: make(map[EntityRef][]osm.RelationID, len(g.parentRelations)),
	}
	for id, node := range g.nodes {
		updated.nodes[id] = node
	}
	for id, way := range g.ways {
		updated.ways[id] = way
	}
	for id, relation := range g.relations {
		updated.relations[id] = relation
	}
	for id, parents := range g.parentWays {
		updated.parentWays[id] = parents
	}
	for ref, parents := range g.parentRelations {
		updated.parentRelations[ref] = parents
	}
	return updated
}

// indexWayParents moves the parent index from the old to the updated version
// of a way. Nodes kept by the update stay where they were in the index, so
// parent order is stable across replaces.
func (g *Graph) indexWayParents(old, updated *Way) {
	var oldNodes []osm.NodeID
	if old != nil {
		oldNodes = old.Nodes
	}
	for _, nodeID := range oldNodes {
		if containsNodeID(updated.Nodes, nodeID) {
			continue
		}
		g.parentWays[nodeID] = withoutWayID(g.parentWays[nodeID], updated.ID)
		if len(g.parentWays[nodeID]) == 0 {
			delete(g.parentWays, nodeID)
		}
	}
	for _, nodeID := range updated.Nodes {
		if containsNodeID(oldNodes, nodeID) {
			continue
		}
		if containsWayID(g.parentWays[nodeID], updated.ID) {
			continue
		}
		g.parentWays[nodeID] = appendWayID(g.parentWays[nodeID], updated.ID)
	}
}

// indexRelationParents moves the parent index from the old to the updated
// version of a relation, keeping index order for members present in both.
func (g *Graph) indexRelationParents(old, updated *Relation) {
	var oldMembers osm.Members
	if old != nil {
		oldMembers = old.Members
	}
	for _, member := range oldMembers {
		if membersContain(updated.Members, memberRef(member)) {
			continue
		}
		ref := memberRef(member)
		g.parentRelations[ref] = withoutRelationID(g.parentRelations[ref], updated.ID)
		if len(g.parentRelations[ref]) == 0 {
			delete(g.parentRelations, ref)
		}
	}
	for _, member := range updated.Members {
		if membersContain(oldMembers, memberRef(member)) {
			continue
		}
		ref := memberRef(member)
		if containsRelationID(g.parentRelations[ref], updated.ID) {
			continue
		}
		g.parentRelations[ref] = appendRelationID(g.parentRelations[ref], updated.ID)
	}
}

func containsNodeID(nodes []osm.NodeID, id osm.NodeID) bool {
	for _, nodeID := range nodes {
		if nodeID == id {
			return true
		}
	}
	return false
}

func containsWayID(ways []osm.WayID, id osm.WayID) bool {
	for _, wayID := range ways {
		if wayID == id {
			return true
		}
	}
	return false
}

func containsRelationID(relations []osm.RelationID, id osm.RelationID) bool {
	for _, relationID := range relations {
		if relationID == id {
			return true
		}
	}
	return false
}

func membersContain(members osm.Members, ref EntityRef) bool {
	for _, member := range members {
		if member.Type == ref.Type && member.Ref == ref.Ref {
			return true
		}
	}
	return false
}

// withoutWayID filters the identifier out into a fresh slice; the input slice
// may be shared with older graph snapshots and is left untouched
func withoutWayID(ids []osm.WayID, id osm.WayID) []osm.WayID {
	filtered := make([]osm.WayID, 0, len(ids))
	for _, present := range ids {
		if present != id {
			filtered = append(filtered, present)
		}
	}
	return filtered
}

func withoutRelationID(ids []osm.RelationID, id osm.RelationID) []osm.RelationID {
	filtered := make([]osm.RelationID, 0, len(ids))
	for _, present := range ids {
		if present != id {
			filtered = append(filtered, present)
		}
	}
	return filtered
}

// appendWayID appends into a fresh slice for the same sharing reason
func appendWayID(ids []osm.WayID, id osm.WayID) []osm.WayID {
	grown := make([]osm.WayID, 0, len(ids)+1)
	grown = append(grown, ids...)
	grown = append(grown, id)
	return grown
}

func appendRelationID(ids []osm.RelationID, id osm.RelationID) []osm.RelationID {
	grown := make([]osm.RelationID, 0, len(ids)+1)
	grown = append(grown, ids...)
	grown = append(grown, id)
	return grown
}

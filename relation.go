package osmsplit

import (
	"github.com/paulmach/osm"
)

// Relation is a grouping feature: an ordered list of typed, role-tagged
// members. Member order matters for route-like relations, member roles matter
// for turn restrictions and multipolygons.
//
// Relation is an immutable value owned by the graph. Every change produces a
// new value with the same identity and a bumped content version.
type Relation struct {
	ID      osm.RelationID
	Tags    osm.Tags
	Members osm.Members
	version int
}

// MemberSlot is a relation member paired with its position in the member list
type MemberSlot struct {
	Member osm.Member
	Index  int
}

// NewRelation creates a relation. Provided tags and members are copied.
func NewRelation(id osm.RelationID, tags osm.Tags, members osm.Members) *Relation {
	return &Relation{
		ID:      id,
		Tags:    copyTags(tags),
		Members: copyMembers(members),
	}
}

// Version returns content version of the relation
func (relation *Relation) Version() int {
	return relation.version
}

// UpdateTags returns a copy of the relation carrying the given tags
func (relation *Relation) UpdateTags(tags osm.Tags) *Relation {
	return &Relation{
		ID:      relation.ID,
		Tags:    copyTags(tags),
		Members: relation.Members,
		version: relation.version + 1,
	}
}

// UpdateMembers returns a copy of the relation with the given member list
func (relation *Relation) UpdateMembers(members osm.Members) *Relation {
	return &Relation{
		ID:      relation.ID,
		Tags:    relation.Tags,
		Members: copyMembers(members),
		version: relation.version + 1,
	}
}

// InsertMember returns a copy of the relation with the member inserted at the
// given position
func (relation *Relation) InsertMember(at int, member osm.Member) *Relation {
	members := make(osm.Members, 0, len(relation.Members)+1)
	members = append(members, relation.Members[:at]...)
	members = append(members, member)
	members = append(members, relation.Members[at:]...)
	return &Relation{
		ID:      relation.ID,
		Tags:    relation.Tags,
		Members: members,
		version: relation.version + 1,
	}
}

// MemberByRole returns the first member carrying the role
func (relation *Relation) MemberByRole(role string) (MemberSlot, bool) {
	for i, member := range relation.Members {
		if member.Role == role {
			return MemberSlot{Member: member, Index: i}, true
		}
	}
	return MemberSlot{}, false
}

// MembersByRole returns every member carrying the role, in list order
func (relation *Relation) MembersByRole(role string) []MemberSlot {
	slots := []MemberSlot{}
	for i, member := range relation.Members {
		if member.Role == role {
			slots = append(slots, MemberSlot{Member: member, Index: i})
		}
	}
	return slots
}

// HasFromViaTo reports whether the relation has the turn restriction member
// shape: `from` and `via` and `to` roles are all present
func (relation *Relation) HasFromViaTo() bool {
	hasFrom := false
	hasVia := false
	hasTo := false
	for _, member := range relation.Members {
		switch member.Role {
		case "from":
			hasFrom = true
		case "via":
			hasVia = true
		case "to":
			hasTo = true
		}
	}
	return hasFrom && hasVia && hasTo
}

// IsMultipolygon reports whether the relation is tagged as a multipolygon
func (relation *Relation) IsMultipolygon() bool {
	return relation.Tags.Find("type") == "multipolygon"
}

// ReplaceWayMember returns a copy of the relation where every member slot
// referencing the old way references the new way instead, keeping the slot
// role. A slot is dropped when the relation already holds the new way under
// the same role.
func (relation *Relation) ReplaceWayMember(oldID, newID osm.WayID) *Relation {
	members := make(osm.Members, 0, len(relation.Members))
	for _, member := range relation.Members {
		if member.Type != osm.TypeWay || member.Ref != int64(oldID) {
			members = append(members, member)
			continue
		}
		if relation.hasWayMember(newID, member.Role) {
			continue
		}
		members = append(members, osm.Member{Type: osm.TypeWay, Ref: int64(newID), Role: member.Role})
	}
	return relation.UpdateMembers(members)
}

func (relation *Relation) hasWayMember(id osm.WayID, role string) bool {
	for _, member := range relation.Members {
		if member.Type == osm.TypeWay && member.Ref == int64(id) && member.Role == role {
			return true
		}
	}
	return false
}

// MergeTags combines given tags into the relation's tags. Conflicting values
// of the same key are joined into a semicolon-separated list. Returns the
// relation itself when nothing changes.
func (relation *Relation) MergeTags(tags osm.Tags) *Relation {
	merged, changed := mergeTags(relation.Tags, tags)
	if !changed {
		return relation
	}
	return relation.UpdateTags(merged)
}

// copyMembers returns an independent copy of given member list
func copyMembers(members osm.Members) osm.Members {
	if members == nil {
		return nil
	}
	copied := make(osm.Members, len(members))
	copy(copied, members)
	return copied
}

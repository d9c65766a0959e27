package osmsplit

import (
	"fmt"

	"github.com/paulmach/osm"
	"github.com/pkg/errors"
)

// KeepHistoryMode picks which fragment of a split way keeps the original
// identifier and therefore the edit history
type KeepHistoryMode uint16

const (
	// KEEP_HISTORY_ON_LONGEST: the longer fragment keeps the original
	// identifier (production default)
	KEEP_HISTORY_ON_LONGEST = KeepHistoryMode(iota + 1)
	// KEEP_HISTORY_ON_FIRST: the fragment starting at the original way's
	// first node keeps the identifier
	KEEP_HISTORY_ON_FIRST
)

func (iotaIdx KeepHistoryMode) String() string {
	return [...]string{"longest", "first"}[iotaIdx-1]
}

// ParseKeepHistoryMode converts a mode name to KeepHistoryMode
func ParseKeepHistoryMode(name string) (KeepHistoryMode, error) {
	switch name {
	case "longest":
		return KEEP_HISTORY_ON_LONGEST, nil
	case "first":
		return KEEP_HISTORY_ON_FIRST, nil
	}
	return 0, fmt.Errorf("Keep history mode '%s' is not handled yet", name)
}

// SplitAction splits every splittable way passing through the given nodes.
// Configure it at construction time, then apply it to any number of graph
// snapshots with Run.
type SplitAction struct {
	nodeIDs       []osm.NodeID
	newWayIDs     []osm.WayID
	limitWays     []osm.WayID
	keepHistoryOn KeepHistoryMode

	createdWayIDs []osm.WayID
}

// NewSplitAction returns an action splitting ways at the given nodes
func NewSplitAction(nodeIDs []osm.NodeID, options ...func(*SplitAction)) *SplitAction {
	action := &SplitAction{
		nodeIDs:       make([]osm.NodeID, len(nodeIDs)),
		keepHistoryOn: KEEP_HISTORY_ON_LONGEST,
	}
	copy(action.nodeIDs, nodeIDs)
	for _, option := range options {
		option(action)
	}
	return action
}

// WithNewWayIDs sets the identifiers handed to new fragments, consumed in
// split order. Splits beyond the list fall back to generated identifiers.
func WithNewWayIDs(wayIDs []osm.WayID) func(*SplitAction) {
	return func(action *SplitAction) {
		action.newWayIDs = make([]osm.WayID, len(wayIDs))
		copy(action.newWayIDs, wayIDs)
	}
}

// WithLimitWays restricts the action to the given ways instead of every
// splittable parent of the nodes
func WithLimitWays(wayIDs []osm.WayID) func(*SplitAction) {
	return func(action *SplitAction) {
		action.limitWays = make([]osm.WayID, len(wayIDs))
		copy(action.limitWays, wayIDs)
	}
}

// WithKeepHistoryOn overrides the history-retention mode
func WithKeepHistoryOn(keepHistoryOn KeepHistoryMode) func(*SplitAction) {
	return func(action *SplitAction) {
		action.keepHistoryOn = keepHistoryOn
	}
}

// LimitWays returns the way restriction, empty when the action splits every
// splittable parent
func (action *SplitAction) LimitWays() []osm.WayID {
	wayIDs := make([]osm.WayID, len(action.limitWays))
	copy(wayIDs, action.limitWays)
	return wayIDs
}

// KeepHistoryOn returns the history-retention mode
func (action *SplitAction) KeepHistoryOn() KeepHistoryMode {
	return action.keepHistoryOn
}

// Run applies every planned split to the graph and returns the resulting
// snapshot. The input graph is left untouched, so the caller keeps a
// consistent view even when Run fails midway.
func (action *SplitAction) Run(g *Graph) (*Graph, error) {
	action.createdWayIDs = []osm.WayID{}
	newWayIndex := 0
	for _, nodeID := range action.nodeIDs {
		candidates := action.WaysForNode(g, nodeID)
		for _, candidate := range candidates {
			var newWayID osm.WayID
			if newWayIndex < len(action.newWayIDs) {
				newWayID = action.newWayIDs[newWayIndex]
			} else {
				newWayID = g.NextWayID()
			}
			updated, err := splitWay(g, nodeID, candidate.ID, newWayID, action.keepHistoryOn)
			if err != nil {
				return nil, errors.Wrap(err, "Can't split way")
			}
			g = updated
			action.createdWayIDs = append(action.createdWayIDs, newWayID)
			newWayIndex++
		}
	}
	return g, nil
}

// CreatedWayIDs returns the identifiers of the ways created by the last Run,
// in creation order
func (action *SplitAction) CreatedWayIDs() []osm.WayID {
	wayIDs := make([]osm.WayID, len(action.createdWayIDs))
	copy(wayIDs, action.createdWayIDs)
	return wayIDs
}

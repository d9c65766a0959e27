package osmsplit

import (
	"testing"

	"github.com/paulmach/osm"
)

func crossingGraph() *Graph {
	return NewGraph(
		[]*Node{
			testNode(1, 0, 0), testNode(2, 0, 1), testNode(3, 0, 2),
			testNode(4, 1, 1), testNode(5, -1, 1),
		},
		[]*Way{testWay(10, nil, 1, 2, 3), testWay(20, nil, 4, 2, 5)},
		nil,
	)
}

func TestKeepHistoryModeNames(t *testing.T) {
	if KEEP_HISTORY_ON_LONGEST.String() != "longest" {
		t.Errorf("Mode name must be 'longest', but got '%s'", KEEP_HISTORY_ON_LONGEST.String())
	}
	if KEEP_HISTORY_ON_FIRST.String() != "first" {
		t.Errorf("Mode name must be 'first', but got '%s'", KEEP_HISTORY_ON_FIRST.String())
	}
	for _, mode := range []KeepHistoryMode{KEEP_HISTORY_ON_LONGEST, KEEP_HISTORY_ON_FIRST} {
		parsed, err := ParseKeepHistoryMode(mode.String())
		if err != nil {
			t.Error(err)
			return
		}
		if parsed != mode {
			t.Errorf("Mode must parse back to %v, but got %v", mode, parsed)
		}
	}
	if _, err := ParseKeepHistoryMode("bogus"); err == nil {
		t.Errorf("Unknown mode name must produce an error")
	}
}

func TestSplitActionDefaults(t *testing.T) {
	action := NewSplitAction([]osm.NodeID{2})
	if action.KeepHistoryOn() != KEEP_HISTORY_ON_LONGEST {
		t.Errorf("Default mode must be %v, but got %v", KEEP_HISTORY_ON_LONGEST, action.KeepHistoryOn())
	}
	if len(action.LimitWays()) != 0 {
		t.Errorf("Default way restriction must be empty, but got %v", action.LimitWays())
	}
	limited := NewSplitAction([]osm.NodeID{2}, WithLimitWays([]osm.WayID{10}), WithKeepHistoryOn(KEEP_HISTORY_ON_FIRST))
	if !equalWayIDs(limited.LimitWays(), 10) {
		t.Errorf("Way restriction must be [10], but got %v", limited.LimitWays())
	}
	if limited.KeepHistoryOn() != KEEP_HISTORY_ON_FIRST {
		t.Errorf("Mode must be %v, but got %v", KEEP_HISTORY_ON_FIRST, limited.KeepHistoryOn())
	}
}

func TestSplitActionRun(t *testing.T) {
	g := crossingGraph()
	action := NewSplitAction([]osm.NodeID{2})
	g2, err := action.Run(g)
	if err != nil {
		t.Error(err)
		return
	}
	if !equalWayIDs(action.CreatedWayIDs(), -1, -2) {
		t.Errorf("Created way IDs must be [-1 -2], but got %v", action.CreatedWayIDs())
	}
	for _, expected := range []struct {
		wayID osm.WayID
		nodes []int64
	}{
		{10, []int64{1, 2}},
		{-1, []int64{2, 3}},
		{20, []int64{4, 2}},
		{-2, []int64{2, 5}},
	} {
		way, err := g2.Way(expected.wayID)
		if err != nil {
			t.Error(err)
			return
		}
		if !equalNodeIDs(way.Nodes, expected.nodes...) {
			t.Errorf("Way %d nodes must be %v, but got %v", expected.wayID, expected.nodes, way.Nodes)
		}
	}

	original, err := g.Way(10)
	if err != nil {
		t.Error(err)
		return
	}
	if !equalNodeIDs(original.Nodes, 1, 2, 3) {
		t.Errorf("Input graph way must stay [1 2 3], but got %v", original.Nodes)
	}
	if _, err := g.Way(-1); err == nil {
		t.Errorf("Input graph must not contain new fragments")
	}
}

func TestSplitActionSuppliedIDs(t *testing.T) {
	g := crossingGraph()
	action := NewSplitAction([]osm.NodeID{2}, WithNewWayIDs([]osm.WayID{-50}))
	if _, err := action.Run(g); err != nil {
		t.Error(err)
		return
	}
	if !equalWayIDs(action.CreatedWayIDs(), -50, -51) {
		t.Errorf("Created way IDs must be [-50 -51], but got %v", action.CreatedWayIDs())
	}
}

func TestSplitActionWaysDeduplicates(t *testing.T) {
	g := NewGraph(
		[]*Node{
			testNode(1, 0, 0), testNode(2, 0, 1), testNode(3, 0, 2),
			testNode(4, 0, 3), testNode(5, 0, 4),
		},
		[]*Way{testWay(10, nil, 1, 2, 3, 4, 5)},
		nil,
	)
	action := NewSplitAction([]osm.NodeID{2, 4})
	ways := action.Ways(g)
	if len(ways) != 1 || ways[0].ID != 10 {
		t.Errorf("Ways must list the shared parent once, but got %v", ways)
	}
}

func TestSplitActionMultiSplitSameWay(t *testing.T) {
	g := NewGraph(
		[]*Node{
			testNode(1, 0, 0), testNode(2, 0, 1), testNode(3, 0, 2),
			testNode(4, 0, 3), testNode(5, 0, 4),
		},
		[]*Way{testWay(10, nil, 1, 2, 3, 4, 5)},
		nil,
	)
	action := NewSplitAction([]osm.NodeID{2, 4})
	g2, err := action.Run(g)
	if err != nil {
		t.Error(err)
		return
	}
	if !equalWayIDs(action.CreatedWayIDs(), -1, -2) {
		t.Errorf("Created way IDs must be [-1 -2], but got %v", action.CreatedWayIDs())
	}
	for _, expected := range []struct {
		wayID osm.WayID
		nodes []int64
	}{
		{10, []int64{2, 3, 4}},
		{-1, []int64{1, 2}},
		{-2, []int64{4, 5}},
	} {
		way, err := g2.Way(expected.wayID)
		if err != nil {
			t.Error(err)
			return
		}
		if !equalNodeIDs(way.Nodes, expected.nodes...) {
			t.Errorf("Way %d nodes must be %v, but got %v", expected.wayID, expected.nodes, way.Nodes)
		}
	}
}

func TestSplitActionRunNothingToSplit(t *testing.T) {
	g := NewGraph(
		[]*Node{testNode(1, 0, 0), testNode(2, 0, 1)},
		[]*Way{testWay(10, nil, 1, 2)},
		nil,
	)
	action := NewSplitAction([]osm.NodeID{1})
	g2, err := action.Run(g)
	if err != nil {
		t.Error(err)
		return
	}
	if g2 != g {
		t.Errorf("Run without splittable ways must return the graph unchanged")
	}
	if len(action.CreatedWayIDs()) != 0 {
		t.Errorf("Run without splittable ways must not create ways, but got %v", action.CreatedWayIDs())
	}
}

package osmsplit

import (
	"github.com/paulmach/osm"
)

// areaSplitPartner picks the node index at which to cut a closed ring that is
// being split at idxA. The ring is given without its duplicated closing node.
//
// Candidates are scored by walking the ring from idxA in both directions and
// keeping, for every node, the shorter of the two path lengths. That length
// divided by the straight-line distance to idxA rewards candidates lying
// "across" the ring, so the two halves come out balanced instead of one
// degenerate sliver. Nodes with unknown locations take part with a tiny
// stand-in distance and simply score poorly.
func areaSplitPartner(g *Graph, nodes []osm.NodeID, idxA int) int {
	n := len(nodes)
	lengths := make([]float64, n)

	length := 0.0
	for i := wrapIndex(idxA+1, n); i != idxA; i = wrapIndex(i+1, n) {
		length += nodeDistance(g, nodes[i], nodes[wrapIndex(i-1, n)])
		lengths[i] = length
	}

	length = 0.0
	for i := wrapIndex(idxA-1, n); i != idxA; i = wrapIndex(i-1, n) {
		length += nodeDistance(g, nodes[i], nodes[wrapIndex(i+1, n)])
		if length < lengths[i] {
			lengths[i] = length
		}
	}

	idxB := 0
	best := 0.0
	for i := 0; i < n; i++ {
		if i == idxA {
			continue
		}
		cost := lengths[i] / nodeDistance(g, nodes[idxA], nodes[i])
		if cost > best {
			idxB = i
			best = cost
		}
	}
	return idxB
}

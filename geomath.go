package osmsplit

import (
	"fmt"
	"math"

	"github.com/paulmach/osm"
)

const (
	earthRadius = 6370.986884258304
	pi180       = math.Pi / 180.0

	// Distance reported for a segment when either node location is unknown.
	// Small but positive, so length ratios over partially loaded data stay
	// well-defined.
	unknownDistance = 1e-6
)

// GeoPoint representation of point on Earth
type GeoPoint struct {
	Lat float64
	Lon float64
}

// String returns pretty printed value for GeoPoint
func (gp GeoPoint) String() string {
	return fmt.Sprintf("Lon: %f | Lat: %f", gp.Lon, gp.Lat)
}

// degreesToRadians deg = r * pi / 180
func degreesToRadians(d float64) float64 {
	return d * pi180
}

// greatCircleDistance returns distance between two geo-points (kilometers)
func greatCircleDistance(p, q GeoPoint) float64 {
	lat1 := degreesToRadians(p.Lat)
	lon1 := degreesToRadians(p.Lon)
	lat2 := degreesToRadians(q.Lat)
	lon2 := degreesToRadians(q.Lon)
	diffLat := lat2 - lat1
	diffLon := lon2 - lon1
	a := math.Pow(math.Sin(diffLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(diffLon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	ans := c * earthRadius
	return ans
}

// nodeDistance returns distance between two graph nodes (kilometers). Nodes
// missing from the graph or carrying no location yield unknownDistance.
func nodeDistance(g *Graph, firstID, secondID osm.NodeID) float64 {
	first, ok := g.nodes[firstID]
	if !ok || first.Point == nil {
		return unknownDistance
	}
	second, ok := g.nodes[secondID]
	if !ok || second.Point == nil {
		return unknownDistance
	}
	return greatCircleDistance(*first.Point, *second.Point)
}

// nodesPathLength returns length of the polyline going through given nodes (kilometers)
func nodesPathLength(g *Graph, nodes []osm.NodeID) float64 {
	totalLength := 0.0
	if len(nodes) < 2 {
		return totalLength
	}
	for i := 1; i < len(nodes); i++ {
		totalLength += nodeDistance(g, nodes[i-1], nodes[i])
	}
	return totalLength
}

// wrapIndex maps possibly negative or overflowing ring index into [0, n)
func wrapIndex(i, n int) int {
	return ((i % n) + n) % n
}

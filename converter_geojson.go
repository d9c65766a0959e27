package osmsplit

import (
	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
)

// WaysFeatureCollection renders ways as GeoJSON LineString features carrying
// the way's tags plus 'way_id' and haversine 'length_meters' properties. When
// wayIDs is empty every way of the graph is rendered; otherwise unknown
// identifiers fail. Ways with fewer than two locatable nodes are skipped.
func WaysFeatureCollection(g *Graph, wayIDs []osm.WayID) (*geojson.FeatureCollection, error) {
	var ways []*Way
	if len(wayIDs) == 0 {
		ways = g.Ways()
	} else {
		ways = make([]*Way, 0, len(wayIDs))
		for _, wayID := range wayIDs {
			way, err := g.Way(wayID)
			if err != nil {
				return nil, errors.Wrap(err, "Can't collect ways for GeoJSON")
			}
			ways = append(ways, way)
		}
	}

	fc := geojson.NewFeatureCollection()
	for _, way := range ways {
		points := way.Geometry(g)
		if len(points) < 2 {
			continue
		}
		line := make(orb.LineString, 0, len(points))
		coords := make([][]float64, 0, len(points))
		for _, point := range points {
			line = append(line, orb.Point{point.Lon, point.Lat})
			coords = append(coords, []float64{point.Lon, point.Lat})
		}
		feature := geojson.NewLineStringFeature(coords)
		for _, tag := range way.Tags {
			feature.SetProperty(tag.Key, tag.Value)
		}
		feature.SetProperty("way_id", int64(way.ID))
		feature.SetProperty("length_meters", geo.LengthHaversign(line))
		fc.AddFeature(feature)
	}
	return fc, nil
}

// PrepareGeoJSONWays returns GeoJSON representation of the given ways
func PrepareGeoJSONWays(g *Graph, wayIDs []osm.WayID) (string, error) {
	fc, err := WaysFeatureCollection(g, wayIDs)
	if err != nil {
		return "", err
	}
	b, err := fc.MarshalJSON()
	if err != nil {
		return "", errors.Wrap(err, "Can't convert geometry to geojson format")
	}
	return string(b), nil
}

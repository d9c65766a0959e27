package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"strconv"
	"strings"
	"time"

	"github.com/LdDl/ch"
	"github.com/LdDl/osmsplit"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
)

var (
	osmFileName  = flag.String("file", "my_graph.osm.pbf", "Filename of *.osm.pbf or *.osm (XML) file")
	out          = flag.String("out", "my_graph_split.osm", "Filename of output OSM XML file with the splits applied")
	nodesStr     = flag.String("nodes", "", "Node IDs to split ways at (separated by commas)")
	waysStr      = flag.String("ways", "", "Way IDs to restrict the split to (separated by commas). Empty means every splittable way through the nodes")
	keepStr      = flag.String("keep", "longest", "Which fragment keeps the original way ID. Expected values: longest / first")
	planFileName = flag.String("plan", "", "Filename of YAML split plan. Overrides -nodes, -ways and -keep")
	geojsonOut   = flag.String("geojson", "", "Optional filename for GeoJSON preview of the created ways")
	doCheck      = flag.Bool("check", true, "Check routability between split ways' endpoints via contraction hierarchies?")
	verbose      = flag.Bool("verbose", true, "Print progress?")
)

func main() {

	flag.Parse()

	actions := []*osmsplit.SplitAction{}
	if *planFileName != "" {
		plan, err := osmsplit.LoadSplitPlan(*planFileName)
		if err != nil {
			fmt.Println(err)
			return
		}
		actions = plan.Actions()
	} else {
		nodeIDs, err := parseIDList(*nodesStr)
		if err != nil {
			fmt.Println(err)
			return
		}
		if len(nodeIDs) == 0 {
			fmt.Println("No split nodes given. Provide -nodes or -plan")
			return
		}
		splitNodes := make([]osm.NodeID, 0, len(nodeIDs))
		for _, id := range nodeIDs {
			splitNodes = append(splitNodes, osm.NodeID(id))
		}
		options := []func(*osmsplit.SplitAction){}
		wayIDs, err := parseIDList(*waysStr)
		if err != nil {
			fmt.Println(err)
			return
		}
		if len(wayIDs) > 0 {
			limitWays := make([]osm.WayID, 0, len(wayIDs))
			for _, id := range wayIDs {
				limitWays = append(limitWays, osm.WayID(id))
			}
			options = append(options, osmsplit.WithLimitWays(limitWays))
		}
		keepHistoryOn, err := osmsplit.ParseKeepHistoryMode(*keepStr)
		if err != nil {
			fmt.Println(err)
			return
		}
		options = append(options, osmsplit.WithKeepHistoryOn(keepHistoryOn))
		actions = append(actions, osmsplit.NewSplitAction(splitNodes, options...))
	}

	g, err := osmsplit.ImportFromOSMFile(*osmFileName, *verbose)
	if err != nil {
		fmt.Println(err)
		return
	}

	splitWays := []*osmsplit.Way{}
	createdWayIDs := []osm.WayID{}
	for i, action := range actions {
		if reason := action.Disabled(g); reason != "" {
			fmt.Printf("Skipping split action #%d: %s\n", i, reason)
			continue
		}
		// Remember the pre-split ways, their endpoints feed the routability check
		splitWays = append(splitWays, action.Ways(g)...)
		updated, err := action.Run(g)
		if err != nil {
			fmt.Println(err)
			return
		}
		g = updated
		createdWayIDs = append(createdWayIDs, action.CreatedWayIDs()...)
	}
	fmt.Printf("Created %d way(s): %v\n", len(createdWayIDs), createdWayIDs)

	if *geojsonOut != "" && len(createdWayIDs) > 0 {
		preview, err := osmsplit.PrepareGeoJSONWays(g, createdWayIDs)
		if err != nil {
			fmt.Println(err)
			return
		}
		err = ioutil.WriteFile(*geojsonOut, []byte(preview), 0644)
		if err != nil {
			fmt.Println(err)
			return
		}
		if *verbose {
			fmt.Printf("Saved GeoJSON preview to '%s'\n", *geojsonOut)
		}
	}

	if *doCheck {
		err = checkRoutability(g, splitWays, *verbose)
		if err != nil {
			fmt.Println(err)
			return
		}
	}

	err = osmsplit.ExportToOSMFile(g, *out)
	if err != nil {
		fmt.Println(err)
		return
	}
	if *verbose {
		fmt.Printf("Saved to '%s'\n", *out)
	}
}

// parseIDList parses a comma-separated identifier list
func parseIDList(raw string) ([]int64, error) {
	ids := []int64{}
	if strings.TrimSpace(raw) == "" {
		return ids, nil
	}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, errors.Wrap(err, "Can't parse identifier list")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// checkRoutability builds a road graph from the split result and verifies a
// route still exists between the endpoints of every way that has been split
func checkRoutability(g *osmsplit.Graph, splitWays []*osmsplit.Way, verbose bool) error {
	routeGraph := ch.Graph{}
	for _, way := range g.Ways() {
		for i := 1; i < len(way.Nodes); i++ {
			source := int64(way.Nodes[i-1])
			target := int64(way.Nodes[i])
			err := routeGraph.CreateVertex(source)
			if err != nil {
				return errors.Wrap(err, "Can't create source vertex")
			}
			err = routeGraph.CreateVertex(target)
			if err != nil {
				return errors.Wrap(err, "Can't create target vertex")
			}
			cost := segmentMeters(g, way.Nodes[i-1], way.Nodes[i])
			err = routeGraph.AddEdge(source, target, cost)
			if err != nil {
				return errors.Wrap(err, "Can't add forward edge")
			}
			err = routeGraph.AddEdge(target, source, cost)
			if err != nil {
				return errors.Wrap(err, "Can't add backward edge")
			}
		}
	}

	if verbose {
		fmt.Println("Starting contraction process....")
	}
	st := time.Now()
	routeGraph.PrepareContractionHierarchies()
	if verbose {
		fmt.Printf("Done contraction process in %v\n", time.Since(st))
	}

	for _, way := range splitWays {
		sourceNode := way.First()
		targetNode := way.Last()
		if sourceNode == targetNode {
			// Rings route to themselves trivially
			continue
		}
		cost, path := routeGraph.ShortestPath(int64(sourceNode), int64(targetNode))
		if cost < 0 || len(path) == 0 {
			fmt.Printf("[WARNING]: No route between nodes %d and %d after splitting way %d\n", sourceNode, targetNode, way.ID)
			continue
		}
		if verbose {
			fmt.Printf("Route between nodes %d and %d: %f meters (%d vertices)\n", sourceNode, targetNode, cost, len(path))
		}
	}
	return nil
}

// segmentMeters computes an edge weight, falling back to a unit weight when
// either node location is unknown
func segmentMeters(g *osmsplit.Graph, firstID, secondID osm.NodeID) float64 {
	first, errFirst := g.Node(firstID)
	second, errSecond := g.Node(secondID)
	if errFirst != nil || errSecond != nil || first.Point == nil || second.Point == nil {
		return 1.0
	}
	return geo.LengthHaversign(orb.LineString{
		orb.Point{first.Point.Lon, first.Point.Lat},
		orb.Point{second.Point.Lon, second.Point.Lat},
	})
}

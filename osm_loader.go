package osmsplit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
)

// OSMScanner is a stream of OSM objects, regardless of the source encoding
type OSMScanner interface {
	Scan() bool
	Close() error
	Err() error
	Object() osm.Object
}

// ImportFromOSMFile reads an *.osm (XML) or *.osm.pbf file into a graph.
// Every node, way and relation of the file is loaded, tags and relation
// members included, since splits may have to repair any relation.
func ImportFromOSMFile(fileName string, verbose bool) (*Graph, error) {
	if verbose {
		fmt.Printf("Opening file: '%s'...\n", fileName)
	}
	file, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "Can't open file")
	}
	defer file.Close()

	if verbose {
		fmt.Printf("\tProcessing entities... ")
	}
	st := time.Now()

	var scanner OSMScanner
	// Guess file extension and prepare correct scanner
	ext := filepath.Ext(fileName)
	switch ext {
	case ".osm", ".xml":
		scanner = osmxml.New(context.Background(), file)
	case ".pbf", ".osm.pbf":
		scanner = osmpbf.New(context.Background(), file, 4)
	default:
		return nil, fmt.Errorf("File extension '%s' for file '%s' is not handled yet", ext, fileName)
	}
	defer scanner.Close()

	nodes := []*Node{}
	ways := []*Way{}
	relations := []*Relation{}
	for scanner.Scan() {
		obj := scanner.Object()
		switch obj.ObjectID().Type() {
		case "node":
			node := obj.(*osm.Node)
			nodes = append(nodes, NewNode(node.ID, &GeoPoint{Lat: node.Lat, Lon: node.Lon}, node.Tags))
		case "way":
			way := obj.(*osm.Way)
			wayNodes := make([]osm.NodeID, 0, len(way.Nodes))
			for _, wayNode := range way.Nodes {
				wayNodes = append(wayNodes, wayNode.ID)
			}
			ways = append(ways, NewWay(way.ID, way.Tags, wayNodes))
		case "relation":
			relation := obj.(*osm.Relation)
			relations = append(relations, NewRelation(relation.ID, relation.Tags, relation.Members))
		}
	}
	err = scanner.Err()
	if err != nil {
		return nil, errors.Wrap(err, "Can't scan file")
	}

	if verbose {
		fmt.Printf("Done in %v\n", time.Since(st))
		fmt.Printf("Number of nodes: %d\n", len(nodes))
		fmt.Printf("Number of ways: %d\n", len(ways))
		fmt.Printf("Number of relations: %d\n", len(relations))
	}
	return NewGraph(nodes, ways, relations), nil
}

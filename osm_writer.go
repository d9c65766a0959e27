package osmsplit

import (
	"bytes"
	"encoding/xml"
	"io/ioutil"

	"github.com/paulmach/osm"
	"github.com/pkg/errors"
)

// MarshalOSM renders the graph as an OSM XML document. Entities are written
// sorted by identifier so repeated exports of the same graph are identical.
func MarshalOSM(g *Graph) ([]byte, error) {
	doc := &osm.OSM{}
	for _, node := range g.Nodes() {
		outNode := &osm.Node{
			ID:      node.ID,
			Visible: true,
			Tags:    copyTags(node.Tags),
		}
		if node.Point != nil {
			outNode.Lat = node.Point.Lat
			outNode.Lon = node.Point.Lon
		}
		doc.Nodes = append(doc.Nodes, outNode)
	}
	for _, way := range g.Ways() {
		outWay := &osm.Way{
			ID:      way.ID,
			Visible: true,
			Tags:    copyTags(way.Tags),
		}
		for _, nodeID := range way.Nodes {
			outWay.Nodes = append(outWay.Nodes, osm.WayNode{ID: nodeID})
		}
		doc.Ways = append(doc.Ways, outWay)
	}
	for _, relation := range g.Relations() {
		doc.Relations = append(doc.Relations, &osm.Relation{
			ID:      relation.ID,
			Visible: true,
			Tags:    copyTags(relation.Tags),
			Members: copyMembers(relation.Members),
		})
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "Can't marshal OSM document")
	}
	buf := bytes.Buffer{}
	buf.WriteString(xml.Header)
	buf.Write(body)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// ExportToOSMFile writes the graph to an OSM XML file
func ExportToOSMFile(g *Graph, fileName string) error {
	data, err := MarshalOSM(g)
	if err != nil {
		return err
	}
	err = ioutil.WriteFile(fileName, data, 0644)
	if err != nil {
		return errors.Wrap(err, "Can't write OSM file")
	}
	return nil
}

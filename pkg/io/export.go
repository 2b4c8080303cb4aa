package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/matzehuels/geograph/pkg/attr"
	"github.com/matzehuels/geograph/pkg/network"
)

type graph struct {
	Meta  attr.Set `json:"meta,omitempty"`
	Nodes []node   `json:"nodes"`
	Edges []edge   `json:"edges"`
}

type node struct {
	ID    string      `json:"id"`
	Pos   *[2]float64 `json:"pos,omitempty"`
	Attrs attr.Set    `json:"attrs,omitempty"`
}

type edge struct {
	ID       string       `json:"id"`
	From     string       `json:"from"`
	To       string       `json:"to"`
	Directed bool         `json:"directed,omitempty"`
	Attrs    attr.Set     `json:"attrs,omitempty"`
	Geometry [][2]float64 `json:"geometry,omitempty"`
}

// WriteJSON encodes a network as JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(g *network.Graph, w io.Writer) error {
	out := graph{
		Meta:  g.Meta(),
		Nodes: make([]node, 0, g.NodeCount()),
		Edges: make([]edge, 0, g.EdgeCount()),
	}

	for _, n := range g.Nodes() {
		nd := node{ID: n.ID, Attrs: n.Attrs}
		if n.Pos != (orb.Point{}) {
			pos := [2]float64(n.Pos)
			nd.Pos = &pos
		}
		out.Nodes = append(out.Nodes, nd)
	}
	for _, e := range g.Edges() {
		ed := edge{ID: e.ID, From: e.From, To: e.To, Directed: e.Directed, Attrs: e.Attrs}
		for _, p := range e.Geometry {
			ed.Geometry = append(ed.Geometry, [2]float64(p))
		}
		out.Edges = append(out.Edges, ed)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a network to a JSON file at path.
func ExportJSON(g *network.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}

// WriteGeoJSON encodes a network as a GeoJSON FeatureCollection: one Point
// per node and one LineString per edge. Edges without a recorded polyline
// are drawn as a straight segment between their nodes.
func WriteGeoJSON(g *network.Graph, w io.Writer) error {
	fc := geojson.NewFeatureCollection()
	for _, n := range g.Nodes() {
		f := geojson.NewFeature(n.Pos)
		f.ID = n.ID
		f.Properties = properties(n.Attrs, "node")
		fc.Append(f)
	}
	for _, e := range g.Edges() {
		line := e.Geometry
		if len(line) < 2 {
			from, _ := g.Node(e.From)
			to, _ := g.Node(e.To)
			line = orb.LineString{from.Pos, to.Pos}
		}
		f := geojson.NewFeature(line)
		f.ID = e.ID
		f.Properties = properties(e.Attrs, "edge")
		f.Properties["from"] = e.From
		f.Properties["to"] = e.To
		f.Properties["directed"] = e.Directed
		fc.Append(f)
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func properties(set attr.Set, kind string) geojson.Properties {
	p := make(geojson.Properties, len(set)+1)
	for k, v := range set {
		p[k] = v
	}
	p["element"] = kind
	return p
}

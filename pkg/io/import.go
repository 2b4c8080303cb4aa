package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/paulmach/orb"

	"github.com/matzehuels/geograph/pkg/network"
)

// ReadJSON decodes a JSON network from r.
//
// The input must be a JSON object with "nodes" and "edges" arrays:
//
//	{
//	  "nodes": [{"id": "a", "pos": [0, 0]}, {"id": "b"}],
//	  "edges": [{"id": "e1", "from": "a", "to": "b", "directed": true}]
//	}
//
// Errors are wrapped with the offending node or edge id; use errors.Is
// with the [network] sentinel errors to check the cause. ReadJSON does not
// close r.
func ReadJSON(r io.Reader) (*network.Graph, error) {
	var data graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	g := network.New(data.Meta)
	for _, n := range data.Nodes {
		nd := network.Node{ID: n.ID, Attrs: n.Attrs}
		if n.Pos != nil {
			nd.Pos = orb.Point(*n.Pos)
		}
		if err := g.Insert(nd); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range data.Edges {
		ed := network.Edge{ID: e.ID, From: e.From, To: e.To, Directed: e.Directed, Attrs: e.Attrs}
		for _, p := range e.Geometry {
			ed.Geometry = append(ed.Geometry, orb.Point(p))
		}
		if err := g.Connect(ed); err != nil {
			return nil, fmt.Errorf("edge %s %s->%s: %w", e.ID, e.From, e.To, err)
		}
	}

	return g, nil
}

// ImportJSON reads a JSON file at path and returns the decoded network.
func ImportJSON(path string) (*network.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

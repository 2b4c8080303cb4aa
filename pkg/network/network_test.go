package network

import (
	"errors"
	"slices"
	"testing"

	"github.com/paulmach/orb"
)

func triangle(t *testing.T) *Graph {
	t.Helper()
	g := New(nil)
	for _, id := range []string{"a", "b", "c"} {
		if err := g.AddNode(id); err != nil {
			t.Fatal(err)
		}
	}
	mustEdge := func(id, from, to string, directed bool) {
		if err := g.AddEdge(id, from, to, directed); err != nil {
			t.Fatal(err)
		}
	}
	mustEdge("e1", "a", "b", false)
	mustEdge("e2", "b", "c", true)
	mustEdge("e3", "c", "a", false)
	return g
}

func TestAddNodeErrors(t *testing.T) {
	g := New(nil)
	if err := g.AddNode(""); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(\"\") = %v", err)
	}
	if err := g.AddNode("a"); err != nil {
		t.Fatal(err)
	}
	if err := g.AddNode("a"); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("duplicate AddNode = %v", err)
	}
}

func TestAddEdgeErrors(t *testing.T) {
	g := triangle(t)
	tests := []struct {
		name         string
		id, from, to string
		want         error
	}{
		{"empty id", "", "a", "b", ErrInvalidEdgeID},
		{"duplicate id", "e1", "a", "c", ErrDuplicateEdgeID},
		{"unknown source", "e9", "x", "a", ErrUnknownSourceNode},
		{"unknown target", "e9", "a", "x", ErrUnknownTargetNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.AddEdge(tt.id, tt.from, tt.to, false); !errors.Is(err, tt.want) {
				t.Errorf("AddEdge = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEdgeBetweenEitherDirection(t *testing.T) {
	g := triangle(t)
	for _, pair := range [][2]string{{"a", "b"}, {"b", "a"}} {
		if id, ok := g.EdgeBetween(pair[0], pair[1]); !ok || id != "e1" {
			t.Errorf("EdgeBetween(%s, %s) = %q, %v", pair[0], pair[1], id, ok)
		}
	}
	if id, ok := g.EdgeBetween("c", "b"); !ok || id != "e2" {
		t.Errorf("EdgeBetween ignores direction, got %q, %v", id, ok)
	}
	if _, ok := g.EdgeBetween("a", "a"); ok {
		t.Error("no loop at a")
	}
}

func TestSetAttribute(t *testing.T) {
	g := triangle(t)
	if err := g.SetAttribute("a", "Z_LEVEL", "1"); err != nil {
		t.Fatal(err)
	}
	if err := g.SetAttribute("e2", "name", "Main St"); err != nil {
		t.Fatal(err)
	}
	if n, _ := g.Node("a"); n.Attrs["Z_LEVEL"] != "1" {
		t.Errorf("node attrs = %v", n.Attrs)
	}
	if e, _ := g.Edge("e2"); e.Attrs["name"] != "Main St" {
		t.Errorf("edge attrs = %v", e.Attrs)
	}
	if err := g.SetAttribute("zz", "k", 1); !errors.Is(err, ErrUnknownElement) {
		t.Errorf("unknown element = %v", err)
	}

	_ = g.AddNode("e1")
	if err := g.SetAttribute("e1", "k", 1); !errors.Is(err, ErrAmbiguousElement) {
		t.Errorf("ambiguous element = %v", err)
	}
}

func TestNeighborsAndDegree(t *testing.T) {
	g := triangle(t)
	tests := []struct {
		id        string
		neighbors []string
		degree    int
	}{
		{"a", []string{"b", "c"}, 2},
		{"b", []string{"a", "c"}, 2},
		{"c", []string{"a"}, 2}, // e2 is directed b->c
	}
	for _, tt := range tests {
		if got := g.Neighbors(tt.id); !slices.Equal(got, tt.neighbors) {
			t.Errorf("Neighbors(%s) = %v, want %v", tt.id, got, tt.neighbors)
		}
		if got := g.Degree(tt.id); got != tt.degree {
			t.Errorf("Degree(%s) = %d, want %d", tt.id, got, tt.degree)
		}
	}

	_ = g.AddEdge("loop", "a", "a", false)
	if got := g.Degree("a"); got != 4 {
		t.Errorf("Degree with loop = %d, want 4", got)
	}
}

func TestComponents(t *testing.T) {
	g := triangle(t)
	_ = g.AddNode("x")
	_ = g.AddNode("y")
	_ = g.AddEdge("e4", "x", "y", true)
	_ = g.AddNode("lonely")
	if got := g.Components(); got != 3 {
		t.Errorf("Components = %d, want 3", got)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate = %v", err)
	}
}

func TestGeometry(t *testing.T) {
	g := triangle(t)
	if err := g.SetPosition("a", orb.Point{1, 2}); err != nil {
		t.Fatal(err)
	}
	line := orb.LineString{{1, 2}, {3, 4}}
	if err := g.SetGeometry("e1", line); err != nil {
		t.Fatal(err)
	}
	line[0] = orb.Point{9, 9}

	if n, _ := g.Node("a"); n.Pos != (orb.Point{1, 2}) {
		t.Errorf("Pos = %v", n.Pos)
	}
	if e, _ := g.Edge("e1"); e.Geometry[0] != (orb.Point{1, 2}) {
		t.Error("SetGeometry must copy the line")
	}
	if err := g.SetPosition("e1", orb.Point{}); !errors.Is(err, ErrUnknownElement) {
		t.Errorf("SetPosition on an edge = %v", err)
	}
}

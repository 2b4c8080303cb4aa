package dot

import (
	"strings"
	"testing"

	"github.com/paulmach/orb"

	"github.com/matzehuels/geograph/pkg/attr"
	"github.com/matzehuels/geograph/pkg/network"
)

func sample() *network.Graph {
	g := network.New(nil)
	_ = g.Insert(network.Node{ID: "a", Pos: orb.Point{0, 0}})
	_ = g.Insert(network.Node{ID: "b", Pos: orb.Point{100, 0}, Attrs: attr.Set{"ADDR_ST": "Main St"}})
	_ = g.Insert(network.Node{ID: "c", Pos: orb.Point{100, 50}})
	_ = g.AddEdge("e1", "a", "b", false)
	_ = g.AddEdge("e2", "b", "c", true)
	return g
}

func TestToDOT(t *testing.T) {
	out := ToDOT(sample(), Options{Width: 720})

	for _, want := range []string{
		"digraph G {",
		`"a" [label="a", pos="0.00,0.00!"];`,
		`"b" [label="b", pos="10.00,0.00!"];`,
		`"c" [label="c", pos="10.00,5.00!"];`,
		`"a" -> "b" [dir=none];`,
		`"b" -> "c";`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT output missing %q:\n%s", want, out)
		}
	}
}

func TestToDOTDetailed(t *testing.T) {
	out := ToDOT(sample(), Options{Detailed: true})
	if !strings.Contains(out, `label="b\nADDR_ST: Main St"`) {
		t.Errorf("detailed label missing:\n%s", out)
	}
}

func TestFitDegenerate(t *testing.T) {
	g := network.New(nil)
	_ = g.Insert(network.Node{ID: "only", Pos: orb.Point{5, 5}})
	if scale, minX, minY := fit(g, 0); scale != 1 || minX != 5 || minY != 5 {
		t.Errorf("fit = %v, %v, %v", scale, minX, minY)
	}
	if scale, _, _ := fit(network.New(nil), 100); scale != 1 {
		t.Errorf("empty fit scale = %v", scale)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.00 50.00" xmlns="x"><g/></svg>`)
	got := string(normalizeViewBox(in))
	if !strings.Contains(got, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox = %s", got)
	}
	if string(normalizeViewBox([]byte("<svg>"))) != "<svg>" {
		t.Error("svg without viewBox must pass through")
	}
}

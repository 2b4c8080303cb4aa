package spatial

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/paulmach/orb"

	"github.com/matzehuels/geograph/pkg/point"
)

func newPoint(id string, x, y float64) *point.Point {
	return point.New(id, orb.Point{x, y})
}

func ids(ps []*point.Point) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID()
	}
	return out
}

func TestAddContainsRemove(t *testing.T) {
	ix := New(DefaultOptions())
	p := newPoint("a", 10, 10)

	if ix.Contains(p) {
		t.Fatal("empty index should not contain a")
	}
	ix.Add(p)
	if !ix.Contains(p) || ix.Len() != 1 {
		t.Fatalf("Contains = %v, Len = %d after Add", ix.Contains(p), ix.Len())
	}
	if !ix.Remove(p) {
		t.Fatal("Remove returned false for a stored point")
	}
	if ix.Contains(p) || ix.Len() != 0 {
		t.Error("point still present after Remove")
	}
	if ix.Remove(p) {
		t.Error("second Remove should report false")
	}
	if got := ix.SearchAt(10, 10); len(got) != 0 {
		t.Errorf("SearchAt after Remove = %v", ids(got))
	}
}

func TestSearchAtTolerance(t *testing.T) {
	ix := New(Options{Epsilon: 0.5})
	ix.Add(newPoint("a", 0, 0))
	ix.Add(newPoint("b", 0.3, 0.4)) // distance 0.5
	ix.Add(newPoint("c", 0.6, 0))

	got := ids(ix.SearchAt(0, 0))
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("SearchAt(0,0) = %v, want [a b]", got)
	}
}

func TestSearchAtSkipsSuperseded(t *testing.T) {
	ix := New(DefaultOptions())
	a := newPoint("a", 1, 1)
	b := newPoint("b", 1, 1)
	ix.Add(a)
	ix.Add(b)
	a.Supersede(b)

	got := ids(ix.SearchAt(1, 1))
	if len(got) != 1 || got[0] != "b" {
		t.Errorf("SearchAt = %v, want [b]", got)
	}
	if !ix.Contains(a) {
		t.Error("superseded points stay stored")
	}
}

func TestEveryInsertedPointIsFound(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	ix := New(Options{Epsilon: 0, LeafCapacity: 4, MaxDepth: 12, ReorganizeEvery: 50})

	var pts []*point.Point
	for i := range 2000 {
		p := newPoint(fmt.Sprintf("p%d", i), r.Float64()*1000-500, r.Float64()*1000-500)
		pts = append(pts, p)
		ix.Add(p)
	}

	check := func(stage string) {
		for _, p := range pts {
			found := false
			for _, hit := range ix.SearchAt(p.X(), p.Y()) {
				if hit == p {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("%s: SearchAt(%v) missed %s", stage, p.Position(), p.ID())
			}
		}
	}

	check("amortized")
	ix.Reorganize()
	check("rebuilt")

	st := ix.Stats()
	if st.Leaves < 2 {
		t.Errorf("expected the tree to split, got %d leaves", st.Leaves)
	}
	if st.Depth > 12 {
		t.Errorf("Depth = %d exceeds MaxDepth", st.Depth)
	}
}

func TestSplitBoundary(t *testing.T) {
	ix := New(Options{Epsilon: 0, LeafCapacity: 1, MaxDepth: 8})
	ix.Add(newPoint("sw", 0, 0))
	ix.Add(newPoint("ne", 10, 10))
	ix.Reorganize()

	// The root splits at (5, 5); put points exactly on both split lines.
	on := newPoint("mid", 5, 5)
	edgeX := newPoint("edge-x", 5, 2)
	edgeY := newPoint("edge-y", 2, 5)
	ix.Add(on)
	ix.Add(edgeX)
	ix.Add(edgeY)

	for _, p := range []*point.Point{on, edgeX, edgeY} {
		got := ix.SearchAt(p.X(), p.Y())
		if len(got) != 1 || got[0] != p {
			t.Errorf("SearchAt(%v) = %v, want [%s]", p.Position(), ids(got), p.ID())
		}
	}

	ix.Reorganize()
	for _, p := range []*point.Point{on, edgeX, edgeY} {
		if got := ix.SearchAt(p.X(), p.Y()); len(got) != 1 {
			t.Errorf("after rebuild SearchAt(%v) = %v", p.Position(), ids(got))
		}
	}
}

func TestToleranceAcrossSplitLine(t *testing.T) {
	ix := New(Options{Epsilon: 0.01, LeafCapacity: 1, MaxDepth: 8})
	ix.Add(newPoint("left", 0, 0))
	ix.Add(newPoint("right", 10, 10))
	ix.Reorganize()

	near := newPoint("near", 4.995, 5)
	ix.Add(near)

	got := ix.SearchAt(5, 5)
	if len(got) != 1 || got[0] != near {
		t.Errorf("SearchAt(5,5) = %v, want [near]", ids(got))
	}
}

func TestPointsOutsideRebuiltBounds(t *testing.T) {
	ix := New(Options{LeafCapacity: 1, MaxDepth: 4})
	ix.Add(newPoint("a", 0, 0))
	ix.Add(newPoint("b", 1, 1))
	ix.Reorganize()

	far := newPoint("far", -1e6, 1e6)
	ix.Add(far)
	if got := ix.SearchAt(-1e6, 1e6); len(got) != 1 || got[0] != far {
		t.Errorf("SearchAt outside bounds = %v", ids(got))
	}
}

func TestAutomaticReorganize(t *testing.T) {
	ix := New(Options{LeafCapacity: 2, MaxDepth: 8, ReorganizeEvery: 10})
	for i := range 11 {
		ix.Add(newPoint(fmt.Sprintf("p%d", i), float64(i), float64(i)))
	}

	st := ix.Stats()
	if st.Rebuilds != 1 {
		t.Errorf("Rebuilds = %d, want 1", st.Rebuilds)
	}
	if st.Mutations != 0 {
		t.Errorf("Mutations = %d after rebuild, want 0", st.Mutations)
	}
}

func TestReorganizeCompactsRemoved(t *testing.T) {
	ix := New(Options{ReorganizeEvery: -1})
	a := newPoint("a", 0, 0)
	b := newPoint("b", 1, 1)
	ix.Add(a)
	ix.Add(b)
	ix.Remove(a)

	if st := ix.Stats(); st.Slots != 2 {
		t.Fatalf("Slots = %d before rebuild, want 2", st.Slots)
	}
	ix.Reorganize()
	if st := ix.Stats(); st.Slots != 1 || st.Points != 1 {
		t.Errorf("Stats after rebuild = %+v", st)
	}
	if got, ok := ix.Get("b"); !ok || got != b {
		t.Error("Get(b) failed after compaction")
	}
}

func TestIdenticalPointsDoNotRecurse(t *testing.T) {
	ix := New(Options{LeafCapacity: 1, MaxDepth: 16})
	for i := range 10 {
		ix.Add(newPoint(fmt.Sprintf("p%d", i), 3, 3))
	}
	ix.Reorganize()

	if st := ix.Stats(); st.Cells != 1 {
		t.Errorf("Cells = %d, want a single leaf for a flat bound", st.Cells)
	}
	if got := ix.SearchAt(3, 3); len(got) != 10 {
		t.Errorf("SearchAt = %d points, want 10", len(got))
	}
}

func TestPointsInsertionOrder(t *testing.T) {
	ix := New(DefaultOptions())
	ix.Add(newPoint("b", 5, 5))
	ix.Add(newPoint("a", -5, -5))
	ix.Add(newPoint("c", 0, 0))

	got := ids(ix.Points())
	want := []string{"b", "a", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Points() = %v, want %v", got, want)
		}
	}
}

func BenchmarkAddAndSearch(b *testing.B) {
	r := rand.New(rand.NewPCG(1, 2))
	for b.Loop() {
		ix := New(DefaultOptions())
		for i := range 5000 {
			x, y := r.Float64()*1e4, r.Float64()*1e4
			ix.Add(newPoint(fmt.Sprintf("p%d", i), x, y))
			ix.SearchAt(x, y)
		}
	}
}

package spatial

import (
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/matzehuels/geograph/pkg/point"
)

// Default tuning values.
const (
	DefaultEpsilon         = 1e-7
	DefaultLeafCapacity    = 32
	DefaultMaxDepth        = 16
	DefaultReorganizeEvery = 500
)

// Options tunes the quadtree.
type Options struct {
	// Epsilon is the colocation tolerance: SearchAt returns points whose
	// Euclidean distance to the query is at most Epsilon.
	Epsilon float64
	// LeafCapacity is the number of points a leaf holds before a rebuild
	// splits it.
	LeafCapacity int
	// MaxDepth bounds splitting; leaves at this depth never split.
	MaxDepth int
	// ReorganizeEvery triggers an automatic rebuild once more than this many
	// mutations happened since the last one. Zero or negative disables it.
	ReorganizeEvery int
}

// DefaultOptions returns the default tuning.
func DefaultOptions() Options {
	return Options{
		Epsilon:         DefaultEpsilon,
		LeafCapacity:    DefaultLeafCapacity,
		MaxDepth:        DefaultMaxDepth,
		ReorganizeEvery: DefaultReorganizeEvery,
	}
}

func (o Options) withDefaults() Options {
	if o.Epsilon < 0 {
		o.Epsilon = 0
	}
	if o.LeafCapacity <= 0 {
		o.LeafCapacity = DefaultLeafCapacity
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	return o
}

// Stats describes the current shape of the tree.
type Stats struct {
	Points    int // live points
	Slots     int // arena slots, including removed ones awaiting compaction
	Cells     int
	Leaves    int
	Depth     int
	Mutations int // mutations since the last rebuild
	Rebuilds  int
}

type slot struct {
	p    *point.Point
	live bool
}

type cell struct {
	bound    orb.Bound
	mid      orb.Point
	depth    int
	children [4]int32 // -1 for leaves
	start    int32    // leaf range into Index.order
	end      int32
	pending  []int32 // slots inserted since the last rebuild
}

func (c *cell) leaf() bool { return c.children[0] < 0 }

var noChildren = [4]int32{-1, -1, -1, -1}

// Index is a point quadtree kept in an arena: points live in a flat slot
// slice, cells in another, and cells refer to children and points by index.
//
// The zero value is not usable; create indexes with [New].
// Index is not safe for concurrent use.
type Index struct {
	opts  Options
	slots []slot
	byID  map[string]int32
	order []int32
	cells []cell

	live      int
	mutations int
	rebuilds  int
}

// New creates an empty index.
func New(opts Options) *Index {
	ix := &Index{opts: opts.withDefaults(), byID: make(map[string]int32)}
	ix.cells = []cell{{children: noChildren}}
	return ix
}

// Options returns the tuning in effect.
func (ix *Index) Options() Options { return ix.opts }

// Len returns the number of live points.
func (ix *Index) Len() int { return ix.live }

// Add inserts p. Adding a point whose id is already present replaces the
// stored instance in place.
func (ix *Index) Add(p *point.Point) {
	if p == nil {
		return
	}
	if s, ok := ix.byID[p.ID()]; ok {
		ix.slots[s].p = p
		return
	}

	s := int32(len(ix.slots))
	ix.slots = append(ix.slots, slot{p: p, live: true})
	ix.byID[p.ID()] = s
	leaf := ix.locate(p.Position())
	ix.cells[leaf].pending = append(ix.cells[leaf].pending, s)
	ix.live++
	ix.mutate()
}

// Remove deletes the point with p's id. It reports whether one was present.
func (ix *Index) Remove(p *point.Point) bool {
	if p == nil {
		return false
	}
	s, ok := ix.byID[p.ID()]
	if !ok {
		return false
	}
	delete(ix.byID, p.ID())
	ix.slots[s] = slot{}
	ix.live--
	ix.mutate()
	return true
}

// Contains reports whether a point with p's id is stored.
func (ix *Index) Contains(p *point.Point) bool {
	if p == nil {
		return false
	}
	_, ok := ix.byID[p.ID()]
	return ok
}

// Get returns the stored point with the given id.
func (ix *Index) Get(id string) (*point.Point, bool) {
	s, ok := ix.byID[id]
	if !ok {
		return nil, false
	}
	return ix.slots[s].p, true
}

// SearchAt returns the live, non-superseded points within Epsilon of (x, y),
// in insertion order.
func (ix *Index) SearchAt(x, y float64) []*point.Point {
	q := orb.Point{x, y}
	eps := ix.opts.Epsilon
	eps2 := eps * eps

	var hits []int32
	stack := []int32{0}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		c := &ix.cells[id]

		if c.leaf() {
			hits = ix.scan(hits, ix.order[c.start:c.end], q, eps2)
			hits = ix.scan(hits, c.pending, q, eps2)
			continue
		}
		for quad, child := range c.children {
			if touches(c.mid, quad, q, eps) {
				stack = append(stack, child)
			}
		}
	}

	slices.Sort(hits)
	out := make([]*point.Point, len(hits))
	for i, s := range hits {
		out[i] = ix.slots[s].p
	}
	return out
}

func (ix *Index) scan(hits, slotIDs []int32, q orb.Point, eps2 float64) []int32 {
	for _, s := range slotIDs {
		sl := ix.slots[s]
		if !sl.live || sl.p.IsSuperseded() {
			continue
		}
		if planar.DistanceSquared(sl.p.Position(), q) <= eps2 {
			hits = append(hits, s)
		}
	}
	return hits
}

// Points returns the live points in insertion order, superseded ones included.
func (ix *Index) Points() []*point.Point {
	out := make([]*point.Point, 0, ix.live)
	for _, sl := range ix.slots {
		if sl.live {
			out = append(out, sl.p)
		}
	}
	return out
}

// Stats reports the tree shape.
func (ix *Index) Stats() Stats {
	st := Stats{
		Points:    ix.live,
		Slots:     len(ix.slots),
		Cells:     len(ix.cells),
		Mutations: ix.mutations,
		Rebuilds:  ix.rebuilds,
	}
	for i := range ix.cells {
		c := &ix.cells[i]
		if c.leaf() {
			st.Leaves++
		}
		st.Depth = max(st.Depth, c.depth)
	}
	return st
}

func (ix *Index) mutate() {
	ix.mutations++
	if every := ix.opts.ReorganizeEvery; every > 0 && ix.mutations > every {
		ix.Reorganize()
	}
}

// locate returns the leaf whose half-open region holds pos. The root's outer
// edges are open-ended, so every coordinate has exactly one leaf.
func (ix *Index) locate(pos orb.Point) int32 {
	id := int32(0)
	for !ix.cells[id].leaf() {
		c := &ix.cells[id]
		id = c.children[quadrant(c.mid, pos)]
	}
	return id
}

// quadrant numbers children 0=SW, 1=SE, 2=NW, 3=NE. Coordinates equal to the
// split line go east/north.
func quadrant(mid, pos orb.Point) int {
	q := 0
	if pos[0] >= mid[0] {
		q |= 1
	}
	if pos[1] >= mid[1] {
		q |= 2
	}
	return q
}

// touches reports whether the eps box around q reaches quadrant quad.
func touches(mid orb.Point, quad int, q orb.Point, eps float64) bool {
	var xOK, yOK bool
	if quad&1 == 0 {
		xOK = q[0]-eps < mid[0]
	} else {
		xOK = q[0]+eps >= mid[0]
	}
	if quad&2 == 0 {
		yOK = q[1]-eps < mid[1]
	} else {
		yOK = q[1]+eps >= mid[1]
	}
	return xOK && yOK
}

func childBound(b orb.Bound, mid orb.Point, quad int) orb.Bound {
	out := b
	if quad&1 == 0 {
		out.Max[0] = mid[0]
	} else {
		out.Min[0] = mid[0]
	}
	if quad&2 == 0 {
		out.Max[1] = mid[1]
	} else {
		out.Min[1] = mid[1]
	}
	return out
}

package spatial

import (
	"github.com/paulmach/orb"
)

// Reorganize compacts the arena and rebuilds the tree over the bounding box
// of the live points. Call it at the end of an ingestion batch; Add and
// Remove call it on their own every ReorganizeEvery mutations.
func (ix *Index) Reorganize() {
	slots := make([]slot, 0, ix.live)
	for _, sl := range ix.slots {
		if sl.live {
			slots = append(slots, sl)
		}
	}

	ix.slots = slots
	ix.byID = make(map[string]int32, len(slots))
	items := make([]int32, len(slots))
	var bound orb.Bound
	for i, sl := range slots {
		ix.byID[sl.p.ID()] = int32(i)
		items[i] = int32(i)
		if i == 0 {
			bound = sl.p.Position().Bound()
		} else {
			bound = bound.Extend(sl.p.Position())
		}
	}

	ix.cells = ix.cells[:0]
	ix.order = make([]int32, 0, len(items))
	ix.build(bound, items, 0)

	ix.live = len(slots)
	ix.mutations = 0
	ix.rebuilds++
}

// build appends the cell for bound and returns its index. Cells are appended
// while recursing, so the parent is addressed by index, never by pointer.
func (ix *Index) build(bound orb.Bound, items []int32, depth int) int32 {
	id := int32(len(ix.cells))
	ix.cells = append(ix.cells, cell{
		bound:    bound,
		mid:      bound.Center(),
		depth:    depth,
		children: noChildren,
	})

	flat := bound.Min == bound.Max
	if len(items) <= ix.opts.LeafCapacity || depth >= ix.opts.MaxDepth || flat {
		start := int32(len(ix.order))
		ix.order = append(ix.order, items...)
		ix.cells[id].start = start
		ix.cells[id].end = int32(len(ix.order))
		return id
	}

	mid := ix.cells[id].mid
	var parts [4][]int32
	for _, s := range items {
		q := quadrant(mid, ix.slots[s].p.Position())
		parts[q] = append(parts[q], s)
	}

	var children [4]int32
	for q := range parts {
		children[q] = ix.build(childBound(bound, mid, q), parts[q], depth+1)
	}
	ix.cells[id].children = children
	return id
}

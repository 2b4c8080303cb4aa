// Package point defines the spatial identity that coincident feature
// endpoints collapse into.
//
// A [Point] has one position and any number of attribute sets, one per
// contributing feature. Merge rules fuse points by moving attribute sets
// from one instance to another; the graph node a point maps to is bound
// exactly once.
package point

import (
	"maps"
	"slices"

	"github.com/paulmach/orb"

	"github.com/matzehuels/geograph/pkg/attr"
	"github.com/matzehuels/geograph/pkg/errors"
)

// Point is a position plus the attribute sets of every feature that
// contributed to it.
//
// The zero value is not usable; create points with [New].
// Point is not safe for concurrent use.
type Point struct {
	id   string
	pos  orb.Point
	sets map[string]attr.Set

	node  string
	bound bool
	edges []string

	supersededBy *Point
}

// New creates a point with no attribute sets.
func New(id string, pos orb.Point) *Point {
	return &Point{id: id, pos: pos, sets: make(map[string]attr.Set)}
}

// NewFromFeature creates a point carrying one feature's attribute set.
func NewFromFeature(id string, pos orb.Point, featureID string, set attr.Set) *Point {
	p := New(id, pos)
	p.Add(featureID, set)
	return p
}

// ID returns the point identifier.
func (p *Point) ID() string { return p.id }

// Position returns the point coordinate.
func (p *Point) Position() orb.Point { return p.pos }

// X returns the first coordinate.
func (p *Point) X() float64 { return p.pos[0] }

// Y returns the second coordinate.
func (p *Point) Y() float64 { return p.pos[1] }

// Add stores set as the contribution of featureID, replacing any previous
// contribution from the same feature.
func (p *Point) Add(featureID string, set attr.Set) {
	if set == nil {
		set = attr.Set{}
	}
	p.sets[featureID] = set
}

// Merge copies every feature-id → attribute set entry of other into p,
// overwriting on feature-id collision. It never fails.
func (p *Point) Merge(other *Point) {
	if other == nil || other == p {
		return
	}
	maps.Copy(p.sets, other.sets)
}

// FeatureIDs returns the contributing feature ids in sorted order.
func (p *Point) FeatureIDs() []string {
	return slices.Sorted(maps.Keys(p.sets))
}

// Set returns the attribute set contributed by featureID.
func (p *Point) Set(featureID string) (attr.Set, bool) {
	s, ok := p.sets[featureID]
	return s, ok
}

// SetCount returns the number of contributing features.
func (p *Point) SetCount() int { return len(p.sets) }

// HasAttribute reports whether any attribute set defines key.
func (p *Point) HasAttribute(key string) bool {
	for _, s := range p.sets {
		if s.Has(key) {
			return true
		}
	}
	return false
}

// Values returns every value defined for key, ordered by feature id.
func (p *Point) Values(key string) []any {
	var out []any
	for _, fid := range p.FeatureIDs() {
		if v, ok := p.sets[fid][key]; ok {
			out = append(out, v)
		}
	}
	return out
}

// Attribute returns the value of key from the first feature (by id) that
// defines it.
func (p *Point) Attribute(key string) (any, bool) {
	vs := p.Values(key)
	if len(vs) == 0 {
		return nil, false
	}
	return vs[0], true
}

// Flatten unions the attribute sets of every feature except the excluded
// ones, in feature-id order, so later features win on key collision.
func (p *Point) Flatten(exclude ...string) attr.Set {
	out := attr.Set{}
	for _, fid := range p.FeatureIDs() {
		if slices.Contains(exclude, fid) {
			continue
		}
		maps.Copy(out, p.sets[fid])
	}
	return out
}

// BindNode records the graph node this point materialized as.
// A point binds once; a second attempt returns an INVARIANT_VIOLATION error
// and leaves the first binding intact.
func (p *Point) BindNode(nodeID string) error {
	if p.bound {
		return errors.New(errors.ErrCodeInvariant,
			"point %s already bound to node %s, refusing %s", p.id, p.node, nodeID)
	}
	p.node = nodeID
	p.bound = true
	return nil
}

// Node returns the bound graph node id.
func (p *Point) Node() (string, bool) { return p.node, p.bound }

// InheritNode takes over the node binding of from when p has none.
// Both points bound to different nodes is an INVARIANT_VIOLATION: merging
// them would leave one node cut off from the canonical point. On error p is
// left unchanged.
func (p *Point) InheritNode(from *Point) error {
	if from == nil || !from.bound {
		return nil
	}
	if p.bound {
		if p.node == from.node {
			return nil
		}
		return errors.New(errors.ErrCodeInvariant,
			"points %s and %s are colocated but bound to nodes %s and %s", p.id, from.id, p.node, from.node)
	}
	p.node = from.node
	p.bound = true
	return nil
}

// AddEdge records an edge incident to this point.
func (p *Point) AddEdge(edgeID string) {
	if !slices.Contains(p.edges, edgeID) {
		p.edges = append(p.edges, edgeID)
	}
}

// Edges returns the incident edge ids in bind order.
func (p *Point) Edges() []string { return slices.Clone(p.edges) }

// Supersede marks p as replaced by winner. Superseded points stay in the
// spatial index until removed but are hidden from colocation queries.
// Links that would close a cycle are ignored.
func (p *Point) Supersede(winner *Point) {
	if winner == nil || winner.Canonical() == p {
		return
	}
	p.supersededBy = winner
}

// SupersededBy returns the point that replaced p, or nil.
func (p *Point) SupersededBy() *Point { return p.supersededBy }

// IsSuperseded reports whether p lost a merge.
func (p *Point) IsSuperseded() bool { return p.supersededBy != nil }

// Canonical follows supersession links to the live identity.
func (p *Point) Canonical() *Point {
	cur := p
	for cur.supersededBy != nil {
		cur = cur.supersededBy
	}
	return cur
}

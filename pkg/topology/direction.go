package topology

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/geograph/pkg/attr"
	"github.com/matzehuels/geograph/pkg/point"
)

// Direction is the orientation of an edge relative to its line feature.
type Direction int

const (
	// Undirected edges can be traversed both ways.
	Undirected Direction = iota
	// FromTo runs from the first coordinate to the last.
	FromTo
	// ToFrom runs from the last coordinate to the first.
	ToFrom
)

func (d Direction) String() string {
	switch d {
	case FromTo:
		return "from_to"
	case ToFrom:
		return "to_from"
	default:
		return "undirected"
	}
}

// DirectionResolver decides the orientation of a new edge. from and to are
// the canonical points at the first and last coordinate; attrs is the full,
// unfiltered attribute bag of the line feature.
type DirectionResolver interface {
	ResolveDirection(from, to *point.Point, attrs attr.Set) Direction
}

// DirectionFunc adapts a function to [DirectionResolver].
type DirectionFunc func(from, to *point.Point, attrs attr.Set) Direction

// ResolveDirection calls f.
func (f DirectionFunc) ResolveDirection(from, to *point.Point, attrs attr.Set) Direction {
	return f(from, to, attrs)
}

// AlwaysUndirected is the default resolver.
var AlwaysUndirected = DirectionFunc(func(*point.Point, *point.Point, attr.Set) Direction {
	return Undirected
})

// AttributeDirection reads a one-way style attribute. A value listed in
// Forward yields [FromTo], one listed in Backward yields [ToFrom], anything
// else (including a missing attribute) is [Undirected]. Values compare
// case-insensitively on their string form.
type AttributeDirection struct {
	Attribute string
	Forward   []string
	Backward  []string
}

// ResolveDirection implements [DirectionResolver].
func (a AttributeDirection) ResolveDirection(_, _ *point.Point, attrs attr.Set) Direction {
	v, ok := attrs[a.Attribute]
	if !ok || v == nil {
		return Undirected
	}
	s := strings.ToLower(strings.TrimSpace(fmt.Sprint(v)))
	if slices.ContainsFunc(a.Forward, func(f string) bool { return strings.EqualFold(f, s) }) {
		return FromTo
	}
	if slices.ContainsFunc(a.Backward, func(b string) bool { return strings.EqualFold(b, s) }) {
		return ToFrom
	}
	return Undirected
}

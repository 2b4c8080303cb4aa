// Package feature defines the one capability the topology core needs from an
// input record: a geometry kind, an ordered coordinate list, an attribute bag
// and a stable id.
//
// Format adapters (see [github.com/matzehuels/geograph/pkg/feature/geojson])
// turn their own records into [Feature] values; the merge and topology code
// never sees a concrete format.
package feature

import (
	"context"
	"io"
	"slices"

	"github.com/paulmach/orb"

	"github.com/matzehuels/geograph/pkg/attr"
)

// Kind is the geometry kind of a feature.
type Kind int

const (
	// KindUnknown marks geometry the topology core does not handle.
	KindUnknown Kind = iota
	// KindPoint is a single coordinate.
	KindPoint
	// KindLine is a polyline with at least two coordinates.
	KindLine
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindLine:
		return "line"
	default:
		return "unknown"
	}
}

// Feature is a single input record.
type Feature interface {
	ID() string
	Kind() Kind
	Coordinates() []orb.Point
	Attributes() attr.Set
	Attribute(key string) (any, bool)
}

// Simple is the in-memory [Feature] implementation used by adapters and tests.
type Simple struct {
	FID    string
	FKind  Kind
	Coords []orb.Point
	Attrs  attr.Set

	// Geometry names the source geometry type when FKind is KindUnknown,
	// so skipped records can be reported meaningfully.
	Geometry string
}

// NewPoint creates a point feature.
func NewPoint(id string, pos orb.Point, attrs attr.Set) *Simple {
	return &Simple{FID: id, FKind: KindPoint, Coords: []orb.Point{pos}, Attrs: attrs}
}

// NewLine creates a line feature from its vertices.
func NewLine(id string, coords []orb.Point, attrs attr.Set) *Simple {
	return &Simple{FID: id, FKind: KindLine, Coords: slices.Clone(coords), Attrs: attrs}
}

func (f *Simple) ID() string               { return f.FID }
func (f *Simple) Kind() Kind               { return f.FKind }
func (f *Simple) Coordinates() []orb.Point { return f.Coords }

// Attributes returns the attribute bag. It is never nil.
func (f *Simple) Attributes() attr.Set {
	if f.Attrs == nil {
		return attr.Set{}
	}
	return f.Attrs
}

// Attribute returns one attribute value.
func (f *Simple) Attribute(key string) (any, bool) { return f.Attrs.Get(key) }

// Source yields features one at a time. Next returns io.EOF when the source
// is exhausted; any other error is a read or parse failure.
type Source interface {
	Next(ctx context.Context) (Feature, error)
}

// SliceSource serves features from memory.
type SliceSource struct {
	features []Feature
	pos      int
}

// NewSliceSource creates a source over fs in order.
func NewSliceSource(fs ...Feature) *SliceSource {
	return &SliceSource{features: fs}
}

// Next returns the next feature, io.EOF at the end, or the context error.
func (s *SliceSource) Next(ctx context.Context) (Feature, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pos >= len(s.features) {
		return nil, io.EOF
	}
	f := s.features[s.pos]
	s.pos++
	return f, nil
}

// Len returns the total number of features.
func (s *SliceSource) Len() int { return len(s.features) }

// Collect drains src into a slice.
func Collect(ctx context.Context, src Source) ([]Feature, error) {
	var out []Feature
	for {
		f, err := src.Next(ctx)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, f)
	}
}

package topology

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/matzehuels/geograph/pkg/attr"
	"github.com/matzehuels/geograph/pkg/errors"
	"github.com/matzehuels/geograph/pkg/feature"
	"github.com/matzehuels/geograph/pkg/merge"
	"github.com/matzehuels/geograph/pkg/point"
	"github.com/matzehuels/geograph/pkg/spatial"
)

// DefaultLengthAttribute is the edge attribute that receives the planar
// line length when [Options.EdgeLength] is set.
const DefaultLengthAttribute = "length"

// Sink receives the graph as it is discovered. It is called only after a
// node or edge identity is fully resolved.
type Sink interface {
	AddNode(id string) error
	AddEdge(id, from, to string, directed bool) error
	SetAttribute(elementID, key string, value any) error
	// EdgeBetween returns an existing edge joining a and b in either
	// direction.
	EdgeBetween(a, b string) (string, bool)
}

// GeometrySink is implemented by sinks that also keep node positions and
// edge polylines. The builder uses it when available.
type GeometrySink interface {
	SetPosition(nodeID string, pos orb.Point) error
	SetGeometry(edgeID string, line orb.LineString) error
}

// IDFunc names the candidate point created for endpoint (0 = first, 1 =
// last) of a feature. seq is the builder's running point count, so ids stay
// unique even when feature ids repeat.
type IDFunc func(featureID string, endpoint, seq int) string

var pointNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/geograph/point"))

// UUIDPointID derives a deterministic name-based UUID for a candidate point.
func UUIDPointID(featureID string, endpoint, seq int) string {
	name := fmt.Sprintf("%s/%d/%d", featureID, endpoint, seq)
	return uuid.NewSHA1(pointNamespace, []byte(name)).String()
}

// Options configures a [Builder].
type Options struct {
	// Chain decides which colocated points fuse. A nil chain merges nothing.
	Chain *merge.Chain
	// Index tunes the spatial index.
	Index spatial.Options

	// SuppressDuplicateEdges reuses an existing edge between two nodes
	// instead of adding a parallel one.
	SuppressDuplicateEdges bool
	// EdgeLength stores the planar polyline length on every new edge.
	EdgeLength bool
	// LengthAttribute names the length attribute. Defaults to "length".
	LengthAttribute string

	PointFilter attr.Filter
	NodeFilter  attr.Filter
	EdgeFilter  attr.Filter

	// Direction orients new edges. Defaults to [AlwaysUndirected].
	Direction DirectionResolver
	// PointID names candidate points. Defaults to [UUIDPointID].
	PointID IDFunc
	// Logger receives per-feature diagnostics. Defaults to a discard logger.
	Logger *log.Logger
}

// DefaultOptions returns options with the default index tuning and no rules.
func DefaultOptions() Options {
	return Options{
		Index:           spatial.DefaultOptions(),
		LengthAttribute: DefaultLengthAttribute,
	}
}

// Stats counts what a builder has done so far.
type Stats struct {
	Features    int
	Points      int
	Lines       int
	Skipped     int
	Nodes       int
	Edges       int
	ReusedEdges int
	Merges      map[string]int // applied rule count by action name
}

// Builder turns features into graph nodes and edges.
//
// Builder is not safe for concurrent use; it owns its spatial index and edge
// counter exclusively.
type Builder struct {
	opts   Options
	sink   Sink
	geo    GeometrySink
	chain  *merge.Chain
	index  *spatial.Index
	logger *log.Logger

	pointSeq int
	edgeSeq  int
	stats    Stats
}

// New creates a builder that emits into sink.
func New(sink Sink, opts Options) *Builder {
	if opts.LengthAttribute == "" {
		opts.LengthAttribute = DefaultLengthAttribute
	}
	if opts.Direction == nil {
		opts.Direction = AlwaysUndirected
	}
	if opts.PointID == nil {
		opts.PointID = UUIDPointID
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	b := &Builder{
		opts:   opts,
		sink:   sink,
		index:  spatial.New(opts.Index),
		logger: logger,
		stats:  Stats{Merges: make(map[string]int)},
	}
	b.geo, _ = sink.(GeometrySink)
	b.chain = merge.NewChain(opts.Chain.Rules()...).Observe(b.observeMerge)
	return b
}

func (b *Builder) observeMerge(r merge.Rule, existing, candidate, result *point.Point) {
	b.stats.Merges[r.Action.String()]++
	b.logger.Debug("merge", "rule", r.String(), "existing", existing.ID(), "candidate", candidate.ID(), "winner", result.ID())
}

// Index exposes the builder's spatial index, mainly for inspection.
func (b *Builder) Index() *spatial.Index { return b.index }

// Stats returns a snapshot of the counters.
func (b *Builder) Stats() Stats {
	s := b.stats
	s.Merges = make(map[string]int, len(b.stats.Merges))
	for k, v := range b.stats.Merges {
		s.Merges[k] = v
	}
	s.Points = b.index.Len()
	return s
}

// Run ingests every feature of src, then rebalances the index. Unsupported
// geometry is logged and skipped; any other error stops the run. The context
// is checked between features only.
func (b *Builder) Run(ctx context.Context, src feature.Source) error {
	start := time.Now()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		f, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if err := b.Ingest(f); err != nil {
			if errors.IsSkippable(err) {
				continue
			}
			return err
		}
	}
	b.index.Reorganize()

	st := b.Stats()
	b.logger.Info("topology built",
		"features", st.Features, "nodes", st.Nodes, "edges", st.Edges,
		"skipped", st.Skipped, "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

// Ingest dispatches f by geometry kind.
func (b *Builder) Ingest(f feature.Feature) error {
	switch f.Kind() {
	case feature.KindPoint:
		return b.IngestPoint(f)
	case feature.KindLine:
		return b.IngestLine(f)
	}

	b.stats.Features++
	b.stats.Skipped++
	geom := f.Kind().String()
	if s, ok := f.(*feature.Simple); ok && s.Geometry != "" {
		geom = s.Geometry
	}
	b.logger.Warn("skipping feature", "id", f.ID(), "geometry", geom)
	return errors.New(errors.ErrCodeUnsupportedGeometry, "feature %s: unsupported geometry %s", f.ID(), geom)
}

// IngestPoint merges the feature coordinate into the index. No node is
// created until a line references the point.
func (b *Builder) IngestPoint(f feature.Feature) error {
	coords := f.Coordinates()
	if len(coords) < 1 {
		return errors.New(errors.ErrCodeInvalidGeometry, "point feature %s has no coordinate", f.ID())
	}
	b.stats.Features++
	if _, err := b.chain.Merge(b.candidate(f, 0, coords[0]), b.index); err != nil {
		return errors.Wrap(errors.ErrCodeInvariant, err, "point feature %s", f.ID())
	}
	return nil
}

// IngestLine merges both end coordinates, resolves their nodes and adds or
// reuses the edge between them.
func (b *Builder) IngestLine(f feature.Feature) error {
	coords := f.Coordinates()
	if len(coords) < 2 {
		return errors.New(errors.ErrCodeInvalidGeometry,
			"line feature %s has %d coordinates, need at least 2", f.ID(), len(coords))
	}
	b.stats.Features++
	b.stats.Lines++

	first, err := b.chain.Merge(b.candidate(f, 0, coords[0]), b.index)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvariant, err, "line feature %s start", f.ID())
	}
	last, err := b.chain.Merge(b.candidate(f, 1, coords[len(coords)-1]), b.index)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvariant, err, "line feature %s end", f.ID())
	}
	// The second merge may have absorbed the first endpoint.
	first = first.Canonical()

	fromNode, err := b.resolveNode(first, f.ID())
	if err != nil {
		return err
	}
	toNode, err := b.resolveNode(last, f.ID())
	if err != nil {
		return err
	}

	if b.opts.SuppressDuplicateEdges {
		if id, ok := b.sink.EdgeBetween(fromNode, toNode); ok {
			b.stats.ReusedEdges++
			first.AddEdge(id)
			last.AddEdge(id)
			b.logger.Debug("reusing edge", "feature", f.ID(), "edge", id)
			return nil
		}
	}

	line := orb.LineString(slices.Clone(coords))
	dir := b.opts.Direction.ResolveDirection(first, last, f.Attributes())
	if dir == ToFrom {
		fromNode, toNode = toNode, fromNode
		line.Reverse()
	}

	b.edgeSeq++
	edgeID := fmt.Sprintf("e%d", b.edgeSeq)
	if err := b.sink.AddEdge(edgeID, fromNode, toNode, dir != Undirected); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "add edge %s for feature %s", edgeID, f.ID())
	}
	b.stats.Edges++

	edgeAttrs := b.opts.EdgeFilter.Apply(f.Attributes())
	if b.opts.EdgeLength {
		edgeAttrs[b.opts.LengthAttribute] = planar.Length(line)
	}
	if err := b.emitAttributes(edgeID, edgeAttrs); err != nil {
		return err
	}
	if b.geo != nil {
		if err := b.geo.SetGeometry(edgeID, line); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "edge %s geometry", edgeID)
		}
	}

	first.AddEdge(edgeID)
	last.AddEdge(edgeID)
	return nil
}

func (b *Builder) candidate(f feature.Feature, endpoint int, pos orb.Point) *point.Point {
	b.pointSeq++
	id := b.opts.PointID(f.ID(), endpoint, b.pointSeq)
	return point.NewFromFeature(id, pos, f.ID(), b.opts.PointFilter.Apply(f.Attributes()))
}

// resolveNode returns the node of p, creating it on first reference, and
// copies the attributes every other feature contributed to p onto it.
func (b *Builder) resolveNode(p *point.Point, featureID string) (string, error) {
	nodeID, bound := p.Node()
	if !bound {
		nodeID = p.ID()
		if err := p.BindNode(nodeID); err != nil {
			return "", err
		}
		if err := b.sink.AddNode(nodeID); err != nil {
			return "", errors.Wrap(errors.ErrCodeInternal, err, "add node %s", nodeID)
		}
		if b.geo != nil {
			if err := b.geo.SetPosition(nodeID, p.Position()); err != nil {
				return "", errors.Wrap(errors.ErrCodeInternal, err, "node %s position", nodeID)
			}
		}
		b.stats.Nodes++
	}
	return nodeID, b.emitAttributes(nodeID, b.opts.NodeFilter.Apply(p.Flatten(featureID)))
}

func (b *Builder) emitAttributes(id string, set attr.Set) error {
	for _, k := range set.Keys() {
		if err := b.sink.SetAttribute(id, k, set[k]); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "set %s on %s", k, id)
		}
	}
	return nil
}

package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/geograph/pkg/cache"
	"github.com/matzehuels/geograph/pkg/feature"
	"github.com/matzehuels/geograph/pkg/feature/geojson"
	gio "github.com/matzehuels/geograph/pkg/io"
	"github.com/matzehuels/geograph/pkg/network"
	"github.com/matzehuels/geograph/pkg/observability"
	"github.com/matzehuels/geograph/pkg/topology"
)

// Runner executes pipeline stages with caching.
//
// The Runner keeps no per-run state, so one Runner can serve concurrent
// requests with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer uses [cache.DefaultKeyer], a nil
// cache disables caching and a nil logger uses the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute builds the topology and renders every requested format.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	buildStart := time.Now()
	g, stats, hit, err := r.BuildWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Graph = g
	result.Stats.Build = stats
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.CacheInfo.BuildHit = hit

	r.Logger.Info("built topology",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"cached", hit,
		"duration", result.Stats.BuildTime)

	renderStart := time.Now()
	artifacts, hash, renderHit, err := r.RenderWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.TopologyHash = hash
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// BuildWithCacheInfo returns the topology of opts.Input, reading it from the
// cache when possible. Stats are nil on a cache hit.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, opts Options) (*network.Graph, *topology.Stats, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, false, err
	}
	canonical, err := opts.Config.Encode()
	if err != nil {
		return nil, nil, false, err
	}
	key := r.Keyer.TopologyKey(cache.Hash(opts.Input), cache.TopologyKeyOpts{
		ConfigHash: cache.Hash(canonical),
		IDProperty: opts.IDProperty,
	})

	hooks := observability.Cache()
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if g, err := gio.ReadJSON(bytes.NewReader(data)); err == nil {
				hooks.OnCacheHit(ctx, "topology")
				return g, nil, true, nil
			}
		} else if err != nil {
			r.Logger.Warn("cache read failed", "error", err)
		}
		hooks.OnCacheMiss(ctx, "topology")
	}

	g, stats, err := Build(ctx, opts)
	if err != nil {
		return nil, nil, false, err
	}

	var buf bytes.Buffer
	if err := gio.WriteJSON(g, &buf); err == nil {
		if err := r.Cache.Set(ctx, key, buf.Bytes(), cache.TopologyTTL); err != nil {
			r.Logger.Warn("cache write failed", "error", err)
		} else {
			hooks.OnCacheSet(ctx, "topology", buf.Len())
		}
	}
	return g, stats, false, nil
}

// Build is a convenience wrapper that discards stats and cache info.
func (r *Runner) Build(ctx context.Context, opts Options) (*network.Graph, error) {
	g, _, _, err := r.BuildWithCacheInfo(ctx, opts)
	return g, err
}

// RenderWithCacheInfo renders g in every requested format. It also returns
// the topology hash used for the artifact keys.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *network.Graph, opts Options) (map[string][]byte, string, bool, error) {
	if len(opts.Formats) == 0 {
		opts.Formats = []string{FormatJSON}
	}
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, "", false, err
	}

	var buf bytes.Buffer
	if err := gio.WriteJSON(g, &buf); err != nil {
		return nil, "", false, fmt.Errorf("serialize topology for cache key: %w", err)
	}
	hash := cache.Hash(buf.Bytes())

	hooks := observability.Cache()
	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := !opts.Refresh
	for _, format := range opts.Formats {
		if !allCached {
			break
		}
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			artifacts[format] = data
			hooks.OnCacheHit(ctx, "artifact")
			continue
		}
		hooks.OnCacheMiss(ctx, "artifact")
		allCached = false
	}
	if allCached {
		return artifacts, hash, true, nil
	}

	rendered, err := Render(ctx, g, opts)
	if err != nil {
		return nil, "", false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.ArtifactTTL); err == nil {
			hooks.OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, hash, false, nil
}

// Render is a convenience wrapper around RenderWithCacheInfo.
func (r *Runner) Render(ctx context.Context, g *network.Graph, opts Options) (map[string][]byte, error) {
	artifacts, _, _, err := r.RenderWithCacheInfo(ctx, g, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// Build reads opts.Input and runs the topology builder over it without
// touching any cache.
func Build(ctx context.Context, opts Options) (*network.Graph, *topology.Stats, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, err
	}
	hooks := observability.Pipeline()

	hooks.OnReadStart(ctx, opts.Name)
	start := time.Now()
	features, err := geojson.Parse(opts.Input, geojson.Options{IDProperty: opts.IDProperty})
	hooks.OnReadComplete(ctx, opts.Name, len(features), time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}

	topts, err := opts.Config.TopologyOptions()
	if err != nil {
		return nil, nil, err
	}
	topts.Logger = opts.Logger

	g := network.New(nil)
	b := topology.New(g, topts)

	hooks.OnBuildStart(ctx, opts.Name)
	start = time.Now()
	err = b.Run(ctx, feature.NewSliceSource(features...))
	stats := b.Stats()
	hooks.OnBuildComplete(ctx, opts.Name, buildResult(stats), time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}
	return g, &stats, nil
}

func buildResult(s topology.Stats) observability.BuildResult {
	merges := 0
	for _, n := range s.Merges {
		merges += n
	}
	return observability.BuildResult{
		Features: s.Features,
		Nodes:    s.Nodes,
		Edges:    s.Edges,
		Merges:   merges,
	}
}

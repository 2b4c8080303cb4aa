// Package pipeline runs the read → build → export sequence shared by the CLI
// and the HTTP server.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   data,
//	    Config:  cfg,
//	    Formats: []string{pipeline.FormatJSON, pipeline.FormatSVG},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Built topologies are cached under a key derived from the input bytes and
// the canonical configuration, and every export under a key derived from the
// topology. Either stage can also be run on its own with [Runner.Build] and
// [Runner.Render].
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/geograph/pkg/cache"
	"github.com/matzehuels/geograph/pkg/config"
	"github.com/matzehuels/geograph/pkg/network"
	"github.com/matzehuels/geograph/pkg/topology"
)

// Format constants for outputs.
const (
	FormatJSON    = "json"
	FormatGeoJSON = "geojson"
	FormatDOT     = "dot"
	FormatSVG     = "svg"
)

// Formats lists the supported output formats.
var Formats = []string{FormatJSON, FormatGeoJSON, FormatDOT, FormatSVG}

// Options configures a pipeline run.
type Options struct {
	// Input is the GeoJSON document to build from.
	Input []byte `json:"-"`
	// Name labels the input in logs and hooks, e.g. a file name.
	Name string `json:"name,omitempty"`
	// IDProperty names the GeoJSON property holding feature ids.
	IDProperty string `json:"id_property,omitempty"`

	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	// Refresh skips cache reads. Results are still written.
	Refresh bool `json:"refresh,omitempty"`

	Config *config.Config `json:"-"`
	Logger *log.Logger    `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Graph *network.Graph
	// TopologyHash is the content hash of the built graph's JSON form.
	TopologyHash string
	Artifacts    map[string][]byte
	Stats        Stats
	CacheInfo    CacheInfo
}

// Stats contains timing and size information.
type Stats struct {
	// Build is nil when the topology came from the cache.
	Build      *topology.Stats
	NodeCount  int
	EdgeCount  int
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks which stages hit the cache.
type CacheInfo struct {
	BuildHit  bool
	RenderHit bool
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return fmt.Errorf("invalid format: %q (must be one of: json, geojson, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the options and fills in defaults: the
// default configuration, JSON output and a discarding logger.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Input) == 0 {
		return fmt.Errorf("input is required")
	}
	if o.Config == nil {
		o.Config = config.Default()
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Name == "" {
		o.Name = "input"
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return ValidateFormats(o.Formats)
}

// ArtifactKeyOpts returns cache key options for one output format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Detailed: o.Detailed}
}

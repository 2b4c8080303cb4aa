// Package config loads the TOML file that drives a topology build: index
// tuning, edge policy, attribute filters, direction handling and the
// ordered merge rules.
//
// A minimal file only needs rules:
//
//	[[rules]]
//	name = "same-level"
//	action = "keep_old"
//	  [[rules.when]]
//	  predicate = "attribute_matches"
//	  key = "Z_LEVEL"
//
// Everything else falls back to [Default].
package config

import (
	"bytes"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/geograph/pkg/attr"
	"github.com/matzehuels/geograph/pkg/errors"
	"github.com/matzehuels/geograph/pkg/merge"
	"github.com/matzehuels/geograph/pkg/spatial"
	"github.com/matzehuels/geograph/pkg/topology"
)

// Config is the decoded configuration file.
type Config struct {
	Index     Index            `toml:"index" json:"index"`
	Topology  Topology         `toml:"topology" json:"topology"`
	Direction *Direction       `toml:"direction,omitempty" json:"direction,omitempty"`
	Filters   Filters          `toml:"filters" json:"filters"`
	Rules     []merge.RuleSpec `toml:"rules" json:"rules"`
}

// Index mirrors [spatial.Options].
type Index struct {
	Epsilon         float64 `toml:"epsilon" json:"epsilon"`
	LeafCapacity    int     `toml:"leaf_capacity" json:"leaf_capacity"`
	MaxDepth        int     `toml:"max_depth" json:"max_depth"`
	ReorganizeEvery int     `toml:"reorganize_every" json:"reorganize_every"`
}

// Topology holds the edge policy.
type Topology struct {
	SuppressDuplicateEdges bool   `toml:"suppress_duplicate_edges" json:"suppress_duplicate_edges"`
	EdgeLength             bool   `toml:"edge_length" json:"edge_length"`
	LengthAttribute        string `toml:"length_attribute" json:"length_attribute"`
}

// Direction configures [topology.AttributeDirection].
type Direction struct {
	Attribute string   `toml:"attribute" json:"attribute"`
	Forward   []string `toml:"forward" json:"forward"`
	Backward  []string `toml:"backward" json:"backward"`
}

// Filter is one KEEP/FILTER attribute filter.
type Filter struct {
	Mode  string   `toml:"mode" json:"mode"`
	Names []string `toml:"names,omitempty" json:"names,omitempty"`
}

// Filters holds the filters of the three extraction sites.
type Filters struct {
	Point Filter `toml:"point" json:"point"`
	Node  Filter `toml:"node" json:"node"`
	Edge  Filter `toml:"edge" json:"edge"`
}

// Default returns the configuration used when no file is given: default
// index tuning, duplicate-edge suppression and edge lengths on, no rules.
func Default() *Config {
	d := spatial.DefaultOptions()
	return &Config{
		Index: Index{
			Epsilon:         d.Epsilon,
			LeafCapacity:    d.LeafCapacity,
			MaxDepth:        d.MaxDepth,
			ReorganizeEvery: d.ReorganizeEvery,
		},
		Topology: Topology{
			SuppressDuplicateEdges: true,
			EdgeLength:             true,
			LengthAttribute:        topology.DefaultLengthAttribute,
		},
	}
}

// Load reads and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return Parse(data)
}

// Parse decodes a TOML document on top of [Default] and validates it.
// Unknown keys are rejected so typos do not silently change a build.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges, filter modes and compiles the rules.
func (c *Config) Validate() error {
	switch {
	case c.Index.Epsilon < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "index.epsilon must not be negative")
	case c.Index.LeafCapacity < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "index.leaf_capacity must not be negative")
	case c.Index.MaxDepth < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "index.max_depth must not be negative")
	}
	for site, f := range map[string]Filter{"point": c.Filters.Point, "node": c.Filters.Node, "edge": c.Filters.Edge} {
		if _, err := attr.ParseMode(f.Mode); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "filters.%s", site)
		}
	}
	if c.Direction != nil && c.Direction.Attribute == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "direction.attribute must be set")
	}
	_, err := merge.Compile(c.Rules)
	return err
}

// IndexOptions converts the index section.
func (c *Config) IndexOptions() spatial.Options {
	return spatial.Options{
		Epsilon:         c.Index.Epsilon,
		LeafCapacity:    c.Index.LeafCapacity,
		MaxDepth:        c.Index.MaxDepth,
		ReorganizeEvery: c.Index.ReorganizeEvery,
	}
}

// Chain compiles the merge rules.
func (c *Config) Chain() (*merge.Chain, error) {
	return merge.Compile(c.Rules)
}

// TopologyOptions converts the whole file into builder options. The caller
// adds a logger.
func (c *Config) TopologyOptions() (topology.Options, error) {
	chain, err := c.Chain()
	if err != nil {
		return topology.Options{}, err
	}
	opts := topology.Options{
		Chain:                  chain,
		Index:                  c.IndexOptions(),
		SuppressDuplicateEdges: c.Topology.SuppressDuplicateEdges,
		EdgeLength:             c.Topology.EdgeLength,
		LengthAttribute:        c.Topology.LengthAttribute,
	}
	if opts.PointFilter, err = c.Filters.Point.build(); err != nil {
		return topology.Options{}, err
	}
	if opts.NodeFilter, err = c.Filters.Node.build(); err != nil {
		return topology.Options{}, err
	}
	if opts.EdgeFilter, err = c.Filters.Edge.build(); err != nil {
		return topology.Options{}, err
	}
	if d := c.Direction; d != nil {
		opts.Direction = topology.AttributeDirection{
			Attribute: d.Attribute,
			Forward:   d.Forward,
			Backward:  d.Backward,
		}
	}
	return opts, nil
}

func (f Filter) build() (attr.Filter, error) {
	mode, err := attr.ParseMode(f.Mode)
	if err != nil {
		return attr.Filter{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "filter")
	}
	return attr.NewFilter(mode, f.Names...), nil
}

// Encode writes c back out as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return buf.Bytes(), nil
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/geograph/pkg/attr"
	"github.com/matzehuels/geograph/pkg/errors"
	"github.com/matzehuels/geograph/pkg/merge"
	"github.com/matzehuels/geograph/pkg/topology"
)

const full = `
[index]
epsilon = 0.001
leaf_capacity = 8
max_depth = 10
reorganize_every = 100

[topology]
suppress_duplicate_edges = false
edge_length = true
length_attribute = "meters"

[direction]
attribute = "oneway"
forward = ["yes"]
backward = ["-1"]

[filters.point]
mode = "keep"
names = ["Z_LEVEL", "ADDR_ST"]

[filters.edge]
mode = "filter"
names = ["internal_id"]

[[rules]]
name = "same-level-keeps-address"
action = "keep_old"
  [[rules.when]]
  predicate = "attribute_matches"
  key = "Z_LEVEL"
  [[rules.when]]
  predicate = "has_attribute"
  key = "ADDR_ST"
  side = "new"
  negate = true

[[rules]]
name = "same-link"
action = "delete_new"
  [[rules.when]]
  predicate = "attribute_equals"
  key = "kind"
  value = "link"
  side = "old"
`

func TestParseFull(t *testing.T) {
	cfg, err := Parse([]byte(full))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	ix := cfg.IndexOptions()
	if ix.Epsilon != 0.001 || ix.LeafCapacity != 8 || ix.MaxDepth != 10 || ix.ReorganizeEvery != 100 {
		t.Errorf("IndexOptions = %+v", ix)
	}

	opts, err := cfg.TopologyOptions()
	if err != nil {
		t.Fatalf("TopologyOptions: %v", err)
	}
	if opts.SuppressDuplicateEdges || !opts.EdgeLength || opts.LengthAttribute != "meters" {
		t.Errorf("edge policy = %+v", opts)
	}
	if opts.Chain.Len() != 2 {
		t.Fatalf("chain has %d rules, want 2", opts.Chain.Len())
	}
	if got := opts.Chain.Rules()[1].Action; got != merge.DeleteNew {
		t.Errorf("second rule action = %s", got)
	}
	if opts.PointFilter.Mode != attr.ModeKeep || !opts.PointFilter.IsKept("ADDR_ST") || opts.PointFilter.IsKept("name") {
		t.Errorf("point filter = %+v", opts.PointFilter)
	}
	if opts.EdgeFilter.IsKept("internal_id") || !opts.EdgeFilter.IsKept("name") {
		t.Errorf("edge filter = %+v", opts.EdgeFilter)
	}
	if !opts.NodeFilter.IsKept("anything") {
		t.Error("missing node filter should keep everything")
	}
	dir, ok := opts.Direction.(topology.AttributeDirection)
	if !ok || dir.Attribute != "oneway" {
		t.Errorf("Direction = %#v", opts.Direction)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(empty): %v", err)
	}
	def := Default()
	if cfg.Index != def.Index || cfg.Topology != def.Topology {
		t.Errorf("empty file should yield defaults, got %+v", cfg)
	}
	opts, err := cfg.TopologyOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Direction != nil {
		t.Error("no direction section should leave the builder default")
	}
	if opts.Chain.Len() != 0 {
		t.Error("no rules expected")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"syntax", "[index", "parse config"},
		{"unknown key", "[index]\nepsilom = 1.0", "epsilom"},
		{"negative epsilon", "[index]\nepsilon = -1.0", "epsilon"},
		{"bad filter", "[filters.node]\nmode = \"maybe\"", "filters.node"},
		{"direction without attribute", "[direction]\nforward = [\"yes\"]", "direction.attribute"},
		{"bad rule", "[[rules]]\naction = \"explode\"\n[[rules.when]]\npredicate = \"always\"", "explode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("code = %q, want INVALID_CONFIG", errors.GetCode(err))
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "geograph.toml")
	if err := os.WriteFile(path, []byte(full), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Rules) != 2 {
		t.Errorf("Rules = %d, want 2", len(cfg.Rules))
	}

	_, err = Load(filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) = %v, want FILE_NOT_FOUND", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg, err := Parse([]byte(full))
	if err != nil {
		t.Fatal(err)
	}
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(encoded): %v\n%s", err, data)
	}
	if back.Topology != cfg.Topology || len(back.Rules) != len(cfg.Rules) {
		t.Errorf("round trip changed config:\n%s", data)
	}
}

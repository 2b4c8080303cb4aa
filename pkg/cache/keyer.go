package cache

// TopologyKeyOpts lists everything besides the input that shapes a topology.
type TopologyKeyOpts struct {
	// ConfigHash is the hash of the canonical TOML configuration.
	ConfigHash string `json:"config"`
	// IDProperty is the GeoJSON property used for feature ids.
	IDProperty string `json:"id_property,omitempty"`
}

// ArtifactKeyOpts lists the render options of an exported artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed,omitempty"`
}

// Keyer generates cache keys.
type Keyer interface {
	// TopologyKey addresses the graph built from an input document.
	TopologyKey(inputHash string, opts TopologyKeyOpts) string
	// ArtifactKey addresses an export of a built graph.
	ArtifactKey(topologyHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key components into "kind:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// TopologyKey implements [Keyer].
func (DefaultKeyer) TopologyKey(inputHash string, opts TopologyKeyOpts) string {
	return hashKey("topology", inputHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(topologyHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", topologyHash, opts)
}

package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/geograph/pkg/cache"
	"github.com/matzehuels/geograph/pkg/config"
	"github.com/matzehuels/geograph/pkg/observability"
	"github.com/matzehuels/geograph/pkg/pipeline"
)

const appName = "geograph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is bound to the persistent --config flag.
	configPath string
}

// New creates a CLI that logs to w at level and reports pipeline events
// through the logger.
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{Logger: newLogger(w, level)}
	hooks := observability.NewLogHooks(c.Logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the --config file, or returns the default configuration
// when none was given.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.configPath == "" {
		return config.Default(), nil
	}
	return config.Load(c.configPath)
}

// cacheBackend selects where built topologies are cached.
type cacheBackend int

const (
	cacheFile cacheBackend = iota
	cacheNone
	cacheRedis
)

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, backend cacheBackend) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, backend)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, nil, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, backend cacheBackend) (cache.Cache, error) {
	switch backend {
	case cacheNone:
		return cache.NewNullCache(), nil
	case cacheRedis:
		return cache.OpenRedis(ctx, cache.RedisOptionsFromEnv())
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/geograph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// parseFormats parses a comma-separated format list. Empty means json.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatJSON}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return parts
}

// extensions maps output formats to file extensions.
var extensions = map[string]string{
	pipeline.FormatJSON:    ".json",
	pipeline.FormatGeoJSON: ".geojson",
	pipeline.FormatDOT:     ".dot",
	pipeline.FormatSVG:     ".svg",
}

// outputPath picks the file for one format. A single format writes exactly
// to output; several formats treat output as a base path.
func outputPath(output, input, format string, multiple bool) string {
	if output == "" {
		base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		base = strings.TrimSuffix(base, ".topology")
		return base + ".topology" + extensions[format]
	}
	if !multiple {
		return output
	}
	return strings.TrimSuffix(output, filepath.Ext(output)) + extensions[format]
}

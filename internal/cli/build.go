package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/geograph/pkg/errors"
	"github.com/matzehuels/geograph/pkg/httputil"
	"github.com/matzehuels/geograph/pkg/pipeline"
	"github.com/matzehuels/geograph/pkg/topology"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	output     string
	formats    []string
	idProperty string
	detailed   bool
	noCache    bool
	redis      bool
	refresh    bool
}

func (o buildOpts) backend() cacheBackend {
	switch {
	case o.noCache:
		return cacheNone
	case o.redis:
		return cacheRedis
	}
	return cacheFile
}

// buildCommand creates the build command: GeoJSON in, topology out.
func (c *CLI) buildCommand() *cobra.Command {
	var formatsStr string
	var opts buildOpts

	cmd := &cobra.Command{
		Use:   "build <features.geojson | URL>",
		Short: "Build a topology graph from GeoJSON features",
		Long: `Build reads a GeoJSON Feature or FeatureCollection from a file or an
http(s) URL, merges colocated line endpoints according to the configured
rules and writes the resulting graph.

Output formats: json (default), geojson, dot, svg. With several formats,
--output is used as a base path and each file gets its own extension.
Use --output - to write a single format to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runBuild(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, base path for several formats, or - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), geojson, dot, svg (comma-separated)")
	cmd.Flags().StringVar(&opts.idProperty, "id-property", "", "GeoJSON property holding feature ids (default: feature id, then \"id\")")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include attributes in dot/svg labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.redis, "redis", false, "cache in Redis (GEOGRAPH_REDIS_ADDR) instead of on disk")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")

	return cmd
}

func (c *CLI) runBuild(ctx context.Context, input string, opts buildOpts) error {
	toStdout := opts.output == "-"
	if toStdout && len(opts.formats) != 1 {
		return fmt.Errorf("--output - needs exactly one format, got %d", len(opts.formats))
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	data, err := readInput(ctx, input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.backend())
	if err != nil {
		return err
	}
	defer runner.Close()

	var spin *Spinner
	if !toStdout {
		spin = newSpinnerWithContext(ctx, "Building topology...")
		spin.Start()
	}
	prog := newProgress(c.Logger)
	res, err := runner.Execute(ctx, pipeline.Options{
		Input:      data,
		Name:       filepath.Base(input),
		IDProperty: opts.idProperty,
		Formats:    opts.formats,
		Detailed:   opts.detailed,
		Refresh:    opts.refresh,
		Config:     cfg,
		Logger:     c.Logger,
	})
	if err != nil {
		if spin != nil {
			spin.StopWithError("Build failed")
		}
		return err
	}
	if spin != nil {
		spin.Stop()
	}
	prog.done(fmt.Sprintf("Built %s", filepath.Base(input)))

	if toStdout {
		_, err := os.Stdout.Write(res.Artifacts[opts.formats[0]])
		return err
	}

	printSuccess("Topology built")
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.CacheInfo.BuildHit)
	if res.Stats.Build != nil {
		printBuildStats(*res.Stats.Build)
	}
	for _, format := range opts.formats {
		path := outputPath(opts.output, input, format, len(opts.formats) > 1)
		if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	if slices.Contains(opts.formats, pipeline.FormatJSON) {
		path := outputPath(opts.output, input, pipeline.FormatJSON, len(opts.formats) > 1)
		printNextStep("Render it", fmt.Sprintf("%s render %s -f svg", appName, path))
	}
	return nil
}

// readInput reads a local file or downloads an http(s) URL.
func readInput(ctx context.Context, input string) ([]byte, error) {
	if httputil.IsURL(input) {
		return httputil.NewFetcher(nil).Fetch(ctx, input)
	}
	data, err := os.ReadFile(input)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input %s", input)
		}
		return nil, fmt.Errorf("read %s: %w", input, err)
	}
	return data, nil
}

// printBuildStats prints the builder counters, skipping zeros.
func printBuildStats(s topology.Stats) {
	printKeyValue("features", fmt.Sprintf("%d (%d lines, %d skipped)", s.Features, s.Lines, s.Skipped))
	printKeyValue("points", fmt.Sprint(s.Points))
	if s.ReusedEdges > 0 {
		printKeyValue("reused", fmt.Sprintf("%d edges", s.ReusedEdges))
	}
	actions := make([]string, 0, len(s.Merges))
	for a := range s.Merges {
		actions = append(actions, a)
	}
	slices.Sort(actions)
	for _, a := range actions {
		printKeyValue(a, fmt.Sprintf("%d merges", s.Merges[a]))
	}
}

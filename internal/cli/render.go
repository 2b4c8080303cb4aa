package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	gio "github.com/matzehuels/geograph/pkg/io"
	"github.com/matzehuels/geograph/pkg/pipeline"
)

// renderCommand creates the render command, which converts a topology
// written by "build -f json" into other formats.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr, output string
	var detailed bool

	cmd := &cobra.Command{
		Use:   "render <topology.json>",
		Short: "Render a built topology to DOT, SVG or GeoJSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr)
			if formatsStr == "" {
				formats = []string{pipeline.FormatSVG}
			}
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], output, formats, detailed)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file or base path for several formats")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, geojson, json (comma-separated)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include attributes in dot/svg labels")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input, output string, formats []string, detailed bool) error {
	g, err := gio.ImportJSON(input)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded topology", "nodes", g.NodeCount(), "edges", g.EdgeCount())

	artifacts, err := pipeline.Render(ctx, g, pipeline.Options{Formats: formats, Detailed: detailed})
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", input)
	printStats(g.NodeCount(), g.EdgeCount(), false)
	for _, format := range formats {
		path := outputPath(output, input, format, len(formats) > 1)
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	gio "github.com/matzehuels/geograph/pkg/io"
	"github.com/matzehuels/geograph/pkg/network"
	"github.com/matzehuels/geograph/pkg/observability"
	"github.com/matzehuels/geograph/pkg/render/dot"
)

// Render exports g in every format of opts.Formats. SVG output reuses the
// DOT text when both are requested.
func Render(ctx context.Context, g *network.Graph, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	var dotText string
	dotSrc := func() string {
		if dotText == "" {
			dotText = dot.ToDOT(g, dot.Options{Detailed: opts.Detailed})
		}
		return dotText
	}

	for _, format := range opts.Formats {
		observability.Pipeline().OnRenderStart(ctx, format)
		start := time.Now()
		data, err := renderFormat(ctx, g, format, dotSrc)
		observability.Pipeline().OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, g *network.Graph, format string, dotSrc func() string) ([]byte, error) {
	switch format {
	case FormatJSON:
		var buf bytes.Buffer
		err := gio.WriteJSON(g, &buf)
		return buf.Bytes(), err
	case FormatGeoJSON:
		var buf bytes.Buffer
		err := gio.WriteGeoJSON(g, &buf)
		return buf.Bytes(), err
	case FormatDOT:
		return []byte(dotSrc()), nil
	case FormatSVG:
		return dot.RenderSVG(ctx, dotSrc())
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

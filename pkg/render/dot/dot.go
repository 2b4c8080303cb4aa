// Package dot exports topology networks as Graphviz DOT and renders them to
// SVG with the embedded Graphviz engine.
//
// Nodes are pinned at their map coordinates and laid out with neato, so the
// picture keeps the geometry of the input. Directed edges get an arrow head;
// undirected edges are drawn plain.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/geograph/pkg/attr"
	"github.com/matzehuels/geograph/pkg/network"
)

// Options configures DOT export.
type Options struct {
	// Detailed adds node and edge attributes to the labels.
	Detailed bool
	// Width is the target drawing width in points. Coordinates are scaled
	// to fit. Zero uses 800.
	Width float64
}

// ToDOT converts a network to DOT text.
func ToDOT(g *network.Graph, opts Options) string {
	scale, minX, minY := fit(g, opts.Width)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=10, width=0.2, fixedsize=false];\n")
	buf.WriteString("  edge [fontsize=9];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		label := shortID(n.ID)
		if opts.Detailed {
			label = detailLabel(label, n.Attrs)
		}
		x := (n.Pos[0] - minX) * scale
		y := (n.Pos[1] - minY) * scale
		fmt.Fprintf(&buf, "  %q [label=%q, pos=\"%.2f,%.2f!\"];\n", n.ID, label, x, y)
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		attrs := []string{}
		if !e.Directed {
			attrs = append(attrs, "dir=none")
		}
		if opts.Detailed {
			attrs = append(attrs, fmt.Sprintf("label=%q", detailLabel(e.ID, e.Attrs)))
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// fit returns the scale and offset that map node positions into a drawing
// of the given width.
func fit(g *network.Graph, width float64) (scale, minX, minY float64) {
	if width <= 0 {
		width = 800
	}
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return 1, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		minX, maxX = math.Min(minX, n.Pos[0]), math.Max(maxX, n.Pos[0])
		minY, maxY = math.Min(minY, n.Pos[1]), math.Max(maxY, n.Pos[1])
	}
	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 {
		return 1, minX, minY
	}
	// neato positions are in inches.
	return width / 72 / span, minX, minY
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func detailLabel(head string, attrs attr.Set) string {
	parts := []string{head}
	for _, k := range attrs.Keys() {
		parts = append(parts, fmt.Sprintf("%s: %v", k, attrs[k]))
	}
	return strings.Join(parts, "\n")
}

// RenderSVG renders DOT text to SVG with the neato engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

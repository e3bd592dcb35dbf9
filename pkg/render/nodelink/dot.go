package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/ringchart/pkg/dataset"
	"github.com/matzehuels/ringchart/pkg/ring/layout"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed appends resource counts to barrier labels.
	Detailed bool
	// Resources adds one node per resource linked to its barriers.
	Resources bool
	// Colors maps theme and barrier IDs to fill colors. Missing IDs are
	// drawn white.
	Colors map[string]string
}

// ColorsFrom collects the wedge colors of a computed diagram, so the outline
// matches the ring.
func ColorsFrom(d layout.Diagram) map[string]string {
	colors := make(map[string]string, len(d.Inner)+len(d.Outer))
	for _, w := range d.Wedges() {
		colors[w.Segment.ID] = w.Color
	}
	return colors
}

// ToDOT converts a dataset to Graphviz DOT format. Themes appear in ring
// order and barriers in dataset order, so the output is deterministic.
func ToDOT(ds dataset.Dataset, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	byTheme := ds.BarriersByTheme()
	var counts map[string]int
	if opts.Detailed {
		counts = ds.CountByBarrier()
	}

	for _, t := range ds.SortedThemes() {
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID("theme", t.ID), strings.Join(attrs(t.Name, opts.Colors[t.ID], true), ", "))
		for _, b := range byTheme[t.ID] {
			label := b.Name
			if opts.Detailed {
				label = fmt.Sprintf("%s\n%d resources", b.Name, counts[b.ID])
			}
			fmt.Fprintf(&buf, "  %q [%s];\n", nodeID("barrier", b.ID), strings.Join(attrs(label, opts.Colors[b.ID], false), ", "))
			fmt.Fprintf(&buf, "  %q -> %q;\n", nodeID("theme", t.ID), nodeID("barrier", b.ID))
		}
	}

	if opts.Resources {
		buf.WriteString("\n")
		for _, r := range ds.Resources {
			fmt.Fprintf(&buf, "  %q [label=%q, shape=note, style=filled, fillcolor=\"#f4f4f4\"];\n", nodeID("resource", r.ID), r.Title)
			for _, bid := range r.Barriers {
				if _, ok := ds.Barrier(bid); !ok {
					continue
				}
				fmt.Fprintf(&buf, "  %q -> %q [style=dashed, dir=back];\n", nodeID("barrier", bid), nodeID("resource", r.ID))
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(kind, id string) string { return kind + ":" + id }

func attrs(label, color string, bold bool) []string {
	out := []string{fmt.Sprintf("label=%q", label)}
	if color != "" {
		out = append(out, fmt.Sprintf("fillcolor=%q", color))
	}
	if bold {
		out = append(out, "fontname=\"Helvetica-Bold\"", "penwidth=2")
	}
	return out
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

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

// normalizeViewBox rewrites the root element so the drawing scales to its
// container instead of using Graphviz's point units.
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

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

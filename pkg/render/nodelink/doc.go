// Package nodelink renders a dataset as a theme → barrier outline diagram.
//
// # Overview
//
// The ring diagram is the primary view; this package produces a secondary,
// traditional node-link outline of the same hierarchy using Graphviz. Themes
// become filled boxes in their ring colors, barriers hang below their theme,
// and, optionally, resources link to every barrier they address.
//
// # Usage
//
// Convert a dataset to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(ds, nodelink.Options{Colors: nodelink.ColorsFrom(diagram)})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: barrier labels include their resource count
//   - Resources: adds resource nodes and resource → barrier edges
//   - Colors: fill colors keyed by theme or barrier ID
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG]
//   - Saved and processed with external Graphviz tools
//
// The generated DOT uses left-to-right layout (rankdir=LR) so long barrier
// lists stay readable.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering, so no system Graphviz installation is needed.
package nodelink

// Package render groups the output stages of the ring chart.
//
// # Overview
//
// Rendering never changes a computed diagram. The subpackages turn a
// [layout.Diagram] or its source dataset into bytes:
//
//   - [sink]: the ring diagram as SVG, PNG, JPEG or JSON
//   - [nodelink]: a theme → barrier outline as Graphviz DOT or SVG
//
// Both are driven by the pipeline package, which picks a sink per output
// format and caches the results.
//
//	svg := sink.RenderSVG(diagram, sink.WithTitle("Barriers"))
//	png, err := sink.RenderPNG(diagram, sink.WithScale(2))
//	dot := nodelink.ToDOT(ds, nodelink.Options{Colors: nodelink.ColorsFrom(diagram)})
//
// [layout.Diagram]: github.com/matzehuels/ringchart/pkg/ring/layout.Diagram
// [sink]: github.com/matzehuels/ringchart/pkg/render/sink
// [nodelink]: github.com/matzehuels/ringchart/pkg/render/nodelink
package render

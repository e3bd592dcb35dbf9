// Package sink renders a computed ring diagram into output formats.
//
// # Overview
//
// A "sink" transforms a [layout.Diagram] into a final output format. This
// package provides renderers for:
//
//   - SVG: vector output written with github.com/ajstarks/svgo
//   - PNG and JPEG: raster output drawn with git.sr.ht/~sbinet/gg
//   - JSON: the diagram itself, for external tools and re-rendering
//
// Sinks never modify the diagram, so the same diagram can be rendered to any
// number of formats, concurrently, and re-rendered after a failed export.
//
// # SVG Output
//
// Inner (theme) labels are drawn with one textPath per line; the routed
// baselines are emitted as hidden path definitions. Outer (barrier) labels
// are text blocks translated to their anchor and rotated.
//
//	svg := sink.RenderSVG(diagram, sink.WithBackground("#ffffff"))
//
// # Raster Output
//
// [RenderPNG] and [RenderJPEG] draw the same geometry with the embedded Go
// fonts. Coordinates are multiplied by the scale factor before drawing, so
// text stays sharp at any scale. An empty background leaves PNG output
// transparent; JPEG has no alpha channel and falls back to white.
//
//	png, err := sink.RenderPNG(diagram, sink.WithScale(2))
//
// # JSON Output
//
// [RenderJSON] writes the diagram together with its summary statistics.
// [ParseJSON] reads it back, which lets a saved layout be rendered again
// without the dataset.
//
// [layout.Diagram]: github.com/matzehuels/ringchart/pkg/ring/layout.Diagram
package sink

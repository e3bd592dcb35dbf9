// Package pkg provides the core libraries for ringchart, a radial two-ring
// diagram of themes and the barriers that belong to them.
//
// # Overview
//
// The inner ring holds one wedge per theme, the outer ring one segment per
// barrier, aligned with its theme's wedge. Labels are fitted to their
// segments: inner labels follow curved baselines, outer labels are rotated
// text blocks. The pkg directory is organized into these areas:
//
//  1. [dataset] - Themes, barriers and resources; filtering and weighting
//  2. ring/... - Geometry, segment building, textpath routing, label fitting
//  3. [render] - Output sinks (SVG, PNG, JPEG, JSON) and the DOT outline
//  4. [pipeline] - Orchestration (load → layout → render → export)
//  5. [cache], [config], [errors], [io], [observability] - Infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	CSV / JSON / YAML dataset
//	         ↓
//	    [io] package (import + validation)
//	         ↓
//	    [dataset] package (filter + weights)
//	         ↓
//	    [ring/layout] package (segments + fitted labels)
//	         ↓
//	    [render/sink] package (SVG/PNG/JPEG/JSON output)
//
// # Quick Start
//
//	ds, _ := io.ImportFile("barriers.csv")
//	w := dataset.WeightingFor(dataset.WeightingCount, ds)
//	d, _ := layout.Compute(ctx, ds, w, layout.DefaultConfig())
//	svg := sink.RenderSVG(d)
//
// The [pipeline] package wraps the same steps with caching, hooks and
// time-bounded atomic export; the CLI and the preview server both use it.
//
// [dataset]: https://pkg.go.dev/github.com/matzehuels/ringchart/pkg/dataset
// [render]: https://pkg.go.dev/github.com/matzehuels/ringchart/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/ringchart/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/ringchart/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/ringchart/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/ringchart/pkg/errors
// [io]: https://pkg.go.dev/github.com/matzehuels/ringchart/pkg/io
// [observability]: https://pkg.go.dev/github.com/matzehuels/ringchart/pkg/observability
//
// [ring/layout]: https://pkg.go.dev/github.com/matzehuels/ringchart/pkg/ring/layout
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/ringchart/pkg/render/sink
package pkg

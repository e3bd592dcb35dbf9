package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/ringchart/pkg/dataset"
	"github.com/matzehuels/ringchart/pkg/render/nodelink"
	"github.com/matzehuels/ringchart/pkg/render/sink"
	"github.com/matzehuels/ringchart/pkg/ring/layout"
)

// Render generates output artifacts in the requested formats. The dataset
// is only consulted by the DOT and outline formats.
func Render(ctx context.Context, d layout.Diagram, ds dataset.Dataset, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := renderFormat(ctx, format, d, ds, opts)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// renderFormat renders a single format. It is a variable so tests can
// substitute a slow renderer.
var renderFormat = func(ctx context.Context, format string, d layout.Diagram, ds dataset.Dataset, opts Options) ([]byte, error) {
	var data []byte
	var err error

	switch format {
	case FormatSVG:
		data = sink.RenderSVG(d, buildSVGOptions(opts)...)
	case FormatPNG:
		data, err = sink.RenderPNG(d, buildRasterOptions(opts)...)
	case FormatJPEG:
		data, err = sink.RenderJPEG(d, buildRasterOptions(opts)...)
	case FormatJSON:
		data, err = sink.RenderJSON(d, sink.WithJSONTitle(opts.Title), sink.WithJSONWeighting(opts.Weighting))
	case FormatDOT:
		data = []byte(nodelink.ToDOT(opts.Filter.Apply(ds), outlineOptions(d, opts)))
	case FormatOutline:
		dot := nodelink.ToDOT(opts.Filter.Apply(ds), outlineOptions(d, opts))
		data, err = nodelink.RenderSVG(ctx, dot)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}

func buildSVGOptions(opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if opts.Background != "" {
		svgOpts = append(svgOpts, sink.WithBackground(opts.Background))
	}
	if opts.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
	}
	return svgOpts
}

func buildRasterOptions(opts Options) []sink.RasterOption {
	rOpts := []sink.RasterOption{sink.WithScale(opts.Scale)}
	if opts.Background != "" {
		rOpts = append(rOpts, sink.WithRasterBackground(opts.Background))
	}
	return rOpts
}

func outlineOptions(d layout.Diagram, opts Options) nodelink.Options {
	return nodelink.Options{
		Detailed:  opts.Weighting == dataset.WeightingCount,
		Resources: opts.Resources,
		Colors:    nodelink.ColorsFrom(d),
	}
}

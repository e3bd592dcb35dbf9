package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ringchart/pkg/config"
	"github.com/matzehuels/ringchart/pkg/dataset"
	"github.com/matzehuels/ringchart/pkg/pipeline"
)

// chartFlags holds the flags shared by render, layout and serve. A flag only
// overrides the configuration file when it was set on the command line.
type chartFlags struct {
	configPath string
	noCache    bool
	refresh    bool

	width        float64
	height       float64
	stretch      float64
	equalWedges  bool
	barrierOrder string
	measurer     string
	weighting    string

	scale      float64
	background string
	title      string
	resources  bool
	timeout    time.Duration

	query    string
	themes   []string
	barriers []string
	types    []string
}

// register adds the flags to cmd, showing the built-in defaults.
func (f *chartFlags) register(cmd *cobra.Command) {
	def := config.Default()
	fs := cmd.Flags()

	fs.StringVarP(&f.configPath, "config", "c", "", "config file (default: ./"+config.FileName+" or ~/.config/ringchart/config.toml)")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fs.BoolVar(&f.refresh, "refresh", false, "recompute even when cached")

	fs.Float64Var(&f.width, "width", def.Ring.Width, "canvas width")
	fs.Float64Var(&f.height, "height", def.Ring.Height, "canvas height")
	fs.Float64Var(&f.stretch, "stretch", def.Ring.Stretch, "vertical stretch of the rings (1 draws circles)")
	fs.BoolVar(&f.equalWedges, "equal-wedges", def.Ring.EqualWedges, "give every barrier the same span")
	fs.StringVar(&f.barrierOrder, "barrier-order", def.Ring.BarrierOrder, "barrier order within a theme: name, weight")
	fs.StringVar(&f.measurer, "measurer", def.Labels.Measurer, "text measurer: heuristic, face")
	fs.StringVar(&f.weighting, "weighting", def.Ring.Weighting, "wedge weighting: count, equal")

	fs.Float64Var(&f.scale, "scale", def.Render.Scale, "raster scale factor")
	fs.StringVar(&f.background, "background", def.Render.Background, "background color")
	fs.StringVar(&f.title, "title", "", "chart title")
	fs.BoolVar(&f.resources, "resources", false, "include resources in dot and outline output")
	fs.DurationVar(&f.timeout, "timeout", def.Render.Timeout.Duration, "export timeout")

	fs.StringVarP(&f.query, "query", "q", "", "only count resources matching this text")
	fs.StringSliceVar(&f.themes, "theme", nil, "only count resources under these themes")
	fs.StringSliceVar(&f.barriers, "barrier", nil, "only count resources addressing these barriers")
	fs.StringSliceVar(&f.types, "type", nil, "only count resources of these types")

	registerChartCompletions(cmd)
}

// options resolves the configuration file and applies changed flags.
func (f *chartFlags) options(cmd *cobra.Command) (pipeline.Options, config.Config, error) {
	cfg, used, err := config.Resolve(f.configPath)
	if err != nil {
		return pipeline.Options{}, config.Config{}, err
	}
	opts := pipeline.FromConfig(cfg)
	opts.ConfigPath = used

	changed := cmd.Flags().Changed
	if changed("width") {
		opts.Layout.Width = f.width
	}
	if changed("height") {
		opts.Layout.Height = f.height
	}
	if changed("stretch") {
		opts.Layout.Stretch = f.stretch
	}
	if changed("equal-wedges") {
		opts.Layout.EqualWedges = f.equalWedges
	}
	if changed("barrier-order") {
		opts.Layout.BarrierOrder = f.barrierOrder
	}
	if changed("measurer") {
		opts.Layout.Measurer = f.measurer
	}
	if changed("weighting") {
		opts.Weighting = f.weighting
	}
	if changed("scale") {
		opts.Scale = f.scale
	}
	if changed("background") {
		opts.Background = f.background
	}
	if changed("timeout") {
		opts.Timeout = f.timeout
	}
	opts.Title = f.title
	opts.Resources = f.resources
	opts.Refresh = f.refresh
	opts.Filter = dataset.Filter{
		Query:    f.query,
		Themes:   f.themes,
		Barriers: f.barriers,
		Types:    f.types,
	}

	if err := opts.ValidateForLayout(); err != nil {
		return pipeline.Options{}, config.Config{}, err
	}
	bg, err := pipeline.NormalizeBackground(opts.Background)
	if err != nil {
		return pipeline.Options{}, config.Config{}, err
	}
	opts.Background = bg
	return opts, cfg, nil
}

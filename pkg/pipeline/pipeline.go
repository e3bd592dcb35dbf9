// Package pipeline provides the load → layout → render pipeline for ringchart.
//
// This package implements the complete pipeline used by the CLI and the
// preview server. By centralizing this logic, both entry points share the
// same defaults, caching and error handling.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read a dataset from a JSON, YAML or CSV file
//  2. Layout: Compute segments, wedge geometry and fitted labels
//  3. Render: Generate output in various formats (SVG, PNG, JPEG, JSON, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
// A fourth operation, [Runner.Export], renders a single format to a file
// with a deadline and an atomic write.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    DatasetPath: "barriers.yaml",
//	    Formats:     []string{"svg", "png"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	ds, err := runner.Load(ctx, opts)
//	diagram, err := runner.ComputeLayout(ctx, ds, opts)
//	artifacts, err := runner.Render(ctx, diagram, ds, opts)
package pipeline

import (
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ringchart/pkg/cache"
	"github.com/matzehuels/ringchart/pkg/config"
	"github.com/matzehuels/ringchart/pkg/dataset"
	"github.com/matzehuels/ringchart/pkg/errors"
	"github.com/matzehuels/ringchart/pkg/ring/layout"
	"github.com/matzehuels/ringchart/pkg/ring/palette"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWeighting sizes barrier wedges by resource count.
	DefaultWeighting = dataset.WeightingCount

	// DefaultScale is the raster scale factor (2x for high-DPI displays).
	DefaultScale = 2.0

	// DefaultBackground is the solid fill behind raster output.
	DefaultBackground = "#ffffff"

	// DefaultTimeout bounds a single export.
	DefaultTimeout = 30 * time.Second
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatJSON = "json"
	FormatDOT  = "dot"
	// FormatOutline is the theme → barrier outline rendered by Graphviz.
	FormatOutline = "outline"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:     true,
	FormatPNG:     true,
	FormatJPEG:    true,
	FormatJSON:    true,
	FormatDOT:     true,
	FormatOutline: true,
}

// ValidWeightings is the set of supported wedge weightings.
var ValidWeightings = map[string]bool{
	dataset.WeightingCount: true,
	dataset.WeightingEqual: true,
}

// Extension returns the file extension written for a format.
func Extension(format string) string {
	switch format {
	case FormatJPEG:
		return ".jpg"
	case FormatOutline:
		return ".outline.svg"
	default:
		return "." + format
	}
}

// FormatFromPath infers the output format from a file name.
func FormatFromPath(path string) (string, error) {
	name := strings.ToLower(filepath.Base(path))
	if strings.HasSuffix(name, ".outline.svg") {
		return FormatOutline, nil
	}
	switch filepath.Ext(name) {
	case ".svg":
		return FormatSVG, nil
	case ".png":
		return FormatPNG, nil
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".json":
		return FormatJSON, nil
	case ".dot", ".gv":
		return FormatDOT, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer output format from %q", filepath.Base(path))
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
type Options struct {
	// Load options
	DatasetPath string `json:"dataset_path,omitempty"`
	ConfigPath  string `json:"config_path,omitempty"`

	// Layout options. A zero Width selects layout.DefaultConfig.
	Layout    layout.Config  `json:"layout"`
	Filter    dataset.Filter `json:"filter,omitempty"`
	Weighting string         `json:"weighting,omitempty"`

	// Render options
	Formats    []string      `json:"formats,omitempty"`
	Scale      float64       `json:"scale,omitempty"`
	Background string        `json:"background,omitempty"`
	Title      string        `json:"title,omitempty"`
	Resources  bool          `json:"resources,omitempty"` // Include resources in DOT and outline output
	Timeout    time.Duration `json:"timeout,omitempty"`
	Refresh    bool          `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// FromConfig builds options from a configuration file.
func FromConfig(cfg config.Config) Options {
	return Options{
		Layout:     cfg.Layout(),
		Weighting:  cfg.Ring.Weighting,
		Formats:    slices.Clone(cfg.Render.Formats),
		Scale:      cfg.Render.Scale,
		Background: cfg.Render.Background,
		Timeout:    cfg.Render.Timeout.Duration,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Dataset is the loaded dataset before filtering.
	Dataset dataset.Dataset

	// DatasetHash is the content hash of the dataset.
	DatasetHash string

	// Diagram is the computed layout.
	Diagram layout.Diagram

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Themes     int
	Barriers   int
	Resources  int
	Labels     int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the diagram came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, jpeg, json, dot, outline)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateWeighting checks that a weighting is valid.
func ValidateWeighting(w string) error {
	if !ValidWeightings[w] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid weighting: %q (must be one of: count, equal)", w)
	}
	return nil
}

// NormalizeBackground checks a background color and returns it as lowercase
// #rrggbb. An empty color stays empty and means no fill.
func NormalizeBackground(color string) (string, error) {
	if color == "" {
		return "", nil
	}
	c, ok := palette.Normalize(color)
	if !ok {
		return "", errors.New(errors.ErrCodeInvalidInput, "invalid background: %q (must be a hex color like #ffffff)", color)
	}
	return c, nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateForLoad checks required fields for loading.
func (o *Options) ValidateForLoad() error {
	if o.DatasetPath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "dataset path is required")
	}
	if o.Logger == nil {
		o.Logger = discardLogger()
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Layout.Width == 0 {
		o.Layout = layout.DefaultConfig()
	}
	if o.Weighting == "" {
		o.Weighting = DefaultWeighting
	}
	if o.Logger == nil {
		o.Logger = discardLogger()
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateWeighting(o.Weighting); err != nil {
		return err
	}
	return o.Layout.Validate()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Logger == nil {
		o.Logger = discardLogger()
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %g", o.Scale)
	}
	bg, err := NormalizeBackground(o.Background)
	if err != nil {
		return err
	}
	o.Background = bg
	return nil
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() (cache.LayoutKeyOpts, error) {
	h, err := cache.HashJSON(o.Layout)
	if err != nil {
		return cache.LayoutKeyOpts{}, err
	}
	return cache.LayoutKeyOpts{
		ConfigHash: h,
		Weighting:  o.Weighting,
		Filter:     o.Filter.Encode().Encode(),
	}, nil
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatPNG, FormatJPEG:
		k.Scale = o.Scale
		k.Background = o.Background
	case FormatSVG:
		k.Background = o.Background
		k.Title = o.Title
	case FormatJSON:
		k.Title = o.Title
	case FormatDOT, FormatOutline:
		k.Resources = o.Resources
	}
	return k
}

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

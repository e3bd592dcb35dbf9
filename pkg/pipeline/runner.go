package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ringchart/pkg/cache"
	"github.com/matzehuels/ringchart/pkg/dataset"
	"github.com/matzehuels/ringchart/pkg/observability"
	"github.com/matzehuels/ringchart/pkg/ring/layout"
)

// Cache key types reported to CacheHooks.
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the preview server use it to avoid duplicating caching
// logic.
//
// The Runner is stateless except for the cache, hooks and logger; it
// doesn't store pipeline results. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache      cache.Cache
	Keyer      cache.Keyer
	Hooks      observability.PipelineHooks
	CacheHooks observability.CacheHooks
	Logger     *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:      c,
		Keyer:      keyer,
		Hooks:      observability.NoopPipelineHooks{},
		CacheHooks: observability.NoopCacheHooks{},
		Logger:     logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	ds, err := Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Dataset = ds
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Themes = len(ds.Themes)
	result.Stats.Barriers = len(ds.Barriers)
	result.Stats.Resources = len(ds.Resources)
	if h, err := cache.HashJSON(ds); err == nil {
		result.DatasetHash = h
	}

	r.Logger.Info("loaded dataset",
		"themes", len(ds.Themes),
		"barriers", len(ds.Barriers),
		"resources", len(ds.Resources),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	d, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, ds, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Diagram = d
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Labels = d.Stats().Labels
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"segments", len(d.Inner)+len(d.Outer),
		"labels", result.Stats.Labels,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, d, ds, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the dataset named in opts.
func (r *Runner) Load(ctx context.Context, opts Options) (dataset.Dataset, error) {
	r.applyLogger(&opts)
	return Load(ctx, opts)
}

// ComputeLayoutWithCacheInfo lays out the dataset with caching and returns
// cache hit info. The key combines the dataset hash with the hash of the
// layout configuration, weighting and filter.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, ds dataset.Dataset, opts Options) (layout.Diagram, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Diagram{}, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key
	dsHash, err := cache.HashJSON(ds)
	if err != nil {
		return layout.Diagram{}, false, err
	}
	keyOpts, err := opts.LayoutKeyOpts()
	if err != nil {
		return layout.Diagram{}, false, err
	}
	cacheKey := r.Keyer.LayoutKey(dsHash, keyOpts)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached layout.Diagram
			if err := json.Unmarshal(data, &cached); err == nil {
				r.hitCache(ctx, keyTypeLayout)
				opts.Logger.Debug("layout cache hit", "key", cacheKey)
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			opts.Logger.Warn("layout cache read failed", "err", err)
		}
		r.missCache(ctx, keyTypeLayout)
	}

	// Generate layout
	r.hooks().OnLayoutStart(ctx, len(ds.Themes), len(ds.Barriers))
	start := time.Now()
	d, err := ComputeLayout(ctx, ds, opts)
	r.hooks().OnLayoutComplete(ctx, d.Stats().Labels, time.Since(start), err)
	if err != nil {
		return layout.Diagram{}, false, err
	}

	// Cache the result
	if data, err := json.Marshal(d); err == nil {
		r.setCache(ctx, cacheKey, keyTypeLayout, data, cache.LayoutTTL, opts.Logger)
	}

	return d, false, nil
}

// ComputeLayout is a convenience wrapper that calls ComputeLayoutWithCacheInfo
// and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, ds dataset.Dataset, opts Options) (layout.Diagram, error) {
	d, _, err := r.ComputeLayoutWithCacheInfo(ctx, ds, opts)
	return d, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, d layout.Diagram, ds dataset.Dataset, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from layout data, plus the dataset for the outline
	// formats that read it.
	layoutHash, err := cache.HashJSON(struct {
		Diagram layout.Diagram  `json:"diagram"`
		Dataset dataset.Dataset `json:"dataset"`
	}{d, opts.Filter.Apply(ds)})
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				r.hitCache(ctx, keyTypeArtifact)
				artifacts[format] = data
				continue
			}
			r.missCache(ctx, keyTypeArtifact)
		}
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		return artifacts, true, nil // All artifacts from cache
	}

	// Render the missing formats
	r.hooks().OnRenderStart(ctx, missing)
	start := time.Now()
	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, d, ds, renderOpts)
	r.hooks().OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		r.setCache(ctx, cacheKey, keyTypeArtifact, data, cache.ArtifactTTL, opts.Logger)
		artifacts[format] = data
	}

	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, d layout.Diagram, ds dataset.Dataset, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, d, ds, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func (r *Runner) hooks() observability.PipelineHooks {
	if r.Hooks == nil {
		return observability.NoopPipelineHooks{}
	}
	return r.Hooks
}

func (r *Runner) cacheHooks() observability.CacheHooks {
	if r.CacheHooks == nil {
		return observability.NoopCacheHooks{}
	}
	return r.CacheHooks
}

func (r *Runner) hitCache(ctx context.Context, keyType string) {
	r.cacheHooks().OnCacheHit(ctx, keyType)
}
func (r *Runner) missCache(ctx context.Context, keyType string) {
	r.cacheHooks().OnCacheMiss(ctx, keyType)
}

func (r *Runner) setCache(ctx context.Context, key, keyType string, data []byte, ttl time.Duration, logger *log.Logger) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	r.cacheHooks().OnCacheSet(ctx, keyType, len(data))
}

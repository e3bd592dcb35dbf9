// Package observability defines instrumentation hooks.
//
// Hooks are plain interfaces with no-op defaults. They are injected where
// they are used (the pipeline runner, the preview server) instead of being
// registered globally, so two runners in one process never share counters.
//
//	counters := observability.NewCounters()
//	runner := pipeline.NewRunner(c, nil, logger)
//	runner.Hooks = counters
//	runner.CacheHooks = counters
//	// ...
//	fmt.Println(counters.Snapshot().Renders)
package observability

import (
	"context"
	"time"
)

// ===== Pipeline hooks =====

// PipelineHooks receives layout, render and export events.
type PipelineHooks interface {
	OnLayoutStart(ctx context.Context, themes, barriers int)
	OnLayoutComplete(ctx context.Context, labels int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)

	OnExportStart(ctx context.Context, id, format string)
	OnExportComplete(ctx context.Context, id, format string, bytes int, duration time.Duration, err error)
}

// ===== Cache hooks =====

// CacheHooks receives cache events. keyType is "layout" or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// ===== HTTP hooks =====

// HTTPHooks receives preview server requests.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, status int, duration time.Duration)
}

// ===== No-op implementations =====

// NoopPipelineHooks ignores every event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLayoutStart(context.Context, int, int)                          {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, int, time.Duration, error)      {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}
func (NoopPipelineHooks) OnExportStart(context.Context, string, string)                    {}
func (NoopPipelineHooks) OnExportComplete(context.Context, string, string, int, time.Duration, error) {
}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

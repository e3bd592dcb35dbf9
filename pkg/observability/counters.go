package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// Counters tallies events from every hook interface. The zero value is
// ready to use and safe for concurrent use.
type Counters struct {
	layouts        atomic.Int64
	layoutErrors   atomic.Int64
	renders        atomic.Int64
	renderErrors   atomic.Int64
	exports        atomic.Int64
	exportErrors   atomic.Int64
	exportBytes    atomic.Int64
	cacheHits      atomic.Int64
	cacheMisses    atomic.Int64
	cacheSets      atomic.Int64
	requests       atomic.Int64
	serverErrors   atomic.Int64
	layoutNanos    atomic.Int64
	lastLabelCount atomic.Int64
}

// NewCounters returns zeroed counters.
func NewCounters() *Counters { return &Counters{} }

// Snapshot is a point-in-time copy of Counters.
type Snapshot struct {
	Layouts      int64         `json:"layouts"`
	LayoutErrors int64         `json:"layout_errors"`
	LayoutTime   time.Duration `json:"layout_time"`
	Labels       int64         `json:"labels"`
	Renders      int64         `json:"renders"`
	RenderErrors int64         `json:"render_errors"`
	Exports      int64         `json:"exports"`
	ExportErrors int64         `json:"export_errors"`
	ExportBytes  int64         `json:"export_bytes"`
	CacheHits    int64         `json:"cache_hits"`
	CacheMisses  int64         `json:"cache_misses"`
	CacheSets    int64         `json:"cache_sets"`
	Requests     int64         `json:"requests"`
	ServerErrors int64         `json:"server_errors"`
}

// Snapshot copies the current values.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Layouts:      c.layouts.Load(),
		LayoutErrors: c.layoutErrors.Load(),
		LayoutTime:   time.Duration(c.layoutNanos.Load()),
		Labels:       c.lastLabelCount.Load(),
		Renders:      c.renders.Load(),
		RenderErrors: c.renderErrors.Load(),
		Exports:      c.exports.Load(),
		ExportErrors: c.exportErrors.Load(),
		ExportBytes:  c.exportBytes.Load(),
		CacheHits:    c.cacheHits.Load(),
		CacheMisses:  c.cacheMisses.Load(),
		CacheSets:    c.cacheSets.Load(),
		Requests:     c.requests.Load(),
		ServerErrors: c.serverErrors.Load(),
	}
}

func (c *Counters) OnLayoutStart(context.Context, int, int) {}

func (c *Counters) OnLayoutComplete(_ context.Context, labels int, d time.Duration, err error) {
	c.layouts.Add(1)
	c.layoutNanos.Add(int64(d))
	if err != nil {
		c.layoutErrors.Add(1)
		return
	}
	c.lastLabelCount.Store(int64(labels))
}

func (c *Counters) OnRenderStart(context.Context, []string) {}

func (c *Counters) OnRenderComplete(_ context.Context, formats []string, _ time.Duration, err error) {
	if err != nil {
		c.renderErrors.Add(1)
		return
	}
	c.renders.Add(int64(len(formats)))
}

func (c *Counters) OnExportStart(context.Context, string, string) {}

func (c *Counters) OnExportComplete(_ context.Context, _, _ string, bytes int, _ time.Duration, err error) {
	if err != nil {
		c.exportErrors.Add(1)
		return
	}
	c.exports.Add(1)
	c.exportBytes.Add(int64(bytes))
}

func (c *Counters) OnCacheHit(context.Context, string)      { c.cacheHits.Add(1) }
func (c *Counters) OnCacheMiss(context.Context, string)     { c.cacheMisses.Add(1) }
func (c *Counters) OnCacheSet(context.Context, string, int) { c.cacheSets.Add(1) }

func (c *Counters) OnRequest(context.Context, string, string) { c.requests.Add(1) }

func (c *Counters) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	if status >= 500 {
		c.serverErrors.Add(1)
	}
}

var (
	_ PipelineHooks = (*Counters)(nil)
	_ CacheHooks    = (*Counters)(nil)
	_ HTTPHooks     = (*Counters)(nil)
)

// Package layout turns a dataset into a fully positioned ring diagram.
//
// Compute runs in two phases. The first builds every segment and the
// per-theme orientation overrides; the second fits labels, one independent
// job per segment, in parallel. Jobs write into slots fixed by segment
// index, so the result does not depend on scheduling. The Diagram is plain
// data shared by every output surface.
package layout

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/ringchart/pkg/dataset"
	"github.com/matzehuels/ringchart/pkg/ring/geometry"
	"github.com/matzehuels/ringchart/pkg/ring/label"
	"github.com/matzehuels/ringchart/pkg/ring/palette"
	"github.com/matzehuels/ringchart/pkg/ring/segment"
)

// Ring names.
const (
	RingInner = "inner"
	RingOuter = "outer"
)

// Label is a fitted segment label.
type Label = label.Layout

// Wedge is one drawable segment.
type Wedge struct {
	Segment   segment.Segment `json:"segment"`
	Ring      string          `json:"ring"`
	R0        float64         `json:"r0"`
	R1        float64         `json:"r1"`
	Path      string          `json:"path"`
	Color     string          `json:"color"`
	TextColor string          `json:"text_color"`
	Label     *Label          `json:"label,omitempty"`
}

// Diagram is the complete layout.
type Diagram struct {
	Width     float64         `json:"width"`
	Height    float64         `json:"height"`
	Center    geometry.Point  `json:"center"`
	Stretch   float64         `json:"stretch"`
	Inner     []Wedge         `json:"inner"`
	Outer     []Wedge         `json:"outer"`
	Overrides map[string]bool `json:"overrides,omitempty"`
	Orphans   []string        `json:"orphans,omitempty"`
}

// Stats summarizes a diagram.
type Stats struct {
	Themes     int
	Barriers   int
	Labels     int
	Suppressed int
	Fallbacks  int
	Overrides  int
}

// Stats counts wedges and label outcomes.
func (d Diagram) Stats() Stats {
	s := Stats{Themes: len(d.Inner), Barriers: len(d.Outer), Overrides: len(d.Overrides)}
	for _, w := range d.Wedges() {
		switch {
		case w.Label == nil:
			s.Suppressed++
		case !w.Label.Fits:
			s.Labels++
			s.Fallbacks++
		default:
			s.Labels++
		}
	}
	return s
}

// Wedges returns inner wedges followed by outer wedges.
func (d Diagram) Wedges() []Wedge {
	out := make([]Wedge, 0, len(d.Inner)+len(d.Outer))
	out = append(out, d.Inner...)
	return append(out, d.Outer...)
}

// Compute lays out the dataset. A nil weight gives every barrier an equal
// share. The context cancels the label pass.
func Compute(ctx context.Context, d dataset.Dataset, weight dataset.WeightFunc, cfg Config) (Diagram, error) {
	if err := cfg.Validate(); err != nil {
		return Diagram{}, err
	}
	if cfg.EqualWedges || weight == nil {
		weight = dataset.EqualWeight
	}

	// Phase 1: segments, orientation, geometry, colors.
	segs := segment.Build(d, weight, cfg.segmentConfig())
	diagram := Diagram{
		Width:     cfg.Width,
		Height:    cfg.Height,
		Center:    geometry.Point{X: cfg.Width / 2, Y: cfg.Height / 2},
		Stretch:   cfg.Stretch,
		Inner:     make([]Wedge, len(segs.Inner)),
		Outer:     make([]Wedge, len(segs.Outer)),
		Overrides: segs.Overrides,
		Orphans:   segs.Orphans,
	}

	pal := palette.Palette{Colors: palette.Default, Overrides: cfg.ThemeColors, Tint: cfg.Tint}
	themeColor := make(map[string]string, len(segs.Inner))
	for i, s := range segs.Inner {
		var explicit string
		if t, ok := d.Theme(s.ThemeID); ok {
			explicit = t.Color
		}
		c := pal.ThemeColor(s.ThemeIndex, s.ThemeID, explicit)
		themeColor[s.ThemeID] = c
		diagram.Inner[i] = diagram.wedge(s, RingInner, cfg.InnerR0, cfg.InnerR1, c)
	}
	for i, s := range segs.Outer {
		c := pal.OuterColor(themeColor[s.ThemeID])
		diagram.Outer[i] = diagram.wedge(s, RingOuter, cfg.OuterR0, cfg.OuterR1, c)
	}

	// Phase 2: labels.
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	m := label.MeasurerFor(cfg.Measurer)
	inner, outer := cfg.innerOptions(), cfg.outerOptions()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range diagram.Inner {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			w := &diagram.Inner[i]
			l, ok := label.FitInner(label.InnerRequest{
				Text:     w.Segment.Label,
				Center:   diagram.Center,
				A0:       w.Segment.StartAngle,
				A1:       w.Segment.EndAngle,
				R0:       w.R0,
				R1:       w.R1,
				Stretch:  cfg.Stretch,
				Options:  inner,
				Measurer: m,
			})
			if ok {
				w.Label = &l
			}
			return nil
		})
	}
	for i := range diagram.Outer {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			w := &diagram.Outer[i]
			l, ok := label.FitOuter(label.OuterRequest{
				Text:     w.Segment.Label,
				Center:   diagram.Center,
				A0:       w.Segment.StartAngle,
				A1:       w.Segment.EndAngle,
				R0:       w.R0,
				R1:       w.R1,
				Stretch:  cfg.Stretch,
				Flip:     segs.FinalFlip(w.Segment),
				Options:  outer,
				Measurer: m,
			})
			if ok {
				w.Label = &l
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Diagram{}, err
	}
	return diagram, nil
}

func (d Diagram) wedge(s segment.Segment, ring string, r0, r1 float64, color string) Wedge {
	w := Wedge{
		Segment:   s,
		Ring:      ring,
		R0:        r0,
		R1:        r1,
		Color:     color,
		TextColor: palette.TextColor(color),
	}
	if math.Abs(s.Span()) > 0 {
		w.Path = geometry.WedgePath(d.Center, r0, r1, d.Stretch, s.StartAngle, s.EndAngle)
	}
	return w
}

// Polygon samples a wedge outline for raster surfaces.
func (d Diagram) Polygon(w Wedge, stepDeg float64) []geometry.Point {
	if math.Abs(w.Segment.Span()) == 0 {
		return nil
	}
	return geometry.WedgePolygon(d.Center, w.R0, w.R1, d.Stretch, w.Segment.StartAngle, w.Segment.EndAngle, stepDeg)
}

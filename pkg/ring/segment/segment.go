// Package segment computes the angular spans of the two rings.
//
// Every theme owns one inner segment; every barrier owns one outer segment.
// Barrier spans are proportional to their weight, and a theme's span is the
// exact union of its barriers' spans, so the outer ring tiles each inner
// segment and the inner ring tiles the full circle without gaps or overlaps.
//
// The builder also decides label orientation for the outer ring: each
// barrier records whether its midpoint falls in the upside-down half, and a
// theme whose barriers disagree gets a single override so its labels never
// flip individually.
package segment

import (
	"cmp"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/matzehuels/ringchart/pkg/dataset"
	"github.com/matzehuels/ringchart/pkg/ring/geometry"
)

// Barrier ordering within a theme.
const (
	OrderByName   = "name"
	OrderByWeight = "weight"
)

// Config controls where the rings start and which way they run.
type Config struct {
	// StartAngle is the angle of the first boundary in radians.
	StartAngle float64
	// Clockwise runs segments clockwise on screen when true.
	Clockwise bool
	// BarrierOrder is OrderByName (default) or OrderByWeight.
	BarrierOrder string
}

// DefaultConfig starts at 12 o'clock and runs clockwise.
func DefaultConfig() Config {
	return Config{
		StartAngle:   -math.Pi / 2,
		Clockwise:    true,
		BarrierOrder: OrderByName,
	}
}

// Segment is one wedge of either ring.
type Segment struct {
	ID         string  `json:"id"`
	ThemeID    string  `json:"theme_id"`
	Label      string  `json:"label"`
	StartAngle float64 `json:"start_angle"`
	EndAngle   float64 `json:"end_angle"`
	Weight     float64 `json:"weight"`
	// ThemeIndex is the theme's position in ring order.
	ThemeIndex int `json:"theme_index"`
	// Index is the barrier's position within its theme; -1 for inner segments.
	Index int `json:"index"`
	// BaseFlip reports whether the midpoint lies in the upside-down half.
	// Only meaningful for outer segments.
	BaseFlip bool `json:"base_flip,omitempty"`
}

// Span returns the signed angular extent.
func (s Segment) Span() float64 { return s.EndAngle - s.StartAngle }

// Mid returns the angle halfway through the segment.
func (s Segment) Mid() float64 { return geometry.Midpoint(s.StartAngle, s.EndAngle) }

// Result holds both rings and the per-theme orientation overrides.
type Result struct {
	Inner []Segment `json:"inner"`
	Outer []Segment `json:"outer"`
	// Overrides maps theme IDs to the flip value forced on all of that
	// theme's outer labels. Themes whose barriers agree are absent.
	Overrides map[string]bool `json:"overrides,omitempty"`
	// Orphans lists barriers whose theme is not in the dataset.
	Orphans []string `json:"orphans,omitempty"`
}

// FinalFlip returns the orientation to use for an outer segment's label.
func (r Result) FinalFlip(s Segment) bool {
	if v, ok := r.Overrides[s.ThemeID]; ok {
		return v
	}
	return s.BaseFlip
}

// Coverage returns the total absolute angular span of the outer ring.
func (r Result) Coverage() float64 {
	spans := make([]float64, len(r.Outer))
	for i, s := range r.Outer {
		spans[i] = math.Abs(s.Span())
	}
	return floats.Sum(spans)
}

// Build computes inner and outer segments for the dataset. weight gives each
// barrier's share in count-like units; nil means equal shares. The circle is
// divided by max(1, total weight), so the outer ring is closed only when the
// weights sum to at least 1. Build is a pure function:
// identical inputs produce bit-identical angles.
func Build(d dataset.Dataset, weight dataset.WeightFunc, cfg Config) Result {
	if weight == nil {
		weight = dataset.EqualWeight
	}
	themes := d.SortedThemes()
	grouped := d.BarriersByTheme()

	res := Result{Overrides: map[string]bool{}}

	known := make(map[string]bool, len(themes))
	for _, t := range themes {
		known[t.ID] = true
	}
	for _, b := range d.Barriers {
		if !known[b.ThemeID] {
			res.Orphans = append(res.Orphans, b.ID)
		}
	}

	ordered := make([][]dataset.Barrier, len(themes))
	var total float64
	for i, t := range themes {
		ordered[i] = sortBarriers(grouped[t.ID], weight, cfg.BarrierOrder)
		for _, b := range ordered[i] {
			total += sanitize(weight(b))
		}
	}

	// Floor the divisor at one so an empty or all-zero dataset cannot
	// divide by zero.
	total = math.Max(1, total)
	perUnit := geometry.FullTurn / total
	if !cfg.Clockwise {
		perUnit = -perUnit
	}

	cursor := cfg.StartAngle
	for ti, t := range themes {
		start := cursor
		var themeWeight float64
		for bi, b := range ordered[ti] {
			w := sanitize(weight(b))
			end := cursor + perUnit*w
			seg := Segment{
				ID:         b.ID,
				ThemeID:    t.ID,
				Label:      b.Name,
				StartAngle: cursor,
				EndAngle:   end,
				Weight:     w,
				ThemeIndex: ti,
				Index:      bi,
			}
			seg.BaseFlip = geometry.ShouldFlipAngle(seg.Mid())
			res.Outer = append(res.Outer, seg)
			themeWeight += w
			cursor = end
		}
		res.Inner = append(res.Inner, Segment{
			ID:         t.ID,
			ThemeID:    t.ID,
			Label:      t.Name,
			StartAngle: start,
			EndAngle:   cursor,
			Weight:     themeWeight,
			ThemeIndex: ti,
			Index:      -1,
		})
	}

	for _, t := range themes {
		if v, ok := majorityFlip(res.Outer, t.ID); ok {
			res.Overrides[t.ID] = v
		}
	}
	return res
}

// majorityFlip returns the override for a theme whose barriers disagree on
// orientation. Ties resolve toward flipped.
func majorityFlip(outer []Segment, themeID string) (bool, bool) {
	var flipped, upright int
	for _, s := range outer {
		if s.ThemeID != themeID {
			continue
		}
		if s.BaseFlip {
			flipped++
		} else {
			upright++
		}
	}
	if flipped == 0 || upright == 0 {
		return false, false
	}
	return flipped >= upright, true
}

func sortBarriers(bs []dataset.Barrier, weight dataset.WeightFunc, order string) []dataset.Barrier {
	out := slices.Clone(bs)
	byName := func(a, b dataset.Barrier) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	}
	if order == OrderByWeight {
		slices.SortStableFunc(out, func(a, b dataset.Barrier) int {
			if c := cmp.Compare(sanitize(weight(b)), sanitize(weight(a))); c != 0 {
				return c
			}
			return byName(a, b)
		})
		return out
	}
	slices.SortStableFunc(out, byName)
	return out
}

func sanitize(w float64) float64 {
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return 0
	}
	return w
}

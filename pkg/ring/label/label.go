// Package label fits text into ring segments.
//
// Inner (theme) labels stack up to a few lines on concentric baselines that
// follow the ring. Outer (barrier) labels are a single rotated block placed
// at the segment midpoint. Both fitters search font sizes from large to
// small and accept the first size that fits; neither ever returns an
// undefined layout for a segment that is wide enough to be labeled.
package label

import (
	"math"
	"strings"

	"github.com/matzehuels/ringchart/pkg/ring/geometry"
	"github.com/matzehuels/ringchart/pkg/ring/textpath"
)

// Layout is a fitted label.
type Layout struct {
	FontSize float64  `json:"font_size"`
	Lines    []string `json:"lines"`
	// Radii holds one baseline radius per line for inner labels and the
	// block radius for outer labels.
	Radii []float64 `json:"radii"`
	// Paths holds one routed baseline per line (inner labels only).
	Paths []textpath.Path `json:"paths,omitempty"`
	// Anchor is the block center (outer labels only).
	Anchor   geometry.Point `json:"anchor"`
	Rotation float64        `json:"rotation"`
	Flip     bool           `json:"flip"`
	// LineGap is the distance between consecutive lines, in pixels.
	LineGap float64 `json:"line_gap"`
	// Fits is false when the layout is a fallback that failed a fit check.
	Fits bool `json:"fits"`
}

// LineOffset returns the offset of line i from the block center along the
// block's vertical axis, in pixels.
func (l Layout) LineOffset(i int) float64 {
	return (float64(i) - float64(len(l.Lines)-1)/2) * l.LineGap
}

// Text returns the lines joined by spaces.
func (l Layout) Text() string { return strings.Join(l.Lines, " ") }

// suppressed reports whether a span is too narrow to carry a label.
func suppressed(a0, a1, padDeg, minSpanDeg float64) bool {
	span := math.Abs(geometry.Degrees(a1 - a0))
	if span < minSpanDeg {
		return true
	}
	p0, p1 := textpath.Pad(a0, a1, padDeg)
	return p0 == p1
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// fontSizes yields sizes from hi down to lo inclusive.
func fontSizes(hi, lo, step float64, yield func(float64) bool) {
	if step <= 0 {
		step = 1
	}
	for size := hi; size >= lo-1e-9; size -= step {
		if !yield(size) {
			return
		}
	}
}

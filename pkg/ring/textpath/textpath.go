// Package textpath routes label baselines along elliptical arcs.
//
// SVG text follows a path from its start to its end, so a label placed on
// the lower half of a ring reads upside down unless the path runs the other
// way. Route picks the direction that keeps text upright and approximates
// the arc with a polyline: with a vertical stretch the ellipse has no single
// arc primitive whose direction is consistently upright, while a sampled
// polyline behaves the same on every surface.
package textpath

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/ringchart/pkg/ring/geometry"
)

// Sampling defaults.
const (
	DefaultStepDeg  = 6.0
	DefaultMinSteps = 10
)

// Request describes one baseline.
type Request struct {
	Center  geometry.Point
	A0, A1  float64 // arc bounds in radians
	Radius  float64
	Stretch float64
	// PadDeg trims this many degrees from each end of the arc.
	PadDeg float64
	// Force, when set, overrides the automatic direction choice:
	// true reverses the path, false keeps a0→a1.
	Force *bool
	// StepDeg is the angular distance between samples (DefaultStepDeg if 0).
	StepDeg float64
	// MinSteps is the minimum number of line segments (DefaultMinSteps if 0).
	MinSteps int
}

// Path is a sampled baseline.
type Path struct {
	Points []geometry.Point `json:"points"`
	// Reversed reports whether the path runs from A1 to A0.
	Reversed bool `json:"reversed"`
	// A0 and A1 are the padded bounds in the original winding.
	A0 float64 `json:"a0"`
	A1 float64 `json:"a1"`
}

// D returns the SVG path data as a polyline.
func (p Path) D() string {
	if len(p.Points) == 0 {
		return ""
	}
	var b strings.Builder
	for i, pt := range p.Points {
		if i == 0 {
			fmt.Fprintf(&b, "M %.2f %.2f", pt.X, pt.Y)
			continue
		}
		fmt.Fprintf(&b, " L %.2f %.2f", pt.X, pt.Y)
	}
	return b.String()
}

// Length returns the polyline length, the pixels available to text.
func (p Path) Length() float64 {
	var total float64
	for i := 1; i < len(p.Points); i++ {
		total += p.Points[i-1].Dist(p.Points[i])
	}
	return total
}

// Empty reports whether the path has no drawable extent.
func (p Path) Empty() bool { return len(p.Points) < 2 }

// Pad shrinks [a0, a1] symmetrically by padDeg degrees on each end while
// keeping the original winding. A range too short to pad collapses to its
// midpoint.
func Pad(a0, a1, padDeg float64) (float64, float64) {
	if padDeg <= 0 {
		return a0, a1
	}
	pad := geometry.Radians(padDeg)
	span := a1 - a0
	if math.Abs(span) <= 2*pad {
		mid := geometry.Midpoint(a0, a1)
		return mid, mid
	}
	if span < 0 {
		pad = -pad
	}
	return a0 + pad, a1 - pad
}

// LowerHalf reports whether the arc midpoint lies below the center.
func LowerHalf(c geometry.Point, a0, a1, r, stretch float64) bool {
	mid := geometry.PointOnEllipse(c, r, geometry.Midpoint(a0, a1), stretch)
	return mid.Y > c.Y
}

// Route samples the padded arc and orients it so text reads upright.
func Route(req Request) Path {
	a0, a1 := Pad(req.A0, req.A1, req.PadDeg)
	p := Path{A0: a0, A1: a1}
	if !finite(a0, a1, req.Radius, req.Stretch, req.Center.X, req.Center.Y) || a0 == a1 {
		return p
	}

	if req.Force != nil {
		p.Reversed = *req.Force
	} else {
		// Upright text runs clockwise (increasing angle) on the upper half
		// and counter-clockwise on the lower half.
		lower := LowerHalf(req.Center, a0, a1, req.Radius, req.Stretch)
		p.Reversed = lower == (a0 < a1)
	}

	from, to := a0, a1
	if p.Reversed {
		from, to = a1, a0
	}

	n := Steps(to-from, req.StepDeg, req.MinSteps)
	p.Points = make([]geometry.Point, n+1)
	for i := 0; i <= n; i++ {
		a := from + (to-from)*float64(i)/float64(n)
		p.Points[i] = geometry.PointOnEllipse(req.Center, req.Radius, a, req.Stretch)
	}
	return p
}

// ArcLength returns the approximate length of the padded arc at radius,
// sampled the same way Route samples it.
func ArcLength(c geometry.Point, a0, a1, r, stretch, padDeg float64) float64 {
	return Route(Request{Center: c, A0: a0, A1: a1, Radius: r, Stretch: stretch, PadDeg: padDeg}).Length()
}

// Steps returns the number of line segments for a span: one per stepDeg
// degrees, never fewer than minSteps.
func Steps(span, stepDeg float64, minSteps int) int {
	if stepDeg <= 0 {
		stepDeg = DefaultStepDeg
	}
	if minSteps <= 0 {
		minSteps = DefaultMinSteps
	}
	// The epsilon keeps exact multiples of stepDeg from rounding up.
	n := int(math.Ceil(math.Abs(geometry.Degrees(span))/stepDeg - 1e-9))
	return max(minSteps, n)
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

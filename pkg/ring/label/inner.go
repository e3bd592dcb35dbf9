package label

import (
	"math"

	"github.com/matzehuels/ringchart/pkg/ring/geometry"
	"github.com/matzehuels/ringchart/pkg/ring/textpath"
)

// InnerOptions tunes the inner label fitter. Zero-valued fields take the
// DefaultInnerOptions values, except Inset and PadDeg: zero there means no
// inset and no padding. Start from DefaultInnerOptions to keep them.
type InnerOptions struct {
	MaxLines   int
	MaxFont    float64
	MinFont    float64
	FontStep   float64
	Safety     float64 // fraction of the arc length usable by text
	LineGap    float64 // line spacing as a multiple of font size
	Inset      float64 // keep-out margin inside the ring band, in pixels
	MinSpacing float64 // minimum gap between clamped radii, × font size
	// MinSpanDeg suppresses labels on narrower segments. Zero selects the
	// default; a negative value labels every segment.
	MinSpanDeg float64
	PadDeg     float64
}

// DefaultInnerOptions returns the inner ring defaults.
func DefaultInnerOptions() InnerOptions {
	return InnerOptions{
		MaxLines:   3,
		MaxFont:    44,
		MinFont:    14,
		FontStep:   1,
		Safety:     0.94,
		LineGap:    1.04,
		Inset:      22,
		MinSpacing: 0.6,
		MinSpanDeg: 12,
		PadDeg:     2,
	}
}

func (o InnerOptions) withDefaults() InnerOptions {
	d := DefaultInnerOptions()
	if o.MaxLines <= 0 {
		o.MaxLines = d.MaxLines
	}
	if o.MaxFont <= 0 {
		o.MaxFont = d.MaxFont
	}
	if o.MinFont <= 0 {
		o.MinFont = d.MinFont
	}
	if o.MinFont > o.MaxFont {
		o.MinFont = o.MaxFont
	}
	if o.FontStep <= 0 {
		o.FontStep = d.FontStep
	}
	if o.Safety <= 0 {
		o.Safety = d.Safety
	}
	if o.LineGap <= 0 {
		o.LineGap = d.LineGap
	}
	if o.MinSpanDeg == 0 {
		o.MinSpanDeg = d.MinSpanDeg
	}
	if o.Inset < 0 {
		o.Inset = 0
	}
	if o.PadDeg < 0 {
		o.PadDeg = 0
	}
	if o.MinSpacing <= 0 {
		o.MinSpacing = d.MinSpacing
	}
	return o
}

// InnerRequest describes one theme segment.
type InnerRequest struct {
	Text   string
	Center geometry.Point
	A0, A1 float64
	// R0 and R1 bound the ring band.
	R0, R1 float64
	// Baseline is the radius of the middle line; zero selects the band
	// center.
	Baseline float64
	Stretch  float64
	Options  InnerOptions
	Measurer Measurer
}

type innerCandidate struct {
	size  float64
	lines []string
	radii []float64
}

// FitInner fits a stacked label into a theme segment. ok is false when the
// segment is too narrow or its geometry is not finite.
func FitInner(req InnerRequest) (Layout, bool) {
	opts := req.Options.withDefaults()
	m := req.Measurer
	if m == nil {
		m = Heuristic{}
	}
	stretch := req.Stretch
	if stretch == 0 {
		stretch = 1
	}
	baseline := req.Baseline
	if baseline == 0 {
		baseline = (req.R0 + req.R1) / 2
	}
	if !finite(req.A0, req.A1, req.R0, req.R1, baseline, stretch, req.Center.X, req.Center.Y) {
		return Layout{}, false
	}
	if suppressed(req.A0, req.A1, opts.PadDeg, opts.MinSpanDeg) {
		return Layout{}, false
	}

	lo, hi := req.R0+opts.Inset, req.R1-opts.Inset
	if lo > hi {
		lo = (req.R0 + req.R1) / 2
		hi = lo
	}
	// On the lower half text reads toward the center, so the first line
	// sits on the smallest radius.
	lower := textpath.LowerHalf(req.Center, req.A0, req.A1, baseline, stretch)
	arcAt := func(r float64) float64 {
		return textpath.ArcLength(req.Center, req.A0, req.A1, r, stretch, opts.PadDeg)
	}
	avail := arcAt(baseline) * opts.Safety

	var first *innerCandidate
	var found *innerCandidate
	fontSizes(opts.MaxFont, opts.MinFont, opts.FontStep, func(size float64) bool {
		lines := Wrap(req.Text, avail, size, m)
		radii := stackRadii(len(lines), baseline, size*opts.LineGap, lower, lo, hi)
		c := &innerCandidate{size: size, lines: lines, radii: radii}
		if first == nil {
			first = c
		}
		if innerFits(c, opts, m, arcAt) {
			found = c
			return false
		}
		return true
	})

	fits := found != nil
	if !fits {
		found = first
		found.lines = truncate(found.lines, opts.MaxLines)
		found.radii = stackRadii(len(found.lines), baseline, found.size*opts.LineGap, lower, lo, hi)
	}

	out := Layout{
		FontSize: found.size,
		Lines:    found.lines,
		Radii:    found.radii,
		Paths:    make([]textpath.Path, len(found.lines)),
		LineGap:  found.size * opts.LineGap,
		Flip:     lower,
		Fits:     fits,
	}
	for i, r := range found.radii {
		out.Paths[i] = textpath.Route(textpath.Request{
			Center:  req.Center,
			A0:      req.A0,
			A1:      req.A1,
			Radius:  r,
			Stretch: stretch,
			PadDeg:  opts.PadDeg,
		})
	}
	return out, true
}

// stackRadii centers n lines on baseline and clamps them into [lo, hi].
func stackRadii(n int, baseline, gap float64, lower bool, lo, hi float64) []float64 {
	sign := -1.0
	if lower {
		sign = 1
	}
	radii := make([]float64, n)
	for i := range radii {
		off := (float64(i) - float64(n-1)/2) * gap
		radii[i] = math.Min(hi, math.Max(lo, baseline+sign*off))
	}
	return radii
}

func innerFits(c *innerCandidate, opts InnerOptions, m Measurer, arcAt func(float64) float64) bool {
	if len(c.lines) > opts.MaxLines {
		return false
	}
	for i, line := range c.lines {
		if m.Width(line, c.size) > arcAt(c.radii[i])*opts.Safety {
			return false
		}
		if i > 0 && math.Abs(c.radii[i]-c.radii[i-1]) < c.size*opts.MinSpacing {
			return false
		}
	}
	return true
}

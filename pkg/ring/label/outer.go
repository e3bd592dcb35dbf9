package label

import (
	"math"

	"github.com/matzehuels/ringchart/pkg/ring/geometry"
	"github.com/matzehuels/ringchart/pkg/ring/textpath"
)

// OuterOptions tunes the outer label fitter. Zero-valued fields take the
// DefaultOuterOptions values, except Margin and PadDeg: zero there means no
// radial margin and no padding. Start from DefaultOuterOptions to keep them.
type OuterOptions struct {
	MaxLines int
	MaxFont  float64
	MinFont  float64
	// AbsoluteMinFont bounds the guard loop that runs once MinFont is
	// reached without a fit.
	AbsoluteMinFont float64
	FontStep        float64
	ChordMargin     float64 // fraction of the chord usable by text
	LineGap         float64
	Margin          float64 // radial keep-out margin, in pixels
	MinSpanDeg      float64
	PadDeg          float64
}

// DefaultOuterOptions returns the outer ring defaults.
func DefaultOuterOptions() OuterOptions {
	return OuterOptions{
		MaxLines:        5,
		MaxFont:         50,
		MinFont:         12,
		AbsoluteMinFont: 6,
		FontStep:        1,
		ChordMargin:     0.86,
		LineGap:         1.04,
		Margin:          6,
		MinSpanDeg:      12,
		PadDeg:          2,
	}
}

func (o OuterOptions) withDefaults() OuterOptions {
	d := DefaultOuterOptions()
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
	if o.AbsoluteMinFont <= 0 || o.AbsoluteMinFont > o.MinFont {
		o.AbsoluteMinFont = math.Min(d.AbsoluteMinFont, o.MinFont)
	}
	if o.FontStep <= 0 {
		o.FontStep = d.FontStep
	}
	if o.ChordMargin <= 0 {
		o.ChordMargin = d.ChordMargin
	}
	if o.LineGap <= 0 {
		o.LineGap = d.LineGap
	}
	if o.MinSpanDeg == 0 {
		o.MinSpanDeg = d.MinSpanDeg
	}
	if o.Margin < 0 {
		o.Margin = 0
	}
	if o.PadDeg < 0 {
		o.PadDeg = 0
	}
	return o
}

// OuterRequest describes one barrier segment.
type OuterRequest struct {
	Text   string
	Center geometry.Point
	A0, A1 float64
	R0, R1 float64
	// Radius places the block; zero selects the band center.
	Radius  float64
	Stretch float64
	// Flip is the segment's final orientation.
	Flip     bool
	Options  OuterOptions
	Measurer Measurer
}

// FitOuter fits a rotated block label into a barrier segment. ok is false
// when the segment is too narrow or its geometry is not finite.
func FitOuter(req OuterRequest) (Layout, bool) {
	opts := req.Options.withDefaults()
	m := req.Measurer
	if m == nil {
		m = Heuristic{}
	}
	stretch := req.Stretch
	if stretch == 0 {
		stretch = 1
	}
	r := req.Radius
	if r == 0 {
		r = (req.R0 + req.R1) / 2
	}
	if !finite(req.A0, req.A1, req.R0, req.R1, r, stretch, req.Center.X, req.Center.Y) {
		return Layout{}, false
	}
	if suppressed(req.A0, req.A1, opts.PadDeg, opts.MinSpanDeg) {
		return Layout{}, false
	}

	p0, p1 := textpath.Pad(req.A0, req.A1, opts.PadDeg)
	width := 2 * r * math.Sin(math.Abs(p1-p0)/2) * opts.ChordMargin
	room := math.Min(r-req.R0, req.R1-r) - opts.Margin

	var size float64
	var lines []string
	fits := false
	try := func(s float64) bool {
		ls := Wrap(req.Text, width, s, m)
		size, lines = s, ls
		if outerFits(ls, s, width, room, opts, m) {
			fits = true
			return false
		}
		return true
	}
	fontSizes(opts.MaxFont, opts.MinFont, opts.FontStep, try)
	if !fits {
		fontSizes(opts.MinFont-opts.FontStep, opts.AbsoluteMinFont, opts.FontStep, try)
	}
	if !fits {
		lines = truncate(lines, opts.MaxLines)
	}

	mid := geometry.Midpoint(req.A0, req.A1)
	return Layout{
		FontSize: size,
		Lines:    lines,
		Radii:    []float64{r},
		Anchor:   geometry.PointOnEllipse(req.Center, r, mid, stretch),
		Rotation: geometry.UprightRotationDegrees(mid, req.Flip),
		Flip:     req.Flip,
		LineGap:  size * opts.LineGap,
		Fits:     fits,
	}, true
}

// StackHeight returns the radial extent of n lines.
func StackHeight(n int, size, lineGap float64) float64 {
	if n < 1 {
		n = 1
	}
	return float64(n-1)*size*lineGap + size
}

func outerFits(lines []string, size, width, room float64, opts OuterOptions, m Measurer) bool {
	if len(lines) > opts.MaxLines {
		return false
	}
	for _, line := range lines {
		if m.Width(line, size) > width {
			return false
		}
	}
	return StackHeight(len(lines), size, opts.LineGap)/2 <= room
}

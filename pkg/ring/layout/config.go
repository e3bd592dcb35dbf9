package layout

import (
	"math"

	"github.com/matzehuels/ringchart/pkg/errors"
	"github.com/matzehuels/ringchart/pkg/ring/label"
	"github.com/matzehuels/ringchart/pkg/ring/segment"
)

// FontRange bounds the font sizes tried by a label fitter.
type FontRange struct {
	Max float64 `json:"max" toml:"max"`
	Min float64 `json:"min" toml:"min"`
}

// Config holds every option the layout recognizes. Angles are in degrees.
type Config struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// StartAngle is where the first theme begins; -90 is 12 o'clock.
	StartAngle float64 `json:"start_angle"`
	Clockwise  bool    `json:"clockwise"`
	// Stretch scales vertical radii; 1 draws circles.
	Stretch float64 `json:"stretch"`

	InnerR0 float64 `json:"inner_r0"`
	InnerR1 float64 `json:"inner_r1"`
	OuterR0 float64 `json:"outer_r0"`
	OuterR1 float64 `json:"outer_r1"`

	InnerPadDeg   float64   `json:"inner_pad_deg"`
	OuterPadDeg   float64   `json:"outer_pad_deg"`
	InnerMaxLines int       `json:"inner_max_lines"`
	OuterMaxLines int       `json:"outer_max_lines"`
	InnerFont     FontRange `json:"inner_font"`
	OuterFont     FontRange `json:"outer_font"`
	// MinLabelSpanDeg suppresses labels on narrower segments.
	MinLabelSpanDeg float64 `json:"min_label_span_deg"`
	// Measurer is "heuristic" or "face".
	Measurer string `json:"measurer"`

	// EqualWedges gives every barrier the same span regardless of weight.
	EqualWedges  bool              `json:"equal_wedges"`
	BarrierOrder string            `json:"barrier_order"`
	ThemeColors  map[string]string `json:"theme_colors,omitempty"`
	Tint         float64           `json:"tint"`

	// Workers bounds the parallel label pass; zero uses GOMAXPROCS.
	Workers int `json:"-"`
}

// DefaultConfig returns a 1000×1000 layout starting at 12 o'clock.
func DefaultConfig() Config {
	in, out := label.DefaultInnerOptions(), label.DefaultOuterOptions()
	return Config{
		Width:           1000,
		Height:          1000,
		StartAngle:      -90,
		Clockwise:       true,
		Stretch:         1,
		InnerR0:         130,
		InnerR1:         290,
		OuterR0:         290,
		OuterR1:         470,
		InnerPadDeg:     in.PadDeg,
		OuterPadDeg:     out.PadDeg,
		InnerMaxLines:   in.MaxLines,
		OuterMaxLines:   out.MaxLines,
		InnerFont:       FontRange{Max: in.MaxFont, Min: in.MinFont},
		OuterFont:       FontRange{Max: out.MaxFont, Min: out.MinFont},
		MinLabelSpanDeg: in.MinSpanDeg,
		Measurer:        "heuristic",
		BarrierOrder:    segment.OrderByName,
		Tint:            0.45,
	}
}

// Validate reports the first invalid option as an INVALID_CONFIG error.
func (c Config) Validate() error {
	nums := []struct {
		name string
		v    float64
	}{
		{"width", c.Width}, {"height", c.Height}, {"start_angle", c.StartAngle},
		{"stretch", c.Stretch}, {"inner_r0", c.InnerR0}, {"inner_r1", c.InnerR1},
		{"outer_r0", c.OuterR0}, {"outer_r1", c.OuterR1},
		{"inner_pad_deg", c.InnerPadDeg}, {"outer_pad_deg", c.OuterPadDeg},
	}
	for _, n := range nums {
		if math.IsNaN(n.v) || math.IsInf(n.v, 0) {
			return invalid("%s must be finite", n.name)
		}
	}
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return invalid("canvas must be positive, got %gx%g", c.Width, c.Height)
	case c.Stretch <= 0:
		return invalid("stretch must be positive, got %g", c.Stretch)
	case c.InnerR0 < 0:
		return invalid("inner_r0 must not be negative")
	case c.InnerR1 <= c.InnerR0:
		return invalid("inner ring: r1 (%g) must exceed r0 (%g)", c.InnerR1, c.InnerR0)
	case c.OuterR0 < c.InnerR1:
		return invalid("outer ring must start at or beyond the inner ring (%g < %g)", c.OuterR0, c.InnerR1)
	case c.OuterR1 <= c.OuterR0:
		return invalid("outer ring: r1 (%g) must exceed r0 (%g)", c.OuterR1, c.OuterR0)
	case c.InnerPadDeg < 0 || c.OuterPadDeg < 0:
		return invalid("padding must not be negative")
	case c.InnerMaxLines < 1 || c.OuterMaxLines < 1:
		return invalid("max lines must be at least 1")
	case c.InnerFont.Min <= 0 || c.InnerFont.Min > c.InnerFont.Max:
		return invalid("inner font range [%g, %g] is invalid", c.InnerFont.Min, c.InnerFont.Max)
	case c.OuterFont.Min <= 0 || c.OuterFont.Min > c.OuterFont.Max:
		return invalid("outer font range [%g, %g] is invalid", c.OuterFont.Min, c.OuterFont.Max)
	case c.Tint < 0 || c.Tint > 1:
		return invalid("tint must be in [0, 1], got %g", c.Tint)
	}
	switch c.BarrierOrder {
	case "", segment.OrderByName, segment.OrderByWeight:
	default:
		return invalid("unknown barrier order %q", c.BarrierOrder)
	}
	switch c.Measurer {
	case "", "heuristic", "face":
	default:
		return invalid("unknown measurer %q", c.Measurer)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidConfig, format, args...)
}

func (c Config) segmentConfig() segment.Config {
	return segment.Config{
		StartAngle:   c.StartAngle * math.Pi / 180,
		Clockwise:    c.Clockwise,
		BarrierOrder: c.BarrierOrder,
	}
}

func (c Config) innerOptions() label.InnerOptions {
	o := label.DefaultInnerOptions()
	o.MaxLines = c.InnerMaxLines
	o.MaxFont, o.MinFont = c.InnerFont.Max, c.InnerFont.Min
	o.PadDeg = c.InnerPadDeg
	o.MinSpanDeg = c.minSpan()
	return o
}

func (c Config) outerOptions() label.OuterOptions {
	o := label.DefaultOuterOptions()
	o.MaxLines = c.OuterMaxLines
	o.MaxFont, o.MinFont = c.OuterFont.Max, c.OuterFont.Min
	o.PadDeg = c.OuterPadDeg
	o.MinSpanDeg = c.minSpan()
	return o
}

func (c Config) minSpan() float64 {
	if c.MinLabelSpanDeg <= 0 {
		return -1
	}
	return c.MinLabelSpanDeg
}

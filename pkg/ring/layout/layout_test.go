package layout

import (
	"context"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/matzehuels/ringchart/pkg/dataset"
	"github.com/matzehuels/ringchart/pkg/errors"
	"github.com/matzehuels/ringchart/pkg/ring/palette"
)

func intp(v int) *int { return &v }

// sample has one single-barrier theme, one four-barrier theme that
// straddles 6 o'clock, and one theme without barriers.
func sample() dataset.Dataset {
	return dataset.Dataset{
		Themes: []dataset.Theme{
			{ID: "a", Name: "Access", Order: intp(1)},
			{ID: "b", Name: "Basic needs", Order: intp(2)},
			{ID: "c", Name: "Community", Order: intp(3)},
		},
		Barriers: []dataset.Barrier{
			{ID: "a1", Name: "Transport", ThemeID: "a"},
			{ID: "b1", Name: "Food", ThemeID: "b"},
			{ID: "b2", Name: "Housing", ThemeID: "b"},
			{ID: "b3", Name: "Income", ThemeID: "b"},
			{ID: "b4", Name: "Utilities", ThemeID: "b"},
		},
	}
}

func TestComputeCoverage(t *testing.T) {
	d, err := Compute(context.Background(), sample(), nil, DefaultConfig())
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if len(d.Inner) != 3 || len(d.Outer) != 5 {
		t.Fatalf("got %d inner / %d outer wedges", len(d.Inner), len(d.Outer))
	}
	spans := make([]float64, len(d.Outer))
	for i, w := range d.Outer {
		spans[i] = math.Abs(w.Segment.Span())
	}
	if !scalar.EqualWithinAbs(floats.Sum(spans), 2*math.Pi, 1e-6) {
		t.Errorf("outer coverage = %v, want 2π", floats.Sum(spans))
	}
	for _, w := range d.Outer {
		if w.Path == "" {
			t.Errorf("outer wedge %s has no path", w.Segment.ID)
		}
		if w.Label == nil {
			t.Errorf("72° wedge %s should be labeled", w.Segment.ID)
		}
	}
	if d.Center.X != 500 || d.Center.Y != 500 {
		t.Errorf("Center = %v", d.Center)
	}
}

func TestComputeZeroBarrierTheme(t *testing.T) {
	d, err := Compute(context.Background(), sample(), nil, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	c := d.Inner[2]
	if c.Segment.ThemeID != "c" {
		t.Fatalf("third inner wedge is %q", c.Segment.ThemeID)
	}
	if c.Segment.Span() != 0 {
		t.Errorf("span = %v, want 0", c.Segment.Span())
	}
	if c.Label != nil {
		t.Error("zero-span theme must not be labeled")
	}
	if c.Path != "" {
		t.Errorf("zero-span theme path = %q, want empty", c.Path)
	}
}

func TestComputeOverrideApplied(t *testing.T) {
	d, err := Compute(context.Background(), sample(), nil, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	// Theme b's barriers have base flips [false, false, true, true]; the
	// tie resolves to flipped.
	v, ok := d.Overrides["b"]
	if !ok || !v {
		t.Fatalf("Overrides = %v, want b=true", d.Overrides)
	}
	for _, w := range d.Outer {
		if w.Segment.ThemeID != "b" || w.Label == nil {
			continue
		}
		if !w.Label.Flip {
			t.Errorf("%s: label not flipped despite override", w.Segment.ID)
		}
	}
}

func TestComputeDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	a, err := Compute(context.Background(), sample(), nil, cfg)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Workers = 1
	b, err := Compute(context.Background(), sample(), nil, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("layouts differ (-parallel +serial):\n%s", diff)
	}
}

func TestComputeWeighting(t *testing.T) {
	ds := sample()
	weight := func(b dataset.Barrier) float64 {
		if b.ID == "a1" {
			return 5
		}
		return 1
	}
	d, err := Compute(context.Background(), ds, weight, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if got := math.Abs(d.Outer[0].Segment.Span()); math.Abs(got-2*math.Pi*5/9) > 1e-9 {
		t.Errorf("a1 span = %v, want 5/9 of the circle", got)
	}

	cfg := DefaultConfig()
	cfg.EqualWedges = true
	eq, err := Compute(context.Background(), ds, weight, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if got := math.Abs(eq.Outer[0].Segment.Span()); math.Abs(got-2*math.Pi/5) > 1e-9 {
		t.Errorf("EqualWedges span = %v, want 2π/5", got)
	}
}

func TestComputeColors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ThemeColors = map[string]string{"b": "#000000"}
	d, err := Compute(context.Background(), sample(), nil, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if d.Inner[0].Color != palette.Default[0] {
		t.Errorf("inner[0] color = %q", d.Inner[0].Color)
	}
	if d.Inner[1].Color != "#000000" {
		t.Errorf("override color = %q", d.Inner[1].Color)
	}
	if d.Inner[1].TextColor != "#ffffff" {
		t.Errorf("text on black = %q", d.Inner[1].TextColor)
	}
	if want := palette.Tint(palette.Default[0], cfg.Tint); d.Outer[0].Color != want {
		t.Errorf("outer color = %q, want tint %q", d.Outer[0].Color, want)
	}
}

func TestComputeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Compute(ctx, sample(), nil, DefaultConfig()); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestComputeInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Stretch = 0
	_, err := Compute(context.Background(), sample(), nil, cfg)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestComputeEmptyDataset(t *testing.T) {
	d, err := Compute(context.Background(), dataset.Dataset{}, nil, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Inner) != 0 || len(d.Outer) != 0 {
		t.Errorf("empty dataset produced wedges: %+v", d)
	}
}

func TestStats(t *testing.T) {
	d, err := Compute(context.Background(), sample(), nil, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	s := d.Stats()
	if s.Themes != 3 || s.Barriers != 5 {
		t.Errorf("Stats = %+v", s)
	}
	if s.Labels+s.Suppressed != 8 {
		t.Errorf("labels %d + suppressed %d != 8", s.Labels, s.Suppressed)
	}
	if s.Suppressed < 1 {
		t.Error("the zero-span theme should count as suppressed")
	}
	if s.Overrides != 1 {
		t.Errorf("Overrides = %d, want 1", s.Overrides)
	}
}

func TestPolygon(t *testing.T) {
	d, err := Compute(context.Background(), sample(), nil, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if pts := d.Polygon(d.Outer[0], 3); len(pts) < 4 {
		t.Errorf("polygon has %d points", len(pts))
	}
	if pts := d.Polygon(d.Inner[2], 3); pts != nil {
		t.Error("zero-span wedge should have no polygon")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"NaN angle", func(c *Config) { c.StartAngle = math.NaN() }},
		{"negative stretch", func(c *Config) { c.Stretch = -1 }},
		{"inverted inner ring", func(c *Config) { c.InnerR1 = c.InnerR0 }},
		{"overlapping rings", func(c *Config) { c.OuterR0 = c.InnerR1 - 1 }},
		{"inverted outer ring", func(c *Config) { c.OuterR1 = c.OuterR0 }},
		{"negative pad", func(c *Config) { c.OuterPadDeg = -1 }},
		{"no lines", func(c *Config) { c.InnerMaxLines = 0 }},
		{"font range", func(c *Config) { c.OuterFont = FontRange{Max: 10, Min: 20} }},
		{"tint", func(c *Config) { c.Tint = 2 }},
		{"barrier order", func(c *Config) { c.BarrierOrder = "random" }},
		{"measurer", func(c *Config) { c.Measurer = "ruler" }},
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig invalid: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

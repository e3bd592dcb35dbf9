package sink

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/ringchart/pkg/dataset"
	"github.com/matzehuels/ringchart/pkg/ring/geometry"
	"github.com/matzehuels/ringchart/pkg/ring/label"
	"github.com/matzehuels/ringchart/pkg/ring/layout"
	"github.com/matzehuels/ringchart/pkg/ring/segment"
)

func intp(v int) *int { return &v }

func testDiagram(t *testing.T) layout.Diagram {
	t.Helper()
	ds := dataset.Dataset{
		Themes: []dataset.Theme{
			{ID: "access", Name: "Access & transit", Order: intp(1)},
			{ID: "basics", Name: "Basic needs", Order: intp(2)},
			{ID: "empty", Name: "Community", Order: intp(3)},
		},
		Barriers: []dataset.Barrier{
			{ID: "bus", Name: "Bus routes", ThemeID: "access"},
			{ID: "food", Name: "Food", ThemeID: "basics"},
			{ID: "rent", Name: "Rent", ThemeID: "basics"},
		},
	}
	d, err := layout.Compute(context.Background(), ds, nil, layout.DefaultConfig())
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	return d
}

func TestRenderSVG(t *testing.T) {
	d := testDiagram(t)
	out := string(RenderSVG(d, WithTitle("Barriers"), WithBackground("#fafafa")))

	for _, want := range []string{
		`<svg`,
		`viewBox="0 0 1000 1000"`,
		`<title>Barriers</title>`,
		`id="theme-access"`,
		`id="barrier-rent"`,
		`fill:#fafafa`,
		`startOffset="50%"`,
		`</svg>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if strings.Contains(out, `id="theme-empty"`) {
		t.Error("zero-span theme should not be drawn")
	}
	if !strings.Contains(out, "&amp;") || strings.Contains(out, "Access & transit") {
		t.Error("label text should be escaped")
	}

	var paths int
	for _, w := range d.Inner {
		if w.Label == nil {
			continue
		}
		for j := range w.Label.Lines {
			if j < len(w.Label.Paths) && !w.Label.Paths[j].Empty() {
				paths++
			}
		}
	}
	if got := strings.Count(out, "<textPath"); got != paths {
		t.Errorf("textPath count = %d, want %d", got, paths)
	}
	if got := strings.Count(out, "rotate("); got != countLabels(d.Outer) {
		t.Errorf("rotated blocks = %d, want %d", got, countLabels(d.Outer))
	}
}

func TestRenderSVGTransparentByDefault(t *testing.T) {
	out := string(RenderSVG(testDiagram(t)))
	if strings.Contains(out, "<rect") {
		t.Error("no background rect expected without WithBackground")
	}
	if strings.Contains(out, `id="guides"`) {
		t.Error("guides should be off by default")
	}
}

func TestRenderSVGGuides(t *testing.T) {
	out := string(RenderSVG(testDiagram(t), WithGuides()))
	if !strings.Contains(out, `id="guides"`) || !strings.Contains(out, "<use") {
		t.Error("WithGuides should reference the baselines")
	}
}

func TestRenderSVGDoesNotMutate(t *testing.T) {
	d := testDiagram(t)
	before := d.Wedges()
	RenderSVG(d)
	if diff := cmp.Diff(before, d.Wedges()); diff != "" {
		t.Errorf("diagram changed (-before +after):\n%s", diff)
	}
}

func TestRenderPNG(t *testing.T) {
	d := testDiagram(t)

	tests := []struct {
		name        string
		opts        []RasterOption
		size        int
		transparent bool
	}{
		{"transparent", []RasterOption{WithScale(0.5)}, 500, true},
		{"background", []RasterOption{WithScale(0.25), WithRasterBackground("#000000")}, 250, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := RenderPNG(d, tt.opts...)
			if err != nil {
				t.Fatalf("RenderPNG() error: %v", err)
			}
			img, err := png.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if b := img.Bounds(); b.Dx() != tt.size || b.Dy() != tt.size {
				t.Fatalf("bounds = %v, want %dx%d", b, tt.size, tt.size)
			}
			_, _, _, a := img.At(0, 0).RGBA()
			if (a == 0) != tt.transparent {
				t.Errorf("corner alpha = %d, transparent = %v", a, tt.transparent)
			}
			// A pixel inside the outer ring is painted.
			c := tt.size / 2
			r := int(380 * float64(tt.size) / 1000)
			if _, _, _, a := img.At(c, c-r).RGBA(); a == 0 {
				t.Error("ring pixel should be opaque")
			}
		})
	}
}

func TestRenderJPEG(t *testing.T) {
	data, err := RenderJPEG(testDiagram(t), WithScale(0.3), WithQuality(80))
	if err != nil {
		t.Fatalf("RenderJPEG() error: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := img.Bounds(); got != image.Rect(0, 0, 300, 300) {
		t.Errorf("bounds = %v", got)
	}
	// White default background in the corner.
	r, g, b, _ := img.At(2, 2).RGBA()
	if r < 0xf000 || g < 0xf000 || b < 0xf000 {
		t.Errorf("corner = (%x, %x, %x), want white", r, g, b)
	}
}

func TestRasterErrors(t *testing.T) {
	d := testDiagram(t)
	tests := []struct {
		name string
		run  func() error
	}{
		{"zero scale", func() error { _, err := RenderPNG(d, WithScale(0)); return err }},
		{"NaN scale", func() error { _, err := RenderPNG(d, WithScale(math.NaN())); return err }},
		{"huge canvas", func() error { _, err := RenderPNG(d, WithScale(1000)); return err }},
		{"bad background", func() error { _, err := RenderPNG(d, WithScale(0.1), WithRasterBackground("white")); return err }},
		{"bad quality", func() error { _, err := RenderJPEG(d, WithScale(0.1), WithQuality(0)); return err }},
		{"empty diagram", func() error { _, err := RenderPNG(layout.Diagram{}); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	d := testDiagram(t)
	data, err := RenderJSON(d, WithJSONTitle("Barriers"), WithJSONWeighting("count"))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	if !strings.Contains(string(data), `"weighting": "count"`) {
		t.Error("weighting not recorded")
	}
	got, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON() error: %v", err)
	}
	if diff := cmp.Diff(d, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseJSONErrors(t *testing.T) {
	for _, in := range []string{`{`, `{"diagram": {}}`} {
		if _, err := ParseJSON([]byte(in)); err == nil {
			t.Errorf("ParseJSON(%q) should fail", in)
		}
	}
}

func TestPointAt(t *testing.T) {
	pts := []geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}
	tests := []struct {
		s     float64
		want  geometry.Point
		angle float64
	}{
		{0, geometry.Point{X: 0, Y: 0}, 0},
		{5, geometry.Point{X: 5, Y: 0}, 0},
		{15, geometry.Point{X: 10, Y: 5}, math.Pi / 2},
		{-3, geometry.Point{X: 0, Y: 0}, 0},
		{50, geometry.Point{X: 10, Y: 10}, math.Pi / 2},
	}
	for _, tt := range tests {
		got, angle := pointAt(pts, tt.s)
		if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 || math.Abs(angle-tt.angle) > 1e-9 {
			t.Errorf("pointAt(%v) = %v, %v; want %v, %v", tt.s, got, angle, tt.want, tt.angle)
		}
	}
}

func TestOuterLabelLinesStayInBand(t *testing.T) {
	center := geometry.Point{X: 500, Y: 500}
	l, ok := label.FitOuter(label.OuterRequest{
		Text:    "Access to affordable childcare and early learning",
		Center:  center,
		A0:      0,
		A1:      0.9,
		R0:      290,
		R1:      470,
		Options: label.DefaultOuterOptions(),
	})
	if !ok || len(l.Lines) < 2 {
		t.Fatalf("expected a fitted multi-line label, got ok=%v lines=%q", ok, l.Lines)
	}
	d := layout.Diagram{
		Width:   1000,
		Height:  1000,
		Center:  center,
		Stretch: 1,
		Outer: []layout.Wedge{{
			Segment:   segment.Segment{ID: "care/childcare", ThemeID: "care", Label: "Childcare", EndAngle: 0.9},
			Ring:      layout.RingOuter,
			R0:        290,
			R1:        470,
			Path:      geometry.WedgePath(center, 290, 470, 1, 0, 0.9),
			Color:     "#cfe3f5",
			TextColor: "#1a1a1a",
			Label:     &l,
		}},
	}

	half := label.StackHeight(len(l.Lines), l.FontSize, label.DefaultOuterOptions().LineGap) / 2
	matches := regexp.MustCompile(`translate\(0 (-?[0-9.]+)\)`).FindAllStringSubmatch(string(RenderSVG(d)), -1)
	if len(matches) != len(l.Lines) {
		t.Fatalf("got %d line transforms, want %d", len(matches), len(l.Lines))
	}
	for i, m := range matches {
		off, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(off) > half {
			t.Errorf("line %d offset %v exceeds half stack height %v", i, off, half)
		}
		if math.Abs(off-l.LineOffset(i)) > 0.01 {
			t.Errorf("line %d offset %v, want %v", i, off, l.LineOffset(i))
		}
	}

	if _, err := RenderPNG(d, WithScale(1)); err != nil {
		t.Fatalf("RenderPNG error: %v", err)
	}
}

func countLabels(ws []layout.Wedge) int {
	var n int
	for _, w := range ws {
		if w.Label != nil {
			n++
		}
	}
	return n
}

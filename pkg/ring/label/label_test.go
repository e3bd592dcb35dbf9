package label

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/ringchart/pkg/ring/geometry"
)

var origin = geometry.Point{}

func TestHeuristicWidth(t *testing.T) {
	if got := (Heuristic{}).Width("abcd", 10); math.Abs(got-24) > 1e-9 {
		t.Errorf("Width = %v, want 24", got)
	}
	if got := (Heuristic{CharWidth: 0.5}).Width("ab", 10); got != 10 {
		t.Errorf("Width = %v, want 10", got)
	}
	if got := (Heuristic{}).Width("éé", 10); math.Abs(got-12) > 1e-9 {
		t.Errorf("Width counts runes, got %v", got)
	}
}

func TestFaceMeasurer(t *testing.T) {
	m := FaceMeasurer{}
	if m.Width("Housing", 20) <= m.Width("Food", 20) {
		t.Error("longer text should measure wider")
	}
	if m.Width("", 20) != 0 {
		t.Error("empty text should have zero width")
	}
}

func TestMeasurerFor(t *testing.T) {
	if _, ok := MeasurerFor("face").(FaceMeasurer); !ok {
		t.Error(`MeasurerFor("face") should return FaceMeasurer`)
	}
	if _, ok := MeasurerFor("").(Heuristic); !ok {
		t.Error(`MeasurerFor("") should return Heuristic`)
	}
}

func TestWrap(t *testing.T) {
	m := Heuristic{CharWidth: 1}
	tests := []struct {
		name  string
		text  string
		width float64
		want  []string
	}{
		{"empty", "", 10, []string{""}},
		{"spaces only", "   ", 10, []string{""}},
		{"fits", "a bb", 10, []string{"a bb"}},
		{"greedy", "aa bb cc dd", 5, []string{"aa bb", "cc dd"}},
		{"long word alone", "a verylongword b", 5, []string{"a", "verylongword", "b"}},
		{"collapses whitespace", "a   b", 10, []string{"a b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.text, tt.width, 1, m)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Wrap mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// innerReq puts a segment centered on 12 o'clock whose baseline arc is
// roughly arc pixels long.
func innerReq(text string, arc, r0, r1 float64) InnerRequest {
	base := (r0 + r1) / 2
	half := arc / base / 2
	opts := DefaultInnerOptions()
	opts.PadDeg = 0
	return InnerRequest{
		Text:    text,
		Center:  origin,
		A0:      -math.Pi/2 - half,
		A1:      -math.Pi/2 + half,
		R0:      r0,
		R1:      r1,
		Stretch: 1,
		Options: opts,
	}
}

func TestFitInnerArcBudget(t *testing.T) {
	// Forty characters, no word longer than seven.
	text := "Access to housing and fair rent for kids"
	if len(text) != 40 {
		t.Fatalf("fixture has %d chars", len(text))
	}
	req := innerReq(text, 200, 100, 300)
	opts := req.Options

	got, ok := FitInner(req)
	if !ok {
		t.Fatal("FitInner() ok = false")
	}
	if got.FontSize > opts.MaxFont || got.FontSize < opts.MinFont {
		t.Errorf("FontSize = %v outside [%v, %v]", got.FontSize, opts.MinFont, opts.MaxFont)
	}
	if len(got.Lines) > opts.MaxLines {
		t.Errorf("got %d lines, max %d", len(got.Lines), opts.MaxLines)
	}
	for _, line := range got.Lines {
		if w := float64(len(line)) * got.FontSize * DefaultCharWidth; w > 200*opts.Safety {
			t.Errorf("line %q is %.1fpx wide, budget %.1f", line, w, 200*opts.Safety)
		}
	}
	if strings.Join(got.Lines, " ") != text {
		t.Errorf("lines %q lost text", got.Lines)
	}
}

func TestFitInnerPrefersLargestFont(t *testing.T) {
	got, ok := FitInner(innerReq("Food", 600, 100, 300))
	if !ok || !got.Fits {
		t.Fatalf("ok=%v fits=%v", ok, got.Fits)
	}
	if got.FontSize != 44 {
		t.Errorf("FontSize = %v, want 44", got.FontSize)
	}
	if len(got.Lines) != 1 || len(got.Paths) != 1 || len(got.Radii) != 1 {
		t.Errorf("want one line, got %+v", got)
	}
	if got.Radii[0] != 200 {
		t.Errorf("single line radius = %v, want baseline 200", got.Radii[0])
	}
}

func TestFitInnerRadiiStayInBand(t *testing.T) {
	req := innerReq("Early childhood education and family support", 260, 100, 220)
	got, ok := FitInner(req)
	if !ok {
		t.Fatal("ok = false")
	}
	lo, hi := req.R0+req.Options.Inset, req.R1-req.Options.Inset
	for i, r := range got.Radii {
		if r < lo-1e-9 || r > hi+1e-9 {
			t.Errorf("radius[%d] = %v outside [%v, %v]", i, r, lo, hi)
		}
	}
	if got.Fits {
		for i := 1; i < len(got.Radii); i++ {
			if math.Abs(got.Radii[i]-got.Radii[i-1]) < got.FontSize*req.Options.MinSpacing {
				t.Errorf("radii %v closer than %.1f", got.Radii, got.FontSize*req.Options.MinSpacing)
			}
		}
	}
}

func TestFitInnerLineOrder(t *testing.T) {
	text := "alpha beta gamma delta"
	upper := innerReq(text, 160, 100, 300)
	u, _ := FitInner(upper)
	if len(u.Radii) < 2 {
		t.Fatalf("expected a multi-line label, got %q", u.Lines)
	}
	if u.Radii[0] <= u.Radii[1] {
		t.Errorf("upper half: first line should be outermost, radii %v", u.Radii)
	}
	if u.Flip {
		t.Error("upper half label should not be flipped")
	}

	lower := upper
	lower.A0, lower.A1 = upper.A0+math.Pi, upper.A1+math.Pi
	l, _ := FitInner(lower)
	if len(l.Radii) < 2 || l.Radii[0] >= l.Radii[1] {
		t.Errorf("lower half: first line should be innermost, radii %v", l.Radii)
	}
	if !l.Flip {
		t.Error("lower half label should be flipped")
	}
	for _, p := range l.Paths {
		if !p.Reversed {
			t.Error("lower half paths should be reversed")
		}
	}
}

func TestFitInnerFallback(t *testing.T) {
	// 15° at radius 125 with a 6px usable band: nothing multi-line fits.
	opts := DefaultInnerOptions()
	opts.PadDeg = 0
	req := InnerRequest{
		Text:    "Transportation infrastructure and mobility access for all residents",
		Center:  origin,
		A0:      0,
		A1:      geometry.Radians(15),
		R0:      100,
		R1:      150,
		Stretch: 1,
		Options: opts,
	}
	got, ok := FitInner(req)
	if !ok {
		t.Fatal("fallback must still produce a label")
	}
	if got.Fits {
		t.Error("Fits should be false for a fallback")
	}
	if got.FontSize != opts.MaxFont {
		t.Errorf("fallback FontSize = %v, want the first candidate %v", got.FontSize, opts.MaxFont)
	}
	if len(got.Lines) == 0 || len(got.Lines) > opts.MaxLines {
		t.Errorf("fallback lines = %d, want 1..%d", len(got.Lines), opts.MaxLines)
	}
	if len(got.Paths) != len(got.Lines) || len(got.Radii) != len(got.Lines) {
		t.Errorf("paths/radii not aligned with lines: %d/%d/%d", len(got.Paths), len(got.Radii), len(got.Lines))
	}
}

func TestFitInnerSuppressed(t *testing.T) {
	tests := []struct {
		name string
		req  InnerRequest
	}{
		{"narrow span", InnerRequest{Text: "x", A0: 0, A1: geometry.Radians(10), R0: 100, R1: 200}},
		{"zero span", InnerRequest{Text: "x", A0: 1, A1: 1, R0: 100, R1: 200}},
		{"padded away", InnerRequest{Text: "x", A0: 0, A1: geometry.Radians(13), R0: 100, R1: 200,
			Options: InnerOptions{PadDeg: 7}}},
		{"NaN radius", InnerRequest{Text: "x", A0: 0, A1: 1, R0: math.NaN(), R1: 200}},
		{"infinite angle", InnerRequest{Text: "x", A0: 0, A1: math.Inf(1), R0: 100, R1: 200}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := FitInner(tt.req); ok {
				t.Error("expected no label")
			}
		})
	}
}

func TestFitInnerEmptyText(t *testing.T) {
	got, ok := FitInner(innerReq("", 300, 100, 300))
	if !ok {
		t.Fatal("empty text should still lay out")
	}
	if diff := cmp.Diff([]string{""}, got.Lines); diff != "" {
		t.Errorf("Lines mismatch (-want +got):\n%s", diff)
	}
}

func TestFitInnerDeterministic(t *testing.T) {
	req := innerReq("Mental health and wellbeing", 240, 120, 260)
	a, _ := FitInner(req)
	b, _ := FitInner(req)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("FitInner not reproducible (-a +b):\n%s", diff)
	}
}

func outerReq(text string, spanDeg, r0, r1 float64) OuterRequest {
	half := geometry.Radians(spanDeg) / 2
	opts := DefaultOuterOptions()
	opts.PadDeg = 0
	return OuterRequest{
		Text:    text,
		Center:  origin,
		A0:      -half,
		A1:      half,
		R0:      r0,
		R1:      r1,
		Stretch: 1,
		Options: opts,
	}
}

func TestFitOuterWidthBound(t *testing.T) {
	req := outerReq("Housing", 30, 300, 400)
	got, ok := FitOuter(req)
	if !ok || !got.Fits {
		t.Fatalf("ok=%v fits=%v", ok, got.Fits)
	}
	chord := 2 * 350 * math.Sin(geometry.Radians(15)) * req.Options.ChordMargin
	if w := (Heuristic{}).Width("Housing", got.FontSize); w > chord {
		t.Errorf("width %.1f exceeds chord budget %.1f", w, chord)
	}
	if w := (Heuristic{}).Width("Housing", got.FontSize+1); w <= chord && got.FontSize < req.Options.MaxFont {
		t.Errorf("FontSize %v is not the largest fitting size", got.FontSize)
	}
	if got.FontSize != 37 {
		t.Errorf("FontSize = %v, want 37", got.FontSize)
	}
}

func TestFitOuterRadialBound(t *testing.T) {
	req := outerReq("Safe and affordable places to live for every family", 90, 300, 360)
	got, ok := FitOuter(req)
	if !ok {
		t.Fatal("ok = false")
	}
	if len(got.Lines) > req.Options.MaxLines {
		t.Errorf("%d lines exceeds max %d", len(got.Lines), req.Options.MaxLines)
	}
	room := math.Min(330-300, 360-330) - req.Options.Margin
	if got.Fits && StackHeight(len(got.Lines), got.FontSize, req.Options.LineGap)/2 > room {
		t.Errorf("stack of %d lines at %v overflows %v", len(got.Lines), got.FontSize, room)
	}
}

func TestFitOuterGuardLoop(t *testing.T) {
	// A 20px band leaves 4px of half-height: only 8px text fits.
	got, ok := FitOuter(outerReq("Food", 30, 300, 320))
	if !ok {
		t.Fatal("ok = false")
	}
	if !got.Fits {
		t.Fatal("guard loop should find a fitting size")
	}
	if got.FontSize != 8 {
		t.Errorf("FontSize = %v, want 8", got.FontSize)
	}
}

func TestFitOuterNeverUndefined(t *testing.T) {
	// A band too thin for any size still yields a label at the absolute floor.
	req := outerReq("Food", 30, 300, 310)
	got, ok := FitOuter(req)
	if !ok {
		t.Fatal("ok = false")
	}
	if got.Fits {
		t.Error("nothing should fit a 10px band with a 6px margin")
	}
	if got.FontSize != req.Options.AbsoluteMinFont {
		t.Errorf("FontSize = %v, want %v", got.FontSize, req.Options.AbsoluteMinFont)
	}
	if len(got.Lines) == 0 {
		t.Error("lines should not be empty")
	}
}

func TestFitOuterRotation(t *testing.T) {
	tests := []struct {
		name    string
		midDeg  float64
		flip    bool
		wantRot float64
	}{
		{"right", 0, false, 0},
		{"bottom", 90, false, 90},
		{"left flipped", 180, true, 0},
		{"left unflipped", 180, false, 180},
		{"lower left flipped", 135, true, 315},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := outerReq("Jobs", 30, 300, 400)
			mid := geometry.Radians(tt.midDeg)
			req.A0, req.A1 = mid-geometry.Radians(15), mid+geometry.Radians(15)
			req.Flip = tt.flip
			got, ok := FitOuter(req)
			if !ok {
				t.Fatal("ok = false")
			}
			if math.Abs(got.Rotation-tt.wantRot) > 1e-6 {
				t.Errorf("Rotation = %v, want %v", got.Rotation, tt.wantRot)
			}
			want := geometry.PointOnEllipse(origin, 350, mid, 1)
			if got.Anchor.Dist(want) > 1e-6 {
				t.Errorf("Anchor = %v, want %v", got.Anchor, want)
			}
		})
	}
}

func TestFitOuterSuppressed(t *testing.T) {
	if _, ok := FitOuter(outerReq("Jobs", 8, 300, 400)); ok {
		t.Error("8° segment should not be labeled")
	}
	req := outerReq("Jobs", 30, 300, 400)
	req.Radius = math.NaN()
	if _, ok := FitOuter(req); ok {
		t.Error("NaN radius should not be labeled")
	}
}

func TestStackHeight(t *testing.T) {
	if got := StackHeight(1, 10, 1.04); got != 10 {
		t.Errorf("StackHeight(1) = %v", got)
	}
	if got := StackHeight(3, 10, 1); got != 30 {
		t.Errorf("StackHeight(3) = %v", got)
	}
	if got := StackHeight(0, 10, 1); got != 10 {
		t.Errorf("StackHeight(0) = %v", got)
	}
}

func TestLayoutText(t *testing.T) {
	l := Layout{Lines: []string{"a", "b"}}
	if l.Text() != "a b" {
		t.Errorf("Text() = %q", l.Text())
	}
}

func TestLayoutLineOffset(t *testing.T) {
	got, ok := FitOuter(OuterRequest{
		Text:    "Access to affordable childcare and early learning",
		Center:  geometry.Point{X: 500, Y: 500},
		A0:      0,
		A1:      0.9,
		R0:      290,
		R1:      470,
		Options: DefaultOuterOptions(),
	})
	if !ok || !got.Fits {
		t.Fatalf("FitOuter ok=%v fits=%v", ok, got.Fits)
	}
	n := len(got.Lines)
	if n < 2 {
		t.Fatalf("want a multi-line block, got %q", got.Lines)
	}

	half := StackHeight(n, got.FontSize, DefaultOuterOptions().LineGap) / 2
	for i := range got.Lines {
		off := got.LineOffset(i)
		if math.Abs(off)+got.FontSize/2 > half+1e-9 {
			t.Errorf("line %d offset %v leaves the %v half-height stack", i, off, half)
		}
		if i > 0 {
			if step := off - got.LineOffset(i-1); math.Abs(step-got.LineGap) > 1e-9 {
				t.Errorf("line %d step = %v, want %v", i, step, got.LineGap)
			}
		}
	}
	if sum := got.LineOffset(0) + got.LineOffset(n-1); math.Abs(sum) > 1e-9 {
		t.Errorf("offsets not centered: first+last = %v", sum)
	}

	single := Layout{Lines: []string{"Food"}, LineGap: 20}
	if off := single.LineOffset(0); off != 0 {
		t.Errorf("single line offset = %v, want 0", off)
	}
}

func TestOptionsWithDefaults(t *testing.T) {
	in := InnerOptions{}.withDefaults()
	wantIn := DefaultInnerOptions()
	wantIn.Inset, wantIn.PadDeg = 0, 0
	if diff := cmp.Diff(wantIn, in); diff != "" {
		t.Errorf("zero InnerOptions (-want +got):\n%s", diff)
	}

	out := OuterOptions{}.withDefaults()
	wantOut := DefaultOuterOptions()
	wantOut.Margin, wantOut.PadDeg = 0, 0
	if diff := cmp.Diff(wantOut, out); diff != "" {
		t.Errorf("zero OuterOptions (-want +got):\n%s", diff)
	}

	neg := OuterOptions{Margin: -3, PadDeg: -2}.withDefaults()
	if neg.Margin != 0 || neg.PadDeg != 0 {
		t.Errorf("negative margin/pad = %v/%v, want 0/0", neg.Margin, neg.PadDeg)
	}
	if got := (InnerOptions{Inset: -1, PadDeg: -1}).withDefaults(); got.Inset != 0 || got.PadDeg != 0 {
		t.Errorf("negative inset/pad = %v/%v, want 0/0", got.Inset, got.PadDeg)
	}
}

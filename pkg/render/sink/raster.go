package sink

import (
	"bytes"
	"fmt"
	"image/color"
	"image/jpeg"
	"math"

	"git.sr.ht/~sbinet/gg"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"

	"github.com/matzehuels/ringchart/pkg/fonts"
	"github.com/matzehuels/ringchart/pkg/ring/geometry"
	"github.com/matzehuels/ringchart/pkg/ring/layout"
	"github.com/matzehuels/ringchart/pkg/ring/textpath"
)

// Raster defaults.
const (
	DefaultScale       = 2.0
	DefaultJPEGQuality = 90
	// MaxPixels bounds the canvas area so a large scale cannot exhaust memory.
	MaxPixels = 64 << 20
	// polygonStepDeg is the sampling step for wedge outlines.
	polygonStepDeg = 1.0
)

// RasterOption configures PNG and JPEG rendering.
type RasterOption func(*rasterRenderer)

type rasterRenderer struct {
	scale      float64
	background string
	stroke     string
	quality    int
}

// WithScale sets the pixel scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) RasterOption { return func(r *rasterRenderer) { r.scale = s } }

// WithRasterBackground fills the canvas with a solid color. Empty leaves PNG
// output transparent.
func WithRasterBackground(color string) RasterOption {
	return func(r *rasterRenderer) { r.background = color }
}

// WithRasterStroke sets the wedge outline color (default white).
func WithRasterStroke(color string) RasterOption { return func(r *rasterRenderer) { r.stroke = color } }

// WithQuality sets the JPEG quality, 1 to 100.
func WithQuality(q int) RasterOption { return func(r *rasterRenderer) { r.quality = q } }

func newRasterRenderer(opts ...RasterOption) rasterRenderer {
	r := rasterRenderer{scale: DefaultScale, stroke: "#ffffff", quality: DefaultJPEGQuality}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderPNG rasterizes the diagram as PNG.
func RenderPNG(d layout.Diagram, opts ...RasterOption) ([]byte, error) {
	r := newRasterRenderer(opts...)
	dc, err := r.draw(d)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderJPEG rasterizes the diagram as JPEG on a solid background.
func RenderJPEG(d layout.Diagram, opts ...RasterOption) ([]byte, error) {
	r := newRasterRenderer(opts...)
	if r.background == "" {
		r.background = "#ffffff"
	}
	if r.quality < 1 || r.quality > 100 {
		return nil, fmt.Errorf("jpeg quality %d out of range [1, 100]", r.quality)
	}
	dc, err := r.draw(d)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dc.Image(), &jpeg.Options{Quality: r.quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func (r rasterRenderer) draw(d layout.Diagram) (*gg.Context, error) {
	if r.scale <= 0 || math.IsNaN(r.scale) || math.IsInf(r.scale, 0) {
		return nil, fmt.Errorf("invalid scale %v", r.scale)
	}
	w, h := pixels(d.Width*r.scale), pixels(d.Height*r.scale)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("empty canvas %dx%d", w, h)
	}
	if w*h > MaxPixels {
		return nil, fmt.Errorf("canvas %dx%d exceeds %d pixels", w, h, MaxPixels)
	}

	dc := gg.NewContext(w, h)
	if r.background != "" {
		bg, err := parseColor(r.background)
		if err != nil {
			return nil, err
		}
		dc.SetColor(bg)
		dc.Clear()
	}

	stroke, err := parseColor(r.stroke)
	if err != nil {
		return nil, err
	}
	for _, wg := range d.Wedges() {
		if err := r.drawWedge(dc, d, wg, stroke); err != nil {
			return nil, err
		}
	}

	for _, wg := range d.Inner {
		if wg.Label == nil {
			continue
		}
		if err := r.drawInnerLabel(dc, wg); err != nil {
			return nil, err
		}
	}
	for _, wg := range d.Outer {
		if wg.Label == nil {
			continue
		}
		if err := r.drawOuterLabel(dc, wg); err != nil {
			return nil, err
		}
	}
	return dc, nil
}

func (r rasterRenderer) drawWedge(dc *gg.Context, d layout.Diagram, wg layout.Wedge, stroke color.Color) error {
	pts := d.Polygon(wg, polygonStepDeg)
	if len(pts) < 3 {
		return nil
	}
	fill, err := parseColor(wg.Color)
	if err != nil {
		return fmt.Errorf("wedge %s: %w", wg.Segment.ID, err)
	}
	for i, p := range pts {
		if i == 0 {
			dc.MoveTo(p.X*r.scale, p.Y*r.scale)
			continue
		}
		dc.LineTo(p.X*r.scale, p.Y*r.scale)
	}
	dc.ClosePath()
	dc.SetColor(fill)
	dc.FillPreserve()
	dc.SetColor(stroke)
	dc.SetLineWidth(2 * r.scale)
	dc.Stroke()
	return nil
}

func (r rasterRenderer) drawInnerLabel(dc *gg.Context, wg layout.Wedge) error {
	l := wg.Label
	face, err := fonts.NewFace(fonts.Bold, l.FontSize*r.scale)
	if err != nil {
		return err
	}
	defer face.Close()
	c, err := parseColor(wg.TextColor)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)
	dc.SetColor(c)
	for j, line := range l.Lines {
		if j >= len(l.Paths) || l.Paths[j].Empty() {
			continue
		}
		r.drawAlongPath(dc, face, line, l.Paths[j])
	}
	return nil
}

// drawAlongPath places each glyph at its arc-length position on the path,
// centered, and rotated to the local tangent.
func (r rasterRenderer) drawAlongPath(dc *gg.Context, face font.Face, text string, p textpath.Path) {
	pts := make([]geometry.Point, len(p.Points))
	for i, pt := range p.Points {
		pts[i] = geometry.Point{X: pt.X * r.scale, Y: pt.Y * r.scale}
	}
	scaled := textpath.Path{Points: pts}
	total := scaled.Length()

	width, _ := dc.MeasureString(text)
	pos := (total - width) / 2
	for _, ch := range text {
		s := string(ch)
		adv := font.MeasureString(face, s)
		advance := float64(adv) / 64
		at, angle := pointAt(pts, pos+advance/2)
		dc.Push()
		dc.RotateAbout(angle, at.X, at.Y)
		dc.DrawStringAnchored(s, at.X, at.Y, 0.5, 0.35)
		dc.Pop()
		pos += advance
	}
}

func (r rasterRenderer) drawOuterLabel(dc *gg.Context, wg layout.Wedge) error {
	l := wg.Label
	face, err := fonts.NewFace(fonts.Regular, l.FontSize*r.scale)
	if err != nil {
		return err
	}
	defer face.Close()
	c, err := parseColor(wg.TextColor)
	if err != nil {
		return err
	}
	ax, ay := l.Anchor.X*r.scale, l.Anchor.Y*r.scale
	dc.SetFontFace(face)
	dc.SetColor(c)
	dc.Push()
	dc.RotateAbout(geometry.Radians(l.Rotation), ax, ay)
	for i, line := range l.Lines {
		dy := l.LineOffset(i) * r.scale
		dc.DrawStringAnchored(line, ax, ay+dy, 0.5, 0.35)
	}
	dc.Pop()
	return nil
}

// pointAt returns the point at distance s along a polyline and the tangent
// angle there. Distances past either end clamp to the end segment.
func pointAt(pts []geometry.Point, s float64) (geometry.Point, float64) {
	if len(pts) < 2 {
		if len(pts) == 1 {
			return pts[0], 0
		}
		return geometry.Point{}, 0
	}
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		seg := a.Dist(b)
		if s <= seg || i == len(pts)-1 {
			t := 0.0
			if seg > 0 {
				t = math.Max(0, math.Min(1, s/seg))
			}
			return geometry.Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t},
				math.Atan2(b.Y-a.Y, b.X-a.X)
		}
		s -= seg
	}
	return pts[len(pts)-1], 0
}

func parseColor(hex string) (color.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("parse color %q: %w", hex, err)
	}
	return c, nil
}

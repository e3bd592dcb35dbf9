package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/ringchart/pkg/fonts"
	"github.com/matzehuels/ringchart/pkg/ring/layout"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background string
	title      string
	stroke     string
	guides     bool
}

// WithBackground fills the canvas with a solid color. Empty leaves it
// transparent.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithTitle sets the document title.
func WithTitle(title string) SVGOption { return func(r *svgRenderer) { r.title = title } }

// WithStroke sets the wedge outline color (default white).
func WithStroke(color string) SVGOption { return func(r *svgRenderer) { r.stroke = color } }

// WithGuides draws the label baselines, which helps when tuning radii.
func WithGuides() SVGOption { return func(r *svgRenderer) { r.guides = true } }

// RenderSVG renders the diagram as a standalone SVG document.
func RenderSVG(d layout.Diagram, opts ...SVGOption) []byte {
	r := svgRenderer{stroke: "#ffffff"}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	w, h := pixels(d.Width), pixels(d.Height)
	canvas := svg.New(&buf)
	canvas.Start(w, h, fmt.Sprintf(`viewBox="0 0 %d %d"`, w, h))
	if r.title != "" {
		canvas.Title(r.title)
	}

	r.renderDefs(canvas, d)

	if r.background != "" {
		canvas.Rect(0, 0, w, h, "fill:"+r.background)
	}

	canvas.Gid("wedges")
	for _, wg := range d.Wedges() {
		if wg.Path == "" {
			continue
		}
		canvas.Path(wg.Path,
			fmt.Sprintf(`id="%s"`, wedgeID(wg)),
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:2", wg.Color, r.stroke))
	}
	canvas.Gend()

	canvas.Gid("labels")
	for i, wg := range d.Inner {
		if wg.Label != nil {
			renderInnerLabel(canvas, i, wg)
		}
	}
	for _, wg := range d.Outer {
		if wg.Label != nil {
			renderOuterLabel(canvas, wg)
		}
	}
	canvas.Gend()

	canvas.End()
	return buf.Bytes()
}

// renderDefs emits one path per inner label line for textPath references.
func (r svgRenderer) renderDefs(canvas *svg.SVG, d layout.Diagram) {
	canvas.Def()
	for i, wg := range d.Inner {
		if wg.Label == nil {
			continue
		}
		for j, p := range wg.Label.Paths {
			if p.Empty() {
				continue
			}
			style := "fill:none"
			if r.guides {
				style = "fill:none;stroke:#ff00ff;stroke-width:0.5"
			}
			canvas.Path(p.D(), fmt.Sprintf(`id="%s"`, linePathID(i, j)), style)
		}
	}
	canvas.DefEnd()

	if !r.guides {
		return
	}
	canvas.Gid("guides")
	for i, wg := range d.Inner {
		if wg.Label == nil {
			continue
		}
		for j, p := range wg.Label.Paths {
			if !p.Empty() {
				canvas.Use(0, 0, "#"+linePathID(i, j))
			}
		}
	}
	canvas.Gend()
}

func renderInnerLabel(canvas *svg.SVG, idx int, wg layout.Wedge) {
	l := wg.Label
	style := fmt.Sprintf("font-family:%s;font-size:%.2fpx;font-weight:bold;fill:%s;dominant-baseline:central",
		fonts.FontFamily, l.FontSize, wg.TextColor)
	for j, line := range l.Lines {
		if j >= len(l.Paths) || l.Paths[j].Empty() {
			continue
		}
		textOnPath(canvas.Writer, line, linePathID(idx, j), style)
	}
}

func renderOuterLabel(canvas *svg.SVG, wg layout.Wedge) {
	l := wg.Label
	style := fmt.Sprintf("font-family:%s;font-size:%.2fpx;fill:%s;text-anchor:middle;dominant-baseline:central",
		fonts.FontFamily, l.FontSize, wg.TextColor)
	canvas.Gtransform(fmt.Sprintf("translate(%.2f %.2f) rotate(%.2f)", l.Anchor.X, l.Anchor.Y, l.Rotation))
	for i, line := range l.Lines {
		canvas.Gtransform(fmt.Sprintf("translate(0 %.2f)", l.LineOffset(i)))
		canvas.Text(0, 0, line, style)
		canvas.Gend()
	}
	canvas.Gend()
}

// textOnPath writes a text element centered along a path definition.
func textOnPath(w io.Writer, text, pathID, style string) {
	fmt.Fprintf(w, `<text style="%s"><textPath href="#%s" xlink:href="#%s" startOffset="50%%" text-anchor="middle">`,
		style, pathID, pathID)
	xml.EscapeText(w, []byte(text))
	fmt.Fprintln(w, `</textPath></text>`)
}

func linePathID(wedge, line int) string { return fmt.Sprintf("tp-%d-%d", wedge, line) }

func wedgeID(w layout.Wedge) string {
	if w.Ring == layout.RingInner {
		return "theme-" + w.Segment.ID
	}
	return "barrier-" + w.Segment.ID
}

func pixels(v float64) int { return int(math.Ceil(v)) }

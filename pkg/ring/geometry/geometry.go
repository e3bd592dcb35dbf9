// Package geometry provides the elliptical primitives used by the ring layout:
// points on an ellipse, SVG arc and wedge path construction, and the angle
// helpers that decide whether a label reads upside down.
//
// Angles are radians. 0 points along +x (3 o'clock) and, because screen y
// grows downward, increasing angles run clockwise on screen. The vertical
// stretch factor scales the y radius; 1.0 is a circle.
package geometry

import (
	"fmt"
	"math"
	"strings"
)

// FullTurn is one complete revolution in radians.
const FullTurn = 2 * math.Pi

const eps = 1e-9

// Point is a position in screen coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(q.X-p.X, q.Y-p.Y) }

// PointOnEllipse returns the point at angle on the ellipse centered at c with
// horizontal radius r and vertical radius r*stretch.
func PointOnEllipse(c Point, r, angle, stretch float64) Point {
	return Point{
		X: c.X + r*math.Cos(angle),
		Y: c.Y + r*stretch*math.Sin(angle),
	}
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// NormalizeDegrees maps deg into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	if d >= 360 {
		d = 0
	}
	return d
}

// ShouldFlipAngle reports whether text drawn along the default direction at
// angle would render upside down. That is the case strictly between 90° and
// 270°; both boundaries read upright.
func ShouldFlipAngle(rad float64) bool {
	d := NormalizeDegrees(Degrees(rad))
	return d > 90 && d < 270
}

// UprightRotationDegrees returns the rotation for a label block centered at
// angle, turned a half revolution when flip is set. The result is in [0, 360).
func UprightRotationDegrees(rad float64, flip bool) float64 {
	d := Degrees(rad)
	if flip {
		d += 180
	}
	return NormalizeDegrees(d)
}

// Midpoint returns the angle halfway between a0 and a1.
func Midpoint(a0, a1 float64) float64 { return (a0 + a1) / 2 }

// EllipticalArcPath returns an SVG path that moves to the point at a0 and
// draws an elliptical arc to the point at a1.
func EllipticalArcPath(c Point, r, stretch, a0, a1 float64) string {
	p0 := PointOnEllipse(c, r, a0, stretch)
	var b strings.Builder
	fmt.Fprintf(&b, "M %s ", fmtPoint(p0))
	writeArc(&b, c, r, stretch, a0, a1)
	return strings.TrimSpace(b.String())
}

// WedgePath returns a closed SVG path for the annular sector between radii
// r0 and r1 spanning a0 to a1: the outer arc forward, a radial line to the
// inner arc, the inner arc backward, then close. A non-positive r0 yields a
// pie slice through the center.
func WedgePath(c Point, r0, r1, stretch, a0, a1 float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "M %s ", fmtPoint(PointOnEllipse(c, r1, a0, stretch)))
	writeArc(&b, c, r1, stretch, a0, a1)
	if r0 <= 0 {
		fmt.Fprintf(&b, "L %s ", fmtPoint(c))
	} else {
		fmt.Fprintf(&b, "L %s ", fmtPoint(PointOnEllipse(c, r0, a1, stretch)))
		writeArc(&b, c, r0, stretch, a1, a0)
	}
	b.WriteString("Z")
	return b.String()
}

// WedgePolygon samples the same sector as WedgePath into a closed polygon,
// for surfaces without arc primitives. stepDeg bounds the angular distance
// between samples.
func WedgePolygon(c Point, r0, r1, stretch, a0, a1, stepDeg float64) []Point {
	n := arcSteps(a1-a0, stepDeg)
	pts := make([]Point, 0, 2*(n+1))
	for i := 0; i <= n; i++ {
		a := a0 + (a1-a0)*float64(i)/float64(n)
		pts = append(pts, PointOnEllipse(c, r1, a, stretch))
	}
	if r0 <= 0 {
		return append(pts, c)
	}
	for i := n; i >= 0; i-- {
		a := a0 + (a1-a0)*float64(i)/float64(n)
		pts = append(pts, PointOnEllipse(c, r0, a, stretch))
	}
	return pts
}

func arcSteps(span, stepDeg float64) int {
	if stepDeg <= 0 {
		stepDeg = 3
	}
	n := int(math.Ceil(math.Abs(Degrees(span))/stepDeg - eps))
	return max(1, n)
}

// writeArc appends one or two "A" commands that continue the current point
// (already at a0) to a1. A full revolution is split in two since an arc
// with coincident endpoints draws nothing.
func writeArc(b *strings.Builder, c Point, r, stretch, a0, a1 float64) {
	delta := a1 - a0
	if math.Abs(delta) >= FullTurn-eps {
		mid := a0 + delta/2
		writeArc(b, c, r, stretch, a0, mid)
		writeArc(b, c, r, stretch, mid, a1)
		return
	}
	large := 0
	if math.Abs(delta) > math.Pi {
		large = 1
	}
	sweep := 0
	if delta >= 0 {
		sweep = 1
	}
	p1 := PointOnEllipse(c, r, a1, stretch)
	fmt.Fprintf(b, "A %s %s 0 %d %d %s ", fmtNum(r), fmtNum(math.Abs(r*stretch)), large, sweep, fmtPoint(p1))
}

func fmtPoint(p Point) string { return fmtNum(p.X) + " " + fmtNum(p.Y) }

func fmtNum(v float64) string {
	s := fmt.Sprintf("%.3f", v)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}

// Package palette assigns ring colors.
//
// Each theme gets a categorical color; its barriers share a lighter tint of
// it so the two rings read as one group. Blending happens in CIE L*a*b*,
// which keeps tints of different hues equally light.
package palette

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Default is the categorical theme palette.
var Default = []string{
	"#1b9e77", "#d95f02", "#7570b3", "#e7298a",
	"#66a61e", "#e6ab02", "#a6761d", "#1f78b4",
	"#b2df8a", "#fb9a99", "#cab2d6", "#6a3d9a",
}

// DefaultTint is how far outer colors are blended toward white.
const DefaultTint = 0.45

var white = colorful.Color{R: 1, G: 1, B: 1}

// Palette resolves theme and barrier colors.
type Palette struct {
	// Colors is cycled by theme index.
	Colors []string
	// Overrides maps theme IDs to colors and wins over everything else.
	Overrides map[string]string
	// Tint is the outer ring blend factor toward white, in [0, 1].
	Tint float64
}

// New returns a palette over Default with the given overrides.
func New(overrides map[string]string) Palette {
	return Palette{Colors: Default, Overrides: overrides, Tint: DefaultTint}
}

// ThemeColor returns the color of the theme at index i. The override for
// id wins, then explicit (the dataset's own color), then the cycled
// palette. Invalid hex values are skipped.
func (p Palette) ThemeColor(i int, id, explicit string) string {
	if c, ok := Normalize(p.Overrides[id]); ok {
		return c
	}
	if c, ok := Normalize(explicit); ok {
		return c
	}
	colors := p.Colors
	if len(colors) == 0 {
		colors = Default
	}
	if i < 0 {
		i = -i
	}
	return colors[i%len(colors)]
}

// OuterColor returns the barrier tint of a theme color.
func (p Palette) OuterColor(themeColor string) string {
	return Tint(themeColor, p.Tint)
}

// Tint blends hex toward white by t in Lab space. Invalid input is
// returned unchanged.
func Tint(hex string, t float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	t = min(1, max(0, t))
	return c.BlendLab(white, t).Clamped().Hex()
}

// TextColor returns a dark or light ink that contrasts with bg.
func TextColor(bg string) string {
	c, err := colorful.Hex(bg)
	if err != nil {
		return "#222222"
	}
	l, _, _ := c.Lab()
	if l > 0.6 {
		return "#222222"
	}
	return "#ffffff"
}

// Normalize lowercases a valid #rrggbb color.
func Normalize(hex string) (string, bool) {
	hex = strings.TrimSpace(hex)
	if hex == "" {
		return "", false
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return "", false
	}
	return c.Hex(), true
}

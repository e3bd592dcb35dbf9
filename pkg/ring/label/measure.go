package label

import (
	"unicode/utf8"

	"github.com/matzehuels/ringchart/pkg/fonts"
)

// DefaultCharWidth is the average glyph advance as a fraction of font size.
const DefaultCharWidth = 0.6

// Measurer returns the rendered width of text at a font size, in pixels.
type Measurer interface {
	Width(text string, fontSize float64) float64
}

// Heuristic estimates widths as runes × size × CharWidth.
type Heuristic struct {
	CharWidth float64
}

func (h Heuristic) Width(text string, fontSize float64) float64 {
	cw := h.CharWidth
	if cw <= 0 {
		cw = DefaultCharWidth
	}
	return float64(utf8.RuneCountInString(text)) * fontSize * cw
}

// FaceMeasurer measures glyph advances of the embedded Go font. Widths fall
// back to the heuristic if the face cannot be loaded.
type FaceMeasurer struct {
	Weight fonts.Weight
}

func (f FaceMeasurer) Width(text string, fontSize float64) float64 {
	w, err := fonts.MeasureString(f.Weight, fontSize, text)
	if err != nil {
		return Heuristic{}.Width(text, fontSize)
	}
	return w
}

// MeasurerFor maps a configuration name to a Measurer. Unknown names
// select the heuristic.
func MeasurerFor(name string) Measurer {
	switch name {
	case "face", "font":
		return FaceMeasurer{Weight: fonts.Bold}
	default:
		return Heuristic{}
	}
}

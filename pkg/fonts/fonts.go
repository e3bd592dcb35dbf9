// Package fonts provides the font faces used for raster output and glyph
// measurement.
//
// The Go fonts from golang.org/x/image are compiled into the binary, so
// raster export and measurement work without any system fonts installed.
// Parsed fonts and sized faces are cached; faces are safe to share only for
// measurement, since font.Face implementations are not safe for concurrent
// drawing.
package fonts

import (
	"fmt"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontFamily is the CSS font-family written into SVG output.
const FontFamily = "Go, 'Helvetica Neue', Arial, sans-serif"

// Weight selects the embedded typeface.
type Weight int

const (
	Regular Weight = iota
	Bold
)

var (
	parseOnce sync.Once
	parsed    map[Weight]*opentype.Font
	parseErr  error

	faceMu sync.Mutex
	faces  = map[faceKey]font.Face{}
)

type faceKey struct {
	weight Weight
	size   float64
}

func load() {
	parsed = make(map[Weight]*opentype.Font, 2)
	for w, data := range map[Weight][]byte{Regular: goregular.TTF, Bold: gobold.TTF} {
		f, err := opentype.Parse(data)
		if err != nil {
			parseErr = fmt.Errorf("parse embedded font: %w", err)
			return
		}
		parsed[w] = f
	}
}

// Face returns a face of the given weight and pixel size. Sizes are rounded
// to a tenth of a pixel for caching.
func Face(w Weight, size float64) (font.Face, error) {
	parseOnce.Do(load)
	if parseErr != nil {
		return nil, parseErr
	}
	if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		return nil, fmt.Errorf("invalid font size %v", size)
	}
	key := faceKey{weight: w, size: math.Round(size*10) / 10}

	faceMu.Lock()
	defer faceMu.Unlock()
	if f, ok := faces[key]; ok {
		return f, nil
	}
	f, err := NewFace(w, key.size)
	if err != nil {
		return nil, err
	}
	faces[key] = f
	return f, nil
}

// NewFace returns an uncached face, for callers that draw concurrently.
func NewFace(w Weight, size float64) (font.Face, error) {
	parseOnce.Do(load)
	if parseErr != nil {
		return nil, parseErr
	}
	f, ok := parsed[w]
	if !ok {
		return nil, fmt.Errorf("unknown font weight %d", w)
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// MeasureString returns the advance width of s in pixels.
func MeasureString(w Weight, size float64, s string) (float64, error) {
	face, err := Face(w, size)
	if err != nil {
		return 0, err
	}
	faceMu.Lock()
	defer faceMu.Unlock()
	adv := font.MeasureString(face, s)
	return float64(adv) / 64, nil
}

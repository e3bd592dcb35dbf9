package sink

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/ringchart/pkg/ring/layout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	title     string
	weighting string
}

// WithJSONTitle records a title in the output.
func WithJSONTitle(t string) JSONOption { return func(r *jsonRenderer) { r.title = t } }

// WithJSONWeighting records the weighting the layout was computed with, for
// documentation or re-computation.
func WithJSONWeighting(w string) JSONOption { return func(r *jsonRenderer) { r.weighting = w } }

type jsonOutput struct {
	Title     string         `json:"title,omitempty"`
	Weighting string         `json:"weighting,omitempty"`
	Stats     jsonStats      `json:"stats"`
	Diagram   layout.Diagram `json:"diagram"`
}

type jsonStats struct {
	Themes     int `json:"themes"`
	Barriers   int `json:"barriers"`
	Labels     int `json:"labels"`
	Suppressed int `json:"suppressed"`
	Fallbacks  int `json:"fallbacks"`
	Overrides  int `json:"overrides"`
}

// RenderJSON exports the diagram as a pretty-printed JSON document.
//
// The output carries every wedge path, color and fitted label, so it can be
// rendered again by [ParseJSON] without the dataset. RenderJSON does not
// modify d and is safe to call concurrently.
func RenderJSON(d layout.Diagram, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	s := d.Stats()
	out := jsonOutput{
		Title:     r.title,
		Weighting: r.weighting,
		Stats: jsonStats{
			Themes:     s.Themes,
			Barriers:   s.Barriers,
			Labels:     s.Labels,
			Suppressed: s.Suppressed,
			Fallbacks:  s.Fallbacks,
			Overrides:  s.Overrides,
		},
		Diagram: d,
	}
	return json.MarshalIndent(out, "", "  ")
}

// ParseJSON reads a document written by [RenderJSON].
func ParseJSON(data []byte) (layout.Diagram, error) {
	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return layout.Diagram{}, fmt.Errorf("parse layout json: %w", err)
	}
	if out.Diagram.Width <= 0 || out.Diagram.Height <= 0 {
		return layout.Diagram{}, fmt.Errorf("parse layout json: missing diagram dimensions")
	}
	return out.Diagram, nil
}

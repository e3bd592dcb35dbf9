// Package dataset defines the static input of a ring chart: themes, the
// barriers nested under them, and the resources that address barriers.
//
// A Dataset is loaded once and treated as immutable. Derived data such as
// per-barrier counts and filtered views are returned as new values.
package dataset

import (
	"cmp"
	"slices"

	"github.com/matzehuels/ringchart/pkg/errors"
)

// DefaultOrder is the sort key used for themes without an explicit order,
// placing them after every ordered theme.
const DefaultOrder = 999

// Theme is a top-level category drawn on the inner ring.
type Theme struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Order *int   `json:"order,omitempty" yaml:"order,omitempty"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

// SortKey returns the theme's order, or DefaultOrder when unset.
func (t Theme) SortKey() int {
	if t.Order == nil {
		return DefaultOrder
	}
	return *t.Order
}

// Barrier belongs to exactly one theme and is drawn on the outer ring.
type Barrier struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	ThemeID string `json:"theme_id" yaml:"theme_id"`
}

// Resource addresses one or more barriers. Resources weight the outer ring.
type Resource struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	URL         string   `json:"url,omitempty" yaml:"url,omitempty"`
	Type        string   `json:"type,omitempty" yaml:"type,omitempty"`
	Barriers    []string `json:"barriers" yaml:"barriers"`
}

// Dataset is the complete input collection.
type Dataset struct {
	Themes    []Theme    `json:"themes" yaml:"themes"`
	Barriers  []Barrier  `json:"barriers" yaml:"barriers"`
	Resources []Resource `json:"resources,omitempty" yaml:"resources,omitempty"`
}

// Validate checks that IDs are present and unique per collection and that
// every barrier names a theme. Resources may reference unknown barriers;
// those references simply contribute no weight.
func (d Dataset) Validate() error {
	themes := make(map[string]bool, len(d.Themes))
	for i, t := range d.Themes {
		if err := errors.ValidateID(t.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDataset, err, "theme %d", i)
		}
		if themes[t.ID] {
			return errors.New(errors.ErrCodeInvalidDataset, "duplicate theme id %q", t.ID)
		}
		themes[t.ID] = true
	}

	barriers := make(map[string]bool, len(d.Barriers))
	for i, b := range d.Barriers {
		if err := errors.ValidateID(b.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDataset, err, "barrier %d", i)
		}
		if barriers[b.ID] {
			return errors.New(errors.ErrCodeInvalidDataset, "duplicate barrier id %q", b.ID)
		}
		if b.ThemeID == "" {
			return errors.New(errors.ErrCodeInvalidDataset, "barrier %q has no theme", b.ID)
		}
		barriers[b.ID] = true
	}

	resources := make(map[string]bool, len(d.Resources))
	for i, r := range d.Resources {
		if err := errors.ValidateID(r.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDataset, err, "resource %d", i)
		}
		if resources[r.ID] {
			return errors.New(errors.ErrCodeInvalidDataset, "duplicate resource id %q", r.ID)
		}
		resources[r.ID] = true
	}
	return nil
}

// SortedThemes returns the themes ordered by SortKey ascending, keeping
// input order among equal keys.
func (d Dataset) SortedThemes() []Theme {
	out := slices.Clone(d.Themes)
	slices.SortStableFunc(out, func(a, b Theme) int {
		return cmp.Compare(a.SortKey(), b.SortKey())
	})
	return out
}

// BarriersByTheme groups barriers by theme ID, preserving input order.
func (d Dataset) BarriersByTheme() map[string][]Barrier {
	out := make(map[string][]Barrier, len(d.Themes))
	for _, b := range d.Barriers {
		out[b.ThemeID] = append(out[b.ThemeID], b)
	}
	return out
}

// Theme looks up a theme by ID.
func (d Dataset) Theme(id string) (Theme, bool) {
	for _, t := range d.Themes {
		if t.ID == id {
			return t, true
		}
	}
	return Theme{}, false
}

// Barrier looks up a barrier by ID.
func (d Dataset) Barrier(id string) (Barrier, bool) {
	for _, b := range d.Barriers {
		if b.ID == id {
			return b, true
		}
	}
	return Barrier{}, false
}

// CountByBarrier returns how many resources reference each barrier. A
// resource listing the same barrier twice counts once.
func (d Dataset) CountByBarrier() map[string]int {
	counts := make(map[string]int, len(d.Barriers))
	for _, r := range d.Resources {
		seen := make(map[string]bool, len(r.Barriers))
		for _, id := range r.Barriers {
			if seen[id] {
				continue
			}
			seen[id] = true
			counts[id]++
		}
	}
	return counts
}

// ThemesOf returns the IDs of the themes a resource touches through its
// barriers, in first-seen order.
func (d Dataset) ThemesOf(r Resource) []string {
	byID := make(map[string]string, len(d.Barriers))
	for _, b := range d.Barriers {
		byID[b.ID] = b.ThemeID
	}
	var out []string
	for _, id := range r.Barriers {
		if th, ok := byID[id]; ok && !slices.Contains(out, th) {
			out = append(out, th)
		}
	}
	return out
}

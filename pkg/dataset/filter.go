package dataset

import (
	"net/url"
	"slices"
	"strings"
)

// Query parameter names used by Filter.Encode and ParseFilter.
const (
	paramQuery   = "q"
	paramTheme   = "theme"
	paramBarrier = "barrier"
	paramType    = "type"
)

// Filter narrows the resources of a dataset. Facets combine with AND; values
// within one facet combine with OR. The zero Filter matches everything.
type Filter struct {
	Query    string   `json:"q,omitempty"`
	Themes   []string `json:"themes,omitempty"`
	Barriers []string `json:"barriers,omitempty"`
	Types    []string `json:"types,omitempty"`
}

// IsZero reports whether f matches every resource.
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Query) == "" && len(f.Themes) == 0 && len(f.Barriers) == 0 && len(f.Types) == 0
}

// Match reports whether r passes the filter. themeOf maps barrier IDs to
// theme IDs.
func (f Filter) Match(r Resource, themeOf map[string]string) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(r.Title), q) &&
			!strings.Contains(strings.ToLower(r.Description), q) {
			return false
		}
	}
	if len(f.Types) > 0 && !slices.Contains(f.Types, r.Type) {
		return false
	}
	if len(f.Barriers) > 0 && !slices.ContainsFunc(r.Barriers, func(id string) bool {
		return slices.Contains(f.Barriers, id)
	}) {
		return false
	}
	if len(f.Themes) > 0 && !slices.ContainsFunc(r.Barriers, func(id string) bool {
		return slices.Contains(f.Themes, themeOf[id])
	}) {
		return false
	}
	return true
}

// Apply returns a copy of d whose resources pass the filter. Themes and
// barriers are kept so the ring structure stays stable while searching.
func (f Filter) Apply(d Dataset) Dataset {
	if f.IsZero() {
		return d
	}
	themeOf := make(map[string]string, len(d.Barriers))
	for _, b := range d.Barriers {
		themeOf[b.ID] = b.ThemeID
	}
	out := Dataset{
		Themes:   d.Themes,
		Barriers: d.Barriers,
	}
	for _, r := range d.Resources {
		if f.Match(r, themeOf) {
			out.Resources = append(out.Resources, r)
		}
	}
	return out
}

// Encode serializes the filter as URL query values. Empty facets are
// omitted and multi-valued facets are sorted so equal filters encode equally.
func (f Filter) Encode() url.Values {
	v := url.Values{}
	if q := strings.TrimSpace(f.Query); q != "" {
		v.Set(paramQuery, q)
	}
	addSorted := func(key string, vals []string) {
		for _, s := range slices.Sorted(slices.Values(vals)) {
			if s != "" {
				v.Add(key, s)
			}
		}
	}
	addSorted(paramTheme, f.Themes)
	addSorted(paramBarrier, f.Barriers)
	addSorted(paramType, f.Types)
	return v
}

// ParseFilter reads a filter from URL query values. Facets accept repeated
// keys as well as comma-separated lists.
func ParseFilter(v url.Values) Filter {
	return Filter{
		Query:    strings.TrimSpace(v.Get(paramQuery)),
		Themes:   splitValues(v[paramTheme]),
		Barriers: splitValues(v[paramBarrier]),
		Types:    splitValues(v[paramType]),
	}
}

func splitValues(vals []string) []string {
	var out []string
	for _, v := range vals {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" && !slices.Contains(out, s) {
				out = append(out, s)
			}
		}
	}
	return out
}

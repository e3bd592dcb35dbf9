package io

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/ringchart/pkg/dataset"
	"github.com/matzehuels/ringchart/pkg/errors"
)

// CSVColumns is the CSV header in canonical order.
var CSVColumns = []string{"resource_id", "title", "description", "url", "type", "theme", "theme_order", "barrier"}

// ReadJSON decodes a dataset from r. Unknown fields are rejected.
func ReadJSON(r io.Reader) (dataset.Dataset, error) {
	var ds dataset.Dataset
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ds); err != nil {
		return dataset.Dataset{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
	}
	return ds, nil
}

// ReadYAML decodes a dataset from r.
func ReadYAML(r io.Reader) (dataset.Dataset, error) {
	var ds dataset.Dataset
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil && err != io.EOF {
		return dataset.Dataset{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
	}
	return ds, nil
}

// ReadCSV builds a dataset from the flat CSV format. The header row is
// required; columns may appear in any order and only theme and barrier are
// mandatory.
func ReadCSV(r io.Reader) (dataset.Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return dataset.Dataset{}, nil
	}
	if err != nil {
		return dataset.Dataset{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read csv header")
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, req := range []string{"theme", "barrier"} {
		if _, ok := col[req]; !ok {
			return dataset.Dataset{}, errors.New(errors.ErrCodeInvalidFormat, "csv: missing %q column", req)
		}
	}

	b := newCSVBuilder()
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return dataset.Dataset{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "csv line %d", line)
		}
		field := func(name string) string {
			if i, ok := col[name]; ok && i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}
		if err := b.add(field); err != nil {
			return dataset.Dataset{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "csv line %d", line)
		}
	}
	return b.ds, nil
}

type csvBuilder struct {
	ds        dataset.Dataset
	themes    map[string]int
	barriers  map[string]bool
	resources map[string]int
	links     map[string]map[string]bool
}

func newCSVBuilder() *csvBuilder {
	return &csvBuilder{
		themes:    map[string]int{},
		barriers:  map[string]bool{},
		resources: map[string]int{},
		links:     map[string]map[string]bool{},
	}
}

func (b *csvBuilder) add(field func(string) string) error {
	themeName := field("theme")
	if themeName == "" {
		return fmt.Errorf("empty theme")
	}
	themeID := Slug(themeName)
	if themeID == "" {
		return fmt.Errorf("theme %q has no usable characters", themeName)
	}

	var order *int
	if s := field("theme_order"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("theme_order %q: %w", s, err)
		}
		order = &n
	}
	if i, ok := b.themes[themeID]; !ok {
		b.themes[themeID] = len(b.ds.Themes)
		b.ds.Themes = append(b.ds.Themes, dataset.Theme{ID: themeID, Name: themeName, Order: order})
	} else if b.ds.Themes[i].Order == nil {
		b.ds.Themes[i].Order = order
	}

	barrierName := field("barrier")
	var barrierID string
	if barrierName != "" {
		slug := Slug(barrierName)
		if slug == "" {
			return fmt.Errorf("barrier %q has no usable characters", barrierName)
		}
		barrierID = themeID + "/" + slug
		if !b.barriers[barrierID] {
			b.barriers[barrierID] = true
			b.ds.Barriers = append(b.ds.Barriers, dataset.Barrier{ID: barrierID, Name: barrierName, ThemeID: themeID})
		}
	}

	resID := field("resource_id")
	if resID == "" {
		return nil
	}
	i, ok := b.resources[resID]
	if !ok {
		i = len(b.ds.Resources)
		b.resources[resID] = i
		b.links[resID] = map[string]bool{}
		b.ds.Resources = append(b.ds.Resources, dataset.Resource{
			ID:          resID,
			Title:       field("title"),
			Description: field("description"),
			URL:         field("url"),
			Type:        field("type"),
		})
	}
	if barrierID != "" && !b.links[resID][barrierID] {
		b.links[resID][barrierID] = true
		b.ds.Resources[i].Barriers = append(b.ds.Resources[i].Barriers, barrierID)
	}
	return nil
}

// Slug lowercases s and joins its alphanumeric runs with dashes.
func Slug(s string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if dash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(r)
			dash = false
		default:
			dash = true
		}
	}
	return sb.String()
}

// ImportFile reads and validates the dataset at path. The format follows
// the file extension.
func ImportFile(path string) (dataset.Dataset, error) {
	read, err := readerFor(path)
	if err != nil {
		return dataset.Dataset{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return dataset.Dataset{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "dataset %s", path)
		}
		return dataset.Dataset{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	ds, err := read(f)
	if err != nil {
		return dataset.Dataset{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := ds.Validate(); err != nil {
		return dataset.Dataset{}, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

func readerFor(path string) (func(io.Reader) (dataset.Dataset, error), error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ReadJSON, nil
	case ".yaml", ".yml":
		return ReadYAML, nil
	case ".csv":
		return ReadCSV, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported dataset extension %q", filepath.Ext(path))
	}
}

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

// WriteJSON encodes ds as indented JSON.
func WriteJSON(ds dataset.Dataset, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ds); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteYAML encodes ds as YAML.
func WriteYAML(ds dataset.Dataset, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ds); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// WriteCSV flattens ds into one row per resource and barrier. Themes and
// barriers no resource references still get a declaring row. CSV carries
// names only, so IDs are re-derived on import.
func WriteCSV(ds dataset.Dataset, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	order := func(t dataset.Theme) string {
		if t.Order == nil {
			return ""
		}
		return strconv.Itoa(*t.Order)
	}
	used := map[string]bool{}
	themeUsed := map[string]bool{}
	for _, r := range ds.Resources {
		for _, bid := range r.Barriers {
			b, ok := ds.Barrier(bid)
			if !ok {
				continue
			}
			t, _ := ds.Theme(b.ThemeID)
			used[bid], themeUsed[t.ID] = true, true
			if err := cw.Write([]string{r.ID, r.Title, r.Description, r.URL, r.Type, t.Name, order(t), b.Name}); err != nil {
				return fmt.Errorf("write resource %s: %w", r.ID, err)
			}
		}
	}
	for _, b := range ds.Barriers {
		if used[b.ID] {
			continue
		}
		t, ok := ds.Theme(b.ThemeID)
		if !ok {
			continue
		}
		themeUsed[t.ID] = true
		if err := cw.Write([]string{"", "", "", "", "", t.Name, order(t), b.Name}); err != nil {
			return fmt.Errorf("write barrier %s: %w", b.ID, err)
		}
	}
	for _, t := range ds.Themes {
		if themeUsed[t.ID] {
			continue
		}
		if err := cw.Write([]string{"", "", "", "", "", t.Name, order(t), ""}); err != nil {
			return fmt.Errorf("write theme %s: %w", t.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFile writes ds to path in the format named by its extension.
func ExportFile(ds dataset.Dataset, path string) error {
	var write func(dataset.Dataset, io.Writer) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		write = WriteJSON
	case ".yaml", ".yml":
		write = WriteYAML
	case ".csv":
		write = WriteCSV
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported dataset extension %q", filepath.Ext(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(ds, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Package config loads ringchart.toml.
//
// A configuration file overrides the built-in defaults key by key:
//
//	[ring]
//	width = 1200
//	inner = [140, 300]
//	outer = [300, 560]
//
//	[labels.outer]
//	max_lines = 4
//
//	[colors.themes]
//	health = "#1b9e77"
//
// Keys the file does not set keep their defaults; unknown keys are errors.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/ringchart/pkg/dataset"
	"github.com/matzehuels/ringchart/pkg/errors"
	"github.com/matzehuels/ringchart/pkg/ring/layout"
)

// FileName is the project-local configuration file.
const FileName = "ringchart.toml"

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Duration is a time.Duration written as a string such as "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the full file.
type Config struct {
	Ring   Ring   `toml:"ring"`
	Labels Labels `toml:"labels"`
	Render Render `toml:"render"`
	Colors Colors `toml:"colors"`
	Cache  Cache  `toml:"cache"`
}

type Ring struct {
	Width        float64    `toml:"width"`
	Height       float64    `toml:"height"`
	StartAngle   float64    `toml:"start_angle"`
	Clockwise    bool       `toml:"clockwise"`
	Stretch      float64    `toml:"stretch"`
	Inner        [2]float64 `toml:"inner"`
	Outer        [2]float64 `toml:"outer"`
	EqualWedges  bool       `toml:"equal_wedges"`
	BarrierOrder string     `toml:"barrier_order"`
	Weighting    string     `toml:"weighting"`
}

type Labels struct {
	Measurer   string     `toml:"measurer"`
	MinSpanDeg float64    `toml:"min_span_deg"`
	Inner      LabelStyle `toml:"inner"`
	Outer      LabelStyle `toml:"outer"`
}

type LabelStyle struct {
	PadDeg   float64 `toml:"pad_deg"`
	MaxLines int     `toml:"max_lines"`
	MaxFont  float64 `toml:"max_font"`
	MinFont  float64 `toml:"min_font"`
}

type Render struct {
	Formats    []string `toml:"formats"`
	Scale      float64  `toml:"scale"`
	Background string   `toml:"background"`
	Timeout    Duration `toml:"timeout"`
}

type Colors struct {
	Tint   float64           `toml:"tint"`
	Themes map[string]string `toml:"themes"`
}

type Cache struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
}

// Default returns the built-in configuration.
func Default() Config {
	l := layout.DefaultConfig()
	return Config{
		Ring: Ring{
			Width:        l.Width,
			Height:       l.Height,
			StartAngle:   l.StartAngle,
			Clockwise:    l.Clockwise,
			Stretch:      l.Stretch,
			Inner:        [2]float64{l.InnerR0, l.InnerR1},
			Outer:        [2]float64{l.OuterR0, l.OuterR1},
			EqualWedges:  l.EqualWedges,
			BarrierOrder: l.BarrierOrder,
			Weighting:    dataset.WeightingCount,
		},
		Labels: Labels{
			Measurer:   l.Measurer,
			MinSpanDeg: l.MinLabelSpanDeg,
			Inner: LabelStyle{
				PadDeg:   l.InnerPadDeg,
				MaxLines: l.InnerMaxLines,
				MaxFont:  l.InnerFont.Max,
				MinFont:  l.InnerFont.Min,
			},
			Outer: LabelStyle{
				PadDeg:   l.OuterPadDeg,
				MaxLines: l.OuterMaxLines,
				MaxFont:  l.OuterFont.Max,
				MinFont:  l.OuterFont.Min,
			},
		},
		Render: Render{
			Formats:    []string{"svg"},
			Scale:      2,
			Background: "#ffffff",
			Timeout:    Duration{30 * time.Second},
		},
		Colors: Colors{Tint: l.Tint},
		Cache: Cache{
			Backend: CacheFile,
			TTL:     Duration{24 * time.Hour},
		},
	}
}

// Layout maps the file onto a layout configuration.
func (c Config) Layout() layout.Config {
	return layout.Config{
		Width:           c.Ring.Width,
		Height:          c.Ring.Height,
		StartAngle:      c.Ring.StartAngle,
		Clockwise:       c.Ring.Clockwise,
		Stretch:         c.Ring.Stretch,
		InnerR0:         c.Ring.Inner[0],
		InnerR1:         c.Ring.Inner[1],
		OuterR0:         c.Ring.Outer[0],
		OuterR1:         c.Ring.Outer[1],
		InnerPadDeg:     c.Labels.Inner.PadDeg,
		OuterPadDeg:     c.Labels.Outer.PadDeg,
		InnerMaxLines:   c.Labels.Inner.MaxLines,
		OuterMaxLines:   c.Labels.Outer.MaxLines,
		InnerFont:       layout.FontRange{Max: c.Labels.Inner.MaxFont, Min: c.Labels.Inner.MinFont},
		OuterFont:       layout.FontRange{Max: c.Labels.Outer.MaxFont, Min: c.Labels.Outer.MinFont},
		MinLabelSpanDeg: c.Labels.MinSpanDeg,
		Measurer:        c.Labels.Measurer,
		EqualWedges:     c.Ring.EqualWedges,
		BarrierOrder:    c.Ring.BarrierOrder,
		ThemeColors:     c.Colors.Themes,
		Tint:            c.Colors.Tint,
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Layout().Validate(); err != nil {
		return err
	}
	switch c.Ring.Weighting {
	case dataset.WeightingEqual, dataset.WeightingCount:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown weighting %q", c.Ring.Weighting)
	}
	if c.Render.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render scale must be positive, got %g", c.Render.Scale)
	}
	if c.Render.Timeout.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render timeout must not be negative")
	}
	switch c.Cache.Backend {
	case CacheNone, CacheFile:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis needs redis_url")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}

// Parse decodes TOML onto the defaults.
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(names, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Find returns the first existing file of ./ringchart.toml and
// $XDG_CONFIG_HOME/ringchart/config.toml (~/.config when unset).
func Find() (string, bool) {
	for _, p := range SearchPaths() {
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p, true
		}
	}
	return "", false
}

// SearchPaths lists the locations Find checks, in order.
func SearchPaths() []string {
	paths := []string{FileName}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".config")
		}
	}
	if dir != "" {
		paths = append(paths, filepath.Join(dir, "ringchart", "config.toml"))
	}
	return paths
}

// Resolve loads path when set, else the first file Find locates, else the
// defaults. It returns the file used, if any.
func Resolve(path string) (Config, string, error) {
	if path == "" {
		p, ok := Find()
		if !ok {
			return Default(), "", nil
		}
		path = p
	}
	cfg, err := Load(path)
	return cfg, path, err
}

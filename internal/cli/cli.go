// Package cli implements the ringchart command-line interface.
//
// Commands:
//   - render: lay out a dataset and write SVG, PNG, JPEG, JSON, DOT or outline files
//   - layout: print the computed segments and label fits, optionally saving the layout
//   - convert: translate datasets between CSV, JSON and YAML
//   - serve: run the HTTP preview with live reload
//   - cache: inspect or clear the layout and artifact cache
//
// Settings come from ringchart.toml (see pkg/config); flags override the
// file key by key.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ringchart/pkg/buildinfo"
	"github.com/matzehuels/ringchart/pkg/cache"
	"github.com/matzehuels/ringchart/pkg/config"
	"github.com/matzehuels/ringchart/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "ringchart"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Ringchart draws themes and barriers as a labeled two-ring chart",
		Long:         `Ringchart lays out a dataset of themes, barriers and resources as a radial chart: themes on the inner ring, their barriers on the outer ring, every label fitted inside its wedge.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	cc, err := openCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

// openCache opens the backend named in cfg. Without a usable cache
// directory caching is disabled instead of failing.
func openCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Cache.Backend == config.CacheNone {
		return cache.NewNullCache(), nil
	}
	opts := cache.Options{Backend: cfg.Cache.Backend, Dir: cfg.Cache.Dir, RedisURL: cfg.Cache.RedisURL}
	if opts.Dir == "" {
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		opts.Dir = dir
	}
	return cache.Open(ctx, opts)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/ringchart/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// outputPaths maps each format to a file. A single format writes to output
// as given; several formats share output as a base name. Without output the
// base is the input path minus its extension, and a path that would
// overwrite the input gets a ".layout" infix.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}

	base := strings.TrimSuffix(input, filepath.Ext(input))
	if output != "" {
		base = output
		if _, err := pipeline.FormatFromPath(output); err == nil {
			base = strings.TrimSuffix(output, filepath.Ext(output))
		}
	}
	for _, f := range formats {
		p := base + pipeline.Extension(f)
		if filepath.Clean(p) == filepath.Clean(input) {
			p = base + ".layout" + pipeline.Extension(f)
		}
		paths[f] = p
	}
	return paths
}

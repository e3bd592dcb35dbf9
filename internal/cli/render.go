package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ringchart/pkg/pipeline"
)

// renderCommand creates the render command for writing chart files.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags      chartFlags
		formatsStr string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "render [dataset]",
		Short: "Render a dataset to chart files",
		Long: `Render a dataset to chart files.

The dataset may be CSV, JSON or YAML. Each requested format is written to its
own file: with a single format, --output names the file; with several it is
the base name. Without --output files are written next to the dataset.

Formats:
  svg      vector chart with labels on text paths
  png      raster chart (see --scale, --background)
  jpeg     raster chart on a solid background
  json     computed layout, readable by other tools
  dot      theme and barrier hierarchy as Graphviz source
  outline  the same hierarchy rendered to SVG

Layouts and artifacts are cached; use --refresh to recompute.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, cfg, err := flags.options(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("format") {
				opts.Formats = parseFormats(formatsStr)
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			opts.DatasetPath = args[0]
			opts.Logger = c.Logger

			runner, err := c.newRunner(cmd.Context(), cfg, flags.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			return c.runRender(cmd.Context(), runner, opts, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, jpeg, json, dot, outline (comma-separated)")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

// runRender loads the dataset, computes the layout and exports each format.
func (c *CLI) runRender(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, output string) error {
	prog := newProgress(c.Logger)

	ds, err := runner.Load(ctx, opts)
	if err != nil {
		return fmt.Errorf("load %s: %w", opts.DatasetPath, err)
	}

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()
	d, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, ds, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	paths := outputPaths(output, opts.DatasetPath, opts.Formats)
	written := make([]string, 0, len(opts.Formats))
	for _, format := range opts.Formats {
		res, err := runner.Export(ctx, d, ds, paths[format], pipeline.ExportOptions{
			Format:  format,
			Timeout: opts.Timeout,
			Render:  opts,
		})
		if err != nil {
			return err
		}
		written = append(written, res.Path)
	}
	prog.done(fmt.Sprintf("Rendered %d file(s)", len(written)))

	stats := d.Stats()
	printSuccess("Render complete")
	for _, p := range slices.Sorted(slices.Values(written)) {
		printFile(p)
	}
	printStats(stats.Themes, stats.Barriers, stats.Labels, cacheHit)
	if stats.Suppressed > 0 || stats.Fallbacks > 0 {
		printDetail("%d labels suppressed, %d did not fit", stats.Suppressed, stats.Fallbacks)
	}
	if len(d.Orphans) > 0 {
		printWarning("%d barriers reference unknown themes", len(d.Orphans))
	}
	printNewline()
	printNextStep("Preview", appName+" serve "+opts.DatasetPath)

	return nil
}

package cli

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ringchart/pkg/pipeline"
	"github.com/matzehuels/ringchart/pkg/ring/geometry"
	"github.com/matzehuels/ringchart/pkg/ring/layout"
)

// Label status column values.
const (
	statusFits       = "fits"
	statusFallback   = "fallback"
	statusSuppressed = "suppressed"
)

// layoutCommand creates the layout command for inspecting a computed layout.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  chartFlags
		output string
		ring   string
	)

	cmd := &cobra.Command{
		Use:   "layout [dataset]",
		Short: "Compute the layout and print every segment",
		Long: `Compute the layout and print every segment.

The table lists each wedge with its span, the fitted font size and line
count, and whether the label fits, fell back to its smallest size, or was
suppressed because the wedge is too narrow.

With --output the layout is also written as JSON (the same document as
'render -f json').`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch ring {
			case "", layout.RingInner, layout.RingOuter:
			default:
				return fmt.Errorf("invalid ring: %s (must be 'inner' or 'outer')", ring)
			}
			opts, cfg, err := flags.options(cmd)
			if err != nil {
				return err
			}
			opts.DatasetPath = args[0]
			opts.Logger = c.Logger

			runner, err := c.newRunner(cmd.Context(), cfg, flags.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			return c.runLayout(cmd.Context(), runner, opts, output, ring)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "also write the layout as JSON to this file")
	cmd.Flags().StringVar(&ring, "ring", "", "only list one ring: inner, outer")
	_ = cmd.RegisterFlagCompletionFunc("ring", completeValues(layout.RingInner, layout.RingOuter))

	return cmd
}

// runLayout loads the dataset, computes the layout and prints the table.
func (c *CLI) runLayout(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, output, ring string) error {
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

	fmt.Println(StyleTitle.Render("Segments"))
	fmt.Println(segmentTable(d, ring))

	if output != "" {
		if _, err := runner.Export(ctx, d, ds, output, pipeline.ExportOptions{Format: pipeline.FormatJSON, Render: opts}); err != nil {
			return err
		}
	}

	stats := d.Stats()
	printSuccess("Layout complete")
	if output != "" {
		printFile(output)
	}
	printStats(stats.Themes, stats.Barriers, stats.Labels, cacheHit)
	printNewline()
	printNextStep("Render", appName+" render "+opts.DatasetPath)
	return nil
}

// segmentRows builds one table row per wedge, optionally limited to a ring.
func segmentRows(d layout.Diagram, ring string) [][]string {
	var rows [][]string
	for _, w := range d.Wedges() {
		if ring != "" && w.Ring != ring {
			continue
		}
		span := math.Abs(geometry.Degrees(w.Segment.Span()))
		font, lines, status := "—", "—", statusSuppressed
		if w.Label != nil {
			font = strconv.FormatFloat(w.Label.FontSize, 'f', 1, 64)
			lines = strconv.Itoa(len(w.Label.Lines))
			status = statusFits
			if !w.Label.Fits {
				status = statusFallback
			}
		}
		rows = append(rows, []string{
			w.Ring,
			w.Segment.ID,
			w.Segment.Label,
			strconv.FormatFloat(span, 'f', 1, 64) + "°",
			font,
			lines,
			status,
		})
	}
	return rows
}

// segmentTable renders the wedge table.
func segmentTable(d layout.Diagram, ring string) string {
	rows := segmentRows(d, ring)
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Ring", "ID", "Label", "Span", "Font", "Lines", "Label fit").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row < 0 || row >= len(rows) {
				return base
			}
			switch col {
			case 0:
				return base.Foreground(colorDim)
			case 3, 4, 5:
				return base.Inherit(StyleNumber)
			case 6:
				switch rows[row][6] {
				case statusFits:
					return base.Inherit(StyleSuccess)
				case statusFallback:
					return base.Inherit(StyleWarning)
				default:
					return base.Foreground(colorDim)
				}
			}
			if strings.HasPrefix(rows[row][0], layout.RingInner) {
				return base.Inherit(StyleHighlight)
			}
			return base
		})

	return t.Render()
}

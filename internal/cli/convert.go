package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/ringchart/pkg/io"
)

// convertCommand creates the convert command for translating dataset files.
func (c *CLI) convertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert [input] [output]",
		Short: "Convert a dataset between CSV, JSON and YAML",
		Long: `Convert a dataset between CSV, JSON and YAML.

Formats are chosen by file extension (.csv, .json, .yaml/.yml). CSV input
uses one row per resource and barrier:

  resource_id,title,description,url,type,theme,theme_order,barrier

Themes and barriers are derived from the rows with stable IDs. The dataset is
validated before it is written.`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeConvert,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, output := args[0], args[1]
			if filepath.Clean(input) == filepath.Clean(output) {
				return fmt.Errorf("input and output are the same file: %s", input)
			}

			ds, err := pkgio.ImportFile(input)
			if err != nil {
				return fmt.Errorf("read %s: %w", input, err)
			}
			c.Logger.Debug("read dataset", "path", input, "themes", len(ds.Themes), "barriers", len(ds.Barriers))

			if err := pkgio.ExportFile(ds, output); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			printSuccess("Converted %d themes, %d barriers, %d resources", len(ds.Themes), len(ds.Barriers), len(ds.Resources))
			printFile(output)
			return nil
		},
	}
}

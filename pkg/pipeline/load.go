package pipeline

import (
	"context"

	"github.com/matzehuels/ringchart/pkg/dataset"
	pkgio "github.com/matzehuels/ringchart/pkg/io"
)

// Load reads and validates the dataset named by opts.DatasetPath. The
// format follows the file extension (.json, .yaml, .yml or .csv).
func Load(ctx context.Context, opts Options) (dataset.Dataset, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return dataset.Dataset{}, err
	}
	if err := ctx.Err(); err != nil {
		return dataset.Dataset{}, err
	}
	ds, err := pkgio.ImportFile(opts.DatasetPath)
	if err != nil {
		return dataset.Dataset{}, err
	}
	opts.Logger.Debug("loaded dataset",
		"path", opts.DatasetPath,
		"themes", len(ds.Themes),
		"barriers", len(ds.Barriers),
		"resources", len(ds.Resources))
	return ds, nil
}

package pipeline

import (
	"context"

	"github.com/matzehuels/ringchart/pkg/dataset"
	"github.com/matzehuels/ringchart/pkg/ring/layout"
)

// =============================================================================
// Layout Generation
// =============================================================================

// ComputeLayout filters the dataset and lays it out. It is pure: equal
// inputs produce equal diagrams, which is what makes layouts cacheable.
func ComputeLayout(ctx context.Context, ds dataset.Dataset, opts Options) (layout.Diagram, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Diagram{}, err
	}
	filtered := opts.Filter.Apply(ds)
	weight := dataset.WeightingFor(opts.Weighting, filtered)
	return layout.Compute(ctx, filtered, weight, opts.Layout)
}

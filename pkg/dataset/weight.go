package dataset

import "math"

// WeightFunc returns the angular weight of a barrier in count-like units.
// The segment builder divides the circle by max(1, total weight), so weights
// summing to less than 1 leave part of the ring empty; scale fractional
// shares up before use. Negative and non-finite weights count as zero.
type WeightFunc func(Barrier) float64

// EqualWeight gives every barrier the same wedge.
func EqualWeight(Barrier) float64 { return 1 }

// CountWeight weights barriers by their resource count.
func CountWeight(counts map[string]int) WeightFunc {
	return func(b Barrier) float64 { return float64(counts[b.ID]) }
}

// CountWeightFloor weights barriers by resource count but never below floor,
// so barriers without resources still get a visible wedge.
func CountWeightFloor(counts map[string]int, floor float64) WeightFunc {
	return func(b Barrier) float64 { return math.Max(floor, float64(counts[b.ID])) }
}

// Weighting names accepted by WeightingFor.
const (
	WeightingEqual = "equal"
	WeightingCount = "count"
)

// WeightingFor returns the weight function for a named weighting over d.
// Unknown names fall back to equal weights.
func WeightingFor(name string, d Dataset) WeightFunc {
	switch name {
	case WeightingCount:
		return CountWeightFloor(d.CountByBarrier(), 1)
	default:
		return EqualWeight
	}
}

package belief

import (
	"math"
	"sort"

	"golang.org/x/exp/constraints"
)

type number interface {
	constraints.Integer | constraints.Float
}

// Stats summarises the known white-market prices of one product.
type Stats struct {
	Variance float64
	Upper    float64 // 75th percentile
	Lower    float64 // 25th percentile
	Samples  int
}

// Mean returns the arithmetic mean of values, 0 for an empty slice.
func Mean[T number](values []T) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	return sum / float64(len(values))
}

// Variance returns the population variance of values.
func Variance[T number](values []T) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	var sum float64
	for _, v := range values {
		d := float64(v) - mean
		sum += d * d
	}
	return sum / float64(len(values))
}

// Percentile returns the p-th percentile (0..100) of values, interpolating
// linearly between the two closest ranks.
func Percentile[T number](values []T, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	for i, v := range values {
		sorted[i] = float64(v)
	}
	sort.Float64s(sorted)

	p = math.Max(0, math.Min(100, p))
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	return sorted[lo] + (sorted[hi]-sorted[lo])*(rank-float64(lo))
}

// Summarise computes the Stats of a price list.
func Summarise[T number](prices []T) Stats {
	return Stats{
		Variance: Variance(prices),
		Upper:    Percentile(prices, 75),
		Lower:    Percentile(prices, 25),
		Samples:  len(prices),
	}
}

package belief

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name     string
		values   []int
		p        float64
		expected float64
	}{
		{"empty", nil, 50, 0},
		{"single", []int{7}, 25, 7},
		{"lower quartile", []int{4, 1, 3, 2}, 25, 1.75},
		{"upper quartile", []int{4, 1, 3, 2}, 75, 3.25},
		{"median odd", []int{5, 1, 9}, 50, 5},
		{"min", []int{5, 1, 9}, 0, 1},
		{"max", []int{5, 1, 9}, 100, 9},
		{"clamped", []int{5, 1, 9}, 150, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Percentile(tt.values, tt.p), 1e-9)
		})
	}
}

func TestVarianceAndMean(t *testing.T) {
	assert.Equal(t, 0.0, Variance([]int{}))
	assert.Equal(t, 0.0, Variance([]int{3, 3, 3}))
	assert.InDelta(t, 1.25, Variance([]int{1, 2, 3, 4}), 1e-9)
	assert.InDelta(t, 2.5, Mean([]float64{1, 2, 3, 4}), 1e-9)
}

func TestSummarise(t *testing.T) {
	s := Summarise([]int{100, 200, 300, 400})
	assert.Equal(t, 4, s.Samples)
	assert.InDelta(t, 175, s.Lower, 1e-9)
	assert.InDelta(t, 325, s.Upper, 1e-9)
	assert.InDelta(t, 12500, s.Variance, 1e-9)
}

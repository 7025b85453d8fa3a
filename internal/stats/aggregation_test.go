package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 2.0, Mean([]float64{1, 2, 3}), 1e-9)
}

func TestWeightedMean(t *testing.T) {
	assert.Equal(t, 0.0, WeightedMean(nil, nil))
	assert.InDelta(t, 0.75, WeightedMean([]float64{0.5, 1.0}, []float64{1, 1}), 1e-9)
	// Heavier weight pulls the mean.
	assert.InDelta(t, 0.9, WeightedMean([]float64{0.5, 1.0}, []float64{1, 4}), 1e-9)
	// Zero total weight falls back to the plain mean.
	assert.InDelta(t, 0.75, WeightedMean([]float64{0.5, 1.0}, []float64{0, 0}), 1e-9)
}

func TestMinMax(t *testing.T) {
	values := []float64{0.4, 0.1, 0.9, 0.5}
	assert.Equal(t, 0.1, Min(values))
	assert.Equal(t, 0.9, Max(values))
	assert.Equal(t, 0.0, Min(nil))
	assert.Equal(t, 0.0, Max(nil))
}

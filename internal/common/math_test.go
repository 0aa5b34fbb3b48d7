package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		input    []float64
		expected float64
	}{
		{"empty", nil, 0},
		{"single", []float64{4.5}, 4.5},
		{"two players", []float64{12, 8}, 10},
		{"negative scores", []float64{-1, -3, -2}, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Mean(tt.input), 1e-12)
		})
	}
}

func TestMinMax(t *testing.T) {
	lo, hi := MinMax([]float64{3, -1, 7.5, 2})
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 7.5, hi)

	lo, hi = MinMax([]float64{2})
	assert.Equal(t, 2.0, lo)
	assert.Equal(t, 2.0, hi)

	lo, hi = MinMax(nil)
	assert.True(t, math.IsNaN(lo))
	assert.True(t, math.IsNaN(hi))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0.12, Round(0.1234, 2))
	assert.Equal(t, 5.38, Round(5.375, 2))
	assert.Equal(t, 3.0, Round(2.6, 0))
}

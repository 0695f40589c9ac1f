package scaling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFit(t *testing.T) {
	order := []string{"age", "pack_years", "gender"}
	rows := [][]float64{
		{40, 10, 1},
		{60, 30, 0},
	}

	s, err := Fit(order, rows, []string{"age", "pack_years"})
	require.NoError(t, err)

	assert.Equal(t, []string{"age", "pack_years"}, s.Columns)
	assert.InDelta(t, 50, s.Mean[0], 1e-9)
	assert.InDelta(t, 10, s.Std[0], 1e-9)
	assert.InDelta(t, 20, s.Mean[1], 1e-9)
	assert.InDelta(t, 10, s.Std[1], 1e-9)
}

func TestFitEmptyData(t *testing.T) {
	_, err := Fit([]string{"age"}, nil, []string{"age"})
	assert.Error(t, err)
}

func TestFitUnknownColumn(t *testing.T) {
	_, err := Fit([]string{"age"}, [][]float64{{1}}, []string{"bmi"})
	assert.Error(t, err)
}

func TestFitDegenerateColumn(t *testing.T) {
	s, err := Fit([]string{"age"}, [][]float64{{50}, {50}, {50}}, []string{"age"})
	require.NoError(t, err)

	// Zero variance falls back to std 1 so the transform stays defined.
	assert.Equal(t, 1.0, s.Std[0])
	out := s.Transform([]string{"age"}, []float64{50})
	assert.Equal(t, 0.0, out[0])
}

func TestTransform(t *testing.T) {
	s := &Scaler{
		Columns: []string{"age", "pack_years"},
		Mean:    []float64{50, 20},
		Std:     []float64{10, 15},
	}
	order := []string{"age", "pack_years", "gender", "copd_diagnosis"}

	tests := []struct {
		name     string
		input    []float64
		expected []float64
	}{
		{
			name:     "at the mean both numerics standardize to zero",
			input:    []float64{50, 20, 1, 0},
			expected: []float64{0, 0, 1, 0},
		},
		{
			name:     "one std above the mean",
			input:    []float64{60, 35, 0, 1},
			expected: []float64{1, 1, 0, 1},
		},
		{
			name:     "below the mean goes negative",
			input:    []float64{40, 5, 1, 1},
			expected: []float64{-1, -1, 1, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := s.Transform(order, tt.input)
			require.Len(t, out, len(tt.expected))
			for i := range tt.expected {
				assert.InDelta(t, tt.expected[i], out[i], 1e-9)
			}
		})
	}
}

func TestTransformDoesNotMutateInput(t *testing.T) {
	s := &Scaler{Columns: []string{"age"}, Mean: []float64{50}, Std: []float64{10}}
	in := []float64{60, 1}

	out := s.Transform([]string{"age", "gender"}, in)

	assert.Equal(t, []float64{60, 1}, in)
	assert.InDelta(t, 1.0, out[0], 1e-9)
}

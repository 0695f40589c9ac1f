package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestROCAUC(t *testing.T) {
	tests := []struct {
		name     string
		scores   []float64
		labels   []int
		expected float64
	}{
		{
			name:     "perfect ranking",
			scores:   []float64{0.1, 0.2, 0.8, 0.9},
			labels:   []int{0, 0, 1, 1},
			expected: 1.0,
		},
		{
			name:     "inverted ranking",
			scores:   []float64{0.9, 0.8, 0.2, 0.1},
			labels:   []int{0, 0, 1, 1},
			expected: 0.0,
		},
		{
			name:     "all scores tied",
			scores:   []float64{0.5, 0.5, 0.5, 0.5},
			labels:   []int{0, 1, 0, 1},
			expected: 0.5,
		},
		{
			name:     "single class degenerates to half",
			scores:   []float64{0.2, 0.8},
			labels:   []int{1, 1},
			expected: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, ROCAUC(tt.scores, tt.labels), 1e-9)
		})
	}
}

func TestPRAUC(t *testing.T) {
	// Perfect ranking gives average precision 1.
	assert.InDelta(t, 1.0, PRAUC([]float64{0.1, 0.2, 0.8, 0.9}, []int{0, 0, 1, 1}), 1e-9)

	// No positives gives 0.
	assert.Equal(t, 0.0, PRAUC([]float64{0.1, 0.9}, []int{0, 0}))

	// Uniform scores: precision equals the base rate.
	assert.InDelta(t, 0.5, PRAUC([]float64{0.5, 0.5, 0.5, 0.5}, []int{0, 1, 0, 1}), 1e-9)
}

func TestBrier(t *testing.T) {
	assert.Equal(t, 0.0, Brier([]float64{0, 1}, []int{0, 1}))
	assert.Equal(t, 1.0, Brier([]float64{1, 0}, []int{0, 1}))
	assert.InDelta(t, 0.25, Brier([]float64{0.5, 0.5}, []int{0, 1}), 1e-9)
	assert.Equal(t, 0.0, Brier(nil, nil))
}

func TestBestF1Threshold(t *testing.T) {
	scores := []float64{0.9, 0.8, 0.7, 0.3, 0.2, 0.1}
	labels := []int{1, 1, 1, 0, 0, 0}

	thr, f1 := BestF1Threshold(scores, labels)
	assert.InDelta(t, 1.0, f1, 1e-9)
	assert.GreaterOrEqual(t, thr, 0.7)

	// No positives: threshold falls back, F1 is zero.
	thr, f1 = BestF1Threshold([]float64{0.5}, []int{0})
	assert.Equal(t, 0.5, thr)
	assert.Equal(t, 0.0, f1)
}

func TestEvaluate(t *testing.T) {
	scores := []float64{0.1, 0.2, 0.8, 0.9}
	labels := []int{0, 0, 1, 1}

	rep := Evaluate(scores, labels)
	assert.InDelta(t, 1.0, rep.ROCAUC, 1e-9)
	assert.InDelta(t, 1.0, rep.PRAUC, 1e-9)
	assert.Less(t, rep.Brier, 0.05)
	assert.InDelta(t, 1.0, rep.BestF1, 1e-9)
}

// Package scaling provides the persisted affine standardization applied to
// the numeric subset of the feature vector. Statistics are fitted once at
// training time and reused unchanged for the lifetime of a model version.
package scaling

import (
	"fmt"
	"math"
)

// Scaler holds per-column (mean, std) pairs for the numeric feature columns.
type Scaler struct {
	Columns []string  `json:"columns"`
	Mean    []float64 `json:"mean"`
	Std     []float64 `json:"std"`
}

// Fit computes mean and population standard deviation for each numeric column
// from the training matrix. rows are full feature vectors in order; numericCols
// names the columns to standardize. A degenerate column (zero variance) gets
// std 1 so the transform stays defined.
func Fit(order []string, rows [][]float64, numericCols []string) (*Scaler, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("cannot fit scaler on empty training data")
	}

	index := make(map[string]int, len(order))
	for i, col := range order {
		index[col] = i
	}

	s := &Scaler{
		Columns: append([]string(nil), numericCols...),
		Mean:    make([]float64, len(numericCols)),
		Std:     make([]float64, len(numericCols)),
	}

	for j, col := range numericCols {
		pos, ok := index[col]
		if !ok {
			return nil, fmt.Errorf("numeric column %q not present in feature order", col)
		}

		sum := 0.0
		for _, row := range rows {
			sum += row[pos]
		}
		mean := sum / float64(len(rows))

		variance := 0.0
		for _, row := range rows {
			d := row[pos] - mean
			variance += d * d
		}
		std := math.Sqrt(variance / float64(len(rows)))
		if std == 0 {
			std = 1
		}

		s.Mean[j] = mean
		s.Std[j] = std
	}

	return s, nil
}

// Transform returns a standardized copy of vec: numeric columns become
// (x - mean) / std, binary columns pass through unchanged. The input vector
// is never modified. Transform is a pure function of the persisted statistics.
func (s *Scaler) Transform(order []string, vec []float64) []float64 {
	out := make([]float64, len(vec))
	copy(out, vec)

	index := make(map[string]int, len(order))
	for i, col := range order {
		index[col] = i
	}

	for j, col := range s.Columns {
		pos, ok := index[col]
		if !ok || pos >= len(out) {
			continue
		}
		out[pos] = (out[pos] - s.Mean[j]) / s.Std[j]
	}

	return out
}

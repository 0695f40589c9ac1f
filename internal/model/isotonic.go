package model

import (
	"fmt"
	"sort"
)

// Isotonic is a fitted monotone non-decreasing calibration map, stored as
// knot points. Prediction interpolates linearly between knots and clamps at
// the ends.
type Isotonic struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

type isoBlock struct {
	sumWY float64
	sumW  float64
	sumWX float64
}

func (b isoBlock) mean() float64 { return b.sumWY / b.sumW }

// FitIsotonic fits a monotone regression of targets on scores by pool
// adjacent violators. Targets are typically 0/1 outcomes; the fitted values
// are then calibrated probabilities.
func FitIsotonic(scores []float64, targets []float64) (*Isotonic, error) {
	if len(scores) == 0 || len(scores) != len(targets) {
		return nil, fmt.Errorf("isotonic fit needs matching non-empty scores and targets, got %d and %d", len(scores), len(targets))
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return scores[order[a]] < scores[order[b]] })

	blocks := make([]isoBlock, 0, len(order))
	for _, i := range order {
		blocks = append(blocks, isoBlock{sumWY: targets[i], sumW: 1, sumWX: scores[i]})
		// Pool while the monotonicity constraint is violated.
		for len(blocks) >= 2 {
			last := blocks[len(blocks)-1]
			prev := blocks[len(blocks)-2]
			if prev.mean() <= last.mean() {
				break
			}
			merged := isoBlock{
				sumWY: prev.sumWY + last.sumWY,
				sumW:  prev.sumW + last.sumW,
				sumWX: prev.sumWX + last.sumWX,
			}
			blocks = blocks[:len(blocks)-2]
			blocks = append(blocks, merged)
		}
	}

	iso := &Isotonic{
		X: make([]float64, len(blocks)),
		Y: make([]float64, len(blocks)),
	}
	for i, b := range blocks {
		iso.X[i] = b.sumWX / b.sumW
		iso.Y[i] = b.mean()
	}
	return iso, nil
}

// Predict maps a raw score through the fitted monotone curve.
func (iso *Isotonic) Predict(s float64) float64 {
	n := len(iso.X)
	if n == 0 {
		return 0
	}
	if s <= iso.X[0] {
		return iso.Y[0]
	}
	if s >= iso.X[n-1] {
		return iso.Y[n-1]
	}

	// First knot strictly greater than s.
	j := sort.SearchFloat64s(iso.X, s)
	if iso.X[j] == s {
		return iso.Y[j]
	}
	x0, x1 := iso.X[j-1], iso.X[j]
	y0, y1 := iso.Y[j-1], iso.Y[j]
	if x1 == x0 {
		return y1
	}
	return y0 + (y1-y0)*(s-x0)/(x1-x0)
}

package model

import (
	"fmt"
	"math/rand"
)

// probEpsilon bounds classifier output away from 0 and 1 before any
// downstream odds or log arithmetic.
const probEpsilon = 1e-12

// FoldModel pairs one fold's base ensemble with the isotonic map fitted on
// that fold's held-out outcomes.
type FoldModel struct {
	Forest *Forest   `json:"forest"`
	Calib  *Isotonic `json:"calibration"`
}

// CalibratedForest aggregates the fold-wise calibrated models. Its score is
// the mean of the per-fold calibrated probabilities, which makes the output
// interpretable as a probability consistent with the training prevalence.
type CalibratedForest struct {
	Folds       []FoldModel `json:"folds"`
	NumFeatures int         `json:"numFeatures"`
}

// CalibrationConfig controls the out-of-fold calibration procedure.
type CalibrationConfig struct {
	Folds  int          `json:"folds"`
	Forest ForestConfig `json:"forest"`
}

// DefaultCalibrationConfig uses five stratified folds over the default forest.
func DefaultCalibrationConfig() CalibrationConfig {
	return CalibrationConfig{Folds: 5, Forest: DefaultForestConfig()}
}

// stratifiedFolds deals positive and negative indices round-robin into k
// folds after a seeded shuffle, so every fold keeps roughly the class balance
// of the whole set.
func stratifiedFolds(y []int, k int, seed int64) [][]int {
	rng := rand.New(rand.NewSource(seed))

	var pos, neg []int
	for i, label := range y {
		if label == 1 {
			pos = append(pos, i)
		} else {
			neg = append(neg, i)
		}
	}
	rng.Shuffle(len(pos), func(a, b int) { pos[a], pos[b] = pos[b], pos[a] })
	rng.Shuffle(len(neg), func(a, b int) { neg[a], neg[b] = neg[b], neg[a] })

	folds := make([][]int, k)
	for i, idx := range pos {
		folds[i%k] = append(folds[i%k], idx)
	}
	for i, idx := range neg {
		folds[i%k] = append(folds[i%k], idx)
	}
	return folds
}

// FitCalibrated trains the base ensemble with positive-class reweighting and
// wraps it in stratified out-of-fold isotonic calibration. The deployed model
// aggregates the fold-wise calibrators.
func FitCalibrated(x [][]float64, y []int, cfg CalibrationConfig) (*CalibratedForest, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, fmt.Errorf("inconsistent training data: %d rows, %d labels", len(x), len(y))
	}

	var posCount, negCount int
	for _, label := range y {
		if label == 1 {
			posCount++
		} else {
			negCount++
		}
	}
	if posCount == 0 || negCount == 0 {
		return nil, fmt.Errorf("training data contains a single class (%d positive, %d negative)", posCount, negCount)
	}

	// Counteract class imbalance the way the base learner was configured:
	// every positive sample weighs negativeCount/positiveCount.
	posWeight := float64(negCount) / float64(max(posCount, 1))
	weights := make([]float64, len(y))
	for i, label := range y {
		if label == 1 {
			weights[i] = posWeight
		} else {
			weights[i] = 1
		}
	}

	k := cfg.Folds
	if k < 2 {
		k = 2
	}
	if k > posCount {
		k = posCount
	}
	if k > negCount {
		k = negCount
	}
	if k < 2 {
		return nil, fmt.Errorf("not enough samples per class for %d-fold calibration", cfg.Folds)
	}

	folds := stratifiedFolds(y, k, cfg.Forest.Seed)
	cf := &CalibratedForest{
		Folds:       make([]FoldModel, 0, k),
		NumFeatures: len(x[0]),
	}

	for fi, heldOut := range folds {
		var trainIdx []int
		for fj, fold := range folds {
			if fj != fi {
				trainIdx = append(trainIdx, fold...)
			}
		}

		tx := make([][]float64, len(trainIdx))
		ty := make([]int, len(trainIdx))
		tw := make([]float64, len(trainIdx))
		for i, idx := range trainIdx {
			tx[i] = x[idx]
			ty[i] = y[idx]
			tw[i] = weights[idx]
		}

		foldCfg := cfg.Forest
		foldCfg.Seed = cfg.Forest.Seed + int64(fi)
		forest, err := FitForest(tx, ty, tw, foldCfg)
		if err != nil {
			return nil, fmt.Errorf("fold %d: %w", fi, err)
		}

		scores := make([]float64, len(heldOut))
		targets := make([]float64, len(heldOut))
		for i, idx := range heldOut {
			scores[i] = forest.Score(x[idx])
			targets[i] = float64(y[idx])
		}
		iso, err := FitIsotonic(scores, targets)
		if err != nil {
			return nil, fmt.Errorf("fold %d calibration: %w", fi, err)
		}

		cf.Folds = append(cf.Folds, FoldModel{Forest: forest, Calib: iso})
	}

	return cf, nil
}

// Score returns the calibrated positive-class probability for a feature
// vector in training order, clipped into (probEpsilon, 1-probEpsilon).
func (cf *CalibratedForest) Score(x []float64) float64 {
	if len(cf.Folds) == 0 {
		return probEpsilon
	}
	sum := 0.0
	for _, fold := range cf.Folds {
		sum += fold.Calib.Predict(fold.Forest.Score(x))
	}
	p := sum / float64(len(cf.Folds))

	if p < probEpsilon {
		return probEpsilon
	}
	if p > 1-probEpsilon {
		return 1 - probEpsilon
	}
	return p
}

package model

import (
	"fmt"
	"math"
	"math/rand"
)

// ForestConfig controls how the bagged ensemble is grown.
type ForestConfig struct {
	Trees    int   `json:"trees"`
	MaxDepth int   `json:"maxDepth"`
	MinLeaf  int   `json:"minLeaf"`
	Seed     int64 `json:"seed"`
}

// DefaultForestConfig mirrors the settings the model was tuned with.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{Trees: 200, MaxDepth: 8, MinLeaf: 5, Seed: 42}
}

// Forest is a bootstrap-aggregated ensemble of classification trees.
type Forest struct {
	Trees       []*TreeNode `json:"trees"`
	NumFeatures int         `json:"numFeatures"`
}

// FitForest grows cfg.Trees trees on bootstrap resamples of (x, y) using the
// provided per-sample weights. Each split considers a random sqrt(d)-sized
// feature subset.
func FitForest(x [][]float64, y []int, w []float64, cfg ForestConfig) (*Forest, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("cannot fit forest on empty training data")
	}
	if len(x) != len(y) || len(x) != len(w) {
		return nil, fmt.Errorf("inconsistent training data: %d rows, %d labels, %d weights", len(x), len(y), len(w))
	}

	nf := len(x[0])
	mtry := int(math.Sqrt(float64(nf)))
	if mtry < 1 {
		mtry = 1
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	f := &Forest{
		Trees:       make([]*TreeNode, 0, cfg.Trees),
		NumFeatures: nf,
	}

	for t := 0; t < cfg.Trees; t++ {
		idx := make([]int, len(x))
		for i := range idx {
			idx[i] = rng.Intn(len(x))
		}
		f.Trees = append(f.Trees, growTree(x, y, w, idx, 0, cfg.MaxDepth, cfg.MinLeaf, mtry, rng))
	}

	return f, nil
}

// Score returns the ensemble's raw positive-class probability for a single
// feature vector: the mean of the tree leaf probabilities.
func (f *Forest) Score(x []float64) float64 {
	if len(f.Trees) == 0 {
		return 0
	}
	sum := 0.0
	for _, t := range f.Trees {
		sum += t.Predict(x)
	}
	return sum / float64(len(f.Trees))
}

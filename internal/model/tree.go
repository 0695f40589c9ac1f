// Package model implements the calibrated tree-ensemble classifier: a bagged
// forest of weighted CART trees wrapped with out-of-fold isotonic calibration.
// Every fitted structure is plain exported data so the artifact bundle can
// persist and reload it byte-for-byte.
package model

import (
	"math/rand"
	"sort"
)

// TreeNode is a node of a binary classification tree. Leaves carry the
// weighted positive-class fraction of the training samples that reached them.
type TreeNode struct {
	Feature   int       `json:"f,omitempty"`
	Threshold float64   `json:"t,omitempty"`
	Left      *TreeNode `json:"l,omitempty"`
	Right     *TreeNode `json:"r,omitempty"`
	Leaf      bool      `json:"leaf,omitempty"`
	Prob      float64   `json:"p"`
}

// Predict walks the tree for a single feature vector and returns the leaf's
// positive-class probability.
func (n *TreeNode) Predict(x []float64) float64 {
	node := n
	for !node.Leaf {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Prob
}

type splitCandidate struct {
	feature int
	thresh  float64
	gain    float64
}

func weightedPosFraction(y []int, w []float64, idx []int) float64 {
	var pos, total float64
	for _, i := range idx {
		total += w[i]
		if y[i] == 1 {
			pos += w[i]
		}
	}
	if total == 0 {
		return 0
	}
	return pos / total
}

func gini(pos, total float64) float64 {
	if total == 0 {
		return 0
	}
	p := pos / total
	return 2 * p * (1 - p)
}

// bestSplit scans the given feature subset for the split with the largest
// weighted gini impurity decrease.
func bestSplit(x [][]float64, y []int, w []float64, idx []int, feats []int, minLeaf int) (splitCandidate, bool) {
	var totalPos, totalW float64
	for _, i := range idx {
		totalW += w[i]
		if y[i] == 1 {
			totalPos += w[i]
		}
	}
	parent := gini(totalPos, totalW)

	best := splitCandidate{gain: 0}
	found := false

	order := make([]int, len(idx))
	for _, f := range feats {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return x[order[a]][f] < x[order[b]][f] })

		var leftPos, leftW float64
		for k := 0; k < len(order)-1; k++ {
			i := order[k]
			leftW += w[i]
			if y[i] == 1 {
				leftPos += w[i]
			}

			// Only split between distinct values.
			if x[order[k]][f] == x[order[k+1]][f] {
				continue
			}
			if k+1 < minLeaf || len(order)-k-1 < minLeaf {
				continue
			}

			rightW := totalW - leftW
			rightPos := totalPos - leftPos
			child := (leftW*gini(leftPos, leftW) + rightW*gini(rightPos, rightW)) / totalW
			gain := parent - child

			if gain > best.gain {
				best = splitCandidate{
					feature: f,
					thresh:  0.5 * (x[order[k]][f] + x[order[k+1]][f]),
					gain:    gain,
				}
				found = true
			}
		}
	}

	return best, found
}

func growTree(x [][]float64, y []int, w []float64, idx []int, depth, maxDepth, minLeaf, mtry int, rng *rand.Rand) *TreeNode {
	prob := weightedPosFraction(y, w, idx)

	if depth >= maxDepth || len(idx) < 2*minLeaf || prob == 0 || prob == 1 {
		return &TreeNode{Leaf: true, Prob: prob}
	}

	nf := len(x[0])
	feats := rng.Perm(nf)[:mtry]

	split, ok := bestSplit(x, y, w, idx, feats, minLeaf)
	if !ok {
		return &TreeNode{Leaf: true, Prob: prob}
	}

	var left, right []int
	for _, i := range idx {
		if x[i][split.feature] <= split.thresh {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &TreeNode{Leaf: true, Prob: prob}
	}

	return &TreeNode{
		Feature:   split.feature,
		Threshold: split.thresh,
		Left:      growTree(x, y, w, left, depth+1, maxDepth, minLeaf, mtry, rng),
		Right:     growTree(x, y, w, right, depth+1, maxDepth, minLeaf, mtry, rng),
		Prob:      prob,
	}
}

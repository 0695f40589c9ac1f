package model

import "sort"

// Report summarizes the held-out evaluation of a fitted model. Metrics are
// reported, never enforced; quality gating is a human decision.
type Report struct {
	ROCAUC        float64 `json:"rocAuc"`
	PRAUC         float64 `json:"prAuc"`
	Brier         float64 `json:"brier"`
	BestThreshold float64 `json:"bestThreshold"`
	BestF1        float64 `json:"bestF1"`
}

// Evaluate computes the full metric report for predicted probabilities
// against 0/1 labels.
func Evaluate(scores []float64, labels []int) Report {
	thr, f1 := BestF1Threshold(scores, labels)
	return Report{
		ROCAUC:        ROCAUC(scores, labels),
		PRAUC:         PRAUC(scores, labels),
		Brier:         Brier(scores, labels),
		BestThreshold: thr,
		BestF1:        f1,
	}
}

// ROCAUC computes the area under the ROC curve via the rank-sum formulation,
// with average ranks for tied scores. Degenerate label sets score 0.5.
func ROCAUC(scores []float64, labels []int) float64 {
	var nPos, nNeg int
	for _, l := range labels {
		if l == 1 {
			nPos++
		} else {
			nNeg++
		}
	}
	if nPos == 0 || nNeg == 0 {
		return 0.5
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return scores[order[a]] < scores[order[b]] })

	ranks := make([]float64, len(scores))
	for i := 0; i < len(order); {
		j := i
		for j < len(order) && scores[order[j]] == scores[order[i]] {
			j++
		}
		// 1-based average rank across the tie group.
		avg := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			ranks[order[k]] = avg
		}
		i = j
	}

	var rankSum float64
	for i, l := range labels {
		if l == 1 {
			rankSum += ranks[i]
		}
	}
	return (rankSum - float64(nPos)*float64(nPos+1)/2) / (float64(nPos) * float64(nNeg))
}

// PRAUC computes average precision: the precision-weighted sum of recall
// steps walking thresholds from the highest score down.
func PRAUC(scores []float64, labels []int) float64 {
	var nPos int
	for _, l := range labels {
		if l == 1 {
			nPos++
		}
	}
	if nPos == 0 {
		return 0
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })

	var tp, fp int
	var ap, prevRecall float64
	for i := 0; i < len(order); {
		j := i
		for j < len(order) && scores[order[j]] == scores[order[i]] {
			if labels[order[j]] == 1 {
				tp++
			} else {
				fp++
			}
			j++
		}
		precision := float64(tp) / float64(tp+fp)
		recall := float64(tp) / float64(nPos)
		ap += precision * (recall - prevRecall)
		prevRecall = recall
		i = j
	}
	return ap
}

// Brier computes the mean squared error between predicted probabilities and
// outcomes, the standard calibration error measure.
func Brier(scores []float64, labels []int) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for i, s := range scores {
		d := s - float64(labels[i])
		sum += d * d
	}
	return sum / float64(len(scores))
}

// BestF1Threshold walks the precision-recall curve and returns the score
// threshold maximizing F1 together with that F1.
func BestF1Threshold(scores []float64, labels []int) (float64, float64) {
	var nPos int
	for _, l := range labels {
		if l == 1 {
			nPos++
		}
	}
	if nPos == 0 || len(scores) == 0 {
		return 0.5, 0
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })

	bestThr, bestF1 := 0.5, 0.0
	var tp, fp int
	for i := 0; i < len(order); {
		j := i
		for j < len(order) && scores[order[j]] == scores[order[i]] {
			if labels[order[j]] == 1 {
				tp++
			} else {
				fp++
			}
			j++
		}
		precision := float64(tp) / float64(tp+fp)
		recall := float64(tp) / float64(nPos)
		if precision+recall > 0 {
			f1 := 2 * precision * recall / (precision + recall)
			if f1 > bestF1 {
				bestF1 = f1
				bestThr = scores[order[i]]
			}
		}
		i = j
	}
	return bestThr, bestF1
}

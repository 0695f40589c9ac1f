// Package prior corrects a calibrated probability for the difference between
// the class prevalence in the training population and the prevalence expected
// at deployment time, via odds-ratio reweighting.
package prior

// Epsilon bounds every probability away from 0 and 1 so odds and log terms
// stay finite downstream.
const Epsilon = 1e-12

// Valid reports whether p is usable as a class prior, i.e. strictly in (0,1).
func Valid(p float64) bool {
	return p > 0 && p < 1
}

// ClampProb clips p into [Epsilon, 1-Epsilon].
func ClampProb(p float64) float64 {
	if p < Epsilon {
		return Epsilon
	}
	if p > 1-Epsilon {
		return 1 - Epsilon
	}
	return p
}

// Adjust rescales a probability computed under the training prior piTrain to
// the probability implied by the deployment prior piDeploy:
//
//	adjustedOdds = odds(p) * (piDeploy/(1-piDeploy)) / (piTrain/(1-piTrain))
//
// If either prior is outside (0,1) the adjustment is skipped and p is returned
// unchanged; an invalid prior must not block a risk estimate.
func Adjust(p, piTrain, piDeploy float64) float64 {
	if !Valid(piTrain) || !Valid(piDeploy) {
		return p
	}

	p = ClampProb(p)
	odds := p / (1 - p)
	ratio := (piDeploy / (1 - piDeploy)) / (piTrain / (1 - piTrain))
	adjusted := odds * ratio

	return ClampProb(adjusted / (1 + adjusted))
}

// Resolve picks the effective deployment prior for a request: an explicit
// per-request override wins over the configured default; if neither is a
// valid prior, there is no effective prior and adjustment is skipped.
func Resolve(override, configured *float64) (float64, bool) {
	if override != nil && Valid(*override) {
		return *override, true
	}
	if configured != nil && Valid(*configured) {
		return *configured, true
	}
	return 0, false
}

// Package scoring orchestrates the per-request pipeline: encode the raw
// attributes, standardize, classify, and correct for deployment prevalence.
package scoring

import (
	"math"

	"github.com/pulmosight/lungrisk/internal/artifacts"
	"github.com/pulmosight/lungrisk/internal/features"
	"github.com/pulmosight/lungrisk/internal/prior"
)

// Config carries the process-level prior overrides, resolved once at startup
// and threaded into every prediction.
type Config struct {
	// PiTrainOverride replaces the persisted training prevalence when set
	// and valid.
	PiTrainOverride *float64
	// PiDeployDefault is the deployment prevalence assumed when a request
	// carries no explicit override.
	PiDeployDefault *float64
}

// Service scores requests against an immutable artifact bundle. It holds no
// mutable state, so one instance serves arbitrarily many concurrent requests.
type Service struct {
	bundle  *artifacts.Bundle
	encoder *features.Encoder
	cfg     Config
}

// New builds a scoring service around a loaded artifact bundle.
func New(bundle *artifacts.Bundle, cfg Config) *Service {
	return &Service{
		bundle:  bundle,
		encoder: features.NewEncoder(bundle.Meta.FeatureOrder, bundle.Meta.NumericCols),
		cfg:     cfg,
	}
}

// Meta exposes the bundle metadata for the metadata endpoint.
func (s *Service) Meta() artifacts.Meta {
	return s.bundle.Meta
}

// TrainingPrior returns the effective training prevalence: the configured
// override when valid, otherwise the persisted empirical value.
func (s *Service) TrainingPrior() float64 {
	if s.cfg.PiTrainOverride != nil && prior.Valid(*s.cfg.PiTrainOverride) {
		return *s.cfg.PiTrainOverride
	}
	return s.bundle.Meta.PiTrain
}

// DefaultDeployPrior returns the configured deployment prevalence default,
// or nil when none is set.
func (s *Service) DefaultDeployPrior() *float64 {
	return s.cfg.PiDeployDefault
}

// Request is one scoring request: the raw attribute set plus an optional
// per-request deployment-prevalence override.
type Request struct {
	Attributes         map[string]features.Variant
	PrevalenceOverride *float64
}

// Result is the outcome of one prediction. AdjustedProbability is nil when
// no prevalence adjustment was computed; Probability is then the raw value.
type Result struct {
	Probability         float64
	RawProbability      float64
	AdjustedProbability *float64
	UsedAdjustment      bool
	PiTrain             float64
	PiDeploy            *float64
	Inputs              map[string]float64
}

// Predict runs the full pipeline for one request. Malformed attribute values
// never fail the request; they fall back to the encoder defaults.
func (s *Service) Predict(req Request) Result {
	vec, echo := s.encoder.Encode(req.Attributes)
	scaled := s.bundle.Scaler.Transform(s.bundle.Meta.FeatureOrder, vec)
	raw := s.bundle.Model.Score(scaled)

	res := Result{
		Probability:    raw,
		RawProbability: raw,
		PiTrain:        s.TrainingPrior(),
		Inputs:         echo,
	}

	piDeploy, ok := prior.Resolve(req.PrevalenceOverride, s.cfg.PiDeployDefault)
	if !ok || !prior.Valid(res.PiTrain) {
		return res
	}

	adjusted := prior.Adjust(raw, res.PiTrain, piDeploy)
	res.AdjustedProbability = &adjusted
	res.Probability = adjusted
	res.UsedAdjustment = true
	res.PiDeploy = &piDeploy
	return res
}

// Percent converts a probability to a percentage rounded to two decimals,
// capping the probability at 0.9999 first so a response never reads as a
// flat 100%.
func Percent(p float64) float64 {
	if p > 0.9999 {
		p = 0.9999
	}
	if p < 0 {
		p = 0
	}
	return math.Round(p*100*100) / 100
}

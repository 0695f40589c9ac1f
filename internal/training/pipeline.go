// Package training is the offline batch job that fits the scaler and the
// calibrated classifier from labeled historical data, evaluates them on a
// held-out split, and persists the artifact bundle the scoring service
// consumes. It runs linearly to completion or stops at the first fatal error.
package training

import (
	"fmt"
	"log/slog"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/pulmosight/lungrisk/internal/artifacts"
	"github.com/pulmosight/lungrisk/internal/model"
	"github.com/pulmosight/lungrisk/internal/scaling"
)

// PipelineConfig parameterizes one training run.
type PipelineConfig struct {
	CSVPath      string
	OutDir       string
	TestFraction float64
	Calibration  model.CalibrationConfig
}

// DefaultPipelineConfig matches the settings the production model ships with:
// a stratified 80/20 split over the default calibrated forest.
func DefaultPipelineConfig(csvPath, outDir string) PipelineConfig {
	return PipelineConfig{
		CSVPath:      csvPath,
		OutDir:       outDir,
		TestFraction: 0.2,
		Calibration:  model.DefaultCalibrationConfig(),
	}
}

// Summary reports what one run produced. Metrics are informational; no
// quality gate is enforced here.
type Summary struct {
	Samples      int          `json:"samples"`
	Positives    int          `json:"positives"`
	PiTrain      float64      `json:"piTrain"`
	Metrics      model.Report `json:"metrics"`
	ArtifactsDir string       `json:"artifactsDir"`
	Duration     string       `json:"duration"`
}

// stratifiedSplit partitions indices into train and test sets, sampling each
// class separately so the split preserves the class balance.
func stratifiedSplit(labels []int, testFraction float64, seed int64) (train, test []int) {
	rng := rand.New(rand.NewSource(seed))

	var pos, neg []int
	for i, l := range labels {
		if l == 1 {
			pos = append(pos, i)
		} else {
			neg = append(neg, i)
		}
	}
	rng.Shuffle(len(pos), func(a, b int) { pos[a], pos[b] = pos[b], pos[a] })
	rng.Shuffle(len(neg), func(a, b int) { neg[a], neg[b] = neg[b], neg[a] })

	split := func(idx []int) {
		nTest := int(float64(len(idx)) * testFraction)
		test = append(test, idx[:nTest]...)
		train = append(train, idx[nTest:]...)
	}
	split(pos)
	split(neg)
	return train, test
}

// Run executes the pipeline: LoadData → ValidateColumns → encode → stratified
// split → fit scaler on the training split only → fit the calibrated
// classifier → evaluate on the test split → persist artifacts. The persisted
// training prevalence is the positive fraction of the FULL labeled set, not
// just the training split.
func Run(cfg PipelineConfig) (*Summary, error) {
	start := time.Now()

	ds, err := LoadCSV(cfg.CSVPath)
	if err != nil {
		return nil, err
	}
	slog.Info("training data loaded",
		"rows", len(ds.Rows),
		"positives", ds.Positives(),
		"prevalence", ds.Prevalence(),
	)

	testFraction := cfg.TestFraction
	if testFraction <= 0 || testFraction >= 1 {
		testFraction = 0.2
	}
	trainIdx, testIdx := stratifiedSplit(ds.Labels, testFraction, cfg.Calibration.Forest.Seed)
	if len(trainIdx) == 0 || len(testIdx) == 0 {
		return nil, fmt.Errorf("dataset too small to split: %d train, %d test", len(trainIdx), len(testIdx))
	}

	gather := func(idx []int) ([][]float64, []int) {
		rows := make([][]float64, len(idx))
		labels := make([]int, len(idx))
		for i, j := range idx {
			rows[i] = ds.Rows[j]
			labels[i] = ds.Labels[j]
		}
		return rows, labels
	}
	trainRows, trainLabels := gather(trainIdx)
	testRows, testLabels := gather(testIdx)

	scaler, err := scaling.Fit(FeatureOrder, trainRows, NumericCols)
	if err != nil {
		return nil, fmt.Errorf("scaler fit: %w", err)
	}

	scale := func(rows [][]float64) [][]float64 {
		out := make([][]float64, len(rows))
		for i, row := range rows {
			out[i] = scaler.Transform(FeatureOrder, row)
		}
		return out
	}

	slog.Info("fitting calibrated classifier",
		"trainRows", len(trainRows),
		"folds", cfg.Calibration.Folds,
		"trees", cfg.Calibration.Forest.Trees,
	)
	cf, err := model.FitCalibrated(scale(trainRows), trainLabels, cfg.Calibration)
	if err != nil {
		return nil, fmt.Errorf("classifier fit: %w", err)
	}

	scaledTest := scale(testRows)
	scores := make([]float64, len(scaledTest))
	for i, row := range scaledTest {
		scores[i] = cf.Score(row)
	}
	report := model.Evaluate(scores, testLabels)
	slog.Info("held-out evaluation",
		"rocAuc", report.ROCAUC,
		"prAuc", report.PRAUC,
		"brier", report.Brier,
		"bestThreshold", report.BestThreshold,
		"bestF1", report.BestF1,
	)

	bundle := &artifacts.Bundle{
		Scaler: scaler,
		Model:  cf,
		Meta: artifacts.Meta{
			PiTrain:            ds.Prevalence(),
			FeatureOrder:       FeatureOrder,
			NumericCols:        NumericCols,
			BinaryCols:         BinaryCols(),
			BinaryMeaning:      BinaryMeaning(),
			Target:             TargetColumn,
			CalibrationMethod:  "isotonic",
			ModelFamily:        "random_forest",
			TrainingDataSource: filepath.Base(cfg.CSVPath),
		},
	}
	if err := artifacts.Save(cfg.OutDir, bundle); err != nil {
		return nil, fmt.Errorf("persist artifacts: %w", err)
	}

	return &Summary{
		Samples:      len(ds.Rows),
		Positives:    ds.Positives(),
		PiTrain:      ds.Prevalence(),
		Metrics:      report,
		ArtifactsDir: cfg.OutDir,
		Duration:     time.Since(start).String(),
	}, nil
}

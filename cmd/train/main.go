package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/pulmosight/lungrisk/internal/config"
	"github.com/pulmosight/lungrisk/internal/training"
)

var version = "1.0.0"

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	app := &cli.App{
		Name:    "lungrisk-train",
		Version: version,
		Usage:   "train the lung cancer risk model and write its artifacts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "csv",
				Usage:   "path to the labeled training CSV",
				Value:   cfg.TrainingCSV,
				EnvVars: []string{"LUNG_CANCER_CSV"},
			},
			&cli.StringFlag{
				Name:    "out",
				Usage:   "directory to write scaler.json, model.json and meta.json",
				Value:   cfg.ArtifactsDir,
				EnvVars: []string{"ARTIFACTS_DIR"},
			},
			&cli.Float64Flag{
				Name:  "test-fraction",
				Usage: "fraction of rows held out for evaluation",
				Value: 0.2,
			},
			&cli.IntFlag{
				Name:  "folds",
				Usage: "number of stratified calibration folds",
				Value: 5,
			},
			&cli.IntFlag{
				Name:  "trees",
				Usage: "trees per fold ensemble",
				Value: 200,
			},
			&cli.IntFlag{
				Name:  "max-depth",
				Usage: "maximum tree depth",
				Value: 8,
			},
			&cli.IntFlag{
				Name:  "min-leaf",
				Usage: "minimum samples per leaf",
				Value: 5,
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "random seed for bagging, splits and folds",
				Value: 42,
			},
		},
		Action: runTrain,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Training failed", "error", err)
		os.Exit(1)
	}
}

func runTrain(c *cli.Context) error {
	pcfg := training.DefaultPipelineConfig(c.String("csv"), c.String("out"))
	pcfg.TestFraction = c.Float64("test-fraction")
	pcfg.Calibration.Folds = c.Int("folds")
	pcfg.Calibration.Forest.Trees = c.Int("trees")
	pcfg.Calibration.Forest.MaxDepth = c.Int("max-depth")
	pcfg.Calibration.Forest.MinLeaf = c.Int("min-leaf")
	pcfg.Calibration.Forest.Seed = c.Int64("seed")

	if pcfg.TestFraction <= 0 || pcfg.TestFraction >= 1 {
		return fmt.Errorf("test-fraction must be strictly between 0 and 1, got %v", pcfg.TestFraction)
	}

	summary, err := training.Run(pcfg)
	if err != nil {
		return err
	}

	slog.Info("Training complete",
		"samples", summary.Samples,
		"positives", summary.Positives,
		"pi_train", summary.PiTrain,
		"roc_auc", summary.Metrics.ROCAUC,
		"pr_auc", summary.Metrics.PRAUC,
		"brier", summary.Metrics.Brier,
		"best_threshold", summary.Metrics.BestThreshold,
		"best_f1", summary.Metrics.BestF1,
		"artifacts_dir", summary.ArtifactsDir,
		"duration", summary.Duration,
	)
	return nil
}

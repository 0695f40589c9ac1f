package training

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulmosight/lungrisk/internal/artifacts"
	"github.com/pulmosight/lungrisk/internal/model"
)

// syntheticCSV writes a learnable dataset: heavy smokers with COPD are
// positive, everyone else negative, with age varying benignly.
func syntheticCSV(t *testing.T, n int) string {
	t.Helper()

	var b strings.Builder
	b.WriteString(fullHeader + "\n")
	for i := 0; i < n; i++ {
		if i%3 == 0 {
			b.WriteString(fmt.Sprintf("%d,45,yes,no,0,no,yes,0,no,yes\n", 55+i%20))
		} else {
			b.WriteString(fmt.Sprintf("%d,2,no,no,0,no,no,0,no,no\n", 35+i%20))
		}
	}

	path := filepath.Join(t.TempDir(), "lung_cancer_dataset.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0644))
	return path
}

func testPipelineConfig(csvPath, outDir string) PipelineConfig {
	return PipelineConfig{
		CSVPath:      csvPath,
		OutDir:       outDir,
		TestFraction: 0.2,
		Calibration: model.CalibrationConfig{
			Folds:  3,
			Forest: model.ForestConfig{Trees: 20, MaxDepth: 4, MinLeaf: 2, Seed: 42},
		},
	}
}

func TestRunProducesLoadableArtifacts(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "artifacts")
	cfg := testPipelineConfig(syntheticCSV(t, 150), outDir)

	summary, err := Run(cfg)
	require.NoError(t, err)

	assert.Equal(t, 150, summary.Samples)
	assert.Equal(t, 50, summary.Positives)
	assert.InDelta(t, 1.0/3.0, summary.PiTrain, 1e-9)
	assert.Equal(t, outDir, summary.ArtifactsDir)

	// The signal is clean, so discrimination should be near perfect.
	assert.Greater(t, summary.Metrics.ROCAUC, 0.9)
	assert.Greater(t, summary.Metrics.BestF1, 0.8)

	bundle, err := artifacts.Load(outDir)
	require.NoError(t, err)
	assert.Equal(t, FeatureOrder, bundle.Meta.FeatureOrder)
	assert.Equal(t, "isotonic", bundle.Meta.CalibrationMethod)
	assert.Equal(t, "random_forest", bundle.Meta.ModelFamily)
	assert.Equal(t, "lung_cancer_dataset.csv", bundle.Meta.TrainingDataSource)
	assert.InDelta(t, 1.0/3.0, bundle.Meta.PiTrain, 1e-9)

	// A heavy-exposure profile must outscore a clean one through the
	// reloaded bundle.
	scale := func(row []float64) []float64 {
		return bundle.Scaler.Transform(bundle.Meta.FeatureOrder, row)
	}
	risky := bundle.Model.Score(scale([]float64{60, 45, 1, 0, 0, 0, 1, 0, 0}))
	clean := bundle.Model.Score(scale([]float64{40, 2, 0, 0, 0, 0, 0, 0, 0}))
	assert.Greater(t, risky, clean)
}

func TestRunMissingCSV(t *testing.T) {
	cfg := testPipelineConfig(filepath.Join(t.TempDir(), "absent.csv"), t.TempDir())

	_, err := Run(cfg)
	assert.Error(t, err)
}

func TestRunMissingColumnAborts(t *testing.T) {
	path := writeCSV(t, "age,lung_cancer\n50,no\n")
	cfg := testPipelineConfig(path, t.TempDir())

	_, err := Run(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing expected columns")
}

func TestRunSingleClassAborts(t *testing.T) {
	var b strings.Builder
	b.WriteString(fullHeader + "\n")
	for i := 0; i < 40; i++ {
		b.WriteString("50,5,no,no,0,no,no,0,no,no\n")
	}
	path := filepath.Join(t.TempDir(), "single.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0644))

	_, err := Run(testPipelineConfig(path, t.TempDir()))
	assert.Error(t, err)
}

func TestStratifiedSplitPreservesBalance(t *testing.T) {
	labels := make([]int, 100)
	for i := range labels {
		if i < 20 {
			labels[i] = 1
		}
	}

	train, test := stratifiedSplit(labels, 0.2, 1)
	assert.Len(t, train, 80)
	assert.Len(t, test, 20)

	countPos := func(idx []int) int {
		n := 0
		for _, i := range idx {
			if labels[i] == 1 {
				n++
			}
		}
		return n
	}
	assert.Equal(t, 16, countPos(train))
	assert.Equal(t, 4, countPos(test))
}

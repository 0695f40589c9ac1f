// Package artifacts persists and loads the trained model bundle: scaler
// statistics, the calibrated classifier, and the metadata document that
// fully determines serving behavior for one model version.
package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pulmosight/lungrisk/internal/model"
	"github.com/pulmosight/lungrisk/internal/scaling"
)

const (
	ScalerFile = "scaler.json"
	ModelFile  = "model.json"
	MetaFile   = "meta.json"
)

// Meta is the self-describing metadata document stored beside the model.
type Meta struct {
	PiTrain            float64           `json:"piTrain"`
	FeatureOrder       []string          `json:"featureOrder"`
	NumericCols        []string          `json:"numericCols"`
	BinaryCols         []string          `json:"binaryCols"`
	BinaryMeaning      map[string]string `json:"binaryMeaning"`
	Target             string            `json:"target"`
	CalibrationMethod  string            `json:"calibrationMethod"`
	ModelFamily        string            `json:"modelFamily"`
	TrainingDataSource string            `json:"trainingDataSource"`
}

// Bundle aggregates everything the scoring service needs. It is produced once
// by the training pipeline, loaded once at process start, and shared
// read-only across all requests.
type Bundle struct {
	Scaler *scaling.Scaler
	Model  *model.CalibratedForest
	Meta   Meta
}

func writeJSON(path string, v interface{}) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readJSON(path string, v interface{}) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("required artifact file %s is missing", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Save writes the bundle's three artifact files into dir, creating it if
// needed.
func Save(dir string, b *Bundle) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create artifacts directory: %w", err)
	}

	if err := writeJSON(filepath.Join(dir, ScalerFile), b.Scaler); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, ModelFile), b.Model); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, MetaFile), b.Meta)
}

// Load reads the bundle from dir. A missing scaler or model file is an
// unrecoverable error naming the file; a bundle whose pieces disagree about
// the feature schema is rejected rather than silently producing wrong scores.
func Load(dir string) (*Bundle, error) {
	b := &Bundle{
		Scaler: &scaling.Scaler{},
		Model:  &model.CalibratedForest{},
	}

	if err := readJSON(filepath.Join(dir, ScalerFile), b.Scaler); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, ModelFile), b.Model); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, MetaFile), &b.Meta); err != nil {
		return nil, err
	}

	if err := b.Verify(); err != nil {
		return nil, err
	}
	return b, nil
}

// Verify cross-checks the persisted feature order, scaler columns, and
// classifier feature count for one model version.
func (b *Bundle) Verify() error {
	if len(b.Meta.FeatureOrder) == 0 {
		return fmt.Errorf("artifact metadata has an empty feature order")
	}
	if b.Model.NumFeatures != len(b.Meta.FeatureOrder) {
		return fmt.Errorf("artifact mismatch: classifier expects %d features but feature order lists %d",
			b.Model.NumFeatures, len(b.Meta.FeatureOrder))
	}

	inOrder := make(map[string]bool, len(b.Meta.FeatureOrder))
	for _, col := range b.Meta.FeatureOrder {
		inOrder[col] = true
	}
	for _, col := range b.Scaler.Columns {
		if !inOrder[col] {
			return fmt.Errorf("artifact mismatch: scaler column %q is not in the feature order", col)
		}
	}

	if len(b.Scaler.Columns) != len(b.Meta.NumericCols) {
		return fmt.Errorf("artifact mismatch: scaler covers %d columns but metadata lists %d numeric columns",
			len(b.Scaler.Columns), len(b.Meta.NumericCols))
	}
	for i, col := range b.Meta.NumericCols {
		if b.Scaler.Columns[i] != col {
			return fmt.Errorf("artifact mismatch: scaler column %q does not match numeric column %q",
				b.Scaler.Columns[i], col)
		}
	}

	return nil
}

package training

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/pulmosight/lungrisk/internal/features"
)

// Dataset is the encoded labeled training data: feature vectors in
// FeatureOrder plus 0/1 labels.
type Dataset struct {
	Rows   [][]float64
	Labels []int
}

// Positives counts the positive labels.
func (d *Dataset) Positives() int {
	n := 0
	for _, l := range d.Labels {
		if l == 1 {
			n++
		}
	}
	return n
}

// Prevalence is the empirical positive fraction of the whole dataset.
func (d *Dataset) Prevalence() float64 {
	if len(d.Labels) == 0 {
		return 0
	}
	return float64(d.Positives()) / float64(len(d.Labels))
}

// LoadCSV reads and encodes the labeled source data. Header order is
// irrelevant; every column of FeatureOrder plus the target must be present
// or the load fails, because training against a partial schema would
// silently waste the run. Cell values go through the same tolerant parser
// the serving path uses.
func LoadCSV(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open training data: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}

	var missing []string
	for _, col := range append(append([]string(nil), FeatureOrder...), TargetColumn) {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("training data is missing expected columns: %s", strings.Join(missing, ", "))
	}

	numeric := make(map[string]bool, len(NumericCols))
	for _, col := range NumericCols {
		numeric[col] = true
	}

	ds := &Dataset{}
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV rows: %w", err)
	}

	for _, record := range records {
		row := make([]float64, len(FeatureOrder))
		for i, col := range FeatureOrder {
			v := features.FromAny(record[index[col]])
			if numeric[col] {
				row[i] = v.Numeric(0)
			} else {
				row[i] = float64(v.Binary())
			}
		}
		ds.Rows = append(ds.Rows, row)
		ds.Labels = append(ds.Labels, features.FromAny(record[index[TargetColumn]]).Binary())
	}

	if len(ds.Rows) == 0 {
		return nil, fmt.Errorf("training data %s contains no rows", path)
	}
	return ds, nil
}

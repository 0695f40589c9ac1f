package training

// TargetColumn is the label column of the training data.
const TargetColumn = "lung_cancer"

// FeatureOrder is the canonical training-time column order. Serving reads it
// back from the persisted metadata; it is defined here exactly once.
var FeatureOrder = []string{
	"age",
	"pack_years",
	"gender",
	"radon_exposure",
	"asbestos_exposure",
	"secondhand_smoke_exposure",
	"copd_diagnosis",
	"alcohol_consumption",
	"family_history",
}

// NumericCols are the real-valued features; everything else in FeatureOrder
// is a 0/1 indicator.
var NumericCols = []string{"age", "pack_years"}

// BinaryCols returns FeatureOrder minus the numeric columns.
func BinaryCols() []string {
	numeric := make(map[string]bool, len(NumericCols))
	for _, col := range NumericCols {
		numeric[col] = true
	}
	var out []string
	for _, col := range FeatureOrder {
		if !numeric[col] {
			out = append(out, col)
		}
	}
	return out
}

// BinaryMeaning documents which integer encodes "yes" for each indicator, so
// the artifact bundle is self-describing.
func BinaryMeaning() map[string]string {
	meaning := map[string]string{
		"gender": "1=male, 0=female",
	}
	for _, col := range BinaryCols() {
		if _, ok := meaning[col]; !ok {
			meaning[col] = "1=yes, 0=no"
		}
	}
	return meaning
}

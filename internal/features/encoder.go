package features

// Encoder converts a raw attribute set into the canonical numeric feature
// vector. Column order is dictated solely by the training-time feature order,
// never by the shape of the incoming request.
type Encoder struct {
	order   []string
	numeric map[string]bool
}

// NewEncoder creates an encoder for the given feature order. Columns listed
// in numericCols are parsed as real values; everything else is a 0/1 indicator.
func NewEncoder(order []string, numericCols []string) *Encoder {
	numeric := make(map[string]bool, len(numericCols))
	for _, col := range numericCols {
		numeric[col] = true
	}
	return &Encoder{order: order, numeric: numeric}
}

// Order returns the feature order the encoder emits.
func (e *Encoder) Order() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// Encode produces the feature vector plus an echo map holding the parsed,
// pre-scaling value of each feature so callers can audit how their input
// was interpreted. Missing or malformed values fall back to 0, never error.
func (e *Encoder) Encode(raw map[string]Variant) ([]float64, map[string]float64) {
	vec := make([]float64, len(e.order))
	echo := make(map[string]float64, len(e.order))

	for i, col := range e.order {
		v, ok := raw[col]
		if !ok {
			v = Absent()
		}
		if e.numeric[col] {
			vec[i] = v.Numeric(0)
		} else {
			vec[i] = float64(v.Binary())
		}
		echo[col] = vec[i]
	}

	return vec, echo
}

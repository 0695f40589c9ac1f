package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVariantBinary(t *testing.T) {
	tests := []struct {
		name     string
		input    Variant
		expected int
	}{
		{name: "bool true", input: FromAny(true), expected: 1},
		{name: "bool false", input: FromAny(false), expected: 0},
		{name: "number one", input: FromAny(1.0), expected: 1},
		{name: "number zero", input: FromAny(0.0), expected: 0},
		{name: "number above threshold", input: FromAny(0.7), expected: 1},
		{name: "number below threshold", input: FromAny(0.49), expected: 0},
		{name: "yes uppercase", input: FromAny("YES"), expected: 1},
		{name: "yes lowercase", input: FromAny("yes"), expected: 1},
		{name: "single y", input: FromAny("y"), expected: 1},
		{name: "true word", input: FromAny("True"), expected: 1},
		{name: "single t", input: FromAny("T"), expected: 1},
		{name: "no", input: FromAny("no"), expected: 0},
		{name: "single n", input: FromAny("N"), expected: 0},
		{name: "false word", input: FromAny("false"), expected: 0},
		{name: "numeric string one", input: FromAny("1"), expected: 1},
		{name: "numeric string zero", input: FromAny("0"), expected: 0},
		{name: "numeric string above threshold", input: FromAny("0.9"), expected: 1},
		{name: "padded yes", input: FromAny("  yes  "), expected: 1},
		{name: "empty string", input: FromAny(""), expected: 0},
		{name: "unrecognized word", input: FromAny("maybe"), expected: 0},
		{name: "absent", input: Absent(), expected: 0},
		{name: "null value", input: FromAny(nil), expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.input.Binary())
		})
	}
}

func TestVariantBinaryCaseInsensitive(t *testing.T) {
	// The same logical value must parse identically regardless of casing
	// or representation.
	assert.Equal(t, FromAny("YES").Binary(), FromAny("yes").Binary())
	assert.Equal(t, FromAny("yes").Binary(), FromAny("1").Binary())
	assert.Equal(t, FromAny("1").Binary(), FromAny(true).Binary())
	assert.Equal(t, 1, FromAny(true).Binary())
}

func TestVariantNumeric(t *testing.T) {
	tests := []struct {
		name     string
		input    Variant
		def      float64
		expected float64
	}{
		{name: "plain number", input: FromAny(42.0), def: 0, expected: 42},
		{name: "numeric string", input: FromAny("42"), def: 0, expected: 42},
		{name: "decimal string", input: FromAny("17.5"), def: 0, expected: 17.5},
		{name: "padded numeric string", input: FromAny(" 63 "), def: 0, expected: 63},
		{name: "garbage string falls back", input: FromAny("abc"), def: 0, expected: 0},
		{name: "garbage string custom default", input: FromAny("abc"), def: -1, expected: -1},
		{name: "absent falls back", input: Absent(), def: 0, expected: 0},
		{name: "bool true is one", input: FromAny(true), def: 0, expected: 1},
		{name: "bool false is zero", input: FromAny(false), def: 5, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.input.Numeric(tt.def))
		})
	}
}

func TestFromAnyKinds(t *testing.T) {
	assert.Equal(t, KindBool, FromAny(true).Kind)
	assert.Equal(t, KindNumber, FromAny(3.14).Kind)
	assert.Equal(t, KindNumber, FromAny(7).Kind)
	assert.Equal(t, KindString, FromAny("x").Kind)
	assert.Equal(t, KindAbsent, FromAny(nil).Kind)
	assert.Equal(t, KindAbsent, FromAny([]string{"no"}).Kind)
}

package features

import (
	"strconv"
	"strings"
)

// VariantKind identifies which representation a raw attribute arrived in.
type VariantKind int

const (
	KindAbsent VariantKind = iota
	KindBool
	KindNumber
	KindString
)

// Variant is a tagged union over the value representations callers are
// allowed to send for a feature: absent, boolean, number, or string.
type Variant struct {
	Kind VariantKind
	Bool bool
	Num  float64
	Str  string
}

// Absent returns the absent variant.
func Absent() Variant { return Variant{Kind: KindAbsent} }

// FromAny converts a decoded JSON value into a Variant. Unsupported types
// (objects, arrays, null) resolve to absent.
func FromAny(v interface{}) Variant {
	switch t := v.(type) {
	case bool:
		return Variant{Kind: KindBool, Bool: t}
	case float64:
		return Variant{Kind: KindNumber, Num: t}
	case int:
		return Variant{Kind: KindNumber, Num: float64(t)}
	case int64:
		return Variant{Kind: KindNumber, Num: float64(t)}
	case string:
		return Variant{Kind: KindString, Str: t}
	default:
		return Absent()
	}
}

var truthyWords = map[string]bool{
	"yes": true, "y": true, "true": true, "t": true, "1": true,
}

var falsyWords = map[string]bool{
	"no": true, "n": true, "false": true, "f": true, "0": true,
}

// Binary maps a variant to the canonical 0/1 indicator encoding.
// Booleans map directly, numbers are thresholded at 0.5, and strings are
// matched case-insensitively against a tolerant yes/no vocabulary with a
// numeric-string fallback. Anything unrecognized or absent resolves to 0.
func (v Variant) Binary() int {
	switch v.Kind {
	case KindBool:
		if v.Bool {
			return 1
		}
		return 0
	case KindNumber:
		if v.Num >= 0.5 {
			return 1
		}
		return 0
	case KindString:
		s := strings.ToLower(strings.TrimSpace(v.Str))
		if truthyWords[s] {
			return 1
		}
		if falsyWords[s] {
			return 0
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			if f >= 0.5 {
				return 1
			}
		}
		return 0
	default:
		return 0
	}
}

// Numeric maps a variant to a float, parsing numeric strings permissively.
// Booleans count as 1/0. Unparseable or absent values fall back to def.
func (v Variant) Numeric(def float64) float64 {
	switch v.Kind {
	case KindNumber:
		return v.Num
	case KindBool:
		if v.Bool {
			return 1
		}
		return 0
	case KindString:
		s := strings.TrimSpace(v.Str)
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
		return def
	default:
		return def
	}
}

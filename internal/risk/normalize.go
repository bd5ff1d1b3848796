// Package risk holds the deterministic scoring engine: numeric
// normalization, credit adjustment, fraud signals, scorecard composition,
// portfolio bucketing, and draw scoring. Everything here is a pure function
// safe for concurrent use.
package risk

import (
	"math"
	"strconv"
	"strings"
)

// NormalizeNumbers coerces a heterogeneous value into a sequence of finite
// numbers. Scalars, delimited strings, and arrays are all accepted;
// non-finite and unparseable entries are dropped silently. Garbage in means
// empty out, never a panic.
func NormalizeNumbers(value interface{}) []float64 {
	out := []float64{}

	switch v := value.(type) {
	case nil:
		return out
	case []float64:
		for _, n := range v {
			if isFinite(n) {
				out = append(out, n)
			}
		}
	case []interface{}:
		for _, item := range v {
			out = append(out, NormalizeNumbers(item)...)
		}
	case string:
		for _, part := range strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n'
		}) {
			if n, err := strconv.ParseFloat(part, 64); err == nil && isFinite(n) {
				out = append(out, n)
			}
		}
	case map[string]interface{}:
		// Nested objects contribute only their values/history members,
		// in that order, so the output stays deterministic.
		for _, key := range []string{"values", "history"} {
			if item, ok := v[key]; ok {
				out = append(out, NormalizeNumbers(item)...)
			}
		}
	default:
		if n, ok := toFloat(v); ok && isFinite(n) {
			out = append(out, n)
		}
	}

	return out
}

// ToNumber coerces a single value to a number, reporting whether the
// coercion succeeded. Non-finite results are rejected.
func ToNumber(value interface{}) (float64, bool) {
	n, ok := toFloat(value)
	if !ok || !isFinite(n) {
		return 0, false
	}
	return n, true
}

// SafeNum coerces a single value to a finite number, returning 0 for
// anything that is not one.
func SafeNum(value interface{}) float64 {
	n, ok := toFloat(value)
	if !ok || !isFinite(n) {
		return 0
	}
	return n
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func isFinite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}

func clamp(n, lo, hi float64) float64 {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// roundTo rounds to the given number of decimal places.
func roundTo(n float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(n*factor) / factor
}

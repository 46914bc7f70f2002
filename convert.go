package recordc

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// toFloat coerces the numeric shapes that reach constraint checks: Go ints,
// floats, and json.Number from the JSON sources.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// lengthOf returns the logical length of text or a collection value.
func lengthOf(v any) (int, bool) {
	switch t := v.(type) {
	case string:
		return len([]rune(t)), true
	case []any:
		return len(t), true
	case map[string]any:
		return len(t), true
	}
	return 0, false
}

// digitCounts reports whole and fractional digit counts of f when rendered
// in plain decimal notation.
func digitCounts(f float64) (whole, frac int) {
	s := strconv.FormatFloat(math.Abs(f), 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		frac = len(s) - i - 1
		s = s[:i]
	}
	s = strings.TrimLeft(s, "0")
	whole = len(s)
	return whole, frac
}

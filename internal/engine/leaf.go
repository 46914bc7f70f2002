package engine

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	recordc "github.com/reoring/recordc"
	"github.com/reoring/recordc/schema"
)

func (v *validator) walkString(t *schema.String, in any, path string) (any, recordc.Issues) {
	s, ok := in.(string)
	if !ok {
		return nil, recordc.Issues{issueAt(path, recordc.CodeInvalidType, map[string]any{"expected": "string"})}
	}
	if t.Strip {
		s = strings.TrimSpace(s)
	}
	if t.ToLower {
		s = strings.ToLower(s)
	}
	if t.ToUpper {
		s = strings.ToUpper(s)
	}
	var iss recordc.Issues
	n := len([]rune(s))
	if t.MinLen != nil && n < *t.MinLen {
		iss = append(iss, issueAt(path, recordc.CodeTooShort, map[string]any{"min": *t.MinLen, "got": n}))
	}
	if t.MaxLen != nil && n > *t.MaxLen {
		iss = append(iss, issueAt(path, recordc.CodeTooLong, map[string]any{"max": *t.MaxLen, "got": n}))
	}
	if t.Pattern != "" {
		re, err := v.regexpFor(t.Pattern)
		if err != nil {
			iss = append(iss, issueAt(path, recordc.CodePattern, map[string]any{"pattern": t.Pattern, "error": err.Error()}))
		} else if !re.MatchString(s) {
			iss = append(iss, issueAt(path, recordc.CodePattern, map[string]any{"pattern": t.Pattern}))
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return s, nil
}

func (v *validator) regexpFor(pattern string) (*regexp.Regexp, error) {
	v.mu.RLock()
	re, ok := v.regexps[pattern]
	v.mu.RUnlock()
	if ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	v.mu.Lock()
	v.regexps[pattern] = re
	v.mu.Unlock()
	return re, nil
}

// numeric reads the numeric shapes produced by the JSON and YAML sources.
func numeric(in any) (f float64, integral bool, ok bool) {
	switch n := in.(type) {
	case int:
		return float64(n), true, true
	case int64:
		return float64(n), true, true
	case float64:
		return n, n == math.Trunc(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return float64(i), true, true
		}
		if f, err := n.Float64(); err == nil {
			return f, f == math.Trunc(f), true
		}
	}
	return 0, false, false
}

func (v *validator) walkNumber(t *schema.Number, in any, path string) (any, recordc.Issues) {
	f, integral, ok := numeric(in)
	if !ok {
		return nil, recordc.Issues{issueAt(path, recordc.CodeInvalidType, map[string]any{"expected": t.Name})}
	}
	if t.Name == "int" && !integral {
		return nil, recordc.Issues{issueAt(path, recordc.CodeInvalidType, map[string]any{"expected": "int", "got": f})}
	}

	var iss recordc.Issues
	if t.Min != nil && (f < t.Min.Value || (t.Min.Exclusive && f == t.Min.Value)) {
		iss = append(iss, issueAt(path, recordc.CodeTooSmall, map[string]any{"min": t.Min.Value, "got": f}))
	}
	if t.Max != nil && (f > t.Max.Value || (t.Max.Exclusive && f == t.Max.Value)) {
		iss = append(iss, issueAt(path, recordc.CodeTooBig, map[string]any{"max": t.Max.Value, "got": f}))
	}
	if t.MultipleOf != nil && *t.MultipleOf != 0 {
		q := f / *t.MultipleOf
		if math.Abs(q-math.Round(q)) > 1e-9 {
			iss = append(iss, issueAt(path, recordc.CodeNotMultiple, map[string]any{"multiple_of": *t.MultipleOf, "got": f}))
		}
	}
	if t.MaxDigits != nil || t.DecimalPlaces != nil {
		whole, frac := digitCounts(f)
		if t.MaxDigits != nil && whole+frac > *t.MaxDigits {
			iss = append(iss, issueAt(path, recordc.CodeInvalidDigits, map[string]any{"max_digits": *t.MaxDigits}))
		}
		if t.DecimalPlaces != nil && frac > *t.DecimalPlaces {
			iss = append(iss, issueAt(path, recordc.CodeInvalidDigits, map[string]any{"decimal_places": *t.DecimalPlaces}))
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	switch t.Name {
	case "int":
		return int64(f), nil
	case "decimal":
		if n, ok := in.(json.Number); ok {
			return n, nil
		}
		return json.Number(strconv.FormatFloat(f, 'f', -1, 64)), nil
	default:
		return f, nil
	}
}

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

func walkLiteral(values []any, in any, path string, code string) (any, recordc.Issues) {
	for _, want := range values {
		if looseEqual(in, want) {
			return want, nil
		}
	}
	return nil, recordc.Issues{issueAt(path, code, map[string]any{"got": in})}
}

// looseEqual compares across the numeric shapes different sources produce.
func looseEqual(a, b any) bool {
	if af, _, aok := numeric(a); aok {
		if bf, _, bok := numeric(b); bok {
			return af == bf
		}
		return false
	}
	return a == b
}

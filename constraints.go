package recordc

import (
	"context"
	"fmt"
	"math"
	"regexp"

	"github.com/reoring/recordc/schema"
)

// Constraint Collector & Applier: reduces the constraints declared on a field
// to the tightest value per kind, writes them onto the node natively where
// the node kind supports them, and falls back to a Check wrapper otherwise so
// every constraint is enforced regardless of node kind.

type reducedConstraints struct {
	lower      *schema.Bound
	upper      *schema.Bound
	minLen     *int
	maxLen     *int
	maxDigits  *int
	decPlaces  *int
	multipleOf []float64
	patterns   []string
	strip      bool
	toLower    bool
	toUpper    bool
}

func reduceConstraints(cons []Constraint, recName, fieldName string) (*reducedConstraints, error) {
	rc := &reducedConstraints{}
	for _, c := range cons {
		switch c.Kind {
		case ConGE, ConGT:
			b := schema.Bound{Value: c.Num, Exclusive: c.Kind == ConGT}
			if math.IsInf(b.Value, 0) {
				continue // an infinite bound is an always-true comparison
			}
			rc.lower = tighterLower(rc.lower, &b)
		case ConLE, ConLT:
			b := schema.Bound{Value: c.Num, Exclusive: c.Kind == ConLT}
			if math.IsInf(b.Value, 0) {
				continue
			}
			rc.upper = tighterUpper(rc.upper, &b)
		case ConMinLen:
			if rc.minLen == nil || c.Int > *rc.minLen {
				rc.minLen = intPtr(c.Int)
			}
		case ConMaxLen:
			if rc.maxLen == nil || c.Int < *rc.maxLen {
				rc.maxLen = intPtr(c.Int)
			}
		case ConMaxDigits:
			if rc.maxDigits == nil || c.Int < *rc.maxDigits {
				rc.maxDigits = intPtr(c.Int)
			}
		case ConDecimalPlaces:
			if rc.decPlaces == nil || c.Int < *rc.decPlaces {
				rc.decPlaces = intPtr(c.Int)
			}
		case ConMultipleOf:
			rc.multipleOf = append(rc.multipleOf, c.Num)
		case ConPattern:
			if _, err := regexp.Compile(c.Str); err != nil {
				return nil, &BuildError{
					Code: CodeConstraintConflict, Record: recName, Field: fieldName,
					Message: "invalid pattern: " + err.Error(), Cause: err,
				}
			}
			rc.patterns = append(rc.patterns, c.Str)
		case ConStrip:
			rc.strip = true
		case ConLower:
			rc.toLower = true
		case ConUpper:
			rc.toUpper = true
		default:
			return nil, &BuildError{
				Code: CodeConstraintConflict, Record: recName, Field: fieldName,
				Message: fmt.Sprintf("unknown constraint kind %d", int(c.Kind)),
			}
		}
	}
	if rc.toLower && rc.toUpper {
		return nil, &BuildError{
			Code: CodeConstraintConflict, Record: recName, Field: fieldName,
			Message: "lower and upper casing are mutually exclusive",
		}
	}
	if rc.lower != nil && rc.upper != nil {
		if rc.lower.Value > rc.upper.Value ||
			(rc.lower.Value == rc.upper.Value && (rc.lower.Exclusive || rc.upper.Exclusive)) {
			return nil, &BuildError{
				Code: CodeConstraintConflict, Record: recName, Field: fieldName,
				Message: fmt.Sprintf("empty numeric range [%v, %v]", rc.lower.Value, rc.upper.Value),
			}
		}
	}
	if rc.minLen != nil && rc.maxLen != nil && *rc.minLen > *rc.maxLen {
		return nil, &BuildError{
			Code: CodeConstraintConflict, Record: recName, Field: fieldName,
			Message: fmt.Sprintf("empty length range [%d, %d]", *rc.minLen, *rc.maxLen),
		}
	}
	return rc, nil
}

// tighterLower keeps the greater bound; at equal values exclusive wins, being
// the tighter of the two.
func tighterLower(a, b *schema.Bound) *schema.Bound {
	if a == nil {
		return b
	}
	if b.Value > a.Value || (b.Value == a.Value && b.Exclusive && !a.Exclusive) {
		return b
	}
	return a
}

// tighterUpper keeps the smaller bound; at equal values exclusive wins.
func tighterUpper(a, b *schema.Bound) *schema.Bound {
	if a == nil {
		return b
	}
	if b.Value < a.Value || (b.Value == a.Value && b.Exclusive && !a.Exclusive) {
		return b
	}
	return a
}

// tighterMin keeps the larger minimum.
func tighterMin(a, b *int) *int {
	if a == nil {
		return b
	}
	if b != nil && *b > *a {
		return b
	}
	return a
}

// tighterMax keeps the smaller maximum.
func tighterMax(a, b *int) *int {
	if a == nil {
		return b
	}
	if b != nil && *b < *a {
		return b
	}
	return a
}

// applyConstraints merges cons onto node. Constraints the node kind supports
// natively land on its attributes; the remainder wrap the node in post-checks.
func applyConstraints(node schema.Node, cons []Constraint, recName, fieldName string) (schema.Node, error) {
	if len(cons) == 0 {
		return node, nil
	}
	if nl, ok := node.(*schema.Nullable); ok {
		// Constraints on an optional field bind the non-none branch; null
		// stays acceptable.
		inner, err := applyConstraints(nl.Inner, cons, recName, fieldName)
		if err != nil {
			return nil, err
		}
		return &schema.Nullable{Inner: inner}, nil
	}
	rc, err := reduceConstraints(cons, recName, fieldName)
	if err != nil {
		return nil, err
	}

	var names []string
	var checks []schema.CheckFn
	addCheck := func(name string, fn schema.CheckFn) {
		names = append(names, name)
		checks = append(checks, fn)
	}

	// Nodes arriving here may already carry attributes (capability-provided
	// schemas, annotated aliases), so merging writes to a copy and every
	// attribute keeps the tighter of the existing and the new value.
	switch t := node.(type) {
	case *schema.Number:
		n := *t
		if rc.lower != nil {
			n.Min = tighterLower(n.Min, rc.lower)
		}
		if rc.upper != nil {
			n.Max = tighterUpper(n.Max, rc.upper)
		}
		n.MaxDigits = tighterMax(n.MaxDigits, rc.maxDigits)
		n.DecimalPlaces = tighterMax(n.DecimalPlaces, rc.decPlaces)
		multiples := rc.multipleOf
		if len(multiples) > 0 && n.MultipleOf == nil {
			m := multiples[0]
			n.MultipleOf = &m
			multiples = multiples[1:]
		}
		applyMultipleChecks(multiples, addCheck)
		applyLenChecks(rc, addCheck)
		applyPatternChecks(rc.patterns, addCheck)
		node = &n
	case *schema.String:
		s := *t
		s.MinLen = tighterMin(s.MinLen, rc.minLen)
		s.MaxLen = tighterMax(s.MaxLen, rc.maxLen)
		s.Strip = s.Strip || rc.strip
		s.ToLower = s.ToLower || rc.toLower
		s.ToUpper = s.ToUpper || rc.toUpper
		patterns := rc.patterns
		if len(patterns) > 0 && s.Pattern == "" {
			s.Pattern = patterns[0]
			patterns = patterns[1:]
		}
		applyPatternChecks(patterns, addCheck)
		applyBoundChecks(rc, addCheck)
		applyMultipleChecks(rc.multipleOf, addCheck)
		node = &s
	case *schema.List:
		l := *t
		l.MinLen = tighterMin(l.MinLen, rc.minLen)
		l.MaxLen = tighterMax(l.MaxLen, rc.maxLen)
		applyBoundChecks(rc, addCheck)
		applyMultipleChecks(rc.multipleOf, addCheck)
		applyPatternChecks(rc.patterns, addCheck)
		node = &l
	case *schema.Set:
		st := *t
		st.MinLen = tighterMin(st.MinLen, rc.minLen)
		st.MaxLen = tighterMax(st.MaxLen, rc.maxLen)
		applyBoundChecks(rc, addCheck)
		applyMultipleChecks(rc.multipleOf, addCheck)
		applyPatternChecks(rc.patterns, addCheck)
		node = &st
	case *schema.Map:
		m := *t
		m.MinLen = tighterMin(m.MinLen, rc.minLen)
		m.MaxLen = tighterMax(m.MaxLen, rc.maxLen)
		applyBoundChecks(rc, addCheck)
		applyMultipleChecks(rc.multipleOf, addCheck)
		applyPatternChecks(rc.patterns, addCheck)
		node = &m
	default:
		// Node kind has no native attributes; everything becomes a post-check.
		applyBoundChecks(rc, addCheck)
		applyLenChecks(rc, addCheck)
		applyMultipleChecks(rc.multipleOf, addCheck)
		applyPatternChecks(rc.patterns, addCheck)
		if rc.maxDigits != nil {
			addCheck("max_digits", digitsCheck(*rc.maxDigits, -1))
		}
		if rc.decPlaces != nil {
			addCheck("decimal_places", digitsCheck(-1, *rc.decPlaces))
		}
	}

	if len(checks) == 0 {
		return node, nil
	}
	return &schema.Check{Inner: node, Names: names, Checks: checks}, nil
}

func applyBoundChecks(rc *reducedConstraints, add func(string, schema.CheckFn)) {
	if rc.lower != nil {
		add("lower_bound", boundCheck(*rc.lower, true))
	}
	if rc.upper != nil {
		add("upper_bound", boundCheck(*rc.upper, false))
	}
}

func applyLenChecks(rc *reducedConstraints, add func(string, schema.CheckFn)) {
	if rc.minLen != nil {
		add("min_length", lengthCheck(*rc.minLen, -1))
	}
	if rc.maxLen != nil {
		add("max_length", lengthCheck(-1, *rc.maxLen))
	}
}

func applyMultipleChecks(ms []float64, add func(string, schema.CheckFn)) {
	for _, m := range ms {
		add("multiple_of", multipleOfCheck(m))
	}
}

func applyPatternChecks(ps []string, add func(string, schema.CheckFn)) {
	for _, p := range ps {
		re := regexp.MustCompile(p) // validated during reduction
		pat := p
		add("pattern", func(ctx context.Context, v any) error {
			s, ok := v.(string)
			if !ok {
				return Issues{{Path: "/", Code: CodeInvalidType, Message: "pattern constraint expects text"}}
			}
			if !re.MatchString(s) {
				return Issues{{Path: "/", Code: CodePattern, Message: "value does not match pattern", Params: map[string]any{"pattern": pat}}}
			}
			return nil
		})
	}
}

func boundCheck(b schema.Bound, isLower bool) schema.CheckFn {
	return func(ctx context.Context, v any) error {
		f, ok := toFloat(v)
		if !ok {
			return Issues{{Path: "/", Code: CodeInvalidType, Message: "bound constraint expects a number"}}
		}
		if isLower {
			if f < b.Value || (b.Exclusive && f == b.Value) {
				return Issues{{Path: "/", Code: CodeTooSmall, Message: "below lower bound", Params: map[string]any{"min": b.Value, "got": f}}}
			}
			return nil
		}
		if f > b.Value || (b.Exclusive && f == b.Value) {
			return Issues{{Path: "/", Code: CodeTooBig, Message: "above upper bound", Params: map[string]any{"max": b.Value, "got": f}}}
		}
		return nil
	}
}

func lengthCheck(min, max int) schema.CheckFn {
	return func(ctx context.Context, v any) error {
		n, ok := lengthOf(v)
		if !ok {
			return Issues{{Path: "/", Code: CodeInvalidType, Message: "length constraint expects text or a collection"}}
		}
		if min >= 0 && n < min {
			return Issues{{Path: "/", Code: CodeTooShort, Message: "too short", Params: map[string]any{"min": min, "got": n}}}
		}
		if max >= 0 && n > max {
			return Issues{{Path: "/", Code: CodeTooLong, Message: "too long", Params: map[string]any{"max": max, "got": n}}}
		}
		return nil
	}
}

func multipleOfCheck(m float64) schema.CheckFn {
	return func(ctx context.Context, v any) error {
		f, ok := toFloat(v)
		if !ok {
			return Issues{{Path: "/", Code: CodeInvalidType, Message: "multiple-of constraint expects a number"}}
		}
		if m == 0 {
			return nil
		}
		q := f / m
		if math.Abs(q-math.Round(q)) > 1e-9 {
			return Issues{{Path: "/", Code: CodeNotMultiple, Message: "not a multiple", Params: map[string]any{"multiple_of": m, "got": f}}}
		}
		return nil
	}
}

func digitsCheck(maxDigits, decPlaces int) schema.CheckFn {
	return func(ctx context.Context, v any) error {
		f, ok := toFloat(v)
		if !ok {
			return Issues{{Path: "/", Code: CodeInvalidType, Message: "digit constraint expects a number"}}
		}
		whole, frac := digitCounts(f)
		if maxDigits >= 0 && whole+frac > maxDigits {
			return Issues{{Path: "/", Code: CodeInvalidDigits, Message: "too many digits", Params: map[string]any{"max_digits": maxDigits}}}
		}
		if decPlaces >= 0 && frac > decPlaces {
			return Issues{{Path: "/", Code: CodeInvalidDigits, Message: "too many decimal places", Params: map[string]any{"decimal_places": decPlaces}}}
		}
		return nil
	}
}

func intPtr(n int) *int { return &n }

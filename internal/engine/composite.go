package engine

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	recordc "github.com/reoring/recordc"
	"github.com/reoring/recordc/schema"
)

func childPath(path string, seg string) string { return path + "/" + seg }

// canonicalKey renders a decoded value into a form stable across map
// iteration order, so equal objects always collide in a uniqueness set.
func canonicalKey(v any) string {
	var b strings.Builder
	writeCanonical(&b, v)
	return b.String()
}

func writeCanonical(b *strings.Builder, v any) {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(b, "%q:", k)
			writeCanonical(b, t[k])
		}
		b.WriteByte('}')
	case []any:
		b.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				b.WriteByte(',')
			}
			writeCanonical(b, e)
		}
		b.WriteByte(']')
	default:
		fmt.Fprintf(b, "%#v", v)
	}
}

func (v *validator) walkSequence(ctx context.Context, item schema.Node, minLen, maxLen *int, unique bool, in any, path string) (any, recordc.Issues) {
	arr, ok := in.([]any)
	if !ok {
		return nil, recordc.Issues{issueAt(path, recordc.CodeInvalidType, map[string]any{"expected": "array"})}
	}
	var iss recordc.Issues
	if minLen != nil && len(arr) < *minLen {
		iss = append(iss, issueAt(path, recordc.CodeTooShort, map[string]any{"min": *minLen, "got": len(arr)}))
	}
	if maxLen != nil && len(arr) > *maxLen {
		iss = append(iss, issueAt(path, recordc.CodeTooLong, map[string]any{"max": *maxLen, "got": len(arr)}))
	}
	out := make([]any, 0, len(arr))
	seen := map[string]bool{}
	for i, e := range arr {
		ev, eiss := v.walk(ctx, item, e, childPath(path, strconv.Itoa(i)))
		if len(eiss) > 0 {
			iss = append(iss, eiss...)
			if recordc.IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		if unique {
			key := canonicalKey(ev)
			if seen[key] {
				iss = append(iss, issueAt(childPath(path, strconv.Itoa(i)), recordc.CodeNotUnique, map[string]any{"got": ev}))
				continue
			}
			seen[key] = true
		}
		out = append(out, ev)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func (v *validator) walkMap(ctx context.Context, t *schema.Map, in any, path string) (any, recordc.Issues) {
	m, ok := in.(map[string]any)
	if !ok {
		return nil, recordc.Issues{issueAt(path, recordc.CodeInvalidType, map[string]any{"expected": "object"})}
	}
	var iss recordc.Issues
	if t.MinLen != nil && len(m) < *t.MinLen {
		iss = append(iss, issueAt(path, recordc.CodeTooShort, map[string]any{"min": *t.MinLen, "got": len(m)}))
	}
	if t.MaxLen != nil && len(m) > *t.MaxLen {
		iss = append(iss, issueAt(path, recordc.CodeTooLong, map[string]any{"max": *t.MaxLen, "got": len(m)}))
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(map[string]any, len(m))
	for _, k := range keys {
		kv, kiss := v.walk(ctx, t.Key, k, childPath(path, k))
		if len(kiss) > 0 {
			iss = append(iss, kiss...)
			if recordc.IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		vv, viss := v.walk(ctx, t.Value, m[k], childPath(path, k))
		if len(viss) > 0 {
			iss = append(iss, viss...)
			if recordc.IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		out[fmt.Sprintf("%v", kv)] = vv
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func (v *validator) walkTuple(ctx context.Context, t *schema.Tuple, in any, path string) (any, recordc.Issues) {
	arr, ok := in.([]any)
	if !ok {
		return nil, recordc.Issues{issueAt(path, recordc.CodeInvalidType, map[string]any{"expected": "array"})}
	}
	if len(arr) < len(t.Items) {
		return nil, recordc.Issues{issueAt(path, recordc.CodeTooShort, map[string]any{"min": len(t.Items), "got": len(arr)})}
	}
	if t.Rest == nil && len(arr) > len(t.Items) {
		return nil, recordc.Issues{issueAt(path, recordc.CodeTooLong, map[string]any{"max": len(t.Items), "got": len(arr)})}
	}
	var iss recordc.Issues
	out := make([]any, 0, len(arr))
	for i, e := range arr {
		var item schema.Node
		if i < len(t.Items) {
			item = t.Items[i]
		} else {
			item = t.Rest
		}
		ev, eiss := v.walk(ctx, item, e, childPath(path, strconv.Itoa(i)))
		if len(eiss) > 0 {
			iss = append(iss, eiss...)
			if recordc.IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		out = append(out, ev)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// walkUnion tries branches left to right; the first match wins. When no
// branch accepts the value, every branch's issues are reported after the
// union failure, tagged with the branch index.
func (v *validator) walkUnion(ctx context.Context, t *schema.Union, in any, path string) (any, recordc.Issues) {
	var collected recordc.Issues
	for i, br := range t.Branches {
		out, iss := v.walk(ctx, br, in, path)
		if len(iss) == 0 {
			return out, nil
		}
		for _, it := range iss {
			params := map[string]any{"branch": i}
			for k, pv := range it.Params {
				params[k] = pv
			}
			it.Params = params
			collected = append(collected, it)
		}
	}
	head := issueAt(path, recordc.CodeUnionNoMatch, map[string]any{"branches": len(t.Branches)})
	return nil, recordc.AppendIssues(recordc.Issues{head}, collected...)
}

func (v *validator) walkTagged(ctx context.Context, t *schema.TaggedUnion, in any, path string) (any, recordc.Issues) {
	m, ok := in.(map[string]any)
	if !ok {
		return nil, recordc.Issues{issueAt(path, recordc.CodeInvalidType, map[string]any{"expected": "object"})}
	}
	wire := t.Discriminator
	if t.Alias != "" {
		wire = t.Alias
	}
	raw, present := m[wire]
	if !present && t.Alias != "" {
		raw, present = m[t.Discriminator]
	}
	if !present {
		return nil, recordc.Issues{issueAt(childPath(path, wire), recordc.CodeDiscriminatorMissing, nil)}
	}
	tag := schema.TagKey(raw)
	variant, ok := t.Mapping[tag]
	if !ok {
		iss := issueAt(childPath(path, wire), recordc.CodeDiscriminatorUnknown, map[string]any{"got": tag})
		iss.Hint = "unknown variant: '" + tag + "'"
		return nil, recordc.Issues{iss}
	}
	return v.walk(ctx, variant, in, path)
}

func (v *validator) walkEnum(ctx context.Context, t *schema.Enum, in any, path string) (any, recordc.Issues) {
	base, iss := v.walk(ctx, t.Base, in, path)
	if len(iss) > 0 {
		return nil, iss
	}
	member, liss := walkLiteral(t.Values, base, path, recordc.CodeInvalidEnum)
	if len(liss) > 0 {
		return nil, liss
	}
	if t.Convert != nil {
		converted, err := t.Convert(member)
		if err != nil {
			ci := issueAt(path, recordc.CodeInvalidEnum, map[string]any{"got": member})
			ci.Cause = err
			return nil, recordc.Issues{ci}
		}
		return converted, nil
	}
	return member, nil
}

func (v *validator) walkRecord(ctx context.Context, t *schema.Record, in any, path string) (any, recordc.Issues) {
	m, ok := in.(map[string]any)
	if !ok {
		return nil, recordc.Issues{issueAt(path, recordc.CodeInvalidType, map[string]any{"expected": "object"})}
	}
	var iss recordc.Issues
	out := make(map[string]any, len(t.Fields))
	consumed := map[string]bool{}

	for _, f := range t.Fields {
		wire := f.Name
		if f.Alias != "" {
			wire = f.Alias
		}
		raw, present := m[wire]
		usedKey := wire
		if !present && f.Alias != "" && t.PopulateByAlias {
			raw, present = m[f.Name]
			usedKey = f.Name
		}
		if !present {
			switch {
			case f.DefaultFn != nil:
				out[f.Name] = f.DefaultFn()
			case f.HasDefault:
				out[f.Name] = f.Default
			case f.Optional:
				// leave absent
			default:
				iss = append(iss, issueAt(childPath(path, wire), recordc.CodeRequired, nil))
				if recordc.IsFailFast(ctx) {
					return nil, iss
				}
			}
			continue
		}
		consumed[usedKey] = true
		fv, fiss := v.walk(ctx, f.Schema, raw, childPath(path, wire))
		if len(fiss) > 0 {
			iss = append(iss, fiss...)
			if recordc.IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		out[f.Name] = fv
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		if !consumed[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch recordc.UnknownPolicy(t.Unknown) {
		case recordc.UnknownStrict:
			iss = append(iss, issueAt(childPath(path, k), recordc.CodeUnknownKey, nil))
			if recordc.IsFailFast(ctx) {
				return nil, iss
			}
		case recordc.UnknownStrip:
			// drop
		case recordc.UnknownPassthrough:
			out[k] = m[k]
		}
	}

	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func (v *validator) walkCheck(ctx context.Context, t *schema.Check, in any, path string) (any, recordc.Issues) {
	out, iss := v.walk(ctx, t.Inner, in, path)
	if len(iss) > 0 {
		return nil, iss
	}
	for i, check := range t.Checks {
		if err := check(ctx, out); err != nil {
			if sub, ok := recordc.AsIssues(err); ok {
				iss = append(iss, rebase(sub, path)...)
			} else {
				ci := issueAt(path, recordc.CodeHookError, map[string]any{"check": t.Names[i]})
				ci.Cause = err
				iss = append(iss, ci)
			}
			if recordc.IsFailFast(ctx) {
				return nil, iss
			}
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// rebase re-addresses issues produced against a local root onto path.
func rebase(iss recordc.Issues, path string) recordc.Issues {
	if path == "" {
		return iss
	}
	out := make(recordc.Issues, len(iss))
	for i, it := range iss {
		rel := it.Path
		if rel == "/" {
			rel = ""
		}
		it.Path = path + rel
		out[i] = it
	}
	return out
}

func (v *validator) walkHooks(ctx context.Context, t *schema.Hooks, in any, path string) (any, recordc.Issues) {
	base := func(ctx context.Context, val any) (any, error) {
		for _, fn := range t.Before {
			next, err := fn(ctx, val)
			if err != nil {
				return nil, err
			}
			val = next
		}
		var out any
		if t.Plain != nil {
			var err error
			out, err = t.Plain(ctx, val)
			if err != nil {
				return nil, err
			}
		} else {
			var iss recordc.Issues
			out, iss = v.walk(ctx, t.Inner, val, path)
			if len(iss) > 0 {
				return nil, iss
			}
		}
		for _, fn := range t.After {
			next, err := fn(ctx, out)
			if err != nil {
				return nil, err
			}
			out = next
		}
		return out, nil
	}

	run := schema.HookFn(base)
	for i := len(t.Wrap) - 1; i >= 0; i-- {
		wrap := t.Wrap[i]
		next := run
		run = func(ctx context.Context, val any) (any, error) {
			return wrap(ctx, val, next)
		}
	}

	out, err := run(ctx, in)
	if err != nil {
		if iss, ok := recordc.AsIssues(err); ok {
			return nil, iss
		}
		hi := issueAt(path, recordc.CodeHookError, nil)
		hi.Cause = err
		hi.Message = err.Error()
		return nil, recordc.Issues{hi}
	}
	return out, nil
}

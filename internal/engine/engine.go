// Package engine is the reference tree-walking implementation of the
// recordc.Engine contract, used by tests to exercise compiled schema trees.
// It favors clarity over speed; production engines may compile trees into
// specialized code instead.
package engine

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	recordc "github.com/reoring/recordc"
	"github.com/reoring/recordc/i18n"
	"github.com/reoring/recordc/schema"
)

// New returns the reference engine.
func New() recordc.Engine { return eng{} }

type eng struct{}

func (eng) Compile(root schema.Node) (recordc.Validator, error) {
	if root == nil {
		return nil, fmt.Errorf("engine: nil schema tree")
	}
	if dangling := schema.DanglingRefs(root); len(dangling) > 0 {
		return nil, fmt.Errorf("engine: schema tree has unresolvable refs %v", dangling)
	}
	return &validator{
		root:    root,
		records: schema.Records(root),
		regexps: map[string]*regexp.Regexp{},
	}, nil
}

type validator struct {
	root    schema.Node
	records map[string]*schema.Record

	mu      sync.RWMutex
	regexps map[string]*regexp.Regexp
}

func (v *validator) Validate(ctx context.Context, in any) (any, error) {
	out, iss := v.walk(ctx, v.root, in, "")
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func issueAt(path, code string, params map[string]any) recordc.Issue {
	return recordc.Issue{Path: pointer(path), Code: code, Message: i18n.T(code, nil), Params: params}
}

func pointer(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

func (v *validator) walk(ctx context.Context, n schema.Node, in any, path string) (any, recordc.Issues) {
	switch t := n.(type) {
	case *schema.Any:
		return in, nil
	case *schema.None:
		if in == nil {
			return nil, nil
		}
		return nil, recordc.Issues{issueAt(path, recordc.CodeInvalidType, map[string]any{"expected": "null"})}
	case *schema.Bool:
		b, ok := in.(bool)
		if !ok {
			return nil, recordc.Issues{issueAt(path, recordc.CodeInvalidType, map[string]any{"expected": "bool"})}
		}
		return b, nil
	case *schema.String:
		return v.walkString(t, in, path)
	case *schema.Number:
		return v.walkNumber(t, in, path)
	case *schema.List:
		return v.walkSequence(ctx, t.Item, t.MinLen, t.MaxLen, false, in, path)
	case *schema.Set:
		return v.walkSequence(ctx, t.Item, t.MinLen, t.MaxLen, true, in, path)
	case *schema.Map:
		return v.walkMap(ctx, t, in, path)
	case *schema.Tuple:
		return v.walkTuple(ctx, t, in, path)
	case *schema.Union:
		return v.walkUnion(ctx, t, in, path)
	case *schema.Nullable:
		if in == nil {
			return nil, nil
		}
		return v.walk(ctx, t.Inner, in, path)
	case *schema.TaggedUnion:
		return v.walkTagged(ctx, t, in, path)
	case *schema.Literal:
		return walkLiteral(t.Values, in, path, recordc.CodeInvalidLiteral)
	case *schema.Enum:
		return v.walkEnum(ctx, t, in, path)
	case *schema.Record:
		return v.walkRecord(ctx, t, in, path)
	case *schema.Ref:
		target, ok := v.records[t.Name]
		if !ok {
			return nil, recordc.Issues{issueAt(path, recordc.CodeRefUnresolved, map[string]any{"ref": t.Name})}
		}
		return v.walk(ctx, target, in, path)
	case *schema.Check:
		return v.walkCheck(ctx, t, in, path)
	case *schema.Hooks:
		return v.walkHooks(ctx, t, in, path)
	}
	return nil, recordc.Issues{issueAt(path, recordc.CodeInvalidType, map[string]any{"expected": fmt.Sprintf("%T", n)})}
}

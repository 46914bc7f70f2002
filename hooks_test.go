package recordc_test

import (
	"context"
	"errors"
	"testing"

	recordc "github.com/reoring/recordc"
	"github.com/reoring/recordc/dsl"
	"github.com/reoring/recordc/internal/engine"
	"github.com/reoring/recordc/schema"
)

func compileAndValidate(t *testing.T, rec *recordc.RecordSpec, in any) (any, error) {
	t.Helper()
	v, err := engine.New().Compile(rec.Schema())
	if err != nil {
		t.Fatalf("engine compile: %v", err)
	}
	return v.Validate(context.Background(), in)
}

func TestHooks_UnknownFieldIsBindingError(t *testing.T) {
	ns := recordc.NewNamespace()
	_, err := dsl.Record("R").
		Field("a", dsl.Int()).
		After("check-b", func(ctx context.Context, v any) (any, error) { return v, nil }, "b").
		BuildIn(ns)
	if !recordc.IsCode(err, recordc.CodeValidatorBinding) {
		t.Fatalf("expected validator_binding, got %v", err)
	}
}

func TestHooks_SkipMissingSuppressesBindingError(t *testing.T) {
	ns := recordc.NewNamespace()
	rec := dsl.Record("R").
		Field("a", dsl.Int()).
		Hook(recordc.ValidatorSpec{
			Name: "check-b", Mode: recordc.HookAfter,
			Fn:          func(ctx context.Context, v any) (any, error) { return v, nil },
			Fields:      []string{"b"},
			SkipMissing: true,
		}).
		MustBuildIn(ns)
	if !rec.Complete() {
		t.Fatalf("record should compile with the hook skipped")
	}
}

func TestHooks_NilFunctionIsBindingError(t *testing.T) {
	ns := recordc.NewNamespace()
	_, err := dsl.Record("R").
		Field("a", dsl.Int()).
		Hook(recordc.ValidatorSpec{Name: "broken", Mode: recordc.HookAfter}).
		BuildIn(ns)
	if !recordc.IsCode(err, recordc.CodeValidatorBinding) {
		t.Fatalf("expected validator_binding, got %v", err)
	}
}

func TestHooks_FieldBeforeAndAfter(t *testing.T) {
	ns := recordc.NewNamespace()
	rec := dsl.Record("R").
		Field("name", dsl.String()).
		Before("trim", func(ctx context.Context, v any) (any, error) {
			s, _ := v.(string)
			return "pre-" + s, nil
		}, "name").
		After("suffix", func(ctx context.Context, v any) (any, error) {
			s, _ := v.(string)
			return s + "-post", nil
		}, "name").
		MustBuildIn(ns)

	out, err := compileAndValidate(t, rec, map[string]any{"name": "x"})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	got := out.(map[string]any)["name"]
	if got != "pre-x-post" {
		t.Fatalf("hook composition wrong: %v", got)
	}
}

func TestHooks_WrapSeesBothSides(t *testing.T) {
	var trace []string
	ns := recordc.NewNamespace()
	rec := dsl.Record("R").
		Field("n", dsl.Int()).
		Wrap("observe", func(ctx context.Context, v any, next schema.HookFn) (any, error) {
			trace = append(trace, "enter")
			out, err := next(ctx, v)
			trace = append(trace, "leave")
			return out, err
		}).
		MustBuildIn(ns)

	if _, err := compileAndValidate(t, rec, map[string]any{"n": 1}); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(trace) != 2 || trace[0] != "enter" || trace[1] != "leave" {
		t.Fatalf("wrap trace = %v", trace)
	}
}

func TestHooks_PlainReplacesBaseCheck(t *testing.T) {
	ns := recordc.NewNamespace()
	rec := dsl.Record("R").
		Field("n", dsl.Int()).
		Plain("constant", func(ctx context.Context, v any) (any, error) {
			return map[string]any{"n": int64(42)}, nil
		}).
		MustBuildIn(ns)

	// The plain hook replaces record validation entirely; even a value the
	// base check would reject passes through it.
	out, err := compileAndValidate(t, rec, "not even an object")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if out.(map[string]any)["n"] != int64(42) {
		t.Fatalf("plain hook output lost: %v", out)
	}
}

func TestHooks_ParentRunsBeforeChild(t *testing.T) {
	var trace []string
	mark := func(tag string) schema.HookFn {
		return func(ctx context.Context, v any) (any, error) {
			trace = append(trace, tag)
			return v, nil
		}
	}

	ns := recordc.NewNamespace()
	parent := dsl.Record("Base").
		Field("id", dsl.Int()).
		Before("base-pre", mark("parent")).
		Spec()
	ns.RegisterRecord(parent)

	child := dsl.Record("Derived").
		Extends(parent).
		Field("name", dsl.String()).
		Before("derived-pre", mark("child")).
		MustBuildIn(ns)

	trace = nil
	if _, err := compileAndValidate(t, child, map[string]any{"id": 1, "name": "x"}); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(trace) != 2 || trace[0] != "parent" || trace[1] != "child" {
		t.Fatalf("inherited hooks must run first, trace = %v", trace)
	}
}

func TestHooks_ErrorBecomesIssue(t *testing.T) {
	ns := recordc.NewNamespace()
	rec := dsl.Record("R").
		Field("n", dsl.Int()).
		After("reject", func(ctx context.Context, v any) (any, error) {
			return nil, errors.New("nope")
		}).
		MustBuildIn(ns)

	_, err := compileAndValidate(t, rec, map[string]any{"n": 1})
	iss, ok := recordc.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected one issue, got %v", err)
	}
	if iss[0].Code != recordc.CodeHookError || iss[0].Cause == nil {
		t.Fatalf("hook failure should carry hook_error with its cause: %+v", iss[0])
	}
}

func TestHooks_IssuesFromHookPassThrough(t *testing.T) {
	ns := recordc.NewNamespace()
	rec := dsl.Record("R").
		Field("n", dsl.Int()).
		After("domain", func(ctx context.Context, v any) (any, error) {
			return nil, recordc.Issues{{Path: "/n", Code: recordc.CodeTooSmall, Message: "too small for the domain"}}
		}).
		MustBuildIn(ns)

	_, err := compileAndValidate(t, rec, map[string]any{"n": 1})
	iss, ok := recordc.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Code != recordc.CodeTooSmall || iss[0].Path != "/n" {
		t.Fatalf("issues from hooks should pass through unchanged, got %v", err)
	}
}

func TestHooks_DuplicateNameWarns(t *testing.T) {
	noop := func(ctx context.Context, v any) (any, error) { return v, nil }
	ns := recordc.NewNamespace()
	rec := dsl.Record("R").
		Field("a", dsl.Int()).
		After("same", noop, "a").
		After("same", noop, "a").
		MustBuildIn(ns)

	warned := false
	for _, w := range rec.Warnings() {
		if w.Code == recordc.WarnDuplicateHookName {
			warned = true
		}
	}
	if !warned {
		t.Fatalf("duplicate hook name should warn, got %v", rec.Warnings())
	}
}

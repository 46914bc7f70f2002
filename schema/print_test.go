package schema_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/reoring/recordc/schema"
)

func TestFingerprint_IgnoresFunctionIdentity(t *testing.T) {
	tree := func() schema.Node {
		return &schema.Check{
			Inner:  &schema.Number{Name: "int"},
			Names:  []string{"positive"},
			Checks: []schema.CheckFn{func(ctx context.Context, v any) error { return nil }},
		}
	}
	if schema.Fingerprint(tree()) != schema.Fingerprint(tree()) {
		t.Fatalf("distinct closures must not change the fingerprint")
	}
}

func TestFingerprint_SeparatesStructure(t *testing.T) {
	min1, min2 := 1, 2
	a := &schema.String{MinLen: &min1}
	b := &schema.String{MinLen: &min2}
	if schema.Fingerprint(a) == schema.Fingerprint(b) {
		t.Fatalf("different bounds must fingerprint differently")
	}

	u1 := &schema.Union{Branches: []schema.Node{&schema.Bool{}, &schema.String{}}}
	u2 := &schema.Union{Branches: []schema.Node{&schema.String{}, &schema.Bool{}}}
	if schema.Fingerprint(u1) == schema.Fingerprint(u2) {
		t.Fatalf("branch order is structural")
	}
}

func TestRecords_CollectsReachable(t *testing.T) {
	leaf := &schema.Record{Name: "Leaf"}
	root := &schema.Record{Name: "Root", Fields: []schema.Field{
		{Name: "l", Schema: &schema.List{Item: leaf}},
		{Name: "self", Schema: &schema.Nullable{Inner: &schema.Ref{Name: "Root"}}},
	}}
	got := schema.Records(root)
	if len(got) != 2 || got["Root"] != root || got["Leaf"] != leaf {
		t.Fatalf("records table = %v", got)
	}
}

func TestDanglingRefs(t *testing.T) {
	root := &schema.Record{Name: "Root", Fields: []schema.Field{
		{Name: "self", Schema: &schema.Ref{Name: "Root"}},
		{Name: "out", Schema: &schema.Ref{Name: "Elsewhere"}},
	}}
	got := schema.DanglingRefs(root)
	if len(got) != 1 || got[0] != "Elsewhere" {
		t.Fatalf("dangling = %v", got)
	}
	if rest := schema.DanglingRefs(&schema.Record{Name: "R"}); len(rest) != 0 {
		t.Fatalf("self-contained tree reported %v", rest)
	}
}

func TestTagKey_CanonicalForms(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"s", "s"},
		{true, "true"},
		{3, "3"},
		{int64(3), "3"},
		{3.0, "3"},
		{json.Number("3"), "3"},
	}
	for _, c := range cases {
		if got := schema.TagKey(c.in); got != c.want {
			t.Fatalf("TagKey(%#v) = %q, want %q", c.in, got, c.want)
		}
	}
}

package recordc_test

import (
	"strings"
	"testing"

	recordc "github.com/reoring/recordc"
	"github.com/reoring/recordc/dsl"
	"github.com/reoring/recordc/schema"
)

func declareVariants(t *testing.T, ns *recordc.Namespace) (*recordc.RecordSpec, *recordc.RecordSpec) {
	t.Helper()
	a := dsl.Record("A").
		Field("kind", dsl.Literal("a")).
		Field("left", dsl.Int()).
		MustBuildIn(ns)
	b := dsl.Record("B").
		Field("kind", dsl.Literal("b")).
		Field("right", dsl.String()).
		MustBuildIn(ns)
	return a, b
}

func TestDiscriminator_TagTable(t *testing.T) {
	ns := recordc.NewNamespace()
	a, b := declareVariants(t, ns)

	rec := dsl.Record("Holder").
		Field("v", dsl.Union(dsl.Of(a), dsl.Of(b))).Discriminator("kind").
		MustBuildIn(ns)

	node := rec.Schema().(*schema.Record)
	f, _ := node.FieldByName("v")
	tu, ok := f.Schema.(*schema.TaggedUnion)
	if !ok {
		t.Fatalf("expected tagged union, got %T", f.Schema)
	}
	if tu.Discriminator != "kind" {
		t.Fatalf("discriminator = %q", tu.Discriminator)
	}
	if len(tu.Mapping) != 2 {
		t.Fatalf("mapping size = %d", len(tu.Mapping))
	}
	if got := strings.Join(tu.Order, ","); got != "a,b" {
		t.Fatalf("registration order = %q", got)
	}
	va, ok := tu.Mapping["a"].(*schema.Record)
	if !ok || va.Name != "A" {
		t.Fatalf("tag a maps to %#v", tu.Mapping["a"])
	}
	if vb, ok := tu.Mapping["b"].(*schema.Record); !ok || vb.Name != "B" {
		t.Fatalf("tag b maps to %#v", tu.Mapping["b"])
	}
}

func TestDiscriminator_MultiValueLiteral(t *testing.T) {
	ns := recordc.NewNamespace()
	a := dsl.Record("A").
		Field("kind", dsl.Literal("a", "alpha")).
		MustBuildIn(ns)
	b := dsl.Record("B").
		Field("kind", dsl.Literal("b")).
		MustBuildIn(ns)
	rec := dsl.Record("Holder").
		Field("v", dsl.Union(dsl.Of(a), dsl.Of(b))).Discriminator("kind").
		MustBuildIn(ns)

	f, _ := rec.Schema().(*schema.Record).FieldByName("v")
	tu := f.Schema.(*schema.TaggedUnion)
	if len(tu.Mapping) != 3 {
		t.Fatalf("every literal value registers a tag, got %d", len(tu.Mapping))
	}
	if tu.Mapping["a"] != tu.Mapping["alpha"] {
		t.Fatalf("both values of one variant should map to the same node")
	}
}

func TestDiscriminator_MissingField(t *testing.T) {
	ns := recordc.NewNamespace()
	a, _ := declareVariants(t, ns)
	noTag := dsl.Record("NoTag").
		Field("x", dsl.Int()).
		MustBuildIn(ns)

	_, err := dsl.Record("Holder").
		Field("v", dsl.Union(dsl.Of(a), dsl.Of(noTag))).Discriminator("kind").
		BuildIn(ns)
	if !recordc.IsCode(err, recordc.CodeDiscriminatorConfig) {
		t.Fatalf("expected discriminator_config, got %v", err)
	}
	be, _ := recordc.AsBuildError(err)
	if be.Variant != "NoTag" {
		t.Fatalf("error should name the offending variant, got %q", be.Variant)
	}
}

func TestDiscriminator_NonLiteralField(t *testing.T) {
	ns := recordc.NewNamespace()
	a, _ := declareVariants(t, ns)
	loose := dsl.Record("Loose").
		Field("kind", dsl.String()).
		MustBuildIn(ns)

	_, err := dsl.Record("Holder").
		Field("v", dsl.Union(dsl.Of(a), dsl.Of(loose))).Discriminator("kind").
		BuildIn(ns)
	if !recordc.IsCode(err, recordc.CodeDiscriminatorConfig) {
		t.Fatalf("expected discriminator_config, got %v", err)
	}
}

func TestDiscriminator_TooFewVariants(t *testing.T) {
	ns := recordc.NewNamespace()
	a, _ := declareVariants(t, ns)

	_, err := dsl.Record("Holder").
		Field("v", dsl.Union(dsl.Of(a))).Discriminator("kind").
		BuildIn(ns)
	if !recordc.IsCode(err, recordc.CodeDiscriminatorConfig) {
		t.Fatalf("a single-variant union cannot be discriminated, got %v", err)
	}
}

func TestDiscriminator_NonUnionField(t *testing.T) {
	ns := recordc.NewNamespace()
	_, err := dsl.Record("Holder").
		Field("v", dsl.Int()).Discriminator("kind").
		BuildIn(ns)
	if !recordc.IsCode(err, recordc.CodeDiscriminatorConfig) {
		t.Fatalf("expected discriminator_config, got %v", err)
	}
}

func TestDiscriminator_DuplicateTagFirstWins(t *testing.T) {
	ns := recordc.NewNamespace()
	a := dsl.Record("First").
		Field("kind", dsl.Literal("x")).
		MustBuildIn(ns)
	b := dsl.Record("Second").
		Field("kind", dsl.Literal("x")).
		MustBuildIn(ns)
	rec := dsl.Record("Holder").
		Field("v", dsl.Union(dsl.Of(a), dsl.Of(b))).Discriminator("kind").
		MustBuildIn(ns)

	f, _ := rec.Schema().(*schema.Record).FieldByName("v")
	tu := f.Schema.(*schema.TaggedUnion)
	if got, ok := tu.Mapping["x"].(*schema.Record); !ok || got.Name != "First" {
		t.Fatalf("first registration should win, got %#v", tu.Mapping["x"])
	}

	warned := false
	for _, w := range rec.Warnings() {
		if w.Code == recordc.WarnDuplicateTag {
			warned = true
		}
	}
	if !warned {
		t.Fatalf("collision should surface as a session warning, got %v", rec.Warnings())
	}
}

func TestDiscriminator_AliasConsistency(t *testing.T) {
	ns := recordc.NewNamespace()
	a := dsl.Record("A").
		Field("kind", dsl.Literal("a")).Alias("k").
		MustBuildIn(ns)
	b := dsl.Record("B").
		Field("kind", dsl.Literal("b")).Alias("k").
		MustBuildIn(ns)
	rec := dsl.Record("Holder").
		Field("v", dsl.Union(dsl.Of(a), dsl.Of(b))).Discriminator("kind").
		MustBuildIn(ns)

	f, _ := rec.Schema().(*schema.Record).FieldByName("v")
	if tu := f.Schema.(*schema.TaggedUnion); tu.Alias != "k" {
		t.Fatalf("consistent variant aliases set the lookup alias, got %q", tu.Alias)
	}

	c := dsl.Record("C").
		Field("kind", dsl.Literal("c")).Alias("tag").
		MustBuildIn(ns)
	_, err := dsl.Record("Mixed").
		Field("v", dsl.Union(dsl.Of(a), dsl.Of(c))).Discriminator("kind").
		BuildIn(ns)
	if !recordc.IsCode(err, recordc.CodeDiscriminatorConfig) {
		t.Fatalf("conflicting aliases must fail the build, got %v", err)
	}
}

func TestDiscriminator_IntegerTagsCanonicalize(t *testing.T) {
	ns := recordc.NewNamespace()
	a := dsl.Record("V1").
		Field("v", dsl.Literal(1)).
		MustBuildIn(ns)
	b := dsl.Record("V2").
		Field("v", dsl.Literal(2)).
		MustBuildIn(ns)
	rec := dsl.Record("Holder").
		Field("msg", dsl.Union(dsl.Of(a), dsl.Of(b))).Discriminator("v").
		MustBuildIn(ns)

	f, _ := rec.Schema().(*schema.Record).FieldByName("msg")
	tu := f.Schema.(*schema.TaggedUnion)
	if _, ok := tu.Mapping["1"]; !ok {
		t.Fatalf("integer tags should key by their canonical text form: %v", tu.Order)
	}
}

func TestDiscriminator_OptionalUnionKeepsNullable(t *testing.T) {
	ns := recordc.NewNamespace()
	a, b := declareVariants(t, ns)
	rec := dsl.Record("Holder").
		Field("v", dsl.Optional(dsl.Union(dsl.Of(a), dsl.Of(b)))).Discriminator("kind").Default(nil).
		MustBuildIn(ns)

	f, _ := rec.Schema().(*schema.Record).FieldByName("v")
	nl, ok := f.Schema.(*schema.Nullable)
	if !ok {
		t.Fatalf("optional wrapper should survive, got %T", f.Schema)
	}
	if _, ok := nl.Inner.(*schema.TaggedUnion); !ok {
		t.Fatalf("discrimination should apply inside the nullable, got %T", nl.Inner)
	}
}

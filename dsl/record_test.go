package dsl_test

import (
	"strings"
	"testing"

	recordc "github.com/reoring/recordc"
	"github.com/reoring/recordc/dsl"
)

func TestBuilder_SpecAccumulates(t *testing.T) {
	spec := dsl.Record("Order").
		Field("id", dsl.Int()).
		Field("note", dsl.String()).Default("").
		UnknownStrip().
		PopulateByAlias().
		Spec()

	if spec.Name != "Order" || len(spec.Fields) != 2 {
		t.Fatalf("spec = %+v", spec)
	}
	if spec.Config.Unknown != recordc.UnknownStrip || !spec.Config.PopulateByAlias {
		t.Fatalf("config = %+v", spec.Config)
	}
	id, _ := spec.FieldByName("id")
	if !id.Required() {
		t.Fatalf("field without default must be required")
	}
	note, _ := spec.FieldByName("note")
	if note.Required() || !note.HasDefault {
		t.Fatalf("defaulted field must not be required: %+v", note)
	}
}

func TestBuilder_DefaultFormsAreExclusive(t *testing.T) {
	ns := recordc.NewNamespace()
	_, err := dsl.Record("R").
		Field("a", dsl.Int()).Default(1).DefaultFn(func() any { return 2 }).
		BuildIn(ns)
	if err == nil || !strings.Contains(err.Error(), "mutually exclusive") {
		t.Fatalf("expected the exclusivity error, got %v", err)
	}
}

func TestBuilder_ExtendsKeepsFieldPositions(t *testing.T) {
	parent := dsl.Record("Base").
		Field("id", dsl.Int()).
		Field("name", dsl.String()).
		Spec()

	child := dsl.Record("Child").
		Extends(parent).
		Field("name", dsl.Int()).
		Field("extra", dsl.Bool()).
		Spec()

	if len(child.Fields) != 3 {
		t.Fatalf("fields = %d", len(child.Fields))
	}
	if child.Fields[1].Name != "name" {
		t.Fatalf("redeclared field must keep its inherited position, got %v", child.Fields[1].Name)
	}
	if child.Fields[1].Type.Kind != recordc.TypePrimitive || child.Fields[1].Type.Prim != recordc.PrimInt {
		t.Fatalf("redeclaration should replace the type: %+v", child.Fields[1].Type)
	}
	if child.Parent != parent {
		t.Fatalf("parent link missing")
	}
	// The parent declaration is untouched.
	if parent.Fields[1].Type.Prim != recordc.PrimString {
		t.Fatalf("extending must copy, not share, parent fields")
	}
}

func TestBuilder_ExtendsAfterFieldsFails(t *testing.T) {
	parent := dsl.Record("Base").Field("id", dsl.Int()).Spec()
	ns := recordc.NewNamespace()
	_, err := dsl.Record("Child").
		Field("x", dsl.Int()).
		Extends(parent).
		BuildIn(ns)
	if err == nil || !strings.Contains(err.Error(), "Extends") {
		t.Fatalf("expected the ordering error, got %v", err)
	}
}

func TestBuilder_RedeclarationResetsOptions(t *testing.T) {
	spec := dsl.Record("R").
		Field("a", dsl.Int()).Default(1).MinLen(3).Alias("aa").Exclude().Discriminator("kind").
		Field("a", dsl.String()).
		Spec()

	a, _ := spec.FieldByName("a")
	if a.HasDefault || len(a.Constraints) != 0 {
		t.Fatalf("redeclaration should reset per-field options: %+v", a)
	}
	if a.Alias != "" || a.Exclude || a.Discriminator != "" {
		t.Fatalf("redeclaration should drop inherited wiring options: %+v", a)
	}
	if len(spec.Fields) != 1 {
		t.Fatalf("redeclaration must not duplicate the field")
	}
}

func TestBuilder_OptionalIsUnionWithNone(t *testing.T) {
	ty := dsl.Optional(dsl.String())
	if ty.Kind != recordc.TypeUnion || len(ty.Args) != 2 {
		t.Fatalf("optional should flatten to a union: %+v", ty)
	}
	if ty.Args[1].Kind != recordc.TypeNone {
		t.Fatalf("second branch should be none: %+v", ty.Args[1])
	}
}

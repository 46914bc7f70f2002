package dsl

import (
	"fmt"

	recordc "github.com/reoring/recordc"
	"github.com/reoring/recordc/schema"
)

// RecordBuilder accumulates one record declaration. Field order is preserved
// and significant.
type RecordBuilder struct {
	spec *recordc.RecordSpec
	err  error
}

// FieldStep scopes chained options to the most recently declared field.
type FieldStep struct {
	b *RecordBuilder
	f *recordc.FieldSpec
}

// Record starts a new record declaration with safe defaults (UnknownStrict).
func Record(name string) *RecordBuilder {
	return &RecordBuilder{
		spec: &recordc.RecordSpec{
			Name:   name,
			Config: recordc.Config{Unknown: recordc.UnknownStrict},
		},
	}
}

func (b *RecordBuilder) fail(format string, args ...any) *RecordBuilder {
	if b.err == nil {
		b.err = fmt.Errorf("dsl: record %s: %s", b.spec.Name, fmt.Sprintf(format, args...))
	}
	return b
}

// TypeParams marks the record as a generic template over the named
// parameters.
func (b *RecordBuilder) TypeParams(names ...string) *RecordBuilder {
	b.spec.TypeParams = append(b.spec.TypeParams, names...)
	return b
}

// Extends inherits the parent's fields and configuration. A redeclared field
// replaces the inherited one in place, keeping its position. Parent hooks run
// before hooks this record declares.
func (b *RecordBuilder) Extends(parent *recordc.RecordSpec) *RecordBuilder {
	if parent == nil {
		return b.fail("Extends(nil)")
	}
	if len(b.spec.Fields) > 0 {
		return b.fail("Extends must come before field declarations")
	}
	for _, pf := range parent.Fields {
		cp := *pf
		b.spec.Fields = append(b.spec.Fields, &cp)
	}
	b.spec.Config = parent.Config
	b.spec.Parent = parent
	return b
}

// Field declares a field with its type annotation and returns a step for
// per-field options.
func (b *RecordBuilder) Field(name string, t *recordc.Type) *FieldStep {
	for _, f := range b.spec.Fields {
		if f.Name == name {
			// Redeclaration (typically after Extends) replaces in place.
			f.Type = t
			f.Default, f.HasDefault, f.DefaultFn = nil, false, nil
			f.Constraints = nil
			f.Alias, f.Exclude, f.Discriminator = "", false, ""
			return &FieldStep{b: b, f: f}
		}
	}
	f := &recordc.FieldSpec{Name: name, Type: t}
	b.spec.Fields = append(b.spec.Fields, f)
	return &FieldStep{b: b, f: f}
}

// UnknownStrict rejects unknown keys.
func (b *RecordBuilder) UnknownStrict() *RecordBuilder {
	b.spec.Config.Unknown = recordc.UnknownStrict
	return b
}

// UnknownStrip drops unknown keys.
func (b *RecordBuilder) UnknownStrip() *RecordBuilder {
	b.spec.Config.Unknown = recordc.UnknownStrip
	return b
}

// UnknownPassthrough preserves unknown keys in the output.
func (b *RecordBuilder) UnknownPassthrough() *RecordBuilder {
	b.spec.Config.Unknown = recordc.UnknownPassthrough
	return b
}

// PopulateByAlias lets aliased fields also be populated by their declared
// name.
func (b *RecordBuilder) PopulateByAlias() *RecordBuilder {
	b.spec.Config.PopulateByAlias = true
	return b
}

// Before registers a pre-validation hook. With no fields the hook applies to
// the whole record.
func (b *RecordBuilder) Before(name string, fn schema.HookFn, fields ...string) *RecordBuilder {
	return b.Hook(recordc.ValidatorSpec{Name: name, Mode: recordc.HookBefore, Fn: fn, Fields: fields})
}

// After registers a post-validation hook.
func (b *RecordBuilder) After(name string, fn schema.HookFn, fields ...string) *RecordBuilder {
	return b.Hook(recordc.ValidatorSpec{Name: name, Mode: recordc.HookAfter, Fn: fn, Fields: fields})
}

// Wrap registers a hook receiving the rest of the pipeline as a callable.
func (b *RecordBuilder) Wrap(name string, fn schema.WrapFn, fields ...string) *RecordBuilder {
	return b.Hook(recordc.ValidatorSpec{Name: name, Mode: recordc.HookWrap, WrapFn: fn, Fields: fields})
}

// Plain registers a hook that fully replaces the base check.
func (b *RecordBuilder) Plain(name string, fn schema.HookFn, fields ...string) *RecordBuilder {
	return b.Hook(recordc.ValidatorSpec{Name: name, Mode: recordc.HookPlain, Fn: fn, Fields: fields})
}

// Hook registers a fully specified validator hook, for flags the shorthand
// methods do not cover.
func (b *RecordBuilder) Hook(h recordc.ValidatorSpec) *RecordBuilder {
	hc := h
	b.spec.Hooks = append(b.spec.Hooks, &hc)
	return b
}

// Spec returns the accumulated declaration without registering or compiling.
func (b *RecordBuilder) Spec() *recordc.RecordSpec { return b.spec }

// DeclareIn registers the record in the namespace without compiling it, for
// mutually recursive declarations that compile together later.
func (b *RecordBuilder) DeclareIn(ns *recordc.Namespace) *recordc.RecordSpec {
	ns.RegisterRecord(b.spec)
	return b.spec
}

// BuildIn registers the record and runs the compilation pipeline. An
// unresolved forward reference is suppressed here: the record is returned
// incomplete for a later recordc.Rebuild. Every other build failure is
// surfaced.
func (b *RecordBuilder) BuildIn(ns *recordc.Namespace) (*recordc.RecordSpec, error) {
	if b.err != nil {
		return nil, b.err
	}
	ns.RegisterRecord(b.spec)
	if _, err := recordc.Compile(ns, b.spec); err != nil {
		if recordc.IsCode(err, recordc.CodeUnresolvedReference) {
			return b.spec, nil
		}
		return nil, err
	}
	return b.spec, nil
}

// MustBuildIn is like BuildIn but panics on error.
func (b *RecordBuilder) MustBuildIn(ns *recordc.Namespace) *recordc.RecordSpec {
	spec, err := b.BuildIn(ns)
	if err != nil {
		panic(err)
	}
	return spec
}

// ---- per-field options ----

// Default sets a default value; the field is no longer required.
func (s *FieldStep) Default(v any) *FieldStep {
	if s.f.DefaultFn != nil {
		s.b.fail("field %s: default value and default factory are mutually exclusive", s.f.Name)
		return s
	}
	s.f.Default = v
	s.f.HasDefault = true
	return s
}

// DefaultFn sets a default factory; the field is no longer required.
func (s *FieldStep) DefaultFn(fn func() any) *FieldStep {
	if s.f.HasDefault {
		s.b.fail("field %s: default value and default factory are mutually exclusive", s.f.Name)
		return s
	}
	s.f.DefaultFn = fn
	return s
}

// Alias sets the external wire name.
func (s *FieldStep) Alias(a string) *FieldStep {
	s.f.Alias = a
	return s
}

// Exclude omits the field from re-encoding.
func (s *FieldStep) Exclude() *FieldStep {
	s.f.Exclude = true
	return s
}

// Discriminator names the tag field for a union-typed field.
func (s *FieldStep) Discriminator(key string) *FieldStep {
	s.f.Discriminator = key
	return s
}

// Constraint appends a constraint occurrence.
func (s *FieldStep) Constraint(c recordc.Constraint) *FieldStep {
	s.f.Constraints = append(s.f.Constraints, c)
	return s
}

func (s *FieldStep) Min(v float64) *FieldStep          { return s.Constraint(Min(v)) }
func (s *FieldStep) Max(v float64) *FieldStep          { return s.Constraint(Max(v)) }
func (s *FieldStep) ExclusiveMin(v float64) *FieldStep { return s.Constraint(ExclusiveMin(v)) }
func (s *FieldStep) ExclusiveMax(v float64) *FieldStep { return s.Constraint(ExclusiveMax(v)) }
func (s *FieldStep) MultipleOf(v float64) *FieldStep   { return s.Constraint(MultipleOf(v)) }
func (s *FieldStep) MinLen(n int) *FieldStep           { return s.Constraint(MinLen(n)) }
func (s *FieldStep) MaxLen(n int) *FieldStep           { return s.Constraint(MaxLen(n)) }
func (s *FieldStep) Pattern(expr string) *FieldStep    { return s.Constraint(Pattern(expr)) }
func (s *FieldStep) Strip() *FieldStep                 { return s.Constraint(Strip()) }
func (s *FieldStep) Lower() *FieldStep                 { return s.Constraint(Lower()) }
func (s *FieldStep) Upper() *FieldStep                 { return s.Constraint(Upper()) }
func (s *FieldStep) MaxDigits(n int) *FieldStep        { return s.Constraint(MaxDigits(n)) }
func (s *FieldStep) DecimalPlaces(n int) *FieldStep    { return s.Constraint(DecimalPlaces(n)) }

// ---- builder passthroughs, so chains read naturally ----

func (s *FieldStep) Field(name string, t *recordc.Type) *FieldStep { return s.b.Field(name, t) }

func (s *FieldStep) Extends(parent *recordc.RecordSpec) *RecordBuilder { return s.b.Extends(parent) }

func (s *FieldStep) Before(name string, fn schema.HookFn, fields ...string) *RecordBuilder {
	return s.b.Before(name, fn, fields...)
}

func (s *FieldStep) After(name string, fn schema.HookFn, fields ...string) *RecordBuilder {
	return s.b.After(name, fn, fields...)
}

func (s *FieldStep) Wrap(name string, fn schema.WrapFn, fields ...string) *RecordBuilder {
	return s.b.Wrap(name, fn, fields...)
}

func (s *FieldStep) Plain(name string, fn schema.HookFn, fields ...string) *RecordBuilder {
	return s.b.Plain(name, fn, fields...)
}

func (s *FieldStep) Hook(h recordc.ValidatorSpec) *RecordBuilder { return s.b.Hook(h) }

func (s *FieldStep) UnknownStrict() *RecordBuilder      { return s.b.UnknownStrict() }
func (s *FieldStep) UnknownStrip() *RecordBuilder       { return s.b.UnknownStrip() }
func (s *FieldStep) UnknownPassthrough() *RecordBuilder { return s.b.UnknownPassthrough() }
func (s *FieldStep) PopulateByAlias() *RecordBuilder    { return s.b.PopulateByAlias() }

func (s *FieldStep) Spec() *recordc.RecordSpec { return s.b.Spec() }

func (s *FieldStep) DeclareIn(ns *recordc.Namespace) *recordc.RecordSpec { return s.b.DeclareIn(ns) }

func (s *FieldStep) BuildIn(ns *recordc.Namespace) (*recordc.RecordSpec, error) {
	return s.b.BuildIn(ns)
}

func (s *FieldStep) MustBuildIn(ns *recordc.Namespace) *recordc.RecordSpec {
	return s.b.MustBuildIn(ns)
}

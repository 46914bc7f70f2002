package recordc

import "github.com/reoring/recordc/schema"

// ConstraintKind identifies one narrowing rule attached to a field.
type ConstraintKind int

const (
	ConGE ConstraintKind = iota // lower bound, inclusive
	ConGT                       // lower bound, exclusive
	ConLE                       // upper bound, inclusive
	ConLT                       // upper bound, exclusive
	ConMultipleOf
	ConMinLen
	ConMaxLen
	ConPattern
	ConStrip
	ConLower
	ConUpper
	ConMaxDigits
	ConDecimalPlaces
)

// Constraint is one constraint occurrence. Num carries numeric bound/multiple
// parameters, Int carries length/digit parameters, Str carries patterns.
type Constraint struct {
	Kind ConstraintKind
	Num  float64
	Int  int
	Str  string
}

// HookMode selects how a validator hook composes with the base schema check.
type HookMode int

const (
	HookBefore HookMode = iota // runs on the raw input before the base check
	HookAfter                  // runs on the successfully validated value
	HookWrap                   // receives the rest of the pipeline as a callable
	HookPlain                  // fully replaces the base check
)

// ValidatorSpec is one declared validation hook. Fields lists the field names
// the hook applies to; an empty list targets the whole record. Fn serves the
// Before/After/Plain modes, WrapFn serves Wrap.
type ValidatorSpec struct {
	Name   string
	Mode   HookMode
	Fields []string
	Fn     schema.HookFn
	WrapFn schema.WrapFn
	// SkipMissing suppresses the build-time error for a hook that targets a
	// field the record does not declare.
	SkipMissing bool
	// AllowDuplicateName opts this hook out of the duplicate-name warning.
	AllowDuplicateName bool
}

// FieldSpec is one declared record field. A field carrying neither a default
// value nor a default factory is required; the two default forms are mutually
// exclusive.
type FieldSpec struct {
	Name        string
	Type        *Type
	Alias       string
	Default     any
	HasDefault  bool
	DefaultFn   func() any
	Constraints []Constraint
	Exclude     bool
	// Discriminator names the tag field when this field's type is a union of
	// record variants to be dispatched by tag.
	Discriminator string
}

// Required reports whether the field must be present in the input.
func (f *FieldSpec) Required() bool { return !f.HasDefault && f.DefaultFn == nil }

// RecordSpec is one declared record type. Field order is preserved and
// significant. A spec is created once at declaration time and mutated only by
// the build pipeline; it becomes complete when every field schema resolved.
type RecordSpec struct {
	Name       string
	Fields     []*FieldSpec
	Config     Config
	TypeParams []string    // non-empty marks a generic template
	Parent     *RecordSpec // inheritance: parent hooks run before this spec's

	Hooks []*ValidatorSpec

	// build state
	complete bool
	compiled schema.Node
	missing  []string  // unresolved names from the last lenient pass
	warnings []Warning // session warnings from the last pass

	specializations map[string]*RecordSpec // generic template: args key -> spec
	subst           map[string]*Type       // specialization: type param -> concrete arg
	refName         string                 // stable reference name; defaults to Name
}

// RefName returns the stable reference name used for recursive refs.
func (r *RecordSpec) RefName() string {
	if r.refName != "" {
		return r.refName
	}
	return r.Name
}

// Complete reports whether the last build pass fully resolved the record.
func (r *RecordSpec) Complete() bool { return r.complete }

// Schema returns the compiled node from the last successful build, or nil for
// an incomplete record.
func (r *RecordSpec) Schema() schema.Node {
	if !r.complete {
		return nil
	}
	return r.compiled
}

// Missing lists the unresolved type names that left the record incomplete.
func (r *RecordSpec) Missing() []string { return r.missing }

// Warnings returns the non-fatal findings recorded by the last build pass.
func (r *RecordSpec) Warnings() []Warning { return r.warnings }

// FieldByName returns the declared field with the given name.
func (r *RecordSpec) FieldByName(name string) (*FieldSpec, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Generic reports whether the record is an unspecialized template.
func (r *RecordSpec) Generic() bool { return len(r.TypeParams) > 0 }

// invalidate clears build state ahead of a fresh pass.
func (r *RecordSpec) invalidate() {
	r.complete = false
	r.compiled = nil
	r.missing = nil
	r.warnings = nil
}

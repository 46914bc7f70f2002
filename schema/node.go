// Package schema defines the compiled intermediate representation produced by
// the recordc compiler and consumed by execution engines. Nodes are immutable
// once a compilation finishes and may be shared read-only across any number of
// validators.
package schema

import "context"

// Kind identifies a node type.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindFloat
	KindDecimal
	KindAny
	KindNone
	KindList
	KindSet
	KindMap
	KindTuple
	KindUnion
	KindNullable
	KindTaggedUnion
	KindLiteral
	KindEnum
	KindRecord
	KindRef
	KindOpaque
	KindCheck
	KindHooks
)

// Node is the root IR interface.
type Node interface {
	Kind() Kind
}

// Bound is a numeric bound with inclusivity.
type Bound struct {
	Value     float64
	Exclusive bool
}

// String is a text leaf carrying natively supported constraints.
type String struct {
	MinLen  *int
	MaxLen  *int
	Pattern string // uncompiled source; engines compile once at their own pace
	Strip   bool
	ToLower bool
	ToUpper bool
}

func (*String) Kind() Kind { return KindString }

// Bool is a boolean leaf.
type Bool struct{}

func (*Bool) Kind() Kind { return KindBool }

// Number is a numeric leaf. Name is one of "int", "float", "decimal".
type Number struct {
	Name          string
	Min           *Bound
	Max           *Bound
	MultipleOf    *float64
	MaxDigits     *int
	DecimalPlaces *int
}

func (n *Number) Kind() Kind {
	switch n.Name {
	case "float":
		return KindFloat
	case "decimal":
		return KindDecimal
	default:
		return KindInt
	}
}

// Any accepts every input unchanged.
type Any struct{}

func (*Any) Kind() Kind { return KindAny }

// None accepts only the null/none value.
type None struct{}

func (*None) Kind() Kind { return KindNone }

// List is an ordered homogeneous sequence.
type List struct {
	Item   Node
	MinLen *int
	MaxLen *int
}

func (*List) Kind() Kind { return KindList }

// Set is an unordered collection with unique items.
type Set struct {
	Item   Node
	MinLen *int
	MaxLen *int
}

func (*Set) Kind() Kind { return KindSet }

// Map is a homogeneous key/value mapping.
type Map struct {
	Key    Node
	Value  Node
	MinLen *int
	MaxLen *int
}

func (*Map) Kind() Kind { return KindMap }

// Tuple is a fixed-arity sequence; when Rest is non-nil the tuple is
// variadic and Rest validates every trailing element.
type Tuple struct {
	Items []Node
	Rest  Node
}

func (*Tuple) Kind() Kind { return KindTuple }

// Union lists branch schemas in declaration order; engines try branches
// left to right.
type Union struct {
	Branches []Node
}

func (*Union) Kind() Kind { return KindUnion }

// Nullable wraps a single branch that also accepts none. A 2-way union whose
// extra branch is none degrades to this form.
type Nullable struct {
	Inner Node
}

func (*Nullable) Kind() Kind { return KindNullable }

// TaggedUnion dispatches on a literal discriminator field instead of trying
// every branch.
type TaggedUnion struct {
	Discriminator string
	Alias         string // wire alias of the discriminator, when consistent across variants
	Mapping       map[string]Node
	Order         []string // tag registration order, for deterministic iteration
}

func (*TaggedUnion) Kind() Kind { return KindTaggedUnion }

// Literal matches the input against a fixed set of permitted values by
// equality, not by type.
type Literal struct {
	Values []any
}

func (*Literal) Kind() Kind { return KindLiteral }

// Enum chains a base-representation check, a member-value check, and a
// conversion back to the enumerated type.
type Enum struct {
	Name    string
	Base    Node
	Values  []any
	Convert func(any) (any, error) // nil means identity
}

func (*Enum) Kind() Kind { return KindEnum }

// Field is one compiled record member. HasDefault distinguishes an explicit
// nil default from no default at all.
type Field struct {
	Name       string
	Alias      string
	Schema     Node
	Optional   bool
	Default    any
	HasDefault bool
	DefaultFn  func() any
	Exclude    bool // excluded from re-encoding
}

// Record is a compiled record node. Fields preserve declaration order.
type Record struct {
	Name            string // stable reference name, also the Ref target
	Fields          []Field
	Unknown         int // mirrors recordc.UnknownPolicy; kept as int to decouple layers
	PopulateByAlias bool
}

func (*Record) Kind() Kind { return KindRecord }

// FieldByName returns the field with the given name, if present.
func (r *Record) FieldByName(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Ref is a named back-edge to a record currently being compiled (or already
// compiled elsewhere in the tree). Engines resolve it against the enclosing
// tree's record names.
type Ref struct {
	Name string
}

func (*Ref) Kind() Kind { return KindRef }

// Opaque is a pre-registered leaf kind (email, url, ...) the compiler passes
// through without interpretation.
type Opaque struct {
	Format string
}

func (*Opaque) Kind() Kind { return KindOpaque }

// CheckFn re-validates a value after the inner node succeeded. A non-nil
// error rejects the value.
type CheckFn func(ctx context.Context, v any) error

// Check wraps a node with post-checks for constraints the node kind cannot
// carry natively. Names parallel Checks for diagnostics.
type Check struct {
	Inner  Node
	Names  []string
	Checks []CheckFn
}

func (*Check) Kind() Kind { return KindCheck }

// HookFn transforms or validates a value.
type HookFn func(ctx context.Context, v any) (any, error)

// WrapFn receives the rest of the pipeline as next and may skip, repeat, or
// post-process it.
type WrapFn func(ctx context.Context, v any, next HookFn) (any, error)

// Hooks wraps a node with user validation hooks in bound execution order:
// Before run on raw input, then the inner node (or Plain, which replaces it),
// then After on the validated value. Wrap functions nest around all of that,
// outermost first.
type Hooks struct {
	Inner  Node
	Before []HookFn
	After  []HookFn
	Wrap   []WrapFn
	Plain  HookFn
}

func (*Hooks) Kind() Kind { return KindHooks }

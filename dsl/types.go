package dsl

import (
	recordc "github.com/reoring/recordc"
)

// ---- type annotation constructors ----

// String declares a text type.
func String() *recordc.Type {
	return &recordc.Type{Kind: recordc.TypePrimitive, Prim: recordc.PrimString}
}

// Bool declares a boolean type.
func Bool() *recordc.Type {
	return &recordc.Type{Kind: recordc.TypePrimitive, Prim: recordc.PrimBool}
}

// Int declares an integer type.
func Int() *recordc.Type {
	return &recordc.Type{Kind: recordc.TypePrimitive, Prim: recordc.PrimInt}
}

// Float declares a floating-point type.
func Float() *recordc.Type {
	return &recordc.Type{Kind: recordc.TypePrimitive, Prim: recordc.PrimFloat}
}

// Decimal declares an arbitrary-precision decimal type.
func Decimal() *recordc.Type {
	return &recordc.Type{Kind: recordc.TypePrimitive, Prim: recordc.PrimDecimal}
}

// Any declares the open type accepting every input.
func Any() *recordc.Type { return &recordc.Type{Kind: recordc.TypeAny} }

// None declares the type accepting only the null value.
func None() *recordc.Type { return &recordc.Type{Kind: recordc.TypeNone} }

// List declares an ordered sequence. Call with no item for a bare container.
func List(item ...*recordc.Type) *recordc.Type {
	return container(recordc.ContList, item)
}

// Set declares an unordered collection with unique items.
func Set(item ...*recordc.Type) *recordc.Type {
	return container(recordc.ContSet, item)
}

// Map declares a key/value mapping. Call with no arguments for a bare
// container, or with key and value types.
func Map(kv ...*recordc.Type) *recordc.Type {
	return container(recordc.ContMap, kv)
}

// Tuple declares a fixed-arity sequence.
func Tuple(items ...*recordc.Type) *recordc.Type {
	return &recordc.Type{Kind: recordc.TypeContainer, Cont: recordc.ContTuple, Args: items}
}

// TupleVariadic declares a tuple whose trailing elements all match rest.
func TupleVariadic(rest *recordc.Type, items ...*recordc.Type) *recordc.Type {
	return &recordc.Type{Kind: recordc.TypeContainer, Cont: recordc.ContTuple, Args: items, Rest: rest}
}

func container(name string, args []*recordc.Type) *recordc.Type {
	return &recordc.Type{Kind: recordc.TypeContainer, Cont: name, Args: args}
}

// Optional flattens to a union with an explicit none branch; downstream union
// handling stays uniform and a single-branch optional compiles to a nullable
// wrapper.
func Optional(t *recordc.Type) *recordc.Type {
	return Union(t, None())
}

// Union declares a union over branches; declaration order is the engines'
// left-to-right match order.
func Union(branches ...*recordc.Type) *recordc.Type {
	return &recordc.Type{Kind: recordc.TypeUnion, Args: branches}
}

// Literal declares a fixed set of permitted values matched by equality.
func Literal(values ...any) *recordc.Type {
	return &recordc.Type{Kind: recordc.TypeLiteral, Values: values}
}

// Enum declares an enumerated type; the base representation is inferred from
// the member values.
func Enum(name string, values ...any) *recordc.Type {
	return &recordc.Type{Kind: recordc.TypeEnum, Name: name, Values: values}
}

// EnumWithBase declares an enumerated type with an explicit base
// representation and an optional conversion back to the enumerated type.
func EnumWithBase(name string, base *recordc.Type, convert func(any) (any, error), values ...any) *recordc.Type {
	return &recordc.Type{Kind: recordc.TypeEnum, Name: name, Base: base, Convert: convert, Values: values}
}

// Ref declares a deferred reference resolved against the namespace at
// compile time. A reference to a record declared later leaves the enclosing
// record incomplete until a rebuild.
func Ref(name string) *recordc.Type {
	return &recordc.Type{Kind: recordc.TypeDeferred, Name: name}
}

// Var declares a generic type parameter, substituted at specialization time.
// An unsubstituted parameter collapses to Any.
func Var(name string) *recordc.Type {
	return &recordc.Type{Kind: recordc.TypeVar, Name: name}
}

// Opaque declares a pre-registered leaf kind (email, url, ...) the compiler
// passes through without interpretation.
func Opaque(format string) *recordc.Type {
	return &recordc.Type{Kind: recordc.TypeOpaque, Format: format}
}

// Custom declares a value probed for the SchemaProvider / SchemaCustomizer
// capabilities.
func Custom(v any) *recordc.Type {
	return &recordc.Type{Kind: recordc.TypeCustom, Value: v}
}

// Annotated attaches constraints to a type expression; they merge ahead of
// field-level constraints.
func Annotated(t *recordc.Type, cons ...recordc.Constraint) *recordc.Type {
	return &recordc.Type{Kind: recordc.TypeAnnotated, Elem: t, Cons: cons}
}

// Of declares a nested record by handle.
func Of(rec *recordc.RecordSpec) *recordc.Type {
	return &recordc.Type{Kind: recordc.TypeRecord, Rec: rec}
}

// Specialize declares a concrete use of a generic record template. Identical
// argument tuples share one compiled node.
func Specialize(template *recordc.RecordSpec, args ...*recordc.Type) *recordc.Type {
	return &recordc.Type{Kind: recordc.TypeGeneric, Rec: template, Args: args}
}

// ---- constraint constructors ----

// Min is an inclusive lower bound.
func Min(v float64) recordc.Constraint {
	return recordc.Constraint{Kind: recordc.ConGE, Num: v}
}

// Max is an inclusive upper bound.
func Max(v float64) recordc.Constraint {
	return recordc.Constraint{Kind: recordc.ConLE, Num: v}
}

// ExclusiveMin is an exclusive lower bound.
func ExclusiveMin(v float64) recordc.Constraint {
	return recordc.Constraint{Kind: recordc.ConGT, Num: v}
}

// ExclusiveMax is an exclusive upper bound.
func ExclusiveMax(v float64) recordc.Constraint {
	return recordc.Constraint{Kind: recordc.ConLT, Num: v}
}

// MultipleOf requires the value to be a multiple of v.
func MultipleOf(v float64) recordc.Constraint {
	return recordc.Constraint{Kind: recordc.ConMultipleOf, Num: v}
}

// MinLen is a minimum length for text or collections.
func MinLen(n int) recordc.Constraint {
	return recordc.Constraint{Kind: recordc.ConMinLen, Int: n}
}

// MaxLen is a maximum length for text or collections.
func MaxLen(n int) recordc.Constraint {
	return recordc.Constraint{Kind: recordc.ConMaxLen, Int: n}
}

// Pattern requires text to match the regular expression.
func Pattern(expr string) recordc.Constraint {
	return recordc.Constraint{Kind: recordc.ConPattern, Str: expr}
}

// Strip trims surrounding whitespace before further checks.
func Strip() recordc.Constraint { return recordc.Constraint{Kind: recordc.ConStrip} }

// Lower folds text to lower case before further checks.
func Lower() recordc.Constraint { return recordc.Constraint{Kind: recordc.ConLower} }

// Upper folds text to upper case before further checks.
func Upper() recordc.Constraint { return recordc.Constraint{Kind: recordc.ConUpper} }

// MaxDigits caps the total number of digits of a number.
func MaxDigits(n int) recordc.Constraint {
	return recordc.Constraint{Kind: recordc.ConMaxDigits, Int: n}
}

// DecimalPlaces caps the fractional digits of a number.
func DecimalPlaces(n int) recordc.Constraint {
	return recordc.Constraint{Kind: recordc.ConDecimalPlaces, Int: n}
}

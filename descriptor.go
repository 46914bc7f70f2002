package recordc

import (
	"fmt"
	"strings"
)

// TypeKind tags a Type descriptor.
type TypeKind int

const (
	TypePrimitive TypeKind = iota
	TypeAny
	TypeNone
	TypeContainer
	TypeUnion
	TypeLiteral
	TypeEnum
	TypeRecord
	TypeGeneric
	TypeDeferred
	TypeVar
	TypeOpaque
	TypeAnnotated
	TypeCustom
)

// Primitive names.
const (
	PrimString  = "string"
	PrimBool    = "bool"
	PrimInt     = "int"
	PrimFloat   = "float"
	PrimDecimal = "decimal"
)

// Container names.
const (
	ContList  = "list"
	ContSet   = "set"
	ContMap   = "map"
	ContTuple = "tuple"
)

// Type is a declared type annotation. The Type Resolver normalizes it into a
// concrete descriptor: after resolution no TypeDeferred or TypeVar remains
// anywhere in the tree.
type Type struct {
	Kind TypeKind

	Prim string  // TypePrimitive: one of the Prim* names
	Cont string  // TypeContainer: one of the Cont* names
	Args []*Type // container item/key/value types, union branches, generic args
	Rest *Type   // variadic tuple: type of trailing elements

	Values  []any                  // TypeLiteral / TypeEnum member values
	Name    string                 // TypeEnum name, TypeDeferred target, TypeVar name
	Base    *Type                  // TypeEnum underlying representation
	Convert func(any) (any, error) // TypeEnum conversion back to the enumerated type

	Rec *RecordSpec // TypeRecord handle, TypeGeneric template

	Format string // TypeOpaque pre-registered leaf kind

	Elem *Type        // TypeAnnotated wrapped type
	Cons []Constraint // TypeAnnotated embedded constraints

	Value any // TypeCustom value probed for schema capabilities
}

// String renders the descriptor for diagnostics and for keying generic
// specializations. The rendering is stable for resolved descriptors.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case TypePrimitive:
		return t.Prim
	case TypeAny:
		return "any"
	case TypeNone:
		return "none"
	case TypeContainer:
		parts := make([]string, 0, len(t.Args)+1)
		for _, a := range t.Args {
			parts = append(parts, a.String())
		}
		if t.Rest != nil {
			parts = append(parts, "*"+t.Rest.String())
		}
		if len(parts) == 0 {
			return t.Cont
		}
		return t.Cont + "[" + strings.Join(parts, ",") + "]"
	case TypeUnion:
		parts := make([]string, 0, len(t.Args))
		for _, a := range t.Args {
			parts = append(parts, a.String())
		}
		return "union[" + strings.Join(parts, "|") + "]"
	case TypeLiteral:
		parts := make([]string, 0, len(t.Values))
		for _, v := range t.Values {
			parts = append(parts, fmt.Sprintf("%#v", v))
		}
		return "literal[" + strings.Join(parts, ",") + "]"
	case TypeEnum:
		return "enum[" + t.Name + "]"
	case TypeRecord:
		return t.Rec.Name
	case TypeGeneric:
		parts := make([]string, 0, len(t.Args))
		for _, a := range t.Args {
			parts = append(parts, a.String())
		}
		return t.Rec.Name + "[" + strings.Join(parts, ",") + "]"
	case TypeDeferred:
		return "deferred[" + t.Name + "]"
	case TypeVar:
		return "$" + t.Name
	case TypeOpaque:
		return "opaque[" + t.Format + "]"
	case TypeAnnotated:
		return "annotated[" + t.Elem.String() + "]"
	case TypeCustom:
		return fmt.Sprintf("custom[%T]", t.Value)
	}
	return fmt.Sprintf("type[%d]", int(t.Kind))
}


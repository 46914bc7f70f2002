// Package recordc compiles declarative record-type descriptions into a
// validation/serialization schema tree:
//
// - Type resolution for deferred references, containers, unions, literals,
//   enumerations, and parameterized generic records
// - Constraint merging (bounds, lengths, patterns, multiples) with a Check
//   fallback for node kinds without native attributes
// - Discriminated unions with a validated tag -> variant table
// - Recursion management so self- and mutually-referential records compile
//   to a finite graph with named back-edges
// - User validation hooks (before/after/wrap/plain) bound in inheritance
//   order
//
// Design policy:
// - Keep the data model and public pipeline in the root package; put the
//   reference execution engine under internal/.
// - Place the declarative registration DSL under dsl/ and the compiled IR
//   under schema/.
// - The compiler only emits trees; execution belongs to an Engine.
//
// Typical usage:
//
//	ns := recordc.NewNamespace()
//	rec, err := dsl.Record("User").
//		Field("id", dsl.Int()).
//		Field("name", dsl.String()).MinLen(2).
//		BuildIn(ns)
//	node, err := recordc.Compile(ns, rec)
//	v, err := someEngine.Compile(node)
//	out, err := recordc.ValidateFrom(ctx, v, recordc.JSONBytes(data))
package recordc

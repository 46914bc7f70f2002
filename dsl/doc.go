// Package dsl is the declarative registration API for recordc. It collects
// field declarations, constraints, and validator hooks into a plain
// RecordSpec value, then hands that value to the compilation pipeline:
// declaring the shape and compiling the shape stay decoupled, with no hidden
// control flow in between.
//
//	ns := recordc.NewNamespace()
//	user := dsl.Record("User").
//		Field("id", dsl.Int()).
//		Field("name", dsl.String()).MinLen(2).MaxLen(10).
//		Field("tags", dsl.List(dsl.String())).Default([]any{}).
//		MustBuildIn(ns)
//
// Forward references use dsl.Ref("Name") and leave the record incomplete
// until the dependency is declared and recordc.Rebuild runs.
package dsl

package recordc

import (
	"errors"
	"fmt"
	"strings"
)

// Build-error codes (exported consts for IDE completion and type safety by
// convention).
const (
	CodeUnresolvedReference = "unresolved_reference"
	CodeSchemaGeneration    = "schema_generation"
	CodeConstraintConflict  = "constraint_conflict"
	CodeDiscriminatorConfig = "discriminator_config"
	CodeValidatorBinding    = "validator_binding"
)

// BuildError is a compile-time failure raised by the schema pipeline. Code is
// one of the consts above; Record, Field, and Variant locate the failure when
// known.
type BuildError struct {
	Code    string
	Record  string
	Field   string
	Variant string
	Ref     string // unresolved reference name, for CodeUnresolvedReference
	Message string
	Cause   error
}

func (e *BuildError) Error() string {
	b := &strings.Builder{}
	b.WriteString(e.Code)
	if e.Record != "" {
		fmt.Fprintf(b, " record=%s", e.Record)
	}
	if e.Field != "" {
		fmt.Fprintf(b, " field=%s", e.Field)
	}
	if e.Variant != "" {
		fmt.Fprintf(b, " variant=%s", e.Variant)
	}
	if e.Ref != "" {
		fmt.Fprintf(b, " ref=%s", e.Ref)
	}
	if e.Message != "" {
		fmt.Fprintf(b, ": %s", e.Message)
	}
	return b.String()
}

func (e *BuildError) Unwrap() error { return e.Cause }

// IsCode reports whether err is (or wraps) a BuildError with the given code.
func IsCode(err error, code string) bool {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// AsBuildError extracts a BuildError using errors.As internally.
func AsBuildError(err error) (*BuildError, bool) {
	var be *BuildError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

package recordc

import (
	"context"

	"github.com/reoring/recordc/schema"
)

// Engine is the external execution collaborator: it compiles a schema tree
// once into an executable validator. The compiler only produces trees; it
// never executes them.
type Engine interface {
	Compile(root schema.Node) (Validator, error)
}

// Validator executes a compiled schema against arbitrary input, returning the
// typed value or Issues addressed by field path.
type Validator interface {
	Validate(ctx context.Context, v any) (any, error)
}

// Compile runs the full pipeline for rec against ns: type resolution, schema
// generation, constraint application, discriminated-union resolution, and
// hook binding. On success the record becomes complete and the finished node
// joins the process-wide cache.
//
// An unresolved forward reference surfaces as a BuildError with
// CodeUnresolvedReference; the record stays incomplete and a later Rebuild
// can finish it. All other build errors are fatal to this compilation.
func Compile(ns *Namespace, rec *RecordSpec) (schema.Node, error) {
	if rec.complete {
		if node, ok := ns.cachedSchema(rec); ok {
			return node, nil
		}
	}
	return compilePass(ns, rec)
}

// MustCompile is like Compile but panics on error.
func MustCompile(ns *Namespace, rec *RecordSpec) schema.Node {
	node, err := Compile(ns, rec)
	if err != nil {
		panic(err)
	}
	return node
}

// Rebuild re-runs the pipeline for a record previously left incomplete, or,
// when force is set, even for a complete one (evicting the cached schema
// first). It reports whether the record is complete afterwards. Without
// force, an unresolved reference keeps the record incomplete and returns
// (false, nil); with force the failure is surfaced, matching the finalize
// semantics.
func Rebuild(ns *Namespace, rec *RecordSpec, force bool) (bool, error) {
	if rec.complete && !force {
		return true, nil
	}
	if force {
		ns.dropSchema(rec)
		rec.invalidate()
	}
	_, err := compilePass(ns, rec)
	if err != nil {
		if !force && IsCode(err, CodeUnresolvedReference) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func compilePass(ns *Namespace, rec *RecordSpec) (schema.Node, error) {
	rec.invalidate()
	ctx := newBuildContext(ns)
	node, err := ctx.compileRecord(rec)
	rec.warnings = ctx.warnings
	if err != nil {
		if be, ok := AsBuildError(err); ok && be.Code == CodeUnresolvedReference && be.Ref != "" {
			rec.missing = append(rec.missing, be.Ref)
		}
		return nil, err
	}

	// Publish every record finished during this pass. A dependency completed
	// mid-pass can still carry a back-edge that only the enclosing tree
	// satisfies; such a node stays unpublished until its own pass. Insert-if-
	// absent keeps the first stored node when independent passes race.
	for spec, e := range ctx.refs.entries {
		if e.state != stateComplete || e.seeded {
			continue
		}
		if len(schema.DanglingRefs(e.node)) > 0 {
			continue
		}
		stored := ns.storeSchema(spec, e.node)
		spec.complete = true
		spec.compiled = stored
		spec.missing = nil
	}
	if rec.compiled != nil {
		return rec.compiled, nil
	}
	return node, nil
}

// ---- Validation-time context options ----

type contextKey int

const _ctxKeyFailFast contextKey = iota

// WithFailFast returns a child context that marks fail-fast validation
// behavior, consumed by engine implementations.
func WithFailFast(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, _ctxKeyFailFast, enabled)
}

// IsFailFast reports whether the current validation should stop on the first
// issue.
func IsFailFast(ctx context.Context) bool {
	v := ctx.Value(_ctxKeyFailFast)
	b, _ := v.(bool)
	return b
}

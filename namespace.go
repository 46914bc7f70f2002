package recordc

import (
	"sync"

	"github.com/reoring/recordc/schema"
)

// Namespace is the module-level binding table deferred references resolve
// against, plus the process-wide cache of finished schemas shared read-only
// across compilation passes.
type Namespace struct {
	types map[string]*Type

	mu       sync.Mutex
	finished map[*RecordSpec]schema.Node
}

// NewNamespace returns an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{
		types:    map[string]*Type{},
		finished: map[*RecordSpec]schema.Node{},
	}
}

// Register binds a name to a type descriptor. A later registration for the
// same name replaces the earlier one; records depending on it need a rebuild.
func (ns *Namespace) Register(name string, t *Type) {
	ns.types[name] = t
}

// RegisterRecord binds a record spec under its own name.
func (ns *Namespace) RegisterRecord(rec *RecordSpec) {
	ns.Register(rec.Name, &Type{Kind: TypeRecord, Rec: rec})
}

// Lookup resolves a name to its bound descriptor.
func (ns *Namespace) Lookup(name string) (*Type, bool) {
	t, ok := ns.types[name]
	return t, ok
}

// cachedSchema returns the finished node for rec, if a prior pass completed
// it.
func (ns *Namespace) cachedSchema(rec *RecordSpec) (schema.Node, bool) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	n, ok := ns.finished[rec]
	return n, ok
}

// storeSchema records a finished node with insert-if-absent discipline so
// concurrent compilation of independent records keeps the first result.
func (ns *Namespace) storeSchema(rec *RecordSpec, n schema.Node) schema.Node {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	if prev, ok := ns.finished[rec]; ok {
		return prev
	}
	ns.finished[rec] = n
	return n
}

// dropSchema evicts a finished node ahead of a forced rebuild.
func (ns *Namespace) dropSchema(rec *RecordSpec) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	delete(ns.finished, rec)
}

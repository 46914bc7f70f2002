package recordc

import "github.com/reoring/recordc/schema"

// Ref / Recursion Manager: tracks build state per record identity within one
// compilation pass so re-entrant compilation emits a named back-edge instead
// of recursing forever.

type buildState int

const (
	stateNotStarted buildState = iota
	stateInProgress
	stateComplete
)

type refEntry struct {
	state  buildState
	name   string
	node   schema.Node
	seeded bool // finished in a prior pass; node lives outside the current tree
}

type refRegistry struct {
	entries map[*RecordSpec]*refEntry
}

// newRefRegistry starts a registry for one compilation pass, seeded with the
// already-complete results from prior passes so shared dependencies compile
// once per process.
func newRefRegistry(ns *Namespace) *refRegistry {
	r := &refRegistry{entries: map[*RecordSpec]*refEntry{}}
	ns.mu.Lock()
	for rec, node := range ns.finished {
		r.entries[rec] = &refEntry{state: stateComplete, name: rec.RefName(), node: node, seeded: true}
	}
	ns.mu.Unlock()
	return r
}

// enter marks rec as being compiled. When rec is already in progress (or
// complete) the caller must emit a Ref node under the returned name instead
// of recursing.
func (r *refRegistry) enter(rec *RecordSpec) (alreadyBuilding bool, name string) {
	if e, ok := r.entries[rec]; ok {
		switch e.state {
		case stateInProgress, stateComplete:
			return true, e.name
		}
	}
	r.entries[rec] = &refEntry{state: stateInProgress, name: rec.RefName()}
	return false, rec.RefName()
}

// leave transitions rec to complete and stores the finished node for earlier
// Ref consumers to resolve against by name.
func (r *refRegistry) leave(rec *RecordSpec, finished schema.Node) {
	e, ok := r.entries[rec]
	if !ok {
		e = &refEntry{name: rec.RefName()}
		r.entries[rec] = e
	}
	e.state = stateComplete
	e.node = finished
}

// abandon removes an in-progress entry after a failed compile so the registry
// never leaks in-progress state across passes.
func (r *refRegistry) abandon(rec *RecordSpec) {
	if e, ok := r.entries[rec]; ok && e.state == stateInProgress {
		delete(r.entries, rec)
	}
}

// Package handle allocates, tracks, and releases every object exposed
// across the boundary.
//
// Callers on the far side of the boundary cannot hold Go pointers, so the
// registry hands out pointer-sized opaque tokens instead and resolves them
// back to the owning object on every call. Tokens are never reused for the
// lifetime of the process: a lookup through a stale token fails instead of
// silently aliasing a newer object.
//
// Each entry carries one of three ownership modes:
//
//   - Exclusive: the caller must release exactly once. A concurrent double
//     release is absorbed by an atomic compare-and-clear of the live flag;
//     a second sequential release fails the lookup and is a no-op.
//   - Shared: reference-counted between the caller's token and references
//     captured by in-flight asynchronous work. Whichever side drops last
//     triggers teardown, exactly once.
//   - Borrowed: valid only while a named parent entry is live; it has no
//     release call of its own and is swept when the parent goes away.
package handle

import (
	"sync"
	"sync/atomic"
)

// Handle is the opaque pointer-sized token handed across the boundary.
// Zero is never a valid handle.
type Handle uintptr

// Nil is the reserved invalid handle returned on allocation failure.
const Nil Handle = 0

// Kind tags the object type behind a handle so the boundary can reject
// a token of the wrong type instead of misinterpreting it.
type Kind uint8

const (
	KindCluster Kind = iota + 1
	KindSession
	KindStatement
	KindPrepared
	KindBatch
	KindFuture
	KindResult
	KindRow
	KindValue
	KindIterator
	KindSSL
	KindUUID
	KindSchemaMeta
)

func (k Kind) String() string {
	switch k {
	case KindCluster:
		return "cluster"
	case KindSession:
		return "session"
	case KindStatement:
		return "statement"
	case KindPrepared:
		return "prepared"
	case KindBatch:
		return "batch"
	case KindFuture:
		return "future"
	case KindResult:
		return "result"
	case KindRow:
		return "row"
	case KindValue:
		return "value"
	case KindIterator:
		return "iterator"
	case KindSSL:
		return "ssl"
	case KindUUID:
		return "uuid"
	case KindSchemaMeta:
		return "schema_meta"
	default:
		return "unknown"
	}
}

// Mode is the ownership mode of a registry entry.
type Mode uint8

const (
	ModeExclusive Mode = iota + 1
	ModeShared
	ModeBorrowed
)

type entry struct {
	kind   Kind
	mode   Mode
	obj    any
	parent Handle // borrowed entries only

	// live is cleared exactly once, by whichever release wins the CAS.
	live atomic.Bool

	// refs counts caller + async references on shared entries.
	refs atomic.Int32
}

// Registry is the process-wide handle table. The zero value is not usable;
// call NewRegistry.
type Registry struct {
	mu      sync.RWMutex
	entries map[Handle]*entry

	// children maps a parent handle to the borrowed handles that must be
	// swept when the parent is released.
	children map[Handle][]Handle

	next atomic.Uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries:  make(map[Handle]*entry),
		children: make(map[Handle][]Handle),
	}
}

func (r *Registry) insert(e *entry) Handle {
	e.live.Store(true)
	h := Handle(r.next.Add(1))
	r.mu.Lock()
	if e.mode == ModeBorrowed {
		// Checked under the write lock: a parent release holds the same
		// lock while sweeping, so the child is either rejected here or
		// registered in time to be swept.
		p, ok := r.entries[e.parent]
		if !ok || !p.live.Load() {
			r.mu.Unlock()
			return Nil
		}
		r.children[e.parent] = append(r.children[e.parent], h)
	}
	r.entries[h] = e
	r.mu.Unlock()
	return h
}

// New registers obj under an exclusively-owned handle.
func (r *Registry) New(kind Kind, obj any) Handle {
	return r.insert(&entry{kind: kind, mode: ModeExclusive, obj: obj})
}

// NewShared registers obj under a shared handle with one reference,
// held by the caller.
func (r *Registry) NewShared(kind Kind, obj any) Handle {
	e := &entry{kind: kind, mode: ModeShared, obj: obj}
	e.refs.Store(1)
	return r.insert(e)
}

// NewBorrowed registers obj under a handle valid only while parent is live.
// Returns Nil if the parent is already gone.
func (r *Registry) NewBorrowed(kind Kind, obj any, parent Handle) Handle {
	return r.insert(&entry{kind: kind, mode: ModeBorrowed, obj: obj, parent: parent})
}

// Get resolves a handle to its object, checking the kind tag.
// It fails on Nil, unknown, released, or wrong-kind handles.
func (r *Registry) Get(h Handle, kind Kind) (any, bool) {
	r.mu.RLock()
	e, ok := r.entries[h]
	r.mu.RUnlock()
	if !ok || e.kind != kind || !e.live.Load() {
		return nil, false
	}
	return e.obj, true
}

// KindOf reports the kind of a live handle.
func (r *Registry) KindOf(h Handle) (Kind, bool) {
	r.mu.RLock()
	e, ok := r.entries[h]
	r.mu.RUnlock()
	if !ok || !e.live.Load() {
		return 0, false
	}
	return e.kind, true
}

// Release removes an exclusively-owned handle and returns its object so
// the caller can run teardown. Exactly one of any number of concurrent
// Release calls wins; the rest return ok=false.
func (r *Registry) Release(h Handle, kind Kind) (any, bool) {
	r.mu.RLock()
	e, ok := r.entries[h]
	r.mu.RUnlock()
	if !ok || e.kind != kind || e.mode != ModeExclusive {
		return nil, false
	}
	if !e.live.CompareAndSwap(true, false) {
		return nil, false
	}
	r.remove(h)
	return e.obj, true
}

// Retain adds a reference to a shared handle on behalf of async work.
func (r *Registry) Retain(h Handle) bool {
	r.mu.RLock()
	e, ok := r.entries[h]
	r.mu.RUnlock()
	if !ok || e.mode != ModeShared || !e.live.Load() {
		return false
	}
	e.refs.Add(1)
	return true
}

// Unref drops one reference from a shared handle. When the last reference
// is dropped the entry is removed and the object is returned with
// last=true so teardown runs exactly once.
func (r *Registry) Unref(h Handle, kind Kind) (obj any, last, ok bool) {
	r.mu.RLock()
	e, found := r.entries[h]
	r.mu.RUnlock()
	if !found || e.kind != kind || e.mode != ModeShared {
		return nil, false, false
	}
	if e.refs.Add(-1) > 0 {
		return nil, false, true
	}
	// Last reference. The live CAS guards against a racing Unref that
	// also observed zero (possible only on caller refcount misuse).
	if !e.live.CompareAndSwap(true, false) {
		return nil, false, false
	}
	r.remove(h)
	return e.obj, true, true
}

// remove deletes the entry and sweeps any borrowed children, recursively.
func (r *Registry) remove(h Handle) {
	r.mu.Lock()
	pending := []Handle{h}
	for len(pending) > 0 {
		cur := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if e, ok := r.entries[cur]; ok {
			e.live.Store(false)
			delete(r.entries, cur)
		}
		pending = append(pending, r.children[cur]...)
		delete(r.children, cur)
	}
	r.mu.Unlock()
}

// Count returns the number of live handles, total or per kind.
// Used by the diagnostics listener and by leak checks in tests.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// CountByKind returns the number of live handles per kind.
func (r *Registry) CountByKind() map[Kind]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[Kind]int)
	for _, e := range r.entries {
		counts[e.kind]++
	}
	return counts
}

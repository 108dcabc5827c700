package v8ref

import "sync"

// registry is the durable-handle table for one isolate: the "durable handle
// into that isolate's heap" spec §3 describes a RemoteHandle as carrying.
// The teacher represents this as a C.ValuePtr, a pointer V8's own GC keeps
// alive via a Persistent handle; this package has no such engine-managed
// persistent-handle primitive to lean on; a process-wide, isolate-keyed
// table of plain Go Values serves the same purpose (capture pins, release
// unpins, and the Go garbage collector reclaims everything else normally).
type registry struct {
	mu     sync.Mutex
	next   uint64
	values map[uint64]Value
}

var registries sync.Map // IsolateID -> *registry

func registryFor(id IsolateID) *registry {
	if r, ok := registries.Load(id); ok {
		return r.(*registry)
	}
	r, _ := registries.LoadOrStore(id, &registry{values: make(map[uint64]Value)})
	return r.(*registry)
}

// dropRegistry removes an isolate's entire table. Called once an isolate is
// known disposed, so held RemoteHandles can be abandoned without touching
// the (now-gone) heap (spec §4.1), and so the process-wide registries map
// doesn't keep one entry alive per isolate ever created.
func dropRegistry(id IsolateID) {
	registries.Delete(id)
}

// DropRegistry is dropRegistry's host-callable form: a concrete Isolate
// implementation's Dispose/teardown path calls this exactly once, after the
// isolate can no longer accept RunLocked/Submit calls, so any RemoteHandles
// still pinned in its table are released along with the isolate rather than
// leaked for the life of the process (spec §4.1, §5 "isolate disposal").
func DropRegistry(id IsolateID) {
	dropRegistry(id)
}

func (r *registry) put(v Value) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	id := r.next
	r.values[id] = v
	return id
}

func (r *registry) get(id uint64) (Value, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.values[id]
	return v, ok
}

func (r *registry) delete(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, id)
}

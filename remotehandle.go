package v8ref

// RemoteHandle is an owning token for a value living in a specific isolate's
// heap (spec §3, §4.1). It may be dereferenced only while its owning isolate
// is locked by the current thread/goroutine, and it must be released rather
// than let the Go garbage collector silently drop it, because releasing is
// itself a task scheduled on the owning isolate.
type RemoteHandle struct {
	isolate Isolate
	id      uint64
}

// captureRemoteHandle pins value in iso's registry. Must be called with iso
// already locked by the caller (spec §4.1 "capture(value)").
func captureRemoteHandle(iso Isolate, value Value) *RemoteHandle {
	id := registryFor(iso.ID()).put(value)
	return &RemoteHandle{isolate: iso, id: id}
}

// Isolate returns the isolate this handle is homed in.
func (h *RemoteHandle) Isolate() Isolate { return h.isolate }

// Deref produces the local value this handle names. Fails if the calling
// context's isolate is not the owner (spec §4.1 "deref()").
func (h *RemoteHandle) Deref(current Isolate) (Value, error) {
	if current.ID() != h.isolate.ID() {
		return nil, newError(TypeErrorKind, msgDerefWrongIsolate)
	}
	v, ok := registryFor(h.isolate.ID()).get(h.id)
	if !ok {
		return nil, errReleased()
	}
	return v, nil
}

// Release schedules a disposal task on the owning isolate so the registry
// entry is cleared from that isolate's own queue, never from a foreign
// thread (spec §4.1 rationale: touching engine-managed heap from a
// non-owning thread corrupts the heap). If the owning isolate is already
// disposed, the handle is abandoned without enqueueing anything.
func (h *RemoteHandle) Release() {
	iso := h.isolate
	id := h.id
	if iso.Disposed() {
		return
	}
	_ = iso.Submit(func(ExecContext) {
		registryFor(iso.ID()).delete(id)
	})
}

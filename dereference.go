package v8ref

import "sync"

// DereferenceHandle is the one-shot transferable produced by
// ReferenceHandle.DerefInto (spec §4.8): it carries a RemoteHandle that
// re-materializes as the live underlying value, but only once, and only on
// arrival in its home isolate. It is deliberately its own Transferable
// (rather than something the ApplyTask driver wraps) so that single-use is
// enforced at the transferable itself, per spec §9 — "must be enforced at
// the transferable, not at the handle, because the handle may be released
// before the transferable is consumed".
type DereferenceHandle struct {
	mu     sync.Mutex
	used   bool
	handle *RemoteHandle
}

func newDereferenceHandle(h *RemoteHandle) *DereferenceHandle {
	return &DereferenceHandle{handle: h}
}

// TransferIn materializes the referenced value, once. dest must be the
// handle's home isolate (spec §4.8).
func (d *DereferenceHandle) TransferIn(ec ExecContext, dest Isolate) (any, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.used {
		return nil, newError(GenericErrorKind, msgDerefIntoUsedTwice)
	}
	d.used = true

	if dest.ID() != d.handle.isolate.ID() {
		return nil, newError(TypeErrorKind, msgDerefIntoWrongIsolate)
	}
	v, ok := registryFor(dest.ID()).get(d.handle.id)
	if !ok {
		return nil, errReleased()
	}
	return v, nil
}

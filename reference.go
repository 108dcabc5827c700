package v8ref

import (
	"context"
	"sync"
)

// ReferenceHandle is the user-visible object of this package (spec §3, §4.5,
// §6): a token that names a value living in some isolate's heap and that
// any other isolate may hold, copy from, read, write, or invoke, without
// ever touching that heap directly itself.
type ReferenceHandle struct {
	mu sync.Mutex

	released bool

	// isolate is the owning isolate; value and context are RemoteHandles
	// into it. context is best-effort: it is only populated for a
	// directly-constructed handle (NewReferenceHandle), since this
	// package's Isolate abstraction models one implicit context per
	// isolate rather than the engine's separate multi-context notion —
	// apply()'s "enter the reference's creation context" step is already
	// satisfied by Phase 2 always running on the value's home isolate.
	isolate Isolate
	value   *RemoteHandle
	context *RemoteHandle
	kind    ValueKind
}

// NewReferenceHandle captures value, which must already live in current
// (locked by the caller), and returns a handle any isolate may hold (spec
// §4.5, "created in any isolate from a local value captured there").
func NewReferenceHandle(current Isolate, value Value) *ReferenceHandle {
	rh := captureRemoteHandle(current, value)
	return &ReferenceHandle{
		isolate: current,
		value:   rh,
		context: rh,
		kind:    value.Kind(),
	}
}

// newReferenceHandleFromRemote builds a ReferenceHandle around a
// RemoteHandle produced elsewhere (transferable.go's referenceTransferable,
// on arrival). context is left nil; see the field comment above.
func newReferenceHandleFromRemote(handle *RemoteHandle, kind ValueKind) *ReferenceHandle {
	return &ReferenceHandle{isolate: handle.Isolate(), value: handle, kind: kind}
}

// checkLive returns errReleased() once release() has run; every operation
// in §4.5 begins with this check.
func (r *ReferenceHandle) checkLive() error {
	if r.released {
		return errReleased()
	}
	return nil
}

// Typeof returns the cached type tag (spec §4.5): synchronous, local, never
// requires a cross-isolate trip, and stable until release (spec §8
// property 1).
func (r *ReferenceHandle) Typeof() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkLive(); err != nil {
		return "", err
	}
	return r.kind.String(), nil
}

// DerefOptions configures deref() (spec §6).
type DerefOptions struct {
	Release bool
}

// Deref requires current to be the owning isolate and returns the live
// underlying value (spec §4.5, §8 property 3). If opts.Release is set, the
// handle is released afterward (spec §8 property 10).
func (r *ReferenceHandle) Deref(current Isolate, opts DerefOptions) (Value, error) {
	r.mu.Lock()
	if err := r.checkLive(); err != nil {
		r.mu.Unlock()
		return nil, err
	}
	handle := r.value
	r.mu.Unlock()

	v, err := handle.Deref(current)
	if err != nil {
		return nil, err
	}
	if opts.Release {
		r.Release()
	}
	return v, nil
}

// DerefIntoOptions configures derefInto() (spec §6).
type DerefIntoOptions struct {
	Release bool
}

// DerefInto produces a one-shot transferable that yields the underlying
// value when it lands back in its home isolate (spec §4.5, §4.8, §8
// property 4).
func (r *ReferenceHandle) DerefInto(opts DerefIntoOptions) (*DereferenceHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkLive(); err != nil {
		return nil, err
	}
	d := newDereferenceHandle(r.value)
	if opts.Release {
		// d keeps using r's registry entry, so r is cleared without
		// scheduling that entry's removal.
		r.value = nil
		r.releaseLocked()
	}
	return d, nil
}

// Release clears isolate, reference, context and type-tag fields (spec
// §4.5); subsequent operations fail with "Reference has been released"
// (spec §8 property 2, idempotent: a second Release is a no-op, matching
// the teacher's own double-free-safe Close/Dispose idiom).
func (r *ReferenceHandle) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.releaseLocked()
}

func (r *ReferenceHandle) releaseLocked() {
	if r.released {
		return
	}
	r.released = true
	if r.value != nil {
		r.value.Release()
	}
	r.isolate = nil
	r.value = nil
	r.context = nil
	r.kind = 0
}

// asTransferable produces the Reference-variant Transferable that
// represents this handle crossing a boundary (spec §4.2 rule 1): a
// ReferenceHandle always delegates to itself rather than being re-derived
// from its underlying value.
func (r *ReferenceHandle) asTransferable() (Transferable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkLive(); err != nil {
		return nil, err
	}
	return &referenceTransferable{handle: r.value, kind: r.kind}, nil
}

// snapshot copies out what Phase 1 needs from a live handle while r is
// still locked, so Phase 2 (running later, possibly on another goroutine)
// never touches r's mutex.
func (r *ReferenceHandle) snapshot() (isolate Isolate, value *RemoteHandle, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkLive(); err != nil {
		return nil, nil, err
	}
	return r.isolate, r.value, nil
}

// Copy deep-copies the value in its home isolate asynchronously, resolving
// once the copy arrives (spec §4.5 "copy"). Sync callers use CopySync.
func (r *ReferenceHandle) Copy(ctx context.Context) (*PendingResult, error) {
	v, err := r.copyTask(ctx, ModeAsync)
	if err != nil {
		return nil, err
	}
	return v.(*PendingResult), nil
}

// CopySync deep-copies the value and blocks for the result (spec §8
// property 5: round-trips structurally, and mutating the copy never
// affects the original because copyOut/DeepCopy always detach).
func (r *ReferenceHandle) CopySync(ctx context.Context) (any, error) {
	return r.copyTask(ctx, ModeSync)
}

func (r *ReferenceHandle) copyTask(ctx context.Context, mode AsyncMode) (any, error) {
	isolate, handle, err := r.snapshot()
	if err != nil {
		return nil, err
	}
	spec := taskSpec{
		target: isolate,
		phase2: func(ec ExecContext) (Transferable, error) {
			v, err := handle.Deref(isolate)
			if err != nil {
				return nil, err
			}
			data, err := v.DeepCopy()
			if err != nil {
				return nil, wrapError(InternalErrorKind, "value not copyable", err)
			}
			return copyTransferable{data: data}, nil
		},
	}
	return runThreePhaseTask(ctx, spec, mode)
}

// requirePrimitiveKey enforces spec §4.5's "key is copied as a primitive
// (fails if non-primitive)".
func requirePrimitiveKey(key any) error {
	if !isPrimitiveGo(key) {
		return newError(TypeErrorKind, msgInvalidKey)
	}
	return nil
}

// Get reads a property asynchronously (spec §4.5 "get"). Sync callers use
// GetSync.
func (r *ReferenceHandle) Get(ctx context.Context, key any, opts TransferOptions) (*PendingResult, error) {
	v, err := r.getTask(ctx, key, opts, ModeAsync)
	if err != nil {
		return nil, err
	}
	return v.(*PendingResult), nil
}

// GetSync reads a property and blocks for the result, marshaled per opts
// (default Reference, spec §4.2).
func (r *ReferenceHandle) GetSync(ctx context.Context, key any, opts TransferOptions) (any, error) {
	return r.getTask(ctx, key, opts, ModeSync)
}

func (r *ReferenceHandle) getTask(ctx context.Context, key any, opts TransferOptions, mode AsyncMode) (any, error) {
	if err := requirePrimitiveKey(key); err != nil {
		return nil, err
	}
	isolate, handle, err := r.snapshot()
	if err != nil {
		return nil, err
	}
	spec := taskSpec{
		target: isolate,
		phase2: func(ec ExecContext) (Transferable, error) {
			v, err := handle.Deref(isolate)
			if err != nil {
				return nil, err
			}
			prop, err := v.Get(key)
			if err != nil {
				return nil, err
			}
			return transferOut(ec, isolate, prop, opts, positionReturn)
		},
	}
	return runThreePhaseTask(ctx, spec, mode)
}

// Set writes a property asynchronously (spec §4.5 "set"); the settled
// value is the boolean the engine's [[Set]] returned.
func (r *ReferenceHandle) Set(ctx context.Context, key, val any, opts TransferOptions) (*PendingResult, error) {
	v, err := r.setTask(ctx, key, val, opts, ModeAsync)
	if err != nil {
		return nil, err
	}
	return v.(*PendingResult), nil
}

// SetSync writes a property and blocks for the accepted boolean.
func (r *ReferenceHandle) SetSync(ctx context.Context, key, val any, opts TransferOptions) (bool, error) {
	v, err := r.setTask(ctx, key, val, opts, ModeSync)
	if err != nil {
		return false, err
	}
	if v == nil {
		return false, nil
	}
	return v.(bool), nil
}

// SetIgnored fires the write and returns immediately; errors raised on the
// target isolate are logged, never surfaced (spec §4.3 "ignored" row, §7).
// A Phase 1 failure (an invalid key or a released reference) is returned.
func (r *ReferenceHandle) SetIgnored(key, val any, opts TransferOptions) error {
	_, err := r.setTask(context.Background(), key, val, opts, ModeIgnored)
	return err
}

func (r *ReferenceHandle) setTask(ctx context.Context, key, val any, opts TransferOptions, mode AsyncMode) (any, error) {
	if err := requirePrimitiveKey(key); err != nil {
		return nil, err
	}
	isolate, handle, err := r.snapshot()
	if err != nil {
		return nil, err
	}
	spec := taskSpec{
		target: isolate,
		phase2: func(ec ExecContext) (Transferable, error) {
			v, err := handle.Deref(isolate)
			if err != nil {
				return nil, err
			}
			nv, err := transferIn(ec, isolate, val, opts)
			if err != nil {
				return nil, err
			}
			// Delete-before-set (spec §4.5, §9): releases the
			// previous binding's memory before the new value
			// lands, so replacing a large value never transiently
			// doubles the heap footprint.
			v.Delete(key)
			ok, err := v.Set(key, nv)
			if err != nil {
				return nil, err
			}
			return copyTransferable{data: ok}, nil
		},
	}
	return runThreePhaseTask(ctx, spec, mode)
}

// transferIn is Phase 2's counterpart to transferOut: given whatever the
// caller supplied for a Set value, receiver, or argument, produce a live
// Value in the target isolate. It applies spec §4.2 rule 1 first — a
// *ReferenceHandle or *DereferenceHandle delegates to its own TransferIn
// rather than being flattened into an opaque blob — and otherwise honors
// opts the same way transferOut does: a primitive Go value always copies in,
// but non-primitive detached data (a plain map/slice) is only transferable
// here if the caller explicitly asked for Copy, ExternalCopy, or Reference
// (spec §4.6's per-argument `arguments: TransferOptions` knob).
func transferIn(ec ExecContext, target Isolate, v any, opts TransferOptions) (Value, error) {
	if t, matched, err := transferableOf(v); matched {
		if err != nil {
			return nil, err
		}
		materialized, err := t.TransferIn(ec, target)
		if err != nil {
			return nil, err
		}
		if ev, ok := materialized.(Value); ok {
			return ev, nil
		}
		nv, err := ec.NewValue(materialized)
		if err != nil {
			return nil, wrapError(InternalErrorKind, "value not transferable", err)
		}
		return nv, nil
	}

	if ev, ok := v.(Value); ok {
		return ev, nil
	}

	if isPrimitiveGo(v) {
		nv, err := ec.NewValue(v)
		if err != nil {
			return nil, wrapError(InternalErrorKind, "value not transferable", err)
		}
		return nv, nil
	}

	if !opts.Copy && !opts.ExternalCopy && !opts.Reference {
		return nil, newError(TypeErrorKind, msgNotTransferable)
	}

	data, err := copyOut(v)
	if err != nil {
		return nil, err
	}
	nv, err := ec.NewValue(data)
	if err != nil {
		return nil, wrapError(InternalErrorKind, "value not transferable", err)
	}
	return nv, nil
}

// ApplyOptions configures apply/applySync/applyIgnored/applySyncPromise
// (spec §4.6, §6).
type ApplyOptions struct {
	// Timeout is milliseconds, 0 = none (spec §4.4). It is applied by
	// ApplySync and ApplySyncPromise; Apply and ApplyIgnored run the call
	// without a time bound.
	Timeout int
	// Arguments is applied to each argument (spec §4.6).
	Arguments TransferOptions
	// Return is applied to the result; must be zero for applySyncPromise
	// (spec §4.6, msgReturnNotAvailableAsync).
	Return TransferOptions
}

// Apply invokes the reference as a function asynchronously (spec §4.5,
// §4.6). recv and args are detached Go values or engine Values; they are
// transferred in under target's lock during Phase 2.
func (r *ReferenceHandle) Apply(ctx context.Context, recv any, args []any, opts ApplyOptions) (*PendingResult, error) {
	v, err := r.applyTask(ctx, recv, args, opts, ModeAsync)
	if err != nil {
		return nil, err
	}
	return v.(*PendingResult), nil
}

// ApplySync invokes the reference and blocks for the materialized result
// (spec §4.6 Phase 3).
func (r *ReferenceHandle) ApplySync(ctx context.Context, recv any, args []any, opts ApplyOptions) (any, error) {
	return r.applyTask(ctx, recv, args, opts, ModeSync)
}

// ApplyIgnored fires the call and returns immediately; errors raised on the
// target isolate are logged, never surfaced (spec §4.3, §7). A released
// reference is reported through the returned error.
func (r *ReferenceHandle) ApplyIgnored(recv any, args []any, opts ApplyOptions) error {
	_, err := r.applyTask(context.Background(), recv, args, opts, ModeIgnored)
	return err
}

// ApplySyncPromise invokes the reference, and if the result is a promise,
// blocks until it settles via the async-promise bridge (spec §4.7, §8
// property 8). opts.Return must be the zero value.
func (r *ReferenceHandle) ApplySyncPromise(ctx context.Context, recv any, args []any, opts ApplyOptions) (any, error) {
	if !opts.Return.isZero() {
		return nil, newError(TypeErrorKind, msgReturnNotAvailableAsync)
	}
	return r.applyTask(ctx, recv, args, opts, ModeSyncPromise)
}

func (r *ReferenceHandle) applyTask(ctx context.Context, recv any, args []any, opts ApplyOptions, mode AsyncMode) (any, error) {
	isolate, handle, err := r.snapshot()
	if err != nil {
		return nil, err
	}

	phase2 := func(ec ExecContext) (callResult Value, callErr error) {
		v, err := handle.Deref(isolate)
		if err != nil {
			return nil, err
		}
		if !v.IsCallable() {
			return nil, newError(TypeErrorKind, msgNotAFunction)
		}
		recvValue, err := transferIn(ec, isolate, recv, TransferOptions{})
		if err != nil {
			return nil, err
		}
		argValues := make([]Value, len(args))
		for i, a := range args {
			av, err := transferIn(ec, isolate, a, opts.Arguments)
			if err != nil {
				return nil, newError(TypeErrorKind, msgInvalidArgumentsArray)
			}
			argValues[i] = av
		}
		return v.Call(ec, recvValue, argValues)
	}

	spec := taskSpec{
		target:        isolate,
		timeoutMillis: opts.Timeout,
		phase2: func(ec ExecContext) (Transferable, error) {
			result, err := phase2(ec)
			if err != nil {
				return nil, err
			}
			return transferOut(ec, isolate, result, opts.Return, positionReturn)
		},
		phase2Async: func(ec ExecContext, done func(Transferable, error)) {
			result, err := phase2(ec)
			if err != nil {
				done(nil, err)
				return
			}
			bridgeCallResult(ec, isolate, result, done)
		},
	}
	return runThreePhaseTask(ctx, spec, mode)
}

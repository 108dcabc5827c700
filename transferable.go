package v8ref

// Transferable describes a value in motion between isolates (spec §3, §4.2).
// TransferOut (see transferOut below) is performed under the source
// isolate's lock and produces one of these; TransferIn is called under the
// destination isolate's lock and materializes it there.
type Transferable interface {
	// TransferIn materializes this transferable on dest. The result is a
	// detached Go value (Copy), a *ReferenceHandle (Reference), the live
	// underlying Value (Deref, home isolate only), or a passed-through
	// Value (Extern).
	TransferIn(ec ExecContext, dest Isolate) (any, error)
}

type transferPosition int

const (
	positionArgument transferPosition = iota
	positionReturn
)

// copyTransferable is a deep, self-contained copy of a primitive or plain
// data structure (spec §3 "Copy").
type copyTransferable struct{ data any }

func (c copyTransferable) TransferIn(ExecContext, Isolate) (any, error) {
	return c.data, nil
}

// referenceTransferable is a RemoteHandle plus the cached type tag; it
// materializes as a brand new ReferenceHandle wherever it lands, because a
// ReferenceHandle (unlike the value it names) may be held by any isolate
// (spec §3 "Reference").
type referenceTransferable struct {
	handle *RemoteHandle
	kind   ValueKind
}

func (r *referenceTransferable) TransferIn(ExecContext, Isolate) (any, error) {
	return newReferenceHandleFromRemote(r.handle, r.kind), nil
}

// externTransferable wraps an engine-native shareable object (contexts,
// scripts, buffers) opaquely, per spec §3 "Extern" — this package never
// looks inside it.
type externTransferable struct{ value Value }

func (e externTransferable) TransferIn(ExecContext, Isolate) (any, error) {
	return e.value, nil
}

// transferableOf reports whether v already knows how to produce a
// Transferable itself (spec §4.2 rule 1: a *ReferenceHandle, *DereferenceHandle,
// or any other Transferable delegates to its own TransferOut/TransferIn
// rather than being re-inspected by the marshaling rules below). Used by
// both transferOut (return/property-read direction) and transferIn
// (argument/receiver/set-value direction) so a Reference or DereferenceHandle
// is handled identically no matter which way it's crossing.
func transferableOf(v any) (t Transferable, matched bool, err error) {
	switch vv := v.(type) {
	case *DereferenceHandle:
		return vv, true, nil
	case *ReferenceHandle:
		t, err := vv.asTransferable()
		return t, true, err
	case Transferable:
		return vv, true, nil
	}
	return nil, false, nil
}

// isPrimitiveGo reports whether v is a Go primitive that should copy by
// default when it isn't already a live engine Value (spec §4.2 rule 2).
func isPrimitiveGo(v any) bool {
	switch v.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}

// transferOut applies the marshaling rules of spec §4.2 to v, producing the
// Transferable that will cross the isolate boundary. src is the isolate v
// currently lives in (or, for host-supplied detached data with no isolate
// yet, the isolate under whose lock this call is running); ec is that
// isolate's current ExecContext, needed to build a live Value when an
// option demands a Reference out of data that doesn't have one yet.
func transferOut(ec ExecContext, src Isolate, v any, opts TransferOptions, pos transferPosition) (Transferable, error) {
	// Rule 1: a value that already knows how to produce a Transferable
	// delegates to itself, rather than being re-inspected here.
	if t, matched, err := transferableOf(v); matched {
		return t, err
	}

	ev, isEngineValue := v.(Value)

	if opts.Copy || opts.ExternalCopy {
		if isEngineValue {
			data, err := ev.DeepCopy()
			if err != nil {
				return nil, wrapError(InternalErrorKind, "value not copyable", err)
			}
			return copyTransferable{data: data}, nil
		}
		data, err := copyOut(v)
		if err != nil {
			return nil, err
		}
		return copyTransferable{data: data}, nil
	}

	if !isEngineValue {
		if isPrimitiveGo(v) {
			return copyTransferable{data: v}, nil
		}
		if !opts.Reference && pos != positionReturn {
			return nil, newError(TypeErrorKind, msgNotTransferable)
		}
		nv, err := ec.NewValue(v)
		if err != nil {
			return nil, wrapError(InternalErrorKind, "value not transferable", err)
		}
		ev = nv
	}

	if ev.Kind().isPrimitive() {
		data, err := ev.DeepCopy()
		if err != nil {
			return nil, wrapError(InternalErrorKind, "value not transferable", err)
		}
		return copyTransferable{data: data}, nil
	}

	if opts.Reference || (pos == positionReturn && opts.isZero()) {
		rh := captureRemoteHandle(src, ev)
		return &referenceTransferable{handle: rh, kind: ev.Kind()}, nil
	}

	return nil, newError(TypeErrorKind, msgNotTransferable)
}

// copyOut deep-copies a value that is not already a live engine Value: an
// engine Value goes through ev.DeepCopy() instead (see transferOut above).
// This covers the case of host-supplied detached Go data (e.g. the `val`
// argument to Set) that is already a plain map/slice/primitive tree and
// merely needs defensive copying so mutating the original after copyOut
// has run doesn't retroactively change what was sent (spec §8 property 5).
func copyOut(v any) (any, error) {
	switch vv := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(vv))
		for k, e := range vv {
			c, err := copyOut(e)
			if err != nil {
				return nil, err
			}
			out[k] = c
		}
		return out, nil
	case []any:
		out := make([]any, len(vv))
		for i, e := range vv {
			c, err := copyOut(e)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	default:
		return v, nil
	}
}

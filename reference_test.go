package v8ref_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ionos-cloud/v8ref"
	"github.com/ionos-cloud/v8ref/internal/nativeengine"
)

// captureIn runs fn under iso's lock and captures the Value it returns into
// a ReferenceHandle, exactly the way a host binding would wrap a script
// value for a caller (spec §4.5 "created in any isolate from a local value
// captured there").
func captureIn(t *testing.T, iso *nativeengine.Isolate, build func(ec v8ref.ExecContext) *nativeengine.Value) *v8ref.ReferenceHandle {
	t.Helper()
	var r *v8ref.ReferenceHandle
	err := iso.RunLocked(context.Background(), func(ec v8ref.ExecContext) error {
		r = v8ref.NewReferenceHandle(iso, build(ec))
		return nil
	})
	require.NoError(t, err)
	return r
}

// S1: const r = new Reference(42); expect r.typeof === "number"; expect
// r.copySync() === 42.
func TestScenarioNumberRoundTrip(t *testing.T) {
	iso := nativeengine.New()
	defer iso.Dispose()

	r := captureIn(t, iso, func(ec v8ref.ExecContext) *nativeengine.Value {
		return nativeengine.FromGo(42)
	})

	typ, err := r.Typeof()
	require.NoError(t, err)
	require.Equal(t, "number", typ)

	cp, err := r.CopySync(context.Background())
	require.NoError(t, err)
	require.Equal(t, 42, cp)
}

// S2: isolate A: global.x = 7; const r = new Reference(() => global.x); In
// isolate B: r.applySync() returns 7.
func TestScenarioCrossIsolateApply(t *testing.T) {
	isoA := nativeengine.New()
	defer isoA.Dispose()
	isoB := nativeengine.New()
	defer isoB.Dispose()

	isoA.Global().SetProperty("x", nativeengine.FromGo(7))

	r := captureIn(t, isoA, func(ec v8ref.ExecContext) *nativeengine.Value {
		return nativeengine.NewFunction(func(ec *nativeengine.ExecContext, recv *nativeengine.Value, args []*nativeengine.Value) (*nativeengine.Value, error) {
			x, _ := isoA.Global().GetProperty("x")
			return x, nil
		})
	})

	// applySync is driven from "isolate B" only in the sense that the
	// caller doesn't hold isoA's lock; apply() always executes Phase 2 on
	// the reference's home isolate regardless of who calls it.
	result, err := r.ApplySync(context.Background(), nil, nil, v8ref.ApplyOptions{})
	require.NoError(t, err)
	require.EqualValues(t, 7, result)
}

// S3: r = new Reference({a:{b:1}}); r.getSync("a").getSync("b").copySync()
// -> 1.
func TestScenarioNestedGet(t *testing.T) {
	iso := nativeengine.New()
	defer iso.Dispose()

	r := captureIn(t, iso, func(ec v8ref.ExecContext) *nativeengine.Value {
		return nativeengine.FromGo(map[string]any{"a": map[string]any{"b": 1}})
	})

	a, err := r.GetSync(context.Background(), "a", v8ref.TransferOptions{})
	require.NoError(t, err)
	aRef, ok := a.(*v8ref.ReferenceHandle)
	require.True(t, ok, "getSync on a non-primitive defaults to Reference")

	b, err := aRef.GetSync(context.Background(), "b", v8ref.TransferOptions{})
	require.NoError(t, err)

	bVal, err := requireCopySync(t, b)
	require.NoError(t, err)
	require.EqualValues(t, 1, bVal)
}

// requireCopySync accepts whatever getSync handed back for a primitive leaf
// (a Copy, materialized directly as the Go value) and normalizes it.
func requireCopySync(t *testing.T, v any) (any, error) {
	t.Helper()
	if ref, ok := v.(*v8ref.ReferenceHandle); ok {
		return ref.CopySync(context.Background())
	}
	return v, nil
}

// S4: r = new Reference(async () => { await sleep(10); return "ok"; });
// r.applySyncPromise() -> "ok".
func TestScenarioApplySyncPromise(t *testing.T) {
	iso := nativeengine.New()
	defer iso.Dispose()

	r := captureIn(t, iso, func(ec v8ref.ExecContext) *nativeengine.Value {
		return nativeengine.NewFunction(func(ec *nativeengine.ExecContext, recv *nativeengine.Value, args []*nativeengine.Value) (*nativeengine.Value, error) {
			promiseVal, promise := nativeengine.NewPromise()
			go func() {
				time.Sleep(10 * time.Millisecond)
				_ = iso.Submit(func(v8ref.ExecContext) {
					promise.Resolve(nativeengine.FromGo("ok"))
				})
			}()
			return promiseVal, nil
		})
	})

	result, err := r.ApplySyncPromise(context.Background(), nil, nil, v8ref.ApplyOptions{})
	require.NoError(t, err)
	require.Equal(t, "ok", result)
}

// S5: r = new Reference(() => { while(true){} });
// r.applySync(undefined, [], {timeout:25}) throws GenericError "Script
// execution timed out.".
func TestScenarioTimeout(t *testing.T) {
	iso := nativeengine.New()
	defer iso.Dispose()

	r := captureIn(t, iso, func(ec v8ref.ExecContext) *nativeengine.Value {
		return nativeengine.NewFunction(func(ec *nativeengine.ExecContext, recv *nativeengine.Value, args []*nativeengine.Value) (*nativeengine.Value, error) {
			for {
				select {
				case <-ec.Done():
					return nil, errors.New("interrupted")
				default:
				}
			}
		})
	})

	start := time.Now()
	_, err := r.ApplySync(context.Background(), nil, nil, v8ref.ApplyOptions{Timeout: 25})
	elapsed := time.Since(start)

	require.Error(t, err)
	var verr *v8ref.Error
	require.True(t, errors.As(err, &verr))
	require.Equal(t, v8ref.GenericErrorKind, verr.Kind)
	require.Equal(t, "Script execution timed out.", verr.Message)
	require.Less(t, elapsed, 200*time.Millisecond)
}

// S6: r = new Reference({}); r.setSync("k", {nested:1}, {copy:true});
// r.getSync("k", {copy:true}) yields {nested:1} structurally.
func TestScenarioSetGetCopy(t *testing.T) {
	iso := nativeengine.New()
	defer iso.Dispose()

	r := captureIn(t, iso, func(ec v8ref.ExecContext) *nativeengine.Value {
		return nativeengine.NewObject()
	})

	ok, err := r.SetSync(context.Background(), "k", map[string]any{"nested": 1}, v8ref.TransferOptions{Copy: true})
	require.NoError(t, err)
	require.True(t, ok)

	got, err := r.GetSync(context.Background(), "k", v8ref.TransferOptions{Copy: true})
	require.NoError(t, err)
	require.Equal(t, map[string]any{"nested": 1}, got)
}

// Property 2: idempotent release.
func TestPropertyIdempotentRelease(t *testing.T) {
	iso := nativeengine.New()
	defer iso.Dispose()

	r := captureIn(t, iso, func(ec v8ref.ExecContext) *nativeengine.Value {
		return nativeengine.FromGo("hi")
	})

	r.Release()
	r.Release() // no-op, must not panic

	_, err := r.Typeof()
	require.Error(t, err)
	var verr *v8ref.Error
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "Reference has been released", verr.Message)
}

// Property 3: ownership check.
func TestPropertyOwnershipCheck(t *testing.T) {
	isoA := nativeengine.New()
	defer isoA.Dispose()
	isoB := nativeengine.New()
	defer isoB.Dispose()

	r := captureIn(t, isoA, func(ec v8ref.ExecContext) *nativeengine.Value {
		return nativeengine.FromGo("hi")
	})

	_, err := r.Deref(isoB, v8ref.DerefOptions{})
	require.Error(t, err)
	var verr *v8ref.Error
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "Cannot dereference this from current isolate", verr.Message)

	v, err := r.Deref(isoA, v8ref.DerefOptions{})
	require.NoError(t, err)
	require.NotNil(t, v)
}

// Property 4: derefInto is single-use.
func TestPropertyDerefIntoSingleUse(t *testing.T) {
	iso := nativeengine.New()
	defer iso.Dispose()

	r := captureIn(t, iso, func(ec v8ref.ExecContext) *nativeengine.Value {
		return nativeengine.FromGo("hi")
	})

	d, err := r.DerefInto(v8ref.DerefIntoOptions{})
	require.NoError(t, err)

	var first, second any
	err = iso.RunLocked(context.Background(), func(ec v8ref.ExecContext) error {
		var e error
		first, e = d.TransferIn(ec, iso)
		return e
	})
	require.NoError(t, err)
	require.NotNil(t, first)

	err = iso.RunLocked(context.Background(), func(ec v8ref.ExecContext) error {
		var e error
		second, e = d.TransferIn(ec, iso)
		return e
	})
	require.Error(t, err)
	require.Nil(t, second)
	var verr *v8ref.Error
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "The return value of `derefInto()` should only be used once", verr.Message)
}

// Property 10: release inside deref.
func TestPropertyReleaseInsideDeref(t *testing.T) {
	iso := nativeengine.New()
	defer iso.Dispose()

	r := captureIn(t, iso, func(ec v8ref.ExecContext) *nativeengine.Value {
		return nativeengine.FromGo("hi")
	})

	v, err := r.Deref(iso, v8ref.DerefOptions{Release: true})
	require.NoError(t, err)
	require.NotNil(t, v)

	_, err = r.Typeof()
	require.Error(t, err)
}

// Property 9: ordering of sequential applySync calls from one caller to one
// target isolate.
func TestPropertyApplyOrdering(t *testing.T) {
	iso := nativeengine.New()
	defer iso.Dispose()

	var order []int
	r := captureIn(t, iso, func(ec v8ref.ExecContext) *nativeengine.Value {
		return nativeengine.NewFunction(func(ec *nativeengine.ExecContext, recv *nativeengine.Value, args []*nativeengine.Value) (*nativeengine.Value, error) {
			n, _ := args[0].DeepCopy()
			order = append(order, n.(int))
			return nativeengine.Undefined, nil
		})
	})

	for i := 0; i < 5; i++ {
		_, err := r.ApplySync(context.Background(), nil, []any{i}, v8ref.ApplyOptions{})
		require.NoError(t, err)
	}
	require.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

// A derefInto() result passed as an apply() argument materializes as the
// live underlying value in the callee, which is the entire point of
// derefInto per spec §4.5/§4.8: it's not flattened into an opaque blob.
func TestArgumentDerefIntoMaterializes(t *testing.T) {
	iso := nativeengine.New()
	defer iso.Dispose()

	var seen any
	fn := captureIn(t, iso, func(ec v8ref.ExecContext) *nativeengine.Value {
		return nativeengine.NewFunction(func(ec *nativeengine.ExecContext, recv *nativeengine.Value, args []*nativeengine.Value) (*nativeengine.Value, error) {
			seen, _ = args[0].DeepCopy()
			return nativeengine.Undefined, nil
		})
	})
	payload := captureIn(t, iso, func(ec v8ref.ExecContext) *nativeengine.Value {
		return nativeengine.FromGo(99)
	})

	d, err := payload.DerefInto(v8ref.DerefIntoOptions{})
	require.NoError(t, err)

	_, err = fn.ApplySync(context.Background(), nil, []any{d}, v8ref.ApplyOptions{})
	require.NoError(t, err)
	require.EqualValues(t, 99, seen)
}

// A *ReferenceHandle passed directly as an apply() argument (not through
// derefInto) re-materializes as a brand new ReferenceHandle at the callee,
// per spec §4.2 rule 1 — it is not silently copied or flattened either.
func TestArgumentReferenceHandleDelegatesToItself(t *testing.T) {
	iso := nativeengine.New()
	defer iso.Dispose()

	var arrived *v8ref.ReferenceHandle
	fn := captureIn(t, iso, func(ec v8ref.ExecContext) *nativeengine.Value {
		return nativeengine.NewFunction(func(ec *nativeengine.ExecContext, recv *nativeengine.Value, args []*nativeengine.Value) (*nativeengine.Value, error) {
			raw, _ := args[0].DeepCopy()
			arrived, _ = raw.(*v8ref.ReferenceHandle)
			return nativeengine.Undefined, nil
		})
	})
	payload := captureIn(t, iso, func(ec v8ref.ExecContext) *nativeengine.Value {
		return nativeengine.FromGo("hello")
	})

	_, err := fn.ApplySync(context.Background(), nil, []any{payload}, v8ref.ApplyOptions{})
	require.NoError(t, err)
	require.NotNil(t, arrived)
	require.NotSame(t, payload, arrived)

	cp, err := arrived.CopySync(context.Background())
	require.NoError(t, err)
	require.Equal(t, "hello", cp)
}

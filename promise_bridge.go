package v8ref

import "fmt"

// This file is the async-promise bridge of spec §4.7: it lets a caller
// synchronously awaiting applySyncPromise be woken by a promise settling on
// the target isolate, without blocking that isolate's own loop in the
// meantime. The did_finish discipline itself lives in PendingResult (see
// task.go): whichever of "timeout" or "settle" reaches the shared done slot
// first wins, and the loser's work is simply discarded.

// bridgeCallResult is phase2Async's job for applySyncPromise (spec §4.6):
// given the value a function call returned, either it already is the
// result (not a promise — settle immediately) or it is a promise, in which
// case install .then handlers that settle once, later, under the target
// isolate's own lock.
func bridgeCallResult(ec ExecContext, src Isolate, result Value, done func(Transferable, error)) {
	p, isPromise := result.AsPromise()
	if !isPromise {
		t, err := transferOut(ec, src, result, TransferOptions{}, positionReturn)
		done(t, err)
		return
	}

	p.Then(func(ok bool, val Value, rejection Value) {
		if ok {
			t, err := transferOut(ec, src, val, TransferOptions{}, positionReturn)
			done(t, err)
			return
		}
		done(nil, rejectionToError(rejection))
	})
}

// rejectionToError implements spec §4.7's rejection policy: an
// engine-native error is copied as-is; anything else (including
// primitives — see spec §8 property 8) is replaced with a synthetic
// "non-Error thrown" RuntimeError, so callers never have to distinguish
// "rejected with 3" from "rejected with a broken object" by hand.
func rejectionToError(rejection Value) error {
	if rejection != nil && rejection.IsError() {
		data, err := rejection.DeepCopy()
		if err != nil {
			return wrapError(RuntimeErrorKind, "script error", err)
		}
		return &Error{Kind: RuntimeErrorKind, Message: fmt.Sprint(data)}
	}
	return newError(RuntimeErrorKind, "non-Error thrown")
}

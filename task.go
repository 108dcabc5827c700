package v8ref

import (
	"context"
	"sync"
)

// taskSpec is the generic shape spec §4.3/§9 calls for: "model the driver as
// a generic routine parameterized over a task capability set {phase2,
// phase3, (optional) phase2Async}, not as a base class". Phase 1 is always
// the caller's own setup immediately before calling runThreePhaseTask, so it
// isn't represented as a field here; errors it raises surface synchronously
// simply because the caller's own code returns them before ever reaching
// this driver.
type taskSpec struct {
	target        Isolate
	timeoutMillis int

	// phase2 runs under target's lock and produces the Transferable to
	// send back to the caller. ModeSync and ModeSyncPromise bound it by
	// timeoutMillis; ModeAsync and ModeIgnored run it without a time bound.
	phase2 func(ExecContext) (Transferable, error)

	// phase2Async, set only for ModeSyncPromise, additionally receives a
	// completion callback. It must either call it before returning (the
	// underlying call didn't yield a promise) or arrange, via the
	// async-promise bridge, for it to be called exactly once later.
	phase2Async func(ec ExecContext, done func(Transferable, error))
}

// PendingResult is the Go-level stand-in for the "promise" spec §4.3's async
// mode returns: this package has no script engine of its own to hand a real
// Promise back to, so the async call shape is expressed the way
// joeycumines/go-utilpkg's eventloop.Promise exposes a settled value — a
// value slot guarded by a channel that is closed once the slot is filled.
type PendingResult struct {
	mu   sync.Mutex
	done chan struct{}
	val  any
	err  error
}

func newPendingResult() *PendingResult {
	return &PendingResult{done: make(chan struct{})}
}

func (p *PendingResult) settle(val any, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	select {
	case <-p.done:
		return // already settled; no-op (mirrors did_finish discipline, §4.7)
	default:
	}
	p.val, p.err = val, err
	close(p.done)
}

// Wait blocks until the task settles or ctx is done, whichever comes first.
// If ctx wins the race, Wait claims the done slot itself (the same
// co-owned, whoever-fires-first-wins discipline spec §4.7/§9 calls
// `did_finish`), so a settle() that arrives after a timeout is a silent
// no-op rather than a wasted race.
func (p *PendingResult) Wait(ctx context.Context) (any, error) {
	select {
	case <-p.done:
		return p.val, p.err
	case <-ctx.Done():
		if p.claim() {
			return nil, ctx.Err()
		}
		// settle() won the race in the gap between the two selects.
		return p.val, p.err
	}
}

// claim closes done itself, as the loser-becomes-a-no-op side of the
// did_finish race. Returns false if settle() already closed it.
func (p *PendingResult) claim() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	select {
	case <-p.done:
		return false
	default:
		close(p.done)
		return true
	}
}

// Channel returns a channel that is closed when the task settles, or when
// Wait gives up on its ctx and claims the slot (mirrors
// eventloop.Promise.ToChannel).
func (p *PendingResult) Channel() <-chan struct{} {
	return p.done
}

// runThreePhaseTask dispatches spec according to mode (spec §4.3 table) and
// returns the Phase 3 result already materialized via the returned
// Transferable's TransferIn, except in ModeAsync where materialization
// happens later, inside the PendingResult.
func runThreePhaseTask(ctx context.Context, spec taskSpec, mode AsyncMode) (any, error) {
	switch mode {
	case ModeIgnored:
		err := spec.target.Submit(func(ec ExecContext) {
			if _, err := spec.phase2(ec); err != nil {
				Logger.Warn("applyIgnored task failed", "error", err)
			}
		})
		if err != nil {
			Logger.Warn("ignored task could not be scheduled", "error", err)
		}
		return nil, nil

	case ModeAsync:
		pr := newPendingResult()
		err := spec.target.Submit(func(ec ExecContext) {
			t, err := spec.phase2(ec)
			if err != nil {
				pr.settle(nil, err)
				return
			}
			v, err := t.TransferIn(ec, spec.target)
			pr.settle(v, err)
		})
		if err != nil {
			return nil, err
		}
		return pr, nil

	case ModeSync:
		var transferable Transferable
		err := runWithTimeout(ctx, spec.target, spec.timeoutMillis, func(ec ExecContext) error {
			t, err := spec.phase2(ec)
			transferable = t
			return err
		})
		if err != nil {
			return nil, err
		}
		return materialize(transferable, spec.target)

	case ModeSyncPromise:
		tctx, cancel := withTimeout(ctx, spec.timeoutMillis)
		defer cancel()

		pr := newPendingResult()
		err := spec.target.RunLocked(tctx, func(ec ExecContext) error {
			// phase2Async attaches settle handlers that the target
			// isolate invokes later, under its own lock, once the
			// promise settles (spec §4.7) — by then this ec is no
			// longer current, so the callback below passes nil;
			// none of this package's Transferable.TransferIn
			// implementations dereference ec.
			spec.phase2Async(ec, func(t Transferable, err error) {
				if err != nil {
					pr.settle(nil, err)
					return
				}
				v, err := t.TransferIn(nil, spec.target)
				pr.settle(v, err)
			})
			return nil
		})
		if err != nil {
			if tctx.Err() == context.DeadlineExceeded {
				return nil, newError(GenericErrorKind, msgTimeout)
			}
			return nil, err
		}

		val, err := pr.Wait(tctx)
		if err != nil {
			if tctx.Err() == context.DeadlineExceeded {
				return nil, newError(GenericErrorKind, msgTimeout)
			}
			return nil, err
		}
		return val, nil

	default:
		return nil, newError(InternalErrorKind, "unknown async mode")
	}
}

func materialize(t Transferable, dest Isolate) (any, error) {
	if t == nil {
		return nil, nil
	}
	return t.TransferIn(nil, dest)
}

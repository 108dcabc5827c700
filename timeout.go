package v8ref

import (
	"context"
	"time"
)

// withTimeout bounds the wall-clock duration of the function that runs
// under an isolate's lock (spec §4.4). A zero timeout disables the guard
// and simply passes ctx through. The bound covers the whole function run
// under the lock: runThreePhaseTask applies it to all of phase2, which for
// apply includes marshaling the receiver, arguments and result, not only
// the call itself.
func withTimeout(ctx context.Context, timeoutMillis int) (context.Context, context.CancelFunc) {
	if timeoutMillis <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(timeoutMillis)*time.Millisecond)
}

// runWithTimeout runs fn under iso's lock, bounded by timeoutMillis. On
// expiry, it arms the isolate's interrupt (via ExecContext.Interrupt, which
// RunLocked is expected to invoke internally when its ctx is done) and
// converts the resulting context error into the bit-stable timeout message
// (spec §6, §7).
func runWithTimeout(ctx context.Context, iso Isolate, timeoutMillis int, fn func(ExecContext) error) error {
	tctx, cancel := withTimeout(ctx, timeoutMillis)
	defer cancel()

	err := iso.RunLocked(tctx, fn)
	if err != nil && tctx.Err() == context.DeadlineExceeded {
		return newError(GenericErrorKind, msgTimeout)
	}
	if err != nil && ctx.Err() == context.Canceled {
		return wrapError(GenericErrorKind, msgDisposed, err)
	}
	return err
}

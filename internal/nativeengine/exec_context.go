package nativeengine

import (
	"sync"

	"github.com/ionos-cloud/v8ref"
)

// ExecContext is the capability handed to code running under an Isolate's
// lock (spec §1's "value-handle operations"). It is only valid for the
// duration of the RunLocked/dispatch call that created it.
type ExecContext struct {
	iso  *Isolate
	once sync.Once
	done chan struct{}
}

func newExecContext(iso *Isolate) *ExecContext {
	return &ExecContext{iso: iso, done: make(chan struct{})}
}

// NewValue wraps a detached Go value as a live Value in this isolate, the
// way the teacher's Context.NewValue turns a Go primitive/struct into a
// *v8go.Value. Unlike the teacher, this also accepts a raw v8ref.Value
// (idempotent) and an arbitrary opaque Go value, wrapped opaquely so it can
// cross as an argument without being copied or rejected.
func (ec *ExecContext) NewValue(v any) (v8ref.Value, error) {
	if vv, ok := v.(v8ref.Value); ok {
		return vv, nil
	}
	return newValueFrom(v), nil
}

// Interrupt satisfies v8ref.ExecContext (spec §4.4): arms the termination
// signal a cooperatively-written Func can observe via Done(). This engine
// has no bytecode to forcibly halt, so unlike the teacher's cgo
// TerminateExecution call, interruption here is advisory — a Func that
// never checks Done() simply never notices.
func (ec *ExecContext) Interrupt() {
	ec.once.Do(func() { close(ec.done) })
}

// Done reports the termination signal armed by Interrupt. A long-running
// Func should select on it the way V8 bytecode polls its own termination
// flag between instructions.
func (ec *ExecContext) Done() <-chan struct{} {
	return ec.done
}

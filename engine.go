package v8ref

import "context"

// This file names the out-of-scope collaborators spec §1 assumes are given:
// "per-isolate locked execution, a scheduler that accepts tasks targeted at
// an isolate, primitive-value deep-copy, and value-handle operations (get,
// set, call, type inspection)". The scripting engine itself (parsing,
// compilation, garbage collection) and the isolate lifecycle manager are not
// modeled here beyond the shape this package needs to drive them; a host
// embeds a concrete Isolate/Value implementation (see internal/nativeengine
// for a reference one used by this package's own tests).

// IsolateID identifies an isolate across the lifetime of the process. Two
// Isolate values with the same ID are the same isolate.
type IsolateID string

// Isolate is the locked-execution, task-queue-accepting resource the core
// schedules work onto (spec §4.3, §5). Its creation and disposal are owned
// by the host; this package only ever asks to run code under its lock or to
// enqueue a task on its per-isolate queue.
type Isolate interface {
	ID() IsolateID

	// RunLocked acquires the isolate's lock for the calling goroutine,
	// invokes fn with an ExecContext valid only for the call's duration,
	// and releases the lock. If ctx is done before the lock is acquired,
	// fn is not run and ctx.Err() is returned. If ctx is done while fn is
	// running, RunLocked arms the isolate's interrupt (spec §4.4) and
	// returns ctx.Err() once fn unwinds.
	RunLocked(ctx context.Context, fn func(ExecContext) error) error

	// Submit enqueues fn to run on this isolate's task queue and returns
	// immediately; fn runs later, under the isolate's lock, in submission
	// order relative to other Submit calls from the same goroutine (spec
	// §5 ordering guarantee). Submit returns an error without enqueueing
	// if the isolate is already Disposed.
	Submit(fn func(ExecContext)) error

	// Disposed reports whether the isolate has been torn down. Tasks still
	// queued at disposal are dropped without running; a Submit-ed fn has no
	// error parameter, so nothing is reported to its submitter, and a
	// ModeAsync PendingResult waiting on a dropped task does not settle.
	Disposed() bool
}

// ExecContext is the capability handed to code running under an Isolate's
// lock: building new values and arming the termination signal.
type ExecContext interface {
	// NewValue converts a detached Go value (primitive, or plain
	// map/slice data, or an opaque Go value the Engine chooses to wrap)
	// into a live Value in the current isolate's heap.
	NewValue(v any) (Value, error)

	// Interrupt asks the engine to terminate the script currently
	// running in this isolate (spec §4.4). A no-op if nothing is running.
	Interrupt()
}

// Value is a handle to a script-level value living in one isolate's heap.
// All methods are only valid while that isolate is locked by the calling
// goroutine (spec §3 invariant).
type Value interface {
	Kind() ValueKind
	IsCallable() bool

	// IsError reports whether this value is an engine-native error
	// object (spec §4.7/§7: "engine errors are copied as-is").
	IsError() bool

	// DeepCopy produces a detached Go value structurally equal to this
	// value, safe to use from any goroutine. Fails for values the engine
	// cannot serialize (functions, etc) with an InternalErrorKind-shaped
	// error (spec §7).
	DeepCopy() (any, error)

	// Get/Set/Delete implement ECMA-262 7.3-style property access.
	// Set's ok return mirrors `[[Set]]`'s boolean result (spec §4.5).
	Get(key any) (Value, error)
	Set(key any, val Value) (ok bool, err error)
	Delete(key any) bool

	// Call invokes this value as a function with the given receiver and
	// arguments, under ec's isolate's lock, returning an error if this
	// value is not callable (spec §6: "Reference is not a function").
	Call(ec ExecContext, receiver Value, args []Value) (Value, error)

	// AsPromise reports whether this value is a Promise and, if so,
	// returns a handle for the async-promise bridge (spec §4.7).
	AsPromise() (Promise, bool)
}

// Promise is the minimal surface the async-promise bridge needs: the
// ability to attach a single settle observer. Implementations must invoke
// onSettle at most once, from the isolate's own loop.
type Promise interface {
	Then(onSettle func(ok bool, val Value, rejection Value))
}

// Package nativeengine is a pure-Go reference implementation of the
// v8ref.Isolate/ExecContext/Value/Promise capabilities (spec §1's "assumed
// given" collaborators). v8ref never imports it; it exists so that
// v8ref's own tests have a real scheduler and heap to drive instead of a
// hand-rolled stub for every test.
//
// It borrows its shape from the teacher's own Isolate/Object/Function
// split (one lock per isolate, values addressed through a context), but
// has no cgo, no V8, and no script parser: "scripts" are plain Go
// closures, and the "heap" is a tree of Go maps, slices and primitives.
package nativeengine

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/ionos-cloud/v8ref"
)

var (
	errDisposed  = errors.New("isolate disposed")
	errQueueFull = errors.New("isolate task queue full")
)

// Isolate is a single-threaded execution environment: at most one
// goroutine may hold its lock at a time (spec §5). Unlike the teacher's
// cgo Isolate, which hands the native V8 lock to whichever OS thread calls
// Lock(), this one arbitrates purely in Go with a weight-1 semaphore, the
// way ghjramos-aistore's dependency graph already pulls in
// golang.org/x/sync for exactly this kind of single-slot gate.
type Isolate struct {
	id  uuid.UUID
	sem *semaphore.Weighted

	mu       sync.Mutex
	disposed bool
	queue    chan task
	group    *errgroup.Group
	cancel   context.CancelFunc
	logger   hclog.Logger

	global *Object
}

type task struct {
	fn func(*ExecContext)
}

const defaultQueueDepth = 256

// IsolateOptions configures a new Isolate: the generalized form of the
// teacher's NewIsolateWith(initialHeap, maxHeap uint64) construction-time
// config, covering the two knobs this engine actually has a use for (a real
// V8-backed Isolate would add heap-size fields of its own here). The zero
// value is a fully usable default: a 256-task queue and v8ref.Logger.
type IsolateOptions struct {
	// QueueDepth bounds how many Submit-ed tasks may be pending at once.
	// <= 0 uses defaultQueueDepth.
	QueueDepth int
	// Logger overrides v8ref.Logger for this isolate's own internal
	// diagnostics (currently: a submitted task panicking). nil uses
	// v8ref.Logger.
	Logger hclog.Logger
}

// New starts an isolate: one dispatcher goroutine, run inside an errgroup
// so Dispose can wait for it to exit (the same supervision shape
// ghjramos-aistore's worker goroutines use errgroup for). A panic in a
// submitted task is recovered and logged by runTask, so it does not stop
// the dispatcher. opts is variadic
// so the common case, New(), keeps working unchanged; passing more than one
// is a caller error and only the first is used.
func New(opts ...IsolateOptions) *Isolate {
	var o IsolateOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	depth := o.QueueDepth
	if depth <= 0 {
		depth = defaultQueueDepth
	}

	ctx, cancel := context.WithCancel(context.Background())
	group, gctx := errgroup.WithContext(ctx)
	iso := &Isolate{
		id:     uuid.New(),
		sem:    semaphore.NewWeighted(1),
		queue:  make(chan task, depth),
		group:  group,
		cancel: cancel,
		logger: v8ref.LoggerOrDefault(o.Logger),
		global: newObject(),
	}
	group.Go(func() error {
		iso.dispatch(gctx)
		return nil
	})
	return iso
}

func (iso *Isolate) dispatch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case t, ok := <-iso.queue:
			if !ok {
				return
			}
			_ = iso.sem.Acquire(context.Background(), 1)
			iso.runTask(t)
			iso.sem.Release(1)
		}
	}
}

// runTask runs a submitted task's fn, recovering a panic into a logged
// warning rather than taking the whole dispatcher down with it — the one
// place in this engine a construction-time Logger override is actually
// observable.
func (iso *Isolate) runTask(t task) {
	defer func() {
		if r := recover(); r != nil {
			iso.logger.Warn("submitted task panicked", "recover", r)
		}
	}()
	t.fn(newExecContext(iso))
}

// ID satisfies v8ref.Isolate.
func (iso *Isolate) ID() v8ref.IsolateID { return v8ref.IsolateID(iso.id.String()) }

// Global returns the isolate's global object, the nearest equivalent this
// engine has to the teacher's Context; references captured against values
// reachable from it behave exactly like any other captured value.
func (iso *Isolate) Global() *Object { return iso.global }

// RunLocked satisfies v8ref.Isolate: acquires the isolate's weight-1
// semaphore for the calling goroutine, runs fn, and releases it. If ctx is
// done before the semaphore is acquired, the call is abandoned and
// ctx.Err() is returned without running fn. If ctx expires while fn is
// already running, a watcher goroutine calls ec.Interrupt() (spec §4.4:
// "the engine is asked to interrupt execution"); a Func written to poll
// ec.Done() unwinds promptly, and runWithTimeout (v8ref's timeout.go)
// turns the resulting error into the bit-stable timeout message regardless
// of what fn itself returned.
func (iso *Isolate) RunLocked(ctx context.Context, fn func(v8ref.ExecContext) error) error {
	if iso.Disposed() {
		return errDisposed
	}
	if err := iso.sem.Acquire(ctx, 1); err != nil {
		return ctx.Err()
	}
	defer iso.sem.Release(1)

	ec := newExecContext(iso)
	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		select {
		case <-ctx.Done():
			ec.Interrupt()
		case <-watchDone:
		}
	}()
	err := fn(ec)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

// Submit satisfies v8ref.Isolate: enqueues fn on the dispatcher's channel,
// preserving submission order per caller (spec §4.3 ordering guarantee)
// since a Go channel is itself FIFO.
func (iso *Isolate) Submit(fn func(v8ref.ExecContext)) error {
	iso.mu.Lock()
	disposed := iso.disposed
	iso.mu.Unlock()
	if disposed {
		return errDisposed
	}
	select {
	case iso.queue <- task{fn: func(ec *ExecContext) { fn(ec) }}:
		return nil
	default:
		return errQueueFull
	}
}

// Disposed satisfies v8ref.Isolate.
func (iso *Isolate) Disposed() bool {
	iso.mu.Lock()
	defer iso.mu.Unlock()
	return iso.disposed
}

// Dispose tears the isolate down: queued tasks are dropped without running
// (nothing is reported to their submitters) and further Submit/RunLocked
// calls fail with errDisposed. It also drops this isolate's
// RemoteHandle registry table once the dispatcher has fully stopped, so a
// long-lived host that creates and disposes many isolates doesn't leak one
// table per isolate for the life of the process.
func (iso *Isolate) Dispose() {
	iso.mu.Lock()
	if iso.disposed {
		iso.mu.Unlock()
		return
	}
	iso.disposed = true
	iso.mu.Unlock()
	iso.cancel()
	close(iso.queue)
	_ = iso.group.Wait()
	v8ref.DropRegistry(iso.ID())
}

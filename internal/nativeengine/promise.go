package nativeengine

import (
	"sync"

	"github.com/ionos-cloud/v8ref"
)

// Promise is the settle side of a promise Value: whatever holds the
// *Promise returned by NewPromise calls Resolve/Reject exactly once, and
// v8ref's async-promise bridge (promise_bridge.go's bridgeCallResult)
// installs the .then-equivalent handler via Then.
type Promise struct {
	mu       sync.Mutex
	settled  bool
	ok       bool
	val      *Value
	rejected *Value
	handlers []func(ok bool, val v8ref.Value, rejection v8ref.Value)
}

func newPromise() *Promise {
	return &Promise{}
}

// Resolve settles the promise with val, invoking any handler installed so
// far (or already installed later, since Then checks settled state too).
// A second call is a no-op, matching a real promise's settle-once contract.
func (p *Promise) Resolve(val *Value) {
	p.settle(true, val, nil)
}

// Reject settles the promise with a rejection reason.
func (p *Promise) Reject(rejection *Value) {
	p.settle(false, nil, rejection)
}

func (p *Promise) settle(ok bool, val, rejection *Value) {
	p.mu.Lock()
	if p.settled {
		p.mu.Unlock()
		return
	}
	p.settled, p.ok, p.val, p.rejected = true, ok, val, rejection
	handlers := p.handlers
	p.handlers = nil
	p.mu.Unlock()

	for _, h := range handlers {
		p.invoke(h)
	}
}

func (p *Promise) invoke(h func(ok bool, val v8ref.Value, rejection v8ref.Value)) {
	var valArg, rejArg v8ref.Value
	if p.val != nil {
		valArg = p.val
	}
	if p.rejected != nil {
		rejArg = p.rejected
	}
	h(p.ok, valArg, rejArg)
}

// Then satisfies v8ref.Promise: installs onSettle, calling it immediately
// if the promise already settled, or queuing it for the eventual
// Resolve/Reject otherwise.
func (p *Promise) Then(onSettle func(ok bool, val v8ref.Value, rejection v8ref.Value)) {
	p.mu.Lock()
	if !p.settled {
		p.handlers = append(p.handlers, onSettle)
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	p.invoke(onSettle)
}

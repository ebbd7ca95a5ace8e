// Package future implements the proxy object for an in-flight
// asynchronous operation and its three consumption modes: blocking wait
// (with optional timeout), polling, and one-shot callback registration.
//
// A future makes exactly one terminal transition, to Success or to
// Error. The outcome (code, message, payload) is published before any
// waiter is signaled or callback invoked, so no consumer can observe a
// terminal state with partially-written result data.
package future

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/cassgate/cassgate/internal/cerr"
)

// State is the observable lifecycle of a future.
type State int32

const (
	Pending State = iota
	Success
	Error
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Callback is invoked exactly once when the future completes. It runs
// either synchronously during registration (future already terminal) or
// on the runtime's completion goroutine — the registrant must not assume
// a particular thread.
type Callback func(f *Future, userData any)

// Future is the bridge-visible proxy for one asynchronous operation.
type Future struct {
	mu   sync.Mutex
	done chan struct{}

	// state transitions Pending -> {Success, Error} exactly once. The
	// atomic store happens after the outcome fields below are written,
	// so a Poll that observes a terminal state may freely read them.
	state atomic.Int32

	// Outcome, immutable once state is terminal.
	code    cerr.Code
	message string
	payload any

	cb         Callback
	cbUserData any
	cbSet      bool

	// cbMu gates callback invocation against Detach: the detached flag
	// is re-checked under it immediately before invoking, so a release
	// that wins the gate suppresses the callback for good.
	cbMu     sync.Mutex
	detached atomic.Bool
}

// New creates a pending future.
func New() *Future {
	return &Future{done: make(chan struct{})}
}

// complete performs the single terminal transition. Late calls (a
// detached operation finishing after a competing completion) are
// discarded.
func (f *Future) complete(state State, code cerr.Code, message string, payload any) {
	f.mu.Lock()
	if State(f.state.Load()) != Pending {
		f.mu.Unlock()
		return
	}

	f.code = code
	f.message = message
	f.payload = payload
	f.state.Store(int32(state))

	cb, userData := f.cb, f.cbUserData
	f.cb, f.cbUserData = nil, nil

	close(f.done)
	f.mu.Unlock()

	// Invoke outside the state lock so a callback may re-enter the
	// future (poll it, read its outcome) without deadlocking.
	if cb != nil {
		f.cbMu.Lock()
		if !f.detached.Load() {
			cb(f, userData)
		}
		f.cbMu.Unlock()
	}
}

// Complete resolves the future successfully with the operation's payload
// (a result set, prepared metadata, schema snapshot, or nil).
func (f *Future) Complete(payload any) {
	f.complete(Success, cerr.Ok, "", payload)
}

// Fail resolves the future with the error's stable (code, message) pair.
func (f *Future) Fail(err error) {
	code, msg := cerr.Flatten(err)
	f.complete(Error, code, msg, nil)
}

// Wait blocks the calling thread until the future is terminal.
func (f *Future) Wait() {
	<-f.done
}

// WaitTimed blocks until the future is terminal or the timeout elapses.
// On timeout the future stays pending and may be waited on again or have
// a callback attached later.
func (f *Future) WaitTimed(timeout time.Duration) bool {
	select {
	case <-f.done:
		return true
	default:
	}
	if timeout <= 0 {
		return false
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-f.done:
		return true
	case <-t.C:
		return false
	}
}

// Poll reports the current state without blocking.
func (f *Future) Poll() State {
	return State(f.state.Load())
}

// Ready reports whether the future is terminal.
func (f *Future) Ready() bool {
	return f.Poll() != Pending
}

// SetCallback registers the one-shot completion callback. If the future
// is already terminal the callback fires synchronously, observing the
// same outcome a blocking wait would. A future accepts at most one
// callback for its whole lifetime.
func (f *Future) SetCallback(cb Callback, userData any) error {
	if cb == nil {
		return cerr.New(cerr.ErrLibBadParams, "callback is null")
	}

	f.mu.Lock()
	if f.cbSet {
		f.mu.Unlock()
		return cerr.New(cerr.ErrLibCallbackAlreadySet, "future already has a callback")
	}
	f.cbSet = true

	if State(f.state.Load()) != Pending {
		f.mu.Unlock()
		cb(f, userData)
		return nil
	}

	f.cb = cb
	f.cbUserData = userData
	f.mu.Unlock()
	return nil
}

// Detach severs the caller's interest when the future handle is released
// with work still in flight. The underlying operation keeps running and
// its result is discarded; a registered callback will never fire after
// Detach returns.
func (f *Future) Detach() {
	f.mu.Lock()
	f.detached.Store(true)
	f.cb = nil
	f.cbUserData = nil
	f.mu.Unlock()

	// Barrier: if no callback is mid-invocation this settles the gate so
	// nothing fires after we return. TryLock avoids self-deadlock when
	// the callback itself releases the future handle.
	if f.cbMu.TryLock() {
		f.cbMu.Unlock()
	}
}

// Outcome returns the published (code, message) pair. Valid only after
// the future is terminal; a pending future reports Ok and an empty
// message.
func (f *Future) Outcome() (cerr.Code, string) {
	if !f.Ready() {
		return cerr.Ok, ""
	}
	return f.code, f.message
}

// Payload returns the success payload, or nil when the future is
// pending or failed.
func (f *Future) Payload() any {
	if f.Poll() != Success {
		return nil
	}
	return f.payload
}

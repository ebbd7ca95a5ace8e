package future

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cassgate/cassgate/internal/cerr"
)

func TestCompletePublishesBeforeSignaling(t *testing.T) {
	f := New()

	var observed atomic.Value
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.Wait()
			// Every waiter woken after the terminal transition must see
			// the final payload, never a partial write.
			observed.Store(f.Payload())
		}()
	}

	f.Complete("payload")
	wg.Wait()

	assert.Equal(t, "payload", observed.Load())
	assert.Equal(t, Success, f.Poll())

	code, msg := f.Outcome()
	assert.Equal(t, cerr.Ok, code)
	assert.Empty(t, msg)
}

func TestFail(t *testing.T) {
	f := New()
	f.Fail(cerr.New(cerr.ErrServerSyntaxError, "line 1: no viable alternative"))

	assert.Equal(t, Error, f.Poll())
	code, msg := f.Outcome()
	assert.Equal(t, cerr.ErrServerSyntaxError, code)
	assert.Equal(t, "line 1: no viable alternative", msg)
	assert.Nil(t, f.Payload())
}

func TestExactlyOneTerminalTransition(t *testing.T) {
	f := New()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if n%2 == 0 {
				f.Complete(n)
			} else {
				f.Fail(cerr.New(cerr.ErrLibInternalError, "late"))
			}
		}(i)
	}
	wg.Wait()

	// Whatever won, the state is terminal and self-consistent: a
	// success has a payload and code Ok, an error has neither.
	state := f.Poll()
	require.NotEqual(t, Pending, state)
	code, _ := f.Outcome()
	if state == Success {
		assert.Equal(t, cerr.Ok, code)
		assert.NotNil(t, f.Payload())
	} else {
		assert.Equal(t, cerr.ErrLibInternalError, code)
		assert.Nil(t, f.Payload())
	}

	// All concurrent observers agree.
	for i := 0; i < 4; i++ {
		assert.Equal(t, state, f.Poll())
	}
}

func TestWaitTimed(t *testing.T) {
	f := New()

	// Timeout leaves the future pending and re-waitable.
	assert.False(t, f.WaitTimed(20*time.Millisecond))
	assert.Equal(t, Pending, f.Poll())

	go func() {
		time.Sleep(30 * time.Millisecond)
		f.Complete(nil)
	}()

	assert.True(t, f.WaitTimed(2*time.Second))
	assert.Equal(t, Success, f.Poll())

	// Waiting on an already-terminal future returns immediately even
	// with a zero timeout.
	assert.True(t, f.WaitTimed(0))
}

func TestCallbackFiresOnCompletion(t *testing.T) {
	f := New()

	fired := make(chan any, 1)
	require.NoError(t, f.SetCallback(func(f *Future, userData any) {
		// The outcome must already be published when the callback runs.
		assert.Equal(t, Success, f.Poll())
		assert.Equal(t, 42, f.Payload())
		fired <- userData
	}, "user-data"))

	f.Complete(42)

	select {
	case ud := <-fired:
		assert.Equal(t, "user-data", ud)
	case <-time.After(time.Second):
		t.Fatal("callback never fired")
	}
}

func TestCallbackAfterTerminalFiresSynchronously(t *testing.T) {
	f := New()
	f.Fail(cerr.New(cerr.ErrLibRequestTimedOut, "deadline"))

	var fired int
	require.NoError(t, f.SetCallback(func(f *Future, _ any) {
		code, _ := f.Outcome()
		assert.Equal(t, cerr.ErrLibRequestTimedOut, code)
		fired++
	}, nil))

	// Synchronous: fired before SetCallback returned.
	assert.Equal(t, 1, fired)
}

func TestCallbackExactlyOnceUnderRace(t *testing.T) {
	// Registration racing completion must produce exactly one
	// invocation, never zero, never two.
	for i := 0; i < 200; i++ {
		f := New()
		var fired atomic.Int32

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = f.SetCallback(func(*Future, any) { fired.Add(1) }, nil)
		}()
		go func() {
			defer wg.Done()
			f.Complete(nil)
		}()
		wg.Wait()

		assert.Equal(t, int32(1), fired.Load())
	}
}

func TestSecondCallbackRejected(t *testing.T) {
	f := New()
	require.NoError(t, f.SetCallback(func(*Future, any) {}, nil))

	err := f.SetCallback(func(*Future, any) {}, nil)
	require.Error(t, err)
	assert.Equal(t, cerr.ErrLibCallbackAlreadySet, cerr.CodeOf(err))

	// Still rejected after the first callback has fired.
	f.Complete(nil)
	err = f.SetCallback(func(*Future, any) {}, nil)
	assert.Equal(t, cerr.ErrLibCallbackAlreadySet, cerr.CodeOf(err))
}

func TestNilCallbackRejected(t *testing.T) {
	f := New()
	err := f.SetCallback(nil, nil)
	assert.Equal(t, cerr.ErrLibBadParams, cerr.CodeOf(err))
}

func TestDetachSuppressesCallback(t *testing.T) {
	f := New()

	var fired atomic.Int32
	require.NoError(t, f.SetCallback(func(*Future, any) { fired.Add(1) }, nil))

	// Caller releases the future handle before completion.
	f.Detach()

	// The in-flight operation finishes anyway; nothing crashes and the
	// callback never fires.
	f.Complete("discarded")
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, fired.Load())

	// The result is still internally consistent for the detached side.
	assert.Equal(t, Success, f.Poll())
}

func TestDetachRacingCompletion(t *testing.T) {
	// Whatever the interleaving, the callback fires at most once and
	// never after Detach returned.
	for i := 0; i < 200; i++ {
		f := New()
		var fired atomic.Int32
		_ = f.SetCallback(func(*Future, any) { fired.Add(1) }, nil)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			f.Detach()
		}()
		go func() {
			defer wg.Done()
			f.Complete(nil)
		}()
		wg.Wait()

		assert.LessOrEqual(t, fired.Load(), int32(1))
	}
}

func TestPendingOutcomeIsNeutral(t *testing.T) {
	f := New()
	code, msg := f.Outcome()
	assert.Equal(t, cerr.Ok, code)
	assert.Empty(t, msg)
	assert.Nil(t, f.Payload())
	assert.False(t, f.Ready())
}

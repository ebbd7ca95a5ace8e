package exec

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cassgate/cassgate/internal/cerr"
)

func TestSubmitRunsTask(t *testing.T) {
	p := newPool(2)
	p.refs.Add(1)
	defer p.Release()

	done := make(chan struct{})
	require.NoError(t, p.Submit(func() { close(done) }))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task never ran")
	}
}

func TestSubmitDoesNotBlockOnSlowTasks(t *testing.T) {
	p := newPool(2)
	p.refs.Add(1)
	defer p.Release()

	release := make(chan struct{})
	defer close(release)

	// Fill one slot with a slow task; submission of the next must
	// return immediately.
	require.NoError(t, p.Submit(func() { <-release }))

	start := time.Now()
	require.NoError(t, p.Submit(func() {}))
	assert.Less(t, time.Since(start), 200*time.Millisecond)
}

func TestSubmitRejectsWhenSlotsExhausted(t *testing.T) {
	p := newPool(2)
	p.refs.Add(1)

	release := make(chan struct{})
	require.NoError(t, p.Submit(func() { <-release }))
	require.NoError(t, p.Submit(func() { <-release }))

	err := p.Submit(func() {})
	require.Error(t, err)
	assert.Equal(t, cerr.ErrLibNoStreams, cerr.CodeOf(err))

	close(release)
	p.Release()
}

func TestSubmitAfterTeardown(t *testing.T) {
	p := newPool(2)
	p.refs.Add(1)
	p.Release()

	err := p.Submit(func() {})
	require.Error(t, err)
	assert.Equal(t, cerr.ErrLibInvalidState, cerr.CodeOf(err))
}

func TestTaskPanicIsContained(t *testing.T) {
	p := newPool(2)
	p.refs.Add(1)
	defer p.Release()

	done := make(chan struct{})
	require.NoError(t, p.Submit(func() {
		defer close(done)
		panic("task fault")
	}))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task never ran")
	}

	// The slot must have been released despite the panic.
	require.Eventually(t, func() bool {
		return p.InFlight() == 0
	}, time.Second, 10*time.Millisecond)
	require.NoError(t, p.Submit(func() {}))
}

func TestTeardownWaitsForInFlightWork(t *testing.T) {
	p := newPool(2)
	p.refs.Add(1)

	var finished atomic.Bool
	require.NoError(t, p.Submit(func() {
		time.Sleep(100 * time.Millisecond)
		finished.Store(true)
	}))

	p.Release()
	assert.True(t, finished.Load())
	assert.Equal(t, uint64(1), p.Completed())
}

func TestAcquireSharedAcrossCallers(t *testing.T) {
	p1 := Acquire()
	p2 := Acquire()
	assert.Same(t, p1, p2)

	p1.Release()

	// Still alive while p2 holds a reference.
	require.NoError(t, p2.Submit(func() {}))
	p2.Release()

	// A fresh Acquire after full teardown builds a new context.
	p3 := Acquire()
	assert.NotSame(t, p1, p3)
	p3.Release()
}

func TestRetainKeepsPoolAlive(t *testing.T) {
	p := Acquire()
	p.Retain() // e.g. an in-flight future captured the context

	p.Release()
	require.NoError(t, p.Submit(func() {}))

	p.Release()
	err := p.Submit(func() {})
	assert.Error(t, err)
}

func TestConcurrentSubmit(t *testing.T) {
	p := newPool(8)
	p.refs.Add(1)

	var ran atomic.Int64
	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				if err := p.Submit(func() { ran.Add(1) }); err != nil {
					// Slot exhaustion is a valid outcome under load.
					assert.Equal(t, cerr.ErrLibNoStreams, cerr.CodeOf(err))
				}
			}
		}()
	}
	wg.Wait()

	p.Release()
	assert.Equal(t, uint64(ran.Load()), p.Completed())
	assert.Zero(t, p.InFlight())
}

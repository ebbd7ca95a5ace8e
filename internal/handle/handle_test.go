package handle

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndGet(t *testing.T) {
	r := NewRegistry()

	obj := &struct{ n int }{n: 42}
	h := r.New(KindStatement, obj)
	require.NotEqual(t, Nil, h)

	got, ok := r.Get(h, KindStatement)
	require.True(t, ok)
	assert.Same(t, obj, got)

	// Wrong kind fails instead of misinterpreting.
	_, ok = r.Get(h, KindCluster)
	assert.False(t, ok)

	// Nil and unknown handles fail.
	_, ok = r.Get(Nil, KindStatement)
	assert.False(t, ok)
	_, ok = r.Get(Handle(0xDEAD), KindStatement)
	assert.False(t, ok)
}

func TestReleaseOnce(t *testing.T) {
	r := NewRegistry()
	h := r.New(KindBatch, "batch")

	obj, ok := r.Release(h, KindBatch)
	require.True(t, ok)
	assert.Equal(t, "batch", obj)

	// Second sequential release is a no-op, not a corruption.
	_, ok = r.Release(h, KindBatch)
	assert.False(t, ok)

	_, ok = r.Get(h, KindBatch)
	assert.False(t, ok)
}

func TestConcurrentDoubleRelease(t *testing.T) {
	r := NewRegistry()

	const iterations = 200
	for i := 0; i < iterations; i++ {
		h := r.New(KindStatement, i)

		var wins atomic.Int32
		var wg sync.WaitGroup
		for j := 0; j < 8; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, ok := r.Release(h, KindStatement); ok {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), wins.Load())
	}
	assert.Zero(t, r.Count())
}

func TestHandlesNeverReused(t *testing.T) {
	r := NewRegistry()
	seen := make(map[Handle]bool)
	for i := 0; i < 1000; i++ {
		h := r.New(KindValue, i)
		require.False(t, seen[h])
		seen[h] = true
		r.Release(h, KindValue)
	}
}

func TestSharedRefCounting(t *testing.T) {
	r := NewRegistry()
	h := r.NewShared(KindSession, "session")

	// Async work captures two extra references.
	require.True(t, r.Retain(h))
	require.True(t, r.Retain(h))

	// Caller drops its token: object survives, no teardown yet.
	_, last, ok := r.Unref(h, KindSession)
	require.True(t, ok)
	assert.False(t, last)

	// Token itself is still resolvable while async refs remain.
	_, ok = r.Get(h, KindSession)
	assert.True(t, ok)

	_, last, ok = r.Unref(h, KindSession)
	require.True(t, ok)
	assert.False(t, last)

	// Last reference triggers teardown exactly once.
	obj, last, ok := r.Unref(h, KindSession)
	require.True(t, ok)
	assert.True(t, last)
	assert.Equal(t, "session", obj)

	_, ok = r.Get(h, KindSession)
	assert.False(t, ok)
	assert.False(t, r.Retain(h))
}

func TestSharedTeardownExactlyOnceConcurrent(t *testing.T) {
	r := NewRegistry()

	for i := 0; i < 100; i++ {
		h := r.NewShared(KindFuture, i)
		const extra = 7
		for j := 0; j < extra; j++ {
			require.True(t, r.Retain(h))
		}

		var teardowns atomic.Int32
		var wg sync.WaitGroup
		for j := 0; j < extra+1; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, last, ok := r.Unref(h, KindFuture); ok && last {
					teardowns.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), teardowns.Load())
	}
	assert.Zero(t, r.Count())
}

func TestBorrowedSweptWithParent(t *testing.T) {
	r := NewRegistry()

	result := r.NewShared(KindResult, "result")
	row := r.NewBorrowed(KindRow, "row", result)
	value := r.NewBorrowed(KindValue, "value", row)
	require.NotEqual(t, Nil, row)
	require.NotEqual(t, Nil, value)

	_, ok := r.Get(row, KindRow)
	require.True(t, ok)

	// Releasing the result sweeps the whole borrow chain.
	_, last, ok := r.Unref(result, KindResult)
	require.True(t, ok)
	require.True(t, last)

	_, ok = r.Get(row, KindRow)
	assert.False(t, ok)
	_, ok = r.Get(value, KindValue)
	assert.False(t, ok)
	assert.Zero(t, r.Count())
}

func TestBorrowRacingParentRelease(t *testing.T) {
	// A borrow racing the parent's release must either fail or be swept
	// with the parent; it can never survive its owner.
	r := NewRegistry()

	for i := 0; i < 200; i++ {
		parent := r.NewShared(KindResult, "result")

		var h Handle
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			h = r.NewBorrowed(KindRow, "row", parent)
		}()
		go func() {
			defer wg.Done()
			r.Unref(parent, KindResult)
		}()
		wg.Wait()

		if h != Nil {
			_, ok := r.Get(h, KindRow)
			assert.False(t, ok)
		}
		assert.Zero(t, r.Count())
	}
}

func TestBorrowFromDeadParent(t *testing.T) {
	r := NewRegistry()
	parent := r.New(KindIterator, "iter")
	r.Release(parent, KindIterator)

	h := r.NewBorrowed(KindValue, "v", parent)
	assert.Equal(t, Nil, h)
}

func TestConcurrentCreateReleaseCycles(t *testing.T) {
	// Many goroutines churning handles must never corrupt unrelated
	// entries: a long-lived handle stays resolvable throughout.
	r := NewRegistry()
	anchor := r.New(KindCluster, "anchor")

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				h := r.New(KindStatement, i)
				if got, ok := r.Get(h, KindStatement); ok {
					assert.Equal(t, i, got)
				}
				r.Release(h, KindStatement)
			}
		}()
	}
	wg.Wait()

	got, ok := r.Get(anchor, KindCluster)
	require.True(t, ok)
	assert.Equal(t, "anchor", got)
	assert.Equal(t, 1, r.Count())
}

func TestCountByKind(t *testing.T) {
	r := NewRegistry()
	r.New(KindStatement, 1)
	r.New(KindStatement, 2)
	r.NewShared(KindSession, 3)

	counts := r.CountByKind()
	assert.Equal(t, 2, counts[KindStatement])
	assert.Equal(t, 1, counts[KindSession])
}

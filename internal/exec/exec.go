// Package exec owns the background execution context that drives every
// asynchronous operation to completion, independent of caller threads.
//
// There is exactly one context per process, created on first use and torn
// down when the last referencing handle releases it. Clusters, sessions,
// and in-flight futures all hold references; the caller never sees the
// context itself, only the futures it completes.
package exec

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/cassgate/cassgate/internal/cerr"
	"github.com/cassgate/cassgate/internal/diag"
	"github.com/cassgate/cassgate/internal/logger"
)

// drainTimeout bounds how long teardown waits for in-flight work.
// Work still running afterwards finishes detached; its results are
// discarded by the future layer.
const drainTimeout = 10 * time.Second

// Pool is the fixed-size execution context. Submissions acquire one of
// a fixed number of slots; the submitting thread never blocks on the
// work itself.
type Pool struct {
	workers int
	sem     *semaphore.Weighted
	log     *logger.Logger

	refs      atomic.Int32
	closed    atomic.Bool
	inFlight  atomic.Int64
	completed atomic.Uint64

	diagMu  sync.Mutex
	diagSrv *diag.Server
}

var (
	globalMu sync.Mutex
	global   *Pool
)

// Acquire returns the process-wide pool, creating it on first use, and
// takes one reference on behalf of the caller.
func Acquire() *Pool {
	globalMu.Lock()
	defer globalMu.Unlock()
	if global == nil {
		global = newPool(runtime.NumCPU())
	}
	global.refs.Add(1)
	return global
}

func newPool(workers int) *Pool {
	if workers < 2 {
		workers = 2
	}
	p := &Pool{
		workers: workers,
		sem:     semaphore.NewWeighted(int64(workers)),
		log:     logger.Global().With("component", "exec"),
	}
	p.log.Info().Int("workers", workers).Msg("execution context started")
	return p
}

// Retain adds a reference on behalf of a new dependent object.
func (p *Pool) Retain() {
	p.refs.Add(1)
}

// Release drops one reference. The last release tears the context down:
// the diagnostics listener stops and teardown waits (bounded) for
// in-flight work to drain.
func (p *Pool) Release() {
	if p.refs.Add(-1) > 0 {
		return
	}

	// Serialize against Acquire: a concurrent Acquire may have taken a
	// fresh reference between our decrement and here, resurrecting the
	// pool. The recheck under globalMu decides who wins.
	globalMu.Lock()
	if p.refs.Load() > 0 {
		globalMu.Unlock()
		return
	}
	if global == p {
		global = nil
	}
	globalMu.Unlock()

	if !p.closed.CompareAndSwap(false, true) {
		return
	}

	p.diagMu.Lock()
	if p.diagSrv != nil {
		p.diagSrv.Stop()
		p.diagSrv = nil
	}
	p.diagMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if err := p.sem.Acquire(ctx, int64(p.workers)); err != nil {
		p.log.Warn().Int64("in_flight", p.inFlight.Load()).
			Msg("teardown timed out waiting for in-flight work")
		return
	}
	p.sem.Release(int64(p.workers))
	p.log.Info().Uint64("completed", p.completed.Load()).Msg("execution context stopped")
}

// Submit schedules task on the pool. It blocks only for slot
// bookkeeping, never for the task's own I/O. When every slot is taken
// the submission is rejected rather than queued without bound.
func (p *Pool) Submit(task func()) error {
	if p.closed.Load() {
		return cerr.New(cerr.ErrLibInvalidState, "execution context is shut down")
	}
	if !p.sem.TryAcquire(1) {
		return cerr.New(cerr.ErrLibNoStreams, "all request slots are in use")
	}
	p.inFlight.Add(1)
	go func() {
		defer func() {
			// Tasks contain their own panics by failing their future;
			// this guard is the backstop that keeps a fault from
			// killing the process.
			if r := recover(); r != nil {
				p.log.Error().Any("panic", r).Msg("task escaped its panic guard")
			}
			p.inFlight.Add(-1)
			p.completed.Add(1)
			p.sem.Release(1)
		}()
		task()
	}()
	return nil
}

// StartDiag starts the diagnostics listener once per pool lifetime.
// Later calls with a different address are ignored.
func (p *Pool) StartDiag(addr string, handles diag.HandleSource) {
	p.diagMu.Lock()
	defer p.diagMu.Unlock()
	if p.diagSrv != nil || p.closed.Load() {
		return
	}
	p.diagSrv = diag.New(addr, handles, p, p.log)
	p.diagSrv.Start()
}

// Workers returns the slot count.
func (p *Pool) Workers() int { return p.workers }

// InFlight returns the number of tasks currently running.
func (p *Pool) InFlight() int { return int(p.inFlight.Load()) }

// Completed returns the number of tasks finished since startup.
func (p *Pool) Completed() uint64 { return p.completed.Load() }

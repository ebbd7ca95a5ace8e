package bridge

import (
	"time"

	"github.com/cassgate/cassgate/internal/cerr"
	"github.com/cassgate/cassgate/internal/driver"
	"github.com/cassgate/cassgate/internal/future"
	"github.com/cassgate/cassgate/internal/handle"
)

// FutureCallback is invoked exactly once when the future resolves. It
// runs on the runtime's completion goroutine (or synchronously during
// registration if the future is already resolved); it must not block
// for long and may call back into the bridge, including freeing its own
// future handle.
type FutureCallback func(f Handle, userData any)

func getFuture(h Handle) (*future.Future, bool) {
	obj, ok := reg.Get(h, handle.KindFuture)
	if !ok {
		return nil, false
	}
	return obj.(*future.Future), true
}

// FutureFree releases the future handle. Work still in flight keeps
// running detached; its outcome is discarded and a registered callback
// will never fire after this returns.
func FutureFree(h Handle) {
	defer recoverLog()
	obj, last, ok := reg.Unref(h, handle.KindFuture)
	if ok && last {
		obj.(*future.Future).Detach()
	}
}

// FutureWait blocks the calling thread until the future resolves.
func FutureWait(h Handle) (code cerr.Code) {
	defer recoverTo(&code)
	f, ok := getFuture(h)
	if !ok {
		return cerr.ErrLibBadParams
	}
	f.Wait()
	return cerr.Ok
}

// FutureWaitTimed blocks for at most micros microseconds and reports
// whether the future resolved. On false the future stays pending and may
// be waited on again.
func FutureWaitTimed(h Handle, micros int64) (ready bool, code cerr.Code) {
	defer recoverTo(&code)
	f, ok := getFuture(h)
	if !ok {
		return false, cerr.ErrLibBadParams
	}
	return f.WaitTimed(time.Duration(micros) * time.Microsecond), cerr.Ok
}

// FutureReady reports whether the future has resolved, without blocking.
func FutureReady(h Handle) (ready bool, code cerr.Code) {
	defer recoverTo(&code)
	f, ok := getFuture(h)
	if !ok {
		return false, cerr.ErrLibBadParams
	}
	return f.Ready(), cerr.Ok
}

// FutureErrorCode waits for the future to resolve and returns its
// outcome code: Ok on success, the operation's error code otherwise.
func FutureErrorCode(h Handle) (code cerr.Code) {
	defer recoverTo(&code)
	f, ok := getFuture(h)
	if !ok {
		return cerr.ErrLibBadParams
	}
	f.Wait()
	outcome, _ := f.Outcome()
	return outcome
}

// FutureErrorMessage waits for the future to resolve and returns its
// error message. Successful futures return an empty string.
func FutureErrorMessage(h Handle) (msg string, code cerr.Code) {
	defer recoverTo(&code)
	f, ok := getFuture(h)
	if !ok {
		return "", cerr.ErrLibBadParams
	}
	f.Wait()
	outcome, msg := f.Outcome()
	return msg, outcome
}

// FutureGetResult waits for the future and hands out its result. The
// caller owns the returned handle; a failed future or one carrying no
// result returns Nil with the explaining code.
func FutureGetResult(h Handle) (rh Handle, code cerr.Code) {
	defer recoverTo(&code)
	f, ok := getFuture(h)
	if !ok {
		return Nil, cerr.ErrLibBadParams
	}
	f.Wait()
	if f.Poll() != future.Success {
		outcome, _ := f.Outcome()
		return Nil, outcome
	}
	rs, ok := f.Payload().(*driver.ResultSet)
	if !ok {
		return Nil, cerr.ErrLibInvalidFutureType
	}
	return reg.NewShared(handle.KindResult, rs), cerr.Ok
}

// FutureGetPrepared waits for the future and hands out its prepared
// statement metadata.
func FutureGetPrepared(h Handle) (ph Handle, code cerr.Code) {
	defer recoverTo(&code)
	f, ok := getFuture(h)
	if !ok {
		return Nil, cerr.ErrLibBadParams
	}
	f.Wait()
	if f.Poll() != future.Success {
		outcome, _ := f.Outcome()
		return Nil, outcome
	}
	p, ok := f.Payload().(*driver.Prepared)
	if !ok {
		return Nil, cerr.ErrLibInvalidFutureType
	}
	return reg.New(handle.KindPrepared, p), cerr.Ok
}

// FutureGetSchemaMeta waits for the future and hands out its schema
// snapshot.
func FutureGetSchemaMeta(h Handle) (sh Handle, code cerr.Code) {
	defer recoverTo(&code)
	f, ok := getFuture(h)
	if !ok {
		return Nil, cerr.ErrLibBadParams
	}
	f.Wait()
	if f.Poll() != future.Success {
		outcome, _ := f.Outcome()
		return Nil, outcome
	}
	ks, ok := f.Payload().(*driver.KeyspaceMeta)
	if !ok {
		return Nil, cerr.ErrLibInvalidFutureType
	}
	return reg.New(handle.KindSchemaMeta, ks), cerr.Ok
}

// FutureSetCallback registers the one-shot completion callback. A future
// accepts at most one callback; registering on an already-resolved
// future fires it synchronously.
func FutureSetCallback(h Handle, cb FutureCallback, userData any) (code cerr.Code) {
	defer recoverTo(&code)
	if cb == nil {
		return cerr.ErrLibBadParams
	}
	f, ok := getFuture(h)
	if !ok {
		return cerr.ErrLibBadParams
	}
	err := f.SetCallback(func(_ *future.Future, ud any) {
		cb(h, ud)
	}, userData)
	return cerr.CodeOf(err)
}

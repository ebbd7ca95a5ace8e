// Package bridge is the handle-based boundary of cassgate. Every
// exported function takes and returns pointer-sized opaque Handle tokens
// and numeric error codes — never Go objects, channels, or errors — so a
// c-shared shim can re-export the surface one to one.
//
// Memory contract: strings and byte slices returned by the bridge are
// borrowed from the object behind the handle they were read through and
// stay valid until that handle (or its owning parent) is freed. Every
// *New pairs with exactly one *Free; Row and Value handles are borrowed
// views with no free call of their own.
//
// Threading: Session, Future, and Result handles are safe for concurrent
// use. Cluster, Statement, and Batch handles must not be mutated
// concurrently with a call that uses them.
package bridge

import (
	"github.com/cassgate/cassgate/internal/cerr"
	"github.com/cassgate/cassgate/internal/driver"
	"github.com/cassgate/cassgate/internal/driver/gocqldrv"
	"github.com/cassgate/cassgate/internal/future"
	"github.com/cassgate/cassgate/internal/handle"
	"github.com/cassgate/cassgate/internal/logger"
)

// Handle is the opaque token identifying one bridge-owned object.
type Handle = handle.Handle

// Nil is the invalid handle. Functions that allocate return Nil on
// failure, paired with the code that explains why.
const Nil = handle.Nil

var (
	reg = handle.NewRegistry()
	log = logger.Global().With("component", "bridge")

	// connector builds sessions. Tests substitute the in-memory fake.
	connector driver.Connector = gocqldrv.Connector{}
)

// recoverTo is deferred at every boundary entry point that returns a
// code. A panic anywhere below becomes an internal-error code; nothing
// ever unwinds past the boundary.
func recoverTo(code *cerr.Code) {
	if r := recover(); r != nil {
		e := cerr.FromPanic(r)
		log.Error().Str("fault", e.Message).Msg("contained panic at boundary")
		*code = e.Code
	}
}

// recoverLog is the guard for void entry points (the *Free family).
func recoverLog() {
	if r := recover(); r != nil {
		e := cerr.FromPanic(r)
		log.Error().Str("fault", e.Message).Msg("contained panic at boundary")
	}
}

// recoverToFuture is the guard for entry points that hand back a future:
// a panic resolves to an already-failed future rather than a lost handle.
func recoverToFuture(fh *Handle) {
	if r := recover(); r != nil {
		e := cerr.FromPanic(r)
		log.Error().Str("fault", e.Message).Msg("contained panic at boundary")
		*fh = failedFuture(e)
	}
}

// failedFuture allocates a future already resolved with err, used when
// an asynchronous entry point fails before any work is submitted.
func failedFuture(err error) Handle {
	f := future.New()
	f.Fail(err)
	return reg.NewShared(handle.KindFuture, f)
}

// ErrorDesc returns the fixed description of a code, for callers that
// hold only the numeric value.
func ErrorDesc(code cerr.Code) string {
	return code.Desc()
}

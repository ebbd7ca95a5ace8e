package gocqldrv

import (
	"context"
	"errors"

	"github.com/gocql/gocql"

	"github.com/cassgate/cassgate/internal/cerr"
)

// mapError converts a gocql error into the stable code contract.
//
// Server-reported errors carry the wire-protocol error code, which is
// the same numbering the server category of the code contract uses, so
// they translate positionally.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var reqErr gocql.RequestError
	if errors.As(err, &reqErr) {
		code := cerr.Code(uint32(cerr.SourceServer)<<24 | uint32(reqErr.Code())&0x00FFFFFF)
		return cerr.Wrap(code, reqErr.Message(), err)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.Is(err, gocql.ErrTimeoutNoResponse):
		return cerr.Wrap(cerr.ErrLibRequestTimedOut, "request timed out", err)
	case errors.Is(err, gocql.ErrNoConnections):
		return cerr.Wrap(cerr.ErrLibNoHostsAvailable, "no live connections", err)
	case errors.Is(err, gocql.ErrSessionClosed):
		return cerr.Wrap(cerr.ErrLibInvalidState, "session is closed", err)
	case errors.Is(err, gocql.ErrUnavailable):
		return cerr.Wrap(cerr.ErrServerUnavailable, "not enough replicas alive", err)
	case errors.Is(err, gocql.ErrNoStreams):
		return cerr.Wrap(cerr.ErrLibNoStreams, "no streams available on connection", err)
	default:
		return cerr.Wrap(cerr.ErrLibInternalError, "request failed", err)
	}
}

// mapConnectError is mapError with connection-establishment defaults:
// anything not otherwise classified means the cluster could not be
// reached.
func mapConnectError(err error) error {
	if err == nil {
		return nil
	}

	var reqErr gocql.RequestError
	if errors.As(err, &reqErr) {
		// Typically bad credentials or a keyspace problem, reported by
		// the server during negotiation.
		return mapError(err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, gocql.ErrTimeoutNoResponse) {
		return cerr.Wrap(cerr.ErrLibRequestTimedOut, "connect timed out", err)
	}
	return cerr.Wrap(cerr.ErrLibNoHostsAvailable, "unable to connect to any contact point", err)
}

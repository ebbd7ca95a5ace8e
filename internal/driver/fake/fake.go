// Package fake is an in-memory driver.Connector used by tests. It can
// impersonate a reachable cluster serving canned result sets or an
// unreachable one, and can hold operations open on a gate so tests can
// exercise release-while-in-flight paths deterministically.
package fake

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cassgate/cassgate/internal/cerr"
	"github.com/cassgate/cassgate/internal/driver"
)

// Connector is the configurable entry point. Configure before the first
// Connect; the canned maps may be extended between operations.
type Connector struct {
	// Unreachable makes every Connect fail like a cluster that is down.
	Unreachable bool

	// ConnectDelay is applied before Connect succeeds or fails.
	ConnectDelay time.Duration

	// Gate, when non-nil, blocks every query/batch until the gate is
	// closed (or the operation's context ends).
	Gate chan struct{}

	// Results maps query text to the canned result set. Queries with no
	// entry return an empty result.
	Results map[string]*driver.ResultSet

	// Fail maps query text to a forced error.
	Fail map[string]error

	// Meta is returned by KeyspaceMeta.
	Meta *driver.KeyspaceMeta

	mu      sync.Mutex
	queries []driver.Statement
	batches []driver.Batch

	connects atomic.Int32
	closes   atomic.Int32
}

// New returns an empty, reachable Connector.
func New() *Connector {
	return &Connector{
		Results: make(map[string]*driver.ResultSet),
		Fail:    make(map[string]error),
	}
}

// Connect implements driver.Connector.
func (c *Connector) Connect(ctx context.Context, cfg *driver.ClusterConfig) (driver.Conn, error) {
	if c.ConnectDelay > 0 {
		select {
		case <-time.After(c.ConnectDelay):
		case <-ctx.Done():
			return nil, cerr.Wrap(cerr.ErrLibRequestTimedOut, "connect timed out", ctx.Err())
		}
	}
	if c.Unreachable {
		return nil, cerr.Newf(cerr.ErrLibNoHostsAvailable, "no host reachable among %v", cfg.ContactPoints)
	}
	c.connects.Add(1)
	return &conn{c: c}, nil
}

// Queries returns a copy of every statement executed so far.
func (c *Connector) Queries() []driver.Statement {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]driver.Statement(nil), c.queries...)
}

// Batches returns a copy of every batch executed so far.
func (c *Connector) Batches() []driver.Batch {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]driver.Batch(nil), c.batches...)
}

// Connects returns how many sessions were established.
func (c *Connector) Connects() int { return int(c.connects.Load()) }

// Closes returns how many sessions were torn down.
func (c *Connector) Closes() int { return int(c.closes.Load()) }

type conn struct {
	c      *Connector
	closed atomic.Bool
}

func (s *conn) wait(ctx context.Context) error {
	if s.c.Gate == nil {
		return nil
	}
	select {
	case <-s.c.Gate:
		return nil
	case <-ctx.Done():
		return cerr.Wrap(cerr.ErrLibRequestTimedOut, "request timed out", ctx.Err())
	}
}

func (s *conn) Query(ctx context.Context, stmt *driver.Statement) (*driver.ResultSet, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if s.closed.Load() {
		return nil, cerr.New(cerr.ErrLibInvalidState, "session is closed")
	}

	s.c.mu.Lock()
	s.c.queries = append(s.c.queries, *stmt)
	rs, ok := s.c.Results[stmt.Query]
	err := s.c.Fail[stmt.Query]
	s.c.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if !ok {
		return &driver.ResultSet{}, nil
	}
	return rs, nil
}

func (s *conn) Prepare(ctx context.Context, query string) (*driver.Prepared, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.c.mu.Lock()
	err := s.c.Fail[query]
	s.c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	// Parameter metadata is derived from the positional markers, the
	// way a real cluster would report it.
	return &driver.Prepared{
		Query:      query,
		ParamCount: strings.Count(query, "?"),
	}, nil
}

func (s *conn) Batch(ctx context.Context, batch *driver.Batch) (*driver.ResultSet, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.c.mu.Lock()
	s.c.batches = append(s.c.batches, *batch)
	s.c.mu.Unlock()
	return &driver.ResultSet{}, nil
}

func (s *conn) KeyspaceMeta(ctx context.Context, keyspace string) (*driver.KeyspaceMeta, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if s.c.Meta == nil {
		return nil, cerr.Newf(cerr.ErrLibNameDoesNotExist, "keyspace %q does not exist", keyspace)
	}
	return s.c.Meta, nil
}

func (s *conn) Close() {
	if s.closed.CompareAndSwap(false, true) {
		s.c.closes.Add(1)
	}
}

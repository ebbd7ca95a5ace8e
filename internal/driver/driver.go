// Package driver defines the stable internal API between the bridge and
// the wrapped query-execution engine.
//
// Everything above this package talks only to these interfaces — the
// bridge never imports a concrete driver binding directly. The real
// binding lives in driver/gocqldrv; tests substitute driver/fake.
package driver

import (
	"context"
	"time"
)

// Connector establishes sessions against a cluster. Implementations own
// connection negotiation, pooling, load balancing, and retries; the
// bridge trusts them and only translates results and errors.
type Connector interface {
	// Connect builds a session from the cluster configuration.
	// It blocks until the session is usable or fails; the bridge always
	// calls it from a runtime worker, never from a caller thread.
	Connect(ctx context.Context, cfg *ClusterConfig) (Conn, error)
}

// Conn is a live session against the cluster.
// Safe for concurrent use by multiple goroutines.
type Conn interface {
	// Query executes a single statement and materializes its result set.
	Query(ctx context.Context, stmt *Statement) (*ResultSet, error)

	// Prepare registers a statement with the cluster and returns its
	// parameter metadata.
	Prepare(ctx context.Context, query string) (*Prepared, error)

	// Batch executes a group of statements atomically per batch type.
	Batch(ctx context.Context, batch *Batch) (*ResultSet, error)

	// KeyspaceMeta snapshots the schema of one keyspace.
	// Expensive; callers should cache the result.
	KeyspaceMeta(ctx context.Context, keyspace string) (*KeyspaceMeta, error)

	// Close releases all connections held by the session.
	Close()
}

// Statement is one executable request with its bound parameters.
// A Statement is not safe to mutate concurrently with a call using it.
type Statement struct {
	Query  string
	Params []Value

	PageSize    int
	PagingState []byte
	Consistency Consistency

	// IdempotentHint allows the driver to retry speculatively.
	IdempotentHint bool

	// Timeout overrides the cluster-wide request timeout when non-zero.
	Timeout time.Duration
}

// Prepared carries the server-assigned metadata of a prepared statement.
type Prepared struct {
	Query      string
	ParamCount int
	ParamTypes []Type
}

// BatchType selects the batch semantics, mirroring the wire protocol.
type BatchType uint8

const (
	BatchLogged   BatchType = 0
	BatchUnlogged BatchType = 1
	BatchCounter  BatchType = 2
)

// Batch groups statements for a single round trip.
type Batch struct {
	Type        BatchType
	Statements  []Statement
	Consistency Consistency
	Timeout     time.Duration
}

// Column describes one column of a result set.
type Column struct {
	Name string
	Type Type
}

// ResultSet is the driver's materialized response to a query. The bridge
// projects it into borrowed row/value handles without copying; the
// ResultSet is the single owner of the backing data for its lifetime.
type ResultSet struct {
	Columns []Column

	// Rows preserve server-returned order. Each row has exactly
	// len(Columns) values.
	Rows [][]Value

	HasMorePages bool
	PagingState  []byte
}

// RowCount returns the number of rows in the page.
func (rs *ResultSet) RowCount() int { return len(rs.Rows) }

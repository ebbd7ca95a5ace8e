package bridge

import (
	"time"

	"github.com/cassgate/cassgate/internal/cerr"
	"github.com/cassgate/cassgate/internal/driver"
	"github.com/cassgate/cassgate/internal/handle"
)

// statement is the object behind a statement handle: the query, its
// declared parameter slots, and the execution knobs. Binding validates
// the slot index synchronously against the declared count.
type statement struct {
	stmt       driver.Statement
	paramCount int
	consSet    bool
}

// snapshot copies the statement for one execution so later binds cannot
// race in-flight work. Statements that never set a consistency pick up
// the session default.
func (st *statement) snapshot(def driver.Consistency) driver.Statement {
	s := st.stmt
	s.Params = append([]driver.Value(nil), st.stmt.Params...)
	s.PagingState = append([]byte(nil), st.stmt.PagingState...)
	if !st.consSet {
		s.Consistency = def
	}
	return s
}

// StatementNew allocates a statement with paramCount positional
// parameter slots, all unset. Free with StatementFree.
func StatementNew(query string, paramCount int) (h Handle, code cerr.Code) {
	defer recoverTo(&code)
	if query == "" || paramCount < 0 {
		return Nil, cerr.ErrLibBadParams
	}
	params := make([]driver.Value, paramCount)
	for i := range params {
		params[i] = driver.Value{Type: driver.TypeUnknown, Null: true}
	}
	return reg.New(handle.KindStatement, &statement{
		stmt:       driver.Statement{Query: query, Params: params},
		paramCount: paramCount,
	}), cerr.Ok
}

// StatementFree releases the statement. Executions already snapshotted
// from it are unaffected.
func StatementFree(h Handle) {
	defer recoverLog()
	reg.Release(h, handle.KindStatement)
}

func getStatement(h Handle) (*statement, bool) {
	obj, ok := reg.Get(h, handle.KindStatement)
	if !ok {
		return nil, false
	}
	return obj.(*statement), true
}

// bindAt stores v into parameter slot i. The index check is synchronous;
// nothing is deferred to execution.
func bindAt(h Handle, i int, v driver.Value) cerr.Code {
	st, ok := getStatement(h)
	if !ok {
		return cerr.ErrLibBadParams
	}
	if i < 0 || i >= st.paramCount {
		return cerr.ErrLibIndexOutOfBounds
	}
	st.stmt.Params[i] = v
	return cerr.Ok
}

// StatementBindNull binds an explicit null to slot i.
func StatementBindNull(h Handle, i int) (code cerr.Code) {
	defer recoverTo(&code)
	return bindAt(h, i, driver.Value{Type: driver.TypeUnknown, Null: true})
}

// StatementBindInt32 binds an int value.
func StatementBindInt32(h Handle, i int, v int32) (code cerr.Code) {
	defer recoverTo(&code)
	return bindAt(h, i, driver.Value{Type: driver.TypeInt, Data: v})
}

// StatementBindInt64 binds a bigint value.
func StatementBindInt64(h Handle, i int, v int64) (code cerr.Code) {
	defer recoverTo(&code)
	return bindAt(h, i, driver.Value{Type: driver.TypeBigint, Data: v})
}

// StatementBindBool binds a boolean value.
func StatementBindBool(h Handle, i int, v bool) (code cerr.Code) {
	defer recoverTo(&code)
	return bindAt(h, i, driver.Value{Type: driver.TypeBoolean, Data: v})
}

// StatementBindDouble binds a double value.
func StatementBindDouble(h Handle, i int, v float64) (code cerr.Code) {
	defer recoverTo(&code)
	return bindAt(h, i, driver.Value{Type: driver.TypeDouble, Data: v})
}

// StatementBindString binds a text value.
func StatementBindString(h Handle, i int, v string) (code cerr.Code) {
	defer recoverTo(&code)
	return bindAt(h, i, driver.Value{Type: driver.TypeText, Data: v})
}

// StatementBindBytes binds a blob value. The bytes are copied.
func StatementBindBytes(h Handle, i int, v []byte) (code cerr.Code) {
	defer recoverTo(&code)
	return bindAt(h, i, driver.Value{Type: driver.TypeBlob, Data: append([]byte(nil), v...)})
}

// StatementBindUUID binds a uuid value.
func StatementBindUUID(h Handle, i int, v [16]byte) (code cerr.Code) {
	defer recoverTo(&code)
	return bindAt(h, i, driver.Value{Type: driver.TypeUUID, Data: v})
}

// StatementSetPageSize caps how many rows one execution returns. The
// remainder is fetched by re-executing with the paging state of the
// previous result.
func StatementSetPageSize(h Handle, n int) (code cerr.Code) {
	defer recoverTo(&code)
	st, ok := getStatement(h)
	if !ok {
		return cerr.ErrLibBadParams
	}
	if n <= 0 {
		return cerr.ErrLibBadParams
	}
	st.stmt.PageSize = n
	return cerr.Ok
}

// StatementSetPagingState continues a paged query from where result
// left off.
func StatementSetPagingState(h, result Handle) (code cerr.Code) {
	defer recoverTo(&code)
	st, ok := getStatement(h)
	if !ok {
		return cerr.ErrLibBadParams
	}
	rs, ok := getResult(result)
	if !ok {
		return cerr.ErrLibBadParams
	}
	if !rs.HasMorePages || len(rs.PagingState) == 0 {
		return cerr.ErrLibNoPagingState
	}
	st.stmt.PagingState = append([]byte(nil), rs.PagingState...)
	return cerr.Ok
}

// StatementSetConsistency overrides the session default for this
// statement.
func StatementSetConsistency(h Handle, consistency driver.Consistency) (code cerr.Code) {
	defer recoverTo(&code)
	st, ok := getStatement(h)
	if !ok {
		return cerr.ErrLibBadParams
	}
	if consistency.String() == "UNKNOWN" {
		return cerr.ErrLibBadParams
	}
	st.stmt.Consistency = consistency
	st.consSet = true
	return cerr.Ok
}

// StatementSetRequestTimeout overrides the cluster-wide request timeout
// for this statement, in milliseconds.
func StatementSetRequestTimeout(h Handle, ms int) (code cerr.Code) {
	defer recoverTo(&code)
	st, ok := getStatement(h)
	if !ok {
		return cerr.ErrLibBadParams
	}
	if ms <= 0 {
		return cerr.ErrLibBadParams
	}
	st.stmt.Timeout = time.Duration(ms) * time.Millisecond
	return cerr.Ok
}

// StatementSetIdempotent marks the statement safe for speculative
// retries by the wrapped driver.
func StatementSetIdempotent(h Handle, idempotent bool) (code cerr.Code) {
	defer recoverTo(&code)
	st, ok := getStatement(h)
	if !ok {
		return cerr.ErrLibBadParams
	}
	st.stmt.IdempotentHint = idempotent
	return cerr.Ok
}

// PreparedBind allocates a statement from prepared metadata, with
// parameter slots sized by the server-reported count.
func PreparedBind(h Handle) (sh Handle, code cerr.Code) {
	defer recoverTo(&code)
	obj, ok := reg.Get(h, handle.KindPrepared)
	if !ok {
		return Nil, cerr.ErrLibBadParams
	}
	p := obj.(*driver.Prepared)
	params := make([]driver.Value, p.ParamCount)
	for i := range params {
		params[i] = driver.Value{Type: driver.TypeUnknown, Null: true}
	}
	return reg.New(handle.KindStatement, &statement{
		stmt:       driver.Statement{Query: p.Query, Params: params},
		paramCount: p.ParamCount,
	}), cerr.Ok
}

// PreparedFree releases the prepared metadata. Statements bound from it
// are unaffected.
func PreparedFree(h Handle) {
	defer recoverLog()
	reg.Release(h, handle.KindPrepared)
}

// BatchNew allocates a batch of the given type (logged, unlogged, or
// counter). Free with BatchFree.
func BatchNew(t driver.BatchType) (h Handle, code cerr.Code) {
	defer recoverTo(&code)
	switch t {
	case driver.BatchLogged, driver.BatchUnlogged, driver.BatchCounter:
	default:
		return Nil, cerr.ErrLibBadParams
	}
	return reg.New(handle.KindBatch, &driver.Batch{Type: t}), cerr.Ok
}

// BatchFree releases the batch.
func BatchFree(h Handle) {
	defer recoverLog()
	reg.Release(h, handle.KindBatch)
}

// BatchAddStatement appends a snapshot of the statement; the statement
// handle stays owned by the caller and may be freed or rebound after.
func BatchAddStatement(h, stmt Handle) (code cerr.Code) {
	defer recoverTo(&code)
	obj, ok := reg.Get(h, handle.KindBatch)
	if !ok {
		return cerr.ErrLibBadParams
	}
	st, ok := getStatement(stmt)
	if !ok {
		return cerr.ErrLibBadParams
	}
	b := obj.(*driver.Batch)
	b.Statements = append(b.Statements, st.snapshot(b.Consistency))
	return cerr.Ok
}

// BatchSetConsistency sets the batch-wide consistency.
func BatchSetConsistency(h Handle, consistency driver.Consistency) (code cerr.Code) {
	defer recoverTo(&code)
	obj, ok := reg.Get(h, handle.KindBatch)
	if !ok {
		return cerr.ErrLibBadParams
	}
	if consistency.String() == "UNKNOWN" {
		return cerr.ErrLibBadParams
	}
	obj.(*driver.Batch).Consistency = consistency
	return cerr.Ok
}

package bridge

import (
	"context"
	"sync"
	"time"

	"github.com/cassgate/cassgate/internal/cerr"
	"github.com/cassgate/cassgate/internal/driver"
	"github.com/cassgate/cassgate/internal/exec"
	"github.com/cassgate/cassgate/internal/future"
	"github.com/cassgate/cassgate/internal/handle"
)

// session is the shared object behind a session handle. The caller's
// handle holds one reference; every in-flight operation holds another,
// so the connection cannot be torn down under running work.
type session struct {
	mu         sync.Mutex
	conn       driver.Conn
	cfg        *driver.ClusterConfig
	rt         *exec.Pool
	connecting bool
	closed     bool
}

// SessionNew allocates a disconnected session. Free with SessionFree.
func SessionNew() Handle {
	defer recoverLog()
	return reg.NewShared(handle.KindSession, &session{})
}

// SessionFree drops the caller's reference. Teardown — closing the
// connection, releasing the runtime — runs when the last reference
// (caller or in-flight operation) goes away.
func SessionFree(h Handle) {
	defer recoverLog()
	sessionUnref(h)
}

func getSession(h Handle) (*session, bool) {
	obj, ok := reg.Get(h, handle.KindSession)
	if !ok {
		return nil, false
	}
	return obj.(*session), true
}

func sessionUnref(h Handle) {
	obj, last, ok := reg.Unref(h, handle.KindSession)
	if !ok || !last {
		return
	}
	s := obj.(*session)
	s.mu.Lock()
	conn, rt := s.conn, s.rt
	s.conn, s.rt = nil, nil
	s.closed = true
	s.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
	if rt != nil {
		rt.Release()
	}
}

// SessionConnect connects the session using the cluster's configuration.
// The returned future resolves once the session is usable; configuration
// problems resolve it with an error rather than failing synchronously.
func SessionConnect(sess, cluster Handle) (fh Handle) {
	defer recoverToFuture(&fh)
	return connect(sess, cluster, "")
}

// SessionConnectKeyspace connects like SessionConnect and switches to
// keyspace once the session is up.
func SessionConnectKeyspace(sess, cluster Handle, keyspace string) (fh Handle) {
	defer recoverToFuture(&fh)
	if keyspace == "" {
		return failedFuture(cerr.New(cerr.ErrLibBadParams, "keyspace is empty"))
	}
	return connect(sess, cluster, keyspace)
}

func connect(sess, clusterH Handle, keyspace string) Handle {
	s, ok := getSession(sess)
	if !ok {
		return failedFuture(cerr.New(cerr.ErrLibBadParams, "invalid session handle"))
	}
	c, ok := getCluster(clusterH)
	if !ok {
		return failedFuture(cerr.New(cerr.ErrLibBadParams, "invalid cluster handle"))
	}

	cfg := cloneConfig(c.cfg)
	if keyspace != "" {
		cfg.Keyspace = keyspace
	}
	if err := cfg.Validate(); err != nil {
		return failedFuture(err)
	}

	s.mu.Lock()
	if s.closed || s.connecting || s.conn != nil {
		s.mu.Unlock()
		return failedFuture(cerr.New(cerr.ErrLibUnableToConnect, "session already connected"))
	}
	s.connecting = true
	s.cfg = cfg
	// The session depends on the runtime independently of the cluster
	// handle's lifetime. A reconnect attempt reuses the reference taken
	// by the first.
	retainRT := s.rt == nil
	if retainRT {
		s.rt = c.rt
	}
	s.mu.Unlock()
	if retainRT {
		c.rt.Retain()
	}

	if cfg.DiagAddr != "" {
		c.rt.StartDiag(cfg.DiagAddr, reg)
	}

	f := future.New()
	fh := reg.NewShared(handle.KindFuture, f)
	if !reg.Retain(sess) {
		s.mu.Lock()
		s.connecting = false
		s.mu.Unlock()
		f.Fail(cerr.New(cerr.ErrLibBadParams, "session released"))
		return fh
	}

	err := c.rt.Submit(func() {
		defer sessionUnref(sess)
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
		defer cancel()
		conn, err := connector.Connect(ctx, cfg)

		s.mu.Lock()
		s.connecting = false
		if err == nil {
			if s.closed {
				// Freed while connecting; nobody will use the connection.
				s.mu.Unlock()
				conn.Close()
				f.Fail(cerr.New(cerr.ErrLibInvalidState, "session released during connect"))
				return
			}
			s.conn = conn
		}
		s.mu.Unlock()

		if err != nil {
			f.Fail(err)
			return
		}
		f.Complete(nil)
	})
	if err != nil {
		s.mu.Lock()
		s.connecting = false
		s.mu.Unlock()
		f.Fail(err)
		sessionUnref(sess)
	}
	return fh
}

// SessionClose closes the session's connection. The returned future
// resolves when the close has finished; the handle itself still needs
// SessionFree.
func SessionClose(sess Handle) (fh Handle) {
	defer recoverToFuture(&fh)
	s, ok := getSession(sess)
	if !ok {
		return failedFuture(cerr.New(cerr.ErrLibBadParams, "invalid session handle"))
	}

	s.mu.Lock()
	conn, rt := s.conn, s.rt
	s.conn = nil
	s.closed = true
	s.mu.Unlock()

	if conn == nil || rt == nil {
		return failedFuture(cerr.New(cerr.ErrLibUnableToClose, "session is not connected"))
	}

	f := future.New()
	fh = reg.NewShared(handle.KindFuture, f)
	if !reg.Retain(sess) {
		f.Fail(cerr.New(cerr.ErrLibBadParams, "session released"))
		return fh
	}
	if err := rt.Submit(func() {
		defer sessionUnref(sess)
		conn.Close()
		f.Complete(nil)
	}); err != nil {
		// Runtime already torn down; close inline.
		conn.Close()
		f.Complete(nil)
		sessionUnref(sess)
	}
	return fh
}

// submit runs op on the runtime with the session retained for the
// duration and resolves the returned future with op's outcome.
func submit(sess Handle, op func(ctx context.Context, conn driver.Conn) (any, error), timeout time.Duration) Handle {
	s, ok := getSession(sess)
	if !ok {
		return failedFuture(cerr.New(cerr.ErrLibBadParams, "invalid session handle"))
	}

	s.mu.Lock()
	conn, rt, cfg := s.conn, s.rt, s.cfg
	s.mu.Unlock()
	if conn == nil || rt == nil {
		return failedFuture(cerr.New(cerr.ErrLibInvalidState, "session is not connected"))
	}
	if timeout <= 0 {
		timeout = cfg.RequestTimeout
	}

	f := future.New()
	fh := reg.NewShared(handle.KindFuture, f)
	if !reg.Retain(sess) {
		f.Fail(cerr.New(cerr.ErrLibBadParams, "session released"))
		return fh
	}

	if err := rt.Submit(func() {
		defer sessionUnref(sess)
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		payload, err := op(ctx, conn)
		if err != nil {
			f.Fail(err)
			return
		}
		f.Complete(payload)
	}); err != nil {
		f.Fail(err)
		sessionUnref(sess)
	}
	return fh
}

// SessionExecute runs the statement. The future's payload is a result
// retrieved with FutureGetResult.
func SessionExecute(sess, stmt Handle) (fh Handle) {
	defer recoverToFuture(&fh)
	st, ok := getStatement(stmt)
	if !ok {
		return failedFuture(cerr.New(cerr.ErrLibBadParams, "invalid statement handle"))
	}
	s, ok := getSession(sess)
	if !ok {
		return failedFuture(cerr.New(cerr.ErrLibBadParams, "invalid session handle"))
	}

	s.mu.Lock()
	cfg := s.cfg
	s.mu.Unlock()
	def := driver.ConsistencyLocalOne
	if cfg != nil {
		def = cfg.Consistency
	}
	snapshot := st.snapshot(def)

	return submit(sess, func(ctx context.Context, conn driver.Conn) (any, error) {
		return conn.Query(ctx, &snapshot)
	}, snapshot.Timeout)
}

// SessionPrepare registers the query with the cluster. The future's
// payload is retrieved with FutureGetPrepared.
func SessionPrepare(sess Handle, query string) (fh Handle) {
	defer recoverToFuture(&fh)
	if query == "" {
		return failedFuture(cerr.New(cerr.ErrLibBadParams, "query is empty"))
	}
	return submit(sess, func(ctx context.Context, conn driver.Conn) (any, error) {
		return conn.Prepare(ctx, query)
	}, 0)
}

// SessionExecuteBatch runs the batch atomically per its type.
func SessionExecuteBatch(sess, batch Handle) (fh Handle) {
	defer recoverToFuture(&fh)
	obj, ok := reg.Get(batch, handle.KindBatch)
	if !ok {
		return failedFuture(cerr.New(cerr.ErrLibBadParams, "invalid batch handle"))
	}
	b := obj.(*driver.Batch)
	snapshot := driver.Batch{
		Type:        b.Type,
		Statements:  append([]driver.Statement(nil), b.Statements...),
		Consistency: b.Consistency,
		Timeout:     b.Timeout,
	}
	return submit(sess, func(ctx context.Context, conn driver.Conn) (any, error) {
		return conn.Batch(ctx, &snapshot)
	}, snapshot.Timeout)
}

// SessionSchemaMeta snapshots the schema of one keyspace. The future's
// payload is retrieved with FutureGetSchemaMeta.
func SessionSchemaMeta(sess Handle, keyspace string) (fh Handle) {
	defer recoverToFuture(&fh)
	if keyspace == "" {
		return failedFuture(cerr.New(cerr.ErrLibBadParams, "keyspace is empty"))
	}
	return submit(sess, func(ctx context.Context, conn driver.Conn) (any, error) {
		return conn.KeyspaceMeta(ctx, keyspace)
	}, 0)
}

// Package gocqldrv binds the stable internal driver API to gocql, which
// owns connection pooling, host discovery, load balancing, and retries.
// The bridge never imports gocql directly; everything crosses through
// driver.Connector / driver.Conn.
package gocqldrv

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"os"
	"strings"

	"github.com/gocql/gocql"

	"github.com/cassgate/cassgate/internal/cerr"
	"github.com/cassgate/cassgate/internal/driver"
)

// Connector implements driver.Connector over gocql.
type Connector struct{}

// Connect builds a gocql session from the cluster configuration.
func (Connector) Connect(ctx context.Context, cfg *driver.ClusterConfig) (driver.Conn, error) {
	cluster := gocql.NewCluster(cfg.ContactPoints...)
	cluster.Port = cfg.Port
	cluster.Keyspace = cfg.Keyspace
	cluster.ConnectTimeout = cfg.ConnectTimeout
	cluster.Timeout = cfg.RequestTimeout
	cluster.Consistency = gocql.Consistency(cfg.Consistency)
	cluster.DisableInitialHostLookup = cfg.DisableInitialHostLookup
	if cfg.NumConns > 0 {
		cluster.NumConns = cfg.NumConns
	}

	if cfg.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}

	if cfg.SSL != nil {
		tlsCfg, err := buildTLS(cfg.SSL)
		if err != nil {
			return nil, err
		}
		cluster.SslOpts = &gocql.SslOptions{
			Config:                 tlsCfg,
			EnableHostVerification: cfg.SSL.VerifyHost,
		}
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, mapConnectError(err)
	}
	// CreateSession has its own timeout handling; honor a caller
	// cancellation that fired while it ran.
	if ctx.Err() != nil {
		session.Close()
		return nil, cerr.Wrap(cerr.ErrLibRequestTimedOut, "connect cancelled", ctx.Err())
	}
	return &conn{session: session}, nil
}

// buildTLS assembles the tls.Config from the pass-through SSL material.
func buildTLS(ssl *driver.SSLConfig) (*tls.Config, error) {
	tlsCfg := &tls.Config{
		InsecureSkipVerify: !ssl.VerifyPeer,
	}

	pems := make([][]byte, 0, len(ssl.CACertPEM)+len(ssl.CACertFiles))
	pems = append(pems, ssl.CACertPEM...)
	for _, path := range ssl.CACertFiles {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, cerr.Wrap(cerr.ErrSSLInvalidCert, "cannot read CA certificate "+path, err)
		}
		pems = append(pems, raw)
	}
	if len(pems) > 0 {
		pool := x509.NewCertPool()
		for _, pem := range pems {
			if !pool.AppendCertsFromPEM(pem) {
				return nil, cerr.New(cerr.ErrSSLInvalidCert, "invalid CA certificate PEM")
			}
		}
		tlsCfg.RootCAs = pool
	}

	if len(ssl.CertPEM) > 0 || len(ssl.KeyPEM) > 0 {
		cert, err := tls.X509KeyPair(ssl.CertPEM, ssl.KeyPEM)
		if err != nil {
			return nil, cerr.Wrap(cerr.ErrSSLInvalidPrivateKey, "invalid client certificate or key", err)
		}
		tlsCfg.Certificates = []tls.Certificate{cert}
	}

	return tlsCfg, nil
}

type conn struct {
	session *gocql.Session
}

func (c *conn) Query(ctx context.Context, stmt *driver.Statement) (*driver.ResultSet, error) {
	args, err := bindArgs(stmt.Params)
	if err != nil {
		return nil, err
	}

	q := c.session.Query(stmt.Query, args...).WithContext(ctx)
	q = q.Consistency(gocql.Consistency(stmt.Consistency))
	if stmt.PageSize > 0 {
		// Setting an explicit page state turns gocql's automatic paging
		// off, which is exactly the single-page semantics the boundary
		// exposes through has-more-pages / paging-state.
		q = q.PageSize(stmt.PageSize).PageState(stmt.PagingState)
	}
	if stmt.IdempotentHint {
		q = q.Idempotent(true)
	}

	iter := q.Iter()
	rs, err := materialize(iter)
	if err != nil {
		return nil, mapError(err)
	}
	return rs, nil
}

func (c *conn) Prepare(ctx context.Context, query string) (*driver.Prepared, error) {
	// gocql prepares statements transparently on first execution and
	// keeps them in its own cache; there is no separate prepare round
	// trip to expose. Parameter metadata is derived from the positional
	// markers instead.
	if ctx.Err() != nil {
		return nil, cerr.Wrap(cerr.ErrLibRequestTimedOut, "prepare cancelled", ctx.Err())
	}
	return &driver.Prepared{
		Query:      query,
		ParamCount: strings.Count(query, "?"),
	}, nil
}

func (c *conn) Batch(ctx context.Context, batch *driver.Batch) (*driver.ResultSet, error) {
	b := c.session.NewBatch(gocql.BatchType(batch.Type)).WithContext(ctx)
	b.Cons = gocql.Consistency(batch.Consistency)

	for i := range batch.Statements {
		st := &batch.Statements[i]
		args, err := bindArgs(st.Params)
		if err != nil {
			return nil, err
		}
		b.Entries = append(b.Entries, gocql.BatchEntry{Stmt: st.Query, Args: args})
	}

	if err := c.session.ExecuteBatch(b); err != nil {
		return nil, mapError(err)
	}
	return &driver.ResultSet{}, nil
}

func (c *conn) KeyspaceMeta(ctx context.Context, keyspace string) (*driver.KeyspaceMeta, error) {
	if ctx.Err() != nil {
		return nil, cerr.Wrap(cerr.ErrLibRequestTimedOut, "metadata fetch cancelled", ctx.Err())
	}
	md, err := c.session.KeyspaceMetadata(keyspace)
	if err != nil {
		return nil, mapError(err)
	}

	ks := &driver.KeyspaceMeta{Name: md.Name}
	for name, tbl := range md.Tables {
		tm := driver.TableMeta{Name: name}
		for colName, col := range tbl.Columns {
			tm.Columns = append(tm.Columns, driver.ColumnMeta{
				Name: colName,
				Type: mapType(col.Type.Type()),
			})
		}
		for _, col := range tbl.PartitionKey {
			tm.PartitionKey = append(tm.PartitionKey, col.Name)
		}
		for _, col := range tbl.ClusteringColumns {
			tm.ClusteringKey = append(tm.ClusteringKey, col.Name)
		}
		ks.Tables = append(ks.Tables, tm)
	}
	return ks, nil
}

func (c *conn) Close() {
	c.session.Close()
}

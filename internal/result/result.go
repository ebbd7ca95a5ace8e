// Package result projects the driver's materialized result sets into the
// borrowed row/value views the boundary exposes.
//
// A driver.ResultSet is the single owner of its data. Rows and values
// handed out by this package are index views into it — no row bytes are
// copied — and stay valid exactly as long as the owning result handle is
// live. The handle registry enforces that lifetime; this package only
// does the navigation and type checking.
package result

import (
	"github.com/cassgate/cassgate/internal/cerr"
	"github.com/cassgate/cassgate/internal/driver"
)

// Row is a borrowed view of one row of a result set.
type Row struct {
	rs  *driver.ResultSet
	idx int
}

// RowAt returns the i-th row view, in server-returned order.
func RowAt(rs *driver.ResultSet, i int) (Row, error) {
	if rs == nil {
		return Row{}, cerr.New(cerr.ErrLibBadParams, "result is null")
	}
	if i < 0 || i >= len(rs.Rows) {
		return Row{}, cerr.Newf(cerr.ErrLibIndexOutOfBounds, "row %d of %d", i, len(rs.Rows))
	}
	return Row{rs: rs, idx: i}, nil
}

// FirstRow returns the first row view, matching the common
// single-row-read shape of the boundary API.
func FirstRow(rs *driver.ResultSet) (Row, error) {
	return RowAt(rs, 0)
}

// ColumnCount returns the number of columns in the row.
func (r Row) ColumnCount() int {
	return len(r.rs.Columns)
}

// Value returns a borrowed view of the i-th column.
func (r Row) Value(i int) (*driver.Value, error) {
	if i < 0 || i >= len(r.rs.Columns) {
		return nil, cerr.Newf(cerr.ErrLibIndexOutOfBounds, "column %d of %d", i, len(r.rs.Columns))
	}
	return &r.rs.Rows[r.idx][i], nil
}

// ValueByName returns a borrowed view of the named column.
func (r Row) ValueByName(name string) (*driver.Value, error) {
	for i := range r.rs.Columns {
		if r.rs.Columns[i].Name == name {
			return &r.rs.Rows[r.idx][i], nil
		}
	}
	return nil, cerr.Newf(cerr.ErrLibNameDoesNotExist, "no column %q", name)
}

// ColumnName returns the i-th column name of a result set. The string is
// borrowed from the result's metadata.
func ColumnName(rs *driver.ResultSet, i int) (string, error) {
	if i < 0 || i >= len(rs.Columns) {
		return "", cerr.Newf(cerr.ErrLibIndexOutOfBounds, "column %d of %d", i, len(rs.Columns))
	}
	return rs.Columns[i].Name, nil
}

// ColumnType returns the i-th column type tag of a result set.
func ColumnType(rs *driver.ResultSet, i int) (driver.Type, error) {
	if i < 0 || i >= len(rs.Columns) {
		return driver.TypeUnknown, cerr.Newf(cerr.ErrLibIndexOutOfBounds, "column %d of %d", i, len(rs.Columns))
	}
	return rs.Columns[i].Type, nil
}

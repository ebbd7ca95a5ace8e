package bridge

import (
	"net"
	"time"

	"github.com/cassgate/cassgate/internal/cerr"
	"github.com/cassgate/cassgate/internal/driver"
	"github.com/cassgate/cassgate/internal/handle"
	"github.com/cassgate/cassgate/internal/result"
)

func getResult(h Handle) (*driver.ResultSet, bool) {
	obj, ok := reg.Get(h, handle.KindResult)
	if !ok {
		return nil, false
	}
	return obj.(*driver.ResultSet), true
}

func getRow(h Handle) (result.Row, bool) {
	obj, ok := reg.Get(h, handle.KindRow)
	if !ok {
		return result.Row{}, false
	}
	return obj.(result.Row), true
}

func getValue(h Handle) (*driver.Value, bool) {
	obj, ok := reg.Get(h, handle.KindValue)
	if !ok {
		return nil, false
	}
	return obj.(*driver.Value), true
}

// ResultFree releases the caller's reference on the result. The rows,
// values, and iterators borrowed from it become invalid.
func ResultFree(h Handle) {
	defer recoverLog()
	reg.Unref(h, handle.KindResult)
}

// ResultRowCount returns the number of rows in this page.
func ResultRowCount(h Handle) (n int, code cerr.Code) {
	defer recoverTo(&code)
	rs, ok := getResult(h)
	if !ok {
		return 0, cerr.ErrLibBadParams
	}
	return rs.RowCount(), cerr.Ok
}

// ResultColumnCount returns the number of columns per row.
func ResultColumnCount(h Handle) (n int, code cerr.Code) {
	defer recoverTo(&code)
	rs, ok := getResult(h)
	if !ok {
		return 0, cerr.ErrLibBadParams
	}
	return len(rs.Columns), cerr.Ok
}

// ResultColumnName returns the i-th column name, borrowed from the
// result's metadata.
func ResultColumnName(h Handle, i int) (name string, code cerr.Code) {
	defer recoverTo(&code)
	rs, ok := getResult(h)
	if !ok {
		return "", cerr.ErrLibBadParams
	}
	name, err := result.ColumnName(rs, i)
	return name, cerr.CodeOf(err)
}

// ResultColumnType returns the i-th column's type tag.
func ResultColumnType(h Handle, i int) (t driver.Type, code cerr.Code) {
	defer recoverTo(&code)
	rs, ok := getResult(h)
	if !ok {
		return driver.TypeUnknown, cerr.ErrLibBadParams
	}
	t, err := result.ColumnType(rs, i)
	return t, cerr.CodeOf(err)
}

// ResultHasMorePages reports whether the query has more pages to fetch
// through StatementSetPagingState.
func ResultHasMorePages(h Handle) (more bool, code cerr.Code) {
	defer recoverTo(&code)
	rs, ok := getResult(h)
	if !ok {
		return false, cerr.ErrLibBadParams
	}
	return rs.HasMorePages, cerr.Ok
}

// rowHandle registers a row view borrowed from parent.
func rowHandle(r result.Row, parent Handle) (Handle, cerr.Code) {
	h := reg.NewBorrowed(handle.KindRow, r, parent)
	if h == Nil {
		return Nil, cerr.ErrLibBadParams
	}
	return h, cerr.Ok
}

// valueHandle registers a value view borrowed from parent.
func valueHandle(v *driver.Value, parent Handle) (Handle, cerr.Code) {
	h := reg.NewBorrowed(handle.KindValue, v, parent)
	if h == Nil {
		return Nil, cerr.ErrLibBadParams
	}
	return h, cerr.Ok
}

// ResultFirstRow returns a borrowed view of the first row.
func ResultFirstRow(h Handle) (rh Handle, code cerr.Code) {
	defer recoverTo(&code)
	rs, ok := getResult(h)
	if !ok {
		return Nil, cerr.ErrLibBadParams
	}
	row, err := result.FirstRow(rs)
	if err != nil {
		return Nil, cerr.CodeOf(err)
	}
	return rowHandle(row, h)
}

// ResultRow returns a borrowed view of the i-th row, valid while the
// result handle is live. Row handles have no free call.
func ResultRow(h Handle, i int) (rh Handle, code cerr.Code) {
	defer recoverTo(&code)
	rs, ok := getResult(h)
	if !ok {
		return Nil, cerr.ErrLibBadParams
	}
	row, err := result.RowAt(rs, i)
	if err != nil {
		return Nil, cerr.CodeOf(err)
	}
	return rowHandle(row, h)
}

// RowColumn returns a borrowed view of the i-th column value.
func RowColumn(h Handle, i int) (vh Handle, code cerr.Code) {
	defer recoverTo(&code)
	row, ok := getRow(h)
	if !ok {
		return Nil, cerr.ErrLibBadParams
	}
	v, err := row.Value(i)
	if err != nil {
		return Nil, cerr.CodeOf(err)
	}
	return valueHandle(v, h)
}

// RowColumnByName returns a borrowed view of the named column value.
func RowColumnByName(h Handle, name string) (vh Handle, code cerr.Code) {
	defer recoverTo(&code)
	row, ok := getRow(h)
	if !ok {
		return Nil, cerr.ErrLibBadParams
	}
	v, err := row.ValueByName(name)
	if err != nil {
		return Nil, cerr.CodeOf(err)
	}
	return valueHandle(v, h)
}

// ValueType returns the value's type tag.
func ValueType(h Handle) (t driver.Type, code cerr.Code) {
	defer recoverTo(&code)
	v, ok := getValue(h)
	if !ok {
		return driver.TypeUnknown, cerr.ErrLibBadParams
	}
	return v.Type, cerr.Ok
}

// ValueIsNull reports whether the value is unset.
func ValueIsNull(h Handle) (null bool, code cerr.Code) {
	defer recoverTo(&code)
	v, ok := getValue(h)
	if !ok {
		return false, cerr.ErrLibBadParams
	}
	return v.Null, cerr.Ok
}

// ValueGetInt8 reads a tinyint value.
func ValueGetInt8(h Handle) (n int8, code cerr.Code) {
	defer recoverTo(&code)
	v, ok := getValue(h)
	if !ok {
		return 0, cerr.ErrLibBadParams
	}
	n, err := result.AsInt8(v)
	return n, cerr.CodeOf(err)
}

// ValueGetInt16 reads a smallint value.
func ValueGetInt16(h Handle) (n int16, code cerr.Code) {
	defer recoverTo(&code)
	v, ok := getValue(h)
	if !ok {
		return 0, cerr.ErrLibBadParams
	}
	n, err := result.AsInt16(v)
	return n, cerr.CodeOf(err)
}

// ValueGetInt32 reads an int value. A null value or a different type tag
// is an error, never a reinterpretation.
func ValueGetInt32(h Handle) (n int32, code cerr.Code) {
	defer recoverTo(&code)
	v, ok := getValue(h)
	if !ok {
		return 0, cerr.ErrLibBadParams
	}
	n, err := result.AsInt32(v)
	return n, cerr.CodeOf(err)
}

// ValueGetInt64 reads a bigint or counter value.
func ValueGetInt64(h Handle) (n int64, code cerr.Code) {
	defer recoverTo(&code)
	v, ok := getValue(h)
	if !ok {
		return 0, cerr.ErrLibBadParams
	}
	n, err := result.AsInt64(v)
	return n, cerr.CodeOf(err)
}

// ValueGetBool reads a boolean value.
func ValueGetBool(h Handle) (b bool, code cerr.Code) {
	defer recoverTo(&code)
	v, ok := getValue(h)
	if !ok {
		return false, cerr.ErrLibBadParams
	}
	b, err := result.AsBool(v)
	return b, cerr.CodeOf(err)
}

// ValueGetFloat reads a float value.
func ValueGetFloat(h Handle) (f float32, code cerr.Code) {
	defer recoverTo(&code)
	v, ok := getValue(h)
	if !ok {
		return 0, cerr.ErrLibBadParams
	}
	f, err := result.AsFloat32(v)
	return f, cerr.CodeOf(err)
}

// ValueGetDouble reads a double value.
func ValueGetDouble(h Handle) (f float64, code cerr.Code) {
	defer recoverTo(&code)
	v, ok := getValue(h)
	if !ok {
		return 0, cerr.ErrLibBadParams
	}
	f, err := result.AsFloat64(v)
	return f, cerr.CodeOf(err)
}

// ValueGetString reads a textual value, borrowed from the result's
// backing data.
func ValueGetString(h Handle) (s string, code cerr.Code) {
	defer recoverTo(&code)
	v, ok := getValue(h)
	if !ok {
		return "", cerr.ErrLibBadParams
	}
	s, err := result.AsString(v)
	return s, cerr.CodeOf(err)
}

// ValueGetBytes reads a blob value, borrowed from the result's backing
// data.
func ValueGetBytes(h Handle) (b []byte, code cerr.Code) {
	defer recoverTo(&code)
	v, ok := getValue(h)
	if !ok {
		return nil, cerr.ErrLibBadParams
	}
	b, err := result.AsBytes(v)
	return b, cerr.CodeOf(err)
}

// ValueGetUUID reads a uuid or timeuuid value.
func ValueGetUUID(h Handle) (u [16]byte, code cerr.Code) {
	defer recoverTo(&code)
	v, ok := getValue(h)
	if !ok {
		return [16]byte{}, cerr.ErrLibBadParams
	}
	u, err := result.AsUUID(v)
	return u, cerr.CodeOf(err)
}

// ValueGetInet reads an inet value, borrowed from the result's backing
// data.
func ValueGetInet(h Handle) (ip net.IP, code cerr.Code) {
	defer recoverTo(&code)
	v, ok := getValue(h)
	if !ok {
		return nil, cerr.ErrLibBadParams
	}
	ip, err := result.AsInet(v)
	return ip, cerr.CodeOf(err)
}

// ValueGetTimestamp reads a timestamp value.
func ValueGetTimestamp(h Handle) (ts time.Time, code cerr.Code) {
	defer recoverTo(&code)
	v, ok := getValue(h)
	if !ok {
		return time.Time{}, cerr.ErrLibBadParams
	}
	ts, err := result.AsTimestamp(v)
	return ts, cerr.CodeOf(err)
}

// ValueItemCount returns the number of elements of a collection or
// tuple, entries of a map, or fields of a UDT.
func ValueItemCount(h Handle) (n int, code cerr.Code) {
	defer recoverTo(&code)
	v, ok := getValue(h)
	if !ok {
		return 0, cerr.ErrLibBadParams
	}
	n, err := result.ItemCount(v)
	return n, cerr.CodeOf(err)
}

// ValueItem returns a borrowed view of the i-th element of a list, set,
// or tuple.
func ValueItem(h Handle, i int) (vh Handle, code cerr.Code) {
	defer recoverTo(&code)
	v, ok := getValue(h)
	if !ok {
		return Nil, cerr.ErrLibBadParams
	}
	item, err := result.Item(v, i)
	if err != nil {
		return Nil, cerr.CodeOf(err)
	}
	return valueHandle(item, h)
}

// ValueUDTField returns a borrowed view of the named field of a UDT
// value.
func ValueUDTField(h Handle, name string) (vh Handle, code cerr.Code) {
	defer recoverTo(&code)
	v, ok := getValue(h)
	if !ok {
		return Nil, cerr.ErrLibBadParams
	}
	field, err := result.UDTField(v, name)
	if err != nil {
		return Nil, cerr.CodeOf(err)
	}
	return valueHandle(field, h)
}

func getSchemaMeta(h Handle) (*driver.KeyspaceMeta, bool) {
	obj, ok := reg.Get(h, handle.KindSchemaMeta)
	if !ok {
		return nil, false
	}
	return obj.(*driver.KeyspaceMeta), true
}

// SchemaMetaFree releases a schema snapshot.
func SchemaMetaFree(h Handle) {
	defer recoverLog()
	reg.Release(h, handle.KindSchemaMeta)
}

// SchemaMetaKeyspaceName returns the snapshot's keyspace name.
func SchemaMetaKeyspaceName(h Handle) (name string, code cerr.Code) {
	defer recoverTo(&code)
	ks, ok := getSchemaMeta(h)
	if !ok {
		return "", cerr.ErrLibBadParams
	}
	return ks.Name, cerr.Ok
}

// SchemaMetaTableCount returns how many tables the snapshot holds.
func SchemaMetaTableCount(h Handle) (n int, code cerr.Code) {
	defer recoverTo(&code)
	ks, ok := getSchemaMeta(h)
	if !ok {
		return 0, cerr.ErrLibBadParams
	}
	return len(ks.Tables), cerr.Ok
}

package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cassgate/cassgate/internal/cerr"
	"github.com/cassgate/cassgate/internal/driver"
)

// sampleResultSet builds a two-row result with one value of every shape
// the projection layer distinguishes.
func sampleResultSet() *driver.ResultSet {
	return &driver.ResultSet{
		Columns: []driver.Column{
			{Name: "id", Type: driver.TypeInt},
			{Name: "name", Type: driver.TypeText},
			{Name: "tags", Type: driver.TypeList},
			{Name: "attrs", Type: driver.TypeMap},
			{Name: "addr", Type: driver.TypeUDT},
		},
		Rows: [][]driver.Value{
			{
				{Type: driver.TypeInt, Data: int32(1)},
				{Type: driver.TypeText, Data: "ada"},
				{Type: driver.TypeList, Items: []driver.Value{
					{Type: driver.TypeText, Data: "a"},
					{Type: driver.TypeText, Data: "b"},
				}},
				{Type: driver.TypeMap, Pairs: []driver.Pair{
					{
						Key: driver.Value{Type: driver.TypeText, Data: "k"},
						Val: driver.Value{Type: driver.TypeInt, Data: int32(7)},
					},
				}},
				{Type: driver.TypeUDT, TypeName: "address", Fields: []driver.Field{
					{Name: "city", Value: driver.Value{Type: driver.TypeText, Data: "oslo"}},
					{Name: "zip", Value: driver.Value{Type: driver.TypeInt, Data: int32(555)}},
				}},
			},
			{
				{Type: driver.TypeInt, Data: int32(2)},
				{Type: driver.TypeText, Null: true},
				{Type: driver.TypeList},
				{Type: driver.TypeMap},
				{Type: driver.TypeUDT, TypeName: "address"},
			},
		},
	}
}

func TestRowAccess(t *testing.T) {
	rs := sampleResultSet()

	row, err := RowAt(rs, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, row.ColumnCount())

	v, err := row.Value(0)
	require.NoError(t, err)
	n, err := AsInt32(v)
	require.NoError(t, err)
	assert.Equal(t, int32(1), n)

	v, err = row.ValueByName("name")
	require.NoError(t, err)
	s, err := AsString(v)
	require.NoError(t, err)
	assert.Equal(t, "ada", s)

	// Out-of-range and unknown-name lookups fail with the right codes.
	_, err = row.Value(5)
	assert.Equal(t, cerr.ErrLibIndexOutOfBounds, cerr.CodeOf(err))
	_, err = row.ValueByName("nope")
	assert.Equal(t, cerr.ErrLibNameDoesNotExist, cerr.CodeOf(err))

	_, err = RowAt(rs, 2)
	assert.Equal(t, cerr.ErrLibIndexOutOfBounds, cerr.CodeOf(err))
	_, err = RowAt(nil, 0)
	assert.Equal(t, cerr.ErrLibBadParams, cerr.CodeOf(err))
}

func TestColumnMetadata(t *testing.T) {
	rs := sampleResultSet()

	name, err := ColumnName(rs, 1)
	require.NoError(t, err)
	assert.Equal(t, "name", name)

	typ, err := ColumnType(rs, 2)
	require.NoError(t, err)
	assert.Equal(t, driver.TypeList, typ)

	_, err = ColumnName(rs, 9)
	assert.Equal(t, cerr.ErrLibIndexOutOfBounds, cerr.CodeOf(err))
}

func TestTypedGetterMismatch(t *testing.T) {
	rs := sampleResultSet()
	row, _ := RowAt(rs, 0)

	v, _ := row.Value(1) // text

	// A wrong tag is a type-mismatch error, never a reinterpretation.
	_, err := AsInt32(v)
	assert.Equal(t, cerr.ErrLibInvalidValueType, cerr.CodeOf(err))
	_, err = AsBool(v)
	assert.Equal(t, cerr.ErrLibInvalidValueType, cerr.CodeOf(err))
	_, err = AsUUID(v)
	assert.Equal(t, cerr.ErrLibInvalidValueType, cerr.CodeOf(err))
}

func TestNullValue(t *testing.T) {
	rs := sampleResultSet()
	row, _ := RowAt(rs, 1)

	v, _ := row.Value(1)
	assert.True(t, v.Null)

	_, err := AsString(v)
	assert.Equal(t, cerr.ErrLibNullValue, cerr.CodeOf(err))
}

func TestCollectionAccess(t *testing.T) {
	rs := sampleResultSet()
	row, _ := RowAt(rs, 0)

	list, _ := row.Value(2)
	n, err := ItemCount(list)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	item, err := Item(list, 1)
	require.NoError(t, err)
	s, err := AsString(item)
	require.NoError(t, err)
	assert.Equal(t, "b", s)

	_, err = Item(list, 2)
	assert.Equal(t, cerr.ErrLibIndexOutOfBounds, cerr.CodeOf(err))

	// Scalars are not collections.
	scalar, _ := row.Value(0)
	_, err = ItemCount(scalar)
	assert.Equal(t, cerr.ErrLibInvalidValueType, cerr.CodeOf(err))
}

func TestUDTFieldAccess(t *testing.T) {
	rs := sampleResultSet()
	row, _ := RowAt(rs, 0)

	udt, _ := row.Value(4)
	city, err := UDTField(udt, "city")
	require.NoError(t, err)
	s, err := AsString(city)
	require.NoError(t, err)
	assert.Equal(t, "oslo", s)

	_, err = UDTField(udt, "country")
	assert.Equal(t, cerr.ErrLibNameDoesNotExist, cerr.CodeOf(err))
}

func TestResultIterator(t *testing.T) {
	rs := sampleResultSet()

	it, err := FromResult(rs)
	require.NoError(t, err)

	// Access before the first Next is an error, not a crash.
	_, err = it.Row()
	assert.Equal(t, cerr.ErrLibInvalidState, cerr.CodeOf(err))

	var ids []int32
	for it.Next() {
		row, err := it.Row()
		require.NoError(t, err)
		v, _ := row.Value(0)
		id, err := AsInt32(v)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	assert.Equal(t, []int32{1, 2}, ids)

	// Exhausted for good.
	assert.False(t, it.Next())
	_, err = it.Row()
	assert.Equal(t, cerr.ErrLibInvalidState, cerr.CodeOf(err))
}

func TestTwoIndependentCursorsAgree(t *testing.T) {
	rs := sampleResultSet()

	read := func() []int32 {
		it, err := FromResult(rs)
		require.NoError(t, err)
		var ids []int32
		for it.Next() {
			row, _ := it.Row()
			v, _ := row.Value(0)
			id, _ := AsInt32(v)
			ids = append(ids, id)
		}
		return ids
	}

	assert.Equal(t, read(), read())
}

func TestRowIterator(t *testing.T) {
	rs := sampleResultSet()
	row, _ := RowAt(rs, 0)

	it := FromRow(row)
	count := 0
	for it.Next() {
		v, err := it.Value()
		require.NoError(t, err)
		require.NotNil(t, v)
		count++
	}
	assert.Equal(t, 5, count)
}

func TestCollectionIterator(t *testing.T) {
	rs := sampleResultSet()
	row, _ := RowAt(rs, 0)
	list, _ := row.Value(2)

	it, err := FromCollection(list)
	require.NoError(t, err)

	var items []string
	for it.Next() {
		v, _ := it.Value()
		s, _ := AsString(v)
		items = append(items, s)
	}
	assert.Equal(t, []string{"a", "b"}, items)

	// Wrong source type rejected at construction.
	scalar, _ := row.Value(0)
	_, err = FromCollection(scalar)
	assert.Equal(t, cerr.ErrLibInvalidValueType, cerr.CodeOf(err))
}

func TestMapIterator(t *testing.T) {
	rs := sampleResultSet()
	row, _ := RowAt(rs, 0)
	m, _ := row.Value(3)

	it, err := FromMap(m)
	require.NoError(t, err)

	require.True(t, it.Next())
	k, err := it.MapKey()
	require.NoError(t, err)
	v, err := it.MapValue()
	require.NoError(t, err)

	ks, _ := AsString(k)
	vn, _ := AsInt32(v)
	assert.Equal(t, "k", ks)
	assert.Equal(t, int32(7), vn)

	assert.False(t, it.Next())
}

func TestUDTIterator(t *testing.T) {
	rs := sampleResultSet()
	row, _ := RowAt(rs, 0)
	udt, _ := row.Value(4)

	it, err := FromUDT(udt)
	require.NoError(t, err)

	fields := make(map[string]bool)
	for it.Next() {
		name, err := it.FieldName()
		require.NoError(t, err)
		_, err = it.Value()
		require.NoError(t, err)
		fields[name] = true
	}
	assert.Equal(t, map[string]bool{"city": true, "zip": true}, fields)
}

func TestKeyspaceMetaIterator(t *testing.T) {
	ks := &driver.KeyspaceMeta{
		Name: "app",
		Tables: []driver.TableMeta{
			{Name: "users"},
			{Name: "events"},
		},
	}

	it, err := FromKeyspaceMeta(ks)
	require.NoError(t, err)

	var names []string
	for it.Next() {
		tbl, err := it.Table()
		require.NoError(t, err)
		names = append(names, tbl.Name)
	}
	assert.Equal(t, []string{"users", "events"}, names)
}

func TestEmptyResultIterator(t *testing.T) {
	it, err := FromResult(&driver.ResultSet{})
	require.NoError(t, err)
	assert.False(t, it.Next())
	assert.False(t, it.Next())
}

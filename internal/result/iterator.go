package result

import (
	"github.com/cassgate/cassgate/internal/cerr"
	"github.com/cassgate/cassgate/internal/driver"
)

type iterKind uint8

const (
	iterResult iterKind = iota + 1
	iterRow
	iterCollection
	iterMap
	iterUDT
	iterTables
)

// Iterator is the stateful forward-only cursor over a result's rows, a
// row's columns, a collection's elements, a map's entries, a UDT's
// fields, or a schema snapshot's tables.
//
// A fresh iterator is positioned before the first element: Next must be
// called before the first access. Iterators are finite and not
// restartable; create a second iterator to traverse again. Like the rest
// of the borrowed surface, an iterator is valid only while its parent is.
type Iterator struct {
	kind iterKind
	pos  int

	rs  *driver.ResultSet
	row Row
	val *driver.Value
	ks  *driver.KeyspaceMeta
}

// FromResult iterates the rows of a result set in server order.
func FromResult(rs *driver.ResultSet) (*Iterator, error) {
	if rs == nil {
		return nil, cerr.New(cerr.ErrLibBadParams, "result is null")
	}
	return &Iterator{kind: iterResult, pos: -1, rs: rs}, nil
}

// FromRow iterates the column values of a row.
func FromRow(r Row) *Iterator {
	return &Iterator{kind: iterRow, pos: -1, row: r}
}

// FromCollection iterates the elements of a list, set, or tuple.
func FromCollection(v *driver.Value) (*Iterator, error) {
	if err := checkValue(v, driver.TypeList, driver.TypeSet, driver.TypeTuple); err != nil {
		return nil, err
	}
	return &Iterator{kind: iterCollection, pos: -1, val: v}, nil
}

// FromMap iterates the entries of a map.
func FromMap(v *driver.Value) (*Iterator, error) {
	if err := checkValue(v, driver.TypeMap); err != nil {
		return nil, err
	}
	return &Iterator{kind: iterMap, pos: -1, val: v}, nil
}

// FromUDT iterates the fields of a user-defined type value.
func FromUDT(v *driver.Value) (*Iterator, error) {
	if err := checkValue(v, driver.TypeUDT); err != nil {
		return nil, err
	}
	return &Iterator{kind: iterUDT, pos: -1, val: v}, nil
}

// FromKeyspaceMeta iterates the tables of a schema snapshot.
func FromKeyspaceMeta(ks *driver.KeyspaceMeta) (*Iterator, error) {
	if ks == nil {
		return nil, cerr.New(cerr.ErrLibBadParams, "schema meta is null")
	}
	return &Iterator{kind: iterTables, pos: -1, ks: ks}, nil
}

func (it *Iterator) length() int {
	switch it.kind {
	case iterResult:
		return len(it.rs.Rows)
	case iterRow:
		return it.row.ColumnCount()
	case iterCollection:
		return len(it.val.Items)
	case iterMap:
		return len(it.val.Pairs)
	case iterUDT:
		return len(it.val.Fields)
	case iterTables:
		return len(it.ks.Tables)
	}
	return 0
}

// Next advances the cursor. It returns false once the sequence is
// exhausted and stays false afterwards.
func (it *Iterator) Next() bool {
	if it.pos+1 >= it.length() {
		it.pos = it.length()
		return false
	}
	it.pos++
	return true
}

func (it *Iterator) current() (int, error) {
	if it.pos < 0 {
		return 0, cerr.New(cerr.ErrLibInvalidState, "iterator not advanced; call next first")
	}
	if it.pos >= it.length() {
		return 0, cerr.New(cerr.ErrLibInvalidState, "iterator exhausted")
	}
	return it.pos, nil
}

// Row returns the current row of a result iterator.
func (it *Iterator) Row() (Row, error) {
	if it.kind != iterResult {
		return Row{}, cerr.New(cerr.ErrLibBadParams, "not a result iterator")
	}
	pos, err := it.current()
	if err != nil {
		return Row{}, err
	}
	return Row{rs: it.rs, idx: pos}, nil
}

// Value returns the current element: a column value (row iterator), an
// element (collection iterator), or a field value (UDT iterator).
func (it *Iterator) Value() (*driver.Value, error) {
	pos, err := it.current()
	if err != nil {
		return nil, err
	}
	switch it.kind {
	case iterRow:
		return it.row.Value(pos)
	case iterCollection:
		return &it.val.Items[pos], nil
	case iterUDT:
		return &it.val.Fields[pos].Value, nil
	}
	return nil, cerr.New(cerr.ErrLibBadParams, "iterator has no single value")
}

// MapKey returns the current entry's key of a map iterator.
func (it *Iterator) MapKey() (*driver.Value, error) {
	if it.kind != iterMap {
		return nil, cerr.New(cerr.ErrLibBadParams, "not a map iterator")
	}
	pos, err := it.current()
	if err != nil {
		return nil, err
	}
	return &it.val.Pairs[pos].Key, nil
}

// MapValue returns the current entry's value of a map iterator.
func (it *Iterator) MapValue() (*driver.Value, error) {
	if it.kind != iterMap {
		return nil, cerr.New(cerr.ErrLibBadParams, "not a map iterator")
	}
	pos, err := it.current()
	if err != nil {
		return nil, err
	}
	return &it.val.Pairs[pos].Val, nil
}

// FieldName returns the current field's name of a UDT iterator.
func (it *Iterator) FieldName() (string, error) {
	if it.kind != iterUDT {
		return "", cerr.New(cerr.ErrLibBadParams, "not a UDT iterator")
	}
	pos, err := it.current()
	if err != nil {
		return "", err
	}
	return it.val.Fields[pos].Name, nil
}

// Table returns the current table of a schema iterator.
func (it *Iterator) Table() (*driver.TableMeta, error) {
	if it.kind != iterTables {
		return nil, cerr.New(cerr.ErrLibBadParams, "not a schema iterator")
	}
	pos, err := it.current()
	if err != nil {
		return nil, err
	}
	return &it.ks.Tables[pos], nil
}

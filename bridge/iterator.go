package bridge

import (
	"github.com/cassgate/cassgate/internal/cerr"
	"github.com/cassgate/cassgate/internal/handle"
	"github.com/cassgate/cassgate/internal/result"
)

// iterator pairs the cursor with the handle its data is borrowed from,
// so rows and values handed out mid-iteration are registered against the
// right parent.
type iterator struct {
	it     *result.Iterator
	parent Handle
}

func getIterator(h Handle) (*iterator, bool) {
	obj, ok := reg.Get(h, handle.KindIterator)
	if !ok {
		return nil, false
	}
	return obj.(*iterator), true
}

// IteratorFree releases the iterator. The data it walked stays owned by
// its source.
func IteratorFree(h Handle) {
	defer recoverLog()
	reg.Release(h, handle.KindIterator)
}

// IteratorFromResult iterates the rows of a result in server order. The
// iterator is valid while the result handle is live; free it with
// IteratorFree.
func IteratorFromResult(h Handle) (ih Handle, code cerr.Code) {
	defer recoverTo(&code)
	rs, ok := getResult(h)
	if !ok {
		return Nil, cerr.ErrLibBadParams
	}
	it, err := result.FromResult(rs)
	if err != nil {
		return Nil, cerr.CodeOf(err)
	}
	return reg.New(handle.KindIterator, &iterator{it: it, parent: h}), cerr.Ok
}

// IteratorFromRow iterates the column values of a row.
func IteratorFromRow(h Handle) (ih Handle, code cerr.Code) {
	defer recoverTo(&code)
	row, ok := getRow(h)
	if !ok {
		return Nil, cerr.ErrLibBadParams
	}
	return reg.New(handle.KindIterator, &iterator{it: result.FromRow(row), parent: h}), cerr.Ok
}

// IteratorFromCollection iterates the elements of a list or set value.
func IteratorFromCollection(h Handle) (ih Handle, code cerr.Code) {
	defer recoverTo(&code)
	return collectionIterator(h)
}

// IteratorFromTuple iterates the elements of a tuple value.
func IteratorFromTuple(h Handle) (ih Handle, code cerr.Code) {
	defer recoverTo(&code)
	return collectionIterator(h)
}

func collectionIterator(h Handle) (Handle, cerr.Code) {
	v, ok := getValue(h)
	if !ok {
		return Nil, cerr.ErrLibBadParams
	}
	it, err := result.FromCollection(v)
	if err != nil {
		return Nil, cerr.CodeOf(err)
	}
	return reg.New(handle.KindIterator, &iterator{it: it, parent: h}), cerr.Ok
}

// IteratorFromMap iterates the entries of a map value.
func IteratorFromMap(h Handle) (ih Handle, code cerr.Code) {
	defer recoverTo(&code)
	v, ok := getValue(h)
	if !ok {
		return Nil, cerr.ErrLibBadParams
	}
	it, err := result.FromMap(v)
	if err != nil {
		return Nil, cerr.CodeOf(err)
	}
	return reg.New(handle.KindIterator, &iterator{it: it, parent: h}), cerr.Ok
}

// IteratorFromUDT iterates the fields of a user-defined type value.
func IteratorFromUDT(h Handle) (ih Handle, code cerr.Code) {
	defer recoverTo(&code)
	v, ok := getValue(h)
	if !ok {
		return Nil, cerr.ErrLibBadParams
	}
	it, err := result.FromUDT(v)
	if err != nil {
		return Nil, cerr.CodeOf(err)
	}
	return reg.New(handle.KindIterator, &iterator{it: it, parent: h}), cerr.Ok
}

// IteratorFromSchemaMeta iterates the tables of a schema snapshot.
func IteratorFromSchemaMeta(h Handle) (ih Handle, code cerr.Code) {
	defer recoverTo(&code)
	ks, ok := getSchemaMeta(h)
	if !ok {
		return Nil, cerr.ErrLibBadParams
	}
	it, err := result.FromKeyspaceMeta(ks)
	if err != nil {
		return Nil, cerr.CodeOf(err)
	}
	return reg.New(handle.KindIterator, &iterator{it: it, parent: h}), cerr.Ok
}

// IteratorNext advances the cursor and reports whether an element is
// available. It must be called before the first access; once it returns
// false the iterator is exhausted for good.
func IteratorNext(h Handle) (more bool, code cerr.Code) {
	defer recoverTo(&code)
	iw, ok := getIterator(h)
	if !ok {
		return false, cerr.ErrLibBadParams
	}
	return iw.it.Next(), cerr.Ok
}

// IteratorGetRow returns a borrowed view of the current row of a result
// iterator.
func IteratorGetRow(h Handle) (rh Handle, code cerr.Code) {
	defer recoverTo(&code)
	iw, ok := getIterator(h)
	if !ok {
		return Nil, cerr.ErrLibBadParams
	}
	row, err := iw.it.Row()
	if err != nil {
		return Nil, cerr.CodeOf(err)
	}
	return rowHandle(row, iw.parent)
}

// IteratorGetValue returns a borrowed view of the current element: a
// column value, a collection element, or a UDT field value.
func IteratorGetValue(h Handle) (vh Handle, code cerr.Code) {
	defer recoverTo(&code)
	iw, ok := getIterator(h)
	if !ok {
		return Nil, cerr.ErrLibBadParams
	}
	v, err := iw.it.Value()
	if err != nil {
		return Nil, cerr.CodeOf(err)
	}
	return valueHandle(v, iw.parent)
}

// IteratorGetMapKey returns a borrowed view of the current entry's key.
func IteratorGetMapKey(h Handle) (vh Handle, code cerr.Code) {
	defer recoverTo(&code)
	iw, ok := getIterator(h)
	if !ok {
		return Nil, cerr.ErrLibBadParams
	}
	v, err := iw.it.MapKey()
	if err != nil {
		return Nil, cerr.CodeOf(err)
	}
	return valueHandle(v, iw.parent)
}

// IteratorGetMapValue returns a borrowed view of the current entry's
// value.
func IteratorGetMapValue(h Handle) (vh Handle, code cerr.Code) {
	defer recoverTo(&code)
	iw, ok := getIterator(h)
	if !ok {
		return Nil, cerr.ErrLibBadParams
	}
	v, err := iw.it.MapValue()
	if err != nil {
		return Nil, cerr.CodeOf(err)
	}
	return valueHandle(v, iw.parent)
}

// IteratorGetFieldName returns the current field's name of a UDT
// iterator.
func IteratorGetFieldName(h Handle) (name string, code cerr.Code) {
	defer recoverTo(&code)
	iw, ok := getIterator(h)
	if !ok {
		return "", cerr.ErrLibBadParams
	}
	name, err := iw.it.FieldName()
	return name, cerr.CodeOf(err)
}

// IteratorGetTableName returns the current table's name of a schema
// iterator.
func IteratorGetTableName(h Handle) (name string, code cerr.Code) {
	defer recoverTo(&code)
	iw, ok := getIterator(h)
	if !ok {
		return "", cerr.ErrLibBadParams
	}
	tbl, err := iw.it.Table()
	if err != nil {
		return "", cerr.CodeOf(err)
	}
	return tbl.Name, cerr.Ok
}

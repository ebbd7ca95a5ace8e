package gocqldrv

import (
	"net"
	"reflect"

	"github.com/gocql/gocql"

	"github.com/cassgate/cassgate/internal/cerr"
	"github.com/cassgate/cassgate/internal/driver"
)

// mapType translates gocql's type tags to the stable driver tags. Both
// mirror the wire-protocol option codes, but the mapping is spelled out
// so a new gocql tag can never leak through unvetted.
func mapType(t gocql.Type) driver.Type {
	switch t {
	case gocql.TypeCustom:
		return driver.TypeCustom
	case gocql.TypeAscii:
		return driver.TypeAscii
	case gocql.TypeBigInt:
		return driver.TypeBigint
	case gocql.TypeBlob:
		return driver.TypeBlob
	case gocql.TypeBoolean:
		return driver.TypeBoolean
	case gocql.TypeCounter:
		return driver.TypeCounter
	case gocql.TypeDecimal:
		return driver.TypeDecimal
	case gocql.TypeDouble:
		return driver.TypeDouble
	case gocql.TypeFloat:
		return driver.TypeFloat
	case gocql.TypeInt:
		return driver.TypeInt
	case gocql.TypeText:
		return driver.TypeText
	case gocql.TypeTimestamp:
		return driver.TypeTimestamp
	case gocql.TypeUUID:
		return driver.TypeUUID
	case gocql.TypeVarchar:
		return driver.TypeVarchar
	case gocql.TypeVarint:
		return driver.TypeVarint
	case gocql.TypeTimeUUID:
		return driver.TypeTimeUUID
	case gocql.TypeInet:
		return driver.TypeInet
	case gocql.TypeDate:
		return driver.TypeDate
	case gocql.TypeTime:
		return driver.TypeTime
	case gocql.TypeSmallInt:
		return driver.TypeSmallint
	case gocql.TypeTinyInt:
		return driver.TypeTinyint
	case gocql.TypeList:
		return driver.TypeList
	case gocql.TypeMap:
		return driver.TypeMap
	case gocql.TypeSet:
		return driver.TypeSet
	case gocql.TypeUDT:
		return driver.TypeUDT
	case gocql.TypeTuple:
		return driver.TypeTuple
	default:
		return driver.TypeUnknown
	}
}

// materialize drains the iterator's current page into a ResultSet that
// owns all of its data. Columns are scanned through double pointers:
// gocql leaves the inner pointer nil for a NULL column, which is the
// only way to tell NULL apart from a zero value.
func materialize(iter *gocql.Iter) (*driver.ResultSet, error) {
	cols := iter.Columns()
	rs := &driver.ResultSet{
		Columns: make([]driver.Column, len(cols)),
	}
	for i, c := range cols {
		rs.Columns[i] = driver.Column{Name: c.Name, Type: mapType(c.TypeInfo.Type())}
	}

	// RowData allocates one value of the right Go type per column; its
	// type is what the double-pointer targets are built from.
	rd, err := iter.RowData()
	if err != nil {
		iter.Close()
		return nil, err
	}

	for {
		// Fresh targets each row so borrowed payloads (blobs, strings)
		// are never overwritten by the next scan.
		targets := make([]any, len(rd.Values))
		for i := range rd.Values {
			targets[i] = reflect.New(reflect.TypeOf(rd.Values[i])).Interface()
		}
		if !iter.Scan(targets...) {
			break
		}
		row := make([]driver.Value, len(cols))
		for i, c := range cols {
			inner := reflect.ValueOf(targets[i]).Elem()
			if inner.IsNil() {
				row[i] = driver.Value{Type: mapType(c.TypeInfo.Type()), Null: true}
				continue
			}
			row[i] = convertValue(c.TypeInfo, inner.Elem().Interface())
		}
		rs.Rows = append(rs.Rows, row)
	}

	state := iter.PageState()
	rs.PagingState = state
	rs.HasMorePages = len(state) > 0

	if err := iter.Close(); err != nil {
		return nil, err
	}
	return rs, nil
}

// convertValue decodes one gocql value into the tagged driver
// representation. Unhandled shapes keep their raw payload behind the
// tag; the typed getters reject them instead of guessing.
func convertValue(ti gocql.TypeInfo, raw any) driver.Value {
	t := mapType(ti.Type())
	if raw == nil {
		return driver.Value{Type: t, Null: true}
	}

	switch t {
	case driver.TypeUUID, driver.TypeTimeUUID:
		if u, ok := raw.(gocql.UUID); ok {
			return driver.Value{Type: t, Data: [16]byte(u)}
		}
	case driver.TypeList, driver.TypeSet:
		ct, ok := ti.(gocql.CollectionType)
		if !ok {
			break
		}
		rv := reflect.ValueOf(raw)
		if rv.Kind() != reflect.Slice {
			break
		}
		items := make([]driver.Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			items[i] = convertValue(ct.Elem, rv.Index(i).Interface())
		}
		return driver.Value{Type: t, Items: items}
	case driver.TypeMap:
		ct, ok := ti.(gocql.CollectionType)
		if !ok {
			break
		}
		rv := reflect.ValueOf(raw)
		if rv.Kind() != reflect.Map {
			break
		}
		pairs := make([]driver.Pair, 0, rv.Len())
		mi := rv.MapRange()
		for mi.Next() {
			pairs = append(pairs, driver.Pair{
				Key: convertValue(ct.Key, mi.Key().Interface()),
				Val: convertValue(ct.Elem, mi.Value().Interface()),
			})
		}
		return driver.Value{Type: t, Pairs: pairs}
	case driver.TypeUDT:
		ut, ok := ti.(gocql.UDTTypeInfo)
		if !ok {
			break
		}
		fieldsRaw, ok := raw.(map[string]any)
		if !ok {
			break
		}
		fields := make([]driver.Field, 0, len(ut.Elements))
		for _, el := range ut.Elements {
			fields = append(fields, driver.Field{
				Name:  el.Name,
				Value: convertValue(el.Type, fieldsRaw[el.Name]),
			})
		}
		return driver.Value{Type: t, TypeName: ut.Name, Fields: fields}
	case driver.TypeTuple:
		tt, ok := ti.(gocql.TupleTypeInfo)
		if !ok {
			break
		}
		elemsRaw, ok := raw.([]any)
		if !ok || len(elemsRaw) != len(tt.Elems) {
			break
		}
		items := make([]driver.Value, len(elemsRaw))
		for i, el := range tt.Elems {
			items[i] = convertValue(el, elemsRaw[i])
		}
		return driver.Value{Type: t, Items: items}
	case driver.TypeInt:
		// gocql decodes the 32-bit int type into a Go int.
		if n, ok := raw.(int); ok {
			return driver.Value{Type: t, Data: int32(n)}
		}
	case driver.TypeInet:
		// gocql decodes inet columns into their string form.
		switch ip := raw.(type) {
		case string:
			if parsed := net.ParseIP(ip); parsed != nil {
				return driver.Value{Type: t, Data: parsed}
			}
		case net.IP:
			return driver.Value{Type: t, Data: ip}
		}
	}

	return driver.Value{Type: t, Data: raw}
}

// bindArgs converts bound parameter values into what gocql's marshaller
// expects.
func bindArgs(params []driver.Value) ([]any, error) {
	if len(params) == 0 {
		return nil, nil
	}
	out := make([]any, len(params))
	for i := range params {
		arg, err := bindArg(&params[i])
		if err != nil {
			return nil, err
		}
		out[i] = arg
	}
	return out, nil
}

func bindArg(v *driver.Value) (any, error) {
	if v.Null {
		return nil, nil
	}
	switch v.Type {
	case driver.TypeUUID, driver.TypeTimeUUID:
		u, ok := v.Data.([16]byte)
		if !ok {
			return nil, cerr.Newf(cerr.ErrLibInvalidData, "uuid parameter holds %T", v.Data)
		}
		return gocql.UUID(u), nil
	case driver.TypeList, driver.TypeSet, driver.TypeTuple:
		items := make([]any, len(v.Items))
		for i := range v.Items {
			item, err := bindArg(&v.Items[i])
			if err != nil {
				return nil, err
			}
			items[i] = item
		}
		return items, nil
	case driver.TypeMap:
		m := make(map[any]any, len(v.Pairs))
		for i := range v.Pairs {
			k, err := bindArg(&v.Pairs[i].Key)
			if err != nil {
				return nil, err
			}
			val, err := bindArg(&v.Pairs[i].Val)
			if err != nil {
				return nil, err
			}
			m[k] = val
		}
		return m, nil
	default:
		return v.Data, nil
	}
}

package result

import (
	"net"
	"time"

	"github.com/cassgate/cassgate/internal/cerr"
	"github.com/cassgate/cassgate/internal/driver"
)

// Typed getters. Each getter validates the value's declared type tag and
// null flag before touching the payload; a wrong tag is a type-mismatch
// error, never a reinterpretation of bytes.

func checkValue(v *driver.Value, want ...driver.Type) error {
	if v == nil {
		return cerr.New(cerr.ErrLibBadParams, "value is null")
	}
	if v.Null {
		return cerr.New(cerr.ErrLibNullValue, "value is unset")
	}
	for _, t := range want {
		if v.Type == t {
			return nil
		}
	}
	return cerr.Newf(cerr.ErrLibInvalidValueType, "value is %s", v.Type)
}

// payloadError marks a decoded payload that does not match its own tag —
// a driver-binding bug, surfaced as invalid data rather than a panic.
func payloadError(v *driver.Value) error {
	return cerr.Newf(cerr.ErrLibInvalidData, "payload does not match tag %s", v.Type)
}

// AsInt8 reads a tinyint.
func AsInt8(v *driver.Value) (int8, error) {
	if err := checkValue(v, driver.TypeTinyint); err != nil {
		return 0, err
	}
	n, ok := v.Data.(int8)
	if !ok {
		return 0, payloadError(v)
	}
	return n, nil
}

// AsInt16 reads a smallint.
func AsInt16(v *driver.Value) (int16, error) {
	if err := checkValue(v, driver.TypeSmallint); err != nil {
		return 0, err
	}
	n, ok := v.Data.(int16)
	if !ok {
		return 0, payloadError(v)
	}
	return n, nil
}

// AsInt32 reads an int.
func AsInt32(v *driver.Value) (int32, error) {
	if err := checkValue(v, driver.TypeInt); err != nil {
		return 0, err
	}
	n, ok := v.Data.(int32)
	if !ok {
		return 0, payloadError(v)
	}
	return n, nil
}

// AsInt64 reads a bigint or counter.
func AsInt64(v *driver.Value) (int64, error) {
	if err := checkValue(v, driver.TypeBigint, driver.TypeCounter); err != nil {
		return 0, err
	}
	n, ok := v.Data.(int64)
	if !ok {
		return 0, payloadError(v)
	}
	return n, nil
}

// AsBool reads a boolean.
func AsBool(v *driver.Value) (bool, error) {
	if err := checkValue(v, driver.TypeBoolean); err != nil {
		return false, err
	}
	b, ok := v.Data.(bool)
	if !ok {
		return false, payloadError(v)
	}
	return b, nil
}

// AsFloat32 reads a float.
func AsFloat32(v *driver.Value) (float32, error) {
	if err := checkValue(v, driver.TypeFloat); err != nil {
		return 0, err
	}
	f, ok := v.Data.(float32)
	if !ok {
		return 0, payloadError(v)
	}
	return f, nil
}

// AsFloat64 reads a double.
func AsFloat64(v *driver.Value) (float64, error) {
	if err := checkValue(v, driver.TypeDouble); err != nil {
		return 0, err
	}
	f, ok := v.Data.(float64)
	if !ok {
		return 0, payloadError(v)
	}
	return f, nil
}

// AsString reads any textual type. The returned string is borrowed from
// the result's backing data.
func AsString(v *driver.Value) (string, error) {
	if err := checkValue(v, driver.TypeAscii, driver.TypeText, driver.TypeVarchar); err != nil {
		return "", err
	}
	s, ok := v.Data.(string)
	if !ok {
		return "", payloadError(v)
	}
	return s, nil
}

// AsBytes reads a blob. The returned slice is borrowed, valid until the
// owning result is released.
func AsBytes(v *driver.Value) ([]byte, error) {
	if err := checkValue(v, driver.TypeBlob, driver.TypeCustom); err != nil {
		return nil, err
	}
	b, ok := v.Data.([]byte)
	if !ok {
		return nil, payloadError(v)
	}
	return b, nil
}

// AsUUID reads a uuid or timeuuid.
func AsUUID(v *driver.Value) ([16]byte, error) {
	if err := checkValue(v, driver.TypeUUID, driver.TypeTimeUUID); err != nil {
		return [16]byte{}, err
	}
	u, ok := v.Data.([16]byte)
	if !ok {
		return [16]byte{}, payloadError(v)
	}
	return u, nil
}

// AsInet reads an inet address.
func AsInet(v *driver.Value) (net.IP, error) {
	if err := checkValue(v, driver.TypeInet); err != nil {
		return nil, err
	}
	ip, ok := v.Data.(net.IP)
	if !ok {
		return nil, payloadError(v)
	}
	return ip, nil
}

// AsTimestamp reads a timestamp.
func AsTimestamp(v *driver.Value) (time.Time, error) {
	if err := checkValue(v, driver.TypeTimestamp); err != nil {
		return time.Time{}, err
	}
	ts, ok := v.Data.(time.Time)
	if !ok {
		return time.Time{}, payloadError(v)
	}
	return ts, nil
}

// ItemCount returns the number of nested elements of a collection,
// tuple, map (entries), or UDT (fields).
func ItemCount(v *driver.Value) (int, error) {
	if v == nil {
		return 0, cerr.New(cerr.ErrLibBadParams, "value is null")
	}
	switch v.Type {
	case driver.TypeList, driver.TypeSet, driver.TypeTuple:
		return len(v.Items), nil
	case driver.TypeMap:
		return len(v.Pairs), nil
	case driver.TypeUDT:
		return len(v.Fields), nil
	}
	return 0, cerr.Newf(cerr.ErrLibInvalidValueType, "value is %s, not a collection", v.Type)
}

// Item returns a borrowed view of the i-th element of a list, set, or
// tuple.
func Item(v *driver.Value, i int) (*driver.Value, error) {
	if err := checkValue(v, driver.TypeList, driver.TypeSet, driver.TypeTuple); err != nil {
		return nil, err
	}
	if i < 0 || i >= len(v.Items) {
		return nil, cerr.Newf(cerr.ErrLibIndexOutOfBounds, "item %d of %d", i, len(v.Items))
	}
	return &v.Items[i], nil
}

// UDTField returns a borrowed view of the named field of a UDT value.
func UDTField(v *driver.Value, name string) (*driver.Value, error) {
	if err := checkValue(v, driver.TypeUDT); err != nil {
		return nil, err
	}
	for i := range v.Fields {
		if v.Fields[i].Name == name {
			return &v.Fields[i].Value, nil
		}
	}
	return nil, cerr.Newf(cerr.ErrLibNameDoesNotExist, "no field %q in %s", name, v.TypeName)
}

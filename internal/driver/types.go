package driver

// Type is the discriminated type tag carried by every Value. Values
// mirror the wire-protocol option codes so they are stable across
// releases; collection and UDT tags use the reserved high ranges.
type Type uint16

const (
	TypeCustom    Type = 0x0000
	TypeAscii     Type = 0x0001
	TypeBigint    Type = 0x0002
	TypeBlob      Type = 0x0003
	TypeBoolean   Type = 0x0004
	TypeCounter   Type = 0x0005
	TypeDecimal   Type = 0x0006
	TypeDouble    Type = 0x0007
	TypeFloat     Type = 0x0008
	TypeInt       Type = 0x0009
	TypeText      Type = 0x000A
	TypeTimestamp Type = 0x000B
	TypeUUID      Type = 0x000C
	TypeVarchar   Type = 0x000D
	TypeVarint    Type = 0x000E
	TypeTimeUUID  Type = 0x000F
	TypeInet      Type = 0x0010
	TypeDate      Type = 0x0011
	TypeTime      Type = 0x0012
	TypeSmallint  Type = 0x0013
	TypeTinyint   Type = 0x0014

	TypeList  Type = 0x0020
	TypeMap   Type = 0x0021
	TypeSet   Type = 0x0022
	TypeUDT   Type = 0x0030
	TypeTuple Type = 0x0031

	TypeUnknown Type = 0xFFFF
)

// IsCollection reports whether values of this type carry nested items
// instead of a scalar payload.
func (t Type) IsCollection() bool {
	switch t {
	case TypeList, TypeMap, TypeSet, TypeUDT, TypeTuple:
		return true
	}
	return false
}

func (t Type) String() string {
	switch t {
	case TypeAscii:
		return "ascii"
	case TypeBigint:
		return "bigint"
	case TypeBlob:
		return "blob"
	case TypeBoolean:
		return "boolean"
	case TypeCounter:
		return "counter"
	case TypeDecimal:
		return "decimal"
	case TypeDouble:
		return "double"
	case TypeFloat:
		return "float"
	case TypeInt:
		return "int"
	case TypeText:
		return "text"
	case TypeTimestamp:
		return "timestamp"
	case TypeUUID:
		return "uuid"
	case TypeVarchar:
		return "varchar"
	case TypeVarint:
		return "varint"
	case TypeTimeUUID:
		return "timeuuid"
	case TypeInet:
		return "inet"
	case TypeDate:
		return "date"
	case TypeTime:
		return "time"
	case TypeSmallint:
		return "smallint"
	case TypeTinyint:
		return "tinyint"
	case TypeList:
		return "list"
	case TypeMap:
		return "map"
	case TypeSet:
		return "set"
	case TypeUDT:
		return "udt"
	case TypeTuple:
		return "tuple"
	case TypeCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Pair is one entry of a map value.
type Pair struct {
	Key Value
	Val Value
}

// Field is one named field of a UDT value.
type Field struct {
	Name  string
	Value Value
}

// Value is the decoded representation of one column (or one nested
// element). Exactly one payload applies, selected by Type:
//
//   - scalar types set Data to the decoded Go value
//     (int8/int16/int32/int64, bool, float32/float64, string, []byte,
//     [16]byte for uuid/timeuuid, net.IP for inet, time.Time);
//   - list/set/tuple set Items;
//   - map sets Pairs;
//   - udt sets Fields and TypeName.
//
// A null column keeps its declared Type with Null set and no payload.
type Value struct {
	Type Type
	Null bool

	Data   any
	Items  []Value
	Pairs  []Pair
	Fields []Field

	// TypeName is the user-defined type name for TypeUDT values.
	TypeName string
}

// Consistency mirrors the wire-protocol consistency levels.
type Consistency uint16

const (
	ConsistencyAny         Consistency = 0x00
	ConsistencyOne         Consistency = 0x01
	ConsistencyTwo         Consistency = 0x02
	ConsistencyThree       Consistency = 0x03
	ConsistencyQuorum      Consistency = 0x04
	ConsistencyAll         Consistency = 0x05
	ConsistencyLocalQuorum Consistency = 0x06
	ConsistencyEachQuorum  Consistency = 0x07
	ConsistencySerial      Consistency = 0x08
	ConsistencyLocalSerial Consistency = 0x09
	ConsistencyLocalOne    Consistency = 0x0A
)

func (c Consistency) String() string {
	switch c {
	case ConsistencyAny:
		return "ANY"
	case ConsistencyOne:
		return "ONE"
	case ConsistencyTwo:
		return "TWO"
	case ConsistencyThree:
		return "THREE"
	case ConsistencyQuorum:
		return "QUORUM"
	case ConsistencyAll:
		return "ALL"
	case ConsistencyLocalQuorum:
		return "LOCAL_QUORUM"
	case ConsistencyEachQuorum:
		return "EACH_QUORUM"
	case ConsistencySerial:
		return "SERIAL"
	case ConsistencyLocalSerial:
		return "LOCAL_SERIAL"
	case ConsistencyLocalOne:
		return "LOCAL_ONE"
	default:
		return "UNKNOWN"
	}
}

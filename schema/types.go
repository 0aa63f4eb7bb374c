package schema

import "fmt"

type (
	Repetition    int32
	PhysicalType  int32
	ConvertedType int32
)

const (
	Required Repetition = iota
	Optional
	Repeated
)

const (
	Boolean PhysicalType = iota
	Int32
	Int64
	Int96
	Float
	Double
	ByteArray
	FixedLenByteArray
)

// ConvertedNone means the column carries no converted type annotation. The
// remaining values are offset by one from their wire numbering.
const (
	ConvertedNone ConvertedType = iota
	UTF8
	Map
	MapKeyValue
	List
	Enum
	Decimal
	Date
	TimeMillis
	TimeMicros
	TimestampMillis
	TimestampMicros
	UnsignedInt8
	UnsignedInt16
	UnsignedInt32
	UnsignedInt64
	SignedInt8
	SignedInt16
	SignedInt32
	SignedInt64
	JSON
	BSON
	Interval
)

var (
	repetitionNames = []string{"REQUIRED", "OPTIONAL", "REPEATED"}
	physicalNames   = []string{"BOOLEAN", "INT32", "INT64", "INT96", "FLOAT", "DOUBLE", "BYTE_ARRAY", "FIXED_LEN_BYTE_ARRAY"}
	convertedNames  = []string{"NONE", "UTF8", "MAP", "MAP_KEY_VALUE", "LIST", "ENUM", "DECIMAL", "DATE", "TIME_MILLIS", "TIME_MICROS", "TIMESTAMP_MILLIS", "TIMESTAMP_MICROS", "UINT_8", "UINT_16", "UINT_32", "UINT_64", "INT_8", "INT_16", "INT_32", "INT_64", "JSON", "BSON", "INTERVAL"}
)

func (r Repetition) Valid() bool {
	return r >= Required && r <= Repeated
}

func (r Repetition) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Repetition(%d)", int32(r))
	}
	return repetitionNames[r]
}

func (p PhysicalType) Valid() bool {
	return p >= Boolean && p <= FixedLenByteArray
}

func (p PhysicalType) String() string {
	if !p.Valid() {
		return fmt.Sprintf("PhysicalType(%d)", int32(p))
	}
	return physicalNames[p]
}

func (c ConvertedType) Valid() bool {
	return c >= ConvertedNone && c <= Interval
}

func (c ConvertedType) String() string {
	if !c.Valid() {
		return fmt.Sprintf("ConvertedType(%d)", int32(c))
	}
	return convertedNames[c]
}

// IsNested reports whether the annotation belongs on a group rather than a
// primitive.
func (c ConvertedType) IsNested() bool {
	return c == Map || c == MapKeyValue || c == List
}

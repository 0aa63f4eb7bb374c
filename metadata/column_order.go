package metadata

import "github.com/danthegoodman1/icefooter/schema"

type (
	// SortOrder is how min/max statistics of a column compare.
	SortOrder int32

	// ColumnOrder tells a statistics consumer whether a column's min/max
	// values can be trusted. The zero value is UndefinedColumnOrder.
	ColumnOrder struct {
		typeDefined bool
		sortOrder   SortOrder
	}
)

const (
	SortSigned SortOrder = iota
	SortUnsigned
	SortUndefined
)

// UndefinedColumnOrder is what legacy writers imply: statistics ordering is
// unspecified and must not be used for pruning.
var UndefinedColumnOrder = ColumnOrder{}

func TypeDefinedOrder(s SortOrder) ColumnOrder {
	return ColumnOrder{typeDefined: true, sortOrder: s}
}

func (o ColumnOrder) IsTypeDefined() bool {
	return o.typeDefined
}

// SortOrder is SortUndefined for an undefined column order.
func (o ColumnOrder) SortOrder() SortOrder {
	if !o.typeDefined {
		return SortUndefined
	}
	return o.sortOrder
}

func (o ColumnOrder) UsableForPruning() bool {
	return o.typeDefined && o.sortOrder != SortUndefined
}

func (o ColumnOrder) String() string {
	if !o.typeDefined {
		return "UNDEFINED"
	}
	return "TYPE_DEFINED_ORDER(" + o.sortOrder.String() + ")"
}

func (s SortOrder) String() string {
	switch s {
	case SortSigned:
		return "SIGNED"
	case SortUnsigned:
		return "UNSIGNED"
	default:
		return "UNDEFINED"
	}
}

// SortOrderFor derives the statistics sort order of a leaf from its physical
// and converted types.
func SortOrderFor(physical schema.PhysicalType, converted schema.ConvertedType) SortOrder {
	switch converted {
	case schema.UTF8, schema.Enum, schema.JSON, schema.BSON,
		schema.UnsignedInt8, schema.UnsignedInt16, schema.UnsignedInt32, schema.UnsignedInt64:
		return SortUnsigned
	case schema.Decimal, schema.Date, schema.TimeMillis, schema.TimeMicros,
		schema.TimestampMillis, schema.TimestampMicros,
		schema.SignedInt8, schema.SignedInt16, schema.SignedInt32, schema.SignedInt64:
		return SortSigned
	case schema.Interval:
		return SortUndefined
	}

	switch physical {
	case schema.Int32, schema.Int64, schema.Float, schema.Double:
		return SortSigned
	case schema.Boolean, schema.ByteArray, schema.FixedLenByteArray:
		return SortUnsigned
	default:
		// INT96 has no defined order
		return SortUndefined
	}
}

// ColumnOrderFor is the type defined order for a leaf column.
func ColumnOrderFor(p *schema.PrimitiveType) ColumnOrder {
	return TypeDefinedOrder(SortOrderFor(p.PhysicalType(), p.ConvertedType()))
}

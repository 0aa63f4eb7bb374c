package interchange

import (
	"math"

	"github.com/xitongsys/parquet-go/parquet"

	"github.com/danthegoodman1/icefooter/schema"
	"github.com/danthegoodman1/icefooter/utils"
)

// SchemaToThrift flattens the tree into depth-first schema elements, each
// group followed by its children. The root must be a group.
func SchemaToThrift(root schema.Type) ([]*parquet.SchemaElement, error) {
	if root == nil {
		return nil, notRepresentable("", "no schema")
	}
	g, ok := root.(*schema.GroupType)
	if !ok {
		return nil, notRepresentable(root.Name(), "root must be a group")
	}
	var elems []*parquet.SchemaElement
	if err := groupToThrift(g, g.Name(), &elems); err != nil {
		return nil, err
	}
	return elems, nil
}

func groupToThrift(g *schema.GroupType, path string, elems *[]*parquet.SchemaElement) error {
	if !g.Repetition().Valid() {
		return notRepresentable(path, "invalid repetition %s", g.Repetition())
	}
	if c := g.ConvertedType(); c != schema.ConvertedNone && !c.IsNested() {
		return notRepresentable(path, "group cannot carry converted type %s", c)
	}
	if g.NumFields() == 0 {
		return notRepresentable(path, "group has no fields")
	}

	el := parquet.NewSchemaElement()
	el.Name = g.Name()
	el.NumChildren = utils.Ptr(int32(g.NumFields()))
	el.RepetitionType = repetitionToThrift(g.Repetition())
	el.ConvertedType = convertedToThrift(g.ConvertedType())
	if id, ok := g.FieldID(); ok {
		el.FieldID = utils.Ptr(id)
	}
	*elems = append(*elems, el)

	for _, f := range g.Fields() {
		childPath := path + "." + f.Name()
		var err error
		switch n := f.(type) {
		case *schema.GroupType:
			err = groupToThrift(n, childPath, elems)
		case *schema.PrimitiveType:
			err = primitiveToThrift(n, childPath, elems)
		default:
			err = notRepresentable(childPath, "unknown node kind %T", f)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func primitiveToThrift(p *schema.PrimitiveType, path string, elems *[]*parquet.SchemaElement) error {
	if err := checkPrimitive(p, path); err != nil {
		return err
	}

	el := parquet.NewSchemaElement()
	el.Name = p.Name()
	el.Type = parquet.TypePtr(parquet.Type(p.PhysicalType()))
	el.RepetitionType = repetitionToThrift(p.Repetition())
	el.ConvertedType = convertedToThrift(p.ConvertedType())
	if p.PhysicalType() == schema.FixedLenByteArray {
		el.TypeLength = utils.Ptr(p.TypeLength())
	}
	if p.ConvertedType() == schema.Decimal {
		el.Precision = utils.Ptr(p.Precision())
		el.Scale = utils.Ptr(p.Scale())
	}
	if id, ok := p.FieldID(); ok {
		el.FieldID = utils.Ptr(id)
	}
	*elems = append(*elems, el)
	return nil
}

func checkPrimitive(p *schema.PrimitiveType, path string) error {
	physical, conv := p.PhysicalType(), p.ConvertedType()
	switch {
	case !p.Repetition().Valid():
		return notRepresentable(path, "invalid repetition %s", p.Repetition())
	case !physical.Valid():
		return notRepresentable(path, "invalid physical type %s", physical)
	case !conv.Valid():
		return notRepresentable(path, "invalid converted type %s", conv)
	case conv.IsNested():
		return notRepresentable(path, "%s annotation on a primitive", conv)
	case physical == schema.FixedLenByteArray && p.TypeLength() <= 0:
		return notRepresentable(path, "fixed length byte array needs a positive length, got %d", p.TypeLength())
	}

	want := func(types ...schema.PhysicalType) error {
		for _, t := range types {
			if physical == t {
				return nil
			}
		}
		return notRepresentable(path, "%s cannot annotate %s", conv, physical)
	}

	switch conv {
	case schema.UTF8, schema.Enum, schema.JSON, schema.BSON:
		return want(schema.ByteArray)
	case schema.Date, schema.TimeMillis,
		schema.UnsignedInt8, schema.UnsignedInt16, schema.UnsignedInt32,
		schema.SignedInt8, schema.SignedInt16, schema.SignedInt32:
		return want(schema.Int32)
	case schema.TimeMicros, schema.TimestampMillis, schema.TimestampMicros,
		schema.UnsignedInt64, schema.SignedInt64:
		return want(schema.Int64)
	case schema.Interval:
		if physical != schema.FixedLenByteArray || p.TypeLength() != 12 {
			return notRepresentable(path, "INTERVAL needs FIXED_LEN_BYTE_ARRAY(12)")
		}
	case schema.Decimal:
		if err := want(schema.Int32, schema.Int64, schema.ByteArray, schema.FixedLenByteArray); err != nil {
			return err
		}
		return checkDecimal(p, path)
	}
	return nil
}

func checkDecimal(p *schema.PrimitiveType, path string) error {
	precision, scale := p.Precision(), p.Scale()
	if precision <= 0 {
		return notRepresentable(path, "decimal precision must be positive, got %d", precision)
	}
	if scale < 0 || scale > precision {
		return notRepresentable(path, "decimal scale %d outside [0, %d]", scale, precision)
	}
	var maxPrecision int32
	switch p.PhysicalType() {
	case schema.Int32:
		maxPrecision = 9
	case schema.Int64:
		maxPrecision = 18
	case schema.FixedLenByteArray:
		maxPrecision = int32(math.Floor(float64(8*p.TypeLength()-1) * math.Log10(2)))
	default:
		return nil
	}
	if precision > maxPrecision {
		return notRepresentable(path, "decimal precision %d exceeds %d for %s", precision, maxPrecision, p.PhysicalType())
	}
	return nil
}

// SchemaFromThrift rebuilds the tree from depth-first schema elements.
func SchemaFromThrift(elems []*parquet.SchemaElement) (schema.Type, error) {
	if len(elems) == 0 {
		return nil, malformed(ErrMalformedSchema, "no schema elements")
	}
	root, next, err := elementFromThrift(elems, 0, true)
	if err != nil {
		return nil, err
	}
	if _, ok := root.(*schema.GroupType); !ok {
		return nil, malformed(ErrMalformedSchema, "root element %q is not a group", root.Name())
	}
	if next != len(elems) {
		return nil, malformed(ErrMalformedSchema, "%d trailing elements after the root", len(elems)-next)
	}
	return root, nil
}

func elementFromThrift(elems []*parquet.SchemaElement, i int, isRoot bool) (schema.Type, int, error) {
	el := elems[i]
	if el == nil {
		return nil, 0, malformed(ErrMalformedSchema, "nil element at %d", i)
	}

	rep := schema.Required
	if el.RepetitionType != nil {
		rep = schema.Repetition(*el.RepetitionType)
		if !rep.Valid() {
			return nil, 0, malformed(ErrMalformedSchema, "element %q has unknown repetition %d", el.Name, *el.RepetitionType)
		}
	} else if !isRoot {
		return nil, 0, malformed(ErrMalformedSchema, "element %q has no repetition", el.Name)
	}

	conv := schema.ConvertedNone
	if el.ConvertedType != nil {
		conv = schema.ConvertedType(*el.ConvertedType + 1)
		if !conv.Valid() {
			return nil, 0, malformed(ErrMalformedSchema, "element %q has unknown converted type %d", el.Name, *el.ConvertedType)
		}
	}

	if el.Type != nil {
		physical := schema.PhysicalType(*el.Type)
		if !physical.Valid() {
			return nil, 0, malformed(ErrMalformedSchema, "element %q has unknown physical type %d", el.Name, *el.Type)
		}
		opts := []schema.PrimitiveOption{schema.WithConvertedType(conv)}
		if el.TypeLength != nil {
			opts = append(opts, schema.WithTypeLength(*el.TypeLength))
		}
		if conv == schema.Decimal {
			opts = append(opts, schema.WithDecimal(utils.Deref(el.Precision, 0), utils.Deref(el.Scale, 0)))
		}
		if el.FieldID != nil {
			opts = append(opts, schema.WithFieldID(*el.FieldID))
		}
		return schema.NewPrimitiveType(el.Name, rep, physical, opts...), i + 1, nil
	}

	if el.NumChildren == nil || *el.NumChildren <= 0 {
		return nil, 0, malformed(ErrMalformedSchema, "element %q has neither a type nor children", el.Name)
	}
	n := int(*el.NumChildren)
	if n > len(elems)-i-1 {
		return nil, 0, malformed(ErrMalformedSchema, "group %q claims %d children, only %d elements follow", el.Name, n, len(elems)-i-1)
	}
	fields := make([]schema.Type, 0, n)
	next := i + 1
	for k := 0; k < n; k++ {
		if next >= len(elems) {
			return nil, 0, malformed(ErrMalformedSchema, "group %q expects %d children, found %d", el.Name, n, k)
		}
		var child schema.Type
		var err error
		child, next, err = elementFromThrift(elems, next, false)
		if err != nil {
			return nil, 0, err
		}
		fields = append(fields, child)
	}

	opts := []schema.GroupOption{schema.WithGroupConvertedType(conv)}
	if el.FieldID != nil {
		opts = append(opts, schema.WithGroupFieldID(*el.FieldID))
	}
	return schema.NewGroupType(el.Name, rep, fields, opts...), next, nil
}

func repetitionToThrift(r schema.Repetition) *parquet.FieldRepetitionType {
	return parquet.FieldRepetitionTypePtr(parquet.FieldRepetitionType(r))
}

func convertedToThrift(c schema.ConvertedType) *parquet.ConvertedType {
	if c == schema.ConvertedNone {
		return nil
	}
	return parquet.ConvertedTypePtr(parquet.ConvertedType(c - 1))
}


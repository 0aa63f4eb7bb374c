package schema

type (
	// Type is a node of the schema tree, either a *GroupType or a
	// *PrimitiveType.
	Type interface {
		Name() string
		Repetition() Repetition
		ConvertedType() ConvertedType
		FieldID() (int32, bool)
		IsPrimitive() bool
	}

	GroupType struct {
		name       string
		repetition Repetition
		converted  ConvertedType
		fieldID    *int32
		fields     []Type
	}

	PrimitiveType struct {
		name       string
		repetition Repetition
		physical   PhysicalType
		converted  ConvertedType
		typeLength int32
		precision  int32
		scale      int32
		fieldID    *int32
	}

	GroupOption     func(*GroupType)
	PrimitiveOption func(*PrimitiveType)
)

// NewGroupType builds a group node that owns fields in the given order.
func NewGroupType(name string, repetition Repetition, fields []Type, opts ...GroupOption) *GroupType {
	g := &GroupType{
		name:       name,
		repetition: repetition,
		fields:     append([]Type(nil), fields...),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func WithGroupConvertedType(c ConvertedType) GroupOption {
	return func(g *GroupType) {
		g.converted = c
	}
}

func WithGroupFieldID(id int32) GroupOption {
	return func(g *GroupType) {
		g.fieldID = &id
	}
}

func NewPrimitiveType(name string, repetition Repetition, physical PhysicalType, opts ...PrimitiveOption) *PrimitiveType {
	p := &PrimitiveType{
		name:       name,
		repetition: repetition,
		physical:   physical,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func WithConvertedType(c ConvertedType) PrimitiveOption {
	return func(p *PrimitiveType) {
		p.converted = c
	}
}

// WithTypeLength sets the byte width of a FIXED_LEN_BYTE_ARRAY column.
func WithTypeLength(length int32) PrimitiveOption {
	return func(p *PrimitiveType) {
		p.typeLength = length
	}
}

// WithDecimal annotates the column as DECIMAL(precision, scale).
func WithDecimal(precision, scale int32) PrimitiveOption {
	return func(p *PrimitiveType) {
		p.converted = Decimal
		p.precision = precision
		p.scale = scale
	}
}

func WithFieldID(id int32) PrimitiveOption {
	return func(p *PrimitiveType) {
		p.fieldID = &id
	}
}

func (g *GroupType) Name() string                 { return g.name }
func (g *GroupType) Repetition() Repetition       { return g.repetition }
func (g *GroupType) ConvertedType() ConvertedType { return g.converted }
func (g *GroupType) IsPrimitive() bool            { return false }

func (g *GroupType) FieldID() (int32, bool) {
	if g.fieldID == nil {
		return 0, false
	}
	return *g.fieldID, true
}

func (g *GroupType) NumFields() int {
	return len(g.fields)
}

func (g *GroupType) Field(i int) Type {
	return g.fields[i]
}

// Fields returns a copy of the children in declared order.
func (g *GroupType) Fields() []Type {
	return append([]Type(nil), g.fields...)
}

func (p *PrimitiveType) Name() string                 { return p.name }
func (p *PrimitiveType) Repetition() Repetition       { return p.repetition }
func (p *PrimitiveType) ConvertedType() ConvertedType { return p.converted }
func (p *PrimitiveType) IsPrimitive() bool            { return true }
func (p *PrimitiveType) PhysicalType() PhysicalType   { return p.physical }
func (p *PrimitiveType) TypeLength() int32            { return p.typeLength }
func (p *PrimitiveType) Precision() int32             { return p.precision }
func (p *PrimitiveType) Scale() int32                 { return p.scale }

func (p *PrimitiveType) FieldID() (int32, bool) {
	if p.fieldID == nil {
		return 0, false
	}
	return *p.fieldID, true
}

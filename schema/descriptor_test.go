package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leafNames(d *Descriptor) []string {
	var names []string
	for _, c := range d.Columns() {
		names = append(names, c.Name())
	}
	return names
}

func countPrimitives(t Type) int {
	g, ok := t.(*GroupType)
	if !ok {
		return 1
	}
	n := 0
	for _, f := range g.Fields() {
		n += countPrimitives(f)
	}
	return n
}

func TestDescriptorTwoLeaves(t *testing.T) {
	root := NewGroupType("root", Required, []Type{
		NewPrimitiveType("a", Required, Int64),
		NewPrimitiveType("b", Optional, ByteArray, WithConvertedType(UTF8)),
	})
	d := NewDescriptor(root)

	require.Equal(t, 2, d.NumColumns())
	assert.Equal(t, []string{"a", "b"}, leafNames(d))
	assert.Same(t, root, d.Root())
}

func TestDescriptorPreOrder(t *testing.T) {
	root := NewGroupType("schema", Required, []Type{
		NewPrimitiveType("id", Required, Int64),
		NewGroupType("user", Optional, []Type{
			NewPrimitiveType("name", Optional, ByteArray, WithConvertedType(UTF8)),
			NewGroupType("tags", Optional, []Type{
				NewGroupType("list", Repeated, []Type{
					NewPrimitiveType("element", Optional, ByteArray),
				}),
			}, WithGroupConvertedType(List)),
		}),
		NewGroupType("empty", Optional, nil),
		NewPrimitiveType("ts", Required, Int64, WithConvertedType(TimestampMillis)),
	})
	d := NewDescriptor(root)

	require.Equal(t, countPrimitives(root), d.NumColumns())
	assert.Equal(t, []string{"id", "name", "element", "ts"}, leafNames(d))

	elem := d.Column(2)
	assert.Equal(t, []string{"user", "tags", "list", "element"}, elem.Path)
	assert.Equal(t, "user.tags.list.element", elem.DottedPath())
	assert.Equal(t, int16(4), elem.MaxDefinitionLevel)
	assert.Equal(t, int16(1), elem.MaxRepetitionLevel)

	id := d.Column(0)
	assert.Equal(t, int16(0), id.MaxDefinitionLevel)
	assert.Equal(t, int16(0), id.MaxRepetitionLevel)

	idx, ok := d.ColumnIndex("user.name")
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	_, ok = d.ColumnIndex("user")
	assert.False(t, ok)
}

func TestDescriptorDeterministic(t *testing.T) {
	root := NewGroupType("root", Required, []Type{
		NewGroupType("g", Required, []Type{
			NewPrimitiveType("x", Required, Int32),
			NewPrimitiveType("y", Required, Int32),
		}),
		NewPrimitiveType("z", Required, Double),
	})

	a := NewDescriptor(root)
	b := NewDescriptor(root)
	for i := 0; i < a.NumColumns(); i++ {
		assert.Equal(t, a.Column(i), a.Column(i))
		assert.Equal(t, a.Column(i), b.Column(i))
	}
}

func TestDescriptorColumnsIsCopy(t *testing.T) {
	d := NewDescriptor(NewGroupType("root", Required, []Type{
		NewPrimitiveType("a", Required, Int32),
	}))
	cols := d.Columns()
	cols[0].Path = []string{"mutated"}
	assert.Equal(t, "a", d.Column(0).Name())

	cols = d.Columns()
	cols[0].Path[0] = "mutated"
	assert.Equal(t, "a", d.Column(0).Name())

	d.Column(0).Path[0] = "mutated"
	assert.Equal(t, "a", d.Column(0).Name())
	i, ok := d.ColumnIndex("a")
	require.True(t, ok)
	assert.Equal(t, 0, i)
}

func TestDescriptorOutOfRangePanics(t *testing.T) {
	d := NewDescriptor(NewGroupType("root", Required, []Type{
		NewPrimitiveType("a", Required, Int32),
	}))
	require.Panics(t, func() { d.Column(1) })
	require.Panics(t, func() { d.Column(-1) })
}

func TestDescriptorPrimitiveRoot(t *testing.T) {
	d := NewDescriptor(NewPrimitiveType("solo", Required, Boolean))
	require.Equal(t, 1, d.NumColumns())
	assert.Equal(t, "solo", d.Column(0).Name())
}

func TestGroupFieldsCopied(t *testing.T) {
	fields := []Type{NewPrimitiveType("a", Required, Int32)}
	g := NewGroupType("root", Required, fields)
	fields[0] = NewPrimitiveType("b", Required, Int32)
	assert.Equal(t, "a", g.Field(0).Name())
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "OPTIONAL", Optional.String())
	assert.Equal(t, "FIXED_LEN_BYTE_ARRAY", FixedLenByteArray.String())
	assert.Equal(t, "INT_32", SignedInt32.String())
	assert.Equal(t, "UINT_64", UnsignedInt64.String())
	assert.Equal(t, "Repetition(7)", Repetition(7).String())
	assert.True(t, List.IsNested())
	assert.False(t, UTF8.IsNested())
}

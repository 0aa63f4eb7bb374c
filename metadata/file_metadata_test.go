package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danthegoodman1/icefooter/schema"
	"github.com/danthegoodman1/icefooter/utils"
)

func twoColumnDescriptor() *schema.Descriptor {
	return schema.NewDescriptor(schema.NewGroupType("root", schema.Required, []schema.Type{
		schema.NewPrimitiveType("a", schema.Required, schema.Int64),
		schema.NewPrimitiveType("b", schema.Optional, schema.ByteArray, schema.WithConvertedType(schema.UTF8)),
	}))
}

func rowGroup(rows int64) *RowGroupMetaData {
	return NewRowGroupMetaData(rows, rows*16, []*ColumnChunkMetaData{
		NewColumnChunkMetaData(ColumnChunkParams{PhysicalType: schema.Int64, PathInSchema: []string{"a"}, NumValues: rows}),
		NewColumnChunkMetaData(ColumnChunkParams{PhysicalType: schema.ByteArray, PathInSchema: []string{"b"}, NumValues: rows}),
	})
}

func TestColumnOrderAbsent(t *testing.T) {
	fmd := NewFileMetaData(2, 10, nil, twoColumnDescriptor())

	_, ok := fmd.ColumnOrders()
	assert.False(t, ok)
	for i := -1; i < 5; i++ {
		assert.Equal(t, UndefinedColumnOrder, fmd.ColumnOrder(i))
	}
}

func TestColumnOrderShortList(t *testing.T) {
	fmd := NewFileMetaData(2, 10, nil, twoColumnDescriptor(), WithColumnOrders(TypeDefinedOrder(SortSigned)))

	assert.Equal(t, TypeDefinedOrder(SortSigned), fmd.ColumnOrder(0))
	assert.Equal(t, UndefinedColumnOrder, fmd.ColumnOrder(1))
	assert.Equal(t, UndefinedColumnOrder, fmd.ColumnOrder(100))
}

func TestColumnOrderPresentButEmpty(t *testing.T) {
	fmd := NewFileMetaData(2, 10, nil, twoColumnDescriptor(), WithColumnOrders())

	orders, ok := fmd.ColumnOrders()
	require.True(t, ok)
	assert.Empty(t, orders)
	assert.Equal(t, UndefinedColumnOrder, fmd.ColumnOrder(0))
}

func TestNoCrossFieldValidation(t *testing.T) {
	fmd := NewFileMetaData(1, 999, []*RowGroupMetaData{rowGroup(5), rowGroup(5)}, twoColumnDescriptor())

	assert.Equal(t, int64(999), fmd.NumRows())
	var sum int64
	for _, rg := range fmd.RowGroups() {
		sum += rg.NumRows()
	}
	assert.Equal(t, int64(10), sum)
}

func TestOptionalFields(t *testing.T) {
	bare := NewFileMetaData(1, 0, nil, twoColumnDescriptor())
	_, ok := bare.CreatedBy()
	assert.False(t, ok)
	_, ok = bare.KeyValueMetadata()
	assert.False(t, ok)

	full := NewFileMetaData(1, 0, nil, twoColumnDescriptor(),
		WithCreatedBy("test"),
		WithKeyValueMetadata(
			KeyValue{Key: "k", Value: utils.Ptr("first")},
			KeyValue{Key: "k", Value: utils.Ptr("second")},
			KeyValue{Key: "nil"},
		),
	)
	createdBy, ok := full.CreatedBy()
	require.True(t, ok)
	assert.Equal(t, "test", createdBy)

	kvs, ok := full.KeyValueMetadata()
	require.True(t, ok)
	require.Len(t, kvs, 3)
	assert.Equal(t, "second", *kvs[1].Value)

	v, ok := full.Lookup("k")
	require.True(t, ok)
	assert.Equal(t, "first", *v)
	v, ok = full.Lookup("nil")
	require.True(t, ok)
	assert.Nil(t, v)
	_, ok = full.Lookup("missing")
	assert.False(t, ok)

	empty := NewFileMetaData(1, 0, nil, twoColumnDescriptor(), WithKeyValueMetadata())
	kvs, ok = empty.KeyValueMetadata()
	assert.True(t, ok)
	assert.Empty(t, kvs)
}

func TestSchemaDelegates(t *testing.T) {
	descr := twoColumnDescriptor()
	fmd := NewFileMetaData(1, 0, nil, descr)
	assert.Same(t, descr.Root(), fmd.Schema())
	assert.Same(t, descr, fmd.SchemaDescriptor())
}

func TestRowGroupsCopied(t *testing.T) {
	rgs := []*RowGroupMetaData{rowGroup(1), rowGroup(2)}
	fmd := NewFileMetaData(1, 3, rgs, twoColumnDescriptor())
	rgs[0] = rowGroup(7)
	assert.Equal(t, int64(1), fmd.RowGroup(0).NumRows())

	out := fmd.RowGroups()
	out[1] = nil
	assert.NotNil(t, fmd.RowGroup(1))
}

func TestRowGroupAccessors(t *testing.T) {
	dict := int64(4)
	rg := NewRowGroupMetaData(3, 100, []*ColumnChunkMetaData{
		NewColumnChunkMetaData(ColumnChunkParams{PathInSchema: []string{"a"}, DataPageOffset: 10, DictionaryPageOffset: &dict, TotalCompressedSize: 30}),
		NewColumnChunkMetaData(ColumnChunkParams{PathInSchema: []string{"b"}, DataPageOffset: 40, TotalCompressedSize: 12}),
	})

	require.Equal(t, 2, rg.NumColumns())
	assert.Equal(t, []string{"a"}, rg.Column(0).PathInSchema())
	assert.Equal(t, []string{"b"}, rg.Column(1).PathInSchema())
	assert.Equal(t, int64(42), rg.CompressedSize())

	start, length := rg.Column(0).ByteRange()
	assert.Equal(t, int64(4), start)
	assert.Equal(t, int64(30), length)
	start, _ = rg.Column(1).ByteRange()
	assert.Equal(t, int64(40), start)
}

func TestWriterVersionFromFile(t *testing.T) {
	fmd := NewFileMetaData(1, 0, nil, twoColumnDescriptor(), WithCreatedBy("parquet-mr version 1.8.0 (build 0fda28af84b9746396014ad6a415b90592a98b3b)"))
	wv, ok := fmd.WriterVersion()
	require.True(t, ok)
	assert.Equal(t, "parquet-mr", wv.Application)
}

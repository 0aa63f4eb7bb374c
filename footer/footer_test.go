package footer

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/danthegoodman1/icefooter/interchange"
	"github.com/danthegoodman1/icefooter/metadata"
	"github.com/danthegoodman1/icefooter/schema"
)

func testMetaData() *metadata.FileMetaData {
	descr := schema.NewDescriptor(schema.NewGroupType("root", schema.Required, []schema.Type{
		schema.NewPrimitiveType("a", schema.Required, schema.Int64),
		schema.NewPrimitiveType("b", schema.Optional, schema.ByteArray, schema.WithConvertedType(schema.UTF8)),
	}))
	var rgs []*metadata.RowGroupMetaData
	for i := 0; i < 2; i++ {
		rgs = append(rgs, metadata.NewRowGroupMetaData(5, 80, []*metadata.ColumnChunkMetaData{
			metadata.NewColumnChunkMetaData(metadata.ColumnChunkParams{PhysicalType: schema.Int64, PathInSchema: []string{"a"}, NumValues: 5, DataPageOffset: 4}),
			metadata.NewColumnChunkMetaData(metadata.ColumnChunkParams{PhysicalType: schema.ByteArray, PathInSchema: []string{"b"}, NumValues: 5, DataPageOffset: 44}),
		}))
	}
	return metadata.NewFileMetaData(2, 10, rgs, descr, metadata.WithCreatedBy("test"))
}

func fileWithFooter(t *testing.T, fmd *metadata.FileMetaData) []byte {
	var buf bytes.Buffer
	buf.WriteString(Magic)
	_, err := Write(&buf, fmd)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestWriteRead(t *testing.T) {
	file := fileWithFooter(t, testMetaData())

	fmd, err := Read(context.Background(), bytes.NewReader(file), 0)
	require.NoError(t, err)
	assert.Equal(t, int32(2), fmd.Version())
	assert.Equal(t, int64(10), fmd.NumRows())
	createdBy, ok := fmd.CreatedBy()
	require.True(t, ok)
	assert.Equal(t, "test", createdBy)
	require.Equal(t, 2, fmd.NumRowGroups())
	assert.Equal(t, int64(5), fmd.RowGroup(1).NumRows())
	assert.Equal(t, "b", fmd.SchemaDescriptor().Column(1).Name())
}

func TestMarshalUnmarshal(t *testing.T) {
	b, err := Marshal(testMetaData())
	require.NoError(t, err)

	fmd, err := Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, int64(10), fmd.NumRows())
	_, ok := fmd.ColumnOrders()
	assert.False(t, ok)
}

func TestColumnOrdersSurviveThriftBytes(t *testing.T) {
	wire, err := interchange.FileMetaDataToThrift(testMetaData())
	require.NoError(t, err)
	wire.ColumnOrders = []*parquet.ColumnOrder{{TYPE_ORDER: parquet.NewTypeDefinedOrder()}}

	b, err := MarshalThrift(wire)
	require.NoError(t, err)
	fmd, err := Unmarshal(b)
	require.NoError(t, err)

	assert.Equal(t, metadata.TypeDefinedOrder(metadata.SortSigned), fmd.ColumnOrder(0))
	assert.Equal(t, metadata.UndefinedColumnOrder, fmd.ColumnOrder(1))
}

func TestReadRejects(t *testing.T) {
	ctx := context.Background()
	good := fileWithFooter(t, testMetaData())

	_, err := Read(ctx, bytes.NewReader([]byte("PAR1")), 0)
	assert.ErrorIs(t, err, ErrNotParquet)

	badHead := append([]byte("NOPE"), good[4:]...)
	_, err = Read(ctx, bytes.NewReader(badHead), 0)
	assert.ErrorIs(t, err, ErrNotParquet)

	badTail := append(append([]byte{}, good[:len(good)-4]...), []byte("NOPE")...)
	_, err = Read(ctx, bytes.NewReader(badTail), 0)
	assert.ErrorIs(t, err, ErrNotParquet)

	tooLong := append([]byte{}, good...)
	binary.LittleEndian.PutUint32(tooLong[len(tooLong)-8:], uint32(len(good)))
	_, err = Read(ctx, bytes.NewReader(tooLong), 0)
	assert.ErrorIs(t, err, ErrNotParquet)
	assert.True(t, IsNotParquet(err))

	_, err = Read(ctx, bytes.NewReader(good), 4)
	assert.ErrorIs(t, err, ErrFooterTooLarge)
}

func TestReadGarbageFooter(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString(Magic)
	_, err := WriteBytes(&buf, []byte{0xff, 0xff, 0xff, 0xff, 0xff})
	require.NoError(t, err)

	_, err = Read(context.Background(), bytes.NewReader(buf.Bytes()), 0)
	assert.Error(t, err)
}

func TestWriteNotRepresentable(t *testing.T) {
	fmd := metadata.NewFileMetaData(1, 0, nil, schema.NewDescriptor(schema.NewPrimitiveType("solo", schema.Required, schema.Int32)))
	var buf bytes.Buffer
	_, err := Write(&buf, fmd)
	assert.ErrorIs(t, err, interchange.ErrNotRepresentable)
	assert.Zero(t, buf.Len())
}

func TestReadXitongsysFile(t *testing.T) {
	jsonSchema := `{"Tag":"name=parquet_go_root, repetitiontype=REQUIRED","Fields":[` +
		`{"Tag":"name=name, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"},` +
		`{"Tag":"name=age, type=INT32, repetitiontype=REQUIRED"},` +
		`{"Tag":"name=score, type=DOUBLE, repetitiontype=OPTIONAL"}]}`

	path := filepath.Join(t.TempDir(), "people.parquet")
	f, err := os.Create(path)
	require.NoError(t, err)

	pw, err := writer.NewJSONWriterFromWriter(jsonSchema, f, 1)
	require.NoError(t, err)
	for i := 0; i < 25; i++ {
		row, err := json.Marshal(map[string]any{"name": "p", "age": i, "score": float64(i) / 2})
		require.NoError(t, err)
		require.NoError(t, pw.Write(string(row)))
	}
	require.NoError(t, pw.WriteStop())
	require.NoError(t, f.Close())

	fr, err := local.NewLocalFileReader(path)
	require.NoError(t, err)
	defer fr.Close()

	fmd, err := Read(context.Background(), fr, 0)
	require.NoError(t, err)

	assert.Equal(t, int64(25), fmd.NumRows())
	descr := fmd.SchemaDescriptor()
	require.Equal(t, 3, descr.NumColumns())
	assert.True(t, strings.EqualFold("name", descr.Column(0).Name()))
	assert.True(t, strings.EqualFold("age", descr.Column(1).Name()))
	assert.Equal(t, schema.Int32, descr.Column(1).Primitive.PhysicalType())
	assert.Equal(t, schema.UTF8, descr.Column(0).Primitive.ConvertedType())

	var rows int64
	for _, rg := range fmd.RowGroups() {
		require.Equal(t, descr.NumColumns(), rg.NumColumns())
		rows += rg.NumRows()
	}
	assert.Equal(t, int64(25), rows)

	// the lifted footer lowers again without loss of the schema
	b, err := Marshal(fmd)
	require.NoError(t, err)
	again, err := Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, descr.Columns(), again.SchemaDescriptor().Columns())
}

package parquet_accumulator

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/danthegoodman1/icefooter/footer"
	"github.com/danthegoodman1/icefooter/interchange"
	"github.com/danthegoodman1/icefooter/schema"
	"github.com/danthegoodman1/icefooter/utils"
)

func TestGetSchemaString(t *testing.T) {
	a := NewParquetAccumulator()
	a.WriteRow(map[string]any{
		"colA": "hey",
	})
	a.WriteRow(map[string]any{
		"colB": 1.2,
	})
	a.WriteRow(map[string]any{
		"colC": []any{"hey"},
	})
	a.WriteRow(map[string]any{
		"colA": "hey",
		"colB": 1,
	})
	a.WriteRow(map[string]any{
		"colC": []any{"hey"},
		"colB": 1.2,
	})

	schemaString, err := a.GetSchemaString()
	require.NoError(t, err)
	assert.Equal(t, `{"Tag":"name=parquet_go_root, repetitiontype=REQUIRED","Fields":[{"Tag":"type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN, name=colA, repetitiontype=OPTIONAL"},{"Tag":"type=DOUBLE, name=colB, repetitiontype=OPTIONAL"},{"Tag":"type=LIST, name=colC, repetitiontype=OPTIONAL","Fields":[{"Tag":"type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN, name=element, repetitiontype=OPTIONAL"}]}]}`, schemaString)
	assert.Equal(t, []string{"colA", "colB", "colC"}, a.GetColumnNames())
	assert.Equal(t, []string{"string", "float", "list(string)"}, a.GetColumnTypes())
}

func TestWriteRowKeyOrder(t *testing.T) {
	a := NewParquetAccumulator()
	a.WriteRow(map[string]any{"z": 1.0, "m": "x", "a": 2.0})
	assert.Equal(t, []string{"a", "m", "z"}, a.GetColumnNames())
}

func TestWriteRowSkipsUnknown(t *testing.T) {
	a := NewParquetAccumulator()
	var nilStr *string
	a.WriteRow(map[string]any{
		"none":      nil,
		"nilPtr":    nilStr,
		"emptyList": []any{},
		"nilList":   []any{nil, nil},
		"late":      []any{nil, utils.Ptr("x")},
	})
	assert.Equal(t, []string{"late"}, a.GetColumnNames())
	assert.Equal(t, []string{"list(string)"}, a.GetColumnTypes())

	// a later row can still introduce the column
	a.WriteRow(map[string]any{"none": "now a string"})
	assert.Equal(t, []string{"late", "none"}, a.GetColumnNames())
}

func TestSchema(t *testing.T) {
	a := NewParquetAccumulator()
	a.WriteRow(map[string]any{
		"s": "hey",
		"d": 1,
		"l": []any{1.5},
	})

	root := a.Schema()
	assert.Equal(t, RootName, root.Name())
	assert.Equal(t, schema.Required, root.Repetition())
	require.Equal(t, 3, root.NumFields())

	descr := schema.NewDescriptor(root)
	require.Equal(t, 3, descr.NumColumns())

	d := descr.Column(0)
	assert.Equal(t, []string{"d"}, d.Path)
	assert.Equal(t, schema.Double, d.Primitive.PhysicalType())
	assert.Equal(t, int16(1), d.MaxDefinitionLevel)

	l := descr.Column(1)
	assert.Equal(t, []string{"l", "list", "element"}, l.Path)
	assert.Equal(t, int16(3), l.MaxDefinitionLevel)
	assert.Equal(t, int16(1), l.MaxRepetitionLevel)
	assert.Equal(t, schema.List, root.Field(1).ConvertedType())

	s := descr.Column(2)
	assert.Equal(t, schema.ByteArray, s.Primitive.PhysicalType())
	assert.Equal(t, schema.UTF8, s.Primitive.ConvertedType())

	_, err := interchange.SchemaToThrift(root)
	require.NoError(t, err)
}

func TestWriteJSONRow(t *testing.T) {
	a := NewParquetAccumulator()
	flat, err := a.WriteJSONRow(map[string]any{
		"colA": map[string]any{
			"a": "hey",
			"b": 2,
		},
		"colB": 1.2,
	})
	require.NoError(t, err)
	assert.Len(t, flat, 3)
	assert.Len(t, a.GetColumnNames(), 3)
}

func TestFullCycle(t *testing.T) {
	psa := NewParquetAccumulator()
	var rows []map[string]any
	for i := 0; i < 10; i++ {
		flat, err := psa.WriteJSONRow(map[string]any{
			"colA": map[string]any{
				"a": "hey",
				"b": i,
			},
			"colC": []any{"hey"},
			"colB": 1.2,
		})
		require.NoError(t, err)
		rows = append(rows, flat)
	}

	parquetSchema, err := psa.GetSchemaString()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "temp.parquet")
	f, err := os.Create(path)
	require.NoError(t, err)

	pw, err := writer.NewJSONWriterFromWriter(parquetSchema, f, 4)
	require.NoError(t, err)
	for _, row := range rows {
		b, err := json.Marshal(row)
		require.NoError(t, err)
		require.NoError(t, pw.Write(string(b)))
	}
	require.NoError(t, pw.WriteStop())
	require.NoError(t, f.Close())

	fr, err := local.NewLocalFileReader(path)
	require.NoError(t, err)
	defer fr.Close()

	fmd, err := footer.Read(context.Background(), fr, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(10), fmd.NumRows())

	want := schema.NewDescriptor(psa.Schema())
	got := fmd.SchemaDescriptor()
	require.Equal(t, want.NumColumns(), got.NumColumns())
	for i := 0; i < want.NumColumns(); i++ {
		assert.True(t, strings.EqualFold(want.Column(i).Path[0], got.Column(i).Path[0]), "column %d", i)
		assert.Equal(t, want.Column(i).MaxDefinitionLevel, got.Column(i).MaxDefinitionLevel, "column %d", i)
		assert.Equal(t, want.Column(i).MaxRepetitionLevel, got.Column(i).MaxRepetitionLevel, "column %d", i)
		assert.Equal(t, want.Column(i).Primitive.PhysicalType(), got.Column(i).Primitive.PhysicalType(), "column %d", i)
	}
}

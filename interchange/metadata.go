package interchange

import (
	"fmt"

	"github.com/xitongsys/parquet-go/parquet"

	"github.com/danthegoodman1/icefooter/metadata"
	"github.com/danthegoodman1/icefooter/schema"
)

// FileMetaDataToThrift lowers fmd into the wire structs. The schema is the only
// part that can fail.
//
// Column orders are never written: the wire ColumnOrders list is always nil,
// so a round trip through this function drops them.
// TODO: emit one TYPE_ORDER per leaf once readers of these footers rely on it.
func FileMetaDataToThrift(fmd *metadata.FileMetaData) (*parquet.FileMetaData, error) {
	if fmd.SchemaDescriptor() == nil {
		return nil, notRepresentable("", "file metadata has no schema descriptor")
	}
	elems, err := SchemaToThrift(fmd.Schema())
	if err != nil {
		return nil, fmt.Errorf("error in SchemaToThrift: %w", err)
	}

	out := parquet.NewFileMetaData()
	out.Version = fmd.Version()
	out.Schema = elems
	out.NumRows = fmd.NumRows()
	out.RowGroups = make([]*parquet.RowGroup, 0, fmd.NumRowGroups())
	for _, rg := range fmd.RowGroups() {
		out.RowGroups = append(out.RowGroups, RowGroupToThrift(rg))
	}
	if kvs, ok := fmd.KeyValueMetadata(); ok {
		out.KeyValueMetadata = make([]*parquet.KeyValue, 0, len(kvs))
		for _, kv := range kvs {
			out.KeyValueMetadata = append(out.KeyValueMetadata, &parquet.KeyValue{Key: kv.Key, Value: kv.Value})
		}
	}
	if createdBy, ok := fmd.CreatedBy(); ok {
		out.CreatedBy = &createdBy
	}
	out.ColumnOrders = nil
	return out, nil
}

func RowGroupToThrift(rg *metadata.RowGroupMetaData) *parquet.RowGroup {
	out := parquet.NewRowGroup()
	out.NumRows = rg.NumRows()
	out.TotalByteSize = rg.TotalByteSize()
	out.Columns = make([]*parquet.ColumnChunk, 0, rg.NumColumns())
	for _, c := range rg.Columns() {
		out.Columns = append(out.Columns, ColumnChunkToThrift(c))
	}
	return out
}

func ColumnChunkToThrift(c *metadata.ColumnChunkMetaData) *parquet.ColumnChunk {
	p := c.Params()

	md := parquet.NewColumnMetaData()
	md.Type = parquet.Type(p.PhysicalType)
	md.Encodings = make([]parquet.Encoding, 0, len(p.Encodings))
	for _, e := range p.Encodings {
		md.Encodings = append(md.Encodings, parquet.Encoding(e))
	}
	md.PathInSchema = p.PathInSchema
	md.Codec = parquet.CompressionCodec(p.Codec)
	md.NumValues = p.NumValues
	md.TotalUncompressedSize = p.TotalUncompressedSize
	md.TotalCompressedSize = p.TotalCompressedSize
	md.DataPageOffset = p.DataPageOffset
	md.IndexPageOffset = p.IndexPageOffset
	md.DictionaryPageOffset = p.DictionaryPageOffset
	md.Statistics = statisticsToThrift(p.Statistics)

	out := parquet.NewColumnChunk()
	out.FilePath = p.FilePath
	out.FileOffset = p.FileOffset
	out.MetaData = md
	return out
}

func statisticsToThrift(s *metadata.Statistics) *parquet.Statistics {
	if s == nil {
		return nil
	}
	out := parquet.NewStatistics()
	out.NullCount = s.NullCount
	out.DistinctCount = s.DistinctCount
	if s.Legacy {
		out.Min, out.Max = s.Min, s.Max
	} else {
		out.MinValue, out.MaxValue = s.Min, s.Max
	}
	return out
}

// FileMetaDataFromThrift lifts wire structs into the domain model. Wire column
// orders are kept: a TYPE_ORDER entry becomes the type defined order of its
// leaf, anything else is undefined.
func FileMetaDataFromThrift(w *parquet.FileMetaData) (*metadata.FileMetaData, error) {
	if w == nil {
		return nil, malformed(ErrMalformedSchema, "nil file metadata")
	}
	root, err := SchemaFromThrift(w.Schema)
	if err != nil {
		return nil, fmt.Errorf("error in SchemaFromThrift: %w", err)
	}
	descr := schema.NewDescriptor(root)

	rowGroups := make([]*metadata.RowGroupMetaData, 0, len(w.RowGroups))
	for i, rg := range w.RowGroups {
		lifted, err := rowGroupFromThrift(rg, descr)
		if err != nil {
			return nil, fmt.Errorf("error in row group %d: %w", i, err)
		}
		rowGroups = append(rowGroups, lifted)
	}

	var opts []metadata.FileOption
	if w.CreatedBy != nil {
		opts = append(opts, metadata.WithCreatedBy(*w.CreatedBy))
	}
	if w.KeyValueMetadata != nil {
		kvs := make([]metadata.KeyValue, 0, len(w.KeyValueMetadata))
		for i, kv := range w.KeyValueMetadata {
			if kv == nil {
				return nil, malformed(ErrMalformedSchema, "nil key/value entry at %d", i)
			}
			kvs = append(kvs, metadata.KeyValue{Key: kv.Key, Value: kv.Value})
		}
		opts = append(opts, metadata.WithKeyValueMetadata(kvs...))
	}
	if w.ColumnOrders != nil {
		orders := make([]metadata.ColumnOrder, 0, len(w.ColumnOrders))
		for i, o := range w.ColumnOrders {
			if o != nil && o.TYPE_ORDER != nil && i < descr.NumColumns() {
				orders = append(orders, metadata.ColumnOrderFor(descr.Column(i).Primitive))
			} else {
				orders = append(orders, metadata.UndefinedColumnOrder)
			}
		}
		opts = append(opts, metadata.WithColumnOrders(orders...))
	}

	return metadata.NewFileMetaData(w.Version, w.NumRows, rowGroups, descr, opts...), nil
}

func rowGroupFromThrift(rg *parquet.RowGroup, descr *schema.Descriptor) (*metadata.RowGroupMetaData, error) {
	if rg == nil {
		return nil, malformed(ErrMalformedRowGroup, "nil row group")
	}
	if len(rg.Columns) != descr.NumColumns() {
		return nil, malformed(ErrMalformedRowGroup, "%d column chunks for %d leaf columns", len(rg.Columns), descr.NumColumns())
	}
	columns := make([]*metadata.ColumnChunkMetaData, 0, len(rg.Columns))
	for i, c := range rg.Columns {
		if c == nil || c.MetaData == nil {
			return nil, malformed(ErrMalformedRowGroup, "column chunk %d has no metadata", i)
		}
		columns = append(columns, columnChunkFromThrift(c))
	}
	return metadata.NewRowGroupMetaData(rg.NumRows, rg.TotalByteSize, columns), nil
}

func columnChunkFromThrift(c *parquet.ColumnChunk) *metadata.ColumnChunkMetaData {
	md := c.MetaData
	p := metadata.ColumnChunkParams{
		FilePath:              c.FilePath,
		FileOffset:            c.FileOffset,
		PhysicalType:          schema.PhysicalType(md.Type),
		PathInSchema:          md.PathInSchema,
		Codec:                 metadata.CompressionCodec(md.Codec),
		NumValues:             md.NumValues,
		TotalUncompressedSize: md.TotalUncompressedSize,
		TotalCompressedSize:   md.TotalCompressedSize,
		DataPageOffset:        md.DataPageOffset,
		IndexPageOffset:       md.IndexPageOffset,
		DictionaryPageOffset:  md.DictionaryPageOffset,
		Statistics:            statisticsFromThrift(md.Statistics),
	}
	for _, e := range md.Encodings {
		p.Encodings = append(p.Encodings, metadata.Encoding(e))
	}
	return metadata.NewColumnChunkMetaData(p)
}

func statisticsFromThrift(s *parquet.Statistics) *metadata.Statistics {
	if s == nil {
		return nil
	}
	out := &metadata.Statistics{
		NullCount:     s.NullCount,
		DistinctCount: s.DistinctCount,
	}
	if s.MinValue != nil || s.MaxValue != nil {
		out.Min, out.Max = s.MinValue, s.MaxValue
	} else if s.Min != nil || s.Max != nil {
		out.Min, out.Max = s.Min, s.Max
		out.Legacy = true
	}
	return out
}

package metadata

import "github.com/danthegoodman1/icefooter/schema"

type (
	Encoding         int32
	CompressionCodec int32

	// Statistics are the min/max bounds of one column chunk. Legacy marks
	// bounds that came from the deprecated min/max wire fields.
	Statistics struct {
		Min           []byte
		Max           []byte
		NullCount     *int64
		DistinctCount *int64
		Legacy        bool
	}

	// ColumnChunkParams carries the fields of a column chunk. Optional wire
	// fields are pointers.
	ColumnChunkParams struct {
		FilePath              *string
		FileOffset            int64
		PhysicalType          schema.PhysicalType
		Encodings             []Encoding
		PathInSchema          []string
		Codec                 CompressionCodec
		NumValues             int64
		TotalUncompressedSize int64
		TotalCompressedSize   int64
		DataPageOffset        int64
		IndexPageOffset       *int64
		DictionaryPageOffset  *int64
		Statistics            *Statistics
	}

	// ColumnChunkMetaData describes the stored data of one leaf column inside
	// one row group.
	ColumnChunkMetaData struct {
		p ColumnChunkParams
	}

	// RowGroupMetaData describes one row group. Column i is the chunk of
	// schema leaf i.
	RowGroupMetaData struct {
		numRows       int64
		totalByteSize int64
		columns       []*ColumnChunkMetaData
	}
)

const (
	EncodingPlain                Encoding = 0
	EncodingPlainDictionary      Encoding = 2
	EncodingRLE                  Encoding = 3
	EncodingBitPacked            Encoding = 4
	EncodingDeltaBinaryPacked    Encoding = 5
	EncodingDeltaLengthByteArray Encoding = 6
	EncodingDeltaByteArray       Encoding = 7
	EncodingRLEDictionary        Encoding = 8
	EncodingByteStreamSplit      Encoding = 9
)

const (
	Uncompressed CompressionCodec = iota
	Snappy
	Gzip
	LZO
	Brotli
	LZ4
	Zstd
)

func NewColumnChunkMetaData(p ColumnChunkParams) *ColumnChunkMetaData {
	p.Encodings = append([]Encoding(nil), p.Encodings...)
	p.PathInSchema = append([]string(nil), p.PathInSchema...)
	return &ColumnChunkMetaData{p: p}
}

// Params returns a copy of the chunk's fields.
func (c *ColumnChunkMetaData) Params() ColumnChunkParams {
	p := c.p
	p.Encodings = append([]Encoding(nil), c.p.Encodings...)
	p.PathInSchema = append([]string(nil), c.p.PathInSchema...)
	return p
}

func (c *ColumnChunkMetaData) FilePath() (string, bool) {
	if c.p.FilePath == nil {
		return "", false
	}
	return *c.p.FilePath, true
}

func (c *ColumnChunkMetaData) FileOffset() int64                 { return c.p.FileOffset }
func (c *ColumnChunkMetaData) PhysicalType() schema.PhysicalType { return c.p.PhysicalType }
func (c *ColumnChunkMetaData) Codec() CompressionCodec           { return c.p.Codec }
func (c *ColumnChunkMetaData) NumValues() int64                  { return c.p.NumValues }
func (c *ColumnChunkMetaData) TotalUncompressedSize() int64      { return c.p.TotalUncompressedSize }
func (c *ColumnChunkMetaData) TotalCompressedSize() int64        { return c.p.TotalCompressedSize }
func (c *ColumnChunkMetaData) DataPageOffset() int64             { return c.p.DataPageOffset }
func (c *ColumnChunkMetaData) Statistics() *Statistics           { return c.p.Statistics }

func (c *ColumnChunkMetaData) PathInSchema() []string {
	return append([]string(nil), c.p.PathInSchema...)
}

func (c *ColumnChunkMetaData) Encodings() []Encoding {
	return append([]Encoding(nil), c.p.Encodings...)
}

// ByteRange is the offset and length of the chunk in its file, starting at the
// dictionary page when there is one.
func (c *ColumnChunkMetaData) ByteRange() (start, length int64) {
	start = c.p.DataPageOffset
	if c.p.DictionaryPageOffset != nil && *c.p.DictionaryPageOffset > 0 && *c.p.DictionaryPageOffset < start {
		start = *c.p.DictionaryPageOffset
	}
	return start, c.p.TotalCompressedSize
}

func NewRowGroupMetaData(numRows, totalByteSize int64, columns []*ColumnChunkMetaData) *RowGroupMetaData {
	return &RowGroupMetaData{
		numRows:       numRows,
		totalByteSize: totalByteSize,
		columns:       append([]*ColumnChunkMetaData(nil), columns...),
	}
}

func (rg *RowGroupMetaData) NumRows() int64       { return rg.numRows }
func (rg *RowGroupMetaData) TotalByteSize() int64 { return rg.totalByteSize }
func (rg *RowGroupMetaData) NumColumns() int      { return len(rg.columns) }

// Column returns the chunk of schema leaf i.
func (rg *RowGroupMetaData) Column(i int) *ColumnChunkMetaData {
	return rg.columns[i]
}

func (rg *RowGroupMetaData) Columns() []*ColumnChunkMetaData {
	return append([]*ColumnChunkMetaData(nil), rg.columns...)
}

// CompressedSize sums the compressed size of every chunk.
func (rg *RowGroupMetaData) CompressedSize() (total int64) {
	for _, c := range rg.columns {
		total += c.p.TotalCompressedSize
	}
	return
}

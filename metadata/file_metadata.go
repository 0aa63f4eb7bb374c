package metadata

import "github.com/danthegoodman1/icefooter/schema"

type (
	// KeyValue is one entry of the free-form file metadata. Keys may repeat.
	KeyValue struct {
		Key   string
		Value *string
	}

	// FileMetaData is the metadata of a whole file. It is built once and not
	// modified afterwards. No field is checked against another one: NumRows
	// need not equal the sum over row groups, and column orders need not cover
	// every leaf.
	FileMetaData struct {
		version      int32
		numRows      int64
		createdBy    *string
		rowGroups    []*RowGroupMetaData
		keyValues    []KeyValue
		hasKeyValues bool
		schemaDescr  *schema.Descriptor
		columnOrders []ColumnOrder
		hasOrders    bool
	}

	FileOption func(*FileMetaData)
)

func NewFileMetaData(
	version int32,
	numRows int64,
	rowGroups []*RowGroupMetaData,
	schemaDescr *schema.Descriptor,
	opts ...FileOption,
) *FileMetaData {
	fmd := &FileMetaData{
		version:     version,
		numRows:     numRows,
		rowGroups:   append([]*RowGroupMetaData(nil), rowGroups...),
		schemaDescr: schemaDescr,
	}
	for _, opt := range opts {
		opt(fmd)
	}
	return fmd
}

// WithCreatedBy sets the writer identity, conventionally
// `<application> version <version> (build <hash>)`.
func WithCreatedBy(createdBy string) FileOption {
	return func(fmd *FileMetaData) {
		fmd.createdBy = &createdBy
	}
}

// WithKeyValueMetadata marks the key/value metadata present, even when kvs is
// empty.
func WithKeyValueMetadata(kvs ...KeyValue) FileOption {
	return func(fmd *FileMetaData) {
		fmd.keyValues = append([]KeyValue{}, kvs...)
		fmd.hasKeyValues = true
	}
}

// WithColumnOrders marks the column orders present, even when orders is
// empty. A present but short list falls back to UndefinedColumnOrder for the
// missing columns.
func WithColumnOrders(orders ...ColumnOrder) FileOption {
	return func(fmd *FileMetaData) {
		fmd.columnOrders = append([]ColumnOrder{}, orders...)
		fmd.hasOrders = true
	}
}

func (fmd *FileMetaData) Version() int32 { return fmd.version }
func (fmd *FileMetaData) NumRows() int64 { return fmd.numRows }

func (fmd *FileMetaData) CreatedBy() (string, bool) {
	if fmd.createdBy == nil {
		return "", false
	}
	return *fmd.createdBy, true
}

func (fmd *FileMetaData) RowGroups() []*RowGroupMetaData {
	return append([]*RowGroupMetaData(nil), fmd.rowGroups...)
}

func (fmd *FileMetaData) NumRowGroups() int {
	return len(fmd.rowGroups)
}

func (fmd *FileMetaData) RowGroup(i int) *RowGroupMetaData {
	return fmd.rowGroups[i]
}

func (fmd *FileMetaData) KeyValueMetadata() ([]KeyValue, bool) {
	if !fmd.hasKeyValues {
		return nil, false
	}
	return append([]KeyValue{}, fmd.keyValues...), true
}

// Lookup returns the value of the first entry with the given key.
func (fmd *FileMetaData) Lookup(key string) (*string, bool) {
	for _, kv := range fmd.keyValues {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return nil, false
}

func (fmd *FileMetaData) SchemaDescriptor() *schema.Descriptor {
	return fmd.schemaDescr
}

// Schema returns the root of the nested type tree.
func (fmd *FileMetaData) Schema() schema.Type {
	return fmd.schemaDescr.Root()
}

func (fmd *FileMetaData) ColumnOrders() ([]ColumnOrder, bool) {
	if !fmd.hasOrders {
		return nil, false
	}
	return append([]ColumnOrder{}, fmd.columnOrders...), true
}

// ColumnOrder returns the order of the i-th leaf column. It never fails:
// absent orders and indexes past the end of the list give
// UndefinedColumnOrder. schema.Descriptor.Column panics on a bad index
// instead; do not mix the two up.
func (fmd *FileMetaData) ColumnOrder(i int) ColumnOrder {
	if !fmd.hasOrders || i < 0 || i >= len(fmd.columnOrders) {
		return UndefinedColumnOrder
	}
	return fmd.columnOrders[i]
}

// WriterVersion parses CreatedBy.
func (fmd *FileMetaData) WriterVersion() (WriterVersion, bool) {
	createdBy, ok := fmd.CreatedBy()
	if !ok {
		return WriterVersion{}, false
	}
	return ParseCreatedBy(createdBy)
}

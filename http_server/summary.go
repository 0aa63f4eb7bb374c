package http_server

import (
	"github.com/danthegoodman1/icefooter/metadata"
	"github.com/danthegoodman1/icefooter/part"
	"github.com/danthegoodman1/icefooter/schema"
)

type (
	FooterSummary struct {
		Version          int32
		NumRows          int64
		CreatedBy        *string           `json:",omitempty"`
		Writer           *WriterSummary    `json:",omitempty"`
		KeyValueMetadata []KeyValueSummary `json:",omitempty"`
		Columns          []ColumnSummary
		RowGroups        []RowGroupSummary
	}

	WriterSummary struct {
		Application string
		Version     string
		Build       string `json:",omitempty"`
	}

	KeyValueSummary struct {
		Key   string
		Value *string
	}

	ColumnSummary struct {
		Path               string
		PhysicalType       string
		ConvertedType      string `json:",omitempty"`
		MaxDefinitionLevel int16
		MaxRepetitionLevel int16
		ColumnOrder        string
	}

	RowGroupSummary struct {
		NumRows        int64
		TotalByteSize  int64
		CompressedSize int64
		NumColumns     int
	}

	PartSummary struct {
		ID           string
		Key          string
		NumRows      int64
		NumRowGroups int
		NumColumns   int
		CreatedBy    *string `json:",omitempty"`
		CreatedAtMS  int64
	}

	PartWithFooter struct {
		PartSummary
		Footer FooterSummary
	}
)

func summarizeFooter(fmd *metadata.FileMetaData) FooterSummary {
	s := FooterSummary{
		Version: fmd.Version(),
		NumRows: fmd.NumRows(),
	}
	if createdBy, ok := fmd.CreatedBy(); ok {
		s.CreatedBy = &createdBy
	}
	if wv, ok := fmd.WriterVersion(); ok {
		s.Writer = &WriterSummary{
			Application: wv.Application,
			Version:     wv.Version,
			Build:       wv.Build,
		}
	}
	if kvs, ok := fmd.KeyValueMetadata(); ok {
		s.KeyValueMetadata = make([]KeyValueSummary, 0, len(kvs))
		for _, kv := range kvs {
			s.KeyValueMetadata = append(s.KeyValueMetadata, KeyValueSummary{Key: kv.Key, Value: kv.Value})
		}
	}
	s.Columns = summarizeColumns(fmd.SchemaDescriptor(), fmd.ColumnOrder)
	s.RowGroups = make([]RowGroupSummary, 0, fmd.NumRowGroups())
	for _, rg := range fmd.RowGroups() {
		s.RowGroups = append(s.RowGroups, RowGroupSummary{
			NumRows:        rg.NumRows(),
			TotalByteSize:  rg.TotalByteSize(),
			CompressedSize: rg.CompressedSize(),
			NumColumns:     rg.NumColumns(),
		})
	}
	return s
}

// summarizeColumns lists the leaves, taking each column's order from orderOf.
func summarizeColumns(descr *schema.Descriptor, orderOf func(i int) metadata.ColumnOrder) []ColumnSummary {
	cols := make([]ColumnSummary, 0, descr.NumColumns())
	for i, col := range descr.Columns() {
		cs := ColumnSummary{
			Path:               col.DottedPath(),
			PhysicalType:       col.Primitive.PhysicalType().String(),
			MaxDefinitionLevel: col.MaxDefinitionLevel,
			MaxRepetitionLevel: col.MaxRepetitionLevel,
			ColumnOrder:        orderOf(i).String(),
		}
		if ct := col.Primitive.ConvertedType(); ct != schema.ConvertedNone {
			cs.ConvertedType = ct.String()
		}
		cols = append(cols, cs)
	}
	return cols
}

func summarizePart(p part.Part) PartSummary {
	return PartSummary{
		ID:           p.ID,
		Key:          p.Key,
		NumRows:      p.NumRows,
		NumRowGroups: p.NumRowGroups,
		NumColumns:   p.NumColumns,
		CreatedBy:    p.CreatedBy,
		CreatedAtMS:  p.CreatedAt.UnixMilli(),
	}
}

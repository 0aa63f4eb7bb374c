package parquet_accumulator

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/danthegoodman1/gojsonutils"

	"github.com/danthegoodman1/icefooter/schema"
)

const RootName = "parquet_go_root"

type (
	ParquetSchemaAccumulator struct {
		schema ParquetSchema
	}

	ParquetSchema struct {
		TagStructs SchemaTag        `json:"-,omitempty"`
		Fields     []*ParquetSchema `json:",omitempty"`
	}

	ParquetJSONSchema struct {
		Tag    string               `json:",omitempty"`
		Fields []*ParquetJSONSchema `json:",omitempty"`
	}

	SchemaTag struct {
		Name           string         `json:"name,omitempty"`
		Type           string         `json:"type,omitempty"`
		ConvertedType  string         `json:"convertedtype,omitempty"`
		RepetitionType RepetitionType `json:"repetitiontype,omitempty"`
		Encoding       string         `json:"encoding,omitempty"`
	}

	RepetitionType string
)

var (
	Optional RepetitionType = "OPTIONAL"
	Required RepetitionType = "REQUIRED"

	ErrNotFlatMap = errors.New("not a flat map")
)

func NewParquetAccumulator() ParquetSchemaAccumulator {
	return ParquetSchemaAccumulator{
		schema: ParquetSchema{
			TagStructs: SchemaTag{
				Name:           RootName,
				RepetitionType: Required,
			},
		},
	}
}

// WriteRow adds any columns of row not seen yet. New columns of one row are
// added in key order so the schema does not depend on map iteration.
func (pa *ParquetSchemaAccumulator) WriteRow(row map[string]any) {
	keys := make([]string, 0, len(row))
	for key := range row {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if key == "" || pa.fieldExists(key) {
			continue
		}
		rowSchema := pa.getParquetSchema(key, row[key])
		if rowSchema != nil {
			pa.schema.Fields = append(pa.schema.Fields, rowSchema)
		}
	}
}

// WriteJSONRow flattens a nested JSON object and accumulates it, returning
// the flat row.
func (pa *ParquetSchemaAccumulator) WriteJSONRow(row map[string]any) (map[string]any, error) {
	flat, err := gojsonutils.Flatten(row, nil)
	if err != nil {
		return nil, fmt.Errorf("error in gojsonutils.Flatten: %w", err)
	}
	flatMap, ok := flat.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %+v", ErrNotFlatMap, flat)
	}
	pa.WriteRow(flatMap)
	return flatMap, nil
}

// getParquetSchema returns nil for values whose type cannot be known yet:
// nil, and slices without a non nil element.
func (pa *ParquetSchemaAccumulator) getParquetSchema(key string, item any) *ParquetSchema {
	if item == nil {
		return nil
	}
	schema := &ParquetSchema{
		TagStructs: SchemaTag{
			Name:           key,
			RepetitionType: Optional,
		},
	}
	val := reflect.ValueOf(item)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}

	switch {
	case val.Kind() == reflect.Slice:
		var elem *ParquetSchema
		for i := 0; i < val.Len() && elem == nil; i++ {
			elem = pa.getParquetSchema("element", val.Index(i).Interface())
		}
		if elem == nil {
			return nil
		}
		schema.TagStructs.Type = "LIST"
		schema.Fields = append(schema.Fields, elem)
	case val.Kind() == reflect.String:
		schema.TagStructs.Type = "BYTE_ARRAY"
		schema.TagStructs.ConvertedType = "UTF8"
		schema.TagStructs.Encoding = "PLAIN"
	default:
		// Float otherwise since we can't tell the difference in JSON
		schema.TagStructs.Type = "DOUBLE"
	}

	return schema
}

func (pa *ParquetSchemaAccumulator) fieldExists(fieldName string) (exists bool) {
	for _, field := range pa.schema.Fields {
		if field.TagStructs.Name == fieldName {
			return true
		}
	}
	return
}

func (pa *ParquetSchemaAccumulator) GetColumnNames() []string {
	var cols []string
	for _, field := range pa.schema.Fields {
		cols = append(cols, field.TagStructs.Name)
	}
	return cols
}

func (ps *ParquetSchema) GetType() string {
	switch ps.TagStructs.Type {
	case "BYTE_ARRAY":
		return "string"
	case "LIST":
		return fmt.Sprintf("list(%s)", ps.Fields[0].GetType())
	default:
		return "float"
	}
}

// GetColumnTypes returns the types of columns in the same order, either `string`, `float`, or `list(x)` (recursive)
func (pa *ParquetSchemaAccumulator) GetColumnTypes() []string {
	var cols []string
	for _, field := range pa.schema.Fields {
		cols = append(cols, field.GetType())
	}
	return cols
}

// Type converts the accumulated field into a schema node. Lists use the
// three level layout: an annotated group, a repeated "list" group, then the
// element.
func (ps *ParquetSchema) Type() schema.Type {
	name := ps.TagStructs.Name
	switch ps.TagStructs.Type {
	case "BYTE_ARRAY":
		return schema.NewPrimitiveType(name, schema.Optional, schema.ByteArray, schema.WithConvertedType(schema.UTF8))
	case "LIST":
		list := schema.NewGroupType("list", schema.Repeated, []schema.Type{ps.Fields[0].Type()})
		return schema.NewGroupType(name, schema.Optional, []schema.Type{list}, schema.WithGroupConvertedType(schema.List))
	default:
		return schema.NewPrimitiveType(name, schema.Optional, schema.Double)
	}
}

// Schema returns the accumulated schema rooted at a required group.
func (pa *ParquetSchemaAccumulator) Schema() *schema.GroupType {
	fields := make([]schema.Type, 0, len(pa.schema.Fields))
	for _, field := range pa.schema.Fields {
		fields = append(fields, field.Type())
	}
	return schema.NewGroupType(RootName, schema.Required, fields)
}

// ToParquetJSONSchema recursively converts
func (ps *ParquetSchema) ToParquetJSONSchema() *ParquetJSONSchema {
	var tagArr []string
	if ps.TagStructs.Type != "" {
		tagArr = append(tagArr, "type="+ps.TagStructs.Type)
	}
	if ps.TagStructs.ConvertedType != "" {
		tagArr = append(tagArr, "convertedtype="+ps.TagStructs.ConvertedType)
	}
	if ps.TagStructs.Encoding != "" {
		tagArr = append(tagArr, "encoding="+ps.TagStructs.Encoding)
	}
	if ps.TagStructs.Name != "" {
		tagArr = append(tagArr, "name="+ps.TagStructs.Name)
	}
	if string(ps.TagStructs.RepetitionType) != "" {
		tagArr = append(tagArr, "repetitiontype="+string(ps.TagStructs.RepetitionType))
	}
	var fields []*ParquetJSONSchema
	for _, field := range ps.Fields {
		fields = append(fields, field.ToParquetJSONSchema())
	}
	return &ParquetJSONSchema{
		Tag:    strings.Join(tagArr, ", "),
		Fields: fields,
	}
}

// GetSchemaString returns the schema in the JSON format the xitongsys writer takes
func (pa *ParquetSchemaAccumulator) GetSchemaString() (string, error) {
	var fields []*ParquetJSONSchema
	for _, field := range pa.schema.Fields {
		fields = append(fields, field.ToParquetJSONSchema())
	}
	pjs := ParquetJSONSchema{
		Tag:    "name=" + RootName + ", repetitiontype=REQUIRED",
		Fields: fields,
	}

	b, err := json.Marshal(pjs)
	if err != nil {
		return "", fmt.Errorf("error in json.Marshal: %w", err)
	}
	return string(b), nil
}

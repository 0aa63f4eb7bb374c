package http_server

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/danthegoodman1/icefooter/footer"
	"github.com/danthegoodman1/icefooter/metadata"
	"github.com/danthegoodman1/icefooter/parquet_accumulator"
	"github.com/danthegoodman1/icefooter/schema"
)

type (
	InferReqBody struct {
		// Line-delimited JSON (NDJSON)
		RowsString *string
		// Array of JSON
		Rows []map[string]any
	}

	InferResponse struct {
		// SchemaString is the inferred schema in the xitongsys JSON schema format
		SchemaString string
		Columns      []ColumnSummary
	}
)

// DecodeFooter decodes a footer posted as the raw thrift bytes, or as a whole
// parquet file when the file query param is "true".
func (s *HTTPServer) DecodeFooter(c *CustomContext) error {
	ctx := c.Request().Context()
	defer c.Request().Body.Close()

	limit := s.MaxFooterBytes
	wholeFile := c.QueryParam("file") == "true"
	var body io.Reader = c.Request().Body
	if limit > 0 && !wholeFile {
		body = io.LimitReader(body, limit+1)
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return c.InternalError(err, "error reading request body")
	}
	if limit > 0 && !wholeFile && int64(len(b)) > limit {
		return c.String(http.StatusRequestEntityTooLarge, fmt.Sprintf("%s: limit %d", footer.ErrFooterTooLarge, limit))
	}

	if wholeFile {
		b, err = footer.ReadBytes(ctx, bytes.NewReader(b), limit)
		if status, ok := footerErrorStatus(err); ok {
			return c.String(status, err.Error())
		}
		if err != nil {
			return c.InternalError(err, "error reading footer from body")
		}
	}

	fmd, err := footer.Unmarshal(b)
	if err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, summarizeFooter(fmd))
}

// InferSchema accumulates a schema from JSON rows and describes the columns a
// file written with it would have.
func (s *HTTPServer) InferSchema(c *CustomContext) error {
	var reqBody InferReqBody
	if err := ValidateRequest(c, &reqBody); err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}

	acc := parquet_accumulator.NewParquetAccumulator()
	numRows := 0
	if reqBody.RowsString != nil {
		ndJSONScanner := bufio.NewScanner(strings.NewReader(*reqBody.RowsString))
		for ndJSONScanner.Scan() {
			line := strings.TrimSpace(ndJSONScanner.Text())
			if line == "" {
				continue
			}
			var jsonMap map[string]any
			if err := json.Unmarshal([]byte(line), &jsonMap); err != nil {
				return c.String(http.StatusBadRequest, "line was not a JSON object")
			}
			if _, err := acc.WriteJSONRow(jsonMap); err != nil {
				return c.InternalError(err, "error accumulating row")
			}
			numRows++
		}
		if err := ndJSONScanner.Err(); err != nil {
			return c.String(http.StatusBadRequest, err.Error())
		}
	}
	for _, row := range reqBody.Rows {
		if _, err := acc.WriteJSONRow(row); err != nil {
			return c.InternalError(err, "error accumulating row")
		}
		numRows++
	}
	if numRows == 0 {
		return c.String(http.StatusBadRequest, "no rows found")
	}

	schemaString, err := acc.GetSchemaString()
	if err != nil {
		return c.InternalError(err, "error in GetSchemaString")
	}
	descr := schema.NewDescriptor(acc.Schema())
	return c.JSON(http.StatusOK, InferResponse{
		SchemaString: schemaString,
		Columns: summarizeColumns(descr, func(i int) metadata.ColumnOrder {
			return metadata.ColumnOrderFor(descr.Column(i).Primitive)
		}),
	})
}

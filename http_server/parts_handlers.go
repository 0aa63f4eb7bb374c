package http_server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/danthegoodman1/icefooter/datastore"
	"github.com/danthegoodman1/icefooter/footer"
	"github.com/danthegoodman1/icefooter/interchange"
	"github.com/danthegoodman1/icefooter/metastore"
	"github.com/danthegoodman1/icefooter/part"
	"github.com/danthegoodman1/icefooter/s3_helper"
)

type (
	PostPartReqBody struct {
		// Key is the object key of the parquet file in the data store
		Key string `validate:"required"`
	}

	ListPartsResponse struct {
		Parts []PartSummary
	}
)

func (s *HTTPServer) PostPart(c *CustomContext) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), time.Second*60)
	defer cancel()
	logger := zerolog.Ctx(ctx)

	var reqBody PostPartReqBody
	if err := ValidateRequest(c, &reqBody); err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}

	f, err := s.DataStore.Open(ctx, reqBody.Key)
	if status, ok := openErrorStatus(err); ok {
		return c.String(status, err.Error())
	}
	if err != nil {
		return c.InternalError(err, "error opening file in data store")
	}
	defer f.Close()

	raw, err := footer.ReadBytes(ctx, f, s.MaxFooterBytes)
	if status, ok := footerErrorStatus(err); ok {
		return c.String(status, err.Error())
	}
	if err != nil {
		return c.InternalError(err, "error reading footer")
	}
	fmd, err := footer.Unmarshal(raw)
	if status, ok := footerErrorStatus(err); ok {
		return c.String(status, err.Error())
	}
	if err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}

	p := part.NewPart(reqBody.Key, raw, fmd)
	err = s.MetaStore.PutPart(ctx, p)
	if errors.Is(err, metastore.ErrPartExists) {
		return c.String(http.StatusConflict, err.Error())
	}
	if err != nil {
		return c.InternalError(err, "error in MetaStore.PutPart")
	}

	logger.Debug().Str("partID", p.ID).Str("key", p.Key).Str("dataStore", s.DataStore.Name()).Int64("rows", p.NumRows).Msg("registered part")
	return c.JSON(http.StatusCreated, summarizePart(p))
}

func (s *HTTPServer) ListParts(c *CustomContext) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), time.Second*30)
	defer cancel()

	parts, err := s.MetaStore.ListParts(ctx, c.QueryParam("prefix"))
	if err != nil {
		return c.InternalError(err, "error in MetaStore.ListParts")
	}

	res := ListPartsResponse{Parts: make([]PartSummary, 0, len(parts))}
	for _, p := range parts {
		res.Parts = append(res.Parts, summarizePart(p))
	}
	return c.JSON(http.StatusOK, res)
}

func (s *HTTPServer) GetPart(c *CustomContext) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), time.Second*30)
	defer cancel()

	p, err := s.MetaStore.GetPart(ctx, c.Param("id"))
	if errors.Is(err, metastore.ErrPartNotFound) {
		return c.String(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return c.InternalError(err, "error in MetaStore.GetPart")
	}

	fmd, err := p.FileMetaData()
	if err != nil {
		return c.InternalError(err, "error decoding stored footer")
	}
	return c.JSON(http.StatusOK, PartWithFooter{
		PartSummary: summarizePart(p),
		Footer:      summarizeFooter(fmd),
	})
}

func (s *HTTPServer) DeletePart(c *CustomContext) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), time.Second*30)
	defer cancel()

	err := s.MetaStore.DisablePart(ctx, c.Param("id"))
	if errors.Is(err, metastore.ErrPartNotFound) {
		return c.String(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return c.InternalError(err, "error in MetaStore.DisablePart")
	}
	return c.NoContent(http.StatusNoContent)
}

func openErrorStatus(err error) (int, bool) {
	switch {
	case err == nil:
		return 0, false
	case errors.Is(err, datastore.ErrInvalidKey):
		return http.StatusBadRequest, true
	case errors.Is(err, os.ErrNotExist), errors.Is(err, s3_helper.ErrObjectNotFound):
		return http.StatusNotFound, true
	}
	return 0, false
}

// footerErrorStatus maps errors caused by the file contents rather than by
// the server to a client status.
func footerErrorStatus(err error) (int, bool) {
	switch {
	case err == nil:
		return 0, false
	case errors.Is(err, footer.ErrFooterTooLarge):
		return http.StatusRequestEntityTooLarge, true
	case footer.IsNotParquet(err),
		errors.Is(err, interchange.ErrMalformedSchema),
		errors.Is(err, interchange.ErrMalformedRowGroup),
		errors.Is(err, interchange.ErrNotRepresentable):
		return http.StatusBadRequest, true
	}
	return 0, false
}

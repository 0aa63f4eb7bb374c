package datastore

import (
	"context"
	"errors"

	"github.com/xitongsys/parquet-go/source"

	"github.com/danthegoodman1/icefooter/gologger"
)

var (
	logger = gologger.NewLogger()

	ErrInvalidKey = errors.New("invalid object key")
)

type (
	DataStore interface {
		// Open returns a seekable reader over the parquet file at key
		Open(ctx context.Context, key string) (source.ParquetFile, error)
		// Name identifies the store in logs and part records
		Name() string

		Shutdown(ctx context.Context) error
	}
)

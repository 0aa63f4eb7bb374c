package datastore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
)

type (
	DiskDataStore struct {
		rootPath string
	}
)

func NewDiskDataStore(rootPath string) (*DiskDataStore, error) {
	abs, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("error in filepath.Abs: %w", err)
	}
	dds := &DiskDataStore{
		rootPath: abs,
	}

	return dds, nil
}

func (dds *DiskDataStore) Name() string {
	return "disk"
}

// path resolves key below the root, rejecting keys that climb out of it.
func (dds *DiskDataStore) path(key string) (string, error) {
	p := filepath.Join(dds.rootPath, filepath.FromSlash(key))
	rel, err := filepath.Rel(dds.rootPath, p)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrInvalidKey, key)
	}
	return p, nil
}

func (dds *DiskDataStore) Open(ctx context.Context, key string) (source.ParquetFile, error) {
	p, err := dds.path(key)
	if err != nil {
		return nil, err
	}
	if _, err = os.Stat(p); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", os.ErrNotExist, key)
	}
	zerolog.Ctx(ctx).Debug().Str("path", p).Msg("opening file on disk")
	f, err := local.NewLocalFileReader(p)
	if err != nil {
		return nil, fmt.Errorf("error in local.NewLocalFileReader: %w", err)
	}
	return f, nil
}

func (dds *DiskDataStore) Shutdown(_ context.Context) error {
	return nil
}

package datastore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskOpen(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "ns=a"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "ns=a", "f.parquet"), []byte("PAR1hello"), 0o644))

	dds, err := NewDiskDataStore(root)
	require.NoError(t, err)
	assert.Equal(t, "disk", dds.Name())

	f, err := dds.Open(context.Background(), "ns=a/f.parquet")
	require.NoError(t, err)
	defer f.Close()

	size, err := f.Seek(0, io.SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(9), size)
}

func TestDiskOpenRejects(t *testing.T) {
	dds, err := NewDiskDataStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = dds.Open(ctx, "../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidKey)
	_, err = dds.Open(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidKey)
	_, err = dds.Open(ctx, "missing.parquet")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

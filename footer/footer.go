package footer

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/danthegoodman1/icefooter/metadata"
	"github.com/danthegoodman1/icefooter/utils"
)

const (
	Magic = "PAR1"

	// trailer is the footer length plus the closing magic
	trailer = 8
)

var (
	ErrNotParquet     = utils.PermError("not a parquet file")
	ErrFooterTooLarge = utils.PermError("footer too large")
)

// Read locates and decodes the footer of a parquet file. maxFooterBytes <= 0
// disables the size limit.
func Read(ctx context.Context, r io.ReadSeeker, maxFooterBytes int64) (*metadata.FileMetaData, error) {
	b, err := ReadBytes(ctx, r, maxFooterBytes)
	if err != nil {
		return nil, err
	}
	return Unmarshal(b)
}

// ReadBytes returns the raw thrift footer without decoding it.
func ReadBytes(ctx context.Context, r io.ReadSeeker, maxFooterBytes int64) ([]byte, error) {
	logger := zerolog.Ctx(ctx)

	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("error seeking to end: %w", err)
	}
	if size < int64(len(Magic))+trailer {
		return nil, fmt.Errorf("%w: file is %d bytes", ErrNotParquet, size)
	}

	head := make([]byte, len(Magic))
	if _, err = r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("error seeking to start: %w", err)
	}
	if _, err = io.ReadFull(r, head); err != nil {
		return nil, fmt.Errorf("error reading header magic: %w", err)
	}
	if string(head) != Magic {
		return nil, fmt.Errorf("%w: bad header magic %q", ErrNotParquet, head)
	}

	tail := make([]byte, trailer)
	if _, err = r.Seek(size-trailer, io.SeekStart); err != nil {
		return nil, fmt.Errorf("error seeking to trailer: %w", err)
	}
	if _, err = io.ReadFull(r, tail); err != nil {
		return nil, fmt.Errorf("error reading trailer: %w", err)
	}
	if string(tail[4:]) != Magic {
		return nil, fmt.Errorf("%w: bad footer magic %q", ErrNotParquet, tail[4:])
	}

	footerLen := int64(binary.LittleEndian.Uint32(tail[:4]))
	if footerLen > size-int64(len(Magic))-trailer {
		return nil, fmt.Errorf("%w: footer length %d exceeds file size %d", ErrNotParquet, footerLen, size)
	}
	if maxFooterBytes > 0 && footerLen > maxFooterBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrFooterTooLarge, footerLen, maxFooterBytes)
	}

	buf := make([]byte, footerLen)
	if _, err = r.Seek(size-trailer-footerLen, io.SeekStart); err != nil {
		return nil, fmt.Errorf("error seeking to footer: %w", err)
	}
	if _, err = io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("error reading footer: %w", err)
	}

	logger.Debug().Int64("fileBytes", size).Int64("footerBytes", footerLen).Msg("read parquet footer")
	return buf, nil
}

// Write appends the encoded footer, its length and the closing magic to w.
// The caller has already written the header magic and the column data.
func Write(w io.Writer, fmd *metadata.FileMetaData) (int64, error) {
	b, err := Marshal(fmd)
	if err != nil {
		return 0, err
	}
	return WriteBytes(w, b)
}

func WriteBytes(w io.Writer, b []byte) (int64, error) {
	if uint64(len(b)) > uint64(^uint32(0)) {
		return 0, fmt.Errorf("%w: %d bytes", ErrFooterTooLarge, len(b))
	}
	tail := make([]byte, trailer)
	binary.LittleEndian.PutUint32(tail[:4], uint32(len(b)))
	copy(tail[4:], Magic)

	var written int64
	for _, chunk := range [][]byte{b, tail} {
		n, err := w.Write(chunk)
		written += int64(n)
		if err != nil {
			return written, fmt.Errorf("error writing footer: %w", err)
		}
	}
	return written, nil
}

// IsNotParquet reports whether err came from a file that is not parquet.
func IsNotParquet(err error) bool {
	return errors.Is(err, ErrNotParquet)
}

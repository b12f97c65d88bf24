package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
)

// Local is a Source backed by an in-memory or file-backed byte-addressable
// blob of known length.
//
// Local is safe for concurrent use: ReaderAt implementations are expected
// to be re-entrant (the standard library's *os.File and bytes.Reader-backed
// readers both are).
type Local struct {
	r    io.ReaderAt
	size int64
}

// NewLocal wraps r, which must serve size bytes starting at offset 0, as a
// Source.
func NewLocal(r io.ReaderAt, size int64) *Local {
	return &Local{r: r, size: size}
}

// NewLocalBytes wraps an in-memory blob as a Source.
func NewLocalBytes(data []byte) *Local {
	return &Local{r: bytes.NewReader(data), size: int64(len(data))}
}

// Len implements Source.
func (l *Local) Len() int64 {
	return l.size
}

// ReadRange implements Source.
func (l *Local) ReadRange(ctx context.Context, offset, length int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 || length < 0 || offset+length > l.size {
		return nil, fmt.Errorf("local: read range [%d,%d) exceeds length %d: %w", offset, offset+length, l.size, ErrShortRead)
	}
	buf := make([]byte, length)
	n, err := l.r.ReadAt(buf, offset)
	if err != nil && !(err == io.EOF && int64(n) == length) {
		return nil, fmt.Errorf("local: read range [%d,%d): %w", offset, offset+length, err)
	}
	if int64(n) != length {
		return nil, fmt.Errorf("local: read range [%d,%d) got %d bytes: %w", offset, offset+length, n, ErrShortRead)
	}
	return buf, nil
}

// ReadRangeStream implements Source.
func (l *Local) ReadRangeStream(ctx context.Context, offset, length int64) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 || length < 0 || offset+length > l.size {
		return nil, fmt.Errorf("local: read range [%d,%d) exceeds length %d: %w", offset, offset+length, l.size, ErrShortRead)
	}
	return io.NopCloser(io.NewSectionReader(l.r, offset, length)), nil
}

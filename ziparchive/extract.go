package ziparchive

import (
	"bytes"
	"context"
	"fmt"
	"io"
)

const (
	methodStored  = 0
	methodDeflate = 8
)

// Extract returns e's fully decompressed content, implementing spec.md
// §4.2 "Extract (single entry)".
//
// Extract rejects Directory entries with ErrInvalidOperation, since a
// directory entry has no content to extract.
func (a *Archive) Extract(ctx context.Context, e *Entry) ([]byte, error) {
	if e.Kind == Directory {
		return nil, fmt.Errorf("%w: cannot extract directory %q", ErrInvalidOperation, e.Path)
	}

	switch e.CompressionMethod {
	case methodStored, methodDeflate:
	default:
		return nil, fmt.Errorf("%w: method %d for %q", ErrUnsupportedCompression, e.CompressionMethod, e.Path)
	}

	dataOffset, err := a.localFileData(ctx, e)
	if err != nil {
		return nil, err
	}

	raw, err := a.source.ReadRange(ctx, dataOffset, int64(e.CompressedSize))
	if err != nil {
		return nil, fmt.Errorf("reading compressed data for %q: %w", e.Path, err)
	}
	if uint64(len(raw)) != e.CompressedSize {
		return nil, fmt.Errorf("%w: short read of compressed data for %q", ErrMalformedArchive, e.Path)
	}

	if e.CompressionMethod == methodStored {
		if uint64(len(raw)) != e.UncompressedSize {
			return nil, fmt.Errorf("%w: stored size mismatch for %q", ErrMalformedArchive, e.Path)
		}
		return raw, nil
	}

	out, err := inflateAll(bytes.NewReader(raw), int64(e.UncompressedSize))
	if err != nil {
		return nil, fmt.Errorf("%w: inflating %q: %v", ErrMalformedArchive, e.Path, err)
	}
	return out, nil
}

// ExtractStream returns e's decompressed content as a pull-based,
// closeable stream, implementing spec.md §4.2's streaming variant of
// Extract. Callers must Close the returned reader.
func (a *Archive) ExtractStream(ctx context.Context, e *Entry) (io.ReadCloser, error) {
	if e.Kind == Directory {
		return nil, fmt.Errorf("%w: cannot extract directory %q", ErrInvalidOperation, e.Path)
	}

	switch e.CompressionMethod {
	case methodStored, methodDeflate:
	default:
		return nil, fmt.Errorf("%w: method %d for %q", ErrUnsupportedCompression, e.CompressionMethod, e.Path)
	}

	dataOffset, err := a.localFileData(ctx, e)
	if err != nil {
		return nil, err
	}

	raw, err := a.source.ReadRangeStream(ctx, dataOffset, int64(e.CompressedSize))
	if err != nil {
		return nil, fmt.Errorf("opening compressed data stream for %q: %w", e.Path, err)
	}

	if e.CompressionMethod == methodStored {
		return raw, nil
	}

	return &closeBothReader{inner: inflateStream(raw), src: raw}, nil
}

// closeBothReader closes both the decompressor and the underlying source
// stream it reads from, in that order, regardless of which Close call
// fails first.
type closeBothReader struct {
	inner io.ReadCloser
	src   io.ReadCloser
}

func (c *closeBothReader) Read(p []byte) (int, error) {
	return c.inner.Read(p)
}

func (c *closeBothReader) Close() error {
	err1 := c.inner.Close()
	err2 := c.src.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

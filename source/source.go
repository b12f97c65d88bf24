package source

import (
	"context"
	"errors"
	"io"
)

// Sentinel errors returned by Source implementations.
var (
	// ErrUnavailable indicates the source could not be opened: an invalid
	// URL, a failed HEAD/GET, missing range support, or a missing local
	// blob.
	ErrUnavailable = errors.New("source: unavailable")

	// ErrShortRead indicates a read returned fewer bytes than requested.
	ErrShortRead = errors.New("source: short read")
)

// Source is the narrow contract the ZIP archive reader depends on: a
// random-access, read-only byte stream of known length.
//
// Implementations must support independent, reorderable calls to ReadRange
// and ReadRangeStream; no ordering or mutual-exclusion guarantees are made
// between concurrent calls on the same Source.
type Source interface {
	// Len returns the total number of bytes addressable by this source.
	Len() int64

	// ReadRange returns exactly length bytes starting at offset. It returns
	// ErrShortRead (possibly wrapped) if fewer than length bytes are
	// available, and the ctx error if ctx is done before the read completes.
	// Other failures, such as a non-2xx HTTP status from Remote, are
	// returned as errors that do not wrap ErrShortRead.
	ReadRange(ctx context.Context, offset, length int64) ([]byte, error)

	// ReadRangeStream returns the same content as ReadRange, delivered as a
	// pull-based, closeable stream so large payloads need not be buffered
	// in memory. Callers must Close the returned reader.
	ReadRangeStream(ctx context.Context, offset, length int64) (io.ReadCloser, error)
}

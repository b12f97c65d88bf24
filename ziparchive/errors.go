package ziparchive

import "errors"

// Sentinel errors forming the taxonomy described by the ZIP archive reader
// contract. Wrapped errors returned by package functions satisfy
// errors.Is against these values.
var (
	// ErrMalformedArchive indicates the EOCD was not found, a
	// central-directory entry had a bad signature or inconsistent
	// lengths, a short read occurred, or a duplicate path was detected.
	ErrMalformedArchive = errors.New("ziparchive: malformed archive")

	// ErrUnsupportedCompression indicates a compression method outside
	// {stored, raw DEFLATE}.
	ErrUnsupportedCompression = errors.New("ziparchive: unsupported compression method")

	// ErrInvalidOperation indicates an operation that is never valid for
	// its arguments or the archive's current state: extracting a
	// directory, for example.
	ErrInvalidOperation = errors.New("ziparchive: invalid operation")

	// ErrNotFound indicates a requested entry path does not exist.
	ErrNotFound = errors.New("ziparchive: not found")
)

// Package source provides random-access, read-only byte sources for the
// ZIP archive reader in [github.com/davelopez/ro-crate-zip-explorer/ziparchive].
//
// A [Source] reports its total length and serves independent, reorderable
// ranged reads. Two implementations are provided: [Local], backed by an
// in-memory or file-backed [io.ReaderAt] of known size, and [Remote], backed
// by an HTTP(S) URL that supports byte-range requests.
package source

package rocratezip

import (
	"context"
	"fmt"

	"github.com/davelopez/ro-crate-zip-explorer/explorer"
	"github.com/davelopez/ro-crate-zip-explorer/rocrate"
	"github.com/davelopez/ro-crate-zip-explorer/source"
	"github.com/davelopez/ro-crate-zip-explorer/ziparchive"
)

// Re-exported types so callers need only import this package for the
// common path.
type (
	// Entry describes one archive member.
	Entry = ziparchive.Entry

	// Kind distinguishes File and Directory entries.
	Kind = ziparchive.Kind

	// Archive is the opened, immutable ZIP entry index.
	Archive = ziparchive.Archive

	// EntryMetadata is the per-entry enrichment record.
	EntryMetadata = explorer.EntryMetadata

	// Crate is the read-only RO-Crate graph projection.
	Crate = rocrate.Crate

	// Option configures an Explorer constructed by Open/OpenRoCrate.
	Option = explorer.Option
)

// Re-exported Kind constants.
const (
	File      = ziparchive.File
	Directory = ziparchive.Directory
)

// Re-exported sentinel errors. Callers should match on these with
// errors.Is rather than on package-qualified values from the
// subpackages directly.
var (
	ErrSourceUnavailable      = source.ErrUnavailable
	ErrMalformedArchive       = ziparchive.ErrMalformedArchive
	ErrUnsupportedCompression = ziparchive.ErrUnsupportedCompression
	ErrInvalidOperation       = ziparchive.ErrInvalidOperation
	ErrNotFound               = explorer.ErrNotFound
	ErrNotOpened              = explorer.ErrNotOpened
	ErrNotExtracted           = explorer.ErrNotExtracted
	ErrNoCrate                = explorer.ErrNoCrate
)

// Open resolves src to a Byte Source and returns an opened-on-demand
// Explorer over it. src must be one of:
//
//   - []byte: an in-memory archive.
//   - SizedReaderAt: a random-access reader plus its total length.
//   - string: an HTTP(S) URL, read via ranged GET requests.
//
// Any other type is a caller programming error, reported as
// ErrInvalidOperation. Open itself does not read the archive; the
// returned Explorer opens lazily on its first Open(ctx) call.
func Open(ctx context.Context, src any, opts ...Option) (*explorer.Explorer, error) {
	s, err := resolveSource(ctx, src)
	if err != nil {
		return nil, err
	}
	return explorer.New(s, opts...), nil
}

// OpenRoCrate is Open's RO-Crate-aware equivalent, returning a
// RoCrateExplorer.
func OpenRoCrate(ctx context.Context, src any, opts ...Option) (*explorer.RoCrateExplorer, error) {
	s, err := resolveSource(ctx, src)
	if err != nil {
		return nil, err
	}
	return explorer.NewRoCrate(s, opts...), nil
}

// resolveSource discriminates src by runtime type, per spec.md §6
// "Archive source selection".
func resolveSource(ctx context.Context, src any) (source.Source, error) {
	switch v := src.(type) {
	case []byte:
		return source.NewLocalBytes(v), nil
	case SizedReaderAt:
		return source.NewLocal(v.R, v.Size), nil
	case string:
		return source.NewRemote(ctx, v)
	default:
		return nil, fmt.Errorf("%w: unsupported source type %T", ErrInvalidOperation, src)
	}
}

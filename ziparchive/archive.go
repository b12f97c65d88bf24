package ziparchive

import (
	"context"
	"fmt"
	"strings"

	"github.com/davelopez/ro-crate-zip-explorer/source"
)

// Archive is the immutable, opened view of a ZIP archive's entry index.
//
// Once Open returns an Archive, its entry index never changes for the
// lifetime of the handle.
type Archive struct {
	source  source.Source
	entries []Entry
	byPath  map[string]*Entry
	isZip64 bool
	size    int64
}

// Open parses src's End-of-Central-Directory record, optional ZIP64
// locator, and central directory, and returns the resulting Archive.
//
// Open performs the suspension points described in spec.md §5 in strict
// order: the EOCD window read, then the central-directory read, then
// purely CPU-bound entry construction.
func Open(ctx context.Context, src source.Source, opts ...Option) (*Archive, error) {
	cfg := newOpenConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	info, err := loadEOCD(ctx, src, cfg.eocdSearchWindow)
	if err != nil {
		return nil, err
	}

	entries, err := parseCentralDirectory(ctx, src, info)
	if err != nil {
		return nil, err
	}

	byPath := make(map[string]*Entry, len(entries))
	for i := range entries {
		byPath[entries[i].Path] = &entries[i]
	}

	return &Archive{
		source:  src,
		entries: entries,
		byPath:  byPath,
		isZip64: info.isZip64,
		size:    src.Len(),
	}, nil
}

// Len returns the total archive byte length.
func (a *Archive) Len() int64 {
	return a.size
}

// IsZip64 reports whether the ZIP64 End-of-Central-Directory locator
// signature was present immediately before the EOCD record.
func (a *Archive) IsZip64() bool {
	return a.isZip64
}

// Entries returns the archive's entries in central-directory order. The
// returned slice must not be modified by the caller.
func (a *Archive) Entries() []Entry {
	return a.entries
}

// Lookup returns the entry with the exact given path.
func (a *Archive) Lookup(path string) (*Entry, bool) {
	e, ok := a.byPath[path]
	return e, ok
}

// FindByName returns the first File entry whose path ends with suffix, in
// central-directory order. Directory entries are ignored. It reports
// false if no file matches.
func (a *Archive) FindByName(suffix string) (*Entry, bool) {
	return a.FindFunc(func(e *Entry) bool {
		return e.Kind == File && strings.HasSuffix(e.Path, suffix)
	})
}

// FindFunc returns the first entry, in central-directory order, for which
// match reports true.
func (a *Archive) FindFunc(match func(*Entry) bool) (*Entry, bool) {
	for i := range a.entries {
		if match(&a.entries[i]) {
			return &a.entries[i], true
		}
	}
	return nil, false
}

// localFileData resolves a member's data offset, reading only the 30-byte
// fixed part of the local file header, whose name and extra-field lengths
// locate the data that follows them, implementing spec.md §4.2 "Extract"
// step 2.
func (a *Archive) localFileData(ctx context.Context, e *Entry) (dataOffset int64, err error) {
	header, err := a.source.ReadRange(ctx, int64(e.HeaderOffset), localHeaderFixLen)
	if err != nil {
		return 0, fmt.Errorf("reading local file header for %q at offset %d: %w", e.Path, e.HeaderOffset, err)
	}
	if len(header) < localHeaderFixLen {
		return 0, fmt.Errorf("%w: truncated local file header for %q", ErrMalformedArchive, e.Path)
	}
	sig := uint32(header[0]) | uint32(header[1])<<8 | uint32(header[2])<<16 | uint32(header[3])<<24
	if sig != sigLocalFileHeader {
		return 0, fmt.Errorf("%w: bad local file header signature %#08x for %q", ErrMalformedArchive, sig, e.Path)
	}
	nameLen := int(uint16(header[26]) | uint16(header[27])<<8)
	extraLen := int(uint16(header[28]) | uint16(header[29])<<8)
	return int64(e.HeaderOffset) + localHeaderFixLen + int64(nameLen) + int64(extraLen), nil
}

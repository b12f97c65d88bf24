package explorer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"path"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/davelopez/ro-crate-zip-explorer/source"
	"github.com/davelopez/ro-crate-zip-explorer/ziparchive"
)

// openKey is the singleflight.Group key for Open; each Explorer value has
// its own Group, so a constant key is enough to dedupe all concurrent
// first-time opens of that one Explorer.
const openKey = "open"

// EntryMetadata is the enrichment record stored per File entry after
// ExtractMetadata runs.
type EntryMetadata struct {
	// Path is the entry's archive path, matching Entry.Path.
	Path string
	// Entry is the underlying archive entry this metadata describes.
	Entry *ziparchive.Entry
	// Name defaults to the last path segment.
	Name string
	// Size mirrors Entry.UncompressedSize.
	Size uint64
	// ModTime mirrors Entry.ModTime.
	ModTime time.Time
	// Description is empty in the base implementation.
	Description string
}

// MetadataProvider is the pluggable enrichment contract an Explorer
// delegates to. The base Explorer is its own provider, implementing the
// no-op behavior directly; RoCrateExplorer overrides loadMetadata and
// buildEntryMetadata by embedding Explorer and shadowing its methods.
type MetadataProvider interface {
	loadMetadata(ctx context.Context, a *ziparchive.Archive) error
	buildEntryMetadata(e *ziparchive.Entry) EntryMetadata
}

// Explorer owns a Byte Source, lazily opens its ZIP archive index, and
// provides the no-op (base) metadata-enrichment lifecycle described in
// the explorer framework: created -> opened -> enriched.
type Explorer struct {
	src         source.Source
	archiveOpts []ziparchive.Option
	logger      *slog.Logger

	openGroup singleflight.Group
	mu        sync.RWMutex
	archive   *ziparchive.Archive

	metaMu   sync.RWMutex
	metadata map[string]EntryMetadata
}

// New creates an Explorer over src. The archive is not read until Open is
// called.
func New(src source.Source, opts ...Option) *Explorer {
	e := &Explorer{src: src}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WrapArchive creates an Explorer that delegates to an already-opened
// archive rather than opening src itself, implementing the "compose over
// an existing explorer" pattern by reusing the archive handle directly.
func WrapArchive(a *ziparchive.Archive, opts ...Option) *Explorer {
	e := &Explorer{archive: a}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Explorer) log() *slog.Logger {
	if e.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	return e.logger
}

// Open opens the underlying archive, or returns the already-opened handle
// if this Explorer has already been opened. Concurrent first-time calls
// are deduplicated: exactly one archive parse runs, and every caller
// observes the same *ziparchive.Archive.
func (e *Explorer) Open(ctx context.Context) (*ziparchive.Archive, error) {
	if a := e.openedArchive(); a != nil {
		return a, nil
	}

	v, err, _ := e.openGroup.Do(openKey, func() (any, error) {
		if a := e.openedArchive(); a != nil {
			return a, nil
		}
		a, err := ziparchive.Open(ctx, e.src, e.archiveOpts...)
		if err != nil {
			return nil, err
		}
		e.mu.Lock()
		e.archive = a
		e.mu.Unlock()
		e.log().Debug("archive opened", "op", "open", "entries", len(a.Entries()), "size", a.Len(), "zip64", a.IsZip64())
		return a, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*ziparchive.Archive), nil
}

func (e *Explorer) openedArchive() *ziparchive.Archive {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.archive
}

// mustArchive returns the opened archive, or ErrNotOpened if Open has not
// succeeded yet.
func (e *Explorer) mustArchive() (*ziparchive.Archive, error) {
	a := e.openedArchive()
	if a == nil {
		return nil, ErrNotOpened
	}
	return a, nil
}

// Entries returns the archive entry index. Fails ErrNotOpened if Open has
// not succeeded yet.
func (e *Explorer) Entries() ([]ziparchive.Entry, error) {
	a, err := e.mustArchive()
	if err != nil {
		return nil, err
	}
	return a.Entries(), nil
}

// FindFileByName returns the first File entry whose path ends with
// suffix. Fails ErrNotOpened if Open has not succeeded yet.
func (e *Explorer) FindFileByName(suffix string) (*ziparchive.Entry, error) {
	a, err := e.mustArchive()
	if err != nil {
		return nil, err
	}
	entry, ok := a.FindByName(suffix)
	if !ok {
		return nil, fmt.Errorf("%w: no file ending in %q", ErrNotFound, suffix)
	}
	return entry, nil
}

// GetFileContents returns entry's fully decompressed content.
func (e *Explorer) GetFileContents(ctx context.Context, entry *ziparchive.Entry) ([]byte, error) {
	a, err := e.mustArchive()
	if err != nil {
		return nil, err
	}
	return a.Extract(ctx, entry)
}

// GetFileStream returns entry's decompressed content as a pull-based
// stream. Callers must Close the returned reader.
func (e *Explorer) GetFileStream(ctx context.Context, entry *ziparchive.Entry) (io.ReadCloser, error) {
	a, err := e.mustArchive()
	if err != nil {
		return nil, err
	}
	return a.ExtractStream(ctx, entry)
}

// ExtractMetadata runs the two-phase enrichment lifecycle: loadMetadata
// (a no-op in the base Explorer), then buildEntryMetadata for every File
// entry. On success the metadata map is replaced wholesale; on failure
// the previous map (possibly empty, possibly absent) is left untouched,
// so a failed ExtractMetadata never exposes partial state.
func (e *Explorer) ExtractMetadata(ctx context.Context) error {
	return extractMetadata(ctx, e, e)
}

// extractMetadata is shared by Explorer and RoCrateExplorer: it resolves
// the archive, invokes provider's hooks, and commits the resulting map
// onto target.
func extractMetadata(ctx context.Context, target *Explorer, provider MetadataProvider) error {
	a, err := target.mustArchive()
	if err != nil {
		return err
	}

	if err := provider.loadMetadata(ctx, a); err != nil {
		return err
	}

	entries := a.Entries()
	next := make(map[string]EntryMetadata)
	for i := range entries {
		entry := &entries[i]
		if entry.Kind != ziparchive.File {
			continue
		}
		next[entry.Path] = provider.buildEntryMetadata(entry)
	}

	target.metaMu.Lock()
	target.metadata = next
	target.metaMu.Unlock()
	target.log().Debug("metadata extracted", "op", "extract_metadata", "entries", len(next))
	return nil
}

// GetFileEntryMetadata returns the stored metadata for path. Fails
// ErrNotExtracted if ExtractMetadata has not been invoked, or ErrNotFound
// if path is absent from the map.
func (e *Explorer) GetFileEntryMetadata(path string) (EntryMetadata, error) {
	e.metaMu.RLock()
	defer e.metaMu.RUnlock()
	if e.metadata == nil {
		return EntryMetadata{}, ErrNotExtracted
	}
	m, ok := e.metadata[path]
	if !ok {
		return EntryMetadata{}, fmt.Errorf("%w: %q", ErrNotFound, path)
	}
	return m, nil
}

// loadMetadata implements MetadataProvider for the base Explorer: a
// no-op, since the base enrichment has no external metadata source.
func (e *Explorer) loadMetadata(ctx context.Context, a *ziparchive.Archive) error {
	return nil
}

// buildEntryMetadata implements MetadataProvider for the base Explorer:
// name from the last path segment, size and mod time from the entry,
// empty description.
func (e *Explorer) buildEntryMetadata(entry *ziparchive.Entry) EntryMetadata {
	return EntryMetadata{
		Path:    entry.Path,
		Entry:   entry,
		Name:    path.Base(entry.Path),
		Size:    entry.UncompressedSize,
		ModTime: entry.ModTime,
	}
}

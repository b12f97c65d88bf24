package explorer

import (
	"context"
	"fmt"
	"path"
	"sync"

	"github.com/davelopez/ro-crate-zip-explorer/rocrate"
	"github.com/davelopez/ro-crate-zip-explorer/source"
	"github.com/davelopez/ro-crate-zip-explorer/ziparchive"
)

// crateEntryPath is the reserved root-level RO-Crate metadata file name.
// It must sit at the archive root: no leading slash, no subdirectory.
const crateEntryPath = "ro-crate-metadata.json"

// RoCrateExplorer specializes Explorer: after opening, it locates
// ro-crate-metadata.json at the archive root, parses it as an RO-Crate
// graph, and overlays per-entry metadata drawn from graph entities keyed
// by path.
type RoCrateExplorer struct {
	*Explorer

	crateMu sync.RWMutex
	crate   *rocrate.Crate
	loaded  bool
}

// NewRoCrate creates a RoCrateExplorer over src. The archive is not read
// until Open is called.
func NewRoCrate(src source.Source, opts ...Option) *RoCrateExplorer {
	return &RoCrateExplorer{Explorer: New(src, opts...)}
}

// WrapRoCrate creates a RoCrateExplorer that delegates to an
// already-opened archive, implementing the "compose over an existing
// explorer" pattern for the RO-Crate specialization.
func WrapRoCrate(a *ziparchive.Archive, opts ...Option) *RoCrateExplorer {
	return &RoCrateExplorer{Explorer: WrapArchive(a, opts...)}
}

// HasCrate reports whether an entry named exactly "ro-crate-metadata.json"
// exists at the archive root. Fails ErrNotOpened if Open has not
// succeeded yet.
func (r *RoCrateExplorer) HasCrate() (bool, error) {
	a, err := r.mustArchive()
	if err != nil {
		return false, err
	}
	entry, ok := a.Lookup(crateEntryPath)
	return ok && entry.Kind == ziparchive.File, nil
}

// Crate returns an immutable view over the cached RO-Crate graph. It
// fails ErrNoCrate if the metadata has not been loaded (ExtractMetadata
// has not run) or the archive carries no crate file.
func (r *RoCrateExplorer) Crate() (*rocrate.Crate, error) {
	r.crateMu.RLock()
	defer r.crateMu.RUnlock()
	if r.crate == nil {
		return nil, ErrNoCrate
	}
	return r.crate, nil
}

// ExtractMetadata runs the RO-Crate enrichment lifecycle: loadMetadata
// (parsing ro-crate-metadata.json if present), then buildEntryMetadata
// (overlaid with graph name/description) for every File entry.
func (r *RoCrateExplorer) ExtractMetadata(ctx context.Context) error {
	return extractMetadata(ctx, r.Explorer, r)
}

// loadMetadata implements MetadataProvider: it reads the crate entry's
// bytes, UTF-8-decodes them (Go strings and []byte are UTF-8 already; no
// further decoding step is needed beyond the JSON parse itself), parses
// the RO-Crate graph, and caches it. Absence of the crate file is not a
// load-time failure; it leaves the crate unset.
func (r *RoCrateExplorer) loadMetadata(ctx context.Context, a *ziparchive.Archive) error {
	r.crateMu.Lock()
	defer r.crateMu.Unlock()
	r.loaded = true
	r.crate = nil

	entry, ok := a.Lookup(crateEntryPath)
	if !ok || entry.Kind != ziparchive.File {
		return nil
	}

	data, err := a.Extract(ctx, entry)
	if err != nil {
		return fmt.Errorf("loading %s: %w", crateEntryPath, err)
	}

	graph, err := rocrate.Parse(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", crateEntryPath, err)
	}

	r.crate = rocrate.NewCrate(graph)
	r.log().Debug("rocrate loaded", "op", "load_crate", "path", crateEntryPath)
	return nil
}

// buildEntryMetadata implements MetadataProvider: it starts from the base
// record and, when the crate has an entity for the entry's path, overrides
// name/description with the entity's values if they are present as
// strings.
func (r *RoCrateExplorer) buildEntryMetadata(entry *ziparchive.Entry) EntryMetadata {
	base := EntryMetadata{
		Path:    entry.Path,
		Entry:   entry,
		Name:    path.Base(entry.Path),
		Size:    entry.UncompressedSize,
		ModTime: entry.ModTime,
	}

	r.crateMu.RLock()
	crate := r.crate
	r.crateMu.RUnlock()
	if crate == nil {
		return base
	}

	e, ok := crate.Entity(entry.Path)
	if !ok {
		return base
	}
	if name, ok := e.String("name"); ok {
		base.Name = name
	}
	if desc, ok := e.String("description"); ok {
		base.Description = desc
	}
	return base
}

package explorer

import "errors"

// Sentinel errors forming the explorer-level error taxonomy. These
// compose with the errors returned by ziparchive and source, which are
// propagated unchanged through Explorer's delegating methods.
var (
	// ErrNotOpened indicates an operation that requires an opened archive
	// was attempted before Open succeeded.
	ErrNotOpened = errors.New("explorer: not opened")

	// ErrNotExtracted indicates GetFileEntryMetadata was called before
	// ExtractMetadata.
	ErrNotExtracted = errors.New("explorer: metadata not extracted")

	// ErrNotFound indicates a requested entry path or metadata key is
	// absent.
	ErrNotFound = errors.New("explorer: not found")

	// ErrNoCrate indicates a RoCrateExplorer has no RO-Crate metadata
	// descriptor, either because ExtractMetadata has not run yet or because
	// the archive does not carry one.
	ErrNoCrate = errors.New("explorer: no crate")
)

package explorer

import (
	"log/slog"

	"github.com/davelopez/ro-crate-zip-explorer/ziparchive"
)

// Option configures an Explorer.
type Option func(*Explorer)

// WithLogger attaches a logger to the explorer. Without one, log output
// is discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Explorer) {
		e.logger = logger
	}
}

// WithArchiveOptions passes through options to the underlying
// ziparchive.Open call performed by the explorer's first Open.
func WithArchiveOptions(opts ...ziparchive.Option) Option {
	return func(e *Explorer) {
		e.archiveOpts = append(e.archiveOpts, opts...)
	}
}

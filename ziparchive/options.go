package ziparchive

// Option configures Open.
type Option func(*openConfig)

type openConfig struct {
	eocdSearchWindow int64
}

func newOpenConfig() *openConfig {
	return &openConfig{eocdSearchWindow: eocdSearchWindow}
}

// WithEOCDSearchWindow overrides the number of trailing bytes scanned for
// the End-of-Central-Directory signature. The default, 65536, covers
// archive comments of up to 65514 bytes (the window also holds the 22-byte
// EOCD record); callers with archives known to carry larger comments can
// widen it.
func WithEOCDSearchWindow(bytes int64) Option {
	return func(c *openConfig) {
		if bytes > 0 {
			c.eocdSearchWindow = bytes
		}
	}
}

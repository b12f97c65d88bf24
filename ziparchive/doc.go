// Package ziparchive parses ZIP and ZIP64 central directories from a
// [github.com/davelopez/ro-crate-zip-explorer/source.Source] and serves
// per-entry extraction without ever reading the full archive payload.
//
// Opening an archive reads only a trailing window holding the
// End-of-Central-Directory record and the optional ZIP64 locator, and the
// central directory itself; the ZIP64 End-of-Central-Directory record is not
// parsed.
// Extracting a member reads only that member's local file header and
// compressed bytes.
package ziparchive

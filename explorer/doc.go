// Package explorer provides the caller-facing facade over a ZIP archive:
// it owns a Byte Source, lazily opens the archive index, and carries an
// optional metadata-enrichment layer on top of it.
//
// Explorer itself enriches with the no-op base implementation. RoCrateExplorer
// specializes it to locate and parse an RO-Crate metadata graph and overlay
// names/descriptions drawn from it.
package explorer

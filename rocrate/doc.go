// Package rocrate models the JSON-LD graph of an RO-Crate metadata
// document well enough to answer the questions an archive explorer needs
// answered: which entity describes a given file path, and which entity is
// the crate's root dataset.
//
// It is not a general-purpose JSON-LD processor: entities are plain
// key/value bags, and no context expansion, compaction, or framing is
// performed.
package rocrate

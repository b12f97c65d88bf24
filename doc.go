// Package rocratezip opens ZIP and ZIP64 archives — local or served over
// HTTP(S) range requests — and explores their contents without ever
// reading the whole archive into memory. It specializes to RO-Crate
// research-data packages, overlaying per-file names and descriptions
// drawn from the crate's ro-crate-metadata.json graph.
//
//	exp, err := rocratezip.OpenRoCrate(ctx, "https://example.org/dataset.zip")
//	if err != nil {
//		return err
//	}
//	if _, err := exp.Open(ctx); err != nil {
//		return err
//	}
//	entry, err := exp.FindFileByName("ro-crate-metadata.json")
//
// See the source, ziparchive, explorer, and rocrate subpackages for the
// layered implementation: byte sources, the ZIP parser, the metadata
// enrichment framework, and the RO-Crate graph model, respectively.
package rocratezip

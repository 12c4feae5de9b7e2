// Package sqlite implements the local document store on an embedded
// SQLite database. Document, chunk and reading-state writes that must be
// observed together run inside a single transaction; chunks are keyed by
// (doc_id, chunk_index) so content replacement can range-delete the old
// token sequence and insert the new one atomically.
package sqlite

// Package collection persists the comic inventory in SQLite.
//
// The comics table is the single source of truth: one row per file path,
// carrying the parsed filename fields, the Comic Vine identification, and the
// enrichment details. Writers go through a Batch, which commits on a fixed
// cadence so long runs can be interrupted without losing committed work.
// Empty strings are stored as NULL and catalog ids of 0 mean "absent".
package collection

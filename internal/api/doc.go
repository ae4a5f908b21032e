// Package api serves read-only JSON views of the collection over HTTP.
//
// # Key Types
//
// Record: transport representation of a catalogued file with its catalog
// reference and, when enriched, the issue details.
//
// Handler: gin routes for stats, duplicates, gaps, search, not-found files,
// and single-record lookup.
//
// Server: binds the handler to the configured address and shuts down when
// its context ends.
//
// # Converters
//
// FromRecord: collection.Record -> Record with RFC3339 timestamps and
// comma-joined detail lists split into arrays.
//
// # Design Notes
//
// DTOs use camelCase JSON tags for JavaScript/TypeScript consumers. Every
// request reads the database afresh; nothing is cached, so a running scan or
// identify pass is visible at its last commit.
package api

// Package analysis computes read-only reports over the collection: duplicate
// groups, gaps in series runs, substring search, collection statistics and
// the not-found listing.
//
// Every function is pure. Inputs are records in storage order (id ascending)
// and outputs are deterministic for a given input.
package analysis

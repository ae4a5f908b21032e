// Package stage holds the pieces shared by the identify and enrich runs: the
// per-record Handler contract, the sequential commit-every-N run loop, and
// the Health record used by status and health reporting.
package stage

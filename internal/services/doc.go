// Package services defines shared utilities consumed by the pipeline stages
// and the command layer.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, record IDs, and stage names for
//     logging.
//   - Structured error markers plus the Wrap helper, and IsFatal which
//     separates run-aborting failures from per-record ones.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across scan, identify, and enrich.
package services

// Package identification resolves pending collection records against the
// Comic Vine catalog.
//
// Each pending record is searched by its clean title. The first volume whose
// start year equals the record year wins, otherwise the first result. When
// the record carries an issue number, the volume's issue list is matched with
// leading zeros ignored on both sides. Every processed record leaves pending
// for exactly one of identified, not_found, or error; runs commit on a fixed
// cadence and stop between records when interrupted.
package identification

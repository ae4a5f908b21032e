// Package filename derives a clean series title, issue number, and year from
// the raw file names found in comic collections.
//
// Parse is a pure function: it performs no I/O, never fails, and always
// returns the same Result for the same input. The cleanup steps and the issue
// rules run in a fixed order; inputs that look ambiguous (a title with both a
// "#12" and a "v2") resolve according to that order.
package filename

// Package maintenance implements the upkeep operations on a collection:
// re-applying the filename parser, listing suspicious titles, resetting
// failed records, and detecting, repairing or pruning records whose file has
// moved or disappeared.
package maintenance

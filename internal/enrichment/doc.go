// Package enrichment fetches extended issue details for identified records
// and flattens them into the collection's enrichment columns.
package enrichment

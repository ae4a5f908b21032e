// Package config loads, normalizes, and validates comicvault configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the COMICVINE_API_KEY environment
// fallback. The Config type centralizes the database location, catalog
// pacing, and commit cadence so every command resolves them the same way.
//
// Catalog credentials are only demanded by commands that talk to Comic Vine;
// see RequireCatalog.
package config

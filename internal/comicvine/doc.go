// Package comicvine is a small client for the Comic Vine REST API.
//
// Every Client owns one rate limiter, so requests issued through the same
// Client never start closer together than the configured minimum interval.
// Rate-limit responses (HTTP 420) and transport failures are retried with
// exponential backoff up to a fixed number of attempts. When the attempts run
// out, or the API reports a logical failure in its payload, lookups return a
// nil result with a nil error; only unexpected failures such as undecodable
// payloads surface as errors.
package comicvine

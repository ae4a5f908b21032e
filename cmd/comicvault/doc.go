// Command comicvault catalogs a comic collection and resolves it against
// Comic Vine.
//
// A typical session scans a library into the inventory, identifies pending
// records, enriches identified ones, then reports on the result:
//
//	comicvault scan ~/Comics
//	comicvault identify --limit 200
//	comicvault enrich
//	comicvault analyze gaps
//
// Writing commands take a file lock next to the database so only one of them
// runs against a collection at a time. Interrupting identify or enrich with
// Ctrl-C keeps every record processed so far; rerunning resumes.
package main

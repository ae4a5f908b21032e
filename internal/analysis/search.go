package analysis

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"comicvault/internal/collection"
)

const (
	// MaxSearchResults caps a search.
	MaxSearchResults = 50
	// MaxNotFound caps the not-found listing.
	MaxNotFound = 100
)

// Search returns records whose file name, clean title or volume name contains
// query, compared case-insensitively with Unicode case folding. An empty query
// matches nothing.
func Search(records []collection.Record, query string) []collection.Record {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}
	var out []collection.Record
	for _, rec := range records {
		if matches(fold, needle, rec.FileName, rec.CleanTitle, rec.VolumeName) {
			out = append(out, rec)
			if len(out) == MaxSearchResults {
				break
			}
		}
	}
	return out
}

func matches(fold cases.Caser, needle string, fields ...string) bool {
	for _, field := range fields {
		if field != "" && strings.Contains(fold.String(field), needle) {
			return true
		}
	}
	return false
}

// NotFound lists not_found records ordered by clean title, storage order
// breaking ties.
func NotFound(records []collection.Record) []collection.Record {
	var out []collection.Record
	for _, rec := range records {
		if rec.Status == collection.StatusNotFound {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CleanTitle < out[j].CleanTitle
	})
	if len(out) > MaxNotFound {
		out = out[:MaxNotFound]
	}
	return out
}

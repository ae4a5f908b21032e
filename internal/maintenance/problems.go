package maintenance

import (
	"sort"
	"unicode/utf8"

	"comicvault/internal/collection"
)

// ProblemTitles returns records whose clean title is longer than minLength
// runes, longest first, capped at MaxProblemTitles. Such titles usually mean
// the parser kept release noise.
func ProblemTitles(records []collection.Record, minLength int) []collection.Record {
	if minLength <= 0 {
		minLength = DefaultProblemTitleLength
	}
	var out []collection.Record
	for _, rec := range records {
		if utf8.RuneCountInString(rec.CleanTitle) > minLength {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return utf8.RuneCountInString(out[i].CleanTitle) > utf8.RuneCountInString(out[j].CleanTitle)
	})
	if len(out) > MaxProblemTitles {
		out = out[:MaxProblemTitles]
	}
	return out
}

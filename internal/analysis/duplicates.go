package analysis

import (
	"sort"
	"strings"

	"comicvault/internal/collection"
)

// MaxDuplicateGroups caps the duplicate report.
const MaxDuplicateGroups = 50

// DuplicateGroup lists the files sharing one (series, issue) pair.
type DuplicateGroup struct {
	Series string   `json:"series"`
	Issue  string   `json:"issue"`
	Count  int      `json:"count"`
	Files  []string `json:"files"`
	IDs    []int64  `json:"ids"`
}

type duplicateKey struct {
	series string
	issue  string
}

// Duplicates groups records by volume name and issue number, both non-empty,
// and returns the groups holding more than one record. Groups are ordered by
// size descending, then series, then issue; member files keep storage order.
func Duplicates(records []collection.Record) []DuplicateGroup {
	groups := make(map[duplicateKey]*DuplicateGroup)
	var order []duplicateKey
	for _, rec := range records {
		if strings.TrimSpace(rec.VolumeName) == "" || strings.TrimSpace(rec.IssueNumber) == "" {
			continue
		}
		key := duplicateKey{series: rec.VolumeName, issue: rec.IssueNumber}
		group, ok := groups[key]
		if !ok {
			group = &DuplicateGroup{Series: rec.VolumeName, Issue: rec.IssueNumber}
			groups[key] = group
			order = append(order, key)
		}
		group.Count++
		group.Files = append(group.Files, rec.FileName)
		group.IDs = append(group.IDs, rec.ID)
	}

	var out []DuplicateGroup
	for _, key := range order {
		if group := groups[key]; group.Count > 1 {
			out = append(out, *group)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].Series != out[j].Series {
			return out[i].Series < out[j].Series
		}
		return CompareIssues(out[i].Issue, out[j].Issue) < 0
	})
	if len(out) > MaxDuplicateGroups {
		out = out[:MaxDuplicateGroups]
	}
	return out
}

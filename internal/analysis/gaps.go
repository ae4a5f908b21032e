package analysis

import (
	"sort"
	"strconv"
	"strings"

	"comicvault/internal/collection"
)

const (
	// MaxGapSeries is how many of the largest series are inspected for gaps.
	MaxGapSeries = 20
	// MinIssuesForGaps is the smallest series size considered.
	MinIssuesForGaps = 3
)

// Gap is an open interval of missing issue numbers: After and Before are
// owned, everything strictly between them is missing.
type Gap struct {
	After  int `json:"after"`
	Before int `json:"before"`
}

// Missing lists the issue numbers inside the gap.
func (g Gap) Missing() []int {
	var out []int
	for n := g.After + 1; n < g.Before; n++ {
		out = append(out, n)
	}
	return out
}

// MissingCount is the number of issues inside the gap.
func (g Gap) MissingCount() int {
	if g.Before-g.After <= 1 {
		return 0
	}
	return g.Before - g.After - 1
}

// SeriesGaps reports the holes found in one series.
type SeriesGaps struct {
	Series   string `json:"series"`
	VolumeID int64  `json:"volume_id"`
	Records  int    `json:"records"`
	First    int    `json:"first"`
	Last     int    `json:"last"`
	Numeric  int    `json:"numeric_issues"`
	Gaps     []Gap  `json:"gaps"`
}

type seriesKey struct {
	name     string
	volumeID int64
}

type seriesIssues struct {
	key    seriesKey
	issues []string
}

// Gaps inspects the MaxGapSeries largest series keyed by (volume name, volume
// id) with at least MinIssuesForGaps records that carry an issue number.
// Non-numeric issue numbers are skipped. Only series with at least one gap
// are returned, in the inspection order.
func Gaps(records []collection.Record) []SeriesGaps {
	index := make(map[seriesKey]*seriesIssues)
	var all []*seriesIssues
	for _, rec := range records {
		if strings.TrimSpace(rec.VolumeName) == "" || strings.TrimSpace(rec.IssueNumber) == "" || rec.VolumeID <= 0 {
			continue
		}
		key := seriesKey{name: rec.VolumeName, volumeID: rec.VolumeID}
		entry, ok := index[key]
		if !ok {
			entry = &seriesIssues{key: key}
			index[key] = entry
			all = append(all, entry)
		}
		entry.issues = append(entry.issues, rec.IssueNumber)
	}

	var candidates []*seriesIssues
	for _, entry := range all {
		if len(entry.issues) >= MinIssuesForGaps {
			candidates = append(candidates, entry)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if len(a.issues) != len(b.issues) {
			return len(a.issues) > len(b.issues)
		}
		if a.key.name != b.key.name {
			return a.key.name < b.key.name
		}
		return a.key.volumeID < b.key.volumeID
	})
	if len(candidates) > MaxGapSeries {
		candidates = candidates[:MaxGapSeries]
	}

	var out []SeriesGaps
	for _, entry := range candidates {
		numbers := make([]int, 0, len(entry.issues))
		for _, issue := range entry.issues {
			n, err := strconv.Atoi(strings.TrimSpace(issue))
			if err != nil {
				continue
			}
			numbers = append(numbers, n)
		}
		if len(numbers) == 0 {
			continue
		}
		sort.Ints(numbers)
		var gaps []Gap
		for i := 0; i+1 < len(numbers); i++ {
			if numbers[i+1]-numbers[i] > 1 {
				gaps = append(gaps, Gap{After: numbers[i], Before: numbers[i+1]})
			}
		}
		if len(gaps) == 0 {
			continue
		}
		out = append(out, SeriesGaps{
			Series:   entry.key.name,
			VolumeID: entry.key.volumeID,
			Records:  len(entry.issues),
			First:    numbers[0],
			Last:     numbers[len(numbers)-1],
			Numeric:  len(numbers),
			Gaps:     gaps,
		})
	}
	return out
}

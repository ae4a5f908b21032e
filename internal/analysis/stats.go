package analysis

import (
	"sort"

	"comicvault/internal/collection"
)

const (
	topPublishers = 10
	topSeries     = 10
	topYears      = 15
)

// Count is one row of a frequency table.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// StatusCount is the number of records in one status with its share of the
// collection in percent.
type StatusCount struct {
	Status  collection.Status `json:"status"`
	Count   int               `json:"count"`
	Percent float64           `json:"percent"`
}

// Summary aggregates collection statistics.
type Summary struct {
	Total      int           `json:"total"`
	TotalBytes int64         `json:"total_bytes"`
	Enriched   int           `json:"enriched"`
	Statuses   []StatusCount `json:"statuses"`
	Publishers []Count       `json:"publishers"`
	Series     []Count       `json:"series"`
	Years      []Count       `json:"years"`
	Formats    []Count       `json:"formats"`
}

// Summarize computes status counts, the top publishers and series by record
// count, the most recent years, the format breakdown and the total size.
func Summarize(records []collection.Record) Summary {
	summary := Summary{Total: len(records)}
	statuses := make(map[collection.Status]int)
	publishers := make(map[string]int)
	series := make(map[string]int)
	years := make(map[string]int)
	formats := make(map[string]int)

	for _, rec := range records {
		summary.TotalBytes += rec.FileSize
		statuses[rec.Status]++
		if rec.Description != "" {
			summary.Enriched++
		}
		if rec.Publisher != "" {
			publishers[rec.Publisher]++
		}
		if rec.VolumeName != "" {
			series[rec.VolumeName]++
		}
		if rec.Year != "" {
			years[rec.Year]++
		}
		formats[rec.FileExt]++
	}

	for _, status := range collection.AllStatuses() {
		count := statuses[status]
		percent := 0.0
		if summary.Total > 0 {
			percent = float64(count) * 100 / float64(summary.Total)
		}
		summary.Statuses = append(summary.Statuses, StatusCount{Status: status, Count: count, Percent: percent})
	}
	summary.Publishers = topByCount(publishers, topPublishers)
	summary.Series = topByCount(series, topSeries)
	summary.Formats = topByCount(formats, 0)

	summary.Years = toCounts(years)
	sort.Slice(summary.Years, func(i, j int) bool {
		return summary.Years[i].Name > summary.Years[j].Name
	})
	if len(summary.Years) > topYears {
		summary.Years = summary.Years[:topYears]
	}
	return summary
}

func toCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for name, count := range m {
		out = append(out, Count{Name: name, Count: count})
	}
	return out
}

// topByCount orders by count descending then name, keeping limit rows when
// limit > 0.
func topByCount(m map[string]int, limit int) []Count {
	out := toCounts(m)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

package api

import (
	"strings"

	"comicvault/internal/analysis"
	"comicvault/internal/collection"
)

// FromRecord converts a collection record to its API representation.
func FromRecord(rec collection.Record) Record {
	dto := Record{
		ID:           rec.ID,
		FilePath:     rec.FilePath,
		FileName:     rec.FileName,
		FileSize:     rec.FileSize,
		Format:       strings.TrimPrefix(rec.FileExt, "."),
		CleanTitle:   rec.CleanTitle,
		IssueNumber:  rec.IssueNumber,
		Year:         rec.Year,
		Status:       string(rec.Status),
		ErrorMessage: rec.ErrorMessage,
	}
	if rec.VolumeID > 0 {
		dto.Catalog = &Catalog{
			VolumeID:   rec.VolumeID,
			IssueID:    rec.IssueID,
			VolumeName: rec.VolumeName,
			Publisher:  rec.Publisher,
		}
	}
	if rec.Details != (collection.Details{}) {
		d := fromDetails(rec.Details)
		dto.Details = &d
	}
	if !rec.CreatedAt.IsZero() {
		dto.CreatedAt = rec.CreatedAt.UTC().Format(dateTimeFormat)
	}
	if !rec.UpdatedAt.IsZero() {
		dto.UpdatedAt = rec.UpdatedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromRecords converts a slice of records, never returning nil.
func FromRecords(records []collection.Record) []Record {
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		out = append(out, FromRecord(rec))
	}
	return out
}

func fromDetails(d collection.Details) Details {
	return Details{
		Description:   d.Description,
		CoverDate:     d.CoverDate,
		StoreDate:     d.StoreDate,
		Writers:       splitList(d.Writers),
		Pencilers:     splitList(d.Pencilers),
		Inkers:        splitList(d.Inkers),
		Colorists:     splitList(d.Colorists),
		Letterers:     splitList(d.Letterers),
		Editors:       splitList(d.Editors),
		CoverArtists:  splitList(d.CoverArtists),
		Characters:    splitList(d.Characters),
		Teams:         splitList(d.Teams),
		Locations:     splitList(d.Locations),
		StoryArcs:     splitList(d.StoryArcs),
		CoverURL:      d.CoverURL,
		SiteDetailURL: d.SiteDetailURL,
	}
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// FromSummary converts collection statistics.
func FromSummary(s analysis.Summary) StatsResponse {
	statuses := make([]StatusCount, 0, len(s.Statuses))
	for _, sc := range s.Statuses {
		statuses = append(statuses, StatusCount{Status: string(sc.Status), Count: sc.Count, Percent: sc.Percent})
	}
	return StatsResponse{
		Total:      s.Total,
		TotalBytes: s.TotalBytes,
		Enriched:   s.Enriched,
		Statuses:   statuses,
		Publishers: fromCounts(s.Publishers),
		Series:     fromCounts(s.Series),
		Years:      fromCounts(s.Years),
		Formats:    fromCounts(s.Formats),
	}
}

func fromCounts(counts []analysis.Count) []Count {
	out := make([]Count, 0, len(counts))
	for _, c := range counts {
		out = append(out, Count{Name: c.Name, Count: c.Count})
	}
	return out
}

// FromDuplicates converts the duplicate report.
func FromDuplicates(groups []analysis.DuplicateGroup) DuplicatesResponse {
	out := make([]DuplicateGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, DuplicateGroup{Series: g.Series, Issue: g.Issue, Count: g.Count, Files: g.Files, IDs: g.IDs})
	}
	return DuplicatesResponse{Groups: out}
}

// FromGaps converts the gap report.
func FromGaps(series []analysis.SeriesGaps) GapsResponse {
	out := make([]SeriesGaps, 0, len(series))
	for _, s := range series {
		gaps := make([]Gap, 0, len(s.Gaps))
		for _, g := range s.Gaps {
			gaps = append(gaps, Gap{After: g.After, Before: g.Before, Missing: g.Missing()})
		}
		out = append(out, SeriesGaps{
			Series:   s.Series,
			VolumeID: s.VolumeID,
			Records:  s.Records,
			First:    s.First,
			Last:     s.Last,
			Gaps:     gaps,
		})
	}
	return GapsResponse{Series: out}
}

// FromDatabaseHealth converts a database health report.
func FromDatabaseHealth(h collection.DatabaseHealth) DatabaseHealth {
	return DatabaseHealth{
		Path:           h.DBPath,
		Exists:         h.DatabaseExists,
		Readable:       h.DatabaseReadable,
		SchemaVersion:  h.SchemaVersion,
		MissingColumns: h.MissingColumns,
		TotalRecords:   h.TotalRecords,
		IntegrityCheck: h.IntegrityCheck,
		Error:          h.Error,
	}
}

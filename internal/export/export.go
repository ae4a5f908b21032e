// Package export writes the collection as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"comicvault/internal/analysis"
	"comicvault/internal/collection"
)

// DefaultFileName is used when no output path is given.
const DefaultFileName = "comics_identified.csv"

// Header lists the exported columns in order.
var Header = []string{
	"file_path",
	"file_name",
	"clean_title",
	"issue_number",
	"year",
	"volume_name",
	"publisher",
	"comicvine_volume_id",
	"comicvine_issue_id",
	"status",
	"cover_date",
	"writers",
	"pencilers",
	"characters",
	"story_arcs",
	"site_detail_url",
}

// Sort orders records by volume name, then issue number, then id. Records
// without a volume name come first.
func Sort(records []collection.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.VolumeName != b.VolumeName {
			return a.VolumeName < b.VolumeName
		}
		if c := analysis.CompareIssues(a.IssueNumber, b.IssueNumber); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
}

// Write emits the header and one row per record in export order. The input
// slice is not modified. It returns the number of data rows written.
func Write(w io.Writer, records []collection.Record) (int, error) {
	ordered := append([]collection.Record(nil), records...)
	Sort(ordered)

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return 0, err
	}
	for _, rec := range ordered {
		if err := cw.Write(row(rec)); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}
	return len(ordered), nil
}

// WriteFile writes the export to path, creating parent directories.
func WriteFile(path string, records []collection.Record) (int, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("create export directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create export: %w", err)
	}
	n, err := Write(f, records)
	if err != nil {
		_ = f.Close()
		return 0, fmt.Errorf("write export: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close export: %w", err)
	}
	return n, nil
}

func row(rec collection.Record) []string {
	return []string{
		rec.FilePath,
		rec.FileName,
		rec.CleanTitle,
		rec.IssueNumber,
		rec.Year,
		rec.VolumeName,
		rec.Publisher,
		formatID(rec.VolumeID),
		formatID(rec.IssueID),
		string(rec.Status),
		rec.CoverDate,
		rec.Writers,
		rec.Pencilers,
		rec.Characters,
		rec.StoryArcs,
		rec.SiteDetailURL,
	}
}

func formatID(id int64) string {
	if id <= 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

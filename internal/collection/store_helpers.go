package collection

import (
	"database/sql"
	"errors"
	"time"
)

const recordColumns = "id, file_path, file_name, file_size, file_ext, clean_title, issue_number, year, comicvine_volume_id, comicvine_issue_id, volume_name, publisher, status, error_message, created_at, updated_at, description, cover_date, store_date, writers, pencilers, inkers, colorists, letterers, editors, cover_artists, characters, teams, locations, story_arcs, cover_url, site_detail_url"

func scanRecord(scanner interface{ Scan(dest ...any) error }) (Record, error) {
	var (
		rec          Record
		fileName     sql.NullString
		fileSize     sql.NullInt64
		fileExt      sql.NullString
		cleanTitle   sql.NullString
		issueNumber  sql.NullString
		year         sql.NullString
		volumeID     sql.NullInt64
		issueID      sql.NullInt64
		volumeName   sql.NullString
		publisher    sql.NullString
		status       sql.NullString
		errorMessage sql.NullString
		createdRaw   sql.NullString
		updatedRaw   sql.NullString
		details      [16]sql.NullString
	)
	dest := []any{
		&rec.ID,
		&rec.FilePath,
		&fileName,
		&fileSize,
		&fileExt,
		&cleanTitle,
		&issueNumber,
		&year,
		&volumeID,
		&issueID,
		&volumeName,
		&publisher,
		&status,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
	}
	for i := range details {
		dest = append(dest, &details[i])
	}
	if err := scanner.Scan(dest...); err != nil {
		return Record{}, err
	}

	rec.FileName = fileName.String
	rec.FileSize = fileSize.Int64
	rec.FileExt = fileExt.String
	rec.CleanTitle = cleanTitle.String
	rec.IssueNumber = issueNumber.String
	rec.Year = year.String
	rec.VolumeID = volumeID.Int64
	rec.IssueID = issueID.Int64
	rec.VolumeName = volumeName.String
	rec.Publisher = publisher.String
	rec.Status = Status(status.String)
	if rec.Status == "" {
		rec.Status = StatusPending
	}
	rec.ErrorMessage = errorMessage.String
	if created, err := parseTimeString(createdRaw.String); err == nil {
		rec.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		rec.UpdatedAt = updated
	}
	rec.Details = Details{
		Description:   details[0].String,
		CoverDate:     details[1].String,
		StoreDate:     details[2].String,
		Writers:       details[3].String,
		Pencilers:     details[4].String,
		Inkers:        details[5].String,
		Colorists:     details[6].String,
		Letterers:     details[7].String,
		Editors:       details[8].String,
		CoverArtists:  details[9].String,
		Characters:    details[10].String,
		Teams:         details[11].String,
		Locations:     details[12].String,
		StoryArcs:     details[13].String,
		CoverURL:      details[14].String,
		SiteDetailURL: details[15].String,
	}
	return rec, nil
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	defer rows.Close()
	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableID(value int64) any {
	if value <= 0 {
		return nil
	}
	return value
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05.999999", value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}

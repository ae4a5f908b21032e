package collection

import "time"

// Status is the lifecycle state of a record.
type Status string

const (
	StatusPending    Status = "pending"
	StatusIdentified Status = "identified"
	StatusNotFound   Status = "not_found"
	StatusError      Status = "error"
)

// NotFoundMessage is recorded when the catalog has no volume for a title.
const NotFoundMessage = "Volume not found"

// AllStatuses lists every status in lifecycle order.
func AllStatuses() []Status {
	return []Status{StatusPending, StatusIdentified, StatusNotFound, StatusError}
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusIdentified, StatusNotFound, StatusError:
		return true
	default:
		return false
	}
}

// Failed reports whether the record ended in not_found or error.
func (s Status) Failed() bool {
	return s == StatusNotFound || s == StatusError
}

// Details holds the extended issue information written by enrichment.
// Multi-valued fields are comma-joined lists.
type Details struct {
	Description   string `json:"description,omitempty"`
	CoverDate     string `json:"cover_date,omitempty"`
	StoreDate     string `json:"store_date,omitempty"`
	Writers       string `json:"writers,omitempty"`
	Pencilers     string `json:"pencilers,omitempty"`
	Inkers        string `json:"inkers,omitempty"`
	Colorists     string `json:"colorists,omitempty"`
	Letterers     string `json:"letterers,omitempty"`
	Editors       string `json:"editors,omitempty"`
	CoverArtists  string `json:"cover_artists,omitempty"`
	Characters    string `json:"characters,omitempty"`
	Teams         string `json:"teams,omitempty"`
	Locations     string `json:"locations,omitempty"`
	StoryArcs     string `json:"story_arcs,omitempty"`
	CoverURL      string `json:"cover_url,omitempty"`
	SiteDetailURL string `json:"site_detail_url,omitempty"`
}

// Record is one catalogued comic file.
type Record struct {
	ID           int64     `json:"id"`
	FilePath     string    `json:"file_path"`
	FileName     string    `json:"file_name"`
	FileSize     int64     `json:"file_size"`
	FileExt      string    `json:"file_ext"`
	CleanTitle   string    `json:"clean_title"`
	IssueNumber  string    `json:"issue_number,omitempty"`
	Year         string    `json:"year,omitempty"`
	VolumeID     int64     `json:"comicvine_volume_id,omitempty"`
	IssueID      int64     `json:"comicvine_issue_id,omitempty"`
	VolumeName   string    `json:"volume_name,omitempty"`
	Publisher    string    `json:"publisher,omitempty"`
	Status       Status    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Details
}

// Identification is the catalog reference attached to an identified record.
type Identification struct {
	VolumeID   int64
	IssueID    int64
	VolumeName string
	Publisher  string
}

// Derived holds the fields recomputed from the file name.
type Derived struct {
	CleanTitle  string
	IssueNumber string
	Year        string
}

// DatabaseHealth describes the collection database for diagnostics.
type DatabaseHealth struct {
	DBPath           string   `json:"db_path"`
	DatabaseExists   bool     `json:"database_exists"`
	DatabaseReadable bool     `json:"database_readable"`
	SchemaVersion    int      `json:"schema_version"`
	MissingColumns   []string `json:"missing_columns,omitempty"`
	TotalRecords     int      `json:"total_records"`
	IntegrityCheck   bool     `json:"integrity_check"`
	Error            string   `json:"error,omitempty"`
}

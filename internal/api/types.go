package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Record describes a catalogued comic in a transport-friendly format.
type Record struct {
	ID           int64    `json:"id"`
	FilePath     string   `json:"filePath"`
	FileName     string   `json:"fileName"`
	FileSize     int64    `json:"fileSize"`
	Format       string   `json:"format"`
	CleanTitle   string   `json:"cleanTitle"`
	IssueNumber  string   `json:"issueNumber,omitempty"`
	Year         string   `json:"year,omitempty"`
	Status       string   `json:"status"`
	ErrorMessage string   `json:"errorMessage,omitempty"`
	Catalog      *Catalog `json:"catalog,omitempty"`
	Details      *Details `json:"details,omitempty"`
	CreatedAt    string   `json:"createdAt,omitempty"`
	UpdatedAt    string   `json:"updatedAt,omitempty"`
}

// Catalog is the Comic Vine reference of an identified record.
type Catalog struct {
	VolumeID   int64  `json:"volumeId"`
	IssueID    int64  `json:"issueId,omitempty"`
	VolumeName string `json:"volumeName"`
	Publisher  string `json:"publisher,omitempty"`
}

// Details carries enrichment output.
type Details struct {
	Description   string   `json:"description,omitempty"`
	CoverDate     string   `json:"coverDate,omitempty"`
	StoreDate     string   `json:"storeDate,omitempty"`
	Writers       []string `json:"writers,omitempty"`
	Pencilers     []string `json:"pencilers,omitempty"`
	Inkers        []string `json:"inkers,omitempty"`
	Colorists     []string `json:"colorists,omitempty"`
	Letterers     []string `json:"letterers,omitempty"`
	Editors       []string `json:"editors,omitempty"`
	CoverArtists  []string `json:"coverArtists,omitempty"`
	Characters    []string `json:"characters,omitempty"`
	Teams         []string `json:"teams,omitempty"`
	Locations     []string `json:"locations,omitempty"`
	StoryArcs     []string `json:"storyArcs,omitempty"`
	CoverURL      string   `json:"coverUrl,omitempty"`
	SiteDetailURL string   `json:"siteDetailUrl,omitempty"`
}

// RecordListResponse wraps a collection of records.
type RecordListResponse struct {
	Total int      `json:"total"`
	Items []Record `json:"items"`
}

// RecordResponse wraps a single record.
type RecordResponse struct {
	Item Record `json:"item"`
}

// Count is one row of a frequency table.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// StatusCount is one status with its share of the collection.
type StatusCount struct {
	Status  string  `json:"status"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// StatsResponse summarizes the collection.
type StatsResponse struct {
	Total      int           `json:"total"`
	TotalBytes int64         `json:"totalBytes"`
	Enriched   int           `json:"enriched"`
	Statuses   []StatusCount `json:"statuses"`
	Publishers []Count       `json:"publishers"`
	Series     []Count       `json:"series"`
	Years      []Count       `json:"years"`
	Formats    []Count       `json:"formats"`
}

// DuplicateGroup lists files sharing one series and issue.
type DuplicateGroup struct {
	Series string   `json:"series"`
	Issue  string   `json:"issue"`
	Count  int      `json:"count"`
	Files  []string `json:"files"`
	IDs    []int64  `json:"ids"`
}

// DuplicatesResponse wraps the duplicate report.
type DuplicatesResponse struct {
	Groups []DuplicateGroup `json:"groups"`
}

// Gap is a run of missing issues between two owned ones.
type Gap struct {
	After   int   `json:"after"`
	Before  int   `json:"before"`
	Missing []int `json:"missing"`
}

// SeriesGaps reports the holes in one series.
type SeriesGaps struct {
	Series   string `json:"series"`
	VolumeID int64  `json:"volumeId"`
	Records  int    `json:"records"`
	First    int    `json:"first"`
	Last     int    `json:"last"`
	Gaps     []Gap  `json:"gaps"`
}

// GapsResponse wraps the gap report.
type GapsResponse struct {
	Series []SeriesGaps `json:"series"`
}

// HealthResponse reports database and catalog readiness.
type HealthResponse struct {
	Status   string         `json:"status"`
	Database DatabaseHealth `json:"database"`
}

// DatabaseHealth mirrors collection.DatabaseHealth.
type DatabaseHealth struct {
	Path           string   `json:"path"`
	Exists         bool     `json:"exists"`
	Readable       bool     `json:"readable"`
	SchemaVersion  int      `json:"schemaVersion"`
	MissingColumns []string `json:"missingColumns,omitempty"`
	TotalRecords   int      `json:"totalRecords"`
	IntegrityCheck bool     `json:"integrityCheck"`
	Error          string   `json:"error,omitempty"`
}

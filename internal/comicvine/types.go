package comicvine

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// statusOK is the payload-level status_code Comic Vine uses for success.
const statusOK = 1

type envelope struct {
	Error        string          `json:"error"`
	StatusCode   int             `json:"status_code"`
	TotalResults int             `json:"number_of_total_results"`
	Results      json.RawMessage `json:"results"`
}

// FlexString decodes JSON fields that Comic Vine sends either as strings or
// as numbers (start_year, issue_number). null decodes to "".
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// String returns the raw text.
func (f FlexString) String() string { return string(f) }

// Publisher identifies the company publishing a volume.
type Publisher struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Volume is a comic series as returned by the search endpoint.
type Volume struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	StartYear     FlexString `json:"start_year"`
	CountOfIssues int        `json:"count_of_issues"`
	Publisher     *Publisher `json:"publisher"`
	SiteDetailURL string     `json:"site_detail_url"`
}

// PublisherName returns the publisher name or "" when Comic Vine has none.
func (v Volume) PublisherName() string {
	if v.Publisher == nil {
		return ""
	}
	return strings.TrimSpace(v.Publisher.Name)
}

// VolumeRef is the abbreviated volume embedded in issue payloads.
type VolumeRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Issue is one entry of a volume's issue list.
type Issue struct {
	ID          int64      `json:"id"`
	IssueNumber FlexString `json:"issue_number"`
	Name        string     `json:"name"`
	Volume      *VolumeRef `json:"volume"`
}

// Credit names a character, team, location, or story arc.
type Credit struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// PersonCredit names a creator and the free-text roles they filled, for
// example "writer, penciler".
type PersonCredit struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Image holds the cover art URLs in the sizes Comic Vine publishes.
type Image struct {
	IconURL     string `json:"icon_url"`
	SmallURL    string `json:"small_url"`
	MediumURL   string `json:"medium_url"`
	OriginalURL string `json:"original_url"`
}

// IssueDetail is the extended record for a single issue.
type IssueDetail struct {
	ID               int64          `json:"id"`
	Name             string         `json:"name"`
	Description      string         `json:"description"`
	CoverDate        string         `json:"cover_date"`
	StoreDate        string         `json:"store_date"`
	PersonCredits    []PersonCredit `json:"person_credits"`
	CharacterCredits []Credit       `json:"character_credits"`
	TeamCredits      []Credit       `json:"team_credits"`
	LocationCredits  []Credit       `json:"location_credits"`
	StoryArcCredits  []Credit       `json:"story_arc_credits"`
	Image            *Image         `json:"image"`
	SiteDetailURL    string         `json:"site_detail_url"`
}

// CoverURL prefers the medium cover and falls back to the small one.
func (d IssueDetail) CoverURL() string {
	if d.Image == nil {
		return ""
	}
	if d.Image.MediumURL != "" {
		return d.Image.MediumURL
	}
	return d.Image.SmallURL
}

func issueResource(issueID int64) string {
	return "issue/4000-" + strconv.FormatInt(issueID, 10)
}

package identification

import (
	"context"
	"strings"

	"comicvault/internal/collection"
	"comicvault/internal/comicvine"
	"comicvault/internal/filename"
)

// Outcome is the terminal state chosen for one record.
type Outcome struct {
	Status         collection.Status
	Identification collection.Identification
	Message        string
}

// IssueMatched reports whether the outcome carries an issue id.
func (o Outcome) IssueMatched() bool {
	return o.Status == collection.StatusIdentified && o.Identification.IssueID > 0
}

// Resolve looks a record up in the catalog. It never returns pending.
func (i *Identifier) Resolve(ctx context.Context, rec collection.Record) Outcome {
	title := strings.TrimSpace(rec.CleanTitle)
	if title == "" {
		return Outcome{Status: collection.StatusNotFound, Message: collection.NotFoundMessage}
	}

	volumes, err := i.catalog.SearchVolumes(ctx, title)
	if err != nil {
		return Outcome{Status: collection.StatusError, Message: err.Error()}
	}
	if len(volumes) == 0 {
		return Outcome{Status: collection.StatusNotFound, Message: collection.NotFoundMessage}
	}

	volume := selectVolume(volumes, rec.Year)
	ident := collection.Identification{
		VolumeID:   volume.ID,
		VolumeName: volume.Name,
		Publisher:  volume.PublisherName(),
	}

	if issue := strings.TrimSpace(rec.IssueNumber); issue != "" {
		issues, err := i.catalog.VolumeIssues(ctx, volume.ID)
		if err != nil {
			return Outcome{Status: collection.StatusError, Message: err.Error()}
		}
		ident.IssueID = matchIssue(issues, issue)
	}
	return Outcome{Status: collection.StatusIdentified, Identification: ident}
}

// selectVolume prefers the first volume starting in year and falls back to
// the first result.
func selectVolume(volumes []comicvine.Volume, year string) comicvine.Volume {
	if year != "" {
		for _, volume := range volumes {
			if volume.StartYear.String() == year {
				return volume
			}
		}
	}
	return volumes[0]
}

// matchIssue returns the id of the first issue whose number equals want once
// leading zeros are stripped from both, or 0. A blank catalog number counts
// as issue 0.
func matchIssue(issues []comicvine.Issue, want string) int64 {
	want = comparableIssue(want)
	for _, issue := range issues {
		if comparableIssue(issue.IssueNumber.String()) == want {
			return issue.ID
		}
	}
	return 0
}

func comparableIssue(number string) string {
	if normalized := filename.NormalizeIssue(number); normalized != "" {
		return normalized
	}
	return "0"
}

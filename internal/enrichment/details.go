package enrichment

import (
	"strings"

	"comicvault/internal/collection"
	"comicvault/internal/comicvine"
)

const (
	maxCharacters = 10
	maxLocations  = 5
	listSeparator = ", "
)

// roleBucket maps a lower-cased role substring to the credit list it feeds.
// A person lands in every bucket whose needle occurs in their role text.
type roleBucket struct {
	needles []string
	target  func(*credits) *[]string
}

type credits struct {
	writers, pencilers, inkers, colorists, letterers, editors, coverArtists []string
}

var roleBuckets = []roleBucket{
	{needles: []string{"writer"}, target: func(c *credits) *[]string { return &c.writers }},
	{needles: []string{"pencil", "artist"}, target: func(c *credits) *[]string { return &c.pencilers }},
	{needles: []string{"ink"}, target: func(c *credits) *[]string { return &c.inkers }},
	{needles: []string{"color"}, target: func(c *credits) *[]string { return &c.colorists }},
	{needles: []string{"letter"}, target: func(c *credits) *[]string { return &c.letterers }},
	{needles: []string{"editor"}, target: func(c *credits) *[]string { return &c.editors }},
	{needles: []string{"cover"}, target: func(c *credits) *[]string { return &c.coverArtists }},
}

// BuildDetails flattens an issue payload into collection details.
func BuildDetails(issue comicvine.IssueDetail) collection.Details {
	var c credits
	for _, person := range issue.PersonCredits {
		name := strings.TrimSpace(person.Name)
		if name == "" {
			continue
		}
		role := strings.ToLower(person.Role)
		for _, bucket := range roleBuckets {
			if containsAny(role, bucket.needles) {
				list := bucket.target(&c)
				*list = append(*list, name)
			}
		}
	}

	return collection.Details{
		Description:   issue.Description,
		CoverDate:     issue.CoverDate,
		StoreDate:     issue.StoreDate,
		Writers:       join(c.writers, 0),
		Pencilers:     join(c.pencilers, 0),
		Inkers:        join(c.inkers, 0),
		Colorists:     join(c.colorists, 0),
		Letterers:     join(c.letterers, 0),
		Editors:       join(c.editors, 0),
		CoverArtists:  join(c.coverArtists, 0),
		Characters:    join(names(issue.CharacterCredits), maxCharacters),
		Teams:         join(names(issue.TeamCredits), 0),
		Locations:     join(names(issue.LocationCredits), maxLocations),
		StoryArcs:     join(names(issue.StoryArcCredits), 0),
		CoverURL:      issue.CoverURL(),
		SiteDetailURL: issue.SiteDetailURL,
	}
}

func containsAny(s string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}

func names(list []comicvine.Credit) []string {
	out := make([]string, 0, len(list))
	for _, credit := range list {
		if name := strings.TrimSpace(credit.Name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// join concatenates values, keeping at most limit entries when limit > 0.
func join(values []string, limit int) string {
	if limit > 0 && len(values) > limit {
		values = values[:limit]
	}
	return strings.Join(values, listSeparator)
}

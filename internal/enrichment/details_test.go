package enrichment

import (
	"fmt"
	"strings"
	"testing"

	"comicvault/internal/comicvine"
)

func TestBuildDetailsClassifiesRolesIntoEveryMatchingBucket(t *testing.T) {
	issue := comicvine.IssueDetail{
		Description: "<p>Gotham</p>",
		CoverDate:   "2016-08-01",
		PersonCredits: []comicvine.PersonCredit{
			{Name: "Tom King", Role: "Writer"},
			{Name: "David Finch", Role: "penciler, cover"},
			{Name: "Matt Banning", Role: "inker"},
			{Name: "Jordie Bellaire", Role: "colorist"},
			{Name: "John Workman", Role: "letterer"},
			{Name: "Mark Doyle", Role: "editor"},
			{Name: "Mikel Janin", Role: "artist"},
			{Name: "", Role: "writer"},
		},
		Image: &comicvine.Image{MediumURL: "medium.jpg", SmallURL: "small.jpg"},
	}

	d := BuildDetails(issue)
	checks := map[string][2]string{
		"writers":       {d.Writers, "Tom King"},
		"pencilers":     {d.Pencilers, "David Finch, Mikel Janin"},
		"inkers":        {d.Inkers, "Matt Banning"},
		"colorists":     {d.Colorists, "Jordie Bellaire"},
		"letterers":     {d.Letterers, "John Workman"},
		"editors":       {d.Editors, "Mark Doyle"},
		"cover_artists": {d.CoverArtists, "David Finch"},
		"cover_url":     {d.CoverURL, "medium.jpg"},
		"description":   {d.Description, "<p>Gotham</p>"},
	}
	for field, pair := range checks {
		if pair[0] != pair[1] {
			t.Errorf("%s = %q, want %q", field, pair[0], pair[1])
		}
	}
}

func TestBuildDetailsTruncatesCharactersAndLocations(t *testing.T) {
	var characters, locations, teams []comicvine.Credit
	for i := 1; i <= 12; i++ {
		characters = append(characters, comicvine.Credit{Name: fmt.Sprintf("C%d", i)})
		locations = append(locations, comicvine.Credit{Name: fmt.Sprintf("L%d", i)})
		teams = append(teams, comicvine.Credit{Name: fmt.Sprintf("T%d", i)})
	}
	d := BuildDetails(comicvine.IssueDetail{
		CharacterCredits: characters,
		LocationCredits:  locations,
		TeamCredits:      teams,
		Image:            &comicvine.Image{SmallURL: "small.jpg"},
	})
	if got := len(strings.Split(d.Characters, ", ")); got != 10 {
		t.Fatalf("expected 10 characters, got %d (%s)", got, d.Characters)
	}
	if d.Locations != "L1, L2, L3, L4, L5" {
		t.Fatalf("unexpected locations: %s", d.Locations)
	}
	if got := len(strings.Split(d.Teams, ", ")); got != 12 {
		t.Fatalf("expected teams to be unbounded, got %d", got)
	}
	if d.CoverURL != "small.jpg" {
		t.Fatalf("expected small cover fallback, got %q", d.CoverURL)
	}
	if d.Writers != "" {
		t.Fatalf("expected no writers, got %q", d.Writers)
	}
}

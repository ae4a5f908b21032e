package filename_test

import (
	"strings"
	"testing"

	"comicvault/internal/filename"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  filename.Result
	}{
		{
			name:  "year inside group with scan tags",
			input: "Batman (2016) 001 (digital) (Son of Ultron-Empire).cbr",
			want:  filename.Result{Title: "Batman", Issue: "1", Year: "2016"},
		},
		{
			name:  "hash beats volume",
			input: "Saga #12 v2.cbz",
			want:  filename.Result{Title: "Saga v2", Issue: "12"},
		},
		{
			name:  "hash beats volume when volume comes first",
			input: "Saga v2 #12.cbz",
			want:  filename.Result{Title: "Saga v2", Issue: "12"},
		},
		{
			name:  "n of m",
			input: "The Amazing Spider-Man 3 of 6 (2015).cbz",
			want:  filename.Result{Title: "The Amazing Spider-Man", Issue: "3", Year: "2015"},
		},
		{
			name:  "portuguese n de m",
			input: "Turma da Monica 2 de 4.cbr",
			want:  filename.Result{Title: "Turma da Monica", Issue: "2"},
		},
		{
			name:  "bare year in text is removed everywhere",
			input: "Detective Comics 1939 027.cbr",
			want:  filename.Result{Title: "Detective Comics", Issue: "27", Year: "1939"},
		},
		{
			name:  "underscores and dots become spaces",
			input: "Spawn_300.HD.(2019).cbr",
			want:  filename.Result{Title: "Spawn", Issue: "300", Year: "2019"},
		},
		{
			name:  "loose scan tags",
			input: "Invincible 050 Digital HD.cbz",
			want:  filename.Result{Title: "Invincible", Issue: "50"},
		},
		{
			name:  "trailing noise word and number",
			input: "Saga 054 Chapter 2.cbz",
			want:  filename.Result{Title: "Saga", Issue: "54"},
		},
		{
			name:  "stray hyphen",
			input: "Hulk - 012.cbr",
			want:  filename.Result{Title: "Hulk", Issue: "12"},
		},
		{
			name:  "all zero issue",
			input: "Zero Hour 000.cbz",
			want:  filename.Result{Title: "Zero Hour", Issue: "0"},
		},
		{
			name:  "volume form",
			input: "Sandman Vol. 4.pdf",
			want:  filename.Result{Title: "Sandman", Issue: "4"},
		},
		{
			name:  "no digits",
			input: "Watchmen.cbz",
			want:  filename.Result{Title: "Watchmen"},
		},
		{
			name:  "empty",
			input: "",
			want:  filename.Result{},
		},
		{
			name:  "only punctuation",
			input: "...",
			want:  filename.Result{},
		},
		{
			name:  "long capitalized title is shortened",
			input: "Absolutely Fantastic Adventures Of The Incredible Team and friends forever 005.cbz",
			want:  filename.Result{Title: "Absolutely Fantastic Adventures Of The Incredible", Issue: "5"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := filename.Parse(tc.input)
			if got != tc.want {
				t.Fatalf("Parse(%q) = %#v, want %#v", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseKeepsLongTitleWithoutQualifyingWords(t *testing.T) {
	input := "lowercase words that keep going and going well past the limit.cbz"
	got := filename.Parse(input)
	want := "lowercase words that keep going and going well past the limit"
	if got.Title != want {
		t.Fatalf("expected untruncated title, got %q", got.Title)
	}
}

func TestParseIsDeterministic(t *testing.T) {
	inputs := []string{
		"Batman (2016) 001 (digital) (Son of Ultron-Empire).cbr",
		"[Group] Something #7 (of 12) v3 2001.cbz",
		"   ",
		"#",
		"v",
		strings.Repeat("A ", 60),
		"ÉLÉPHANT Ñandú 12.cbz",
	}
	for _, input := range inputs {
		first := filename.Parse(input)
		for i := 0; i < 3; i++ {
			if again := filename.Parse(input); again != first {
				t.Fatalf("Parse(%q) not deterministic: %#v vs %#v", input, first, again)
			}
		}
	}
}

func TestExtension(t *testing.T) {
	cases := map[string]string{
		"Batman 001.CBZ": ".cbz",
		"archive.tar.cb7": ".cb7",
		".cbz":            "",
		"noext":           "",
		"file.":           "",
		"":                "",
	}
	for input, want := range cases {
		if got := filename.Extension(input); got != want {
			t.Fatalf("Extension(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalizeIssue(t *testing.T) {
	cases := map[string]string{
		"001": "1",
		"000": "0",
		"10":  "10",
		"":    "",
		" 07": "7",
	}
	for input, want := range cases {
		if got := filename.NormalizeIssue(input); got != want {
			t.Fatalf("NormalizeIssue(%q) = %q, want %q", input, got, want)
		}
	}
}

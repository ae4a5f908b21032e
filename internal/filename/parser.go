package filename

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Result is the metadata recovered from a file name.
type Result struct {
	Title string `json:"title"`
	Issue string `json:"issue_number"`
	Year  string `json:"year"`
}

const (
	maxTitleLength    = 50
	maxShortenedWords = 6
)

var (
	groupPattern      = regexp.MustCompile(`\(.*?\)|\[.*?\]`)
	yearPattern       = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	trailingHyphen    = regexp.MustCompile(`\s*-\s*$`)
	leadingHyphen     = regexp.MustCompile(`^\s*-\s*`)
)

// scanTags are release-group and quality markers that never belong to a title.
var scanTags = []string{
	"Digital", "Mephisto", "Empire", "DCP", "EvilTrash", "GreenGiant", "Zone",
	"bittertek", "eclipse", "c2c", "Scan", "HD", "HQ", "Minutemen", "Glorith",
	"AnHeroGold", "ScannerDarkly", "Nemesis43", "CaptainMalcom", "Archangel",
	"BlackManta", "Shadowcat", "Oroboros", "Son of Ultron", "digital", "scans",
	"retail", "web", "cbr", "cbz", "complete", "ongoing", "fixed", "proper",
	"repost",
}

var noiseWords = []string{"to", "the", "last", "man", "first", "issue", "part", "chapter"}

var shortTitleWords = map[string]struct{}{"the": {}, "a": {}, "an": {}, "of": {}}

var (
	scanTagPatterns   = compileWordPatterns(scanTags, `(?i)\b%s\b`)
	noiseWordPatterns = compileWordPatterns(noiseWords, `(?i)\s+%s\s+\d+\s*$`)
)

func compileWordPatterns(words []string, template string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(words))
	for _, word := range words {
		patterns = append(patterns, regexp.MustCompile(strings.Replace(template, "%s", regexp.QuoteMeta(word), 1)))
	}
	return patterns
}

// Parse extracts the title, issue number, and year from a file name.
func Parse(name string) Result {
	var result Result

	working := stripExtension(name)
	working = strings.NewReplacer(".", " ", "_", " ").Replace(working)

	removed := groupPattern.FindAllString(working, -1)
	working = groupPattern.ReplaceAllString(working, "")

	for _, pattern := range scanTagPatterns {
		working = pattern.ReplaceAllString(working, "")
	}

	if year := yearPattern.FindString(working); year != "" {
		result.Year = year
		working = strings.ReplaceAll(working, year, "")
	} else {
		result.Year = yearFromGroups(removed)
	}

	result.Issue, working = extractIssue(working)

	for _, pattern := range noiseWordPatterns {
		working = pattern.ReplaceAllString(working, "")
	}

	working = strings.TrimSpace(whitespacePattern.ReplaceAllString(working, " "))
	working = strings.TrimSpace(trailingHyphen.ReplaceAllString(working, ""))
	working = strings.TrimSpace(leadingHyphen.ReplaceAllString(working, ""))

	result.Title = shortenTitle(working)
	return result
}

// Extension returns the lower-cased extension of name including the dot, or
// an empty string when the name has none.
func Extension(name string) string {
	ext := name[len(stripExtension(name)):]
	if ext == "." {
		return ""
	}
	return strings.ToLower(ext)
}

// stripExtension drops the final ".ext" suffix. Leading dots, as in ".cbz",
// mark a hidden name rather than an extension.
func stripExtension(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 {
		return name
	}
	if strings.Trim(name[:idx], ".") == "" {
		return name
	}
	if strings.ContainsAny(name[idx:], `/\`) {
		return name
	}
	return name[:idx]
}

// yearFromGroups recovers a year that only appeared inside a bracketed group,
// as in "Batman (2016) 001".
func yearFromGroups(groups []string) string {
	for _, group := range groups {
		if year := yearPattern.FindString(group); year != "" {
			return year
		}
	}
	return ""
}

func shortenTitle(title string) string {
	if utf8.RuneCountInString(title) <= maxTitleLength {
		return title
	}
	words := strings.Fields(title)
	if len(words) > maxShortenedWords {
		words = words[:maxShortenedWords]
	}
	kept := make([]string, 0, len(words))
	for _, word := range words {
		first, _ := utf8.DecodeRuneInString(word)
		if _, ok := shortTitleWords[strings.ToLower(word)]; ok || unicode.IsUpper(first) {
			kept = append(kept, word)
			continue
		}
		break
	}
	if len(kept) == 0 {
		return title
	}
	return strings.Join(kept, " ")
}

package filename

import (
	"regexp"
	"strings"
)

// issueRule is one way of spotting an issue number. Rules are tried in slice
// order and the first match wins, so reordering changes results.
type issueRule struct {
	name    string
	pattern *regexp.Regexp
}

var issueRules = []issueRule{
	{name: "n-of-m", pattern: regexp.MustCompile(`(?i)\b(\d{1,4})\s*(?:of|de)\s*\d{1,4}\b`)},
	{name: "hash", pattern: regexp.MustCompile(`(?i)#\s*(\d{1,4})`)},
	{name: "volume", pattern: regexp.MustCompile(`(?i)\bv(?:ol)?\.?\s*(\d{1,4})\b`)},
	{name: "three-four-digits", pattern: regexp.MustCompile(`(?i)\b(\d{3,4})\b`)},
	{name: "one-two-digits", pattern: regexp.MustCompile(`(?i)\b(\d{1,2})\b`)},
}

// extractIssue applies issueRules to text and returns the normalized issue
// number together with text minus the matched span.
func extractIssue(text string) (string, string) {
	for _, rule := range issueRules {
		loc := rule.pattern.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		issue := NormalizeIssue(text[loc[2]:loc[3]])
		return issue, text[:loc[0]] + text[loc[1]:]
	}
	return "", text
}

// NormalizeIssue strips leading zeros from an issue number. An issue made only
// of zeros becomes "0"; an empty issue stays empty.
func NormalizeIssue(issue string) string {
	issue = strings.TrimSpace(issue)
	if issue == "" {
		return ""
	}
	trimmed := strings.TrimLeft(issue, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}

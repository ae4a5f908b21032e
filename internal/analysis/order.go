package analysis

import (
	"strconv"
	"strings"
)

// CompareIssues orders issue numbers numerically when both parse as numbers,
// puts numeric issues before non-numeric ones, and falls back to text order.
func CompareIssues(a, b string) int {
	af, aErr := strconv.ParseFloat(strings.TrimSpace(a), 64)
	bf, bErr := strconv.ParseFloat(strings.TrimSpace(b), 64)
	switch {
	case aErr == nil && bErr == nil:
		if af < bf {
			return -1
		}
		if af > bf {
			return 1
		}
		return strings.Compare(a, b)
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

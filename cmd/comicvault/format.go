package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"comicvault/internal/collection"
)

var titleCaser = cases.Title(language.English)

// statusLabel renders a status for people: "not_found" becomes "Not Found".
func statusLabel(status collection.Status) string {
	if status == "" {
		return "-"
	}
	return titleCaser.String(strings.ReplaceAll(string(status), "_", " "))
}

func formatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

func formatCount(n int) string {
	return humanize.Comma(int64(n))
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

func formatElapsed(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}

func valueOrDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

package logging

import (
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
)

type infoField struct {
	label string
	value string
}

// Keys printed first, in this order, when present on an info line.
var infoHighlightKeys = []string{
	FieldAlert,
	FieldEventType,
	"status",
	"file_path",
	"clean_title",
	"issue_number",
	"year",
	"volume_name",
	"volume_id",
	"issue_id",
	"processed",
	"identified",
	"not_found",
	"enriched",
	"errors",
	FieldErrorHint,
	FieldImpact,
	"error",
}

func selectFields(attrs []kv, debug bool) []infoField {
	if len(attrs) == 0 {
		return nil
	}
	used := make([]bool, len(attrs))
	result := make([]infoField, 0, len(attrs))
	for _, key := range infoHighlightKeys {
		for idx, attr := range attrs {
			if used[idx] || attr.key != key {
				continue
			}
			used[idx] = true
			result = append(result, infoField{label: displayLabel(attr.key), value: formatValueForKey(attr.key, attr.value, debug)})
			break
		}
	}
	for idx, attr := range attrs {
		if used[idx] || skipInfoKey(attr.key) {
			continue
		}
		result = append(result, infoField{label: displayLabel(attr.key), value: formatValueForKey(attr.key, attr.value, debug)})
	}
	return result
}

func formatValueForKey(key string, v slog.Value, debug bool) string {
	v = v.Resolve()
	if isByteSizeKey(key) && v.Kind() == slog.KindInt64 && v.Int64() >= 0 {
		return humanize.Bytes(uint64(v.Int64()))
	}
	if v.Kind() == slog.KindDuration {
		return v.Duration().Round(durationRounding(v.Duration())).String()
	}
	if v.Kind() == slog.KindBool {
		if v.Bool() {
			return "yes"
		}
		return "no"
	}
	value := formatValue(v)
	if !debug && (key == "error" || key == "error_message") {
		value = truncateErrorValue(value)
	}
	return value
}

func isByteSizeKey(key string) bool {
	return strings.HasSuffix(key, "_bytes") || strings.HasSuffix(key, "_size") || key == "size"
}

func truncateErrorValue(value string) string {
	value = strings.TrimSpace(value)
	const maxLen = 200
	if len(value) > maxLen {
		value = value[:maxLen] + "…"
	}
	return value
}

func skipInfoKey(key string) bool {
	switch key {
	case "", FieldComponent, FieldRecordID, FieldStage, FieldRunID:
		return true
	default:
		return false
	}
}

func displayLabel(key string) string {
	parts := strings.Split(strings.ReplaceAll(key, ".", "_"), "_")
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i == 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

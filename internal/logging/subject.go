package logging

import "strings"

// FormatSubject builds the run/record/stage subject string used in console output.
func FormatSubject(runID, recordID, stage string) string {
	runID = strings.TrimSpace(runID)
	recordID = strings.TrimSpace(recordID)
	stage = strings.TrimSpace(stage)
	parts := make([]string, 0, 2)
	if runID != "" {
		if len(runID) > 8 {
			runID = runID[:8]
		}
		parts = append(parts, "Run "+runID)
	}
	switch {
	case recordID != "" && stage != "":
		parts = append(parts, "Record #"+recordID+" ("+stage+")")
	case recordID != "":
		parts = append(parts, "Record #"+recordID)
	case stage != "":
		parts = append(parts, stage)
	}
	return strings.Join(parts, " · ")
}

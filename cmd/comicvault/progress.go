package main

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"comicvault/internal/stage"
)

// progressReporter draws a bar on stderr when it is a terminal and stays
// silent otherwise, so piped output and JSON are never interleaved with it.
type progressReporter struct {
	out         io.Writer
	enabled     bool
	description string
	bar         *progressbar.ProgressBar
}

func newProgressReporter(cmd *cobra.Command, description string, jsonOutput bool) *progressReporter {
	out := cmd.ErrOrStderr()
	return &progressReporter{
		out:         out,
		enabled:     !jsonOutput && shouldColorize(out),
		description: description,
	}
}

func (p *progressReporter) ensure(total int) {
	if p.bar != nil || !p.enabled {
		return
	}
	limit := int64(total)
	if total <= 0 {
		limit = -1
	}
	p.bar = progressbar.NewOptions64(limit,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription(p.description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(total > 0),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

// stageProgress adapts the reporter to a stage run callback.
func (p *progressReporter) stageProgress(update stage.Progress) {
	p.ensure(update.Total)
	if p.bar != nil {
		_ = p.bar.Set(update.Done)
	}
}

// tick advances an open-ended bar by one.
func (p *progressReporter) tick() {
	p.ensure(0)
	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

func (p *progressReporter) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

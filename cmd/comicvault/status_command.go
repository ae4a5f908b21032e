package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"comicvault/internal/collection"
	"comicvault/internal/enrichment"
	"comicvault/internal/identification"
	"comicvault/internal/stage"
)

type statusReport struct {
	Database          collection.DatabaseHealth `json:"database"`
	Counts            map[collection.Status]int `json:"counts"`
	Total             int                       `json:"total"`
	Enriched          int                       `json:"enriched"`
	CatalogConfigured bool                      `json:"catalog_configured"`
	Stages            []stage.Health            `json:"stages"`
	Ready             bool                      `json:"ready"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show inventory counts and database health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(s *session) error {
				report := statusReport{CatalogConfigured: s.cfg.RequireCatalog() == nil}
				health, err := s.store.CheckHealth(cmd.Context())
				if err != nil {
					return err
				}
				report.Database = health
				counts, err := s.store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				report.Counts = counts
				for _, n := range counts {
					report.Total += n
				}
				if report.Enriched, err = s.store.CountEnriched(cmd.Context()); err != nil {
					return err
				}
				if report.Stages, err = stageHealth(cmd, s); err != nil {
					return err
				}
				report.Ready = health.DatabaseReadable && stage.AllReady(report.Stages)
				colorize := shouldColorize(cmd.OutOrStdout())
				return ctx.emit(cmd, report, func() string { return renderStatus(report, colorize) })
			})
		},
	}
}

func stageHealth(cmd *cobra.Command, s *session) ([]stage.Health, error) {
	var identifier *identification.Identifier
	var enricher *enrichment.Enricher
	if s.cfg.RequireCatalog() == nil {
		client, err := newCatalogClient(s.cfg, s.logger)
		if err != nil {
			return nil, err
		}
		identifier = identification.New(s.store, client, s.logger)
		enricher = enrichment.New(s.store, client, s.logger)
	} else {
		identifier = identification.New(s.store, nil, s.logger)
		enricher = enrichment.New(s.store, nil, s.logger)
	}
	return []stage.Health{
		identifier.HealthCheck(cmd.Context()),
		enricher.HealthCheck(cmd.Context()),
	}, nil
}

func renderStatus(r statusReport, colorize bool) string {
	var lines []string
	lines = append(lines, renderSectionHeader("Inventory", colorize)...)
	lines = append(lines, renderValueLine("Total", formatCount(r.Total)))
	for _, status := range collection.AllStatuses() {
		lines = append(lines, renderValueLine(statusLabel(status), formatCount(r.Counts[status])))
	}
	lines = append(lines, renderValueLine("Enriched", formatCount(r.Enriched)))

	lines = append(lines, "")
	lines = append(lines, renderSectionHeader("Health", colorize)...)
	db := r.Database
	switch {
	case !db.DatabaseExists:
		lines = append(lines, renderStatusLine("Database", statusWarn, "not created yet; run 'comicvault scan'", colorize))
	case !db.DatabaseReadable:
		lines = append(lines, renderStatusLine("Database", statusError, db.Error, colorize))
	default:
		lines = append(lines, renderStatusLine("Database", statusOK, db.DBPath, colorize))
	}
	if db.DatabaseReadable {
		lines = append(lines, renderStatusLine("Schema", schemaKind(db), schemaMessage(db), colorize))
		integrity := statusOK
		if !db.IntegrityCheck {
			integrity = statusError
		}
		lines = append(lines, renderStatusLine("Integrity", integrity, yesNo(db.IntegrityCheck), colorize))
	}
	if r.CatalogConfigured {
		lines = append(lines, renderStatusLine("Comic Vine key", statusOK, "configured", colorize))
	} else {
		lines = append(lines, renderStatusLine("Comic Vine key", statusWarn, "missing; identify and enrich are unavailable", colorize))
	}
	for _, check := range r.Stages {
		kind, detail := statusOK, "ready"
		if !check.Ready {
			kind, detail = statusWarn, check.Detail
		}
		lines = append(lines, renderStatusLine(titleCaser.String(check.Name), kind, detail, colorize))
	}
	if r.Ready {
		lines = append(lines, "", "Ready to run every stage.")
	}
	return strings.Join(lines, "\n")
}

func schemaKind(db collection.DatabaseHealth) statusKind {
	if len(db.MissingColumns) > 0 {
		return statusWarn
	}
	return statusOK
}

func schemaMessage(db collection.DatabaseHealth) string {
	if len(db.MissingColumns) > 0 {
		return fmt.Sprintf("version %d, missing %s", db.SchemaVersion, strings.Join(db.MissingColumns, ", "))
	}
	return fmt.Sprintf("version %d", db.SchemaVersion)
}

package main

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/waldronlab/curation-dashboard/internal/config"
	"github.com/waldronlab/curation-dashboard/internal/dashboard"
	"github.com/waldronlab/curation-dashboard/internal/logger"
	"github.com/waldronlab/curation-dashboard/internal/validation"
)

type globalOptions struct {
	configPath string
	logMode    string
	timezone   string
}

// session is what every subcommand needs once flags are parsed.
type session struct {
	cfg          config.Config
	opts         dashboard.Options
	log          *logger.Logger
	invocationID string
}

func newSession(g *globalOptions, source string) (*session, error) {
	cfg, err := config.Load(g.configPath, nil)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(source) != "" {
		cfg.Source = source
	}
	if strings.TrimSpace(g.logMode) != "" {
		cfg.Log.Mode = g.logMode
	}
	if strings.TrimSpace(g.timezone) != "" {
		cfg.Timezone = g.timezone
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := cfg.DashboardOptions()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	log = log.With("invocation_id", id)
	if cfg.CI.Provider != "generic" {
		log.Info("ci environment detected", "provider", cfg.CI.Provider, "repository", cfg.CI.Repository, "run_id", cfg.CI.RunID, "branch", cfg.CI.Branch)
	}
	return &session{cfg: cfg, opts: opts, log: log, invocationID: id}, nil
}

func (s *session) fetch(ctx context.Context) (validation.Document, error) {
	doc, err := validation.NewFetcher(s.cfg.Timeout()).Fetch(ctx, s.cfg.Source)
	if err != nil {
		s.log.Error("loading validation results failed", "source", s.cfg.Source, "error", err)
		return validation.Document{}, err
	}
	s.log.Info("validation results loaded", "source", s.cfg.Source, "status", doc.Report.NormalizedStatus(), "studies_with_issues", len(doc.Report.StudiesWithIssues))
	return doc, nil
}

func addSourceFlag(cmd *cobra.Command, source *string) {
	cmd.Flags().StringVar(source, "source", "", "Report path or http(s) URL (default validation_results.json)")
}

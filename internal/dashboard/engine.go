package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/waldronlab/curation-dashboard/internal/classify"
	"github.com/waldronlab/curation-dashboard/internal/logger"
	"github.com/waldronlab/curation-dashboard/internal/report"
	"github.com/waldronlab/curation-dashboard/internal/validation"
)

// Run fetches the report, writes the dashboard page and its companion
// artifacts, and publishes them when a Publisher is configured. When the
// fetch fails the error page is written in place of the dashboard and the
// fetch error is returned.
func Run(ctx context.Context, cfg Config) (Result, error) {
	if err := CheckRequest(cfg.Tab, cfg.Sorts); err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(cfg.Source) == "" {
		cfg.Source = validation.DefaultSource
	}
	if strings.TrimSpace(cfg.OutHTMLPath) == "" {
		cfg.OutHTMLPath = report.DefaultHTMLName
	}
	if strings.TrimSpace(cfg.ChecksumsPath) == "" {
		cfg.ChecksumsPath = report.DefaultChecksumsPath(cfg.OutHTMLPath)
	}
	if strings.TrimSpace(cfg.RunLogPath) == "" {
		cfg.RunLogPath = report.DefaultRunLogPath(cfg.OutHTMLPath)
	}
	if cfg.Fetcher == nil {
		cfg.Fetcher = validation.NewFetcher(cfg.FetchTimeout)
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	if cfg.InvocationID != "" {
		log = log.With("invocation_id", cfg.InvocationID)
	}

	result := Result{
		HTMLPath:      cfg.OutHTMLPath,
		JSONPath:      cfg.OutJSONPath,
		ChecksumsPath: cfg.ChecksumsPath,
		RunLogPath:    cfg.RunLogPath,
	}

	runLog, logErr := report.NewRunLog(cfg.RunLogPath)
	if logErr != nil {
		log.Warn("run log unavailable", "path", cfg.RunLogPath, "error", logErr)
	}
	defer runLog.Close()
	runLog.Info("run.start", map[string]interface{}{
		"invocation_id": cfg.InvocationID,
		"source":        cfg.Source,
		"fetch_timeout": cfg.FetchTimeout.String(),
		"out_html":      cfg.OutHTMLPath,
		"out_json":      cfg.OutJSONPath,
		"checksums":     cfg.ChecksumsPath,
		"publish":       cfg.Publisher != nil,
	})

	started := time.Now()
	doc, err := cfg.Fetcher.Fetch(ctx, cfg.Source)
	if err != nil {
		log.Error("loading validation results failed", "source", cfg.Source, "error", err)
		runLog.Warn("run.fetch.error", map[string]interface{}{"source": cfg.Source, "error": err.Error()})
		if werr := writeErrorPage(cfg, err.Error()); werr != nil {
			runLog.Warn("run.render.error", map[string]interface{}{"error": werr.Error()})
			return result, fmt.Errorf("%w (error page not written: %v)", err, werr)
		}
		return result, err
	}
	result.Status = doc.Report.NormalizedStatus()
	result.SourceSHA256 = doc.SHA256
	result.Studies = len(doc.Report.StudiesWithIssues)
	log.Info("validation results loaded", "source", cfg.Source, "status", result.Status, "studies_with_issues", result.Studies, "bytes", doc.Size, "elapsed", time.Since(started))
	runLog.Info("run.fetch.ok", map[string]interface{}{
		"source":              cfg.Source,
		"sha256":              doc.SHA256,
		"bytes":               doc.Size,
		"status":              string(result.Status),
		"studies_with_issues": result.Studies,
	})

	view := NewView(doc.Report)
	if strings.TrimSpace(cfg.Tab) != "" {
		if err := view.SelectTab(cfg.Tab); err != nil {
			return result, err
		}
	}
	if err := view.ApplySorts(cfg.Sorts...); err != nil {
		return result, err
	}

	page, err := RenderBytes(doc.Report, cfg.Options, view)
	if err != nil {
		return result, fmt.Errorf("render dashboard: %w", err)
	}
	if err := WriteHTML(cfg.OutHTMLPath, page); err != nil {
		runLog.Warn("run.render.error", map[string]interface{}{"error": err.Error(), "path": cfg.OutHTMLPath})
		return result, fmt.Errorf("write %s: %w", cfg.OutHTMLPath, err)
	}
	runLog.Info("run.render.ok", map[string]interface{}{"path": cfg.OutHTMLPath, "bytes": len(page)})

	artifacts := []string{cfg.OutHTMLPath}
	if strings.TrimSpace(cfg.OutJSONPath) != "" {
		if err := report.WriteJSON(cfg.OutJSONPath, BuildSummary(doc)); err != nil {
			runLog.Warn("run.summary_json.error", map[string]interface{}{"error": err.Error()})
			return result, fmt.Errorf("write %s: %w", cfg.OutJSONPath, err)
		}
		artifacts = append(artifacts, cfg.OutJSONPath)
	}
	if err := report.WriteChecksums(cfg.ChecksumsPath, artifacts); err != nil {
		runLog.Warn("run.checksums.error", map[string]interface{}{"error": err.Error()})
		return result, err
	}
	artifacts = append(artifacts, cfg.ChecksumsPath)

	if cfg.Publisher != nil {
		published, err := cfg.Publisher.Publish(ctx, artifacts)
		if err != nil {
			log.Error("publishing dashboard failed", "error", err)
			runLog.Warn("run.publish.error", map[string]interface{}{"error": err.Error()})
			return result, fmt.Errorf("publish: %w", err)
		}
		result.Published = published
		runLog.Info("run.publish.ok", map[string]interface{}{"objects": published})
	}

	runLog.Info("run.complete", map[string]interface{}{
		"status":      string(result.Status),
		"report_html": cfg.OutHTMLPath,
		"report_json": cfg.OutJSONPath,
		"checksums":   cfg.ChecksumsPath,
		"published":   len(result.Published),
	})
	log.Info("dashboard written", "path", cfg.OutHTMLPath, "published", len(result.Published))
	return result, nil
}

// BuildSummary derives the summary JSON for a fetched document.
func BuildSummary(doc validation.Document) Summary {
	return Summary{
		Status:         doc.Report.NormalizedStatus(),
		Source:         doc.Source,
		SourceSHA256:   doc.SHA256,
		Counts:         doc.Report.Summary,
		CategoryTotals: classify.CategoryTotals(doc.Report.StudiesWithIssues),
		Studies:        classify.Summarize(doc.Report.StudiesWithIssues),
	}
}

func writeErrorPage(cfg Config, message string) error {
	var b strings.Builder
	if err := RenderError(&b, message, cfg.Options); err != nil {
		return err
	}
	return WriteHTML(cfg.OutHTMLPath, []byte(b.String()))
}

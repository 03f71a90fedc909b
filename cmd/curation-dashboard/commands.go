package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/waldronlab/curation-dashboard/internal/dashboard"
	"github.com/waldronlab/curation-dashboard/internal/publish"
	"github.com/waldronlab/curation-dashboard/internal/server"
	"github.com/waldronlab/curation-dashboard/internal/tui"
	"github.com/waldronlab/curation-dashboard/internal/validation"
)

func renderCmd(g *globalOptions) *cobra.Command {
	var source, out, outJSON, checksums, runLog, tab string
	var sorts []string
	var doPublish, failOnFail bool
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the static HTML dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(g, source)
			if err != nil {
				return err
			}
			defer s.log.Sync()
			ctx := cmd.Context()

			if out == "" {
				out = s.cfg.Output.HTML
			}
			if outJSON == "" {
				outJSON = s.cfg.Output.JSON
			}
			if checksums == "" {
				checksums = s.cfg.Output.Checksums
			}
			if runLog == "" {
				runLog = s.cfg.Output.RunLog
			}

			runCfg := dashboard.Config{
				Source:        s.cfg.Source,
				FetchTimeout:  s.cfg.Timeout(),
				OutHTMLPath:   out,
				OutJSONPath:   outJSON,
				ChecksumsPath: checksums,
				RunLogPath:    runLog,
				Tab:           tab,
				Sorts:         sorts,
				Options:       s.opts,
				InvocationID:  s.invocationID,
				Logger:        s.log,
			}
			if doPublish || s.cfg.Publish.Enabled {
				p := s.cfg.Publish
				p.Enabled = true
				s.cfg.Publish = p
				if err := s.cfg.Validate(); err != nil {
					return err
				}
				store, err := publish.New(ctx, publish.Options{
					Endpoint:  p.Endpoint,
					Region:    p.Region,
					Bucket:    p.Bucket,
					Prefix:    p.Prefix,
					AccessKey: p.AccessKey,
					SecretKey: p.SecretKey,
					UseSSL:    p.UseSSL,
				})
				if err != nil {
					return err
				}
				runCfg.Publisher = store
			}

			res, err := dashboard.Run(ctx, runCfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "status: %s\nreport_html: %s\n", res.Status, res.HTMLPath)
			if res.JSONPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "report_json: %s\n", res.JSONPath)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "checksums: %s\nrun_log: %s\n", res.ChecksumsPath, res.RunLogPath)
			for _, u := range res.Published {
				fmt.Fprintf(cmd.OutOrStdout(), "published: %s\n", u)
			}
			if failOnFail && res.Status == validation.StatusFail {
				return &exitError{code: 2, msg: "validation status is FAIL"}
			}
			return nil
		},
	}
	addSourceFlag(cmd, &source)
	cmd.Flags().StringVar(&out, "out", "", "Output HTML path (default index.html)")
	cmd.Flags().StringVar(&outJSON, "out-json", "", "Optional summary JSON path")
	cmd.Flags().StringVar(&checksums, "checksums", "", "Checksums path (default next to the HTML)")
	cmd.Flags().StringVar(&runLog, "run-log", "", "Run log path (default next to the HTML)")
	cmd.Flags().StringVar(&tab, "tab", "", "Initially active tab: validation or stats")
	cmd.Flags().StringArrayVar(&sorts, "sort", nil, "Initial distribution sort, field:count or field:name (repeatable)")
	cmd.Flags().BoolVar(&doPublish, "publish", false, "Upload the artifacts to the configured bucket")
	cmd.Flags().BoolVar(&failOnFail, "fail-on-fail", false, "Exit 2 when the report status is FAIL")
	return cmd
}

func classifyCmd(g *globalOptions) *cobra.Command {
	var (
		source string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Print the issue categories and affected fields per study",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(g, source)
			if err != nil {
				return err
			}
			defer s.log.Sync()
			doc, err := s.fetch(cmd.Context())
			if err != nil {
				return err
			}
			summary := dashboard.BuildSummary(doc)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			return writeClassifyTable(cmd.OutOrStdout(), summary)
		},
	}
	addSourceFlag(cmd, &source)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func writeClassifyTable(w io.Writer, summary dashboard.Summary) error {
	if len(summary.Studies) == 0 {
		_, err := fmt.Fprintf(w, "status: %s\nAll studies passed validation.\n", summary.Status)
		return err
	}
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		Headers("Study", "Errors", "Warnings", "Categories", "Fields")
	for _, r := range summary.Studies {
		t.Row(r.Study, strconv.Itoa(r.Errors), strconv.Itoa(r.Warnings), joinOrDash(r.Categories), joinOrDash(r.Fields))
	}

	cats := make([]string, 0, len(summary.CategoryTotals))
	for c := range summary.CategoryTotals {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	totals := make([]string, 0, len(cats))
	for _, c := range cats {
		totals = append(totals, fmt.Sprintf("%s: %d", c, summary.CategoryTotals[c]))
	}

	_, err := fmt.Fprintf(w, "status: %s\n%s\n%s\n", summary.Status, t.String(), strings.Join(totals, "  "))
	return err
}

func joinOrDash(v []string) string {
	if len(v) == 0 {
		return "-"
	}
	return strings.Join(v, ", ")
}

func viewCmd(g *globalOptions) *cobra.Command {
	var source string
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse the report in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(g, source)
			if err != nil {
				return err
			}
			defer s.log.Sync()
			doc, err := s.fetch(cmd.Context())
			if err != nil {
				return err
			}
			return tui.Start(doc.Report, s.opts)
		},
	}
	addSourceFlag(cmd, &source)
	return cmd
}

func serveCmd(g *globalOptions) *cobra.Command {
	var source, addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard with tab and sort query parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(g, source)
			if err != nil {
				return err
			}
			defer s.log.Sync()
			doc, err := s.fetch(cmd.Context())
			if err != nil {
				return err
			}
			return server.ListenAndServe(cmd.Context(), addr, server.NewRouter(doc, s.opts, s.log), s.log)
		},
	}
	addSourceFlag(cmd, &source)
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	return cmd
}

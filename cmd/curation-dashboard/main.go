package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// exitError carries a non-default exit code out of a command.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			if exitErr.msg != "" {
				fmt.Fprintf(os.Stderr, "curation-dashboard: %s\n", exitErr.msg)
			}
			os.Exit(exitErr.code)
		}
		fmt.Fprintf(os.Stderr, "curation-dashboard error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}
	root := &cobra.Command{
		Use:   "curation-dashboard",
		Short: "Render curatedMetagenomicData validation results as a dashboard",
		Long: `curation-dashboard reads a validation_results.json report and renders it
as a static HTML dashboard with a validation tab (issue summary and study
cards) and a metadata statistics tab (sortable distributions).

Examples:
  curation-dashboard render --source validation_results.json --out site/index.html
  curation-dashboard classify --source https://example.org/validation_results.json
  curation-dashboard view
  curation-dashboard serve --addr :8080`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "Optional YAML config file")
	root.PersistentFlags().StringVar(&g.logMode, "log-mode", "", "Log mode: development or production")
	root.PersistentFlags().StringVar(&g.timezone, "timezone", "", "IANA time zone for timestamps (default UTC)")

	root.AddCommand(renderCmd(g))
	root.AddCommand(classifyCmd(g))
	root.AddCommand(viewCmd(g))
	root.AddCommand(serveCmd(g))
	return root
}

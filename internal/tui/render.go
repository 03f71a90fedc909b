package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/waldronlab/curation-dashboard/internal/classify"
	"github.com/waldronlab/curation-dashboard/internal/dashboard"
	"github.com/waldronlab/curation-dashboard/internal/validation"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	passStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))
	failStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")).Padding(0, 1)
	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	selectedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func renderHeader(m Model) string {
	status := m.report.NormalizedStatus()
	badge := failStyle.Render(string(status))
	if status == validation.StatusPass {
		badge = passStyle.Render(string(status))
	}
	title := m.opts.Title
	if title == "" {
		title = dashboard.DefaultTitle
	}
	return titleStyle.Render(title) + "  " + badge
}

func renderTabs(m Model) string {
	parts := make([]string, 0, len(dashboard.Tabs))
	for i, t := range dashboard.Tabs {
		label := fmt.Sprintf("%d %s", i+1, t.Label())
		if t == m.view.ActiveTab() {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func renderHelp(m Model) string {
	if m.view.ActiveTab() == dashboard.TabStats {
		return helpStyle.Render("tab/1/2 switch tabs • ↑/↓ select distribution • s toggle sort • q quit")
	}
	return helpStyle.Render("tab/1/2 switch tabs • ↑/↓ scroll • q quit")
}

func renderValidation(m Model) string {
	rep := m.report
	meta := rep.Metadata
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d   %s %d   %s %d   %s %d\n",
		labelStyle.Render("Files:"), rep.Summary.TotalFiles,
		labelStyle.Render("Errors:"), rep.Summary.TotalErrors,
		labelStyle.Render("Warnings:"), rep.Summary.TotalWarnings,
		labelStyle.Render("With issues:"), rep.Summary.FilesWithIssues)

	commit := "N/A"
	if short, _, ok := dashboard.CommitRef(meta); ok {
		commit = short
	}
	fmt.Fprintf(&b, "%s %s   %s %s   %s %s   %s %s\n\n",
		labelStyle.Render("Updated:"), dashboard.FormatTimestamp(meta.Timestamp, m.opts.Location),
		labelStyle.Render("Trigger:"), orNA(meta.Trigger),
		labelStyle.Render("Branch:"), orNA(meta.Branch),
		labelStyle.Render("Schema:"), commit)

	if !rep.HasIssues() {
		b.WriteString(passStyle.Render("All studies passed validation"))
		b.WriteString("\n")
		return b.String()
	}
	for _, s := range validation.ByErrorCount(rep.StudiesWithIssues) {
		c := classify.Classify(s.Errors, s.Warnings)
		fmt.Fprintf(&b, "%s  %s %s\n", titleStyle.Render(s.Name.String()),
			errorStyle.Render(countLabel(s.ErrorCount(), "error")),
			warningStyle.Render(countLabel(s.WarningCount(), "warning")))
		fmt.Fprintf(&b, "  %s %s", labelStyle.Render("File:"), s.File)
		if s.Rows != nil {
			cols := 0
			if s.Cols != nil {
				cols = *s.Cols
			}
			fmt.Fprintf(&b, "   %d rows × %d columns", *s.Rows, cols)
		}
		b.WriteString("\n")
		if !c.Empty() {
			fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render("Categories:"), strings.Join(c.Categories(), ", "))
		}
		for _, e := range s.Errors {
			fmt.Fprintf(&b, "  %s %s\n", errorStyle.Render("✗"), e)
		}
		for _, w := range s.Warnings {
			fmt.Fprintf(&b, "  %s %s\n", warningStyle.Render("!"), w)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderStats(m Model) string {
	var b strings.Builder
	totalStudies, totalSamples := 0, 0
	if m.report.Stats != nil {
		totalStudies, totalSamples = m.report.Stats.TotalStudies, m.report.Stats.TotalSamples
	}
	fmt.Fprintf(&b, "%s %d   %s %d\n\n", labelStyle.Render("Studies:"), totalStudies, labelStyle.Render("Samples:"), totalSamples)

	selected := m.SelectedField()
	for _, field := range validation.DistributionFields {
		marker := "  "
		name := field
		if field == selected {
			marker = "▸ "
			name = selectedStyle.Render(field)
		}
		d := m.report.Distribution(field)
		if d == nil || !m.view.HasData(field) {
			fmt.Fprintf(&b, "%s%s  %s\n", marker, name, labelStyle.Render("No data available"))
			continue
		}
		fmt.Fprintf(&b, "%s%s  %s\n", marker, name, labelStyle.Render(fmt.Sprintf("%d distinct values • %d total • by %s", d.TotalDistinct, d.TotalCount, m.view.SortOf(field))))
		if field != selected {
			continue
		}
		for _, it := range m.view.Items(field) {
			fmt.Fprintf(&b, "    %-32s %d\n", it.Name.String(), it.Count)
		}
	}
	return b.String()
}

// applyViewport clips content to the window, honouring the scroll offset.
func applyViewport(m Model, content string) string {
	height := m.windowHeight
	width := m.windowWidth
	if height <= 0 || width <= 0 {
		return content
	}
	view := viewport.New(width, height)
	view.SetContent(content)
	offset := m.offset
	if m.view.ActiveTab() == dashboard.TabStats {
		offset = selectedLine(m) - height/2
	}
	maxOffset := len(strings.Split(content, "\n")) - height
	if offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	view.YOffset = offset
	return view.View()
}

// selectedLine is the content line of the selected distribution header.
// Only the selected distribution is expanded, so every header above it
// takes one line below the two-line totals block.
func selectedLine(m Model) int {
	return 2 + m.selected
}

func countLabel(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/waldronlab/curation-dashboard/internal/dashboard"
	"github.com/waldronlab/curation-dashboard/internal/validation"
)

func testReport() validation.ValidationReport {
	rows := 10
	return validation.ValidationReport{
		Status:  validation.StatusFail,
		Summary: validation.Summary{TotalFiles: 5, TotalErrors: 4, TotalWarnings: 1, FilesWithIssues: 2},
		StudiesWithIssues: []validation.StudyResult{
			{Name: "SmallStudy", File: "small.tsv", Errors: []string{"VALIDATION ERROR: x"}},
			{Name: "BigStudy", File: "big.tsv", Rows: &rows, Errors: []string{"a", "b", "c"}, Warnings: []string{"w"}},
		},
		Stats: &validation.Stats{
			TotalStudies: 2,
			TotalSamples: 30,
			Distributions: map[string]*validation.Distribution{
				"age_group": {TotalDistinct: 2, TotalCount: 30, Top: []validation.DistributionItem{
					{Name: "Senior", Count: 20},
					{Name: "Adult", Count: 10},
				}},
			},
		},
	}
}

func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTabSwitching(t *testing.T) {
	m := NewModel(testReport(), dashboard.DefaultOptions())
	if m.view.ActiveTab() != dashboard.TabValidation {
		t.Fatalf("expected validation tab first, got %s", m.view.ActiveTab())
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.view.ActiveTab() != dashboard.TabStats {
		t.Fatalf("expected stats tab after tab key, got %s", m.view.ActiveTab())
	}
	m = press(t, m, runes("1"))
	if m.view.ActiveTab() != dashboard.TabValidation {
		t.Fatalf("expected validation tab after '1', got %s", m.view.ActiveTab())
	}
	m = press(t, m, runes("2"))
	if m.view.ActiveTab() != dashboard.TabStats {
		t.Fatalf("expected stats tab after '2', got %s", m.view.ActiveTab())
	}
}

func TestSortToggleOnSelectedDistribution(t *testing.T) {
	m := NewModel(testReport(), dashboard.DefaultOptions())
	m = press(t, m, runes("2"), tea.KeyMsg{Type: tea.KeyDown})
	if m.SelectedField() != "age_group" {
		t.Fatalf("expected age_group selected, got %s", m.SelectedField())
	}
	out := m.View()
	if strings.Index(out, "Senior") > strings.Index(out, "Adult") {
		t.Fatalf("expected count order first:\n%s", out)
	}

	m = press(t, m, runes("s"))
	if m.view.SortOf("age_group") != dashboard.SortByName {
		t.Fatalf("expected name sort after 's'")
	}
	out = m.View()
	if strings.Index(out, "Adult") > strings.Index(out, "Senior") {
		t.Fatalf("expected name order after toggle:\n%s", out)
	}
	if !strings.Contains(out, "No data available") {
		t.Fatalf("fields without data should say so")
	}
}

func TestSortKeyIgnoredOnValidationTab(t *testing.T) {
	m := NewModel(testReport(), dashboard.DefaultOptions())
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, runes("s"))
	if m.view.SortOf("age_group") != dashboard.SortByCount {
		t.Fatalf("sort must not change outside the stats tab")
	}
	if m.selected != 0 || m.offset != 1 {
		t.Fatalf("down on validation tab should scroll, got selected=%d offset=%d", m.selected, m.offset)
	}
}

func TestScrollStopsAtEndOfContent(t *testing.T) {
	m := NewModel(testReport(), dashboard.DefaultOptions())
	m = press(t, m, tea.WindowSizeMsg{Width: 80, Height: 8})
	limit := m.maxOffset()
	if limit == 0 {
		t.Fatalf("validation content should be taller than the window")
	}
	for i := 0; i < 50; i++ {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.offset != limit {
		t.Fatalf("offset should stop at %d, got %d", limit, m.offset)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.offset != limit-1 {
		t.Fatalf("one up after overscrolling should move the view, got offset %d", m.offset)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyPgDown}, tea.KeyMsg{Type: tea.KeyPgDown})
	if m.offset != limit {
		t.Fatalf("page down should stop at %d, got %d", limit, m.offset)
	}
}

func TestSelectionStaysInRange(t *testing.T) {
	m := NewModel(testReport(), dashboard.DefaultOptions())
	m = press(t, m, runes("2"), tea.KeyMsg{Type: tea.KeyUp})
	if m.selected != 0 {
		t.Fatalf("selection should not go below zero")
	}
	for range validation.DistributionFields {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.selected != len(validation.DistributionFields)-1 {
		t.Fatalf("selection should stop at the last field, got %d", m.selected)
	}
}

func TestValidationViewOrdersStudies(t *testing.T) {
	m := NewModel(testReport(), dashboard.DefaultOptions())
	out := m.View()
	if strings.Index(out, "BigStudy") > strings.Index(out, "SmallStudy") {
		t.Fatalf("study with most errors should come first:\n%s", out)
	}
	for _, want := range []string{"3 errors", "1 warning", "10 rows × 0 columns", "Validation error"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
}

func TestQuit(t *testing.T) {
	m := NewModel(testReport(), dashboard.DefaultOptions())
	updated, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if updated.(Model).View() != "" {
		t.Fatalf("expected empty view after quit")
	}
}

func TestWindowSizeClipsContent(t *testing.T) {
	m := NewModel(testReport(), dashboard.DefaultOptions())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 8})
	m = updated.(Model)
	out := m.View()
	if strings.Contains(out, "SmallStudy") {
		t.Fatalf("content beyond the window should be clipped:\n%s", out)
	}
}

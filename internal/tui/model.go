package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/waldronlab/curation-dashboard/internal/dashboard"
	"github.com/waldronlab/curation-dashboard/internal/validation"
)

// chromeLines is the height taken by the header, tab bar and help line.
const chromeLines = 5

type Model struct {
	report validation.ValidationReport
	opts   dashboard.Options
	view   *dashboard.View

	selected     int
	offset       int
	windowWidth  int
	windowHeight int
	quitting     bool
}

func NewModel(rep validation.ValidationReport, opts dashboard.Options) Model {
	return Model{
		report: rep,
		opts:   opts,
		view:   dashboard.NewView(rep),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height - chromeLines
		m.offset = min(m.offset, m.maxOffset())
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "tab":
		m.view.NextTab()
		m.offset = 0
	case "1":
		_ = m.view.SelectTab(string(dashboard.TabValidation))
		m.offset = 0
	case "2":
		_ = m.view.SelectTab(string(dashboard.TabStats))
		m.offset = 0
	case "up", "k":
		if m.view.ActiveTab() == dashboard.TabStats {
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		}
		if m.offset > 0 {
			m.offset--
		}
	case "down", "j":
		if m.view.ActiveTab() == dashboard.TabStats {
			if m.selected < len(validation.DistributionFields)-1 {
				m.selected++
			}
			return m, nil
		}
		m.offset = min(m.offset+1, m.maxOffset())
	case "pgdown":
		m.offset = min(m.offset+pageSize(m.windowHeight), m.maxOffset())
	case "pgup":
		m.offset -= pageSize(m.windowHeight)
		if m.offset < 0 {
			m.offset = 0
		}
	case "s":
		if m.view.ActiveTab() == dashboard.TabStats {
			m.view.ToggleSort(m.SelectedField())
		}
	}
	return m, nil
}

// SelectedField is the distribution the sort key applies to.
func (m Model) SelectedField() string {
	return validation.DistributionFields[m.selected]
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var content string
	if m.view.ActiveTab() == dashboard.TabStats {
		content = renderStats(m)
	} else {
		content = renderValidation(m)
	}
	return renderHeader(m) + "\n" + renderTabs(m) + "\n\n" + applyViewport(m, content) + "\n" + renderHelp(m)
}

// maxOffset is the last scroll position of the validation tab that still
// fills the viewport. Without a window size one line stays visible.
func (m Model) maxOffset() int {
	height := max(m.windowHeight, 1)
	return max(len(strings.Split(renderValidation(m), "\n"))-height, 0)
}

func pageSize(height int) int {
	if height <= 1 {
		return 10
	}
	return height - 1
}

package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/waldronlab/curation-dashboard/internal/dashboard"
	"github.com/waldronlab/curation-dashboard/internal/validation"
)

func Start(rep validation.ValidationReport, opts dashboard.Options) error {
	program := tea.NewProgram(NewModel(rep, opts), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

package ui

import tea "github.com/charmbracelet/bubbletea"

// Run owns the terminal until the operator exits.
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

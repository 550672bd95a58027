// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program for the waveform widget
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run creates the widget program. The caller owns Run/Quit.
func Run(model Model) (*tea.Program, error) {
	p := tea.NewProgram(model, tea.WithAltScreen())
	return p, nil
}

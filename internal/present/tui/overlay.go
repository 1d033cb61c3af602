package tui

import (
	"github.com/charmbracelet/lipgloss/v2"
)

const (
	fallbackWidth  = 80
	fallbackHeight = 24
)

// overlay draws the filter modal centered over a dimmed copy of the table.
func (m model) overlay(base string, modal *filterModal) string {
	w, h := m.width, m.height
	if w <= 0 {
		w = fallbackWidth
	}
	if h <= 0 {
		h = fallbackHeight
	}

	bottom := lipgloss.NewLayer(lipgloss.NewStyle().Faint(true).Render(base)).
		Width(w).
		Height(h)
	top := lipgloss.NewLayer(modal.View()).
		Width(modal.width).
		Height(modal.height).
		X(max(0, (w-modal.width)/2)).
		Y(max(0, (h-modal.height)/3))

	return lipgloss.NewCanvas(bottom, top).Render()
}

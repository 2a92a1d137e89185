package tui

import (
	"cinebook/report"
	"github.com/charmbracelet/lipgloss"
)

func (m appModel) dashboardView() string {
	s := m.ctrl.Session()
	title := "Owner dashboard"
	if s.User != nil && s.User.TheatreName != "" {
		title += " • " + s.User.TheatreName
	}
	rows := m.ctrl.Occupancy()
	if len(rows) == 0 {
		return panel(m.width, lipgloss.NewStyle().Bold(true).Render(title)+"\n\nNo shows scheduled.")
	}
	return lipgloss.NewStyle().Bold(true).Render(title) + "\n\n" + report.Occupancy(rows)
}

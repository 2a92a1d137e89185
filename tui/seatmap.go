package tui

import (
	"fmt"
	"slices"
	"strings"

	"cinebook/booking"
	"cinebook/catalog"
	"cinebook/model"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m appModel) seatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	b, ok := m.ctrl.Booking().(*booking.MovieBooking)
	if !ok || b.Show == nil {
		return m, nil, false
	}
	layout := m.latestShow(b.Movie.Id, *b.Show).Layout
	if len(layout.Rows) == 0 || layout.Columns == 0 {
		return m, nil, false
	}

	switch msg.String() {
	case "up", "k":
		m.seatRow = max(m.seatRow-1, 0)
	case "down", "j":
		m.seatRow = min(m.seatRow+1, len(layout.Rows)-1)
	case "left", "h":
		m.seatCol = max(m.seatCol-1, 0)
	case "right", "l":
		m.seatCol = min(m.seatCol+1, layout.Columns-1)
	case "n":
		m.showSeatNumbers = !m.showSeatNumbers
	case " ", "x":
		id := catalog.SeatID(layout.Rows[m.seatRow], m.seatCol+1)
		m.pickedSeats = toggleSeat(m.pickedSeats, id, catalog.Status(layout, id))
	case "enter":
		if err := m.ctrl.SelectSeats(m.pickedSeats); err != nil {
			m.setError(err)
			return m, nil, true
		}
		m.clearNotice()
		cmd := m.card.setFocus(0)
		return m, cmd, true
	default:
		return m, nil, false
	}
	return m, nil, true
}

// toggleSeat adds an available seat to the selection or removes a picked
// one. Seats that cannot be sold are left alone.
func toggleSeat(picked []string, id string, status catalog.SeatStatus) []string {
	if i := slices.Index(picked, id); i >= 0 {
		return slices.Delete(slices.Clone(picked), i, i+1)
	}
	if status != catalog.SeatAvailable {
		return picked
	}
	return append(slices.Clone(picked), id)
}

func (m appModel) renderSeatMap(show model.Show) string {
	layout := show.Layout
	if len(layout.Rows) == 0 || layout.Columns == 0 {
		return "No seat map data."
	}

	rowWidth := 2
	for _, row := range layout.Rows {
		rowWidth = max(rowWidth, len(row))
	}
	cellWidth := 2
	if m.showSeatNumbers {
		cellWidth = max(cellWidth, len(fmt.Sprint(layout.Columns)))
	}

	seatStyleAvailable := lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	seatStylePremium := lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	seatStyleOccupied := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	seatStyleBlocked := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	seatStylePicked := lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("5")).Bold(true)
	cursorStyle := lipgloss.NewStyle().Reverse(true)

	gridWidth := layout.Columns*(cellWidth+1) - 1 + len(layout.Aisles)*2
	screenStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("214"))
	screenBorderStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Background(lipgloss.Color("236"))
	screenBar := screenBarBlock(gridWidth, "SCREEN")

	var b strings.Builder
	indent := strings.Repeat(" ", rowWidth+1)
	b.WriteString(indent + screenBorderStyle.Render(screenBar.top) + "\n")
	b.WriteString(indent + screenStyle.Render(screenBar.mid) + "\n")
	b.WriteString(indent + screenBorderStyle.Render(screenBar.bot) + "\n\n")

	available, occupied, blocked := 0, 0, 0
	for r, row := range layout.Rows {
		b.WriteString(fmt.Sprintf("%*s ", rowWidth, row))
		premium := slices.Contains(layout.PremiumRows, row)
		for c := 1; c <= layout.Columns; c++ {
			id := catalog.SeatID(row, c)
			status := catalog.Status(layout, id)
			text := "[]"
			if m.showSeatNumbers {
				text = fmt.Sprint(c)
			}
			rendered := padCell(text, cellWidth)
			switch {
			case slices.Contains(m.pickedSeats, id):
				available++
				rendered = seatStylePicked.Render(rendered)
			case status == catalog.SeatBooked:
				occupied++
				rendered = seatStyleOccupied.Render(padCell("XX", cellWidth))
			case status == catalog.SeatBlocked:
				blocked++
				rendered = seatStyleBlocked.Render(padCell("##", cellWidth))
			case premium:
				available++
				rendered = seatStylePremium.Render(rendered)
			default:
				available++
				rendered = seatStyleAvailable.Render(rendered)
			}
			if r == m.seatRow && c-1 == m.seatCol {
				rendered = cursorStyle.Render(rendered)
			}
			b.WriteString(rendered)
			if c < layout.Columns {
				b.WriteString(" ")
				if slices.Contains(layout.Aisles, c) {
					b.WriteString("  ")
				}
			}
		}
		b.WriteString(fmt.Sprintf(" %*s\n", rowWidth, row))
	}
	b.WriteString("\n")

	legend := "Legend: [] available • yellow premium • XX occupied • ## blocked • highlighted picked"
	total := available + occupied
	percent := float64(available) / float64(max(1, total)) * 100
	counts := fmt.Sprintf("Available: %d • Pairs: %d • Occupied: %d • Blocked: %d • %.0f%% available",
		available-len(m.pickedSeats), countAdjacentPairs(layout), occupied, blocked, percent)

	selection := "No seats picked"
	if len(m.pickedSeats) > 0 {
		sorted := slices.Clone(m.pickedSeats)
		slices.Sort(sorted)
		selection = "Picked: " + strings.Join(sorted, ", ")
		if total, err := catalog.SeatsTotal(show, m.pickedSeats); err == nil {
			selection += " • " + formatPrice(total)
		}
	}
	return b.String() + hint(legend) + "\n" + hint(counts) + "\n" + selection
}

// countAdjacentPairs counts disjoint pairs of neighbouring free seats, the
// usual ask for couples.
func countAdjacentPairs(layout model.SeatLayout) int {
	count := 0
	for _, row := range layout.Rows {
		for c := 1; c < layout.Columns; {
			left := catalog.Status(layout, catalog.SeatID(row, c))
			right := catalog.Status(layout, catalog.SeatID(row, c+1))
			if left == catalog.SeatAvailable && right == catalog.SeatAvailable && !slices.Contains(layout.Aisles, c) {
				count++
				c += 2
				continue
			}
			c++
		}
	}
	return count
}

func padCell(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if text == "" {
		return strings.Repeat(" ", width)
	}
	if len(text) >= width {
		return text[:width]
	}
	padding := width - len(text)
	left := padding / 2
	right := padding - left
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", right)
}

type screenBlock struct {
	top string
	mid string
	bot string
}

func screenBarBlock(width int, label string) screenBlock {
	if width < len(label)+4 {
		width = len(label) + 4
	}
	if width < 10 {
		width = 10
	}

	border := "╭" + strings.Repeat("─", width-2) + "╮"
	bottom := "╰" + strings.Repeat("─", width-2) + "╯"

	labelText := " " + label + " "
	padding := width - len(labelText) - 2
	left := padding / 2
	right := padding - left
	mid := "│" + strings.Repeat(" ", left) + labelText + strings.Repeat(" ", right) + "│"
	return screenBlock{top: border, mid: mid, bot: bottom}
}

package tui

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"

	"cinebook/booking"
	"cinebook/catalog"
	"cinebook/model"
	"cinebook/session"
	"cinebook/validate"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type showItem struct {
	show model.Show
}

func (s showItem) Title() string {
	return s.show.StartsAt.Format("Mon 02 Jan • 15:04")
}

func (s showItem) Description() string {
	left := catalog.SellableSeats(s.show.Layout) - len(s.show.Layout.Booked)
	return fmt.Sprintf("%s, %s • %s • from %s • %d seats left",
		s.show.Theatre, s.show.Screen, s.show.Format, formatPrice(s.show.Price), max(left, 0))
}

func (s showItem) FilterValue() string {
	return strings.ToLower(strings.Join([]string{s.show.Theatre, s.show.Screen, s.show.Format, s.Title()}, " "))
}

type dateItem struct {
	date model.EventDate
}

func (d dateItem) Title() string {
	return d.date.StartsAt.Format("Mon 02 Jan • 15:04")
}

func (d dateItem) Description() string {
	return d.date.StartsAt.Format("2006-01-02")
}

func (d dateItem) FilterValue() string {
	return strings.ToLower(d.Title())
}

func newCardForm() form {
	return newForm(
		field{key: "Holder", label: "Cardholder name", limit: 100},
		field{key: "Number", label: "Card number", placeholder: "4242 4242 4242 4242", limit: 23},
		field{key: "Expiry", label: "Expiry", placeholder: "MM/YY", limit: 5},
		field{key: "CVV", label: "CVV", password: true, limit: 4},
	)
}

func (m *appModel) resetBookingUI() {
	if m.cancelPayment != nil {
		m.cancelPayment()
		m.cancelPayment = nil
	}
	m.pickedSeats = nil
	m.seatRow, m.seatCol = 0, 0
	m.zoneCursor = 0
	m.zoneCounts = map[string]int{}
	m.card.reset()
	m.lastRecord = model.BookingRecord{}
	m.showList.ResetFilter()
	m.dateList.ResetFilter()
}

func (m *appModel) prepareMovieBooking() {
	b, ok := m.ctrl.Booking().(*booking.MovieBooking)
	if !ok {
		return
	}
	items := make([]list.Item, 0, len(b.Movie.Shows))
	for _, show := range b.Movie.Shows {
		items = append(items, showItem{show: m.latestShow(b.Movie.Id, show)})
	}
	m.showList.Title = "Showtimes • " + b.Movie.Title
	m.showList.SetItems(items)
}

func (m *appModel) prepareEventBooking() {
	b, ok := m.ctrl.Booking().(*booking.EventBooking)
	if !ok {
		return
	}
	items := make([]list.Item, 0, len(b.Event.Dates))
	for _, date := range b.Event.Dates {
		items = append(items, dateItem{date: date})
	}
	m.dateList.Title = "Dates • " + b.Event.Title
	m.dateList.SetItems(items)
}

// latestShow returns the catalog's copy of show, which reflects seats sold
// after the booking started.
func (m appModel) latestShow(movieID string, show model.Show) model.Show {
	if movie, ok := m.ctrl.Catalog().Movie(movieID); ok {
		for _, candidate := range movie.Shows {
			if candidate.Id == show.Id {
				return candidate
			}
		}
	}
	return show
}

func (m appModel) bookingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if m.ctrl.Booking() == nil {
		if msg.Type == tea.KeyEnter {
			cmd := m.goTo(m.ctrl.Session().HomePath())
			return m, cmd, true
		}
		return m, nil, false
	}

	switch m.ctrl.Step() {
	case booking.StepTargetSelected:
		return m.scheduleKey(msg)
	case booking.StepScheduleSelected:
		if m.state == stateBookingMovie {
			return m.seatKey(msg)
		}
		return m.zoneKey(msg)
	case booking.StepInventorySelected:
		return m.paymentKey(msg)
	case booking.StepPaid:
		switch msg.String() {
		case "enter":
			m.resetBookingUI()
			cmd := m.goTo(m.ctrl.StartNewBooking())
			return m, cmd, true
		case "ctrl+b":
			m.resetBookingUI()
			m.ctrl.StartNewBooking()
			cmd := m.goTo(session.PathBookings)
			return m, cmd, true
		}
	}
	return m, nil, false
}

func (m appModel) scheduleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if msg.Type != tea.KeyEnter {
		return m, nil, false
	}
	var err error
	if m.state == stateBookingMovie {
		item, ok := m.showList.SelectedItem().(showItem)
		if !ok {
			return m, nil, true
		}
		err = m.ctrl.SelectShowtime(item.show.Id)
	} else {
		item, ok := m.dateList.SelectedItem().(dateItem)
		if !ok {
			return m, nil, true
		}
		err = m.ctrl.SelectDate(item.date.Id)
	}
	if err != nil {
		m.setError(err)
		return m, nil, true
	}
	m.clearNotice()
	m.seatRow, m.seatCol = 0, 0
	m.zoneCursor = 0
	return m, nil, true
}

func (m appModel) zoneKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	b, ok := m.ctrl.Booking().(*booking.EventBooking)
	if !ok {
		return m, nil, false
	}
	zones := m.currentZones(b)
	if len(zones) == 0 {
		return m, nil, false
	}
	zone := zones[min(m.zoneCursor, len(zones)-1)]

	switch msg.String() {
	case "up", "k":
		m.zoneCursor = max(m.zoneCursor-1, 0)
	case "down", "j":
		m.zoneCursor = min(m.zoneCursor+1, len(zones)-1)
	case "+", "=", "right", "l":
		next := m.zoneCounts[zone.Id] + 1
		if next > zone.Available || (zone.MaxPerUser > 0 && next > zone.MaxPerUser) {
			m.setError(fmt.Errorf("no more tickets available in %s", zone.Name))
			return m, nil, true
		}
		m.zoneCounts = maps.Clone(m.zoneCounts)
		m.zoneCounts[zone.Id] = next
		m.clearNotice()
	case "-", "left", "h":
		if m.zoneCounts[zone.Id] > 0 {
			m.zoneCounts = maps.Clone(m.zoneCounts)
			m.zoneCounts[zone.Id]--
		}
	case "enter":
		if err := m.ctrl.SelectZones(m.zoneCounts); err != nil {
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

func (m appModel) paymentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if m.ctrl.Payment().State == booking.PaymentProcessing {
		return m, nil, true
	}
	switch msg.String() {
	case "tab", "down":
		cmd := m.card.next()
		return m, cmd, true
	case "shift+tab", "up":
		cmd := m.card.prev()
		return m, cmd, true
	case "enter":
		if !m.card.onLast() {
			cmd := m.card.next()
			return m, cmd, true
		}
		charge, err := m.ctrl.BeginPayment(validate.CardForm{
			Holder: m.card.value("Holder"),
			Number: m.card.value("Number"),
			Expiry: m.card.value("Expiry"),
			CVV:    m.card.value("CVV"),
		})
		if err != nil {
			m.card.err = err
			return m, nil, true
		}
		m.card.err = nil
		m.clearNotice()
		ctx, cancel := context.WithCancel(context.Background())
		m.cancelPayment = cancel
		return m, tea.Batch(m.chargeCmd(ctx, charge), m.spinner.Tick), true
	}
	return m, nil, false
}

func (m appModel) chargeCmd(ctx context.Context, charge booking.Charge) tea.Cmd {
	return func() tea.Msg {
		return paymentMsg{err: m.ctrl.Charge(ctx, charge)}
	}
}

func paymentError(err error) error {
	switch {
	case errors.Is(err, booking.ErrCardDeclined):
		return errors.New("card declined, check the details or try another card")
	case errors.Is(err, context.Canceled):
		return errors.New("payment cancelled")
	}
	return err
}

func (m appModel) movieBookingView() string {
	b, ok := m.ctrl.Booking().(*booking.MovieBooking)
	if !ok {
		return panel(m.width, "No booking in progress.\n\n"+hint("Press enter to go home."))
	}
	switch m.ctrl.Step() {
	case booking.StepTargetSelected:
		return m.showList.View()
	case booking.StepScheduleSelected:
		show := m.latestShow(b.Movie.Id, *b.Show)
		return lipgloss.NewStyle().Bold(true).Render(b.Movie.Title) + "  " + hint(showLine(show)) + "\n\n" + m.renderSeatMap(show)
	case booking.StepInventorySelected:
		summary := []string{
			lipgloss.NewStyle().Bold(true).Render(b.Movie.Title),
			showLine(*b.Show),
			"Seats: " + strings.Join(b.Seats, ", "),
		}
		return m.paymentView(summary)
	}
	return m.confirmationView()
}

func (m appModel) eventBookingView() string {
	b, ok := m.ctrl.Booking().(*booking.EventBooking)
	if !ok {
		return panel(m.width, "No booking in progress.\n\n"+hint("Press enter to go home."))
	}
	switch m.ctrl.Step() {
	case booking.StepTargetSelected:
		return m.dateList.View()
	case booking.StepScheduleSelected:
		return m.zonePickerView(b)
	case booking.StepInventorySelected:
		summary := []string{
			lipgloss.NewStyle().Bold(true).Render(b.Event.Title),
			b.Event.Venue + " • " + formatSchedule(b.Date.StartsAt),
		}
		summary = append(summary, catalog.ZoneSummary(b.Event, b.Zones)...)
		return m.paymentView(summary)
	}
	return m.confirmationView()
}

func (m appModel) currentZones(b *booking.EventBooking) []model.Zone {
	if event, ok := m.ctrl.Catalog().Event(b.Event.Id); ok {
		return event.Zones
	}
	return b.Event.Zones
}

func (m appModel) zonePickerView(b *booking.EventBooking) string {
	zones := m.currentZones(b)
	event := b.Event
	event.Zones = zones

	var rows []string
	cursor := lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	for i, zone := range zones {
		count := m.zoneCounts[zone.Id]
		line := fmt.Sprintf("%-14s %10s   %3d left   [ %d ]", zone.Name, formatPrice(zone.Price), zone.Available, count)
		if i == m.zoneCursor {
			rows = append(rows, cursor.Render("› "+line))
		} else {
			rows = append(rows, "  "+line)
		}
	}
	subtotal := "Select at least one ticket"
	if total, err := catalog.ZonesTotal(event, m.zoneCounts); err == nil {
		subtotal = "Subtotal: " + formatPrice(total)
	}
	title := lipgloss.NewStyle().Bold(true).Render(b.Event.Title) + "  " + hint(b.Event.Venue+" • "+formatSchedule(b.Date.StartsAt))
	return title + "\n\n" + strings.Join(rows, "\n") + "\n\n" + hint(subtotal)
}

func (m appModel) paymentView(summary []string) string {
	total, _ := m.ctrl.TotalPrice()
	lines := append([]string{}, summary...)
	lines = append(lines, "", lipgloss.NewStyle().Bold(true).Render("Total: "+formatPrice(total)), "")

	payment := m.ctrl.Payment()
	if payment.State == booking.PaymentProcessing {
		lines = append(lines, m.spinner.View()+" Processing payment...")
		return panel(m.width, strings.Join(lines, "\n"))
	}
	lines = append(lines, m.card.view())
	if payment.State == booking.PaymentFailed {
		lines = append(lines, hint(fmt.Sprintf("Attempt %d failed. Press enter to retry.", payment.Attempts)))
	}
	return panel(m.width, strings.Join(lines, "\n"))
}

func (m appModel) confirmationView() string {
	record := m.lastRecord
	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")).Render("Booking confirmed"),
		"",
		record.Title,
		record.Venue + " • " + formatSchedule(record.Schedule),
		strings.Join(record.Items, ", "),
		"",
		"Paid: " + formatPrice(record.TotalPrice),
		hint("Reference: " + record.Reference),
	}
	return panel(m.width, strings.Join(lines, "\n"))
}

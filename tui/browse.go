package tui

import (
	"fmt"
	"strings"
	"time"

	"cinebook/model"
	"cinebook/session"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type movieItem struct {
	movie model.Movie
}

func (m movieItem) Title() string {
	return m.movie.Title
}

func (m movieItem) Description() string {
	parts := []string{strings.Join(m.movie.Genres, ", ")}
	if m.movie.Duration != "" {
		parts = append(parts, m.movie.Duration)
	}
	if m.movie.Rating > 0 {
		parts = append(parts, fmt.Sprintf("★ %.1f", m.movie.Rating))
	}
	parts = append(parts, fmt.Sprintf("%d shows", len(m.movie.Shows)))
	return strings.Join(parts, " • ")
}

func (m movieItem) FilterValue() string {
	return strings.ToLower(strings.Join(append([]string{m.movie.Title, m.movie.Language}, m.movie.Genres...), " "))
}

type eventItem struct {
	event model.Event
}

func (e eventItem) Title() string {
	return e.event.Title
}

func (e eventItem) Description() string {
	parts := []string{e.event.Category, e.event.Venue}
	if e.event.City != "" {
		parts = append(parts, e.event.City)
	}
	if len(e.event.Dates) > 0 {
		parts = append(parts, e.event.Dates[0].StartsAt.Format("Mon 02 Jan"))
	}
	return strings.Join(parts, " • ")
}

func (e eventItem) FilterValue() string {
	return strings.ToLower(strings.Join([]string{e.event.Title, e.event.Category, e.event.Venue, e.event.City}, " "))
}

type menuItem struct {
	intent session.Intent
}

func (m menuItem) Title() string       { return m.intent.Label() }
func (m menuItem) Description() string { return "" }
func (m menuItem) FilterValue() string { return string(m.intent) }

func buildMovieItems(movies []model.Movie) []list.Item {
	items := make([]list.Item, 0, len(movies))
	for _, movie := range movies {
		items = append(items, movieItem{movie: movie})
	}
	return items
}

func buildEventItems(events []model.Event) []list.Item {
	items := make([]list.Item, 0, len(events))
	for _, event := range events {
		items = append(items, eventItem{event: event})
	}
	return items
}

func (m appModel) homeView() string {
	active := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("63")).Padding(0, 1)
	inactive := lipgloss.NewStyle().Faint(true).Padding(0, 1)
	movies, events := inactive.Render("Movies"), inactive.Render("Events")
	if m.homeTab == tabEvents {
		events = active.Render("Events")
		return lipgloss.JoinHorizontal(lipgloss.Top, movies, events) + "\n\n" + m.eventList.View()
	}
	movies = active.Render("Movies")
	return lipgloss.JoinHorizontal(lipgloss.Top, movies, events) + "\n\n" + m.movieList.View()
}

func (m appModel) homeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "shift+tab":
		if m.homeTab == tabMovies {
			m.homeTab = tabEvents
		} else {
			m.homeTab = tabMovies
		}
		return m, nil, true
	case "ctrl+w":
		cmd := m.goTo(session.PathWishlist)
		return m, cmd, true
	case "enter":
		if m.homeTab == tabEvents {
			item, ok := m.eventList.SelectedItem().(eventItem)
			if !ok {
				return m, nil, true
			}
			cmd := m.goTo(session.EventPath(item.event.Id))
			return m, cmd, true
		}
		item, ok := m.movieList.SelectedItem().(movieItem)
		if !ok {
			return m, nil, true
		}
		cmd := m.goTo(session.MoviePath(item.movie.Id))
		return m, cmd, true
	}
	return m, nil, false
}

func (m appModel) movieView() string {
	movie, ok := m.ctrl.Catalog().Movie(session.Param(m.ctrl.Path()))
	if !ok {
		return panel(m.width, "Movie not found.\n\n"+hint("Press esc to go back."))
	}
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(movie.Title) + m.wishlistMark(model.BookingKindMovie, movie.Id),
		hint(movieItem{movie: movie}.Description()),
		"",
		movie.Synopsis,
		"",
		lipgloss.NewStyle().Bold(true).Render("Showtimes"),
	}
	for _, show := range movie.Shows {
		lines = append(lines, "  "+showLine(show))
	}
	return panel(m.width, strings.Join(lines, "\n"))
}

func (m appModel) eventView() string {
	event, ok := m.ctrl.Catalog().Event(session.Param(m.ctrl.Path()))
	if !ok {
		return panel(m.width, "Event not found.\n\n"+hint("Press esc to go back."))
	}
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(event.Title) + m.wishlistMark(model.BookingKindEvent, event.Id),
		hint(strings.Join([]string{event.Category, event.Venue, event.City}, " • ")),
		"",
		event.Description,
		"",
		lipgloss.NewStyle().Bold(true).Render("Dates"),
	}
	for _, date := range event.Dates {
		lines = append(lines, "  "+date.StartsAt.Format("Mon 02 Jan 15:04"))
	}
	lines = append(lines, "", lipgloss.NewStyle().Bold(true).Render("Zones"))
	for _, zone := range event.Zones {
		lines = append(lines, fmt.Sprintf("  %-14s %10s  %d left", zone.Name, formatPrice(zone.Price), zone.Available))
	}
	return panel(m.width, strings.Join(lines, "\n"))
}

func (m appModel) wishlistMark(kind model.BookingKind, id string) string {
	if m.ctrl.InWishlist(kind, id) {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render("  ♥ in wishlist")
	}
	return ""
}

func (m appModel) detailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	id := session.Param(m.ctrl.Path())
	kind := model.BookingKindMovie
	if m.state == stateEvent {
		kind = model.BookingKindEvent
	}

	switch msg.String() {
	case "w":
		added, err := m.ctrl.ToggleWishlist(kind, id)
		if err != nil {
			m.setError(err)
			return m, nil, true
		}
		if added {
			m.setInfo("Added to wishlist")
		} else {
			m.setInfo("Removed from wishlist")
		}
		return m, nil, true
	case "enter":
		var err error
		if kind == model.BookingKindEvent {
			err = m.ctrl.SelectEvent(id)
		} else {
			err = m.ctrl.SelectMovie(id)
		}
		if err != nil {
			m.setError(err)
			return m, nil, true
		}
		m.resetBookingUI()
		m.clearNotice()
		m.state = stateFor(m.ctrl.Path())
		cmd := m.enter()
		return m, cmd, true
	}
	return m, nil, false
}

func showLine(show model.Show) string {
	return fmt.Sprintf("%s  %s, %s  %s  from %s",
		show.StartsAt.Format("Mon 02 Jan 15:04"),
		show.Theatre,
		show.Screen,
		show.Format,
		formatPrice(show.Price),
	)
}

func formatSchedule(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("Mon 02 Jan 15:04")
}

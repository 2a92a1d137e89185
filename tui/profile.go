package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cinebook/model"
	"cinebook/session"
	"cinebook/validate"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func newProfileForm() form {
	return newForm(
		field{key: "Name", label: "Name", limit: 100},
		field{key: "Email", label: "Email"},
		field{key: "Phone", label: "Phone", placeholder: "+91 98765 43210", limit: 20},
		field{key: "Location", label: "Location", placeholder: "City", limit: 100},
		field{key: "Bio", label: "Bio", limit: 500},
	)
}

func newUploadForm() form {
	return newForm(field{key: "Image", label: "Image file", placeholder: "~/Pictures/me.png"})
}

// fillProfile copies the session user into the settings form.
func (m *appModel) fillProfile() {
	s := m.ctrl.Session()
	if s.User == nil {
		return
	}
	m.profile.set("Name", s.User.Name)
	m.profile.set("Email", s.User.Email)
	m.profile.set("Phone", s.User.Phone)
	m.profile.set("Location", s.User.Location)
	m.profile.set("Bio", s.User.Bio)
	m.profile.err = nil
}

func (m appModel) settingsView() string {
	s := m.ctrl.Session()
	if s.User == nil {
		return ""
	}
	picture := "none"
	if s.User.ProfileImageUrl != "" {
		picture = s.User.ProfileImageUrl
	}
	header := lipgloss.NewStyle().Bold(true).Render("Profile settings") + "\n" +
		hint(fmt.Sprintf("%s account • picture: %s", s.User.Role, picture))

	profile := m.profile.view()
	upload := m.upload.view()
	active := lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	if m.uploadFocus {
		upload = active.Render("› Picture") + "\n" + upload
		profile = hint("  Details") + "\n" + profile
	} else {
		profile = active.Render("› Details") + "\n" + profile
		upload = hint("  Picture") + "\n" + upload
	}

	body := header + "\n\n" + profile + "\n" + upload
	if m.profile.submitting {
		body += "\n" + m.spinner.View() + " Saving..."
	}
	if m.upload.submitting {
		body += "\n" + m.spinner.View() + " Uploading..."
	}
	if m.locating {
		body += "\n" + m.spinner.View() + " Detecting location..."
	}
	return panel(m.width, body)
}

func (m appModel) settingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	f := m.activeForm()
	switch msg.String() {
	case "ctrl+u":
		f.blur()
		m.uploadFocus = !m.uploadFocus
		cmd := m.activeForm().setFocus(0)
		return m, cmd, true
	case "ctrl+l":
		if m.uploadFocus || m.locating {
			return m, nil, true
		}
		m.locating = true
		m.clearNotice()
		return m, tea.Batch(m.locateCmd(), m.spinner.Tick), true
	case "tab", "down":
		cmd := f.next()
		return m, cmd, true
	case "shift+tab", "up":
		cmd := f.prev()
		return m, cmd, true
	case "enter":
		if !f.onLast() {
			cmd := f.next()
			return m, cmd, true
		}
		if f.submitting {
			return m, nil, true
		}
		f.submitting = true
		f.err = nil
		m.clearNotice()
		if m.uploadFocus {
			return m, tea.Batch(m.uploadCmd(m.ctrl.Session(), expandHome(m.upload.value("Image"))), m.spinner.Tick), true
		}
		form := validate.ProfileForm{
			Name:     m.profile.value("Name"),
			Email:    m.profile.value("Email"),
			Phone:    m.profile.value("Phone"),
			Location: m.profile.value("Location"),
			Bio:      m.profile.value("Bio"),
		}
		return m, tea.Batch(m.profileCmd(m.ctrl.Session(), form), m.spinner.Tick), true
	}
	return m, nil, false
}

func (m appModel) profileCmd(s session.Session, form validate.ProfileForm) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		user, err := m.ctrl.RequestProfileUpdate(ctx, s, form)
		return profileMsg{userID: userID(s), user: user, err: err}
	}
}

func (m appModel) locateCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		city, err := m.ctrl.RequestCity(ctx)
		return cityMsg{city: city, err: err}
	}
}

func (m appModel) uploadCmd(s session.Session, path string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		url, err := m.ctrl.RequestImageUpload(ctx, s, path)
		return uploadMsg{userID: userID(s), url: url, err: err}
	}
}

type bookingItem struct {
	record model.BookingRecord
}

func (b bookingItem) Title() string {
	return b.record.Title
}

func (b bookingItem) Description() string {
	return strings.Join([]string{
		formatSchedule(b.record.Schedule),
		b.record.Venue,
		strings.Join(b.record.Items, ", "),
		formatPrice(b.record.TotalPrice),
	}, " • ")
}

func (b bookingItem) FilterValue() string {
	return strings.ToLower(strings.Join([]string{b.record.Title, b.record.Venue, b.record.Reference}, " "))
}

func buildBookingItems(records []model.BookingRecord) []list.Item {
	items := make([]list.Item, 0, len(records))
	for _, record := range records {
		items = append(items, bookingItem{record: record})
	}
	return items
}

type wishlistItem struct {
	item model.WishlistItem
}

func (w wishlistItem) Title() string {
	return w.item.Title
}

func (w wishlistItem) Description() string {
	return fmt.Sprintf("%s • added %s", w.item.Kind, w.item.AddedAt.Format("02 Jan 2006"))
}

func (w wishlistItem) FilterValue() string {
	return strings.ToLower(w.item.Title)
}

func (m *appModel) refreshWishlist() {
	items, err := m.ctrl.Wishlist()
	if err != nil {
		m.setError(err)
	}
	out := make([]list.Item, 0, len(items))
	for _, item := range items {
		out = append(out, wishlistItem{item: item})
	}
	m.wishList.SetItems(out)
}

func (m appModel) wishlistKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	item, ok := m.wishList.SelectedItem().(wishlistItem)
	switch msg.String() {
	case "enter":
		if !ok {
			return m, nil, true
		}
		path := session.MoviePath(item.item.TargetId)
		if item.item.Kind == model.BookingKindEvent {
			path = session.EventPath(item.item.TargetId)
		}
		cmd := m.goTo(path)
		return m, cmd, true
	case "ctrl+x":
		if !ok {
			return m, nil, true
		}
		if _, err := m.ctrl.ToggleWishlist(item.item.Kind, item.item.TargetId); err != nil {
			m.setError(err)
			return m, nil, true
		}
		m.refreshWishlist()
		m.setInfo("Removed from wishlist")
		return m, nil, true
	}
	return m, nil, false
}

func userID(s session.Session) int64 {
	if s.User == nil {
		return 0
	}
	return s.User.Id
}

func expandHome(path string) string {
	path = strings.TrimSpace(path)
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

package tui

import (
	"context"
	"strings"

	"cinebook/model"
	"cinebook/validate"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func newLoginForm() form {
	return newForm(
		field{key: "Email", label: "Email", placeholder: "you@example.com"},
		field{key: "Password", label: "Password", password: true},
	)
}

func newRegisterForm() form {
	return newForm(
		field{key: "Name", label: "Name", limit: 100},
		field{key: "Email", label: "Email", placeholder: "you@example.com"},
		field{key: "Password", label: "Password", placeholder: "at least 6 characters", password: true},
		field{key: "TheatreName", label: "Theatre name", limit: 120},
	)
}

func (m appModel) landingView() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("63")).
		Padding(0, 2).
		Render("Movies & Events")
	lines := []string{
		title,
		"",
		"Book movie seats and event tickets from your terminal.",
		"",
	}
	if s := m.ctrl.Session(); s.Authenticated && s.User != nil {
		lines = append(lines, "Welcome back, "+s.User.Name+".", hint("Press enter to continue."))
	} else {
		lines = append(lines, hint("Press l to sign in or r to create an account."))
	}
	return panel(m.width, strings.Join(lines, "\n"))
}

func (m appModel) landingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	authenticated := m.ctrl.Session().Authenticated
	switch {
	case msg.Type == tea.KeyEnter && authenticated:
		cmd := m.goTo(m.ctrl.Session().HomePath())
		return m, cmd, true
	case msg.String() == "l" && !authenticated:
		cmd := m.goTo("/login")
		return m, cmd, true
	case msg.String() == "r" && !authenticated:
		cmd := m.goTo("/register")
		return m, cmd, true
	}
	return m, nil, false
}

func (m appModel) loginView() string {
	body := lipgloss.NewStyle().Bold(true).Render("Sign in") + "\n\n" + m.login.view()
	if m.login.submitting {
		body += "\n" + m.spinner.View() + " Signing in..."
	}
	return panel(m.width, body)
}

func (m appModel) loginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "down":
		cmd := m.login.next()
		return m, cmd, true
	case "shift+tab", "up":
		cmd := m.login.prev()
		return m, cmd, true
	case "ctrl+r":
		cmd := m.goTo("/register")
		return m, cmd, true
	case "enter":
		if !m.login.onLast() {
			cmd := m.login.next()
			return m, cmd, true
		}
		if m.login.submitting {
			return m, nil, true
		}
		m.login.submitting = true
		m.login.err = nil
		m.clearNotice()
		return m, tea.Batch(m.loginCmd(m.login.value("Email"), m.login.value("Password")), m.spinner.Tick), true
	}
	return m, nil, false
}

func (m appModel) registerView() string {
	role := "User"
	if m.registerRole == model.RoleOwner {
		role = "Theatre owner"
	}
	body := lipgloss.NewStyle().Bold(true).Render("Create account") + "\n\n" +
		lipgloss.NewStyle().Width(18).Render("Account type") + " " + role + hint("  (ctrl+o to switch)") + "\n" +
		m.register.view()
	if m.register.submitting {
		body += "\n" + m.spinner.View() + " Creating account..."
	}
	return panel(m.width, body)
}

func (m appModel) registerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "down":
		cmd := m.register.next()
		return m, cmd, true
	case "shift+tab", "up":
		cmd := m.register.prev()
		return m, cmd, true
	case "ctrl+l":
		cmd := m.goTo("/login")
		return m, cmd, true
	case "ctrl+o":
		if m.registerRole == model.RoleOwner {
			m.setRegisterRole(model.RoleUser)
		} else {
			m.setRegisterRole(model.RoleOwner)
		}
		return m, nil, true
	case "enter":
		if !m.register.onLast() {
			cmd := m.register.next()
			return m, cmd, true
		}
		if m.register.submitting {
			return m, nil, true
		}
		m.register.submitting = true
		m.register.err = nil
		m.clearNotice()
		form := validate.RegisterForm{
			Name:        m.register.value("Name"),
			Email:       m.register.value("Email"),
			Password:    m.register.value("Password"),
			Role:        m.registerRole,
			TheatreName: m.register.value("TheatreName"),
		}
		return m, tea.Batch(m.registerCmd(form), m.spinner.Tick), true
	}
	return m, nil, false
}

func (m *appModel) setRegisterRole(role model.Role) {
	m.registerRole = role
	m.register.hide("TheatreName", role != model.RoleOwner)
}

func (m appModel) loginCmd(email string, password string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		s, err := m.ctrl.RequestLogin(ctx, email, password)
		return loginMsg{session: s, err: err}
	}
}

func (m appModel) registerCmd(form validate.RegisterForm) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		result, err := m.ctrl.RequestRegister(ctx, form)
		return registerMsg{result: result, err: err}
	}
}

func panel(width int, content string) string {
	style := lipgloss.NewStyle().
		Padding(1, 3).
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("63"))
	if width > 56 {
		style = style.Width(min(width-8, 84))
	}
	out := style.Render(content)
	if width > 0 {
		out = lipgloss.PlaceHorizontal(width, lipgloss.Center, out)
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(out)
}

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cinebook/booking"
	"cinebook/controller"
	"cinebook/model"
	"cinebook/session"
	"cinebook/validate"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type appState int

const (
	stateLanding appState = iota
	stateLogin
	stateRegister
	stateHome
	stateMovie
	stateEvent
	stateBookingMovie
	stateBookingEvent
	stateSettings
	stateBookings
	stateWishlist
	stateOwnerDashboard
	stateMenu
)

type homeTab int

const (
	tabMovies homeTab = iota
	tabEvents
)

type appModel struct {
	ctrl *controller.Controller

	state     appState
	lastState appState

	width  int
	height int

	notice    string
	noticeErr bool

	homeTab     homeTab
	movieList   list.Model
	eventList   list.Model
	showList    list.Model
	dateList    list.Model
	bookingList list.Model
	wishList    list.Model
	menuList    list.Model

	login        form
	register     form
	registerRole model.Role
	profile      form
	upload       form
	uploadFocus  bool
	locating     bool
	card         form

	gotoInput  textinput.Model
	gotoActive bool

	seatRow         int
	seatCol         int
	pickedSeats     []string
	showSeatNumbers bool

	zoneCursor int
	zoneCounts map[string]int

	lastRecord    model.BookingRecord
	cancelPayment context.CancelFunc

	spinner spinner.Model
}

type loginMsg struct {
	session session.Session
	err     error
}

type registerMsg struct {
	result controller.RegisterResult
	err    error
}

type profileMsg struct {
	userID int64
	user   model.User
	err    error
}

type uploadMsg struct {
	userID int64
	url    string
	err    error
}

type cityMsg struct {
	city string
	err  error
}

type paymentMsg struct {
	err error
}

// New builds the TUI around ctrl. A session restored before the program
// starts lands on its home page.
func New(ctrl *controller.Controller) tea.Model {
	m := appModel{
		ctrl:         ctrl,
		registerRole: model.RoleUser,
		zoneCounts:   map[string]int{},
	}

	m.movieList = newList("Movies")
	m.eventList = newList("Events")
	m.showList = newList("Showtimes")
	m.dateList = newList("Dates")
	m.bookingList = newList("My Bookings")
	m.wishList = newList("Wishlist")
	m.menuList = newList("Menu")
	m.menuList.SetFilteringEnabled(false)
	m.movieList.SetItems(buildMovieItems(ctrl.Catalog().Movies()))
	m.eventList.SetItems(buildEventItems(ctrl.Catalog().Events()))

	m.login = newLoginForm()
	m.register = newRegisterForm()
	m.register.hide("TheatreName", true)
	m.profile = newProfileForm()
	m.upload = newUploadForm()
	m.card = newCardForm()

	m.gotoInput = textinput.New()
	m.gotoInput.Prompt = "go to: "
	m.gotoInput.Placeholder = "/home"

	m.showSeatNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	m.spinner = sp

	m.state = stateFor(ctrl.Path())
	m.enter()
	return m
}

func (m appModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case tea.KeyMsg:
		if m.gotoActive {
			return m.handleGotoKey(msg)
		}
		if m.handleFilterInput(msg) {
			return m, nil
		}
		next, cmd, handled := m.handleKey(msg)
		if handled {
			return next, cmd
		}
		if f := m.activeForm(); f != nil {
			cmd := f.update(msg)
			return m, cmd
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.isBusy() {
			return m, cmd
		}
		return m, nil

	case loginMsg:
		m.login.submitting = false
		if msg.err != nil {
			m.formError(&m.login, msg.err)
			return m, nil
		}
		m.login.reset()
		m.clearNotice()
		cmd := m.goTo(m.ctrl.Open(msg.session))
		return m, cmd

	case registerMsg:
		m.register.submitting = false
		if msg.err != nil {
			m.formError(&m.register, msg.err)
			return m, nil
		}
		m.register.reset()
		m.setRegisterRole(model.RoleUser)
		path := m.ctrl.ApplyRegister(msg.result)
		if msg.result.Outcome == controller.RegisteredOwner {
			m.login.reset()
			m.setInfo(msg.result.Message)
		}
		cmd := m.goTo(path)
		return m, cmd

	case profileMsg:
		m.profile.submitting = false
		if msg.err != nil {
			m.formError(&m.profile, msg.err)
			return m, nil
		}
		if !m.ctrl.ApplyUser(msg.userID, msg.user) {
			return m, nil
		}
		m.fillProfile()
		m.setInfo("Profile updated")
		return m, nil

	case uploadMsg:
		m.upload.submitting = false
		if msg.err != nil {
			m.formError(&m.upload, msg.err)
			return m, nil
		}
		if !m.ctrl.ApplyImage(msg.userID, msg.url) {
			return m, nil
		}
		m.upload.reset()
		m.setInfo("Profile picture updated")
		return m, nil

	case cityMsg:
		m.locating = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.profile.set("Location", msg.city)
		m.setInfo("Location set to " + msg.city)
		return m, nil

	case paymentMsg:
		m.cancelPayment = nil
		record, err := m.ctrl.ResolvePayment(msg.err)
		if errors.Is(err, booking.ErrPaymentNotStarted) {
			return m, nil
		}
		if err != nil && record.Reference == "" {
			m.card.err = paymentError(err)
			return m, nil
		}
		m.lastRecord = record
		m.card.reset()
		m.pickedSeats = nil
		m.zoneCounts = map[string]int{}
		if err != nil {
			m.setError(err)
		} else {
			m.setInfo("Payment successful")
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state {
	case stateHome:
		if m.homeTab == tabEvents {
			m.eventList, cmd = m.eventList.Update(msg)
		} else {
			m.movieList, cmd = m.movieList.Update(msg)
		}
	case stateBookingMovie:
		if m.ctrl.Step() == booking.StepTargetSelected {
			m.showList, cmd = m.showList.Update(msg)
		}
	case stateBookingEvent:
		if m.ctrl.Step() == booking.StepTargetSelected {
			m.dateList, cmd = m.dateList.Update(msg)
		}
	case stateBookings:
		m.bookingList, cmd = m.bookingList.Update(msg)
	case stateWishlist:
		m.wishList, cmd = m.wishList.Update(msg)
	case stateMenu:
		m.menuList, cmd = m.menuList.Update(msg)
	}
	return m, cmd
}

func (m appModel) View() string {
	header := m.headerView()
	var body string
	switch m.state {
	case stateLanding:
		body = m.landingView()
	case stateLogin:
		body = m.loginView()
	case stateRegister:
		body = m.registerView()
	case stateHome:
		body = m.homeView()
	case stateMovie:
		body = m.movieView()
	case stateEvent:
		body = m.eventView()
	case stateBookingMovie:
		body = m.movieBookingView()
	case stateBookingEvent:
		body = m.eventBookingView()
	case stateSettings:
		body = m.settingsView()
	case stateBookings:
		body = m.bookingList.View()
	case stateWishlist:
		body = m.wishList.View()
	case stateOwnerDashboard:
		body = m.dashboardView()
	case stateMenu:
		body = m.menuList.View()
	}
	return header + "\n\n" + body
}

func (m appModel) headerView() string {
	title := lipgloss.NewStyle().Bold(true).Render("cinebook")
	sub := []string{m.ctrl.Path()}
	s := m.ctrl.Session()
	if s.Authenticated && s.User != nil {
		sub = append(sub, fmt.Sprintf("%s (%s)", s.User.Name, s.User.Role))
		if s.User.TheatreName != "" {
			sub = append(sub, s.User.TheatreName)
		}
	} else {
		sub = append(sub, "guest")
	}
	if m.state == stateBookingMovie || m.state == stateBookingEvent {
		sub = append(sub, fmt.Sprintf("Step %d/4: %s", int(m.ctrl.Step()), m.ctrl.Step()))
		if total, ok := m.ctrl.TotalPrice(); ok {
			sub = append(sub, "Total: "+formatPrice(total))
		}
	}
	meta := "\n" + lipgloss.NewStyle().Faint(true).Render(strings.Join(sub, " • "))

	filterLine := ""
	if listPtr := m.activeList(); listPtr != nil {
		if filter := listPtr.FilterValue(); filter != "" {
			filterLine = "\n" + hint(fmt.Sprintf("Filter: %s", filter))
		}
	}
	noticeLine := ""
	if m.notice != "" {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
		if m.noticeErr {
			style = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
		}
		noticeLine = "\n" + style.Render(m.notice)
	}
	gotoLine := ""
	if m.gotoActive {
		gotoLine = "\n" + m.gotoInput.View()
	}
	return title + meta + filterLine + noticeLine + gotoLine + "\n" + hint(m.hints())
}

func (m appModel) hints() string {
	switch m.state {
	case stateLanding:
		if m.ctrl.Session().Authenticated {
			return "ctrl+c quit • enter home • ctrl+p menu • ctrl+g go to"
		}
		return "ctrl+c quit • l login • r register • ctrl+g go to"
	case stateLogin:
		return "ctrl+c quit • esc back • tab next field • enter submit • ctrl+r register"
	case stateRegister:
		return "ctrl+c quit • esc back • tab next field • ctrl+o toggle owner • enter submit • ctrl+l login"
	case stateHome:
		return "ctrl+c quit • type to filter • tab movies/events • enter open • ctrl+w wishlist • ctrl+p menu"
	case stateMovie, stateEvent:
		return "ctrl+c quit • esc back • enter book • w toggle wishlist • ctrl+p menu"
	case stateBookingMovie:
		switch m.ctrl.Step() {
		case booking.StepTargetSelected:
			return "ctrl+c quit • esc cancel booking • enter pick showtime"
		case booking.StepScheduleSelected:
			return "ctrl+c quit • esc cancel booking • arrows move • space pick seat • n toggle numbers • enter continue"
		}
	case stateBookingEvent:
		switch m.ctrl.Step() {
		case booking.StepTargetSelected:
			return "ctrl+c quit • esc cancel booking • enter pick date"
		case booking.StepScheduleSelected:
			return "ctrl+c quit • esc cancel booking • up/down zone • +/- tickets • enter continue"
		}
	case stateSettings:
		return "ctrl+c quit • esc back • tab next field • enter save • ctrl+l detect location • ctrl+u switch to picture upload"
	case stateBookings:
		return "ctrl+c quit • esc back • type to filter • ctrl+p menu"
	case stateWishlist:
		return "ctrl+c quit • esc back • enter open • ctrl+x remove • ctrl+p menu"
	case stateOwnerDashboard:
		return "ctrl+c quit • ctrl+p menu • ctrl+g go to"
	case stateMenu:
		return "ctrl+c quit • esc close • enter select"
	}
	if m.state == stateBookingMovie || m.state == stateBookingEvent {
		switch m.ctrl.Step() {
		case booking.StepInventorySelected:
			if m.ctrl.Payment().State == booking.PaymentProcessing {
				return "ctrl+c quit • esc cancel payment"
			}
			return "ctrl+c quit • esc cancel booking • tab next field • enter pay"
		case booking.StepPaid:
			return "ctrl+c quit • enter new booking • ctrl+b my bookings"
		}
	}
	return "ctrl+c quit"
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		if m.cancelPayment != nil {
			m.cancelPayment()
		}
		return m, tea.Quit, true
	case "ctrl+g":
		m.gotoActive = true
		m.gotoInput.SetValue("")
		cmd := m.gotoInput.Focus()
		return m, cmd, true
	case "ctrl+p":
		if m.ctrl.Session().Authenticated && m.state != stateMenu && !m.isBusy() {
			m.openMenu()
			return m, nil, true
		}
	case "esc":
		if listPtr := m.activeList(); listPtr != nil {
			if listPtr.SettingFilter() || listPtr.IsFiltered() {
				listPtr.ResetFilter()
				return m, nil, true
			}
		}
		next, cmd := m.goBack()
		return next, cmd, true
	}

	switch m.state {
	case stateLanding:
		return m.landingKey(msg)
	case stateLogin:
		return m.loginKey(msg)
	case stateRegister:
		return m.registerKey(msg)
	case stateHome:
		return m.homeKey(msg)
	case stateMovie, stateEvent:
		return m.detailKey(msg)
	case stateBookingMovie, stateBookingEvent:
		return m.bookingKey(msg)
	case stateSettings:
		return m.settingsKey(msg)
	case stateWishlist:
		return m.wishlistKey(msg)
	case stateMenu:
		return m.menuKey(msg)
	}
	return m, nil, false
}

func (m appModel) handleGotoKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.gotoActive = false
		m.gotoInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.gotoActive = false
		m.gotoInput.Blur()
		if m.isBusy() {
			return m, nil
		}
		cmd := m.goTo(m.gotoInput.Value())
		return m, cmd
	case tea.KeyCtrlC:
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.gotoInput, cmd = m.gotoInput.Update(msg)
	return m, cmd
}

// goBack is esc outside of forms and filters.
func (m appModel) goBack() (tea.Model, tea.Cmd) {
	switch m.state {
	case stateLogin, stateRegister:
		cmd := m.goTo(session.PathLanding)
		return m, cmd
	case stateMovie, stateEvent, stateSettings, stateBookings, stateWishlist:
		cmd := m.goTo(m.ctrl.Session().HomePath())
		return m, cmd
	case stateBookingMovie, stateBookingEvent:
		if m.cancelPayment != nil {
			m.cancelPayment()
			return m, nil
		}
		m.resetBookingUI()
		cmd := m.goTo(m.ctrl.GoBack())
		return m, cmd
	case stateMenu:
		m.state = m.lastState
		return m, nil
	}
	return m, nil
}

// goTo navigates through the route guard and prepares the screen it lands on.
func (m *appModel) goTo(path string) tea.Cmd {
	resolved := m.ctrl.Navigate(path)
	m.state = stateFor(resolved)
	return m.enter()
}

// enter loads what the current screen shows.
func (m *appModel) enter() tea.Cmd {
	switch m.state {
	case stateLogin:
		return m.login.setFocus(0)
	case stateRegister:
		return m.register.setFocus(0)
	case stateSettings:
		m.fillProfile()
		m.uploadFocus = false
		return m.profile.setFocus(0)
	case stateBookings:
		records, err := m.ctrl.Bookings()
		if err != nil {
			m.setError(err)
		}
		m.bookingList.SetItems(buildBookingItems(records))
	case stateWishlist:
		m.refreshWishlist()
	case stateBookingMovie:
		m.prepareMovieBooking()
	case stateBookingEvent:
		m.prepareEventBooking()
	}
	return nil
}

func stateFor(path string) appState {
	switch session.Pattern(path) {
	case session.PathLogin:
		return stateLogin
	case session.PathRegister:
		return stateRegister
	case session.PathHome:
		return stateHome
	case session.PathMovie:
		return stateMovie
	case session.PathEvent:
		return stateEvent
	case session.PathBookingMovie:
		return stateBookingMovie
	case session.PathBookingEvent:
		return stateBookingEvent
	case session.PathSettings:
		return stateSettings
	case session.PathBookings:
		return stateBookings
	case session.PathWishlist:
		return stateWishlist
	case session.PathOwnerDashboard:
		return stateOwnerDashboard
	}
	return stateLanding
}

func (m *appModel) openMenu() {
	m.lastState = m.state
	var items []list.Item
	for _, intent := range session.Menu(m.ctrl.Session().Role()) {
		items = append(items, menuItem{intent: intent})
	}
	m.menuList.SetItems(items)
	m.menuList.Select(0)
	m.state = stateMenu
}

func (m appModel) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if msg.Type != tea.KeyEnter {
		return m, nil, false
	}
	item, ok := m.menuList.SelectedItem().(menuItem)
	if !ok {
		return m, nil, true
	}
	if item.intent == session.IntentLogout {
		m.resetBookingUI()
		m.login.reset()
		m.register.reset()
	}
	path, ok := m.ctrl.Dispatch(item.intent)
	if !ok {
		m.state = m.lastState
		return m, nil, true
	}
	if item.intent == session.IntentLogout {
		m.setInfo("Signed out")
	}
	m.state = stateFor(path)
	cmd := m.enter()
	return m, cmd, true
}

func (m *appModel) handleFilterInput(msg tea.KeyMsg) bool {
	listPtr := m.activeList()
	if listPtr == nil {
		return false
	}
	if !listPtr.FilteringEnabled() {
		return false
	}
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return false
		}
		m.appendFilter(listPtr, string(msg.Runes))
		return true
	case tea.KeySpace:
		m.appendFilter(listPtr, " ")
		return true
	case tea.KeyBackspace, tea.KeyDelete:
		if listPtr.FilterValue() == "" {
			return false
		}
		m.popFilter(listPtr)
		return true
	default:
		return false
	}
}

func (m *appModel) appendFilter(listPtr *list.Model, value string) {
	if value == "" {
		return
	}
	current := listPtr.FilterValue()
	listPtr.SetFilterText(current + value)
}

func (m *appModel) popFilter(listPtr *list.Model) {
	value := listPtr.FilterValue()
	if value == "" {
		return
	}
	value = trimLastRune(value)
	if value == "" {
		listPtr.ResetFilter()
		return
	}
	listPtr.SetFilterText(value)
}

func trimLastRune(value string) string {
	runes := []rune(value)
	if len(runes) <= 1 {
		return ""
	}
	return string(runes[:len(runes)-1])
}

// activeList is the list that receives typed filter text, if any.
func (m *appModel) activeList() *list.Model {
	switch m.state {
	case stateHome:
		if m.homeTab == tabEvents {
			return &m.eventList
		}
		return &m.movieList
	case stateBookings:
		return &m.bookingList
	case stateWishlist:
		return &m.wishList
	case stateBookingMovie:
		if m.ctrl.Step() == booking.StepTargetSelected {
			return &m.showList
		}
	case stateBookingEvent:
		if m.ctrl.Step() == booking.StepTargetSelected {
			return &m.dateList
		}
	}
	return nil
}

func (m *appModel) activeForm() *form {
	switch m.state {
	case stateLogin:
		return &m.login
	case stateRegister:
		return &m.register
	case stateSettings:
		if m.uploadFocus {
			return &m.upload
		}
		return &m.profile
	case stateBookingMovie, stateBookingEvent:
		if m.ctrl.Step() == booking.StepInventorySelected && m.ctrl.Payment().State != booking.PaymentProcessing {
			return &m.card
		}
	}
	return nil
}

func (m appModel) isBusy() bool {
	return m.login.submitting ||
		m.register.submitting ||
		m.profile.submitting ||
		m.upload.submitting ||
		m.locating ||
		m.ctrl.Payment().State == booking.PaymentProcessing
}

func (m *appModel) resizeLists() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := m.height - 7
	if h < 6 {
		h = 6
	}
	m.movieList.SetSize(m.width, h)
	m.eventList.SetSize(m.width, h)
	m.showList.SetSize(m.width, h)
	m.dateList.SetSize(m.width, h)
	m.bookingList.SetSize(m.width, h)
	m.wishList.SetSize(m.width, h)
	m.menuList.SetSize(m.width, h)
}

func (m *appModel) setError(err error) {
	if err == nil {
		return
	}
	m.notice = err.Error()
	m.noticeErr = true
}

func (m *appModel) setInfo(text string) {
	m.notice = text
	m.noticeErr = false
}

func (m *appModel) clearNotice() {
	m.notice = ""
	m.noticeErr = false
}

// formError shows validation and auth errors inline on f; anything else is
// a transient notification.
func (m *appModel) formError(f *form, err error) {
	if validate.IsValidation(err) || controller.IsAuth(err) {
		f.err = err
		return
	}
	f.err = nil
	m.setError(err)
}

func newList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = title
	l.Filter = caseInsensitiveFilter
	l.SetFilteringEnabled(true)
	l.SetShowFilter(true)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return l
}

func hint(text string) string {
	return lipgloss.NewStyle().Faint(true).Render(text)
}

func caseInsensitiveFilter(term string, targets []string) []list.Rank {
	term = strings.ToLower(term)
	lower := make([]string, len(targets))
	for i, t := range targets {
		lower[i] = strings.ToLower(t)
	}
	return list.DefaultFilter(term, lower)
}

func formatPrice(price float64) string {
	if price <= 0 {
		return "-"
	}
	return fmt.Sprintf("₹ %.2f", price)
}

package controller

import (
	"context"
	"time"

	"cinebook/booking"
	"cinebook/catalog"
	"cinebook/logging"
	"cinebook/model"
	"cinebook/service"
	"cinebook/session"
	"cinebook/store"
	"github.com/charmbracelet/log"
)

// API is the subset of the platform client the controller depends on.
type API interface {
	Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error)
	Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error)
	UpdateUser(ctx context.Context, token string, id int64, update model.ProfileUpdate) (model.User, error)
	UploadProfileImage(ctx context.Context, token string, id int64, filename string, image []byte) (string, error)
}

// Locator guesses the user's city for the profile form.
type Locator interface {
	DetectCity(ctx context.Context) (service.City, error)
}

// Controller owns the session, the current route and the booking flow.
//
// Methods that talk to the network come in two halves: a Request* method
// that takes a session snapshot and mutates nothing, and an Apply*/Open
// method that commits the result. The TUI runs the first half in a tea.Cmd
// and the second from Update, so all state changes happen on one goroutine.
// The un-split methods (Login, Register, UpdateProfile, ...) chain both.
type Controller struct {
	api       API
	catalog   *catalog.Catalog
	processor booking.Processor
	locator   Locator
	logger    *log.Logger
	now       func() time.Time

	session session.Session
	flow    *booking.Flow
	path    string
}

func New(api API, cat *catalog.Catalog, processor booking.Processor, logger *log.Logger) *Controller {
	if logger == nil {
		logger = logging.Discard()
	}
	if processor == nil {
		processor = booking.SimulatedProcessor{}
	}
	return &Controller{
		api:       api,
		catalog:   cat,
		processor: processor,
		logger:    logger,
		now:       time.Now,
		flow:      booking.NewFlow(),
		path:      session.PathLanding,
	}
}

// WithLocator enables location detection on the settings page.
func (c *Controller) WithLocator(l Locator) *Controller {
	c.locator = l
	return c
}

// Session returns a copy of the current session.
func (c *Controller) Session() session.Session {
	s := c.session
	if s.User != nil {
		user := *s.User
		s.User = &user
	}
	return s
}

func (c *Controller) Catalog() *catalog.Catalog {
	return c.catalog
}

func (c *Controller) Path() string {
	return c.path
}

// Navigate guards path against the session and moves to wherever the guard
// lands. It returns the rendered path.
func (c *Controller) Navigate(path string) string {
	c.path = session.Resolve(c.session, path)
	return c.path
}

// Dispatch performs a profile menu intent. ok is false when the intent is
// not offered to the current role.
func (c *Controller) Dispatch(intent session.Intent) (string, bool) {
	dest, ok := session.Dispatch(c.session.Role(), intent)
	if !ok {
		return c.path, false
	}
	if dest.Logout {
		c.Logout()
	}
	return c.Navigate(dest.Path), true
}

// Logout destroys the session, forgets the stored token and abandons any
// booking in progress.
func (c *Controller) Logout() {
	if c.session.User != nil {
		c.logger.Info("logout", "user", c.session.User.Id)
	}
	c.session = session.Session{}
	c.flow = booking.NewFlow()
	if err := store.ClearSession(); err != nil {
		c.logger.Warn("clear stored session", "err", err)
	}
	c.path = session.PathLanding
}

// Restore reopens the session persisted by a previous run. Tokens that are
// JWTs past their exp are dropped.
func (c *Controller) Restore() bool {
	saved, ok, err := store.LoadSession()
	if err != nil {
		c.logger.Warn("load stored session", "err", err)
		return false
	}
	if !ok {
		return false
	}
	if session.TokenExpired(saved.Token, c.now()) {
		c.logger.Info("stored token expired", "user", saved.User.Id)
		if err := store.ClearSession(); err != nil {
			c.logger.Warn("clear stored session", "err", err)
		}
		return false
	}
	c.session = session.New(saved.User, saved.Token)
	c.flow = booking.NewFlow()
	c.Navigate(c.session.HomePath())
	c.logger.Info("session restored", "user", saved.User.Id, "role", saved.User.Role)
	return true
}

func (c *Controller) persist() {
	if c.session.Token == "" || c.session.User == nil {
		return
	}
	if err := store.SaveSession(c.session.Token, *c.session.User); err != nil {
		c.logger.Warn("save session", "err", err)
	}
}

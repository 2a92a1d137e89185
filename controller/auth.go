package controller

import (
	"context"
	"strings"

	"cinebook/booking"
	"cinebook/model"
	"cinebook/service"
	"cinebook/session"
	"cinebook/validate"
)

type RegisterOutcome int

const (
	// RegisteredUser means the new account is already signed in.
	RegisteredUser RegisterOutcome = iota + 1
	// RegisteredOwner means the account must sign in before use.
	RegisteredOwner
)

type RegisterResult struct {
	Outcome RegisterOutcome
	Session session.Session
	Message string
}

// RequestLogin checks the credentials with the platform without touching
// the controller.
func (c *Controller) RequestLogin(ctx context.Context, email string, password string) (session.Session, error) {
	form := validate.LoginForm{Email: strings.TrimSpace(email), Password: password}
	if err := validate.Login(form); err != nil {
		return session.Session{}, err
	}

	resp, err := c.api.Login(ctx, model.LoginRequest{Email: form.Email, Password: form.Password})
	if err != nil {
		c.logger.Warn("login failed", "op", "login", "status", service.StatusCode(err), "err", err)
		switch service.StatusCode(err) {
		case 400, 401, 403, 404:
			return session.Session{}, &AuthError{Message: MsgInvalidCredentials, Err: err}
		}
		return session.Session{}, &NetworkError{Op: "login", Err: err}
	}
	user := resp.User
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	return session.New(user, resp.Token), nil
}

// Open makes s the current session, persists its token, clears any booking
// and navigates to the role's home. It returns that path.
func (c *Controller) Open(s session.Session) string {
	c.session = s
	c.flow = booking.NewFlow()
	c.persist()
	if s.User != nil {
		c.logger.Info("signed in", "user", s.User.Id, "role", s.User.Role)
	}
	return c.Navigate(s.HomePath())
}

// Login authenticates and opens the session, returning the landing path.
func (c *Controller) Login(ctx context.Context, email string, password string) (string, error) {
	s, err := c.RequestLogin(ctx, email, password)
	if err != nil {
		return "", err
	}
	return c.Open(s), nil
}

// RequestRegister creates the account. Users get a session back; owners get
// a message asking them to sign in.
func (c *Controller) RequestRegister(ctx context.Context, form validate.RegisterForm) (RegisterResult, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.TheatreName = strings.TrimSpace(form.TheatreName)
	if form.Role == "" {
		form.Role = model.RoleUser
	}
	if err := validate.Register(form); err != nil {
		return RegisterResult{}, err
	}

	req := model.RegisterRequest{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
		Role:     form.Role.Wire(),
	}
	if form.Role == model.RoleOwner {
		theatre := form.TheatreName
		req.TheatreName = &theatre
	}

	resp, err := c.api.Register(ctx, req)
	if err != nil {
		c.logger.Warn("register failed", "op", "register", "status", service.StatusCode(err), "err", err)
		if service.IsConflict(err) {
			return RegisterResult{}, &AuthError{Message: MsgEmailTaken, Err: err}
		}
		return RegisterResult{}, &NetworkError{Op: "register", Err: err}
	}

	if form.Role == model.RoleOwner {
		return RegisterResult{Outcome: RegisteredOwner, Message: MsgOwnerRegistered}, nil
	}
	user := resp.User
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	return RegisterResult{Outcome: RegisteredUser, Session: session.New(user, resp.Token)}, nil
}

// ApplyRegister commits a registration: users are signed in, owners are sent
// to the login page.
func (c *Controller) ApplyRegister(result RegisterResult) string {
	if result.Outcome == RegisteredUser {
		return c.Open(result.Session)
	}
	return c.Navigate(session.PathLogin)
}

func (c *Controller) Register(ctx context.Context, form validate.RegisterForm) (RegisterResult, error) {
	result, err := c.RequestRegister(ctx, form)
	if err != nil {
		return RegisterResult{}, err
	}
	c.ApplyRegister(result)
	return result, nil
}

package session

import (
	"time"

	"cinebook/model"
	"github.com/golang-jwt/jwt/v5"
)

// Session is the authenticated identity of the client. User is nil exactly
// when Authenticated is false; the zero value is the logged-out session.
type Session struct {
	Authenticated bool
	User          *model.User
	Token         string
}

// New returns an authenticated session for user.
func New(user model.User, token string) Session {
	return Session{Authenticated: true, User: &user, Token: token}
}

// Role is the user's role; a logged-out session has none.
func (s Session) Role() model.Role {
	if !s.Authenticated || s.User == nil {
		return ""
	}
	return s.User.Role
}

// HomePath is where this session lands after login.
func (s Session) HomePath() string {
	if s.Role() == model.RoleOwner {
		return PathOwnerDashboard
	}
	return PathHome
}

// WithUser returns a copy with the profile replaced. The role is kept: it is
// fixed at registration.
func (s Session) WithUser(user model.User) Session {
	if !s.Authenticated || s.User == nil {
		return s
	}
	user.Role = s.User.Role
	if user.Id == 0 {
		user.Id = s.User.Id
	}
	s.User = &user
	return s
}

// TokenExpired reports whether token is a JWT whose exp claim has passed.
// Opaque tokens and JWTs without exp never expire client-side.
func TokenExpired(token string, at time.Time) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !at.Before(claims.ExpiresAt.Time)
}

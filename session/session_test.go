package session

import (
	"testing"
	"time"

	"cinebook/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userSession() Session {
	return New(model.User{Id: 1, Name: "Ana", Role: model.RoleUser}, "tok")
}

func ownerSession() Session {
	return New(model.User{Id: 2, Name: "Bo", Role: model.RoleOwner}, "tok")
}

func TestZeroSessionIsLoggedOut(t *testing.T) {
	var s Session
	assert.False(t, s.Authenticated)
	assert.Nil(t, s.User)
	assert.Equal(t, model.Role(""), s.Role())
}

func TestHomePath(t *testing.T) {
	assert.Equal(t, PathHome, userSession().HomePath())
	assert.Equal(t, PathOwnerDashboard, ownerSession().HomePath())
}

func TestWithUser_KeepsRoleAndId(t *testing.T) {
	s := ownerSession()
	updated := s.WithUser(model.User{Name: "Bo Renamed", Role: model.RoleUser})

	require.NotNil(t, updated.User)
	assert.Equal(t, "Bo Renamed", updated.User.Name)
	assert.Equal(t, model.RoleOwner, updated.User.Role)
	assert.Equal(t, int64(2), updated.User.Id)
	assert.Equal(t, "Bo", s.User.Name, "original session must not change")

	var loggedOut Session
	assert.Equal(t, loggedOut, loggedOut.WithUser(model.User{Name: "x"}))
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})
	raw, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}

func TestTokenExpired(t *testing.T) {
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, TokenExpired(signed(t, at.Add(-time.Minute)), at))
	assert.False(t, TokenExpired(signed(t, at.Add(time.Hour)), at))
	assert.False(t, TokenExpired("opaque-session-token", at))

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1"}).SignedString([]byte("k"))
	require.NoError(t, err)
	assert.False(t, TokenExpired(noExp, at))
}

package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuard_Unauthenticated(t *testing.T) {
	var guest Session

	assert.Equal(t, render("/"), Guard(guest, "/"))
	assert.Equal(t, render("/login"), Guard(guest, "/login"))
	assert.Equal(t, render("/register"), Guard(guest, "/register"))

	for _, path := range []string{"/home", "/movie/m1", "/event/e1", "/settings", "/bookings", "/wishlist", "/owner/dashboard", "/booking/movie", "/booking/event"} {
		assert.Equal(t, redirect(PathLogin), Guard(guest, path), path)
	}
}

func TestGuard_RoleRedirects(t *testing.T) {
	assert.Equal(t, redirect(PathOwnerDashboard), Guard(ownerSession(), "/home"))
	assert.Equal(t, redirect(PathHome), Guard(userSession(), "/owner/dashboard"))

	assert.Equal(t, render("/owner/dashboard"), Guard(ownerSession(), "/owner/dashboard"))
	assert.Equal(t, render("/home"), Guard(userSession(), "/home"))
	assert.Equal(t, redirect(PathOwnerDashboard), Guard(ownerSession(), "/booking/movie"))
	assert.Equal(t, redirect(PathOwnerDashboard), Guard(ownerSession(), "/wishlist"))
}

func TestGuard_SettingsForBothRoles(t *testing.T) {
	assert.Equal(t, render("/settings"), Guard(userSession(), "/settings"))
	assert.Equal(t, render("/settings"), Guard(ownerSession(), "/settings"))
}

func TestGuard_AuthenticatedSkipsAuthForms(t *testing.T) {
	assert.Equal(t, redirect(PathHome), Guard(userSession(), "/login"))
	assert.Equal(t, redirect(PathOwnerDashboard), Guard(ownerSession(), "/register"))
	assert.Equal(t, render("/"), Guard(userSession(), "/"))
}

func TestGuard_UnknownRoutes(t *testing.T) {
	for _, path := range []string{"/nope", "/movie", "/movie/", "/movie/a/b", "/owner"} {
		assert.Equal(t, redirect(PathLanding), Guard(userSession(), path), path)
	}
}

func TestGuard_Normalizes(t *testing.T) {
	assert.Equal(t, render("/home"), Guard(userSession(), "home/"))
	assert.Equal(t, render("/movie/m1"), Guard(userSession(), "/movie/m1?from=search"))
	assert.Equal(t, render("/"), Guard(Session{}, ""))
}

func TestResolve(t *testing.T) {
	assert.Equal(t, "/login", Resolve(Session{}, "/owner/dashboard"))
	assert.Equal(t, "/owner/dashboard", Resolve(ownerSession(), "/login"))
	assert.Equal(t, "/", Resolve(userSession(), "/missing"))
}

func TestParamAndPattern(t *testing.T) {
	assert.Equal(t, "m1", Param(MoviePath("m1")))
	assert.Equal(t, "e9", Param(EventPath("e9")))
	assert.Equal(t, "", Param("/home"))
	assert.Equal(t, PathMovie, Pattern("/movie/m1"))
	assert.Equal(t, "", Pattern("/unknown"))
}

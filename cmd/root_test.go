package cmd

import (
	"bytes"
	"testing"

	"cinebook/model"
	"cinebook/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTestConfigDir(t *testing.T) {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", root)
	t.Setenv("CINEBOOK_DEBUG", "")
	t.Setenv("CINEBOOK_API_URL", "http://127.0.0.1:1")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd("1.2.3", "abc123")
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "cinebook 1.2.3 (abc123)\n", out)
}

func TestWhoami(t *testing.T) {
	setTestConfigDir(t)

	out, err := run(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in")

	require.NoError(t, store.SaveSession("tok", model.User{Id: 3, Name: "Ana", Email: "ana@example.com", Role: model.RoleUser, Location: "Pune"}))
	out, err = run(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Ana <ana@example.com>")
	assert.Contains(t, out, "Location: Pune")
}

func TestLogoutClearsSession(t *testing.T) {
	setTestConfigDir(t)
	require.NoError(t, store.SaveSession("tok", model.User{Id: 3, Name: "Ana", Role: model.RoleUser}))

	_, err := run(t, "logout")
	require.NoError(t, err)
	_, ok, err := store.LoadSession()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestShowtimes(t *testing.T) {
	setTestConfigDir(t)

	out, err := run(t, "showtimes", "--movie", "m-dune-2")
	require.NoError(t, err)
	assert.Contains(t, out, "Riverside Multiplex")
	assert.Contains(t, out, "IMAX")

	_, err = run(t, "showtimes", "--movie", "m-missing")
	assert.ErrorContains(t, err, "unknown movie")
}

func TestEventsSearch(t *testing.T) {
	setTestConfigDir(t)

	out, err := run(t, "events", "--search", "comedy")
	require.NoError(t, err)
	assert.Contains(t, out, "Front Tables")
	assert.NotContains(t, out, "Upper Bowl")

	out, err = run(t, "events", "--search", "opera")
	require.NoError(t, err)
	assert.Contains(t, out, "No events found")
}

func TestBookingsRequiresLogin(t *testing.T) {
	setTestConfigDir(t)

	_, err := run(t, "bookings")
	assert.ErrorIs(t, err, errNotSignedIn)

	require.NoError(t, store.SaveSession("tok", model.User{Id: 3, Name: "Ana", Role: model.RoleUser}))
	out, err := run(t, "bookings")
	require.NoError(t, err)
	assert.Contains(t, out, "No bookings yet")
}

func TestDashboardOwnersOnly(t *testing.T) {
	setTestConfigDir(t)
	require.NoError(t, store.SaveSession("tok", model.User{Id: 3, Name: "Ana", Role: model.RoleUser}))

	_, err := run(t, "dashboard")
	assert.ErrorContains(t, err, "theatre owners")

	require.NoError(t, store.SaveSession("tok", model.User{Id: 9, Name: "Olu", Role: model.RoleOwner, TheatreName: "Grand Cinema"}))
	out, err := run(t, "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "Occupancy")
	assert.Contains(t, out, "Dune: Part Two")
}

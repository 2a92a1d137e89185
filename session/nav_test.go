package session

import (
	"testing"

	"cinebook/model"
	"github.com/stretchr/testify/assert"
)

func TestDispatch_User(t *testing.T) {
	cases := map[Intent]Destination{
		IntentHome:     {Path: PathHome},
		IntentSettings: {Path: PathSettings},
		IntentBookings: {Path: PathBookings},
		IntentWishlist: {Path: PathWishlist},
		IntentLogout:   {Path: PathLanding, Logout: true},
	}
	for intent, want := range cases {
		got, ok := Dispatch(model.RoleUser, intent)
		assert.True(t, ok, intent)
		assert.Equal(t, want, got, intent)
	}
}

func TestDispatch_OwnerSeesFewerDestinations(t *testing.T) {
	got, ok := Dispatch(model.RoleOwner, IntentHome)
	assert.True(t, ok)
	assert.Equal(t, PathOwnerDashboard, got.Path)

	_, ok = Dispatch(model.RoleOwner, IntentBookings)
	assert.False(t, ok)
	_, ok = Dispatch(model.RoleOwner, IntentWishlist)
	assert.False(t, ok)

	assert.Equal(t, []Intent{IntentHome, IntentSettings, IntentLogout}, Menu(model.RoleOwner))
}

func TestDispatch_UnknownRoleOrIntent(t *testing.T) {
	_, ok := Dispatch("", IntentHome)
	assert.False(t, ok)
	_, ok = Dispatch(model.RoleUser, Intent("admin"))
	assert.False(t, ok)
}

func TestDispatch_EveryMenuEntryResolves(t *testing.T) {
	for _, role := range []model.Role{model.RoleUser, model.RoleOwner} {
		s := New(model.User{Id: 1, Role: role}, "tok")
		for _, intent := range Menu(role) {
			dest, ok := Dispatch(role, intent)
			assert.True(t, ok)
			if dest.Logout {
				continue
			}
			assert.False(t, Guard(s, dest.Path).Redirect, "%s %s", role, intent)
		}
	}
}

package session

import "cinebook/model"

// Intent is an entry of the profile menu.
type Intent string

const (
	IntentHome     Intent = "home"
	IntentSettings Intent = "settings"
	IntentBookings Intent = "bookings"
	IntentWishlist Intent = "wishlist"
	IntentLogout   Intent = "logout"
)

var menus = map[model.Role][]Intent{
	model.RoleUser:  {IntentHome, IntentBookings, IntentWishlist, IntentSettings, IntentLogout},
	model.RoleOwner: {IntentHome, IntentSettings, IntentLogout},
}

// Menu lists the intents offered to role, in display order.
func Menu(role model.Role) []Intent {
	return menus[role]
}

// Destination is where an intent leads. Logout tells the caller to destroy
// the session before navigating.
type Destination struct {
	Path   string
	Logout bool
}

// Dispatch maps intent to a destination for role. ok is false when the
// intent is not offered to that role.
func Dispatch(role model.Role, intent Intent) (Destination, bool) {
	allowed := false
	for _, candidate := range menus[role] {
		if candidate == intent {
			allowed = true
			break
		}
	}
	if !allowed {
		return Destination{}, false
	}

	switch intent {
	case IntentHome:
		if role == model.RoleOwner {
			return Destination{Path: PathOwnerDashboard}, true
		}
		return Destination{Path: PathHome}, true
	case IntentSettings:
		return Destination{Path: PathSettings}, true
	case IntentBookings:
		return Destination{Path: PathBookings}, true
	case IntentWishlist:
		return Destination{Path: PathWishlist}, true
	case IntentLogout:
		return Destination{Path: PathLanding, Logout: true}, true
	}
	return Destination{}, false
}

func (i Intent) Label() string {
	switch i {
	case IntentHome:
		return "Home"
	case IntentSettings:
		return "Settings"
	case IntentBookings:
		return "My Bookings"
	case IntentWishlist:
		return "Wishlist"
	case IntentLogout:
		return "Logout"
	}
	return string(i)
}

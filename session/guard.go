package session

import (
	"strings"

	"cinebook/model"
)

const (
	PathLanding        = "/"
	PathLogin          = "/login"
	PathRegister       = "/register"
	PathHome           = "/home"
	PathMovie          = "/movie/:id"
	PathEvent          = "/event/:id"
	PathSettings       = "/settings"
	PathBookings       = "/bookings"
	PathWishlist       = "/wishlist"
	PathOwnerDashboard = "/owner/dashboard"
	PathBookingMovie   = "/booking/movie"
	PathBookingEvent   = "/booking/event"
)

type access int

const (
	accessPublic access = iota
	accessGuest
	accessRoles
)

type rule struct {
	pattern string
	access  access
	roles   []model.Role
}

var (
	usersOnly  = []model.Role{model.RoleUser}
	ownersOnly = []model.Role{model.RoleOwner}
	everyone   = []model.Role{model.RoleUser, model.RoleOwner}
)

var accessTable = []rule{
	{pattern: PathLanding, access: accessPublic},
	{pattern: PathLogin, access: accessGuest},
	{pattern: PathRegister, access: accessGuest},
	{pattern: PathHome, access: accessRoles, roles: usersOnly},
	{pattern: PathMovie, access: accessRoles, roles: usersOnly},
	{pattern: PathEvent, access: accessRoles, roles: usersOnly},
	{pattern: PathBookings, access: accessRoles, roles: usersOnly},
	{pattern: PathWishlist, access: accessRoles, roles: usersOnly},
	{pattern: PathBookingMovie, access: accessRoles, roles: usersOnly},
	{pattern: PathBookingEvent, access: accessRoles, roles: usersOnly},
	{pattern: PathSettings, access: accessRoles, roles: everyone},
	{pattern: PathOwnerDashboard, access: accessRoles, roles: ownersOnly},
}

// Decision is the outcome of guarding a route: render Path, or redirect to it.
type Decision struct {
	Redirect bool
	Path     string
}

func render(path string) Decision   { return Decision{Path: path} }
func redirect(path string) Decision { return Decision{Redirect: true, Path: path} }

// Guard decides what to show for path given the current session. It has no
// side effects.
func Guard(s Session, path string) Decision {
	path = normalize(path)
	r, ok := lookup(path)
	if !ok {
		return redirect(PathLanding)
	}

	switch r.access {
	case accessPublic:
		return render(path)
	case accessGuest:
		if s.Authenticated {
			return redirect(s.HomePath())
		}
		return render(path)
	}

	if !s.Authenticated {
		return redirect(PathLogin)
	}
	role := s.Role()
	for _, allowed := range r.roles {
		if allowed == role {
			return render(path)
		}
	}
	return redirect(s.HomePath())
}

// Resolve follows redirects until a renderable path is reached. The access
// table guarantees a fixed point within a couple of hops.
func Resolve(s Session, path string) string {
	for range 4 {
		d := Guard(s, path)
		if !d.Redirect {
			return d.Path
		}
		path = d.Path
	}
	return PathLanding
}

// MoviePath and EventPath build detail routes.
func MoviePath(id string) string { return "/movie/" + id }
func EventPath(id string) string { return "/event/" + id }

// Param extracts the :id segment from a detail route.
func Param(path string) string {
	path = normalize(path)
	for _, prefix := range []string{"/movie/", "/event/"} {
		if strings.HasPrefix(path, prefix) {
			return strings.TrimPrefix(path, prefix)
		}
	}
	return ""
}

// Pattern returns the access-table pattern matching path, or "" if none.
func Pattern(path string) string {
	r, ok := lookup(normalize(path))
	if !ok {
		return ""
	}
	return r.pattern
}

func lookup(path string) (rule, bool) {
	for _, r := range accessTable {
		if match(r.pattern, path) {
			return r, true
		}
	}
	return rule{}, false
}

func match(pattern string, path string) bool {
	want := strings.Split(pattern, "/")
	got := strings.Split(path, "/")
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if strings.HasPrefix(want[i], ":") {
			if got[i] == "" {
				return false
			}
			continue
		}
		if want[i] != got[i] {
			return false
		}
	}
	return true
}

func normalize(path string) string {
	path = strings.TrimSpace(path)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return PathLanding
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}

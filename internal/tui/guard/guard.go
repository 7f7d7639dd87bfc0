// ABOUTME: Route guard for the TUI screens
// ABOUTME: Gates protected routes on session state, evaluated per navigation

package guard

// Route identifies a navigable screen
type Route int

const (
	RouteLogin Route = iota
	RouteRegister
	RouteContacts
	RouteDetail
)

// String returns the route name
func (r Route) String() string {
	switch r {
	case RouteLogin:
		return "login"
	case RouteRegister:
		return "register"
	case RouteContacts:
		return "contacts"
	case RouteDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// Protected reports whether the route requires a session
func (r Route) Protected() bool {
	switch r {
	case RouteContacts, RouteDetail:
		return true
	default:
		return false
	}
}

// Authenticator reports current session state. The session store
// implements this.
type Authenticator interface {
	IsAuthenticated() bool
}

// Guard decides per navigation whether a requested route may render
type Guard struct {
	auth Authenticator
}

// New creates a guard backed by the given session state
func New(auth Authenticator) *Guard {
	return &Guard{auth: auth}
}

// Resolve returns the route that should actually render. A protected
// route with no session resolves to the login route; the originally
// requested route is discarded, not remembered. The check is re-run on
// every call, never cached.
func (g *Guard) Resolve(requested Route) Route {
	if requested.Protected() && !g.auth.IsAuthenticated() {
		return RouteLogin
	}
	return requested
}

// Home returns the default route for the current session state,
// mirroring the root redirect: contacts when logged in, login otherwise.
func (g *Guard) Home() Route {
	return g.Resolve(RouteContacts)
}

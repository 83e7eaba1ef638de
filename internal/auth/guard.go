package auth

// LoginPath is where unauthenticated users are sent, both by the route
// guard and by the forced logout on authorization failures
const LoginPath = "/admin/login"

// Decision is the outcome of guarding a protected view
type Decision int

const (
	// DecisionWait means the session is still loading; render a waiting state
	DecisionWait Decision = iota
	// DecisionAllow lets the protected view render
	DecisionAllow
	// DecisionRedirect sends the user to LoginPath, replacing history
	DecisionRedirect
)

func (d Decision) String() string {
	switch d {
	case DecisionWait:
		return "wait"
	case DecisionAllow:
		return "allow"
	default:
		return "redirect"
	}
}

// Decide gates a protected view on the current session
func Decide(s Session) Decision {
	switch s.State() {
	case StateInitializing:
		return DecisionWait
	case StateAuthenticated:
		return DecisionAllow
	default:
		return DecisionRedirect
	}
}

// Navigator moves the application to another view
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function into a Navigator
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) {
	f(path)
}

package authstate

import (
	"net/url"

	"github.com/mephub/mephub/internal/client"
)

// Action classifies a route access decision
type Action int

const (
	// ActionPending means the initial auth check has not resolved yet; show
	// a placeholder and decide nothing
	ActionPending Action = iota
	// ActionAllow renders the protected content
	ActionAllow
	// ActionRedirect sends the visitor to Decision.Target instead
	ActionRedirect
)

// Decision is the outcome of guarding one route
type Decision struct {
	Action Action
	Target string
}

// LoginPath is where unauthenticated visitors are sent, carrying the path
// they asked for so login can bounce them back
const LoginPath = "/login"

// Decide computes the access decision for a protected route from the
// current session snapshot. It is pure: evaluate it fresh on every state
// change, never cache the result.
func Decide(snap Snapshot, adminOnly bool, requestedPath string) Decision {
	if snap.Loading {
		return Decision{Action: ActionPending}
	}

	if snap.User == nil {
		target := LoginPath
		if requestedPath != "" {
			target += "?redirect=" + url.QueryEscape(requestedPath)
		}
		return Decision{Action: ActionRedirect, Target: target}
	}

	if adminOnly {
		switch snap.User.UserType {
		case client.UserTypeAdmin:
			// fall through to allow
		case client.UserTypeUser:
			return Decision{Action: ActionRedirect, Target: "/"}
		default:
			// Unknown role never passes an admin gate
			return Decision{Action: ActionRedirect, Target: "/"}
		}
	}

	return Decision{Action: ActionAllow}
}

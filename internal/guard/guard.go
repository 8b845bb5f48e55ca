package guard

import (
	"github.com/gemkart/storefront/internal/session"
	"github.com/gemkart/storefront/pkg/types"
)

// Decision is what a guard tells the view layer to render.
type Decision string

const (
	// Allow renders the protected content.
	Allow Decision = "allow"
	// Placeholder renders a neutral loading state. Used while session restore
	// is still in flight so a slow startup never causes a false redirect.
	Placeholder Decision = "placeholder"
	// RedirectLogin sends the user to the login view.
	RedirectLogin Decision = "redirect_login"
)

// Capability is the single predicate both guard variants are built from.
type Capability func(user types.User) bool

// Evaluate applies the capability check to a session snapshot.
func Evaluate(snap session.Snapshot, capability Capability) Decision {
	if snap.IsLoading {
		return Placeholder
	}
	if !snap.IsAuthenticated || snap.User == nil {
		return RedirectLogin
	}
	if capability != nil && !capability(*snap.User) {
		return RedirectLogin
	}
	return Allow
}

// Authenticated gates content on any logged-in session.
func Authenticated(snap session.Snapshot) Decision {
	return Evaluate(snap, nil)
}

// Admin gates content on the administrative role.
func Admin(snap session.Snapshot) Decision {
	return Evaluate(snap, types.User.IsAdmin)
}

// Package guard decides route access from token presence. It is the
// client-side analog of auth middleware: a stored token means "treat as
// authenticated", and the backend's 401 handling corrects any stale
// optimism.
package guard

import (
	"context"

	"github.com/leadconsole/leadconsole/credentials"
)

// Decision is the outcome of a guard check. When Allow is false, RedirectTo
// names where navigation should go instead.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Guard evaluates route access against a credential store.
type Guard struct {
	creds         credentials.Store
	entryPath     string
	dashboardPath string
}

// New builds a guard. entryPath is the unauthenticated landing route,
// dashboardPath the authenticated one; empty values fall back to "/" and
// "/dashboard".
func New(creds credentials.Store, entryPath, dashboardPath string) *Guard {
	if entryPath == "" {
		entryPath = "/"
	}
	if dashboardPath == "" {
		dashboardPath = "/dashboard"
	}
	return &Guard{
		creds:         creds,
		entryPath:     entryPath,
		dashboardPath: dashboardPath,
	}
}

// Guest checks a guest-only route (login, register, forgot password). An
// authenticated session is bounced to the dashboard.
func (g *Guard) Guest(ctx context.Context) (Decision, error) {
	present, err := g.present(ctx)
	if err != nil {
		return Decision{}, err
	}
	if present {
		return Decision{RedirectTo: g.dashboardPath}, nil
	}
	return Decision{Allow: true}, nil
}

// Protected checks a route that requires a session. Without one, navigation
// goes to the entry route.
func (g *Guard) Protected(ctx context.Context) (Decision, error) {
	present, err := g.present(ctx)
	if err != nil {
		return Decision{}, err
	}
	if !present {
		return Decision{RedirectTo: g.entryPath}, nil
	}
	return Decision{Allow: true}, nil
}

func (g *Guard) present(ctx context.Context) (bool, error) {
	token, err := g.creds.Get(ctx)
	if err != nil {
		return false, err
	}
	return token != "", nil
}

package credentials

import "context"

// Store is the injectable token slot. Get returns the empty string when no
// token is stored; absence is not an error. Implementations must be safe for
// concurrent use.
type Store interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Watchable is an optional extension for stores that can push presence
// changes. The guard layer polls Get on every navigation and works without
// it; watching only removes the poll.
type Watchable interface {
	// Watch registers fn to be called with the new presence whenever the
	// slot transitions between empty and non-empty. The returned func
	// unregisters it.
	Watch(fn func(present bool)) (stop func())
}

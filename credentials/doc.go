// Package credentials holds the single session-token slot of the console.
//
// The token is an opaque string owned by the backend. Its lifecycle is: set
// on successful login/verify, cleared on logout, on password change, and on
// any 401 response. Exactly one slot exists per store; there is no
// per-request credential state.
//
// Three backends are provided: an in-memory store (tests, short-lived
// tools), a file store for desktop-style persistence across restarts, and a
// Redis store for deployments that share the operator session across
// console instances.
package credentials

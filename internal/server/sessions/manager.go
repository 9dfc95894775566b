// Package sessions provides Redis-backed persistence for opaque session
// tokens. A session is the only server-side link between a browser cookie
// and a user id; destroying the key logs the user out everywhere
// immediately.
package sessions

import "context"

// Manager is the session lifecycle contract used by the auth service and
// the HTTP gate.
type Manager interface {
	// Create generates a fresh token bound to userID. A user may hold one
	// token per login; earlier tokens are simply left to expire.
	Create(ctx context.Context, userID string) (string, error)
	// Validate resolves a token to its user id. Absent, malformed and
	// expired tokens all yield common.ErrorUnauthenticated.
	Validate(ctx context.Context, token string) (string, error)
	// Destroy removes the token. Destroying a token that is already gone
	// yields common.ErrorNotFound; callers treat that as success.
	Destroy(ctx context.Context, token string) error
}

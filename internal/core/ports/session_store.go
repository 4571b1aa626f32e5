package ports

import "context"

// Persisted key layout for session state. These keys are the session
// manager's only durable state; a fresh process reconstructs its in-memory
// session from them.
const (
	KeyAccessToken   = "auth-access-token"
	KeyRefreshToken  = "auth-refresh-token"
	KeyAccessExpiry  = "auth-access-expiry"  // stringified epoch millis
	KeyRefreshExpiry = "auth-refresh-expiry" // stringified epoch millis
	KeyCurrentUser   = "current-user"        // JSON-serialized user
)

// SessionKeys lists every persisted session key, in the order they are
// written on login.
var SessionKeys = []string{
	KeyAccessToken,
	KeyRefreshToken,
	KeyAccessExpiry,
	KeyRefreshExpiry,
	KeyCurrentUser,
}

// SessionStore is the key-value mirror of session state. Get reports
// presence explicitly so an absent key is distinguishable from an empty
// value.
type SessionStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

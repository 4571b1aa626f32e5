package domain

import "time"

// Token lifetimes, measured from issuance. The access window must always be
// shorter than the refresh window.
const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// Session pairs an access token with a refresh token. The token strings are
// opaque: callers compare them byte-for-byte against the persisted copies and
// never inspect or verify their contents.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

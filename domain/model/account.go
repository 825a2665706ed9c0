package model

import "time"

// Supported platforms. Used to select endpoints, credentials and tables.
const (
	PlatformMastodon = "mastodon"
	PlatformThreads  = "threads"
)

// Account stores one user's OAuth credentials and profile metadata for a
// single platform. Mastodon is multi-tenant, so InstanceURL varies per
// account; for Threads it stays nil.
type Account struct {
	ID             int64      `json:"id"`
	PlatformUserID string     `json:"platform_user_id"`
	AccessToken    string     `json:"-"`
	RefreshToken   *string    `json:"-"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`
	Scope          string     `json:"scope"`
	InstanceURL    *string    `json:"instance_url,omitempty"`
	Username       *string    `json:"username,omitempty"`
	DisplayName    *string    `json:"display_name,omitempty"`
	AvatarURL      *string    `json:"avatar_url,omitempty"`
	Bio            *string    `json:"bio,omitempty"`
	LastAuthAt     *time.Time `json:"last_auth_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Instance returns the account's instance URL or the given default.
func (a *Account) Instance(fallback string) string {
	if a.InstanceURL != nil && *a.InstanceURL != "" {
		return *a.InstanceURL
	}
	return fallback
}

// TokenData is the decoded payload of a token-endpoint response.
type TokenData struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	Scope        string
	// Threads returns the numeric owner id with the token grant.
	PlatformUserID string
}

// Profile holds the identity fields fetched from a platform's
// verify-credentials endpoint after a successful code exchange.
type Profile struct {
	PlatformUserID string
	Username       string
	DisplayName    string
	AvatarURL      string
	Bio            string
}

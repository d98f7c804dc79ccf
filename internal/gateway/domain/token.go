package domain

import "time"

// TokenPair is what the login, refresh and OAuth callback flows hand out:
// a short-lived access JWT and an opaque refresh token.
type TokenPair struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type,omitempty"` // always "Bearer"
	ExpiresIn    time.Duration `json:"expires_in"`           // seconds until access expiry
}

// RefreshToken models the stored refresh token record. Only the SHA-256
// fingerprint of the opaque token is persisted.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string // deterministic fingerprint (base64url SHA-256)
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

package domain

import (
	"errors"
	"time"
)

// ErrInconsistentCredential is returned when only one half of the token pair is set.
var ErrInconsistentCredential = errors.New("domain: access and refresh token must be set together")

// Credential holds the OAuth2 client registration and token material for one platform.
type Credential struct {
	PlatformID   Platform  `bson:"platform_id" json:"platform_id"`
	ClientID     string    `bson:"client_id" json:"client_id"`
	ClientSecret string    `bson:"client_secret" json:"client_secret"`
	AccessToken  string    `bson:"access_token,omitempty" json:"access_token,omitempty"`
	RefreshToken string    `bson:"refresh_token,omitempty" json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `bson:"expires_at,omitempty" json:"expires_at,omitempty"` // zero when unknown
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
	// Version counts saves. A save must carry the version it was loaded at.
	Version int64 `bson:"version" json:"version"`
}

// IsAuthenticated reports whether the credential carries a token pair.
func (c *Credential) IsAuthenticated() bool {
	return c.AccessToken != "" && c.RefreshToken != ""
}

// Validate checks the token pair invariant.
func (c *Credential) Validate() error {
	if (c.AccessToken == "") != (c.RefreshToken == "") {
		return ErrInconsistentCredential
	}
	return nil
}

// ExpiresAtEpochMillis returns the expiry as milliseconds since the epoch, or 0 when unset.
func (c *Credential) ExpiresAtEpochMillis() int64 {
	if c.ExpiresAt.IsZero() {
		return 0
	}
	return c.ExpiresAt.UnixMilli()
}

// Expired reports whether the access token is expired at now, allowing for skew.
// A credential without a known expiry never counts as expired.
func (c *Credential) Expired(now time.Time, skew time.Duration) bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return !now.Add(skew).Before(c.ExpiresAt)
}

// ClearTokens drops the token pair, keeping the client registration.
func (c *Credential) ClearTokens() {
	c.AccessToken = ""
	c.RefreshToken = ""
	c.ExpiresAt = time.Time{}
}

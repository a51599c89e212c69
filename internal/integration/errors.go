package integration

import "errors"

var (
	ErrUnsupportedPlatform     = errors.New("integration: unsupported platform")
	ErrUnknownPlatform         = errors.New("integration: no strategy registered for platform")
	ErrPlatformMisconfigured   = errors.New("integration: platform is misconfigured")
	ErrMissingRefreshToken     = errors.New("integration: no refresh token stored, authenticate first")
	ErrNotAuthenticated        = errors.New("integration: platform not authenticated")
	ErrIncompleteTokenResponse = errors.New("integration: token response is missing the refresh token")
	ErrUnsupportedSyncType     = errors.New("integration: unsupported sync type")
	ErrAuthorizationPending    = errors.New("integration: authorization code not available yet")
	ErrInvalidRecordCount      = errors.New("integration: platform reported an invalid record count")
)

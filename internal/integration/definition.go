package integration

import (
	"fmt"
	"strings"

	"golang.org/x/oauth2"

	"go.pavemaster.dev/integrations/domain"
)

const (
	defaultFullSyncPath        = "/sync/full"
	defaultIncrementalSyncPath = "/sync/incremental"
)

// PlatformDefinition describes how to reach one platform: its OAuth2 endpoints,
// the scopes to request and where the sync endpoints live.
type PlatformDefinition struct {
	Platform            domain.Platform
	Endpoint            oauth2.Endpoint
	Scopes              []string
	APIBaseURL          string
	FullSyncPath        string
	IncrementalSyncPath string
}

// definitions maps every supported platform to its built-in definition.
var definitions = map[domain.Platform]func() PlatformDefinition{
	domain.PlatformQuickBooks: QuickBooksDefinition,
	domain.PlatformADP:        ADPDefinition,
	domain.PlatformSAP:        SAPDefinition,
	domain.PlatformStripe:     StripeDefinition,
}

// DefinitionFor returns the built-in definition for platform.
func DefinitionFor(platform domain.Platform) (PlatformDefinition, error) {
	build, ok := definitions[platform]
	if !ok {
		return PlatformDefinition{}, fmt.Errorf("%w: %q", ErrUnsupportedPlatform, platform)
	}
	return build(), nil
}

// WithSeed applies the seed's overrides and checks that everything needed is present.
func (d PlatformDefinition) WithSeed(seed CredentialSeed) (PlatformDefinition, error) {
	if seed.AuthURL != "" {
		d.Endpoint.AuthURL = seed.AuthURL
	}
	if seed.TokenURL != "" {
		d.Endpoint.TokenURL = seed.TokenURL
	}
	if seed.APIBaseURL != "" {
		d.APIBaseURL = seed.APIBaseURL
	}
	if len(seed.Scopes) > 0 {
		d.Scopes = append([]string(nil), seed.Scopes...)
	}

	var missing []string
	if seed.ClientID == "" {
		missing = append(missing, "client id")
	}
	if d.Endpoint.AuthURL == "" {
		missing = append(missing, "auth url")
	}
	if d.Endpoint.TokenURL == "" {
		missing = append(missing, "token url")
	}
	if d.APIBaseURL == "" {
		missing = append(missing, "api base url")
	}
	if len(missing) > 0 {
		return d, fmt.Errorf("%w: %s has no %s", ErrPlatformMisconfigured, d.Platform, strings.Join(missing, ", "))
	}
	return d, nil
}

// SyncURL returns the endpoint for the given sync type.
func (d PlatformDefinition) SyncURL(syncType domain.SyncType) string {
	path := d.IncrementalSyncPath
	if syncType == domain.SyncTypeFull {
		path = d.FullSyncPath
	}
	return strings.TrimRight(d.APIBaseURL, "/") + path
}

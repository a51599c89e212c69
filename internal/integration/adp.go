package integration

import (
	"golang.org/x/oauth2"

	"go.pavemaster.dev/integrations/domain"
)

var (
	ADPAuthURL    = "https://accounts.adp.com/auth/oauth/v2/authorize"
	ADPTokenURL   = "https://accounts.adp.com/auth/oauth/v2/token"
	ADPAPIBaseURL = "https://api.adp.com"
)

// ADPDefinition returns the payroll integration definition.
// ADP reads client credentials from the form body.
func ADPDefinition() PlatformDefinition {
	return PlatformDefinition{
		Platform: domain.PlatformADP,
		Endpoint: oauth2.Endpoint{
			AuthURL:   ADPAuthURL,
			TokenURL:  ADPTokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		Scopes:              []string{"openid"},
		APIBaseURL:          ADPAPIBaseURL,
		FullSyncPath:        "/payroll/v1/sync/full",
		IncrementalSyncPath: "/payroll/v1/sync/incremental",
	}
}

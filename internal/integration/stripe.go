package integration

import (
	"golang.org/x/oauth2"

	"go.pavemaster.dev/integrations/domain"
)

var (
	StripeAuthURL    = "https://connect.stripe.com/oauth/authorize"
	StripeTokenURL   = "https://connect.stripe.com/oauth/token"
	StripeAPIBaseURL = "https://api.stripe.com/v1"
)

// StripeDefinition returns the payments integration definition (Stripe Connect).
func StripeDefinition() PlatformDefinition {
	return PlatformDefinition{
		Platform: domain.PlatformStripe,
		Endpoint: oauth2.Endpoint{
			AuthURL:   StripeAuthURL,
			TokenURL:  StripeTokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		Scopes:              []string{"read_write"},
		APIBaseURL:          StripeAPIBaseURL,
		FullSyncPath:        defaultFullSyncPath,
		IncrementalSyncPath: defaultIncrementalSyncPath,
	}
}

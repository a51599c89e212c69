package integration

import (
	"golang.org/x/oauth2"

	"go.pavemaster.dev/integrations/domain"
)

// QuickBooks Online endpoints. Intuit expects client credentials in the Authorization header.
var (
	QuickBooksAuthURL    = "https://appcenter.intuit.com/connect/oauth2"
	QuickBooksTokenURL   = "https://oauth.platform.intuit.com/oauth2/v1/tokens/bearer"
	QuickBooksAPIBaseURL = "https://quickbooks.api.intuit.com/v3"
)

// QuickBooksDefinition returns the accounting integration definition.
func QuickBooksDefinition() PlatformDefinition {
	return PlatformDefinition{
		Platform: domain.PlatformQuickBooks,
		Endpoint: oauth2.Endpoint{
			AuthURL:   QuickBooksAuthURL,
			TokenURL:  QuickBooksTokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
		Scopes:              []string{"com.intuit.quickbooks.accounting"},
		APIBaseURL:          QuickBooksAPIBaseURL,
		FullSyncPath:        defaultFullSyncPath,
		IncrementalSyncPath: defaultIncrementalSyncPath,
	}
}

package integration

import (
	"golang.org/x/oauth2"

	"go.pavemaster.dev/integrations/domain"
)

// SAPDefinition returns the ERP integration definition.
// SAP endpoints live on the customer's tenant, so there are no defaults:
// the seed must provide auth, token and API URLs.
func SAPDefinition() PlatformDefinition {
	return PlatformDefinition{
		Platform: domain.PlatformSAP,
		Endpoint: oauth2.Endpoint{
			AuthStyle: oauth2.AuthStyleInHeader,
		},
		FullSyncPath:        defaultFullSyncPath,
		IncrementalSyncPath: defaultIncrementalSyncPath,
	}
}

package integration

import (
	"context"

	"go.pavemaster.dev/integrations/domain"
)

// AuthorizationCodeSource supplies the authorization code produced by the
// user-consent redirect. The redirect itself happens outside this package.
//
//go:generate go run go.uber.org/mock/mockgen -source=$GOFILE -destination=mock/mock_$GOFILE -package=mock_$GOPACKAGE AuthorizationCodeSource
type AuthorizationCodeSource interface {
	GetAuthorizationCode(ctx context.Context, platform domain.Platform, redirectURI string) (string, error)
}

// AuthorizationCodeFunc adapts a function to AuthorizationCodeSource.
type AuthorizationCodeFunc func(ctx context.Context, platform domain.Platform, redirectURI string) (string, error)

func (f AuthorizationCodeFunc) GetAuthorizationCode(ctx context.Context, platform domain.Platform, redirectURI string) (string, error) {
	return f(ctx, platform, redirectURI)
}

package integration

import (
	"context"

	"go.pavemaster.dev/integrations/domain"
)

type platformKey struct{}

// withPlatform tags ctx with the platform a call is made for, for logs and metrics.
func withPlatform(ctx context.Context, p domain.Platform) context.Context {
	return context.WithValue(ctx, platformKey{}, p)
}

func platformFromContext(ctx context.Context) domain.Platform {
	p, _ := ctx.Value(platformKey{}).(domain.Platform)
	return p
}

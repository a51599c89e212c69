package crypto

import (
	"context"
	"fmt"

	"go.pavemaster.dev/integrations/domain"
)

// SealedStore wraps a domain.IntegrationStore so the client secret and both
// tokens are encrypted before they reach the backend. History passes through.
type SealedStore struct {
	domain.IntegrationStore
	sealer *Sealer
}

// NewSealedStore decorates inner.
func NewSealedStore(inner domain.IntegrationStore, sealer *Sealer) *SealedStore {
	return &SealedStore{IntegrationStore: inner, sealer: sealer}
}

func (s *SealedStore) Save(ctx context.Context, platform domain.Platform, cred *domain.Credential) error {
	sealed := *cred
	for _, field := range []*string{&sealed.ClientSecret, &sealed.AccessToken, &sealed.RefreshToken} {
		v, err := s.sealer.Seal(*field)
		if err != nil {
			return err
		}
		*field = v
	}
	if err := s.IntegrationStore.Save(ctx, platform, &sealed); err != nil {
		return err
	}
	cred.Version = sealed.Version
	return nil
}

func (s *SealedStore) Load(ctx context.Context, platform domain.Platform) (*domain.Credential, error) {
	cred, err := s.IntegrationStore.Load(ctx, platform)
	if err != nil {
		return nil, err
	}
	for _, field := range []*string{&cred.ClientSecret, &cred.AccessToken, &cred.RefreshToken} {
		v, err := s.sealer.Open(*field)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s credential: %w", platform, err)
		}
		*field = v
	}
	return cred, nil
}

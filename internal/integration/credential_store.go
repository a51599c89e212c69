package integration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.pavemaster.dev/integrations/domain"
)

// CredentialSeed is the client registration a platform strategy is created with.
// Empty URL fields fall back to the platform definition.
type CredentialSeed struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	APIBaseURL   string
	Scopes       []string
}

// CredentialStore gives the integration core access to one platform's credential.
type CredentialStore struct {
	platform domain.Platform
	repo     domain.CredentialRepository
	now      func() time.Time
}

func newCredentialStore(platform domain.Platform, repo domain.CredentialRepository, now func() time.Time) *CredentialStore {
	return &CredentialStore{platform: platform, repo: repo, now: now}
}

// Load returns the stored credential. A platform that was never seeded yields ErrCredentialNotFound.
func (s *CredentialStore) Load(ctx context.Context) (*domain.Credential, error) {
	cred, err := s.repo.Load(ctx, s.platform)
	if err != nil {
		return nil, err
	}
	return cred, nil
}

// Save validates and persists cred.
func (s *CredentialStore) Save(ctx context.Context, cred *domain.Credential) error {
	if err := cred.Validate(); err != nil {
		return err
	}
	cred.PlatformID = s.platform
	cred.UpdatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, s.platform, cred); err != nil {
		return fmt.Errorf("failed to save %s credential: %w", s.platform, err)
	}
	return nil
}

// maxSaveAttempts bounds how often Update reloads after losing a save to another writer.
const maxSaveAttempts = 5

// Update loads the credential, lets mutate change it and saves it. Another
// process may save the same credential in between (the server and pavectl share
// a store); the save then conflicts and mutate runs again on the fresh copy.
// mutate reports false to leave the stored credential untouched.
func (s *CredentialStore) Update(ctx context.Context, mutate func(cred *domain.Credential) bool) (*domain.Credential, error) {
	return s.update(ctx, false, mutate)
}

func (s *CredentialStore) update(ctx context.Context, create bool, mutate func(cred *domain.Credential) bool) (*domain.Credential, error) {
	for attempt := 1; ; attempt++ {
		cred, err := s.repo.Load(ctx, s.platform)
		switch {
		case create && errors.Is(err, domain.ErrCredentialNotFound):
			cred = &domain.Credential{PlatformID: s.platform}
		case err != nil:
			return nil, fmt.Errorf("failed to load %s credential: %w", s.platform, err)
		}

		if !mutate(cred) {
			return cred, nil
		}
		err = s.Save(ctx, cred)
		if err == nil {
			return cred, nil
		}
		if !errors.Is(err, domain.ErrCredentialConflict) || attempt == maxSaveAttempts {
			return nil, err
		}
	}
}

// Seed writes the client registration. Tokens already stored for the same
// client id survive, so a restart with a persistent backend stays authenticated.
// An unchanged registration is not written at all.
func (s *CredentialStore) Seed(ctx context.Context, seed CredentialSeed) error {
	_, err := s.update(ctx, true, func(cred *domain.Credential) bool {
		stored := cred.Version > 0
		if stored && cred.ClientID == seed.ClientID && cred.ClientSecret == seed.ClientSecret {
			return false
		}
		if cred.ClientID != seed.ClientID {
			cred.ClearTokens()
		}
		cred.ClientID = seed.ClientID
		cred.ClientSecret = seed.ClientSecret
		return true
	})
	return err
}

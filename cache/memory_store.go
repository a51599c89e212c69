package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/jellydator/ttlcache/v3"

	"go.pavemaster.dev/integrations/domain"
)

// MemoryStore implements domain.IntegrationStore in process memory.
// Credentials never expire; the history lives only as long as the process.
type MemoryStore struct {
	credMu      sync.Mutex // serializes the version check and write in Save
	credentials *ttlcache.Cache[domain.Platform, domain.Credential]

	mu      sync.RWMutex
	history []domain.SyncStatus
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		credentials: ttlcache.New(
			ttlcache.WithTTL[domain.Platform, domain.Credential](ttlcache.NoTTL),
			ttlcache.WithDisableTouchOnHit[domain.Platform, domain.Credential](),
		),
	}
}

// Load implements domain.CredentialRepository.
func (s *MemoryStore) Load(_ context.Context, platform domain.Platform) (*domain.Credential, error) {
	item := s.credentials.Get(platform)
	if item == nil {
		return nil, domain.ErrCredentialNotFound
	}
	cred := item.Value()
	return &cred, nil
}

// Save implements domain.CredentialRepository.
func (s *MemoryStore) Save(_ context.Context, platform domain.Platform, cred *domain.Credential) error {
	s.credMu.Lock()
	defer s.credMu.Unlock()

	var stored int64
	if item := s.credentials.Get(platform); item != nil {
		stored = item.Value().Version
	}
	if stored != cred.Version {
		return fmt.Errorf("%w: %s saved at version %d, stored version is %d",
			domain.ErrCredentialConflict, platform, cred.Version, stored)
	}

	next := *cred
	next.Version++
	s.credentials.Set(platform, next, ttlcache.NoTTL)
	cred.Version = next.Version
	return nil
}

// Append implements domain.SyncHistoryRepository.
func (s *MemoryStore) Append(_ context.Context, status *domain.SyncStatus) error {
	s.mu.Lock()
	s.history = append(s.history, status.Clone())
	s.mu.Unlock()
	return nil
}

// Query implements domain.SyncHistoryRepository.
func (s *MemoryStore) Query(_ context.Context, platform domain.Platform) ([]domain.SyncStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.SyncStatus, 0, len(s.history))
	for _, status := range s.history {
		if platform == "" || status.Platform == platform {
			out = append(out, status.Clone())
		}
	}
	return out, nil
}

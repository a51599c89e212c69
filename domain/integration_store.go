package domain

import (
	"context"
	"errors"
)

var (
	// ErrCredentialNotFound is returned by a CredentialRepository that has nothing stored for a platform.
	ErrCredentialNotFound = errors.New("domain: credential not found")
	// ErrCredentialConflict is returned by Save when another writer saved the credential
	// after the caller loaded it.
	ErrCredentialConflict = errors.New("domain: credential was modified concurrently")
)

// CredentialRepository persists one Credential per platform.
type CredentialRepository interface {
	// Load returns the stored credential, or ErrCredentialNotFound.
	Load(ctx context.Context, platform Platform) (*Credential, error)
	// Save replaces the stored credential for platform if its stored version still
	// equals cred.Version (0 when nothing is stored), otherwise it returns
	// ErrCredentialConflict. On success cred.Version holds the new version.
	Save(ctx context.Context, platform Platform, cred *Credential) error
}

// SyncHistoryRepository is the append-only log of sync attempts.
type SyncHistoryRepository interface {
	// Append adds a finished status to the end of the log.
	Append(ctx context.Context, status *SyncStatus) error
	// Query returns the log in append order. An empty platform returns every entry;
	// otherwise only entries whose Platform matches exactly.
	Query(ctx context.Context, platform Platform) ([]SyncStatus, error)
}

// IntegrationStore is the storage capability the integration core depends on.
type IntegrationStore interface {
	CredentialRepository
	SyncHistoryRepository
}

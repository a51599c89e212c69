// Package storage provides the embedded bbolt implementation of domain.IntegrationStore.
package storage

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"go.pavemaster.dev/integrations/domain"
)

var (
	credentialsBucket = []byte("credentials")
	historyBucket     = []byte("sync_history")
)

// BBoltStore keeps credentials and sync history in a single bbolt file.
type BBoltStore struct {
	db *bbolt.DB
}

// NewBBoltStore opens (or creates) the database at dbPath.
func NewBBoltStore(dbPath string) (*BBoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory for %s: %w", dbPath, err)
	}

	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bbolt db at %s: %w", dbPath, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{credentialsBucket, historyBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BBoltStore{db: db}, nil
}

// Close releases the database file lock.
func (s *BBoltStore) Close() error {
	return s.db.Close()
}

// Load implements domain.CredentialRepository.
func (s *BBoltStore) Load(_ context.Context, platform domain.Platform) (*domain.Credential, error) {
	var cred *domain.Credential
	err := s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(credentialsBucket).Get([]byte(platform))
		if raw == nil {
			return domain.ErrCredentialNotFound
		}
		cred = &domain.Credential{}
		if err := json.Unmarshal(raw, cred); err != nil {
			return fmt.Errorf("failed to decode %s credential: %w", platform, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cred, nil
}

// Save implements domain.CredentialRepository. The version check and the
// write share one transaction, and bbolt allows a single writer per file.
func (s *BBoltStore) Save(_ context.Context, platform domain.Platform, cred *domain.Credential) error {
	next := *cred
	next.Version++
	raw, err := json.Marshal(&next)
	if err != nil {
		return fmt.Errorf("failed to encode %s credential: %w", platform, err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(credentialsBucket)
		var stored int64
		if existing := b.Get([]byte(platform)); existing != nil {
			var current domain.Credential
			if err := json.Unmarshal(existing, &current); err != nil {
				return fmt.Errorf("failed to decode %s credential: %w", platform, err)
			}
			stored = current.Version
		}
		if stored != cred.Version {
			return fmt.Errorf("%w: %s saved at version %d, stored version is %d",
				domain.ErrCredentialConflict, platform, cred.Version, stored)
		}
		return b.Put([]byte(platform), raw)
	})
	if err != nil {
		return err
	}
	cred.Version = next.Version
	return nil
}

// Append implements domain.SyncHistoryRepository. Keys are the bucket
// sequence in big endian, so a cursor walks entries in append order.
func (s *BBoltStore) Append(_ context.Context, status *domain.SyncStatus) error {
	raw, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to encode sync status %s: %w", status.ID, err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(historyBucket)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		return b.Put(key, raw)
	})
}

// Query implements domain.SyncHistoryRepository.
func (s *BBoltStore) Query(_ context.Context, platform domain.Platform) ([]domain.SyncStatus, error) {
	out := []domain.SyncStatus{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(historyBucket).ForEach(func(_, v []byte) error {
			var status domain.SyncStatus
			if err := json.Unmarshal(v, &status); err != nil {
				return fmt.Errorf("failed to decode sync status: %w", err)
			}
			if platform == "" || status.Platform == platform {
				out = append(out, status)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

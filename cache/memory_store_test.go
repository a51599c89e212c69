package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.pavemaster.dev/integrations/domain"
)

func TestMemoryStore_Credentials(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Load(ctx, domain.PlatformStripe)
	require.ErrorIs(t, err, domain.ErrCredentialNotFound)

	cred := &domain.Credential{PlatformID: domain.PlatformStripe, ClientID: "ca_123", AccessToken: "at", RefreshToken: "rt"}
	require.NoError(t, s.Save(ctx, domain.PlatformStripe, cred))

	// The stored copy is detached from the caller's pointer.
	cred.AccessToken = "mutated"

	got, err := s.Load(ctx, domain.PlatformStripe)
	require.NoError(t, err)
	assert.Equal(t, "at", got.AccessToken)
	assert.Equal(t, "ca_123", got.ClientID)
	assert.EqualValues(t, 1, got.Version)
}

func TestMemoryStore_SaveRejectsStaleVersion(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first := &domain.Credential{ClientID: "ca_123", AccessToken: "at-1", RefreshToken: "rt-1"}
	require.NoError(t, s.Save(ctx, domain.PlatformStripe, first))

	// Two writers load the same version; only the first save wins.
	a, err := s.Load(ctx, domain.PlatformStripe)
	require.NoError(t, err)
	b, err := s.Load(ctx, domain.PlatformStripe)
	require.NoError(t, err)

	a.RefreshToken, a.AccessToken = "rt-2", "at-2"
	require.NoError(t, s.Save(ctx, domain.PlatformStripe, a))
	assert.EqualValues(t, 2, a.Version)

	b.ClientSecret = "stale"
	require.ErrorIs(t, s.Save(ctx, domain.PlatformStripe, b), domain.ErrCredentialConflict)

	got, err := s.Load(ctx, domain.PlatformStripe)
	require.NoError(t, err)
	assert.Equal(t, "rt-2", got.RefreshToken)
	assert.Empty(t, got.ClientSecret)

	// A fresh credential cannot overwrite an existing one.
	require.ErrorIs(t, s.Save(ctx, domain.PlatformStripe, &domain.Credential{ClientID: "other"}), domain.ErrCredentialConflict)
}

func TestMemoryStore_History(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	for i, p := range []domain.Platform{domain.PlatformStripe, domain.PlatformADP, domain.PlatformStripe} {
		st := domain.NewSyncStatus(string(rune('a'+i)), p, domain.SyncTypeFull, start)
		require.NoError(t, st.Complete(i, start.Add(time.Second)))
		require.NoError(t, s.Append(ctx, st))
	}

	all, err := s.Query(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "c", all[2].ID)

	stripe, err := s.Query(ctx, domain.PlatformStripe)
	require.NoError(t, err)
	require.Len(t, stripe, 2)
	assert.Equal(t, "a", stripe[0].ID)
	assert.Equal(t, "c", stripe[1].ID)

	sap, err := s.Query(ctx, domain.PlatformSAP)
	require.NoError(t, err)
	assert.Empty(t, sap)

	// Mutating a query result does not change the store.
	all[0].RecordsSynced = 999
	again, err := s.Query(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 0, again[0].RecordsSynced)
}

package mongodb_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.pavemaster.dev/integrations/domain"
	"go.pavemaster.dev/integrations/log"
	"go.pavemaster.dev/integrations/mongodb"
	"go.pavemaster.dev/integrations/mongodb/testutil"
)

func newTestStore(t *testing.T) *mongodb.IntegrationStore {
	t.Helper()
	db := testutil.SetupTestMongoDB(t, "integration_store_test")
	store, err := mongodb.NewIntegrationStore(context.Background(), db, log.Nop())
	require.NoError(t, err)
	return store
}

func TestIntegrationStore_Credentials(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Load(ctx, domain.PlatformSAP)
	require.ErrorIs(t, err, domain.ErrCredentialNotFound)

	cred := &domain.Credential{ClientID: "sap", ClientSecret: "s", AccessToken: "at", RefreshToken: "rt",
		ExpiresAt: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	require.NoError(t, store.Save(ctx, domain.PlatformSAP, cred))

	cred.AccessToken = "at2"
	cred.RefreshToken = "rt2"
	require.NoError(t, store.Save(ctx, domain.PlatformSAP, cred))

	got, err := store.Load(ctx, domain.PlatformSAP)
	require.NoError(t, err)
	assert.Equal(t, domain.PlatformSAP, got.PlatformID)
	assert.Equal(t, "rt2", got.RefreshToken)
	assert.True(t, cred.ExpiresAt.Equal(got.ExpiresAt))
	assert.EqualValues(t, 2, got.Version)
}

func TestIntegrationStore_SaveRejectsStaleVersion(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Save(ctx, domain.PlatformQuickBooks, &domain.Credential{ClientID: "qb", AccessToken: "at-1", RefreshToken: "rt-1"}))

	stale, err := store.Load(ctx, domain.PlatformQuickBooks)
	require.NoError(t, err)
	fresh, err := store.Load(ctx, domain.PlatformQuickBooks)
	require.NoError(t, err)

	fresh.AccessToken, fresh.RefreshToken = "at-2", "rt-2"
	require.NoError(t, store.Save(ctx, domain.PlatformQuickBooks, fresh))
	require.ErrorIs(t, store.Save(ctx, domain.PlatformQuickBooks, stale), domain.ErrCredentialConflict)

	// Creating over an existing document is a conflict too.
	require.ErrorIs(t, store.Save(ctx, domain.PlatformQuickBooks, &domain.Credential{ClientID: "qb"}), domain.ErrCredentialConflict)

	got, err := store.Load(ctx, domain.PlatformQuickBooks)
	require.NoError(t, err)
	assert.Equal(t, "rt-2", got.RefreshToken)
}

func TestIntegrationStore_History(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	ids := []string{"a", "b", "c"}
	for i, p := range []domain.Platform{domain.PlatformStripe, domain.PlatformADP, domain.PlatformStripe} {
		st := domain.NewSyncStatus(ids[i], p, domain.SyncTypeFull, start)
		require.NoError(t, st.Complete(i, start.Add(time.Minute)))
		require.NoError(t, store.Append(ctx, st))
	}

	all, err := store.Query(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "c", all[2].ID)

	stripe, err := store.Query(ctx, domain.PlatformStripe)
	require.NoError(t, err)
	require.Len(t, stripe, 2)
	assert.Equal(t, "c", stripe[1].ID)

	dup := domain.NewSyncStatus("a", domain.PlatformStripe, domain.SyncTypeFull, start)
	assert.Error(t, store.Append(ctx, dup))
}

func TestIntegrationStore_HistoryOrderAcrossStores(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestMongoDB(t, "pave_history_order")

	// Two processes appending to one database within the same second.
	server, err := mongodb.NewIntegrationStore(ctx, db, log.Nop())
	require.NoError(t, err)
	cli, err := mongodb.NewIntegrationStore(ctx, db, log.Nop())
	require.NoError(t, err)

	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	var want []string
	for i := 0; i < 10; i++ {
		store := server
		if i%2 == 1 {
			store = cli
		}
		id := fmt.Sprintf("sync-%02d", i)
		st := domain.NewSyncStatus(id, domain.PlatformADP, domain.SyncTypeIncremental, start)
		require.NoError(t, st.Complete(i, start))
		require.NoError(t, store.Append(ctx, st))
		want = append(want, id)
	}

	all, err := server.Query(ctx, "")
	require.NoError(t, err)
	got := make([]string, len(all))
	for i := range all {
		got[i] = all[i].ID
	}
	assert.Equal(t, want, got)
}

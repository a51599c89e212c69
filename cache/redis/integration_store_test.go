package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.pavemaster.dev/integrations/domain"
)

func setupTestRedis(t *testing.T) *IntegrationStore {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set, skipping Redis tests")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, client.Ping(context.Background()).Err())

	prefix := "pavetest:" + uuid.NewString()
	t.Cleanup(func() {
		ctx := context.Background()
		keys, _ := client.Keys(ctx, prefix+":*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		_ = client.Close()
	})
	return NewIntegrationStore(client, prefix)
}

func TestIntegrationStore_Credentials(t *testing.T) {
	ctx := context.Background()
	store := setupTestRedis(t)

	_, err := store.Load(ctx, domain.PlatformQuickBooks)
	require.ErrorIs(t, err, domain.ErrCredentialNotFound)

	cred := &domain.Credential{
		ClientID:     "qb",
		ClientSecret: "secret",
		AccessToken:  "at",
		RefreshToken: "rt",
		ExpiresAt:    time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Save(ctx, domain.PlatformQuickBooks, cred))

	got, err := store.Load(ctx, domain.PlatformQuickBooks)
	require.NoError(t, err)
	assert.Equal(t, domain.PlatformQuickBooks, got.PlatformID)
	assert.Equal(t, "rt", got.RefreshToken)
	assert.Equal(t, cred.ExpiresAt, got.ExpiresAt)
	assert.Equal(t, cred.UpdatedAt, got.UpdatedAt)

	cred.ClearTokens()
	require.NoError(t, store.Save(ctx, domain.PlatformQuickBooks, cred))
	got, err = store.Load(ctx, domain.PlatformQuickBooks)
	require.NoError(t, err)
	assert.False(t, got.IsAuthenticated())
	assert.True(t, got.ExpiresAt.IsZero())
	assert.EqualValues(t, 2, got.Version)
}

func TestIntegrationStore_SaveRejectsStaleVersion(t *testing.T) {
	ctx := context.Background()
	store := setupTestRedis(t)

	require.NoError(t, store.Save(ctx, domain.PlatformStripe, &domain.Credential{ClientID: "ca", AccessToken: "at-1", RefreshToken: "rt-1"}))

	stale, err := store.Load(ctx, domain.PlatformStripe)
	require.NoError(t, err)
	fresh, err := store.Load(ctx, domain.PlatformStripe)
	require.NoError(t, err)

	fresh.AccessToken, fresh.RefreshToken = "at-2", "rt-2"
	require.NoError(t, store.Save(ctx, domain.PlatformStripe, fresh))

	require.ErrorIs(t, store.Save(ctx, domain.PlatformStripe, stale), domain.ErrCredentialConflict)

	got, err := store.Load(ctx, domain.PlatformStripe)
	require.NoError(t, err)
	assert.Equal(t, "rt-2", got.RefreshToken)
	assert.EqualValues(t, 2, got.Version)
}

func TestIntegrationStore_History(t *testing.T) {
	ctx := context.Background()
	store := setupTestRedis(t)
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	for _, p := range []domain.Platform{domain.PlatformADP, domain.PlatformStripe, domain.PlatformADP} {
		st := domain.NewSyncStatus(uuid.NewString(), p, domain.SyncTypeFull, start)
		require.NoError(t, st.Complete(1, start))
		require.NoError(t, store.Append(ctx, st))
	}

	all, err := store.Query(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	adp, err := store.Query(ctx, domain.PlatformADP)
	require.NoError(t, err)
	assert.Len(t, adp, 2)
}

func TestParseMillis(t *testing.T) {
	got, err := parseMillis("0")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	got, err = parseMillis("1717232400000")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC), got)

	_, err = parseMillis("soon")
	assert.Error(t, err)
}

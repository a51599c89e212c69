package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.pavemaster.dev/integrations/domain"
)

func TestParsePlatform(t *testing.T) {
	for _, p := range domain.AllPlatforms() {
		got, err := domain.ParsePlatform(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	_, err := domain.ParsePlatform("xero")
	assert.ErrorIs(t, err, domain.ErrInvalidPlatform)

	_, err = domain.ParsePlatform("Stripe")
	assert.ErrorIs(t, err, domain.ErrInvalidPlatform, "platform keys are case sensitive")
}

func TestSyncType_IsValid(t *testing.T) {
	assert.True(t, domain.SyncTypeFull.IsValid())
	assert.True(t, domain.SyncTypeIncremental.IsValid())
	assert.False(t, domain.SyncType("delta").IsValid())
	assert.False(t, domain.SyncType("").IsValid())
}

func TestCredential_Validate(t *testing.T) {
	c := &domain.Credential{PlatformID: domain.PlatformStripe, ClientID: "id"}
	require.NoError(t, c.Validate())
	assert.False(t, c.IsAuthenticated())

	c.AccessToken = "at"
	assert.ErrorIs(t, c.Validate(), domain.ErrInconsistentCredential)

	c.RefreshToken = "rt"
	require.NoError(t, c.Validate())
	assert.True(t, c.IsAuthenticated())

	c.ClearTokens()
	require.NoError(t, c.Validate())
	assert.False(t, c.IsAuthenticated())
	assert.Zero(t, c.ExpiresAtEpochMillis())
}

func TestCredential_Expired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := &domain.Credential{}
	assert.False(t, c.Expired(now, time.Minute), "unknown expiry never expires")

	c.ExpiresAt = now.Add(time.Hour)
	assert.False(t, c.Expired(now, 30*time.Second))
	assert.True(t, c.Expired(now.Add(59*time.Minute+45*time.Second), 30*time.Second))
	assert.Equal(t, now.Add(time.Hour).UnixMilli(), c.ExpiresAtEpochMillis())
}

func TestSyncStatus_Transitions(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := domain.NewSyncStatus("id-1", domain.PlatformStripe, domain.SyncTypeFull, start)
	assert.Equal(t, domain.SyncStateInProgress, s.State)
	assert.Zero(t, s.Duration())

	require.NoError(t, s.Complete(42, start.Add(3*time.Second)))
	assert.Equal(t, domain.SyncStateCompleted, s.State)
	assert.Equal(t, 42, s.RecordsSynced)
	assert.Equal(t, 3*time.Second, s.Duration())

	assert.ErrorIs(t, s.Fail(errors.New("late"), start), domain.ErrSyncStatusFinal)
	assert.ErrorIs(t, s.Complete(1, start), domain.ErrSyncStatusFinal)
	assert.Equal(t, 42, s.RecordsSynced)
	assert.Empty(t, s.Errors)
}

func TestSyncStatus_FailAndClone(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := domain.NewSyncStatus("id-2", domain.PlatformADP, domain.SyncTypeIncremental, start)
	require.NoError(t, s.Fail(errors.New("boom"), start.Add(time.Second)))
	assert.Equal(t, domain.SyncStateFailed, s.State)
	assert.Equal(t, []string{"boom"}, s.Errors)
	assert.Zero(t, s.RecordsSynced)

	clone := s.Clone()
	clone.Errors[0] = "changed"
	*clone.EndTime = start
	assert.Equal(t, "boom", s.Errors[0])
	assert.Equal(t, start.Add(time.Second), *s.EndTime)
}

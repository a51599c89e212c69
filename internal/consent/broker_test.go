package consent_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.pavemaster.dev/integrations/domain"
	"go.pavemaster.dev/integrations/internal/consent"
	"go.pavemaster.dev/integrations/internal/integration"
)

func TestBroker_State(t *testing.T) {
	b := consent.NewBroker(time.Minute)

	state := b.IssueState(domain.PlatformStripe)
	assert.NotEmpty(t, state)
	assert.NotEqual(t, state, b.IssueState(domain.PlatformStripe))

	require.NoError(t, b.VerifyState(state, domain.PlatformStripe))
	// Single use.
	require.ErrorIs(t, b.VerifyState(state, domain.PlatformStripe), consent.ErrInvalidState)

	other := b.IssueState(domain.PlatformADP)
	require.ErrorIs(t, b.VerifyState(other, domain.PlatformStripe), consent.ErrStateMismatch)

	require.ErrorIs(t, b.VerifyState("made-up", domain.PlatformStripe), consent.ErrInvalidState)
}

func TestBroker_StateExpires(t *testing.T) {
	b := consent.NewBroker(10 * time.Millisecond)
	state := b.IssueState(domain.PlatformStripe)

	time.Sleep(30 * time.Millisecond)
	require.ErrorIs(t, b.VerifyState(state, domain.PlatformStripe), consent.ErrInvalidState)
}

func TestBroker_Codes(t *testing.T) {
	ctx := context.Background()
	b := consent.NewBroker(time.Minute)

	_, err := b.GetAuthorizationCode(ctx, domain.PlatformStripe, "https://pave.example/cb")
	require.ErrorIs(t, err, integration.ErrAuthorizationPending)

	b.Deliver(domain.PlatformStripe, "code-1")
	code, err := b.GetAuthorizationCode(ctx, domain.PlatformStripe, "https://pave.example/cb")
	require.NoError(t, err)
	assert.Equal(t, "code-1", code)

	_, err = b.GetAuthorizationCode(ctx, domain.PlatformStripe, "https://pave.example/cb")
	require.ErrorIs(t, err, integration.ErrAuthorizationPending)

	_, err = b.GetAuthorizationCode(ctx, domain.PlatformADP, "")
	require.ErrorIs(t, err, integration.ErrAuthorizationPending)
}

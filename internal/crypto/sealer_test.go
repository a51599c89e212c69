package crypto_test

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.pavemaster.dev/integrations/cache"
	"go.pavemaster.dev/integrations/domain"
	"go.pavemaster.dev/integrations/internal/crypto"
)

func TestSealer_RoundTrip(t *testing.T) {
	s, err := crypto.NewSealer("correct horse battery staple")
	require.NoError(t, err)

	sealed, err := s.Seal("sk_live_123")
	require.NoError(t, err)
	assert.True(t, crypto.IsSealed(sealed))
	assert.NotContains(t, sealed, "sk_live_123")

	again, err := s.Seal("sk_live_123")
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonce must differ per seal")

	plain, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "sk_live_123", plain)

	empty, err := s.Seal("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	legacy, err := s.Open("plain-value")
	require.NoError(t, err)
	assert.Equal(t, "plain-value", legacy)
}

func TestSealer_Failures(t *testing.T) {
	_, err := crypto.NewSealer("")
	require.ErrorIs(t, err, crypto.ErrEmptySecret)

	a, err := crypto.NewSealer("key-a")
	require.NoError(t, err)
	b, err := crypto.NewSealer("key-b")
	require.NoError(t, err)

	sealed, err := a.Seal("secret")
	require.NoError(t, err)

	_, err = b.Open(sealed)
	require.ErrorIs(t, err, crypto.ErrDecryptFailed)

	// Flip a ciphertext byte.
	box, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(sealed, "sealed:v1:"))
	require.NoError(t, err)
	box[len(box)-1] ^= 0xff
	_, err = a.Open("sealed:v1:" + base64.RawURLEncoding.EncodeToString(box))
	require.ErrorIs(t, err, crypto.ErrDecryptFailed)

	_, err = a.Open("sealed:v1:!!!")
	require.ErrorIs(t, err, crypto.ErrMalformed)
}

func TestSealedStore(t *testing.T) {
	ctx := context.Background()
	sealer, err := crypto.NewSealer("k")
	require.NoError(t, err)
	inner := cache.NewMemoryStore()
	store := crypto.NewSealedStore(inner, sealer)

	cred := &domain.Credential{ClientID: "id", ClientSecret: "secret", AccessToken: "at", RefreshToken: "rt"}
	require.NoError(t, store.Save(ctx, domain.PlatformStripe, cred))
	assert.Equal(t, "secret", cred.ClientSecret, "caller's credential is not modified")
	assert.EqualValues(t, 1, cred.Version)

	// The version reported back lets the caller save again.
	cred.AccessToken, cred.RefreshToken = "at", "rt"
	require.NoError(t, store.Save(ctx, domain.PlatformStripe, cred))
	assert.EqualValues(t, 2, cred.Version)
	require.ErrorIs(t, store.Save(ctx, domain.PlatformStripe, &domain.Credential{ClientID: "id"}), domain.ErrCredentialConflict)

	raw, err := inner.Load(ctx, domain.PlatformStripe)
	require.NoError(t, err)
	assert.Equal(t, "id", raw.ClientID)
	for _, v := range []string{raw.ClientSecret, raw.AccessToken, raw.RefreshToken} {
		assert.True(t, strings.HasPrefix(v, "sealed:v1:"), v)
	}

	got, err := store.Load(ctx, domain.PlatformStripe)
	require.NoError(t, err)
	assert.Equal(t, "secret", got.ClientSecret)
	assert.Equal(t, "at", got.AccessToken)
	assert.Equal(t, "rt", got.RefreshToken)

	_, err = store.Load(ctx, domain.PlatformADP)
	require.ErrorIs(t, err, domain.ErrCredentialNotFound)
}

// Package consent tracks OAuth consent round trips: the state handed to the
// platform's consent page and the authorization code it sends back.
package consent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"

	"go.pavemaster.dev/integrations/domain"
	"go.pavemaster.dev/integrations/internal/integration"
)

// DefaultTTL bounds how long a user may take on the consent page.
const DefaultTTL = 10 * time.Minute

var (
	ErrInvalidState  = errors.New("consent: unknown or expired state")
	ErrStateMismatch = errors.New("consent: state was issued for another platform")
)

// Broker issues consent states and hands delivered authorization codes to the
// Authenticator. It implements integration.AuthorizationCodeSource.
type Broker struct {
	states *ttlcache.Cache[string, domain.Platform]
	codes  *ttlcache.Cache[domain.Platform, string]
}

var _ integration.AuthorizationCodeSource = (*Broker)(nil)

// NewBroker creates a broker whose states and codes expire after ttl.
func NewBroker(ttl time.Duration) *Broker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Broker{
		states: ttlcache.New(
			ttlcache.WithTTL[string, domain.Platform](ttl),
			ttlcache.WithDisableTouchOnHit[string, domain.Platform](),
		),
		codes: ttlcache.New(
			ttlcache.WithTTL[domain.Platform, string](ttl),
			ttlcache.WithDisableTouchOnHit[domain.Platform, string](),
		),
	}
}

// Start runs the expiry loop until Stop is called.
func (b *Broker) Start() {
	go b.states.Start()
	go b.codes.Start()
}

// Stop ends the expiry loop. It blocks unless Start was called first.
func (b *Broker) Stop() {
	b.states.Stop()
	b.codes.Stop()
}

// IssueState returns a fresh single-use state bound to platform.
func (b *Broker) IssueState(platform domain.Platform) string {
	state := uuid.NewString()
	b.states.Set(state, platform, ttlcache.DefaultTTL)
	return state
}

// VerifyState consumes state and checks it was issued for platform.
func (b *Broker) VerifyState(state string, platform domain.Platform) error {
	item, ok := b.states.GetAndDelete(state)
	if !ok || item.IsExpired() {
		return ErrInvalidState
	}
	if item.Value() != platform {
		return fmt.Errorf("%w: expected %s", ErrStateMismatch, item.Value())
	}
	return nil
}

// Deliver stores the code returned on the callback until the next authentication picks it up.
func (b *Broker) Deliver(platform domain.Platform, code string) {
	b.codes.Set(platform, code, ttlcache.DefaultTTL)
}

// GetAuthorizationCode hands out the delivered code once.
func (b *Broker) GetAuthorizationCode(_ context.Context, platform domain.Platform, _ string) (string, error) {
	item, ok := b.codes.GetAndDelete(platform)
	if !ok || item.IsExpired() {
		return "", fmt.Errorf("%w: %s", integration.ErrAuthorizationPending, platform)
	}
	return item.Value(), nil
}

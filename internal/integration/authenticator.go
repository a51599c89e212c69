package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
	"golang.org/x/sync/semaphore"

	"go.pavemaster.dev/integrations/domain"
	"go.pavemaster.dev/integrations/internal/metrics"
	"go.pavemaster.dev/integrations/log"
)

const (
	grantAuthorizationCode = "authorization_code"
	grantRefreshToken      = "refresh_token"

	// tokenExpirySkew treats tokens this close to expiry as already expired.
	tokenExpirySkew = 30 * time.Second
)

// Authenticator obtains and refreshes OAuth2 bearer credentials for one platform.
// Every token exchange for the platform runs under a single lock, so two
// refreshes in this process never race. Writes go through versioned saves,
// so a process sharing the store cannot overwrite a rotated refresh token
// with the one it loaded earlier.
type Authenticator struct {
	platform    domain.Platform
	definition  PlatformDefinition
	redirectURL string
	store       *CredentialStore
	codes       AuthorizationCodeSource
	httpClient  *http.Client
	lock        *semaphore.Weighted
	now         func() time.Time
	logger      log.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
}

// oauthConfig builds the oauth2 configuration from the definition and the stored client registration.
func (a *Authenticator) oauthConfig(cred *domain.Credential) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cred.ClientID,
		ClientSecret: cred.ClientSecret,
		Endpoint:     a.definition.Endpoint,
		RedirectURL:  a.redirectURL,
		Scopes:       a.definition.Scopes,
	}
}

// clientContext makes the oauth2 package use our HTTP client and its timeout.
func (a *Authenticator) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
}

// RedirectURL is the callback URL registered with the platform.
func (a *Authenticator) RedirectURL() string {
	return a.redirectURL
}

// AuthCodeURL returns the consent page URL the user must be sent to.
func (a *Authenticator) AuthCodeURL(ctx context.Context, state string, opts ...oauth2.AuthCodeOption) (string, error) {
	cred, err := a.store.Load(ctx)
	if err != nil {
		return "", err
	}
	return a.oauthConfig(cred).AuthCodeURL(state, opts...), nil
}

// Authenticate exchanges an authorization code for a token pair and stores it.
// Token endpoint errors are returned unmodified; nothing is retried.
func (a *Authenticator) Authenticate(ctx context.Context) (err error) {
	ctx, span := a.startSpan(ctx, "integration.Authenticate")
	defer endSpan(span, &err)

	if err := a.lock.Acquire(ctx, 1); err != nil {
		return err
	}
	defer a.lock.Release(1)

	cred, err := a.store.Load(ctx)
	if err != nil {
		return err
	}

	cfg := a.oauthConfig(cred)
	code, err := a.codes.GetAuthorizationCode(ctx, a.platform, cfg.RedirectURL)
	if err != nil {
		return err
	}

	token, err := cfg.Exchange(a.clientContext(ctx), code)
	a.metrics.TokenExchange(a.platform, grantAuthorizationCode, err)
	if err != nil {
		return err
	}
	if token.AccessToken == "" || token.RefreshToken == "" {
		return fmt.Errorf("%w: %s", ErrIncompleteTokenResponse, a.platform)
	}

	cred, err = a.store.Update(ctx, func(c *domain.Credential) bool {
		a.applyToken(c, token)
		return true
	})
	if err != nil {
		return err
	}

	a.logger.Info(ctx, "Platform authenticated", log.Fields{
		"platform":   a.platform.String(),
		"expires_at": cred.ExpiresAt,
	})
	return nil
}

// RefreshAccessToken exchanges the stored refresh token for a new token pair.
// The platform may rotate the refresh token; the new one replaces the old.
func (a *Authenticator) RefreshAccessToken(ctx context.Context) (err error) {
	ctx, span := a.startSpan(ctx, "integration.RefreshAccessToken")
	defer endSpan(span, &err)

	if err := a.lock.Acquire(ctx, 1); err != nil {
		return err
	}
	defer a.lock.Release(1)

	cred, err := a.store.Load(ctx)
	if err != nil {
		return err
	}
	return a.refreshLocked(ctx, cred)
}

// AccessToken returns a bearer token for API calls, refreshing it first when expired.
func (a *Authenticator) AccessToken(ctx context.Context) (string, error) {
	if err := a.lock.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer a.lock.Release(1)

	cred, err := a.store.Load(ctx)
	if err != nil {
		return "", err
	}
	if !cred.IsAuthenticated() {
		return "", fmt.Errorf("%w: %s", ErrNotAuthenticated, a.platform)
	}
	if cred.Expired(a.now(), tokenExpirySkew) {
		a.logger.Debug(ctx, "Access token expired, refreshing", log.Fields{"platform": a.platform.String()})
		if err := a.refreshLocked(ctx, cred); err != nil {
			return "", fmt.Errorf("failed to refresh expired %s token: %w", a.platform, err)
		}
	}
	return cred.AccessToken, nil
}

// refreshLocked must be called with the lock held. It updates cred in place.
func (a *Authenticator) refreshLocked(ctx context.Context, cred *domain.Credential) error {
	if cred.RefreshToken == "" {
		return fmt.Errorf("%w: %s", ErrMissingRefreshToken, a.platform)
	}

	// A token without an access token is never valid, so the source always hits the endpoint.
	source := a.oauthConfig(cred).TokenSource(a.clientContext(ctx), &oauth2.Token{RefreshToken: cred.RefreshToken})
	token, err := source.Token()
	a.metrics.TokenExchange(a.platform, grantRefreshToken, err)
	if err != nil {
		if current, ok := a.rotatedElsewhere(ctx, cred); ok {
			a.logger.Info(ctx, "Refresh token was already rotated by another process", log.Fields{
				"platform": a.platform.String(),
			})
			*cred = *current
			return nil
		}
		return err
	}

	updated, err := a.store.Update(ctx, func(c *domain.Credential) bool {
		a.applyToken(c, token)
		return true
	})
	if err != nil {
		return err
	}
	*cred = *updated

	a.logger.Debug(ctx, "Access token refreshed", log.Fields{
		"platform":   a.platform.String(),
		"expires_at": cred.ExpiresAt,
	})
	return nil
}

// rotatedElsewhere reloads the credential after a failed refresh. When another
// process sharing the store already exchanged the refresh token we presented,
// the stored pair is newer than ours and still valid, and it is used instead.
func (a *Authenticator) rotatedElsewhere(ctx context.Context, presented *domain.Credential) (*domain.Credential, bool) {
	current, err := a.store.Load(ctx)
	if err != nil {
		return nil, false
	}
	if !current.IsAuthenticated() || current.RefreshToken == presented.RefreshToken {
		return nil, false
	}
	if current.Expired(a.now(), tokenExpirySkew) {
		return nil, false
	}
	return current, true
}

func (a *Authenticator) applyToken(cred *domain.Credential, token *oauth2.Token) {
	cred.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		cred.RefreshToken = token.RefreshToken
	}
	if secs, ok := expiresIn(token); ok {
		cred.ExpiresAt = a.now().Add(time.Duration(secs) * time.Second).UTC()
	} else {
		cred.ExpiresAt = token.Expiry.UTC()
	}
}

// expiresIn reads the raw expires_in field so the expiry is computed against our clock.
func expiresIn(token *oauth2.Token) (int64, bool) {
	switch v := token.Extra("expires_in").(type) {
	case float64:
		return int64(v), v > 0
	case json.Number:
		n, err := v.Int64()
		return n, err == nil && n > 0
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil && n > 0
	default:
		return 0, false
	}
}

func (a *Authenticator) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return a.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("integration.platform", a.platform.String())))
}

func endSpan(span trace.Span, err *error) {
	if *err != nil {
		span.RecordError(*err)
		span.SetStatus(codes.Error, (*err).Error())
	}
	span.End()
}

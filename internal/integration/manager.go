package integration

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"go.pavemaster.dev/integrations/domain"
	"go.pavemaster.dev/integrations/internal/metrics"
	"go.pavemaster.dev/integrations/log"
)

const (
	// DefaultHTTPTimeout bounds every token and sync call.
	DefaultHTTPTimeout = 10 * time.Second
	// DefaultRedirectBaseURL is where the HTTP API listens when nothing else is configured.
	DefaultRedirectBaseURL = "http://localhost:8080"

	tracerName = "go.pavemaster.dev/integrations/internal/integration"
)

// Audit actions.
const (
	ActionRegister     = "register"
	ActionAuthenticate = "authenticate"
	ActionRefresh      = "refresh"
)

// Auditor records credential-affecting actions.
type Auditor interface {
	Record(ctx context.Context, action string, platform domain.Platform, err error)
}

// Strategy bundles everything needed to talk to one platform.
type Strategy struct {
	Definition    PlatformDefinition
	Credentials   *CredentialStore
	Authenticator *Authenticator
	Runner        *SyncRunner
}

// PlatformStatus summarizes a registered platform's credential without exposing secrets.
type PlatformStatus struct {
	Platform      domain.Platform `json:"platform" yaml:"platform"`
	DisplayName   string          `json:"display_name" yaml:"display_name"`
	Authenticated bool            `json:"authenticated" yaml:"authenticated"`
	ExpiresAt     *time.Time      `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	UpdatedAt     time.Time       `json:"updated_at" yaml:"updated_at"`
}

// Manager is the registry of platform strategies and the entry point for
// authentication and sync operations.
type Manager struct {
	mu         sync.RWMutex
	strategies map[domain.Platform]*Strategy

	store           domain.IntegrationStore
	codes           AuthorizationCodeSource
	httpClient      *http.Client
	redirectBaseURL string
	invoker         *RateLimitedInvoker
	now             func() time.Time
	newID           func() string
	logger          log.Logger
	metrics         *metrics.Metrics
	auditor         Auditor
	tracer          trace.Tracer
}

// Option configures a Manager.
type Option func(*Manager)

// WithHTTPClient sets the client used for token and API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(m *Manager) { m.httpClient = c }
}

// WithRedirectBaseURL sets the public base URL the OAuth callbacks are served under.
func WithRedirectBaseURL(base string) Option {
	return func(m *Manager) { m.redirectBaseURL = strings.TrimRight(base, "/") }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator overrides how sync ids are generated.
func WithIDGenerator(newID func() string) Option {
	return func(m *Manager) { m.newID = newID }
}

func WithLogger(logger log.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) { m.metrics = mt }
}

func WithAuditor(a Auditor) Option {
	return func(m *Manager) { m.auditor = a }
}

// WithInvoker replaces the rate limit wrapper used by every sync runner.
func WithInvoker(inv *RateLimitedInvoker) Option {
	return func(m *Manager) { m.invoker = inv }
}

func WithTracer(t trace.Tracer) Option {
	return func(m *Manager) { m.tracer = t }
}

// NewManager creates an empty registry backed by store. codes supplies the
// authorization codes produced by user consent.
func NewManager(store domain.IntegrationStore, codes AuthorizationCodeSource, opts ...Option) *Manager {
	m := &Manager{
		strategies:      make(map[domain.Platform]*Strategy),
		store:           store,
		codes:           codes,
		redirectBaseURL: DefaultRedirectBaseURL,
		now:             time.Now,
		newID:           uuid.NewString,
		logger:          log.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.httpClient == nil {
		m.httpClient = &http.Client{
			Timeout:   DefaultHTTPTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if m.invoker == nil {
		m.invoker = NewRateLimitedInvoker(WithInvokerLogger(m.logger), WithInvokerMetrics(m.metrics))
	}
	if m.tracer == nil {
		m.tracer = otel.Tracer(tracerName)
	}
	return m
}

// RedirectURL returns the OAuth callback URL for platform.
func (m *Manager) RedirectURL(platform domain.Platform) string {
	return m.redirectBaseURL + "/integrations/" + url.PathEscape(platform.String()) + "/callback"
}

// RegisterStrategy creates (or replaces) the strategy for platform and seeds its
// client registration. Tokens stored from an earlier run are kept.
func (m *Manager) RegisterStrategy(ctx context.Context, platform domain.Platform, seed CredentialSeed) (err error) {
	defer func() { m.audit(ctx, ActionRegister, platform, err) }()

	if !platform.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedPlatform, platform)
	}
	def, err := DefinitionFor(platform)
	if err != nil {
		return err
	}
	if def, err = def.WithSeed(seed); err != nil {
		return err
	}

	creds := newCredentialStore(platform, m.store, m.now)
	if err := creds.Seed(ctx, seed); err != nil {
		return err
	}

	auth := &Authenticator{
		platform:    platform,
		definition:  def,
		redirectURL: m.RedirectURL(platform),
		store:       creds,
		codes:       m.codes,
		httpClient:  m.httpClient,
		lock:        semaphore.NewWeighted(1),
		now:         m.now,
		logger:      m.logger,
		metrics:     m.metrics,
		tracer:      m.tracer,
	}
	runner := &SyncRunner{
		definition: def,
		tokens:     auth,
		invoker:    m.invoker,
		httpClient: m.httpClient,
		now:        m.now,
		newID:      m.newID,
		logger:     m.logger,
		metrics:    m.metrics,
		tracer:     m.tracer,
	}

	m.mu.Lock()
	m.strategies[platform] = &Strategy{
		Definition:    def,
		Credentials:   creds,
		Authenticator: auth,
		Runner:        runner,
	}
	m.mu.Unlock()

	m.logger.Info(ctx, "Platform strategy registered", log.Fields{
		"platform":     platform.String(),
		"api_base_url": def.APIBaseURL,
	})
	return nil
}

// Strategy returns the registered strategy for platform.
func (m *Manager) Strategy(platform domain.Platform) (*Strategy, error) {
	m.mu.RLock()
	s, ok := m.strategies[platform]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlatform, platform)
	}
	return s, nil
}

// Platforms lists the registered platforms in their canonical order.
func (m *Manager) Platforms() []domain.Platform {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Platform, 0, len(m.strategies))
	for _, p := range domain.AllPlatforms() {
		if _, ok := m.strategies[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Authenticate runs the authorization code exchange for platform.
func (m *Manager) Authenticate(ctx context.Context, platform domain.Platform) error {
	s, err := m.Strategy(platform)
	if err != nil {
		return err
	}
	err = s.Authenticator.Authenticate(withPlatform(ctx, platform))
	m.audit(ctx, ActionAuthenticate, platform, err)
	return err
}

// RefreshAccessToken exchanges platform's refresh token for a new token pair.
func (m *Manager) RefreshAccessToken(ctx context.Context, platform domain.Platform) error {
	s, err := m.Strategy(platform)
	if err != nil {
		return err
	}
	err = s.Authenticator.RefreshAccessToken(withPlatform(ctx, platform))
	m.audit(ctx, ActionRefresh, platform, err)
	return err
}

// Sync runs a sync for platform and appends the outcome to the history.
// An empty sync type means incremental. A failed sync is not an error:
// it comes back as a status in the failed state.
func (m *Manager) Sync(ctx context.Context, platform domain.Platform, syncType domain.SyncType) (domain.SyncStatus, error) {
	if syncType == "" {
		syncType = domain.SyncTypeIncremental
	}
	if !syncType.IsValid() {
		return domain.SyncStatus{}, fmt.Errorf("%w: %q", ErrUnsupportedSyncType, syncType)
	}
	s, err := m.Strategy(platform)
	if err != nil {
		return domain.SyncStatus{}, err
	}

	status := s.Runner.Sync(ctx, syncType)

	// The sync already happened; record it even if the caller has gone away.
	if err := m.store.Append(context.WithoutCancel(ctx), &status); err != nil {
		return status.Clone(), fmt.Errorf("failed to record %s sync %s: %w", platform, status.ID, err)
	}
	return status.Clone(), nil
}

// SyncAll syncs every registered platform concurrently. A failed platform
// does not stop the others; results follow Platforms order.
func (m *Manager) SyncAll(ctx context.Context, syncType domain.SyncType) ([]domain.SyncStatus, error) {
	platforms := m.Platforms()
	results := make([]domain.SyncStatus, len(platforms))

	var g errgroup.Group
	for i, p := range platforms {
		g.Go(func() error {
			status, err := m.Sync(ctx, p, syncType)
			results[i] = status
			return err
		})
	}
	return results, g.Wait()
}

// History returns the recorded syncs in completion order, optionally filtered
// to one platform. The result is a copy.
func (m *Manager) History(ctx context.Context, platform domain.Platform) ([]domain.SyncStatus, error) {
	history, err := m.store.Query(ctx, platform)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync history: %w", err)
	}
	out := make([]domain.SyncStatus, len(history))
	for i := range history {
		out[i] = history[i].Clone()
	}
	return out, nil
}

// AuthCodeURL returns the consent page URL for platform carrying state.
func (m *Manager) AuthCodeURL(ctx context.Context, platform domain.Platform, state string) (string, error) {
	s, err := m.Strategy(platform)
	if err != nil {
		return "", err
	}
	return s.Authenticator.AuthCodeURL(ctx, state, oauth2.AccessTypeOffline)
}

// CredentialStatus reports whether platform holds a token pair and when it expires.
func (m *Manager) CredentialStatus(ctx context.Context, platform domain.Platform) (PlatformStatus, error) {
	s, err := m.Strategy(platform)
	if err != nil {
		return PlatformStatus{}, err
	}

	out := PlatformStatus{Platform: platform, DisplayName: platform.DisplayName()}
	cred, err := s.Credentials.Load(ctx)
	if errors.Is(err, domain.ErrCredentialNotFound) {
		return out, nil
	}
	if err != nil {
		return PlatformStatus{}, err
	}

	out.Authenticated = cred.IsAuthenticated()
	out.UpdatedAt = cred.UpdatedAt
	if !cred.ExpiresAt.IsZero() {
		expires := cred.ExpiresAt
		out.ExpiresAt = &expires
	}
	return out, nil
}

func (m *Manager) audit(ctx context.Context, action string, platform domain.Platform, err error) {
	if m.auditor == nil {
		return
	}
	m.auditor.Record(ctx, action, platform, err)
}

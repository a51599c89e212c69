// Package app wires configuration, storage, telemetry and the integration
// manager together. Both the server and pavectl start from here.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"go.pavemaster.dev/integrations/config"
	"go.pavemaster.dev/integrations/domain"
	"go.pavemaster.dev/integrations/internal/audit"
	"go.pavemaster.dev/integrations/internal/consent"
	"go.pavemaster.dev/integrations/internal/integration"
	"go.pavemaster.dev/integrations/internal/metrics"
	"go.pavemaster.dev/integrations/log"
)

// App holds the constructed components.
type App struct {
	Config   *config.Config
	Logger   log.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Store    *Store
	Broker   *consent.Broker
	Manager  *integration.Manager
}

// Options customizes New beyond what the configuration covers.
type Options struct {
	AuditOutput io.Writer
	// HTTPClient overrides the outbound client built from the configuration.
	HTTPClient *http.Client
}

// New opens the store and registers every enabled platform.
func New(ctx context.Context, cfg *config.Config, logger log.Logger, opts Options) (*App, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	store, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.HTTPTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	managerOpts := []integration.Option{
		integration.WithHTTPClient(httpClient),
		integration.WithRedirectBaseURL(cfg.RedirectBaseURL),
		integration.WithLogger(logger),
		integration.WithMetrics(m),
	}
	if opts.AuditOutput != nil {
		managerOpts = append(managerOpts, integration.WithAuditor(audit.NewLogger(opts.AuditOutput, cfg.OtelServiceName)))
	}

	broker := consent.NewBroker(cfg.ConsentTTL)
	a := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: reg,
		Metrics:  m,
		Store:    store,
		Broker:   broker,
		Manager:  integration.NewManager(store, broker, managerOpts...),
	}

	if err := a.RegisterPlatforms(ctx); err != nil {
		_ = store.Close(ctx)
		return nil, err
	}
	return a, nil
}

// RegisterPlatforms registers a strategy for every enabled platform in the configuration.
func (a *App) RegisterPlatforms(ctx context.Context) error {
	enabled := a.Config.EnabledPlatforms()
	names := make([]string, 0, len(enabled))
	for name := range enabled {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		platform, err := domain.ParsePlatform(name)
		if err != nil {
			return fmt.Errorf("config: platforms.%s: %w", name, err)
		}
		pc := enabled[name]
		seed := integration.CredentialSeed{
			ClientID:     pc.ClientID,
			ClientSecret: pc.ClientSecret,
			AuthURL:      pc.AuthURL,
			TokenURL:     pc.TokenURL,
			APIBaseURL:   pc.APIBaseURL,
			Scopes:       pc.Scopes,
		}
		if err := a.Manager.RegisterStrategy(ctx, platform, seed); err != nil {
			return fmt.Errorf("failed to register %s: %w", name, err)
		}
	}

	if len(names) == 0 {
		a.Logger.Warn(ctx, "No platforms enabled in configuration")
	}
	return nil
}

// Close releases the store.
func (a *App) Close(ctx context.Context) error {
	return a.Store.Close(ctx)
}

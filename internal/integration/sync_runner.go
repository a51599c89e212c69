package integration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"go.pavemaster.dev/integrations/domain"
	"go.pavemaster.dev/integrations/internal/metrics"
	"go.pavemaster.dev/integrations/log"
)

// maxErrorBody limits how much of a failed response body ends up in a sync status.
const maxErrorBody = 512

// TokenProvider hands out bearer tokens for API calls.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

type syncResponse struct {
	RecordCount *int `json:"recordCount"`
}

// SyncRunner performs sync calls against one platform's API.
type SyncRunner struct {
	definition PlatformDefinition
	tokens     TokenProvider
	invoker    *RateLimitedInvoker
	httpClient *http.Client
	now        func() time.Time
	newID      func() string
	logger     log.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
}

// Sync runs one sync of the given type and reports how it went.
// Failures end up in the returned status; Sync itself never fails.
func (r *SyncRunner) Sync(ctx context.Context, syncType domain.SyncType) domain.SyncStatus {
	platform := r.definition.Platform
	ctx = withPlatform(ctx, platform)
	ctx, span := r.tracer.Start(ctx, "integration.Sync", trace.WithAttributes(
		attribute.String("integration.platform", platform.String()),
		attribute.String("integration.sync_type", syncType.String()),
	))
	defer span.End()

	status := domain.NewSyncStatus(r.newID(), platform, syncType, r.now().UTC())
	span.SetAttributes(attribute.String("integration.sync_id", status.ID))

	records, err := r.run(ctx, syncType)
	if err != nil {
		_ = status.Fail(err, r.now().UTC())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Error(ctx, "Sync failed", err, log.Fields{
			"platform": platform.String(),
			"type":     syncType.String(),
			"sync_id":  status.ID,
		})
	} else {
		_ = status.Complete(records, r.now().UTC())
		span.SetAttributes(attribute.Int("integration.records_synced", records))
		r.logger.Info(ctx, "Sync completed", log.Fields{
			"platform": platform.String(),
			"type":     syncType.String(),
			"sync_id":  status.ID,
			"records":  records,
		})
	}

	r.metrics.ObserveSync(status)
	return *status
}

func (r *SyncRunner) run(ctx context.Context, syncType domain.SyncType) (int, error) {
	token, err := r.tokens.AccessToken(ctx)
	if err != nil {
		return 0, err
	}

	url := r.definition.SyncURL(syncType)
	return Invoke(ctx, r.invoker, func(ctx context.Context) (int, error) {
		return r.post(ctx, url, token)
	})
}

func (r *SyncRunner) post(ctx context.Context, url, token string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("failed to build sync request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("sync request to %s failed: %w", r.definition.Platform, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return 0, &HTTPError{
			StatusCode: resp.StatusCode,
			Header:     resp.Header.Clone(),
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var payload syncResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to decode %s sync response: %w", r.definition.Platform, err)
	}
	if payload.RecordCount == nil {
		return 0, nil
	}
	if *payload.RecordCount < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidRecordCount, *payload.RecordCount)
	}
	return *payload.RecordCount, nil
}

// Package pavegin exposes the integration manager over HTTP using gin.
package pavegin

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"go.pavemaster.dev/integrations/domain"
	"go.pavemaster.dev/integrations/internal/integration"
)

// IntegrationService is the part of *integration.Manager the handlers use.
//
//go:generate go run go.uber.org/mock/mockgen -source=$GOFILE -destination=mock/mock_$GOFILE -package=mock_$GOPACKAGE IntegrationService,ConsentBroker
type IntegrationService interface {
	Platforms() []domain.Platform
	CredentialStatus(ctx context.Context, platform domain.Platform) (integration.PlatformStatus, error)
	AuthCodeURL(ctx context.Context, platform domain.Platform, state string) (string, error)
	Authenticate(ctx context.Context, platform domain.Platform) error
	RefreshAccessToken(ctx context.Context, platform domain.Platform) error
	Sync(ctx context.Context, platform domain.Platform, syncType domain.SyncType) (domain.SyncStatus, error)
	SyncAll(ctx context.Context, syncType domain.SyncType) ([]domain.SyncStatus, error)
	History(ctx context.Context, platform domain.Platform) ([]domain.SyncStatus, error)
}

// ConsentBroker issues consent states and receives authorization codes.
type ConsentBroker interface {
	IssueState(platform domain.Platform) string
	VerifyState(state string, platform domain.Platform) error
	Deliver(platform domain.Platform, code string)
}

// IntegrationAPI provides the HTTP handlers for platform integrations.
type IntegrationAPI struct {
	service IntegrationService
	consent ConsentBroker
}

func NewIntegrationAPI(service IntegrationService, consent ConsentBroker) *IntegrationAPI {
	return &IntegrationAPI{service: service, consent: consent}
}

// RegisterRoutes mounts the integration routes on rg.
func (api *IntegrationAPI) RegisterRoutes(rg gin.IRouter) {
	g := rg.Group("/integrations")
	{
		g.GET("", api.ListHandler)
		g.GET("/history", api.HistoryHandler)
		g.POST("/sync", api.SyncAllHandler)
		g.GET("/:platform/connect", api.ConnectHandler)
		g.GET("/:platform/callback", api.CallbackHandler)
		g.POST("/:platform/refresh", api.RefreshHandler)
		g.POST("/:platform/sync", api.SyncHandler)
	}
}

type listResponse struct {
	Platforms []integration.PlatformStatus `json:"platforms"`
}

type historyResponse struct {
	History []domain.SyncStatus `json:"history"`
}

type syncAllResponse struct {
	Results []domain.SyncStatus `json:"results"`
}

// ListHandler returns every registered platform with its credential state.
func (api *IntegrationAPI) ListHandler(c *gin.Context) {
	ctx := c.Request.Context()
	out := listResponse{Platforms: []integration.PlatformStatus{}}
	for _, p := range api.service.Platforms() {
		st, err := api.service.CredentialStatus(ctx, p)
		if err != nil {
			abortWithError(c, err)
			return
		}
		out.Platforms = append(out.Platforms, st)
	}
	c.JSON(http.StatusOK, out)
}

// ConnectHandler starts the consent round trip by redirecting to the platform.
func (api *IntegrationAPI) ConnectHandler(c *gin.Context) {
	platform, ok := platformParam(c)
	if !ok {
		return
	}

	state := api.consent.IssueState(platform)
	authURL, err := api.service.AuthCodeURL(c.Request.Context(), platform, state)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Redirect(http.StatusFound, authURL)
}

// CallbackHandler receives the platform redirect, checks the state and
// completes the authorization code exchange.
func (api *IntegrationAPI) CallbackHandler(c *gin.Context) {
	platform, ok := platformParam(c)
	if !ok {
		return
	}

	if denied := c.Query("error"); denied != "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Error:   "consent_denied",
			Message: fmt.Sprintf("%s: %s", denied, c.Query("error_description")),
		})
		return
	}

	code, state := c.Query("code"), c.Query("state")
	if code == "" || state == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "code and state are required",
		})
		return
	}
	if err := api.consent.VerifyState(state, platform); err != nil {
		abortWithError(c, err)
		return
	}

	api.consent.Deliver(platform, code)
	if err := api.service.Authenticate(c.Request.Context(), platform); err != nil {
		abortWithError(c, err)
		return
	}

	st, err := api.service.CredentialStatus(c.Request.Context(), platform)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// RefreshHandler forces a refresh token exchange.
func (api *IntegrationAPI) RefreshHandler(c *gin.Context) {
	platform, ok := platformParam(c)
	if !ok {
		return
	}
	if err := api.service.RefreshAccessToken(c.Request.Context(), platform); err != nil {
		abortWithError(c, err)
		return
	}
	st, err := api.service.CredentialStatus(c.Request.Context(), platform)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// SyncHandler runs one sync. A failed sync is still a 200: the outcome is in the body.
func (api *IntegrationAPI) SyncHandler(c *gin.Context) {
	platform, ok := platformParam(c)
	if !ok {
		return
	}
	status, err := api.service.Sync(c.Request.Context(), platform, domain.SyncType(c.Query("type")))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// SyncAllHandler syncs every registered platform.
func (api *IntegrationAPI) SyncAllHandler(c *gin.Context) {
	results, err := api.service.SyncAll(c.Request.Context(), domain.SyncType(c.Query("type")))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, syncAllResponse{Results: results})
}

// HistoryHandler returns the sync history, optionally for one platform.
func (api *IntegrationAPI) HistoryHandler(c *gin.Context) {
	var platform domain.Platform
	if raw := c.Query("platform"); raw != "" {
		p, err := domain.ParsePlatform(raw)
		if err != nil {
			abortWithError(c, fmt.Errorf("%w: %q", err, raw))
			return
		}
		platform = p
	}

	history, err := api.service.History(c.Request.Context(), platform)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if history == nil {
		history = []domain.SyncStatus{}
	}
	c.JSON(http.StatusOK, historyResponse{History: history})
}

func platformParam(c *gin.Context) (domain.Platform, bool) {
	raw := c.Param("platform")
	p, err := domain.ParsePlatform(raw)
	if err != nil {
		abortWithError(c, fmt.Errorf("%w: %q", err, raw))
		return "", false
	}
	return p, true
}

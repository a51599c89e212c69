package pavegin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go.pavemaster.dev/integrations/domain"
	"go.pavemaster.dev/integrations/internal/consent"
	"go.pavemaster.dev/integrations/internal/integration"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// statusFor maps integration errors to an HTTP status and a stable error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, integration.ErrUnknownPlatform):
		return http.StatusNotFound, "unknown_platform"
	case errors.Is(err, integration.ErrUnsupportedPlatform), errors.Is(err, domain.ErrInvalidPlatform):
		return http.StatusBadRequest, "unsupported_platform"
	case errors.Is(err, integration.ErrUnsupportedSyncType):
		return http.StatusBadRequest, "unsupported_sync_type"
	case errors.Is(err, consent.ErrInvalidState), errors.Is(err, consent.ErrStateMismatch):
		return http.StatusBadRequest, "invalid_state"
	case errors.Is(err, integration.ErrMissingRefreshToken), errors.Is(err, integration.ErrNotAuthenticated):
		return http.StatusConflict, "not_authenticated"
	case errors.Is(err, integration.ErrAuthorizationPending):
		return http.StatusConflict, "authorization_pending"
	case errors.Is(err, domain.ErrCredentialConflict):
		return http.StatusConflict, "credential_conflict"
	case errors.Is(err, integration.ErrIncompleteTokenResponse):
		return http.StatusBadGateway, "upstream_error"
	}
	if _, _, ok := integration.StatusOf(err); ok {
		return http.StatusBadGateway, "upstream_error"
	}
	return http.StatusInternalServerError, "internal_error"
}

func abortWithError(c *gin.Context, err error) {
	status, code := statusFor(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: code, Message: err.Error()})
}

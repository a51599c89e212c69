package integration

import (
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// HTTPError is returned when a platform API answers with a non-2xx status.
type HTTPError struct {
	StatusCode int
	Header     http.Header
	Body       string // truncated response body
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("platform returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("platform returned HTTP %d: %s", e.StatusCode, e.Body)
}

// StatusOf extracts the HTTP status and response headers from err.
// It understands *HTTPError and the *oauth2.RetrieveError produced by token exchanges.
func StatusOf(err error) (int, http.Header, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode, httpErr.Header, true
	}
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		return retrieveErr.Response.StatusCode, retrieveErr.Response.Header, true
	}
	return 0, nil, false
}

// IsRateLimited reports whether err is an HTTP 429.
func IsRateLimited(err error) bool {
	status, _, ok := StatusOf(err)
	return ok && status == http.StatusTooManyRequests
}

package integration_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// fakePlatform is an OAuth2 token endpoint plus sync API served by httptest.
type fakePlatform struct {
	*httptest.Server

	mu             sync.Mutex
	validCode      string
	validRefresh   string
	issued         int
	expiresIn      int
	omitRefresh    bool
	tokenStatus    int
	tokenRequests  []map[string]string
	syncResponses  []syncResponse
	syncRequests   []*http.Request
	syncAuthHeader []string
}

type syncResponse struct {
	status     int
	retryAfter string
	body       string
}

func newFakePlatform(t *testing.T) *fakePlatform {
	t.Helper()
	p := &fakePlatform{validCode: "consent-code", expiresIn: 3600}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth/token", p.token)
	mux.HandleFunc("POST /sync/{type}", p.sync)
	mux.HandleFunc("POST /payroll/v1/sync/{type}", p.sync)
	p.Server = httptest.NewServer(mux)
	t.Cleanup(p.Close)
	return p
}

func (p *fakePlatform) token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	form := map[string]string{}
	for k := range r.PostForm {
		form[k] = r.PostForm.Get(k)
	}
	p.tokenRequests = append(p.tokenRequests, form)

	w.Header().Set("Content-Type", "application/json")
	if p.tokenStatus != 0 {
		w.WriteHeader(p.tokenStatus)
		_, _ = w.Write([]byte(`{"error":"server_error"}`))
		return
	}

	switch r.PostForm.Get("grant_type") {
	case "authorization_code":
		if r.PostForm.Get("code") != p.validCode {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
	case "refresh_token":
		if p.validRefresh == "" || r.PostForm.Get("refresh_token") != p.validRefresh {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
	default:
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"unsupported_grant_type"}`))
		return
	}

	p.issued++
	resp := map[string]any{
		"access_token": fmt.Sprintf("access-%d", p.issued),
		"token_type":   "bearer",
		"expires_in":   p.expiresIn,
	}
	if !p.omitRefresh {
		p.validRefresh = fmt.Sprintf("refresh-%d", p.issued)
		resp["refresh_token"] = p.validRefresh
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (p *fakePlatform) sync(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	p.syncRequests = append(p.syncRequests, r)
	p.syncAuthHeader = append(p.syncAuthHeader, r.Header.Get("Authorization"))
	resp := syncResponse{status: http.StatusOK, body: `{"recordCount":0}`}
	if len(p.syncResponses) > 0 {
		resp = p.syncResponses[0]
		p.syncResponses = p.syncResponses[1:]
	}
	p.mu.Unlock()

	if resp.retryAfter != "" {
		w.Header().Set("Retry-After", resp.retryAfter)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	_, _ = w.Write([]byte(resp.body))
}

func (p *fakePlatform) queueSync(responses ...syncResponse) {
	p.mu.Lock()
	p.syncResponses = append(p.syncResponses, responses...)
	p.mu.Unlock()
}

func (p *fakePlatform) grants() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.tokenRequests))
	for i, req := range p.tokenRequests {
		out[i] = req["grant_type"]
	}
	return out
}

func (p *fakePlatform) syncPaths() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.syncRequests))
	for i, r := range p.syncRequests {
		out[i] = strings.TrimPrefix(r.URL.Path, "/")
	}
	return out
}

func (p *fakePlatform) setTokenStatus(status int) {
	p.mu.Lock()
	p.tokenStatus = status
	p.mu.Unlock()
}

func (p *fakePlatform) setOmitRefresh(omit bool) {
	p.mu.Lock()
	p.omitRefresh = omit
	p.mu.Unlock()
}

func (p *fakePlatform) tokenRequest(i int) map[string]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tokenRequests[i]
}

func (p *fakePlatform) authHeaders() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.syncAuthHeader...)
}

// Fieldctl - Field Service Administration Console
// Copyright 2026 Fieldctl Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldctl-io/fieldctl

package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/goccy/go-json"

	"github.com/fieldctl-io/fieldctl/internal/logging"
	"github.com/fieldctl-io/fieldctl/internal/session"
)

// refreshPath is the token-refresh endpoint. A 401 from this endpoint is
// terminal: it must never trigger another refresh attempt.
const refreshPath = "/api/auth/token/refresh/"

// authExemptPrefix marks endpoints that work without a session (login,
// refresh, password recovery). They skip pre-flight checks and carry no
// bearer token.
const authExemptPrefix = "/api/auth/"

// authTransport is the RoundTripper every authenticated request passes
// through. Per request it:
//
//  1. Pre-flight: fails with session.ErrExpired or ErrNotAuthenticated
//     (after clearing the store and firing the logout hook) when no usable
//     session exists; otherwise attaches the bearer token and records
//     activity.
//  2. Passes 2xx and non-401 responses through unchanged, including
//     transport errors (no retry).
//  3. On 401: performs at most one token refresh (de-duplicated across
//     concurrent requests behind a single in-flight exchange), persists the
//     new access token, and resubmits the original request exactly once.
//     The resubmission's response is returned as-is, so a second 401
//     propagates rather than recursing.
//
// The forced logout on unrecoverable auth failure lives here, inside the
// data layer, so sign-out cannot be skipped by any call site.
type authTransport struct {
	base     http.RoundTripper
	store    session.Store
	baseURL  string
	onLogout func()

	// Single-flight refresh state. While inflight is non-nil a refresh is
	// running and waiters block on it; result/resultErr hold its outcome.
	mu        sync.Mutex
	inflight  chan struct{}
	result    string
	resultErr error
}

var _ http.RoundTripper = (*authTransport)(nil)

// newAuthTransport wraps base with the auth interceptor. onLogout may be nil.
func newAuthTransport(base http.RoundTripper, store session.Store, baseURL string, onLogout func()) *authTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &authTransport{
		base:     base,
		store:    store,
		baseURL:  strings.TrimRight(baseURL, "/"),
		onLogout: onLogout,
	}
}

// RoundTrip implements the per-request auth state machine.
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if strings.HasPrefix(req.URL.Path, authExemptPrefix) {
		return t.base.RoundTrip(req)
	}

	// Pre-flight: inactivity check first, then token presence.
	if t.store.ExpiredByInactivity() {
		t.forceLogout("inactivity limit exceeded")
		return nil, session.ErrExpired
	}
	token := t.store.AccessToken()
	if token == "" {
		t.forceLogout("no access token")
		return nil, session.ErrNotAuthenticated
	}

	// Every outgoing authenticated request counts as user activity.
	if err := t.store.Touch(); err != nil {
		logging.Warn().Err(err).Msg("failed to record activity")
	}

	authed := req.Clone(req.Context())
	authed.Header.Set("Authorization", "Bearer "+token)

	resp, err := t.base.RoundTrip(authed)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	// 401: the body is replaced by the retry's, so drain and close it.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodySize))
	_ = resp.Body.Close()

	newToken, refreshErr := t.refreshAccessToken(req)
	if refreshErr != nil {
		t.forceLogout("token refresh failed")
		// The refresh error supersedes the original 401.
		return nil, refreshErr
	}

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("replay request body: %w", err)
		}
		retry.Body = body
	}
	retry.Header.Set("Authorization", "Bearer "+newToken)

	logging.Debug().Str("path", req.URL.Path).Msg("retrying request with refreshed token")
	resp, err = t.base.RoundTrip(retry)
	if err == nil && resp.StatusCode == http.StatusUnauthorized {
		// The refreshed token was rejected too. One retry is the
		// limit; the session is not recoverable from here.
		t.forceLogout("request unauthorized after token refresh")
	}
	return resp, err
}

// refreshAccessToken exchanges the stored refresh token for a new access
// token, persisting it on success. Concurrent callers share one exchange:
// the first caller performs it, the rest wait and reuse its outcome.
func (t *authTransport) refreshAccessToken(req *http.Request) (string, error) {
	t.mu.Lock()
	if t.inflight != nil {
		wait := t.inflight
		t.mu.Unlock()
		select {
		case <-wait:
			t.mu.Lock()
			token, err := t.result, t.resultErr
			t.mu.Unlock()
			return token, err
		case <-req.Context().Done():
			return "", req.Context().Err()
		}
	}
	done := make(chan struct{})
	t.inflight = done
	t.mu.Unlock()

	token, err := t.doRefresh(req)

	t.mu.Lock()
	t.result, t.resultErr = token, err
	t.inflight = nil
	close(done)
	t.mu.Unlock()

	return token, err
}

// doRefresh performs the actual refresh exchange over the base transport.
// Going through the base transport (not this one) is what guarantees the
// refresh endpoint can never trigger a nested refresh.
func (t *authTransport) doRefresh(origin *http.Request) (string, error) {
	refreshToken := t.store.RefreshToken()
	if refreshToken == "" {
		return "", session.ErrNoRefreshToken
	}

	payload, err := json.Marshal(map[string]string{"refresh": refreshToken})
	if err != nil {
		return "", fmt.Errorf("encode refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(origin.Context(), http.MethodPost,
		t.baseURL+refreshPath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return "", fmt.Errorf("token refresh request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		apiErr := newAPIError(resp)
		return "", fmt.Errorf("token refresh rejected: %w", apiErr)
	}

	var out struct {
		Access string `json:"access"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode refresh response: %w", err)
	}
	if out.Access == "" {
		return "", fmt.Errorf("token refresh returned an empty access token")
	}

	if err := t.store.SetAccessToken(out.Access); err != nil {
		return "", fmt.Errorf("persist refreshed token: %w", err)
	}

	logging.Debug().Msg("access token refreshed")
	return out.Access, nil
}

// forceLogout clears the session and fires the logout hook. Called from
// inside the transport so that sign-out happens no matter how deep the
// failing call site is.
func (t *authTransport) forceLogout(reason string) {
	logging.Info().Str("reason", reason).Msg("forcing sign-out")
	if err := t.store.Clear(); err != nil {
		logging.Warn().Err(err).Msg("failed to clear session")
	}
	if t.onLogout != nil {
		t.onLogout()
	}
}

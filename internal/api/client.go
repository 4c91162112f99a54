// Fieldctl - Field Service Administration Console
// Copyright 2026 Fieldctl Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldctl-io/fieldctl

// Package api is the HTTP client layer for the field service backend.
//
// One Client is shared by all resource services; the auth interceptor
// (bearer attachment, single silent token refresh, forced sign-out) is
// composed into it exactly once rather than re-implemented per resource.
// Construct with New and reach resources through the service fields:
//
//	client := api.New(store, api.Options{BaseURL: cfg.API.BaseURL})
//	page, err := client.Customers.List(ctx, api.ListOptions{PageSize: 20})
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/fieldctl-io/fieldctl/internal/config"
	"github.com/fieldctl-io/fieldctl/internal/logging"
	"github.com/fieldctl-io/fieldctl/internal/session"
)

// Options configures a Client. The zero value of any field falls back to
// a sensible default.
type Options struct {
	// BaseURL is the backend root, e.g. http://localhost:8000.
	BaseURL string

	// Timeout is the per-request HTTP timeout. Default: 30s.
	Timeout time.Duration

	// MaxRetries bounds retries of rate-limited (HTTP 429) requests.
	// Default: 5.
	MaxRetries int

	// RetryBaseDelay is the first backoff delay, doubling per attempt.
	// Default: 1s.
	RetryBaseDelay time.Duration

	// RateLimit caps outgoing requests per second; 0 disables throttling.
	RateLimit float64

	// RateBurst is the throttle's burst size. Default: 10.
	RateBurst int

	// CircuitBreaker enables the breaker around outgoing requests.
	CircuitBreaker bool

	// OnLogout runs whenever the auth layer forces a sign-out.
	OnLogout func()

	// Transport overrides the base RoundTripper (tests).
	Transport http.RoundTripper
}

// Client is the shared HTTP client for the backend API.
//
// Thread safety: safe for concurrent use; each request builds its own
// http.Request and the refresh path is internally synchronized.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	limiter        *rate.Limiter
	breaker        *breaker
	maxRetries     int
	retryBaseDelay time.Duration
	store          session.Store

	// Resource services, all sharing this client.
	Auth          *AuthService
	Customers     *CustomersService
	Plans         *PlansService
	PlanTasks     *PlanTasksService
	Subscriptions *SubscriptionsService
	Visits        *VisitsService
	Evidence      *EvidenceService
	Materials     *MaterialsService
	Users         *UsersService
}

// New creates a Client bound to store for session state.
func New(store session.Store, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "http://localhost:8000"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 5
	}
	if opts.RetryBaseDelay <= 0 {
		opts.RetryBaseDelay = 1 * time.Second
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 10
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	transport := newAuthTransport(opts.Transport, store, baseURL, opts.OnLogout)

	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		maxRetries:     opts.MaxRetries,
		retryBaseDelay: opts.RetryBaseDelay,
		store:          store,
	}

	if opts.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), opts.RateBurst)
	}
	if opts.CircuitBreaker {
		c.breaker = newBreaker("fieldservice-api")
	}

	c.Auth = &AuthService{client: c, store: store}
	c.Customers = &CustomersService{client: c}
	c.Plans = &PlansService{client: c}
	c.PlanTasks = &PlanTasksService{client: c}
	c.Subscriptions = &SubscriptionsService{client: c}
	c.Visits = &VisitsService{client: c}
	c.Evidence = &EvidenceService{client: c}
	c.Materials = &MaterialsService{client: c}
	c.Users = &UsersService{client: c}

	return c
}

// NewFromConfig creates a Client from the loaded configuration.
func NewFromConfig(store session.Store, cfg config.APIConfig, onLogout func()) *Client {
	return New(store, Options{
		BaseURL:        cfg.BaseURL,
		Timeout:        cfg.Timeout,
		MaxRetries:     cfg.MaxRetries,
		RetryBaseDelay: cfg.RetryBaseDelay,
		RateLimit:      cfg.RateLimit,
		RateBurst:      cfg.RateBurst,
		CircuitBreaker: cfg.CircuitBreaker,
		OnLogout:       onLogout,
	})
}

// BaseURL returns the normalized backend root.
func (c *Client) BaseURL() string { return c.baseURL }

// do performs a JSON request and decodes the response into out (when out
// is non-nil and the response has a body). Non-2xx responses become
// *APIError. body, when non-nil, is JSON-encoded.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s request: %w", method, path, err)
		}
		payload = data
	}
	return c.doPayload(ctx, method, path, query, payload, "application/json", out)
}

// doPayload performs a request with a pre-encoded payload.
func (c *Client) doPayload(ctx context.Context, method, path string, query url.Values, payload []byte, contentType string, out any) error {
	resp, err := c.doWithRetry(ctx, method, c.requestURL(path, query), payload, contentType)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return newAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if raw, ok := out.(*json.RawMessage); ok {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read %s %s response: %w", method, path, err)
		}
		*raw = data
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// doWithRetry performs an HTTP request with automatic HTTP 429 handling:
// exponential backoff (base delay doubling per attempt) honoring the
// Retry-After header. The request is rebuilt per attempt so the body can
// be replayed.
func (c *Client) doWithRetry(ctx context.Context, method, reqURL string, payload []byte, contentType string) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		var body io.Reader = http.NoBody
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", uuid.NewString())
		if payload != nil {
			req.Header.Set("Content-Type", contentType)
		}

		resp, err := c.execute(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		// Rate limited - close body and retry with backoff.
		_ = resp.Body.Close()

		if attempt == c.maxRetries {
			lastErr = fmt.Errorf("rate limit exceeded after %d retries (HTTP 429)", c.maxRetries)
			break
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
				delay = seconds
			}
		}

		logging.Debug().Int("attempt", attempt+1).Dur("delay", delay).Msg("rate limited, backing off")
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// execute sends one request, through the circuit breaker when enabled.
func (c *Client) execute(req *http.Request) (*http.Response, error) {
	if c.breaker == nil {
		return c.httpClient.Do(req)
	}
	return c.breaker.execute(func() (*http.Response, error) {
		return c.httpClient.Do(req)
	})
}

// requestURL joins the base URL, endpoint path, and query string.
func (c *Client) requestURL(path string, query url.Values) string {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}
	return reqURL
}

// upload performs a multipart/form-data request: scalar fields plus one
// file part. Used by evidence uploads.
func (c *Client) upload(ctx context.Context, method, path string, fields map[string]string, fileField, fileName string, file io.Reader, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("write form field %s: %w", key, err)
		}
	}

	part, err := writer.CreateFormFile(fileField, fileName)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copy file contents: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalize multipart body: %w", err)
	}

	return c.doPayload(ctx, method, path, nil, buf.Bytes(), writer.FormDataContentType(), out)
}

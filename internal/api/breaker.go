// Fieldctl - Field Service Administration Console
// Copyright 2026 Fieldctl Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldctl-io/fieldctl

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/fieldctl-io/fieldctl/internal/logging"
	"github.com/fieldctl-io/fieldctl/internal/session"
)

// errServerStatus marks a 5xx response inside the breaker so it counts as
// a failure; execute strips it and hands the response back to the caller.
var errServerStatus = errors.New("server error status")

// breaker wraps outgoing requests in a circuit breaker so a down backend
// fails fast instead of piling up timeouts. Only transport errors and 5xx
// responses count as failures; auth/session errors and 4xx responses do
// not trip the circuit.
type breaker struct {
	cb *gobreaker.CircuitBreaker[*http.Response]
}

func newBreaker(name string) *breaker {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			if errors.Is(err, errServerStatus) {
				return false
			}
			// Session problems are the caller's concern, not a sign
			// the backend is unhealthy.
			if errors.Is(err, session.ErrNotAuthenticated) ||
				errors.Is(err, session.ErrExpired) ||
				errors.Is(err, session.ErrNoRefreshToken) {
				return true
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	}
	return &breaker{cb: gobreaker.NewCircuitBreaker[*http.Response](settings)}
}

// execute runs fn through the breaker. 5xx responses are recorded as
// failures but still returned to the caller for normal error handling.
func (b *breaker) execute(fn func() (*http.Response, error)) (*http.Response, error) {
	resp, err := b.cb.Execute(func() (*http.Response, error) {
		resp, err := fn()
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, errServerStatus
		}
		return resp, nil
	})
	if errors.Is(err, errServerStatus) {
		return resp, nil
	}
	return resp, err
}

// Fieldctl - Field Service Administration Console
// Copyright 2026 Fieldctl Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldctl-io/fieldctl

package api

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// maxErrorBodySize limits how much of an error response body is read.
// Prevents unbounded memory allocation on large error responses.
const maxErrorBodySize = 64 * 1024 // 64KB

// APIError is a non-2xx response from the backend. Detail carries the
// backend's primary message when one could be extracted; Fields carries
// field-keyed validation errors when the body followed the
// {"field": ["msg", ...]} convention.
type APIError struct {
	StatusCode int
	Detail     string
	Fields     map[string][]string
	Body       []byte
}

// Error returns the most specific message available: the detail string,
// else the first field error, else the raw body stringified so that
// something is always shown rather than nothing.
func (e *APIError) Error() string {
	msg := e.Message()
	if msg == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, msg)
}

// Message extracts a single user-facing message from the error payload.
func (e *APIError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	if len(e.Fields) > 0 {
		// Deterministic order so tests and users see a stable message.
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if msgs := e.Fields[k]; len(msgs) > 0 {
				return fmt.Sprintf("%s: %s", k, msgs[0])
			}
		}
	}
	if len(e.Body) > 0 {
		return strings.TrimSpace(string(e.Body))
	}
	return ""
}

// IsNotFound reports whether the error is an HTTP 404.
func (e *APIError) IsNotFound() bool { return e.StatusCode == http.StatusNotFound }

// IsValidation reports whether the error is an HTTP 400 with field errors.
func (e *APIError) IsValidation() bool {
	return e.StatusCode == http.StatusBadRequest && len(e.Fields) > 0
}

// newAPIError builds an APIError from a response, consuming (a bounded
// amount of) its body. The caller closes the body.
func newAPIError(resp *http.Response) *APIError {
	body := readBodyForError(resp.Body)
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Body:       body,
	}

	// {"detail": "..."} is the common single-message shape.
	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &detail); err == nil && detail.Detail != "" {
		apiErr.Detail = detail.Detail
		return apiErr
	}

	// Field-keyed error arrays: {"email": ["already in use"], ...}.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err == nil {
		parsed := make(map[string][]string)
		for key, raw := range fields {
			var msgs []string
			if err := json.Unmarshal(raw, &msgs); err == nil && len(msgs) > 0 {
				parsed[key] = msgs
				continue
			}
			var msg string
			if err := json.Unmarshal(raw, &msg); err == nil && msg != "" {
				parsed[key] = []string{msg}
			}
		}
		if len(parsed) > 0 {
			apiErr.Fields = parsed
		}
	}

	return apiErr
}

// readBodyForError reads at most maxErrorBodySize bytes for diagnostics.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

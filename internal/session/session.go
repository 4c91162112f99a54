// Fieldctl - Field Service Administration Console
// Copyright 2026 Fieldctl Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldctl-io/fieldctl

// Package session owns the authenticated session: the persisted token pair,
// the current-user snapshot, and the inactivity clock.
//
// The session is the only piece of state fieldctl keeps between invocations.
// It is created by AuthService.Login, mutated by the token-refresh path and
// by activity touches, and destroyed by logout, refresh failure, or the
// inactivity limit. The Store is injected into the HTTP transport and the
// Guard rather than accessed through globals, so every reader of session
// state is visible in the wiring.
package session

import (
	"errors"
	"time"
)

// DefaultInactivityLimit is how long a session survives with no user
// activity before it is treated as expired regardless of token validity.
const DefaultInactivityLimit = 30 * time.Minute

// Session errors.
var (
	// ErrNotAuthenticated is returned when no access token is stored.
	ErrNotAuthenticated = errors.New("not authenticated: sign in with 'fieldctl login'")

	// ErrExpired is returned when the inactivity limit has elapsed.
	ErrExpired = errors.New("session expired: inactivity limit exceeded")

	// ErrNoRefreshToken is returned when a token refresh is needed but no
	// refresh token is stored.
	ErrNoRefreshToken = errors.New("no refresh token available")
)

// UserSnapshot is a denormalized copy of the authenticated user's profile,
// captured at login. It is the single owner of user identity on the client;
// role-based behavior derives from it rather than from a second copy.
type UserSnapshot struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	IsStaff   bool   `json:"is_staff,omitempty"`
}

// IsAdmin reports whether the user has administrative privileges.
func (u *UserSnapshot) IsAdmin() bool {
	return u != nil && u.IsStaff
}

// Session is the persisted authentication state.
type Session struct {
	AccessToken    string        `json:"access_token"`
	RefreshToken   string        `json:"refresh_token"`
	User           *UserSnapshot `json:"current_user,omitempty"`
	LastActivityAt time.Time     `json:"last_activity"`
}

// Store is the durable session storage consumed by the HTTP transport, the
// Guard, and the CLI. Implementations: FileStore (default) and BadgerStore.
//
// Authenticated conflates a read with a mutation: when it returns false it
// has already cleared the store. Callers must expect state to change after
// calling it.
type Store interface {
	// Save persists a full session and resets the activity clock to now.
	Save(s *Session) error

	// Clear removes all session state. Idempotent.
	Clear() error

	// AccessToken returns the stored access token, or "" if absent.
	AccessToken() string

	// RefreshToken returns the stored refresh token, or "" if absent.
	RefreshToken() string

	// CurrentUser returns the stored user snapshot. Corrupt or missing
	// data yields nil, never an error.
	CurrentUser() *UserSnapshot

	// SetAccessToken replaces only the access token (token-refresh path).
	SetAccessToken(token string) error

	// Touch records the current wall-clock time as last activity.
	Touch() error

	// LastActivity returns the last recorded activity time, or the zero
	// time if none has been recorded.
	LastActivity() time.Time

	// ExpiredByInactivity reports whether the inactivity limit has elapsed
	// since the last activity. A missing activity timestamp means a fresh
	// session, which is not expired.
	ExpiredByInactivity() bool

	// Authenticated reports whether an access token is present AND the
	// inactivity limit has not elapsed. On failure of either condition it
	// clears the store before returning false.
	Authenticated() bool

	// Close releases any resources held by the backing store.
	Close() error
}

// expired reports whether last is stale relative to now given the limit.
// The zero time means no activity has been recorded yet.
func expired(last, now time.Time, limit time.Duration) bool {
	if last.IsZero() {
		return false
	}
	return now.Sub(last) > limit
}

// Fieldctl - Field Service Administration Console
// Copyright 2026 Fieldctl Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldctl-io/fieldctl

package session

// Guard gates protected operations on session validity. It is stateless:
// every Require call re-evaluates the store, so a session that expired
// between two commands is caught by the second one.
type Guard struct {
	store    Store
	onDenied func()
}

// NewGuard creates a guard over store. onDenied, if non-nil, runs whenever
// access is refused. The CLI uses it to print a sign-in hint, the role the
// sign-in redirect plays in a browser.
func NewGuard(store Store, onDenied func()) *Guard {
	return &Guard{store: store, onDenied: onDenied}
}

// Require returns nil when a valid session exists. Otherwise it returns
// ErrNotAuthenticated after the store has been cleared (Authenticated's
// side effect) and the denial callback has run.
func (g *Guard) Require() error {
	if g.store.Authenticated() {
		return nil
	}
	if g.onDenied != nil {
		g.onDenied()
	}
	return ErrNotAuthenticated
}

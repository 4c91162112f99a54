// Fieldctl - Field Service Administration Console
// Copyright 2026 Fieldctl Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldctl-io/fieldctl

package session

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestGuardAllowsValidSession(t *testing.T) {
	t.Parallel()
	store := newTestFileStore(t)
	if err := store.Save(testSession()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	denied := false
	guard := NewGuard(store, func() { denied = true })

	if err := guard.Require(); err != nil {
		t.Errorf("Require() error = %v, want nil", err)
	}
	if denied {
		t.Error("denial callback fired for a valid session")
	}
}

func TestGuardDeniesEmptyStore(t *testing.T) {
	t.Parallel()
	store := newTestFileStore(t)

	denied := false
	guard := NewGuard(store, func() { denied = true })

	err := guard.Require()
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("Require() error = %v, want ErrNotAuthenticated", err)
	}
	if !denied {
		t.Error("denial callback did not fire")
	}
}

func TestGuardDeniesExpiredSessionAndClears(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path, time.Minute, nil)
	if err := store.Save(testSession()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	store.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	guard := NewGuard(store, nil)
	if err := guard.Require(); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("Require() error = %v, want ErrNotAuthenticated", err)
	}

	// Re-evaluation is stateless: a fresh login passes again.
	store.now = time.Now
	if err := store.Save(testSession()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := guard.Require(); err != nil {
		t.Errorf("Require() after new login error = %v", err)
	}
}

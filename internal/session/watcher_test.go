// Fieldctl - Field Service Administration Console
// Copyright 2026 Fieldctl Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldctl-io/fieldctl

package session

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcherCheckNowNotExpired(t *testing.T) {
	t.Parallel()
	store := newTestFileStore(t)
	if err := store.Save(testSession()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	watcher := NewWatcher(store, time.Second)
	var fired atomic.Int32
	watcher.Subscribe(func() { fired.Add(1) })

	if watcher.CheckNow() {
		t.Error("CheckNow() = true for a fresh session")
	}
	if fired.Load() != 0 {
		t.Error("subscriber fired without expiry")
	}
	if got := store.AccessToken(); got == "" {
		t.Error("session was cleared without expiry")
	}
}

func TestWatcherCheckNowExpiredClearsAndNotifies(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path, time.Minute, nil)
	if err := store.Save(testSession()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	store.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	watcher := NewWatcher(store, time.Second)
	var first, second atomic.Int32
	watcher.Subscribe(func() { first.Add(1) })
	watcher.Subscribe(func() { second.Add(1) })

	if !watcher.CheckNow() {
		t.Fatal("CheckNow() = false for an expired session")
	}
	if first.Load() != 1 || second.Load() != 1 {
		t.Errorf("subscriber calls = (%d, %d), want (1, 1)", first.Load(), second.Load())
	}
	if got := store.AccessToken(); got != "" {
		t.Errorf("AccessToken() = %q after expiry, want empty", got)
	}

	// The session is gone now, so the next check must be a no-op.
	if watcher.CheckNow() {
		t.Error("CheckNow() = true on an already-cleared store")
	}
	if first.Load() != 1 {
		t.Errorf("subscriber fired again, calls = %d", first.Load())
	}
}

func TestWatcherRunStopsOnCancel(t *testing.T) {
	t.Parallel()
	store := newTestFileStore(t)
	watcher := NewWatcher(store, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		watcher.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}

func TestWatcherRunDetectsExpiry(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path, time.Minute, nil)
	if err := store.Save(testSession()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	store.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	watcher := NewWatcher(store, 10*time.Millisecond)
	expired := make(chan struct{})
	watcher.Subscribe(func() { close(expired) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watcher.Run(ctx)

	select {
	case <-expired:
	case <-time.After(time.Second):
		t.Fatal("watcher never detected the expired session")
	}
}

func TestWatcherDefaultInterval(t *testing.T) {
	t.Parallel()
	watcher := NewWatcher(newTestFileStore(t), 0)
	if watcher.interval != 30*time.Second {
		t.Errorf("interval = %v, want 30s default", watcher.interval)
	}
}

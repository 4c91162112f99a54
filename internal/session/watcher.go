// Fieldctl - Field Service Administration Console
// Copyright 2026 Fieldctl Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldctl-io/fieldctl

package session

import (
	"context"
	"sync"
	"time"

	"github.com/fieldctl-io/fieldctl/internal/logging"
)

// Watcher is the single process-wide inactivity poller. Long-running
// commands run one Watcher; anything that must react to expiry subscribes
// to it. On expiry the watcher clears the store, notifies subscribers
// once, and keeps polling in case a new session appears.
type Watcher struct {
	store    Store
	interval time.Duration

	mu   sync.Mutex
	subs []func()
}

// NewWatcher creates a watcher polling store every interval.
func NewWatcher(store Store, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Watcher{store: store, interval: interval}
}

// Subscribe registers a callback invoked when the session expires.
// Callbacks run on the watcher goroutine and must not block.
func (w *Watcher) Subscribe(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.subs = append(w.subs, fn)
}

// Run polls until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.CheckNow()
		}
	}
}

// CheckNow performs one expiry check, returning true if the session was
// expired and cleared.
func (w *Watcher) CheckNow() bool {
	if !w.store.ExpiredByInactivity() {
		return false
	}

	logging.Info().Msg("session expired by inactivity, signing out")
	if err := w.store.Clear(); err != nil {
		logging.Warn().Err(err).Msg("failed to clear expired session")
	}

	w.mu.Lock()
	subs := make([]func(), len(w.subs))
	copy(subs, w.subs)
	w.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
	return true
}

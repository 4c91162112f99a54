// Fieldctl - Field Service Administration Console
// Copyright 2026 Fieldctl Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldctl-io/fieldctl

package api

import (
	"sync"
	"time"

	"github.com/fieldctl-io/fieldctl/internal/session"
)

// memStore is an in-memory session.Store for tests, with a switch to
// simulate inactivity expiry.
type memStore struct {
	mu          sync.Mutex
	access      string
	refresh     string
	user        *session.UserSnapshot
	lastTouched time.Time
	expired     bool

	clears  int
	touches int
	saves   int
}

var _ session.Store = (*memStore)(nil)

func newMemStore(access, refresh string) *memStore {
	return &memStore{access: access, refresh: refresh, lastTouched: time.Now()}
}

func (m *memStore) Save(s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = s.AccessToken
	m.refresh = s.RefreshToken
	m.user = s.User
	m.lastTouched = time.Now()
	m.saves++
	return nil
}

func (m *memStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access, m.refresh, m.user = "", "", nil
	m.lastTouched = time.Time{}
	m.clears++
	return nil
}

func (m *memStore) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.access
}

func (m *memStore) RefreshToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refresh
}

func (m *memStore) CurrentUser() *session.UserSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

func (m *memStore) SetAccessToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = token
	return nil
}

func (m *memStore) Touch() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastTouched = time.Now()
	m.touches++
	return nil
}

func (m *memStore) LastActivity() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastTouched
}

func (m *memStore) ExpiredByInactivity() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expired
}

func (m *memStore) Authenticated() bool {
	m.mu.Lock()
	expired := m.expired
	noToken := m.access == ""
	m.mu.Unlock()
	if expired || noToken {
		_ = m.Clear()
		return false
	}
	return true
}

func (m *memStore) Close() error { return nil }

func (m *memStore) setExpired(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expired = v
}

func (m *memStore) clearCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clears
}

func (m *memStore) touchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.touches
}

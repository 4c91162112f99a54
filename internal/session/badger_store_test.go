// Fieldctl - Field Service Administration Console
// Copyright 2026 Fieldctl Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldctl-io/fieldctl

package session

import (
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
)

func newTestBadgerStore(t *testing.T) *BadgerStore {
	t.Helper()
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("open in-memory badger: %v", err)
	}
	store := NewBadgerStore(db, DefaultInactivityLimit)
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return store
}

func TestBadgerStoreSaveAndRead(t *testing.T) {
	t.Parallel()
	store := newTestBadgerStore(t)

	if err := store.Save(testSession()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if got := store.AccessToken(); got != "access-token-1" {
		t.Errorf("AccessToken() = %q, want %q", got, "access-token-1")
	}
	if got := store.RefreshToken(); got != "refresh-token-1" {
		t.Errorf("RefreshToken() = %q, want %q", got, "refresh-token-1")
	}
	user := store.CurrentUser()
	if user == nil || user.ID != 7 {
		t.Fatalf("CurrentUser() = %+v, want ID 7", user)
	}
	if store.LastActivity().IsZero() {
		t.Error("LastActivity() is zero after Save")
	}
}

func TestBadgerStoreClearRemovesAllKeys(t *testing.T) {
	t.Parallel()
	store := newTestBadgerStore(t)

	if err := store.Save(testSession()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	if got := store.AccessToken(); got != "" {
		t.Errorf("AccessToken() = %q after Clear", got)
	}
	if got := store.RefreshToken(); got != "" {
		t.Errorf("RefreshToken() = %q after Clear", got)
	}
	if store.CurrentUser() != nil {
		t.Error("CurrentUser() != nil after Clear")
	}
	if !store.LastActivity().IsZero() {
		t.Error("LastActivity() not zero after Clear")
	}

	// Clearing again must stay error-free.
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear() error = %v", err)
	}
}

func TestBadgerStoreSetAccessTokenKeepsOtherKeys(t *testing.T) {
	t.Parallel()
	store := newTestBadgerStore(t)

	if err := store.Save(testSession()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.SetAccessToken("rotated"); err != nil {
		t.Fatalf("SetAccessToken() error = %v", err)
	}

	if got := store.AccessToken(); got != "rotated" {
		t.Errorf("AccessToken() = %q, want %q", got, "rotated")
	}
	if got := store.RefreshToken(); got != "refresh-token-1" {
		t.Errorf("RefreshToken() = %q, want %q", got, "refresh-token-1")
	}
	if store.CurrentUser() == nil {
		t.Error("CurrentUser() = nil after SetAccessToken")
	}
}

func TestBadgerStoreAuthenticatedClearsOnExpiry(t *testing.T) {
	t.Parallel()
	store := newTestBadgerStore(t)

	if err := store.Save(testSession()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	store.now = func() time.Time { return time.Now().Add(DefaultInactivityLimit + time.Minute) }

	if store.Authenticated() {
		t.Fatal("Authenticated() = true past the inactivity limit")
	}
	store.now = time.Now
	if got := store.AccessToken(); got != "" {
		t.Errorf("AccessToken() = %q after expiry check, want empty", got)
	}
}

func TestBadgerStoreSaveWithoutUserDropsStaleSnapshot(t *testing.T) {
	t.Parallel()
	store := newTestBadgerStore(t)

	if err := store.Save(testSession()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	sess := testSession()
	sess.User = nil
	if err := store.Save(sess); err != nil {
		t.Fatalf("Save() without user error = %v", err)
	}
	if store.CurrentUser() != nil {
		t.Error("CurrentUser() survived a Save with no user")
	}
}

func TestBadgerStoreTouch(t *testing.T) {
	t.Parallel()
	store := newTestBadgerStore(t)

	if err := store.Save(testSession()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	before := store.LastActivity()
	time.Sleep(5 * time.Millisecond)

	if err := store.Touch(); err != nil {
		t.Fatalf("Touch() error = %v", err)
	}
	if after := store.LastActivity(); !after.After(before) {
		t.Errorf("LastActivity() = %v after Touch, want later than %v", after, before)
	}
}

// Fieldctl - Field Service Administration Console
// Copyright 2026 Fieldctl Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldctl-io/fieldctl

package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/fieldctl-io/fieldctl/internal/logging"
)

// Storage keys. The session is four independent keys cleared together,
// mirroring the backend contract for client-side session state.
const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyCurrentUser  = "current_user"
	keyLastActivity = "last_activity"
)

// BadgerStore persists the session in a BadgerDB database. It is the
// durable alternative to FileStore for deployments where fieldctl runs as
// a long-lived process (watch mode) and crash consistency matters.
type BadgerStore struct {
	db    *badger.DB
	limit time.Duration

	// now is replaceable in tests.
	now func() time.Time
}

var _ Store = (*BadgerStore)(nil)

// NewBadgerStore creates a badger-backed session store. limit is the
// inactivity limit; pass 0 for DefaultInactivityLimit.
func NewBadgerStore(db *badger.DB, limit time.Duration) *BadgerStore {
	if limit <= 0 {
		limit = DefaultInactivityLimit
	}
	return &BadgerStore{db: db, limit: limit, now: time.Now}
}

// OpenBadgerStore opens (or creates) the database at dir and wraps it in a
// BadgerStore. Badger's own logger is silenced; fieldctl logs through
// zerolog.
func OpenBadgerStore(dir string, limit time.Duration) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}
	return NewBadgerStore(db, limit), nil
}

// Save persists a full session and resets the activity clock to now.
func (s *BadgerStore) Save(sess *Session) error {
	var userRaw []byte
	if sess.User != nil {
		raw, err := json.Marshal(sess.User)
		if err != nil {
			return fmt.Errorf("marshal user snapshot: %w", err)
		}
		userRaw = raw
	}
	activity, err := s.now().MarshalText()
	if err != nil {
		return fmt.Errorf("marshal activity time: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(keyAccessToken), []byte(sess.AccessToken)); err != nil {
			return err
		}
		if err := txn.Set([]byte(keyRefreshToken), []byte(sess.RefreshToken)); err != nil {
			return err
		}
		if userRaw != nil {
			if err := txn.Set([]byte(keyCurrentUser), userRaw); err != nil {
				return err
			}
		} else if err := txn.Delete([]byte(keyCurrentUser)); err != nil {
			return err
		}
		return txn.Set([]byte(keyLastActivity), activity)
	})
}

// Clear removes all four keys unconditionally. Idempotent.
func (s *BadgerStore) Clear() error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, key := range []string{keyAccessToken, keyRefreshToken, keyCurrentUser, keyLastActivity} {
			if err := txn.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
}

// AccessToken returns the stored access token, or "" if absent.
func (s *BadgerStore) AccessToken() string {
	return string(s.get(keyAccessToken))
}

// RefreshToken returns the stored refresh token, or "" if absent.
func (s *BadgerStore) RefreshToken() string {
	return string(s.get(keyRefreshToken))
}

// CurrentUser returns the stored user snapshot, or nil when absent or
// undecodable.
func (s *BadgerStore) CurrentUser() *UserSnapshot {
	raw := s.get(keyCurrentUser)
	if len(raw) == 0 {
		return nil
	}
	var user UserSnapshot
	if err := json.Unmarshal(raw, &user); err != nil {
		logging.Debug().Err(err).Msg("discarding corrupt user snapshot")
		return nil
	}
	return &user
}

// SetAccessToken replaces only the access token.
func (s *BadgerStore) SetAccessToken(token string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyAccessToken), []byte(token))
	})
}

// Touch records the current wall-clock time as last activity.
func (s *BadgerStore) Touch() error {
	activity, err := s.now().MarshalText()
	if err != nil {
		return fmt.Errorf("marshal activity time: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyLastActivity), activity)
	})
}

// LastActivity returns the last recorded activity time, or the zero time.
func (s *BadgerStore) LastActivity() time.Time {
	raw := s.get(keyLastActivity)
	if len(raw) == 0 {
		return time.Time{}
	}
	var t time.Time
	if err := t.UnmarshalText(raw); err != nil {
		return time.Time{}
	}
	return t
}

// ExpiredByInactivity reports whether the inactivity limit has elapsed.
func (s *BadgerStore) ExpiredByInactivity() bool {
	return expired(s.LastActivity(), s.now(), s.limit)
}

// Authenticated reports whether a usable session exists, clearing the
// store first when it does not. See the Store contract.
func (s *BadgerStore) Authenticated() bool {
	if s.AccessToken() == "" || s.ExpiredByInactivity() {
		if err := s.Clear(); err != nil {
			logging.Warn().Err(err).Msg("failed to clear stale session")
		}
		return false
	}
	return true
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// get reads one key, returning nil when absent or on read failure.
func (s *BadgerStore) get(key string) []byte {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("session read failed")
		return nil
	}
	return value
}

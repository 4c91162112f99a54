// Fieldctl - Field Service Administration Console
// Copyright 2026 Fieldctl Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldctl-io/fieldctl

package session

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/fieldctl-io/fieldctl/internal/logging"
)

// sessionDocument is the on-disk shape of a session. User is kept as a raw
// message so a corrupt snapshot degrades to "no user" instead of poisoning
// the token fields.
type sessionDocument struct {
	AccessToken  string          `json:"access_token,omitempty"`
	RefreshToken string          `json:"refresh_token,omitempty"`
	User         json.RawMessage `json:"current_user,omitempty"`
	LastActivity time.Time       `json:"last_activity"`
}

// FileStore persists the session as a single JSON document on disk,
// optionally encrypted at rest. It re-reads the file on every access so
// concurrent fieldctl invocations observe each other's logins and logouts.
type FileStore struct {
	path      string
	limit     time.Duration
	encryptor *Encryptor

	// now is replaceable in tests.
	now func() time.Time
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a file-backed session store at path. limit is the
// inactivity limit; pass 0 for DefaultInactivityLimit. encryptor may be nil
// for plaintext storage.
func NewFileStore(path string, limit time.Duration, encryptor *Encryptor) *FileStore {
	if limit <= 0 {
		limit = DefaultInactivityLimit
	}
	return &FileStore{
		path:      path,
		limit:     limit,
		encryptor: encryptor,
		now:       time.Now,
	}
}

// Save persists a full session and resets the activity clock to now.
// No validation of token shape is performed; the auth endpoint's response
// is trusted.
func (s *FileStore) Save(sess *Session) error {
	doc := sessionDocument{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		LastActivity: s.now(),
	}
	if sess.User != nil {
		raw, err := json.Marshal(sess.User)
		if err != nil {
			return fmt.Errorf("marshal user snapshot: %w", err)
		}
		doc.User = raw
	}
	return s.write(&doc)
}

// Clear removes all session state. Safe to call when nothing is stored.
func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// AccessToken returns the stored access token, or "" if absent.
func (s *FileStore) AccessToken() string {
	return s.read().AccessToken
}

// RefreshToken returns the stored refresh token, or "" if absent.
func (s *FileStore) RefreshToken() string {
	return s.read().RefreshToken
}

// CurrentUser returns the stored user snapshot, or nil when absent or
// undecodable. Corrupt data is "no user", not an error.
func (s *FileStore) CurrentUser() *UserSnapshot {
	doc := s.read()
	if len(doc.User) == 0 {
		return nil
	}
	var user UserSnapshot
	if err := json.Unmarshal(doc.User, &user); err != nil {
		logging.Debug().Err(err).Msg("discarding corrupt user snapshot")
		return nil
	}
	return &user
}

// SetAccessToken replaces only the access token, leaving the refresh token
// and user snapshot intact. Used by the 401 refresh path.
func (s *FileStore) SetAccessToken(token string) error {
	doc := s.read()
	doc.AccessToken = token
	return s.write(doc)
}

// Touch records the current wall-clock time as last activity.
func (s *FileStore) Touch() error {
	doc := s.read()
	doc.LastActivity = s.now()
	return s.write(doc)
}

// LastActivity returns the last recorded activity time.
func (s *FileStore) LastActivity() time.Time {
	return s.read().LastActivity
}

// ExpiredByInactivity reports whether the inactivity limit has elapsed.
func (s *FileStore) ExpiredByInactivity() bool {
	return expired(s.read().LastActivity, s.now(), s.limit)
}

// Authenticated reports whether a usable session exists. When it returns
// false it has already cleared the store; see the Store contract.
func (s *FileStore) Authenticated() bool {
	doc := s.read()
	if doc.AccessToken == "" || expired(doc.LastActivity, s.now(), s.limit) {
		if err := s.Clear(); err != nil {
			logging.Warn().Err(err).Msg("failed to clear stale session")
		}
		return false
	}
	return true
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error { return nil }

// read loads the session document, returning an empty document for a
// missing, unreadable, or corrupt file.
func (s *FileStore) read() *sessionDocument {
	doc := &sessionDocument{}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return doc
	}

	if s.encryptor != nil {
		plaintext, err := s.encryptor.Decrypt(data)
		if err != nil {
			logging.Warn().Err(err).Msg("cannot decrypt session file, treating as empty")
			return doc
		}
		data = plaintext
	}

	if err := json.Unmarshal(data, doc); err != nil {
		logging.Warn().Err(err).Msg("cannot parse session file, treating as empty")
		return &sessionDocument{}
	}
	return doc
}

// write atomically persists the document: write to a temp file in the same
// directory, then rename over the target. Mode 0600, directory 0700.
func (s *FileStore) write(doc *sessionDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if s.encryptor != nil {
		data, err = s.encryptor.Encrypt(data)
		if err != nil {
			return fmt.Errorf("encrypt session: %w", err)
		}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close session: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

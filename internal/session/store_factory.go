// Fieldctl - Field Service Administration Console
// Copyright 2026 Fieldctl Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldctl-io/fieldctl

package session

import (
	"fmt"

	"github.com/fieldctl-io/fieldctl/internal/config"
	"github.com/fieldctl-io/fieldctl/internal/logging"
)

// NewStore creates the configured session store backend.
//
// Backends:
//   - "file": single JSON document, optionally encrypted at rest (default)
//   - "badger": BadgerDB database for long-lived processes
//
// The caller owns the returned store and must Close it.
func NewStore(cfg config.SessionConfig) (Store, error) {
	switch cfg.Backend {
	case "file", "":
		encryptor, err := NewEncryptor(cfg.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("session encryption: %w", err)
		}
		if encryptor != nil {
			logging.Debug().Msg("session file encryption enabled")
		}
		return NewFileStore(cfg.Path, cfg.InactivityLimit, encryptor), nil

	case "badger":
		store, err := OpenBadgerStore(cfg.BadgerDir, cfg.InactivityLimit)
		if err != nil {
			return nil, err
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unknown session backend %q (want file or badger)", cfg.Backend)
	}
}

// Fieldctl - Field Service Administration Console
// Copyright 2026 Fieldctl Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldctl-io/fieldctl

package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the subset of access-token claims fieldctl displays.
// The backend verifies signatures; the client only peeks at claims for
// presentation (whoami, token expiry countdown) and never trusts them for
// authorization decisions.
type TokenClaims struct {
	Subject   string
	UserID    int64
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// PeekClaims parses a JWT access token WITHOUT verifying its signature and
// returns the display claims. An opaque (non-JWT) token yields an error;
// callers should degrade gracefully.
func PeekClaims(token string) (*TokenClaims, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}

	out := &TokenClaims{}
	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	if username, ok := claims["username"].(string); ok {
		out.Username = username
	}
	if id, ok := claims["user_id"].(float64); ok {
		out.UserID = int64(id)
	}
	return out, nil
}

// Expired reports whether the token's exp claim is in the past. A token
// without an exp claim is treated as unexpired.
func (c *TokenClaims) Expired() bool {
	return !c.ExpiresAt.IsZero() && time.Now().After(c.ExpiresAt)
}

// Fieldctl - Field Service Administration Console
// Copyright 2026 Fieldctl Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldctl-io/fieldctl

package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fieldctl-io/fieldctl/internal/logging"
	"github.com/fieldctl-io/fieldctl/internal/session"
)

const (
	tokenPath          = "/api/auth/token/"
	forgotPasswordPath = "/api/auth/forgot-password/"
	resetPasswordPath  = "/api/auth/reset-password/"
)

// AuthService handles authentication: login, logout, token refresh, and
// password recovery. Its endpoints are exempt from the bearer-token
// interceptor so they work without an existing session.
type AuthService struct {
	client *Client
	store  session.Store
}

// LoginRequest is the credential payload for Login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the token pair plus user profile returned on login.
type LoginResponse struct {
	Access  string               `json:"access"`
	Refresh string               `json:"refresh"`
	User    session.UserSnapshot `json:"user"`
}

// Login exchanges credentials for a token pair and persists the session.
// The activity clock starts at the moment of login.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	err := s.client.do(ctx, http.MethodPost, tokenPath, nil, LoginRequest{
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Access == "" || resp.Refresh == "" {
		return nil, fmt.Errorf("login response missing tokens")
	}

	sess := &session.Session{
		AccessToken:    resp.Access,
		RefreshToken:   resp.Refresh,
		User:           &resp.User,
		LastActivityAt: time.Now(),
	}
	if err := s.store.Save(sess); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	logging.Info().Str("username", resp.User.Username).Msg("logged in")
	return &resp, nil
}

// Logout destroys the local session. The backend holds no server-side
// session state for bearer tokens, so no remote call is made.
func (s *AuthService) Logout() error {
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	logging.Info().Msg("logged out")
	return nil
}

// Refresh exchanges the stored refresh token for a new access token and
// persists it. Most callers never need this: the interceptor refreshes
// silently on 401. It is exposed for explicit pre-emptive refresh.
func (s *AuthService) Refresh(ctx context.Context) (string, error) {
	refresh := s.store.RefreshToken()
	if refresh == "" {
		return "", session.ErrNoRefreshToken
	}

	var resp struct {
		Access string `json:"access"`
	}
	err := s.client.do(ctx, http.MethodPost, refreshPath, nil, map[string]string{
		"refresh": refresh,
	}, &resp)

	if err != nil {
		return "", err
	}
	if resp.Access == "" {
		return "", fmt.Errorf("refresh response missing access token")
	}
	if err := s.store.SetAccessToken(resp.Access); err != nil {
		return "", fmt.Errorf("persist refreshed token: %w", err)
	}
	return resp.Access, nil
}

// ForgotPassword requests a password-reset email for the account.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	return s.client.do(ctx, http.MethodPost, forgotPasswordPath, nil, map[string]string{
		"email": email,
	}, nil)
}

// ResetPasswordRequest carries the reset-link credentials plus the new
// password, submitted twice for confirmation.
type ResetPasswordRequest struct {
	UID             string `json:"uid"`
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ResetPassword completes a password reset started by ForgotPassword.
func (s *AuthService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	return s.client.do(ctx, http.MethodPost, resetPasswordPath, nil, req, nil)
}

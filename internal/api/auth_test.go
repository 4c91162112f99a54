// Fieldctl - Field Service Administration Console
// Copyright 2026 Fieldctl Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldctl-io/fieldctl

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/fieldctl-io/fieldctl/internal/session"
)

func TestLoginPersistsSession(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/token/" {
			t.Errorf("path = %s, want /api/auth/token/", r.URL.Path)
		}
		var creds LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Fatalf("decode credentials: %v", err)
		}
		if creds.Email != "admin@example.com" || creds.Password != "hunter2" {
			t.Errorf("credentials = %+v", creds)
		}
		_, _ = w.Write([]byte(`{"access":"acc","refresh":"ref","user":{"id":1,"username":"admin","email":"admin@example.com","is_staff":true}}`))
	}))
	defer server.Close()

	store := newMemStore("", "")
	client := newTestClient(t, server, store, nil)

	resp, err := client.Auth.Login(context.Background(), "admin@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if resp.User.Username != "admin" {
		t.Errorf("user = %+v", resp.User)
	}

	// Session persisted: tokens, user, activity clock.
	if got := store.AccessToken(); got != "acc" {
		t.Errorf("stored access token = %q", got)
	}
	if got := store.RefreshToken(); got != "ref" {
		t.Errorf("stored refresh token = %q", got)
	}
	user := store.CurrentUser()
	if user == nil || !user.IsAdmin() {
		t.Errorf("stored user = %+v, want admin snapshot", user)
	}
	if store.LastActivity().IsZero() {
		t.Error("activity clock not started on login")
	}
	if !store.Authenticated() {
		t.Error("Authenticated() = false right after login")
	}
}

func TestLoginRejectsTokenlessResponse(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"access":"","refresh":"","user":{"id":1,"username":"x"}}`))
	}))
	defer server.Close()

	store := newMemStore("", "")
	client := newTestClient(t, server, store, nil)

	if _, err := client.Auth.Login(context.Background(), "a@b.c", "pw"); err == nil {
		t.Fatal("Login() error = nil for a tokenless response")
	}
	if store.AccessToken() != "" {
		t.Error("a broken login response was persisted")
	}
}

func TestLoginBadCredentials(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"No active account found with the given credentials"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, newMemStore("", ""), nil)
	_, err := client.Auth.Login(context.Background(), "a@b.c", "wrong")

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("Login() error = %v, want 401 APIError", err)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	t.Parallel()
	store := newMemStore("acc", "ref")
	client := New(store, Options{})

	if err := client.Auth.Logout(); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if store.AccessToken() != "" || store.RefreshToken() != "" {
		t.Error("tokens survived logout")
	}
	if store.Authenticated() {
		t.Error("Authenticated() = true after logout")
	}
}

func TestExplicitRefresh(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/token/refresh/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"access":"fresh"}`))
	}))
	defer server.Close()

	store := newMemStore("stale", "ref")
	client := newTestClient(t, server, store, nil)

	token, err := client.Auth.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if token != "fresh" {
		t.Errorf("Refresh() = %q, want %q", token, "fresh")
	}
	if got := store.AccessToken(); got != "fresh" {
		t.Errorf("stored token = %q, want %q", got, "fresh")
	}
}

func TestExplicitRefreshWithoutToken(t *testing.T) {
	t.Parallel()
	client := New(newMemStore("acc", ""), Options{})
	if _, err := client.Auth.Refresh(context.Background()); !errors.Is(err, session.ErrNoRefreshToken) {
		t.Errorf("Refresh() error = %v, want ErrNoRefreshToken", err)
	}
}

func TestPasswordRecoveryEndpoints(t *testing.T) {
	t.Parallel()
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newTestClient(t, server, newMemStore("", ""), nil)

	if err := client.Auth.ForgotPassword(context.Background(), "a@b.c"); err != nil {
		t.Fatalf("ForgotPassword() error = %v", err)
	}
	err := client.Auth.ResetPassword(context.Background(), ResetPasswordRequest{
		UID: "uid1", Token: "tok1", NewPassword: "pw", ConfirmPassword: "pw",
	})
	if err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}

	want := []string{"/api/auth/forgot-password/", "/api/auth/reset-password/"}
	for i, p := range want {
		if paths[i] != p {
			t.Errorf("call %d path = %s, want %s", i, paths[i], p)
		}
	}
}

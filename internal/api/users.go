// Fieldctl - Field Service Administration Console
// Copyright 2026 Fieldctl Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldctl-io/fieldctl

package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fieldctl-io/fieldctl/internal/models"
	"github.com/fieldctl-io/fieldctl/internal/session"
)

const usersPath = "/api/users/"

// UsersService manages backend accounts (administrators and technicians).
// Account management is admin-only on the backend; technicians get 403.
type UsersService struct {
	client *Client
}

// List returns one page of users. Filter "is_staff" separates
// administrators from technicians.
func (s *UsersService) List(ctx context.Context, opts ListOptions) (*Page[models.User], error) {
	return list[models.User](ctx, s.client, usersPath, opts)
}

// ListAll returns every user across all pages.
func (s *UsersService) ListAll(ctx context.Context, opts ListOptions) ([]models.User, error) {
	return listAll[models.User](ctx, s.client, usersPath, opts)
}

// Get returns a user by ID.
func (s *UsersService) Get(ctx context.Context, id int64) (*models.User, error) {
	return get[models.User](ctx, s.client, usersPath, id)
}

// Me returns the authenticated account's profile from the backend and
// refreshes the session's stored snapshot so role-based decisions stay
// in sync with the server.
func (s *UsersService) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := s.client.do(ctx, http.MethodGet, usersPath+"me/", nil, nil, &user); err != nil {
		return nil, err
	}

	if s.client.store.CurrentUser() != nil {
		_ = s.client.store.Save(&session.Session{
			AccessToken:  s.client.store.AccessToken(),
			RefreshToken: s.client.store.RefreshToken(),
			User: &session.UserSnapshot{
				ID:        user.ID,
				Username:  user.Username,
				Email:     user.Email,
				FirstName: user.FirstName,
				LastName:  user.LastName,
				IsStaff:   user.IsStaff,
			},
			LastActivityAt: s.client.store.LastActivity(),
		})
	}
	return &user, nil
}

// CreateUserRequest carries a new account's profile and initial password.
type CreateUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	IsStaff   bool   `json:"is_staff"`
	Password  string `json:"password"`
}

// Create adds a new account.
func (s *UsersService) Create(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	return create[models.User](ctx, s.client, usersPath, req)
}

// Update replaces an account's profile. Passwords are not changed here.
func (s *UsersService) Update(ctx context.Context, id int64, user *models.User) (*models.User, error) {
	return update[models.User](ctx, s.client, usersPath, id, user)
}

// Patch applies a partial profile update.
func (s *UsersService) Patch(ctx context.Context, id int64, fields map[string]any) (*models.User, error) {
	return patch[models.User](ctx, s.client, usersPath, id, fields)
}

// Deactivate disables an account without deleting its history.
func (s *UsersService) Deactivate(ctx context.Context, id int64) (*models.User, error) {
	return patch[models.User](ctx, s.client, usersPath, id, map[string]any{"is_active": false})
}

// Delete removes an account.
func (s *UsersService) Delete(ctx context.Context, id int64) error {
	return del(ctx, s.client, usersPath, id)
}

// Restore reactivates a soft-deleted account.
func (s *UsersService) Restore(ctx context.Context, id int64) (*models.User, error) {
	return post[models.User](ctx, s.client, fmt.Sprintf("%s%d/restore/", usersPath, id), nil)
}

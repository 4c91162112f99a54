// Fieldctl - Field Service Administration Console
// Copyright 2026 Fieldctl Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldctl-io/fieldctl

package api

import (
	"context"
	"fmt"

	"github.com/fieldctl-io/fieldctl/internal/models"
)

const plansPath = "/api/plans/"

// PlansService manages subscription plans.
type PlansService struct {
	client *Client
}

// List returns one page of plans.
func (s *PlansService) List(ctx context.Context, opts ListOptions) (*Page[models.Plan], error) {
	return list[models.Plan](ctx, s.client, plansPath, opts)
}

// ListAll returns every plan across all pages.
func (s *PlansService) ListAll(ctx context.Context, opts ListOptions) ([]models.Plan, error) {
	return listAll[models.Plan](ctx, s.client, plansPath, opts)
}

// Get returns a plan by ID, including its task list.
func (s *PlansService) Get(ctx context.Context, id int64) (*models.Plan, error) {
	return get[models.Plan](ctx, s.client, plansPath, id)
}

// Create adds a new plan.
func (s *PlansService) Create(ctx context.Context, plan *models.Plan) (*models.Plan, error) {
	return create[models.Plan](ctx, s.client, plansPath, plan)
}

// Update replaces a plan.
func (s *PlansService) Update(ctx context.Context, id int64, plan *models.Plan) (*models.Plan, error) {
	return update[models.Plan](ctx, s.client, plansPath, id, plan)
}

// Patch applies a partial update.
func (s *PlansService) Patch(ctx context.Context, id int64, fields map[string]any) (*models.Plan, error) {
	return patch[models.Plan](ctx, s.client, plansPath, id, fields)
}

// Delete soft-deletes a plan.
func (s *PlansService) Delete(ctx context.Context, id int64) error {
	return del(ctx, s.client, plansPath, id)
}

// Restore reverses a soft delete.
func (s *PlansService) Restore(ctx context.Context, id int64) (*models.Plan, error) {
	return post[models.Plan](ctx, s.client, fmt.Sprintf("%s%d/restore/", plansPath, id), nil)
}

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

const visitsPath = "/api/visits/"

// VisitsService manages technician visits. Lifecycle transitions go
// through dedicated action endpoints (Start, Complete, Cancel) so the
// backend can validate state and stamp timestamps.
type VisitsService struct {
	client *Client
}

// List returns one page of visits. Useful filters: "status",
// "technician", "subscription", "scheduled_for__date".
func (s *VisitsService) List(ctx context.Context, opts ListOptions) (*Page[models.Visit], error) {
	return list[models.Visit](ctx, s.client, visitsPath, opts)
}

// ListAll returns every visit across all pages.
func (s *VisitsService) ListAll(ctx context.Context, opts ListOptions) ([]models.Visit, error) {
	return listAll[models.Visit](ctx, s.client, visitsPath, opts)
}

// Get returns a visit by ID.
func (s *VisitsService) Get(ctx context.Context, id int64) (*models.Visit, error) {
	return get[models.Visit](ctx, s.client, visitsPath, id)
}

// Create schedules a new visit.
func (s *VisitsService) Create(ctx context.Context, visit *models.Visit) (*models.Visit, error) {
	return create[models.Visit](ctx, s.client, visitsPath, visit)
}

// Update replaces a visit.
func (s *VisitsService) Update(ctx context.Context, id int64, visit *models.Visit) (*models.Visit, error) {
	return update[models.Visit](ctx, s.client, visitsPath, id, visit)
}

// Patch applies a partial update (e.g. reassigning the technician).
func (s *VisitsService) Patch(ctx context.Context, id int64, fields map[string]any) (*models.Visit, error) {
	return patch[models.Visit](ctx, s.client, visitsPath, id, fields)
}

// Start marks a scheduled visit as in progress.
func (s *VisitsService) Start(ctx context.Context, id int64) (*models.Visit, error) {
	return post[models.Visit](ctx, s.client, fmt.Sprintf("%s%d/start/", visitsPath, id), nil)
}

// Complete marks an in-progress visit as completed, with optional notes.
func (s *VisitsService) Complete(ctx context.Context, id int64, notes string) (*models.Visit, error) {
	var body any
	if notes != "" {
		body = map[string]string{"notes": notes}
	}
	return post[models.Visit](ctx, s.client, fmt.Sprintf("%s%d/complete/", visitsPath, id), body)
}

// Cancel cancels a visit that has not been completed.
func (s *VisitsService) Cancel(ctx context.Context, id int64) (*models.Visit, error) {
	return post[models.Visit](ctx, s.client, fmt.Sprintf("%s%d/cancel/", visitsPath, id), nil)
}

// Delete soft-deletes a visit.
func (s *VisitsService) Delete(ctx context.Context, id int64) error {
	return del(ctx, s.client, visitsPath, id)
}

// Restore reverses a soft delete.
func (s *VisitsService) Restore(ctx context.Context, id int64) (*models.Visit, error) {
	return post[models.Visit](ctx, s.client, fmt.Sprintf("%s%d/restore/", visitsPath, id), nil)
}

// Fieldctl - Field Service Administration Console
// Copyright 2026 Fieldctl Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldctl-io/fieldctl

package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/fieldctl-io/fieldctl/internal/models"
)

const materialsPath = "/api/material-used/"

// MaterialsService manages consumable usage recorded against visits.
type MaterialsService struct {
	client *Client
}

// List returns one page of material-used records.
func (s *MaterialsService) List(ctx context.Context, opts ListOptions) (*Page[models.MaterialUsed], error) {
	return list[models.MaterialUsed](ctx, s.client, materialsPath, opts)
}

// ByVisit returns one page of a visit's material usage.
func (s *MaterialsService) ByVisit(ctx context.Context, visitID int64, opts ListOptions) (*Page[models.MaterialUsed], error) {
	extra := url.Values{"visit": {strconv.FormatInt(visitID, 10)}}
	return listQuery[models.MaterialUsed](ctx, s.client, materialsPath, opts, extra)
}

// Get returns a material-used record by ID.
func (s *MaterialsService) Get(ctx context.Context, id int64) (*models.MaterialUsed, error) {
	return get[models.MaterialUsed](ctx, s.client, materialsPath, id)
}

// Create records material consumed on a visit.
func (s *MaterialsService) Create(ctx context.Context, material *models.MaterialUsed) (*models.MaterialUsed, error) {
	return create[models.MaterialUsed](ctx, s.client, materialsPath, material)
}

// Update replaces a material-used record.
func (s *MaterialsService) Update(ctx context.Context, id int64, material *models.MaterialUsed) (*models.MaterialUsed, error) {
	return update[models.MaterialUsed](ctx, s.client, materialsPath, id, material)
}

// Delete removes a material-used record.
func (s *MaterialsService) Delete(ctx context.Context, id int64) error {
	return del(ctx, s.client, materialsPath, id)
}

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

const customersPath = "/api/customers/"

// CustomersService manages customer accounts.
type CustomersService struct {
	client *Client
}

// List returns one page of customers.
func (s *CustomersService) List(ctx context.Context, opts ListOptions) (*Page[models.Customer], error) {
	return list[models.Customer](ctx, s.client, customersPath, opts)
}

// ListAll returns every customer across all pages.
func (s *CustomersService) ListAll(ctx context.Context, opts ListOptions) ([]models.Customer, error) {
	return listAll[models.Customer](ctx, s.client, customersPath, opts)
}

// Get returns a customer by ID, including contacts.
func (s *CustomersService) Get(ctx context.Context, id int64) (*models.Customer, error) {
	return get[models.Customer](ctx, s.client, customersPath, id)
}

// Create adds a new customer.
func (s *CustomersService) Create(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	return create[models.Customer](ctx, s.client, customersPath, customer)
}

// Update replaces a customer record.
func (s *CustomersService) Update(ctx context.Context, id int64, customer *models.Customer) (*models.Customer, error) {
	return update[models.Customer](ctx, s.client, customersPath, id, customer)
}

// Patch applies a partial update; fields maps JSON field names to values.
func (s *CustomersService) Patch(ctx context.Context, id int64, fields map[string]any) (*models.Customer, error) {
	return patch[models.Customer](ctx, s.client, customersPath, id, fields)
}

// Delete soft-deletes a customer. The record can be brought back with
// Restore.
func (s *CustomersService) Delete(ctx context.Context, id int64) error {
	return del(ctx, s.client, customersPath, id)
}

// Restore reverses a soft delete.
func (s *CustomersService) Restore(ctx context.Context, id int64) (*models.Customer, error) {
	return post[models.Customer](ctx, s.client, fmt.Sprintf("%s%d/restore/", customersPath, id), nil)
}

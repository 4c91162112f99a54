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
)

const subscriptionsPath = "/api/plan-subscriptions/"

// SubscriptionsService manages customer plan subscriptions.
type SubscriptionsService struct {
	client *Client
}

// List returns one page of subscriptions. Useful filters: "status",
// "customer", "plan".
func (s *SubscriptionsService) List(ctx context.Context, opts ListOptions) (*Page[models.Subscription], error) {
	return list[models.Subscription](ctx, s.client, subscriptionsPath, opts)
}

// ListAll returns every subscription across all pages.
func (s *SubscriptionsService) ListAll(ctx context.Context, opts ListOptions) ([]models.Subscription, error) {
	return listAll[models.Subscription](ctx, s.client, subscriptionsPath, opts)
}

// ByCustomer returns one customer's subscriptions. The endpoint is
// unpaginated.
func (s *SubscriptionsService) ByCustomer(ctx context.Context, customerID int64) ([]models.Subscription, error) {
	var subs []models.Subscription
	path := fmt.Sprintf("%sby-customer/%d/", subscriptionsPath, customerID)
	if err := s.client.do(ctx, http.MethodGet, path, nil, nil, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// ByPlan returns all subscriptions to one plan. The endpoint is
// unpaginated.
func (s *SubscriptionsService) ByPlan(ctx context.Context, planID int64) ([]models.Subscription, error) {
	var subs []models.Subscription
	path := fmt.Sprintf("%sby-plan/%d/", subscriptionsPath, planID)
	if err := s.client.do(ctx, http.MethodGet, path, nil, nil, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// Get returns a subscription by ID.
func (s *SubscriptionsService) Get(ctx context.Context, id int64) (*models.Subscription, error) {
	return get[models.Subscription](ctx, s.client, subscriptionsPath, id)
}

// Create subscribes a customer to a plan.
func (s *SubscriptionsService) Create(ctx context.Context, sub *models.Subscription) (*models.Subscription, error) {
	return create[models.Subscription](ctx, s.client, subscriptionsPath, sub)
}

// Update replaces a subscription.
func (s *SubscriptionsService) Update(ctx context.Context, id int64, sub *models.Subscription) (*models.Subscription, error) {
	return update[models.Subscription](ctx, s.client, subscriptionsPath, id, sub)
}

// Patch applies a partial update.
func (s *SubscriptionsService) Patch(ctx context.Context, id int64, fields map[string]any) (*models.Subscription, error) {
	return patch[models.Subscription](ctx, s.client, subscriptionsPath, id, fields)
}

// Cancel cancels a subscription through its dedicated action endpoint.
// The backend sets the end date and status; remaining visits are
// cancelled server-side.
func (s *SubscriptionsService) Cancel(ctx context.Context, id int64) (*models.Subscription, error) {
	return post[models.Subscription](ctx, s.client, fmt.Sprintf("%s%d/cancel/", subscriptionsPath, id), nil)
}

// Delete soft-deletes a subscription record.
func (s *SubscriptionsService) Delete(ctx context.Context, id int64) error {
	return del(ctx, s.client, subscriptionsPath, id)
}

// Restore reverses a soft delete.
func (s *SubscriptionsService) Restore(ctx context.Context, id int64) (*models.Subscription, error) {
	return post[models.Subscription](ctx, s.client, fmt.Sprintf("%s%d/restore/", subscriptionsPath, id), nil)
}

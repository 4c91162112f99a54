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

const planTasksPath = "/api/plan-tasks/"

// PlanTasksService manages the tasks that make up a plan's visit checklist.
type PlanTasksService struct {
	client *Client
}

// List returns one page of plan tasks across all plans.
func (s *PlanTasksService) List(ctx context.Context, opts ListOptions) (*Page[models.PlanTask], error) {
	return list[models.PlanTask](ctx, s.client, planTasksPath, opts)
}

// ByPlan returns every task belonging to one plan, in checklist order.
// The endpoint is unpaginated.
func (s *PlanTasksService) ByPlan(ctx context.Context, planID int64) ([]models.PlanTask, error) {
	var tasks []models.PlanTask
	path := fmt.Sprintf("%sby-plan/%d/", planTasksPath, planID)
	if err := s.client.do(ctx, http.MethodGet, path, nil, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Get returns a task by ID.
func (s *PlanTasksService) Get(ctx context.Context, id int64) (*models.PlanTask, error) {
	return get[models.PlanTask](ctx, s.client, planTasksPath, id)
}

// Create adds a task to a plan.
func (s *PlanTasksService) Create(ctx context.Context, task *models.PlanTask) (*models.PlanTask, error) {
	return create[models.PlanTask](ctx, s.client, planTasksPath, task)
}

// Update replaces a task.
func (s *PlanTasksService) Update(ctx context.Context, id int64, task *models.PlanTask) (*models.PlanTask, error) {
	return update[models.PlanTask](ctx, s.client, planTasksPath, id, task)
}

// Delete removes a task from its plan.
func (s *PlanTasksService) Delete(ctx context.Context, id int64) error {
	return del(ctx, s.client, planTasksPath, id)
}

// Fieldctl - Field Service Administration Console
// Copyright 2026 Fieldctl Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldctl-io/fieldctl

package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/fieldctl-io/fieldctl/internal/models"
)

const evidencePath = "/api/evidence/"

// EvidenceService manages photos and documents captured during visits.
// Uploads use multipart form encoding; everything else is plain JSON.
type EvidenceService struct {
	client *Client
}

// List returns one page of evidence records.
func (s *EvidenceService) List(ctx context.Context, opts ListOptions) (*Page[models.Evidence], error) {
	return list[models.Evidence](ctx, s.client, evidencePath, opts)
}

// ByVisit returns one page of a visit's evidence.
func (s *EvidenceService) ByVisit(ctx context.Context, visitID int64, opts ListOptions) (*Page[models.Evidence], error) {
	path := fmt.Sprintf("%sby-visit/%d/", evidencePath, visitID)
	return list[models.Evidence](ctx, s.client, path, opts)
}

// AllByVisit returns every evidence record for a visit across all pages.
func (s *EvidenceService) AllByVisit(ctx context.Context, visitID int64) ([]models.Evidence, error) {
	path := fmt.Sprintf("%sby-visit/%d/", evidencePath, visitID)
	return listAll[models.Evidence](ctx, s.client, path, ListOptions{})
}

// Get returns an evidence record by ID.
func (s *EvidenceService) Get(ctx context.Context, id int64) (*models.Evidence, error) {
	return get[models.Evidence](ctx, s.client, evidencePath, id)
}

// Upload attaches a file to a visit. fileName is the client-side name the
// backend stores alongside the file.
func (s *EvidenceService) Upload(ctx context.Context, visitID int64, fileName string, file io.Reader, caption string) (*models.Evidence, error) {
	fields := map[string]string{
		"visit": strconv.FormatInt(visitID, 10),
	}
	if caption != "" {
		fields["caption"] = caption
	}
	var out models.Evidence
	if err := s.client.upload(ctx, http.MethodPost, evidencePath, fields, "file", fileName, file, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCaption changes an evidence record's caption.
func (s *EvidenceService) UpdateCaption(ctx context.Context, id int64, caption string) (*models.Evidence, error) {
	return patch[models.Evidence](ctx, s.client, evidencePath, id, map[string]any{"caption": caption})
}

// Delete removes an evidence record and its stored file.
func (s *EvidenceService) Delete(ctx context.Context, id int64) error {
	return del(ctx, s.client, evidencePath, id)
}

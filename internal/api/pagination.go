// Fieldctl - Field Service Administration Console
// Copyright 2026 Fieldctl Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldctl-io/fieldctl

package api

import (
	"bytes"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"
)

// Page is the backend's pagination envelope: {count, next, previous, results}.
// Next and Previous are opaque cursor URLs; fieldctl navigates by page
// number instead and keeps them only for display.
type Page[T any] struct {
	Count    int    `json:"count"`
	Next     string `json:"next,omitempty"`
	Previous string `json:"previous,omitempty"`
	Results  []T    `json:"results"`
}

// TotalPages returns the number of pages needed for count items at the
// given page size, with a floor of one page even when count is zero.
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := (count + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// ListOptions carries the standard list query parameters plus
// resource-specific filters (status, active, customer, plan, ...).
// Zero values are omitted from the query string.
type ListOptions struct {
	Page     int
	PageSize int
	Search   string
	Ordering string
	Filters  map[string]string
}

// Values encodes the options as URL query parameters.
func (o ListOptions) Values() url.Values {
	values := url.Values{}
	if o.Page > 0 {
		values.Set("page", strconv.Itoa(o.Page))
	}
	if o.PageSize > 0 {
		values.Set("page_size", strconv.Itoa(o.PageSize))
	}
	if o.Search != "" {
		values.Set("search", o.Search)
	}
	if o.Ordering != "" {
		values.Set("ordering", o.Ordering)
	}
	for key, value := range o.Filters {
		if value != "" {
			values.Set(key, value)
		}
	}
	return values
}

// WithFilter returns a copy of the options with one filter added.
func (o ListOptions) WithFilter(key, value string) ListOptions {
	filters := make(map[string]string, len(o.Filters)+1)
	for k, v := range o.Filters {
		filters[k] = v
	}
	filters[key] = value
	o.Filters = filters
	return o
}

// decodePage decodes a list response that may be either the pagination
// envelope or, on unpaginated relation endpoints, a bare JSON array. The
// bare-array case reports Count as the number of items returned.
func decodePage[T any](data []byte) (*Page[T], error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return &Page[T]{Count: len(items), Results: items}, nil
	}

	var page Page[T]
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

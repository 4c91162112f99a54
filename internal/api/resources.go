// Fieldctl - Field Service Administration Console
// Copyright 2026 Fieldctl Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldctl-io/fieldctl

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"
)

// Generic request helpers shared by the resource services. Each service
// is a thin path layer over these; all auth, retry, and error handling
// lives in Client.

// list fetches one page of a collection endpoint.
func list[T any](ctx context.Context, c *Client, path string, opts ListOptions) (*Page[T], error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, opts.Values(), nil, &raw); err != nil {
		return nil, err
	}
	return decodePage[T](raw)
}

// listAll walks every page of a collection endpoint and returns the
// concatenated results.
func listAll[T any](ctx context.Context, c *Client, path string, opts ListOptions) ([]T, error) {
	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 100
	}

	var all []T
	for {
		page, err := list[T](ctx, c, path, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Results...)
		if page.Next == "" || len(page.Results) == 0 {
			return all, nil
		}
		opts.Page++
	}
}

// get fetches a single resource by ID.
func get[T any](ctx context.Context, c *Client, path string, id int64) (*T, error) {
	var out T
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s%d/", path, id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// create posts a new resource and returns the server's representation.
func create[T any](ctx context.Context, c *Client, path string, body any) (*T, error) {
	var out T
	if err := c.do(ctx, http.MethodPost, path, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// update replaces a resource (PUT).
func update[T any](ctx context.Context, c *Client, path string, id int64, body any) (*T, error) {
	var out T
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("%s%d/", path, id), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// patch partially updates a resource.
func patch[T any](ctx context.Context, c *Client, path string, id int64, body any) (*T, error) {
	var out T
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("%s%d/", path, id), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// del removes a resource.
func del(ctx context.Context, c *Client, path string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("%s%d/", path, id), nil, nil, nil)
}

// post hits an action sub-endpoint (e.g. cancel, restore) and decodes the
// response when out is non-nil.
func post[T any](ctx context.Context, c *Client, path string, body any) (*T, error) {
	var out T
	if err := c.do(ctx, http.MethodPost, path, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// listQuery fetches a page with extra fixed query parameters merged in.
func listQuery[T any](ctx context.Context, c *Client, path string, opts ListOptions, extra url.Values) (*Page[T], error) {
	values := opts.Values()
	for key, vals := range extra {
		for _, v := range vals {
			values.Set(key, v)
		}
	}
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, values, nil, &raw); err != nil {
		return nil, err
	}
	return decodePage[T](raw)
}

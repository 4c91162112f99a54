// Fieldctl - Field Service Administration Console
// Copyright 2026 Fieldctl Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldctl-io/fieldctl

// Package pager drives paginated, filterable list views over the API's
// page envelope. It owns the page/size/filter state, derives the total
// page count from the server's item count, and discards responses that
// arrive after the query state has moved on.
package pager

import (
	"context"
	"sync"

	"github.com/fieldctl-io/fieldctl/internal/api"
)

// DefaultPageSize matches the backend's default page size.
const DefaultPageSize = 10

// FetchFunc loads one page for the current query state.
type FetchFunc[T any] func(ctx context.Context, opts api.ListOptions) (*api.Page[T], error)

// Pager holds list-view state for one collection: current page, page
// size, search text, ordering, filters, and the most recently loaded
// rows.
//
// Every state mutation bumps an internal generation counter; a Load
// whose generation is stale by the time its response lands is dropped,
// so out-of-order responses can never clobber newer state.
//
// Thread safety: all methods are safe for concurrent use. Load blocks on
// the fetch; run it from its own goroutine if the caller must not block.
type Pager[T any] struct {
	fetch FetchFunc[T]

	mu         sync.Mutex
	page       int
	pageSize   int
	search     string
	ordering   string
	filters    map[string]string
	generation uint64

	rows       []T
	count      int
	totalPages int
	loading    bool
	lastErr    error
}

// New creates a Pager over fetch, positioned at page 1.
func New[T any](fetch FetchFunc[T]) *Pager[T] {
	return &Pager[T]{
		fetch:      fetch,
		page:       1,
		pageSize:   DefaultPageSize,
		totalPages: 1,
	}
}

// Load fetches the page for the current query state. A stale response
// (query state changed while the fetch was in flight) is discarded and
// reported as ok=false with a nil error.
func (p *Pager[T]) Load(ctx context.Context) (ok bool, err error) {
	p.mu.Lock()
	gen := p.generation
	opts := api.ListOptions{
		Page:     p.page,
		PageSize: p.pageSize,
		Search:   p.search,
		Ordering: p.ordering,
		Filters:  cloneFilters(p.filters),
	}
	p.loading = true
	p.mu.Unlock()

	page, err := p.fetch(ctx, opts)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false
	if gen != p.generation {
		// Query state moved on while this fetch was in flight.
		return false, nil
	}
	if err != nil {
		p.lastErr = err
		return false, err
	}
	p.lastErr = nil
	p.rows = page.Results
	p.count = page.Count
	p.totalPages = api.TotalPages(page.Count, opts.PageSize)
	return true, nil
}

// SetPage moves to page n (minimum 1). Pages past the end are sent to
// the server as-is; the pager reflects whatever the server returns for
// them. Use Reload after a delete to get back to a known-good page.
func (p *Pager[T]) SetPage(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n < 1 {
		n = 1
	}
	if n == p.page {
		return
	}
	p.page = n
	p.generation++
}

// NextPage advances one page.
func (p *Pager[T]) NextPage() {
	p.mu.Lock()
	n := p.page + 1
	p.mu.Unlock()
	p.SetPage(n)
}

// PrevPage goes back one page if not already on the first.
func (p *Pager[T]) PrevPage() {
	p.mu.Lock()
	n := p.page - 1
	p.mu.Unlock()
	p.SetPage(n)
}

// SetPageSize changes the page size and resets to page 1.
func (p *Pager[T]) SetPageSize(size int) {
	if size < 1 {
		size = DefaultPageSize
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if size == p.pageSize {
		return
	}
	p.pageSize = size
	p.page = 1
	p.generation++
}

// SetSearch changes the search text and resets to page 1.
func (p *Pager[T]) SetSearch(query string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if query == p.search {
		return
	}
	p.search = query
	p.page = 1
	p.generation++
}

// SetOrdering changes the sort field and resets to page 1.
func (p *Pager[T]) SetOrdering(ordering string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ordering == p.ordering {
		return
	}
	p.ordering = ordering
	p.page = 1
	p.generation++
}

// SetFilter sets one filter key and resets to page 1. An empty value
// removes the key.
func (p *Pager[T]) SetFilter(key, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if value == "" {
		if _, present := p.filters[key]; !present {
			return
		}
		delete(p.filters, key)
	} else {
		if p.filters[key] == value {
			return
		}
		if p.filters == nil {
			p.filters = make(map[string]string)
		}
		p.filters[key] = value
	}
	p.page = 1
	p.generation++
}

// SetFilters replaces the whole filter set and resets to page 1.
func (p *Pager[T]) SetFilters(filters map[string]string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filters = cloneFilters(filters)
	p.page = 1
	p.generation++
}

// Reload resets to page 1, keeping filters, and invalidates any fetch in
// flight.
func (p *Pager[T]) Reload() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.page = 1
	p.generation++
}

// Rows returns the most recently loaded page of results.
func (p *Pager[T]) Rows() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rows
}

// Count returns the server's total item count across all pages.
func (p *Pager[T]) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}

// Page returns the current page number (1-based).
func (p *Pager[T]) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

// PageSize returns the current page size.
func (p *Pager[T]) PageSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pageSize
}

// TotalPages returns the derived page count, never less than 1.
func (p *Pager[T]) TotalPages() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalPages
}

// Loading reports whether a fetch is in flight.
func (p *Pager[T]) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Err returns the error from the most recent completed load, if any.
func (p *Pager[T]) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

func cloneFilters(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

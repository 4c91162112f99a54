// Fieldctl - Field Service Administration Console
// Copyright 2026 Fieldctl Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldctl-io/fieldctl

package pager

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fieldctl-io/fieldctl/internal/api"
)

// fakeBackend serves pages from a fixed item count, recording the options
// of every fetch.
type fakeBackend struct {
	mu    sync.Mutex
	count int
	calls []api.ListOptions
	err   error

	// block, when non-nil, is closed to release an in-flight fetch.
	block chan struct{}
}

func (f *fakeBackend) fetch(_ context.Context, opts api.ListOptions) (*api.Page[int], error) {
	f.mu.Lock()
	f.calls = append(f.calls, opts)
	count := f.count
	err := f.err
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}

	size := opts.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	start := (opts.Page - 1) * size
	var results []int
	for i := start; i < count && i < start+size; i++ {
		results = append(results, i)
	}
	page := &api.Page[int]{Count: count, Results: results}
	if start+size < count {
		page.Next = "?page=next"
	}
	return page, nil
}

func (f *fakeBackend) lastCall() api.ListOptions {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func TestPagerLoadsFirstPage(t *testing.T) {
	t.Parallel()
	backend := &fakeBackend{count: 25}
	p := New(backend.fetch)

	ok, err := p.Load(context.Background())
	if err != nil || !ok {
		t.Fatalf("Load() = (%v, %v), want (true, nil)", ok, err)
	}
	if p.Page() != 1 {
		t.Errorf("Page() = %d, want 1", p.Page())
	}
	if p.Count() != 25 {
		t.Errorf("Count() = %d, want 25", p.Count())
	}
	if p.TotalPages() != 3 {
		t.Errorf("TotalPages() = %d, want 3 (25 items, size 10)", p.TotalPages())
	}
	if len(p.Rows()) != 10 {
		t.Errorf("Rows() length = %d, want 10", len(p.Rows()))
	}
}

func TestPagerEmptyCollectionHasOnePage(t *testing.T) {
	t.Parallel()
	backend := &fakeBackend{count: 0}
	p := New(backend.fetch)

	if _, err := p.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if p.TotalPages() != 1 {
		t.Errorf("TotalPages() = %d, want 1 for an empty collection", p.TotalPages())
	}
}

func TestPagerNavigationBounds(t *testing.T) {
	t.Parallel()
	backend := &fakeBackend{count: 25}
	p := New(backend.fetch)
	if _, err := p.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	p.SetPage(2)
	p.PrevPage()
	if p.Page() != 1 {
		t.Errorf("PrevPage(): Page() = %d, want 1", p.Page())
	}
	p.PrevPage()
	if p.Page() != 1 {
		t.Errorf("PrevPage() on page 1: Page() = %d, want 1", p.Page())
	}
	p.SetPage(-4)
	if p.Page() != 1 {
		t.Errorf("SetPage(-4): Page() = %d, want 1", p.Page())
	}

	// Past-the-end pages go to the server untouched; the pager shows
	// whatever comes back.
	p.SetPage(99)
	if p.Page() != 99 {
		t.Errorf("SetPage(99): Page() = %d, want 99", p.Page())
	}
	if _, err := p.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := backend.lastCall().Page; got != 99 {
		t.Errorf("fetched page = %d, want 99", got)
	}
	if len(p.Rows()) != 0 {
		t.Errorf("Rows() length = %d past the end, want 0", len(p.Rows()))
	}
	if p.Page() != 99 {
		t.Errorf("Page() = %d after out-of-range load, want 99", p.Page())
	}
}

func TestPagerFilterChangeResetsPage(t *testing.T) {
	t.Parallel()
	backend := &fakeBackend{count: 100}
	p := New(backend.fetch)
	if _, err := p.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	p.SetPage(5)
	if _, err := p.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if p.Page() != 5 {
		t.Fatalf("Page() = %d, want 5", p.Page())
	}

	p.SetFilter("status", "active")
	if p.Page() != 1 {
		t.Errorf("Page() = %d after filter change, want reset to 1", p.Page())
	}

	if _, err := p.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	last := backend.lastCall()
	if last.Page != 1 || last.Filters["status"] != "active" {
		t.Errorf("fetch options = %+v, want page 1 with status filter", last)
	}
}

func TestPagerSearchAndPageSizeResetPage(t *testing.T) {
	t.Parallel()
	backend := &fakeBackend{count: 100}
	p := New(backend.fetch)
	if _, err := p.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	p.SetPage(4)
	p.SetSearch("acme")
	if p.Page() != 1 {
		t.Errorf("Page() = %d after search change, want 1", p.Page())
	}

	p.SetPage(4)
	p.SetPageSize(50)
	if p.Page() != 1 {
		t.Errorf("Page() = %d after page-size change, want 1", p.Page())
	}

	// Setting the same value again must not reset anything.
	p.SetPage(2)
	p.SetSearch("acme")
	p.SetPageSize(50)
	if p.Page() != 2 {
		t.Errorf("Page() = %d after no-op changes, want 2", p.Page())
	}
}

// A response that arrives after the query state has moved on is dropped.
func TestPagerDiscardsStaleResponse(t *testing.T) {
	t.Parallel()
	backend := &fakeBackend{count: 100, block: make(chan struct{})}
	p := New(backend.fetch)

	done := make(chan struct{})
	var staleOK bool
	go func() {
		staleOK, _ = p.Load(context.Background())
		close(done)
	}()

	// Wait for the fetch to be in flight, then invalidate it.
	for {
		backend.mu.Lock()
		started := len(backend.calls) > 0
		backend.mu.Unlock()
		if started {
			break
		}
		time.Sleep(time.Millisecond)
	}
	p.SetFilter("status", "active")
	close(backend.block)
	<-done

	if staleOK {
		t.Error("stale Load() reported ok = true")
	}
	if len(p.Rows()) != 0 {
		t.Errorf("Rows() = %v from a stale response, want none", p.Rows())
	}
	if p.Loading() {
		t.Error("Loading() stuck true after a discarded response")
	}

	// The follow-up load for the new state succeeds normally.
	backend.mu.Lock()
	backend.block = nil
	backend.mu.Unlock()
	ok, err := p.Load(context.Background())
	if err != nil || !ok {
		t.Fatalf("Load() after invalidation = (%v, %v), want (true, nil)", ok, err)
	}
	if len(p.Rows()) != 10 {
		t.Errorf("Rows() length = %d, want 10", len(p.Rows()))
	}
}

func TestPagerLoadError(t *testing.T) {
	t.Parallel()
	backend := &fakeBackend{err: errors.New("backend down")}
	p := New(backend.fetch)

	ok, err := p.Load(context.Background())
	if ok || err == nil {
		t.Fatalf("Load() = (%v, %v), want (false, error)", ok, err)
	}
	if p.Err() == nil {
		t.Error("Err() = nil after a failed load")
	}

	// Recovery clears the recorded error.
	backend.mu.Lock()
	backend.err = nil
	backend.count = 5
	backend.mu.Unlock()
	if _, err := p.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if p.Err() != nil {
		t.Errorf("Err() = %v after a successful load, want nil", p.Err())
	}
}

func TestPagerReloadResetsToFirstPage(t *testing.T) {
	t.Parallel()
	backend := &fakeBackend{count: 100}
	p := New(backend.fetch)
	if _, err := p.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	p.SetPage(7)
	p.SetFilter("status", "completed")
	p.SetPage(3)
	p.Reload()

	if p.Page() != 1 {
		t.Errorf("Page() = %d after Reload, want 1", p.Page())
	}
	if _, err := p.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	// Filters survive a reload.
	if got := backend.lastCall().Filters["status"]; got != "completed" {
		t.Errorf("filter after Reload = %q, want %q", got, "completed")
	}
}

func TestPagerReflectsShrunkenCollection(t *testing.T) {
	t.Parallel()
	backend := &fakeBackend{count: 100}
	p := New(backend.fetch)
	if _, err := p.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	p.SetPage(10)

	// The collection shrank server-side. The pager reports the new page
	// count but keeps the requested page; Reload is the way back.
	backend.mu.Lock()
	backend.count = 15
	backend.mu.Unlock()

	if _, err := p.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if p.TotalPages() != 2 {
		t.Errorf("TotalPages() = %d, want 2", p.TotalPages())
	}
	if p.Page() != 10 {
		t.Errorf("Page() = %d, want 10", p.Page())
	}
	if len(p.Rows()) != 0 {
		t.Errorf("Rows() length = %d past the end, want 0", len(p.Rows()))
	}

	p.Reload()
	if _, err := p.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if p.Page() != 1 || len(p.Rows()) != 10 {
		t.Errorf("after Reload: page %d with %d rows, want page 1 with 10 rows",
			p.Page(), len(p.Rows()))
	}
}

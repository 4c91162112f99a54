// Fieldctl - Field Service Administration Console
// Copyright 2026 Fieldctl Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldctl-io/fieldctl

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fieldctl-io/fieldctl/internal/api"
)

// listFlags registers the pagination/search flags shared by all list
// subcommands and returns a builder for the resulting ListOptions.
func listFlags(fs *flag.FlagSet) func() api.ListOptions {
	page := fs.Int("page", 1, "page number")
	pageSize := fs.Int("page-size", 10, "items per page")
	search := fs.String("search", "", "free-text search")
	ordering := fs.String("ordering", "", "sort field, prefix with - for descending")
	filter := fs.String("filter", "", "extra filters as k=v,k=v")

	return func() api.ListOptions {
		opts := api.ListOptions{
			Page:     *page,
			PageSize: *pageSize,
			Search:   *search,
			Ordering: *ordering,
		}
		if *filter != "" {
			opts.Filters = make(map[string]string)
			for _, pair := range strings.Split(*filter, ",") {
				key, value, found := strings.Cut(pair, "=")
				if !found || key == "" {
					continue
				}
				opts.Filters[strings.TrimSpace(key)] = strings.TrimSpace(value)
			}
		}
		return opts
	}
}

// table writes rows in aligned columns to stdout. header is tab-separated.
func table(header string, rows func(w *tabwriter.Writer)) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, header)
	rows(w)
	_ = w.Flush()
}

// pageFooter prints the page position line below a table.
func pageFooter(page, pageSize, count int) {
	fmt.Printf("page %d of %d (%d total)\n", page, api.TotalPages(count, pageSize), count)
}

// fmtTime renders timestamps for table cells, "-" for zero values.
func fmtTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// fmtTimePtr renders optional timestamps.
func fmtTimePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return fmtTime(*t)
}

// orDash substitutes "-" for empty strings in table cells.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// requireID validates the common -id flag.
func requireID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("-id is required")
	}
	return nil
}

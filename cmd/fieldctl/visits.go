// Fieldctl - Field Service Administration Console
// Copyright 2026 Fieldctl Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldctl-io/fieldctl

package main

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/fieldctl-io/fieldctl/internal/api"
	"github.com/fieldctl-io/fieldctl/internal/models"
	"github.com/fieldctl-io/fieldctl/internal/pager"
	"github.com/fieldctl-io/fieldctl/internal/session"
)

func (a *app) cmdVisits(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("visits: missing subcommand (list, get, create, start, complete, cancel, watch)")
	}
	if err := a.guard(); err != nil {
		return err
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		fs := flag.NewFlagSet("visits list", flag.ContinueOnError)
		opts := listFlags(fs)
		status := fs.String("status", "", "filter by status (scheduled, in_progress, completed, cancelled)")
		technician := fs.Int64("technician", 0, "filter by technician ID")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		listOpts := opts()
		if *status != "" {
			listOpts = listOpts.WithFilter("status", *status)
		}
		if *technician > 0 {
			listOpts = listOpts.WithFilter("technician", fmt.Sprint(*technician))
		}
		page, err := a.client.Visits.List(ctx, listOpts)
		if err != nil {
			return err
		}
		printVisits(page.Results)
		pageFooter(listOpts.Page, listOpts.PageSize, page.Count)
		return nil

	case "get":
		fs := flag.NewFlagSet("visits get", flag.ContinueOnError)
		id := fs.Int64("id", 0, "visit ID")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if err := requireID(*id); err != nil {
			return err
		}
		visit, err := a.client.Visits.Get(ctx, *id)
		if err != nil {
			return err
		}
		fmt.Printf("Visit %d (%s)\n", visit.ID, visit.Status)
		fmt.Printf("  Customer:     %s\n", orDash(visit.CustomerName))
		fmt.Printf("  Subscription: %d\n", visit.Subscription)
		fmt.Printf("  Scheduled:    %s\n", fmtTime(visit.ScheduledFor))
		fmt.Printf("  Started:      %s\n", fmtTimePtr(visit.StartedAt))
		fmt.Printf("  Completed:    %s\n", fmtTimePtr(visit.CompletedAt))
		if visit.Notes != "" {
			fmt.Printf("  Notes:        %s\n", visit.Notes)
		}
		return nil

	case "create":
		fs := flag.NewFlagSet("visits create", flag.ContinueOnError)
		subscription := fs.Int64("subscription", 0, "subscription ID (required)")
		technician := fs.Int64("technician", 0, "technician user ID")
		when := fs.String("at", "", "scheduled time, RFC 3339 (required)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *subscription <= 0 || *when == "" {
			return fmt.Errorf("-subscription and -at are required")
		}
		scheduledFor, err := time.Parse(time.RFC3339, *when)
		if err != nil {
			return fmt.Errorf("parse -at: %w", err)
		}
		visit, err := a.client.Visits.Create(ctx, &models.Visit{
			Subscription: *subscription,
			Technician:   *technician,
			ScheduledFor: scheduledFor,
		})
		if err != nil {
			return err
		}
		fmt.Printf("scheduled visit %d for %s\n", visit.ID, fmtTime(visit.ScheduledFor))
		return nil

	case "start", "complete", "cancel":
		fs := flag.NewFlagSet("visits "+sub, flag.ContinueOnError)
		id := fs.Int64("id", 0, "visit ID")
		notes := fs.String("notes", "", "completion notes (complete only)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if err := requireID(*id); err != nil {
			return err
		}
		var visit *models.Visit
		var err error
		switch sub {
		case "start":
			visit, err = a.client.Visits.Start(ctx, *id)
		case "complete":
			visit, err = a.client.Visits.Complete(ctx, *id, *notes)
		case "cancel":
			visit, err = a.client.Visits.Cancel(ctx, *id)
		}
		if err != nil {
			return err
		}
		fmt.Printf("visit %d is now %s\n", visit.ID, visit.Status)
		return nil

	case "watch":
		return a.watchVisits(ctx, rest)

	default:
		return fmt.Errorf("visits: unknown subcommand %q", sub)
	}
}

// watchVisits polls the visit list on an interval, re-rendering the first
// page each time. It runs the session watcher alongside so an inactivity
// expiry mid-watch stops the loop instead of surfacing as request errors.
func (a *app) watchVisits(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("visits watch", flag.ContinueOnError)
	interval := fs.Duration("interval", 30*time.Second, "poll interval")
	status := fs.String("status", "", "filter by status")
	pageSize := fs.Int("page-size", 20, "rows per refresh")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p := pager.New(func(ctx context.Context, opts api.ListOptions) (*api.Page[models.Visit], error) {
		return a.client.Visits.List(ctx, opts)
	})
	p.SetPageSize(*pageSize)
	if *status != "" {
		p.SetFilter("status", *status)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	watcher := session.NewWatcher(a.store, a.cfg.Session.WatchInterval)
	watcher.Subscribe(cancel)
	go watcher.Run(ctx)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for {
		ok, err := p.Load(ctx)
		if err != nil {
			return err
		}
		if ok {
			fmt.Printf("\n%s - %d visits\n", time.Now().Format("15:04:05"), p.Count())
			printVisits(p.Rows())
		}

		select {
		case <-ctx.Done():
			if ctx.Err() == context.Canceled && a.store.AccessToken() == "" {
				return session.ErrExpired
			}
			return nil
		case <-ticker.C:
		}
	}
}

func printVisits(visits []models.Visit) {
	table("ID\tCUSTOMER\tSCHEDULED\tSTATUS\tTECHNICIAN", func(w *tabwriter.Writer) {
		for _, v := range visits {
			tech := "-"
			if v.Technician > 0 {
				tech = fmt.Sprint(v.Technician)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
				v.ID, orDash(v.CustomerName), fmtTime(v.ScheduledFor), v.Status, tech)
		}
	})
}

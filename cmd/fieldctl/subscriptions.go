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

	"github.com/fieldctl-io/fieldctl/internal/models"
)

func (a *app) cmdSubscriptions(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("subscriptions: missing subcommand (list, get, by-customer, by-plan, create, cancel, restore)")
	}
	if err := a.guard(); err != nil {
		return err
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		fs := flag.NewFlagSet("subscriptions list", flag.ContinueOnError)
		opts := listFlags(fs)
		status := fs.String("status", "", "filter by status (active, paused, cancelled, expired)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		listOpts := opts()
		if *status != "" {
			listOpts = listOpts.WithFilter("status", *status)
		}
		page, err := a.client.Subscriptions.List(ctx, listOpts)
		if err != nil {
			return err
		}
		printSubscriptions(page.Results)
		pageFooter(listOpts.Page, listOpts.PageSize, page.Count)
		return nil

	case "get":
		fs := flag.NewFlagSet("subscriptions get", flag.ContinueOnError)
		id := fs.Int64("id", 0, "subscription ID")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if err := requireID(*id); err != nil {
			return err
		}
		s, err := a.client.Subscriptions.Get(ctx, *id)
		if err != nil {
			return err
		}
		fmt.Printf("Subscription %d: %s on %s\n", s.ID, s.CustomerName, s.PlanName)
		fmt.Printf("  Status: %s\n", s.Status)
		fmt.Printf("  Term:   %s .. %s\n", orDash(s.StartDate), orDash(s.EndDate))
		fmt.Printf("  Price:  %s\n", orDash(s.Price))
		return nil

	case "by-customer":
		fs := flag.NewFlagSet("subscriptions by-customer", flag.ContinueOnError)
		customerID := fs.Int64("customer", 0, "customer ID")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *customerID <= 0 {
			return fmt.Errorf("-customer is required")
		}
		subs, err := a.client.Subscriptions.ByCustomer(ctx, *customerID)
		if err != nil {
			return err
		}
		printSubscriptions(subs)
		return nil

	case "by-plan":
		fs := flag.NewFlagSet("subscriptions by-plan", flag.ContinueOnError)
		planID := fs.Int64("plan", 0, "plan ID")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *planID <= 0 {
			return fmt.Errorf("-plan is required")
		}
		subs, err := a.client.Subscriptions.ByPlan(ctx, *planID)
		if err != nil {
			return err
		}
		printSubscriptions(subs)
		return nil

	case "create":
		fs := flag.NewFlagSet("subscriptions create", flag.ContinueOnError)
		customerID := fs.Int64("customer", 0, "customer ID (required)")
		planID := fs.Int64("plan", 0, "plan ID (required)")
		startDate := fs.String("start", "", "start date YYYY-MM-DD (backend defaults to today)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *customerID <= 0 || *planID <= 0 {
			return fmt.Errorf("-customer and -plan are required")
		}
		s, err := a.client.Subscriptions.Create(ctx, &models.Subscription{
			Customer:  *customerID,
			Plan:      *planID,
			StartDate: *startDate,
		})
		if err != nil {
			return err
		}
		fmt.Printf("created subscription %d (%s)\n", s.ID, s.Status)
		return nil

	case "cancel":
		fs := flag.NewFlagSet("subscriptions cancel", flag.ContinueOnError)
		id := fs.Int64("id", 0, "subscription ID")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if err := requireID(*id); err != nil {
			return err
		}
		s, err := a.client.Subscriptions.Cancel(ctx, *id)
		if err != nil {
			return err
		}
		fmt.Printf("cancelled subscription %d (end date %s)\n", s.ID, orDash(s.EndDate))
		return nil

	case "restore":
		fs := flag.NewFlagSet("subscriptions restore", flag.ContinueOnError)
		id := fs.Int64("id", 0, "subscription ID")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if err := requireID(*id); err != nil {
			return err
		}
		s, err := a.client.Subscriptions.Restore(ctx, *id)
		if err != nil {
			return err
		}
		fmt.Printf("restored subscription %d (%s)\n", s.ID, s.Status)
		return nil

	default:
		return fmt.Errorf("subscriptions: unknown subcommand %q", sub)
	}
}

func printSubscriptions(subs []models.Subscription) {
	table("ID\tCUSTOMER\tPLAN\tSTATUS\tSTART\tEND", func(w *tabwriter.Writer) {
		for _, s := range subs {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
				s.ID, orDash(s.CustomerName), orDash(s.PlanName), s.Status,
				orDash(s.StartDate), orDash(s.EndDate))
		}
	})
}

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

func (a *app) cmdPlans(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("plans: missing subcommand (list, get, create, delete, restore)")
	}
	if err := a.guard(); err != nil {
		return err
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		fs := flag.NewFlagSet("plans list", flag.ContinueOnError)
		opts := listFlags(fs)
		if err := fs.Parse(rest); err != nil {
			return err
		}
		listOpts := opts()
		page, err := a.client.Plans.List(ctx, listOpts)
		if err != nil {
			return err
		}
		table("ID\tNAME\tPRICE\tBILLING\tVISITS/TERM\tACTIVE", func(w *tabwriter.Writer) {
			for _, p := range page.Results {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%t\n",
					p.ID, p.Name, p.Price, orDash(p.BillingPeriod), p.VisitsPerTerm, p.Active)
			}
		})
		pageFooter(listOpts.Page, listOpts.PageSize, page.Count)
		return nil

	case "get":
		fs := flag.NewFlagSet("plans get", flag.ContinueOnError)
		id := fs.Int64("id", 0, "plan ID")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if err := requireID(*id); err != nil {
			return err
		}
		plan, err := a.client.Plans.Get(ctx, *id)
		if err != nil {
			return err
		}
		fmt.Printf("Plan %d: %s\n", plan.ID, plan.Name)
		fmt.Printf("  Price:       %s / %s\n", plan.Price, orDash(plan.BillingPeriod))
		fmt.Printf("  Visits/term: %d\n", plan.VisitsPerTerm)
		fmt.Printf("  Active:      %t\n", plan.Active)
		if plan.Description != "" {
			fmt.Printf("  Description: %s\n", plan.Description)
		}
		if len(plan.Tasks) > 0 {
			fmt.Println("  Tasks:")
			for _, task := range plan.Tasks {
				fmt.Printf("    %d. %s\n", task.Order, task.Name)
			}
		}
		return nil

	case "create":
		fs := flag.NewFlagSet("plans create", flag.ContinueOnError)
		name := fs.String("name", "", "plan name (required)")
		price := fs.String("price", "", "price as a decimal string (required)")
		billing := fs.String("billing", "monthly", "billing period: monthly, quarterly, yearly")
		visits := fs.Int("visits", 1, "visits per billing term")
		description := fs.String("description", "", "plan description")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *name == "" || *price == "" {
			return fmt.Errorf("-name and -price are required")
		}
		plan, err := a.client.Plans.Create(ctx, &models.Plan{
			Name:          *name,
			Price:         *price,
			BillingPeriod: *billing,
			VisitsPerTerm: *visits,
			Description:   *description,
			Active:        true,
		})
		if err != nil {
			return err
		}
		fmt.Printf("created plan %d: %s\n", plan.ID, plan.Name)
		return nil

	case "delete":
		fs := flag.NewFlagSet("plans delete", flag.ContinueOnError)
		id := fs.Int64("id", 0, "plan ID")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if err := requireID(*id); err != nil {
			return err
		}
		if err := a.client.Plans.Delete(ctx, *id); err != nil {
			return err
		}
		fmt.Printf("deleted plan %d (restorable)\n", *id)
		return nil

	case "restore":
		fs := flag.NewFlagSet("plans restore", flag.ContinueOnError)
		id := fs.Int64("id", 0, "plan ID")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if err := requireID(*id); err != nil {
			return err
		}
		plan, err := a.client.Plans.Restore(ctx, *id)
		if err != nil {
			return err
		}
		fmt.Printf("restored plan %d: %s\n", plan.ID, plan.Name)
		return nil

	default:
		return fmt.Errorf("plans: unknown subcommand %q", sub)
	}
}

func (a *app) cmdPlanTasks(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("plan-tasks: missing subcommand (list, by-plan, create, delete)")
	}
	if err := a.guard(); err != nil {
		return err
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		fs := flag.NewFlagSet("plan-tasks list", flag.ContinueOnError)
		opts := listFlags(fs)
		if err := fs.Parse(rest); err != nil {
			return err
		}
		listOpts := opts()
		page, err := a.client.PlanTasks.List(ctx, listOpts)
		if err != nil {
			return err
		}
		printTasks(page.Results)
		pageFooter(listOpts.Page, listOpts.PageSize, page.Count)
		return nil

	case "by-plan":
		fs := flag.NewFlagSet("plan-tasks by-plan", flag.ContinueOnError)
		planID := fs.Int64("plan", 0, "plan ID")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *planID <= 0 {
			return fmt.Errorf("-plan is required")
		}
		tasks, err := a.client.PlanTasks.ByPlan(ctx, *planID)
		if err != nil {
			return err
		}
		printTasks(tasks)
		return nil

	case "create":
		fs := flag.NewFlagSet("plan-tasks create", flag.ContinueOnError)
		planID := fs.Int64("plan", 0, "plan ID (required)")
		name := fs.String("name", "", "task name (required)")
		order := fs.Int("order", 0, "checklist position")
		description := fs.String("description", "", "task description")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *planID <= 0 || *name == "" {
			return fmt.Errorf("-plan and -name are required")
		}
		task, err := a.client.PlanTasks.Create(ctx, &models.PlanTask{
			Plan:        *planID,
			Name:        *name,
			Order:       *order,
			Description: *description,
		})
		if err != nil {
			return err
		}
		fmt.Printf("created task %d on plan %d\n", task.ID, task.Plan)
		return nil

	case "delete":
		fs := flag.NewFlagSet("plan-tasks delete", flag.ContinueOnError)
		id := fs.Int64("id", 0, "task ID")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if err := requireID(*id); err != nil {
			return err
		}
		if err := a.client.PlanTasks.Delete(ctx, *id); err != nil {
			return err
		}
		fmt.Printf("deleted task %d\n", *id)
		return nil

	default:
		return fmt.Errorf("plan-tasks: unknown subcommand %q", sub)
	}
}

func printTasks(tasks []models.PlanTask) {
	table("ID\tPLAN\tORDER\tNAME", func(w *tabwriter.Writer) {
		for _, t := range tasks {
			fmt.Fprintf(w, "%d\t%d\t%d\t%s\n", t.ID, t.Plan, t.Order, t.Name)
		}
	})
}

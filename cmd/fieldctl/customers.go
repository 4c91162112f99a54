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

func (a *app) cmdCustomers(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("customers: missing subcommand (list, get, create, update, delete, restore)")
	}
	if err := a.guard(); err != nil {
		return err
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		fs := flag.NewFlagSet("customers list", flag.ContinueOnError)
		opts := listFlags(fs)
		active := fs.String("active", "", "filter by active state (true/false)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		listOpts := opts()
		if *active != "" {
			listOpts = listOpts.WithFilter("active", *active)
		}
		page, err := a.client.Customers.List(ctx, listOpts)
		if err != nil {
			return err
		}
		table("ID\tNAME\tEMAIL\tPHONE\tCITY\tACTIVE", func(w *tabwriter.Writer) {
			for _, c := range page.Results {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%t\n",
					c.ID, c.Name, orDash(c.Email), orDash(c.Phone), orDash(c.City), c.Active)
			}
		})
		pageFooter(listOpts.Page, listOpts.PageSize, page.Count)
		return nil

	case "get":
		fs := flag.NewFlagSet("customers get", flag.ContinueOnError)
		id := fs.Int64("id", 0, "customer ID")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if err := requireID(*id); err != nil {
			return err
		}
		customer, err := a.client.Customers.Get(ctx, *id)
		if err != nil {
			return err
		}
		printCustomer(customer)
		return nil

	case "create":
		fs := flag.NewFlagSet("customers create", flag.ContinueOnError)
		name := fs.String("name", "", "customer name (required)")
		email := fs.String("email", "", "contact email")
		phone := fs.String("phone", "", "contact phone")
		address := fs.String("address", "", "street address")
		city := fs.String("city", "", "city")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *name == "" {
			return fmt.Errorf("-name is required")
		}
		customer, err := a.client.Customers.Create(ctx, &models.Customer{
			Name:    *name,
			Email:   *email,
			Phone:   *phone,
			Address: *address,
			City:    *city,
			Active:  true,
		})
		if err != nil {
			return err
		}
		fmt.Printf("created customer %d: %s\n", customer.ID, customer.Name)
		return nil

	case "update":
		fs := flag.NewFlagSet("customers update", flag.ContinueOnError)
		id := fs.Int64("id", 0, "customer ID")
		name := fs.String("name", "", "new name")
		email := fs.String("email", "", "new email")
		phone := fs.String("phone", "", "new phone")
		notes := fs.String("notes", "", "new notes")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if err := requireID(*id); err != nil {
			return err
		}
		fields := make(map[string]any)
		for flagName, value := range map[string]string{
			"name": *name, "email": *email, "phone": *phone, "notes": *notes,
		} {
			if value != "" {
				fields[flagName] = value
			}
		}
		if len(fields) == 0 {
			return fmt.Errorf("nothing to update")
		}
		customer, err := a.client.Customers.Patch(ctx, *id, fields)
		if err != nil {
			return err
		}
		fmt.Printf("updated customer %d\n", customer.ID)
		return nil

	case "delete":
		fs := flag.NewFlagSet("customers delete", flag.ContinueOnError)
		id := fs.Int64("id", 0, "customer ID")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if err := requireID(*id); err != nil {
			return err
		}
		if err := a.client.Customers.Delete(ctx, *id); err != nil {
			return err
		}
		fmt.Printf("deleted customer %d (restorable)\n", *id)
		return nil

	case "restore":
		fs := flag.NewFlagSet("customers restore", flag.ContinueOnError)
		id := fs.Int64("id", 0, "customer ID")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if err := requireID(*id); err != nil {
			return err
		}
		customer, err := a.client.Customers.Restore(ctx, *id)
		if err != nil {
			return err
		}
		fmt.Printf("restored customer %d: %s\n", customer.ID, customer.Name)
		return nil

	default:
		return fmt.Errorf("customers: unknown subcommand %q", sub)
	}
}

func printCustomer(c *models.Customer) {
	fmt.Printf("Customer %d\n", c.ID)
	fmt.Printf("  Name:    %s\n", c.Name)
	fmt.Printf("  Email:   %s\n", orDash(c.Email))
	fmt.Printf("  Phone:   %s\n", orDash(c.Phone))
	fmt.Printf("  Address: %s\n", orDash(c.Address))
	fmt.Printf("  City:    %s %s %s\n", orDash(c.City), c.State, c.ZipCode)
	fmt.Printf("  Active:  %t\n", c.Active)
	if c.Notes != "" {
		fmt.Printf("  Notes:   %s\n", c.Notes)
	}
	if len(c.Contacts) > 0 {
		fmt.Println("  Contacts:")
		for _, contact := range c.Contacts {
			fmt.Printf("    %d: %s <%s> %s\n", contact.ID, contact.Name,
				orDash(contact.Email), orDash(contact.Phone))
		}
	}
}

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

	"github.com/fieldctl-io/fieldctl/internal/api"
)

func (a *app) cmdUsers(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("users: missing subcommand (list, get, me, create, deactivate, restore)")
	}
	if err := a.guard(); err != nil {
		return err
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		fs := flag.NewFlagSet("users list", flag.ContinueOnError)
		opts := listFlags(fs)
		staff := fs.String("staff", "", "filter by admin flag (true/false)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		listOpts := opts()
		if *staff != "" {
			listOpts = listOpts.WithFilter("is_staff", *staff)
		}
		page, err := a.client.Users.List(ctx, listOpts)
		if err != nil {
			return err
		}
		table("ID\tUSERNAME\tNAME\tEMAIL\tROLE\tACTIVE", func(w *tabwriter.Writer) {
			for _, u := range page.Results {
				role := "technician"
				if u.IsStaff {
					role = "admin"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%t\n",
					u.ID, u.Username, u.FullName(), orDash(u.Email), role, u.IsActive)
			}
		})
		pageFooter(listOpts.Page, listOpts.PageSize, page.Count)
		return nil

	case "get":
		fs := flag.NewFlagSet("users get", flag.ContinueOnError)
		id := fs.Int64("id", 0, "user ID")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if err := requireID(*id); err != nil {
			return err
		}
		user, err := a.client.Users.Get(ctx, *id)
		if err != nil {
			return err
		}
		fmt.Printf("User %d: %s <%s> staff=%t active=%t\n",
			user.ID, user.FullName(), orDash(user.Email), user.IsStaff, user.IsActive)
		return nil

	case "me":
		user, err := a.client.Users.Me(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("User %d: %s <%s> staff=%t\n",
			user.ID, user.FullName(), orDash(user.Email), user.IsStaff)
		return nil

	case "create":
		fs := flag.NewFlagSet("users create", flag.ContinueOnError)
		username := fs.String("username", "", "username (required)")
		email := fs.String("email", "", "email (required)")
		first := fs.String("first-name", "", "first name")
		last := fs.String("last-name", "", "last name")
		staff := fs.Bool("staff", false, "grant admin privileges")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *username == "" || *email == "" {
			return fmt.Errorf("-username and -email are required")
		}
		password, err := promptPassword("Initial password: ")
		if err != nil {
			return err
		}
		user, err := a.client.Users.Create(ctx, api.CreateUserRequest{
			Username:  *username,
			Email:     *email,
			FirstName: *first,
			LastName:  *last,
			IsStaff:   *staff,
			Password:  password,
		})
		if err != nil {
			return err
		}
		fmt.Printf("created user %d: %s\n", user.ID, user.Username)
		return nil

	case "deactivate":
		fs := flag.NewFlagSet("users deactivate", flag.ContinueOnError)
		id := fs.Int64("id", 0, "user ID")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if err := requireID(*id); err != nil {
			return err
		}
		user, err := a.client.Users.Deactivate(ctx, *id)
		if err != nil {
			return err
		}
		fmt.Printf("deactivated user %d (%s)\n", user.ID, user.Username)
		return nil

	case "restore":
		fs := flag.NewFlagSet("users restore", flag.ContinueOnError)
		id := fs.Int64("id", 0, "user ID")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if err := requireID(*id); err != nil {
			return err
		}
		user, err := a.client.Users.Restore(ctx, *id)
		if err != nil {
			return err
		}
		fmt.Printf("restored user %d (%s)\n", user.ID, user.Username)
		return nil

	default:
		return fmt.Errorf("users: unknown subcommand %q", sub)
	}
}

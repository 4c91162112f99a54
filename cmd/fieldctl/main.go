// Fieldctl - Field Service Administration Console
// Copyright 2026 Fieldctl Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldctl-io/fieldctl

// Package main is the entry point for the fieldctl command-line console.
//
// Fieldctl is an administrative console for a field-service business. It is
// a thin client over the business's REST backend: customers, subscription
// plans, technician visits, evidence photos, and material usage all live
// server-side, and fieldctl's job is authenticated access, listing, and
// editing from the terminal.
//
// # Session Handling
//
// Commands other than login and password recovery require a session.
// Sessions are created by `fieldctl login`, persisted between invocations
// (file or Badger backend, see SESSION_BACKEND), and expire after 30
// minutes of inactivity. Every command run counts as activity. When a
// request hits an expired or revoked access token, the client silently
// refreshes it once and retries; if the refresh fails the session is
// destroyed and the command exits asking for a new login.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables with the FIELDCTL_ prefix
//   - Config file (FIELDCTL_CONFIG, or config.yaml in the user config dir)
//   - Built-in defaults
//
// Key settings:
//   - FIELDCTL_API_BASE_URL: backend root (default http://localhost:8000)
//   - FIELDCTL_SESSION_BACKEND: "file" (default) or "badger"
//   - FIELDCTL_SESSION_ENCRYPTION_KEY: base64 key enabling at-rest
//     encryption of the session file
//   - FIELDCTL_LOGGING_LEVEL: trace, debug, info, warn, error
//
// # Example Usage
//
//	fieldctl login -email admin@example.com
//	fieldctl customers list -search acme -page 2
//	fieldctl visits start -id 42
//	fieldctl evidence upload -visit 42 -file before.jpg -caption "arrival"
//	fieldctl logout
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fieldctl-io/fieldctl/internal/api"
	"github.com/fieldctl-io/fieldctl/internal/config"
	"github.com/fieldctl-io/fieldctl/internal/logging"
	"github.com/fieldctl-io/fieldctl/internal/session"
)

const usageText = `fieldctl - field service administration console

Usage:
  fieldctl <command> [subcommand] [flags]

Auth:
  login           Sign in and persist a session
  logout          Destroy the local session
  whoami          Show the signed-in user
  forgot-password Request a password-reset email
  reset-password  Complete a password reset

Resources:
  customers       list | get | create | update | delete | restore
  plans           list | get | create | delete | restore
  plan-tasks      list | by-plan | create | delete
  subscriptions   list | get | by-customer | by-plan | create | cancel | restore
  visits          list | get | create | start | complete | cancel | watch
  evidence        list | by-visit | upload | delete
  materials       list | by-visit | create | delete
  users           list | get | me | create | deactivate | restore

Run 'fieldctl <command> <subcommand> -h' for flags.
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, session.ErrNotAuthenticated) || errors.Is(err, session.ErrExpired) {
			fmt.Fprintln(os.Stderr, "fieldctl:", err)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "fieldctl:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Print(usageText)
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	store, err := session.NewStore(cfg.Session)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing session store")
		}
	}()

	client := api.NewFromConfig(store, cfg.API, func() {
		fmt.Fprintln(os.Stderr, "fieldctl: signed out, run 'fieldctl login'")
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &app{cfg: cfg, store: store, client: client}
	return app.dispatch(ctx, args[0], args[1:])
}

// app bundles the wired components commands operate on.
type app struct {
	cfg    *config.Config
	store  session.Store
	client *api.Client
}

// guard blocks protected commands when no valid session exists.
func (a *app) guard() error {
	g := session.NewGuard(a.store, func() {
		fmt.Fprintln(os.Stderr, "fieldctl: not signed in, run 'fieldctl login'")
	})
	return g.Require()
}

func (a *app) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.cmdLogin(ctx, args)
	case "logout":
		return a.cmdLogout()
	case "whoami":
		return a.cmdWhoami()
	case "forgot-password":
		return a.cmdForgotPassword(ctx, args)
	case "reset-password":
		return a.cmdResetPassword(ctx, args)
	case "customers":
		return a.cmdCustomers(ctx, args)
	case "plans":
		return a.cmdPlans(ctx, args)
	case "plan-tasks":
		return a.cmdPlanTasks(ctx, args)
	case "subscriptions":
		return a.cmdSubscriptions(ctx, args)
	case "visits":
		return a.cmdVisits(ctx, args)
	case "evidence":
		return a.cmdEvidence(ctx, args)
	case "materials":
		return a.cmdMaterials(ctx, args)
	case "users":
		return a.cmdUsers(ctx, args)
	default:
		fmt.Print(usageText)
		return fmt.Errorf("unknown command %q", command)
	}
}

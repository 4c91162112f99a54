// Fieldctl - Field Service Administration Console
// Copyright 2026 Fieldctl Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldctl-io/fieldctl

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/fieldctl-io/fieldctl/internal/api"
	"github.com/fieldctl-io/fieldctl/internal/session"
)

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email (prompted if empty)")
	password := fs.String("password", "", "account password (prompted if empty; prefer the prompt)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" {
		value, err := promptLine("Email: ")
		if err != nil {
			return err
		}
		*email = value
	}
	if *password == "" {
		value, err := promptPassword("Password: ")
		if err != nil {
			return err
		}
		*password = value
	}

	resp, err := a.client.Auth.Login(ctx, *email, *password)
	if err != nil {
		return err
	}

	role := "technician"
	if resp.User.IsAdmin() {
		role = "admin"
	}
	fmt.Printf("signed in as %s (%s)\n", resp.User.Username, role)
	return nil
}

func (a *app) cmdLogout() error {
	if err := a.client.Auth.Logout(); err != nil {
		return err
	}
	fmt.Println("signed out")
	return nil
}

func (a *app) cmdWhoami() error {
	if err := a.guard(); err != nil {
		return err
	}
	user := a.store.CurrentUser()
	if user == nil {
		fmt.Println("signed in (no profile stored)")
		return nil
	}
	role := "technician"
	if user.IsAdmin() {
		role = "admin"
	}
	fmt.Printf("%s <%s> (%s)\n", user.Username, user.Email, role)
	fmt.Printf("last activity: %s\n", a.store.LastActivity().Format("2006-01-02 15:04:05"))

	// Opaque tokens carry no readable claims; skip the expiry line.
	if claims, err := session.PeekClaims(a.store.AccessToken()); err == nil {
		if !claims.ExpiresAt.IsZero() {
			status := "valid"
			if claims.Expired() {
				status = "expired, will refresh on next request"
			}
			fmt.Printf("access token: expires %s (%s)\n",
				claims.ExpiresAt.Format("2006-01-02 15:04:05"), status)
		}
	}
	return nil
}

func (a *app) cmdForgotPassword(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("forgot-password", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("-email is required")
	}
	if err := a.client.Auth.ForgotPassword(ctx, *email); err != nil {
		return err
	}
	fmt.Println("reset email requested; check the inbox for a link")
	return nil
}

func (a *app) cmdResetPassword(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset-password", flag.ContinueOnError)
	uid := fs.String("uid", "", "uid from the reset link")
	token := fs.String("token", "", "token from the reset link")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *uid == "" || *token == "" {
		return fmt.Errorf("-uid and -token are required")
	}

	newPassword, err := promptPassword("New password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return err
	}

	err = a.client.Auth.ResetPassword(ctx, api.ResetPasswordRequest{
		UID:             *uid,
		Token:           *token,
		NewPassword:     newPassword,
		ConfirmPassword: confirm,
	})
	if err != nil {
		return err
	}
	fmt.Println("password reset; sign in with 'fieldctl login'")
	return nil
}

func promptLine(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}

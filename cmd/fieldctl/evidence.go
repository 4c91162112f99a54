// Fieldctl - Field Service Administration Console
// Copyright 2026 Fieldctl Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldctl-io/fieldctl

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/fieldctl-io/fieldctl/internal/models"
)

func (a *app) cmdEvidence(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("evidence: missing subcommand (list, by-visit, upload, delete)")
	}
	if err := a.guard(); err != nil {
		return err
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		fs := flag.NewFlagSet("evidence list", flag.ContinueOnError)
		opts := listFlags(fs)
		if err := fs.Parse(rest); err != nil {
			return err
		}
		listOpts := opts()
		page, err := a.client.Evidence.List(ctx, listOpts)
		if err != nil {
			return err
		}
		printEvidence(page.Results)
		pageFooter(listOpts.Page, listOpts.PageSize, page.Count)
		return nil

	case "by-visit":
		fs := flag.NewFlagSet("evidence by-visit", flag.ContinueOnError)
		visitID := fs.Int64("visit", 0, "visit ID")
		all := fs.Bool("all", false, "fetch every page")
		opts := listFlags(fs)
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *visitID <= 0 {
			return fmt.Errorf("-visit is required")
		}
		if *all {
			records, err := a.client.Evidence.AllByVisit(ctx, *visitID)
			if err != nil {
				return err
			}
			printEvidence(records)
			return nil
		}
		listOpts := opts()
		page, err := a.client.Evidence.ByVisit(ctx, *visitID, listOpts)
		if err != nil {
			return err
		}
		printEvidence(page.Results)
		pageFooter(listOpts.Page, listOpts.PageSize, page.Count)
		return nil

	case "upload":
		fs := flag.NewFlagSet("evidence upload", flag.ContinueOnError)
		visitID := fs.Int64("visit", 0, "visit ID (required)")
		path := fs.String("file", "", "path to the photo/document (required)")
		caption := fs.String("caption", "", "caption")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *visitID <= 0 || *path == "" {
			return fmt.Errorf("-visit and -file are required")
		}
		file, err := os.Open(*path)
		if err != nil {
			return fmt.Errorf("open %s: %w", *path, err)
		}
		defer func() { _ = file.Close() }()

		record, err := a.client.Evidence.Upload(ctx, *visitID, filepath.Base(*path), file, *caption)
		if err != nil {
			return err
		}
		fmt.Printf("uploaded evidence %d to visit %d\n", record.ID, record.Visit)
		return nil

	case "delete":
		fs := flag.NewFlagSet("evidence delete", flag.ContinueOnError)
		id := fs.Int64("id", 0, "evidence ID")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if err := requireID(*id); err != nil {
			return err
		}
		if err := a.client.Evidence.Delete(ctx, *id); err != nil {
			return err
		}
		fmt.Printf("deleted evidence %d\n", *id)
		return nil

	default:
		return fmt.Errorf("evidence: unknown subcommand %q", sub)
	}
}

func printEvidence(records []models.Evidence) {
	table("ID\tVISIT\tFILE\tCAPTION\tUPLOADED", func(w *tabwriter.Writer) {
		for _, e := range records {
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n",
				e.ID, e.Visit, orDash(e.File), orDash(e.Caption), fmtTime(e.UploadedAt))
		}
	})
}

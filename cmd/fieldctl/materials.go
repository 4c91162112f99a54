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

func (a *app) cmdMaterials(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("materials: missing subcommand (list, by-visit, create, delete)")
	}
	if err := a.guard(); err != nil {
		return err
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		fs := flag.NewFlagSet("materials list", flag.ContinueOnError)
		opts := listFlags(fs)
		if err := fs.Parse(rest); err != nil {
			return err
		}
		listOpts := opts()
		page, err := a.client.Materials.List(ctx, listOpts)
		if err != nil {
			return err
		}
		printMaterials(page.Results)
		pageFooter(listOpts.Page, listOpts.PageSize, page.Count)
		return nil

	case "by-visit":
		fs := flag.NewFlagSet("materials by-visit", flag.ContinueOnError)
		visitID := fs.Int64("visit", 0, "visit ID")
		opts := listFlags(fs)
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *visitID <= 0 {
			return fmt.Errorf("-visit is required")
		}
		listOpts := opts()
		page, err := a.client.Materials.ByVisit(ctx, *visitID, listOpts)
		if err != nil {
			return err
		}
		printMaterials(page.Results)
		pageFooter(listOpts.Page, listOpts.PageSize, page.Count)
		return nil

	case "create":
		fs := flag.NewFlagSet("materials create", flag.ContinueOnError)
		visitID := fs.Int64("visit", 0, "visit ID (required)")
		name := fs.String("name", "", "material name (required)")
		quantity := fs.String("quantity", "1", "quantity as a decimal string")
		unit := fs.String("unit", "", "unit of measure")
		cost := fs.String("cost", "", "total cost as a decimal string")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *visitID <= 0 || *name == "" {
			return fmt.Errorf("-visit and -name are required")
		}
		material, err := a.client.Materials.Create(ctx, &models.MaterialUsed{
			Visit:    *visitID,
			Name:     *name,
			Quantity: *quantity,
			Unit:     *unit,
			Cost:     *cost,
		})
		if err != nil {
			return err
		}
		fmt.Printf("recorded material %d on visit %d\n", material.ID, material.Visit)
		return nil

	case "delete":
		fs := flag.NewFlagSet("materials delete", flag.ContinueOnError)
		id := fs.Int64("id", 0, "material-used ID")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if err := requireID(*id); err != nil {
			return err
		}
		if err := a.client.Materials.Delete(ctx, *id); err != nil {
			return err
		}
		fmt.Printf("deleted material record %d\n", *id)
		return nil

	default:
		return fmt.Errorf("materials: unknown subcommand %q", sub)
	}
}

func printMaterials(materials []models.MaterialUsed) {
	table("ID\tVISIT\tNAME\tQTY\tUNIT\tCOST", func(w *tabwriter.Writer) {
		for _, m := range materials {
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\n",
				m.ID, m.Visit, m.Name, orDash(m.Quantity), orDash(m.Unit), orDash(m.Cost))
		}
	})
}

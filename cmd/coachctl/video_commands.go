package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newVideoCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newCatalogCommand(ctx),
		newDistributionCommand(ctx),
		newAssignCommand(ctx),
		newResetCommand(ctx),
		newIngestCommand(ctx),
	}
}

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List videos by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := ctx.ensureServices(cmd.Context())
			if err != nil {
				return err
			}
			catalog, err := services.Catalog.Build(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, len(catalog.Categories))
			for i, category := range catalog.Categories {
				rows[i] = []string{category, strings.Join(catalog.Videos[category], ", ")}
			}
			return printResult(cmd.OutOrStdout(), ctx.jsonOutput(), catalog, []string{"Category", "Videos"}, rows, nil)
		},
	}
}

func newDistributionCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "distribution",
		Short: "Show how many coaches each video has",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := ctx.ensureServices(cmd.Context())
			if err != nil {
				return err
			}
			loads, err := services.Catalog.Distribution(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, len(loads))
			for i, l := range loads {
				rows[i] = []string{l.Video, strconv.Itoa(l.Coaches)}
			}
			return printResult(cmd.OutOrStdout(), ctx.jsonOutput(), loads,
				[]string{"Video", "Coaches"}, rows, []columnAlignment{alignLeft, alignRight})
		},
	}
}

func newAssignCommand(ctx *commandContext) *cobra.Command {
	var videos, coaches []string

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Replace the coach list of the given videos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(videos) == 0 {
				return errors.New("select at least one video with --videos")
			}
			if len(coaches) == 0 {
				return errors.New("select at least one coach with --coaches")
			}

			services, err := ctx.ensureServices(cmd.Context())
			if err != nil {
				return err
			}
			result, err := services.Assignment.Assign(cmd.Context(), videos, coaches)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d videos\n", result.Updated)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&videos, "videos", nil, "Video keys to update (comma separated)")
	cmd.Flags().StringSliceVar(&coaches, "coaches", nil, "Coach emails to assign (comma separated)")
	return cmd
}

func newResetCommand(ctx *commandContext) *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Remove every coach from every video",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return errors.New("reset clears every assignment; pass --yes to confirm")
			}
			services, err := ctx.ensureServices(cmd.Context())
			if err != nil {
				return err
			}
			result, err := services.Assignment.ResetAll(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reset %d videos\n", result.Updated)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&confirm, "yes", "y", false, "Confirm the reset")
	return cmd
}

func newIngestCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Add a video record for every new object in the bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := ctx.ensureServices(cmd.Context())
			if err != nil {
				return err
			}
			report, err := services.Ingestion.Ingest(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if ctx.jsonOutput() {
				return printResult(out, true, report, nil, nil, nil)
			}
			for _, key := range report.Added {
				fmt.Fprintf(out, "Added video %s\n", key)
			}
			fmt.Fprintf(out, "Added %d new videos\n", report.New)
			fmt.Fprintf(out, "%d videos already existed\n", report.Existing)
			if len(report.Collisions) > 0 {
				rows := make([][]string, len(report.Collisions))
				for i, c := range report.Collisions {
					rows[i] = []string{c.Key, c.BlobName, c.ExistingURL}
				}
				fmt.Fprintln(out, "Objects sharing a key with a video in another category:")
				fmt.Fprintln(out, renderTable([]string{"Key", "Object", "Existing URL"}, rows, nil))
			}
			return nil
		},
	}
}

package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/coach-video-admin/internal/batchfile"
	"github.com/coach-video-admin/internal/models"
	"github.com/spf13/cobra"
)

func newCoachCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newRosterCommand(ctx),
		newGroupsCommand(ctx),
		newOnboardCommand(ctx),
		newOffboardCommand(ctx),
	}
}

func newRosterCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "roster",
		Short: "List active coaches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := ctx.ensureServices(cmd.Context())
			if err != nil {
				return err
			}
			roster, err := services.Roster.Build(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, len(roster.Coaches))
			for i, c := range roster.Coaches {
				rows[i] = []string{c.Name, c.Email}
			}
			return printResult(cmd.OutOrStdout(), ctx.jsonOutput(), roster, []string{"Name", "Email"}, rows, nil)
		},
	}
}

func newGroupsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "Show the default coach groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := ctx.ensureServices(cmd.Context())
			if err != nil {
				return err
			}
			groups, err := services.Roster.Groups(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, len(groups))
			for i, g := range groups {
				names := make([]string, len(g.Coaches))
				for j, c := range g.Coaches {
					names[j] = c.Name
				}
				rows[i] = []string{g.Name, strconv.Itoa(len(g.Coaches)), strings.Join(names, ", ")}
			}
			return printResult(cmd.OutOrStdout(), ctx.jsonOutput(), groups,
				[]string{"Group", "Size", "Coaches"}, rows, []columnAlignment{alignLeft, alignRight, alignLeft})
		},
	}
}

func newOnboardCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "onboard <file>",
		Short: "Create accounts for new coaches listed in a CSV or XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			batch, err := batchfile.Parse(args[0], f, batchfile.ParseOptions{})
			if err != nil {
				var schemaErr *batchfile.SchemaError
				if errors.As(err, &schemaErr) && len(schemaErr.Unexpected) > 0 {
					return fmt.Errorf("%w (other columns: %s)", err, strings.Join(schemaErr.Unexpected, ", "))
				}
				return err
			}

			services, err := ctx.ensureServices(cmd.Context())
			if err != nil {
				return err
			}
			result, err := services.Onboarding.Onboard(cmd.Context(), batch)
			if err != nil {
				if result != nil && len(result.Credentials) > 0 {
					if writeErr := writeCredentialsFile(output, result.Credentials); writeErr != nil {
						return errors.Join(err, writeErr)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Created %d coaches before the error, logins written to %s\n",
						len(result.Credentials), output)
				}
				return err
			}

			out := cmd.OutOrStdout()
			switch result.Outcome {
			case models.OnboardNoNewCoaches:
				fmt.Fprintln(out, "No new coaches to add")
				return nil
			case models.OnboardRejected:
				for _, email := range result.Invalid {
					fmt.Fprintf(out, "Invalid email: %q\n", email)
				}
				return fmt.Errorf("%d invalid email addresses, no accounts were created", len(result.Invalid))
			}

			if len(result.Credentials) > 0 {
				if err := writeCredentialsFile(output, result.Credentials); err != nil {
					return err
				}
				fmt.Fprintf(out, "Created %d coaches, logins written to %s\n", len(result.Credentials), output)
			}
			for _, failure := range result.Failures {
				fmt.Fprintf(out, "Failed %s: %s\n", failure.Item, failure.Message)
			}
			if len(result.Failures) > 0 {
				return fmt.Errorf("%d accounts could not be created", len(result.Failures))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", batchfile.CredentialsFilename, "Where to write the generated logins")
	return cmd
}

func writeCredentialsFile(path string, creds []models.Credential) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := batchfile.WriteCredentials(f, creds); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newOffboardCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "offboard <email>...",
		Short: "Delete coach accounts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := ctx.ensureServices(cmd.Context())
			if err != nil {
				return err
			}
			result, err := services.Offboarding.Offboard(cmd.Context(), args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if ctx.jsonOutput() {
				return printResult(out, true, result, nil, nil, nil)
			}
			for _, email := range result.Deleted {
				fmt.Fprintf(out, "Deleted %s\n", email)
			}
			for _, failure := range result.Failures {
				fmt.Fprintf(out, "Failed %s: %s\n", failure.Item, failure.Message)
			}
			if len(result.Failures) > 0 {
				return fmt.Errorf("%d accounts could not be deleted", len(result.Failures))
			}
			return nil
		},
	}
}

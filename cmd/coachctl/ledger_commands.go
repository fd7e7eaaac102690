package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/coach-video-admin/internal/database"
	"github.com/coach-video-admin/internal/models"
	"github.com/spf13/cobra"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "List recent entries of the activity ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 || limit > 500 {
				return errors.New("--limit must be between 1 and 500")
			}
			services, err := ctx.ensureServices(cmd.Context())
			if err != nil {
				return err
			}
			jobs, err := services.Job.ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			rows := make([][]string, len(jobs))
			for i, job := range jobs {
				rows[i] = jobRow(job)
			}
			return printResult(cmd.OutOrStdout(), ctx.jsonOutput(), jobs,
				[]string{"ID", "Type", "Status", "Total", "OK", "Skipped", "Failed", "Created"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft})
		},
	}
	jobsCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of jobs to show")

	jobsCmd.AddCommand(&cobra.Command{
		Use:   "show <job-id>",
		Short: "Show one job and its recorded errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := ctx.ensureServices(cmd.Context())
			if err != nil {
				return err
			}
			job, err := services.Job.GetJob(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if job == nil {
				return fmt.Errorf("job %s not found", args[0])
			}

			out := cmd.OutOrStdout()
			if ctx.jsonOutput() {
				return printResult(out, true, job, nil, nil, nil)
			}
			fmt.Fprintf(out, "Job %s (%s on %q): %s\n", job.ID, job.Type, job.Resource, job.Status)
			fmt.Fprintf(out, "Total %d, successful %d, skipped %d, failed %d\n",
				job.TotalRecords, job.SuccessfulCount, job.SkippedCount, job.FailedCount)

			rows := make([][]string, len(job.Errors))
			for i, e := range job.Errors {
				value := ""
				if e.Value != nil {
					value = fmt.Sprintf("%v", e.Value)
				}
				rows[i] = []string{strconv.Itoa(e.Line), e.Field, e.Message, value}
			}
			return printResult(out, false, nil, []string{"Line", "Field", "Message", "Value"}, rows,
				[]columnAlignment{alignRight})
		},
	})

	return jobsCmd
}

func jobRow(job *models.Job) []string {
	return []string{
		job.ID,
		string(job.Type),
		string(job.Status),
		strconv.Itoa(job.TotalRecords),
		strconv.Itoa(job.SuccessfulCount),
		strconv.Itoa(job.SkippedCount),
		strconv.Itoa(job.FailedCount),
		job.CreatedAt.Local().Format(time.DateTime),
	}
}

func newLedgerCommand(ctx *commandContext) *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Manage the activity ledger database",
	}

	migrate := func(down bool) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Database.Enabled {
				return errors.New("the activity ledger is disabled (DB_ENABLED=false)")
			}

			db, err := database.New(&cfg.Database, ctx.logger())
			if err != nil {
				return err
			}
			defer db.Close()

			if down {
				err = db.MigrateDown(cfg.Database.MigrationsPath)
			} else {
				err = db.RunMigrations(cfg.Database.MigrationsPath)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
			return nil
		}
	}

	ledgerCmd.AddCommand(
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply pending ledger migrations",
			Args:  cobra.NoArgs,
			RunE:  migrate(false),
		},
		&cobra.Command{
			Use:   "rollback",
			Short: "Roll back the most recent ledger migration",
			Args:  cobra.NoArgs,
			RunE:  migrate(true),
		},
	)

	return ledgerCmd
}

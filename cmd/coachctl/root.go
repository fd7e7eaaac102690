package main

import (
	"context"
	"errors"

	"github.com/coach-video-admin/internal/service"
	"github.com/spf13/cobra"
)

// newRootCommand builds the CLI. A non-nil services skips connecting to the cloud.
func newRootCommand(services *service.Services) (*cobra.Command, *commandContext) {
	var configFlag string
	var logLevelFlag string
	var jsonFlag bool

	ctx := newCommandContext(&configFlag, &logLevelFlag, &jsonFlag, services)

	rootCmd := &cobra.Command{
		Use:           "coachctl",
		Short:         "Manage coach accounts and video assignments",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path (TOML)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Print JSON instead of tables")

	for _, cmd := range newCoachCommands(ctx) {
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range newVideoCommands(ctx) {
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(newJobsCommand(ctx))
	rootCmd.AddCommand(newLedgerCommand(ctx))

	return rootCmd, ctx
}

// execute runs the command tree and releases the clients whether or not the command failed
func execute(ctx context.Context, rootCmd *cobra.Command, cctx *commandContext) error {
	err := rootCmd.ExecuteContext(ctx)
	return errors.Join(err, cctx.close(ctx))
}

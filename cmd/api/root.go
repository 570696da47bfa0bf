package main

import (
	"github.com/spf13/cobra"
)

// newRootCmd creates the root command. With no subcommand it serves the API.
func newRootCmd() *cobra.Command {
	serve := newServeCmd()

	cmd := &cobra.Command{
		Use:   "gatherly",
		Short: "Gatherly event API",
		Long: `Gatherly is an HTTP JSON API for publishing events, browsing them by
calendar window, and joining them. Configuration is read from the environment.`,
		SilenceUsage: true,
		RunE:         serve.RunE,
	}

	cmd.AddCommand(serve)
	cmd.AddCommand(newMigrateCmd())

	return cmd
}

// Package cmd wires the CLI surface: every command builds the same
// stack (config, state store, API gateway, session manager) through
// newApp and renders through internal/render.
package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "caresync",
	Short: "Patient and doctor portal client",
	Long: `caresync is the command-line client for the CareSync healthcare portal.
It manages your session (login, multi-factor verification, logout) and gives
doctors and patients access to appointments, messaging, prescriptions,
medical records, and notifications from the terminal.

Session state is persisted under ~/.caresync so you stay logged in between
invocations until the token expires or the backend rejects it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with the given context so
// in-flight requests stop on interrupt.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default is $HOME/.caresync/config.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "text", "output format (text, json, yaml)")
	rootCmd.PersistentFlags().String("api-url", "", "override the portal API base URL")
	rootCmd.PersistentFlags().String("log-level", "", "override the log level (debug, info, warn, error)")
}

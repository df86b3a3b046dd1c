// Package main provides the leadscope command line tool. It runs the same
// parsing, classification and analytics pipeline as the web server against
// local files.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"leadscope/internal/config"
	"leadscope/internal/infrastructure"
	"leadscope/pkg/contracts"
)

const defaultLogLevel = "warn"

var logLevel string

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           config.AppName,
		Short:         "Parse, classify and analyse sales-meeting spreadsheets",
		Version:       contracts.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.SetVersionTemplate(contracts.GetVersionString() + "\n")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newTrendCmd())
	rootCmd.AddCommand(newSalespeopleCmd())
	rootCmd.AddCommand(newClassifyCmd())

	return rootCmd
}

// commandLogger writes text records to the command's stderr.
func commandLogger(cmd *cobra.Command) *slog.Logger {
	logger, _, err := infrastructure.NewLogger(config.LoggingConfig{
		Level:  logLevel,
		Format: "text",
		Output: "console",
	}, cmd.ErrOrStderr())
	if err != nil {
		return slog.Default()
	}
	return infrastructure.WithComponent(logger, cmd.Name())
}

// Package cmd implements the orderwidget command line.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mmynk/orderwidget/internal/config"
	"github.com/mmynk/orderwidget/pkg/logging"
)

var rootCmd = &cobra.Command{
	Use:   "orderwidget",
	Short: "Food ordering widget backend",
	Long: `orderwidget serves the menu page together with the order engine:
per-profile selection storage, totals, delivery zones and the order
message handed to WhatsApp.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}
		level := cfg.LogLevel
		if logLevel != "" {
			level = logLevel
		}
		logging.SetupWithLevel(logging.ParseLevel(level))
		loaded = cfg
		return nil
	},
}

var (
	envFile  string
	logLevel string

	// loaded is the configuration read before every command.
	loaded config.Config
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")
}

// stringFlag returns the flag value when it was set, else fallback.
func stringFlag(cmd *cobra.Command, name, fallback string) string {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		return f.Value.String()
	}
	return fallback
}

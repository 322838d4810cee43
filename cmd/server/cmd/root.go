package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/supriyo522/event-api-backend/config"
)

var (
	// Global flags
	logLevel string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "server",
		Short: "Event API server",
		Long: `Event API server: event catalog, attendee registration and JWT
authentication backed by PostgreSQL.

Configuration comes from environment variables (and a .env file outside
production).`,
		SilenceUsage: true,
		// Run the serve command by default if no subcommand is specified
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCmd.RunE(cmd, args)
		},
	}
)

// Execute runs the root command with a context cancelled on SIGINT/SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error) (default: $LOG_LEVEL or info)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createAdminCmd)
}

// loadConfig loads the environment configuration and builds the logger,
// applying the --log-level override.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("config error: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	logger := config.NewLogger(cfg.Environment, cfg.LogLevel, os.Stdout)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"CompanyScout/internal/app"
	"CompanyScout/internal/config"
	"CompanyScout/internal/logging"
)

var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "companyscout",
	Short: "Find Indian companies starting or finishing construction projects",
	Long: "Searches news backends for construction and expansion stories, extracts the companies involved " +
		"with a language model, ranks them for outreach and exports the leads as TSV.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg = config.Load()
		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.Logging.Level = level
		}
		logger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "override the configured log level (debug, info, warn, error)")
}

// openApp builds the application for a command; callers must Close it.
func openApp(ctx context.Context) (*app.Application, error) {
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init application: %w", err)
	}
	return a, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if logger != nil {
			logger.Error("command failed", "error", err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}

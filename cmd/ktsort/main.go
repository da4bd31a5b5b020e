// Package main provides the ktsort CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ktsort/ktsort/internal/logging"
)

var version = "dev"

var (
	logger     = zap.NewNop()
	configPath string
	logLevel   string
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ktsort",
		Short: "Keirsey Temperament Sorter batch scorer",
		Long: `ktsort reads questionnaire answers (a name line followed by a line of A/B
answers per subject), converts them into B-percentages for each of the four
personality dimensions and classifies each subject with a four-letter type.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := logLevel
			if level == "" {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				level = cfg.LogLevel
			}
			l, err := logging.New(level, cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: .ktsort/config.yaml in this or a parent directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(
		newScoreCmd(),
		newPromptCmd(),
		newTypesCmd(),
	)
	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

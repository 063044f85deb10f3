// Package cmd defines and implements the CLI commands for the crawlcheck
// executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mizatrix/crawlability-checker/internal/config"
	"github.com/mizatrix/crawlability-checker/internal/logging"
)

var (
	cfgFile string

	// Populated by the root command's PersistentPreRunE before any
	// subcommand runs.
	cfg    config.Config
	logger *zap.Logger
)

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawlcheck",
		Short: "Assess how amenable websites are to automated crawling",
		Long: `crawlcheck probes a site's robots.txt, sitemap, and feed endpoints,
heuristically classifies whether its homepage is JavaScript-rendered, and
combines the signals into a 0-100 crawlability score with a recommended
crawling method.`,

		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			var err error
			cfg, err = config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err = logging.New(cfg.Logging.Development)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			zap.ReplaceGlobals(logger)
			return nil
		},

		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional)")
	cmd.AddCommand(newCheckCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

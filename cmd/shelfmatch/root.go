package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/shelfmatch/backend/config"
	"github.com/shelfmatch/backend/internal/logging"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "shelfmatch",
	Short: "Cross-catalog product matcher for Thai home-improvement retail",
	Long: `shelfmatch matches products from one retailer's catalog against a
competitor's catalog: attribute extraction, two-tier candidate recall and
oracle adjudication, with ground-truth evaluation for measuring accuracy.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; real deployments set the environment directly
		_ = godotenv.Load()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfigAndLogger builds the shared command environment. The --verbose
// flag overrides the configured log level.
func loadConfigAndLogger() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Logger{}, err
	}

	level := cfg.Server.LogLevel
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(cfg.Server.Environment, level)
	if err != nil {
		return nil, zerolog.Logger{}, err
	}
	return cfg, logger, nil
}

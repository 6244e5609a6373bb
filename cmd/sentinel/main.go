package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"PortfolioSentinel/internal/config"
	"PortfolioSentinel/internal/logging"
)

const version = "v0.4.0"

var (
	cfgPath  string
	logLevel string
	cfg      *config.Config
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("sentinel failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaultCfg := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultCfg = v
	}

	root := &cobra.Command{
		Use:           "sentinel",
		Short:         "Portfolio signal and scoring engine",
		Long:          "PortfolioSentinel scores every holding from technical, candlestick, fundamental and market-regime signals and proposes staged entry plans.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cfg, err = config.Load(cfgPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			logging.Setup(cfg.Log.Level, cfg.Log.Format)
			return cfg.Validate()
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", defaultCfg, "Path to the YAML config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug|info|warn|error)")

	root.AddCommand(newAnalyzeCmd(), newServeCmd(), newHoldingsCmd(), newTradesCmd(), newResolveCmd())
	return root
}

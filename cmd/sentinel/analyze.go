package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"PortfolioSentinel/internal/model"
	"PortfolioSentinel/internal/report"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		holdingsFile string
		asJSON       bool
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze the portfolio once and print the report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if holdingsFile != "" {
				cfg.Portfolio.File = holdingsFile
			}
			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			rep, err := a.sched.RunNow(ctx, model.TriggerManual)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rep)
			}
			return report.FormatText(out, rep)
		},
	}
	cmd.Flags().StringVar(&holdingsFile, "holdings", "", "Holdings file (overrides portfolio.file)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}

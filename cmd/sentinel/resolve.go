package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"PortfolioSentinel/internal/leverage"
)

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve SYMBOL...",
		Short: "Show the symbol each ticker is analyzed as",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range args {
				u := leverage.Resolve(s)
				if leverage.IsLeveraged(s) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (leveraged)\n", s, u)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", s, u)
				}
			}
			return nil
		},
	}
}

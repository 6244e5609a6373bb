package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"PortfolioSentinel/internal/leverage"
	"PortfolioSentinel/internal/model"
	"PortfolioSentinel/internal/portfolio"
)

func newHoldingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holdings",
		Short: "List and edit the holdings file",
	}
	cmd.AddCommand(newHoldingsListCmd(), newHoldingsAddCmd(), newHoldingsRemoveCmd())
	return cmd
}

func newHoldingsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List holdings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := portfolio.NewManager(cfg.Portfolio.File)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SYMBOL\tNAME\tQTY\tMARKET\tANALYZED AS")
			for _, h := range m.List() {
				fmt.Fprintf(w, "%s\t%s\t%g\t%s\t%s\n", h.Symbol, h.Name, h.Quantity, h.Market, leverage.Resolve(h.Symbol))
			}
			return w.Flush()
		},
	}
}

func newHoldingsAddCmd() *cobra.Command {
	var h model.Holding
	cmd := &cobra.Command{
		Use:   "add SYMBOL",
		Short: "Add a holding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := portfolio.NewManager(cfg.Portfolio.File)
			if err != nil {
				return err
			}
			h.Symbol = args[0]
			if err := m.Add(h); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", h.Symbol)
			return nil
		},
	}
	cmd.Flags().StringVar(&h.Name, "name", "", "Display name")
	cmd.Flags().Float64Var(&h.Quantity, "quantity", 0, "Quantity held")
	cmd.Flags().StringVar(&h.Market, "market", "us", "Market (us, kr, ...)")
	return cmd
}

func newHoldingsRemoveCmd() *cobra.Command {
	var market string
	cmd := &cobra.Command{
		Use:   "remove SYMBOL",
		Short: "Remove a holding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := portfolio.NewManager(cfg.Portfolio.File)
			if err != nil {
				return err
			}
			if err := m.Remove(args[0], market); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&market, "market", "us", "Market of the holding")
	return cmd
}

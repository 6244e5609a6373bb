package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"PortfolioSentinel/internal/model"
	"PortfolioSentinel/internal/portfolio"
)

func newTradesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trades",
		Short: "Record fills and review journaled positions",
	}
	cmd.AddCommand(newTradesAddCmd(), newTradesListCmd(), newTradesDeleteCmd(), newTradesPositionsCmd())
	return cmd
}

func newTradesAddCmd() *cobra.Command {
	var memo string
	cmd := &cobra.Command{
		Use:   "add buy|sell SYMBOL QUANTITY PRICE",
		Short: "Record a trade",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("quantity %q: %w", args[2], model.ErrConfiguration)
			}
			price, err := strconv.ParseFloat(args[3], 64)
			if err != nil {
				return fmt.Errorf("price %q: %w", args[3], model.ErrConfiguration)
			}
			j, err := portfolio.NewJournal(cfg.Portfolio.JournalFile)
			if err != nil {
				return err
			}
			t, err := j.Add(model.TradeSide(strings.ToUpper(args[0])), args[1], qty, price, memo)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "#%d %s %s %g @ %g (total %.2f)\n", t.ID, t.Side, t.Symbol, t.Quantity, t.Price, t.Total)
			return nil
		},
	}
	cmd.Flags().StringVar(&memo, "memo", "", "Free-form note")
	return cmd
}

func newTradesListCmd() *cobra.Command {
	var (
		symbol string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent trades",
		RunE: func(cmd *cobra.Command, _ []string) error {
			j, err := portfolio.NewJournal(cfg.Portfolio.JournalFile)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTIME\tSIDE\tSYMBOL\tQTY\tPRICE\tTOTAL\tMEMO")
			for _, t := range j.List(symbol, limit) {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%g\t%g\t%.2f\t%s\n",
					t.ID, t.Time.Format("2006-01-02 15:04"), t.Side, t.Symbol, t.Quantity, t.Price, t.Total, t.Memo)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&symbol, "symbol", "", "Only this symbol")
	cmd.Flags().IntVar(&limit, "limit", 20, "Most recent N trades (0 for all)")
	return cmd
}

func newTradesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("trade id %q: %w", args[0], model.ErrConfiguration)
			}
			j, err := portfolio.NewJournal(cfg.Portfolio.JournalFile)
			if err != nil {
				return err
			}
			if err := j.Delete(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted #%d\n", id)
			return nil
		},
	}
}

func newTradesPositionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "positions",
		Short: "Average-cost positions from the journal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			j, err := portfolio.NewJournal(cfg.Portfolio.JournalFile)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SYMBOL\tQTY\tAVG PRICE\tCOST\tREALIZED\tTRADES")
			for _, p := range j.Positions() {
				fmt.Fprintf(w, "%s\t%g\t%.4f\t%.2f\t%+.2f\t%d\n", p.Symbol, p.Quantity, p.AvgPrice, p.CostBasis, p.RealizedPnL, p.Trades)
			}
			return w.Flush()
		},
	}
}

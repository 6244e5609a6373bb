package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"PortfolioSentinel/internal/model"
	"PortfolioSentinel/internal/notifier"
	"PortfolioSentinel/internal/server"
)

func newServeCmd() *cobra.Command {
	var runOnStart bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduler, Telegram bot and HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if cfg.Telegram.BotToken != "" {
				tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
				a.sched.Notifier = tn
				go tn.StartPolling(ctx, a.sched.HandleCommand)
				log.Info().Msg("telegram polling started")
			}

			if err := a.sched.Register(cfg.Schedule.DailyCron); err != nil {
				return err
			}
			a.sched.Start()
			defer a.sched.Stop()

			if runOnStart || os.Getenv("RUN_ON_START") == "true" {
				go func() {
					if _, err := a.sched.RunNow(ctx, model.TriggerManual); err != nil {
						log.Error().Err(err).Msg("startup run failed")
					}
				}()
			}

			srv := &server.Server{Runs: a.sched, History: a.rec, Metrics: a.metrics.Handler()}
			log.Info().Str("cron", cfg.Schedule.DailyCron).Msg("PortfolioSentinel is running")
			if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			log.Info().Msg("PortfolioSentinel stopped")
			return nil
		},
	}
	cmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "Analyze once immediately after startup")
	return cmd
}

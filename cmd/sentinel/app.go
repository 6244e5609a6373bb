package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"PortfolioSentinel/internal/cache"
	"PortfolioSentinel/internal/capture"
	"PortfolioSentinel/internal/collector"
	"PortfolioSentinel/internal/config"
	"PortfolioSentinel/internal/metrics"
	"PortfolioSentinel/internal/recorder"
	"PortfolioSentinel/internal/report"
	"PortfolioSentinel/internal/runner"
	"PortfolioSentinel/internal/scheduler"
	"PortfolioSentinel/internal/strategy"
)

// app holds the wired components shared by analyze and serve.
type app struct {
	sched   *scheduler.Scheduler
	rec     recorder.Recorder
	metrics *metrics.Registry
}

func (a *app) Close() {
	if err := a.rec.Close(); err != nil {
		log.Warn().Err(err).Msg("close recorder")
	}
}

func newApp(ctx context.Context, c *config.Config) (*app, error) {
	reg := metrics.NewRegistry()

	fetcher, err := newFetcher(ctx, c, reg)
	if err != nil {
		return nil, err
	}
	log.Info().Str("provider", fetcher.Name()).Msg("data source")

	weights, err := c.Weights()
	if err != nil {
		return nil, err
	}
	r := runner.New(
		collector.NewCollector(fetcher, c.DataSource.HistoryDays),
		strategy.NewEngine(weights, c.Strategy.Plan),
	)
	r.References = c.Strategy.Fundamentals
	r.Regime = c.Strategy.Regime
	r.MarketSymbols = c.MarketSymbols()
	r.Concurrency = c.Concurrency

	rec := newRecorder(c)

	sched := scheduler.NewScheduler(ctx, r, c.Portfolio.File, report.NewWriter(c.Report.Dir), rec)
	sched.Metrics = reg
	if c.Capture.Enabled {
		sched.Capturer = capture.New(c.Capture.DebugURL, c.Capture.TargetURL, c.Capture.Dir, c.Capture.Timeout)
	}
	return &app{sched: sched, rec: rec, metrics: reg}, nil
}

// newFetcher builds the provider chain: provider, circuit breaker, then the
// optional Redis bar cache in front.
func newFetcher(ctx context.Context, c *config.Config, reg *metrics.Registry) (collector.Fetcher, error) {
	var base collector.Fetcher
	switch c.DataSource.Provider {
	case "yahoo":
		y := collector.NewYahooFetcher(c.Proxy, c.DataSource.RateLimit)
		if c.DataSource.BaseURL != "" {
			y.BaseURL = c.DataSource.BaseURL
		}
		base = y
	case "eodhd":
		base = collector.NewEODHDFetcher(c.DataSource.APIKey, c.Proxy,
			collector.WithEODHDBaseURL(c.DataSource.BaseURL),
			collector.WithEODHDRateLimit(c.DataSource.RateLimit),
		)
	case "mock":
		base = &collector.MockFetcher{Price: 100}
	default:
		return nil, fmt.Errorf("unknown data provider %q", c.DataSource.Provider)
	}

	var f collector.Fetcher = collector.NewResilientFetcher(base, 5, time.Minute, reg.ObserveFetch)

	if c.Cache.RedisAddr != "" {
		store, err := cache.NewRedisStore(ctx, c.Cache.RedisAddr, c.Cache.Password, c.Cache.DB)
		if err != nil {
			log.Warn().Err(err).Str("addr", c.Cache.RedisAddr).Msg("redis unavailable, bar cache disabled")
		} else {
			f = collector.NewCachedFetcher(f, store, c.Cache.TTL)
		}
	}
	return f, nil
}

func newRecorder(c *config.Config) recorder.Recorder {
	if c.Database.Driver == "none" {
		return recorder.NewNoopRecorder()
	}
	rec, err := recorder.Open(c.Database.Driver, c.Database.DSN)
	if err != nil {
		log.Warn().Err(err).Msg("init recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return rec
}

// Package runner evaluates a portfolio: one market regime per run, then an
// isolated analysis per holding.
package runner

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"PortfolioSentinel/internal/calculator"
	"PortfolioSentinel/internal/collector"
	"PortfolioSentinel/internal/fundamental"
	"PortfolioSentinel/internal/leverage"
	"PortfolioSentinel/internal/model"
	"PortfolioSentinel/internal/pattern"
	"PortfolioSentinel/internal/regime"
	"PortfolioSentinel/internal/strategy"
)

// Runner wires the analysis components together.
type Runner struct {
	Collector     *collector.Collector
	Engine        *strategy.Engine
	Detector      *pattern.Detector
	Params        calculator.Params
	References    fundamental.References
	Regime        regime.Thresholds
	MarketSymbols collector.MarketSymbols
	Concurrency   int

	now func() time.Time
}

// New returns a runner with default indicator, pattern and regime settings.
func New(col *collector.Collector, engine *strategy.Engine) *Runner {
	return &Runner{
		Collector:     col,
		Engine:        engine,
		Detector:      pattern.NewDetector(),
		Params:        calculator.DefaultParams,
		References:    fundamental.DefaultReferences,
		Regime:        regime.DefaultThresholds,
		MarketSymbols: collector.DefaultMarketSymbols,
		Concurrency:   1,
		now:           time.Now,
	}
}

// Run evaluates every holding. Per-symbol failures are recorded on that
// holding's analysis and never abort the batch; only an empty or malformed
// holdings list returns an error.
func (r *Runner) Run(ctx context.Context, holdings []model.Holding, trigger model.RunTrigger) (*model.RunReport, error) {
	if len(holdings) == 0 {
		return nil, fmt.Errorf("no holdings to analyze: %w", model.ErrConfiguration)
	}
	for i, h := range holdings {
		if strings.TrimSpace(h.Symbol) == "" {
			return nil, fmt.Errorf("holding %d has no symbol: %w", i, model.ErrConfiguration)
		}
	}

	report := &model.RunReport{
		ID:        uuid.NewString(),
		Trigger:   trigger,
		StartedAt: r.clock(),
	}
	logger := log.With().Str("run_id", report.ID).Logger()
	logger.Info().Int("holdings", len(holdings)).Str("trigger", string(trigger)).Msg("run started")

	report.Regime = regime.Analyze(r.Collector.MarketInputs(ctx, r.MarketSymbols), r.Regime)
	shared := market{sentiment: report.Regime.Sentiment}
	if sig, ok := regime.Signal(report.Regime); ok {
		shared.signals = r.Engine.Weigh([]model.Signal{sig})
	}
	logger.Info().Str("regime", string(report.Regime.Class)).Str("sentiment", report.Regime.Sentiment).Msg("market regime")

	results := make([]model.HoldingAnalysis, len(holdings))
	extras := make([]*model.HoldingAnalysis, len(holdings))

	workers := r.Concurrency
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, h := range holdings {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, h model.Holding) {
			defer wg.Done()
			defer func() { <-sem }()

			results[i] = r.analyze(ctx, h, h.Symbol, shared)
			if leverage.IsLeveraged(h.Symbol) {
				underlying := leverage.Resolve(h.Symbol)
				results[i].Underlying = underlying
				ca := r.analyze(ctx, h, underlying, shared)
				ca.ContextFor = h.Symbol
				extras[i] = &ca
			}
		}(i, h)
	}
	wg.Wait()

	report.Holdings = results
	for _, ca := range extras {
		if ca != nil {
			report.Context = append(report.Context, *ca)
		}
	}
	report.FinishedAt = r.clock()
	logger.Info().
		Int("failed", report.Failures()).
		Dur("elapsed", report.FinishedAt.Sub(report.StartedAt)).
		Msg("run finished")
	return report, ctx.Err()
}

func (r *Runner) clock() time.Time {
	if r.now == nil {
		return time.Now()
	}
	return r.now()
}

// market is what every holding in a run shares: the already-weighted regime
// signal and the VIX sentiment.
type market struct {
	signals   []model.Signal
	sentiment string
}

// analyze evaluates one symbol.
func (r *Runner) analyze(ctx context.Context, h model.Holding, symbol string, shared market) model.HoldingAnalysis {
	a := model.HoldingAnalysis{
		Holding: h,
		Symbol:  symbol,
		Signals: []model.Signal{},
	}

	series, err := r.Collector.Series(ctx, symbol)
	if err != nil {
		symErr := &model.SymbolError{Symbol: symbol, Err: err}
		a.Error = symErr.Error()
		a.ErrorKind = symErr.Kind()
		a.Recommendation = r.Engine.EvaluateInMarket(symbol, nil, nil, shared.sentiment)
		log.Warn().Err(err).Str("symbol", symbol).Msg("symbol skipped")
		return a
	}

	a.Indicators = calculator.Compute(series, r.Params)
	a.Patterns = r.Engine.WeighPatterns(r.Detector.Detect(series.Bars))
	a.Fundamentals = r.Collector.Fundamentals(ctx, symbol)

	var raw []model.Signal
	raw = append(raw, strategy.TechnicalSignals(a.Indicators)...)
	raw = append(raw, strategy.PatternSignals(a.Patterns)...)
	raw = append(raw, fundamental.Evaluate(a.Fundamentals, r.References)...)

	a.Signals = append(a.Signals, r.Engine.Weigh(raw)...)
	a.Signals = append(a.Signals, shared.signals...)
	a.Recommendation = r.Engine.EvaluateInMarket(symbol, a.Indicators, a.Signals, shared.sentiment)

	log.Info().
		Str("symbol", symbol).
		Int("bars", series.Len()).
		Int("signals", len(a.Signals)).
		Float64("score", a.Recommendation.Score).
		Str("classification", string(a.Recommendation.Classification)).
		Bool("insufficient", a.Recommendation.InsufficientData).
		Str("confidence", string(a.Recommendation.Confidence)).
		Msg("holding evaluated")
	return a
}

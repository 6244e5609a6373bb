package collector

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"PortfolioSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	mu           sync.Mutex
	Price        float64
	Bars         map[string][]model.PriceBar
	Fundamentals map[string]*model.FundamentalSnapshot
	Fail         map[string]error // per-symbol error
	Calls        map[string]int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol string, days int) ([]model.PriceBar, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Calls == nil {
		m.Calls = make(map[string]int)
	}
	m.Calls[symbol]++
	if err := m.Fail[symbol]; err != nil {
		return nil, err
	}
	if bars, ok := m.Bars[symbol]; ok {
		return trimBars(bars, days), nil
	}
	return generateMockBars(m.Price, days), nil
}

func (m *MockFetcher) FetchFundamentals(_ context.Context, symbol string) (*model.FundamentalSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.Fail[symbol]; err != nil {
		return nil, err
	}
	if f, ok := m.Fundamentals[symbol]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("mock: no fundamentals for %s: %w", symbol, model.ErrDataUnavailable)
}

func generateMockBars(basePrice float64, count int) []model.PriceBar {
	if basePrice <= 0 {
		basePrice = 100
	}
	start := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -count)
	bars := make([]model.PriceBar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.PriceBar{
			Time:   start.AddDate(0, 0, i),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// MarketSymbols names the tickers used for regime inputs.
type MarketSymbols struct {
	VIX  string
	SPY  string
	QQQ  string
	Rate string
}

// DefaultMarketSymbols are the Yahoo tickers.
var DefaultMarketSymbols = MarketSymbols{VIX: "^VIX", SPY: "SPY", QQQ: "QQQ", Rate: "^TNX"}

// Collector fetches the series and fundamentals a run needs.
type Collector struct {
	Fetcher     Fetcher
	HistoryDays int
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, historyDays int) *Collector {
	if historyDays <= 0 {
		historyDays = 300
	}
	return &Collector{Fetcher: fetcher, HistoryDays: historyDays}
}

// Series fetches the daily bar history of one symbol.
func (c *Collector) Series(ctx context.Context, symbol string) (model.PriceSeries, error) {
	bars, err := c.Fetcher.FetchDailyBars(ctx, symbol, c.HistoryDays)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("fetch daily bars %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return model.PriceSeries{}, fmt.Errorf("fetch daily bars %s: %w", symbol, model.ErrDataUnavailable)
	}
	return model.PriceSeries{Symbol: symbol, Bars: bars, FetchedAt: time.Now()}, nil
}

// Fundamentals fetches valuation metrics. Failures degrade to nil: a symbol
// without fundamentals is still scored on its technicals.
func (c *Collector) Fundamentals(ctx context.Context, symbol string) *model.FundamentalSnapshot {
	if strings.HasSuffix(symbol, "-USD") || strings.HasPrefix(symbol, "^") {
		return nil // crypto and indices have no fundamentals
	}
	f, err := c.Fetcher.FetchFundamentals(ctx, symbol)
	if err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("fundamentals unavailable")
		return nil
	}
	return f
}

// MarketInputs fetches the regime series. Each failure leaves that input
// empty and is logged.
func (c *Collector) MarketInputs(ctx context.Context, syms MarketSymbols) model.MarketInputs {
	fetch := func(symbol string) model.PriceSeries {
		if symbol == "" {
			return model.PriceSeries{}
		}
		s, err := c.Series(ctx, symbol)
		if err != nil {
			log.Warn().Err(err).Str("symbol", symbol).Msg("market input unavailable")
			return model.PriceSeries{}
		}
		return s
	}
	return model.MarketInputs{
		VIX:  fetch(syms.VIX),
		SPY:  fetch(syms.SPY),
		QQQ:  fetch(syms.QQQ),
		Rate: fetch(syms.Rate),
	}
}

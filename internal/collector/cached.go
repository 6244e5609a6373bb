package collector

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"PortfolioSentinel/internal/cache"
	"PortfolioSentinel/internal/model"
)

// CachedFetcher serves daily bars from a cache for the rest of the day.
// Fundamentals pass through.
type CachedFetcher struct {
	next  Fetcher
	store cache.Store
	ttl   time.Duration
	now   func() time.Time
}

// NewCachedFetcher wraps next with store.
func NewCachedFetcher(next Fetcher, store cache.Store, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{next: next, store: store, ttl: ttl, now: time.Now}
}

func (f *CachedFetcher) Name() string { return f.next.Name() }

func (f *CachedFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error) {
	key := cache.BarsKey(f.next.Name(), symbol, days, f.now())
	bars, found, err := f.store.GetBars(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("bar cache read failed")
	} else if found {
		return bars, nil
	}

	bars, err = f.next.FetchDailyBars(ctx, symbol, days)
	if err != nil {
		return nil, err
	}
	if err := f.store.SetBars(ctx, key, bars, f.ttl); err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("bar cache write failed")
	}
	return bars, nil
}

func (f *CachedFetcher) FetchFundamentals(ctx context.Context, symbol string) (*model.FundamentalSnapshot, error) {
	return f.next.FetchFundamentals(ctx, symbol)
}

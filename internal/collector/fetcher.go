package collector

import (
	"context"

	"PortfolioSentinel/internal/model"
)

// Fetcher defines the interface for fetching market data.
// Bars are returned in ascending time order. Missing fundamental metrics
// are nil fields, not errors.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error)
	FetchFundamentals(ctx context.Context, symbol string) (*model.FundamentalSnapshot, error)
	Name() string
}

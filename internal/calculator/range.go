package calculator

import (
	"errors"
	"fmt"
	"math"

	"PortfolioSentinel/internal/model"
)

// HighLow scans the last `window` bars and returns the highest high and lowest low.
func HighLow(bars []model.PriceBar, window int) (high, low float64, err error) {
	if window <= 0 {
		return 0, 0, errors.New("window must be positive")
	}
	n := len(bars)
	if n < window {
		return 0, 0, fmt.Errorf("range(%d) over %d bars: %w", window, n, model.ErrInsufficientHistory)
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := n - window; i < n; i++ {
		if bars[i].High > high {
			high = bars[i].High
		}
		if bars[i].Low < low {
			low = bars[i].Low
		}
	}
	return high, low, nil
}

// Midpoint returns (highest high + lowest low) / 2 over the last `window` bars.
func Midpoint(bars []model.PriceBar, window int) (float64, error) {
	high, low, err := HighLow(bars, window)
	if err != nil {
		return 0, err
	}
	return (high + low) / 2, nil
}

// Calculate52WeekRange scans up to the most recent 252 trading days and returns the high and low.
// Shorter histories use every bar available.
func Calculate52WeekRange(bars []model.PriceBar) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, fmt.Errorf("no bars provided: %w", model.ErrInsufficientHistory)
	}
	window := 252
	if len(bars) < window {
		window = len(bars)
	}
	return HighLow(bars, window)
}

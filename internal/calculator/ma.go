package calculator

import (
	"errors"
	"fmt"

	"PortfolioSentinel/internal/model"
)

// CalculateSMA computes the simple moving average of the given prices over the last period values.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, fmt.Errorf("sma(%d) over %d prices: %w", period, len(prices), model.ErrInsufficientHistory)
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// optionalSMA returns nil instead of an error when the window is not met.
func optionalSMA(prices []float64, period int) *float64 {
	v, err := CalculateSMA(prices, period)
	if err != nil {
		return nil
	}
	return &v
}

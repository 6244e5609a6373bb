package calculator

import (
	"errors"
	"fmt"

	"PortfolioSentinel/internal/model"
)

// Momentum windows in trading days, the last bar included.
const (
	Week     = 5
	Month    = 21
	Quarter  = 63
	HalfYear = 126
	Year     = 252
)

// CalculateReturn returns the percent change from the close `lookback` bars
// back, counting the last bar, to the last close.
func CalculateReturn(closes []float64, lookback int) (float64, error) {
	if lookback < 2 {
		return 0, errors.New("lookback must be at least 2")
	}
	n := len(closes)
	if n < lookback {
		return 0, fmt.Errorf("return(%d) over %d closes: %w", lookback, n, model.ErrInsufficientHistory)
	}
	base := closes[n-lookback]
	if base == 0 {
		return 0, errors.New("zero base close")
	}
	return (closes[n-1]/base - 1) * 100, nil
}

func optionalReturn(closes []float64, lookback int) *float64 {
	v, err := CalculateReturn(closes, lookback)
	if err != nil {
		return nil
	}
	return &v
}

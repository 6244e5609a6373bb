package calculator

import (
	"fmt"

	talib "github.com/markcheno/go-talib"

	"PortfolioSentinel/internal/model"
)

// MACDResult holds the MACD line and its signal line at the last bar.
type MACDResult struct {
	MACD   float64
	Signal float64
}

// CalculateMACD returns MACD(fast, slow) and its signal EMA at the last close.
func CalculateMACD(closes []float64, fast, slow, signal int) (MACDResult, error) {
	lookback := slow + signal - 1
	if len(closes) < lookback {
		return MACDResult{}, fmt.Errorf("macd(%d,%d,%d) over %d closes: %w",
			fast, slow, signal, len(closes), model.ErrInsufficientHistory)
	}
	macd, sig, _ := talib.Macd(closes, fast, slow, signal)
	last := len(closes) - 1
	return MACDResult{MACD: macd[last], Signal: sig[last]}, nil
}

// Bands holds Bollinger band values at the last bar.
type Bands struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// CalculateBollinger returns SMA(period) ± k standard deviations at the last close.
func CalculateBollinger(closes []float64, period int, k float64) (Bands, error) {
	if len(closes) < period {
		return Bands{}, fmt.Errorf("bollinger(%d) over %d closes: %w", period, len(closes), model.ErrInsufficientHistory)
	}
	upper, middle, lower := talib.BBands(closes, period, k, k, talib.SMA)
	last := len(closes) - 1
	return Bands{Upper: upper[last], Middle: middle[last], Lower: lower[last]}, nil
}

// CalculateATR returns the average true range at the last bar.
func CalculateATR(bars []model.PriceBar, period int) (float64, error) {
	if len(bars) <= period {
		return 0, fmt.Errorf("atr(%d) over %d bars: %w", period, len(bars), model.ErrInsufficientHistory)
	}
	s := model.PriceSeries{Bars: bars}
	atr := talib.Atr(s.Highs(), s.Lows(), s.Closes(), period)
	return atr[len(atr)-1], nil
}

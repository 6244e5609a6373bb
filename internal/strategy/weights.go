package strategy

import (
	"fmt"
	"strings"

	"PortfolioSentinel/internal/model"
)

// Weights maps a signal key to its weight. Keys are either a source
// ("RSI") or a source and signal name ("RSI/extreme_oversold"); the more
// specific key wins.
type Weights map[string]float64

// DefaultWeights ranks trend signals above oscillators, and both above
// candlestick patterns and fundamentals.
var DefaultWeights = Weights{
	"MA_CROSS":                  2.0,
	"ICHIMOKU":                  1.5,
	"ICHIMOKU/tk_cross":         1.5,
	"RSI":                       1.0,
	"RSI/extreme_oversold":      1.25,
	"RSI/extreme_overbought":    1.25,
	"MACD":                      1.0,
	"BOLLINGER":                 1.0,
	"PATTERN":                   0.5,
	"PATTERN/bullish_engulfing": 0.75,
	"PATTERN/bearish_engulfing": 0.75,
	"PATTERN/morning_star":      0.75,
	"PATTERN/evening_star":      0.75,
	"FUNDAMENTAL":               0.5,
	"MARKET_REGIME":             1.0,
}

// Lookup returns the weight for a signal, or 0 for an unknown source.
func (w Weights) Lookup(s model.Signal) float64 {
	if v, ok := w[s.Key()]; ok {
		return v
	}
	return w[string(s.Source)]
}

// With returns a copy of w with overrides applied.
func (w Weights) With(overrides map[string]float64) (Weights, error) {
	out := make(Weights, len(w)+len(overrides))
	for k, v := range w {
		out[k] = v
	}
	for k, v := range overrides {
		if !knownSource(k) {
			return nil, fmt.Errorf("unknown signal source in weight key %q: %w", k, model.ErrConfiguration)
		}
		if v < 0 {
			return nil, fmt.Errorf("negative weight for %q: %w", k, model.ErrConfiguration)
		}
		out[k] = v
	}
	return out, nil
}

func knownSource(key string) bool {
	src, _, _ := strings.Cut(key, "/")
	for _, s := range model.Sources {
		if string(s) == src {
			return true
		}
	}
	return false
}

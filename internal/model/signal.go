package model

import "fmt"

// SignalSource identifies which component produced a signal.
type SignalSource string

const (
	SourceMACross      SignalSource = "MA_CROSS"
	SourceIchimoku     SignalSource = "ICHIMOKU"
	SourceRSI          SignalSource = "RSI"
	SourceMACD         SignalSource = "MACD"
	SourceBollinger    SignalSource = "BOLLINGER"
	SourcePattern      SignalSource = "PATTERN"
	SourceFundamental  SignalSource = "FUNDAMENTAL"
	SourceMarketRegime SignalSource = "MARKET_REGIME"
)

// Sources lists every known signal source.
var Sources = []SignalSource{
	SourceMACross, SourceIchimoku, SourceRSI, SourceMACD, SourceBollinger,
	SourcePattern, SourceFundamental, SourceMarketRegime,
}

// SymbolSpecific reports whether the source describes the symbol itself
// rather than the market as a whole.
func (s SignalSource) SymbolSpecific() bool { return s != SourceMarketRegime }

// Direction is the vote of a signal.
type Direction int

const (
	Bearish Direction = -1
	Neutral Direction = 0
	Bullish Direction = 1
)

func (d Direction) String() string {
	switch {
	case d > 0:
		return "bullish"
	case d < 0:
		return "bearish"
	default:
		return "neutral"
	}
}

// Signal is one weighted directional vote. It is a value and never mutated
// after the scoring engine assigns its weight.
type Signal struct {
	Source    SignalSource `json:"source"`
	Name      string       `json:"name"`
	Direction Direction    `json:"direction"`
	Weight    float64      `json:"weight"`
	Detail    string       `json:"detail,omitempty"`
}

// Contribution returns direction × weight.
func (s Signal) Contribution() float64 { return float64(s.Direction) * s.Weight }

// Key returns the weight-table key for this signal, e.g. "RSI/oversold".
func (s Signal) Key() string { return fmt.Sprintf("%s/%s", s.Source, s.Name) }

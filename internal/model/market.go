package model

import "time"

// PriceBar represents a single daily candlestick bar.
type PriceBar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Range returns high minus low.
func (b PriceBar) Range() float64 { return b.High - b.Low }

// Body returns the absolute distance between open and close.
func (b PriceBar) Body() float64 {
	if b.Close >= b.Open {
		return b.Close - b.Open
	}
	return b.Open - b.Close
}

// Bullish reports whether the bar closed above its open.
func (b PriceBar) Bullish() bool { return b.Close > b.Open }

// Bearish reports whether the bar closed below its open.
func (b PriceBar) Bearish() bool { return b.Close < b.Open }

// PriceSeries holds the ascending bar history of one symbol.
type PriceSeries struct {
	Symbol    string
	Bars      []PriceBar
	FetchedAt time.Time
}

// Len returns the number of bars.
func (s PriceSeries) Len() int { return len(s.Bars) }

// Last returns the most recent bar. ok is false for an empty series.
func (s PriceSeries) Last() (bar PriceBar, ok bool) {
	if len(s.Bars) == 0 {
		return PriceBar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

func (s PriceSeries) Highs() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.High
	}
	return out
}

func (s PriceSeries) Lows() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Low
	}
	return out
}

func (s PriceSeries) Volumes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Volume
	}
	return out
}

// MarketInputs bundles the broad-market series used for regime detection.
// Any field may be empty when its fetch failed.
type MarketInputs struct {
	VIX  PriceSeries
	SPY  PriceSeries
	QQQ  PriceSeries
	Rate PriceSeries // 10-year treasury yield
}

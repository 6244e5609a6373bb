package model

// IndicatorSnapshot holds the technical indicators computed at the latest bar.
// A nil field means the indicator's window was not met and it is omitted.
type IndicatorSnapshot struct {
	Close float64 `json:"close"`

	MA5  *float64 `json:"ma5,omitempty"`
	MA20 *float64 `json:"ma20,omitempty"`
	MA60 *float64 `json:"ma60,omitempty"`

	Tenkan      *float64 `json:"tenkan,omitempty"`
	Kijun       *float64 `json:"kijun,omitempty"`
	CloudTop    *float64 `json:"cloud_top,omitempty"`
	CloudBottom *float64 `json:"cloud_bottom,omitempty"`

	RSI        *float64 `json:"rsi,omitempty"`
	MACD       *float64 `json:"macd,omitempty"`
	MACDSignal *float64 `json:"macd_signal,omitempty"`

	BollingerUpper  *float64 `json:"bollinger_upper,omitempty"`
	BollingerMiddle *float64 `json:"bollinger_middle,omitempty"`
	BollingerLower  *float64 `json:"bollinger_lower,omitempty"`

	ATRPct      *float64 `json:"atr_pct,omitempty"`
	VolumeRatio *float64 `json:"volume_ratio,omitempty"`
	High52w     *float64 `json:"high_52w,omitempty"`
	Low52w      *float64 `json:"low_52w,omitempty"`
	Support     *float64 `json:"support,omitempty"`
	Resistance  *float64 `json:"resistance,omitempty"`

	// Percent returns over 5, 21, 63, 126 and 252 bars.
	Return1W *float64 `json:"return_1w,omitempty"`
	Return1M *float64 `json:"return_1m,omitempty"`
	Return3M *float64 `json:"return_3m,omitempty"`
	Return6M *float64 `json:"return_6m,omitempty"`
	Return1Y *float64 `json:"return_1y,omitempty"`

	// Volume profile: where recent buyers paid.
	VWAP20       *float64   `json:"vwap_20,omitempty"`
	CSI          *float64   `json:"csi,omitempty"` // close vs VWAP20, percent
	HVNPrice     *float64   `json:"hvn_price,omitempty"`
	HVNProximity *float64   `json:"hvn_proximity,omitempty"` // percent distance from HVNPrice
	PivotLine    *PivotLine `json:"pivot_line,omitempty"`

	// Prior holds the same indicators one bar earlier, for cross detection.
	Prior *IndicatorSnapshot `json:"-"`
}

// BollingerWidth returns (upper-lower)/middle, or ok=false when any band is missing.
func (s *IndicatorSnapshot) BollingerWidth() (width float64, ok bool) {
	if s == nil || s.BollingerUpper == nil || s.BollingerLower == nil || s.BollingerMiddle == nil {
		return 0, false
	}
	if *s.BollingerMiddle == 0 {
		return 0, false
	}
	return (*s.BollingerUpper - *s.BollingerLower) / *s.BollingerMiddle, true
}

// PivotLine is the line through the latest high-volume swing high and swing
// low, projected to the last bar.
type PivotLine struct {
	Price   float64 `json:"price"`
	Falling bool    `json:"falling"`
	Touched bool    `json:"touched"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

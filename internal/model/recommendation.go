package model

// Classification is the five-tier recommendation label.
type Classification string

const (
	StrongBuy  Classification = "STRONG_BUY"
	Buy        Classification = "BUY"
	Hold       Classification = "HOLD"
	Sell       Classification = "SELL"
	StrongSell Classification = "STRONG_SELL"
)

// Strong reports whether c is one of the two outer tiers.
func (c Classification) Strong() bool { return c == StrongBuy || c == StrongSell }

// Bullish reports whether c is a buy tier.
func (c Classification) Bullish() bool { return c == StrongBuy || c == Buy }

// TradeAction is the side of a trade plan.
type TradeAction string

const (
	ActionBuy  TradeAction = "BUY"
	ActionSell TradeAction = "SELL"
)

// TradePlan is the entry/exit ladder for a non-HOLD recommendation.
type TradePlan struct {
	Action        TradeAction `json:"action"`
	EntryTranches []float64   `json:"entry_tranches"`
	Allocation    []float64   `json:"allocation"` // fraction of position per tranche
	StopLoss      float64     `json:"stop_loss"`
	TakeProfit    float64     `json:"take_profit"`
	SpacingPct    float64     `json:"spacing_pct"`
}

// Confidence is how firmly a recommendation should be acted on.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// EntryZone grades how close price sits to where recent buyers paid.
type EntryZone string

const (
	EntryZoneStrong EntryZone = "STRONG"
	EntryZoneNear   EntryZone = "NEAR"
	EntryZoneNone   EntryZone = "NONE"
)

// Recommendation is the scoring engine's verdict for one symbol.
type Recommendation struct {
	Symbol           string         `json:"symbol"`
	Score            float64        `json:"score"`
	Classification   Classification `json:"classification"`
	TradePlan        *TradePlan     `json:"trade_plan,omitempty"`
	InsufficientData bool           `json:"insufficient_data"`

	Confidence Confidence `json:"confidence,omitempty"`
	// PositionSizePct is the suggested share of the portfolio in percent.
	// nil means keep the current position.
	PositionSizePct *float64  `json:"position_size_pct,omitempty"`
	EntryZone       EntryZone `json:"entry_zone,omitempty"`
	Reasoning       []string  `json:"reasoning,omitempty"`
}

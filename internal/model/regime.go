package model

// RegimeClass is the broad-market risk classification.
type RegimeClass string

const (
	RegimeRiskOn  RegimeClass = "RISK_ON"
	RegimeNeutral RegimeClass = "NEUTRAL"
	RegimeRiskOff RegimeClass = "RISK_OFF"
	RegimeUnknown RegimeClass = "UNKNOWN"
)

// Trend is the direction of an index relative to its moving average.
type Trend string

const (
	TrendUp      Trend = "UP"
	TrendDown    Trend = "DOWN"
	TrendUnknown Trend = "UNKNOWN"
)

// VIX sentiment labels, from calm to panic.
const (
	SentimentExtremeGreed = "EXTREME_GREED"
	SentimentGreed        = "GREED"
	SentimentNeutral      = "NEUTRAL"
	SentimentFear         = "FEAR"
	SentimentExtremeFear  = "EXTREME_FEAR"
)

// MarketRegime is computed once per run and shared by every holding.
type MarketRegime struct {
	VIXLevel   *float64    `json:"vix_level,omitempty"`
	SPYTrend   Trend       `json:"spy_trend"`
	QQQTrend   Trend       `json:"qqq_trend"`
	RateLevel  *float64    `json:"rate_level,omitempty"`
	RateChange *float64    `json:"rate_change,omitempty"`
	Class      RegimeClass `json:"class"`
	Sentiment  string      `json:"sentiment,omitempty"`
}

package model

// PatternKind names a candlestick pattern.
type PatternKind string

const (
	PatternDoji             PatternKind = "doji"
	PatternHammer           PatternKind = "hammer"
	PatternInvertedHammer   PatternKind = "inverted_hammer"
	PatternHangingMan       PatternKind = "hanging_man"
	PatternBullishEngulfing PatternKind = "bullish_engulfing"
	PatternBearishEngulfing PatternKind = "bearish_engulfing"
	PatternMorningStar      PatternKind = "morning_star"
	PatternEveningStar      PatternKind = "evening_star"
)

// PatternEvent is one detected pattern ending at CandleIndex.
// Strength is direction × weight and is filled in by the scoring engine.
type PatternEvent struct {
	Kind        PatternKind `json:"kind"`
	CandleIndex int         `json:"candle_index"`
	Direction   Direction   `json:"direction"`
	Strength    float64     `json:"strength"`
}

package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioSentinel/internal/model"
)

func bar(o, h, l, c float64) model.PriceBar {
	return model.PriceBar{Open: o, High: h, Low: l, Close: c, Volume: 1}
}

func flatBars(closes ...float64) []model.PriceBar {
	out := make([]model.PriceBar, len(closes))
	for i, c := range closes {
		out[i] = bar(c, c+0.5, c-0.5, c)
	}
	return out
}

func kinds(events []model.PatternEvent) map[model.PatternKind]model.Direction {
	out := make(map[model.PatternKind]model.Direction)
	for _, e := range events {
		out[e.Kind] = e.Direction
	}
	return out
}

func TestDetect_EmptyAndZeroRange(t *testing.T) {
	d := NewDetector()
	assert.Empty(t, d.Detect(nil))
	assert.Empty(t, d.Detect([]model.PriceBar{bar(10, 10, 10, 10)}))
	assert.Empty(t, d.Detect([]model.PriceBar{bar(10, 10, 10, 10), bar(10, 10, 10, 10), bar(10, 10, 10, 10)}))
}

func TestDetect_DojiAfterRallyIsBearish(t *testing.T) {
	bars := append(flatBars(10, 11, 12, 13), bar(14, 15, 13, 14.05))
	got := kinds(NewDetector().Detect(bars))
	require.Contains(t, got, model.PatternDoji)
	assert.Equal(t, model.Bearish, got[model.PatternDoji])
}

func TestDetect_DojiAfterDeclineIsBullish(t *testing.T) {
	bars := append(flatBars(14, 13, 12, 11), bar(10, 11, 9, 10.05))
	got := kinds(NewDetector().Detect(bars))
	assert.Equal(t, model.Bullish, got[model.PatternDoji])
}

func TestDetect_DojiNeedsPriorMove(t *testing.T) {
	d := NewDetector()

	short := []model.PriceBar{bar(10, 11, 9, 10.5), bar(10.5, 11.5, 10, 11), bar(11, 12, 10, 11.02)}
	assert.NotContains(t, kinds(d.Detect(short)), model.PatternDoji)

	flat := append(flatBars(12, 12, 12, 12), bar(12, 13, 11, 12.02))
	assert.NotContains(t, kinds(d.Detect(flat)), model.PatternDoji)
}

func TestDetect_LoneCandleIsNotAnExtreme(t *testing.T) {
	got := kinds(NewDetector().Detect([]model.PriceBar{bar(10, 10.25, 9, 10.2)}))
	assert.NotContains(t, got, model.PatternHammer)
	assert.NotContains(t, got, model.PatternHangingMan)
}

func TestDetect_HammerNearLow(t *testing.T) {
	bars := append(flatBars(14, 13, 12, 11), bar(10, 10.25, 9, 10.2))
	got := kinds(NewDetector().Detect(bars))
	require.Contains(t, got, model.PatternHammer)
	assert.Equal(t, model.Bullish, got[model.PatternHammer])
	assert.NotContains(t, got, model.PatternHangingMan)
}

func TestDetect_HangingManNearHigh(t *testing.T) {
	bars := append(flatBars(15, 16, 17, 18, 19), bar(20, 20.25, 19, 20.2))
	got := kinds(NewDetector().Detect(bars))
	require.Contains(t, got, model.PatternHangingMan)
	assert.Equal(t, model.Bearish, got[model.PatternHangingMan])
	assert.NotContains(t, got, model.PatternHammer)
}

func TestDetect_InvertedHammerAfterDecline(t *testing.T) {
	bars := append(flatBars(14, 13, 12, 11), bar(10, 11, 9.95, 10.2))
	got := kinds(NewDetector().Detect(bars))
	assert.Equal(t, model.Bullish, got[model.PatternInvertedHammer])
}

func TestDetect_Engulfing(t *testing.T) {
	d := NewDetector()

	bull := kinds(d.Detect([]model.PriceBar{bar(11, 11.1, 9.9, 10), bar(9.9, 11.3, 9.8, 11.2)}))
	assert.Equal(t, model.Bullish, bull[model.PatternBullishEngulfing])
	assert.NotContains(t, bull, model.PatternBearishEngulfing)

	bear := kinds(d.Detect([]model.PriceBar{bar(10, 11.1, 9.9, 11), bar(11.1, 11.2, 9.7, 9.8)}))
	assert.Equal(t, model.Bearish, bear[model.PatternBearishEngulfing])
	assert.NotContains(t, bear, model.PatternBullishEngulfing)
}

func TestDetect_EngulfingRequiresFullContainment(t *testing.T) {
	// Current body closes inside the prior body.
	got := kinds(NewDetector().Detect([]model.PriceBar{bar(11, 11.1, 9.9, 10), bar(9.9, 10.9, 9.8, 10.8)}))
	assert.NotContains(t, got, model.PatternBullishEngulfing)
}

func TestDetect_Stars(t *testing.T) {
	d := NewDetector()

	morning := kinds(d.Detect([]model.PriceBar{bar(12, 12.1, 9.9, 10), bar(9.9, 10, 9.7, 9.95), bar(10, 11.6, 9.9, 11.5)}))
	assert.Equal(t, model.Bullish, morning[model.PatternMorningStar])

	evening := kinds(d.Detect([]model.PriceBar{bar(10, 12.1, 9.9, 12), bar(12.1, 12.3, 12, 12.15), bar(12, 12.1, 10.4, 10.5)}))
	assert.Equal(t, model.Bearish, evening[model.PatternEveningStar])
}

func TestDetect_EventsPointAtLastCandle(t *testing.T) {
	bars := []model.PriceBar{bar(11, 11.1, 9.9, 10), bar(9.9, 11.3, 9.8, 11.2)}
	for _, e := range NewDetector().Detect(bars) {
		assert.Equal(t, 1, e.CandleIndex)
	}
}

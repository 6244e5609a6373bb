package calculator

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioSentinel/internal/model"
)

func makeBars(closes []float64) []model.PriceBar {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = model.PriceBar{
			Time:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

func linear(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

func TestCalculateSMA(t *testing.T) {
	v, err := CalculateSMA([]float64{1, 2, 3, 4, 5}, 5)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	v, err = CalculateSMA([]float64{1, 2, 3, 4, 5}, 2)
	require.NoError(t, err)
	assert.Equal(t, 4.5, v)

	_, err = CalculateSMA([]float64{1, 2}, 5)
	assert.True(t, errors.Is(err, model.ErrInsufficientHistory))

	_, err = CalculateSMA([]float64{1, 2}, 0)
	assert.Error(t, err)
}

func TestCalculateRSI(t *testing.T) {
	_, err := CalculateRSI(linear(14, 10, 1), 14)
	assert.True(t, errors.Is(err, model.ErrInsufficientHistory))

	up, err := CalculateRSI(linear(30, 10, 1), 14)
	require.NoError(t, err)
	assert.Equal(t, 100.0, up)

	down, err := CalculateRSI(linear(30, 100, -1), 14)
	require.NoError(t, err)
	assert.Equal(t, 0.0, down)

	flat, err := CalculateRSI(linear(30, 10, 0), 14)
	require.NoError(t, err)
	assert.Equal(t, 50.0, flat)
}

func TestHighLowAndMidpoint(t *testing.T) {
	bars := makeBars([]float64{10, 20, 15})
	high, low, err := HighLow(bars, 3)
	require.NoError(t, err)
	assert.Equal(t, 21.0, high)
	assert.Equal(t, 9.0, low)

	mid, err := Midpoint(bars, 2)
	require.NoError(t, err)
	assert.Equal(t, (21.0+14.0)/2, mid)

	_, _, err = HighLow(bars, 4)
	assert.True(t, errors.Is(err, model.ErrInsufficientHistory))
}

func TestCalculate52WeekRange_ShortHistoryUsesAllBars(t *testing.T) {
	high, low, err := Calculate52WeekRange(makeBars([]float64{5, 8, 6}))
	require.NoError(t, err)
	assert.Equal(t, 9.0, high)
	assert.Equal(t, 4.0, low)

	_, _, err = Calculate52WeekRange(nil)
	assert.Error(t, err)
}

func TestCalculateIchimoku_CloudNeedsDisplacedHistory(t *testing.T) {
	p := DefaultParams
	need := p.SpanB + p.Displacement

	short := CalculateIchimoku(makeBars(linear(need-1, 10, 1)), p)
	assert.NotNil(t, short.Tenkan)
	assert.NotNil(t, short.Kijun)
	assert.Nil(t, short.CloudTop)
	assert.Nil(t, short.CloudBottom)

	full := CalculateIchimoku(makeBars(linear(need, 10, 1)), p)
	require.NotNil(t, full.CloudTop)
	require.NotNil(t, full.CloudBottom)
	assert.GreaterOrEqual(t, *full.CloudTop, *full.CloudBottom)

	// Cloud comes from bars that ended Displacement bars ago, so an uptrend
	// leaves today's close above it.
	assert.Greater(t, 10+float64(need-1), *full.CloudTop)
}

func TestCalculateIchimoku_TooShortForAnything(t *testing.T) {
	got := CalculateIchimoku(makeBars(linear(5, 10, 1)), DefaultParams)
	assert.Nil(t, got.Tenkan)
	assert.Nil(t, got.Kijun)
	assert.Nil(t, got.CloudTop)
}

func TestCalculateMACD(t *testing.T) {
	_, err := CalculateMACD(linear(20, 10, 1), 12, 26, 9)
	assert.True(t, errors.Is(err, model.ErrInsufficientHistory))

	flat, err := CalculateMACD(linear(60, 50, 0), 12, 26, 9)
	require.NoError(t, err)
	assert.InDelta(t, 0, flat.MACD, 1e-9)
	assert.InDelta(t, 0, flat.Signal, 1e-9)

	rising, err := CalculateMACD(linear(60, 50, 1), 12, 26, 9)
	require.NoError(t, err)
	assert.Greater(t, rising.MACD, 0.0)
}

func TestCalculateBollinger(t *testing.T) {
	_, err := CalculateBollinger(linear(10, 1, 1), 20, 2)
	assert.True(t, errors.Is(err, model.ErrInsufficientHistory))

	b, err := CalculateBollinger(linear(30, 42, 0), 20, 2)
	require.NoError(t, err)
	assert.InDelta(t, 42, b.Middle, 1e-9)
	assert.InDelta(t, 42, b.Upper, 1e-6)
	assert.InDelta(t, 42, b.Lower, 1e-6)

	b, err = CalculateBollinger(linear(30, 10, 1), 20, 2)
	require.NoError(t, err)
	assert.Greater(t, b.Upper, b.Middle)
	assert.Less(t, b.Lower, b.Middle)
}

func TestCompute_OmitsIndicatorsBelowWindow(t *testing.T) {
	snap := Compute(model.PriceSeries{Symbol: "NEW", Bars: makeBars(linear(4, 10, 1))}, DefaultParams)
	require.NotNil(t, snap)
	assert.Equal(t, 13.0, snap.Close)
	assert.Nil(t, snap.MA5)
	assert.Nil(t, snap.MA20)
	assert.Nil(t, snap.RSI)
	assert.Nil(t, snap.MACD)
	assert.Nil(t, snap.BollingerUpper)
	assert.Nil(t, snap.CloudTop)
	assert.Nil(t, snap.ATRPct)
	assert.Nil(t, snap.Return1W)
	assert.Nil(t, snap.VWAP20)
	assert.Nil(t, snap.HVNPrice)
	assert.Nil(t, snap.PivotLine)
	require.NotNil(t, snap.Prior)
	assert.Equal(t, 12.0, snap.Prior.Close)
}

func TestCompute_FullHistory(t *testing.T) {
	snap := Compute(model.PriceSeries{Symbol: "OLD", Bars: makeBars(linear(120, 10, 0.5))}, DefaultParams)
	require.NotNil(t, snap)
	for name, v := range map[string]*float64{
		"ma5": snap.MA5, "ma20": snap.MA20, "ma60": snap.MA60,
		"tenkan": snap.Tenkan, "kijun": snap.Kijun,
		"cloud_top": snap.CloudTop, "cloud_bottom": snap.CloudBottom,
		"rsi": snap.RSI, "macd": snap.MACD, "macd_signal": snap.MACDSignal,
		"bb_upper": snap.BollingerUpper, "bb_lower": snap.BollingerLower,
		"atr_pct": snap.ATRPct, "volume_ratio": snap.VolumeRatio,
		"support": snap.Support, "resistance": snap.Resistance,
		"return_1w": snap.Return1W, "return_1m": snap.Return1M, "return_3m": snap.Return3M,
		"vwap_20": snap.VWAP20, "csi": snap.CSI, "hvn": snap.HVNPrice, "hvn_proximity": snap.HVNProximity,
	} {
		assert.NotNil(t, v, name)
	}
	assert.Nil(t, snap.Return6M)
	assert.Nil(t, snap.Return1Y)
	assert.Greater(t, *snap.Return1M, 0.0)
	assert.Greater(t, *snap.CSI, 0.0)
	assert.Nil(t, snap.PivotLine, "uniform volume has no heavy swing")
	assert.InDelta(t, 1.0, *snap.VolumeRatio, 1e-9)
	require.NotNil(t, snap.Prior)
	assert.Less(t, *snap.Prior.MA5, *snap.MA5)
}

func TestCompute_Empty(t *testing.T) {
	assert.Nil(t, Compute(model.PriceSeries{}, DefaultParams))
}

func TestCalculateReturn(t *testing.T) {
	v, err := CalculateReturn([]float64{90, 100, 101, 102, 103, 104}, 5)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, v, 1e-9)

	_, err = CalculateReturn([]float64{100, 101}, Week)
	assert.True(t, errors.Is(err, model.ErrInsufficientHistory))

	_, err = CalculateReturn([]float64{0, 1, 2, 3, 4}, Week)
	assert.Error(t, err)
}

func TestCalculateVWAP(t *testing.T) {
	bars := []model.PriceBar{
		{High: 12, Low: 8, Close: 10, Volume: 100},
		{High: 22, Low: 18, Close: 20, Volume: 300},
	}
	v, err := CalculateVWAP(bars, 2)
	require.NoError(t, err)
	assert.InDelta(t, 17.5, v, 1e-9)

	_, err = CalculateVWAP(bars, 3)
	assert.True(t, errors.Is(err, model.ErrInsufficientHistory))

	_, err = CalculateVWAP([]model.PriceBar{{High: 1, Low: 1, Close: 1}}, 1)
	assert.Error(t, err)
}

func TestHighVolumeNode(t *testing.T) {
	bars := makeBars([]float64{10, 11, 12, 13, 20})
	bars[4].Volume = 10000

	v, err := HighVolumeNode(bars, 5)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, v, 1e-9, "only the busiest day clears the 80th percentile")

	flat, err := HighVolumeNode(makeBars([]float64{10, 12, 14}), 3)
	require.NoError(t, err)
	assert.InDelta(t, 12.0, flat, 1e-9)

	_, err = HighVolumeNode(bars, 6)
	assert.True(t, errors.Is(err, model.ErrInsufficientHistory))
}

func TestFindPivotLine(t *testing.T) {
	bars := makeBars(linear(20, 50, 0))
	bars[5] = model.PriceBar{Open: 56, High: 60, Low: 55, Close: 58, Volume: 3000}
	bars[12] = model.PriceBar{Open: 44, High: 45, Low: 40, Close: 42, Volume: 3000}
	bars[19] = model.PriceBar{Open: 20, High: 21, Low: 19, Close: 20.2, Volume: 1000}

	line, ok := FindPivotLine(bars, 20, 0.02)
	require.True(t, ok)
	// slope (40-60)/7 projected 14 bars past the high.
	assert.InDelta(t, 20.0, line.Price, 1e-9)
	assert.True(t, line.Falling)
	assert.True(t, line.Touched)

	_, ok = FindPivotLine(makeBars(linear(30, 10, 1)), 20, 0.02)
	assert.False(t, ok)

	_, ok = FindPivotLine(bars[:10], 20, 0.02)
	assert.False(t, ok)
}

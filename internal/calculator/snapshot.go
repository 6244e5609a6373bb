package calculator

import (
	"math"

	"PortfolioSentinel/internal/model"
)

// Params holds the indicator windows. All are overridable.
type Params struct {
	MAShort int
	MALong  int
	MATrend int

	Tenkan       int
	Kijun        int
	SpanB        int
	Displacement int

	RSI int

	MACDFast   int
	MACDSlow   int
	MACDSignal int

	BollingerPeriod int
	BollingerK      float64

	ATR       int
	VolumeAvg int
	SRWindow  int // support/resistance lookback

	VWAP            int
	ProfileLookback int     // bars for the volume node and pivot line
	PivotTolerance  float64 // fraction of close that counts as touching the pivot line
}

// DefaultParams are the standard windows.
var DefaultParams = Params{
	MAShort: 5, MALong: 20, MATrend: 60,
	Tenkan: 9, Kijun: 26, SpanB: 52, Displacement: 26,
	RSI:      14,
	MACDFast: 12, MACDSlow: 26, MACDSignal: 9,
	BollingerPeriod: 20, BollingerK: 2.0,
	ATR: 14, VolumeAvg: 20, SRWindow: 20,
	VWAP: 20, ProfileLookback: 60, PivotTolerance: 0.02,
}

// Compute builds the indicator snapshot at the last bar of series, with
// Prior set to the snapshot one bar earlier.
func Compute(series model.PriceSeries, p Params) *model.IndicatorSnapshot {
	bars := series.Bars
	if len(bars) == 0 {
		return nil
	}
	snap := computeAt(bars, p)
	if len(bars) > 1 {
		snap.Prior = computeAt(bars[:len(bars)-1], p)
	}
	return snap
}

func computeAt(bars []model.PriceBar, p Params) *model.IndicatorSnapshot {
	series := model.PriceSeries{Bars: bars}
	closes := series.Closes()
	last := bars[len(bars)-1]

	snap := &model.IndicatorSnapshot{
		Close: last.Close,
		MA5:   optionalSMA(closes, p.MAShort),
		MA20:  optionalSMA(closes, p.MALong),
		MA60:  optionalSMA(closes, p.MATrend),
	}

	ichi := CalculateIchimoku(bars, p)
	snap.Tenkan = ichi.Tenkan
	snap.Kijun = ichi.Kijun
	snap.CloudTop = ichi.CloudTop
	snap.CloudBottom = ichi.CloudBottom

	if v, err := CalculateRSI(closes, p.RSI); err == nil {
		snap.RSI = &v
	}
	if m, err := CalculateMACD(closes, p.MACDFast, p.MACDSlow, p.MACDSignal); err == nil {
		snap.MACD = model.Float(m.MACD)
		snap.MACDSignal = model.Float(m.Signal)
	}
	if b, err := CalculateBollinger(closes, p.BollingerPeriod, p.BollingerK); err == nil {
		snap.BollingerUpper = model.Float(b.Upper)
		snap.BollingerMiddle = model.Float(b.Middle)
		snap.BollingerLower = model.Float(b.Lower)
	}
	if atr, err := CalculateATR(bars, p.ATR); err == nil && last.Close != 0 {
		snap.ATRPct = model.Float(atr / last.Close * 100)
	}
	if avg, err := CalculateSMA(series.Volumes(), p.VolumeAvg); err == nil && avg > 0 {
		snap.VolumeRatio = model.Float(last.Volume / avg)
	}
	if high, low, err := Calculate52WeekRange(bars); err == nil {
		snap.High52w = &high
		snap.Low52w = &low
	}
	if high, low, err := HighLow(bars, p.SRWindow); err == nil {
		snap.Resistance = &high
		snap.Support = &low
	}

	snap.Return1W = optionalReturn(closes, Week)
	snap.Return1M = optionalReturn(closes, Month)
	snap.Return3M = optionalReturn(closes, Quarter)
	snap.Return6M = optionalReturn(closes, HalfYear)
	snap.Return1Y = optionalReturn(closes, Year)

	if vwap, err := CalculateVWAP(bars, p.VWAP); err == nil && vwap > 0 {
		snap.VWAP20 = &vwap
		snap.CSI = model.Float((last.Close - vwap) / vwap * 100)
	}
	if hvn, err := HighVolumeNode(bars, p.ProfileLookback); err == nil && last.Close != 0 {
		snap.HVNPrice = &hvn
		snap.HVNProximity = model.Float(math.Abs(last.Close-hvn) / last.Close * 100)
	}
	if line, ok := FindPivotLine(bars, p.ProfileLookback, p.PivotTolerance); ok {
		snap.PivotLine = &line
	}
	return snap
}

package strategy

import (
	"fmt"

	"PortfolioSentinel/internal/model"
)

// RSI zone boundaries.
const (
	rsiExtremeLow  = 20.0
	rsiOversold    = 30.0
	rsiOverbought  = 70.0
	rsiExtremeHigh = 80.0
)

// TechnicalSignals maps the indicator snapshot to unweighted signals.
// Crossover indicators emit nothing when no cross happened; band and zone
// indicators emit a neutral signal when price sits inside them. Omitted
// indicators never produce a signal.
func TechnicalSignals(snap *model.IndicatorSnapshot) []model.Signal {
	if snap == nil {
		return nil
	}
	var out []model.Signal
	for _, f := range []func(*model.IndicatorSnapshot) []model.Signal{
		scoreMACross,
		scoreIchimoku,
		scoreRSI,
		scoreMACD,
		scoreBollinger,
	} {
		out = append(out, f(snap)...)
	}
	return out
}

// cross compares a fast and slow line across two bars.
func cross(fast, slow, prevFast, prevSlow *float64) model.Direction {
	if fast == nil || slow == nil || prevFast == nil || prevSlow == nil {
		return model.Neutral
	}
	switch {
	case *prevFast <= *prevSlow && *fast > *slow:
		return model.Bullish
	case *prevFast >= *prevSlow && *fast < *slow:
		return model.Bearish
	default:
		return model.Neutral
	}
}

func prior(snap *model.IndicatorSnapshot) *model.IndicatorSnapshot {
	if snap.Prior == nil {
		return &model.IndicatorSnapshot{}
	}
	return snap.Prior
}

// scoreMACross detects the MA5/MA20 golden and dead cross.
func scoreMACross(snap *model.IndicatorSnapshot) []model.Signal {
	p := prior(snap)
	switch cross(snap.MA5, snap.MA20, p.MA5, p.MA20) {
	case model.Bullish:
		return []model.Signal{{Source: model.SourceMACross, Name: "golden_cross", Direction: model.Bullish,
			Detail: fmt.Sprintf("MA5 %.2f crossed above MA20 %.2f", *snap.MA5, *snap.MA20)}}
	case model.Bearish:
		return []model.Signal{{Source: model.SourceMACross, Name: "dead_cross", Direction: model.Bearish,
			Detail: fmt.Sprintf("MA5 %.2f crossed below MA20 %.2f", *snap.MA5, *snap.MA20)}}
	}
	return nil
}

// scoreIchimoku emits a cloud-position signal and, on a cross, a
// conversion/base line signal.
func scoreIchimoku(snap *model.IndicatorSnapshot) []model.Signal {
	var out []model.Signal
	if snap.CloudTop != nil && snap.CloudBottom != nil {
		sig := model.Signal{Source: model.SourceIchimoku}
		switch {
		case snap.Close > *snap.CloudTop:
			sig.Name, sig.Direction = "above_cloud", model.Bullish
		case snap.Close < *snap.CloudBottom:
			sig.Name, sig.Direction = "below_cloud", model.Bearish
		default:
			sig.Name, sig.Direction = "inside_cloud", model.Neutral
		}
		sig.Detail = fmt.Sprintf("close %.2f, cloud %.2f-%.2f", snap.Close, *snap.CloudBottom, *snap.CloudTop)
		out = append(out, sig)
	}
	p := prior(snap)
	if dir := cross(snap.Tenkan, snap.Kijun, p.Tenkan, p.Kijun); dir != model.Neutral {
		out = append(out, model.Signal{Source: model.SourceIchimoku, Name: "tk_cross", Direction: dir,
			Detail: fmt.Sprintf("tenkan %.2f / kijun %.2f", *snap.Tenkan, *snap.Kijun)})
	}
	return out
}

func scoreRSI(snap *model.IndicatorSnapshot) []model.Signal {
	if snap.RSI == nil {
		return nil
	}
	rsi := *snap.RSI
	sig := model.Signal{Source: model.SourceRSI, Detail: fmt.Sprintf("RSI %.1f", rsi)}
	switch {
	case rsi <= rsiExtremeLow:
		sig.Name, sig.Direction = "extreme_oversold", model.Bullish
	case rsi <= rsiOversold:
		sig.Name, sig.Direction = "oversold", model.Bullish
	case rsi >= rsiExtremeHigh:
		sig.Name, sig.Direction = "extreme_overbought", model.Bearish
	case rsi >= rsiOverbought:
		sig.Name, sig.Direction = "overbought", model.Bearish
	default:
		sig.Name, sig.Direction = "neutral", model.Neutral
	}
	return []model.Signal{sig}
}

func scoreMACD(snap *model.IndicatorSnapshot) []model.Signal {
	p := prior(snap)
	switch cross(snap.MACD, snap.MACDSignal, p.MACD, p.MACDSignal) {
	case model.Bullish:
		return []model.Signal{{Source: model.SourceMACD, Name: "bullish_cross", Direction: model.Bullish,
			Detail: fmt.Sprintf("MACD %.3f above signal %.3f", *snap.MACD, *snap.MACDSignal)}}
	case model.Bearish:
		return []model.Signal{{Source: model.SourceMACD, Name: "bearish_cross", Direction: model.Bearish,
			Detail: fmt.Sprintf("MACD %.3f below signal %.3f", *snap.MACD, *snap.MACDSignal)}}
	}
	return nil
}

func scoreBollinger(snap *model.IndicatorSnapshot) []model.Signal {
	if snap.BollingerUpper == nil || snap.BollingerLower == nil {
		return nil
	}
	sig := model.Signal{Source: model.SourceBollinger,
		Detail: fmt.Sprintf("close %.2f, band %.2f-%.2f", snap.Close, *snap.BollingerLower, *snap.BollingerUpper)}
	switch {
	case snap.Close >= *snap.BollingerUpper:
		sig.Name, sig.Direction = "upper_touch", model.Bearish
	case snap.Close <= *snap.BollingerLower:
		sig.Name, sig.Direction = "lower_touch", model.Bullish
	default:
		sig.Name, sig.Direction = "inside_band", model.Neutral
	}
	return []model.Signal{sig}
}

// PatternSignals emits one PATTERN signal per event. Duplicates are kept.
func PatternSignals(events []model.PatternEvent) []model.Signal {
	out := make([]model.Signal, 0, len(events))
	for _, e := range events {
		out = append(out, model.Signal{
			Source:    model.SourcePattern,
			Name:      string(e.Kind),
			Direction: e.Direction,
			Detail:    fmt.Sprintf("candle %d", e.CandleIndex),
		})
	}
	return out
}

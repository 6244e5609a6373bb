package strategy

import (
	"fmt"

	"PortfolioSentinel/internal/model"
)

// Suggested position sizes, percent of the portfolio.
const (
	strongBuySize = 30.0
	buySize       = 20.0
	cappedBuySize = 10.0
)

const (
	crashReturn1M  = -15.0 // one-month return called out on sells
	chaseCSI       = 10.0  // close this far above VWAP20 is chasing
	farFromNodePct = 15.0  // close this far from the volume node is a distant entry
)

// EntryZoneOf grades how close price sits to where recent buyers paid: the
// 20-day VWAP, the high-volume node and the pivot line, with oversold RSI as
// support. notes explain each point scored.
func EntryZoneOf(snap *model.IndicatorSnapshot) (zone model.EntryZone, points float64, notes []string) {
	if snap == nil || (snap.CSI == nil && snap.HVNProximity == nil) {
		return model.EntryZoneNone, 0, nil
	}
	if csi := snap.CSI; csi != nil {
		switch {
		case *csi >= -5 && *csi <= 2:
			points++
			notes = append(notes, fmt.Sprintf("price near 20-day VWAP (CSI %.1f%%), buyers at break-even", *csi))
		case *csi < -10:
			points += 0.5
			notes = append(notes, fmt.Sprintf("recent buyers under water (CSI %.1f%%)", *csi))
		case *csi > 10:
			points -= 0.5
			notes = append(notes, fmt.Sprintf("recent buyers in profit (CSI %.1f%%), profit-taking pressure", *csi))
		}
	}
	if prox := snap.HVNProximity; prox != nil && snap.HVNPrice != nil {
		switch {
		case *prox < 2:
			points++
			notes = append(notes, fmt.Sprintf("touching volume node %.2f (%.1f%% away)", *snap.HVNPrice, *prox))
		case *prox < 5:
			points += 0.5
			notes = append(notes, fmt.Sprintf("near volume node %.2f (%.1f%% away)", *snap.HVNPrice, *prox))
		}
	}
	if line := snap.PivotLine; line != nil && line.Touched {
		points++
		kind := "rising"
		if line.Falling {
			kind = "falling"
		}
		notes = append(notes, fmt.Sprintf("touching %s pivot line %.2f", kind, line.Price))
	}
	if snap.RSI != nil && *snap.RSI < 35 {
		points += 0.5
		notes = append(notes, fmt.Sprintf("RSI %.1f oversold", *snap.RSI))
	}

	switch {
	case points >= 2.5:
		zone = model.EntryZoneStrong
	case points >= 1.5:
		zone = model.EntryZoneNear
	default:
		zone = model.EntryZoneNone
	}
	return zone, points, notes
}

// advise sets confidence, position size, entry zone and reasoning on a
// classified recommendation. sentiment is the run's VIX label, or empty.
func advise(rec *model.Recommendation, snap *model.IndicatorSnapshot, sentiment string) {
	if rec.InsufficientData {
		rec.Confidence = model.ConfidenceLow
		rec.EntryZone = model.EntryZoneNone
		rec.Reasoning = []string{"not enough price or fundamental history to form a view"}
		return
	}

	zone, _, notes := EntryZoneOf(snap)
	rec.EntryZone = zone
	var reasons []string
	var size *float64

	class := rec.Classification
	switch {
	case class.Bullish():
		if class.Strong() {
			rec.Confidence = model.ConfidenceHigh
			size = model.Float(strongBuySize)
			reasons = append(reasons, "strong buy signal: front-load the staged entry")
		} else {
			rec.Confidence = model.ConfidenceMedium
			size = model.Float(buySize)
			reasons = append(reasons, "buy signal: conservative staged entry")
		}
		if zone != model.EntryZoneNone {
			reasons = append(reasons, fmt.Sprintf("entry zone %s: add near the volume node", zone))
			reasons = append(reasons, notes...)
		}

	case class == model.Sell || class == model.StrongSell:
		rec.Confidence = model.ConfidenceMedium
		if class.Strong() {
			rec.Confidence = model.ConfidenceHigh
		}
		size = model.Float(0)
		reasons = append(reasons, "sell signal: reduce the position")
		if snap != nil && snap.Return1M != nil && *snap.Return1M < crashReturn1M {
			reasons = append(reasons, fmt.Sprintf("down %.1f%% over a month: limit further losses", -*snap.Return1M))
		}

	default:
		rec.Confidence = model.ConfidenceMedium
		reasons = append(reasons, "no clear direction: keep the position and wait")
		switch {
		case zone != model.EntryZoneNone:
			reasons = append(reasons, fmt.Sprintf("entry zone %s forming: wait for the volume node", zone))
			reasons = append(reasons, notes...)
		case snap != nil && snap.Support != nil && snap.Resistance != nil:
			reasons = append(reasons, fmt.Sprintf("add if support %.2f holds or RSI drops below 30; trim on a failed break of %.2f",
				*snap.Support, *snap.Resistance))
		}
	}

	if class.Bullish() {
		switch sentiment {
		case model.SentimentExtremeFear:
			rec.Confidence = model.ConfidenceHigh
			reasons = append(reasons, "extreme fear in the market: contrarian entry")
		case model.SentimentExtremeGreed:
			rec.Confidence = model.ConfidenceLow
			size = model.Float(cappedBuySize)
			reasons = append(reasons, "extreme greed in the market: avoid chasing")
		}
		if warning := chaseWarning(snap); warning != "" {
			rec.Confidence = model.ConfidenceLow
			reasons = append(reasons, warning)
			if *size > cappedBuySize {
				size = model.Float(*size / 2)
				reasons = append(reasons, "entry away from the buyers' cost: position halved")
			}
		}
	}

	rec.PositionSizePct = size
	rec.Reasoning = reasons
}

// chaseWarning flags buy entries far above the crowd's cost basis.
func chaseWarning(snap *model.IndicatorSnapshot) string {
	if snap == nil {
		return ""
	}
	if snap.CSI != nil && *snap.CSI > chaseCSI {
		return fmt.Sprintf("chasing: close %.1f%% above the 20-day VWAP", *snap.CSI)
	}
	if snap.HVNProximity != nil && *snap.HVNProximity > farFromNodePct {
		return fmt.Sprintf("distant entry: close %.1f%% from the volume node", *snap.HVNProximity)
	}
	return ""
}

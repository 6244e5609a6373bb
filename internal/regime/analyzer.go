// Package regime classifies the broad market from volatility, index trend and rates.
package regime

import (
	"fmt"

	"PortfolioSentinel/internal/calculator"
	"PortfolioSentinel/internal/model"
)

// Thresholds holds the regime cut-offs.
type Thresholds struct {
	VIXCalm      float64 `yaml:"vix_calm"`       // below: calm enough for RISK_ON
	VIXPanic     float64 `yaml:"vix_panic"`      // at or above: RISK_OFF regardless
	TrendMA      int     `yaml:"trend_ma"`       // index close vs SMA(TrendMA)
	RateLookback int     `yaml:"rate_lookback"`  // bars for the rate change
	RateSpikePts float64 `yaml:"rate_spike_pts"` // yield rise treated as sharp
}

// DefaultThresholds are the standard cut-offs.
var DefaultThresholds = Thresholds{
	VIXCalm:      20,
	VIXPanic:     30,
	TrendMA:      20,
	RateLookback: 20,
	RateSpikePts: 0.25,
}

// Analyze classifies the market. Inputs that failed to load are skipped;
// with none available the class is UNKNOWN.
func Analyze(in model.MarketInputs, t Thresholds) model.MarketRegime {
	r := model.MarketRegime{
		SPYTrend: trend(in.SPY, t.TrendMA),
		QQQTrend: trend(in.QQQ, t.TrendMA),
	}
	if last, ok := in.VIX.Last(); ok {
		r.VIXLevel = model.Float(last.Close)
		r.Sentiment = Sentiment(last.Close)
	}
	if last, ok := in.Rate.Last(); ok {
		r.RateLevel = model.Float(last.Close)
		if n := in.Rate.Len(); n > t.RateLookback {
			r.RateChange = model.Float(last.Close - in.Rate.Bars[n-1-t.RateLookback].Close)
		}
	}
	r.Class = classify(r, t)
	return r
}

func classify(r model.MarketRegime, t Thresholds) model.RegimeClass {
	if r.VIXLevel == nil && r.RateLevel == nil &&
		r.SPYTrend == model.TrendUnknown && r.QQQTrend == model.TrendUnknown {
		return model.RegimeUnknown
	}

	rateSpike := r.RateChange != nil && *r.RateChange >= t.RateSpikePts
	bothDown := r.SPYTrend == model.TrendDown && r.QQQTrend == model.TrendDown
	bothUp := r.SPYTrend == model.TrendUp && r.QQQTrend == model.TrendUp

	switch {
	case r.VIXLevel != nil && *r.VIXLevel >= t.VIXPanic:
		return model.RegimeRiskOff
	case bothDown:
		return model.RegimeRiskOff
	case rateSpike && r.VIXLevel != nil && *r.VIXLevel >= t.VIXCalm:
		return model.RegimeRiskOff
	case bothUp && !rateSpike && r.VIXLevel != nil && *r.VIXLevel < t.VIXCalm:
		return model.RegimeRiskOn
	default:
		return model.RegimeNeutral
	}
}

func trend(s model.PriceSeries, period int) model.Trend {
	last, ok := s.Last()
	if !ok {
		return model.TrendUnknown
	}
	ma, err := calculator.CalculateSMA(s.Closes(), period)
	if err != nil {
		return model.TrendUnknown
	}
	switch {
	case last.Close > ma:
		return model.TrendUp
	case last.Close < ma:
		return model.TrendDown
	default:
		return model.TrendUnknown
	}
}

// Sentiment buckets the VIX level into a fear/greed label.
func Sentiment(vix float64) string {
	switch {
	case vix < 15:
		return model.SentimentExtremeGreed
	case vix < 20:
		return model.SentimentGreed
	case vix < 25:
		return model.SentimentNeutral
	case vix < 30:
		return model.SentimentFear
	default:
		return model.SentimentExtremeFear
	}
}

// Signal converts a regime into the single MARKET_REGIME vote shared by every
// holding in a run. ok is false when the regime is unknown.
func Signal(r model.MarketRegime) (sig model.Signal, ok bool) {
	var dir model.Direction
	switch r.Class {
	case model.RegimeRiskOn:
		dir = model.Bullish
	case model.RegimeRiskOff:
		dir = model.Bearish
	case model.RegimeNeutral:
		dir = model.Neutral
	default:
		return model.Signal{}, false
	}
	detail := string(r.Class)
	if r.VIXLevel != nil {
		detail = fmt.Sprintf("%s (VIX %.1f, SPY %s, QQQ %s)", r.Class, *r.VIXLevel, r.SPYTrend, r.QQQTrend)
	}
	return model.Signal{
		Source:    model.SourceMarketRegime,
		Name:      "regime",
		Direction: dir,
		Detail:    detail,
	}, true
}

package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"PortfolioSentinel/internal/model"
)

var (
	heavyRule = strings.Repeat("=", 60)
	lightRule = strings.Repeat("-", 60)
)

// FormatText renders the human-readable report.
func FormatText(w io.Writer, r *model.RunReport) error {
	b := bufio.NewWriter(w)

	fmt.Fprintln(b, heavyRule)
	fmt.Fprintln(b, "       PORTFOLIO ANALYSIS REPORT")
	fmt.Fprintln(b, heavyRule)
	fmt.Fprintf(b, "Run:      %s (%s)\n", r.ID, r.Trigger)
	fmt.Fprintf(b, "Analyzed: %s\n\n", r.FinishedAt.Format("2006-01-02 15:04:05"))

	writeRegime(b, r.Regime)

	for _, a := range r.Holdings {
		writeHolding(b, a)
	}
	if len(r.Context) > 0 {
		fmt.Fprintln(b, lightRule)
		fmt.Fprintln(b, "UNDERLYING CONTEXT")
		for _, a := range r.Context {
			writeHolding(b, a)
		}
	}

	counts := r.Counts()
	fmt.Fprintln(b, heavyRule)
	fmt.Fprintf(b, "Summary: %d holdings, %d failed |", len(r.Holdings), r.Failures())
	for _, c := range []model.Classification{model.StrongBuy, model.Buy, model.Hold, model.Sell, model.StrongSell} {
		if n := counts[c]; n > 0 {
			fmt.Fprintf(b, " %s=%d", c, n)
		}
	}
	fmt.Fprintln(b)
	return b.Flush()
}

func writeRegime(b io.Writer, m model.MarketRegime) {
	fmt.Fprintln(b, lightRule)
	fmt.Fprintf(b, "MARKET: %s\n", m.Class)
	fmt.Fprintln(b, lightRule)
	if m.VIXLevel != nil {
		fmt.Fprintf(b, "  VIX: %.2f (%s)\n", *m.VIXLevel, m.Sentiment)
	}
	fmt.Fprintf(b, "  SPY trend: %s | QQQ trend: %s\n", m.SPYTrend, m.QQQTrend)
	if m.RateLevel != nil {
		fmt.Fprintf(b, "  US 10Y: %.2f%%", *m.RateLevel)
		if m.RateChange != nil {
			fmt.Fprintf(b, " (%+.2f)", *m.RateChange)
		}
		fmt.Fprintln(b)
	}
	fmt.Fprintln(b)
}

func writeHolding(b io.Writer, a model.HoldingAnalysis) {
	money := moneyFormat(a.Holding.Market)

	fmt.Fprintln(b, lightRule)
	name := a.Holding.Name
	if name == "" {
		name = a.Symbol
	}
	fmt.Fprintf(b, "%s (%s)\n", name, a.Symbol)
	if a.Underlying != "" {
		fmt.Fprintf(b, "  analyzed with underlying %s as context\n", a.Underlying)
	}
	if a.ContextFor != "" {
		fmt.Fprintf(b, "  context for %s\n", a.ContextFor)
	}
	if a.Failed() {
		fmt.Fprintf(b, "  ERROR [%s]: %s\n", a.ErrorKind, a.Error)
	}

	rec := a.Recommendation
	if rec.InsufficientData {
		fmt.Fprintf(b, "Recommendation: %s (insufficient data)\n\n", rec.Classification)
		return
	}
	fmt.Fprintf(b, "Recommendation: %s  score %+.2f  confidence %s\n", rec.Classification, rec.Score, rec.Confidence)
	if rec.PositionSizePct != nil {
		fmt.Fprintf(b, "  Position: %.0f%% of portfolio\n", *rec.PositionSizePct)
	} else {
		fmt.Fprintln(b, "  Position: keep current")
	}

	if s := a.Indicators; s != nil {
		fmt.Fprintf(b, "  Close: "+money+"\n", s.Close)
		if s.High52w != nil && s.Low52w != nil {
			fmt.Fprintf(b, "  52w: "+money+" ~ "+money+"\n", *s.Low52w, *s.High52w)
		}
		if s.RSI != nil {
			fmt.Fprintf(b, "  RSI: %.1f\n", *s.RSI)
		}
		if s.MACD != nil && s.MACDSignal != nil {
			fmt.Fprintf(b, "  MACD: %.3f (signal %.3f)\n", *s.MACD, *s.MACDSignal)
		}
		if s.MA5 != nil && s.MA20 != nil {
			fmt.Fprintf(b, "  MA5/MA20: %.2f / %.2f\n", *s.MA5, *s.MA20)
		}
		if s.ATRPct != nil {
			fmt.Fprintf(b, "  ATR: %.2f%%\n", *s.ATRPct)
		}
		if s.Support != nil && s.Resistance != nil {
			fmt.Fprintf(b, "  Support/Resistance: "+money+" / "+money+"\n", *s.Support, *s.Resistance)
		}
		writeMomentum(b, s)
		writeVolumeProfile(b, s, money, rec.EntryZone)
	}

	if f := a.Fundamentals; f != nil && !f.Empty() {
		fmt.Fprint(b, "  Fundamentals:")
		if f.PERatio != nil {
			fmt.Fprintf(b, " P/E %.1f", *f.PERatio)
		}
		if f.PBRatio != nil {
			fmt.Fprintf(b, " P/B %.1f", *f.PBRatio)
		}
		if f.RevenueGrowth != nil {
			fmt.Fprintf(b, " growth %.1f%%", *f.RevenueGrowth*100)
		}
		if f.AnalystTargetPrice != nil {
			fmt.Fprintf(b, " target "+money, *f.AnalystTargetPrice)
		}
		fmt.Fprintln(b)
	}

	if len(a.Signals) > 0 {
		fmt.Fprintln(b, "  Signals:")
		for _, s := range a.Signals {
			fmt.Fprintf(b, "    %-8s %-28s %+5.2f  %s\n", s.Direction, s.Key(), s.Contribution(), s.Detail)
		}
	}

	if p := rec.TradePlan; p != nil {
		fmt.Fprintf(b, "  Plan: %s\n", p.Action)
		for i, price := range p.EntryTranches {
			fmt.Fprintf(b, "    tranche %d: "+money+" (%.0f%%)\n", i+1, price, p.Allocation[i]*100)
		}
		fmt.Fprintf(b, "    stop loss: "+money+" | take profit: "+money+"\n", p.StopLoss, p.TakeProfit)
	}
	if len(rec.Reasoning) > 0 {
		fmt.Fprintln(b, "  Reasoning:")
		for _, r := range rec.Reasoning {
			fmt.Fprintf(b, "    - %s\n", r)
		}
	}
	fmt.Fprintln(b)
}

func writeMomentum(b io.Writer, s *model.IndicatorSnapshot) {
	periods := []struct {
		label string
		v     *float64
	}{
		{"1w", s.Return1W}, {"1m", s.Return1M}, {"3m", s.Return3M}, {"6m", s.Return6M}, {"1y", s.Return1Y},
	}
	var parts []string
	for _, p := range periods {
		if p.v != nil {
			parts = append(parts, fmt.Sprintf("%s %+.1f%%", p.label, *p.v))
		}
	}
	if len(parts) > 0 {
		fmt.Fprintf(b, "  Momentum: %s\n", strings.Join(parts, " | "))
	}
}

func writeVolumeProfile(b io.Writer, s *model.IndicatorSnapshot, money string, zone model.EntryZone) {
	if s.VWAP20 == nil && s.HVNPrice == nil {
		return
	}
	fmt.Fprintf(b, "  Entry zone: %s\n", zone)
	if s.VWAP20 != nil && s.CSI != nil {
		fmt.Fprintf(b, "    VWAP20: "+money+" (CSI %+.1f%%)\n", *s.VWAP20, *s.CSI)
	}
	if s.HVNPrice != nil && s.HVNProximity != nil {
		fmt.Fprintf(b, "    Volume node: "+money+" (%.1f%% away)\n", *s.HVNPrice, *s.HVNProximity)
	}
	if l := s.PivotLine; l != nil {
		kind := "rising"
		if l.Falling {
			kind = "falling"
		}
		touch := ""
		if l.Touched {
			touch = ", touched"
		}
		fmt.Fprintf(b, "    Pivot line: "+money+" (%s%s)\n", l.Price, kind, touch)
	}
}

// moneyFormat returns a verb for prices in the holding's market.
func moneyFormat(market string) string {
	if strings.EqualFold(market, "kr") {
		return "₩%.0f"
	}
	return "$%.2f"
}

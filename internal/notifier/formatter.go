package notifier

import (
	"fmt"
	"html"
	"strings"

	"PortfolioSentinel/internal/model"
)

var classEmoji = map[model.Classification]string{
	model.StrongBuy:  "🟢🟢",
	model.Buy:        "🟢",
	model.Hold:       "⚪",
	model.Sell:       "🔴",
	model.StrongSell: "🔴🔴",
}

var regimeEmoji = map[model.RegimeClass]string{
	model.RegimeRiskOn:  "☀️",
	model.RegimeNeutral: "⛅",
	model.RegimeRiskOff: "⛈",
	model.RegimeUnknown: "❔",
}

// FormatRunSummary formats a run into a Telegram message.
func FormatRunSummary(r *model.RunReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📊 <b>Portfolio report</b> | %s\n", r.FinishedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "%s Market: <b>%s</b>", regimeEmoji[r.Regime.Class], r.Regime.Class)
	if r.Regime.VIXLevel != nil {
		fmt.Fprintf(&b, " (VIX %.1f, %s)", *r.Regime.VIXLevel, r.Regime.Sentiment)
	}
	b.WriteString("\n\n")

	for _, a := range r.Holdings {
		rec := a.Recommendation
		sym := html.EscapeString(a.Symbol)
		switch {
		case a.Failed():
			fmt.Fprintf(&b, "⚠️ %s: %s\n", sym, a.ErrorKind)
			continue
		case rec.InsufficientData:
			fmt.Fprintf(&b, "%s %s: HOLD (insufficient data)\n", classEmoji[model.Hold], sym)
			continue
		}
		fmt.Fprintf(&b, "%s <b>%s</b>: %s %+.2f", classEmoji[rec.Classification], sym, rec.Classification, rec.Score)
		if a.Underlying != "" {
			fmt.Fprintf(&b, " (via %s)", html.EscapeString(a.Underlying))
		}
		if rec.Confidence != "" {
			fmt.Fprintf(&b, " · %s", rec.Confidence)
		}
		if rec.PositionSizePct != nil {
			fmt.Fprintf(&b, " · size %.0f%%", *rec.PositionSizePct)
		}
		b.WriteString("\n")
		if p := rec.TradePlan; p != nil {
			fmt.Fprintf(&b, "   %s %s | SL %s | TP %s\n",
				p.Action, joinPrices(p.EntryTranches), price(p.StopLoss), price(p.TakeProfit))
		}
	}

	fmt.Fprintf(&b, "\n%d holdings, %d failed", len(r.Holdings), r.Failures())
	return b.String()
}

// FormatHelp lists the supported chat commands.
func FormatHelp() string {
	return "Commands:\n• /latest - last report summary\n• /run - analyze the portfolio now\n• /help - this message"
}

func joinPrices(ps []float64) string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = price(p)
	}
	return strings.Join(out, " / ")
}

func price(p float64) string {
	if p < 1 {
		return fmt.Sprintf("%.4f", p)
	}
	return fmt.Sprintf("%.2f", p)
}

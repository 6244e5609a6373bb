// Package fundamental turns valuation metrics into directional signals.
package fundamental

import (
	"fmt"
	"strings"

	"PortfolioSentinel/internal/model"
)

// Thresholds are the reference levels a metric is judged against.
type Thresholds struct {
	PELow        float64 `yaml:"pe_low"`
	PEHigh       float64 `yaml:"pe_high"`
	PBLow        float64 `yaml:"pb_low"`
	PBHigh       float64 `yaml:"pb_high"`
	GrowthStrong float64 `yaml:"growth_strong"` // used when prior growth is unknown
	TargetUpside float64 `yaml:"target_upside"`
}

// References holds default thresholds plus optional per-sector overrides.
type References struct {
	Default Thresholds            `yaml:"default"`
	Sectors map[string]Thresholds `yaml:"sectors"`
}

// DefaultReferences is used when no config overrides are given.
var DefaultReferences = References{
	Default: Thresholds{
		PELow:        15,
		PEHigh:       35,
		PBLow:        1.5,
		PBHigh:       5,
		GrowthStrong: 0.10,
		TargetUpside: 0.10,
	},
}

// For returns the thresholds for a sector, falling back to Default.
func (r References) For(sector string) Thresholds {
	for name, t := range r.Sectors {
		if strings.EqualFold(name, sector) {
			return t
		}
	}
	return r.Default
}

// Evaluate emits one FUNDAMENTAL signal per available metric. Signals carry
// no weight; the scoring engine assigns it.
func Evaluate(f *model.FundamentalSnapshot, refs References) []model.Signal {
	if f == nil {
		return nil
	}
	t := refs.For(f.Sector)
	var out []model.Signal
	emit := func(name string, dir model.Direction, detail string) {
		out = append(out, model.Signal{
			Source:    model.SourceFundamental,
			Name:      name,
			Direction: dir,
			Detail:    detail,
		})
	}

	if f.PERatio != nil {
		pe := *f.PERatio
		switch {
		case pe <= 0:
			emit("pe", model.Bearish, "no earnings")
		case pe < t.PELow:
			emit("pe", model.Bullish, fmt.Sprintf("P/E %.1f below %.1f", pe, t.PELow))
		case pe > t.PEHigh:
			emit("pe", model.Bearish, fmt.Sprintf("P/E %.1f above %.1f", pe, t.PEHigh))
		default:
			emit("pe", model.Neutral, fmt.Sprintf("P/E %.1f", pe))
		}
	}

	if f.PBRatio != nil {
		pb := *f.PBRatio
		switch {
		case pb < t.PBLow:
			emit("pb", model.Bullish, fmt.Sprintf("P/B %.2f below %.2f", pb, t.PBLow))
		case pb > t.PBHigh:
			emit("pb", model.Bearish, fmt.Sprintf("P/B %.2f above %.2f", pb, t.PBHigh))
		default:
			emit("pb", model.Neutral, fmt.Sprintf("P/B %.2f", pb))
		}
	}

	if f.RevenueGrowth != nil {
		g := *f.RevenueGrowth
		accelerating := g >= t.GrowthStrong
		if f.PriorRevenueGrowth != nil {
			accelerating = g > *f.PriorRevenueGrowth
		}
		switch {
		case g < 0:
			emit("revenue_growth", model.Bearish, fmt.Sprintf("revenue %.1f%%", g*100))
		case g > 0 && accelerating:
			emit("revenue_growth", model.Bullish, fmt.Sprintf("revenue +%.1f%% accelerating", g*100))
		default:
			emit("revenue_growth", model.Neutral, fmt.Sprintf("revenue %.1f%%", g*100))
		}
	}

	if f.AnalystTargetPrice != nil && f.CurrentPrice != nil && *f.CurrentPrice > 0 {
		upside := (*f.AnalystTargetPrice - *f.CurrentPrice) / *f.CurrentPrice
		switch {
		case upside >= t.TargetUpside:
			emit("analyst_target", model.Bullish, fmt.Sprintf("target %+.1f%%", upside*100))
		case upside < 0:
			emit("analyst_target", model.Bearish, fmt.Sprintf("target %+.1f%%", upside*100))
		default:
			emit("analyst_target", model.Neutral, fmt.Sprintf("target %+.1f%%", upside*100))
		}
	}
	return out
}

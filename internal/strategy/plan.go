package strategy

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"PortfolioSentinel/internal/model"
)

// PlanParams tunes the tranche ladder.
type PlanParams struct {
	TrancheCount        int       `yaml:"tranche_count"`
	BaseSpacing         float64   `yaml:"base_spacing"`          // fraction between tranches
	MaxSpacing          float64   `yaml:"max_spacing"`           // cap after volatility scaling
	ReferenceWidth      float64   `yaml:"reference_width"`       // Bollinger width that leaves spacing unscaled
	StrongSpacingFactor float64   `yaml:"strong_spacing_factor"` // tighter ladder for strong tiers
	StopBuffer          float64   `yaml:"stop_buffer"`           // fraction beyond the stop anchor
	MaxAnchorDistance   float64   `yaml:"max_anchor_distance"`   // MA20 ignored as anchor beyond this
	RewardRisk          float64   `yaml:"reward_risk"`
	StrongAllocation    []float64 `yaml:"strong_allocation"`
	NormalAllocation    []float64 `yaml:"normal_allocation"`
}

// DefaultPlanParams are the standard ladder settings.
var DefaultPlanParams = PlanParams{
	TrancheCount:        3,
	BaseSpacing:         0.03,
	MaxSpacing:          0.10,
	ReferenceWidth:      0.10,
	StrongSpacingFactor: 0.6,
	StopBuffer:          0.03,
	MaxAnchorDistance:   0.20,
	RewardRisk:          2.0,
	StrongAllocation:    []float64{0.5, 0.3, 0.2},
	NormalAllocation:    []float64{0.4, 0.3, 0.3},
}

// MinSpacing is the narrowest tranche spacing a configuration may produce,
// after the strong-tier factor.
const MinSpacing = 0.01

// Validate rejects parameter sets that cannot produce a monotonic ladder
// with a take-profit beyond the close.
func (p PlanParams) Validate() error {
	var errs []error
	if p.TrancheCount < 1 {
		errs = append(errs, errors.New("tranche_count must be >= 1"))
	}
	if p.BaseSpacing <= 0 || p.MaxSpacing < p.BaseSpacing {
		errs = append(errs, errors.New("spacing must satisfy 0 < base_spacing <= max_spacing"))
	}
	if narrowest := p.BaseSpacing * math.Min(1, p.StrongSpacingFactor); narrowest < MinSpacing {
		errs = append(errs, fmt.Errorf("base_spacing * strong_spacing_factor must be >= %.2f, got %.4f", MinSpacing, narrowest))
	}
	if float64(p.TrancheCount-1)*p.MaxSpacing >= 1 {
		errs = append(errs, errors.New("tranche_count * max_spacing would reach zero price"))
	}
	if p.ReferenceWidth <= 0 || p.StrongSpacingFactor <= 0 {
		errs = append(errs, errors.New("reference_width and strong_spacing_factor must be positive"))
	}
	if p.StopBuffer <= 0 || p.StopBuffer >= 1 {
		errs = append(errs, errors.New("stop_buffer must be in (0,1)"))
	}
	for name, alloc := range map[string][]float64{"strong_allocation": p.StrongAllocation, "normal_allocation": p.NormalAllocation} {
		for i := 1; i < len(alloc); i++ {
			if alloc[i] > alloc[i-1] {
				errs = append(errs, fmt.Errorf("%s must not increase down the ladder: %v", name, alloc))
				break
			}
		}
	}
	// With front-loaded allocations the last tranche sits at least as far
	// inside the average entry as the close sits outside it, so a ratio of 1
	// already clears the close.
	if p.RewardRisk < 1 {
		errs = append(errs, errors.New("reward_risk must be >= 1"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("plan params: %w: %w", model.ErrConfiguration, err)
	}
	return nil
}

// Spacing returns the distance between tranches for a tier, widened by
// Bollinger width when the band is wider than the reference.
func (p PlanParams) Spacing(class model.Classification, snap *model.IndicatorSnapshot) float64 {
	spacing := p.BaseSpacing
	if width, ok := snap.BollingerWidth(); ok && width > p.ReferenceWidth {
		spacing = p.BaseSpacing * width / p.ReferenceWidth
	}
	if spacing > p.MaxSpacing {
		spacing = p.MaxSpacing
	}
	if class.Strong() {
		spacing *= p.StrongSpacingFactor
	}
	return spacing
}

// Build returns the trade plan for a non-HOLD tier, or nil.
// Buy ladders descend from the close and sell ladders ascend; the stop sits
// beyond both the last tranche and the MA20 trend line, and the take-profit
// is RewardRisk times the entry-to-stop distance on the other side.
func (p PlanParams) Build(class model.Classification, snap *model.IndicatorSnapshot) *model.TradePlan {
	if class == model.Hold || snap == nil || snap.Close <= 0 {
		return nil
	}
	price := snap.Close
	spacing := p.Spacing(class, snap)
	side := -1.0
	action := model.ActionBuy
	if !class.Bullish() {
		side = 1.0
		action = model.ActionSell
	}

	tranches := make([]float64, p.TrancheCount)
	sum := 0.0
	for i := range tranches {
		tranches[i] = price * (1 + side*spacing*float64(i))
		sum += tranches[i]
	}
	avg := sum / float64(len(tranches))
	last := tranches[len(tranches)-1]

	anchor := last
	if snap.MA20 != nil {
		ma := *snap.MA20
		beyond := (side < 0 && ma < last) || (side > 0 && ma > last)
		if beyond && abs(ma-last)/last <= p.MaxAnchorDistance {
			anchor = ma
		}
	}
	stop := anchor * (1 + side*p.StopBuffer)
	risk := abs(avg - stop)
	target := avg - side*p.RewardRisk*risk

	places := pricePlaces(price, price*spacing)
	for i := range tranches {
		tranches[i] = round(tranches[i], places)
	}
	return &model.TradePlan{
		Action:        action,
		EntryTranches: tranches,
		Allocation:    p.allocation(class),
		StopLoss:      round(stop, places),
		TakeProfit:    round(target, places),
		SpacingPct:    round(spacing*100, 2),
	}
}

func (p PlanParams) allocation(class model.Classification) []float64 {
	alloc := p.NormalAllocation
	if class.Strong() {
		alloc = p.StrongAllocation
	}
	if len(alloc) == p.TrancheCount {
		return append([]float64(nil), alloc...)
	}
	out := make([]float64, p.TrancheCount)
	for i := range out {
		out[i] = 1 / float64(p.TrancheCount)
	}
	return out
}

// pricePlaces keeps sub-dollar prices from collapsing when rounded, and adds
// digits until one unit is at most half the tranche step so neighbouring
// tranches stay distinct.
func pricePlaces(price, step float64) int32 {
	places := int32(2)
	if price < 1 {
		places = 4
	}
	for places < 8 && math.Pow10(-int(places)) > step/2 {
		places++
	}
	return places
}

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

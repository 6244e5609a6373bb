package strategy

import (
	"math"

	"PortfolioSentinel/internal/model"
)

// Tiers maps a score to a classification, checked top to bottom.
// Inclusive tiers accept a score equal to MinScore; exclusive tiers need
// a strictly greater score. Scores in (-1, 1) fall into HOLD.
var Tiers = []struct {
	MinScore  float64
	Inclusive bool
	Class     model.Classification
}{
	{3, true, model.StrongBuy},
	{1, true, model.Buy},
	{-1, false, model.Hold},
	{-3, false, model.Sell},
}

// DefaultClass covers scores at or below -3.
const DefaultClass = model.StrongSell

// Classify maps a total score to its tier.
func Classify(score float64) model.Classification {
	for _, t := range Tiers {
		if score > t.MinScore || (t.Inclusive && score == t.MinScore) {
			return t.Class
		}
	}
	return DefaultClass
}

// Score sums direction × weight over all signals.
func Score(signals []model.Signal) float64 {
	total := 0.0
	for _, s := range signals {
		total += s.Contribution()
	}
	// Strip float noise from configured weights like 0.1 so tier
	// boundaries compare exactly.
	return math.Round(total*1e9) / 1e9
}

// Engine weighs signals and turns them into recommendations.
type Engine struct {
	Weights Weights
	Plan    PlanParams
}

// NewEngine returns an engine with the given tables.
func NewEngine(w Weights, p PlanParams) *Engine {
	return &Engine{Weights: w, Plan: p}
}

// Weigh returns copies of signals with their table weight assigned.
func (e *Engine) Weigh(signals []model.Signal) []model.Signal {
	out := make([]model.Signal, len(signals))
	for i, s := range signals {
		s.Weight = e.Weights.Lookup(s)
		out[i] = s
	}
	return out
}

// WeighPatterns returns copies of events with Strength = direction × weight.
func (e *Engine) WeighPatterns(events []model.PatternEvent) []model.PatternEvent {
	out := make([]model.PatternEvent, len(events))
	for i, ev := range events {
		w := e.Weights.Lookup(model.Signal{Source: model.SourcePattern, Name: string(ev.Kind)})
		ev.Strength = float64(ev.Direction) * w
		out[i] = ev
	}
	return out
}

// Evaluate computes the recommendation for one symbol from its weighted
// signals. The market regime alone is not an opinion about the symbol, so
// without any symbol-specific signal the result is an insufficient-data HOLD.
func (e *Engine) Evaluate(symbol string, snap *model.IndicatorSnapshot, signals []model.Signal) model.Recommendation {
	return e.EvaluateInMarket(symbol, snap, signals, "")
}

// EvaluateInMarket is Evaluate with the run's VIX sentiment, which tunes the
// confidence and size of buy recommendations but never the score.
func (e *Engine) EvaluateInMarket(symbol string, snap *model.IndicatorSnapshot, signals []model.Signal, sentiment string) model.Recommendation {
	rec := model.Recommendation{Symbol: symbol, Classification: model.Hold}

	specific := false
	for _, s := range signals {
		if s.Source.SymbolSpecific() {
			specific = true
			break
		}
	}
	if !specific {
		rec.InsufficientData = true
	} else {
		rec.Score = Score(signals)
		rec.Classification = Classify(rec.Score)
		if rec.Classification != model.Hold {
			rec.TradePlan = e.Plan.Build(rec.Classification, snap)
		}
	}
	advise(&rec, snap, sentiment)
	return rec
}

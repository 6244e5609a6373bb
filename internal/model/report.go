package model

import "time"

// RunTrigger indicates what started a run.
type RunTrigger string

const (
	TriggerManual    RunTrigger = "MANUAL"
	TriggerScheduled RunTrigger = "SCHEDULED"
	TriggerAPI       RunTrigger = "API"
	TriggerTelegram  RunTrigger = "TELEGRAM"
)

// HoldingAnalysis is the per-symbol output of a run.
type HoldingAnalysis struct {
	Holding        Holding              `json:"holding"`
	Symbol         string               `json:"symbol"` // symbol actually analyzed
	Underlying     string               `json:"underlying,omitempty"`
	ContextFor     string               `json:"context_for,omitempty"`
	Indicators     *IndicatorSnapshot   `json:"indicators,omitempty"`
	Patterns       []PatternEvent       `json:"patterns,omitempty"`
	Fundamentals   *FundamentalSnapshot `json:"fundamentals,omitempty"`
	Signals        []Signal             `json:"signals"`
	Recommendation Recommendation       `json:"recommendation"`
	Error          string               `json:"error,omitempty"`
	ErrorKind      string               `json:"error_kind,omitempty"`
}

// Failed reports whether the symbol could not be analyzed.
func (a HoldingAnalysis) Failed() bool { return a.Error != "" }

// RunReport is the complete output of one run.
type RunReport struct {
	ID         string            `json:"id"`
	Trigger    RunTrigger        `json:"trigger"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Regime     MarketRegime      `json:"market_regime"`
	Holdings   []HoldingAnalysis `json:"holdings"`
	Context    []HoldingAnalysis `json:"context,omitempty"`
}

// Counts returns the number of holdings per classification.
func (r *RunReport) Counts() map[Classification]int {
	out := make(map[Classification]int)
	for _, h := range r.Holdings {
		out[h.Recommendation.Classification]++
	}
	return out
}

// Failures returns the number of holdings that could not be analyzed.
func (r *RunReport) Failures() int {
	n := 0
	for _, h := range r.Holdings {
		if h.Failed() {
			n++
		}
	}
	return n
}

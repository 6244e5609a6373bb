package recorder

import (
	"context"
	"time"

	"PortfolioSentinel/internal/model"
)

// RecommendationRow is one persisted per-symbol outcome.
type RecommendationRow struct {
	RunID            string    `db:"run_id" json:"run_id"`
	Symbol           string    `db:"symbol" json:"symbol"`
	ContextFor       string    `db:"context_for" json:"context_for,omitempty"`
	Classification   string    `db:"classification" json:"classification"`
	Score            float64   `db:"score" json:"score"`
	InsufficientData bool      `db:"insufficient_data" json:"insufficient_data"`
	ErrorKind        string    `db:"error_kind" json:"error_kind,omitempty"`
	Close            *float64  `db:"close_price" json:"close,omitempty"`
	StopLoss         *float64  `db:"stop_loss" json:"stop_loss,omitempty"`
	TakeProfit       *float64  `db:"take_profit" json:"take_profit,omitempty"`
	RecordedAt       time.Time `db:"-" json:"recorded_at"`
	RecordedUnix     int64     `db:"recorded_at" json:"-"`
}

// Recorder persists run history for later review.
type Recorder interface {
	RecordRun(ctx context.Context, report *model.RunReport) error
	// LatestRun returns nil without error when nothing has been recorded.
	LatestRun(ctx context.Context) (*model.RunReport, error)
	History(ctx context.Context, symbol string, limit int) ([]RecommendationRow, error)
	Close() error
}

// rowsFor flattens a report into recommendation rows, context analyses included.
func rowsFor(report *model.RunReport) []RecommendationRow {
	var rows []RecommendationRow
	add := func(a model.HoldingAnalysis) {
		row := RecommendationRow{
			RunID:            report.ID,
			Symbol:           a.Symbol,
			ContextFor:       a.ContextFor,
			Classification:   string(a.Recommendation.Classification),
			Score:            a.Recommendation.Score,
			InsufficientData: a.Recommendation.InsufficientData,
			ErrorKind:        a.ErrorKind,
			RecordedUnix:     report.FinishedAt.Unix(),
		}
		if a.Indicators != nil {
			row.Close = model.Float(a.Indicators.Close)
		}
		if p := a.Recommendation.TradePlan; p != nil {
			row.StopLoss = model.Float(p.StopLoss)
			row.TakeProfit = model.Float(p.TakeProfit)
		}
		rows = append(rows, row)
	}
	for _, a := range report.Holdings {
		add(a)
	}
	for _, a := range report.Context {
		add(a)
	}
	return rows
}

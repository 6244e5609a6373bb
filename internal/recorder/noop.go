package recorder

import (
	"context"

	"PortfolioSentinel/internal/model"
)

// NoopRecorder is used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(context.Context, *model.RunReport) error { return nil }
func (n *NoopRecorder) LatestRun(context.Context) (*model.RunReport, error) {
	return nil, nil
}
func (n *NoopRecorder) History(context.Context, string, int) ([]RecommendationRow, error) {
	return nil, nil
}
func (n *NoopRecorder) Close() error { return nil }

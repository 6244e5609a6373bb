package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioSentinel/internal/model"
)

func TestObserveRun(t *testing.T) {
	r := NewRegistry()
	finished := time.Unix(1_750_000_000, 0)
	report := &model.RunReport{
		StartedAt:  finished.Add(-3 * time.Second),
		FinishedAt: finished,
		Holdings: []model.HoldingAnalysis{
			{Symbol: "AAPL", Recommendation: model.Recommendation{Classification: model.Buy}},
			{Symbol: "MSFT", Recommendation: model.Recommendation{Classification: model.Buy}},
			{Symbol: "GONE", Error: "x", ErrorKind: "DATA_UNAVAILABLE", Recommendation: model.Recommendation{Classification: model.Hold, InsufficientData: true}},
		},
	}

	r.ObserveRun(model.TriggerScheduled, report, nil)
	r.ObserveRun(model.TriggerAPI, nil, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.Runs.WithLabelValues("SCHEDULED", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Runs.WithLabelValues("API", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.Evaluated.WithLabelValues("BUY")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Evaluated.WithLabelValues("HOLD")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.SymbolFailures.WithLabelValues("DATA_UNAVAILABLE")))
	assert.Equal(t, 1_750_000_000.0, testutil.ToFloat64(r.LastRun))
}

func TestObserveFetchAndHandler(t *testing.T) {
	r := NewRegistry()
	r.ObserveFetch("yahoo", "daily_bars", 200*time.Millisecond, nil)
	r.ObserveFetch("yahoo", "daily_bars", time.Second, model.ErrDataUnavailable)
	r.ObserveFetch("eodhd", "fundamentals", time.Second, errors.New("timeout"))

	assert.Equal(t, 3, testutil.CollectAndCount(r.FetchDuration))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `sentinel_fetch_duration_seconds_count{op="daily_bars",provider="yahoo",result="unavailable"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

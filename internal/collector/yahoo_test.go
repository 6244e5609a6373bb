package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioSentinel/internal/model"
)

const chartJSON = `{"chart":{"result":[{"timestamp":[1700172800,1700000000,1700086400],
"indicators":{"quote":[{"open":[12,10,null],"high":[13,11,null],"low":[11,9,null],"close":[12.5,10.5,null],"volume":[300,100,null]}]}}],"error":null}}`

const summaryJSON = `{"quoteSummary":{"result":[{
"summaryDetail":{"trailingPE":{"raw":28.4,"fmt":"28.40"}},
"defaultKeyStatistics":{"priceToBook":{"raw":40.1}},
"financialData":{"currentPrice":{"raw":190.5},"targetMeanPrice":{"raw":210},"revenueGrowth":{}},
"assetProfile":{"sector":"Technology"}}],"error":null}}`

func newYahooTest(t *testing.T, handler http.HandlerFunc) *YahooFetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	f := NewYahooFetcher("", 100)
	f.BaseURL = srv.URL
	return f
}

func TestYahooFetcher_FetchDailyBars(t *testing.T) {
	var gotPath, gotQuery string
	f := newYahooTest(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		w.Write([]byte(chartJSON))
	})

	bars, err := f.FetchDailyBars(context.Background(), "VIX", 300)
	require.NoError(t, err)
	assert.Equal(t, "/v8/finance/chart/^VIX", gotPath)
	assert.Contains(t, gotQuery, "range=1y")

	require.Len(t, bars, 2, "null bar skipped")
	assert.Equal(t, 10.5, bars[0].Close, "sorted ascending")
	assert.Equal(t, 12.5, bars[1].Close)
	assert.Equal(t, 300.0, bars[1].Volume)
}

func TestYahooFetcher_TrimsToDays(t *testing.T) {
	f := newYahooTest(t, func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(chartJSON)) })
	bars, err := f.FetchDailyBars(context.Background(), "X", 1)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 12.5, bars[0].Close)
}

func TestYahooFetcher_Errors(t *testing.T) {
	f := newYahooTest(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "MISSING"):
			w.WriteHeader(http.StatusNotFound)
		case strings.Contains(r.URL.Path, "EMPTY"):
			w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
		case strings.Contains(r.URL.Path, "BAD"):
			w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	ctx := context.Background()

	for _, sym := range []string{"MISSING", "EMPTY", "BAD"} {
		_, err := f.FetchDailyBars(ctx, sym, 100)
		assert.True(t, errors.Is(err, model.ErrDataUnavailable), "%s: %v", sym, err)
	}
	_, err := f.FetchDailyBars(ctx, "BOOM", 100)
	require.Error(t, err)
	assert.False(t, errors.Is(err, model.ErrDataUnavailable))
}

func TestYahooFetcher_FetchFundamentals(t *testing.T) {
	f := newYahooTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v10/finance/quoteSummary/AAPL")
		w.Write([]byte(summaryJSON))
	})
	snap, err := f.FetchFundamentals(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Technology", snap.Sector)
	require.NotNil(t, snap.PERatio)
	assert.Equal(t, 28.4, *snap.PERatio)
	assert.Equal(t, 40.1, *snap.PBRatio)
	assert.Equal(t, 210.0, *snap.AnalystTargetPrice)
	assert.Equal(t, 190.5, *snap.CurrentPrice)
	assert.Nil(t, snap.RevenueGrowth, "empty raw object is absent")
}

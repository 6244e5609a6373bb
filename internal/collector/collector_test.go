package collector

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioSentinel/internal/cache"
	"PortfolioSentinel/internal/model"
)

var errBoom = errors.New("provider down")

func TestCollector_Series(t *testing.T) {
	m := &MockFetcher{
		Price: 50,
		Bars:  map[string][]model.PriceBar{"EMPTY": {}},
		Fail:  map[string]error{"DOWN": errBoom},
	}
	c := NewCollector(m, 120)
	ctx := context.Background()

	s, err := c.Series(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 120, s.Len())
	assert.Equal(t, "AAPL", s.Symbol)

	_, err = c.Series(ctx, "EMPTY")
	assert.True(t, errors.Is(err, model.ErrDataUnavailable))

	_, err = c.Series(ctx, "DOWN")
	assert.True(t, errors.Is(err, errBoom))
}

func TestCollector_FundamentalsDegradeToNil(t *testing.T) {
	pe := 20.0
	m := &MockFetcher{Fundamentals: map[string]*model.FundamentalSnapshot{"AAPL": {Symbol: "AAPL", PERatio: &pe}}}
	c := NewCollector(m, 0)
	ctx := context.Background()

	assert.NotNil(t, c.Fundamentals(ctx, "AAPL"))
	assert.Nil(t, c.Fundamentals(ctx, "MSFT"))
	assert.Nil(t, c.Fundamentals(ctx, "BTC-USD"))
	assert.Nil(t, c.Fundamentals(ctx, "^VIX"))
}

func TestCollector_MarketInputsPartial(t *testing.T) {
	m := &MockFetcher{Price: 20, Fail: map[string]error{"^TNX": errBoom}}
	in := NewCollector(m, 60).MarketInputs(context.Background(), DefaultMarketSymbols)
	assert.Equal(t, 60, in.VIX.Len())
	assert.Equal(t, 60, in.SPY.Len())
	assert.Equal(t, 60, in.QQQ.Len())
	assert.Equal(t, 0, in.Rate.Len())
}

func TestResilientFetcher_TripsOnOutage(t *testing.T) {
	m := &MockFetcher{Fail: map[string]error{"A": errBoom, "B": errBoom, "C": errBoom, "D": errBoom}}
	var observed []error
	f := NewResilientFetcher(m, 3, time.Minute, func(provider, op string, _ time.Duration, err error) {
		assert.Equal(t, "mock", provider)
		assert.Equal(t, "bars", op)
		observed = append(observed, err)
	})
	ctx := context.Background()

	for _, sym := range []string{"A", "B", "C"} {
		_, err := f.FetchDailyBars(ctx, sym, 10)
		assert.True(t, errors.Is(err, errBoom))
	}
	_, err := f.FetchDailyBars(ctx, "D", 10)
	assert.True(t, errors.Is(err, model.ErrDataUnavailable), "open breaker fails fast: %v", err)
	assert.Equal(t, 0, m.Calls["D"])
	assert.Len(t, observed, 4)
	assert.Equal(t, "open", f.State())
}

func TestResilientFetcher_UnknownSymbolsDoNotTrip(t *testing.T) {
	missing := errors.Join(model.ErrDataUnavailable)
	m := &MockFetcher{Price: 10, Fail: map[string]error{"X1": missing, "X2": missing, "X3": missing}}
	f := NewResilientFetcher(m, 2, time.Minute, nil)
	ctx := context.Background()
	for _, sym := range []string{"X1", "X2", "X3"} {
		_, _ = f.FetchDailyBars(ctx, sym, 10)
	}
	bars, err := f.FetchDailyBars(ctx, "OK", 10)
	require.NoError(t, err)
	assert.Len(t, bars, 10)
	assert.Equal(t, "closed", f.State())
}

func TestCachedFetcher(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := cache.NewRedisStoreWithClient(db, "")
	day := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	fresh := []model.PriceBar{{Time: day.AddDate(0, 0, -1), Close: 7}, {Time: day, Close: 8}}
	m := &MockFetcher{Price: 10, Bars: map[string][]model.PriceBar{"MSFT": fresh}}
	f := NewCachedFetcher(m, store, time.Hour)
	f.now = func() time.Time { return day }
	ctx := context.Background()

	key := cache.BarsKey("mock", "AAPL", 5, day)
	cached := []model.PriceBar{{Time: day, Close: 42}}
	data, _ := json.Marshal(cached)
	mock.ExpectGet(key).SetVal(string(data))

	bars, err := f.FetchDailyBars(ctx, "AAPL", 5)
	require.NoError(t, err)
	assert.Equal(t, 42.0, bars[0].Close)
	assert.Equal(t, 0, m.Calls["AAPL"], "served from cache")

	missKey := cache.BarsKey("mock", "MSFT", 5, day)
	mock.ExpectGet(missKey).RedisNil()
	freshData, _ := json.Marshal(fresh)
	mock.ExpectSet(missKey, string(freshData), time.Hour).SetVal("OK")

	bars, err = f.FetchDailyBars(ctx, "MSFT", 5)
	require.NoError(t, err)
	assert.Equal(t, fresh, bars)
	assert.Equal(t, 1, m.Calls["MSFT"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
